package layout

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"
)

// Document is the finished page output
type Document struct {
	Data      []byte
	PageCount int
}

// Engine assembles an ordered block sequence into a single fixed-size
// page flow. It holds no per-document state; one Engine serves any
// number of concurrent Layout calls.
type Engine struct {
	logger *zap.Logger
}

// EngineOption is a functional option for Engine configuration
type EngineOption func(*Engine)

// WithLogger sets a custom logger for the engine
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a new layout engine
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Layout renders the block sequence under the given style and returns the
// document bytes. The flow is continuous: content past the nominal page
// height spills onto follow-on pages via the underlying auto page break.
func (e *Engine) Layout(blocks []Block, style StyleConfig) (*Document, error) {
	if err := style.Validate(); err != nil {
		return nil, err
	}

	pdf := gofpdf.New(style.Orientation, "mm", style.PageSize, "")
	pdf.SetMargins(style.Margins.Left, style.Margins.Top, style.Margins.Right)
	pdf.SetAutoPageBreak(true, style.Margins.Bottom)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	st := &page{
		pdf:      pdf,
		style:    style,
		x0:       style.Margins.Left,
		contentW: pageW - style.Margins.Left - style.Margins.Right,
	}

	for i, b := range blocks {
		var err error
		switch blk := b.(type) {
		case TextBlock:
			err = st.drawTextBlock(&blk, st.x0, st.contentW)
		case *TextBlock:
			err = st.drawTextBlock(blk, st.x0, st.contentW)
		case TwoColumnBlock:
			err = st.drawTwoColumn(&blk)
		case *TwoColumnBlock:
			err = st.drawTwoColumn(blk)
		case ItemTable:
			err = st.drawItemTable(&blk)
		case *ItemTable:
			err = st.drawItemTable(blk)
		case ImageBlock:
			err = st.drawImageBlock(&blk)
		case *ImageBlock:
			err = st.drawImageBlock(blk)
		default:
			return nil, NewRenderError(ErrCodeUnknownBlock, fmt.Sprintf("unknown block type at index %d: %T", i, b), nil)
		}
		if err != nil {
			return nil, err
		}
	}

	if pdf.Err() {
		return nil, NewRenderError(ErrCodeLayoutFailed, "document assembly failed", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, NewRenderError(ErrCodeOutputFailed, "failed to write document output", err)
	}

	e.logger.Debug("document assembled",
		zap.Int("blocks", len(blocks)),
		zap.Int("pages", pdf.PageCount()),
		zap.Int("bytes", buf.Len()),
	)

	return &Document{Data: buf.Bytes(), PageCount: pdf.PageCount()}, nil
}

// page carries the drawing state of one Layout call
type page struct {
	pdf      *gofpdf.Fpdf
	style    StyleConfig
	x0       float64
	contentW float64
	imageSeq int
}

func (p *page) setFont(bold bool, size float64) {
	styleStr := ""
	if bold {
		styleStr = "B"
	}
	if size <= 0 {
		size = p.style.BaseFontSize
	}
	p.pdf.SetFont(p.style.FontFamily, styleStr, size)
}

// spanWidth returns the drawn width of a span plus a small fitting pad
func (p *page) spanWidth(s Span) float64 {
	p.setFont(s.Bold, s.Size)
	return p.pdf.GetStringWidth(s.Text) + 0.8
}

// lineHeightFor returns the line advance for a set of spans, growing with
// oversized spans (titles)
func (p *page) lineHeightFor(line Line) float64 {
	h := p.style.LineHeight
	for _, s := range line {
		if s.Size > p.style.BaseFontSize {
			scaled := p.style.LineHeight * s.Size / p.style.BaseFontSize
			if scaled > h {
				h = scaled
			}
		}
	}
	return h
}

// drawLine draws one line of spans inside [x, x+width) honoring alignment
func (p *page) drawLine(line Line, x, width float64, align string) {
	total := 0.0
	for _, s := range line {
		total += p.spanWidth(s)
	}

	startX := x
	switch align {
	case AlignCenter:
		startX = x + (width-total)/2
	case AlignRight:
		startX = x + width - total
	}
	if startX < x {
		startX = x
	}

	lineH := p.lineHeightFor(line)
	y := p.pdf.GetY()
	p.pdf.SetXY(startX, y)
	for _, s := range line {
		p.setFont(s.Bold, s.Size)
		p.setSpanColor(s)
		w := p.spanWidth(s)
		p.pdf.CellFormat(w, lineH, s.Text, "", 0, AlignLeft, false, 0, "")
	}
	p.pdf.SetXY(p.x0, y+lineH)
}

// setSpanColor picks the text color for one span. Spans at title size
// draw in the title color, everything else in the body color.
func (p *page) setSpanColor(s Span) {
	c := p.style.TextColor
	if s.Size >= p.style.TitleFontSize && s.Size > p.style.BaseFontSize {
		c = p.style.TitleColor
	}
	p.pdf.SetTextColor(c.R, c.G, c.B)
}

func (p *page) textHeight(tb *TextBlock) float64 {
	h := 0.0
	for _, line := range tb.Lines {
		h += p.lineHeightFor(line)
	}
	return h
}

func (p *page) drawTextBlock(tb *TextBlock, x, width float64) error {
	p.pdf.SetTextColor(p.style.TextColor.R, p.style.TextColor.G, p.style.TextColor.B)
	for _, line := range tb.Lines {
		p.drawLine(line, x, width, tb.Align)
	}
	if tb.SpaceAfter > 0 {
		p.pdf.SetY(p.pdf.GetY() + tb.SpaceAfter)
	}
	return nil
}

func (p *page) drawImage(ib *ImageBlock, x, y float64) error {
	p.imageSeq++
	name := fmt.Sprintf("blockimg-%d", p.imageSeq)
	opts := gofpdf.ImageOptions{ImageType: ib.Format}
	p.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(ib.Data))
	if p.pdf.Err() {
		return NewRenderError(ErrCodeImageDecode, "failed to decode image data", p.pdf.Error())
	}
	p.pdf.ImageOptions(name, x, y, ib.Width, ib.Height, false, opts, 0, "")
	return nil
}

func (p *page) drawImageBlock(ib *ImageBlock) error {
	if len(ib.Data) == 0 {
		return nil
	}
	y := p.pdf.GetY()
	if err := p.drawImage(ib, p.x0, y); err != nil {
		return err
	}
	p.pdf.SetXY(p.x0, y+ib.Height+ib.SpaceAfter)
	return nil
}

func (p *page) cellHeight(c Cell) float64 {
	switch {
	case c.Image != nil && len(c.Image.Data) > 0:
		return c.Image.Height
	case c.Text != nil:
		return p.textHeight(c.Text)
	default:
		return 0
	}
}

func (p *page) drawCell(c Cell, x, y, width, rowH float64) error {
	h := p.cellHeight(c)
	startY := y
	switch c.VAlign {
	case VAlignMiddle:
		startY = y + (rowH-h)/2
	case VAlignBottom:
		startY = y + rowH - h
	}

	if c.Image != nil && len(c.Image.Data) > 0 {
		return p.drawImage(c.Image, x, startY)
	}
	if c.Text != nil {
		p.pdf.SetY(startY)
		p.pdf.SetTextColor(p.style.TextColor.R, p.style.TextColor.G, p.style.TextColor.B)
		for _, line := range c.Text.Lines {
			p.drawLine(line, x, width, c.Text.Align)
		}
	}
	return nil
}

func (p *page) drawTwoColumn(blk *TwoColumnBlock) error {
	leftW, rightW := blk.LeftWidth, blk.RightWidth
	if leftW <= 0 && rightW <= 0 {
		leftW, rightW = 1, 1
	}
	total := leftW + rightW
	lw := p.contentW * leftW / total
	rw := p.contentW - lw

	y0 := p.pdf.GetY()
	rowH := p.cellHeight(blk.Left)
	if h := p.cellHeight(blk.Right); h > rowH {
		rowH = h
	}

	if err := p.drawCell(blk.Left, p.x0, y0, lw, rowH); err != nil {
		return err
	}
	if err := p.drawCell(blk.Right, p.x0+lw, y0, rw, rowH); err != nil {
		return err
	}

	p.pdf.SetXY(p.x0, y0+rowH+blk.SpaceAfter)
	return nil
}

func (p *page) drawItemTable(blk *ItemTable) error {
	if len(blk.Columns) == 0 {
		return NewRenderError(ErrCodeLayoutFailed, "item table requires at least one column", nil)
	}

	totalWeight := 0.0
	for _, col := range blk.Columns {
		if col.Width <= 0 {
			return NewRenderError(ErrCodeLayoutFailed, fmt.Sprintf("column %q must have a positive width", col.Header), nil)
		}
		totalWeight += col.Width
	}
	widths := make([]float64, len(blk.Columns))
	for i, col := range blk.Columns {
		widths[i] = p.contentW * col.Width / totalWeight
	}

	rowH := p.style.LineHeight * 1.3
	s := p.style

	// Header row: filled, light bold centered text
	p.pdf.SetFillColor(s.HeaderFill.R, s.HeaderFill.G, s.HeaderFill.B)
	p.pdf.SetTextColor(s.HeaderText.R, s.HeaderText.G, s.HeaderText.B)
	p.setFont(true, s.BaseFontSize)
	y := p.pdf.GetY()
	p.pdf.SetXY(p.x0, y)
	for i, col := range blk.Columns {
		p.pdf.CellFormat(widths[i], rowH, col.Header, "1", 0, AlignCenter, true, 0, "")
	}
	y += rowH

	// Data rows: grid borders on item rows only
	p.pdf.SetTextColor(s.TextColor.R, s.TextColor.G, s.TextColor.B)
	p.setFont(false, s.BaseFontSize)
	for rowIdx, row := range blk.Rows {
		if len(row) != len(blk.Columns) {
			return NewRenderError(ErrCodeLayoutFailed,
				fmt.Sprintf("row %d has %d cells, expected %d", rowIdx+1, len(row), len(blk.Columns)), nil)
		}
		p.pdf.SetXY(p.x0, y)
		for i, cell := range row {
			align := blk.Columns[i].Align
			if align == "" {
				align = AlignLeft
			}
			p.pdf.CellFormat(widths[i], rowH, cell, "1", 0, align, false, 0, "")
		}
		y += rowH
	}

	// Trailing summary rows: borderless, ruled line above the payable row
	lastW := widths[len(widths)-1]
	ruleW := lastW
	if len(widths) > 1 {
		ruleW += widths[len(widths)-2]
	}
	for _, sum := range blk.Summary {
		size := s.BaseFontSize
		if sum.Small {
			size = s.SmallFontSize
		}
		p.setFont(sum.Bold, size)

		if sum.RuleAbove {
			p.pdf.SetDrawColor(s.RuleColor.R, s.RuleColor.G, s.RuleColor.B)
			p.pdf.SetLineWidth(0.4)
			p.pdf.Line(p.x0+p.contentW-ruleW, y, p.x0+p.contentW, y)
		}

		p.pdf.SetXY(p.x0, y)
		if sum.Value == "" {
			// Full-span row (amount in words)
			p.pdf.CellFormat(p.contentW, rowH, sum.Label, "", 0, AlignLeft, false, 0, "")
		} else {
			p.pdf.CellFormat(p.contentW-lastW, rowH, sum.Label, "", 0, AlignRight, false, 0, "")
			p.pdf.CellFormat(lastW, rowH, sum.Value, "", 0, AlignRight, false, 0, "")
		}
		y += rowH
	}

	p.pdf.SetXY(p.x0, y+blk.SpaceAfter)
	return nil
}
