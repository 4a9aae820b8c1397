package layout

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 46, G: 64, B: 87, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func sampleTable() ItemTable {
	return ItemTable{
		Columns: []Column{
			{Header: "#", Width: 1, Align: AlignCenter},
			{Header: "Description", Width: 5, Align: AlignLeft},
			{Header: "Qty", Width: 1.5, Align: AlignCenter},
			{Header: "Unit Price", Width: 2, Align: AlignRight},
			{Header: "Amount", Width: 2, Align: AlignRight},
		},
		Rows: [][]string{
			{"1", "Web Development Services", "1", "1,500.00", "1,500.00"},
			{"2", "Consulting Hours", "10", "100.00", "1,000.00"},
		},
		Summary: []SummaryRow{
			{Label: "Subtotal", Value: "2,500.00"},
			{Label: "Tax (10%)", Value: "250.00"},
			{Label: "Amount Payable", Value: "2,750.00", Bold: true, RuleAbove: true},
			{Label: "Amount in Words: Two Thousand Seven Hundred Fifty Rupees Only", Small: true},
		},
	}
}

func TestEngine_Layout(t *testing.T) {
	engine := NewEngine()

	blocks := []Block{
		TextBlock{
			Lines:      []Line{{Span{Text: "INVOICE", Bold: true, Size: 24}}},
			SpaceAfter: 5,
		},
		TwoColumnBlock{
			Left: Cell{Text: &TextBlock{Lines: []Line{
				{Span{Text: "From:", Bold: true}},
				{Span{Text: "Acme Studios"}},
			}}},
			Right: Cell{Text: &TextBlock{
				Lines: []Line{{Span{Text: "Invoice #: ", Bold: true}, Span{Text: "INV-001"}}},
				Align: AlignRight,
			}},
			SpaceAfter: 6,
		},
		sampleTable(),
		PlainText("Payment due within 30 days", false),
	}

	doc, err := engine.Layout(blocks, DefaultStyle())
	require.NoError(t, err)
	require.NotNil(t, doc)

	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")), "output should be a PDF")
	assert.Equal(t, 1, doc.PageCount)
}

func TestEngine_LayoutWithImage(t *testing.T) {
	engine := NewEngine()
	logo := testPNG(t)

	blocks := []Block{
		TwoColumnBlock{
			Left:  Cell{Image: &ImageBlock{Data: logo, Format: "PNG", Width: 30, Height: 15}},
			Right: Cell{Text: PlainText("Acme Studios", true), VAlign: VAlignMiddle},
		},
		ImageBlock{Data: logo, Format: "PNG", Width: 20, Height: 10, SpaceAfter: 4},
	}

	doc, err := engine.Layout(blocks, DefaultStyle())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))
}

func TestPage_SetSpanColor(t *testing.T) {
	style := DefaultStyle()
	pdf := gofpdf.New(style.Orientation, "mm", style.PageSize, "")
	pdf.AddPage()
	p := &page{pdf: pdf, style: style}

	p.setSpanColor(Span{Text: "INVOICE", Size: style.TitleFontSize})
	r, g, b := pdf.GetTextColor()
	assert.Equal(t, style.TitleColor, RGB{R: r, G: g, B: b})

	p.setSpanColor(Span{Text: "Subtotal"})
	r, g, b = pdf.GetTextColor()
	assert.Equal(t, style.TextColor, RGB{R: r, G: g, B: b})
}

func TestEngine_EmptyImageCellKeepsLayout(t *testing.T) {
	engine := NewEngine()

	header := func(img *ImageBlock) []Block {
		return []Block{
			TwoColumnBlock{
				Left:  Cell{Image: img},
				Right: Cell{Text: PlainText("Acme Studios", true)},
			},
			sampleTable(),
		}
	}

	withEmpty, err := engine.Layout(header(nil), DefaultStyle())
	require.NoError(t, err)
	withAbsent, err := engine.Layout(header(&ImageBlock{Width: 30, Height: 15}), DefaultStyle())
	require.NoError(t, err)

	// Same block structure, same page count; only the image cell differs
	assert.Equal(t, withEmpty.PageCount, withAbsent.PageCount)
}

func TestEngine_InvalidStyle(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name   string
		mutate func(*StyleConfig)
	}{
		{"bad page size", func(s *StyleConfig) { s.PageSize = "A0" }},
		{"bad orientation", func(s *StyleConfig) { s.Orientation = "X" }},
		{"bad font", func(s *StyleConfig) { s.FontFamily = "Comic Sans" }},
		{"zero font size", func(s *StyleConfig) { s.BaseFontSize = 0 }},
		{"zero line height", func(s *StyleConfig) { s.LineHeight = 0 }},
		{"negative margin", func(s *StyleConfig) { s.Margins.Left = -1 }},
		{"oversized margin", func(s *StyleConfig) { s.Margins.Top = 200 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			style := DefaultStyle()
			tt.mutate(&style)

			_, err := engine.Layout([]Block{PlainText("x", false)}, style)
			require.Error(t, err)

			var renderErr *RenderError
			require.ErrorAs(t, err, &renderErr)
			assert.Equal(t, ErrCodeInvalidStyle, renderErr.Code)
		})
	}
}

func TestEngine_TableErrors(t *testing.T) {
	engine := NewEngine()

	t.Run("no columns", func(t *testing.T) {
		_, err := engine.Layout([]Block{ItemTable{}}, DefaultStyle())
		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, ErrCodeLayoutFailed, renderErr.Code)
	})

	t.Run("zero column width", func(t *testing.T) {
		table := ItemTable{Columns: []Column{{Header: "A", Width: 0}}}
		_, err := engine.Layout([]Block{table}, DefaultStyle())
		require.Error(t, err)
	})

	t.Run("row length mismatch", func(t *testing.T) {
		table := ItemTable{
			Columns: []Column{{Header: "A", Width: 1}, {Header: "B", Width: 1}},
			Rows:    [][]string{{"only one"}},
		}
		_, err := engine.Layout([]Block{table}, DefaultStyle())
		var renderErr *RenderError
		require.ErrorAs(t, err, &renderErr)
		assert.Equal(t, ErrCodeLayoutFailed, renderErr.Code)
	})
}

type bogusBlock struct{}

func (bogusBlock) isBlock() {}

func TestEngine_UnknownBlock(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Layout([]Block{bogusBlock{}}, DefaultStyle())
	require.Error(t, err)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeUnknownBlock, renderErr.Code)
}

func TestDetectImageFormat(t *testing.T) {
	pngData := testPNG(t)

	format, err := DetectImageFormat(pngData)
	require.NoError(t, err)
	assert.Equal(t, "PNG", format)

	format, err = DetectImageFormat([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00})
	require.NoError(t, err)
	assert.Equal(t, "JPG", format)

	format, err = DetectImageFormat([]byte("GIF89a"))
	require.NoError(t, err)
	assert.Equal(t, "GIF", format)

	_, err = DetectImageFormat([]byte("not an image"))
	require.Error(t, err)

	var renderErr *RenderError
	require.ErrorAs(t, err, &renderErr)
	assert.Equal(t, ErrCodeImageDecode, renderErr.Code)
}

func TestRenderError_Unwrap(t *testing.T) {
	cause := assert.AnError
	err := NewRenderError(ErrCodeOutputFailed, "output failed", cause)

	assert.Equal(t, "output failed: "+cause.Error(), err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewRenderError(ErrCodeLayoutFailed, "boom", nil)
	assert.Equal(t, "boom", bare.Error())
}
