package layout

// Text alignment values, matching the underlying PDF primitives
const (
	AlignLeft   = "L"
	AlignCenter = "C"
	AlignRight  = "R"
)

// Vertical alignment values for two-column cells
const (
	VAlignTop    = "T"
	VAlignMiddle = "M"
	VAlignBottom = "B"
)

// Block is one visual element of the document flow
type Block interface {
	isBlock()
}

// Span is an inline text fragment with its own weight and size.
// Size 0 inherits the base font size.
type Span struct {
	Text string
	Bold bool
	Size float64
}

// Line is one rendered line composed of inline spans
type Line []Span

// TextBlock is rich text: a sequence of lines, each built from spans
type TextBlock struct {
	Lines      []Line
	Align      string
	SpaceAfter float64 // millimeters
}

func (TextBlock) isBlock() {}

// PlainText builds a single-line TextBlock
func PlainText(text string, bold bool) *TextBlock {
	return &TextBlock{Lines: []Line{{Span{Text: text, Bold: bold}}}}
}

// ImageBlock places raster image bytes at an explicit size. A block with
// no data is skipped entirely.
type ImageBlock struct {
	Data       []byte
	Format     string // PNG, JPG or GIF
	Width      float64
	Height     float64
	SpaceAfter float64
}

func (ImageBlock) isBlock() {}

// Cell is one side of a TwoColumnBlock: text, an image, or empty. An
// empty cell still reserves its column width so omitting content never
// shifts the opposite column.
type Cell struct {
	Text   *TextBlock
	Image  *ImageBlock
	VAlign string // defaults to top
}

// TwoColumnBlock lays two cells side by side with fixed widths.
// Widths are relative weights scaled to the content width; both zero
// means an even split.
type TwoColumnBlock struct {
	Left       Cell
	Right      Cell
	LeftWidth  float64
	RightWidth float64
	SpaceAfter float64
}

func (TwoColumnBlock) isBlock() {}

// Column describes one column of an ItemTable. Width is a relative
// weight scaled against the sum of all weights.
type Column struct {
	Header string
	Width  float64
	Align  string
}

// SummaryRow is a trailing borderless row of the item table. With a
// Value it renders as a right-aligned label/value pair over the last
// columns; with an empty Value the Label spans the full table width
// (the amount-in-words row).
type SummaryRow struct {
	Label     string
	Value     string
	Bold      bool
	Small     bool
	RuleAbove bool
}

// ItemTable is the itemized table: one header row, N data rows with grid
// borders, and M borderless trailing summary rows.
type ItemTable struct {
	Columns    []Column
	Rows       [][]string
	Summary    []SummaryRow
	SpaceAfter float64
}

func (ItemTable) isBlock() {}
