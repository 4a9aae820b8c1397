package layout

import "fmt"

// RGB is an RGB color
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Margins represents the page margins in millimeters
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// StyleConfig is the immutable styling passed into each layout call.
// No process-wide styling state survives between invocations.
type StyleConfig struct {
	PageSize       string  // A4, Letter, Legal
	Orientation    string  // P (portrait) or L (landscape)
	Margins        Margins // millimeters
	FontFamily     string  // Helvetica, Times, Courier
	BaseFontSize   float64
	TitleFontSize  float64
	SmallFontSize  float64
	LineHeight     float64 // millimeters per text line
	TitleColor     RGB
	TextColor      RGB
	HeaderFill     RGB // table header background
	HeaderText     RGB // table header text
	RuleColor      RGB
	CurrencySymbol string
}

// DefaultStyle returns the standard invoice styling
func DefaultStyle() StyleConfig {
	return StyleConfig{
		PageSize:       "A4",
		Orientation:    "P",
		Margins:        Margins{Top: 12.7, Right: 12.7, Bottom: 12.7, Left: 12.7},
		FontFamily:     "Helvetica",
		BaseFontSize:   10,
		TitleFontSize:  24,
		SmallFontSize:  8,
		LineHeight:     5.5,
		TitleColor:     RGB{R: 46, G: 64, B: 87},
		TextColor:      RGB{R: 68, G: 68, B: 68},
		HeaderFill:     RGB{R: 46, G: 64, B: 87},
		HeaderText:     RGB{R: 245, G: 245, B: 245},
		RuleColor:      RGB{R: 0, G: 0, B: 0},
		CurrencySymbol: "Rs. ",
	}
}

var validPageSizes = map[string]bool{"A4": true, "A5": true, "Letter": true, "Legal": true}
var validFontFamilies = map[string]bool{"Helvetica": true, "Times": true, "Courier": true, "Arial": true}

// Validate checks the style configuration before any drawing starts
func (s StyleConfig) Validate() error {
	if !validPageSizes[s.PageSize] {
		return NewRenderError(ErrCodeInvalidStyle, fmt.Sprintf("invalid page size: %q", s.PageSize), nil)
	}
	if s.Orientation != "P" && s.Orientation != "L" {
		return NewRenderError(ErrCodeInvalidStyle, fmt.Sprintf("invalid orientation: %q", s.Orientation), nil)
	}
	if !validFontFamilies[s.FontFamily] {
		return NewRenderError(ErrCodeInvalidStyle, fmt.Sprintf("invalid font family: %q", s.FontFamily), nil)
	}
	if s.BaseFontSize <= 0 || s.TitleFontSize <= 0 || s.SmallFontSize <= 0 {
		return NewRenderError(ErrCodeInvalidStyle, "font sizes must be positive", nil)
	}
	if s.LineHeight <= 0 {
		return NewRenderError(ErrCodeInvalidStyle, "line height must be positive", nil)
	}
	m := s.Margins
	if m.Top < 0 || m.Right < 0 || m.Bottom < 0 || m.Left < 0 {
		return NewRenderError(ErrCodeInvalidStyle, "margins cannot be negative", nil)
	}
	if m.Top > 100 || m.Right > 100 || m.Bottom > 100 || m.Left > 100 {
		return NewRenderError(ErrCodeInvalidStyle, "margins cannot exceed 100mm", nil)
	}
	return nil
}
