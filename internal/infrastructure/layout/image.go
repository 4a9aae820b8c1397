package layout

import "bytes"

var (
	pngMagic  = []byte{0x89, 0x50, 0x4E, 0x47}
	jpegMagic = []byte{0xFF, 0xD8, 0xFF}
	gifMagic  = []byte("GIF8")
)

// DetectImageFormat sniffs the raster format of an image blob and returns
// the format tag the engine expects. Unknown blobs yield an asset-level
// RenderError; callers treat that as recoverable and drop the image.
func DetectImageFormat(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, pngMagic):
		return "PNG", nil
	case bytes.HasPrefix(data, jpegMagic):
		return "JPG", nil
	case bytes.HasPrefix(data, gifMagic):
		return "GIF", nil
	default:
		return "", NewRenderError(ErrCodeImageDecode, "unrecognized image format", nil)
	}
}
