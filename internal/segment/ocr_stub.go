//go:build !ocr

package segment

// NewOCRSegmenter reports ErrOCRUnavailable; Tesseract support is compiled
// in only with the "ocr" build tag.
func NewOCRSegmenter(opts OCROptions) (Segmenter, error) {
	return nil, ErrOCRUnavailable
}
