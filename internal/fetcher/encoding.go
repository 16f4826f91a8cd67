package fetcher

import (
	"fmt"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

const defaultEncoding = "utf-8"

// EncodingDetector guesses the text encoding of raw bytes. Confidence is in
// [0, 1].
type EncodingDetector interface {
	Detect(data []byte) (name string, confidence float64)
}

type ChardetDetector struct {
	detector *chardet.Detector
}

func NewChardetDetector() *ChardetDetector {
	return &ChardetDetector{detector: chardet.NewHtmlDetector()}
}

func (d *ChardetDetector) Detect(data []byte) (string, float64) {
	if len(data) == 0 {
		return defaultEncoding, 0
	}

	result, err := d.detector.DetectBest(data)
	if err != nil || result == nil || result.Charset == "" {
		return defaultEncoding, 0
	}
	return result.Charset, float64(result.Confidence) / 100
}

// Decode converts data from the named encoding to UTF-8. Unknown names fall
// back to UTF-8.
func Decode(data []byte, name string) (string, error) {
	var enc encoding.Encoding = unicode.UTF8
	if e, err := htmlindex.Get(name); err == nil {
		enc = e
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", name, err)
	}
	return string(out), nil
}
