package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"unicode/utf8"

	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"
)

const DefaultUserAgent = "Mozilla/5.0"

var errUnexpectedStatus = errors.New("unexpected response status")

// Fetcher returns the decoded text of a source: a local file path or a URL.
type Fetcher interface {
	Fetch(ctx context.Context, source string) (string, error)
}

// FetchError reports an unreadable or unreachable source. StatusCode is set
// when a server answered with something other than 200.
type FetchError struct {
	Source     string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// SourceFetcher reads existing files from disk and visits everything else
// once with a colly collector.
type SourceFetcher struct {
	detector  EncodingDetector
	userAgent string
	logger    *logrus.Logger
}

func New(detector EncodingDetector, userAgent string, logger *logrus.Logger) *SourceFetcher {
	if detector == nil {
		detector = NewChardetDetector()
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SourceFetcher{detector: detector, userAgent: userAgent, logger: logger}
}

func (f *SourceFetcher) Fetch(ctx context.Context, source string) (string, error) {
	if isLocalFile(source) {
		return f.readFile(source)
	}
	return f.visit(ctx, source)
}

func isLocalFile(source string) bool {
	info, err := os.Stat(source)
	return err == nil && info.Mode().IsRegular()
}

func (f *SourceFetcher) readFile(path string) (string, error) {
	f.logger.Infof("Reading local file: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &FetchError{Source: path, Err: err}
	}

	encoding, confidence := f.detector.Detect(data)
	f.logger.WithFields(logrus.Fields{
		"encoding":   encoding,
		"confidence": fmt.Sprintf("%.2f", confidence),
	}).Info("Detected file encoding")

	content, err := Decode(data, encoding)
	if err != nil {
		return "", &FetchError{Source: path, Err: err}
	}

	f.logger.Infof("File read, size: %d characters", utf8.RuneCountInString(content))
	return content, nil
}

func (f *SourceFetcher) visit(ctx context.Context, url string) (string, error) {
	f.logger.Infof("Downloading page: %s", url)

	c := colly.NewCollector(
		colly.UserAgent(f.userAgent),
		colly.StdlibContext(ctx),
	)

	var body []byte
	status := 0

	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
		body = r.Body
	})

	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			status = r.StatusCode
		}
	})

	if err := c.Visit(url); err != nil {
		return "", &FetchError{Source: url, StatusCode: status, Err: err}
	}

	if status != http.StatusOK {
		return "", &FetchError{Source: url, StatusCode: status, Err: errUnexpectedStatus}
	}

	f.logger.Infof("Page downloaded, size: %d bytes", len(body))
	return string(body), nil
}
