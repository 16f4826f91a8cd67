package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

type fixedDetector struct {
	name string
}

func (d fixedDetector) Detect([]byte) (string, float64) {
	return d.name, 1
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

const page = `<html><body><div class="listing-item"><span class="price">500 000 ₸</span></div></body></html>`

func TestFetchLocalFileWithDetectedEncoding(t *testing.T) {
	cyrillic := `<div class="listing-item"><span class="price">500 000 руб.</span><span class="address">ул. Ленина, 5</span></div>`
	encoded, err := charmap.Windows1251.NewEncoder().String(cyrillic)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "saved.html")
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0o644))

	f := New(fixedDetector{name: "windows-1251"}, "", quietLogger())
	content, err := f.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, cyrillic, content)
}

func TestFetchLocalUTF8File(t *testing.T) {
	text := strings.Repeat(`<div class="listing-item"><span class="address">ул. Ленина, дом пять, квартира семь</span></div>`, 20)

	path := filepath.Join(t.TempDir(), "saved.html")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))

	f := New(nil, "", quietLogger())
	content, err := f.Fetch(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, text, content)
}

func TestFetchURL(t *testing.T) {
	var gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	}))
	defer srv.Close()

	f := New(nil, "", quietLogger())
	content, err := f.Fetch(context.Background(), srv.URL+"/list")
	require.NoError(t, err)
	assert.Equal(t, page, content)
	assert.Equal(t, DefaultUserAgent, gotAgent)
}

func TestFetchURLNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := New(nil, "", quietLogger())
	_, err := f.Fetch(context.Background(), srv.URL+"/missing")
	require.Error(t, err)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
	assert.Equal(t, srv.URL+"/missing", fetchErr.Source)
}

func TestFetchUnreachableSource(t *testing.T) {
	f := New(nil, "", quietLogger())
	_, err := f.Fetch(context.Background(), filepath.Join(t.TempDir(), "does-not-exist.html"))

	var fetchErr *FetchError
	assert.True(t, errors.As(err, &fetchErr))
}

func TestDecode(t *testing.T) {
	encoded, err := charmap.Windows1251.NewEncoder().String("Центральный")
	require.NoError(t, err)

	out, err := Decode([]byte(encoded), "windows-1251")
	require.NoError(t, err)
	assert.Equal(t, "Центральный", out)

	out, err = Decode([]byte("plain"), "no-such-encoding")
	require.NoError(t, err)
	assert.Equal(t, "plain", out)
}

func TestChardetDetectorEmptyInput(t *testing.T) {
	name, confidence := NewChardetDetector().Detect(nil)
	assert.Equal(t, "utf-8", name)
	assert.Zero(t, confidence)
}
