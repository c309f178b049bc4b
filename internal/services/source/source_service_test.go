package source

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><head><style>body{}</style></head><body>
			<nav>skip this</nav>
			<article><h1>Quarterly Review</h1><p>Revenue grew <strong>12%</strong>.</p></article>
			<footer>skip this too</footer>
		</body></html>`))
	}))
	defer server.Close()

	svc := NewService(arbor.Logger())
	text, err := svc.FromURL(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "Quarterly Review")
	assert.Contains(t, text, "12%")
	assert.NotContains(t, text, "skip this")
}

func TestFromURLErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewService(arbor.Logger())
	_, err := svc.FromURL(context.Background(), server.URL)
	assert.ErrorContains(t, err, "404")
}

func TestFromURLRejectsNonHTTP(t *testing.T) {
	svc := NewService(arbor.Logger())
	_, err := svc.FromURL(context.Background(), "ftp://example.com/deck")
	assert.Error(t, err)
}

func TestFromPDFRejectsOversize(t *testing.T) {
	svc := NewService(arbor.Logger())
	_, err := svc.FromPDF(context.Background(), bytes.NewReader(nil), maxPDFSize+1)
	assert.ErrorContains(t, err, "maximum size")
}

func TestFromPDFRejectsGarbage(t *testing.T) {
	svc := NewService(arbor.Logger())
	_, err := svc.FromPDF(context.Background(), strings.NewReader("not a pdf"), 9)
	assert.Error(t, err)
}
