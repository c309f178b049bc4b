package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/prezo/internal/models"
)

// 1x1 transparent PNG
var tinyPNG = mustDecode("iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg==")

func mustDecode(s string) []byte {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		panic(err)
	}
	return data
}

func testTheme() *models.Theme {
	return &models.Theme{
		Name:        "midnight",
		Background:  "1e293b",
		Surface:     "334155",
		Accent:      "38bdf8",
		TextPrimary: "f8fafc",
		TextMuted:   "94a3b8",
		ChartColors: []string{"38bdf8", "818cf8", "f471b5", "fbbf24", "a3e635", "4ade80"},
	}
}

func readZipPart(t *testing.T, r *zip.Reader, name string) string {
	t.Helper()
	for _, f := range r.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			return string(data)
		}
	}
	t.Fatalf("part %s not found in package", name)
	return ""
}

func TestPPTXWriterWrite(t *testing.T) {
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(tinyPNG)
	deck := &models.Deck{
		Title: "Quarterly Review",
		Slides: []*models.Slide{
			{ID: "s1", Title: "Quarterly Review", Layout: models.LayoutTitle, Content: []string{"FY26 Q2"}},
			{ID: "s2", Title: "Highlights", Layout: models.LayoutDefault, Content: []string{"Revenue up", "Churn down"}, ImageURL: dataURL, ImagePosition: models.ImageLeft},
			{ID: "s3", Title: "Revenue", Layout: models.LayoutBarChart, Content: []string{`[{"label":"Q1","value":10},{"label":"Q2","value":20}]`}},
			{ID: "s4", Title: "SWOT", Layout: models.LayoutSwotAnalysis, Content: []string{"Fast", "Small team", "New market", "Rivals"}},
			{ID: "s5", Title: "Org", Layout: models.LayoutHierarchy, Content: []string{`{"name":"CEO","children":[{"name":"CTO","children":[]}]}`}},
		},
	}

	w := newPPTXWriter(testTheme(), arbor.Logger())
	data, err := w.write(context.Background(), deck)
	require.NoError(t, err)

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range r.File {
		names[f.Name] = true
	}
	for _, want := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/slide5.xml",
		"ppt/media/image1.png",
	} {
		assert.True(t, names[want], "missing part %s", want)
	}
	assert.False(t, names["ppt/slides/slide6.xml"])

	presentation := readZipPart(t, r, "ppt/presentation.xml")
	assert.Equal(t, 5, strings.Count(presentation, "<p:sldId "))
	assert.Contains(t, presentation, `cx="12192000" cy="6858000"`)

	slide1 := readZipPart(t, r, "ppt/slides/slide1.xml")
	assert.Contains(t, slide1, "Quarterly Review")
	assert.Contains(t, slide1, `val="1E293B"`)
	assert.Contains(t, slide1, "FY26 Q2")

	slide2 := readZipPart(t, r, "ppt/slides/slide2.xml")
	assert.Contains(t, slide2, "<p:pic>")
	assert.Contains(t, slide2, "Revenue up")

	slide3 := readZipPart(t, r, "ppt/slides/slide3.xml")
	assert.Contains(t, slide3, `prst="roundRect"`)
	assert.Contains(t, slide3, "Q2")

	slide5 := readZipPart(t, r, "ppt/slides/slide5.xml")
	assert.Contains(t, slide5, "CEO")
	assert.Contains(t, slide5, "CTO")
}

func TestPPTXWriterMalformedChartStillExports(t *testing.T) {
	deck := &models.Deck{
		Title: "Review",
		Slides: []*models.Slide{
			{ID: "s1", Title: "Intro", Layout: models.LayoutDefault, Content: []string{"welcome"}},
			{ID: "s2", Title: "Revenue", Layout: models.LayoutBarChart, Content: []string{"not json"}},
			{ID: "s3", Title: "Wrap up", Layout: models.LayoutDefault, Content: []string{"questions"}},
		},
	}

	w := newPPTXWriter(testTheme(), arbor.Logger())
	data, err := w.write(context.Background(), deck)
	require.NoError(t, err)

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range r.File {
		names[f.Name] = true
	}
	assert.True(t, names["ppt/slides/slide1.xml"])
	assert.True(t, names["ppt/slides/slide2.xml"])
	assert.True(t, names["ppt/slides/slide3.xml"])

	// The broken chart degrades to a placeholder; its neighbors are untouched.
	slide2 := readZipPart(t, r, "ppt/slides/slide2.xml")
	assert.Contains(t, slide2, "No chart data")
	assert.Contains(t, slide2, "Revenue")
	assert.NotContains(t, slide2, `prst="roundRect"`)

	assert.Contains(t, readZipPart(t, r, "ppt/slides/slide1.xml"), "welcome")
	assert.Contains(t, readZipPart(t, r, "ppt/slides/slide3.xml"), "questions")
}

func TestPPTXWriterEscapesMarkup(t *testing.T) {
	deck := &models.Deck{
		Title: "t",
		Slides: []*models.Slide{
			{ID: "s1", Title: `Profit & "Loss" <2026>`, Layout: models.LayoutDefault, Content: []string{"a < b"}},
		},
	}

	w := newPPTXWriter(testTheme(), arbor.Logger())
	data, err := w.write(context.Background(), deck)
	require.NoError(t, err)

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	slide := readZipPart(t, r, "ppt/slides/slide1.xml")
	assert.Contains(t, slide, "Profit &amp; &quot;Loss&quot; &lt;2026&gt;")
	assert.Contains(t, slide, "a &lt; b")
	assert.NotContains(t, slide, `<2026>`)
}

func TestPPTXWriterSkipsUnreachableImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	deck := &models.Deck{
		Title: "t",
		Slides: []*models.Slide{
			{ID: "s1", Title: "Broken image", Layout: models.LayoutDefault, Content: []string{"still here"}, ImageURL: server.URL + "/missing.jpg"},
		},
	}

	w := newPPTXWriter(testTheme(), arbor.Logger())
	data, err := w.write(context.Background(), deck)
	require.NoError(t, err)

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	for _, f := range r.File {
		assert.NotContains(t, f.Name, "ppt/media/")
	}
	slide := readZipPart(t, r, "ppt/slides/slide1.xml")
	assert.NotContains(t, slide, "<p:pic>")
	assert.Contains(t, slide, "still here")
}

func TestPPTXWriterInfographicIgnoresImage(t *testing.T) {
	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(tinyPNG)
	deck := &models.Deck{
		Title: "t",
		Slides: []*models.Slide{
			{ID: "s1", Title: "Pie", Layout: models.LayoutPieChart, Content: []string{`[{"label":"A","value":3},{"label":"B","value":1}]`}, ImageURL: dataURL},
		},
	}

	w := newPPTXWriter(testTheme(), arbor.Logger())
	data, err := w.write(context.Background(), deck)
	require.NoError(t, err)

	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range r.File {
		assert.NotContains(t, f.Name, "ppt/media/")
	}
	slide := readZipPart(t, r, "ppt/slides/slide1.xml")
	assert.Contains(t, slide, "75%")
}

func TestFetchImage(t *testing.T) {
	w := newPPTXWriter(testTheme(), arbor.Logger())

	t.Run("data URL", func(t *testing.T) {
		url := "data:image/png;base64," + base64.StdEncoding.EncodeToString(tinyPNG)
		data, ext, err := w.fetchImage(context.Background(), url)
		require.NoError(t, err)
		assert.Equal(t, "png", ext)
		assert.Equal(t, tinyPNG, data)
	})

	t.Run("jpeg data URL extension", func(t *testing.T) {
		url := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8})
		_, ext, err := w.fetchImage(context.Background(), url)
		require.NoError(t, err)
		assert.Equal(t, "jpeg", ext)
	})

	t.Run("malformed data URL", func(t *testing.T) {
		_, _, err := w.fetchImage(context.Background(), "data:image/png;base64")
		assert.Error(t, err)
	})

	t.Run("http fetch", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			rw.Header().Set("Content-Type", "image/png")
			rw.Write(tinyPNG)
		}))
		defer server.Close()

		data, ext, err := w.fetchImage(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "png", ext)
		assert.Equal(t, tinyPNG, data)
	})
}

func TestHexRGB(t *testing.T) {
	assert.Equal(t, [3]int{30, 41, 59}, hexRGB("1e293b"))
	assert.Equal(t, [3]int{30, 41, 59}, hexRGB("#1E293B"))
	assert.Equal(t, [3]int{0, 0, 0}, hexRGB("garbage"))
}

func TestCleanupRemovesStaleArtifacts(t *testing.T) {
	workDir := t.TempDir()

	stale := filepath.Join(workDir, "export-old")
	require.NoError(t, os.MkdirAll(stale, 0755))
	old := time.Now().Add(-3 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))

	fresh := filepath.Join(workDir, "export-new")
	require.NoError(t, os.MkdirAll(fresh, 0755))

	s := &Service{
		workDir: workDir,
		maxAge:  2 * time.Hour,
		logger:  arbor.Logger(),
	}
	s.cleanup()

	_, err := os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

func TestExportPPTXEmptyDeck(t *testing.T) {
	s := &Service{logger: arbor.Logger()}
	_, err := s.ExportPPTX(context.Background(), &models.Deck{Title: "empty"})
	assert.ErrorIs(t, err, models.ErrEmptyDeck)
	_, err = s.ExportPDF(context.Background(), nil)
	assert.ErrorIs(t, err, models.ErrEmptyDeck)
}
