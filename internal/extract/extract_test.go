// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2301.07041", true},
		{"2301.07041v2", true},
		{"1234.5678", true},
		{"2301.07041v", false},
		{"arXiv:2301.07041", false},
		{"2301", false},
		{"abcde", false},
		{"", false},
		{" 2301.07041", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsIdentifier(tt.in))
		})
	}
}

func TestFirstIdentifier(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   string
		wantOK bool
	}{
		{"abs url", "https://arxiv.org/abs/2301.07041", "2301.07041", true},
		{"pdf url with version", "https://arxiv.org/pdf/2301.07041v3.pdf", "2301.07041v3", true},
		{"first of several", "https://arxiv.org/abs/2101.00001 and 2202.00002", "2101.00001", true},
		{"domain without id", "https://arxiv.org/list/cs.AI/recent", "", false},
		{"id without domain", "https://example.com/2301.07041", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstIdentifier(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScanContent(t *testing.T) {
	content := `
		<a href="https://arxiv.org/abs/2101.00001">paper</a>
		<a href="https://ARXIV.ORG/pdf/2202.00002v2">pdf</a>
		cited as arXiv: 2303.00003 and arXiv:2101.00001 again
		see https://arxiv.org/list/2404.00004 (not abs or pdf)
		plain 2505.00005 is not cited`
	assert.Equal(t, []string{"2101.00001", "2202.00002v2", "2303.00003"}, ScanContent(content))
	assert.Empty(t, ScanContent("no citations here"))
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"comma and space", "1234.5678, 8765.4321 abcde", []string{"1234.5678", "8765.4321"}},
		{"newlines and tabs", "2101.00001\n2202.00002v1\t2303.00003", []string{"2101.00001", "2202.00002v1", "2303.00003"}},
		{"nothing valid", "foo, bar baz", nil},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseList(tt.in))
		})
	}
}

func TestIsPageURL(t *testing.T) {
	assert.True(t, IsPageURL("https://example.com/reading-list"))
	assert.True(t, IsPageURL("http://example.com"))
	assert.True(t, IsPageURL("file:///home/me/paper.pdf"))
	assert.False(t, IsPageURL("ftp://example.com/x"))
	assert.False(t, IsPageURL("1234.5678, 8765.4321"))
	assert.False(t, IsPageURL("arxiv:2101.00001"))
	assert.False(t, IsPageURL("https://"))
}

// countingProvider records calls and returns fixed content or an error.
type countingProvider struct {
	text  string
	err   error
	calls int
}

func (p *countingProvider) Content(context.Context, string) (string, error) {
	p.calls++
	return p.text, p.err
}

func TestExtractDispatchOrder(t *testing.T) {
	page := &countingProvider{text: "arxiv.org/abs/2101.00001 arXiv:2202.00002 arxiv.org/abs/2101.00001"}
	e := &Extractor{Provider: page}
	ctx := context.Background()

	tests := []struct {
		name      string
		in        string
		want      []string
		wantFetch bool
	}{
		{"bare id", "2301.07041", []string{"2301.07041"}, false},
		{"bare id with spaces", "  2301.07041v2 \n", []string{"2301.07041v2"}, false},
		{"arxiv url first match only", "https://arxiv.org/abs/2301.07041?ref=2402.11111", []string{"2301.07041"}, false},
		{"generic url scans page", "https://example.com/reading-list", []string{"2101.00001", "2202.00002"}, true},
		{"id list", "1234.5678, 8765.4321 abcde", []string{"1234.5678", "8765.4321"}, false},
		{"no match", "hello world", nil, false},
		{"empty", "   ", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page.calls = 0
			got := e.Extract(ctx, tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantFetch, page.calls > 0)
		})
	}
}

func TestExtractBareIdentifierProperty(t *testing.T) {
	e := &Extractor{}
	for _, id := range []string{"0704.0001", "1501.00001v1", "2312.99999v12", "9999.9999"} {
		assert.Equal(t, []string{id}, e.Extract(context.Background(), id))
	}
}

func TestExtractProviderFailure(t *testing.T) {
	var logs bytes.Buffer
	e := &Extractor{
		Provider: &countingProvider{err: errors.New("blocked by CORS")},
		Logger:   slog.New(slog.NewTextHandler(&logs, nil)),
	}

	got := e.Extract(context.Background(), "https://example.com/list")
	assert.Empty(t, got)
	assert.Contains(t, logs.String(), "page content unavailable")
	assert.Contains(t, logs.String(), "https://example.com/list")
}

func TestExtractNoProvider(t *testing.T) {
	e := &Extractor{}
	assert.Empty(t, e.Extract(context.Background(), "https://example.com/list"))
}

func TestExtractFromHTTPPage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/blog":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(`<html><body>
				<p>We build on <a href="https://arxiv.org/abs/1706.03762">attention</a>
				and arXiv&#58;1810.04805.</p>
				<a href="https://arxiv.org/pdf/2005.14165v4">GPT-3</a>
			</body></html>`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	e := &Extractor{Provider: &HTTPProvider{Client: ts.Client(), UserAgent: "test/0.1"}}
	got := e.Extract(context.Background(), ts.URL+"/blog")
	sort.Strings(got)
	assert.Equal(t, []string{"1706.03762", "1810.04805", "2005.14165v4"}, got)

	assert.Empty(t, e.Extract(context.Background(), ts.URL+"/missing"))
}

func TestExtractFromLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.html")
	require.NoError(t, os.WriteFile(path, []byte(`<a href="https://arxiv.org/abs/2101.00001">x</a>`), 0o644))

	e := &Extractor{Provider: NewChain(nil, FileProvider{}, &HTTPProvider{})}
	got := e.Extract(context.Background(), "file://"+filepath.ToSlash(path))
	assert.Equal(t, []string{"2101.00001"}, got)
}

func TestExtractFromStaticPage(t *testing.T) {
	e := &Extractor{Provider: StaticProvider{Text: "see arXiv:2404.12345v1"}}
	assert.Equal(t, []string{"2404.12345v1"}, e.Extract(context.Background(), "https://example.com/current"))
}

func TestChainFallsBack(t *testing.T) {
	blocked := &countingProvider{err: errors.New("HTTP 403")}
	delegate := &countingProvider{text: "arxiv.org/abs/2101.00001"}

	chain := NewChain(nil, FileProvider{}, blocked, delegate)
	text, err := chain.Content(context.Background(), "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, "arxiv.org/abs/2101.00001", text)
	assert.Equal(t, 1, blocked.calls)
	assert.Equal(t, 1, delegate.calls)
}

func TestChainAllFail(t *testing.T) {
	chain := NewChain(nil,
		&countingProvider{err: errors.New("direct failed")},
		&countingProvider{err: errors.New("proxy failed")},
	)
	_, err := chain.Content(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "direct failed")
	assert.Contains(t, err.Error(), "proxy failed")
}

func TestChainUnsupported(t *testing.T) {
	chain := NewChain(nil, FileProvider{})
	_, err := chain.Content(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestHTTPProviderRejectsOtherSchemes(t *testing.T) {
	_, err := (&HTTPProvider{}).Content(context.Background(), "file:///tmp/x.html")
	assert.ErrorIs(t, err, ErrUnsupported)

	_, err = FileProvider{}.Content(context.Background(), "https://example.com")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestDocumentTextHTML(t *testing.T) {
	body := []byte(`<html><body><a href="https://arxiv.org/abs/2101.00001?a=1&amp;b=2">x</a> arXiv&#58;2202.00002</body></html>`)
	text, err := DocumentText("text/html; charset=utf-8", body)
	require.NoError(t, err)
	assert.Contains(t, text, "arXiv:2202.00002", "rendered text decodes entities")
	assert.Contains(t, text, "https://arxiv.org/abs/2101.00001?a=1&b=2", "link targets are appended")
}

func TestDocumentTextSniffsHTML(t *testing.T) {
	text, err := DocumentText("", []byte(`<!DOCTYPE html><html><body>arXiv&#58;2101.00001</body></html>`))
	require.NoError(t, err)
	assert.Contains(t, text, "arXiv:2101.00001")
}

func TestDocumentTextPlain(t *testing.T) {
	text, err := DocumentText("text/plain", []byte("arXiv:2101.00001"))
	require.NoError(t, err)
	assert.Equal(t, "arXiv:2101.00001", text)
}

func TestDocumentTextMalformedPDF(t *testing.T) {
	_, err := DocumentText("application/pdf", []byte("%PDF-1.4 truncated"))
	assert.Error(t, err)
}

func TestDocumentTextPDF(t *testing.T) {
	body := minimalPDF("See arXiv:2101.00001 for details")
	text, err := DocumentText("application/octet-stream", body)
	require.NoError(t, err)
	assert.Equal(t, []string{"2101.00001"}, ScanContent(text))
}

// minimalPDF builds a one-page PDF whose content stream shows line.
func minimalPDF(line string) []byte {
	stream := "BT /F1 12 Tf 72 720 Td (" + line + ") Tj ET"
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		"<< /Length " + strconv.Itoa(len(stream)) + " >>\nstream\n" + stream + "\nendstream",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		b.WriteString(strconv.Itoa(i+1) + " 0 obj\n" + obj + "\nendobj\n")
	}
	xref := b.Len()
	b.WriteString("xref\n0 " + strconv.Itoa(len(objects)+1) + "\n")
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		b.WriteString(fmt.Sprintf("%010d 00000 n \n", off))
	}
	b.WriteString("trailer\n<< /Size " + strconv.Itoa(len(objects)+1) + " /Root 1 0 R >>\n")
	b.WriteString("startxref\n" + strconv.Itoa(xref) + "\n%%EOF\n")
	return []byte(b.String())
}
