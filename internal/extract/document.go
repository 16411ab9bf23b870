// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

var pdfMagic = []byte("%PDF-")

// DocumentText converts a fetched body into text worth scanning. PDFs yield
// their text layer; HTML yields the markup, the rendered text, and every
// link target; anything else is returned unchanged.
func DocumentText(contentType string, body []byte) (string, error) {
	mediaType := contentType
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		mediaType = mt
	}
	mediaType = strings.ToLower(mediaType)

	switch {
	case mediaType == "application/pdf" || bytes.HasPrefix(body, pdfMagic):
		return pdfText(body)
	case mediaType == "text/html" || mediaType == "application/xhtml+xml":
		return htmlText(body)
	case mediaType == "" && strings.HasPrefix(http.DetectContentType(body), "text/html"):
		return htmlText(body)
	default:
		return string(body), nil
	}
}

func htmlText(body []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	var b strings.Builder
	b.Write(body)
	b.WriteByte('\n')
	b.WriteString(doc.Text())
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		if href, ok := s.Attr("href"); ok {
			b.WriteByte('\n')
			b.WriteString(href)
		}
	})
	return b.String(), nil
}

// pdfText extracts the plain text of every page. The PDF parser panics on
// some malformed files; that is reported as an error.
func pdfText(body []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("reading PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting PDF text: %w", err)
	}

	var b strings.Builder
	if _, err := io.Copy(&b, plain); err != nil {
		return "", fmt.Errorf("reading PDF text: %w", err)
	}
	return b.String(), nil
}
