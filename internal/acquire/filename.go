// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import "strings"

// Placeholders recognized in filename patterns.
const (
	placeholderID    = "{arxiv_id}"
	placeholderTitle = "{title}"
)

// arxivPDFBase is the PDF origin. Declared as a var so tests can substitute
// an httptest server.
var arxivPDFBase = "https://arxiv.org/pdf/"

var unsafeChars = strings.NewReplacer(
	"/", "-", ":", "-", "*", "-", "?", "-", `"`, "-",
	"<", "-", ">", "-", "|", "-", "\n", "-",
)

// Sanitize makes a title safe to use in a filename: path and shell
// metacharacters (/ : * ? " < > |) and newlines become "-", whitespace runs
// collapse to one space, and the result is trimmed.
func Sanitize(title string) string {
	return strings.Join(strings.Fields(unsafeChars.Replace(title)), " ")
}

// BuildFilename fills pattern with id and the sanitized title and appends
// the .pdf extension. Every occurrence of each placeholder is replaced.
func BuildFilename(pattern, id, title string) string {
	name := strings.NewReplacer(
		placeholderID, id,
		placeholderTitle, Sanitize(title),
	).Replace(pattern)
	return name + ".pdf"
}

// PDFURL returns the canonical PDF URL for an arXiv identifier.
func PDFURL(id string) string {
	return arxivPDFBase + id + ".pdf"
}
