// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Paper holds what is known about one arXiv identifier during a run.
// An empty Title means the title could not be resolved.
type Paper struct {
	// ID is the arXiv identifier (e.g. "2301.07041" or "2301.07041v2").
	ID string `json:"id" yaml:"id"`

	// Title is the paper title, trimmed of surrounding whitespace.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Published is the preprint submission date.
	Published time.Time `json:"published,omitempty" yaml:"published,omitempty"`

	// Abstract is the paper abstract.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// PDFURL is the URL the PDF was requested from.
	PDFURL string `json:"pdf_url,omitempty" yaml:"pdf_url,omitempty"`

	// Filename is the name the PDF was saved under.
	Filename string `json:"filename,omitempty" yaml:"filename,omitempty"`

	// Path is the local path reported by the file-save boundary.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`
}

// HasTitle reports whether the title was resolved.
func (p *Paper) HasTitle() bool {
	return p != nil && p.Title != ""
}
