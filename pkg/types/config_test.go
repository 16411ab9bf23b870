// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDownloadConfigWithDefaults(t *testing.T) {
	got := DownloadConfig{}.WithDefaults()
	assert.Equal(t, DefaultTargetFolder, got.TargetFolder)
	assert.Equal(t, DefaultFilenamePattern, got.FilenamePattern)
	assert.Equal(t, DefaultUserAgent, got.UserAgent)
	assert.Zero(t, got.Timeout)
}

func TestDownloadConfigWithDefaultsKeepsValues(t *testing.T) {
	cfg := DownloadConfig{
		HTTPConfig:      HTTPConfig{UserAgent: "ua/1", Timeout: time.Second},
		TargetFolder:    "/tmp/papers",
		FilenamePattern: "{title}",
	}
	got := cfg.WithDefaults()
	assert.Equal(t, cfg, got)
}

func TestPaperHasTitle(t *testing.T) {
	var nilPaper *Paper
	assert.False(t, nilPaper.HasTitle())
	assert.False(t, (&Paper{ID: "1234.5678"}).HasTitle())
	assert.True(t, (&Paper{ID: "1234.5678", Title: "T"}).HasTitle())
}
