package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScanMode_IsValid(t *testing.T) {
	assert.True(t, ScanAll.IsValid())
	assert.True(t, ScanHeader.IsValid())
	assert.False(t, ScanMode("").IsValid())
	assert.False(t, ScanMode("first").IsValid())
}

func TestScanMode_Description(t *testing.T) {
	assert.Equal(t, "All lines", ScanAll.Description())
	assert.Equal(t, "Leading comment block only", ScanHeader.Description())
	assert.Equal(t, "Unknown", ScanMode("bogus").Description())
}

func TestDefaultAppSettings(t *testing.T) {
	s := DefaultAppSettings()

	assert.Equal(t, DefaultMaxFileSize, s.Import.MaxFileSize)
	assert.Equal(t, ScanAll, s.Import.ScanMode)
	assert.False(t, s.Import.FirstMatchWins)
	assert.Equal(t, "macintosh", s.Import.FallbackCharset)
	assert.Equal(t, 4, s.Index.Workers)
	assert.Zero(t, s.Index.RatePerSecond)
	assert.Equal(t, "off", s.Log.Level)
	assert.NoError(t, s.Validate())
}

func TestAppSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*AppSettings)
	}{
		{"zero max size", func(s *AppSettings) { s.Import.MaxFileSize = 0 }},
		{"negative max size", func(s *AppSettings) { s.Import.MaxFileSize = -1 }},
		{"bad scan mode", func(s *AppSettings) { s.Import.ScanMode = "sometimes" }},
		{"zero workers", func(s *AppSettings) { s.Index.Workers = 0 }},
		{"negative rate", func(s *AppSettings) { s.Index.RatePerSecond = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultAppSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
		})
	}
}
