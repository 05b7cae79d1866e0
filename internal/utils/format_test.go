package utils

import (
	"testing"
	"time"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{3, "3"},
		{1234, "1,234"},
		{2.5, "2.50"},
		{1.256, "1.26"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.in); got != tt.want {
			t.Errorf("FormatValue(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatPercentage(t *testing.T) {
	if got := FormatPercentage(25); got != "25.0%" {
		t.Errorf("FormatPercentage(25) = %q", got)
	}
	if got := FormatPercentage(33.33); got != "33.3%" {
		t.Errorf("FormatPercentage(33.33) = %q", got)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := map[int]string{
		0:       "0",
		999:     "999",
		1000:    "1,000",
		1234567: "1,234,567",
		-4200:   "-4,200",
	}
	for in, want := range tests {
		if got := FormatNumber(in); got != want {
			t.Errorf("FormatNumber(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := map[int64]string{
		512:             "512 B",
		1024:            "1.0 KB",
		1536:            "1.5 KB",
		5 * 1024 * 1024: "5.0 MB",
	}
	for in, want := range tests {
		if got := FormatFileSize(in); got != want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 4, 1, 9, 5, 0, 0, time.UTC)
	if got := FormatTimestamp(ts); got != "2024-04-01 09:05:00" {
		t.Errorf("FormatTimestamp = %q", got)
	}
}
