package util

import (
	"reflect"
	"testing"
)

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1500, "1.5K"},
		{2_340_000, "2.3M"},
	}
	for _, tt := range tests {
		if got := FormatCompact(tt.in); got != tt.want {
			t.Errorf("FormatCompact(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatCount(t *testing.T) {
	if got := FormatCount(1234567); got != "1,234,567" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 Bytes"},
		{512, "512 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1_048_576 * 3, "3 MB"},
		{1_073_741_824, "1 GB"},
		{1_099_511_627_776, "1024 GB"},
	}
	for _, tt := range tests {
		if got := FormatFileSize(tt.in); got != tt.want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatDateTime(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-05-01T10:04:00Z", "01/05/2024 10:04"},
		{"2024-05-01T10:04:00.123456", "01/05/2024 10:04"},
		{"2024-05-01", "01/05/2024 00:00"},
		{"", "—"},
		{"yesterday", "yesterday"},
	}
	for _, tt := range tests {
		if got := FormatDateTime(tt.in); got != tt.want {
			t.Errorf("FormatDateTime(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMasks(t *testing.T) {
	if got := MaskID("12a3-4 5"); got != "12345" {
		t.Errorf("MaskID = %q", got)
	}
	if got := MaskURL("example.com/x"); got != "https://example.com/x" {
		t.Errorf("MaskURL = %q", got)
	}
	if got := MaskURL("http://example.com"); got != "http://example.com" {
		t.Errorf("MaskURL kept scheme = %q", got)
	}
	if got := MaskURL(""); got != "" {
		t.Errorf("MaskURL empty = %q", got)
	}
}

func TestMissingRequired(t *testing.T) {
	fields := []Field{
		{Name: "user", Value: "1", Required: true},
		{Name: "reason", Value: "   ", Required: true},
		{Name: "evidence", Value: "", Required: false},
	}
	missing := MissingRequired(fields)
	if !reflect.DeepEqual(missing, []string{"reason"}) {
		t.Fatalf("got %v", missing)
	}
	if got := ValidationMessage(missing); got != "required: reason" {
		t.Fatalf("got %q", got)
	}
	if got := ValidationMessage(nil); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("abcdefgh", 5); got != "ab..." {
		t.Fatalf("got %q", got)
	}
	if got := TruncateString("abc", 5); got != "abc" {
		t.Fatalf("got %q", got)
	}
}
