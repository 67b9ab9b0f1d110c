package format

import (
	"testing"
	"time"
)

func TestStripAnsi(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"no ansi", "torvalds", "torvalds"},
		{"single color", "\x1b[36mtorvalds\x1b[0m", "torvalds"},
		{"bold and color", "\x1b[1;33m★ 170k\x1b[0m", "★ 170k"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripAnsi(tt.input); got != tt.expected {
				t.Errorf("StripAnsi(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"empty", "", 0},
		{"ascii", "linux", 5},
		{"with ansi", "\x1b[31mGo\x1b[0m", 2},
		{"wide chars", "日本語", 6},
		{"mixed", "Hello, 世界!", 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayWidth(tt.input); got != tt.expected {
				t.Errorf("DisplayWidth(%q) = %d, want %d", tt.input, got, tt.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		maxWidth      int
		expectedStr   string
		expectedWidth int
	}{
		{"fits", "linux", 10, "linux", 5},
		{"exact fit", "linux", 5, "linux", 5},
		{"ascii", "Linux kernel source tree", 10, "Linux k...", 10},
		{"wide runes do not overflow", "日本語のリポジトリ", 8, "日本...", 7},
		{"keeps colour and resets", "\x1b[31mred text\x1b[0m", 6, "\x1b[31mred...\x1b[0m", 6},
		{"narrower than ellipsis", "linux", 2, "..", 2},
		{"zero width", "linux", 0, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotStr, gotWidth := Truncate(tt.input, tt.maxWidth)
			if gotStr != tt.expectedStr {
				t.Errorf("Truncate(%q, %d) string = %q, want %q", tt.input, tt.maxWidth, gotStr, tt.expectedStr)
			}
			if gotWidth != tt.expectedWidth {
				t.Errorf("Truncate(%q, %d) width = %d, want %d", tt.input, tt.maxWidth, gotWidth, tt.expectedWidth)
			}
		})
	}
}

func TestPadRightAndFit(t *testing.T) {
	if got := PadRight("go", 5); got != "go   " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadRight("\x1b[31mgo\x1b[0m", 4); got != "\x1b[31mgo\x1b[0m  " {
		t.Errorf("PadRight with ansi = %q", got)
	}
	if got := PadRight("linux", 3); got != "linux" {
		t.Errorf("PadRight overflow = %q", got)
	}
	if got := Fit("subsurface", 7); got != "subs..." {
		t.Errorf("Fit truncate = %q", got)
	}
	if got := Fit("git", 6); got != "git   " {
		t.Errorf("Fit pad = %q", got)
	}
}

func TestSingleLine(t *testing.T) {
	got := SingleLine("  Linux kernel\nsource\t tree ")
	if got != "Linux kernel source tree" {
		t.Errorf("SingleLine = %q", got)
	}
}

func TestStars(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{-3, "0"},
		{0, "0"},
		{999, "999"},
		{1000, "1k"},
		{1234, "1.2k"},
		{99_949, "99.9k"},
		{170_512, "170k"},
		{1_000_000, "1M"},
		{1_540_000, "1.5M"},
	}

	for _, tt := range tests {
		if got := Stars(tt.in); got != tt.want {
			t.Errorf("Stars(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUntil(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "now"},
		{-time.Minute, "now"},
		{45 * time.Second, "45s"},
		{12*time.Minute + 30*time.Second, "12m"},
		{time.Hour, "1h"},
		{65 * time.Minute, "1h5m"},
	}

	for _, tt := range tests {
		if got := Until(tt.in); got != tt.want {
			t.Errorf("Until(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
