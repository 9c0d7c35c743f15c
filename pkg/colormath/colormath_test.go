package colormath

import (
	"math"
	"testing"
)

func TestHexToRGB(t *testing.T) {
	tests := []struct {
		in      string
		r, g, b uint8
		ok      bool
	}{
		{"#ffffff", 255, 255, 255, true},
		{"000000", 0, 0, 0, true},
		{"#123", 0x11, 0x22, 0x33, true},
		{"#1A2B3C", 0x1a, 0x2b, 0x3c, true},
		{" #abc ", 0xaa, 0xbb, 0xcc, true},
		{"#12345", 0, 0, 0, false},
		{"#gggggg", 0, 0, 0, false},
		{"rgba(0,0,0,1)", 0, 0, 0, false},
		{"", 0, 0, 0, false},
	}
	for _, tt := range tests {
		r, g, b, ok := HexToRGB(tt.in)
		if ok != tt.ok {
			t.Errorf("HexToRGB(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && (r != tt.r || g != tt.g || b != tt.b) {
			t.Errorf("HexToRGB(%q) = %d,%d,%d, want %d,%d,%d", tt.in, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}

func TestNormalize(t *testing.T) {
	got, ok := Normalize("#ABC")
	if !ok || got != "#aabbcc" {
		t.Errorf("Normalize(#ABC) = %q, %v", got, ok)
	}
	if _, ok := Normalize("blue"); ok {
		t.Error("Normalize(blue) should fail")
	}
}

func TestLuminance(t *testing.T) {
	if got := Luminance(White); math.Abs(got-1) > 1e-9 {
		t.Errorf("Luminance(white) = %v, want 1", got)
	}
	if got := Luminance(Black); got != 0 {
		t.Errorf("Luminance(black) = %v, want 0", got)
	}
	// Pure red: 0.2126 per the WCAG coefficients.
	if got := Luminance("#ff0000"); math.Abs(got-0.2126) > 1e-9 {
		t.Errorf("Luminance(red) = %v, want 0.2126", got)
	}
	if got := Luminance("not-a-colour"); got != 0 {
		t.Errorf("Luminance(malformed) = %v, want 0", got)
	}
}

func TestContrastRatio(t *testing.T) {
	if got := ContrastRatio(Black, White); math.Abs(got-21) > 1e-9 {
		t.Errorf("ContrastRatio(black, white) = %v, want 21", got)
	}
	if got := ContrastRatio(White, Black); math.Abs(got-21) > 1e-9 {
		t.Errorf("ContrastRatio is not symmetric: %v", got)
	}
	if got := ContrastRatio("#777777", "#777777"); got != 1 {
		t.Errorf("ContrastRatio(same) = %v, want 1", got)
	}
}

func TestMix(t *testing.T) {
	tests := []struct {
		a, b  string
		ratio float64
		want  string
	}{
		{Black, White, 0, "#000000"},
		{Black, White, 1, "#ffffff"},
		{Black, White, 0.5, "#808080"},
		{Black, White, 2, "#ffffff"},
		{Black, White, -1, "#000000"},
		{"#ABC", White, 0, "#aabbcc"},
	}
	for _, tt := range tests {
		if got := Mix(tt.a, tt.b, tt.ratio); got != tt.want {
			t.Errorf("Mix(%s, %s, %v) = %s, want %s", tt.a, tt.b, tt.ratio, got, tt.want)
		}
	}
	if got := Mix("oops", White, 0.5); got != "oops" {
		t.Errorf("Mix with malformed input = %q, want input unchanged", got)
	}
}

func TestLightenDarken(t *testing.T) {
	if got := Lighten(Black, 0.2); got != "#333333" {
		t.Errorf("Lighten(black, 0.2) = %s, want #333333", got)
	}
	if got := Darken(White, 0.2); got != "#cccccc" {
		t.Errorf("Darken(white, 0.2) = %s, want #cccccc", got)
	}
}

func TestAdjustBrightness(t *testing.T) {
	tests := []struct {
		in    string
		delta int
		want  string
	}{
		{"#f0f0f0", 30, "#ffffff"},
		{"#101010", -30, "#000000"},
		{"#102030", 16, "#203040"},
		{"#808080", 1000, "#ffffff"},
		{"bad", 16, "#cbbaed"},
		{"nope", 10, "nope"},
		{"#12", 10, "#12"},
	}
	for _, tt := range tests {
		if got := AdjustBrightness(tt.in, tt.delta); got != tt.want {
			t.Errorf("AdjustBrightness(%s, %d) = %s, want %s", tt.in, tt.delta, got, tt.want)
		}
	}
}

func TestRGBA(t *testing.T) {
	if got := RGBA("#ff8000", 0.5); got != "rgba(255, 128, 0, 0.5)" {
		t.Errorf("RGBA = %q", got)
	}
}

func TestDistance(t *testing.T) {
	if got := Distance(0, 0, 0, 3, 4, 0); got != 5 {
		t.Errorf("Distance = %v, want 5", got)
	}
}
