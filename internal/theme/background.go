package theme

import (
	"fmt"
	"strings"
)

// BackgroundKind classifies a background value.
type BackgroundKind string

// Background kinds.
const (
	BackgroundNone     BackgroundKind = ""
	BackgroundSolid    BackgroundKind = "solid"
	BackgroundGradient BackgroundKind = "gradient"
	BackgroundImage    BackgroundKind = "image"
)

// Background is a page or widget background. Storage keeps the single-string
// encoding; ParseBackground and String translate at that edge.
type Background struct {
	Kind  BackgroundKind
	Value string
}

// ParseBackground classifies a stored background string. Gradients are any
// CSS *-gradient() function; images are url() values or http(s)/root-relative
// paths; everything else is a solid color.
func ParseBackground(s string) Background {
	s = strings.TrimSpace(s)
	lower := strings.ToLower(s)
	switch {
	case s == "":
		return Background{}
	case strings.Contains(lower, "gradient("):
		return Background{Kind: BackgroundGradient, Value: s}
	case strings.HasPrefix(lower, "url("):
		return Background{Kind: BackgroundImage, Value: unwrapURL(s)}
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"), strings.HasPrefix(s, "/"):
		return Background{Kind: BackgroundImage, Value: s}
	}
	return Background{Kind: BackgroundSolid, Value: s}
}

// IsZero reports whether no background is set.
func (b Background) IsZero() bool { return b.Kind == BackgroundNone }

// IsGradient reports whether b is a gradient.
func (b Background) IsGradient() bool { return b.Kind == BackgroundGradient }

// String returns the CSS value for b.
func (b Background) String() string {
	if b.Kind == BackgroundImage {
		return fmt.Sprintf("url('%s')", strings.ReplaceAll(b.Value, "'", "%27"))
	}
	return b.Value
}

// MarshalText implements encoding.TextMarshaler using the stored encoding.
func (b Background) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Background) UnmarshalText(text []byte) error {
	*b = ParseBackground(string(text))
	return nil
}

func unwrapURL(s string) string {
	inner := strings.TrimSuffix(strings.TrimSpace(s[len("url("):]), ")")
	return strings.Trim(strings.TrimSpace(inner), `'"`)
}
