package theme

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/podabio/podabio/pkg/colormath"
)

// MaxNameLength bounds theme names, in characters.
const MaxNameLength = 100

var hexColorRE = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

func validHex(s string) bool {
	_, ok := normalizeHex(s)
	return ok
}

// normalizeHex accepts "#rgb" or "#rrggbb" and returns the lowercase
// "#rrggbb" form. Every stored color is checked with this rule.
func normalizeHex(s string) (string, bool) {
	if !hexColorRE.MatchString(s) {
		return "", false
	}
	return colormath.Normalize(s)
}

var legacyColorKeys = []string{"primary", "secondary", "accent"}

// ValidateTheme reports whether t is well formed: it needs an id and a name,
// legacy colors and fonts must decode to objects, legacy colors must be hex,
// and every token column present must decode to an object.
func ValidateTheme(t *Theme) bool {
	if t == nil || strings.TrimSpace(t.ID) == "" || strings.TrimSpace(t.Name) == "" {
		return false
	}

	if t.Colors != "" {
		colors, ok := decodeObject(string(t.Colors))
		if !ok {
			return false
		}
		for _, key := range legacyColorKeys {
			v, present := colors[key]
			if !present {
				continue
			}
			s, isString := v.(string)
			if !isString {
				return false
			}
			if _, valid := normalizeHex(s); !valid {
				return false
			}
		}
	}
	if t.Fonts != "" {
		if _, ok := decodeObject(string(t.Fonts)); !ok {
			return false
		}
	}

	for _, raw := range []JSONText{t.ColorTokens, t.TypographyTokens, t.SpacingTokens, t.ShapeTokens, t.MotionTokens} {
		if raw == "" {
			continue
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return false
		}
		switch v.(type) {
		case nil, map[string]any, []any:
		default:
			return false
		}
	}
	return true
}

// decodeObject decodes a JSON object or array. Arrays decode to an empty map
// since an empty object is often stored as [].
func decodeObject(raw string) (map[string]any, bool) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, false
	}
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case []any:
		return map[string]any{}, true
	}
	return nil, false
}

func validateName(name string) error {
	if name == "" {
		return validationError("Theme name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return validationError(fmt.Sprintf("Theme name must be %d characters or less", MaxNameLength))
	}
	return nil
}

func validateInput(in *ThemeInput) error {
	if in == nil {
		return nil
	}
	for _, key := range legacyColorKeys {
		if v, ok := in.Colors[key]; ok && !validHex(v) {
			return validationError(fmt.Sprintf("Invalid %s color: %q", key, v))
		}
	}
	if in.SpatialEffect != nil && *in.SpatialEffect != "" && !ValidSpatialEffect(*in.SpatialEffect) {
		return validationError(fmt.Sprintf("Invalid spatial effect: %q", *in.SpatialEffect))
	}
	return nil
}
