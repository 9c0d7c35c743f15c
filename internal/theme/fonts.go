package theme

import (
	"net/url"
	"strings"
)

const googleFontsBase = "https://fonts.googleapis.com/css2"

// genericFamilies are CSS keywords that never need loading.
var genericFamilies = map[string]bool{
	"serif":      true,
	"sans-serif": true,
	"monospace":  true,
	"cursive":    true,
	"fantasy":    true,
	"system-ui":  true,
	"inherit":    true,
	"initial":    true,
}

// FontURL builds a Google Fonts stylesheet URL loading every distinct family
// in fonts. Generic families and blanks are skipped; "" is returned when
// nothing needs loading.
func FontURL(fonts ...string) string {
	seen := make(map[string]bool, len(fonts))
	var families []string
	for _, f := range fonts {
		f = strings.Trim(strings.TrimSpace(f), `'"`)
		key := strings.ToLower(f)
		if f == "" || genericFamilies[key] || seen[key] {
			continue
		}
		seen[key] = true
		families = append(families, "family="+url.QueryEscape(f)+":wght@400;500;600;700")
	}
	if len(families) == 0 {
		return ""
	}
	return googleFontsBase + "?" + strings.Join(families, "&") + "&display=swap"
}

// fontsFrom reads a legacy fonts column. Both heading/body and
// primary/secondary key styles are accepted.
func fontsFrom(raw JSONText) FontPair {
	if raw == "" {
		return FontPair{}
	}
	m, ok := decodeObject(string(raw))
	if !ok {
		return FontPair{}
	}
	first := func(keys ...string) string {
		for _, k := range keys {
			if s, _ := m[k].(string); strings.TrimSpace(s) != "" {
				return strings.TrimSpace(s)
			}
		}
		return ""
	}
	return FontPair{
		Primary:   first("heading", "primary", "primary_font"),
		Secondary: first("body", "secondary", "secondary_font"),
	}
}

// overlay returns p with every empty font taken from fallback.
func (p FontPair) overlay(fallback FontPair) FontPair {
	if p.Primary == "" {
		p.Primary = fallback.Primary
	}
	if p.Secondary == "" {
		p.Secondary = fallback.Secondary
	}
	return p
}
