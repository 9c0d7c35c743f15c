package tokens

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// ColorTokens is the typed view of a resolved color bundle.
type ColorTokens struct {
	Background struct {
		Base          string `mapstructure:"base"`
		Surface       string `mapstructure:"surface"`
		SurfaceRaised string `mapstructure:"surface_raised"`
		Overlay       string `mapstructure:"overlay"`
	} `mapstructure:"background"`
	Text struct {
		Primary   string `mapstructure:"primary"`
		Secondary string `mapstructure:"secondary"`
		Inverse   string `mapstructure:"inverse"`
	} `mapstructure:"text"`
	Border struct {
		Default string `mapstructure:"default"`
		Focus   string `mapstructure:"focus"`
	} `mapstructure:"border"`
	Accent struct {
		Primary string `mapstructure:"primary"`
		Muted   string `mapstructure:"muted"`
	} `mapstructure:"accent"`
	Shadow struct {
		Ambient string `mapstructure:"ambient"`
		Focus   string `mapstructure:"focus"`
	} `mapstructure:"shadow"`
	Gradient struct {
		Page   string `mapstructure:"page"`
		Accent string `mapstructure:"accent"`
		Widget string `mapstructure:"widget"`
	} `mapstructure:"gradient"`
	Glow struct {
		Primary string `mapstructure:"primary"`
	} `mapstructure:"glow"`
}

// TypographyTokens is the typed view of a resolved typography bundle.
type TypographyTokens struct {
	Font struct {
		Heading string `mapstructure:"heading"`
		Body    string `mapstructure:"body"`
	} `mapstructure:"font"`
	Scale      map[string]float64 `mapstructure:"scale"`
	LineHeight map[string]float64 `mapstructure:"line_height"`
	Weight     map[string]int     `mapstructure:"weight"`
}

// ShapeTokens is the typed view of a resolved shape bundle.
type ShapeTokens struct {
	Corner struct {
		None string `mapstructure:"none"`
		SM   string `mapstructure:"sm"`
		MD   string `mapstructure:"md"`
		LG   string `mapstructure:"lg"`
		Pill string `mapstructure:"pill"`
	} `mapstructure:"corner"`
	BorderWidth struct {
		Hairline string `mapstructure:"hairline"`
		Regular  string `mapstructure:"regular"`
		Bold     string `mapstructure:"bold"`
	} `mapstructure:"border_width"`
	Shadow struct {
		Level1 string `mapstructure:"level_1"`
		Level2 string `mapstructure:"level_2"`
		Focus  string `mapstructure:"focus"`
	} `mapstructure:"shadow"`
}

// MotionTokens is the typed view of a resolved motion bundle.
type MotionTokens struct {
	Duration struct {
		Momentary string `mapstructure:"momentary"`
		Fast      string `mapstructure:"fast"`
		Standard  string `mapstructure:"standard"`
		Slow      string `mapstructure:"slow"`
	} `mapstructure:"duration"`
	Easing struct {
		Standard   string `mapstructure:"standard"`
		Decelerate string `mapstructure:"decelerate"`
		Accelerate string `mapstructure:"accelerate"`
	} `mapstructure:"easing"`
	Focus struct {
		RingThickness string `mapstructure:"ring_thickness"`
		RingOffset    string `mapstructure:"ring_offset"`
	} `mapstructure:"focus"`
}

// DecodeColor decodes a color bundle into its typed view.
func DecodeColor(b Bundle) (ColorTokens, error) {
	var out ColorTokens
	return out, decode(b, &out)
}

// DecodeTypography decodes a typography bundle into its typed view.
func DecodeTypography(b Bundle) (TypographyTokens, error) {
	var out TypographyTokens
	return out, decode(b, &out)
}

// DecodeShape decodes a shape bundle into its typed view.
func DecodeShape(b Bundle) (ShapeTokens, error) {
	var out ShapeTokens
	return out, decode(b, &out)
}

// DecodeMotion decodes a motion bundle into its typed view.
func DecodeMotion(b Bundle) (MotionTokens, error) {
	var out MotionTokens
	return out, decode(b, &out)
}

// decode lets numbers and numeric strings decode into either kind of field,
// since token JSON written by the editor is not consistently typed.
func decode(b Bundle, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("create token decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(b)); err != nil {
		return fmt.Errorf("decode tokens: %w", err)
	}
	return nil
}
