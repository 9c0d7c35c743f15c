package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/podabio/podabio/internal/generator"
	"github.com/podabio/podabio/internal/palette"
)

var (
	genColors      []string
	genImage       string
	genName        string
	genDescription string
	genShuffle     bool
	genUserID      string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a theme from a palette or cover image",
	Long: `Generate a theme from --colors, from the palette of --image, or from the
default palette. With --user-id the theme is saved for that user.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringSliceVar(&genColors, "colors", nil, "comma-separated hex colors")
	generateCmd.Flags().StringVar(&genImage, "image", "", "cover image URL or file to extract colors from")
	generateCmd.Flags().StringVar(&genName, "name", "", "podcast name")
	generateCmd.Flags().StringVar(&genDescription, "description", "", "podcast description")
	generateCmd.Flags().BoolVar(&genShuffle, "shuffle", false, "shuffle the palette before generating")
	generateCmd.Flags().StringVar(&genUserID, "user-id", "", "save the generated theme for this user")
	generateCmd.MarkFlagsMutuallyExclusive("colors", "image")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	colors := genColors
	switch {
	case len(colors) > 0:
	case genImage != "":
		var err error
		if colors, err = extractPalette(cmd, genImage, generator.PaletteSize); err != nil {
			return err
		}
	default:
		colors = palette.DefaultPalette(generator.PaletteSize)
	}

	gen := generator.New(
		generator.WithLimits(app.Generator),
		generator.WithLogger(logger.Named("generator")),
	)
	if genShuffle {
		colors = gen.ShuffleColors(colors)
	}
	gt := gen.GenerateTheme(colors, genName, genDescription)

	out := cmd.OutOrStdout()
	if genUserID == "" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(gt)
	}

	deps, err := openThemes(ctx, false)
	if err != nil {
		return err
	}
	defer deps.Close()

	id, err := deps.service.CreateTheme(ctx, genUserID, gt.Name, gt.Input())
	if err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	logger.Info("theme saved", zap.String("theme_id", id), zap.String("user_id", genUserID))
	fmt.Fprintln(out, id)
	return nil
}
