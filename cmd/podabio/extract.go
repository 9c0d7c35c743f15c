package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/podabio/podabio/internal/palette"
)

var (
	extractCount int
	extractJSON  bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <image-url|file>",
	Short: "Extract a dominant color palette from an image",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().IntVarP(&extractCount, "count", "n", palette.DefaultCount, "number of colors")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "print the palette as a JSON array")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	colors, err := extractPalette(cmd, args[0], extractCount)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if extractJSON {
		return json.NewEncoder(out).Encode(colors)
	}
	for _, c := range colors {
		fmt.Fprintln(out, c)
	}
	return nil
}

// extractPalette reads src as a URL when it has an http(s) scheme and as a
// local file otherwise.
func extractPalette(cmd *cobra.Command, src string, count int) ([]string, error) {
	ex := palette.NewExtractor(app.Palette, nil, logger.Named("palette"))
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return ex.ExtractFromURL(cmd.Context(), src, count), nil
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer f.Close()
	return ex.ExtractFromReader(f, count), nil
}
