package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/podabio/podabio/internal/css"
	"github.com/podabio/podabio/internal/theme"
)

var (
	cssThemeFile string
	cssThemeID   string
	cssTag       bool
	cssResolve   bool
)

var cssCmd = &cobra.Command{
	Use:   "css <page.json|->",
	Short: "Compile the stylesheet for a page",
	Long: `Compile the stylesheet for a page read from a JSON file (or stdin with "-").
The page is themed by --theme, by --theme-id, or by its own theme_id.`,
	Args: cobra.ExactArgs(1),
	RunE: runCSS,
}

func init() {
	cssCmd.Flags().StringVar(&cssThemeFile, "theme", "", "theme JSON file")
	cssCmd.Flags().StringVar(&cssThemeID, "theme-id", "", "load the theme from the database")
	cssCmd.Flags().BoolVar(&cssTag, "tag", false, "wrap the output in a <style> element")
	cssCmd.Flags().BoolVar(&cssResolve, "resolve", false, "print the resolved configuration as JSON instead of CSS")
	cssCmd.MarkFlagsMutuallyExclusive("theme", "theme-id")
	cssCmd.MarkFlagsMutuallyExclusive("tag", "resolve")
	rootCmd.AddCommand(cssCmd)
}

func runCSS(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var page theme.Page
	if err := readJSON(args[0], &page); err != nil {
		return fmt.Errorf("read page: %w", err)
	}

	deps, err := openThemes(ctx, false)
	if err != nil {
		return err
	}
	defer deps.Close()

	var t *theme.Theme
	switch {
	case cssThemeFile != "":
		t = &theme.Theme{}
		if err := readJSON(cssThemeFile, t); err != nil {
			return fmt.Errorf("read theme: %w", err)
		}
	case cssThemeID != "":
		t, err = deps.service.GetTheme(ctx, cssThemeID)
		if err != nil {
			return fmt.Errorf("get theme: %w", err)
		}
		if t == nil {
			return fmt.Errorf("theme %q not found", cssThemeID)
		}
	}

	out := cmd.OutOrStdout()
	if cssResolve {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(deps.service.GetThemeConfig(ctx, &page, t))
	}

	c := css.FromPage(ctx, deps.service, &page, t, css.WithLogger(logger.Named("css")))
	if cssTag {
		_, err = io.WriteString(out, c.StyleTag())
	} else {
		_, err = io.WriteString(out, c.StyleBlock())
	}
	return err
}

// readJSON decodes path into dst; "-" reads stdin.
func readJSON(path string, dst any) error {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	return json.NewDecoder(r).Decode(dst)
}
