package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"batodl/models"
	"batodl/validation"
)

var (
	resolveJSON bool
	resolveCmd  = &cobra.Command{
		Use:   "resolve <chapter-url>",
		Short: "Print a chapter's title, mirror and image list without downloading",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validation.ValidateChapterURL(args[0]); err != nil {
				return err
			}
			m, err := newManager(cmd)
			if err != nil {
				return err
			}

			manifest, err := m.Resolve(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printManifest(cmd.OutOrStdout(), manifest, resolveJSON)
		},
	}
)

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().BoolVar(&resolveJSON, "json", false, "Print the manifest as JSON")
}

func printManifest(w io.Writer, manifest *models.ChapterManifest, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(manifest)
	}

	fmt.Fprintf(w, "title:    %s\n", manifest.Title)
	fmt.Fprintf(w, "mirror:   %s\n", manifest.ResolvedMirror)
	fmt.Fprintf(w, "strategy: %s\n", manifest.Strategy)
	fmt.Fprintf(w, "images:   %d\n", len(manifest.Images))
	for i, img := range manifest.Images {
		fmt.Fprintf(w, "  %4d  %s\n", i+1, img)
	}
	return nil
}
