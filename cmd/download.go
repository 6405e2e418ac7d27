package cmd

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/spf13/cobra"

	"batodl/models"
	"batodl/validation"
)

// downloadCmd represents the download command
var (
	stitchPreset string
	customHeight int
	outFolder    string
	downloadCmd  = &cobra.Command{
		Use:   "download <chapter-url>",
		Short: "Download one chapter as a PDF",
		Long: `Resolves the chapter on the first mirror that answers, downloads its images and
writes "<title>.pdf" into the output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chapterURL := args[0]
			if err := validation.ValidateChapterURL(chapterURL); err != nil {
				return err
			}

			policy, err := stitchPolicy(cmd)
			if err != nil {
				return err
			}
			dir, err := outputDir(outFolder)
			if err != nil {
				return err
			}
			m, err := newManager(cmd)
			if err != nil {
				return err
			}

			log.Printf("[CLI] download %s (chunk height %d) → %s", chapterURL, policy.ChunkHeightPixels, dir)
			res := m.DownloadChapter(cmd.Context(), chapterURL, policy, dir)
			printChapterResult(cmd.OutOrStdout(), res)
			return res.Err
		},
	}
)

func init() {
	rootCmd.AddCommand(downloadCmd)
	addStitchFlags(downloadCmd)
	downloadCmd.Flags().StringVarP(&outFolder, "out", "o", "", "Output directory (default from config)")
}

func addStitchFlags(c *cobra.Command) {
	c.Flags().StringVarP(&stitchPreset, "stitch", "s", "", "Stitch preset: skip, short, normal, tall or custom (default from config)")
	c.Flags().IntVar(&customHeight, "height", 0, "Chunk height in pixels for --stitch custom (1000-50000)")
}

// stitchPolicy applies --stitch/--height over the configured preset.
func stitchPolicy(cmd *cobra.Command) (models.StitchPolicy, error) {
	preset := settings.Stitch
	if cmd.Flags().Changed("stitch") {
		preset = stitchPreset
	}
	height := settings.CustomHeight
	if cmd.Flags().Changed("height") {
		height = customHeight
	}
	return validation.StitchPolicy(preset, height)
}

func printChapterResult(w io.Writer, res *models.ChapterResult) {
	if res.Succeeded() {
		fmt.Fprintf(w, "✓ %s\n", res.Title)
		fmt.Fprintf(w, "  mirror:  %s\n", res.Mirror)
		fmt.Fprintf(w, "  images:  %d/%d\n", res.Downloaded, res.Images)
		fmt.Fprintf(w, "  pages:   %d\n", res.Pages)
		fmt.Fprintf(w, "  size:    %.2f MB\n", res.SizeMB())
		fmt.Fprintf(w, "  elapsed: %s\n", res.Elapsed.Round(time.Millisecond))
		fmt.Fprintf(w, "  saved:   %s\n", res.DocumentPath)
		return
	}
	fmt.Fprintf(w, "✗ %s: %v\n", res.URL, res.Err)
}
