package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"batodl/models"
	"batodl/parser"
	"batodl/validation"
)

var (
	urlFile     string
	archivePath string
	bulkCmd     = &cobra.Command{
		Use:   "bulk [chapter-url...]",
		Short: "Download several chapters into one zip archive",
		Long: `Processes chapters one after another and packs every PDF that was produced
into a single zip. URLs come from the arguments and/or --file (one per line,
blank lines and # comments ignored). A failed chapter does not stop the batch.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			urls, err := collectURLs(args, urlFile)
			if err != nil {
				return err
			}
			if len(urls) == 0 {
				return fmt.Errorf("no chapter URLs given (pass them as arguments or with --file)")
			}

			policy, err := stitchPolicy(cmd)
			if err != nil {
				return err
			}
			archive, err := bulkArchivePath(archivePath, time.Now())
			if err != nil {
				return err
			}
			m, err := newManager(cmd)
			if err != nil {
				return err
			}

			log.Printf("[CLI] bulk: %d chapters → %s", len(urls), archive)
			batch, err := m.DownloadBatch(cmd.Context(), urls, policy, archive)
			printBatchResult(cmd.OutOrStdout(), batch)
			return err
		},
	}
)

func init() {
	rootCmd.AddCommand(bulkCmd)
	addStitchFlags(bulkCmd)
	bulkCmd.Flags().StringVarP(&urlFile, "file", "f", "", "File with one chapter URL per line")
	bulkCmd.Flags().StringVarP(&archivePath, "archive", "a", "", "Zip file to write (default <output_dir>/batodl_<timestamp>.zip)")
}

// collectURLs merges argument URLs with the list file. Malformed entries are
// logged and dropped; unknown mirrors are left for the pipeline to reject.
func collectURLs(args []string, file string) ([]string, error) {
	urls := append([]string(nil), args...)

	if file != "" {
		path, err := parser.ExpandPath(file)
		if err != nil {
			return nil, err
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("error opening URL list: %w", err)
		}
		defer f.Close()

		listed, err := validation.ParseURLList(f)
		if err != nil {
			return nil, err
		}
		urls = append(urls, listed...)
	}

	var valid []string
	for _, u := range urls {
		if err := validation.ValidateChapterURL(u); err != nil {
			log.Printf("[CLI] ⚠️ Skipping %q: %v", u, err)
			continue
		}
		valid = append(valid, u)
	}
	return valid, nil
}

func bulkArchivePath(flag string, now time.Time) (string, error) {
	if flag != "" {
		return parser.ExpandPath(flag)
	}
	dir, err := outputDir("")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("batodl_%s.zip", now.Format("20060102_150405"))), nil
}

func printBatchResult(w io.Writer, batch *models.BatchResult) {
	if batch == nil {
		return
	}
	for i, res := range batch.Chapters {
		if res.Succeeded() {
			fmt.Fprintf(w, "%3d. ✓ %s (%d pages, %.2f MB, %s)\n",
				i+1, res.Title, res.Pages, res.SizeMB(), res.Elapsed.Round(time.Millisecond))
		} else {
			fmt.Fprintf(w, "%3d. ✗ %s: %v\n", i+1, res.URL, res.Err)
		}
	}
	fmt.Fprintf(w, "\n%d succeeded, %d failed in %s\n", batch.Succeeded, batch.Failed, batch.Elapsed.Round(time.Millisecond))
	if batch.ArchivePath != "" {
		fmt.Fprintf(w, "archive: %s\n", batch.ArchivePath)
	}
}
