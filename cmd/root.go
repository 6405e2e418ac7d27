package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"batodl/config"
	"batodl/downloader"
	"batodl/models"
	"batodl/parser"
)

var (
	verbose     bool
	quiet       bool
	configDir   string
	fetcherKind string
	settings    config.Settings

	rootCmd = &cobra.Command{
		Use:   "batodl",
		Short: "Bato chapter downloader",
		Long: `batodl downloads manga chapters from the Bato mirror network and turns each
one into a PDF. Mirrors are tried in turn until one returns the chapter's image list.`,
		SilenceUsage:      true,
		PersistentPreRunE: loadSettings,
	}
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	config.CloseLogger()

	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Also write log output to the console")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Hide progress bars")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", config.DefaultConfigDir, "Directory holding config.toml and batodl.log")
	rootCmd.PersistentFlags().StringVar(&fetcherKind, "fetcher", "", "Chapter page transport: http, browser or auto (default from config)")
}

// loadSettings reads config.toml and routes logging into the config directory.
func loadSettings(cmd *cobra.Command, args []string) error {
	s, err := config.Load(configDir)
	if err != nil {
		return err
	}
	settings = s

	if fetcherKind != "" {
		settings.PageFetcher = fetcherKind
		if err := settings.Validate(); err != nil {
			return err
		}
	}

	return config.InitLogger(settings.Dir(), verbose)
}

// skipSettings replaces loadSettings for commands that touch no configuration.
func skipSettings(cmd *cobra.Command, args []string) error {
	return nil
}

func newManager(cmd *cobra.Command) (*downloader.Manager, error) {
	interval, err := settings.Interval()
	if err != nil {
		return nil, err
	}

	var sink models.ProgressSink
	if !quiet {
		sink = newBarSink(cmd.ErrOrStderr())
	}

	return downloader.NewManager(downloader.Options{
		Fetcher:         downloader.NewPageFetcher(settings.PageFetcher),
		ChapterInterval: interval,
		Sink:            sink,
	}), nil
}

// outputDir is the --out flag when given, else output_dir from config.
func outputDir(flag string) (string, error) {
	var (
		dir string
		err error
	)
	if flag != "" {
		dir, err = parser.ExpandPath(flag)
	} else {
		dir, err = settings.OutputPath()
	}
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory %s: %w", dir, err)
	}
	return dir, nil
}
