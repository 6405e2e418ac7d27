package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"batodl/downloader"
	"batodl/parser"
)

const (
	DefaultConfigDir = "~/.config/batodl"
	configFileName   = "config.toml"
)

// Settings is the persisted user configuration. CLI flags override it.
type Settings struct {
	OutputDir       string `toml:"output_dir"`
	Stitch          string `toml:"stitch"`
	CustomHeight    int    `toml:"custom_height"`
	PageFetcher     string `toml:"page_fetcher"`
	ChapterInterval string `toml:"chapter_interval"`

	dir string
}

// Default returns the settings written on first run.
func Default() Settings {
	return Settings{
		OutputDir:       "~/batodl",
		Stitch:          "skip",
		CustomHeight:    15000,
		PageFetcher:     downloader.FetcherHTTP,
		ChapterInterval: "2s",
	}
}

// Dir is the directory the settings were loaded from.
func (s Settings) Dir() string {
	return s.dir
}

// Interval parses chapter_interval. An empty value means no pause.
func (s Settings) Interval() (time.Duration, error) {
	if s.ChapterInterval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.ChapterInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid chapter_interval %q: %w", s.ChapterInterval, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("chapter_interval must not be negative, got %s", d)
	}
	return d, nil
}

// OutputPath is output_dir with "~" expanded.
func (s Settings) OutputPath() (string, error) {
	return parser.ExpandPath(s.OutputDir)
}

// Validate checks the fields the config package owns. The stitch preset is
// checked where it is turned into a policy.
func (s Settings) Validate() error {
	switch s.PageFetcher {
	case downloader.FetcherHTTP, downloader.FetcherBrowser, downloader.FetcherAuto:
	default:
		return fmt.Errorf("invalid page_fetcher %q (want http, browser or auto)", s.PageFetcher)
	}
	if s.OutputDir == "" {
		return fmt.Errorf("output_dir must not be empty")
	}
	_, err := s.Interval()
	return err
}

// Load reads config.toml from dir (DefaultConfigDir when empty), creating the
// directory and a default file when missing. Keys absent from the file keep
// their defaults.
func Load(dir string) (Settings, error) {
	configDir, err := verifyConfigDirectory(dir)
	if err != nil {
		return Settings{}, err
	}

	configFile, err := verifyConfigFiles(configDir)
	if err != nil {
		return Settings{}, err
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return Settings{}, fmt.Errorf("error reading config file: %w", err)
	}

	settings := Default()
	if err := toml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("error parsing %s: %w", configFile, err)
	}
	settings.dir = configDir

	if err := settings.Validate(); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", configFile, err)
	}
	return settings, nil
}

// Save writes settings to config.toml in dir.
func Save(dir string, settings Settings) error {
	configDir, err := verifyConfigDirectory(dir)
	if err != nil {
		return fmt.Errorf("error verifying config directory: %w", err)
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(configDir, configFileName), data, 0644)
}

// check config directory exists or create it
func verifyConfigDirectory(dir string) (string, error) {
	if dir == "" {
		dir = DefaultConfigDir
	}
	configDirectory, expandError := parser.ExpandPath(dir)
	if expandError != nil {
		return "", fmt.Errorf("cannot verify local configuration directory: %w", expandError)
	}

	_, err := os.Stat(configDirectory)
	if os.IsNotExist(err) {
		if err := os.MkdirAll(configDirectory, 0755); err != nil {
			return "", fmt.Errorf("error creating directory %s: %w", configDirectory, err)
		}
		log.Printf("[Config] Directory %s created ✓", configDirectory)
	} else if err != nil {
		return "", fmt.Errorf("error checking directory %s: %w", configDirectory, err)
	}

	return configDirectory, nil
}

// check config file exists or create it with defaults
func verifyConfigFiles(configDir string) (string, error) {
	configFile := filepath.Join(configDir, configFileName)

	_, err := os.Stat(configFile)
	if os.IsNotExist(err) {
		log.Printf("[Config] Config file not found, writing defaults to '%s'", configFile)
		if saveErr := Save(configDir, Default()); saveErr != nil {
			return "", fmt.Errorf("error creating config file: %w", saveErr)
		}
	} else if err != nil {
		return "", fmt.Errorf("error checking file existence: %w", err)
	}

	return configFile, nil
}
