package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFilename = "config.yaml"

	envOutputDir = "SONUS_OUTPUT_DIR"
	envLogLevel  = "SONUS_LOG_LEVEL"
)

type Config struct {
	Log        Log        `yaml:"log"`
	Fetcher    Fetcher    `yaml:"fetcher"`
	Downloader Downloader `yaml:"downloader"`
	Acquirer   Acquirer   `yaml:"acquirer"`
}

func (c *Config) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Dict("log", c.Log.ToDict()).
		Dict("fetcher", c.Fetcher.ToDict()).
		Dict("downloader", c.Downloader.ToDict()).
		Dict("acquirer", c.Acquirer.ToDict())
}

func (c *Config) setDefaults() {
	c.Log.setDefaults()
	c.Fetcher.setDefaults()
	c.Downloader.setDefaults()
	c.Acquirer.setDefaults()
}

func (c *Config) validate() error {
	if err := c.Log.validate(); nil != err {
		return fmt.Errorf("log config validation failed: %v", err)
	}

	if err := c.Fetcher.validate(); nil != err {
		return fmt.Errorf("fetcher config validation failed: %v", err)
	}

	if err := c.Downloader.validate(); nil != err {
		return fmt.Errorf("downloader config validation failed: %v", err)
	}

	if err := c.Acquirer.validate(); nil != err {
		return fmt.Errorf("acquirer config validation failed: %v", err)
	}

	return nil
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Log) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Str("level", c.Level).
		Str("format", c.Format)
}

func (c *Log) setDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}

	if c.Format == "" {
		c.Format = "pretty"
	}
}

func (c *Log) validate() error {
	if !slices.Contains([]string{"trace", "debug", "info", "warn", "error", "fatal", "panic"}, c.Level) {
		return fmt.Errorf(
			"level must be one of: trace, debug, info, warn, error, fatal, panic, got: %s",
			c.Level,
		)
	}

	if !slices.Contains([]string{"json", "pretty"}, c.Format) {
		return fmt.Errorf("format must be 'json' or 'pretty', got: %s", c.Format)
	}

	return nil
}

type Fetcher struct {
	Timeout        Duration `yaml:"timeout"`
	MaxRetries     *int     `yaml:"max_retries"`
	UserAgent      string   `yaml:"user_agent"`
	AcceptLanguage string   `yaml:"accept_language"`
}

func (c *Fetcher) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Str("timeout", c.Timeout.String()).
		Int("max_retries", c.Retries()).
		Str("user_agent", c.UserAgent).
		Str("accept_language", c.AcceptLanguage)
}

const DefaultMaxRetries = 3

// Retries is the number of retries after the first attempt. Zero disables
// retrying.
func (c *Fetcher) Retries() int {
	if nil == c.MaxRetries {
		return DefaultMaxRetries
	}

	return *c.MaxRetries
}

func (c *Fetcher) setDefaults() {
	if c.Timeout.Duration == 0 {
		c.Timeout.Duration = 15 * time.Second
	}

	if nil == c.MaxRetries {
		c.MaxRetries = lo.ToPtr(DefaultMaxRetries)
	}

	if c.UserAgent == "" {
		c.UserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	}

	if c.AcceptLanguage == "" {
		c.AcceptLanguage = "en-US,en;q=0.9"
	}
}

func (c *Fetcher) validate() error {
	if c.Timeout.Duration < 0 {
		return errors.New("timeout must be greater than 0")
	}

	if c.Retries() < 0 {
		return errors.New("max_retries must not be negative")
	}

	return nil
}

type Downloader struct {
	OutputDir    string `yaml:"output_dir"`
	Workers      int    `yaml:"workers"`
	SkipExisting *bool  `yaml:"skip_existing"`
	CleanTitles  bool   `yaml:"clean_titles"`
}

func (c *Downloader) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Str("output_dir", c.OutputDir).
		Int("workers", c.Workers).
		Bool("skip_existing", c.ShouldSkipExisting()).
		Bool("clean_titles", c.CleanTitles)
}

func (c *Downloader) ShouldSkipExisting() bool {
	return nil == c.SkipExisting || *c.SkipExisting
}

func (c *Downloader) setDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = desktopDir()
	}

	if c.Workers == 0 {
		c.Workers = 4
	}
}

func (c *Downloader) validate() error {
	if c.Workers < 0 {
		return errors.New("workers must be greater than 0")
	}

	if i, err := os.Stat(c.OutputDir); nil != err {
		if errors.Is(err, os.ErrNotExist) {
			return errors.New("output_dir does not exist")
		}

		return fmt.Errorf("failed to stat output_dir: %v", err)
	} else if !i.IsDir() {
		return errors.New("output_dir must be a directory")
	}

	return nil
}

func desktopDir() string {
	home, err := os.UserHomeDir()
	if nil != err {
		return "."
	}

	desktop := filepath.Join(home, "Desktop")
	if i, err := os.Stat(desktop); nil == err && i.IsDir() {
		return desktop
	}

	return home
}

// Acquirer configures the yt-dlp runs. Music is always extracted as mp3 and
// video merged into mp4.
type Acquirer struct {
	Binary  string   `yaml:"binary"`
	Timeout Duration `yaml:"timeout"`
}

func (c *Acquirer) ToDict() *zerolog.Event {
	return zerolog.Dict().
		Str("binary", c.Binary).
		Str("timeout", c.Timeout.String())
}

func (c *Acquirer) setDefaults() {
	if c.Binary == "" {
		c.Binary = "yt-dlp"
	}

	if c.Timeout.Duration == 0 {
		c.Timeout.Duration = 10 * time.Minute
	}
}

func (c *Acquirer) validate() error {
	if c.Timeout.Duration < 0 {
		return errors.New("timeout must be greater than 0")
	}

	return nil
}

// Overrides are command line values that take precedence over the file.
type Overrides struct {
	OutputDir string
	Workers   int
}

// Apply sets non-zero overrides and re-validates the result.
func (c *Config) Apply(o Overrides) error {
	if o.OutputDir != "" {
		c.Downloader.OutputDir = o.OutputDir
	}

	if o.Workers > 0 {
		c.Downloader.Workers = o.Workers
	}

	if err := c.validate(); nil != err {
		return fmt.Errorf("configuration validation failed: %v", err)
	}

	return nil
}

type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return fmt.Errorf("failed to parse duration: %v", err)
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("failed to parse duration: %v", err)
	}

	d.Duration = parsed

	return nil
}

// Load reads filename (config.yaml when empty). A missing default file is not
// an error; defaults and environment overrides apply either way.
func Load(filename string) (*Config, error) {
	path := lo.Ternary(len(filename) > 0, filename, DefaultFilename)

	var conf Config

	data, err := os.ReadFile(path)
	switch {
	case nil == err:
		if err := yaml.Unmarshal(data, &conf); nil != err {
			return nil, fmt.Errorf("failed to parse config file %s: %v", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && len(filename) == 0:
	default:
		return nil, fmt.Errorf("failed to read config file %s: %v", path, err)
	}

	if v := os.Getenv(envOutputDir); v != "" {
		conf.Downloader.OutputDir = v
	}

	if v := os.Getenv(envLogLevel); v != "" {
		conf.Log.Level = v
	}

	conf.setDefaults()

	if err := conf.validate(); nil != err {
		return nil, fmt.Errorf("configuration validation failed: %v", err)
	}

	return &conf, nil
}
