// Package config holds process configuration for the sheetshape CLI.
// Environment variables seed the defaults and command-line flags override
// them.
//
//	cfg, err := config.FromEnv(os.Getenv)
//	config.BindFlags(cmd.PersistentFlags(), &cfg)
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape"
	"github.com/ukaji3/sheetshape-go/pkg/sheetshape/tools"
)

// Config holds every tunable of the CLI. It is a plain value and may be
// copied freely.
type Config struct {
	// ExcelDir is the directory filenames are resolved in.
	ExcelDir string
	// MaxFileSizeMB rejects larger files.
	MaxFileSizeMB int
	// MaxRowsDefault caps extracted rows when a request sets no limit.
	MaxRowsDefault int
	// MaxHeaderRows is the header scan depth.
	MaxHeaderRows int
	// SampleRows is the number of data rows sampled per sheet.
	SampleRows int
	// FlagColumns are normalized to booleans when cleaning.
	FlagColumns []string

	CacheEnabled bool
	CacheSize    int
	CacheTTL     time.Duration

	// Timeout bounds each engine call. Zero disables it.
	Timeout     time.Duration
	Parallelism int

	LogLevel string
	Debug    bool
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		ExcelDir:       "excel_files",
		MaxFileSizeMB:  100,
		MaxRowsDefault: 1000,
		MaxHeaderRows:  10,
		SampleRows:     10,
		FlagColumns:    append([]string(nil), sheetshape.DefaultFlagColumns...),
		CacheEnabled:   true,
		CacheSize:      64,
		CacheTTL:       30 * time.Minute,
		Timeout:        30 * time.Second,
		Parallelism:    1,
		LogLevel:       "INFO",
	}
}

// FromEnv overlays environment variables read through getenv onto Default.
// Empty variables are ignored. getenv is usually os.Getenv; tests pass a map
// lookup.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()
	var errs []error
	lookup := func(keys ...string) (string, bool) {
		for _, k := range keys {
			if v := strings.TrimSpace(getenv(k)); v != "" {
				return v, true
			}
		}
		return "", false
	}
	setInt := func(dst *int, keys ...string) {
		if v, ok := lookup(keys...); ok {
			n, err := cast.ToIntE(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", keys[0], err))
				return
			}
			*dst = n
		}
	}
	setBool := func(dst *bool, keys ...string) {
		if v, ok := lookup(keys...); ok {
			b, err := cast.ToBoolE(strings.ToLower(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", keys[0], err))
				return
			}
			*dst = b
		}
	}
	setDuration := func(dst *time.Duration, keys ...string) {
		if v, ok := lookup(keys...); ok {
			d, err := cast.ToDurationE(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", keys[0], err))
				return
			}
			*dst = d
		}
	}

	if v, ok := lookup("SHEETSHAPE_EXCEL_DIR", "EXCEL_FILES_DIR"); ok {
		cfg.ExcelDir = v
	}
	if v, ok := lookup("SHEETSHAPE_LOG_LEVEL", "MCP_LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup("SHEETSHAPE_FLAG_COLUMNS"); ok {
		cfg.FlagColumns = splitList(v)
	}
	setInt(&cfg.MaxFileSizeMB, "SHEETSHAPE_MAX_FILE_SIZE_MB")
	setInt(&cfg.MaxRowsDefault, "SHEETSHAPE_MAX_ROWS_DEFAULT", "MAX_ROWS_DEFAULT")
	setInt(&cfg.MaxHeaderRows, "SHEETSHAPE_MAX_HEADER_ROWS")
	setInt(&cfg.SampleRows, "SHEETSHAPE_SAMPLE_ROWS")
	setInt(&cfg.CacheSize, "SHEETSHAPE_CACHE_SIZE")
	setInt(&cfg.Parallelism, "SHEETSHAPE_PARALLELISM")
	setBool(&cfg.CacheEnabled, "SHEETSHAPE_CACHE_ENABLED")
	setBool(&cfg.Debug, "SHEETSHAPE_DEBUG", "DEBUG")
	setDuration(&cfg.CacheTTL, "SHEETSHAPE_CACHE_TTL")
	setDuration(&cfg.Timeout, "SHEETSHAPE_TIMEOUT")

	return cfg, errors.Join(errs...)
}

// BindFlags registers flags on fs that write into cfg. The current values of
// cfg become the flag defaults.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.ExcelDir, "dir", cfg.ExcelDir, "Directory holding the spreadsheet files")
	fs.IntVar(&cfg.MaxFileSizeMB, "max-file-size-mb", cfg.MaxFileSizeMB, "Reject files larger than this many MB")
	fs.IntVar(&cfg.MaxRowsDefault, "max-rows-default", cfg.MaxRowsDefault, "Row cap applied when --max-rows is not set (0 = no cap)")
	fs.IntVar(&cfg.MaxHeaderRows, "max-header-rows", cfg.MaxHeaderRows, "Number of leading rows scored as header candidates")
	fs.IntVar(&cfg.SampleRows, "sample-rows", cfg.SampleRows, "Data rows sampled per sheet by analyze")
	fs.StringSliceVar(&cfg.FlagColumns, "flag-columns", cfg.FlagColumns, "Columns normalized to booleans when cleaning")
	fs.BoolVar(&cfg.CacheEnabled, "cache", cfg.CacheEnabled, "Cache extractions between operations")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "Lifetime of cached extractions")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Time budget per operation (0 = none)")
	fs.IntVar(&cfg.Parallelism, "parallelism", cfg.Parallelism, "Sheets analyzed concurrently")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Human-readable debug logging")
}

// Validate rejects settings the engine cannot run with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.ExcelDir) == "" {
		errs = append(errs, errors.New("excel dir must not be empty"))
	}
	if c.MaxFileSizeMB <= 0 {
		errs = append(errs, fmt.Errorf("max file size must be positive, got %d", c.MaxFileSizeMB))
	}
	if c.MaxRowsDefault < 0 {
		errs = append(errs, fmt.Errorf("max rows default must not be negative, got %d", c.MaxRowsDefault))
	}
	if c.MaxHeaderRows <= 0 {
		errs = append(errs, fmt.Errorf("max header rows must be positive, got %d", c.MaxHeaderRows))
	}
	if c.SampleRows <= 0 {
		errs = append(errs, fmt.Errorf("sample rows must be positive, got %d", c.SampleRows))
	}
	if c.CacheEnabled && c.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("cache size must be positive when the cache is enabled, got %d", c.CacheSize))
	}
	if c.Timeout < 0 || c.CacheTTL < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	if c.Parallelism < 1 {
		errs = append(errs, fmt.Errorf("parallelism must be at least 1, got %d", c.Parallelism))
	}
	return errors.Join(errs...)
}

// EngineOptions projects the configuration onto engine options.
func (c Config) EngineOptions() sheetshape.Options {
	return sheetshape.Options{
		MaxHeaderRows: c.MaxHeaderRows,
		SampleRows:    c.SampleRows,
		FlagColumns:   c.FlagColumns,
		MaxFileSize:   int64(c.MaxFileSizeMB) << 20,
		Timeout:       c.Timeout,
		Parallelism:   c.Parallelism,
	}
}

// ServiceConfig projects the configuration onto the tool service.
func (c Config) ServiceConfig() tools.Config {
	sc := tools.Config{
		Dir:            c.ExcelDir,
		MaxRowsDefault: c.MaxRowsDefault,
	}
	if c.CacheEnabled {
		sc.CacheSize = c.CacheSize
		sc.CacheTTL = c.CacheTTL
	}
	return sc
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
