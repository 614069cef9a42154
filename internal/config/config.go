package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	sberrors "github.com/Aman-CERP/strbench/internal/errors"
	"github.com/Aman-CERP/strbench/internal/logging"
	"github.com/Aman-CERP/strbench/internal/report"
	"github.com/Aman-CERP/strbench/internal/sample"
	"github.com/Aman-CERP/strbench/pkg/matcher"
)

// CurrentVersion is the configuration schema version.
const CurrentVersion = 1

// ProjectFileName is the per-directory configuration file.
const ProjectFileName = ".strbench.yaml"

// Config represents the complete strbench configuration.
type Config struct {
	Version  int          `yaml:"version" json:"version"`
	Texts    TextsConfig  `yaml:"texts" json:"texts"`
	Bench    BenchConfig  `yaml:"bench" json:"bench"`
	Output   OutputConfig `yaml:"output" json:"output"`
	LogLevel string       `yaml:"log_level" json:"log_level"`
}

// TextsConfig names the texts to benchmark.
type TextsConfig struct {
	// Dir is the directory resources are resolved against.
	Dir string `yaml:"dir" json:"dir"`
	// Files are resource names relative to Dir.
	Files []string `yaml:"files" json:"files"`
}

// BenchConfig configures the comparison harness.
type BenchConfig struct {
	Repetitions    int      `yaml:"repetitions" json:"repetitions"`
	MissingPattern string   `yaml:"missing_pattern" json:"missing_pattern"`
	MinPatternLen  int      `yaml:"min_pattern_len" json:"min_pattern_len"`
	MaxPatternLen  int      `yaml:"max_pattern_len" json:"max_pattern_len"`
	Parallelism    int      `yaml:"parallelism" json:"parallelism"`
	Matchers       []string `yaml:"matchers" json:"matchers"`
}

// OutputConfig configures report rendering.
type OutputConfig struct {
	Format string `yaml:"format" json:"format"`
	Color  string `yaml:"color" json:"color"`
}

// NewConfig creates a new Config with the classic two-article setup.
func NewConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Texts: TextsConfig{
			Dir:   "data",
			Files: []string{"article_1.txt", "article_2.txt"},
		},
		Bench: BenchConfig{
			Repetitions:    5,
			MissingPattern: sample.MissingPattern,
			MinPatternLen:  sample.DefaultMinLen,
			MaxPatternLen:  sample.DefaultMaxLen,
			Parallelism:    1,
			Matchers:       []string{"boyer-moore", "kmp", "rabin-karp"},
		},
		Output: OutputConfig{
			Format: string(report.FormatTable),
			Color:  string(report.ColorAuto),
		},
		LogLevel: "warn",
	}
}

// GetUserConfigPath returns the path to the user configuration file:
// $XDG_CONFIG_HOME/strbench/config.yaml, or ~/.config/strbench/config.yaml.
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "strbench", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "strbench", "config.yaml")
	}
	return filepath.Join(home, ".config", "strbench", "config.yaml")
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	return fileExists(GetUserConfigPath())
}

// LoadUserConfig loads the user configuration file.
// Returns nil config and nil error if the file doesn't exist.
func LoadUserConfig() (*Config, error) {
	path := GetUserConfigPath()
	if !fileExists(path) {
		return nil, nil
	}

	var cfg Config
	if err := readYAML(path, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load loads configuration for the given directory.
// Precedence, lowest first:
//  1. Defaults
//  2. User config
//  3. Project config (.strbench.yaml, then .strbench.yml)
//  4. Environment variables (STRBENCH_*)
//
// The result is validated.
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	userCfg, err := LoadUserConfig()
	if err != nil {
		return nil, err
	}
	if userCfg != nil {
		cfg.mergeWith(userCfg)
	}

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ProjectConfigPath returns the project config file in dir, or "" if none.
func ProjectConfigPath(dir string) string {
	for _, name := range []string{ProjectFileName, ".strbench.yml"} {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func (c *Config) loadFromFile(dir string) error {
	path := ProjectConfigPath(dir)
	if path == "" {
		return nil
	}

	var parsed Config
	if err := readYAML(path, &parsed); err != nil {
		return err
	}
	c.mergeWith(&parsed)
	return nil
}

func readYAML(path string, into *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return sberrors.New(sberrors.ErrCodeConfigNotFound, "failed to read config file", err).
			WithDetail("path", path)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return sberrors.ConfigError("failed to parse config file", err).
			WithDetail("path", path).
			WithSuggestion("Check the YAML syntax of " + filepath.Base(path))
	}
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Texts.Dir != "" {
		c.Texts.Dir = other.Texts.Dir
	}
	if len(other.Texts.Files) > 0 {
		c.Texts.Files = other.Texts.Files
	}

	if other.Bench.Repetitions != 0 {
		c.Bench.Repetitions = other.Bench.Repetitions
	}
	if other.Bench.MissingPattern != "" {
		c.Bench.MissingPattern = other.Bench.MissingPattern
	}
	if other.Bench.MinPatternLen != 0 {
		c.Bench.MinPatternLen = other.Bench.MinPatternLen
	}
	if other.Bench.MaxPatternLen != 0 {
		c.Bench.MaxPatternLen = other.Bench.MaxPatternLen
	}
	if other.Bench.Parallelism != 0 {
		c.Bench.Parallelism = other.Bench.Parallelism
	}
	if len(other.Bench.Matchers) > 0 {
		c.Bench.Matchers = other.Bench.Matchers
	}

	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.Color != "" {
		c.Output.Color = other.Output.Color
	}

	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
}

// applyEnvOverrides applies STRBENCH_* environment variable overrides.
// A malformed integer is an error rather than silently ignored.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("STRBENCH_TEXTS_DIR"); v != "" {
		c.Texts.Dir = v
	}
	if v := os.Getenv("STRBENCH_TEXTS_FILES"); v != "" {
		c.Texts.Files = splitList(v)
	}
	if v := os.Getenv("STRBENCH_MISSING_PATTERN"); v != "" {
		c.Bench.MissingPattern = v
	}
	if v := os.Getenv("STRBENCH_MATCHERS"); v != "" {
		c.Bench.Matchers = splitList(v)
	}
	if v := os.Getenv("STRBENCH_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("STRBENCH_COLOR"); v != "" {
		c.Output.Color = v
	}
	if v := os.Getenv("STRBENCH_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}

	ints := []struct {
		env string
		dst *int
	}{
		{"STRBENCH_REPETITIONS", &c.Bench.Repetitions},
		{"STRBENCH_MIN_PATTERN_LEN", &c.Bench.MinPatternLen},
		{"STRBENCH_MAX_PATTERN_LEN", &c.Bench.MaxPatternLen},
		{"STRBENCH_PARALLELISM", &c.Bench.Parallelism},
	}
	for _, o := range ints {
		v := os.Getenv(o.env)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return sberrors.ConfigError("invalid integer in environment", err).
				WithDetail("variable", o.env)
		}
		*o.dst = n
	}

	return nil
}

// splitList splits a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return sberrors.ConfigError(fmt.Sprintf(format, args...), nil)
	}

	if c.Bench.Repetitions < 1 {
		return invalid("bench.repetitions must be at least 1, got %d", c.Bench.Repetitions)
	}
	if c.Bench.MinPatternLen < 1 {
		return invalid("bench.min_pattern_len must be at least 1, got %d", c.Bench.MinPatternLen)
	}
	if c.Bench.MaxPatternLen < c.Bench.MinPatternLen {
		return invalid("bench.max_pattern_len (%d) must not be below min_pattern_len (%d)",
			c.Bench.MaxPatternLen, c.Bench.MinPatternLen)
	}
	if c.Bench.Parallelism < 1 {
		return invalid("bench.parallelism must be at least 1, got %d", c.Bench.Parallelism)
	}
	if c.Bench.MissingPattern == "" {
		return invalid("bench.missing_pattern must not be empty")
	}
	if len(c.Bench.Matchers) == 0 {
		return invalid("bench.matchers must name at least one matcher")
	}
	if _, err := matcher.LookupAll(c.Bench.Matchers); err != nil {
		return sberrors.New(sberrors.ErrCodeUnknownMatcher, "bench.matchers is invalid", err).
			WithSuggestion("Use boyer-moore, kmp or rabin-karp")
	}

	if _, err := report.ParseFormat(c.Output.Format); err != nil {
		return sberrors.New(sberrors.ErrCodeInvalidFormat, "output.format is invalid", err)
	}
	if _, err := report.ParseColorMode(c.Output.Color); err != nil {
		return sberrors.ConfigError("output.color is invalid", err)
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return sberrors.ConfigError("log_level is invalid", err)
	}

	return nil
}

// Matchers resolves the configured matcher names.
func (c *Config) Matchers() ([]matcher.Matcher, error) {
	return matcher.LookupAll(c.Bench.Matchers)
}

// WriteYAML writes the configuration to a YAML file, creating parent
// directories as needed.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
