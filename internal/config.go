package internal

import (
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the application configuration.
type Config struct {
	App    ApplicationConfig `yaml:"app"`
	Vault  VaultConfig       `yaml:"vault"`
	SQLite SQLiteConfig      `yaml:"sqlite"`
	Batch  BatchConfig       `yaml:"batch"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.SQLite.Validate(); err != nil {
		return err
	}
	return c.Batch.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// VaultConfig describes the vault directory and the classification rules
// applied to files inside it.
type VaultConfig struct {
	Path string `yaml:"path"`

	// DefaultProgram is assigned when no other source yields a program.
	DefaultProgram string `yaml:"default_program"`

	// SpecialPrograms are directory names that set the program wherever
	// they appear in a path. The path fallback then counts course and
	// class depths from the matched directory instead of the vault root.
	SpecialPrograms []string `yaml:"special_programs"`

	// ProjectsDir, when it appears directly under a special program, is
	// skipped before the course and class depths are counted.
	ProjectsDir string `yaml:"projects_dir"`

	// Placeholders are frontmatter values treated as provisional and
	// eligible for replacement.
	Placeholders []string `yaml:"placeholders"`

	// Include and Ignore are glob patterns (slash-separated, relative to
	// the vault root) selecting which files are classified.
	Include []string `yaml:"include"`
	Ignore  []string `yaml:"ignore"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.DefaultProgram, validation.Required),
	)
}

// SQLiteConfig holds SQLite database configuration.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the SQLite configuration.
func (c *SQLiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// BatchConfig controls batch tagging.
type BatchConfig struct {
	Workers int `yaml:"workers"`
}

// Validate validates the batch configuration.
func (c *BatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Workers, validation.Required, validation.Min(1), validation.Max(64)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Vault: VaultConfig{
			Path:           "./vault",
			DefaultProgram: "general",
			ProjectsDir:    "projects",
			Placeholders:   []string{"[MISSING]"},
			Include:        []string{"**/*.md", "**/*.mp4", "**/*.pdf"},
			Ignore:         []string{".**", "**/.*"},
		},
		SQLite: SQLiteConfig{
			Path: "./ansuz.db",
		},
		Batch: BatchConfig{
			Workers: 4,
		},
	}
}
