package internal

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/starford/ansuz/internal/classify"
	"github.com/starford/ansuz/internal/index"
	"github.com/starford/ansuz/internal/storage"
	"github.com/starford/ansuz/internal/tagger"
)

// Toolkit bundles the initialised components every command needs.
type Toolkit struct {
	Config *Config
	Logger *slog.Logger
	Store  storage.Provider
	DB     *index.DB
	Tagger *tagger.Service
}

// Close releases the toolkit's resources.
func (t *Toolkit) Close() error {
	if t.DB != nil {
		return t.DB.Close()
	}
	return nil
}

// ClassifyRules maps the vault configuration onto classification rules.
func (c *VaultConfig) ClassifyRules() classify.Rules {
	return classify.Rules{
		DefaultProgram:  c.DefaultProgram,
		SpecialPrograms: c.SpecialPrograms,
		ProjectsDir:     c.ProjectsDir,
		Placeholders:    c.Placeholders,
	}
}

// NewToolkit builds logger, storage, index and tagging service from the
// given options.
func NewToolkit(opts ...Option) (*Toolkit, error) {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	cfg := app.config

	logWriter := app.logWriter
	if logWriter == nil {
		logWriter = os.Stdout
	}

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(logWriter, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	// Ensure vault directory exists.
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Vault.Path, cfg.Vault.Include, cfg.Vault.Ignore)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	svc := tagger.NewService(store, db, cfg.Vault.ClassifyRules(), logger)

	return &Toolkit{
		Config: cfg,
		Logger: logger,
		Store:  store,
		DB:     db,
		Tagger: svc,
	}, nil
}
