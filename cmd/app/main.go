package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/starford/ansuz/internal"
	"github.com/starford/ansuz/internal/mcpserver"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/tagger"
	pkgconfig "github.com/starford/ansuz/pkg/config"
)

const defaultConfigPath = "config/config.yaml"

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) && configPath == defaultConfigPath {
		// No config file and none requested: run on defaults.
		return cfg, cfg.Validate()
	}
	if err := pkgconfig.Load(configPath, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func overridesFromFlags(cmd *cli.Command) models.Overrides {
	return models.Overrides{
		Program: cmd.String("program"),
		Course:  cmd.String("course"),
		Class:   cmd.String("class"),
	}
}

func runTag(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	tk, err := internal.NewToolkit(internal.WithConfig(cfg), internal.WithLogWriter(os.Stderr))
	if err != nil {
		return err
	}
	defer tk.Close()

	opts := tagger.Options{
		DryRun:    cmd.Bool("dry-run"),
		Overrides: overridesFromFlags(cmd),
	}

	workers := int(cmd.Int("workers"))
	if workers == 0 {
		workers = cfg.Batch.Workers
	}

	paths, err := tk.Tagger.ListPaths()
	if err != nil {
		return err
	}

	quiet := cmd.Bool("quiet")
	var bar *progressbar.ProgressBar
	if !quiet {
		desc := "Tagging files"
		if opts.DryRun {
			desc = "Planning changes"
		}
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetDescription(desc),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files/s"),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionOnCompletion(func() {
				fmt.Fprintln(os.Stderr)
			}),
			progressbar.OptionSetWriter(os.Stderr),
		)
	}

	var outMu sync.Mutex
	stats, err := tk.Tagger.TagBatch(ctx, paths, opts, workers, func(fr *tagger.FileResult, tagErr error) {
		outMu.Lock()
		defer outMu.Unlock()
		if bar != nil {
			_ = bar.Add(1)
		}
		if opts.DryRun && tagErr == nil && fr != nil {
			printPlan(fr)
		}
	})
	if err != nil {
		return err
	}

	verb := "tagged"
	if opts.DryRun {
		verb = "would tag"
	}
	fmt.Printf("%s %d, unchanged %d, skipped %d, failed %d\n",
		verb, stats.Tagged, stats.Unchanged, stats.Skipped, stats.Failed)
	if stats.Failed > 0 {
		return fmt.Errorf("%d files failed", stats.Failed)
	}
	return nil
}

// printPlan writes the non-preserve part of a dry-run plan to stdout.
func printPlan(fr *tagger.FileResult) {
	shown := false
	for _, c := range fr.Changes {
		if c.Action.String() == "preserve" {
			continue
		}
		if !shown {
			fmt.Printf("%s:\n", fr.Path)
			shown = true
		}
		if c.Previous != "" {
			fmt.Printf("  %s %s: %q (was %q)\n", c.Action, c.Key, c.Value, c.Previous)
		} else {
			fmt.Printf("  %s %s: %q\n", c.Action, c.Key, c.Value)
		}
	}
}

func runResolve(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("resolve requires exactly one vault-relative path")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	tk, err := internal.NewToolkit(internal.WithConfig(cfg), internal.WithLogWriter(os.Stderr))
	if err != nil {
		return err
	}
	defer tk.Close()

	res, err := tk.Tagger.Resolve(cmd.Args().First(), overridesFromFlags(cmd))
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.Run(ctx, internal.WithConfig(cfg))
}

func runStatus(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	tk, err := internal.NewToolkit(internal.WithConfig(cfg), internal.WithLogWriter(os.Stderr))
	if err != nil {
		return err
	}
	defer tk.Close()

	stats, err := tk.DB.Stats()
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Logs go to stderr; stdout carries the protocol.
	tk, err := internal.NewToolkit(internal.WithConfig(cfg), internal.WithLogWriter(os.Stderr))
	if err != nil {
		return err
	}
	defer tk.Close()

	srv := mcpserver.New(tk.DB, tk.Tagger)
	tk.Logger.Info("MCP server starting on stdio")
	return srv.ServeStdio()
}

func overrideFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "program", Usage: "Override the inferred program"},
		&cli.StringFlag{Name: "course", Usage: "Override the inferred course"},
		&cli.StringFlag{Name: "class", Usage: "Override the inferred class"},
	}
}

func main() {
	cmd := &cli.Command{
		Name:  "ansuz",
		Usage: "Vault metadata classifier: infers program, course, class, module and lesson for educational content and maintains Markdown frontmatter",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: defaultConfigPath,
				Value:       defaultConfigPath,
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "tag",
				Usage:  "Classify every eligible vault file and merge metadata into frontmatter",
				Action: runTag,
				Flags: append([]cli.Flag{
					&cli.BoolFlag{Name: "dry-run", Usage: "Show planned changes without writing"},
					&cli.IntFlag{Name: "workers", Usage: "Worker pool size (defaults to batch.workers from config)"},
					&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "Suppress the progress bar"},
				}, overrideFlags()...),
			},
			{
				Name:      "resolve",
				Usage:     "Classify a single vault-relative path and print the result as JSON",
				ArgsUsage: "<path>",
				Action:    runResolve,
				Flags:     overrideFlags(),
			},
			{
				Name:   "watch",
				Usage:  "Watch the vault and keep the metadata index current (no frontmatter writes)",
				Action: runWatch,
			},
			{
				Name:   "status",
				Usage:  "Print index statistics as JSON",
				Action: runStatus,
			},
			{
				Name:   "mcp",
				Usage:  "Serve vault metadata tools over the Model Context Protocol on stdio",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
