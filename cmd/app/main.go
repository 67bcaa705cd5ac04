package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/BasaniKavya/todo-app/internal"
	"github.com/BasaniKavya/todo-app/internal/idgen"
	"github.com/BasaniKavya/todo-app/internal/importer"
	"github.com/BasaniKavya/todo-app/internal/taskstore"
	pkgconfig "github.com/BasaniKavya/todo-app/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadIfPresent(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

// runImport validates a JSON document and replaces the persisted
// collection. Destructive, hence the explicit command rather than a flag.
func runImport(_ context.Context, cmd *cli.Command) error {
	file := cmd.Args().First()
	if file == "" {
		return fmt.Errorf("usage: import FILE")
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	provider, err := internal.NewProvider(cfg)
	if err != nil {
		return err
	}
	defer provider.Close()

	ids := idgen.New()
	tasks, err := importer.New(ids).Validate(raw)
	if err != nil {
		return err
	}
	store, err := taskstore.New(provider, ids)
	if err != nil {
		return err
	}
	if err := store.ReplaceAll(tasks); err != nil {
		return err
	}
	fmt.Fprintf(cmd.Writer, "imported %d tasks\n", len(tasks))
	return nil
}

// runExport writes the persisted collection to stdout as JSON that is a
// valid import payload.
func runExport(_ context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	provider, err := internal.NewProvider(cfg)
	if err != nil {
		return err
	}
	defer provider.Close()

	tasks, err := provider.Load()
	if err != nil {
		return err
	}
	data, err := importer.Export(tasks)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.Writer, string(data))
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "todo-app",
		Usage:  "Local-first task list engine with REST, SSE, and MCP surfaces",
		Action: runServe,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Replace the persisted collection with a JSON document",
				ArgsUsage: "FILE",
				Action:    runImport,
			},
			{
				Name:   "export",
				Usage:  "Write the persisted collection to stdout",
				Action: runExport,
			},
			{
				Name:   "mcp",
				Usage:  "Serve task tools over MCP stdio",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
