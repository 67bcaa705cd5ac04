package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/BasaniKavya/todo-app/internal"
	"github.com/BasaniKavya/todo-app/internal/idgen"
	"github.com/BasaniKavya/todo-app/internal/importer"
	"github.com/BasaniKavya/todo-app/internal/mcpserver"
	"github.com/BasaniKavya/todo-app/internal/taskservice"
	"github.com/BasaniKavya/todo-app/internal/taskstore"
)

// runMCP serves the task tools over stdio. Logging stays on stderr by
// convention; stdout belongs to the MCP transport.
func runMCP(_ context.Context, cmd *cli.Command) error {
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
	store, err := taskstore.New(provider, ids)
	if err != nil {
		return err
	}
	svc := taskservice.NewService(store, importer.New(ids), nil)
	return mcpserver.New(svc).ServeStdio()
}
