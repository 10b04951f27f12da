package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tftdatascientist/drdoc/internal"
	"github.com/tftdatascientist/drdoc/internal/mcpserver"
	"github.com/tftdatascientist/drdoc/internal/service"
)

func mcpCommand() *cli.Command {
	return &cli.Command{
		Name:   "mcp",
		Usage:  "Serve the pipeline as MCP tools over stdio",
		Action: runMCP,
	}
}

// runMCP keeps stdout for the protocol; logs go to stderr.
func runMCP(_ context.Context, cmd *cli.Command) error {
	logger := setupLogger(cmd)
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, err := internal.NewService(cfg, service.WithLogger(logger))
	if err != nil {
		return err
	}
	if err := mcpserver.New(svc).ServeStdio(); err != nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	return nil
}
