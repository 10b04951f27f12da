package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/tftdatascientist/drdoc/internal"
	pkgconfig "github.com/tftdatascientist/drdoc/pkg/config"
)

const defaultConfigPath = "config/config.yaml"

// loadConfig starts from the defaults and overlays the config file when it
// exists. Flags override both.
func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if _, err := pkgconfig.LoadOptional(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cmd.IsSet("output") {
		cfg.Output.Root = cmd.String("output")
	}
	return cfg, nil
}

// setupLogger sends CLI logs to stderr so stdout stays clean for results.
func setupLogger(cmd *cli.Command) *slog.Logger {
	level := slog.LevelWarn
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.Root().ErrWriter, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return logger
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:  "drdoc",
		Usage: "Transform text, Markdown and JSON into repository scaffolds and AI context files",
		Description: "Examples:\n" +
			"  drdoc -i data.txt -d github -o output/\n" +
			"  drdoc -i document.md -d chatgpt\n" +
			"  cat data.json | drdoc --stdin -d github\n" +
			"  drdoc -i data.txt -d github --preview\n" +
			"  drdoc -i unknown.txt --detect",
		Action: runGenerate,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: defaultConfigPath,
				Value:       defaultConfigPath,
				Sources:     cli.EnvVars("DRDOC_CONFIG"),
			},
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "Input file (- for stdin)", TakesFile: true},
			&cli.BoolFlag{Name: "stdin", Usage: "Read input from stdin"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output root directory", DefaultText: "data/output"},
			&cli.StringFlag{Name: "destination", Aliases: []string{"d"}, Usage: "github, chatgpt or project_brief"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Input format: txt, md or json (detected when omitted)"},
			&cli.BoolFlag{Name: "detect", Usage: "Only detect the input format"},
			&cli.BoolFlag{Name: "preview", Usage: "Show what would be generated without writing"},
			&cli.BoolFlag{Name: "clean", Usage: "Remove the project directory before writing"},
			&cli.StringFlag{Name: "project-name", Usage: "Project name and output directory"},
			&cli.StringFlag{Name: "author", Usage: "Project author"},
			&cli.StringFlag{Name: "description", Usage: "Project description"},
			&cli.StringFlag{Name: "license", Usage: "License name", Value: "MIT"},
			&cli.StringFlag{Name: "context-type", Usage: "AI context type: general, code, project_brief, debug"},
			&cli.StringFlag{Name: "goal", Usage: "Goal for the AI context"},
			&cli.StringSliceFlag{Name: "requirement", Usage: "Requirement for the AI context (repeatable)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Verbose output"},
		},
		Commands: []*cli.Command{
			serveCommand(),
			mcpCommand(),
			watchCommand(),
			queryCommand(),
		},
	}
}

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}
