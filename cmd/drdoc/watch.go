package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/tftdatascientist/drdoc/internal"
	"github.com/tftdatascientist/drdoc/internal/extract"
	"github.com/tftdatascientist/drdoc/internal/service"
	"github.com/tftdatascientist/drdoc/internal/watch"
)

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:   "watch",
		Usage:  "Regenerate output whenever the input file changes",
		Action: runWatch,
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "Quiet period before regenerating",
				Value: watch.DefaultDebounce,
				Local: true,
			},
		},
	}
}

func runWatch(ctx context.Context, cmd *cli.Command) error {
	logger := setupLogger(cmd)
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	input := cmd.String("input")
	if input == "" || input == "-" || cmd.Bool("stdin") {
		return errNoInput
	}
	if cmd.String("destination") == "" {
		return errMissingDestination
	}
	svc, err := internal.NewService(cfg, service.WithLogger(logger))
	if err != nil {
		return err
	}

	hint := extract.HintFromPath(input)
	if f := cmd.String("format"); f != "" {
		hint = f
	}
	stdout, stderr := cmd.Root().Writer, cmd.Root().ErrWriter

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	infoColor.Fprintf(stderr, "Watching %s (Ctrl+C to stop)\n", input)
	return watch.Watch(ctx, input, cmd.Duration("debounce"), logger, func(ctx context.Context, content string) error {
		out, err := svc.Transform(ctx, requestFromFlags(cmd, content, hint))
		if out != nil && out.Document != nil {
			printWarnings(stderr, out.Document.Errors)
		}
		if err != nil {
			printError(stderr, err)
			return err
		}
		if out.Preview != "" {
			printPreview(stdout, out)
			return nil
		}
		printGenerated(stdout, out)
		return nil
	})
}
