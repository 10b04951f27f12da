package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/tftdatascientist/drdoc/internal"
	"github.com/tftdatascientist/drdoc/internal/extract"
	"github.com/tftdatascientist/drdoc/internal/service"
)

var errPathNotFound = errors.New("path not found")

func queryCommand() *cli.Command {
	return &cli.Command{
		Name:   "query",
		Usage:  "Query, flatten or tabulate JSON input",
		Action: runQuery,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Usage: `Dot/bracket path, e.g. "data.users[0].name"`, Local: true},
			&cli.BoolFlag{Name: "flatten", Usage: "Flatten nested keys", Local: true},
			&cli.StringFlag{Name: "sep", Usage: "Key separator for --flatten", Value: ".", Local: true},
			&cli.BoolFlag{Name: "csv", Usage: "Render an array of objects as CSV", Local: true},
		},
	}
}

func runQuery(ctx context.Context, cmd *cli.Command) error {
	logger := setupLogger(cmd)
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	content, _, err := readInput(cmd)
	if err != nil {
		return err
	}

	svc := service.New(internal.NewPipeline(cfg), nil, service.WithLogger(logger))
	doc := svc.Parse(ctx, content, "json")
	if doc.RawStructure == nil && doc.HasErrors() {
		return fmt.Errorf("not valid JSON: %s", strings.Join(doc.Errors, "; "))
	}

	w := cmd.Root().Writer
	switch {
	case cmd.String("path") != "":
		v := extract.LookupPath(doc, cmd.String("path"))
		if v == nil {
			return fmt.Errorf("%w: %s", errPathNotFound, cmd.String("path"))
		}
		fmt.Fprintln(w, extract.Pretty(v))
	case cmd.Bool("flatten"):
		fmt.Fprintln(w, extract.Pretty(extract.Flatten(doc, cmd.String("sep"))))
	case cmd.Bool("csv"):
		out, err := extract.ToCSV(doc)
		if err != nil {
			return err
		}
		fmt.Fprint(w, out)
	default:
		fmt.Fprintln(w, extract.Pretty(doc.RawStructure))
	}
	return nil
}
