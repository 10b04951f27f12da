package internal

import (
	"fmt"

	"github.com/tftdatascientist/drdoc/internal/materialize"
	"github.com/tftdatascientist/drdoc/internal/pipeline"
	"github.com/tftdatascientist/drdoc/internal/service"
	"github.com/tftdatascientist/drdoc/internal/storage"
)

// NewPipeline builds the extraction and transform pipeline from cfg.
func NewPipeline(cfg *Config) *pipeline.Pipeline {
	return pipeline.NewDefault(cfg.Extract, cfg.Detect, cfg.Transform)
}

// NewService opens the output root, creating it if needed, and builds the
// service on top of the configured pipeline.
func NewService(cfg *Config, opts ...service.Option) (*service.Service, error) {
	store, err := storage.OpenFS(cfg.Output.Root)
	if err != nil {
		return nil, fmt.Errorf("init output root: %w", err)
	}
	return service.New(NewPipeline(cfg), materialize.New(store), opts...), nil
}
