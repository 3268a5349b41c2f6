package planner

import (
	"context"

	"tabiji/internal/catalog"
	"tabiji/internal/models/response_models"
	"tabiji/pkg/utils"
)

// Pipeline runs the staged scheduler: filter -> cluster -> schedule ->
// assemble. Every stage is a pure function of its inputs over one
// catalog snapshot, so identical inputs replay to identical output.
// Cancellation is checked between stages; partial work is discarded.
type Pipeline struct {
	Index *catalog.Index
	Cfg   Config
}

func NewPipeline(index *catalog.Index, cfg Config) *Pipeline {
	return &Pipeline{Index: index, Cfg: cfg}
}

func (p *Pipeline) Run(ctx context.Context, prefs Preferences, set CandidateSet) (*response_models.Itinerary, error) {
	snap, ok := p.Index.Current()
	if !ok {
		return nil, utils.ErrCatalogUnavailable
	}
	return p.RunOnSnapshot(ctx, snap, prefs, set)
}

// RunOnSnapshot pins the whole run to one snapshot, which is what makes
// concurrent refreshes invisible to an in-flight request.
func (p *Pipeline) RunOnSnapshot(ctx context.Context, snap *catalog.Snapshot, prefs Preferences, set CandidateSet) (*response_models.Itinerary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filtered, err := Filter(set, prefs, p.Cfg)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	clusters := BuildClusters(filtered, prefs, p.Cfg)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	days, warnings, partial := Schedule(clusters, prefs, p.Cfg)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Assemble(snap, prefs, p.Cfg, days, warnings, partial)
}
