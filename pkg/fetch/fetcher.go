// Package fetch drives the batched, concurrency-capped data retrieval
// for a resolved leaf unit set and pivots the responses into the unified
// dataset.
package fetch

import (
	"context"
	"fmt"

	"github.com/pkarczewski/bdl-client/pkg/bdl"
	"github.com/pkarczewski/bdl-client/pkg/dataset"
	"github.com/pkarczewski/bdl-client/pkg/hierarchy"
	"github.com/pkarczewski/bdl-client/pkg/query"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// DataSource is the remote capability pair the fetcher needs,
// implemented by *bdl.Client.
type DataSource interface {
	DataByUnit(ctx context.Context, unitID string, variableIDs []int, years []int) ([]bdl.VariableValues, error)
	DataByVariable(ctx context.Context, variableID int, opts bdl.DataByVariableOptions) ([]bdl.UnitValues, error)
}

// Failure records one request that was excluded from the dataset.
// VariableID is 0 when the failed request covered all variables of a
// unit, UnitID is empty when it covered all units of a variable.
type Failure struct {
	UnitID     string
	VariableID int
	Err        error
}

func (f Failure) String() string {
	switch {
	case f.UnitID != "" && f.VariableID != 0:
		return fmt.Sprintf("unit %s / variable %d: %v", f.UnitID, f.VariableID, f.Err)
	case f.UnitID != "":
		return fmt.Sprintf("unit %s: %v", f.UnitID, f.Err)
	default:
		return fmt.Sprintf("variable %d: %v", f.VariableID, f.Err)
	}
}

// Config holds fetcher configuration.
type Config struct {
	// MaxConcurrency caps in-flight requests within one fetch (default 10,
	// matching the rate limiter burst).
	MaxConcurrency int
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 10,
	}
}

// Fetcher orchestrates the per-unit / per-variable request fan-out.
type Fetcher struct {
	src    DataSource
	config Config
	logger zerolog.Logger
}

// NewFetcher creates a fetcher on top of a data source.
func NewFetcher(src DataSource, cfg Config) *Fetcher {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 10
	}
	return &Fetcher{
		src:    src,
		config: cfg,
		logger: log.With().Str("component", "fetch").Logger(),
	}
}

// FetchUnified retrieves data for every leaf unit of the resolution and
// returns the pivoted dataset plus the list of requests that failed.
//
// A failed request for one unit or variable is recorded and excluded; it
// never aborts sibling requests. An all-empty dataset with an empty
// failure list means the source genuinely has no data for the query.
//
// Raw responses are gathered first and pivoted sequentially afterwards,
// so the resulting unit order depends only on the resolution order and
// the variable order of the query, never on network arrival order. All
// accumulation is local to this call; results of an abandoned invocation
// are simply dropped with it.
func (f *Fetcher) FetchUnified(ctx context.Context, q query.Query, res *hierarchy.Resolution) (*dataset.Dataset, []Failure, error) {
	if err := q.Validate(); err != nil {
		return nil, nil, err
	}

	leaves := res.Units
	ds := dataset.New()

	if len(leaves) == 0 {
		return ds, nil, nil
	}

	if len(leaves) == 1 {
		failures := f.fetchSingleUnit(ctx, q, leaves[0], ds)
		return ds, failures, nil
	}

	if res.Direct && res.TargetLevel != 0 {
		failures := f.fetchByVariable(ctx, q, res.TargetLevel, ds)
		return ds, failures, nil
	}

	failures := f.fetchPerUnit(ctx, q, leaves, ds)
	return ds, failures, nil
}

// fetchSingleUnit issues one by-unit call carrying all variable ids and
// years; the variable-major response normalizes directly.
func (f *Fetcher) fetchSingleUnit(ctx context.Context, q query.Query, unit bdl.Unit, ds *dataset.Dataset) []Failure {
	results, err := f.src.DataByUnit(ctx, unit.ID, q.VariableIDs(), q.Years)
	if err != nil {
		f.logger.Warn().Err(err).Str("unit", unit.ID).Msg("Single-unit fetch failed")
		return []Failure{{UnitID: unit.ID, Err: err}}
	}
	ds.AddVariableValues(unit, results)
	return nil
}

// fetchByVariable issues one by-variable call per variable, letting the
// server expand the root's children at the target level. Used only when
// resolution was a single direct listing, so the root is a valid
// unit-parent-id for exactly the resolved leaf set.
func (f *Fetcher) fetchByVariable(ctx context.Context, q query.Query, targetLevel int, ds *dataset.Dataset) []Failure {
	results := make([][]bdl.UnitValues, len(q.Variables))
	errs := make([]error, len(q.Variables))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.config.MaxConcurrency)

	for i, v := range q.Variables {
		g.Go(func() error {
			rows, err := f.src.DataByVariable(gctx, v.ID, bdl.DataByVariableOptions{
				UnitLevel: targetLevel,
				ParentID:  q.RootUnit.ID,
				Years:     q.Years,
			})
			if err != nil {
				// recorded, not propagated: siblings keep running
				errs[i] = err
				return nil
			}
			results[i] = rows
			return nil
		})
	}
	_ = g.Wait()

	var failures []Failure
	for i, v := range q.Variables {
		if errs[i] != nil {
			f.logger.Warn().Err(errs[i]).Int("variable", v.ID).Msg("By-variable fetch failed")
			failures = append(failures, Failure{VariableID: v.ID, Err: errs[i]})
			continue
		}
		ds.AddUnitValues(v.ID, results[i])
	}
	return failures
}

// fetchPerUnit issues one by-unit call per leaf. Required when the leaf
// set was derived via client-side drill-down: no single remote parent id
// would return exactly that set server-side.
func (f *Fetcher) fetchPerUnit(ctx context.Context, q query.Query, leaves []bdl.Unit, ds *dataset.Dataset) []Failure {
	results := make([][]bdl.VariableValues, len(leaves))
	errs := make([]error, len(leaves))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.config.MaxConcurrency)

	for i, leaf := range leaves {
		g.Go(func() error {
			rows, err := f.src.DataByUnit(gctx, leaf.ID, q.VariableIDs(), q.Years)
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = rows
			return nil
		})
	}
	_ = g.Wait()

	var failures []Failure
	for i, leaf := range leaves {
		if errs[i] != nil {
			f.logger.Warn().Err(errs[i]).Str("unit", leaf.ID).Msg("Per-unit fetch failed")
			failures = append(failures, Failure{UnitID: leaf.ID, Err: errs[i]})
			continue
		}
		ds.AddVariableValues(leaf, results[i])
	}
	return failures
}
