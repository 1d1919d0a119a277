// Package hierarchy resolves the set of leaf territorial units a query
// must fetch data for. The Polish administrative hierarchy is irregular:
// level codes are not contiguous and the subregion tier (level 4) may be
// absent between voivodeship and district, so resolution is a path
// decision, not a simple listing.
package hierarchy

import (
	"context"
	"fmt"

	"github.com/pkarczewski/bdl-client/pkg/bdl"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// UnitLister is the single remote capability the resolver needs,
// implemented by *bdl.Client.
type UnitLister interface {
	ListUnits(ctx context.Context, opts bdl.ListUnitsOptions) ([]bdl.Unit, error)
}

// Diagnostic records a unit the remote source returned at the wrong
// hierarchy level. Such entries are dropped, never fetched, and reported
// here so callers and tests can assert on the filtering instead of
// scraping logs.
type Diagnostic struct {
	UnitID    string
	UnitName  string
	WantLevel int
	GotLevel  int
}

// Resolution is the outcome of leaf-unit resolution.
type Resolution struct {
	// Units are the leaf units to fetch data for, strictly verified to
	// sit at TargetLevel (or just the root when no target was given).
	// Empty is a legitimate "no data" outcome, not an error.
	Units []bdl.Unit

	// TargetLevel the units were resolved to; 0 when the query targets
	// the root unit itself.
	TargetLevel int

	// Direct is true when the leaf set came from a single server-side
	// listing under the root. Only then can a by-variable fetch use the
	// root as unit-parent-id; drilled-down leaf sets have no single
	// remote parent and must be fetched per leaf.
	Direct bool

	// Diagnostics lists wrong-level entries dropped during filtering.
	Diagnostics []Diagnostic
}

// Resolver determines the leaf units under a root.
type Resolver struct {
	lister UnitLister
	logger zerolog.Logger
}

// NewResolver creates a resolver on top of a unit listing capability.
func NewResolver(lister UnitLister) *Resolver {
	return &Resolver{
		lister: lister,
		logger: log.With().Str("component", "hierarchy").Logger(),
	}
}

// Resolve returns the leaf unit set for rootUnit and targetLevel.
//
// targetLevel 0 resolves to the root itself with no remote calls.
// A voivodeship-to-commune gap always drills through the district tier
// in two phases, even though a direct call appears to work: the source
// is known to silently return incomplete or wrong-level data for that
// specific gap, so correctness depends on forcing the intermediate hop.
// Any other gap is a single direct listing.
//
// The resolver never retries; a failed listing propagates as-is.
func (r *Resolver) Resolve(ctx context.Context, rootUnit bdl.Unit, targetLevel int) (*Resolution, error) {
	if targetLevel == 0 || targetLevel == rootUnit.Level {
		return &Resolution{Units: []bdl.Unit{rootUnit}}, nil
	}

	if rootUnit.Level == bdl.LevelVoivodeship && targetLevel == bdl.LevelCommune {
		return r.drillDown(ctx, rootUnit, bdl.LevelDistrict, targetLevel)
	}

	units, diags, err := r.listAtLevel(ctx, rootUnit.ID, targetLevel)
	if err != nil {
		return nil, err
	}
	return &Resolution{
		Units:       units,
		TargetLevel: targetLevel,
		Direct:      true,
		Diagnostics: diags,
	}, nil
}

// drillDown performs the two-phase resolution: list intermediates under
// the root, then targets under every intermediate. Phase 2 starts only
// after phase 1 completed, since its inputs are phase 1's outputs.
func (r *Resolver) drillDown(ctx context.Context, rootUnit bdl.Unit, intermediateLevel, targetLevel int) (*Resolution, error) {
	intermediates, diags, err := r.listAtLevel(ctx, rootUnit.ID, intermediateLevel)
	if err != nil {
		return nil, fmt.Errorf("list level %d under %s: %w", intermediateLevel, rootUnit.ID, err)
	}

	r.logger.Debug().
		Str("root", rootUnit.ID).
		Int("intermediate_level", intermediateLevel).
		Int("intermediates", len(intermediates)).
		Msg("Drill-down phase 1 complete")

	resolution := &Resolution{
		TargetLevel: targetLevel,
		Diagnostics: diags,
	}

	for _, mid := range intermediates {
		leaves, leafDiags, err := r.listAtLevel(ctx, mid.ID, targetLevel)
		if err != nil {
			return nil, fmt.Errorf("list level %d under %s: %w", targetLevel, mid.ID, err)
		}
		resolution.Units = append(resolution.Units, leaves...)
		resolution.Diagnostics = append(resolution.Diagnostics, leafDiags...)
	}

	r.logger.Info().
		Str("root", rootUnit.ID).
		Int("target_level", targetLevel).
		Int("leaf_units", len(resolution.Units)).
		Int("dropped", len(resolution.Diagnostics)).
		Msg("Leaf unit set resolved")

	return resolution, nil
}

// listAtLevel lists children of parentID at the expected level and
// strictly re-filters the result: the level field in list responses is
// authoritative only after this verification.
func (r *Resolver) listAtLevel(ctx context.Context, parentID string, level int) ([]bdl.Unit, []Diagnostic, error) {
	units, err := r.lister.ListUnits(ctx, bdl.ListUnitsOptions{
		ParentID: parentID,
		Level:    level,
	})
	if err != nil {
		return nil, nil, err
	}

	filtered := make([]bdl.Unit, 0, len(units))
	var diags []Diagnostic
	for _, u := range units {
		if u.Level != level {
			diags = append(diags, Diagnostic{
				UnitID:    u.ID,
				UnitName:  u.Name,
				WantLevel: level,
				GotLevel:  u.Level,
			})
			r.logger.Warn().
				Str("unit", u.ID).
				Int("want_level", level).
				Int("got_level", u.Level).
				Msg("Dropping wrong-level unit from listing")
			continue
		}
		filtered = append(filtered, u)
	}

	return filtered, diags, nil
}
