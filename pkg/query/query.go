// Package query defines the immutable query value the retrieval core
// executes. Queries are constructed by upstream search/intent layers and
// validated here before any network call.
package query

import (
	"errors"
	"fmt"

	"github.com/pkarczewski/bdl-client/pkg/bdl"
)

// ErrInvalidQuery is wrapped by all validation failures.
var ErrInvalidQuery = errors.New("invalid query")

// Query describes one data retrieval: which variables, for which root
// unit, optionally expanded to a more local level, over which years.
type Query struct {
	// Variables to fetch. Metadata (name segments, measure unit) is kept
	// for export labeling.
	Variables []bdl.Variable

	// RootUnit anchors the territorial scope.
	RootUnit bdl.Unit

	// TargetLevel, when non-zero, expands the query to all units at that
	// level nested under RootUnit. Must be strictly more local than
	// RootUnit's level in the user-facing order voivodeship < district
	// < commune. Subregion (level 4) is an internal hop, never a target.
	TargetLevel int

	// Years to fetch, in presentation order.
	Years []int
}

// localRank orders levels from least to most local. Subregion sits
// between voivodeship and district even though user-facing validation
// never accepts it as a target.
var localRank = map[int]int{
	bdl.LevelVoivodeship: 1,
	bdl.LevelSubregion:   2,
	bdl.LevelDistrict:    3,
	bdl.LevelCommune:     4,
}

// Validate checks the query invariants. It performs no network calls.
func (q Query) Validate() error {
	if len(q.Variables) == 0 {
		return fmt.Errorf("%w: no variables", ErrInvalidQuery)
	}
	if len(q.Years) == 0 {
		return fmt.Errorf("%w: no years", ErrInvalidQuery)
	}
	if q.RootUnit.ID == "" {
		return fmt.Errorf("%w: no root unit", ErrInvalidQuery)
	}

	if q.TargetLevel == 0 {
		return nil
	}

	if q.TargetLevel == bdl.LevelSubregion {
		return fmt.Errorf("%w: level %d is an internal hop, not a valid target",
			ErrInvalidQuery, bdl.LevelSubregion)
	}

	targetRank, ok := localRank[q.TargetLevel]
	if !ok {
		return fmt.Errorf("%w: unknown target level %d", ErrInvalidQuery, q.TargetLevel)
	}
	rootRank, ok := localRank[q.RootUnit.Level]
	if !ok {
		return fmt.Errorf("%w: unknown root unit level %d", ErrInvalidQuery, q.RootUnit.Level)
	}
	if targetRank <= rootRank {
		return fmt.Errorf("%w: target level %d is not more local than root level %d",
			ErrInvalidQuery, q.TargetLevel, q.RootUnit.Level)
	}

	return nil
}

// MultiUnit reports whether the query expands beyond the root unit.
func (q Query) MultiUnit() bool {
	return q.TargetLevel != 0 && q.TargetLevel != q.RootUnit.Level
}

// VariableIDs returns the ids of the queried variables in order.
func (q Query) VariableIDs() []int {
	ids := make([]int, len(q.Variables))
	for i, v := range q.Variables {
		ids[i] = v.ID
	}
	return ids
}
