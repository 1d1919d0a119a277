package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/pkarczewski/bdl-client/pkg/bdl"
	"github.com/pkarczewski/bdl-client/pkg/dataset"
	"github.com/pkarczewski/bdl-client/pkg/export"
	"github.com/pkarczewski/bdl-client/pkg/fetch"
	"github.com/pkarczewski/bdl-client/pkg/hierarchy"
	"github.com/pkarczewski/bdl-client/pkg/logging"
	"github.com/pkarczewski/bdl-client/pkg/query"
	"github.com/spf13/cobra"
)

var (
	flagRootID      string
	flagRootName    string
	flagRootLevel   int
	flagTargetLevel int
	flagVariables   []int
	flagYears       []int
	flagFormat      string
	flagOrientation string
	flagOut         string
	flagConcurrency int

	fetchCmd = &cobra.Command{
		Use:   "fetch",
		Short: "Fetch data for a unit hierarchy and export it",
		Long: `Fetch retrieves the given variables for a root unit, optionally
expanded to every unit at a more local level (districts or communes),
and writes the result as CSV or XML.

Requests that fail for individual units or variables are reported and
excluded; the export still completes with the data that arrived.`,
		Example: `  bdl-export fetch --root 023200000000 --target-level 6 \
      --var 60270 --year 2022 --year 2023 --format csv --out out.csv`,
		RunE: runFetch,
	}
)

func init() {
	fl := fetchCmd.Flags()
	fl.StringVar(&flagRootID, "root", "", "root unit id")
	fl.StringVar(&flagRootName, "root-name", "", "search the root unit by name instead of id")
	fl.IntVar(&flagRootLevel, "root-level", 0, "hierarchy level filter for --root-name")
	fl.IntVar(&flagTargetLevel, "target-level", 0, "expand to this level (5 districts, 6 communes; 0 keeps the root)")
	fl.IntSliceVar(&flagVariables, "var", nil, "variable id (repeatable)")
	fl.IntSliceVar(&flagYears, "year", nil, "year (repeatable)")
	fl.StringVar(&flagFormat, "format", "csv", "output format (csv or xml)")
	fl.StringVar(&flagOrientation, "orientation", "", "csv layout: units, years or variables (default by scope)")
	fl.StringVar(&flagOut, "out", "", "output file (default stdout)")
	fl.IntVar(&flagConcurrency, "concurrency", 0, "max in-flight data requests")
}

func runFetch(cmd *cobra.Command, args []string) error {
	logger := logging.NewLogger("bdl-export")

	client, err := newClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	root, err := resolveRootUnit(ctx, client)
	if err != nil {
		return err
	}

	variables, err := loadVariables(ctx, client, flagVariables)
	if err != nil {
		return err
	}

	q := query.Query{
		Variables:   variables,
		RootUnit:    root,
		TargetLevel: flagTargetLevel,
		Years:       flagYears,
	}
	if err := q.Validate(); err != nil {
		return err
	}

	res, err := hierarchy.NewResolver(client).Resolve(ctx, root, q.TargetLevel)
	if err != nil {
		return fmt.Errorf("resolve units: %w", err)
	}
	logger.Info().
		Str("root", root.ID).
		Int("target_level", res.TargetLevel).
		Int("units", len(res.Units)).
		Msg("Unit scope resolved")

	fetchCfg := fetch.DefaultConfig()
	if flagConcurrency > 0 {
		fetchCfg.MaxConcurrency = flagConcurrency
	}
	ds, failures, err := fetch.NewFetcher(client, fetchCfg).FetchUnified(ctx, q, res)
	if err != nil {
		return fmt.Errorf("fetch data: %w", err)
	}

	for _, f := range failures {
		fmt.Fprintf(os.Stderr, "warning: %s\n", f)
	}

	if ds.IsEmpty() {
		if len(failures) > 0 {
			return fmt.Errorf("no data retrieved: %d request(s) failed", len(failures))
		}
		fmt.Fprintln(os.Stderr, "no data available for this query")
	}

	out, err := render(ds, q)
	if err != nil {
		return err
	}
	return writeOutput(flagOut, out)
}

// resolveRootUnit turns --root / --root-name into a concrete unit.
func resolveRootUnit(ctx context.Context, client *bdl.Client) (bdl.Unit, error) {
	switch {
	case flagRootID != "" && flagRootName != "":
		return bdl.Unit{}, fmt.Errorf("--root and --root-name are mutually exclusive")
	case flagRootID != "":
		unit, err := client.GetUnit(ctx, flagRootID)
		if err != nil {
			return bdl.Unit{}, fmt.Errorf("resolve root unit %s: %w", flagRootID, err)
		}
		return *unit, nil
	case flagRootName != "":
		units, err := client.SearchUnits(ctx, flagRootName, flagRootLevel)
		if err != nil {
			return bdl.Unit{}, fmt.Errorf("search root unit %q: %w", flagRootName, err)
		}
		if len(units) == 0 {
			return bdl.Unit{}, fmt.Errorf("no unit matches %q", flagRootName)
		}
		if len(units) > 1 {
			return bdl.Unit{}, fmt.Errorf("%d units match %q, narrow with --root-level or use --root", len(units), flagRootName)
		}
		return units[0], nil
	default:
		return bdl.Unit{}, fmt.Errorf("either --root or --root-name is required")
	}
}

// loadVariables fetches metadata for each queried variable id. Metadata
// is only used for export labels, so a lookup failure degrades to a bare
// id instead of failing the whole run.
func loadVariables(ctx context.Context, client *bdl.Client, ids []int) ([]bdl.Variable, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("at least one --var is required")
	}

	variables := make([]bdl.Variable, 0, len(ids))
	for _, id := range ids {
		v, err := client.GetVariable(ctx, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: variable %d metadata unavailable: %v\n", id, err)
			variables = append(variables, bdl.Variable{ID: id})
			continue
		}
		variables = append(variables, *v)
	}
	return variables, nil
}

func render(ds *dataset.Dataset, q query.Query) (string, error) {
	switch flagFormat {
	case "csv":
		orientation := export.Orientation(flagOrientation)
		if flagOrientation == "" {
			orientation = defaultOrientation(q)
		}
		if q.MultiUnit() && orientation != export.OrientationUnitRows {
			return "", fmt.Errorf("orientation %q only fits a single-unit scope", orientation)
		}
		return export.ToCSV(ds, q, orientation)
	case "xml":
		return export.ToXML(ds, q, time.Now())
	default:
		return "", fmt.Errorf("unknown format %q (want csv or xml)", flagFormat)
	}
}

func writeOutput(path, content string) error {
	if path == "" {
		_, err := fmt.Print(content)
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	return nil
}

// defaultOrientation picks the CSV layout: multi-unit scopes only fit
// the unit-rows grid, single-unit scopes default to years as rows.
func defaultOrientation(q query.Query) export.Orientation {
	if q.MultiUnit() {
		return export.OrientationUnitRows
	}
	return export.OrientationYearRows
}
