// Command bdl-export retrieves statistical data from the GUS BDL API
// and exports it as CSV or XML.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pkarczewski/bdl-client/pkg/bdl"
	"github.com/pkarczewski/bdl-client/pkg/logging"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

var (
	flagClientID string
	flagLang     string
	flagRedis    string
	flagCacheTTL time.Duration
	flagLogLevel string
	flagPretty   bool

	rootCmd = &cobra.Command{
		Use:   "bdl-export",
		Short: "Retrieve and export territorial statistics from GUS BDL",
		Long: `bdl-export queries the GUS Local Data Bank (BDL) API: search for
territorial units and statistical variables, then fetch values across a
unit hierarchy and export them as CSV or XML.

A registered API key (--client-id or BDL_CLIENT_ID) raises the request
quota; without one the tool runs against the anonymous quota.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(logging.Config{
				Level:  logging.LogLevel(flagLogLevel),
				Pretty: flagPretty,
			})
		},
	}
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagClientID, "client-id", os.Getenv("BDL_CLIENT_ID"), "BDL API key (default $BDL_CLIENT_ID)")
	pf.StringVar(&flagLang, "lang", "pl", "response language (pl or en)")
	pf.StringVar(&flagRedis, "redis", "", "Redis address for response caching (empty disables caching)")
	pf.DurationVar(&flagCacheTTL, "cache-ttl", 24*time.Hour, "cache entry lifetime")
	pf.StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.BoolVar(&flagPretty, "pretty", false, "human-readable log output")

	rootCmd.AddCommand(searchUnitsCmd)
	rootCmd.AddCommand(searchVariablesCmd)
	rootCmd.AddCommand(subjectsCmd)
	rootCmd.AddCommand(fetchCmd)
}

// newClient builds the API client from the persistent flags.
func newClient() (*bdl.Client, error) {
	cfg := bdl.DefaultConfig()
	cfg.ClientID = flagClientID
	cfg.Language = flagLang
	cfg.CacheTTL = flagCacheTTL

	if flagRedis != "" {
		cfg.Redis = redis.NewClient(&redis.Options{Addr: flagRedis})
	}

	client, err := bdl.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
