package commands

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/snagtrack/snagtrack/internal/config"
	"github.com/snagtrack/snagtrack/internal/logging"
	"github.com/snagtrack/snagtrack/internal/progress"
	"github.com/snagtrack/snagtrack/internal/store"
)

var (
	// Version and Commit are set at build time via ldflags.
	Version = "dev"
	Commit  = "none"

	verbose bool
	cfg     *config.AppConfig
	rules   progress.Rules
)

var rootCmd = &cobra.Command{
	Use:   "snagtrack",
	Short: "SnagTrack scores construction inspection progress per apartment",
	Long: `SnagTrack ingests repeated site reports, classifies each work item's
inspection state, and rolls the results into weighted per-apartment
progress scores, completion trajectories, and readiness summaries.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logging.Init(verbose, "")

		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if cfg.LogDir != "" {
			logging.Init(verbose, cfg.LogDir)
		}

		rules = progress.DefaultRules()
		if cfg.RulesPath != "" {
			rules, err = progress.LoadRules(cfg.RulesPath)
			if err != nil {
				return err
			}
			log.Info().Str("path", cfg.RulesPath).Msg("loaded rules overrides")
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Msg("snagtrack starting")
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// openStore opens the configured SQLite database.
func openStore(ctx context.Context) (*store.SQLiteStore, error) {
	return store.Open(ctx, cfg.DatabaseURL)
}
