package commands

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/snagtrack/snagtrack/internal/progress"
	"github.com/snagtrack/snagtrack/internal/types"
)

var (
	scoreApartment string
	scoreRuleset   string
	scoreAll       bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Print weighted progress for one apartment or the whole site",
	RunE: func(cmd *cobra.Command, args []string) error {
		ruleset, err := parseRuleset(scoreRuleset)
		if err != nil {
			return err
		}
		if !scoreAll && scoreApartment == "" {
			return errors.New("pass --apartment N or --all")
		}

		ctx := cmd.Context()
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		if !scoreAll {
			items, err := s.ItemsByApartment(ctx, scoreApartment)
			if err != nil {
				return err
			}
			prog, err := rules.ScoreApartment(scoreApartment, items, ruleset)
			if err != nil {
				return err
			}
			printProgress(cmd, prog)
			return nil
		}

		summaries, err := s.Apartments(ctx)
		if err != nil {
			return err
		}

		var (
			mu      sync.Mutex
			results []*types.ApartmentProgress
		)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(8)
		for _, sum := range summaries {
			g.Go(func() error {
				items, err := s.ItemsByApartment(gctx, sum.Number)
				if err != nil {
					return err
				}
				prog, err := rules.ScoreApartment(sum.Number, items, ruleset)
				if errors.Is(err, progress.ErrNoItems) {
					return nil
				}
				if err != nil {
					return err
				}
				mu.Lock()
				results = append(results, prog)
				mu.Unlock()
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		sort.Slice(results, func(i, j int) bool {
			return results[i].ApartmentNumber < results[j].ApartmentNumber
		})
		for _, prog := range results {
			printProgress(cmd, prog)
		}
		return nil
	},
}

func parseRuleset(s string) (types.Ruleset, error) {
	switch s {
	case "", "v3":
		return types.RulesetV3, nil
	case "v2":
		return types.RulesetV2, nil
	}
	return "", fmt.Errorf("unknown ruleset %q (want v2 or v3)", s)
}

func printProgress(cmd *cobra.Command, prog *types.ApartmentProgress) {
	cmd.Printf("Apartment %s (%s, report %s): %d%%\n",
		prog.ApartmentNumber, prog.Ruleset, prog.ReportDate.Format("2006-01-02"), prog.Overall)

	categories := make([]types.Category, 0, len(prog.ByCategory))
	for cat := range prog.ByCategory {
		categories = append(categories, cat)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
	for _, cat := range categories {
		cs := prog.ByCategory[cat]
		cmd.Printf("  %-15s %3d%%  (%d items, %d defects)\n",
			cat, cs.AverageProgress, cs.ItemCount, cs.DefectCount)
	}
}

func init() {
	scoreCmd.Flags().StringVar(&scoreApartment, "apartment", "", "apartment number to score")
	scoreCmd.Flags().StringVar(&scoreRuleset, "ruleset", "v3", "scoring ruleset (v2 or v3)")
	scoreCmd.Flags().BoolVar(&scoreAll, "all", false, "score every apartment")
	rootCmd.AddCommand(scoreCmd)
}
