package commands

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/snagtrack/snagtrack/internal/progress"
	"github.com/snagtrack/snagtrack/internal/types"
)

var readinessCmd = &cobra.Command{
	Use:   "readiness",
	Short: "Print the latest-state readiness summary per apartment",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		items, err := s.AllItems(ctx)
		if err != nil {
			return err
		}

		byApartment := make(map[string][]types.WorkItem)
		for _, item := range items {
			byApartment[item.ApartmentNumber] = append(byApartment[item.ApartmentNumber], item)
		}

		numbers := make([]string, 0, len(byApartment))
		for number := range byApartment {
			numbers = append(numbers, number)
		}
		sort.Strings(numbers)

		cmd.Printf("%-10s %4s %7s %8s %6s %7s\n", "Apartment", "OK", "Defect", "Pending", "Total", "Health")
		for _, number := range numbers {
			row := progress.Readiness(number, byApartment[number])
			if row.HealthScore != nil {
				cmd.Printf("%-10s %4d %7d %8d %6d %6.1f%%\n",
					row.ApartmentNumber, row.OK, row.Defect, row.Pending, row.Total, *row.HealthScore)
			} else {
				cmd.Printf("%-10s %4d %7d %8d %6d %7s\n",
					row.ApartmentNumber, row.OK, row.Defect, row.Pending, row.Total, "n/a")
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(readinessCmd)
}
