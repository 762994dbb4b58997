package main

import (
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridlabs-ec/gridplan/internal/solve"
)

var (
	planPeriods     int
	planMaxCapacity int
	planDemand      []float64
	planOutPath     string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute an optimal capacity expansion schedule",
	Long: `Finds the cheapest sequence of capacity expansions covering the given
demand forecast, balancing construction cost against deficit penalties.`,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().IntVar(&planPeriods, "periods", 0, "Number of planning periods (required)")
	planCmd.Flags().IntVar(&planMaxCapacity, "max-capacity", 0, "Capacity grid upper bound in MW (required)")
	planCmd.Flags().Float64SliceVar(&planDemand, "demand", nil, "Demand forecast in MW, one value per period (required)")
	planCmd.Flags().StringVar(&planOutPath, "out", "", "Write full result as JSON to this path")

	planCmd.MarkFlagRequired("periods")
	planCmd.MarkFlagRequired("max-capacity")
	planCmd.MarkFlagRequired("demand")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	slog.Info("Starting capacity planning", "periods", planPeriods, "max_capacity", planMaxCapacity)

	planner := solve.NewCapacityPlanner(costModel())

	start := time.Now()
	plan, err := planner.Plan(planPeriods, planMaxCapacity, planDemand)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	slog.Info("Capacity planning complete",
		"elapsed", elapsed,
		"total_cost", plan.TotalCost,
		"final_capacity", plan.FinalCapacity,
		"table_size", plan.TableSize,
	)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PERIOD\tDEMAND\tEXPANSION\tCAPACITY\tCONSTRUCTION\tOPERATION")
	for _, p := range plan.Periods {
		fmt.Fprintf(w, "%d\t%.1f\t%+d\t%d\t%.2f\t%.2f\n",
			p.Period, p.Demand, p.Expansion, p.TotalCapacity, p.ConstructionCost, p.OperationalCost)
	}
	w.Flush()

	fmt.Printf("\nTotal cost: %.2f, final capacity: %d MW\n", plan.TotalCost, plan.FinalCapacity)

	if planOutPath != "" {
		if err := writeJSON(planOutPath, plan); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", planOutPath)
	}

	return nil
}
