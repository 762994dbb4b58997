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
	projectsBudget  float64
	projectsInput   string
	projectsOutPath string
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Select the optimal investment portfolio under a budget",
	Long: `Solves the project selection problem exactly: finds the subset of
candidate projects maximizing total benefit without exceeding the budget.
Candidates are read from a JSON file of {name, category, cost, benefit}.`,
	RunE: runProjects,
}

func init() {
	projectsCmd.Flags().Float64Var(&projectsBudget, "budget", 0, "Available budget (required)")
	projectsCmd.Flags().StringVar(&projectsInput, "input", "", "JSON file with candidate projects (required)")
	projectsCmd.Flags().StringVar(&projectsOutPath, "out", "", "Write full result as JSON to this path")

	projectsCmd.MarkFlagRequired("budget")
	projectsCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(cmd *cobra.Command, args []string) error {
	var candidates []solve.Project
	if err := readJSON(projectsInput, &candidates); err != nil {
		return err
	}

	slog.Info("Starting project selection", "candidates", len(candidates), "budget", projectsBudget)

	start := time.Now()
	selection, err := solve.NewProjectSelector().Select(candidates, projectsBudget)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	slog.Info("Project selection complete",
		"elapsed", elapsed,
		"selected", len(selection.Projects),
		"total_benefit", selection.TotalBenefit,
		"cache_size", selection.CacheSize,
	)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PROJECT\tCATEGORY\tCOST\tBENEFIT\tROI")
	for _, p := range selection.Projects {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.2fx\n", p.Name, p.Category, p.Cost, p.Benefit, p.ROI)
	}
	w.Flush()

	fmt.Printf("\nTotal benefit: %.2f, cost: %.2f (%.1f%% of budget), remaining: %.2f\n",
		selection.TotalBenefit, selection.TotalCost, selection.BudgetUsedPct, selection.RemainingBudget)

	if projectsOutPath != "" {
		if err := writeJSON(projectsOutPath, selection); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", projectsOutPath)
	}

	return nil
}
