package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"
)

var (
	serverURL string
)

var statusCmd = &cobra.Command{
	Use:   "status [job-id]",
	Short: "Query server status or specific job",
	Long: `Queries the job server for solve status information.
If no job-id is provided, lists all jobs.
If job-id is provided, shows detailed status for that job.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "Server URL")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		// List all jobs
		url := fmt.Sprintf("%s/api/v1/solves", serverURL)
		return listRemoteJobs(url)
	}
	// Get specific job status
	jobID := args[0]
	url := fmt.Sprintf("%s/api/v1/solves/%s/status", serverURL, jobID)
	return getRemoteJobStatus(url, jobID)
}

func listRemoteJobs(url string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned error: %s", string(body))
	}

	var jobs []map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&jobs); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if len(jobs) == 0 {
		fmt.Println("No jobs found")
		return nil
	}

	fmt.Printf("Found %d job(s):\n\n", len(jobs))
	for _, job := range jobs {
		fmt.Printf("Job ID: %s\n", job["id"])
		fmt.Printf("  State: %s\n", job["state"])
		if request, ok := job["request"].(map[string]interface{}); ok {
			fmt.Printf("  Kind: %s\n", request["kind"])
		}
		if cost, ok := job["totalCost"].(float64); ok && cost > 0 {
			fmt.Printf("  Cost: %.2f\n", cost)
		}
		fmt.Println()
	}

	return nil
}

func getRemoteJobStatus(url, jobID string) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to connect to server: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("job not found: %s", jobID)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned error: %s", string(body))
	}

	var status map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	fmt.Printf("Job: %s\n", status["id"])
	fmt.Printf("State: %s\n", status["state"])
	fmt.Printf("Kind: %s\n", status["kind"])
	if algorithm, ok := status["algorithm"].(string); ok && algorithm != "" {
		fmt.Printf("Algorithm: %s\n", algorithm)
	}
	fmt.Println()

	if cost, ok := status["totalCost"].(float64); ok && cost > 0 {
		fmt.Printf("Total Cost: %.2f\n", cost)
	}
	if benefit, ok := status["totalBenefit"].(float64); ok && benefit > 0 {
		fmt.Printf("Total Benefit: %.2f\n", benefit)
	}

	if elapsed, ok := status["elapsed"].(float64); ok {
		fmt.Printf("Elapsed: %s\n", time.Duration(elapsed*float64(time.Second)).Round(time.Millisecond))
	}

	if errMsg, ok := status["error"].(string); ok && errMsg != "" {
		fmt.Printf("\nError: %s\n", errMsg)
	}

	return nil
}
