package commands

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/triagehq/triage-bot/internal/core/config"
	"github.com/triagehq/triage-bot/internal/core/pipeline"
	"github.com/triagehq/triage-bot/internal/duplicates"
)

var (
	batchFile      string
	batchOutFile   string
	batchFormat    string
	batchWorkers   int
	batchWorkflow  string
	batchThreshold float64
	batchMinGroup  int
)

// BatchJob represents a job to process in the worker pool
type BatchJob struct {
	Index int
	Issue pipeline.Issue
}

// BatchResult represents the result of processing a single issue
type BatchResult struct {
	Index  int
	Issue  pipeline.Issue
	Result *pipeline.Result
	Error  error
}

// JSONOutput represents the JSON output structure
type JSONOutput struct {
	RunID           string             `json:"run_id"`
	ProcessedAt     time.Time          `json:"processed_at"`
	TotalIssues     int                `json:"total_issues"`
	Successful      int                `json:"successful"`
	Failed          int                `json:"failed"`
	Results         []ResultEntry      `json:"results"`
	DuplicateGroups []duplicates.Group `json:"duplicate_groups,omitempty"`
}

// ResultEntry represents a single result entry in JSON output
type ResultEntry struct {
	Issue  pipeline.Issue   `json:"issue"`
	Result *pipeline.Result `json:"result,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Process multiple issues from a JSON file",
	Long: `Process multiple issues through the pipeline in batch mode.
This command reads issues from a JSON file, processes them through the full
pipeline with dry-run mode enabled (no GitHub writes), clusters near-duplicate
titles per repository, and outputs the results in JSON or CSV format.

Use cases:
- Test triage logic on historical data without spamming repositories
- Generate classification reports for stakeholders
- Identify duplicate issue clusters in bulk`,
	Run: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&batchFile, "file", "", "Path to JSON file containing array of issues (required)")
	batchCmd.Flags().StringVar(&batchOutFile, "out-file", "", "Output file path (stdout if not specified)")
	batchCmd.Flags().StringVar(&batchFormat, "format", "", "Output format: json or csv (default json, inferred from out-file extension)")
	batchCmd.Flags().IntVar(&batchWorkers, "workers", 1, "Number of concurrent workers")
	batchCmd.Flags().StringVar(&batchWorkflow, "workflow", "issue-triage", "Workflow preset to run")
	batchCmd.Flags().Float64Var(&batchThreshold, "threshold", 0, "Override duplicate similarity threshold")
	batchCmd.Flags().IntVar(&batchMinGroup, "min-group-size", 0, "Override minimum duplicate group size")

	if err := batchCmd.MarkFlagRequired("file"); err != nil {
		fmt.Printf("Warning: Failed to mark file flag as required: %v\n", err)
	}
}

func runBatch(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	// 1. Load issues from JSON file
	if verbose {
		fmt.Printf("Loading issues from %s...\n", batchFile)
	}
	issues, err := loadIssues(batchFile)
	if err != nil {
		fmt.Printf("❌ Error loading issues: %v\n", err)
		os.Exit(1)
	}
	if verbose {
		fmt.Printf("Loaded %d issues\n", len(issues))
	}

	// 2. Load Configuration
	cfg := loadConfig()

	// 3. Apply configuration overrides from flags
	applyConfigOverrides(cfg)

	// 4. Determine steps
	stepNames := pipeline.ResolveSteps(cfg.Steps, batchWorkflow)
	if verbose {
		fmt.Printf("Pipeline steps: %v\n", stepNames)
	}

	// 5. Batch never writes to GitHub.
	deps := &pipeline.Dependencies{DryRun: true}
	if verbose {
		fmt.Println("✓ Dry-run mode enabled (no GitHub writes will be performed)")
	}

	// 6. Process batch
	fmt.Printf("Processing %d issues with %d workers...\n", len(issues), batchWorkers)
	results := processBatch(ctx, issues, cfg, deps, stepNames)

	// 7. Cluster near-duplicate titles per repository (post-processing)
	groups := clusterBatch(issues, cfg.Defaults.SimilarityThreshold, cfg.Defaults.MinGroupSize)
	if verbose {
		fmt.Printf("Found %d duplicate groups\n", len(groups))
	}

	// 8. Output results
	if err := outputResults(results, groups); err != nil {
		fmt.Printf("❌ Error outputting results: %v\n", err)
		os.Exit(1)
	}

	// 9. Print summary
	successful := 0
	failed := 0
	for _, r := range results {
		if r.Error == nil {
			successful++
		} else {
			failed++
		}
	}
	fmt.Printf("\n✓ Batch processing completed: %d successful, %d failed\n", successful, failed)
}

// loadIssues reads and parses a JSON file containing an array of issues
func loadIssues(filePath string) ([]pipeline.Issue, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var issues []pipeline.Issue
	if err := json.Unmarshal(data, &issues); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}

	if len(issues) == 0 {
		return nil, fmt.Errorf("no issues found in file")
	}

	// Validate required fields
	for i, issue := range issues {
		if issue.Org == "" || issue.Repo == "" || issue.Number == 0 || issue.Title == "" {
			return nil, fmt.Errorf("issue at index %d missing required fields (org, repo, number, title)", i)
		}
	}

	return issues, nil
}

// applyConfigOverrides applies command-line flag overrides to the configuration
func applyConfigOverrides(cfg *config.Config) {
	if batchThreshold > 0 {
		cfg.Defaults.SimilarityThreshold = batchThreshold
		if verbose {
			fmt.Printf("Override: similarity_threshold = %.2f\n", batchThreshold)
		}
	}

	if batchMinGroup > 0 {
		cfg.Defaults.MinGroupSize = batchMinGroup
		if verbose {
			fmt.Printf("Override: min_group_size = %d\n", batchMinGroup)
		}
	}
}

// processBatch processes all issues using a worker pool pattern
func processBatch(ctx context.Context, issues []pipeline.Issue, cfg *config.Config, deps *pipeline.Dependencies, stepNames []string) []BatchResult {
	jobs := make(chan BatchJob, batchWorkers)
	results := make(chan BatchResult, batchWorkers)
	var wg sync.WaitGroup

	// Start workers
	for i := 0; i < batchWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for job := range jobs {
				if verbose {
					fmt.Printf("[Worker %d] Processing issue #%d (%s/%s)\n", workerID, job.Issue.Number, job.Issue.Org, job.Issue.Repo)
				}

				result, err := ExecutePipeline(ctx, &job.Issue, cfg, deps, stepNames)

				results <- BatchResult{
					Index:  job.Index,
					Issue:  job.Issue,
					Result: result,
					Error:  err,
				}

				if verbose {
					if err != nil {
						fmt.Printf("[Worker %d] ❌ Issue #%d failed: %v\n", workerID, job.Issue.Number, err)
					} else {
						fmt.Printf("[Worker %d] ✓ Issue #%d completed\n", workerID, job.Issue.Number)
					}
				}
			}
		}(i)
	}

	// Send jobs
	go func() {
		for i, issue := range issues {
			jobs <- BatchJob{Index: i, Issue: issue}
		}
		close(jobs)
	}()

	// Collect results
	go func() {
		wg.Wait()
		close(results)
	}()

	// Gather results in order
	resultMap := make(map[int]BatchResult)
	for result := range results {
		resultMap[result.Index] = result
	}

	orderedResults := make([]BatchResult, len(issues))
	for i := range issues {
		orderedResults[i] = resultMap[i]
	}

	return orderedResults
}

// clusterBatch groups near-duplicate titles per repository. Issues keep
// their input order within a repository; repositories are clustered in
// name order so output is stable.
func clusterBatch(issues []pipeline.Issue, threshold float64, minGroupSize int) []duplicates.Group {
	byRepo := make(map[string][]duplicates.Issue)
	for _, issue := range issues {
		repo := issue.Repository()
		byRepo[repo] = append(byRepo[repo], duplicates.Issue{Number: issue.Number, Title: issue.Title})
	}

	repos := make([]string, 0, len(byRepo))
	for repo := range byRepo {
		repos = append(repos, repo)
	}
	sort.Strings(repos)

	var groups []duplicates.Group
	for _, repo := range repos {
		for _, g := range duplicates.Cluster(repo, byRepo[repo], threshold) {
			if minGroupSize > 0 && len(g.Members) < minGroupSize {
				continue
			}
			groups = append(groups, g)
		}
	}
	return groups
}

// outputResults formats and writes results to the specified output
func outputResults(results []BatchResult, groups []duplicates.Group) error {
	var data []byte
	var err error

	// Determine format
	format := batchFormat
	if format == "" && batchOutFile != "" {
		// Infer from file extension
		ext := strings.ToLower(filepath.Ext(batchOutFile))
		if ext == ".csv" {
			format = "csv"
		} else {
			format = "json"
		}
	}
	if format == "" {
		format = "json"
	}

	// Format output
	switch format {
	case "csv":
		data, err = formatCSV(results, groups)
	case "json":
		data, err = formatJSON(results, groups)
	default:
		return fmt.Errorf("unsupported format: %s (use json or csv)", format)
	}

	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	// Write output
	if batchOutFile != "" {
		if err := os.WriteFile(batchOutFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		fmt.Printf("✓ Results written to %s\n", batchOutFile)
	} else {
		fmt.Println("\n=== Batch Results ===")
		fmt.Println(string(data))
	}

	return nil
}

// formatJSON formats results as JSON
func formatJSON(results []BatchResult, groups []duplicates.Group) ([]byte, error) {
	successful := 0
	failed := 0
	entries := make([]ResultEntry, len(results))

	for i, r := range results {
		entry := ResultEntry{
			Issue:  r.Issue,
			Result: r.Result,
		}
		if r.Error != nil {
			entry.Error = r.Error.Error()
			failed++
		} else {
			successful++
		}
		entries[i] = entry
	}

	output := JSONOutput{
		RunID:           uuid.New().String(),
		ProcessedAt:     time.Now(),
		TotalIssues:     len(results),
		Successful:      successful,
		Failed:          failed,
		Results:         entries,
		DuplicateGroups: groups,
	}

	return json.MarshalIndent(output, "", "  ")
}

// formatCSV formats results as CSV
func formatCSV(results []BatchResult, groups []duplicates.Group) ([]byte, error) {
	var buf strings.Builder
	writer := csv.NewWriter(&buf)

	// Map issue to its duplicate group for the duplicate_group column.
	groupOf := make(map[string]string)
	for _, g := range groups {
		for _, member := range g.Members {
			groupOf[fmt.Sprintf("%s#%d", g.Repository, member)] = g.ID
		}
	}

	// Write header
	header := []string{
		"issue_number",
		"org",
		"repo",
		"title",
		"author",
		"state",
		"skipped",
		"skip_reason",
		"category",
		"rule",
		"priority",
		"type",
		"quality_score",
		"suggested_labels",
		"duplicate_group",
		"error",
	}
	if err := writer.Write(header); err != nil {
		return nil, err
	}

	// Write rows
	for _, r := range results {
		row := make([]string, len(header))
		row[0] = strconv.Itoa(r.Issue.Number)
		row[1] = r.Issue.Org
		row[2] = r.Issue.Repo
		row[3] = r.Issue.Title
		row[4] = r.Issue.Author
		row[5] = r.Issue.State

		if r.Error != nil {
			row[15] = r.Error.Error()
		} else if r.Result != nil {
			row[6] = strconv.FormatBool(r.Result.Skipped)
			row[7] = r.Result.SkipReason
			row[8] = r.Result.Category
			row[9] = r.Result.RuleApplied
			row[10] = r.Result.Priority
			row[11] = r.Result.Type
			row[12] = strconv.Itoa(r.Result.QualityScore)
			row[13] = strings.Join(r.Result.SuggestedLabels, ";")
			row[14] = groupOf[fmt.Sprintf("%s#%d", r.Issue.Repository(), r.Issue.Number)]
		}

		if err := writer.Write(row); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}

	return []byte(buf.String()), nil
}
