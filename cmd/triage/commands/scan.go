package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/triagehq/triage-bot/internal/core/config"
	"github.com/triagehq/triage-bot/internal/core/pipeline"
	"github.com/triagehq/triage-bot/internal/duplicates"
	"github.com/triagehq/triage-bot/internal/integrations/github"
	"github.com/triagehq/triage-bot/internal/inventory"
)

var (
	scanRepos   []string
	scanOutFile string
)

// InventoryOutput is the envelope written by the scan command.
type InventoryOutput struct {
	RunID       string               `json:"run_id"`
	GeneratedAt time.Time            `json:"generated_at"`
	Inventory   *inventory.Inventory `json:"inventory"`
}

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan repositories and build an issue inventory",
	Long: `Scan one or more repositories, classify every issue, cluster
near-duplicate titles, and write an aggregated inventory as JSON.

Repositories come from --repo flags (org/repo form) or, when none are
given, from the configuration file. Scanning never writes to GitHub.`,
	Run: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringSliceVar(&scanRepos, "repo", nil, "Repository to scan in org/repo form (repeatable)")
	scanCmd.Flags().StringVar(&scanOutFile, "out-file", "", "Output file path (stdout if not specified)")
}

func runScan(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	cfg := loadConfig()

	repos, err := resolveScanTargets(cfg)
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}

	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		fmt.Println("❌ GITHUB_TOKEN is required for scanning")
		os.Exit(1)
	}
	ghClient := github.NewClient(ctx, token)

	// Classification only; scanning never writes back.
	deps := &pipeline.Dependencies{DryRun: true}
	stepNames := pipeline.ResolveSteps(nil, "classify-only")

	var results []inventory.RepoResult
	for _, target := range repos {
		fmt.Printf("Scanning %s/%s...\n", target.Org, target.Repo)

		raw, err := ghClient.ListAllIssues(ctx, target.Org, target.Repo)
		if err != nil {
			fmt.Printf("❌ Error listing issues for %s/%s: %v\n", target.Org, target.Repo, err)
			os.Exit(1)
		}

		issues := make([]pipeline.Issue, 0, len(raw))
		for _, r := range raw {
			issues = append(issues, *github.ConvertIssue(target.Org, target.Repo, r))
		}

		result, err := scanRepository(ctx, target.Org+"/"+target.Repo, issues, cfg, deps, stepNames)
		if err != nil {
			fmt.Printf("❌ Error scanning %s/%s: %v\n", target.Org, target.Repo, err)
			os.Exit(1)
		}

		fmt.Printf("  %d issues, %d duplicate groups\n", len(result.Issues), len(result.Groups))
		results = append(results, result)
	}

	inv := inventory.Aggregate(results)
	output := InventoryOutput{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now(),
		Inventory:   inv,
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Printf("❌ Error encoding inventory: %v\n", err)
		os.Exit(1)
	}

	if scanOutFile != "" {
		if err := os.WriteFile(scanOutFile, data, 0644); err != nil {
			fmt.Printf("❌ Error writing inventory file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✓ Inventory written to %s\n", scanOutFile)
	} else {
		fmt.Println(string(data))
	}

	fmt.Printf("\n✓ Scan completed: %d issues across %d repositories\n",
		inv.Summary.TotalIssues, inv.Summary.TotalRepositories)
}

// scanRepository classifies every issue of one repository and clusters
// near-duplicate titles. Issues must all belong to the named repository.
func scanRepository(ctx context.Context, repository string, issues []pipeline.Issue, cfg *config.Config, deps *pipeline.Dependencies, stepNames []string) (inventory.RepoResult, error) {
	result := inventory.RepoResult{Repository: repository}
	titles := make([]duplicates.Issue, 0, len(issues))

	for i := range issues {
		issue := &issues[i]
		res, err := ExecutePipeline(ctx, issue, cfg, deps, stepNames)
		if err != nil {
			return inventory.RepoResult{}, fmt.Errorf("issue #%d: %w", issue.Number, err)
		}
		if res.Skipped {
			if verbose {
				fmt.Printf("  skipping #%d: %s\n", issue.Number, res.SkipReason)
			}
			continue
		}

		result.Issues = append(result.Issues, inventory.IssueRecord{
			Repository: repository,
			Number:     issue.Number,
			Title:      issue.Title,
			Category:   res.Category,
			Priority:   res.Priority,
			Type:       res.Type,
			Labels:     res.SuggestedLabels,
		})
		titles = append(titles, duplicates.Issue{Number: issue.Number, Title: issue.Title})
	}

	result.Groups = duplicates.Cluster(repository, titles, cfg.Defaults.SimilarityThreshold)
	return result, nil
}

// resolveScanTargets returns the repositories to scan, preferring --repo
// flags over the configuration file.
func resolveScanTargets(cfg *config.Config) ([]config.RepositoryConfig, error) {
	if len(scanRepos) > 0 {
		targets := make([]config.RepositoryConfig, 0, len(scanRepos))
		for _, ref := range scanRepos {
			parts := strings.SplitN(ref, "/", 2)
			if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
				return nil, fmt.Errorf("invalid repository reference: %s (expected org/repo)", ref)
			}
			targets = append(targets, config.RepositoryConfig{Org: parts[0], Repo: parts[1], Enabled: true})
		}
		return targets, nil
	}

	var targets []config.RepositoryConfig
	for _, repo := range cfg.Repositories {
		if repo.Enabled {
			targets = append(targets, repo)
		}
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("no repositories to scan: pass --repo org/repo or configure repositories")
	}
	return targets, nil
}
