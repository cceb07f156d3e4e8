package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/triagehq/triage-bot/internal/core/pipeline"
	"github.com/triagehq/triage-bot/internal/integrations/github"
	"github.com/triagehq/triage-bot/internal/tui"
)

var (
	issueFile string
	dryRun    bool
	workflow  string
	repoName  string
	orgName   string
	issueNum  int
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process a single issue through the pipeline",
	Long: `Process a single issue through the Triage-Bot pipeline.
You can provide the issue data via a JSON file, or specify --org, --repo and
--number to fetch it from GitHub.`,
	Run: func(cmd *cobra.Command, args []string) {
		runProcess()
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&issueFile, "issue", "", "Path to issue JSON file")
	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run in dry-run mode (no side effects)")
	processCmd.Flags().StringVar(&workflow, "workflow", "issue-triage", "Workflow preset to run")
	processCmd.Flags().StringVar(&repoName, "repo", "", "Repository name")
	processCmd.Flags().StringVar(&orgName, "org", "", "Organization name")
	processCmd.Flags().IntVar(&issueNum, "number", 0, "Issue number")
}

func runProcess() {
	cfg := loadConfig()

	// Resolve the issue: file takes precedence, otherwise fetch from GitHub.
	var issue pipeline.Issue
	if issueFile != "" {
		data, err := os.ReadFile(issueFile)
		if err != nil {
			fmt.Printf("Error reading issue file: %v\n", err)
			os.Exit(1)
		}
		if err := json.Unmarshal(data, &issue); err != nil {
			fmt.Printf("Error parsing issue JSON: %v\n", err)
			os.Exit(1)
		}
		// Override identity if flags provided
		if orgName != "" {
			issue.Org = orgName
		}
		if repoName != "" {
			issue.Repo = repoName
		}
		if issueNum != 0 {
			issue.Number = issueNum
		}
	} else {
		if orgName == "" || repoName == "" || issueNum == 0 {
			fmt.Println("Please provide --issue <file>, or --org, --repo and --number")
			os.Exit(1)
		}
		token := os.Getenv("GITHUB_TOKEN")
		ghClient := github.NewClient(context.Background(), token)
		raw, err := ghClient.GetIssue(context.Background(), orgName, repoName, issueNum)
		if err != nil {
			fmt.Printf("Error fetching issue #%d from %s/%s: %v\n", issueNum, orgName, repoName, err)
			os.Exit(1)
		}
		issue = *github.ConvertIssue(orgName, repoName, raw)
	}

	statusChan := make(chan tui.PipelineStatusMsg)

	// Determine steps
	stepNames := pipeline.ResolveSteps(cfg.Steps, workflow)

	deps := &pipeline.Dependencies{
		DryRun: dryRun,
	}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		deps.GitHub = github.NewClient(context.Background(), token)
	}

	// Check if running in CI/non-interactive environment
	isCI := os.Getenv("CI") == "true" || os.Getenv("GITHUB_ACTIONS") == "true"

	if isCI {
		// Run pipeline directly without TUI in CI environments
		fmt.Println("[triage-bot] Running in CI mode (no TUI)")
		// Drain status updates so the reporting steps never block.
		done := make(chan struct{})
		go func() {
			defer close(done)
			for msg := range statusChan {
				if verbose {
					fmt.Printf("[%s] %s %s\n", msg.Step, msg.Status, msg.Message)
				}
			}
		}()
		runPipeline(nil, deps, stepNames, &issue, cfg, statusChan)
		<-done
		fmt.Println("[triage-bot] Pipeline completed")
	} else {
		// Create TUI model for interactive mode
		model := tui.NewModel(stepNames, statusChan)
		p := tea.NewProgram(model)

		// Run pipeline in a goroutine
		go func() {
			runPipeline(p, deps, stepNames, &issue, cfg, statusChan)
		}()

		if _, err := p.Run(); err != nil {
			fmt.Printf("Error running TUI: %v\n", err)
			os.Exit(1)
		}
	}
}
