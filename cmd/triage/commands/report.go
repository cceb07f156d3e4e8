package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var (
	reportFile    string
	reportOutFile string
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render an inventory file as a Markdown report",
	Long: `Render the JSON inventory produced by 'triage scan' as a Markdown
report with per-category, per-priority and per-repository breakdowns plus
the duplicate groups found in each repository.`,
	Run: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportFile, "file", "", "Path to inventory JSON file (required)")
	reportCmd.Flags().StringVar(&reportOutFile, "out-file", "", "Output file path (stdout if not specified)")

	if err := reportCmd.MarkFlagRequired("file"); err != nil {
		fmt.Printf("Warning: Failed to mark file flag as required: %v\n", err)
	}
}

func runReport(cmd *cobra.Command, args []string) {
	data, err := os.ReadFile(reportFile)
	if err != nil {
		fmt.Printf("❌ Error reading inventory file: %v\n", err)
		os.Exit(1)
	}

	var envelope InventoryOutput
	if err := json.Unmarshal(data, &envelope); err != nil {
		fmt.Printf("❌ Error parsing inventory JSON: %v\n", err)
		os.Exit(1)
	}
	if envelope.Inventory == nil {
		fmt.Println("❌ Inventory file contains no inventory")
		os.Exit(1)
	}

	report := renderReport(&envelope)

	if reportOutFile != "" {
		if err := os.WriteFile(reportOutFile, []byte(report), 0644); err != nil {
			fmt.Printf("❌ Error writing report: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✓ Report written to %s\n", reportOutFile)
	} else {
		fmt.Print(report)
	}
}

// renderReport builds the Markdown report for an inventory envelope.
func renderReport(envelope *InventoryOutput) string {
	inv := envelope.Inventory
	var b strings.Builder

	b.WriteString("# Issue Inventory Report\n\n")
	fmt.Fprintf(&b, "Run `%s`, generated %s.\n\n", envelope.RunID, envelope.GeneratedAt.Format("2006-01-02 15:04 MST"))

	fmt.Fprintf(&b, "**%d issues** across **%d repositories**, %d duplicate groups covering %d issues.\n\n",
		inv.Summary.TotalIssues, inv.Summary.TotalRepositories,
		inv.Summary.DuplicateGroups, inv.Summary.IssuesInGroups)

	writeCountTable(&b, "By Category", "Category", inv.Summary.ByCategory)
	writeCountTable(&b, "By Priority", "Priority", inv.Summary.ByPriority)
	writeCountTable(&b, "By Type", "Type", inv.Summary.ByType)
	writeCountTable(&b, "By Repository", "Repository", inv.Summary.ByRepository)

	for _, repo := range inv.Repositories {
		if len(repo.Groups) == 0 {
			continue
		}
		fmt.Fprintf(&b, "## Duplicate Groups in %s\n\n", repo.Repository)
		for _, g := range repo.Groups {
			refs := make([]string, len(g.Members))
			for i, n := range g.Members {
				refs[i] = fmt.Sprintf("#%d", n)
			}
			fmt.Fprintf(&b, "- Representative #%d: %s (threshold %.2f)\n", g.Representative, strings.Join(refs, ", "), g.Threshold)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// writeCountTable writes one summary map as a Markdown table, rows sorted
// by count descending then name so output is stable.
func writeCountTable(b *strings.Builder, title, column string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	type row struct {
		name  string
		count int
	}
	rows := make([]row, 0, len(counts))
	for name, count := range counts {
		rows = append(rows, row{name, count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].name < rows[j].name
	})

	fmt.Fprintf(b, "## %s\n\n", title)
	fmt.Fprintf(b, "| %s | Issues |\n|---|---|\n", column)
	for _, r := range rows {
		fmt.Fprintf(b, "| %s | %d |\n", r.name, r.count)
	}
	b.WriteString("\n")
}
