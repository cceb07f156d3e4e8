package commands

import (
	"context"
	"testing"

	"github.com/triagehq/triage-bot/internal/core/config"
	"github.com/triagehq/triage-bot/internal/core/pipeline"
)

func TestResolveScanTargetsFromFlags(t *testing.T) {
	origRepos := scanRepos
	defer func() { scanRepos = origRepos }()

	scanRepos = []string{"acme/app", "acme/web"}
	targets, err := resolveScanTargets(&config.Config{})
	if err != nil {
		t.Fatalf("resolveScanTargets failed: %v", err)
	}
	if len(targets) != 2 {
		t.Fatalf("Expected 2 targets, got %d", len(targets))
	}
	if targets[0].Org != "acme" || targets[0].Repo != "app" {
		t.Errorf("Unexpected first target: %+v", targets[0])
	}
	if !targets[1].Enabled {
		t.Error("Expected flag-provided targets to be enabled")
	}
}

func TestResolveScanTargetsInvalidRef(t *testing.T) {
	origRepos := scanRepos
	defer func() { scanRepos = origRepos }()

	scanRepos = []string{"not-a-repo"}
	if _, err := resolveScanTargets(&config.Config{}); err == nil {
		t.Fatal("Expected error for malformed repo reference")
	}
}

func TestResolveScanTargetsFromConfig(t *testing.T) {
	origRepos := scanRepos
	defer func() { scanRepos = origRepos }()
	scanRepos = nil

	cfg := &config.Config{
		Repositories: []config.RepositoryConfig{
			{Org: "acme", Repo: "app", Enabled: true},
			{Org: "acme", Repo: "archive", Enabled: false},
		},
	}

	targets, err := resolveScanTargets(cfg)
	if err != nil {
		t.Fatalf("resolveScanTargets failed: %v", err)
	}
	if len(targets) != 1 || targets[0].Repo != "app" {
		t.Errorf("Expected only the enabled repository, got %+v", targets)
	}

	if _, err := resolveScanTargets(&config.Config{}); err == nil {
		t.Error("Expected error when nothing is configured")
	}
}

func TestScanRepository(t *testing.T) {
	cfg := &config.Config{}
	cfg.ApplyDefaults()

	issues := []pipeline.Issue{
		{Org: "acme", Repo: "app", Number: 1, Title: "Crash in grpc server on startup", Body: "The backend panics.", Author: "alice", State: "open"},
		{Org: "acme", Repo: "app", Number: 2, Title: "Crash in grpc server on startup", Body: "Same here.", Author: "bob", State: "open"},
		{Org: "acme", Repo: "app", Number: 3, Title: "Bump deps", Author: "dependabot[bot]", State: "open"},
	}

	deps := &pipeline.Dependencies{DryRun: true}
	stepNames := pipeline.ResolveSteps(nil, "classify-only")

	result, err := scanRepository(context.Background(), "acme/app", issues, cfg, deps, stepNames)
	if err != nil {
		t.Fatalf("scanRepository failed: %v", err)
	}

	if result.Repository != "acme/app" {
		t.Errorf("Expected repository acme/app, got %s", result.Repository)
	}
	if len(result.Issues) != 2 {
		t.Fatalf("Expected 2 classified issues (bot skipped), got %d", len(result.Issues))
	}
	if result.Issues[0].Category != "Backend Services" {
		t.Errorf("Expected category 'Backend Services', got '%s'", result.Issues[0].Category)
	}
	if len(result.Groups) != 1 {
		t.Fatalf("Expected 1 duplicate group, got %d", len(result.Groups))
	}
	if len(result.Groups[0].Members) != 2 {
		t.Errorf("Expected the skipped bot issue out of the group, got members %v", result.Groups[0].Members)
	}
}
