// Package taxonomy scores issues against a fixed set of weighted category
// definitions and suggests labels derived from keyword tables.
package taxonomy

// Fallback is the category assigned when no category scores above zero.
const Fallback = "General"

// Category defines a named, weighted keyword set. Keywords are matched
// against labels and the combined title+body text; TitleKeywords are a
// higher-weighted subset matched against the title only.
//
// Definition order is part of the taxonomy: when two categories tie on
// score, the earlier one wins.
type Category struct {
	Name          string   `yaml:"name"`
	Keywords      []string `yaml:"keywords"`
	TitleKeywords []string `yaml:"title_keywords,omitempty"`
}

// DefaultCategories returns the built-in project taxonomy. Callers may
// supply their own ordered list instead; the engine never mutates it.
func DefaultCategories() []Category {
	return []Category{
		{
			Name: "Backend Services",
			Keywords: []string{
				"module:auth", "module:api", "module:database", "module:metrics",
				"module:cache", "module:config", "module:queue", "module:organization",
				"auth", "grpc", "proto", "protobuf", "migration", "backend",
			},
			TitleKeywords: []string{"grpc", "auth", "proto", "database", "api", "server", "backend"},
		},
		{
			Name: "Web & UI",
			Keywords: []string{
				"module:web", "module:ui", "frontend", "web", "ui", "webui", "dashboard",
			},
			TitleKeywords: []string{"web", "ui", "frontend", "interface", "dashboard"},
		},
		{
			Name: "Infrastructure",
			Keywords: []string{
				"ci-cd", "github-actions", "deployment", "build", "release",
				"automation", "workflow", "docker", "cosign", "infrastructure",
			},
			TitleKeywords: []string{"ci", "workflow", "build", "deploy", "docker", "action"},
		},
		{
			Name: "Documentation",
			Keywords: []string{
				"documentation", "docs", "examples", "guide", "readme", "changelog",
			},
			TitleKeywords: []string{"doc", "readme", "guide", "example", "manual"},
		},
		{
			Name: "Testing",
			Keywords: []string{
				"test", "testing", "integration", "unit-tests", "qa", "validation", "benchmark",
			},
			TitleKeywords: []string{"test", "testing", "qa", "validation", "spec"},
		},
		{
			Name: "SDKs & Tools",
			Keywords: []string{
				"sdk", "tools", "cli", "utility", "script", "generator", "dependencies",
			},
			TitleKeywords: []string{"cli", "tool", "script", "utility", "sdk"},
		},
	}
}
