/*
Copyright 2025 The Merge Warden Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package config resolves the effective, per-evaluation configuration by
// merging application-level defaults with repository-provided TOML.
package config

import (
	"github.com/pvandervelde/merge-warden-sub000/pkg/bypass"
	"github.com/pvandervelde/merge-warden-sub000/pkg/size"
)

// Sentinel markers embedded in comments so a later evaluation can find and
// delete its own prior comment. These must never change without a
// compatibility plan.
const (
	TitleCommentMarker    = "<!-- PR_TITLE_CHECK -->"
	WorkItemCommentMarker = "<!-- PR_WORK_ITEM_CHECK -->"
)

// Labels applied when a check fails, absent a repository override.
const (
	TitleInvalidLabel    = "invalid-title-format"
	MissingWorkItemLabel = "missing-work-item"
)

// ConventionalCommitTypes is the fixed Conventional Commits type
// alternation, shared by DefaultTitlePattern and by the change-type
// extraction that feeds automatic labeling. A title outside this list is
// not a valid Conventional Commit and must never be treated as one.
const ConventionalCommitTypes = `build|chore|ci|docs|feat|fix|perf|refactor|revert|style|test`

// DefaultTitlePattern enforces Conventional Commits.
const DefaultTitlePattern = `^(` + ConventionalCommitTypes + `)(\([a-z0-9_-]+\))?!?: .+`

// DefaultWorkItemPattern accepts a closing keyword followed by a #N,
// GH-N, owner/repo#N, or full GitHub issue URL reference.
const DefaultWorkItemPattern = `(?i)(fixes|closes|resolves|references|relates to)\s+` +
	`(#\d+|GH-\d+|[\w.-]+/[\w.-]+#\d+|https://github\.com/[\w.-]+/[\w.-]+/issues/\d+)`

// TitlePolicy configures the conventional-commit title check.
type TitlePolicy struct {
	Enforce     bool
	Pattern     string
	LabelOnFail string
}

// WorkItemPolicy configures the work-item reference check.
type WorkItemPolicy struct {
	Enforce     bool
	Pattern     string
	LabelOnFail string
}

// SizePolicy configures the PR-size check.
type SizePolicy struct {
	Enabled           bool
	Thresholds        size.Thresholds
	FailOnOversized   bool
	ExcludedPatterns  []string
	LabelPrefix       string
	AddComment        bool
}

// DetectionStrategy gates which tiers of change-type label discovery run.
type DetectionStrategy struct {
	Exact       bool
	Prefix      bool
	Description bool
}

// FallbackLabelSettings configures the label created when nothing matches
// a commit type during change-type label discovery.
type FallbackLabelSettings struct {
	CreateIfMissing bool
	NameFormat      string
	ColorScheme     map[string]string
}

// ChangeTypeLabelConfig configures automatic labeling from the PR's
// conventional-commit type.
type ChangeTypeLabelConfig struct {
	Enabled               bool
	Mappings              map[string][]string
	FallbackLabelSettings FallbackLabelSettings
	DetectionStrategy     DetectionStrategy
}

// EffectiveConfig is the fully merged configuration used for one evaluation.
type EffectiveConfig struct {
	Title            TitlePolicy
	WorkItem         WorkItemPolicy
	Size             SizePolicy
	ChangeTypeLabels ChangeTypeLabelConfig
	BypassRules      bypass.Rules
}

var defaultFallbackColors = map[string]string{
	"feat":     "0e8a16",
	"fix":      "d73a4a",
	"docs":     "0075ca",
	"style":    "d4c5f9",
	"refactor": "fbca04",
	"perf":     "ff7619",
	"test":     "bfd4f2",
	"build":    "c5def5",
	"ci":       "c5def5",
	"chore":    "ededed",
	"revert":   "e11d21",
}

var defaultChangeTypeMappings = map[string][]string{
	"feat":     {"feature", "enhancement"},
	"fix":      {"bug", "bugfix"},
	"docs":     {"documentation"},
	"style":    {"style"},
	"refactor": {"refactor", "refactoring"},
	"perf":     {"performance"},
	"test":     {"test", "testing"},
	"build":    {"build"},
	"ci":       {"ci", "ci/cd"},
	"chore":    {"chore"},
	"revert":   {"revert"},
}

// ApplicationDefaults builds the application's own hardcoded defaults. Per
// the design decision recorded in the original specification, title and
// work-item enforcement both default to false: the application never
// silently enforces convention-commit titles or work-item references for a
// repository that hasn't opted in.
func ApplicationDefaults() EffectiveConfig {
	return EffectiveConfig{
		Title: TitlePolicy{
			Enforce:     false,
			Pattern:     DefaultTitlePattern,
			LabelOnFail: TitleInvalidLabel,
		},
		WorkItem: WorkItemPolicy{
			Enforce:     false,
			Pattern:     DefaultWorkItemPattern,
			LabelOnFail: MissingWorkItemLabel,
		},
		Size: SizePolicy{
			Enabled:          false,
			Thresholds:       size.DefaultThresholds(),
			FailOnOversized:  false,
			ExcludedPatterns: nil,
			LabelPrefix:      "size/",
			AddComment:       true,
		},
		ChangeTypeLabels: ChangeTypeLabelConfig{
			Enabled:  true,
			Mappings: defaultChangeTypeMappings,
			FallbackLabelSettings: FallbackLabelSettings{
				CreateIfMissing: true,
				NameFormat:      "type: {change_type}",
				ColorScheme:     defaultFallbackColors,
			},
			DetectionStrategy: DetectionStrategy{Exact: true, Prefix: true, Description: true},
		},
	}
}
