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

package config

// SupportedSchemaVersion is the only schemaVersion the resolver accepts.
const SupportedSchemaVersion = 1

// RepositoryConfig is the shape of the repository-provided TOML file at
// the well-known config path (see DefaultConfigPath).
type RepositoryConfig struct {
	SchemaVersion int                      `toml:"schemaVersion"`
	Policies      RepositoryPolicies       `toml:"policies"`
	ChangeType    *RepositoryChangeType    `toml:"change_type_labels"`
}

// DefaultConfigPath is where the resolver looks for repository config,
// relative to the repository root.
const DefaultConfigPath = ".merge-warden.toml"

type RepositoryPolicies struct {
	PullRequests RepositoryPullRequestPolicies `toml:"pullRequests"`
}

type RepositoryPullRequestPolicies struct {
	PRTitle  *RepositoryTitlePolicy    `toml:"prTitle"`
	WorkItem *RepositoryWorkItemPolicy `toml:"workItem"`
	PRSize   *RepositorySizePolicy     `toml:"prSize"`
}

type RepositoryTitlePolicy struct {
	Required      *bool  `toml:"required"`
	Pattern       string `toml:"pattern"`
	LabelIfMissing string `toml:"label_if_missing"`
}

type RepositoryWorkItemPolicy struct {
	Required       *bool  `toml:"required"`
	Pattern        string `toml:"pattern"`
	LabelIfMissing string `toml:"label_if_missing"`
}

type RepositorySizeThresholds struct {
	XS *uint32 `toml:"xs"`
	S  *uint32 `toml:"s"`
	M  *uint32 `toml:"m"`
	L  *uint32 `toml:"l"`
	XL *uint32 `toml:"xl"`
}

type RepositorySizePolicy struct {
	Enabled             *bool                     `toml:"enabled"`
	Thresholds          *RepositorySizeThresholds `toml:"thresholds"`
	FailOnOversized     *bool                     `toml:"fail_on_oversized"`
	ExcludedFilePatterns []string                 `toml:"excluded_file_patterns"`
	LabelPrefix         string                    `toml:"label_prefix"`
	AddComment          *bool                     `toml:"add_comment"`
}

type RepositoryChangeType struct {
	Enabled                  *bool               `toml:"enabled"`
	ConventionalCommitMappings map[string][]string `toml:"conventional_commit_mappings"`
	FallbackLabelSettings    *RepositoryFallback `toml:"fallback_label_settings"`
	DetectionStrategy        *RepositoryDetection `toml:"detection_strategy"`
}

type RepositoryFallback struct {
	CreateIfMissing *bool             `toml:"create_if_missing"`
	NameFormat      string            `toml:"name_format"`
	ColorScheme     map[string]string `toml:"color_scheme"`
}

type RepositoryDetection struct {
	Exact       *bool `toml:"exact"`
	Prefix      *bool `toml:"prefix"`
	Description *bool `toml:"description"`
}
