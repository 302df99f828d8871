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

import (
	"context"
	"errors"
	"fmt"

	toml "github.com/pelletier/go-toml"
	"github.com/sirupsen/logrus"

	"github.com/pvandervelde/merge-warden-sub000/pkg/bypass"
	"github.com/pvandervelde/merge-warden-sub000/pkg/provider"
)

// Fetcher is the narrow capability the resolver needs to retrieve
// repository-provided configuration; provider.ConfigFetcher satisfies it.
type Fetcher interface {
	FetchConfig(ctx context.Context, owner, repo, path string) (string, error)
}

// Resolve loads the repository's configuration file, merges it with
// appDefaults and bypassRules, and returns the EffectiveConfig for one
// evaluation. A missing config file (ErrConfigNotFound) is not an error: it
// simply means the application defaults apply unmodified.
func Resolve(ctx context.Context, fetcher Fetcher, owner, repo, path string, appDefaults EffectiveConfig, bypassRules bypass.Rules, log logrus.FieldLogger) (EffectiveConfig, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	raw, err := fetcher.FetchConfig(ctx, owner, repo, path)
	if errors.Is(err, provider.ErrConfigNotFound) {
		log.WithFields(logrus.Fields{"owner": owner, "repo": repo}).Debug("no repository config found, using application defaults")
		effective := appDefaults
		effective.BypassRules = bypassRules
		return effective, nil
	}
	if err != nil {
		return EffectiveConfig{}, fmt.Errorf("fetching repository config: %w", err)
	}

	var repoConfig RepositoryConfig
	if err := toml.Unmarshal([]byte(raw), &repoConfig); err != nil {
		log.WithFields(logrus.Fields{"owner": owner, "repo": repo, "error": err}).Warn("repository config is not valid TOML, using application defaults")
		effective := appDefaults
		effective.BypassRules = bypassRules
		return effective, nil
	}

	if repoConfig.SchemaVersion != SupportedSchemaVersion {
		log.WithFields(logrus.Fields{
			"owner": owner, "repo": repo, "schema_version": repoConfig.SchemaVersion,
		}).Warn("unsupported repository config schema version, discarding repo config and using application defaults")
		effective := appDefaults
		effective.BypassRules = bypassRules
		return effective, nil
	}

	effective := Merge(appDefaults, repoConfig)
	effective.BypassRules = bypassRules
	return effective, nil
}

// Merge combines appDefaults with the repository-provided configuration
// according to the merge rules:
//   - application "enables" are OR'd in: an app that enforces a check cannot
//     be disabled by a repo.
//   - application patterns/labels are used only when the repo leaves the
//     corresponding field empty.
//   - change_type_labels overrides are per-field; empty repo arrays fall
//     through to the application defaults.
func Merge(appDefaults EffectiveConfig, repoConfig RepositoryConfig) EffectiveConfig {
	effective := appDefaults

	if pr := repoConfig.Policies.PullRequests.PRTitle; pr != nil {
		if pr.Required != nil {
			effective.Title.Enforce = effective.Title.Enforce || *pr.Required
		}
		if pr.Pattern != "" {
			effective.Title.Pattern = pr.Pattern
		}
		if pr.LabelIfMissing != "" {
			effective.Title.LabelOnFail = pr.LabelIfMissing
		}
	}

	if wi := repoConfig.Policies.PullRequests.WorkItem; wi != nil {
		if wi.Required != nil {
			effective.WorkItem.Enforce = effective.WorkItem.Enforce || *wi.Required
		}
		if wi.Pattern != "" {
			effective.WorkItem.Pattern = wi.Pattern
		}
		if wi.LabelIfMissing != "" {
			effective.WorkItem.LabelOnFail = wi.LabelIfMissing
		}
	}

	if sz := repoConfig.Policies.PullRequests.PRSize; sz != nil {
		mergeSize(&effective.Size, sz)
	}

	if ct := repoConfig.ChangeType; ct != nil {
		mergeChangeType(&effective.ChangeTypeLabels, ct)
	}

	return effective
}

func mergeSize(effective *SizePolicy, repoSize *RepositorySizePolicy) {
	enabled := effective.Enabled
	if repoSize.Enabled != nil {
		enabled = enabled || *repoSize.Enabled
	}

	// If, after OR-ing the enable flags, size checking is still disabled,
	// the rest of the repo's size configuration is irrelevant: replace it
	// wholesale with the (disabled) application defaults rather than
	// partially merging fields nobody will read.
	if !enabled {
		effective.Enabled = false
		return
	}

	effective.Enabled = true

	if repoSize.Thresholds != nil {
		t := effective.Thresholds
		if repoSize.Thresholds.XS != nil {
			t.XS = *repoSize.Thresholds.XS
		}
		if repoSize.Thresholds.S != nil {
			t.S = *repoSize.Thresholds.S
		}
		if repoSize.Thresholds.M != nil {
			t.M = *repoSize.Thresholds.M
		}
		if repoSize.Thresholds.L != nil {
			t.L = *repoSize.Thresholds.L
		}
		if repoSize.Thresholds.XL != nil {
			t.XL = *repoSize.Thresholds.XL
		}
		effective.Thresholds = t
	}

	if repoSize.FailOnOversized != nil {
		effective.FailOnOversized = *repoSize.FailOnOversized
	}
	if len(repoSize.ExcludedFilePatterns) > 0 {
		effective.ExcludedPatterns = repoSize.ExcludedFilePatterns
	}
	if repoSize.LabelPrefix != "" {
		effective.LabelPrefix = repoSize.LabelPrefix
	}
	if repoSize.AddComment != nil {
		effective.AddComment = *repoSize.AddComment
	}
}

func mergeChangeType(effective *ChangeTypeLabelConfig, repoCT *RepositoryChangeType) {
	if repoCT.Enabled != nil {
		effective.Enabled = effective.Enabled || *repoCT.Enabled
	}
	for changeType, candidates := range repoCT.ConventionalCommitMappings {
		if len(candidates) > 0 {
			if effective.Mappings == nil {
				effective.Mappings = map[string][]string{}
			}
			effective.Mappings[changeType] = candidates
		}
	}
	if fb := repoCT.FallbackLabelSettings; fb != nil {
		if fb.CreateIfMissing != nil {
			effective.FallbackLabelSettings.CreateIfMissing = *fb.CreateIfMissing
		}
		if fb.NameFormat != "" {
			effective.FallbackLabelSettings.NameFormat = fb.NameFormat
		}
		for changeType, color := range fb.ColorScheme {
			if effective.FallbackLabelSettings.ColorScheme == nil {
				effective.FallbackLabelSettings.ColorScheme = map[string]string{}
			}
			effective.FallbackLabelSettings.ColorScheme[changeType] = color
		}
	}
	if ds := repoCT.DetectionStrategy; ds != nil {
		if ds.Exact != nil {
			effective.DetectionStrategy.Exact = *ds.Exact
		}
		if ds.Prefix != nil {
			effective.DetectionStrategy.Prefix = *ds.Prefix
		}
		if ds.Description != nil {
			effective.DetectionStrategy.Description = *ds.Description
		}
	}
}
