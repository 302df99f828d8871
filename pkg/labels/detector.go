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

// Package labels discovers the best existing repository label for a
// logical category (a size bucket or a conventional-commit type) and
// applies it to a pull request, with staged fallback creation.
package labels

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pvandervelde/merge-warden-sub000/pkg/config"
	"github.com/pvandervelde/merge-warden-sub000/pkg/provider"
	"github.com/pvandervelde/merge-warden-sub000/pkg/size"
)

// Detector discovers the best existing repository label for a size
// category or a conventional-commit change type.
type Detector struct{}

// NewDetector returns a ready-to-use Detector. It holds no state.
func NewDetector() *Detector {
	return &Detector{}
}

// DiscoverSizeLabels runs FindBestLabelForSizeCategory for every size
// category and returns whichever ones matched.
func (d *Detector) DiscoverSizeLabels(available []provider.Label) map[size.Category]string {
	discovered := map[size.Category]string{}
	for _, category := range []size.Category{size.XS, size.S, size.M, size.L, size.XL, size.XXL} {
		if name, ok := d.FindBestLabelForSizeCategory(available, category); ok {
			discovered[category] = name
		}
	}
	return discovered
}

// FindBestLabelForSizeCategory runs the four-tier priority search for one
// category: exact (`size/C`), separator (`size[_-: ]C`), standalone (`C`,
// case-insensitive), and description (`(size: C)`). First match wins.
func (d *Detector) FindBestLabelForSizeCategory(available []provider.Label, category size.Category) (string, bool) {
	if name, ok := findExactSizeMatch(available, category); ok {
		return name, true
	}
	if name, ok := findSizeWithSeparator(available, category); ok {
		return name, true
	}
	if name, ok := findStandaloneSize(available, category); ok {
		return name, true
	}
	if name, ok := findDescriptionBasedSize(available, category); ok {
		return name, true
	}
	return "", false
}

func findExactSizeMatch(available []provider.Label, category size.Category) (string, bool) {
	pattern := regexp.MustCompile(`(?i)^size/` + regexp.QuoteMeta(category.String()) + `$`)
	return findByNamePattern(available, pattern)
}

func findSizeWithSeparator(available []provider.Label, category size.Category) (string, bool) {
	pattern := regexp.MustCompile(`(?i)^size[_\-:\s]+` + regexp.QuoteMeta(category.String()) + `$`)
	return findByNamePattern(available, pattern)
}

func findStandaloneSize(available []provider.Label, category size.Category) (string, bool) {
	pattern := regexp.MustCompile(`(?i)^` + regexp.QuoteMeta(category.String()) + `$`)
	return findByNamePattern(available, pattern)
}

func findDescriptionBasedSize(available []provider.Label, category size.Category) (string, bool) {
	pattern := regexp.MustCompile(`(?i)\(size:\s*` + regexp.QuoteMeta(category.String()) + `\)`)
	for _, l := range available {
		if pattern.MatchString(l.Description) {
			return l.Name, true
		}
	}
	return "", false
}

func findByNamePattern(available []provider.Label, pattern *regexp.Regexp) (string, bool) {
	for _, l := range available {
		if pattern.MatchString(l.Name) {
			return l.Name, true
		}
	}
	return "", false
}

// changeTypePrefixCandidates are the eight candidate prefixes tried, in
// order, against a lower-cased label name for the prefix detection tier.
func changeTypePrefixCandidates(changeType string) []string {
	return []string{
		changeType + ":",
		changeType + "-",
		"type: " + changeType,
		"type-" + changeType,
		"type_" + changeType,
		"kind: " + changeType,
		"kind-" + changeType,
		"kind_" + changeType,
	}
}

// DetectChangeTypeLabel runs the three-tier strategy for one
// conventional-commit changeType, gated per tier by cfg.DetectionStrategy.
func (d *Detector) DetectChangeTypeLabel(available []provider.Label, changeType string, cfg config.ChangeTypeLabelConfig) (string, bool) {
	candidates := mappedCandidateNames(changeType, cfg)

	if cfg.DetectionStrategy.Exact {
		if name, ok := findExactChangeTypeMatch(available, candidates); ok {
			return name, true
		}
	}
	if cfg.DetectionStrategy.Prefix {
		if name, ok := findChangeTypePrefixMatch(available, changeType); ok {
			return name, true
		}
	}
	if cfg.DetectionStrategy.Description {
		if name, ok := findChangeTypeDescriptionMatch(available, changeType); ok {
			return name, true
		}
	}
	return "", false
}

func mappedCandidateNames(changeType string, cfg config.ChangeTypeLabelConfig) []string {
	if mapped, ok := cfg.Mappings[changeType]; ok && len(mapped) > 0 {
		return mapped
	}
	return defaultMappedCandidates(changeType)
}

func defaultMappedCandidates(changeType string) []string {
	defaults := map[string][]string{
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
	return defaults[changeType]
}

func findExactChangeTypeMatch(available []provider.Label, candidates []string) (string, bool) {
	for _, l := range available {
		for _, c := range candidates {
			if strings.EqualFold(l.Name, c) {
				return l.Name, true
			}
		}
	}
	return "", false
}

func findChangeTypePrefixMatch(available []provider.Label, changeType string) (string, bool) {
	prefixes := changeTypePrefixCandidates(changeType)
	for _, l := range available {
		lower := strings.ToLower(l.Name)
		for _, p := range prefixes {
			if strings.HasPrefix(lower, p) {
				return l.Name, true
			}
		}
	}
	return "", false
}

func findChangeTypeDescriptionMatch(available []provider.Label, changeType string) (string, bool) {
	lowerType := strings.ToLower(changeType)
	for _, l := range available {
		if strings.Contains(strings.ToLower(l.Description), lowerType) {
			return l.Name, true
		}
	}
	return "", false
}

// FallbackLabelName renders the configured name_format for a commit type,
// e.g. "type: {change_type}" -> "type: feat".
func FallbackLabelName(changeType string, cfg config.FallbackLabelSettings) string {
	format := cfg.NameFormat
	if format == "" {
		format = "type: {change_type}"
	}
	return strings.ReplaceAll(format, "{change_type}", changeType)
}

// FallbackSizeLabelName renders the fallback label name for a size
// category, e.g. "size/XS".
func FallbackSizeLabelName(category size.Category, labelPrefix string) string {
	prefix := labelPrefix
	if prefix == "" {
		prefix = "size/"
	}
	return fmt.Sprintf("%s%s", prefix, category.String())
}
