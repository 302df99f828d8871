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

package labels

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pvandervelde/merge-warden-sub000/pkg/config"
	"github.com/pvandervelde/merge-warden-sub000/pkg/metrics"
	"github.com/pvandervelde/merge-warden-sub000/pkg/provider"
	"github.com/pvandervelde/merge-warden-sub000/pkg/size"
)

// Keyword labels are additive and non-exclusive; they never supersede one
// another and never depend on change-type detection succeeding.
const (
	BreakingChangeLabel = "breaking-change"
	SecurityLabel       = "security"
	HotfixLabel         = "hotfix"
	TechDebtLabel       = "tech-debt"
)

// Manager applies labels chosen by a Detector to a pull request, with
// exclusive replacement for size labels and independently fault-tolerant
// forge calls: a failure to apply or remove one label is logged at WARN and
// never aborts the rest of the label pass or the overall reconcile.
type Manager struct {
	provider provider.PullRequestProvider
	detector *Detector
	log      logrus.FieldLogger
}

// NewManager builds a Manager around a PullRequestProvider and a Detector.
// A nil logger falls back to logrus's standard logger.
func NewManager(p provider.PullRequestProvider, detector *Detector, log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{provider: p, detector: detector, log: log}
}

func (m *Manager) warn(owner, repo string, number int, op string, err error) {
	m.log.WithFields(logrus.Fields{
		"owner": owner, "repo": repo, "pr_number": number, "operation": op, "error": err,
	}).Warn("label operation failed, continuing")
	metrics.RecordLabelOperationFailure(op)
}

// ManageSizeLabels ensures the PR carries exactly the discovered (or
// fallback) label for its current size category, removing any previously
// applied label for a different category first so labeling remains
// exclusive. Every forge call here is independently non-fatal.
func (m *Manager) ManageSizeLabels(ctx context.Context, owner, repo string, number int, category size.Category, cfg config.SizePolicy) string {
	available, err := m.provider.ListAvailableLabels(ctx, owner, repo)
	if err != nil {
		m.warn(owner, repo, number, "list_available_labels", err)
		available = nil
	}
	discovered := m.detector.DiscoverSizeLabels(available)

	applied, err := m.provider.ListAppliedLabels(ctx, owner, repo, number)
	if err != nil {
		m.warn(owner, repo, number, "list_applied_labels", err)
		applied = nil
	}

	target, hasTarget := discovered[category]
	if !hasTarget {
		target = FallbackSizeLabelName(category, cfg.LabelPrefix)
	}

	discoveredNames := map[string]bool{}
	for _, name := range discovered {
		discoveredNames[name] = true
	}

	for _, l := range applied {
		if l.Name == target {
			continue
		}
		if discoveredNames[l.Name] {
			if err := m.provider.RemoveLabel(ctx, owner, repo, number, l.Name); err != nil {
				m.warn(owner, repo, number, "remove_label:"+l.Name, err)
			}
		}
	}

	alreadyApplied := false
	for _, l := range applied {
		if l.Name == target {
			alreadyApplied = true
			break
		}
	}
	if !alreadyApplied {
		if err := m.provider.AddLabels(ctx, owner, repo, number, []string{target}); err != nil {
			m.warn(owner, repo, number, "add_labels:"+target, err)
		}
	}

	return target
}

// ApplyChangeTypeLabel detects and applies the label for a single
// conventional-commit changeType, creating a fallback label when nothing
// matches and cfg.FallbackLabelSettings.CreateIfMissing is set. It returns
// the name of the label applied, or "" if nothing was applied.
func (m *Manager) ApplyChangeTypeLabel(ctx context.Context, owner, repo string, number int, changeType string, cfg config.ChangeTypeLabelConfig) string {
	if !cfg.Enabled {
		return ""
	}

	available, err := m.provider.ListAvailableLabels(ctx, owner, repo)
	if err != nil {
		m.warn(owner, repo, number, "list_available_labels", err)
		available = nil
	}

	name, found := m.detector.DetectChangeTypeLabel(available, changeType, cfg)
	if !found {
		if !cfg.FallbackLabelSettings.CreateIfMissing {
			return ""
		}
		name = FallbackLabelName(changeType, cfg.FallbackLabelSettings)
	}

	if err := m.provider.AddLabels(ctx, owner, repo, number, []string{name}); err != nil {
		m.warn(owner, repo, number, "add_labels:"+name, err)
		return ""
	}
	return name
}

// ApplyKeywordLabels scans title and body for the fixed keyword triggers
// and applies whichever additive labels match. Detection runs
// unconditionally, independent of whether change-type labeling is enabled.
func (m *Manager) ApplyKeywordLabels(ctx context.Context, owner, repo string, number int, title, body string) []string {
	lowerTitle := strings.ToLower(title)
	lowerBody := strings.ToLower(body)

	var toApply []string

	if strings.Contains(lowerTitle, "!:") || strings.Contains(lowerTitle, "breaking change") || strings.Contains(lowerBody, "breaking change") {
		toApply = append(toApply, BreakingChangeLabel)
	}
	if strings.Contains(lowerBody, "security") || strings.Contains(lowerBody, "vulnerability") {
		toApply = append(toApply, SecurityLabel)
	}
	if strings.Contains(lowerBody, "hotfix") {
		toApply = append(toApply, HotfixLabel)
	}
	if strings.Contains(lowerBody, "technical debt") || strings.Contains(lowerBody, "tech debt") {
		toApply = append(toApply, TechDebtLabel)
	}

	var applied []string
	for _, name := range toApply {
		if err := m.provider.AddLabels(ctx, owner, repo, number, []string{name}); err != nil {
			m.warn(owner, repo, number, "add_labels:"+name, err)
			continue
		}
		applied = append(applied, name)
	}
	return applied
}
