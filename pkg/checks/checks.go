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

package checks

import (
	"regexp"

	"github.com/pvandervelde/merge-warden-sub000/pkg/bypass"
	"github.com/pvandervelde/merge-warden-sub000/pkg/config"
	"github.com/pvandervelde/merge-warden-sub000/pkg/provider"
	"github.com/pvandervelde/merge-warden-sub000/pkg/size"
)

// CheckTitle validates that pr.Title follows config.Title.Pattern, honoring
// bypassRule first. Bypass is evaluated before the pattern is even compiled,
// so a malformed pattern can never accidentally block a bypassed user. A
// pattern that fails to compile is fail-closed: Invalid.
func CheckTitle(pr provider.PullRequestSnapshot, bypassRule bypass.Rule, cfg config.TitlePolicy) Result {
	if bypass.CanBypassTitleValidation(pr.Author, bypassRule) {
		return Bypassed(BypassInfo{RuleType: TitleConvention, User: pr.Author.Login})
	}

	re, err := regexp.Compile(cfg.Pattern)
	if err != nil {
		return Invalid()
	}

	if re.MatchString(pr.Title) {
		return Valid()
	}
	return Invalid()
}

// CheckWorkItemReference validates that pr.Body references a work item,
// honoring bypassRule first. A PR with no body at all is Invalid unless
// bypassed. A pattern that fails to compile is fail-closed: Invalid.
func CheckWorkItemReference(pr provider.PullRequestSnapshot, bypassRule bypass.Rule, cfg config.WorkItemPolicy) Result {
	if bypass.CanBypassWorkItemValidation(pr.Author, bypassRule) {
		return Bypassed(BypassInfo{RuleType: WorkItemReference, User: pr.Author.Login})
	}

	if !pr.HasBody {
		return Invalid()
	}

	re, err := regexp.Compile(cfg.Pattern)
	if err != nil {
		return Invalid()
	}

	if re.MatchString(pr.Body) {
		return Valid()
	}
	return Invalid()
}

// CheckSize validates the pull request's total changed-line count against
// the configured size policy. Size checking intentionally ignores bypass
// rules: it is advisory unless FailOnOversized is set, in which case it
// still applies uniformly to every author.
func CheckSize(files []provider.FileChange, cfg config.SizePolicy) (Result, size.Info) {
	if !cfg.Enabled {
		return Valid(), size.Info{}
	}

	info := size.FromFilesWithExclusions(files, cfg.Thresholds, cfg.ExcludedPatterns)

	if cfg.FailOnOversized && info.IsOversized() {
		return Invalid(), info
	}
	return Valid(), info
}
