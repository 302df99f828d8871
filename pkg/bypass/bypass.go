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

// Package bypass decides whether a pull request author is exempted from a
// particular check.
package bypass

import "github.com/pvandervelde/merge-warden-sub000/pkg/provider"

// Rule is a single bypass rule: a set of forge logins exempted from a check,
// active only when Enabled.
type Rule struct {
	Enabled bool
	Users   []string
}

// Rules bundles the per-check bypass rules that the caller supplies; these
// never come from repository-provided configuration, since a repo must not
// be able to grant itself bypasses.
type Rules struct {
	TitleConvention  Rule
	WorkItemRefs     Rule
	Size             Rule
}

// CanBypass reports whether user is exempted by rule. It returns false
// whenever rule is disabled or user is nil, regardless of the users list, so
// a stripped or misconfigured payload can never leak a bypass.
func CanBypass(user *provider.User, rule Rule) bool {
	if !rule.Enabled {
		return false
	}
	if user == nil {
		return false
	}
	for _, u := range rule.Users {
		if u == user.Login {
			return true
		}
	}
	return false
}

// CanBypassTitleValidation is a named wrapper over CanBypass for the title
// convention check.
func CanBypassTitleValidation(user *provider.User, rule Rule) bool {
	return CanBypass(user, rule)
}

// CanBypassWorkItemValidation is a named wrapper over CanBypass for the
// work-item reference check.
func CanBypassWorkItemValidation(user *provider.User, rule Rule) bool {
	return CanBypass(user, rule)
}

// CanBypassValidations evaluates both the title and work-item bypass rules
// for one pull request snapshot's author in a single call.
func CanBypassValidations(pr provider.PullRequestSnapshot, rules Rules) (title, workItem bool) {
	title = CanBypassTitleValidation(pr.Author, rules.TitleConvention)
	workItem = CanBypassWorkItemValidation(pr.Author, rules.WorkItemRefs)
	return title, workItem
}
