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
	"testing"

	"github.com/pvandervelde/merge-warden-sub000/pkg/bypass"
	"github.com/pvandervelde/merge-warden-sub000/pkg/config"
	"github.com/pvandervelde/merge-warden-sub000/pkg/provider"
	"github.com/pvandervelde/merge-warden-sub000/pkg/size"
	"github.com/stretchr/testify/assert"
)

func TestCheckTitle(t *testing.T) {
	titleCfg := config.TitlePolicy{Pattern: config.DefaultTitlePattern}

	cases := []struct {
		name       string
		title      string
		author     *provider.User
		bypassRule bypass.Rule
		wantValid  bool
		wantBypass bool
	}{
		{"valid conventional title", "feat(auth): add GitHub login", nil, bypass.Rule{}, true, false},
		{"invalid title", "add feature", nil, bypass.Rule{}, false, false},
		{
			"bypassed author with invalid title",
			"fix urgent bug",
			&provider.User{Login: "emergency-bot"},
			bypass.Rule{Enabled: true, Users: []string{"emergency-bot"}},
			true, true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pr := provider.PullRequestSnapshot{Title: tc.title, Author: tc.author}
			result := CheckTitle(pr, tc.bypassRule, titleCfg)
			assert.Equal(t, tc.wantValid, result.IsValid)
			assert.Equal(t, tc.wantBypass, result.WasBypassed())
		})
	}
}

func TestCheckTitleInvalidPatternFailsClosed(t *testing.T) {
	pr := provider.PullRequestSnapshot{Title: "feat: whatever"}
	result := CheckTitle(pr, bypass.Rule{}, config.TitlePolicy{Pattern: "(unterminated"})
	assert.False(t, result.IsValid)
}

func TestCheckWorkItemReference(t *testing.T) {
	wiCfg := config.WorkItemPolicy{Pattern: config.DefaultWorkItemPattern}

	cases := []struct {
		name      string
		hasBody   bool
		body      string
		wantValid bool
	}{
		{"no body at all", false, "", false},
		{"body without reference", true, "just a description", false},
		{"fixes hash reference", true, "Fixes #42", true},
		{"closes GH reference", true, "Closes GH-7", true},
		{"full url reference", true, "Resolves https://github.com/acme/widgets/issues/9", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pr := provider.PullRequestSnapshot{HasBody: tc.hasBody, Body: tc.body}
			result := CheckWorkItemReference(pr, bypass.Rule{}, wiCfg)
			assert.Equal(t, tc.wantValid, result.IsValid)
		})
	}
}

func TestCheckWorkItemReferenceBypassed(t *testing.T) {
	author := &provider.User{Login: "release-bot"}
	pr := provider.PullRequestSnapshot{Author: author, HasBody: false}
	rule := bypass.Rule{Enabled: true, Users: []string{"release-bot"}}

	result := CheckWorkItemReference(pr, rule, config.WorkItemPolicy{Pattern: config.DefaultWorkItemPattern})

	assert.True(t, result.IsValid)
	assert.True(t, result.WasBypassed())
	assert.Equal(t, WorkItemReference, result.BypassInfo.RuleType)
}

func TestCheckSizeDisabledAlwaysValid(t *testing.T) {
	result, _ := CheckSize(nil, config.SizePolicy{Enabled: false})
	assert.True(t, result.IsValid)
}

func TestCheckSizeOversizedFailsWhenConfigured(t *testing.T) {
	files := []provider.FileChange{{Filename: "a.go", Changes: 900}}
	cfg := config.SizePolicy{Enabled: true, Thresholds: size.DefaultThresholds(), FailOnOversized: true}

	result, info := CheckSize(files, cfg)

	assert.False(t, result.IsValid)
	assert.Equal(t, size.XXL, info.Category)
}

func TestCheckSizeOversizedAdvisoryWhenNotFailing(t *testing.T) {
	files := []provider.FileChange{{Filename: "a.go", Changes: 900}}
	cfg := config.SizePolicy{Enabled: true, Thresholds: size.DefaultThresholds(), FailOnOversized: false}

	result, _ := CheckSize(files, cfg)

	assert.True(t, result.IsValid)
}
