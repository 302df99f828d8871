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

package bypass

import (
	"testing"

	"github.com/pvandervelde/merge-warden-sub000/pkg/provider"
	"github.com/stretchr/testify/assert"
)

func TestCanBypass(t *testing.T) {
	releaseBot := &provider.User{Login: "release-bot"}

	cases := []struct {
		name string
		user *provider.User
		rule Rule
		want bool
	}{
		{"disabled rule never bypasses", releaseBot, Rule{Enabled: false, Users: []string{"release-bot"}}, false},
		{"nil user never bypasses", nil, Rule{Enabled: true, Users: []string{"release-bot"}}, false},
		{"user in list bypasses", releaseBot, Rule{Enabled: true, Users: []string{"release-bot"}}, true},
		{"user not in list does not bypass", releaseBot, Rule{Enabled: true, Users: []string{"someone-else"}}, false},
		{"case sensitive login match", &provider.User{Login: "Release-Bot"}, Rule{Enabled: true, Users: []string{"release-bot"}}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CanBypass(tc.user, tc.rule))
		})
	}
}

func TestCanBypassValidations(t *testing.T) {
	pr := provider.PullRequestSnapshot{
		Author: &provider.User{Login: "security-team"},
	}
	rules := Rules{
		TitleConvention: Rule{Enabled: true, Users: []string{"security-team"}},
		WorkItemRefs:    Rule{Enabled: true, Users: []string{"security-team"}},
	}

	title, workItem := CanBypassValidations(pr, rules)
	assert.True(t, title)
	assert.True(t, workItem)
}
