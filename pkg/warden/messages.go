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

package warden

import (
	"regexp"
	"strings"

	"github.com/pvandervelde/merge-warden-sub000/pkg/config"
)

const titleInvalidComment = `## Invalid PR Title Format

Your PR title doesn't follow the [Conventional Commits](https://www.conventionalcommits.org/) format.

Please update your title to follow this format:

` + "`<type>(<scope>): <description>`" + `

Valid types: build, chore, ci, docs, feat, fix, perf, refactor, revert, style, test

Examples:
- ` + "`feat(auth): add login with GitHub`" + `
- ` + "`fix: correct typo in readme`" + `
- ` + "`docs: update API documentation`" + `
- ` + "`refactor(api): simplify error handling`"

const workItemMissingComment = `## Missing Work Item Reference

Your PR description doesn't reference a work item or GitHub issue. Please update it to include a reference using one of the following formats:

- ` + "`Fixes #123`" + `
- ` + "`Closes #123`" + `
- ` + "`Resolves #123`" + `
- ` + "`References #123`" + `
- ` + "`Relates to #123`" + `

You can also use the full URL to the issue.`

// titleInvalidCommentBody prefixes the educational title comment with its
// sentinel marker so a later evaluation can find and delete it.
func titleInvalidCommentBody() string {
	return config.TitleCommentMarker + "\n" + titleInvalidComment
}

// workItemMissingCommentBody prefixes the educational work-item comment
// with its sentinel marker.
func workItemMissingCommentBody() string {
	return config.WorkItemCommentMarker + "\n" + workItemMissingComment
}

// reviewMessage composes the blocking-review body from the title and
// work-item verdicts. An empty string means both checks passed; the caller
// appends the size verdict, so an empty body only reaches the forge when
// there are no outstanding issues (is_approved=true).
func reviewMessage(titleOK, workItemOK bool) string {
	switch {
	case !titleOK && !workItemOK:
		return strings.TrimSpace(`
The pull request needs some improvements:

1. Title Convention: Your PR title does not follow the conventional commit message format.
   - Supported types: feat, fix, docs, style, refactor, perf, test, build, ci, chore, revert
   - Expected format: <type>(<optional scope>): <description>
   - Examples:
     * feat(auth): add login functionality
     * fix: resolve null pointer exception
   - For full details, see: https://www.conventionalcommits.org/

2. Work Item Tracking: The PR body is missing a valid work item reference.
   - Supported formats:
     * Prefixes: fixes, closes, resolves, references, relates to
     * Work Item Identifiers: #XXX or GH-XXX
   - Examples:
     * fixes #1234
     * closes GH-5678

Please update both the title and body to meet these requirements.`)
	case !titleOK:
		return strings.TrimSpace(`
The pull request title needs correction:

1. Title Convention: Your PR title does not follow the conventional commit message format.
   - Supported types: feat, fix, docs, style, refactor, perf, test, build, ci, chore, revert
   - Expected format: <type>(<optional scope>): <description>

Please update the PR title to match the conventional commit message guidelines.`)
	case !workItemOK:
		return strings.TrimSpace(`
The pull request body needs improvement:

1. Work Item Tracking: The PR body is missing a valid work item reference.
   - Supported formats:
     * Prefixes: fixes, closes, resolves, references, relates to
     * Work Item Identifiers: #XXX or GH-XXX

Please update the PR body to include a valid work item reference.`)
	default:
		return ""
	}
}

// conventionalCommitTypePattern captures the leading <type> of a
// Conventional Commits title, e.g. "feat" out of "feat(auth): add login".
// The alternation is the same fixed type list config.DefaultTitlePattern
// enforces, so a title with a non-canonical prefix (which the title check
// would already reject) never yields a bogus change type here.
var conventionalCommitTypePattern = regexp.MustCompile(`^(` + config.ConventionalCommitTypes + `)(\([a-z0-9_-]+\))?!?:`)

// conventionalCommitType extracts the commit type prefix from title, if
// any. It returns ok=false for a title that isn't Conventional-Commits
// shaped, e.g. because the title check itself failed.
func conventionalCommitType(title string) (string, bool) {
	match := conventionalCommitTypePattern.FindStringSubmatch(title)
	if match == nil {
		return "", false
	}
	return match[1], true
}
