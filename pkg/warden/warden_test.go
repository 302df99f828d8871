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
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvandervelde/merge-warden-sub000/pkg/bypass"
	"github.com/pvandervelde/merge-warden-sub000/pkg/config"
	"github.com/pvandervelde/merge-warden-sub000/pkg/provider"
)

// fakeProvider is an in-memory PullRequestProvider double, grounded in the
// fake-client idiom used throughout the retrieval pack's plugin tests.
type fakeProvider struct {
	pr             provider.PullRequestSnapshot
	files          []provider.FileChange
	available      []provider.Label
	applied        []provider.Label
	comments       []provider.Comment
	nextCommentID  int64
	lastReviewMsg  string
	lastReviewOK   *bool
	reviewCalls    int
}

func (f *fakeProvider) GetPullRequest(ctx context.Context, owner, repo string, number int) (provider.PullRequestSnapshot, error) {
	return f.pr, nil
}
func (f *fakeProvider) GetPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]provider.FileChange, error) {
	return f.files, nil
}
func (f *fakeProvider) ListAvailableLabels(ctx context.Context, owner, repo string) ([]provider.Label, error) {
	return f.available, nil
}
func (f *fakeProvider) ListAppliedLabels(ctx context.Context, owner, repo string, number int) ([]provider.Label, error) {
	return f.applied, nil
}
func (f *fakeProvider) AddLabels(ctx context.Context, owner, repo string, number int, names []string) error {
	for _, n := range names {
		found := false
		for _, l := range f.applied {
			if l.Name == n {
				found = true
			}
		}
		if !found {
			f.applied = append(f.applied, provider.Label{Name: n})
		}
	}
	return nil
}
func (f *fakeProvider) RemoveLabel(ctx context.Context, owner, repo string, number int, name string) error {
	kept := f.applied[:0]
	for _, l := range f.applied {
		if l.Name != name {
			kept = append(kept, l)
		}
	}
	f.applied = kept
	return nil
}
func (f *fakeProvider) AddComment(ctx context.Context, owner, repo string, number int, body string) error {
	f.nextCommentID++
	f.comments = append(f.comments, provider.Comment{ID: f.nextCommentID, Body: body})
	return nil
}
func (f *fakeProvider) DeleteComment(ctx context.Context, owner, repo string, commentID int64) error {
	kept := f.comments[:0]
	for _, c := range f.comments {
		if c.ID != commentID {
			kept = append(kept, c)
		}
	}
	f.comments = kept
	return nil
}
func (f *fakeProvider) ListComments(ctx context.Context, owner, repo string, number int) ([]provider.Comment, error) {
	return f.comments, nil
}
func (f *fakeProvider) UpdatePullRequestBlockingReview(ctx context.Context, owner, repo string, number int, message string, isApproved bool) error {
	f.reviewCalls++
	f.lastReviewMsg = message
	f.lastReviewOK = &isApproved
	return nil
}

type fakeFetcher struct{ err error }

func (f fakeFetcher) FetchConfig(ctx context.Context, owner, repo, path string) (string, error) {
	return "", f.err
}

func enforcingDefaults() config.EffectiveConfig {
	defaults := config.ApplicationDefaults()
	defaults.Title.Enforce = true
	defaults.WorkItem.Enforce = true
	return defaults
}

func TestShouldProcessEventFilter(t *testing.T) {
	assert.True(t, ShouldProcess(Event{Action: "opened"}))
	assert.False(t, ShouldProcess(Event{Action: "closed"}))
}

func TestShouldProcessDraftGate(t *testing.T) {
	assert.False(t, ShouldProcess(Event{Action: "opened", Draft: true}))
}

func TestParseIdentity(t *testing.T) {
	id, err := ParseIdentity("acme/widgets")
	require.NoError(t, err)
	assert.Equal(t, Identity{Owner: "acme", Repo: "widgets"}, id)

	_, err = ParseIdentity("not-a-valid-identity")
	assert.Error(t, err)

	_, err = ParseIdentity("too/many/parts")
	assert.Error(t, err)
}

// S1 — Happy path.
func TestProcessPullRequestHappyPath(t *testing.T) {
	fp := &fakeProvider{
		pr: provider.PullRequestSnapshot{
			Number: 1, Title: "feat(auth): add GitHub login",
			Body: "Fixes #42", HasBody: true, Author: &provider.User{Login: "alice"},
		},
	}
	w := New(fp, fakeFetcher{err: provider.ErrConfigNotFound}, WithApplicationDefaults(enforcingDefaults()))

	result, err := w.ProcessPullRequest(context.Background(), "acme", "widgets", 1)

	require.NoError(t, err)
	assert.True(t, result.Ok())
	assert.Contains(t, result.Labels, "type: feat", "no matching repo label exists, so the fallback label is created")
	for _, l := range fp.applied {
		assert.NotEqual(t, config.TitleInvalidLabel, l.Name)
		assert.NotEqual(t, config.MissingWorkItemLabel, l.Name)
	}
	require.NotNil(t, fp.lastReviewOK)
	assert.True(t, *fp.lastReviewOK)
}

// S2 — Bad title, good body.
func TestProcessPullRequestBadTitle(t *testing.T) {
	fp := &fakeProvider{
		pr: provider.PullRequestSnapshot{
			Number: 2, Title: "add feature", Body: "Closes #7", HasBody: true,
		},
	}
	w := New(fp, fakeFetcher{err: provider.ErrConfigNotFound}, WithApplicationDefaults(enforcingDefaults()))

	result, err := w.ProcessPullRequest(context.Background(), "acme", "widgets", 2)

	require.NoError(t, err)
	assert.False(t, result.TitleValid)
	assert.True(t, result.WorkItemReferenced)

	hasInvalidTitleLabel := false
	for _, l := range fp.applied {
		if l.Name == config.TitleInvalidLabel {
			hasInvalidTitleLabel = true
		}
	}
	assert.True(t, hasInvalidTitleLabel)

	sentinelCount := 0
	for _, c := range fp.comments {
		if strings.Contains(c.Body, config.TitleCommentMarker) {
			sentinelCount++
		}
	}
	assert.Equal(t, 1, sentinelCount)

	require.NotNil(t, fp.lastReviewOK)
	assert.False(t, *fp.lastReviewOK)
}

// S3 — Bypass.
func TestProcessPullRequestBypass(t *testing.T) {
	fp := &fakeProvider{
		pr: provider.PullRequestSnapshot{
			Number: 3, Title: "hotfix urgent", HasBody: false,
			Author: &provider.User{Login: "release-bot"},
		},
	}
	defaults := enforcingDefaults()
	w := New(fp, fakeFetcher{err: provider.ErrConfigNotFound},
		WithApplicationDefaults(defaults),
		WithBypassRules(bypass.Rules{TitleConvention: bypass.Rule{Enabled: true, Users: []string{"release-bot"}}}),
	)

	result, err := w.ProcessPullRequest(context.Background(), "acme", "widgets", 3)

	require.NoError(t, err)
	assert.True(t, result.TitleValid, "bypassed title check is observationally valid")
	assert.False(t, result.WorkItemReferenced)
	assert.False(t, result.Ok())
}

// S4 — Size XXL with fail_on_oversized.
func TestProcessPullRequestOversized(t *testing.T) {
	defaults := config.ApplicationDefaults()
	defaults.Size.Enabled = true
	defaults.Size.FailOnOversized = true

	fp := &fakeProvider{
		pr:    provider.PullRequestSnapshot{Number: 4, Title: "feat: big change"},
		files: []provider.FileChange{{Filename: "a.go", Changes: 801}},
	}
	w := New(fp, fakeFetcher{err: provider.ErrConfigNotFound}, WithApplicationDefaults(defaults))

	result, err := w.ProcessPullRequest(context.Background(), "acme", "widgets", 4)

	require.NoError(t, err)
	assert.False(t, result.SizeValid)
	assert.False(t, result.Ok())

	hasSizeXXL := false
	for _, name := range result.Labels {
		if name == "size/XXL" {
			hasSizeXXL = true
		}
	}
	assert.True(t, hasSizeXXL)
}

// S6 — Recovery: a second evaluation after the title is fixed removes the
// label and deletes the sentinel comment from S2.
func TestProcessPullRequestRecovery(t *testing.T) {
	fp := &fakeProvider{
		pr: provider.PullRequestSnapshot{
			Number: 2, Title: "add feature", Body: "Closes #7", HasBody: true,
		},
	}
	w := New(fp, fakeFetcher{err: provider.ErrConfigNotFound}, WithApplicationDefaults(enforcingDefaults()))

	_, err := w.ProcessPullRequest(context.Background(), "acme", "widgets", 2)
	require.NoError(t, err)

	fp.pr.Title = "feat: add"
	result, err := w.ProcessPullRequest(context.Background(), "acme", "widgets", 2)
	require.NoError(t, err)

	assert.True(t, result.Ok())
	for _, l := range fp.applied {
		assert.NotEqual(t, config.TitleInvalidLabel, l.Name)
	}
	for _, c := range fp.comments {
		assert.NotContains(t, c.Body, config.TitleCommentMarker)
	}
	require.NotNil(t, fp.lastReviewOK)
	assert.True(t, *fp.lastReviewOK)
}

func TestProcessPullRequestIdempotent(t *testing.T) {
	fp := &fakeProvider{
		pr: provider.PullRequestSnapshot{
			Number: 2, Title: "add feature", Body: "Closes #7", HasBody: true,
		},
	}
	w := New(fp, fakeFetcher{err: provider.ErrConfigNotFound}, WithApplicationDefaults(enforcingDefaults()))

	_, err := w.ProcessPullRequest(context.Background(), "acme", "widgets", 2)
	require.NoError(t, err)
	firstLabelCount := len(fp.applied)
	firstCommentCount := len(fp.comments)

	_, err = w.ProcessPullRequest(context.Background(), "acme", "widgets", 2)
	require.NoError(t, err)

	assert.Equal(t, firstLabelCount, len(fp.applied), "no duplicate labels on re-evaluation")
	assert.Equal(t, firstCommentCount, len(fp.comments), "no duplicate comments on re-evaluation")
}
