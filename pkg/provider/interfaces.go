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

package provider

import "context"

// PullRequestProvider is the single capability bundle the core depends on to
// observe and mutate a pull request on a hosted Git forge. Implementations
// must be safe for concurrent use.
//
// No method on this interface may cause an APPROVE review to be submitted;
// implementations must reject such a call with ErrApprovalProhibited.
type PullRequestProvider interface {
	GetPullRequest(ctx context.Context, owner, repo string, number int) (PullRequestSnapshot, error)
	GetPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]FileChange, error)

	ListAvailableLabels(ctx context.Context, owner, repo string) ([]Label, error)
	ListAppliedLabels(ctx context.Context, owner, repo string, number int) ([]Label, error)
	AddLabels(ctx context.Context, owner, repo string, number int, names []string) error
	RemoveLabel(ctx context.Context, owner, repo string, number int, name string) error

	AddComment(ctx context.Context, owner, repo string, number int, body string) error
	DeleteComment(ctx context.Context, owner, repo string, commentID int64) error
	ListComments(ctx context.Context, owner, repo string, number int) ([]Comment, error)

	// UpdatePullRequestBlockingReview upserts the gating review. isApproved
	// true means "dismiss/resolve any outstanding CHANGES_REQUESTED review
	// from the warden"; it must never translate to an APPROVE event.
	UpdatePullRequestBlockingReview(ctx context.Context, owner, repo string, number int, message string, isApproved bool) error
}

// ConfigFetcher retrieves the raw repository-provided configuration file. A
// missing file is reported via ErrConfigNotFound, not a zero-length string.
type ConfigFetcher interface {
	FetchConfig(ctx context.Context, owner, repo, path string) (string, error)
}
