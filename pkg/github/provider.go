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

// Package github wraps go-github for ease of use and testing, matching the
// narrow-capability-behind-a-local-interface idiom the rest of the
// reconciler depends on (pkg/provider.PullRequestProvider). The wrapping
// keeps the reconciler's data model independent of go-github's own types so
// a future forge adapter (e.g. Azure DevOps) can satisfy the same contract.
package github

import (
	"context"
	"fmt"

	gogithub "github.com/google/go-github/github"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/pvandervelde/merge-warden-sub000/pkg/provider"
)

// Client is a PullRequestProvider backed by the real GitHub REST API. A
// dry-run Client logs the mutations it would have made instead of issuing
// them, matching the teacher's own ciongke GitHub wrapper.
type Client struct {
	cl     *gogithub.Client
	dryRun bool
	log    logrus.FieldLogger
}

// NewClient builds a Client authenticated with a static token (a GitHub
// App installation token or PAT); token refresh is the caller's
// responsibility.
func NewClient(ctx context.Context, token string, log logrus.FieldLogger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(ctx, ts)
	return &Client{cl: gogithub.NewClient(httpClient), log: log}
}

// NewDryRunClient builds a Client that never mutates GitHub; label,
// comment, and review calls are logged instead of sent.
func NewDryRunClient(ctx context.Context, token string, log logrus.FieldLogger) *Client {
	c := NewClient(ctx, token, log)
	c.dryRun = true
	return c
}

func (c *Client) logRateLimit(resp *gogithub.Response) {
	if resp == nil {
		return
	}
	c.log.WithFields(logrus.Fields{
		"remaining": resp.Rate.Remaining,
		"limit":     resp.Rate.Limit,
		"reset":     resp.Rate.Reset,
	}).Debug("github rate limit status")
}

var _ provider.PullRequestProvider = (*Client)(nil)

// GetPullRequest fetches one pull request and maps it onto the core's
// PullRequestSnapshot.
func (c *Client) GetPullRequest(ctx context.Context, owner, repo string, number int) (provider.PullRequestSnapshot, error) {
	pr, resp, err := c.cl.PullRequests.Get(ctx, owner, repo, number)
	c.logRateLimit(resp)
	if err != nil {
		return provider.PullRequestSnapshot{}, fmt.Errorf("%w: get pull request %s/%s#%d: %v", provider.ErrAPI, owner, repo, number, err)
	}

	snapshot := provider.PullRequestSnapshot{
		Number: pr.GetNumber(),
		Title:  pr.GetTitle(),
		Draft:  pr.GetDraft(),
	}
	if body := pr.GetBody(); body != "" {
		snapshot.Body = body
		snapshot.HasBody = true
	}
	if pr.User != nil {
		snapshot.Author = &provider.User{ID: pr.User.GetID(), Login: pr.User.GetLogin()}
	}
	return snapshot, nil
}

// GetPullRequestFiles returns every file changed by the pull request,
// paginating through go-github's result pages.
func (c *Client) GetPullRequestFiles(ctx context.Context, owner, repo string, number int) ([]provider.FileChange, error) {
	var all []provider.FileChange
	opts := &gogithub.ListOptions{PerPage: 100}
	for {
		files, resp, err := c.cl.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		c.logRateLimit(resp)
		if err != nil {
			return nil, fmt.Errorf("%w: list pull request files %s/%s#%d: %v", provider.ErrAPI, owner, repo, number, err)
		}
		for _, f := range files {
			all = append(all, provider.FileChange{
				Filename:  f.GetFilename(),
				Additions: f.GetAdditions(),
				Deletions: f.GetDeletions(),
				Changes:   f.GetChanges(),
				Status:    provider.FileStatus(f.GetStatus()),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// ListAvailableLabels returns every label defined on the repository.
func (c *Client) ListAvailableLabels(ctx context.Context, owner, repo string) ([]provider.Label, error) {
	var all []provider.Label
	opts := &gogithub.ListOptions{PerPage: 100}
	for {
		ghLabels, resp, err := c.cl.Issues.ListLabels(ctx, owner, repo, opts)
		c.logRateLimit(resp)
		if err != nil {
			return nil, fmt.Errorf("%w: list repository labels %s/%s: %v", provider.ErrAPI, owner, repo, err)
		}
		for _, l := range ghLabels {
			all = append(all, provider.Label{Name: l.GetName(), Description: l.GetDescription()})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// ListAppliedLabels returns the labels currently on the pull request
// (pull requests are issues, from GitHub's labeling API's point of view).
func (c *Client) ListAppliedLabels(ctx context.Context, owner, repo string, number int) ([]provider.Label, error) {
	ghLabels, resp, err := c.cl.Issues.ListLabelsByIssue(ctx, owner, repo, number, nil)
	c.logRateLimit(resp)
	if err != nil {
		return nil, fmt.Errorf("%w: list applied labels %s/%s#%d: %v", provider.ErrAPI, owner, repo, number, err)
	}
	var out []provider.Label
	for _, l := range ghLabels {
		out = append(out, provider.Label{Name: l.GetName(), Description: l.GetDescription()})
	}
	return out, nil
}

// AddLabels applies names to the pull request, creating them on GitHub's
// side if they don't already exist there.
func (c *Client) AddLabels(ctx context.Context, owner, repo string, number int, names []string) error {
	if c.dryRun {
		c.log.WithFields(logrus.Fields{"owner": owner, "repo": repo, "pr_number": number, "labels": names}).Info("dry-run: would add labels")
		return nil
	}
	_, resp, err := c.cl.Issues.AddLabelsToIssue(ctx, owner, repo, number, names)
	c.logRateLimit(resp)
	if err != nil {
		return fmt.Errorf("%w: add labels %s/%s#%d: %v", provider.ErrAPI, owner, repo, number, err)
	}
	return nil
}

// RemoveLabel removes one label from the pull request; removing an absent
// label is treated as success.
func (c *Client) RemoveLabel(ctx context.Context, owner, repo string, number int, name string) error {
	if c.dryRun {
		c.log.WithFields(logrus.Fields{"owner": owner, "repo": repo, "pr_number": number, "label": name}).Info("dry-run: would remove label")
		return nil
	}
	resp, err := c.cl.Issues.RemoveLabelForIssue(ctx, owner, repo, number, name)
	c.logRateLimit(resp)
	if err != nil && (resp == nil || resp.StatusCode != 404) {
		return fmt.Errorf("%w: remove label %s %s/%s#%d: %v", provider.ErrAPI, name, owner, repo, number, err)
	}
	return nil
}

// AddComment posts a new issue comment on the pull request.
func (c *Client) AddComment(ctx context.Context, owner, repo string, number int, body string) error {
	if c.dryRun {
		c.log.WithFields(logrus.Fields{"owner": owner, "repo": repo, "pr_number": number}).Info("dry-run: would add comment")
		return nil
	}
	_, resp, err := c.cl.Issues.CreateComment(ctx, owner, repo, number, &gogithub.IssueComment{Body: &body})
	c.logRateLimit(resp)
	if err != nil {
		return fmt.Errorf("%w: add comment %s/%s#%d: %v", provider.ErrAPI, owner, repo, number, err)
	}
	return nil
}

// DeleteComment deletes one issue comment by ID.
func (c *Client) DeleteComment(ctx context.Context, owner, repo string, commentID int64) error {
	if c.dryRun {
		c.log.WithFields(logrus.Fields{"owner": owner, "repo": repo, "comment_id": commentID}).Info("dry-run: would delete comment")
		return nil
	}
	resp, err := c.cl.Issues.DeleteComment(ctx, owner, repo, commentID)
	c.logRateLimit(resp)
	if err != nil {
		return fmt.Errorf("%w: delete comment %d on %s/%s: %v", provider.ErrAPI, commentID, owner, repo, err)
	}
	return nil
}

// ListComments returns every issue comment on the pull request.
func (c *Client) ListComments(ctx context.Context, owner, repo string, number int) ([]provider.Comment, error) {
	var all []provider.Comment
	opts := &gogithub.IssueListCommentsOptions{ListOptions: gogithub.ListOptions{PerPage: 100}}
	for {
		ghComments, resp, err := c.cl.Issues.ListComments(ctx, owner, repo, number, opts)
		c.logRateLimit(resp)
		if err != nil {
			return nil, fmt.Errorf("%w: list comments %s/%s#%d: %v", provider.ErrAPI, owner, repo, number, err)
		}
		for _, cm := range ghComments {
			all = append(all, provider.Comment{ID: cm.GetID(), Body: cm.GetBody()})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// FetchConfig returns the contents of path in the repository, or
// provider.ErrConfigNotFound when no such file exists.
func (c *Client) FetchConfig(ctx context.Context, owner, repo, path string) (string, error) {
	file, _, resp, err := c.cl.Repositories.GetContents(ctx, owner, repo, path, nil)
	c.logRateLimit(resp)
	if (err != nil && resp != nil && resp.StatusCode == 404) || (err == nil && file == nil) {
		return "", provider.ErrConfigNotFound
	}
	if err != nil {
		return "", fmt.Errorf("%w: get config %s/%s:%s: %v", provider.ErrAPI, owner, repo, path, err)
	}
	return file.GetContent()
}

// UpdatePullRequestBlockingReview upserts the gating review. It refuses to
// ever submit an APPROVE event; isApproved=true instead dismisses every
// CHANGES_REQUESTED review on the pull request, if any. Reviews are not
// filtered by author, so one left by a human reviewer is dismissed as well.
func (c *Client) UpdatePullRequestBlockingReview(ctx context.Context, owner, repo string, number int, message string, isApproved bool) error {
	if isApproved {
		return c.dismissBlockingReview(ctx, owner, repo, number)
	}
	return c.upsertChangesRequestedReview(ctx, owner, repo, number, message)
}

// upsertChangesRequestedReview ensures exactly one open CHANGES_REQUESTED
// review exists with the given body. It dismisses every review currently in
// that state, whoever left it, before creating the replacement, so
// re-running the reconciler on a PR that still fails never accumulates a
// second, third, ... blocking review.
func (c *Client) upsertChangesRequestedReview(ctx context.Context, owner, repo string, number int, message string) error {
	if err := c.dismissReviewsInState(ctx, owner, repo, number, "CHANGES_REQUESTED"); err != nil {
		return err
	}

	if c.dryRun {
		c.log.WithFields(logrus.Fields{"owner": owner, "repo": repo, "pr_number": number}).Info("dry-run: would request changes")
		return nil
	}
	event := "REQUEST_CHANGES"
	_, resp, err := c.cl.PullRequests.CreateReview(ctx, owner, repo, number, &gogithub.PullRequestReviewRequest{
		Body:  &message,
		Event: &event,
	})
	c.logRateLimit(resp)
	if err != nil {
		return fmt.Errorf("%w: request changes %s/%s#%d: %v", provider.ErrAPI, owner, repo, number, err)
	}
	return nil
}

func (c *Client) dismissBlockingReview(ctx context.Context, owner, repo string, number int) error {
	return c.dismissReviewsInState(ctx, owner, repo, number, "CHANGES_REQUESTED")
}

// dismissReviewsInState lists the pull request's reviews and dismisses
// every one currently in state, mirroring the
// list-then-dismiss-by-state idiom the review upsert/dismiss operations
// share.
func (c *Client) dismissReviewsInState(ctx context.Context, owner, repo string, number int, state string) error {
	reviews, resp, err := c.cl.PullRequests.ListReviews(ctx, owner, repo, number, nil)
	c.logRateLimit(resp)
	if err != nil {
		return fmt.Errorf("%w: list reviews %s/%s#%d: %v", provider.ErrAPI, owner, repo, number, err)
	}
	for _, r := range reviews {
		if r.GetState() != state {
			continue
		}
		if c.dryRun {
			c.log.WithFields(logrus.Fields{"owner": owner, "repo": repo, "pr_number": number, "review_id": r.GetID()}).Info("dry-run: would dismiss review")
			continue
		}
		dismissal := "resolved by merge-warden"
		_, dismissResp, err := c.cl.PullRequests.DismissReview(ctx, owner, repo, number, r.GetID(), &gogithub.PullRequestReviewDismissalRequest{Message: &dismissal})
		c.logRateLimit(dismissResp)
		if err != nil {
			return fmt.Errorf("%w: dismiss review %d %s/%s#%d: %v", provider.ErrAPI, r.GetID(), owner, repo, number, err)
		}
	}
	return nil
}
