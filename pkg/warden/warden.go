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
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pvandervelde/merge-warden-sub000/pkg/bypass"
	"github.com/pvandervelde/merge-warden-sub000/pkg/checks"
	"github.com/pvandervelde/merge-warden-sub000/pkg/config"
	"github.com/pvandervelde/merge-warden-sub000/pkg/labels"
	"github.com/pvandervelde/merge-warden-sub000/pkg/metrics"
	"github.com/pvandervelde/merge-warden-sub000/pkg/provider"
)

// Result is the outcome of processing one pull request: the per-check
// verdicts plus every label the labeling pass applied.
type Result struct {
	TitleValid         bool
	WorkItemReferenced bool
	SizeValid          bool
	Labels             []string
}

// Ok reports the composite gating verdict: every check must be Valid or
// Bypassed for the PR to be mergeable.
func (r Result) Ok() bool {
	return r.TitleValid && r.WorkItemReferenced && r.SizeValid
}

// Warden is the top-level reconciler: it drives the policy checks against
// one pull request and reconciles the forge's labels, comments, and
// blocking review to match the outcome. It holds no mutable state beyond
// its provider and config fetcher, so a single Warden is safe to share
// across goroutines handling distinct deliveries.
type Warden struct {
	provider     provider.PullRequestProvider
	fetcher      config.Fetcher
	appDefaults  config.EffectiveConfig
	bypassRules  bypass.Rules
	configPath   string
	detector     *labels.Detector
	labelManager *labels.Manager
	log          logrus.FieldLogger
}

// Option configures a Warden at construction time.
type Option func(*Warden)

// WithConfigPath overrides the default repository config path.
func WithConfigPath(path string) Option {
	return func(w *Warden) { w.configPath = path }
}

// WithBypassRules supplies the bypass rules the caller (not the repository)
// grants for this installation.
func WithBypassRules(rules bypass.Rules) Option {
	return func(w *Warden) { w.bypassRules = rules }
}

// WithApplicationDefaults overrides config.ApplicationDefaults().
func WithApplicationDefaults(defaults config.EffectiveConfig) Option {
	return func(w *Warden) { w.appDefaults = defaults }
}

// WithLogger overrides the default logrus.StandardLogger().
func WithLogger(log logrus.FieldLogger) Option {
	return func(w *Warden) { w.log = log }
}

// New builds a Warden around a PullRequestProvider and a ConfigFetcher,
// applying any Options.
func New(p provider.PullRequestProvider, fetcher config.Fetcher, opts ...Option) *Warden {
	w := &Warden{
		provider:    p,
		fetcher:     fetcher,
		appDefaults: config.ApplicationDefaults(),
		configPath:  config.DefaultConfigPath,
		detector:    labels.NewDetector(),
		log:         logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.labelManager = labels.NewManager(p, w.detector, w.log)
	return w
}

// ProcessPullRequest runs the full pipeline for one delivery: event/draft
// gates are expected to already have been applied by the caller (see
// ShouldProcess); this method always resolves config, runs checks, and
// reconciles forge state.
func (w *Warden) ProcessPullRequest(ctx context.Context, owner, repo string, number int) (Result, error) {
	log := w.log.WithFields(logrus.Fields{"owner": owner, "repo": repo, "pr_number": number})

	pr, err := w.provider.GetPullRequest(ctx, owner, repo, number)
	if err != nil {
		return Result{}, &GitProviderError{Detail: "failed to fetch pull request", Cause: err}
	}

	effective, err := config.Resolve(ctx, w.fetcher, owner, repo, w.configPath, w.appDefaults, w.bypassRules, log)
	if err != nil {
		return Result{}, &ConfigError{Detail: "failed to resolve effective configuration", Cause: err}
	}

	titleResult := checks.Valid()
	if effective.Title.Enforce {
		start := time.Now()
		titleResult = checks.CheckTitle(pr, effective.BypassRules.TitleConvention, effective.Title)
		metrics.RecordCheckDuration("title", time.Since(start))
		if titleResult.WasBypassed() {
			metrics.RecordBypass("title")
		}
	}

	workItemResult := checks.Valid()
	if effective.WorkItem.Enforce {
		start := time.Now()
		workItemResult = checks.CheckWorkItemReference(pr, effective.BypassRules.WorkItemRefs, effective.WorkItem)
		metrics.RecordCheckDuration("work_item", time.Since(start))
		if workItemResult.WasBypassed() {
			metrics.RecordBypass("work_item")
		}
	}

	sizeResult := checks.Valid()
	var files []provider.FileChange
	if effective.Size.Enabled {
		files, err = w.provider.GetPullRequestFiles(ctx, owner, repo, number)
		if err != nil {
			return Result{}, &GitProviderError{Detail: "failed to fetch pull request files", Cause: err}
		}
		start := time.Now()
		sizeResult, _ = checks.CheckSize(files, effective.Size)
		metrics.RecordCheckDuration("size", time.Since(start))
	}

	if err := w.reconcileTitle(ctx, owner, repo, pr, effective, titleResult); err != nil {
		return Result{}, err
	}
	if err := w.reconcileWorkItem(ctx, owner, repo, pr, effective, workItemResult); err != nil {
		return Result{}, err
	}

	appliedLabels := w.reconcileLabels(ctx, owner, repo, pr, effective, files)

	result := Result{
		TitleValid:         titleResult.IsValid,
		WorkItemReferenced: workItemResult.IsValid,
		SizeValid:          sizeResult.IsValid,
		Labels:             appliedLabels,
	}

	if err := w.reconcileReview(ctx, owner, repo, number, result); err != nil {
		metrics.RecordEvaluation(metrics.OutcomeError)
		return Result{}, err
	}

	if result.Ok() {
		metrics.RecordEvaluation(metrics.OutcomeApproved)
	} else {
		metrics.RecordEvaluation(metrics.OutcomeChangesNeeded)
	}

	return result, nil
}

// ShouldProcess applies the event filter and draft gate (spec §4.7's first
// two gates). The identity gate is applied separately via ParseIdentity,
// since it can fail with an error the caller must reject the delivery for.
func ShouldProcess(event Event) bool {
	if !IsRelevantAction(event.Action) {
		return false
	}
	if event.Draft {
		return false
	}
	return true
}

func (w *Warden) reconcileTitle(ctx context.Context, owner, repo string, pr provider.PullRequestSnapshot, cfg config.EffectiveConfig, result checks.Result) error {
	if !cfg.Title.Enforce {
		return nil
	}
	label := cfg.Title.LabelOnFail
	if label == "" {
		label = config.TitleInvalidLabel
	}
	return w.reconcileCheckSideEffects(ctx, owner, repo, pr.Number, result.IsValid, label, config.TitleCommentMarker, titleInvalidCommentBody())
}

func (w *Warden) reconcileWorkItem(ctx context.Context, owner, repo string, pr provider.PullRequestSnapshot, cfg config.EffectiveConfig, result checks.Result) error {
	if !cfg.WorkItem.Enforce {
		return nil
	}
	label := cfg.WorkItem.LabelOnFail
	if label == "" {
		label = config.MissingWorkItemLabel
	}
	return w.reconcileCheckSideEffects(ctx, owner, repo, pr.Number, result.IsValid, label, config.WorkItemCommentMarker, workItemMissingCommentBody())
}

// reconcileCheckSideEffects implements the shared shape of the title and
// work-item reconcile steps: add label+comment when invalid and not
// already present; remove label and delete the sentinel comment when valid
// and present. Adding the label or comment and deleting the comment are
// fatal (bubbled), per spec §4.7/§7; removing the resolved label is logged
// and non-fatal, as are the label *manager*'s forge calls (§4.6).
func (w *Warden) reconcileCheckSideEffects(ctx context.Context, owner, repo string, number int, isValid bool, label, marker, commentBody string) error {
	applied, err := w.provider.ListAppliedLabels(ctx, owner, repo, number)
	if err != nil {
		return &GitProviderError{Detail: "failed to list applied labels", Cause: err}
	}
	hasLabel := false
	for _, l := range applied {
		if l.Name == label {
			hasLabel = true
			break
		}
	}

	if !isValid {
		if hasLabel {
			return nil
		}
		if err := w.provider.AddLabels(ctx, owner, repo, number, []string{label}); err != nil {
			return provider.NewFailedToUpdatePullRequestError("failed to add label", err)
		}
		if err := w.provider.AddComment(ctx, owner, repo, number, commentBody); err != nil {
			return provider.NewFailedToUpdatePullRequestError("failed to add comment", err)
		}
		return nil
	}

	if !hasLabel {
		return nil
	}
	// Label removal failures are logged, not fatal: spec.md does not
	// require removal to succeed for gating to remain correct, and a
	// transient removal failure shouldn't cause the forge to retry
	// delivery of an otherwise-successful evaluation.
	if err := w.provider.RemoveLabel(ctx, owner, repo, number, label); err != nil {
		w.log.WithFields(logrus.Fields{"owner": owner, "repo": repo, "pr_number": number, "label": label, "error": err}).Warn("failed to remove resolved label")
	}

	comments, err := w.provider.ListComments(ctx, owner, repo, number)
	if err != nil {
		return &GitProviderError{Detail: "failed to list comments", Cause: err}
	}
	for _, c := range comments {
		if strings.Contains(c.Body, marker) {
			if err := w.provider.DeleteComment(ctx, owner, repo, c.ID); err != nil {
				return provider.NewFailedToUpdatePullRequestError("failed to delete comment", err)
			}
			break
		}
	}
	return nil
}

func (w *Warden) reconcileLabels(ctx context.Context, owner, repo string, pr provider.PullRequestSnapshot, cfg config.EffectiveConfig, files []provider.FileChange) []string {
	var applied []string

	if changeType, ok := conventionalCommitType(pr.Title); ok {
		if name := w.labelManager.ApplyChangeTypeLabel(ctx, owner, repo, pr.Number, changeType, cfg.ChangeTypeLabels); name != "" {
			applied = append(applied, name)
		}
	}

	applied = append(applied, w.labelManager.ApplyKeywordLabels(ctx, owner, repo, pr.Number, pr.Title, pr.Body)...)

	if cfg.Size.Enabled {
		_, info := checks.CheckSize(files, cfg.Size)
		if name := w.labelManager.ManageSizeLabels(ctx, owner, repo, pr.Number, info.Category, cfg.Size); name != "" {
			applied = append(applied, name)
		}
	}

	return applied
}

func (w *Warden) reconcileReview(ctx context.Context, owner, repo string, number int, result Result) error {
	message := reviewMessage(result.TitleValid, result.WorkItemReferenced)
	if !result.SizeValid {
		if message != "" {
			message += "\n\n"
		}
		message += "Size: the pull request exceeds the configured size limit. Please split it into smaller pull requests."
	}
	err := w.provider.UpdatePullRequestBlockingReview(ctx, owner, repo, number, message, result.Ok())
	if err != nil {
		if errors.Is(err, provider.ErrApprovalProhibited) {
			// The core never asks for an APPROVE event; if this fires the
			// adapter and the core have disagreed about is_approved's
			// meaning, which is a programming error, not a transient one.
			return &GitProviderError{Detail: "provider rejected review upsert as an approval", Cause: err}
		}
		return provider.NewFailedToUpdatePullRequestError("failed to upsert blocking review", err)
	}
	return nil
}
