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

import (
	"errors"
	"fmt"
)

// Sentinel errors a PullRequestProvider implementation may return. Callers
// use errors.Is against these, never string matching.
var (
	ErrAuth               = errors.New("provider: authentication failed")
	ErrRateLimit          = errors.New("provider: rate limited")
	ErrInvalidResponse    = errors.New("provider: invalid response from forge")
	ErrReviewConflict     = errors.New("provider: conflicting review state")
	ErrApprovalProhibited = errors.New("provider: an APPROVE review was requested, which the core never issues")
	ErrAPI                = errors.New("provider: forge API error")

	// ErrConfigNotFound is returned by a ConfigFetcher when the repository
	// config path does not exist; it is not a failure, it is a signal to
	// fall back to application defaults.
	ErrConfigNotFound = errors.New("provider: repository config file not found")
)

// FailedToUpdatePullRequestError wraps a forge-side failure to apply a
// label, comment, or review, carrying the operation that failed.
type FailedToUpdatePullRequestError struct {
	Detail string
	Cause  error
}

func (e *FailedToUpdatePullRequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to update pull request: %s: %v", e.Detail, e.Cause)
	}
	return fmt.Sprintf("failed to update pull request: %s", e.Detail)
}

func (e *FailedToUpdatePullRequestError) Unwrap() error {
	return e.Cause
}

// NewFailedToUpdatePullRequestError builds a FailedToUpdatePullRequestError
// wrapping cause with a human-readable detail of what operation failed.
func NewFailedToUpdatePullRequestError(detail string, cause error) *FailedToUpdatePullRequestError {
	return &FailedToUpdatePullRequestError{Detail: detail, Cause: cause}
}
