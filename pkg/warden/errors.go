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

// Package warden implements the reconciler: the top-level orchestrator
// that drives the policy checks against one pull request and reconciles
// the forge's view of it (labels, comments, blocking review).
package warden

import "fmt"

// ConfigError wraps a failure to resolve the effective configuration for a
// pull request (invalid TOML, unsupported schema, unparseable numbers).
type ConfigError struct {
	Detail string
	Cause  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %v", e.Detail, e.Cause)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// GitProviderError wraps a failure surfacing from the forge capability that
// isn't otherwise classified.
type GitProviderError struct {
	Detail string
	Cause  error
}

func (e *GitProviderError) Error() string {
	return fmt.Sprintf("git provider error: %s: %v", e.Detail, e.Cause)
}

func (e *GitProviderError) Unwrap() error { return e.Cause }
