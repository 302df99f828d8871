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
	"fmt"
	"strings"
)

// relevantActions is the set of pull_request webhook actions the
// reconciler evaluates; every other action terminates with success and no
// side effects.
var relevantActions = map[string]bool{
	"opened":           true,
	"edited":           true,
	"ready_for_review": true,
	"reopened":         true,
	"unlocked":         true,
}

// IsRelevantAction reports whether action should be evaluated at all.
func IsRelevantAction(action string) bool {
	return relevantActions[action]
}

// Event is the subset of the pull_request webhook payload the reconciler
// needs. The HTTP front door is responsible for signature verification,
// JSON decoding, and routing; Event is what it hands to the core.
type Event struct {
	Action         string
	InstallationID int64
	RepositoryFullName string
	PullRequestNumber int
	Draft          bool
}

// Identity is the parsed (owner, repo) pair derived from a repository's
// full_name field.
type Identity struct {
	Owner string
	Repo  string
}

// ParseIdentity splits fullName on exactly one '/' into a non-empty owner
// and a non-empty repo. Any other shape is rejected so a malformed or
// stripped payload can never be misrouted to the wrong repository.
func ParseIdentity(fullName string) (Identity, error) {
	parts := strings.Split(fullName, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Identity{}, fmt.Errorf("repository full_name %q does not split into exactly two non-empty parts", fullName)
	}
	return Identity{Owner: parts[0], Repo: parts[1]}, nil
}
