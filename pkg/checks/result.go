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

// Package checks implements the three policy checks (title, work-item
// reference, size) that the reconciler runs against a pull request.
package checks

// BypassRuleType names which policy a bypass was granted against.
type BypassRuleType int

const (
	TitleConvention BypassRuleType = iota
	WorkItemReference
	Size
)

func (t BypassRuleType) String() string {
	switch t {
	case TitleConvention:
		return "Title Convention"
	case WorkItemReference:
		return "Work Item Reference"
	case Size:
		return "Size"
	default:
		return "Unknown"
	}
}

// BypassInfo records who bypassed which rule, for audit purposes.
type BypassInfo struct {
	RuleType BypassRuleType
	User     string
}

// Result is a tri-valued check outcome: Valid, Invalid, or Bypassed (which
// is observationally Valid for gating but is never collapsed to Valid
// before audit emission). Implementations that lack sum types, like this
// one, use the struct form the spec documents: IsValid/BypassUsed/BypassInfo
// with the invariant BypassUsed implies IsValid.
type Result struct {
	IsValid    bool
	BypassUsed bool
	BypassInfo *BypassInfo
}

// Valid returns a successful, non-bypassed result.
func Valid() Result {
	return Result{IsValid: true}
}

// Invalid returns a failed, non-bypassed result.
func Invalid() Result {
	return Result{IsValid: false}
}

// Bypassed returns a successful result carrying bypass audit info.
func Bypassed(info BypassInfo) Result {
	return Result{IsValid: true, BypassUsed: true, BypassInfo: &info}
}

// WasBypassed reports whether the result is successful because of a bypass
// rather than a genuine pass.
func (r Result) WasBypassed() bool {
	return r.BypassUsed
}
