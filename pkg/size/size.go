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

// Package size classifies the total line impact of a pull request into a
// size category, honoring configurable thresholds and filename exclusions.
package size

import (
	"regexp"
	"strings"

	"github.com/pvandervelde/merge-warden-sub000/pkg/provider"
)

// Category is an ordered size bucket, XS the smallest and XXL the largest.
type Category int

const (
	XS Category = iota
	S
	M
	L
	XL
	XXL
)

func (c Category) String() string {
	switch c {
	case XS:
		return "XS"
	case S:
		return "S"
	case M:
		return "M"
	case L:
		return "L"
	case XL:
		return "XL"
	case XXL:
		return "XXL"
	default:
		return "XXL"
	}
}

// Thresholds are the inclusive upper bounds of every category except XXL,
// which is everything above XL.
type Thresholds struct {
	XS uint32
	S  uint32
	M  uint32
	L  uint32
	XL uint32
}

// DefaultThresholds matches the spec's documented defaults.
func DefaultThresholds() Thresholds {
	return Thresholds{XS: 10, S: 50, M: 100, L: 250, XL: 500}
}

// CategoryFromLineCount derives a Category from a raw line count using the
// given thresholds. It is a pure function: same inputs, same output.
func CategoryFromLineCount(lineCount uint32, t Thresholds) Category {
	switch {
	case lineCount <= t.XS:
		return XS
	case lineCount <= t.S:
		return S
	case lineCount <= t.M:
		return M
	case lineCount <= t.L:
		return L
	case lineCount <= t.XL:
		return XL
	default:
		return XXL
	}
}

// Info is the outcome of analyzing a pull request's file changes.
type Info struct {
	TotalLinesChanged uint32
	Included          []provider.FileChange
	Excluded          []provider.FileChange
	Category          Category
}

// IsOversized reports whether the PR landed in the largest bucket.
func (i Info) IsOversized() bool {
	return i.Category == XXL
}

// compileExclusion turns one exclusion glob (only `*` is a meta-character)
// into an anchored regexp. A pattern that fails to compile is treated as
// never matching, per the spec's fail-open-to-inclusion rule for malformed
// patterns.
func compileExclusion(pattern string) *regexp.Regexp {
	escaped := regexp.QuoteMeta(pattern)
	escaped = strings.ReplaceAll(escaped, `\*`, ".*")
	re, err := regexp.Compile("^" + escaped + "$")
	if err != nil {
		return nil
	}
	return re
}

func isExcluded(filename string, patterns []string) bool {
	for _, p := range patterns {
		re := compileExclusion(p)
		if re == nil {
			continue
		}
		if re.MatchString(filename) {
			return true
		}
	}
	return false
}

// FromFilesWithExclusions partitions files into included/excluded sets per
// excludedPatterns, sums the changes of the included files, and classifies
// the result using thresholds.
func FromFilesWithExclusions(files []provider.FileChange, thresholds Thresholds, excludedPatterns []string) Info {
	var included, excluded []provider.FileChange
	var total uint32

	for _, f := range files {
		if isExcluded(f.Filename, excludedPatterns) {
			excluded = append(excluded, f)
			continue
		}
		included = append(included, f)
		total += uint32(f.Changes)
	}

	return Info{
		TotalLinesChanged: total,
		Included:          included,
		Excluded:          excluded,
		Category:          CategoryFromLineCount(total, thresholds),
	}
}
