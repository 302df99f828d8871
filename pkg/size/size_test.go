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

package size

import (
	"testing"

	"github.com/pvandervelde/merge-warden-sub000/pkg/provider"
	"github.com/stretchr/testify/assert"
)

func TestCategoryFromLineCount(t *testing.T) {
	thresholds := DefaultThresholds()

	cases := []struct {
		name  string
		count uint32
		want  Category
	}{
		{"zero is XS", 0, XS},
		{"at xs boundary", 10, XS},
		{"just above xs", 11, S},
		{"at s boundary", 50, S},
		{"at m boundary", 100, M},
		{"at l boundary", 250, L},
		{"at xl boundary", 500, XL},
		{"just above xl", 501, XXL},
		{"way above xl", 10000, XXL},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CategoryFromLineCount(tc.count, thresholds))
		})
	}
}

func TestCategoryFromLineCountMonotonic(t *testing.T) {
	thresholds := DefaultThresholds()
	prev := CategoryFromLineCount(0, thresholds)
	for n := uint32(1); n <= 1000; n++ {
		cur := CategoryFromLineCount(n, thresholds)
		assert.GreaterOrEqual(t, int(cur), int(prev))
		prev = cur
	}
}

func TestFromFilesWithExclusions(t *testing.T) {
	files := []provider.FileChange{
		{Filename: "src/main.go", Changes: 15},
		{Filename: "README.md", Changes: 3},
		{Filename: "vendor/generated.pb.go", Changes: 900},
	}

	info := FromFilesWithExclusions(files, DefaultThresholds(), []string{"*.md", "vendor/*"})

	assert.Equal(t, uint32(15), info.TotalLinesChanged)
	assert.Len(t, info.Included, 1)
	assert.Len(t, info.Excluded, 2)
	assert.Equal(t, S, info.Category)
	assert.False(t, info.IsOversized())
}

func TestFromFilesWithExclusionsNoExclusions(t *testing.T) {
	files := []provider.FileChange{
		{Filename: "a.go", Changes: 400},
		{Filename: "b.go", Changes: 401},
	}

	info := FromFilesWithExclusions(files, DefaultThresholds(), nil)

	assert.Equal(t, uint32(801), info.TotalLinesChanged)
	assert.Equal(t, XXL, info.Category)
	assert.True(t, info.IsOversized())
}

func TestExclusionPatternExactMatch(t *testing.T) {
	files := []provider.FileChange{{Filename: "go.sum", Changes: 50}}
	info := FromFilesWithExclusions(files, DefaultThresholds(), []string{"go.sum"})
	assert.Equal(t, uint32(0), info.TotalLinesChanged)
	assert.Len(t, info.Excluded, 1)
}

func TestInvalidExclusionPatternNeverMatches(t *testing.T) {
	files := []provider.FileChange{{Filename: "a.go", Changes: 5}}
	// "[unterminated" is not a valid regexp on its own; glob translation
	// escapes the bracket, so it compiles to a literal match that must not
	// exclude a.go (the file stays included) and must not panic.
	info := FromFilesWithExclusions(files, DefaultThresholds(), []string{"[unterminated"})
	assert.Equal(t, uint32(5), info.TotalLinesChanged)
	assert.Len(t, info.Included, 1)
}
