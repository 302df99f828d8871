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

package azureconfig

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingFetcher struct {
	calls   int
	content string
}

func (f *countingFetcher) FetchConfig(ctx context.Context, owner, repo, path string) (string, error) {
	f.calls++
	return f.content, nil
}

func TestCachedFetcherServesFromLocalCacheOnSecondCall(t *testing.T) {
	inner := &countingFetcher{content: "schema_version = 1"}
	fetcher, err := NewCachedFetcher(inner, 16, nil, time.Minute, nil)
	require.NoError(t, err)

	first, err := fetcher.FetchConfig(context.Background(), "acme", "widgets", ".merge-warden.toml")
	require.NoError(t, err)
	assert.Equal(t, "schema_version = 1", first)
	assert.Equal(t, 1, inner.calls)

	second, err := fetcher.FetchConfig(context.Background(), "acme", "widgets", ".merge-warden.toml")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls, "second fetch for the same key must be served from the local cache")
}

func TestCachedFetcherDistinguishesCacheKeys(t *testing.T) {
	inner := &countingFetcher{content: "schema_version = 1"}
	fetcher, err := NewCachedFetcher(inner, 16, nil, time.Minute, nil)
	require.NoError(t, err)

	_, err = fetcher.FetchConfig(context.Background(), "acme", "widgets", ".merge-warden.toml")
	require.NoError(t, err)
	_, err = fetcher.FetchConfig(context.Background(), "acme", "other-repo", ".merge-warden.toml")
	require.NoError(t, err)

	assert.Equal(t, 2, inner.calls, "distinct repositories must not share a cache entry")
}
