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

package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gogithub "github.com/google/go-github/github"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient points a Client at an httptest server instead of the real
// GitHub API, mirroring the teacher's own test-server-backed client
// construction idiom.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)

	cl := gogithub.NewClient(nil)
	cl.BaseURL = base

	return &Client{cl: cl, log: logrus.StandardLogger()}, srv
}

func TestUpsertChangesRequestedReviewDismissesExistingReviewFirst(t *testing.T) {
	var dismissedReviewID int64
	var createCalled, dismissCalled bool

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/pulls/1/reviews", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			reviews := []*gogithub.PullRequestReview{
				{ID: gogithub.Int64(42), State: gogithub.String("CHANGES_REQUESTED")},
				{ID: gogithub.Int64(43), State: gogithub.String("COMMENTED")},
			}
			json.NewEncoder(w).Encode(reviews)
		case http.MethodPost:
			createCalled = true
			assert.True(t, dismissCalled, "the stale review must be dismissed before a new one is created")
			json.NewEncoder(w).Encode(&gogithub.PullRequestReview{ID: gogithub.Int64(44), State: gogithub.String("CHANGES_REQUESTED")})
		default:
			http.Error(w, "unexpected method", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/repos/acme/widgets/pulls/1/reviews/42/dismissals", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		dismissCalled = true
		dismissedReviewID = 42
		json.NewEncoder(w).Encode(&gogithub.PullRequestReview{ID: gogithub.Int64(42), State: gogithub.String("DISMISSED")})
	})
	mux.HandleFunc("/repos/acme/widgets/pulls/1/reviews/43/dismissals", func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("a COMMENTED review must never be dismissed by the blocking-review upsert")
	})

	client, srv := newTestClient(t, mux)
	defer srv.Close()

	err := client.UpdatePullRequestBlockingReview(context.Background(), "acme", "widgets", 1, "please fix the title", false)

	require.NoError(t, err)
	assert.True(t, dismissCalled, "ListReviews found an existing CHANGES_REQUESTED review, so it must be dismissed")
	assert.EqualValues(t, 42, dismissedReviewID)
	assert.True(t, createCalled, "a replacement CHANGES_REQUESTED review must be created")
}

func TestUpsertChangesRequestedReviewSkipsDismissWhenNoneExists(t *testing.T) {
	var createCalled bool

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/pulls/2/reviews", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode([]*gogithub.PullRequestReview{})
		case http.MethodPost:
			createCalled = true
			json.NewEncoder(w).Encode(&gogithub.PullRequestReview{ID: gogithub.Int64(1), State: gogithub.String("CHANGES_REQUESTED")})
		default:
			http.Error(w, "unexpected method", http.StatusMethodNotAllowed)
		}
	})

	client, srv := newTestClient(t, mux)
	defer srv.Close()

	err := client.UpdatePullRequestBlockingReview(context.Background(), "acme", "widgets", 2, "please fix the title", false)

	require.NoError(t, err)
	assert.True(t, createCalled)
}

func TestDismissBlockingReviewDismissesChangesRequestedOnApproval(t *testing.T) {
	var dismissCalled bool

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/pulls/3/reviews", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		reviews := []*gogithub.PullRequestReview{{ID: gogithub.Int64(7), State: gogithub.String("CHANGES_REQUESTED")}}
		json.NewEncoder(w).Encode(reviews)
	})
	mux.HandleFunc("/repos/acme/widgets/pulls/3/reviews/7/dismissals", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		dismissCalled = true
		json.NewEncoder(w).Encode(&gogithub.PullRequestReview{ID: gogithub.Int64(7), State: gogithub.String("DISMISSED")})
	})

	client, srv := newTestClient(t, mux)
	defer srv.Close()

	err := client.UpdatePullRequestBlockingReview(context.Background(), "acme", "widgets", 3, "", true)

	require.NoError(t, err)
	assert.True(t, dismissCalled)
}
