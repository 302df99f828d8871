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

// Command warden-hook is the webhook HTTP front door: it validates the
// inbound GitHub delivery's HMAC signature, decodes the pull_request
// event, and hands it to a Warden for evaluation. It follows the
// receive-validate-dispatch shape of the teacher's own webhook receiver,
// upgraded to gorilla/mux routing and logrus logging.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io/ioutil"
	"net/http"
	"strconv"
	"strings"

	gogithub "github.com/google/go-github/github"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/pvandervelde/merge-warden-sub000/cmd/warden/bypasscmd"
	"github.com/pvandervelde/merge-warden-sub000/pkg/github"
	"github.com/pvandervelde/merge-warden-sub000/pkg/metrics"
	"github.com/pvandervelde/merge-warden-sub000/pkg/warden"
)

var (
	port              = flag.Int("port", 8888, "Port to listen on.")
	dryRun            = flag.Bool("dry-run", true, "Whether to avoid mutating calls to GitHub.")
	webhookSecretFile = flag.String("hmac-secret-file", "/etc/hmac/hmac", "Path to the file containing the GitHub webhook HMAC secret.")
	githubTokenFile   = flag.String("github-token-file", "/etc/oauth/oauth", "Path to the file containing the GitHub installation token.")
	configPath        = flag.String("config-path", ".merge-warden.toml", "Repository-relative path to the policy configuration file.")
	bypassPath        = flag.String("bypass-path", "merge-warden-bypass.toml", "Path to the operator's local bypass rules file.")
)

// server holds the dependencies ServeHTTP needs to validate, parse, and
// dispatch one webhook delivery.
type server struct {
	warden        *warden.Warden
	webhookSecret []byte
	log           logrus.FieldLogger
}

func main() {
	flag.Parse()
	log := logrus.StandardLogger()

	webhookSecretRaw, err := ioutil.ReadFile(*webhookSecretFile)
	if err != nil {
		log.WithError(err).Fatal("could not read webhook secret file")
	}
	webhookSecret := []byte(strings.TrimSpace(string(webhookSecretRaw)))

	tokenRaw, err := ioutil.ReadFile(*githubTokenFile)
	if err != nil {
		log.WithError(err).Fatal("could not read github token file")
	}
	token := strings.TrimSpace(string(tokenRaw))

	ctx := context.Background()
	var client *github.Client
	if *dryRun {
		client = github.NewDryRunClient(ctx, token, log)
	} else {
		client = github.NewClient(ctx, token, log)
	}

	bypassRules, err := bypasscmd.LoadRules(*bypassPath)
	if err != nil {
		log.WithError(err).Fatal("could not load bypass rules")
	}

	w := warden.New(client, client,
		warden.WithConfigPath(*configPath),
		warden.WithLogger(log),
		warden.WithBypassRules(bypassRules),
	)

	s := &server{warden: w, webhookSecret: webhookSecret, log: log}

	router := mux.NewRouter()
	router.HandleFunc("/webhook", s.handleWebhook).Methods(http.MethodPost)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", handleHealthz).Methods(http.MethodGet)

	log.WithField("port", *port).Info("warden-hook listening")
	if err := http.ListenAndServe(":"+strconv.Itoa(*port), router); err != nil {
		log.WithError(err).Fatal("ListenAndServe returned an error")
	}
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// handleWebhook validates the delivery's signature, decodes the event,
// and dispatches relevant pull_request actions to the Warden in the
// background so the forge's delivery timeout is never at risk.
func (s *server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	eventType := r.Header.Get("X-GitHub-Event")
	if eventType == "" {
		http.Error(w, "400 Bad Request: missing X-GitHub-Event header", http.StatusBadRequest)
		return
	}

	payload, err := gogithub.ValidatePayload(r, s.webhookSecret)
	if err != nil {
		metrics.RecordWebhookDelivery(eventType, "rejected")
		http.Error(w, "403 Forbidden: invalid signature", http.StatusForbidden)
		return
	}

	if eventType != "pull_request" {
		metrics.RecordWebhookDelivery(eventType, "ignored")
		w.WriteHeader(http.StatusOK)
		return
	}

	var payloadEvent struct {
		Action      string `json:"action"`
		Number      int    `json:"number"`
		PullRequest struct {
			Draft bool `json:"draft"`
		} `json:"pull_request"`
		Repository struct {
			FullName string `json:"full_name"`
		} `json:"repository"`
	}
	if err := json.Unmarshal(payload, &payloadEvent); err != nil {
		metrics.RecordWebhookDelivery(eventType, "error")
		http.Error(w, "400 Bad Request: malformed payload", http.StatusBadRequest)
		return
	}

	event := warden.Event{
		Action:             payloadEvent.Action,
		RepositoryFullName: payloadEvent.Repository.FullName,
		PullRequestNumber:  payloadEvent.Number,
		Draft:              payloadEvent.PullRequest.Draft,
	}
	if !warden.ShouldProcess(event) {
		metrics.RecordWebhookDelivery(eventType, "skipped")
		w.WriteHeader(http.StatusOK)
		return
	}

	identity, err := warden.ParseIdentity(event.RepositoryFullName)
	if err != nil {
		metrics.RecordWebhookDelivery(eventType, "error")
		http.Error(w, "400 Bad Request: unparseable repository identity", http.StatusBadRequest)
		return
	}

	metrics.RecordWebhookDelivery(eventType, "accepted")
	w.WriteHeader(http.StatusOK)

	go func() {
		log := s.log.WithFields(logrus.Fields{
			"owner": identity.Owner, "repo": identity.Repo, "pr_number": event.PullRequestNumber,
		})
		if _, err := s.warden.ProcessPullRequest(context.Background(), identity.Owner, identity.Repo, event.PullRequestNumber); err != nil {
			log.WithError(err).Error("failed to process pull request")
		}
	}()
}
