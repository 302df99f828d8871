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

// Package checkpr implements "warden checkpr": evaluate a single pull
// request against its repository's policy configuration and print the
// verdict, without waiting for a webhook delivery.
package checkpr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	wgithub "github.com/pvandervelde/merge-warden-sub000/pkg/github"
	"github.com/pvandervelde/merge-warden-sub000/pkg/warden"
)

type flags struct {
	repo       string
	prNumber   int
	configPath string
	asJSON     bool
}

// result is the JSON shape printed by --json; field names are stable CLI
// output, not an internal type.
type result struct {
	Passed   bool     `json:"passed"`
	Failures []string `json:"failures"`
}

// MakeCommand builds the "checkpr" subcommand.
func MakeCommand() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "checkpr",
		Short: "Validate a pull request against configured rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, f)
		},
	}
	cmd.Flags().StringVarP(&f.repo, "repo", "r", "", "Repository in format: owner/repo")
	cmd.Flags().IntVarP(&f.prNumber, "pr", "p", 0, "Pull request number")
	cmd.Flags().StringVarP(&f.configPath, "config", "c", ".merge-warden.toml", "Repository-relative path to the policy configuration file")
	cmd.Flags().BoolVarP(&f.asJSON, "json", "j", false, "Output results in JSON format")
	cmd.MarkFlagRequired("repo")
	cmd.MarkFlagRequired("pr")
	return cmd
}

func run(cmd *cobra.Command, f *flags) error {
	parts := strings.Split(f.repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return errors.New("repository must be in format: owner/repo")
	}
	owner, repo := parts[0], parts[1]

	token := os.Getenv("MERGE_WARDEN_GITHUB_TOKEN")
	if token == "" {
		return errors.New("MERGE_WARDEN_GITHUB_TOKEN must be set to a GitHub token with pull request read/write access")
	}

	ctx := context.Background()
	client := wgithub.NewClient(ctx, token, nil)
	w := warden.New(client, client, warden.WithConfigPath(f.configPath))

	outcome, err := w.ProcessPullRequest(ctx, owner, repo, f.prNumber)
	if err != nil {
		return fmt.Errorf("evaluating %s/%s#%d: %w", owner, repo, f.prNumber, err)
	}

	r := result{Passed: outcome.Ok()}
	if !outcome.TitleValid {
		r.Failures = append(r.Failures, "title does not follow the conventional commit format")
	}
	if !outcome.WorkItemReferenced {
		r.Failures = append(r.Failures, "description is missing a work item reference")
	}
	if !outcome.SizeValid {
		r.Failures = append(r.Failures, "pull request exceeds the configured size threshold")
	}

	if f.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	if r.Passed {
		fmt.Fprintln(cmd.OutOrStdout(), "PASS")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "FAIL")
	for _, failure := range r.Failures {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", failure)
	}
	return nil
}
