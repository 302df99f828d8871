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

// Package bypasscmd implements "warden bypass": manage the operator's
// local bypass-rule file. Bypass rules are deliberately never read from
// repository-provided TOML (a repository must not be able to grant itself
// an exemption), so this file lives on the operator's own machine and is
// loaded at Warden construction time via warden.WithBypassRules.
package bypasscmd

import (
	"fmt"
	"io/ioutil"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml"
	"github.com/spf13/cobra"

	"github.com/pvandervelde/merge-warden-sub000/pkg/bypass"
)

// localBypassFile is the on-disk shape of the operator's bypass file; it
// mirrors bypass.Rules field-for-field but carries toml tags.
type localBypassFile struct {
	TitleConvention localRule `toml:"title_convention"`
	WorkItemRefs    localRule `toml:"work_item_refs"`
	Size            localRule `toml:"size"`
}

type localRule struct {
	Enabled bool     `toml:"enabled"`
	Users   []string `toml:"users"`
}

const defaultBypassPath = "merge-warden-bypass.toml"

var ruleNames = map[string]func(*localBypassFile) *localRule{
	"title-validation":     func(f *localBypassFile) *localRule { return &f.TitleConvention },
	"work-item-validation": func(f *localBypassFile) *localRule { return &f.WorkItemRefs },
	"size-validation":      func(f *localBypassFile) *localRule { return &f.Size },
}

func resolveRule(f *localBypassFile, ruleType string) (*localRule, error) {
	accessor, ok := ruleNames[ruleType]
	if !ok {
		return nil, fmt.Errorf("unknown rule type %q: expected one of title-validation, work-item-validation, size-validation", ruleType)
	}
	return accessor(f), nil
}

func load(path string) (*localBypassFile, error) {
	raw, err := ioutil.ReadFile(path)
	if err != nil {
		return &localBypassFile{}, nil
	}
	var f localBypassFile
	if err := toml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("%s is not valid TOML: %w", path, err)
	}
	return &f, nil
}

func save(path string, f *localBypassFile) error {
	raw, err := toml.Marshal(*f)
	if err != nil {
		return fmt.Errorf("encoding bypass file: %w", err)
	}
	return ioutil.WriteFile(path, raw, 0o600)
}

// MakeCommand builds the "bypass" subcommand and its own subcommands.
func MakeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bypass",
		Short: "Manage the operator's local bypass rules",
	}
	cmd.AddCommand(makeListCommand())
	cmd.AddCommand(makeToggleCommand("enable", true))
	cmd.AddCommand(makeToggleCommand("disable", false))
	cmd.AddCommand(makeAddUserCommand())
	cmd.AddCommand(makeRemoveUserCommand())
	return cmd
}

func withPathFlag(cmd *cobra.Command, path *string) {
	cmd.Flags().StringVarP(path, "path", "p", defaultBypassPath, "Path to the bypass rules file")
}

func makeListCommand() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all bypass rules and their current status",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := load(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range []string{"title-validation", "work-item-validation", "size-validation"} {
				rule, _ := resolveRule(f, name)
				fmt.Fprintf(out, "%s: enabled=%v users=%s\n", name, rule.Enabled, strings.Join(rule.Users, ","))
			}
			return nil
		},
	}
	withPathFlag(cmd, &path)
	return cmd
}

func makeToggleCommand(use string, enabled bool) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   use + " <rule-type>",
		Short: fmt.Sprintf("%s a bypass rule", strings.Title(use)),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := load(path)
			if err != nil {
				return err
			}
			rule, err := resolveRule(f, args[0])
			if err != nil {
				return err
			}
			rule.Enabled = enabled
			return save(path, f)
		},
	}
	withPathFlag(cmd, &path)
	return cmd
}

func makeAddUserCommand() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "add-user <rule-type> <users>",
		Short: "Add comma-separated GitHub usernames to a bypass rule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := load(path)
			if err != nil {
				return err
			}
			rule, err := resolveRule(f, args[0])
			if err != nil {
				return err
			}
			rule.Users = addUnique(rule.Users, strings.Split(args[1], ","))
			return save(path, f)
		},
	}
	withPathFlag(cmd, &path)
	return cmd
}

func makeRemoveUserCommand() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "remove-user <rule-type> <users>",
		Short: "Remove comma-separated GitHub usernames from a bypass rule",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := load(path)
			if err != nil {
				return err
			}
			rule, err := resolveRule(f, args[0])
			if err != nil {
				return err
			}
			rule.Users = removeAll(rule.Users, strings.Split(args[1], ","))
			return save(path, f)
		},
	}
	withPathFlag(cmd, &path)
	return cmd
}

func addUnique(existing []string, toAdd []string) []string {
	present := map[string]bool{}
	for _, u := range existing {
		present[u] = true
	}
	for _, u := range toAdd {
		u = strings.TrimSpace(u)
		if u != "" && !present[u] {
			existing = append(existing, u)
			present[u] = true
		}
	}
	sort.Strings(existing)
	return existing
}

func removeAll(existing []string, toRemove []string) []string {
	drop := map[string]bool{}
	for _, u := range toRemove {
		drop[strings.TrimSpace(u)] = true
	}
	kept := existing[:0]
	for _, u := range existing {
		if !drop[u] {
			kept = append(kept, u)
		}
	}
	return kept
}

// LoadRules reads path and converts it to a bypass.Rules for
// warden.WithBypassRules. Used by the hook server and other commands that
// need the actual rule set, not just this package's editing subcommands.
func LoadRules(path string) (bypass.Rules, error) {
	f, err := load(path)
	if err != nil {
		return bypass.Rules{}, err
	}
	return bypass.Rules{
		TitleConvention: bypass.Rule{Enabled: f.TitleConvention.Enabled, Users: f.TitleConvention.Users},
		WorkItemRefs:    bypass.Rule{Enabled: f.WorkItemRefs.Enabled, Users: f.WorkItemRefs.Users},
		Size:            bypass.Rule{Enabled: f.Size.Enabled, Users: f.Size.Users},
	}, nil
}
