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

// Package configcmd implements "warden config": inspect or validate a
// repository's local policy configuration file before committing it.
package configcmd

import (
	"fmt"
	"io/ioutil"

	toml "github.com/pelletier/go-toml"
	"github.com/spf13/cobra"

	"github.com/pvandervelde/merge-warden-sub000/pkg/config"
)

// MakeCommand builds the "config" subcommand and its own subcommands.
func MakeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage merge-warden's repository configuration",
	}
	cmd.AddCommand(makeValidateCommand())
	cmd.AddCommand(makeShowCommand())
	return cmd
}

func makeValidateCommand() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check a configuration file's syntax and schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := ioutil.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			var repoConfig config.RepositoryConfig
			if err := toml.Unmarshal(raw, &repoConfig); err != nil {
				return fmt.Errorf("%s is not valid TOML: %w", path, err)
			}
			if repoConfig.SchemaVersion != config.SupportedSchemaVersion {
				return fmt.Errorf("%s declares schema_version %d, expected %d", path, repoConfig.SchemaVersion, config.SupportedSchemaVersion)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid (schema_version %d)\n", path, repoConfig.SchemaVersion)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", config.DefaultConfigPath, "Path to the configuration file")
	return cmd
}

func makeShowCommand() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration merged with application defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := ioutil.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}

			var repoConfig config.RepositoryConfig
			if err := toml.Unmarshal(raw, &repoConfig); err != nil {
				return fmt.Errorf("%s is not valid TOML: %w", path, err)
			}

			effective := config.Merge(config.ApplicationDefaults(), repoConfig)
			fmt.Fprintf(cmd.OutOrStdout(), "title.enforce = %v\n", effective.Title.Enforce)
			fmt.Fprintf(cmd.OutOrStdout(), "work_item.enforce = %v\n", effective.WorkItem.Enforce)
			fmt.Fprintf(cmd.OutOrStdout(), "size.enabled = %v\n", effective.Size.Enabled)
			fmt.Fprintf(cmd.OutOrStdout(), "change_type_labels.enabled = %v\n", effective.ChangeTypeLabels.Enabled)
			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "path", "p", config.DefaultConfigPath, "Path to the configuration file")
	return cmd
}
