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

// Command warden is the operator CLI: it validates a single pull request
// against a repository's policy configuration, and lets an operator
// inspect or edit that configuration, without waiting for a webhook
// delivery. One subcommand package per verb, following the teacher's own
// MakeCommand()-per-package CLI layout.
package main

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/pvandervelde/merge-warden-sub000/cmd/warden/bypasscmd"
	"github.com/pvandervelde/merge-warden-sub000/cmd/warden/checkpr"
	"github.com/pvandervelde/merge-warden-sub000/cmd/warden/configcmd"
)

var rootCommand = &cobra.Command{
	Use:   "warden",
	Short: "warden validates pull requests against merge-warden policy and manages its configuration.",
}

func run() error {
	rootCommand.PersistentFlags().Bool("verbose", false, "Enable verbose logging output.")
	rootCommand.AddCommand(checkpr.MakeCommand())
	rootCommand.AddCommand(configcmd.MakeCommand())
	rootCommand.AddCommand(bypasscmd.MakeCommand())
	return rootCommand.Execute()
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
