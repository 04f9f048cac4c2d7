/*
Copyright 2026 The llmkind Authors.

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

// Package list implements the cluster list command
package list

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llmkind/llmkind/cmd/llmkind/options"
	lexec "github.com/llmkind/llmkind/pkg/exec"
)

// NewCommand returns a new cobra.Command for listing clusters
func NewCommand() *cobra.Command {
	flags := &options.ClusterFlags{}
	cmd := &cobra.Command{
		Args:  cobra.NoArgs,
		Use:   "list",
		Short: "Lists the existing clusters for a provider",
		Long:  "Lists the existing clusters for a provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(flags, cmd, args)
		},
	}
	options.AddClusterFlags(cmd, flags)
	return cmd
}

func runE(flags *options.ClusterFlags, cmd *cobra.Command, args []string) error {
	if err := options.Apply(cmd.Flags()); err != nil {
		return err
	}

	ctx, cancel := options.SignalContext()
	defer cancel()

	manager, err := flags.NewManager(lexec.NewHostRunner(false))
	if err != nil {
		return err
	}
	clusters, err := manager.List(ctx)
	if err != nil {
		return err
	}
	if len(clusters) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No %s clusters found.\n", manager.Provider())
		return nil
	}
	for _, c := range clusters {
		fmt.Fprintln(cmd.OutOrStdout(), c)
	}
	return nil
}
