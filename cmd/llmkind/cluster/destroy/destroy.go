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

// Package destroy implements the cluster destroy command
package destroy

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/llmkind/llmkind/cmd/llmkind/options"
	lexec "github.com/llmkind/llmkind/pkg/exec"
)

type flagpole struct {
	options.ClusterFlags
	DryRun bool
}

// NewCommand returns a new cobra.Command for cluster deletion
func NewCommand() *cobra.Command {
	flags := &flagpole{}
	cmd := &cobra.Command{
		Args:  cobra.NoArgs,
		Use:   "destroy",
		Short: "Destroys a local cluster",
		Long:  "Destroys a local cluster. Destroying a cluster that does not exist is not an error.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(flags, cmd, args)
		},
	}
	options.AddClusterFlags(cmd, &flags.ClusterFlags)
	cmd.Flags().BoolVar(
		&flags.DryRun,
		"dry-run", false,
		"only prints what would be destroyed",
	)
	return cmd
}

func runE(flags *flagpole, cmd *cobra.Command, args []string) error {
	if err := options.Apply(cmd.Flags()); err != nil {
		return err
	}

	ctx, cancel := options.SignalContext()
	defer cancel()

	manager, err := flags.NewManager(lexec.NewHostRunner(flags.DryRun))
	if err != nil {
		return err
	}
	if err := manager.Destroy(ctx, flags.Name, flags.DryRun); err != nil {
		return errors.Wrap(err, "failed to destroy cluster")
	}
	return nil
}
