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

// Package addon implements the addon command
package addon

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/llmkind/llmkind/cmd/llmkind/options"
	"github.com/llmkind/llmkind/pkg/addons"
	"github.com/llmkind/llmkind/pkg/constants"
	lexec "github.com/llmkind/llmkind/pkg/exec"
)

// NewCommand returns a new cobra.Command for addon commands
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Args:  cobra.NoArgs,
		Use:   "addon",
		Short: "Lists or installs cluster addons",
		Long:  "Lists or installs cluster addons",
	}
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newInstallCommand())
	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Args:  cobra.NoArgs,
		Use:   "list",
		Short: "Lists the available addons",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, a := range addons.Known() {
				fmt.Fprintln(cmd.OutOrStdout(), a)
			}
			return nil
		},
	}
}

type installFlagpole struct {
	options.ClusterFlags
	Namespace string
	Wait      time.Duration
	DryRun    bool
}

func newInstallCommand() *cobra.Command {
	flags := &installFlagpole{}
	cmd := &cobra.Command{
		Args:  cobra.MinimumNArgs(1),
		Use:   "install ADDON...",
		Short: "Installs addons on an existing cluster",
		Long:  "Installs addons on an existing cluster. Addons are installed in the given order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstallE(flags, cmd, args)
		},
	}
	options.AddClusterFlags(cmd, &flags.ClusterFlags)
	cmd.Flags().StringVar(
		&flags.Namespace,
		"namespace", constants.DefaultNamespace,
		"namespace created by the namespace addon",
	)
	cmd.Flags().DurationVar(
		&flags.Wait,
		"wait", constants.DefaultWaitForReady,
		"wait for addons to be ready",
	)
	cmd.Flags().BoolVar(
		&flags.DryRun,
		"dry-run", false,
		"only prints the commands installing the addons",
	)
	return cmd
}

func runInstallE(flags *installFlagpole, cmd *cobra.Command, args []string) error {
	if err := options.Apply(cmd.Flags()); err != nil {
		return err
	}
	if err := addons.Validate(args...); err != nil {
		return err
	}

	ctx, cancel := options.SignalContext()
	defer cancel()

	manager, err := flags.NewManager(lexec.NewHostRunner(flags.DryRun))
	if err != nil {
		return err
	}
	if err := manager.InstallAddons(ctx, flags.Name, args, addons.Wait(flags.Wait), addons.Namespace(flags.Namespace)); err != nil {
		return errors.Wrap(err, "failed to install addons")
	}
	return nil
}
