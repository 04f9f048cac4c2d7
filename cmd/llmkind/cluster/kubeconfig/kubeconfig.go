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

// Package kubeconfig implements the cluster kubeconfig command
package kubeconfig

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/llmkind/llmkind/cmd/llmkind/options"
	lexec "github.com/llmkind/llmkind/pkg/exec"
)

type flagpole struct {
	options.ClusterFlags
	Path bool
}

// NewCommand returns a new cobra.Command for getting the cluster kubeconfig
func NewCommand() *cobra.Command {
	flags := &flagpole{}
	cmd := &cobra.Command{
		Args:  cobra.NoArgs,
		Use:   "kubeconfig",
		Short: "Prints the kubeconfig of a local cluster",
		Long: "Prints the kubeconfig of a local cluster.\n\n" +
			"With --path the kubeconfig is written in the llmkind state dir and its path is printed,\n" +
			"e.g. export KUBECONFIG=$(llmkind cluster kubeconfig --path)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(flags, cmd, args)
		},
	}
	options.AddClusterFlags(cmd, &flags.ClusterFlags)
	cmd.Flags().BoolVar(
		&flags.Path,
		"path", false,
		"write the kubeconfig to a file and print its path",
	)
	return cmd
}

func runE(flags *flagpole, cmd *cobra.Command, args []string) error {
	if err := options.Apply(cmd.Flags()); err != nil {
		return err
	}

	ctx, cancel := options.SignalContext()
	defer cancel()

	manager, err := flags.NewManager(lexec.NewHostRunner(false))
	if err != nil {
		return err
	}

	if flags.Path {
		path, err := manager.WriteKubeConfig(ctx, flags.Name)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	}

	kubeconfig, err := manager.KubeConfig(ctx, flags.Name)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), kubeconfig)
	return nil
}
