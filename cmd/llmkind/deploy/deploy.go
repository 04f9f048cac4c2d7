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

// Package deploy implements the deploy command
package deploy

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/llmkind/llmkind/cmd/llmkind/options"
	"github.com/llmkind/llmkind/pkg/constants"
	"github.com/llmkind/llmkind/pkg/deploy"
	lexec "github.com/llmkind/llmkind/pkg/exec"
)

type flagpole struct {
	options.ClusterFlags
	Manifest  string
	Namespace string
	DryRun    bool
}

// NewCommand returns a new cobra.Command for deploying workloads
func NewCommand() *cobra.Command {
	flags := &flagpole{}
	cmd := &cobra.Command{
		Args:  cobra.NoArgs,
		Use:   "deploy",
		Short: "Deploys an inference workload manifest on a local cluster",
		Long: "Deploys an inference workload manifest, e.g. a vLLM deployment, on a local cluster.\n\n" +
			"The target namespace is created if it does not exist.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(flags, cmd, args)
		},
	}
	options.AddClusterFlags(cmd, &flags.ClusterFlags)
	cmd.Flags().StringVarP(
		&flags.Manifest,
		"filename", "f", "",
		"manifest file, directory or URL to apply",
	)
	cmd.Flags().StringVarP(
		&flags.Namespace,
		"namespace", "n", constants.DefaultNamespace,
		"namespace where the manifest is applied",
	)
	cmd.Flags().BoolVar(
		&flags.DryRun,
		"dry-run", false,
		"only prints the commands applying the manifest",
	)
	return cmd
}

func runE(flags *flagpole, cmd *cobra.Command, args []string) error {
	if err := options.Apply(cmd.Flags()); err != nil {
		return err
	}
	if flags.Manifest == "" {
		return errors.New("flag --filename is required")
	}

	ctx, cancel := options.SignalContext()
	defer cancel()

	runner := lexec.NewHostRunner(flags.DryRun)
	manager, err := flags.NewManager(runner)
	if err != nil {
		return err
	}
	kubeconfigPath, err := manager.WriteKubeConfig(ctx, flags.Name)
	if err != nil {
		return err
	}

	return deploy.Apply(ctx, deploy.Options{
		KubeConfigPath: kubeconfigPath,
		Manifest:       flags.Manifest,
		Namespace:      flags.Namespace,
		Runner:         runner,
		DryRun:         flags.DryRun,
		Out:            cmd.OutOrStdout(),
	})
}
