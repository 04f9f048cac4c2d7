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

// Package create implements the cluster create command
package create

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/llmkind/llmkind/cmd/llmkind/check"
	"github.com/llmkind/llmkind/cmd/llmkind/config/render"
	"github.com/llmkind/llmkind/cmd/llmkind/options"
	"github.com/llmkind/llmkind/pkg/addons"
	"github.com/llmkind/llmkind/pkg/cluster"
	"github.com/llmkind/llmkind/pkg/config"
	"github.com/llmkind/llmkind/pkg/constants"
	lexec "github.com/llmkind/llmkind/pkg/exec"
)

type flagpole struct {
	options.ClusterFlags
	options.SizeFlags
	HTTPPort          int32
	HTTPSPort         int32
	NodeImage         string
	KubernetesVersion string
	Driver            string
	GPUs              bool
	ModelCacheDir     string
	Config            string
	Patches           []string
	Addons            []string
	Namespace         string
	Retain            bool
	Wait              time.Duration
	SkipChecks        bool
	DryRun            bool
}

// NewCommand returns a new cobra.Command for cluster creation
func NewCommand() *cobra.Command {
	flags := &flagpole{}
	cmd := &cobra.Command{
		Args:  cobra.NoArgs,
		Use:   "create",
		Short: "Creates a local cluster for LLM inference",
		Long: "Creates a local cluster for LLM inference.\n\n" +
			"The cluster is sized according to a preset, exposes the ingress on the host http/https ports\n" +
			"and, by default, gets the inference namespace, node labels, ingress-nginx and metrics-server installed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(flags, cmd, args)
		},
	}
	options.AddClusterFlags(cmd, &flags.ClusterFlags)
	options.AddSizeFlags(cmd, &flags.SizeFlags)
	render.AddConfigFlags(cmd, &flags.HTTPPort, &flags.HTTPSPort, &flags.NodeImage, &flags.GPUs, &flags.ModelCacheDir, &flags.Patches)
	cmd.Flags().StringVar(
		&flags.KubernetesVersion,
		"kubernetes-version", "",
		"kubernetes version installed by minikube, e.g. v1.31.0",
	)
	cmd.Flags().StringVar(
		&flags.Driver,
		"driver", constants.DefaultMinikubeDriver,
		"minikube driver, auto-detected by minikube if not set",
	)
	cmd.Flags().StringVar(
		&flags.Config,
		"kind-config", "",
		"kind config file used instead of the generated one",
	)
	cmd.Flags().StringSliceVar(
		&flags.Addons,
		"addons", addons.DefaultAddons,
		"addons installed after the cluster is created, one or more of "+strings.Join(addons.Known(), ", "),
	)
	cmd.Flags().StringVar(
		&flags.Namespace,
		"namespace", constants.DefaultNamespace,
		"namespace created for inference workloads",
	)
	cmd.Flags().BoolVar(
		&flags.Retain,
		"retain", false,
		"retain nodes for debugging when cluster creation fails",
	)
	cmd.Flags().DurationVar(
		&flags.Wait,
		"wait", constants.DefaultWaitForReady,
		"wait for nodes to be ready; 0 skips waiting",
	)
	cmd.Flags().BoolVar(
		&flags.SkipChecks,
		"skip-checks", false,
		"skip the prerequisites check",
	)
	cmd.Flags().BoolVar(
		&flags.DryRun,
		"dry-run", false,
		"only prints what would be created",
	)
	return cmd
}

func runE(flags *flagpole, cmd *cobra.Command, args []string) error {
	sizeFlag := cmd.Flags().Changed("size")
	if err := options.Apply(cmd.Flags()); err != nil {
		return err
	}

	profile, err := flags.Profile(cmd)
	if err != nil {
		return err
	}
	if flags.Config != "" && sizeFlag {
		return errors.New("flags --kind-config and --size are mutually exclusive")
	}
	patches, err := config.ReadPatchFiles(flags.Patches)
	if err != nil {
		return err
	}

	if !flags.SkipChecks && !flags.DryRun {
		if err := check.Run(cmd, flags.Provider); err != nil {
			return err
		}
	}

	ctx, cancel := options.SignalContext()
	defer cancel()

	manager, err := flags.NewManager(lexec.NewHostRunner(flags.DryRun))
	if err != nil {
		return err
	}

	if err := manager.Create(ctx, cluster.CreateOptions{
		Name:              flags.Name,
		Profile:           profile,
		HTTPPort:          flags.HTTPPort,
		HTTPSPort:         flags.HTTPSPort,
		NodeImage:         flags.NodeImage,
		KubernetesVersion: flags.KubernetesVersion,
		Driver:            flags.Driver,
		GPUs:              flags.GPUs,
		ModelCacheDir:     flags.ModelCacheDir,
		ConfigFile:        flags.Config,
		Patches:           patches,
		Addons:            flags.Addons,
		Namespace:         flags.Namespace,
		Retain:            flags.Retain,
		WaitForReady:      flags.Wait,
		DryRun:            flags.DryRun,
	}); err != nil {
		return errors.Wrap(err, "failed to create cluster")
	}
	return nil
}
