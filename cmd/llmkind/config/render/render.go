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

// Package render implements the config render command
package render

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/llmkind/llmkind/cmd/llmkind/options"
	"github.com/llmkind/llmkind/pkg/config"
	"github.com/llmkind/llmkind/pkg/constants"
)

type flagpole struct {
	options.SizeFlags
	Name          string
	HTTPPort      int32
	HTTPSPort     int32
	NodeImage     string
	GPUs          bool
	ModelCacheDir string
	Patches       []string
	Output        string
}

// NewCommand returns a new cobra.Command for rendering the kind config
func NewCommand() *cobra.Command {
	flags := &flagpole{}
	cmd := &cobra.Command{
		Args:  cobra.NoArgs,
		Use:   "render",
		Short: "Prints the kind config used for creating a cluster",
		Long: "Prints the kind config used for creating a cluster.\n\n" +
			"The rendered config can be edited and passed to 'llmkind cluster create --kind-config'.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(flags, cmd, args)
		},
	}
	options.AddSizeFlags(cmd, &flags.SizeFlags)
	AddConfigFlags(cmd, &flags.HTTPPort, &flags.HTTPSPort, &flags.NodeImage, &flags.GPUs, &flags.ModelCacheDir, &flags.Patches)
	cmd.Flags().StringVar(
		&flags.Name,
		"name", constants.DefaultClusterName,
		"cluster name",
	)
	cmd.Flags().StringVarP(
		&flags.Output,
		"output", "o", "",
		"file where the config is written, stdout if not set",
	)
	return cmd
}

// AddConfigFlags adds the flags changing the generated kind config
func AddConfigFlags(cmd *cobra.Command, httpPort, httpsPort *int32, image *string, gpus *bool, modelCache *string, patches *[]string) {
	cmd.Flags().Int32Var(
		httpPort,
		"http-port", constants.DefaultHTTPPort,
		"host port mapped on the ingress http port",
	)
	cmd.Flags().Int32Var(
		httpsPort,
		"https-port", constants.DefaultHTTPSPort,
		"host port mapped on the ingress https port",
	)
	cmd.Flags().StringVar(
		image,
		"image", constants.DefaultNodeImage,
		"node image used by kind, kind default if not set",
	)
	cmd.Flags().BoolVar(
		gpus,
		"gpus", false,
		"expose the host NVIDIA GPUs to the cluster nodes",
	)
	cmd.Flags().StringVar(
		modelCache,
		"model-cache", "",
		"host directory mounted on every node at "+constants.ModelCacheContainerPath+", for sharing downloaded models",
	)
	cmd.Flags().StringSliceVar(
		patches,
		"patch", nil,
		"merge patch file applied to the generated kind config, can be repeated",
	)
}

func runE(flags *flagpole, cmd *cobra.Command, args []string) error {
	if err := options.Apply(cmd.Flags()); err != nil {
		return err
	}

	profile, err := flags.Profile(cmd)
	if err != nil {
		return err
	}
	patches, err := config.ReadPatchFiles(flags.Patches)
	if err != nil {
		return err
	}

	cfg, err := config.NewConfig(config.Options{
		Name:          flags.Name,
		Profile:       profile,
		HTTPPort:      flags.HTTPPort,
		HTTPSPort:     flags.HTTPSPort,
		NodeImage:     flags.NodeImage,
		GPUs:          flags.GPUs,
		ModelCacheDir: flags.ModelCacheDir,
		Patches:       patches,
	})
	if err != nil {
		return err
	}
	b, err := config.Marshal(cfg)
	if err != nil {
		return err
	}

	if flags.Output == "" {
		fmt.Fprint(cmd.OutOrStdout(), string(b))
		return nil
	}
	if err := os.WriteFile(flags.Output, b, 0o644); err != nil {
		return errors.Wrapf(err, "failed to write %s", flags.Output)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "kind config written to %s\n", flags.Output)
	return nil
}
