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

// Package check implements the check command
package check

import (
	osexec "os/exec"

	"github.com/spf13/cobra"

	"github.com/llmkind/llmkind/cmd/llmkind/options"
	"github.com/llmkind/llmkind/pkg/constants"
	lexec "github.com/llmkind/llmkind/pkg/exec"
	"github.com/llmkind/llmkind/pkg/prereq"
)

type flagpole struct {
	Provider string
}

// NewCommand returns a new cobra.Command for checking prerequisites
func NewCommand() *cobra.Command {
	flags := &flagpole{}
	cmd := &cobra.Command{
		Args:  cobra.NoArgs,
		Use:   "check",
		Short: "Checks the tools required by a provider are installed",
		Long: "Checks the tools required by a provider are installed.\n\n" +
			"For kind a container engine (docker or podman) and kubectl are required;\n" +
			"for minikube, minikube and kubectl. helm is required by the ingress and metrics-server addons on kind.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(flags, cmd, args)
		},
	}
	cmd.Flags().StringVar(
		&flags.Provider,
		"provider", constants.DefaultProvider,
		"cluster provider to check requirements for",
	)
	return cmd
}

func runE(flags *flagpole, cmd *cobra.Command, args []string) error {
	if err := options.Apply(cmd.Flags()); err != nil {
		return err
	}
	return Run(cmd, flags.Provider)
}

// Run checks the prerequisites for a provider and prints the result
func Run(cmd *cobra.Command, provider string) error {
	report, err := prereq.Check(cmd.Context(), provider, osexec.LookPath, lexec.NewHostRunner(false))
	if err != nil {
		return err
	}
	report.Print(cmd.OutOrStdout())
	return report.Err()
}
