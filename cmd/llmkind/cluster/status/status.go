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

// Package status implements the cluster status command
package status

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/llmkind/llmkind/cmd/llmkind/options"
	lexec "github.com/llmkind/llmkind/pkg/exec"
)

type flagpole struct {
	options.ClusterFlags
	Output string
}

// NewCommand returns a new cobra.Command for getting the cluster status
func NewCommand() *cobra.Command {
	flags := &flagpole{}
	cmd := &cobra.Command{
		Args:  cobra.NoArgs,
		Use:   "status",
		Short: "Prints the status of a local cluster",
		Long:  "Prints the status of a local cluster, including node readiness when the API server is reachable",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(flags, cmd, args)
		},
	}
	options.AddClusterFlags(cmd, &flags.ClusterFlags)
	cmd.Flags().StringVarP(
		&flags.Output,
		"output", "o", "",
		"output format, one of json, yaml; human readable if not set",
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
	s, err := manager.Status(ctx, flags.Name)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch flags.Output {
	case "":
		s.Print(out)
	case "json":
		b, err := json.MarshalIndent(s, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(b))
	case "yaml":
		b, err := yaml.Marshal(s)
		if err != nil {
			return err
		}
		fmt.Fprint(out, string(b))
	default:
		return errors.Errorf("invalid output format %q. Use one of [json, yaml]", flags.Output)
	}
	return nil
}
