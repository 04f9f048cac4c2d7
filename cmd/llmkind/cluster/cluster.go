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

// Package cluster implements the cluster command
package cluster

import (
	"github.com/spf13/cobra"

	"github.com/llmkind/llmkind/cmd/llmkind/cluster/create"
	"github.com/llmkind/llmkind/cmd/llmkind/cluster/destroy"
	"github.com/llmkind/llmkind/cmd/llmkind/cluster/kubeconfig"
	"github.com/llmkind/llmkind/cmd/llmkind/cluster/list"
	"github.com/llmkind/llmkind/cmd/llmkind/cluster/status"
)

// NewCommand returns a new cobra.Command for cluster lifecycle commands
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Args:  cobra.NoArgs,
		Use:   "cluster",
		Short: "Creates, inspects or destroys local clusters",
		Long:  "Creates, inspects or destroys local clusters for LLM inference using kind or minikube",
	}
	cmd.AddCommand(create.NewCommand())
	cmd.AddCommand(destroy.NewCommand())
	cmd.AddCommand(status.NewCommand())
	cmd.AddCommand(list.NewCommand())
	cmd.AddCommand(kubeconfig.NewCommand())
	return cmd
}
