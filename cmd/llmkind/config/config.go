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

// Package config implements the config command
package config

import (
	"github.com/spf13/cobra"

	"github.com/llmkind/llmkind/cmd/llmkind/config/render"
)

// NewCommand returns a new cobra.Command for kind config commands
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Args:  cobra.NoArgs,
		Use:   "config",
		Short: "Commands for kind cluster configs",
		Long:  "Commands for kind cluster configs",
	}
	cmd.AddCommand(render.NewCommand())
	return cmd
}
