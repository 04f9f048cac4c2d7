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

// Package version implements the version command
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	kindversion "sigs.k8s.io/kind/pkg/cmd/kind/version"

	"github.com/llmkind/llmkind/pkg/constants"
)

// NewCommand returns a new cobra.Command for version
func NewCommand() *cobra.Command {
	return &cobra.Command{
		Args:  cobra.NoArgs,
		Use:   "version",
		Short: "Prints the llmkind CLI version",
		Long:  "Prints the llmkind CLI version, and the version of kind it embeds",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "llmkind v%s (kind %s) %s %s/%s\n",
				constants.Version, kindversion.Version(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
