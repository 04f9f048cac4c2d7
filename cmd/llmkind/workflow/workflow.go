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

// Package workflow implements the workflow command
package workflow

import (
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llmkind/llmkind/cmd/llmkind/options"
	"github.com/llmkind/llmkind/pkg/workflow"
)

// NewCommand returns a new cobra.Command for workflow commands
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Args:  cobra.NoArgs,
		Use:   "workflow",
		Short: "Lists or runs workflows",
		Long: "Lists or runs workflows.\n\n" +
			"A workflow is a sequence of tasks with prerequisites, like a Makefile target.\n" +
			"Built-in workflows are embedded in llmkind; custom workflows are YAML files.",
	}
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newVerifyCommand())
	return cmd
}

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Args:  cobra.NoArgs,
		Use:   "list",
		Short: "Lists the built-in workflows",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, name := range workflow.Builtins() {
				wf, err := workflow.Lookup(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\n", name, firstLine(wf.Summary))
			}
			return w.Flush()
		},
	}
}

func firstLine(s string) string {
	for i, c := range s {
		if c == '\n' {
			return s[:i]
		}
	}
	return s
}

func newVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Args:  cobra.MinimumNArgs(1),
		Use:   "verify WORKFLOW...",
		Short: "Verifies workflows can be run, without executing them",
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, name := range args {
				if err := workflow.Verify(name); err != nil {
					log.Errorf("%s: %v", name, err)
					failed = true
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s OK\n", name)
			}
			if failed {
				return errors.New("some workflows failed verification")
			}
			return nil
		},
	}
}

type runFlagpole struct {
	DryRun      bool
	Verbose     bool
	ExitOnError bool
}

func newRunCommand() *cobra.Command {
	flags := &runFlagpole{}
	cmd := &cobra.Command{
		Use: "run [flags] WORKFLOW [ARTIFACTS]\n\n" +
			"Args:\n" +
			"  WORKFLOW is the name of a built-in workflow or the path of a workflow file\n" +
			"  ARTIFACTS is the path to the directory where to store task logs and the junit report\n",
		Short: "Runs a workflow",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runE(flags, cmd, args)
		},
	}
	cmd.Flags().BoolVar(
		&flags.DryRun,
		"dry-run", false,
		"only prints workflow commands, without executing them",
	)
	cmd.Flags().BoolVar(
		&flags.Verbose,
		"verbose", false,
		"redirect command output to stdout",
	)
	cmd.Flags().BoolVar(
		&flags.ExitOnError,
		"exit-on-task-error", false,
		"exit after first task failed",
	)
	return cmd
}

func runE(flags *runFlagpole, cmd *cobra.Command, args []string) error {
	if err := options.Apply(cmd.Flags()); err != nil {
		return err
	}

	artifacts := ""
	if len(args) > 1 {
		artifacts = args[1]
	}

	w, err := workflow.Expand(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := options.SignalContext()
	defer cancel()

	return w.Run(ctx, workflow.RunOptions{
		DryRun:      flags.DryRun,
		Verbose:     flags.Verbose,
		ExitOnError: flags.ExitOnError,
		Artifacts:   artifacts,
		Out:         cmd.OutOrStdout(),
	})
}
