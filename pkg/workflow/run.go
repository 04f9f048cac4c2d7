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

package workflow

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// RunIDEnv is the env variable exposing the workflow run id to tasks
const RunIDEnv = "LLMKIND_RUN_ID"

// RunOptions holds options supplied to Workflow.Run
type RunOptions struct {
	// DryRun prints the tasks without executing them
	DryRun bool

	// Verbose echoes the task output
	Verbose bool

	// ExitOnError stops the workflow at the first failing task; the following tasks, forced ones included, are not run
	ExitOnError bool

	// Artifacts is the folder where task logs and the junit report are stored
	Artifacts string

	// Self is the path of the llmkind binary, available in templates as {{ .self }}
	Self string

	// Out is where progress is printed
	Out io.Writer
}

// Run executes a workflow. An error is returned if any task fails.
func (w *Workflow) Run(ctx context.Context, o RunOptions) error {
	if o.Out == nil {
		o.Out = os.Stdout
	}
	if o.Self == "" {
		self, err := os.Executable()
		if err != nil {
			return errors.Wrap(err, "error getting the llmkind binary path")
		}
		o.Self = self
	}

	builder, err := newTaskCmdBuilder(w, o.Self)
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	builder.env[RunIDEnv] = runID

	// if artifact folder is not provided as input argument check
	// 1. ARTIFACTS env var from the workflow file
	// 2. ARTIFACTS OS env var (already in the builder env)
	// Otherwise generate an artifact folder (or dummy placeholder in case of dry running)
	artifacts := o.Artifacts
	if artifacts == "" {
		artifacts = builder.env["ARTIFACTS"]
	}
	if artifacts == "" {
		if o.DryRun {
			artifacts = "<tmp-folder>"
		} else {
			artifacts = filepath.Join(os.TempDir(), fmt.Sprintf("llmkind-workflow-%s", runID[:8]))
		}
	}
	if !o.DryRun {
		if err := os.MkdirAll(artifacts, 0o755); err != nil {
			return errors.Wrapf(err, "error creating artifact folder %s", artifacts)
		}
	}
	builder.env["ARTIFACTS"] = artifacts
	log.Debugf("workflow %s run %s, artifacts in %s", w.Name, runID, artifacts)

	// all the templates are expanded before starting any task, so formal errors
	// are detected before any real activity
	tcmds := []*taskCmd{}
	for _, t := range w.Tasks {
		tcmd, err := builder.build(t)
		if err != nil {
			return err
		}
		tcmds = append(tcmds, tcmd)
	}

	runner := newTaskCmdRunner(w.Name, o.Out)
	for _, tcmd := range tcmds {
		fmt.Fprintf(o.Out, "# %s\n", tcmd.Name)
		fmt.Fprintf(o.Out, "%s\n\n", tcmd.CmdText)

		if o.DryRun {
			continue
		}
		if err := runner.Run(ctx, tcmd, artifacts, o.Verbose); err != nil {
			fmt.Fprintf(o.Out, " %v\n\n", err)
			if o.ExitOnError && runner.Failures() > 0 {
				break
			}
			continue
		}
		fmt.Fprintf(o.Out, " completed!\n\n")
	}

	if o.DryRun {
		return nil
	}

	runner.ReportSummary()
	if err := runner.DumpJUnitRunner(artifacts); err != nil {
		return err
	}
	fmt.Fprintf(o.Out, "see %s and task logs files for more details\n\n", filepath.Join(artifacts, "junit_runner.xml"))

	if runner.Failures() > 0 {
		return errors.Errorf("workflow %s failed: %d tasks failed", w.Name, runner.Failures())
	}
	return nil
}

// Verify checks a workflow can be run: its needs are resolved and all the
// templates of its tasks are expanded, without executing any task
func Verify(name string) error {
	w, err := Expand(name)
	if err != nil {
		return err
	}
	return w.Run(context.Background(), RunOptions{
		DryRun:    true,
		Artifacts: "ARTIFACTS",
		Self:      "llmkind",
		Out:       io.Discard,
	})
}
