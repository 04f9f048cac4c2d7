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

package exec

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// maxErrorLines caps the command output attached to errors
const maxErrorLines = 20

// Runner runs commands on the host.
// Packages driving external CLIs depend on this interface so tests can replace the host.
type Runner interface {
	// Run runs the command, printing only the command text
	Run(ctx context.Context, name string, args ...string) error

	// RunWithEcho runs the command echoing its output to screen
	RunWithEcho(ctx context.Context, name string, args ...string) error

	// Output runs the command silently and returns its stdout lines;
	// stderr is reported only in the error
	Output(ctx context.Context, name string, args ...string) ([]string, error)
}

// HostRunner is a Runner executing commands on the local host
type HostRunner struct {
	// DryRun prints commands instead of running them
	DryRun bool

	// Env holds additional environment variables for every command
	Env []string
}

var _ Runner = &HostRunner{}

// NewHostRunner returns a new HostRunner
func NewHostRunner(dryRun bool) *HostRunner {
	return &HostRunner{DryRun: dryRun}
}

func (r *HostRunner) command(ctx context.Context, name string, args ...string) *HostCmd {
	c := NewHostCmd(ctx, name, args...).SetEnv(r.Env...)
	if r.DryRun {
		c.DryRun()
	}
	return c
}

// Run implements Runner
func (r *HostRunner) Run(ctx context.Context, name string, args ...string) error {
	c := r.command(ctx, name, args...)
	lines, err := c.RunAndCapture()
	return wrapError(err, c.String(), lines)
}

// RunWithEcho implements Runner
func (r *HostRunner) RunWithEcho(ctx context.Context, name string, args ...string) error {
	c := r.command(ctx, name, args...)
	return wrapError(c.RunWithEcho(), c.String(), nil)
}

// Output implements Runner.
// Output commands are read-only, so they are executed also when dry running
func (r *HostRunner) Output(ctx context.Context, name string, args ...string) ([]string, error) {
	c := NewHostCmd(ctx, name, args...).SetEnv(r.Env...).Silent()
	stdout, stderr, err := c.RunAndCaptureStdout()
	if err != nil {
		return stdout, wrapError(err, c.String(), append(append([]string{}, stdout...), stderr...))
	}
	if len(stderr) > 0 {
		log.Debugf("%s stderr:\n%s", c.String(), strings.Join(stderr, "\n"))
	}
	return stdout, nil
}

func wrapError(err error, cmdText string, output []string) error {
	if err == nil {
		return nil
	}
	if len(output) > maxErrorLines {
		output = output[len(output)-maxErrorLines:]
	}
	if len(output) == 0 {
		return errors.Wrapf(err, "command %q failed", cmdText)
	}
	return errors.Wrapf(err, "command %q failed with output:\n%s", cmdText, strings.Join(output, "\n"))
}
