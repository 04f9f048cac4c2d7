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

/*
Package exec provides utilities for running commands on the host, e.g. minikube, kubectl and helm.

By default, when the command is run it does not print any output generated during execution;
the command text is printed to stdout before execution unless Silent is set.

See Silent, Stdin, Dir, DryRun, RunWithEcho, RunAndCapture and RunAndCaptureStdout for possible variations to the default behavior.
*/
package exec

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	log "github.com/sirupsen/logrus"
)

// HostCmd allows to run a command on the host
type HostCmd struct {
	ctx     context.Context
	command string
	args    []string
	env     []string
	dir     string
	silent  bool
	dryRun  bool
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// NewHostCmd returns a new HostCmd to run a command on a host
func NewHostCmd(ctx context.Context, command string, args ...string) *HostCmd {
	if ctx == nil {
		ctx = context.Background()
	}
	return &HostCmd{
		ctx:     ctx,
		command: command,
		args:    args,
	}
}

// Run execute the command
func (c *HostCmd) Run() error {
	return c.runInnerCommand()
}

// RunWithEcho execute the command and echoes the command output to screen
func (c *HostCmd) RunWithEcho() error {
	c.stdout = os.Stdout
	c.stderr = os.Stderr
	return c.runInnerCommand()
}

// RunAndCapture executes the command and return the output captured during execution
func (c *HostCmd) RunAndCapture() (lines []string, err error) {
	var buff bytes.Buffer
	c.stdout = &buff
	c.stderr = &buff
	err = c.runInnerCommand()
	return splitLines(&buff), err
}

// RunAndCaptureStdout executes the command and returns stdout and stderr captured separately,
// so machine readable output is not mixed with warnings
func (c *HostCmd) RunAndCaptureStdout() (stdout, stderr []string, err error) {
	var outBuff, errBuff bytes.Buffer
	c.stdout = &outBuff
	c.stderr = &errBuff
	err = c.runInnerCommand()
	return splitLines(&outBuff), splitLines(&errBuff), err
}

func splitLines(r io.Reader) (lines []string) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines
}

// Stdin sets an io.Reader to be used for streaming data in input to the command
func (c *HostCmd) Stdin(in io.Reader) *HostCmd {
	c.stdin = in
	return c
}

// SetEnv sets env variables to be used when running the command, in addition to the OS ones
func (c *HostCmd) SetEnv(env ...string) *HostCmd {
	c.env = env
	return c
}

// Dir sets the working directory of the command
func (c *HostCmd) Dir(dir string) *HostCmd {
	c.dir = dir
	return c
}

// Silent instructs the command to not print the command text to stdout before execution
func (c *HostCmd) Silent() *HostCmd {
	c.silent = true
	return c
}

// DryRun instruct the command to print the command text instead of running it.
func (c *HostCmd) DryRun() *HostCmd {
	c.dryRun = true
	return c
}

// String returns the command text
func (c *HostCmd) String() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", c.command, strings.Join(c.args, " ")))
}

func (c *HostCmd) runInnerCommand() error {
	// create the command
	cmd := exec.CommandContext(c.ctx, c.command, c.args...)

	// redirects flows if requested
	if c.stdin != nil {
		cmd.Stdin = c.stdin
	}
	if c.stdout != nil {
		cmd.Stdout = c.stdout
	}
	if c.stderr != nil {
		cmd.Stderr = c.stderr
	}
	if c.dir != "" {
		cmd.Dir = c.dir
	}
	if len(c.env) > 0 {
		cmd.Env = append(os.Environ(), c.env...)
	}

	// if not silent, prints the screen echo for the command to be executed
	if !c.silent {
		fmt.Printf("$ %s\n", c.String())
	}

	// if we are dry running, eventually print the command and then exit
	if c.dryRun {
		log.Debugf("Dry-running: %s", strings.Join(cmd.Args, " "))
		return nil
	}

	log.Debugf("Running: %s", strings.Join(cmd.Args, " "))
	return cmd.Run()
}
