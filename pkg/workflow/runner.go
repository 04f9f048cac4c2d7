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
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// taskCmdRunner executes the taskCmd of a workflow one after the other and records
// the outcome of each of them in a junit test suite
type taskCmdRunner struct {
	out   io.Writer
	start time.Time
	suite junitTestSuite

	// halted is the reason why tasks not marked as force are no longer executed,
	// empty until a task fails, times out or the run is interrupted
	halted string
}

// junitTestSuite is the junit testsuite element written to junit_runner.xml
type junitTestSuite struct {
	XMLName  xml.Name        `xml:"testsuite"`
	Name     string          `xml:"name,attr,omitempty"`
	Failures int             `xml:"failures,attr"`
	Tests    int             `xml:"tests,attr"`
	Time     float64         `xml:"time,attr"`
	Cases    []junitTestCase `xml:"testcase"`
}

// junitTestCase is a junit testcase element; each task is a test case
type junitTestCase struct {
	XMLName   xml.Name `xml:"testcase"`
	ClassName string   `xml:"classname,attr"`
	Name      string   `xml:"name,attr"`
	Time      float64  `xml:"time,attr"`
	Failure   string   `xml:"failure,omitempty"`
	Skipped   string   `xml:"skipped,omitempty"`
}

func newTaskCmdRunner(name string, out io.Writer) *taskCmdRunner {
	return &taskCmdRunner{
		out:   out,
		start: time.Now(),
		suite: junitTestSuite{Name: name},
	}
}

// Run executes t, unless an earlier task halted the workflow and t is not forced.
// The returned error describes why t failed or was skipped.
func (c *taskCmdRunner) Run(ctx context.Context, t *taskCmd, artifacts string, verbose bool) error {
	if c.halted != "" && !t.Force {
		return c.record(t.Name, 0, "", "not executed, "+c.halted)
	}

	logFile := filepath.Join(artifacts, fmt.Sprintf("%s-log.txt", t.Name))
	f, err := os.Create(logFile)
	if err != nil {
		return errors.Wrapf(err, "error creating log file for task %s", t.Name)
	}
	defer f.Close()
	writeTaskHeader(f, t)

	var w io.Writer = f
	if verbose {
		w = io.MultiWriter(f, c.out)
	}
	t.Cmd.Stdout = w
	t.Cmd.Stderr = w

	start := time.Now()
	if err := t.Cmd.Start(); err != nil {
		c.halted = fmt.Sprintf("task %s failed", t.Name)
		return c.record(t.Name, time.Since(start), errors.Wrap(err, "error starting task").Error(), "")
	}

	done := make(chan error, 1)
	go func() {
		done <- t.Cmd.Wait()
	}()

	deadline := time.NewTimer(t.Timeout.Duration)
	defer deadline.Stop()

	select {
	case err := <-done:
		if err != nil && t.IgnoreError {
			log.Debugf("task %s failed, error ignored: %v", t.Name, err)
			err = nil
		}
		if err == nil {
			return c.record(t.Name, time.Since(start), "", "")
		}
		c.halted = fmt.Sprintf("task %s failed", t.Name)
		return c.record(t.Name, time.Since(start), err.Error(), "")

	case <-ctx.Done():
		killProcessGroup(t.Cmd, done)
		c.halted = "the workflow was interrupted"
		return c.record(t.Name, time.Since(start), "interrupted while running", "")

	case <-deadline.C:
		killProcessGroup(t.Cmd, done)
		c.halted = fmt.Sprintf("task %s exceeded its timeout", t.Name)
		return c.record(t.Name, time.Since(start), fmt.Sprintf("still running after the %s timeout", t.Timeout), "")
	}
}

func writeTaskHeader(w io.Writer, t *taskCmd) {
	line := strings.Repeat("=", 80)
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "task:    %s\n", t.Name)
	if d := strings.TrimSpace(t.Description); d != "" {
		fmt.Fprintf(w, "about:   %s\n", d)
	}
	fmt.Fprintf(w, "run:     %s\n", t.CmdText)
	fmt.Fprintf(w, "timeout: %s, force: %t, ignoreError: %t\n", t.Timeout, t.Force, t.IgnoreError)
	fmt.Fprintf(w, "%s\n\n", line)
}

// Failures returns the number of tasks that failed, timed out or were interrupted
func (c *taskCmdRunner) Failures() int {
	return c.suite.Failures
}

// ReportSummary writes the task counters of the run
func (c *taskCmdRunner) ReportSummary() {
	c.suite.Time = time.Since(c.start).Seconds()

	skipped := 0
	for _, tc := range c.suite.Cases {
		if tc.Skipped != "" {
			skipped++
		}
	}
	executed := c.suite.Tests - skipped
	passed := executed - c.suite.Failures

	result := "PASSED"
	if c.suite.Failures > 0 {
		result = "FAILED"
	}
	fmt.Fprintf(c.out, "%s: %d tasks executed out of %d in %.3fs\n", result, executed, c.suite.Tests, c.suite.Time)
	fmt.Fprintf(c.out, "passed %d, failed %d, skipped %d\n\n", passed, c.suite.Failures, skipped)
}

// DumpJUnitRunner writes junit_runner.xml into the artifacts folder
func (c *taskCmdRunner) DumpJUnitRunner(artifacts string) error {
	c.suite.Time = time.Since(c.start).Seconds()

	data, err := xml.MarshalIndent(&c.suite, "", "    ")
	if err != nil {
		return errors.Wrap(err, "error encoding the junit report")
	}
	file := filepath.Join(artifacts, "junit_runner.xml")
	if err := os.WriteFile(file, append([]byte(xml.Header), data...), 0o644); err != nil {
		return errors.Wrapf(err, "error writing %s", file)
	}
	return nil
}

// record adds a test case for a task; a non empty failure or skipped message
// is returned as error as well
func (c *taskCmdRunner) record(name string, elapsed time.Duration, failure, skipped string) error {
	c.suite.Cases = append(c.suite.Cases, junitTestCase{
		ClassName: "llmkind.workflow",
		Name:      name,
		Time:      elapsed.Seconds(),
		Failure:   failure,
		Skipped:   skipped,
	})
	c.suite.Tests++

	switch {
	case failure != "":
		c.suite.Failures++
		return errors.New(failure)
	case skipped != "":
		return errors.New(skipped)
	}
	return nil
}

// killProcessGroup stops the task and everything it spawned, then waits for Wait to return
func killProcessGroup(cmd *exec.Cmd, done <-chan error) {
	if cmd.Process == nil {
		return
	}
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
		_ = cmd.Process.Kill()
	}
	<-done
}
