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
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"
	"syscall"
	"text/template"

	"github.com/pkg/errors"
)

// taskCmd defines a command that will execute the action defined in task action
// along with all the properties/setting that define how this command should behave
// in the workflow
type taskCmd struct {
	*Task
	Cmd     *exec.Cmd
	CmdText string
}

// taskCmdBuilder provide support for creating taskCmd, taking care of the context
// defined by Vars and Env variables
type taskCmdBuilder struct {
	self string
	env  map[string]string
	vars map[string]string
}

// newTaskCmdBuilder return a new taskCmdBuilder
func newTaskCmdBuilder(w *Workflow, self string) (c *taskCmdBuilder, err error) {
	c = &taskCmdBuilder{
		self: self,
		env:  map[string]string{},
		vars: map[string]string{},
	}

	// loads OS environment variables into the taskCmdBuilder context
	for _, e := range os.Environ() {
		name, value, _ := strings.Cut(e, "=")
		c.env[name] = value
	}

	// process vars defined in the workflow
	for _, n := range sortedKeys(w.Vars) {
		c.vars[n], err = c.expand(w.Vars[n])
		if err != nil {
			return nil, errors.Wrapf(err, "error expanding the %q var", n)
		}
	}

	// process additional environment variables defined in the workflow
	for _, n := range sortedKeys(w.Env) {
		c.env[n], err = c.expand(w.Env[n])
		if err != nil {
			return nil, errors.Wrapf(err, "error expanding the %q env var", n)
		}
	}

	return c, nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// expand takes a string that might contain a golang template and process it
// using Vars and Env variables as a context
func (c *taskCmdBuilder) expand(text string) (string, error) {
	templ, err := template.New("").Option("missingkey=error").Parse(text)
	if err != nil {
		return "", errors.Wrapf(err, "%q is not a valid expression", text)
	}

	var b bytes.Buffer
	if err = templ.Execute(&b, map[string]interface{}{
		"env":  c.env,
		"vars": c.vars,
		"self": c.self,
	}); err != nil {
		return "", errors.Wrapf(err, "expression %q returned an error", text)
	}
	return b.String(), nil
}

// build creates a taskCmd. The task is not modified, so the same workflow can be built many times.
func (c *taskCmdBuilder) build(t *Task) (*taskCmd, error) {
	cmdName, err := c.expand(t.Cmd)
	if err != nil {
		return nil, errors.Wrapf(err, "error expanding cmd for task %q", t.Name)
	}
	args := make([]string, len(t.Args))
	for n, v := range t.Args {
		args[n], err = c.expand(v)
		if err != nil {
			return nil, errors.Wrapf(err, "error expanding args[%d] for task %q", n, t.Name)
		}
	}

	cmd := exec.Command(cmdName, args...)
	cmdText := strings.TrimSpace(fmt.Sprintf("%s %s", cmdName, strings.Join(args, " ")))

	if t.Dir != "" {
		cmd.Dir = t.Dir
	}

	for _, k := range sortedKeys(c.env) {
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, c.env[k]))
	}

	// sets the command in order to have a gid that will allows to identify
	// all the child process eventually created by the task
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	return &taskCmd{
		Task:    t,
		Cmd:     cmd,
		CmdText: cmdText,
	}, nil
}
