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
Package workflow implements llmkind workflows, sequences of commands with prerequisites
replacing the Makefile targets commonly used for driving local LLM clusters.
*/
package workflow

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"sigs.k8s.io/yaml"
)

// DefaultTaskTimeout is the timeout assigned to tasks not defining one
const DefaultTaskTimeout = 5 * time.Minute

// Workflow represents a list of tasks to be executed and related context
type Workflow struct {
	// Name of the workflow, e.g. the built-in name or the file path
	Name string `json:"-"`

	// Version of the workflow file. Only version 1 is supported.
	Version int `json:"version"`

	// Summary provides an high level description of the workflow
	Summary string `json:"summary,omitempty"`

	// Vars defines a set of variables used for golang template expansion.
	// Vars are processed in alphabetical order, and OS environment variables and already known Vars
	// can be used in templates for other vars.
	// Vars will be accessible as {{ .vars.KEY }}
	Vars map[string]string `json:"vars,omitempty"`

	// Env defines a list of env variables to be passed to the task commands (in addition to OS env variables).
	// Env variables can be used for golang template expansion using {{ .env.KEY }}
	Env map[string]string `json:"env,omitempty"`

	// Tasks defines the list of tasks to be executed
	Tasks Tasks `json:"tasks"`
}

// Tasks represents a list of tasks to be executed during a workflow.
// Task are executed in order; if a task fails, timeouts or it is canceled by the user,
// following task are skipped (unless execution is explicitly forced on a specific task)
type Tasks []*Task

// Task represents a task to be executed as part of a workflow
type Task struct {
	Name string `json:"name,omitempty"`

	// Description of the task
	Description string `json:"description,omitempty"`

	// Needs lists the workflows to be executed before this task, like Makefile prerequisites.
	// A task with Needs may omit Cmd.
	Needs []string `json:"needs,omitempty"`

	// Dir allows to set the working directory for this tasks
	Dir string `json:"dir,omitempty"`

	// Cmd to execute; it can be a literal or a template
	Cmd string `json:"cmd,omitempty"`

	// Args allows to set Cmd arguments; args can be a literal or a template
	Args []string `json:"args,omitempty"`

	// Force sets a task to be executed no matter of the result of the previous task.
	// This allows e.g. to define cleanup tasks to be always executed
	Force bool `json:"force,omitempty"`

	// IgnoreError makes a failure of this task not block the following tasks
	IgnoreError bool `json:"ignoreError,omitempty"`

	// Timeout for the task, 5m by default
	Timeout Duration `json:"timeout,omitempty"`
}

// Duration is a time.Duration serialized as a string, e.g. 5m0s.
// Numbers are accepted as nanoseconds.
type Duration struct {
	time.Duration
}

// MarshalJSON implements json.Marshaler
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
		return nil
	case string:
		var err error
		d.Duration, err = time.ParseDuration(value)
		return err
	default:
		return errors.Errorf("invalid duration %s", string(b))
	}
}

// Parse creates a workflow from its YAML definition
func Parse(name string, data []byte) (*Workflow, error) {
	w := &Workflow{}
	if err := yaml.UnmarshalStrict(data, w); err != nil {
		return nil, errors.Wrapf(err, "error unmarshalling workflow %s", name)
	}
	w.Name = name

	// checks minimum requirements
	// - version is set and well know
	// - at least one task exists
	if w.Version != 1 {
		return nil, errors.Errorf("invalid workflow %s: version does not contain a supported value", name)
	}
	if len(w.Tasks) == 0 {
		return nil, errors.Errorf("invalid workflow %s: at least one task should be defined", name)
	}

	for i, t := range w.Tasks {
		if t.Cmd == "" && len(t.Needs) == 0 {
			return nil, errors.Errorf("invalid workflow %s: task %d does not define a cmd", name, i)
		}
		if t.Timeout.Duration == 0 {
			t.Timeout.Duration = DefaultTaskTimeout
		}
	}
	return w, nil
}

// Load creates a workflow as defined in a workflow file
func Load(file string) (*Workflow, error) {
	if _, err := os.Stat(file); err != nil {
		return nil, errors.Errorf("invalid workflow file: %s does not exist", file)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading workflow file %s", file)
	}
	return Parse(file, data)
}

// Lookup returns a built-in workflow or, if name is not a built-in, loads the workflow file with the given path
func Lookup(name string) (*Workflow, error) {
	if data, ok := builtin(name); ok {
		return Parse(name, data)
	}
	if _, err := os.Stat(name); err != nil {
		return nil, errors.Errorf("%q is not a valid workflow. Use one of %s or a workflow file", name, Builtins())
	}
	return Load(name)
}

// Expand resolves the Needs of the named workflow, returning a single workflow where
// all the needed tasks are executed first. Each workflow is included once, and cycles are an error.
// Vars and Env of needed workflows are merged, with the top level workflow taking precedence.
func Expand(name string) (*Workflow, error) {
	e := &expander{
		visited:  map[string]bool{},
		visiting: map[string]bool{},
		result: &Workflow{
			Version: 1,
			Vars:    map[string]string{},
			Env:     map[string]string{},
		},
	}
	top, err := e.expand(name, nil)
	if err != nil {
		return nil, err
	}
	e.result.Name = top.Name
	e.result.Summary = top.Summary

	// top level vars and env take precedence
	for k, v := range top.Vars {
		e.result.Vars[k] = v
	}
	for k, v := range top.Env {
		e.result.Env[k] = v
	}

	// prepend a prefix to task names in order to get task logs ordered
	for i, t := range e.result.Tasks {
		if t.Name == "" {
			t.Name = fmt.Sprintf("task-%d", i)
		} else {
			t.Name = fmt.Sprintf("task-%d-%s", i, t.Name)
		}
	}
	return e.result, nil
}

type expander struct {
	visited  map[string]bool
	visiting map[string]bool
	result   *Workflow
}

func (e *expander) expand(name string, path []string) (*Workflow, error) {
	path = append(path, name)
	if e.visiting[name] {
		return nil, errors.Errorf("workflow %s has a dependency cycle: %v", path[0], path)
	}

	w, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	e.visiting[name] = true
	defer delete(e.visiting, name)

	for _, t := range w.Tasks {
		for _, n := range t.Needs {
			if e.visited[n] {
				continue
			}
			needed, err := e.expand(n, path)
			if err != nil {
				return nil, err
			}
			for k, v := range needed.Vars {
				e.result.Vars[k] = v
			}
			for k, v := range needed.Env {
				e.result.Env[k] = v
			}
		}
		if t.Cmd != "" {
			e.result.Tasks = append(e.result.Tasks, t)
		}
	}
	e.visited[name] = true
	return w, nil
}
