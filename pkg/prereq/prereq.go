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

// Package prereq checks the host has the tools required for managing local clusters
package prereq

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/pkg/errors"
	kinderrors "sigs.k8s.io/kind/pkg/errors"

	"github.com/llmkind/llmkind/pkg/constants"
	lexec "github.com/llmkind/llmkind/pkg/exec"
)

// LookPathFunc resolves a binary name into its path, e.g. exec.LookPath
type LookPathFunc func(file string) (string, error)

// Requirement defines a tool, or a set of alternative tools, needed by a provider
type Requirement struct {
	// Name used for reporting
	Name string

	// Alternatives lists binaries satisfying the requirement; the first one found wins
	Alternatives []string

	// Required marks requirements that make the provider unusable when missing
	Required bool

	// Purpose explains what the tool is used for
	Purpose string

	// Probe are args of a command verifying the tool is actually usable, e.g. the docker daemon is running
	Probe []string
}

// Result of checking a requirement
type Result struct {
	Requirement
	Tool string
	Path string
	Err  error
}

// Ok returns true if the requirement is satisfied
func (r Result) Ok() bool {
	return r.Err == nil
}

// Report is the result of checking all the requirements for a provider
type Report struct {
	Provider string
	Results  []Result
}

var requirements = map[string][]Requirement{
	constants.KindProvider: {
		{Name: "container engine", Alternatives: []string{"docker", "podman"}, Required: true, Purpose: "runs kind node containers", Probe: []string{"info"}},
		{Name: "kubectl", Alternatives: []string{"kubectl"}, Required: true, Purpose: "talks to the cluster"},
		{Name: "kind", Alternatives: []string{"kind"}, Purpose: "optional, kind is embedded in llmkind"},
		{Name: "helm", Alternatives: []string{"helm"}, Purpose: "installs the ingress and metrics-server addons"},
	},
	constants.MinikubeProvider: {
		{Name: "minikube", Alternatives: []string{"minikube"}, Required: true, Purpose: "creates the cluster"},
		{Name: "kubectl", Alternatives: []string{"kubectl"}, Required: true, Purpose: "talks to the cluster"},
		{Name: "container engine", Alternatives: []string{"docker", "podman"}, Purpose: "optional, needed by the docker/podman minikube drivers"},
		{Name: "helm", Alternatives: []string{"helm"}, Purpose: "optional for minikube, addons are enabled through minikube"},
	},
}

// Requirements returns the requirements of a provider
func Requirements(provider string) ([]Requirement, error) {
	r, ok := requirements[provider]
	if !ok {
		return nil, errors.Errorf("%q is not a valid provider. Use one of [%s, %s]", provider, constants.KindProvider, constants.MinikubeProvider)
	}
	return r, nil
}

// Check verifies all the requirements of a provider.
// Requirements are checked concurrently because probes may be slow, e.g. docker info
// with a daemon not responding.
func Check(ctx context.Context, provider string, lookPath LookPathFunc, runner lexec.Runner) (*Report, error) {
	reqs, err := Requirements(provider)
	if err != nil {
		return nil, err
	}
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	report := &Report{
		Provider: provider,
		Results:  make([]Result, len(reqs)),
	}

	var mu sync.Mutex
	fns := []func() error{}
	for i, req := range reqs {
		i, req := i, req
		fns = append(fns, func() error {
			res := check(ctx, req, lookPath, runner)
			mu.Lock()
			report.Results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := kinderrors.AggregateConcurrent(fns); err != nil {
		return nil, err
	}
	return report, nil
}

func check(ctx context.Context, req Requirement, lookPath LookPathFunc, runner lexec.Runner) Result {
	res := Result{Requirement: req}
	var probeErr error
	for _, tool := range req.Alternatives {
		path, err := lookPath(tool)
		if err != nil {
			continue
		}
		if len(req.Probe) > 0 && runner != nil {
			if _, err := runner.Output(ctx, tool, req.Probe...); err != nil {
				// keep looking, another alternative might be usable
				probeErr = errors.Wrapf(err, "%s is installed but not usable", tool)
				continue
			}
		}
		res.Tool = tool
		res.Path = path
		return res
	}
	if probeErr != nil {
		res.Err = probeErr
		return res
	}
	res.Err = errors.Errorf("none of [%s] found in PATH", strings.Join(req.Alternatives, ", "))
	return res
}

// Err returns an error naming every required tool that is missing, if any
func (r *Report) Err() error {
	missing := []string{}
	for _, res := range r.Results {
		if res.Required && !res.Ok() {
			missing = append(missing, res.Name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return errors.Errorf("missing prerequisites for provider %s: %s", r.Provider, strings.Join(missing, ", "))
}

// Found returns true if the tool satisfying a requirement was found
func (r *Report) Found(name string) bool {
	for _, res := range r.Results {
		if res.Name == name {
			return res.Ok()
		}
	}
	return false
}

// Print writes a human readable version of the report
func (r *Report) Print(w io.Writer) {
	fmt.Fprintf(w, "Prerequisites for provider %s:\n", r.Provider)
	for _, res := range r.Results {
		switch {
		case res.Ok():
			fmt.Fprintf(w, " ✓ %-16s %s (%s)\n", res.Name, res.Tool, res.Path)
		case res.Required:
			fmt.Fprintf(w, " ✗ %-16s %v\n", res.Name, res.Err)
		default:
			fmt.Fprintf(w, " - %-16s not found, %s\n", res.Name, res.Purpose)
		}
	}
}
