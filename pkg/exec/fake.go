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
	"sync"
)

// FakeRunner is a Runner recording the commands it is asked to run, for testing.
// Responses are matched by command text prefix, e.g. "minikube status".
type FakeRunner struct {
	mu        sync.Mutex
	Commands  []string
	Responses map[string]FakeResponse
}

// FakeResponse defines the output and error returned by a FakeRunner
type FakeResponse struct {
	Lines []string
	Err   error
}

var _ Runner = &FakeRunner{}

// NewFakeRunner returns a FakeRunner with no responses registered
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Responses: map[string]FakeResponse{}}
}

// On registers the response for commands starting with prefix
func (r *FakeRunner) On(prefix string, lines []string, err error) *FakeRunner {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Responses[prefix] = FakeResponse{Lines: lines, Err: err}
	return r
}

func (r *FakeRunner) respond(ctx context.Context, name string, args ...string) FakeResponse {
	// like exec.CommandContext, nothing is started once the context is done
	if ctx != nil && ctx.Err() != nil {
		return FakeResponse{Err: ctx.Err()}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	text := strings.TrimSpace(name + " " + strings.Join(args, " "))
	r.Commands = append(r.Commands, text)

	// longest prefix wins
	var best string
	for prefix := range r.Responses {
		if strings.HasPrefix(text, prefix) && len(prefix) > len(best) {
			best = prefix
		}
	}
	if best == "" {
		return FakeResponse{}
	}
	return r.Responses[best]
}

// Run implements Runner
func (r *FakeRunner) Run(ctx context.Context, name string, args ...string) error {
	return r.respond(ctx, name, args...).Err
}

// RunWithEcho implements Runner
func (r *FakeRunner) RunWithEcho(ctx context.Context, name string, args ...string) error {
	return r.respond(ctx, name, args...).Err
}

// Output implements Runner
func (r *FakeRunner) Output(ctx context.Context, name string, args ...string) ([]string, error) {
	resp := r.respond(ctx, name, args...)
	return resp.Lines, resp.Err
}

// Ran returns true if a command starting with prefix was run
func (r *FakeRunner) Ran(prefix string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.Commands {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}
