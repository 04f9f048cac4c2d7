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
Package provider implements the cluster providers supported by llmkind.

A provider hides the tool actually creating the cluster: the kind provider uses kind as a library,
while the minikube provider drives the minikube CLI.
*/
package provider

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"
	kindv1alpha4 "sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
	kindlog "sigs.k8s.io/kind/pkg/log"

	"github.com/llmkind/llmkind/pkg/cluster/status"
	"github.com/llmkind/llmkind/pkg/constants"
	lexec "github.com/llmkind/llmkind/pkg/exec"
	"github.com/llmkind/llmkind/pkg/sizing"
)

// Provider manages the lifecycle of local clusters
type Provider interface {
	// Name of the provider
	Name() string

	// Exists returns true if a cluster with the given name exists
	Exists(ctx context.Context, name string) (bool, error)

	// List returns the name of the existing clusters
	List(ctx context.Context) ([]string, error)

	// Create creates a new cluster
	Create(ctx context.Context, req CreateRequest) error

	// Delete deletes an existing cluster
	Delete(ctx context.Context, name string) error

	// Status returns the provider level status of a cluster.
	// A cluster that does not exist is reported with Exists=false and no error.
	Status(ctx context.Context, name string) (*status.Cluster, error)

	// KubeConfig returns the kubeconfig for accessing the cluster from the host
	KubeConfig(ctx context.Context, name string) (string, error)
}

// CreateRequest holds all the settings used at create time
type CreateRequest struct {
	Name    string
	Profile sizing.Profile

	// KindConfig is the generated kind config (kind only)
	KindConfig *kindv1alpha4.Cluster

	// NodeImage overrides the kind node image (kind only)
	NodeImage string

	// KubernetesVersion to install (minikube only, kind uses the node image)
	KubernetesVersion string

	// Driver is the minikube driver (minikube only)
	Driver string

	// GPUs exposes the host GPUs to the cluster
	GPUs bool

	// Addons are minikube addons enabled at start time (minikube only)
	Addons []string

	// Retain preserves nodes for debugging when creation fails
	Retain bool

	// WaitForReady is how long to wait for the control-plane to be ready
	WaitForReady time.Duration
}

// Options used for creating a provider
type Options struct {
	// Runner executes external CLIs
	Runner lexec.Runner

	// KindRuntime forces the kind node runtime: docker, podman or empty for auto-detect
	KindRuntime string

	// Logger used by kind
	Logger kindlog.Logger
}

var factories = map[string]func(Options) (Provider, error){
	constants.KindProvider:     newKindProvider,
	constants.MinikubeProvider: newMinikubeProvider,
}

// Known returns the list of known providers
func Known() []string {
	names := []string{}
	for n := range factories {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// New returns the provider with the given name
func New(name string, o Options) (Provider, error) {
	f, ok := factories[name]
	if !ok {
		return nil, errors.Errorf("%q is not a valid provider. Use one of %s", name, Known())
	}
	if o.Runner == nil {
		o.Runner = lexec.NewHostRunner(false)
	}
	return f(o)
}

// CleanupContext returns a context for deleting a cluster that failed to be created.
// It is not canceled with ctx, e.g. on SIGINT, but it is bounded by DefaultCleanupTimeout.
func CleanupContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), constants.DefaultCleanupTimeout)
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}
