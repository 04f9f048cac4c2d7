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

package provider

import (
	"context"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	kindcluster "sigs.k8s.io/kind/pkg/cluster"
	kindnodes "sigs.k8s.io/kind/pkg/cluster/nodes"
	kindcmd "sigs.k8s.io/kind/pkg/cmd"

	"github.com/llmkind/llmkind/pkg/cluster/status"
	"github.com/llmkind/llmkind/pkg/constants"
)

// kindAPI is the subset of the kind cluster provider used by llmkind
type kindAPI interface {
	Create(name string, options ...kindcluster.CreateOption) error
	Delete(name, explicitKubeconfigPath string) error
	List() ([]string, error)
	ListNodes(name string) ([]kindnodes.Node, error)
	KubeConfig(name string, internal bool) (string, error)
}

// KindProvider creates clusters using kind as a library
type KindProvider struct {
	kind kindAPI
}

var _ Provider = &KindProvider{}

func newKindProvider(o Options) (Provider, error) {
	logger := o.Logger
	if logger == nil {
		logger = kindcmd.NewLogger()
	}

	opts := []kindcluster.ProviderOption{kindcluster.ProviderWithLogger(logger)}
	switch o.KindRuntime {
	case "", "auto":
		runtime, err := kindcluster.DetectNodeProvider()
		if err != nil {
			return nil, errors.Wrap(err, "failed to detect a container runtime for kind nodes")
		}
		opts = append(opts, runtime)
	case "docker":
		opts = append(opts, kindcluster.ProviderWithDocker())
	case "podman":
		opts = append(opts, kindcluster.ProviderWithPodman())
	default:
		return nil, errors.Errorf("%q is not a valid kind runtime. Use one of [auto, docker, podman]", o.KindRuntime)
	}

	return &KindProvider{kind: kindcluster.NewProvider(opts...)}, nil
}

// Name implements Provider
func (p *KindProvider) Name() string {
	return constants.KindProvider
}

// List implements Provider
func (p *KindProvider) List(_ context.Context) ([]string, error) {
	clusters, err := p.kind.List()
	if err != nil {
		return nil, errors.Wrap(err, "failed to list kind clusters")
	}
	return clusters, nil
}

// Exists implements Provider
func (p *KindProvider) Exists(ctx context.Context, name string) (bool, error) {
	clusters, err := p.List(ctx)
	if err != nil {
		return false, err
	}
	return contains(clusters, name), nil
}

// Create implements Provider
func (p *KindProvider) Create(_ context.Context, req CreateRequest) error {
	if req.KindConfig == nil {
		return errors.New("a kind config is required for creating a kind cluster")
	}

	opts := []kindcluster.CreateOption{
		kindcluster.CreateWithV1Alpha4Config(req.KindConfig),
		kindcluster.CreateWithRetain(req.Retain),
		kindcluster.CreateWithWaitForReady(req.WaitForReady),
		kindcluster.CreateWithDisplayUsage(false),
		kindcluster.CreateWithDisplaySalutation(false),
	}
	if req.NodeImage != "" {
		opts = append(opts, kindcluster.CreateWithNodeImage(req.NodeImage))
	}

	log.Debugf("Creating kind cluster %s with %d nodes", req.Name, len(req.KindConfig.Nodes))
	if err := p.kind.Create(req.Name, opts...); err != nil {
		return errors.Wrapf(err, "failed to create kind cluster %q", req.Name)
	}
	return nil
}

// Delete implements Provider
func (p *KindProvider) Delete(_ context.Context, name string) error {
	if err := p.kind.Delete(name, ""); err != nil {
		return errors.Wrapf(err, "failed to delete kind cluster %q", name)
	}
	return nil
}

// Status implements Provider
func (p *KindProvider) Status(ctx context.Context, name string) (*status.Cluster, error) {
	c := &status.Cluster{
		Name:     name,
		Provider: p.Name(),
	}

	exists, err := p.Exists(ctx, name)
	if err != nil || !exists {
		return c, err
	}
	c.Exists = true
	c.Host = "running"

	nodes, err := p.kind.ListNodes(name)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list nodes for cluster %q", name)
	}
	for _, n := range nodes {
		role, err := n.Role()
		if err != nil {
			log.Warnf("failed to get role for node %s: %v", n.String(), err)
		}
		c.Nodes = append(c.Nodes, &status.Node{
			Name: n.String(),
			Role: role,
			Host: "running",
		})
	}
	c.Nodes.Sort()
	return c, nil
}

// KubeConfig implements Provider
func (p *KindProvider) KubeConfig(_ context.Context, name string) (string, error) {
	kubeconfig, err := p.kind.KubeConfig(name, false)
	if err != nil {
		return "", errors.Wrapf(err, "failed to get kubeconfig for cluster %q", name)
	}
	return kubeconfig, nil
}
