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
Package config generates and loads the kind cluster configuration used for creating
local clusters sized for inference workloads.

The rest of llmkind should use this package instead of building kind types directly.
*/
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	kindv1alpha4 "sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
	"sigs.k8s.io/yaml"

	"github.com/llmkind/llmkind/pkg/constants"
	"github.com/llmkind/llmkind/pkg/sizing"
)

const (
	kindAPIVersion = "kind.x-k8s.io/v1alpha4"
	kindKind       = "Cluster"
)

// Options defines the knobs used for generating a kind config
type Options struct {
	// Name of the cluster
	Name string

	// Profile defines the number of nodes
	Profile sizing.Profile

	// HTTPPort is the host port mapped on port 80 of the ingress node
	HTTPPort int32

	// HTTPSPort is the host port mapped on port 443 of the ingress node
	HTTPSPort int32

	// NodeImage overrides the kind node image
	NodeImage string

	// GPUs instructs the config to expose the host GPUs to every node
	GPUs bool

	// ModelCacheDir is a host directory mounted on every node, so model weights are downloaded once
	ModelCacheDir string

	// Patches are RFC 7386 merge patches (YAML or JSON) applied on top of the generated config
	Patches []string
}

// NewConfig returns the kind config according to the given options
func NewConfig(o Options) (*kindv1alpha4.Cluster, error) {
	if err := o.Profile.Validate(); err != nil {
		return nil, err
	}
	if err := validatePort("http", o.HTTPPort); err != nil {
		return nil, err
	}
	if err := validatePort("https", o.HTTPSPort); err != nil {
		return nil, err
	}
	if o.HTTPPort == o.HTTPSPort {
		return nil, errors.Errorf("http and https host ports must be different, both are %d", o.HTTPPort)
	}

	cfg := &kindv1alpha4.Cluster{
		TypeMeta: kindv1alpha4.TypeMeta{
			Kind:       kindKind,
			APIVersion: kindAPIVersion,
		},
		Name:  o.Name,
		Nodes: []kindv1alpha4.Node{},
	}

	if o.GPUs {
		patch, err := NvidiaContainerdPatch()
		if err != nil {
			return nil, err
		}
		cfg.ContainerdConfigPatches = append(cfg.ContainerdConfigPatches, patch)
	}

	// adds the control-plane node(s); the first one hosts the ingress controller
	for i := 0; i < o.Profile.ControlPlanes; i++ {
		n := newNode(kindv1alpha4.ControlPlaneRole, o)
		if i == 0 {
			n.Labels = map[string]string{constants.IngressReadyLabel: "true"}
			n.ExtraPortMappings = []kindv1alpha4.PortMapping{
				{
					ContainerPort: constants.IngressHTTPContainerPort,
					HostPort:      o.HTTPPort,
					Protocol:      kindv1alpha4.PortMappingProtocolTCP,
				},
				{
					ContainerPort: constants.IngressHTTPSContainerPort,
					HostPort:      o.HTTPSPort,
					Protocol:      kindv1alpha4.PortMappingProtocolTCP,
				},
			}
		}
		cfg.Nodes = append(cfg.Nodes, n)
	}

	// adds the worker node(s), if any
	for i := 0; i < o.Profile.Workers; i++ {
		n := newNode(kindv1alpha4.WorkerRole, o)
		n.Labels = map[string]string{constants.InferenceNodeLabel: "true"}
		cfg.Nodes = append(cfg.Nodes, n)
	}

	if len(o.Patches) > 0 {
		return ApplyPatches(cfg, o.Patches)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newNode(role kindv1alpha4.NodeRole, o Options) kindv1alpha4.Node {
	n := kindv1alpha4.Node{
		Role:  role,
		Image: o.NodeImage,
	}
	if o.GPUs {
		n.ExtraMounts = append(n.ExtraMounts, kindv1alpha4.Mount{
			HostPath:      "/dev/null",
			ContainerPath: constants.NvidiaDevicesContainerPath,
		})
	}
	if o.ModelCacheDir != "" {
		n.ExtraMounts = append(n.ExtraMounts, kindv1alpha4.Mount{
			HostPath:      o.ModelCacheDir,
			ContainerPath: constants.ModelCacheContainerPath,
		})
	}
	return n
}

func validatePort(name string, port int32) error {
	if port < 1 || port > 65535 {
		return errors.Errorf("invalid %s port %d: it should be in the range 1-65535", name, port)
	}
	return nil
}

// Validate checks the config describes a cluster kind can create
func Validate(cfg *kindv1alpha4.Cluster) error {
	controlPlanes := 0
	hostPorts := map[string]string{}
	for i, n := range cfg.Nodes {
		switch n.Role {
		case kindv1alpha4.ControlPlaneRole:
			controlPlanes++
		case kindv1alpha4.WorkerRole:
		default:
			return errors.Errorf("node %d has an invalid role %q", i, n.Role)
		}
		for _, m := range n.ExtraPortMappings {
			if m.HostPort == 0 {
				// random host port, can't conflict
				continue
			}
			if err := validatePort("host", m.HostPort); err != nil {
				return err
			}
			key := fmt.Sprintf("%s/%s:%d", m.Protocol, m.ListenAddress, m.HostPort)
			if owner, ok := hostPorts[key]; ok {
				return errors.Errorf("host port %d is mapped twice (%s and node %d)", m.HostPort, owner, i)
			}
			hostPorts[key] = fmt.Sprintf("node %d", i)
		}
	}
	// an empty node list is defaulted by kind to a single control-plane
	if controlPlanes == 0 && len(cfg.Nodes) > 0 {
		return errors.Errorf("please add at least one node with role %q", kindv1alpha4.ControlPlaneRole)
	}
	return nil
}

// Marshal returns the YAML representation of a kind config
func Marshal(cfg *kindv1alpha4.Cluster) ([]byte, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "error marshaling kind config")
	}
	return data, nil
}

// Load reads the file at path and attempts to convert it into a kind config.
// If path == "-" then reads from stdin
func Load(path string) (*kindv1alpha4.Cluster, error) {
	var contents []byte
	var err error

	if path == "-" {
		contents, err = io.ReadAll(os.Stdin)
	} else {
		contents, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error reading kind config %s", path)
	}

	cfg := &kindv1alpha4.Cluster{}
	if err = yaml.UnmarshalStrict(contents, cfg); err != nil {
		return nil, errors.Wrap(err, "error unmarshaling kind config")
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WriteFile writes the kind config into dir and returns the path of the generated file
func WriteFile(cfg *kindv1alpha4.Cluster, dir string) (string, error) {
	data, err := Marshal(cfg)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "error creating %s", dir)
	}
	name := cfg.Name
	if name == "" {
		name = constants.DefaultClusterName
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-kind-config.yaml", name))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrapf(err, "error writing kind config to %s", path)
	}
	return path, nil
}
