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

// Package sizing defines the resource presets used to size local clusters for inference workloads
package sizing

import (
	"sort"

	"github.com/pkg/errors"
)

// Profile describes the resources allocated to a local cluster
type Profile struct {
	// Name of the preset this profile was derived from
	Name string

	// ControlPlanes is the number of kind control-plane nodes
	ControlPlanes int

	// Workers is the number of kind worker nodes
	Workers int

	// CPUs allocated to each minikube node
	CPUs int

	// MemoryMB allocated to each minikube node
	MemoryMB int

	// DiskGB allocated to each minikube node
	DiskGB int

	// Nodes is the number of minikube nodes
	Nodes int
}

// Overrides holds explicit values that take precedence over a preset.
// Zero values are ignored; Workers uses a pointer because zero workers is a valid override.
type Overrides struct {
	ControlPlanes int
	Workers       *int
	CPUs          int
	MemoryMB      int
	DiskGB        int
	Nodes         int
}

var presets = map[string]Profile{
	"small": {
		Name:          "small",
		ControlPlanes: 1,
		Workers:       1,
		CPUs:          4,
		MemoryMB:      8192,
		DiskGB:        50,
		Nodes:         1,
	},
	"medium": {
		Name:          "medium",
		ControlPlanes: 1,
		Workers:       2,
		CPUs:          8,
		MemoryMB:      16384,
		DiskGB:        100,
		Nodes:         1,
	},
	"large": {
		Name:          "large",
		ControlPlanes: 1,
		Workers:       4,
		CPUs:          16,
		MemoryMB:      32768,
		DiskGB:        200,
		Nodes:         2,
	},
}

// Known returns the list of known presets
func Known() []string {
	names := []string{}
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the preset with the given name
func Lookup(name string) (Profile, error) {
	p, ok := presets[name]
	if !ok {
		return Profile{}, errors.Errorf("%q is not a valid size. Use one of %s", name, Known())
	}
	return p, nil
}

// WithOverrides returns a copy of the profile with explicit values applied
func (p Profile) WithOverrides(o Overrides) Profile {
	if o.ControlPlanes != 0 {
		p.ControlPlanes = o.ControlPlanes
	}
	if o.Workers != nil {
		p.Workers = *o.Workers
	}
	if o.CPUs != 0 {
		p.CPUs = o.CPUs
	}
	if o.MemoryMB != 0 {
		p.MemoryMB = o.MemoryMB
	}
	if o.DiskGB != 0 {
		p.DiskGB = o.DiskGB
	}
	if o.Nodes != 0 {
		p.Nodes = o.Nodes
	}
	return p
}

// Validate checks the profile describes a cluster that can actually be started
func (p Profile) Validate() error {
	switch {
	case p.ControlPlanes < 1:
		return errors.Errorf("at least one control-plane node is required, got %d", p.ControlPlanes)
	case p.Workers < 0:
		return errors.Errorf("the number of worker nodes should not be a negative number, got %d", p.Workers)
	case p.CPUs < 2:
		return errors.Errorf("at least 2 CPUs are required, got %d", p.CPUs)
	case p.MemoryMB < 2048:
		return errors.Errorf("at least 2048 MB of memory are required, got %d", p.MemoryMB)
	case p.DiskGB < 10:
		return errors.Errorf("at least 10 GB of disk are required, got %d", p.DiskGB)
	case p.Nodes < 1:
		return errors.Errorf("at least one node is required, got %d", p.Nodes)
	}
	return nil
}
