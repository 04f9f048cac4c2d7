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

package options

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/llmkind/llmkind/pkg/constants"
	"github.com/llmkind/llmkind/pkg/sizing"
)

// SizeFlags are the flags selecting the cluster size
type SizeFlags struct {
	Size          string
	ControlPlanes int
	Workers       int
	CPUs          int
	MemoryMB      int
	DiskGB        int
	Nodes         int
}

// AddSizeFlags adds the flags selecting the cluster size to a command
func AddSizeFlags(cmd *cobra.Command, flags *SizeFlags) {
	cmd.Flags().StringVar(
		&flags.Size,
		"size", constants.DefaultSize,
		"cluster size preset, one of "+strings.Join(sizing.Known(), ", "),
	)
	cmd.Flags().IntVar(
		&flags.ControlPlanes,
		"control-plane-nodes", 0,
		"number of control-plane nodes, overrides the size preset",
	)
	cmd.Flags().IntVar(
		&flags.Workers,
		"worker-nodes", 0,
		"number of worker nodes, overrides the size preset",
	)
	cmd.Flags().IntVar(
		&flags.CPUs,
		"cpus", 0,
		"CPUs for the minikube cluster, overrides the size preset",
	)
	cmd.Flags().IntVar(
		&flags.MemoryMB,
		"memory", 0,
		"memory in MB for the minikube cluster, overrides the size preset",
	)
	cmd.Flags().IntVar(
		&flags.DiskGB,
		"disk-size", 0,
		"disk size in GB for the minikube cluster, overrides the size preset",
	)
	cmd.Flags().IntVar(
		&flags.Nodes,
		"nodes", 0,
		"number of minikube nodes, overrides the size preset",
	)
}

// Profile returns the size profile selected by the flags
func (f *SizeFlags) Profile(cmd *cobra.Command) (sizing.Profile, error) {
	p, err := sizing.Lookup(f.Size)
	if err != nil {
		return p, err
	}

	o := sizing.Overrides{}
	if cmd.Flags().Changed("control-plane-nodes") {
		if f.ControlPlanes < 1 {
			return p, errors.Errorf("flag --control-plane-nodes should be at least 1, got %d", f.ControlPlanes)
		}
		o.ControlPlanes = f.ControlPlanes
	}
	if cmd.Flags().Changed("worker-nodes") {
		workers := f.Workers
		o.Workers = &workers
	}
	o.CPUs = f.CPUs
	o.MemoryMB = f.MemoryMB
	o.DiskGB = f.DiskGB
	o.Nodes = f.Nodes

	p = p.WithOverrides(o)
	return p, p.Validate()
}
