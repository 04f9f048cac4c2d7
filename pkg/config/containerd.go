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

package config

import (
	"github.com/pelletier/go-toml"
	"github.com/pkg/errors"
)

const (
	nvidiaRuntimeName   = "nvidia"
	nvidiaRuntimeBinary = "/usr/bin/nvidia-container-runtime"
	runcV2RuntimeType   = "io.containerd.runc.v2"
)

var (
	criContainerdFieldPath = []string{"plugins", "io.containerd.grpc.v1.cri", "containerd"}
	defaultRuntimeField    = append(criContainerdFieldPath, "default_runtime_name")
	nvidiaRuntimeTypeField = append(criContainerdFieldPath, "runtimes", nvidiaRuntimeName, "runtime_type")
	nvidiaBinaryNameField  = append(criContainerdFieldPath, "runtimes", nvidiaRuntimeName, "options", "BinaryName")
)

// NvidiaContainerdPatch returns a containerd config patch that makes the nvidia
// container runtime the default runtime inside kind nodes
func NvidiaContainerdPatch() (string, error) {
	tree, err := toml.TreeFromMap(map[string]interface{}{})
	if err != nil {
		return "", errors.WithStack(err)
	}

	tree.SetPath(copyPath(defaultRuntimeField), nvidiaRuntimeName)
	tree.SetPath(copyPath(nvidiaRuntimeTypeField), runcV2RuntimeType)
	tree.SetPath(copyPath(nvidiaBinaryNameField), nvidiaRuntimeBinary)

	data, err := tree.ToTomlString()
	if err != nil {
		return "", errors.Wrap(err, "error rendering containerd config patch")
	}
	return data, nil
}

// copyPath avoids field paths sharing the same backing array
func copyPath(p []string) []string {
	return append([]string{}, p...)
}
