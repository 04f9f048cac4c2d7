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
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	jsonpatch "gopkg.in/evanphx/json-patch.v4"
	kindv1alpha4 "sigs.k8s.io/kind/pkg/apis/config/v1alpha4"
	"sigs.k8s.io/yaml"
)

// ApplyPatches applies a list of RFC 7386 merge patches to a kind config.
// Patches can be YAML or JSON. Please note that merge patches replace lists
// as a whole, so patching nodes requires the full list of nodes.
func ApplyPatches(cfg *kindv1alpha4.Cluster, patches []string) (*kindv1alpha4.Cluster, error) {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "error converting kind config to JSON")
	}

	for i, p := range patches {
		patch, err := yaml.YAMLToJSON([]byte(p))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse patch %d", i)
		}
		doc, err = jsonpatch.MergePatch(doc, patch)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to apply patch %d", i)
		}
	}

	patched := &kindv1alpha4.Cluster{}
	if err := yaml.UnmarshalStrict(doc, patched); err != nil {
		return nil, errors.Wrap(err, "patched kind config is not valid")
	}
	if err := Validate(patched); err != nil {
		return nil, errors.Wrap(err, "patched kind config is not valid")
	}
	return patched, nil
}

// ReadPatchFiles reads patches from files
func ReadPatchFiles(paths []string) ([]string, error) {
	patches := []string{}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, errors.Wrapf(err, "error reading patch file %s", p)
		}
		patches = append(patches, string(data))
	}
	return patches, nil
}
