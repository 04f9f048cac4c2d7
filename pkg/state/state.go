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

// Package state locates the directory where llmkind keeps its local state
package state

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/llmkind/llmkind/pkg/constants"
)

// Dir returns the llmkind state directory: the value of LLMKIND_STATE_DIR if set,
// otherwise ~/.llmkind
func Dir() (string, error) {
	if dir := os.Getenv(constants.StateDirEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to locate the user home directory")
	}
	return filepath.Join(home, constants.DefaultStateDirName), nil
}

// EnsureDir returns the path of a sub directory of the state directory, creating it if necessary
func EnsureDir(elem ...string) (string, error) {
	base, err := Dir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(append([]string{base}, elem...)...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "failed to create directory %s", dir)
	}
	return dir, nil
}
