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

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func header(year string) string {
	lines := []string{"/*"}
	for _, l := range boilerPlate {
		lines = append(lines, strings.TrimRight(strings.ReplaceAll(l, yearPlaceholder, year), " "))
	}
	return strings.Join(append(lines, "*/", ""), "\n")
}

func TestVerifyBoilerplate(t *testing.T) {
	cases := []struct {
		TestName    string
		Contents    string
		ExpectError bool
	}{
		{
			TestName: "valid",
			Contents: header("2026") + "\npackage foo\n",
		},
		{
			TestName: "valid with leading blank line",
			Contents: "\n" + header("2025") + "\npackage foo\n",
		},
		{
			TestName:    "missing",
			Contents:    "package foo\n",
			ExpectError: true,
		},
		{
			TestName:    "wrong owner",
			Contents:    strings.Replace(header("2026"), "llmkind", "Kubernetes", 1),
			ExpectError: true,
		},
		{
			TestName:    "invalid year",
			Contents:    header("20xx"),
			ExpectError: true,
		},
		{
			TestName:    "truncated",
			Contents:    strings.Join(strings.Split(header("2026"), "\n")[:6], "\n"),
			ExpectError: true,
		},
	}

	for _, c := range cases {
		t.Run(c.TestName, func(t *testing.T) {
			err := verifyBoilerplate(c.Contents)
			if (err != nil) != c.ExpectError {
				t.Errorf("expected error %t, got %v", c.ExpectError, err)
			}
		})
	}
}

func TestVerifyTree(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"ok.go":                header("2026") + "\npackage foo\n",
		"bad.go":               "package foo\n",
		"README.md":            "# not verified\n",
		"_examples/other.go":   "package other\n",
		"pkg/nested/nested.go": header("2026") + "\npackage nested\n",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	failures, err := verifyTree(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(failures) != 1 || failures[filepath.Join(root, "bad.go")] == nil {
		t.Errorf("expected only bad.go to fail, got %v", failures)
	}
}
