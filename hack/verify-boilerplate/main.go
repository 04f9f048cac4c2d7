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

// verify-boilerplate checks that the source files of the repository start with the llmkind license header.
//
// usage: go run ./hack/verify-boilerplate [ROOT]
package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	yearPlaceholder  = "YEAR"
	boilerPlateStart = "Copyright "
	boilerPlateEnd   = "limitations under the License."
)

var (
	supportedExt = []string{".go", ".sh"}
	skippedDirs  = []string{".git", "_examples", "vendor"}
	yearRegexp   = regexp.MustCompile("^20[0-9][0-9]$")
	boilerPlate  = []string{
		boilerPlateStart + yearPlaceholder + " The llmkind Authors.",
		"",
		`Licensed under the Apache License, Version 2.0 (the "License");`,
		"you may not use this file except in compliance with the License.",
		"You may obtain a copy of the License at",
		"",
		"    http://www.apache.org/licenses/LICENSE-2.0",
		"",
		"Unless required by applicable law or agreed to in writing, software",
		`distributed under the License is distributed on an "AS IS" BASIS,`,
		"WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.",
		"See the License for the specific language governing permissions and",
		boilerPlateEnd,
	}
)

// trimComment strips the comment markers used around the boilerplate
func trimComment(line string) string {
	for _, c := range []string{"//", "#", "/*", "*/"} {
		if strings.HasPrefix(line, c) {
			line = strings.TrimPrefix(line[len(c):], " ")
		}
	}
	return line
}

func isSupportedFile(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range supportedExt {
		if e == ext {
			return true
		}
	}
	return false
}

// verifyBoilerplate verifies if a string starts with the boilerplate
func verifyBoilerplate(contents string) error {
	idx := 0
	found := false
	for _, line := range strings.Split(contents, "\n") {
		line = trimComment(line)

		expected := ""
		switch {
		case !found && strings.HasPrefix(line, boilerPlateStart):
			found = true
			words := strings.Split(line, " ")
			if len(words) != len(strings.Split(boilerPlate[0], " ")) {
				return errors.Errorf("copyright line should be %q", boilerPlate[0])
			}
			if !yearRegexp.MatchString(words[1]) {
				return errors.New("cannot parse the year in the copyright line")
			}
			expected = strings.ReplaceAll(boilerPlate[0], yearPlaceholder, words[1])
		case found:
			expected = boilerPlate[idx]
		case strings.TrimSpace(line) == "":
			continue
		default:
			return errors.New("the file is missing a boilerplate")
		}

		if line != expected {
			return errors.Errorf("boilerplate line %d does not match\nexpected: %q\ngot: %q", idx+1, expected, line)
		}
		idx++
		if idx == len(boilerPlate) {
			return nil
		}
	}

	if !found {
		return errors.New("the file is missing a boilerplate")
	}
	return errors.New("boilerplate has missing lines")
}

// verifyTree verifies all the supported files under root, returning the files without a valid boilerplate
func verifyTree(root string) (map[string]error, error) {
	failures := map[string]error{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			for _, s := range skippedDirs {
				if d.Name() == s {
					return filepath.SkipDir
				}
			}
			return nil
		}
		if !isSupportedFile(path) {
			return nil
		}
		b, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "error reading %s", path)
		}
		if err := verifyBoilerplate(string(b)); err != nil {
			failures[path] = err
		}
		return nil
	})
	return failures, err
}

func main() {
	root := "."
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	failures, err := verifyTree(root)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		os.Exit(1)
	}
	for path, err := range failures {
		fmt.Printf("error validating %q: %v\n", path, err)
	}
	if len(failures) > 0 {
		os.Exit(1)
	}
}
