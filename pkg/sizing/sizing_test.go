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

package sizing

import (
	"reflect"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		name          string
		size          string
		expectedWork  int
		expectedError bool
	}{
		{
			name:         "small preset",
			size:         "small",
			expectedWork: 1,
		},
		{
			name:         "large preset",
			size:         "large",
			expectedWork: 4,
		},
		{
			name:          "unknown preset",
			size:          "huge",
			expectedError: true,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p, err := Lookup(test.size)
			if (err != nil) != test.expectedError {
				t.Fatalf("expected error: %v, found %v, error: %v", test.expectedError, err != nil, err)
			}
			if test.expectedError {
				return
			}
			if p.Workers != test.expectedWork {
				t.Errorf("expected %d workers, found %d", test.expectedWork, p.Workers)
			}
			if err := p.Validate(); err != nil {
				t.Errorf("preset %s is not valid: %v", test.size, err)
			}
		})
	}
}

func TestKnown(t *testing.T) {
	expected := []string{"large", "medium", "small"}
	if known := Known(); !reflect.DeepEqual(known, expected) {
		t.Errorf("expected %v, found %v", expected, known)
	}
}

func TestWithOverrides(t *testing.T) {
	zero := 0
	base, _ := Lookup("medium")

	p := base.WithOverrides(Overrides{Workers: &zero, CPUs: 6})
	if p.Workers != 0 {
		t.Errorf("expected workers override to 0, found %d", p.Workers)
	}
	if p.CPUs != 6 {
		t.Errorf("expected cpus override to 6, found %d", p.CPUs)
	}
	if p.MemoryMB != base.MemoryMB {
		t.Errorf("expected memory to be preserved, found %d", p.MemoryMB)
	}
	if base.Workers != 2 {
		t.Errorf("overrides should not modify the preset, found %d workers", base.Workers)
	}
}

func TestValidate(t *testing.T) {
	valid, _ := Lookup("small")

	tests := []struct {
		name          string
		mutate        func(p *Profile)
		expectedError bool
	}{
		{name: "valid", mutate: func(p *Profile) {}},
		{name: "no control-plane", mutate: func(p *Profile) { p.ControlPlanes = 0 }, expectedError: true},
		{name: "negative workers", mutate: func(p *Profile) { p.Workers = -1 }, expectedError: true},
		{name: "single cpu", mutate: func(p *Profile) { p.CPUs = 1 }, expectedError: true},
		{name: "low memory", mutate: func(p *Profile) { p.MemoryMB = 1024 }, expectedError: true},
		{name: "low disk", mutate: func(p *Profile) { p.DiskGB = 5 }, expectedError: true},
		{name: "no nodes", mutate: func(p *Profile) { p.Nodes = 0 }, expectedError: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := valid
			test.mutate(&p)
			err := p.Validate()
			if (err != nil) != test.expectedError {
				t.Errorf("expected error: %v, found %v, error: %v", test.expectedError, err != nil, err)
			}
		})
	}
}
