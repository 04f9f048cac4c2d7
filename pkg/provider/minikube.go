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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/llmkind/llmkind/pkg/cluster/status"
	"github.com/llmkind/llmkind/pkg/constants"
	lexec "github.com/llmkind/llmkind/pkg/exec"
)

const (
	minikubeCmd = "minikube"
	kubectlCmd  = "kubectl"
)

// markers printed by minikube when no profile exists yet
var noProfileMarkers = []string{"MK_USAGE_NO_PROFILE", "No minikube profile was found"}

// MinikubeProvider creates clusters by driving the minikube CLI
type MinikubeProvider struct {
	runner lexec.Runner
}

var _ Provider = &MinikubeProvider{}

func newMinikubeProvider(o Options) (Provider, error) {
	return &MinikubeProvider{runner: o.Runner}, nil
}

// NewMinikubeProvider returns a minikube provider using the given runner
func NewMinikubeProvider(runner lexec.Runner) *MinikubeProvider {
	return &MinikubeProvider{runner: runner}
}

// Name implements Provider
func (p *MinikubeProvider) Name() string {
	return constants.MinikubeProvider
}

type minikubeProfile struct {
	Name   string
	Status string
}

type minikubeProfileList struct {
	Invalid []minikubeProfile `json:"invalid"`
	Valid   []minikubeProfile `json:"valid"`
}

func (p *MinikubeProvider) profiles(ctx context.Context) ([]minikubeProfile, error) {
	lines, err := p.runner.Output(ctx, minikubeCmd, "profile", "list", "-o", "json")
	out := strings.Join(lines, "\n")
	if err != nil {
		for _, m := range noProfileMarkers {
			if strings.Contains(out, m) || strings.Contains(err.Error(), m) {
				return nil, nil
			}
		}
		return nil, errors.Wrap(err, "failed to list minikube profiles")
	}

	list := minikubeProfileList{}
	if err := json.Unmarshal([]byte(jsonPayload(out)), &list); err != nil {
		return nil, errors.Wrap(err, "failed to parse minikube profile list")
	}
	return list.Valid, nil
}

// List implements Provider
func (p *MinikubeProvider) List(ctx context.Context) ([]string, error) {
	profiles, err := p.profiles(ctx)
	if err != nil {
		return nil, err
	}
	names := []string{}
	for _, pr := range profiles {
		names = append(names, pr.Name)
	}
	return names, nil
}

// Exists implements Provider
func (p *MinikubeProvider) Exists(ctx context.Context, name string) (bool, error) {
	names, err := p.List(ctx)
	if err != nil {
		return false, err
	}
	return contains(names, name), nil
}

// StartArgs returns the arguments for minikube start
func StartArgs(req CreateRequest) []string {
	args := []string{
		"start",
		"-p", req.Name,
		fmt.Sprintf("--cpus=%d", req.Profile.CPUs),
		fmt.Sprintf("--memory=%dmb", req.Profile.MemoryMB),
		fmt.Sprintf("--disk-size=%dg", req.Profile.DiskGB),
		fmt.Sprintf("--nodes=%d", req.Profile.Nodes),
	}
	if req.Driver != "" {
		args = append(args, fmt.Sprintf("--driver=%s", req.Driver))
	}
	if req.KubernetesVersion != "" {
		args = append(args, fmt.Sprintf("--kubernetes-version=%s", req.KubernetesVersion))
	}
	if req.GPUs {
		args = append(args, "--gpus=all")
	}
	for _, a := range req.Addons {
		args = append(args, fmt.Sprintf("--addons=%s", a))
	}
	if req.WaitForReady > 0 {
		args = append(args, "--wait=all", fmt.Sprintf("--wait-timeout=%s", req.WaitForReady))
	}
	return args
}

// Create implements Provider
func (p *MinikubeProvider) Create(ctx context.Context, req CreateRequest) error {
	log.Debugf("Creating minikube cluster %s with %d nodes", req.Name, req.Profile.Nodes)
	if err := p.runner.RunWithEcho(ctx, minikubeCmd, StartArgs(req)...); err != nil {
		if !req.Retain {
			cleanupCtx, cancel := CleanupContext(ctx)
			defer cancel()
			if derr := p.Delete(cleanupCtx, req.Name); derr != nil {
				log.Warnf("failed to cleanup minikube cluster %s: %v", req.Name, derr)
			}
		}
		return errors.Wrapf(err, "failed to create minikube cluster %q", req.Name)
	}
	return nil
}

// Delete implements Provider
func (p *MinikubeProvider) Delete(ctx context.Context, name string) error {
	if err := p.runner.RunWithEcho(ctx, minikubeCmd, "delete", "-p", name); err != nil {
		return errors.Wrapf(err, "failed to delete minikube cluster %q", name)
	}
	return nil
}

type minikubeNodeStatus struct {
	Name      string
	Host      string
	Kubelet   string
	APIServer string
	Worker    bool
}

// parseMinikubeStatus parses the output of minikube status -o json, that is a
// single object for single node clusters and an array for multi node clusters
func parseMinikubeStatus(out string) ([]minikubeNodeStatus, error) {
	payload := jsonPayload(out)
	if strings.HasPrefix(payload, "[") {
		nodes := []minikubeNodeStatus{}
		if err := json.Unmarshal([]byte(payload), &nodes); err != nil {
			return nil, errors.Wrap(err, "failed to parse minikube status")
		}
		return nodes, nil
	}
	n := minikubeNodeStatus{}
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		return nil, errors.Wrap(err, "failed to parse minikube status")
	}
	return []minikubeNodeStatus{n}, nil
}

// Status implements Provider
func (p *MinikubeProvider) Status(ctx context.Context, name string) (*status.Cluster, error) {
	c := &status.Cluster{
		Name:     name,
		Provider: p.Name(),
	}

	exists, err := p.Exists(ctx, name)
	if err != nil || !exists {
		return c, err
	}
	c.Exists = true

	// minikube status exits non zero when the cluster is not running, but it still prints the status
	lines, err := p.runner.Output(ctx, minikubeCmd, "status", "-p", name, "-o", "json")
	nodes, perr := parseMinikubeStatus(strings.Join(lines, "\n"))
	if perr != nil {
		if err != nil {
			return nil, errors.Wrapf(err, "failed to get status for minikube cluster %q", name)
		}
		return nil, perr
	}

	for _, n := range nodes {
		role := constants.ControlPlaneNodeRoleValue
		if n.Worker {
			role = constants.WorkerNodeRoleValue
		}
		c.Nodes = append(c.Nodes, &status.Node{
			Name:      n.Name,
			Role:      role,
			Host:      n.Host,
			Kubelet:   n.Kubelet,
			APIServer: n.APIServer,
		})
		if !n.Worker && c.Host == "" {
			c.Host = n.Host
		}
	}
	c.Nodes.Sort()
	return c, nil
}

// KubeConfig implements Provider
func (p *MinikubeProvider) KubeConfig(ctx context.Context, name string) (string, error) {
	lines, err := p.runner.Output(ctx, kubectlCmd, "config", "view", "--minify", "--flatten", "--raw", "--context", name)
	if err != nil {
		return "", errors.Wrapf(err, "failed to get kubeconfig for cluster %q", name)
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// jsonPayload drops any line printed before the JSON document, e.g. minikube update notices
func jsonPayload(out string) string {
	if i := strings.IndexAny(out, "{["); i > 0 {
		return out[i:]
	}
	return strings.TrimSpace(out)
}
