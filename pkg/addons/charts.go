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

package addons

import (
	"context"
	"fmt"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/llmkind/llmkind/pkg/constants"
)

const (
	helmCmd     = "helm"
	minikubeCmd = "minikube"

	helmRetryAttempts = 3
)

// HelmRetryDelay is the initial delay between helm repo attempts
var HelmRetryDelay = 2 * time.Second

// chart defines a helm chart installed as an addon
type chart struct {
	repoName  string
	repoURL   string
	chart     string
	release   string
	namespace string
	values    []string
}

var ingressChart = chart{
	repoName:  "ingress-nginx",
	repoURL:   "https://kubernetes.github.io/ingress-nginx",
	chart:     "ingress-nginx/ingress-nginx",
	release:   "ingress-nginx",
	namespace: "ingress-nginx",
	values: []string{
		"--set", "controller.hostPort.enabled=true",
		"--set", "controller.service.type=NodePort",
		"--set", "controller.watchIngressWithoutClass=true",
		"--set-string", fmt.Sprintf("controller.nodeSelector.%s=true", constants.IngressReadyLabel),
		"--set", "controller.tolerations[0].key=node-role.kubernetes.io/control-plane",
		"--set", "controller.tolerations[0].operator=Exists",
		"--set", "controller.tolerations[0].effect=NoSchedule",
	},
}

var metricsServerChart = chart{
	repoName:  "metrics-server",
	repoURL:   "https://kubernetes-sigs.github.io/metrics-server/",
	chart:     "metrics-server/metrics-server",
	release:   "metrics-server",
	namespace: "kube-system",
	values: []string{
		"--set", "args={--kubelet-insecure-tls}",
	},
}

// Ingress installs the ingress-nginx controller
func Ingress(ctx context.Context, t *Target, wait time.Duration) error {
	if t.Provider == constants.MinikubeProvider {
		return enableMinikubeAddon(ctx, t, "ingress")
	}
	return installChart(ctx, t, ingressChart, wait)
}

// MetricsServer installs the metrics-server, required by the horizontal pod autoscaler
func MetricsServer(ctx context.Context, t *Target, wait time.Duration) error {
	if t.Provider == constants.MinikubeProvider {
		return enableMinikubeAddon(ctx, t, "metrics-server")
	}
	return installChart(ctx, t, metricsServerChart, wait)
}

func enableMinikubeAddon(ctx context.Context, t *Target, addon string) error {
	return t.Runner.RunWithEcho(ctx, minikubeCmd, "addons", "enable", addon, "-p", t.Name)
}

func installChart(ctx context.Context, t *Target, c chart, wait time.Duration) error {
	if t.KubeConfigPath == "" {
		return errors.Errorf("a kubeconfig file is required for installing the %s chart", c.chart)
	}

	// repo operations hit the network, so they are retried
	err := retry.Do(func() error {
		if err := t.Runner.Run(ctx, helmCmd, "repo", "add", c.repoName, c.repoURL, "--force-update"); err != nil {
			return err
		}
		return t.Runner.Run(ctx, helmCmd, "repo", "update", c.repoName)
	},
		retry.Attempts(helmRetryAttempts),
		retry.Delay(HelmRetryDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warnf("helm repo %s not available (attempt %d): %v", c.repoName, n+1, err)
		}),
	)
	if err != nil {
		return errors.Wrapf(err, "failed to add helm repo %s", c.repoName)
	}

	args := []string{
		"upgrade", "--install", c.release, c.chart,
		"--namespace", c.namespace,
		"--create-namespace",
		"--kubeconfig", t.KubeConfigPath,
	}
	args = append(args, c.values...)
	if wait > 0 {
		args = append(args, "--wait", "--timeout", wait.String())
	}
	return t.Runner.RunWithEcho(ctx, helmCmd, args...)
}
