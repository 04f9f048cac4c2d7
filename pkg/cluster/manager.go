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

/*
Package cluster implements the lifecycle of llmkind clusters.

The Manager composes a provider with the per-cluster lock and the addons, so
every lifecycle operation behaves the same for kind and minikube clusters.
*/
package cluster

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	K8sVersion "k8s.io/apimachinery/pkg/util/version"
	"k8s.io/client-go/kubernetes"
	kindv1alpha4 "sigs.k8s.io/kind/pkg/apis/config/v1alpha4"

	"github.com/llmkind/llmkind/pkg/addons"
	"github.com/llmkind/llmkind/pkg/cluster/status"
	"github.com/llmkind/llmkind/pkg/config"
	"github.com/llmkind/llmkind/pkg/constants"
	lexec "github.com/llmkind/llmkind/pkg/exec"
	"github.com/llmkind/llmkind/pkg/lock"
	"github.com/llmkind/llmkind/pkg/provider"
	"github.com/llmkind/llmkind/pkg/sizing"
	"github.com/llmkind/llmkind/pkg/state"
)

var (
	// ErrClusterExists is returned when creating a cluster that already exists
	ErrClusterExists = errors.New("cluster already exists")

	// ErrClusterNotFound is returned when accessing a cluster that does not exist
	ErrClusterNotFound = errors.New("cluster not found")
)

// ClientFactory returns a client for the cluster with the given kubeconfig
type ClientFactory func(kubeconfig string) (kubernetes.Interface, error)

// Manager manages the lifecycle of llmkind clusters
type Manager struct {
	provider  provider.Provider
	runner    lexec.Runner
	newClient ClientFactory
	out       io.Writer
}

// ManagerOption is a configuration option supplied to NewManager
type ManagerOption func(*Manager)

// WithRunner sets the runner used for invoking helm, kubectl and minikube
func WithRunner(runner lexec.Runner) ManagerOption {
	return func(m *Manager) {
		m.runner = runner
	}
}

// WithClientFactory sets the function creating clients for the cluster API server
func WithClientFactory(f ClientFactory) ManagerOption {
	return func(m *Manager) {
		m.newClient = f
	}
}

// WithOutput sets the writer where progress is printed
func WithOutput(w io.Writer) ManagerOption {
	return func(m *Manager) {
		m.out = w
	}
}

// NewManager returns a cluster manager for the given provider
func NewManager(p provider.Provider, options ...ManagerOption) *Manager {
	m := &Manager{
		provider:  p,
		runner:    lexec.NewHostRunner(false),
		newClient: status.ClientFromKubeConfig,
		out:       os.Stdout,
	}
	for _, o := range options {
		o(m)
	}
	return m
}

// Provider returns the name of the provider used by the manager
func (m *Manager) Provider() string {
	return m.provider.Name()
}

// CreateOptions holds all the settings used at create time
type CreateOptions struct {
	Name    string
	Profile sizing.Profile

	HTTPPort  int32
	HTTPSPort int32

	// NodeImage overrides the kind node image
	NodeImage string

	// KubernetesVersion is the version installed by minikube
	KubernetesVersion string

	// Driver is the minikube driver
	Driver string

	GPUs          bool
	ModelCacheDir string

	// ConfigFile is a kind config file used instead of the generated config
	ConfigFile string

	// Patches are merge patches applied to the generated kind config
	Patches []string

	// Addons are installed after the cluster is ready
	Addons []string

	// Namespace is created by the namespace addon
	Namespace string

	// Retain preserves a cluster that failed to be created, for debugging
	Retain bool

	// WaitForReady is how long to wait for nodes to be ready; zero skips waiting
	WaitForReady time.Duration

	// DryRun prints what would be created without creating it
	DryRun bool
}

func (o *CreateOptions) validate(providerName string) error {
	if o.Name == "" {
		return errors.New("a cluster name is required")
	}
	if err := o.Profile.Validate(); err != nil {
		return err
	}
	if err := addons.Validate(o.Addons...); err != nil {
		return err
	}
	if o.KubernetesVersion != "" {
		if providerName != constants.MinikubeProvider {
			return errors.New("--kubernetes-version is supported by minikube only; use --image for kind")
		}
		if _, err := K8sVersion.ParseSemantic(o.KubernetesVersion); err != nil {
			return errors.Wrapf(err, "invalid kubernetes version %q", o.KubernetesVersion)
		}
	}
	if o.Namespace == "" {
		o.Namespace = constants.DefaultNamespace
	}
	if o.HTTPPort == 0 {
		o.HTTPPort = constants.DefaultHTTPPort
	}
	if o.HTTPSPort == 0 {
		o.HTTPSPort = constants.DefaultHTTPSPort
	}
	return nil
}

// Create creates a new cluster. An error wrapping ErrClusterExists is returned if the cluster already exists.
func (m *Manager) Create(ctx context.Context, o CreateOptions) (err error) {
	if err := o.validate(m.provider.Name()); err != nil {
		return err
	}

	l, err := lock.Acquire(ctx, m.provider.Name(), o.Name)
	if err != nil {
		return err
	}
	defer l.Release()

	exists, err := m.provider.Exists(ctx, o.Name)
	if err != nil {
		return err
	}
	if exists {
		return errors.Wrapf(ErrClusterExists, "%s cluster %q", m.provider.Name(), o.Name)
	}

	req := provider.CreateRequest{
		Name:              o.Name,
		Profile:           o.Profile,
		NodeImage:         o.NodeImage,
		KubernetesVersion: o.KubernetesVersion,
		Driver:            o.Driver,
		GPUs:              o.GPUs,
		Retain:            o.Retain,
		WaitForReady:      o.WaitForReady,
	}
	if m.provider.Name() == constants.KindProvider {
		cfg, err := kindConfig(o)
		if err != nil {
			return err
		}
		req.KindConfig = cfg
	}

	if o.DryRun {
		return m.printPlan(req, o)
	}

	if req.KindConfig != nil {
		dir, err := state.EnsureDir("configs")
		if err != nil {
			return err
		}
		path, err := config.WriteFile(req.KindConfig, dir)
		if err != nil {
			return err
		}
		log.Infof("kind config written to %s", path)
	}

	fmt.Fprintf(m.out, "Creating %s cluster %q (%d control-plane, %d workers)\n", m.provider.Name(), o.Name, o.Profile.ControlPlanes, o.Profile.Workers)
	if err := m.provider.Create(ctx, req); err != nil {
		return err
	}

	// from now on the cluster exists, so it is cleaned up if anything fails
	defer func() {
		if err == nil || o.Retain {
			return
		}
		log.Warnf("deleting cluster %s after failure: %v", o.Name, err)
		cleanupCtx, cancel := provider.CleanupContext(ctx)
		defer cancel()
		if derr := m.provider.Delete(cleanupCtx, o.Name); derr != nil {
			log.Warnf("failed to delete cluster %s: %v", o.Name, derr)
		}
	}()

	kubeconfigPath, client, err := m.connect(ctx, o.Name)
	if err != nil {
		return err
	}

	if o.WaitForReady > 0 {
		fmt.Fprintf(m.out, "Waiting for nodes to become Ready (timeout %s)\n", o.WaitForReady)
		if err := addons.WaitNodesReady(ctx, client, o.WaitForReady); err != nil {
			return err
		}
	}

	if len(o.Addons) > 0 {
		target := m.addonTarget(o.Name, kubeconfigPath, client)
		wait := o.WaitForReady
		if wait == 0 {
			wait = constants.DefaultWaitForReady
		}
		if err := addons.Run(ctx, target, o.Addons, addons.Wait(wait), addons.Namespace(o.Namespace)); err != nil {
			return err
		}
	}

	fmt.Fprintf(m.out, "\nCluster %q is ready. Try:\n\n  kubectl --kubeconfig %s get nodes\n\n", o.Name, kubeconfigPath)
	return nil
}

func kindConfig(o CreateOptions) (*kindv1alpha4.Cluster, error) {
	if o.ConfigFile != "" {
		cfg, err := config.Load(o.ConfigFile)
		if err != nil {
			return nil, err
		}
		if len(o.Patches) > 0 {
			return config.ApplyPatches(cfg, o.Patches)
		}
		return cfg, nil
	}
	return config.NewConfig(config.Options{
		Name:          o.Name,
		Profile:       o.Profile,
		HTTPPort:      o.HTTPPort,
		HTTPSPort:     o.HTTPSPort,
		NodeImage:     o.NodeImage,
		GPUs:          o.GPUs,
		ModelCacheDir: o.ModelCacheDir,
		Patches:       o.Patches,
	})
}

func (m *Manager) printPlan(req provider.CreateRequest, o CreateOptions) error {
	if req.KindConfig != nil {
		b, err := config.Marshal(req.KindConfig)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "Would create kind cluster %q with config:\n%s", o.Name, b)
	} else {
		fmt.Fprintf(m.out, "Would run: minikube %s\n", strings.Join(provider.StartArgs(req), " "))
	}
	if len(o.Addons) > 0 {
		fmt.Fprintf(m.out, "Would install addons: %s\n", strings.Join(o.Addons, ", "))
	}
	return nil
}

// connect writes the kubeconfig of a cluster in the state dir and returns a client for it
func (m *Manager) connect(ctx context.Context, name string) (string, kubernetes.Interface, error) {
	kubeconfig, err := m.provider.KubeConfig(ctx, name)
	if err != nil {
		return "", nil, err
	}
	path, err := kubeConfigPath(m.provider.Name(), name)
	if err != nil {
		return "", nil, err
	}
	if err := os.WriteFile(path, []byte(kubeconfig), 0o600); err != nil {
		return "", nil, errors.Wrapf(err, "failed to write kubeconfig %s", path)
	}
	client, err := m.newClient(kubeconfig)
	if err != nil {
		return "", nil, err
	}
	return path, client, nil
}

func kubeConfigPath(providerName, name string) (string, error) {
	dir, err := state.EnsureDir("kubeconfigs")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%s.yaml", providerName, name)), nil
}

// Destroy deletes a cluster. Deleting a cluster that does not exist is not an error.
func (m *Manager) Destroy(ctx context.Context, name string, dryRun bool) error {
	l, err := lock.Acquire(ctx, m.provider.Name(), name)
	if err != nil {
		return err
	}
	defer l.Release()

	exists, err := m.provider.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		fmt.Fprintf(m.out, "Cluster %q (%s) does not exist, nothing to do\n", name, m.provider.Name())
		return nil
	}

	if dryRun {
		fmt.Fprintf(m.out, "Would delete %s cluster %q\n", m.provider.Name(), name)
		return nil
	}

	fmt.Fprintf(m.out, "Deleting %s cluster %q\n", m.provider.Name(), name)
	if err := m.provider.Delete(ctx, name); err != nil {
		return err
	}

	if path, err := kubeConfigPath(m.provider.Name(), name); err == nil {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warnf("failed to remove kubeconfig %s: %v", path, err)
		}
	}
	return nil
}

// Status returns the status of a cluster. A cluster that does not exist is reported with Exists=false.
// The API server is queried when reachable; otherwise only the provider status is reported.
func (m *Manager) Status(ctx context.Context, name string) (*status.Cluster, error) {
	s, err := m.provider.Status(ctx, name)
	if err != nil {
		return nil, err
	}
	if !s.Exists {
		return s, nil
	}

	kubeconfig, err := m.provider.KubeConfig(ctx, name)
	if err != nil {
		log.Warnf("failed to read kubeconfig for cluster %s: %v", name, err)
		return s, nil
	}
	client, err := m.newClient(kubeconfig)
	if err != nil {
		log.Warnf("failed to connect to cluster %s: %v", name, err)
		return s, nil
	}
	if err := s.EnrichFromAPI(ctx, client); err != nil {
		log.Warnf("API server of cluster %s is not reachable: %v", name, err)
	}
	return s, nil
}

// List returns the clusters known by the provider
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.provider.List(ctx)
}

// KubeConfig returns the kubeconfig of a cluster. An error wrapping ErrClusterNotFound is returned if the cluster does not exist.
func (m *Manager) KubeConfig(ctx context.Context, name string) (string, error) {
	exists, err := m.provider.Exists(ctx, name)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", errors.Wrapf(ErrClusterNotFound, "%s cluster %q", m.provider.Name(), name)
	}
	return m.provider.KubeConfig(ctx, name)
}

// WriteKubeConfig writes the kubeconfig of a cluster in the llmkind state dir and returns its path
func (m *Manager) WriteKubeConfig(ctx context.Context, name string) (string, error) {
	if _, err := m.KubeConfig(ctx, name); err != nil {
		return "", err
	}
	path, _, err := m.connect(ctx, name)
	return path, err
}

// InstallAddons installs addons on an existing cluster
func (m *Manager) InstallAddons(ctx context.Context, name string, names []string, options ...addons.Option) error {
	if err := addons.Validate(names...); err != nil {
		return err
	}
	if _, err := m.KubeConfig(ctx, name); err != nil {
		return err
	}
	kubeconfigPath, client, err := m.connect(ctx, name)
	if err != nil {
		return err
	}
	return addons.Run(ctx, m.addonTarget(name, kubeconfigPath, client), names, options...)
}

func (m *Manager) addonTarget(name, kubeconfigPath string, client kubernetes.Interface) *addons.Target {
	return &addons.Target{
		Name:           name,
		Provider:       m.provider.Name(),
		KubeConfigPath: kubeconfigPath,
		Client:         client,
		Runner:         m.runner,
		Out:            m.out,
	}
}
