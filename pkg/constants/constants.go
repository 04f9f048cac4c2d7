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

package constants

import (
	"time"

	kindconstants "sigs.k8s.io/kind/pkg/cluster/constants"
)

// supported cluster providers
const (
	// KindProvider creates clusters using kind node containers
	KindProvider = "kind"

	// MinikubeProvider creates clusters using the minikube CLI
	MinikubeProvider = "minikube"
)

// cluster defaults
const (
	// DefaultClusterName is the default name for clusters created by llmkind
	DefaultClusterName = "llm-cluster"

	// DefaultProvider is the cluster provider used when none is given
	DefaultProvider = KindProvider

	// DefaultSize is the sizing profile used when none is given
	DefaultSize = "small"

	// DefaultNodeImage is the default name:tag for a kind node image.
	// An empty value lets kind pick the image matching the library version.
	DefaultNodeImage = ""

	// DefaultNamespace is the namespace inference workloads are deployed into
	DefaultNamespace = "llm"

	// DefaultWaitForReady is how long create waits for the nodes to become Ready
	DefaultWaitForReady = 5 * time.Minute

	// DefaultCleanupTimeout bounds the deletion of a cluster that failed to be created
	DefaultCleanupTimeout = 3 * time.Minute

	// DefaultMinikubeDriver lets minikube auto-detect its driver
	DefaultMinikubeDriver = ""
)

// port mappings for the ingress node
const (
	// DefaultHTTPPort is the host port mapped to port 80 of the ingress node
	DefaultHTTPPort = 80

	// DefaultHTTPSPort is the host port mapped to port 443 of the ingress node
	DefaultHTTPSPort = 443

	// IngressHTTPContainerPort is the port the ingress controller listens on for http
	IngressHTTPContainerPort = 80

	// IngressHTTPSContainerPort is the port the ingress controller listens on for https
	IngressHTTPSContainerPort = 443
)

// node labels and roles
const (
	// IngressReadyLabel marks the node where the ingress controller is scheduled
	IngressReadyLabel = "ingress-ready"

	// InferenceNodeLabel marks the nodes dedicated to inference workloads
	InferenceNodeLabel = "llmkind.io/inference"

	// ControlPlaneNodeRoleValue identifies a node that hosts a Kubernetes control-plane.
	//
	// NOTE: in single node clusters, control-plane nodes act as worker nodes
	ControlPlaneNodeRoleValue = kindconstants.ControlPlaneNodeRoleValue

	// WorkerNodeRoleValue identifies a node that hosts a Kubernetes worker
	WorkerNodeRoleValue = kindconstants.WorkerNodeRoleValue

	// ModelCacheContainerPath is where the host model cache is mounted in every node
	ModelCacheContainerPath = "/models"

	// NvidiaDevicesContainerPath is the volume-mount hint read by the nvidia container toolkit
	NvidiaDevicesContainerPath = "/var/run/nvidia-container-devices/all"
)

// state handling
const (
	// StateDirEnv overrides the directory where llmkind keeps generated configs and locks
	StateDirEnv = "LLMKIND_STATE_DIR"

	// DefaultStateDirName is the state directory name under the user home
	DefaultStateDirName = ".llmkind"

	// EnvPrefix is the prefix of environment variables overriding flags
	EnvPrefix = "LLMKIND"
)

// other constants
const (
	// Version is the llmkind CLI version
	Version = "0.3.0"
)
