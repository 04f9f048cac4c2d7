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

// Package options implements the settings shared by llmkind commands
package options

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/llmkind/llmkind/pkg/cluster"
	"github.com/llmkind/llmkind/pkg/constants"
	lexec "github.com/llmkind/llmkind/pkg/exec"
	"github.com/llmkind/llmkind/pkg/provider"
	"github.com/llmkind/llmkind/pkg/state"
)

// Viper holds the values set by LLMKIND_* env variables and by the config file
var Viper = newViper()

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfigFile reads the llmkind config file. When file is empty the default
// ~/.llmkind/config.yaml is used, if it exists.
func LoadConfigFile(file string) error {
	if file == "" {
		dir, err := state.Dir()
		if err != nil {
			return err
		}
		file = filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(file); err != nil {
			return nil
		}
	}
	Viper.SetConfigFile(file)
	if err := Viper.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", file)
	}
	log.Debugf("using config file %s", file)
	return nil
}

// Apply sets the flags not explicitly set on the command line with the values
// from env variables or the config file, so precedence is flag > env > file > default
func Apply(fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if err != nil || f.Changed || !Viper.IsSet(f.Name) {
			return
		}
		switch f.Value.Type() {
		case "stringSlice", "stringArray":
			if sv, ok := f.Value.(pflag.SliceValue); ok {
				err = sv.Replace(Viper.GetStringSlice(f.Name))
				f.Changed = err == nil
			}
		default:
			// fs.Set marks the flag as changed, like a value given on the command line
			err = fs.Set(f.Name, Viper.GetString(f.Name))
		}
		if err != nil {
			err = errors.Wrapf(err, "invalid value for %s", f.Name)
		}
	})
	return err
}

// SignalContext returns a context canceled on SIGINT or SIGTERM
func SignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// ClusterFlags are the flags identifying the target cluster
type ClusterFlags struct {
	Provider    string
	Name        string
	KindRuntime string
}

// AddClusterFlags adds the flags identifying the target cluster to a command
func AddClusterFlags(cmd *cobra.Command, flags *ClusterFlags) {
	cmd.Flags().StringVar(
		&flags.Provider,
		"provider", constants.DefaultProvider,
		"cluster provider, one of "+strings.Join(provider.Known(), ", "),
	)
	cmd.Flags().StringVar(
		&flags.Name,
		"name", constants.DefaultClusterName,
		"cluster name",
	)
	cmd.Flags().StringVar(
		&flags.KindRuntime,
		"kind-runtime", "",
		"container runtime for kind nodes, docker or podman (auto-detected by default)",
	)
}

// NewProvider returns the provider selected by the flags
func (f *ClusterFlags) NewProvider(runner lexec.Runner) (provider.Provider, error) {
	return provider.New(f.Provider, provider.Options{
		Runner:      runner,
		KindRuntime: f.KindRuntime,
	})
}

// NewManager returns a cluster manager for the provider selected by the flags
func (f *ClusterFlags) NewManager(runner lexec.Runner) (*cluster.Manager, error) {
	p, err := f.NewProvider(runner)
	if err != nil {
		return nil, err
	}
	return cluster.NewManager(p, cluster.WithRunner(runner)), nil
}
