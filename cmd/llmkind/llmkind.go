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

// Package llmkind implements the root llmkind cobra command, and the cli Main()
package llmkind

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/llmkind/llmkind/cmd/llmkind/addon"
	"github.com/llmkind/llmkind/cmd/llmkind/check"
	"github.com/llmkind/llmkind/cmd/llmkind/cluster"
	"github.com/llmkind/llmkind/cmd/llmkind/config"
	"github.com/llmkind/llmkind/cmd/llmkind/deploy"
	"github.com/llmkind/llmkind/cmd/llmkind/options"
	"github.com/llmkind/llmkind/cmd/llmkind/version"
	"github.com/llmkind/llmkind/cmd/llmkind/workflow"
	"github.com/llmkind/llmkind/pkg/constants"
)

const defaultLevel = log.WarnLevel

// Flags for the llmkind command
type Flags struct {
	LogLevel   string
	ConfigFile string
}

// NewCommand returns a new cobra.Command implementing the root command for llmkind
func NewCommand() *cobra.Command {
	flags := &Flags{}
	cmd := &cobra.Command{
		Args:  cobra.NoArgs,
		Use:   "llmkind",
		Short: "llmkind creates local Kubernetes clusters for LLM inference",
		Long: "llmkind creates local Kubernetes clusters for LLM inference, using kind or minikube.\n\n" +
			"Clusters are sized by presets, expose an ingress on the host and get the addons\n" +
			"required by inference workloads: node labels, ingress-nginx and metrics-server for autoscaling.\n\n" +
			"Flags can be set by LLMKIND_<FLAG> env variables, e.g. LLMKIND_PROVIDER=minikube,\n" +
			"or by a config file (~/.llmkind/config.yaml by default).",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return runE(flags, cmd, args)
		},
		SilenceUsage: true,
		Version:      constants.Version,
	}
	cmd.PersistentFlags().StringVar(
		&flags.LogLevel,
		"loglevel",
		defaultLevel.String(),
		"logrus log level "+levelsString(),
	)
	cmd.PersistentFlags().StringVar(
		&flags.ConfigFile,
		"config",
		"",
		"llmkind config file (default ~/.llmkind/config.yaml)",
	)

	cmd.AddCommand(check.NewCommand())
	cmd.AddCommand(config.NewCommand())
	cmd.AddCommand(cluster.NewCommand())
	cmd.AddCommand(addon.NewCommand())
	cmd.AddCommand(deploy.NewCommand())
	cmd.AddCommand(workflow.NewCommand())
	cmd.AddCommand(version.NewCommand())

	return cmd
}

func runE(flags *Flags, cmd *cobra.Command, args []string) error {
	level := defaultLevel
	parsed, err := log.ParseLevel(flags.LogLevel)
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to '%s'", flags.LogLevel, level)
	} else {
		level = parsed
	}
	log.SetLevel(level)

	return options.LoadConfigFile(flags.ConfigFile)
}

func levelsString() string {
	levels := []string{}
	for _, l := range log.AllLevels {
		levels = append(levels, l.String())
	}
	return fmt.Sprintf("%v", levels)
}

// Run runs the `llmkind` root command
func Run() error {
	return NewCommand().Execute()
}

// Main wraps Run and sets the log formatter
func Main() {
	// let's explicitly set stdout
	log.SetOutput(os.Stdout)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})
	if err := Run(); err != nil {
		os.Exit(1)
	}
}
