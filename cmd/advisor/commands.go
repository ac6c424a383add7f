/*
 Licensed to the Apache Software Foundation (ASF) under one
 or more contributor license agreements.  See the NOTICE file
 distributed with this work for additional information
 regarding copyright ownership.  The ASF licenses this file
 to you under the Apache License, Version 2.0 (the
 "License"); you may not use this file except in compliance
 with the License.  You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/apache/ambari-sub000/pkg/advisor"
	"github.com/apache/ambari-sub000/pkg/common/configs"
	"github.com/apache/ambari-sub000/pkg/log"
)

type actionOptions struct {
	hosts    string
	services string
	config   string
	output   string
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "advisor",
		Short:         "Recommend and validate service layouts and configurations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	for _, action := range advisor.Actions() {
		root.AddCommand(newActionCommand(action))
	}
	root.AddCommand(newCheckConfigCommand())
	return root
}

func newActionCommand(action string) *cobra.Command {
	opts := &actionOptions{}
	cmd := &cobra.Command{
		Use:   action,
		Short: "Run the " + action + " action",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAction(action, opts, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&opts.hosts, "hosts", "", "hosts document (JSON)")
	cmd.Flags().StringVar(&opts.services, "services", "", "services document (JSON)")
	cmd.Flags().StringVar(&opts.config, "config", "", "advisor configuration file (YAML), built-in defaults if not set")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the result to this file instead of stdout")
	_ = cmd.MarkFlagRequired("hosts")
	_ = cmd.MarkFlagRequired("services")
	return cmd
}

func newCheckConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check-config <advisor-config-file>",
		Short: "Load an advisor configuration file and check its validity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := configs.LoadAdvisorConfigFromFile(args[0])
			if err != nil {
				return fmt.Errorf("invalid advisor configuration %s: %w", args[0], err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "configuration is valid, checksum %s\n", conf.Checksum)
			return err
		},
	}
}

func runAction(action string, opts *actionOptions, stdout io.Writer) error {
	conf, err := configs.LoadAdvisorConfigFromFile(opts.config)
	if err != nil {
		return err
	}
	if err = configs.ApplyLogLevels(conf); err != nil {
		return err
	}
	servicesJSON, err := os.ReadFile(opts.services)
	if err != nil {
		return err
	}
	hostsJSON, err := os.ReadFile(opts.hosts)
	if err != nil {
		return err
	}
	a, err := advisor.NewAdvisor(conf)
	if err != nil {
		return err
	}
	result, err := a.RunJSON(action, servicesJSON, hostsJSON)
	if err != nil {
		return err
	}
	if opts.output == "" {
		_, err = stdout.Write(append(result, '\n'))
		return err
	}
	log.Log(log.CLI).Info("writing advisor result",
		zap.String("action", action),
		zap.String("output", opts.output))
	return os.WriteFile(opts.output, result, 0o600)
}
