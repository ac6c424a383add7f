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

package configs

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/apache/ambari-sub000/pkg/common"
	"github.com/apache/ambari-sub000/pkg/log"
)

// AdvisorConfig tunes the advisor engine. The top level sections:
// - mount filtering applied to the host disk inventory
// - component layout lists and host selection schemes
// - system settings (login.defs location, local host override)
// - log levels per logger handle
type AdvisorConfig struct {
	Mounts   MountConfig
	Layout   LayoutConfig
	System   SystemConfig `yaml:",omitempty" json:",omitempty"`
	Log      LogConfig    `yaml:",omitempty" json:",omitempty"`
	Checksum string       `yaml:",omitempty" json:",omitempty"`
}

// Mount points and file system types that are never used for directory recommendations.
type MountConfig struct {
	BannedFilesystems []string `yaml:",omitempty" json:",omitempty"`
	BannedMountPoints []string `yaml:",omitempty" json:",omitempty"`
}

// The layout lists:
// - components that do not make a host "used" for the free host calculation
// - components not placed on the host the advisor runs on
// - masters that can have more than one instance
// - cardinality overrides for masters (cardinality expression)
// - slaves that are placed on exactly the minimum number of free hosts
// - host selection schemes per master component
type LayoutConfig struct {
	NotValuableComponents        []string          `yaml:",omitempty" json:",omitempty"`
	NotPreferableOnServer        []string          `yaml:",omitempty" json:",omitempty"`
	MastersWithMultipleInstances []string          `yaml:",omitempty" json:",omitempty"`
	Cardinalities                map[string]string `yaml:",omitempty" json:",omitempty"`
	CardinalityForLayout         []string          `yaml:",omitempty" json:",omitempty"`
	Schemes                      []LayoutScheme    `yaml:",omitempty" json:",omitempty"`
}

// LayoutScheme selects the index of the preferred host for a master component.
// The first threshold with a host count below Hosts wins, Else is used if none matches.
type LayoutScheme struct {
	Component  string
	Thresholds []SchemeThreshold `yaml:",omitempty" json:",omitempty"`
	Else       int
}

type SchemeThreshold struct {
	Hosts int
	Index int
}

type SystemConfig struct {
	LoginDefs string `yaml:",omitempty" json:",omitempty"`
	LocalHost string `yaml:",omitempty" json:",omitempty"`
}

type LogConfig struct {
	Levels map[string]string `yaml:",omitempty" json:",omitempty"`
}

// HostIndex returns the preferred host index for the number of hosts.
func (ls LayoutScheme) HostIndex(hostCount int) int {
	for _, t := range ls.Thresholds {
		if hostCount < t.Hosts {
			return t.Index
		}
	}
	return ls.Else
}

// Scheme returns the layout scheme for a component if one is configured.
func (lc LayoutConfig) Scheme(component string) (LayoutScheme, bool) {
	for _, s := range lc.Schemes {
		if s.Component == component {
			return s, true
		}
	}
	return LayoutScheme{}, false
}

// MinCardinality returns the minimum host count configured for a component, 1 if not configured.
func (lc LayoutConfig) MinCardinality(component string, hostsCount int) int {
	cardinality, ok := lc.Cardinalities[component]
	if !ok {
		return 1
	}
	minHosts, _, ok := common.ParseCardinality(cardinality, hostsCount)
	if !ok {
		return 1
	}
	return minHosts
}

// LoginDefsPath returns the configured login.defs file or the system default.
func (sc SystemConfig) LoginDefsPath() string {
	if sc.LoginDefs == "" {
		return DefaultLoginDefsPath
	}
	return sc.LoginDefs
}

// HostName returns the configured local host name, falling back to the OS host name.
func (sc SystemConfig) HostName() string {
	if sc.LocalHost != "" {
		return sc.LocalHost
	}
	name, err := os.Hostname()
	if err != nil {
		log.Log(log.Config).Warn("unable to determine local host name",
			zap.Error(err))
		return ""
	}
	return name
}

func LoadAdvisorConfigFromByteArray(content []byte) (*AdvisorConfig, error) {
	conf, err := ParseAndValidateConfig(content)
	if err != nil {
		return nil, err
	}
	// Create a sha256 checksum for this validated config
	SetChecksum(content, conf)
	return conf, err
}

// LoadAdvisorConfigFromFile reads and validates a configuration file. An empty path returns the default config.
func LoadAdvisorConfigFromFile(path string) (*AdvisorConfig, error) {
	if path == "" {
		return LoadAdvisorConfigFromByteArray([]byte(DefaultAdvisorConfig))
	}
	content, err := os.ReadFile(path)
	if err != nil {
		log.Log(log.Config).Error("failed to read advisor configuration",
			zap.String("path", path),
			zap.Error(err))
		return nil, err
	}
	return LoadAdvisorConfigFromByteArray(content)
}

func SetChecksum(content []byte, conf *AdvisorConfig) {
	noChecksumContent := GetConfigurationString(content)
	conf.Checksum = fmt.Sprintf("%X", sha256.Sum256([]byte(noChecksumContent)))
}

func ParseAndValidateConfig(content []byte) (*AdvisorConfig, error) {
	conf := &AdvisorConfig{}
	decoder := yaml.NewDecoder(bytes.NewReader(content))
	decoder.KnownFields(true) // Enable strict unmarshaling behavior
	err := decoder.Decode(conf)
	if err != nil && !errors.Is(err, io.EOF) { // empty content may have EOF error, skip it
		log.Log(log.Config).Error("failed to parse advisor configuration",
			zap.Error(err))
		return nil, err
	}
	// validate the config
	err = Validate(conf)
	if err != nil {
		log.Log(log.Config).Error("advisor configuration validation failed",
			zap.Error(err))
		return nil, err
	}
	return conf, nil
}

// GetConfigurationString returns the content without the checksum line.
func GetConfigurationString(requestBytes []byte) string {
	conf := string(requestBytes)
	checksum := "checksum: "
	start := strings.Index(conf, checksum)
	if start < 0 {
		return conf
	}
	end := strings.IndexByte(conf[start:], '\n')
	if end < 0 {
		return conf[:start]
	}
	return conf[:start] + conf[start+end+1:]
}

// DefaultAdvisorConfig contains the default advisor configuration; used if no other is provided
var DefaultAdvisorConfig = `
mounts:
  bannedfilesystems: [devtmpfs, tmpfs, vboxsf, cdfs]
  bannedmountpoints: [/etc/resolv.conf, /etc/hostname, /boot, /mnt, /tmp, /run/secrets]
layout:
  notvaluablecomponents: [JOURNALNODE, ZKFC, GANGLIA_MONITOR]
  notpreferableonserver: [GANGLIA_SERVER, METRICS_COLLECTOR]
  masterswithmultipleinstances: [ZOOKEEPER_SERVER, HBASE_MASTER]
  cardinalities:
    ZOOKEEPER_SERVER: 3+
    HBASE_MASTER: 1+
  cardinalityforlayout: [NFS_GATEWAY, PHOENIX_QUERY_SERVER, SPARK_THRIFTSERVER, SPARK2_THRIFTSERVER, LIVY2_SERVER, LIVY_SERVER]
  schemes:
    - component: NAMENODE
      else: 0
    - component: SECONDARY_NAMENODE
      else: 1
    - component: HBASE_MASTER
      thresholds: [{hosts: 6, index: 0}, {hosts: 31, index: 2}]
      else: 3
    - component: HISTORYSERVER
      thresholds: [{hosts: 31, index: 1}]
      else: 2
    - component: RESOURCEMANAGER
      thresholds: [{hosts: 31, index: 1}]
      else: 2
    - component: OOZIE_SERVER
      thresholds: [{hosts: 6, index: 1}, {hosts: 31, index: 2}]
      else: 3
    - component: HIVE_SERVER
      thresholds: [{hosts: 6, index: 1}, {hosts: 31, index: 2}]
      else: 4
    - component: HIVE_METASTORE
      thresholds: [{hosts: 6, index: 1}, {hosts: 31, index: 2}]
      else: 4
    - component: WEBHCAT_SERVER
      thresholds: [{hosts: 6, index: 1}, {hosts: 31, index: 2}]
      else: 4
    - component: METRICS_COLLECTOR
      thresholds: [{hosts: 3, index: 2}, {hosts: 6, index: 2}, {hosts: 31, index: 3}]
      else: 5
`

// ApplyLogLevels sets the configured minimum level on each named logger handle.
func ApplyLogLevels(conf *AdvisorConfig) error {
	for _, name := range common.SortedKeys(conf.Log.Levels) {
		level, err := zapcore.ParseLevel(conf.Log.Levels[name])
		if err != nil {
			return err
		}
		if err = log.SetHandleLevel(name, level); err != nil {
			return err
		}
	}
	return nil
}
