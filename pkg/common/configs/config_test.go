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
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

func TestDefaultConfig(t *testing.T) {
	conf, err := LoadAdvisorConfigFromByteArray([]byte(DefaultAdvisorConfig))
	assert.NilError(t, err, "default config should load")
	assert.Equal(t, len(conf.Checksum), 64)
	assert.DeepEqual(t, conf.Mounts.BannedFilesystems, []string{"devtmpfs", "tmpfs", "vboxsf", "cdfs"})
	assert.Equal(t, len(conf.Layout.CardinalityForLayout), 6)
	assert.Equal(t, conf.Layout.MinCardinality("ZOOKEEPER_SERVER", 5), 3)
	assert.Equal(t, conf.Layout.MinCardinality("HBASE_MASTER", 5), 1)
	assert.Equal(t, conf.Layout.MinCardinality("NAMENODE", 5), 1)

	scheme, ok := conf.Layout.Scheme("HBASE_MASTER")
	assert.Assert(t, ok, "HBASE_MASTER scheme missing")
	assert.Equal(t, scheme.HostIndex(3), 0)
	assert.Equal(t, scheme.HostIndex(6), 2)
	assert.Equal(t, scheme.HostIndex(30), 2)
	assert.Equal(t, scheme.HostIndex(31), 3)
	scheme, ok = conf.Layout.Scheme("SECONDARY_NAMENODE")
	assert.Assert(t, ok, "SECONDARY_NAMENODE scheme missing")
	assert.Equal(t, scheme.HostIndex(2), 1)
	_, ok = conf.Layout.Scheme("DATANODE")
	assert.Assert(t, !ok, "DATANODE should not have a scheme")
}

func TestEmptyConfig(t *testing.T) {
	conf, err := LoadAdvisorConfigFromByteArray([]byte(""))
	assert.NilError(t, err, "empty config should load")
	assert.Equal(t, len(conf.Layout.Schemes), 0)
	assert.Equal(t, conf.System.LoginDefsPath(), DefaultLoginDefsPath)
}

func TestUnknownField(t *testing.T) {
	data := `
layout:
  notvaluable: [ZKFC]
`
	_, err := LoadAdvisorConfigFromByteArray([]byte(data))
	assert.ErrorContains(t, err, "not found")
}

func TestInvalidConfig(t *testing.T) {
	data := `
layout:
  schemes:
    - component: NAMENODE
      thresholds: [{hosts: 31, index: 1}, {hosts: 6, index: 0}]
`
	_, err := LoadAdvisorConfigFromByteArray([]byte(data))
	assert.ErrorContains(t, err, "increasing")
}

func TestChecksumIgnoresChecksumLine(t *testing.T) {
	data := `
system:
  localhost: c6401.ambari.apache.org
`
	conf, err := LoadAdvisorConfigFromByteArray([]byte(data))
	assert.NilError(t, err)
	withChecksum := data + "checksum: " + conf.Checksum + "\n"
	conf2, err := LoadAdvisorConfigFromByteArray([]byte(withChecksum))
	assert.NilError(t, err)
	assert.Equal(t, conf.Checksum, conf2.Checksum)
	assert.Equal(t, conf2.System.HostName(), "c6401.ambari.apache.org")
}

func TestGetConfigurationString(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{"no checksum", "system:\n  localhost: h1\n", "system:\n  localhost: h1\n"},
		{"checksum last", "system:\n  localhost: h1\nchecksum: ABC\n", "system:\n  localhost: h1\n"},
		{"checksum first", "checksum: ABC\nsystem:\n  localhost: h1\n", "system:\n  localhost: h1\n"},
		{"no trailing newline", "system:\n  localhost: h1\nchecksum: ABC", "system:\n  localhost: h1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, GetConfigurationString([]byte(tt.content)), tt.expected)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	conf, err := LoadAdvisorConfigFromFile("")
	assert.NilError(t, err)
	assert.Assert(t, len(conf.Layout.Schemes) > 0, "default schemes expected")

	path := filepath.Join(t.TempDir(), "advisor.yaml")
	assert.NilError(t, os.WriteFile(path, []byte("system:\n  logindefs: /tmp/login.defs\n"), 0o600))
	conf, err = LoadAdvisorConfigFromFile(path)
	assert.NilError(t, err)
	assert.Equal(t, conf.System.LoginDefsPath(), "/tmp/login.defs")

	_, err = LoadAdvisorConfigFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Assert(t, err != nil, "missing file should fail")
}
