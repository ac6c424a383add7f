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

package services

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/apache/ambari-sub000/pkg/advisor"
	"github.com/apache/ambari-sub000/pkg/common/configs"
	"github.com/apache/ambari-sub000/pkg/configuration"
	"github.com/apache/ambari-sub000/pkg/dao"
)

const (
	testMpack  = "HDPCORE"
	localHost  = "ambari.example.com"
	gigabyteKB = 1024 * 1024
)

func testConfig(t *testing.T) *configs.AdvisorConfig {
	conf, err := configs.LoadAdvisorConfigFromByteArray([]byte(configs.DefaultAdvisorConfig))
	assert.NilError(t, err, "default config should load")
	loginDefs := filepath.Join(t.TempDir(), "login.defs")
	assert.NilError(t, os.WriteFile(loginDefs, []byte("# UID_MIN 100\nUID_MIN 500\n"), 0o600))
	conf.System.LoginDefs = loginDefs
	conf.System.LocalHost = localHost
	return conf
}

func newContext(t *testing.T, callType string, services *dao.ServicesDAOInfo, hosts *dao.HostsDAOInfo) *advisor.Context {
	return advisor.NewContext(testConfig(t), callType, services, hosts)
}

func newAdvisor(t *testing.T) *advisor.Advisor {
	a, err := advisor.NewAdvisor(testConfig(t))
	assert.NilError(t, err)
	return a
}

func host(name string, cpu, memKB int64, disks ...dao.DiskDAOInfo) dao.HostItemDAOInfo {
	return dao.HostItemDAOInfo{Hosts: dao.HostDAOInfo{
		HostName:         name,
		CPUCount:         dao.LenientInt(cpu),
		TotalMem:         dao.LenientInt(memKB),
		MaintenanceState: dao.MaintenanceOff,
		DiskInfo:         disks,
	}}
}

func disk(mount string, sizeKB int64) dao.DiskDAOInfo {
	return dao.DiskDAOInfo{MountPoint: mount, Type: "ext4", Size: dao.LenientInt(sizeKB), Available: dao.LenientInt(sizeKB / 2)}
}

func hostList(items ...dao.HostItemDAOInfo) *dao.HostsDAOInfo {
	return &dao.HostsDAOInfo{Items: items}
}

func component(name, category, cardinality string, hosts ...string) dao.ComponentDAOInfo {
	return dao.ComponentDAOInfo{StackServiceComponents: dao.StackServiceComponentDAOInfo{
		ComponentName:     name,
		ComponentCategory: category,
		Cardinality:       cardinality,
		DisplayName:       name,
		Hostnames:         hosts,
	}}
}

func service(name string, components ...dao.ComponentDAOInfo) dao.ServiceDAOInfo {
	return dao.ServiceDAOInfo{
		StackServices: dao.StackServiceDAOInfo{ServiceName: name, StackName: testMpack, StackVersion: "1.0.0"},
		Components:    components,
	}
}

func serviceList(services ...dao.ServiceDAOInfo) *dao.ServicesDAOInfo {
	return &dao.ServicesDAOInfo{Services: services, Configurations: make(configuration.Document)}
}

func set(doc configuration.Document, configType, name, value string) {
	doc.Ensure(configType).Properties[name] = value
}

func recommended(t *testing.T, resp interface{}) configuration.Document {
	rec, ok := resp.(*dao.RecommendationDAOInfo)
	assert.Assert(t, ok, "unexpected response type %T", resp)
	assert.Equal(t, len(rec.Recommendations.Blueprint.MpackInstances), 1)
	return rec.Recommendations.Blueprint.MpackInstances[0].Configurations
}

// layoutByHost returns the component names of a layout recommendation keyed on host.
func layoutByHost(t *testing.T, resp interface{}) map[string][]string {
	rec, ok := resp.(*dao.RecommendationDAOInfo)
	assert.Assert(t, ok, "unexpected response type %T", resp)
	components := make(map[string][]string)
	for _, group := range rec.Recommendations.Blueprint.HostGroups {
		names := make([]string, 0, len(group.Components))
		for _, c := range group.Components {
			names = append(names, c.Name)
		}
		components[group.Name] = names
	}
	result := make(map[string][]string)
	for _, binding := range rec.Recommendations.BlueprintClusterBinding.HostGroups {
		for _, h := range binding.Hosts {
			result[h.Fqdn] = components[binding.Name]
		}
	}
	return result
}
