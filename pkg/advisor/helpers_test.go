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

package advisor

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/apache/ambari-sub000/pkg/common/configs"
	"github.com/apache/ambari-sub000/pkg/configuration"
	"github.com/apache/ambari-sub000/pkg/dao"
)

const (
	testMpack   = "HDPCORE"
	testVersion = "1.0.0"
	localHost   = "ambari.example.com"
	gigabyteKB  = 1024 * 1024
)

func testConfig(t *testing.T) *configs.AdvisorConfig {
	conf, err := configs.LoadAdvisorConfigFromByteArray([]byte(configs.DefaultAdvisorConfig))
	assert.NilError(t, err, "default config should load")
	conf.System.LocalHost = localHost
	return conf
}

func newTestContext(t *testing.T, callType string, services *dao.ServicesDAOInfo, hosts *dao.HostsDAOInfo) *Context {
	return NewContext(testConfig(t), callType, services, hosts)
}

func testHost(name string, cpu int64, memKB int64, disks ...dao.DiskDAOInfo) dao.HostItemDAOInfo {
	return dao.HostItemDAOInfo{Hosts: dao.HostDAOInfo{
		HostName:         name,
		CPUCount:         dao.LenientInt(cpu),
		TotalMem:         dao.LenientInt(memKB),
		MaintenanceState: dao.MaintenanceOff,
		DiskInfo:         disks,
	}}
}

func testHosts(items ...dao.HostItemDAOInfo) *dao.HostsDAOInfo {
	return &dao.HostsDAOInfo{Items: items}
}

func testDisk(mount string, sizeKB, availableKB int64) dao.DiskDAOInfo {
	return dao.DiskDAOInfo{MountPoint: mount, Type: "ext4", Size: dao.LenientInt(sizeKB), Available: dao.LenientInt(availableKB)}
}

func testComponent(name, category, cardinality string, hosts ...string) dao.ComponentDAOInfo {
	return dao.ComponentDAOInfo{StackServiceComponents: dao.StackServiceComponentDAOInfo{
		ComponentName:     name,
		ComponentCategory: category,
		Cardinality:       cardinality,
		DisplayName:       name,
		Hostnames:         hosts,
	}}
}

func withDependency(c dao.ComponentDAOInfo, dependency, scope string) dao.ComponentDAOInfo {
	c.Dependencies = append(c.Dependencies, dao.DependencyDAOInfo{Dependencies: dao.DependencyDetailDAOInfo{
		ComponentName:          dependency,
		DependentComponentName: c.StackServiceComponents.ComponentName,
		Scope:                  scope,
	}})
	return c
}

func testService(name string, components ...dao.ComponentDAOInfo) dao.ServiceDAOInfo {
	return dao.ServiceDAOInfo{
		StackServices: dao.StackServiceDAOInfo{
			ServiceName:  name,
			StackName:    testMpack,
			StackVersion: testVersion,
		},
		Components: components,
	}
}

func testServices(services ...dao.ServiceDAOInfo) *dao.ServicesDAOInfo {
	return &dao.ServicesDAOInfo{Services: services, Configurations: make(configuration.Document)}
}

func setProperty(doc configuration.Document, configType, name, value string) {
	doc.Ensure(configType).Properties[name] = value
}

// registerTestAdvisor registers an advisor for the test and removes it when the test ends.
func registerTestAdvisor(t *testing.T, name string, sa ServiceAdvisor) {
	RegisterServiceAdvisor(name, func() (ServiceAdvisor, error) { return sa, nil })
	t.Cleanup(func() { UnregisterServiceAdvisor(name) })
}
