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
	"testing"

	"gotest.tools/v3/assert"

	"github.com/apache/ambari-sub000/pkg/advisor"
	"github.com/apache/ambari-sub000/pkg/common"
	"github.com/apache/ambari-sub000/pkg/configuration"
	"github.com/apache/ambari-sub000/pkg/dao"
)

func yarnSummary() *advisor.ClusterSummary {
	return &advisor.ClusterSummary{
		Containers:               5,
		RAMPerContainer:          256,
		YarnMinContainerSize:     256,
		ReferenceNodeManagerHost: &dao.HostDAOInfo{HostName: "h1", TotalMem: 1922680},
	}
}

func yarnServices() *dao.ServicesDAOInfo {
	return serviceList(service("YARN",
		component("RESOURCEMANAGER", dao.CategoryMaster, "1", "h1"),
		component("NODEMANAGER", dao.CategorySlave, "1+", "h1")))
}

func TestYarnRecommendations(t *testing.T) {
	ctx := newContext(t, advisor.RecommendConfigurations, yarnServices(), hostList(host("h1", 2, 1922680)))
	out := make(configuration.Document)
	(&YARNServiceAdvisor{}).RecommendConfigurations(ctx, out, yarnSummary())

	yarnSite := out.Get(advisor.YarnSite)
	assert.Equal(t, yarnSite.Properties[yarnNodeManagerMemoryMB], "1280")
	assert.Equal(t, yarnSite.Properties[yarnMinAllocationMB], "256")
	assert.Equal(t, yarnSite.Properties[yarnMaxAllocationMB], "1280")
	assert.Equal(t, yarnSite.Properties[yarnContainerExecutorGroup], "hadoop")
	assert.DeepEqual(t, yarnSite.PropertyAttributes, configuration.Attributes{
		yarnNodeManagerMemoryMB: {"maximum": "1877"},
		yarnMinAllocationMB:     {"maximum": "1280"},
		yarnMaxAllocationMB:     {"maximum": "1280"},
	})
	assert.DeepEqual(t, out.Properties(YarnEnv), configuration.Properties{
		yarnMinUserID:         "500",
		yarnServiceCheckQueue: "default",
	})
}

func TestYarnNodeManagerMemoryLimits(t *testing.T) {
	ctx := newContext(t, advisor.RecommendConfigurations, yarnServices(), hostList(host("h1", 2, 1922680)))
	summary := yarnSummary()
	summary.Containers = 16
	summary.RAMPerContainer = 512
	out := make(configuration.Document)
	(&YARNServiceAdvisor{}).RecommendConfigurations(ctx, out, summary)
	assert.Equal(t, out.Properties(advisor.YarnSite)[yarnNodeManagerMemoryMB], "1877", "capped at the host memory")

	summary.ReferenceNodeManagerHost = nil
	out = make(configuration.Document)
	(&YARNServiceAdvisor{}).RecommendConfigurations(ctx, out, summary)
	assert.Equal(t, out.Properties(advisor.YarnSite)[yarnNodeManagerMemoryMB], "8192")
	value, _ := out.Attribute(advisor.YarnSite, yarnNodeManagerMemoryMB, "maximum")
	assert.Equal(t, value, "1048576")
}

func TestYarnSuppliedNodeManagerMemory(t *testing.T) {
	services := yarnServices()
	set(services.Configurations, advisor.YarnSite, yarnNodeManagerMemoryMB, "2048")
	set(services.Configurations, ClusterEnv, yarnUserGroup, "users")
	out := make(configuration.Document)
	ctx := newContext(t, advisor.RecommendConfigurationDependency, services, hostList(host("h1", 2, 1922680)))
	(&YARNServiceAdvisor{}).RecommendConfigurations(ctx, out, yarnSummary())
	yarnSite := out.Properties(advisor.YarnSite)
	assert.Equal(t, yarnSite[yarnNodeManagerMemoryMB], "2048")
	assert.Equal(t, yarnSite[yarnMaxAllocationMB], "2048")
	assert.Equal(t, yarnSite[yarnContainerExecutorGroup], "users")

	// a full recommendation ignores the supplied value
	out = make(configuration.Document)
	ctx = newContext(t, advisor.RecommendConfigurations, services, hostList(host("h1", 2, 1922680)))
	(&YARNServiceAdvisor{}).RecommendConfigurations(ctx, out, yarnSummary())
	assert.Equal(t, out.Properties(advisor.YarnSite)[yarnNodeManagerMemoryMB], "1280")
}

func TestYarnMountProperties(t *testing.T) {
	hosts := hostList(
		host("h1", 2, 4*gigabyteKB, disk("/grid/0", 100*gigabyteKB), disk("/grid/1", 100*gigabyteKB)),
		host("h2", 2, 4*gigabyteKB, disk("/grid/0", 100*gigabyteKB)))
	services := serviceList(service("YARN",
		component("NODEMANAGER", dao.CategorySlave, "1+", "h1", "h2"),
		component("APP_TIMELINE_SERVER", dao.CategoryMaster, "1", "h1")))
	set(services.Configurations, advisor.YarnSite, yarnNodeManagerLogDirs, "/var/log/yarn")
	ctx := newContext(t, advisor.RecommendConfigurations, services, hosts)
	out := make(configuration.Document)
	(&YARNServiceAdvisor{}).RecommendConfigurations(ctx, out, yarnSummary())
	yarnSite := out.Properties(advisor.YarnSite)
	assert.Equal(t, yarnSite[yarnNodeManagerLocalDirs], "/grid/0/hadoop/yarn/local,/hadoop/yarn/local")
	assert.Equal(t, yarnSite[yarnTimelineLevelDBPath], "/grid/0/hadoop/yarn/timeline")
	_, ok := yarnSite[yarnNodeManagerLogDirs]
	assert.Assert(t, !ok, "user directory must not be recommended")
}

func TestYarnValidation(t *testing.T) {
	services := yarnServices()
	set(services.Configurations, CapacityScheduler, "yarn.scheduler.capacity.root.queues", "default")
	ctx := newContext(t, advisor.ValidateConfigurations, services, hostList(host("h1", 2, 1922680)))

	configurations := make(configuration.Document)
	set(configurations, advisor.YarnSite, yarnNodeManagerMemoryMB, "1024")
	set(configurations, advisor.YarnSite, yarnMinAllocationMB, "256")
	set(configurations, advisor.YarnSite, yarnMaxAllocationMB, "many")
	set(configurations, YarnEnv, yarnServiceCheckQueue, "missing")
	rec := make(configuration.Document)
	set(rec, advisor.YarnSite, yarnNodeManagerMemoryMB, "1280")
	set(rec, advisor.YarnSite, yarnMinAllocationMB, "256")
	set(rec, advisor.YarnSite, yarnMaxAllocationMB, "1280")
	set(rec, YarnEnv, yarnServiceCheckQueue, "default")

	items := (&YARNServiceAdvisor{}).ValidateConfigurations(ctx, configurations, rec)
	assert.DeepEqual(t, items, []dao.ValidationItemDAOInfo{
		{Type: "configuration", Level: "ERROR", Message: common.QueueDoesNotExist, ConfigType: YarnEnv, ConfigName: yarnServiceCheckQueue},
		{Type: "configuration", Level: "WARN", Message: "Value is less than the recommended default of 1280", ConfigType: advisor.YarnSite, ConfigName: yarnNodeManagerMemoryMB},
		{Type: "configuration", Level: "ERROR", Message: common.ValueShouldBeInteger, ConfigType: advisor.YarnSite, ConfigName: yarnMaxAllocationMB},
	})
}

func TestYarnTimelineServerLayout(t *testing.T) {
	services := serviceList(service("YARN",
		component("RESOURCEMANAGER", dao.CategoryMaster, "1"),
		component("APP_TIMELINE_SERVER", dao.CategoryMaster, "1")))
	hosts := hostList(host("h1", 2, gigabyteKB), host("h2", 2, gigabyteKB), host("h3", 2, gigabyteKB))
	resp, err := newAdvisor(t).Run(advisor.RecommendComponentLayout, services, hosts)
	assert.NilError(t, err)
	groups := resp.(*dao.RecommendationDAOInfo).Recommendations.Blueprint.HostGroups
	assert.Equal(t, len(groups), 1)
	assert.Equal(t, groups[0].Name, "host-group-1")
	assert.Equal(t, len(groups[0].Components), 2)
	binding := resp.(*dao.RecommendationDAOInfo).Recommendations.BlueprintClusterBinding.HostGroups[0]
	assert.Equal(t, binding.Hosts[0].Fqdn, "h2")
}
