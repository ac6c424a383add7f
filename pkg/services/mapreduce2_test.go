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
	"github.com/apache/ambari-sub000/pkg/configuration"
	"github.com/apache/ambari-sub000/pkg/dao"
)

func TestMapReduce2Recommendations(t *testing.T) {
	ctx := newContext(t, advisor.RecommendConfigurations, serviceList(), hostList())
	summary := &advisor.ClusterSummary{AMMemory: 1024, MapMemory: 1536, ReduceMemory: 3072}
	out := make(configuration.Document)
	(&MapReduce2ServiceAdvisor{}).RecommendConfigurations(ctx, out, summary)
	assert.DeepEqual(t, out.Properties(MapredSite), configuration.Properties{
		mrAMResourceMB:   "1024",
		mrAMCommandOpts:  "-Xmx819m",
		mrMapMemoryMB:    "1536",
		mrReduceMemoryMB: "3072",
		mrMapJavaOpts:    "-Xmx1229m",
		mrReduceJavaOpts: "-Xmx2458m",
		mrIOSortMB:       "614",
		mrJobQueueName:   "default",
	})

	summary.MapMemory = 4096
	out = make(configuration.Document)
	(&MapReduce2ServiceAdvisor{}).RecommendConfigurations(ctx, out, summary)
	assert.Equal(t, out.Properties(MapredSite)[mrIOSortMB], "1024", "sort buffer is capped")
}

func TestMapReduce2Validation(t *testing.T) {
	services := serviceList()
	set(services.Configurations, CapacityScheduler, "yarn.scheduler.capacity.root.queues", "default,etl")
	ctx := newContext(t, advisor.ValidateConfigurations, services, hostList())
	rec := make(configuration.Document)
	(&MapReduce2ServiceAdvisor{}).RecommendConfigurations(ctx, rec, &advisor.ClusterSummary{AMMemory: 1024, MapMemory: 1536, ReduceMemory: 1536})
	configurations := configuration.Document{MapredSite: rec.Get(MapredSite).Clone()}

	items := (&MapReduce2ServiceAdvisor{}).ValidateConfigurations(ctx, configurations, rec)
	assert.Equal(t, len(items), 0)

	configurations[MapredSite].Properties[mrMapJavaOpts] = "-server -Xmx512m"
	configurations[MapredSite].Properties[mrReduceJavaOpts] = "-server"
	configurations[MapredSite].Properties[mrJobQueueName] = "root"
	items = (&MapReduce2ServiceAdvisor{}).ValidateConfigurations(ctx, configurations, rec)
	assert.DeepEqual(t, items, []dao.ValidationItemDAOInfo{
		{Type: "configuration", Level: "WARN", Message: "Value is less than the recommended default of -Xmx1229m", ConfigType: MapredSite, ConfigName: mrMapJavaOpts},
		{Type: "configuration", Level: "ERROR", Message: "Invalid value format", ConfigType: MapredSite, ConfigName: mrReduceJavaOpts},
		{Type: "configuration", Level: "ERROR", Message: "Queue is not exist or not corresponds to existing YARN leaf queue", ConfigType: MapredSite, ConfigName: mrJobQueueName},
	})
}
