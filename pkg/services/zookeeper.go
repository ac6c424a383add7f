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
	"github.com/apache/ambari-sub000/pkg/advisor"
	"github.com/apache/ambari-sub000/pkg/configuration"
	"github.com/apache/ambari-sub000/pkg/dao"
	"github.com/apache/ambari-sub000/pkg/validation"
)

const (
	ZookeeperEnv = "zookeeper-env"
	ZooCfg       = "zoo.cfg"

	zookeeperServer     = "ZOOKEEPER_SERVER"
	zookeeperServerHeap = "zk_server_heapsize"
	zookeeperDataDir    = "dataDir"
)

// ZookeeperServiceAdvisor places a quorum of ZooKeeper servers and sizes their heap.
type ZookeeperServiceAdvisor struct{}

func (z *ZookeeperServiceAdvisor) ServiceName() string {
	return "ZOOKEEPER"
}

func (z *ZookeeperServiceAdvisor) MastersWithMultipleInstances() []string {
	return []string{zookeeperServer}
}

func (z *ZookeeperServiceAdvisor) ComponentCardinalities() map[string]string {
	return map[string]string{zookeeperServer: "3+"}
}

func (z *ZookeeperServiceAdvisor) HeapSizeProperties() map[string][]advisor.HeapSizeProperty {
	return map[string][]advisor.HeapSizeProperty{
		zookeeperServer: {{ConfigType: ZookeeperEnv, Property: zookeeperServerHeap, Default: "1024m"}},
	}
}

func (z *ZookeeperServiceAdvisor) RecommendConfigurations(ctx *advisor.Context, out configuration.Document, _ *advisor.ClusterSummary) {
	ctx.UpdateMountProperties(out, ZooCfg, []advisor.MountProperty{
		{Name: zookeeperDataDir, Component: zookeeperServer, Default: "/hadoop/zookeeper", Policy: advisor.SingleMount},
	})
}

func (z *ZookeeperServiceAdvisor) ValidateConfigurations(_ *advisor.Context, configurations, recommended configuration.Document) []dao.ValidationItemDAOInfo {
	return advisor.ValidateSites(configurations, recommended, map[string]advisor.SiteValidator{
		ZooCfg: func(properties, _ configuration.Properties, _ configuration.Document) []validation.PropertyItem {
			var problems validation.Problems
			problems.Add(zookeeperDataDir, validation.NotEmpty(properties, zookeeperDataDir))
			return problems
		},
	})
}
