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
	HBaseEnv  = "hbase-env"
	HBaseSite = "hbase-site"

	hbaseRegionServerHeap = "hbase_regionserver_heapsize"
	hbaseMasterHeap       = "hbase_master_heapsize"
	hbaseUser             = "hbase_user"
	hbaseSuperuser        = "hbase.superuser"
	defaultHBaseUser      = "hbase"
)

// master heap in GB by upper bound of the cluster size
var hbaseMasterHeapSteps = []struct {
	hosts  int
	heapGB int64
}{
	{hosts: 20, heapGB: 1},
	{hosts: 100, heapGB: 2},
	{hosts: 500, heapGB: 4},
}

const hbaseLargestMasterHeapGB = 8

// HBaseServiceAdvisor sizes the HBase heaps from the memory reserved for HBase.
type HBaseServiceAdvisor struct{}

func (h *HBaseServiceAdvisor) ServiceName() string {
	return "HBASE"
}

func hbaseMasterHeapGB(hostCount int) int64 {
	for _, step := range hbaseMasterHeapSteps {
		if hostCount < step.hosts {
			return step.heapGB
		}
	}
	return hbaseLargestMasterHeapGB
}

func (h *HBaseServiceAdvisor) RecommendConfigurations(ctx *advisor.Context, out configuration.Document, summary *advisor.ClusterSummary) {
	env := ctx.Writer(out, HBaseEnv)
	env.PutInt(hbaseRegionServerHeap, summary.HBaseRAM*1024)
	env.PutInt(hbaseMasterHeap, hbaseMasterHeapGB(len(ctx.HostNames))*1024)
	user := ctx.ValueOrDefault(out, HBaseEnv, hbaseUser, defaultHBaseUser)
	ctx.Writer(out, HBaseSite).Put(hbaseSuperuser, user)
}

func (h *HBaseServiceAdvisor) ValidateConfigurations(_ *advisor.Context, configurations, recommended configuration.Document) []dao.ValidationItemDAOInfo {
	return advisor.ValidateSites(configurations, recommended, map[string]advisor.SiteValidator{
		HBaseEnv: func(properties, defaults configuration.Properties, _ configuration.Document) []validation.PropertyItem {
			var problems validation.Problems
			problems.Add(hbaseRegionServerHeap, validation.LessThanDefault(properties, defaults, hbaseRegionServerHeap))
			problems.Add(hbaseMasterHeap, validation.LessThanDefault(properties, defaults, hbaseMasterHeap))
			return problems
		},
		HBaseSite: func(properties, _ configuration.Properties, all configuration.Document) []validation.PropertyItem {
			var problems validation.Problems
			env := all.Properties(HBaseEnv)
			if env != nil {
				if _, ok := env[hbaseUser]; ok {
					problems.Add(hbaseSuperuser, validation.EqualsProperty(properties, hbaseSuperuser, env, hbaseUser, false))
				}
			}
			return problems
		},
	})
}
