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
	"math"
	"sort"

	"github.com/apache/ambari-sub000/pkg/advisor"
	"github.com/apache/ambari-sub000/pkg/capacity"
	"github.com/apache/ambari-sub000/pkg/common"
	"github.com/apache/ambari-sub000/pkg/configuration"
)

const (
	ClusterEnv        = "cluster-env"
	CapacityScheduler = capacity.ConfigType
	defaultQueue      = "default"
)

func init() {
	advisor.RegisterServiceAdvisor("HDFSServiceAdvisor", func() (advisor.ServiceAdvisor, error) { return &HDFSServiceAdvisor{}, nil })
	advisor.RegisterServiceAdvisor("YARNServiceAdvisor", func() (advisor.ServiceAdvisor, error) { return &YARNServiceAdvisor{}, nil })
	advisor.RegisterServiceAdvisor("MAPREDUCE2ServiceAdvisor", func() (advisor.ServiceAdvisor, error) { return &MapReduce2ServiceAdvisor{}, nil })
	advisor.RegisterServiceAdvisor("TEZServiceAdvisor", func() (advisor.ServiceAdvisor, error) { return &TezServiceAdvisor{}, nil })
	advisor.RegisterServiceAdvisor("HIVEServiceAdvisor", func() (advisor.ServiceAdvisor, error) { return &HiveServiceAdvisor{}, nil })
	advisor.RegisterServiceAdvisor("HBASEServiceAdvisor", func() (advisor.ServiceAdvisor, error) { return &HBaseServiceAdvisor{}, nil })
	advisor.RegisterServiceAdvisor("ZOOKEEPERServiceAdvisor", func() (advisor.ServiceAdvisor, error) { return &ZookeeperServiceAdvisor{}, nil })
}

// intValue returns the current value of a numeric property, the default if it is not set or not a number.
func intValue(ctx *advisor.Context, out configuration.Document, configType, name string, defaultValue int64) int64 {
	value, ok := ctx.Value(out, configType, name)
	if !ok {
		return defaultValue
	}
	n, err := common.ConvertToNumber(value)
	if err != nil {
		return defaultValue
	}
	return int64(n)
}

func round(v float64) int64 {
	return int64(math.Round(v))
}

func min64(values ...int64) int64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

// yarnLeafQueues returns the sorted leaf queues of the capacity scheduler in the services document.
func yarnLeafQueues(ctx *advisor.Context) []string {
	props := ctx.UserConfigurations().Properties(CapacityScheduler)
	if props == nil {
		return nil
	}
	return capacity.ParseConfiguration(props).LeafQueueNames()
}

// recommendYarnQueue keeps the configured queue when it is a leaf queue, otherwise the last leaf queue in
// sorted order is used. Without leaf queues the configured queue, or "default", is kept.
func recommendYarnQueue(ctx *advisor.Context, configType, property string) string {
	current, ok := ctx.UserConfigurations().Property(configType, property)
	leaves := yarnLeafQueues(ctx)
	if len(leaves) == 0 {
		if ok && current != "" {
			return current
		}
		return defaultQueue
	}
	if ok && common.Contains(leaves, current) {
		return current
	}
	sort.Strings(leaves)
	return leaves[len(leaves)-1]
}

// yarnMaxAllocation returns the maximum container size: the recommended or configured maximum allocation
// and the NodeManager memory when no maximum is known.
func yarnMaxAllocation(ctx *advisor.Context, out configuration.Document, summary *advisor.ClusterSummary) int64 {
	if v := intValue(ctx, out, advisor.YarnSite, yarnMaxAllocationMB, 0); v > 0 {
		return v
	}
	if v := intValue(ctx, out, advisor.YarnSite, yarnNodeManagerMemoryMB, 0); v > 0 {
		return v
	}
	return summary.Containers * summary.RAMPerContainer
}
