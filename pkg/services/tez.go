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
	"fmt"

	"github.com/apache/ambari-sub000/pkg/advisor"
	"github.com/apache/ambari-sub000/pkg/common"
	"github.com/apache/ambari-sub000/pkg/configuration"
	"github.com/apache/ambari-sub000/pkg/dao"
	"github.com/apache/ambari-sub000/pkg/validation"
)

const (
	TezSite = "tez-site"

	tezAMResourceMB      = "tez.am.resource.memory.mb"
	tezTaskResourceMB    = "tez.task.resource.memory.mb"
	tezRuntimeIOSortMB   = "tez.runtime.io.sort.mb"
	tezUnorderedBufferMB = "tez.runtime.unordered.output.buffer.size-mb"
	tezDAGSubmitTimeout  = "tez.session.am.dag.submit.timeout.secs"
	tezQueueName         = "tez.queue.name"
	defaultDAGTimeout    = "600"
	maxTezSortMB         = 2047
	unorderedBufferPct   = 0.075
	smallAMMemoryMB      = 3072
	largeTaskContainerMB = 2048
)

// TezServiceAdvisor sizes the Tez application master and tasks within the YARN maximum allocation.
type TezServiceAdvisor struct{}

func (t *TezServiceAdvisor) ServiceName() string {
	return "TEZ"
}

// taskContainerSize is the map memory for large containers, the reduce memory otherwise, capped by the
// NodeManager memory and the maximum allocation.
func taskContainerSize(summary *advisor.ClusterSummary, maxAllocation int64) int64 {
	size := summary.ReduceMemory
	if summary.MapMemory > largeTaskContainerMB {
		size = summary.MapMemory
	}
	return min64(summary.Containers*summary.RAMPerContainer, size, maxAllocation)
}

func (t *TezServiceAdvisor) RecommendConfigurations(ctx *advisor.Context, out configuration.Document, summary *advisor.ClusterSummary) {
	tez := ctx.Writer(out, TezSite)
	maxAllocation := yarnMaxAllocation(ctx, out, summary)

	am := summary.AMMemory
	if am < smallAMMemoryMB {
		am *= 2
	}
	tez.PutInt(tezAMResourceMB, min64(maxAllocation, am))

	tez.PutInt(tezTaskResourceMB, taskContainerSize(summary, maxAllocation))
	task := intValue(ctx, out, TezSite, tezTaskResourceMB, 0)
	tez.PutInt(tezRuntimeIOSortMB, min64(int64(float64(task)*sortBufferPct), maxTezSortMB))
	tez.PutInt(tezUnorderedBufferMB, int64(float64(task)*unorderedBufferPct))
	tez.Put(tezDAGSubmitTimeout, defaultDAGTimeout)
	tez.Put(tezQueueName, recommendYarnQueue(ctx, TezSite, tezQueueName))
}

func (t *TezServiceAdvisor) ValidateConfigurations(ctx *advisor.Context, configurations, recommended configuration.Document) []dao.ValidationItemDAOInfo {
	leaves := yarnLeafQueues(ctx)
	return advisor.ValidateSites(configurations, recommended, map[string]advisor.SiteValidator{
		TezSite: func(properties, defaults configuration.Properties, all configuration.Document) []validation.PropertyItem {
			var problems validation.Problems
			problems.Add(tezAMResourceMB, validation.LessThanDefault(properties, defaults, tezAMResourceMB))
			problems.Add(tezTaskResourceMB, validation.LessThanDefault(properties, defaults, tezTaskResourceMB))
			problems.Add(tezRuntimeIOSortMB, validation.LessThanDefault(properties, defaults, tezRuntimeIOSortMB))
			problems.Add(tezQueueName, validation.YarnQueue(properties, tezQueueName, leaves))
			if maxAllocation, ok := all.Property(advisor.YarnSite, yarnMaxAllocationMB); ok {
				problems.Add(tezAMResourceMB, aboveMaxAllocation(properties, tezAMResourceMB, maxAllocation))
				problems.Add(tezTaskResourceMB, aboveMaxAllocation(properties, tezTaskResourceMB, maxAllocation))
			}
			return problems
		},
	})
}

// aboveMaxAllocation warns when a container size is larger than YARN can allocate.
func aboveMaxAllocation(properties configuration.Properties, name, maxAllocation string) *validation.Item {
	value, ok := properties[name]
	if !ok {
		return nil
	}
	size, valid := common.ToNumber(value)
	limit, limitValid := common.ToNumber(maxAllocation)
	if !valid || !limitValid || size <= limit {
		return nil
	}
	return validation.WarnItem(fmt.Sprintf("%s should be less than YARN max allocation size (%d)", name, limit))
}
