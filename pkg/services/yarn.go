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
	"strconv"

	"go.uber.org/zap"

	"github.com/apache/ambari-sub000/pkg/advisor"
	"github.com/apache/ambari-sub000/pkg/common"
	"github.com/apache/ambari-sub000/pkg/common/configs"
	"github.com/apache/ambari-sub000/pkg/configuration"
	"github.com/apache/ambari-sub000/pkg/dao"
	"github.com/apache/ambari-sub000/pkg/log"
	"github.com/apache/ambari-sub000/pkg/validation"
)

const (
	YarnEnv = "yarn-env"

	yarnPrefix                 = "yarn."
	yarnNodeManagerPrefix      = yarnPrefix + "nodemanager."
	yarnNodeManagerMemoryMB    = yarnNodeManagerPrefix + "resource.memory-mb"
	yarnNodeManagerLocalDirs   = yarnNodeManagerPrefix + "local-dirs"
	yarnNodeManagerLogDirs     = yarnNodeManagerPrefix + "log-dirs"
	yarnContainerExecutorGroup = yarnNodeManagerPrefix + "linux-container-executor.group"
	yarnMinAllocationMB        = advisor.YarnMinAllocationProperty
	yarnMaxAllocationMB        = yarnPrefix + "scheduler.maximum-allocation-mb"
	yarnTimelineLevelDBPath    = yarnPrefix + "timeline-service.leveldb-timeline-store.path"
	yarnTimelineStateStorePath = yarnPrefix + "timeline-service.leveldb-state-store.path"
	yarnServiceCheckQueue      = "service_check.queue.name"
	yarnMinUserID              = "min_user_id"
	yarnUserGroup              = "user_group"
	defaultUserGroup           = "hadoop"
	maxNodeManagerMemoryMB     = 1048576
	resourceManager            = "RESOURCEMANAGER"
	appTimelineServer          = "APP_TIMELINE_SERVER"
	nodeManager                = "NODEMANAGER"
)

var yarnMountProperties = []advisor.MountProperty{
	{Name: yarnNodeManagerLocalDirs, Component: nodeManager, Default: "/hadoop/yarn/local", Policy: advisor.MultiMount},
	{Name: yarnNodeManagerLogDirs, Component: nodeManager, Default: "/hadoop/yarn/log", Policy: advisor.MultiMount},
	{Name: yarnTimelineLevelDBPath, Component: appTimelineServer, Default: "/hadoop/yarn/timeline", Policy: advisor.SingleMount},
	{Name: yarnTimelineStateStorePath, Component: appTimelineServer, Default: "/hadoop/yarn/timeline", Policy: advisor.SingleMount},
}

// YARNServiceAdvisor sizes the NodeManager memory and container allocation from the cluster summary.
type YARNServiceAdvisor struct{}

func (y *YARNServiceAdvisor) ServiceName() string {
	return "YARN"
}

func (y *YARNServiceAdvisor) RecommendConfigurations(ctx *advisor.Context, out configuration.Document, summary *advisor.ClusterSummary) {
	yarnSite := ctx.Writer(out, advisor.YarnSite)
	yarnEnv := ctx.Writer(out, YarnEnv)

	hostMemory := int64(maxNodeManagerMemoryMB)
	if ref := summary.ReferenceNodeManagerHost; ref != nil {
		hostMemory = min64(int64(ref.TotalMem)/1024, hostMemory)
	}
	nodeManagerMemory := min64(summary.Containers*summary.RAMPerContainer, hostMemory)
	if ctx.CallType != advisor.RecommendConfigurations {
		if supplied, ok := ctx.UserConfigurations().Property(advisor.YarnSite, yarnNodeManagerMemoryMB); ok {
			if v, err := strconv.ParseInt(supplied, 10, 64); err == nil {
				nodeManagerMemory = v
			}
		}
	}
	yarnSite.PutInt(yarnNodeManagerMemoryMB, nodeManagerMemory)
	yarnSite.PutInt(yarnMinAllocationMB, summary.YarnMinContainerSize)
	nodeManagerMemory = intValue(ctx, out, advisor.YarnSite, yarnNodeManagerMemoryMB, nodeManagerMemory)
	yarnSite.PutInt(yarnMaxAllocationMB, nodeManagerMemory)

	yarnSite.PutAttribute(yarnNodeManagerMemoryMB, "maximum", strconv.FormatInt(hostMemory, 10))
	yarnSite.PutAttribute(yarnMinAllocationMB, "maximum", strconv.FormatInt(nodeManagerMemory, 10))
	yarnSite.PutAttribute(yarnMaxAllocationMB, "maximum", strconv.FormatInt(nodeManagerMemory, 10))

	yarnEnv.Put(yarnMinUserID, common.GetSystemMinUID(ctx.Config.System.LoginDefsPath()))
	yarnSite.Put(yarnContainerExecutorGroup, ctx.UserConfigurations().PropertyOrDefault(ClusterEnv, yarnUserGroup, defaultUserGroup))
	ctx.UpdateMountProperties(out, advisor.YarnSite, yarnMountProperties)
	yarnEnv.Put(yarnServiceCheckQueue, recommendYarnQueue(ctx, YarnEnv, yarnServiceCheckQueue))

	log.Log(log.Recommend).Debug("YARN configurations recommended",
		zap.Int64("nodeManagerMemoryMB", nodeManagerMemory),
		zap.Int64("minAllocationMB", summary.YarnMinContainerSize))
}

func (y *YARNServiceAdvisor) ValidateConfigurations(ctx *advisor.Context, configurations, recommended configuration.Document) []dao.ValidationItemDAOInfo {
	leaves := yarnLeafQueues(ctx)
	return advisor.ValidateSites(configurations, recommended, map[string]advisor.SiteValidator{
		advisor.YarnSite: func(properties, defaults configuration.Properties, _ configuration.Document) []validation.PropertyItem {
			var problems validation.Problems
			problems.Add(yarnNodeManagerMemoryMB, validation.LessThanDefault(properties, defaults, yarnNodeManagerMemoryMB))
			problems.Add(yarnMinAllocationMB, validation.LessThanDefault(properties, defaults, yarnMinAllocationMB))
			problems.Add(yarnMaxAllocationMB, validation.LessThanDefault(properties, defaults, yarnMaxAllocationMB))
			return problems
		},
		YarnEnv: func(properties, _ configuration.Properties, _ configuration.Document) []validation.PropertyItem {
			var problems validation.Problems
			if _, ok := properties[yarnServiceCheckQueue]; ok {
				problems.Add(yarnServiceCheckQueue, validation.YarnQueue(properties, yarnServiceCheckQueue, leaves))
			}
			return problems
		},
	})
}

func (y *YARNServiceAdvisor) ComponentLayoutSchemes() []configs.LayoutScheme {
	return []configs.LayoutScheme{
		{Component: appTimelineServer, Thresholds: []configs.SchemeThreshold{{Hosts: 31, Index: 1}}, Else: 2},
	}
}
