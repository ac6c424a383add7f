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
	"github.com/apache/ambari-sub000/pkg/common/resources"
	"github.com/apache/ambari-sub000/pkg/configuration"
	"github.com/apache/ambari-sub000/pkg/dao"
	"github.com/apache/ambari-sub000/pkg/validation"
)

const (
	MapredSite = "mapred-site"

	mrAMResourceMB   = "yarn.app.mapreduce.am.resource.mb"
	mrAMCommandOpts  = "yarn.app.mapreduce.am.command-opts"
	mrMapMemoryMB    = "mapreduce.map.memory.mb"
	mrReduceMemoryMB = "mapreduce.reduce.memory.mb"
	mrMapJavaOpts    = "mapreduce.map.java.opts"
	mrReduceJavaOpts = "mapreduce.reduce.java.opts"
	mrIOSortMB       = "mapreduce.task.io.sort.mb"
	mrJobQueueName   = "mapreduce.job.queuename"

	heapRatio     = 0.8
	maxMRSortMB   = 1024
	sortBufferPct = 0.4
)

// MapReduce2ServiceAdvisor derives the task and application master sizes from the container size.
type MapReduce2ServiceAdvisor struct{}

func (m *MapReduce2ServiceAdvisor) ServiceName() string {
	return "MAPREDUCE2"
}

func (m *MapReduce2ServiceAdvisor) RecommendConfigurations(ctx *advisor.Context, out configuration.Document, summary *advisor.ClusterSummary) {
	mapred := ctx.Writer(out, MapredSite)
	mapred.PutInt(mrAMResourceMB, summary.AMMemory)
	mapred.Put(mrAMCommandOpts, resources.FormatXmx(round(heapRatio*float64(summary.AMMemory))))
	mapred.PutInt(mrMapMemoryMB, summary.MapMemory)
	mapred.PutInt(mrReduceMemoryMB, summary.ReduceMemory)
	mapred.Put(mrMapJavaOpts, resources.FormatXmx(round(heapRatio*float64(summary.MapMemory))))
	mapred.Put(mrReduceJavaOpts, resources.FormatXmx(round(heapRatio*float64(summary.ReduceMemory))))
	mapred.PutInt(mrIOSortMB, min64(round(sortBufferPct*float64(summary.MapMemory)), maxMRSortMB))
	mapred.Put(mrJobQueueName, recommendYarnQueue(ctx, MapredSite, mrJobQueueName))
}

func (m *MapReduce2ServiceAdvisor) ValidateConfigurations(ctx *advisor.Context, configurations, recommended configuration.Document) []dao.ValidationItemDAOInfo {
	leaves := yarnLeafQueues(ctx)
	return advisor.ValidateSites(configurations, recommended, map[string]advisor.SiteValidator{
		MapredSite: func(properties, defaults configuration.Properties, _ configuration.Document) []validation.PropertyItem {
			var problems validation.Problems
			problems.Add(mrMapJavaOpts, validation.Xmx(properties, defaults, mrMapJavaOpts))
			problems.Add(mrReduceJavaOpts, validation.Xmx(properties, defaults, mrReduceJavaOpts))
			problems.Add(mrIOSortMB, validation.LessThanDefault(properties, defaults, mrIOSortMB))
			problems.Add(mrMapMemoryMB, validation.LessThanDefault(properties, defaults, mrMapMemoryMB))
			problems.Add(mrReduceMemoryMB, validation.LessThanDefault(properties, defaults, mrReduceMemoryMB))
			problems.Add(mrAMResourceMB, validation.LessThanDefault(properties, defaults, mrAMResourceMB))
			problems.Add(mrAMCommandOpts, validation.Xmx(properties, defaults, mrAMCommandOpts))
			problems.Add(mrJobQueueName, validation.YarnQueue(properties, mrJobQueueName, leaves))
			return problems
		},
	})
}
