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

	"go.uber.org/zap"

	"github.com/apache/ambari-sub000/pkg/advisor"
	"github.com/apache/ambari-sub000/pkg/common"
	"github.com/apache/ambari-sub000/pkg/configuration"
	"github.com/apache/ambari-sub000/pkg/dao"
	"github.com/apache/ambari-sub000/pkg/log"
	"github.com/apache/ambari-sub000/pkg/validation"
)

const (
	HiveSite = "hive-site"
	HiveEnv  = "hive-env"

	hiveTezContainerSize  = "hive.tez.container.size"
	hiveTezJavaOpts       = "hive.tez.java.opts"
	hiveNoConditionalSize = "hive.auto.convert.join.noconditionaltask.size"
	hiveConnectionDriver  = "javax.jdo.option.ConnectionDriverName"
	hiveConnectionURL     = "javax.jdo.option.ConnectionURL"
	hiveDatabase          = "hive_database"
	hiveDatabaseName      = "hive_database_name"
	hiveDatabaseType      = "hive_database_type"
	hiveServer            = "HIVE_SERVER"
	hiveMetastore         = "HIVE_METASTORE"
	hiveClient            = "HIVE_CLIENT"
	defaultHiveDatabase   = "hive"
	hiveTezJavaOptsFormat = "-server -Xmx%dm -Djava.net.preferIPv4Stack=true -XX:NewRatio=8 -XX:+UseNUMA -XX:+UseParallelGC -XX:+PrintGCDetails -verbose:gc -XX:+PrintGCTimeStamps"
	bytesPerMB            = 1048576
)

// HiveServiceAdvisor recommends the Hive on Tez container and the metastore database connection.
type HiveServiceAdvisor struct{}

func (h *HiveServiceAdvisor) ServiceName() string {
	return "HIVE"
}

func (h *HiveServiceAdvisor) RecommendConfigurations(ctx *advisor.Context, out configuration.Document, summary *advisor.ClusterSummary) {
	hiveSite := ctx.Writer(out, HiveSite)
	containerSize := taskContainerSize(summary, yarnMaxAllocation(ctx, out, summary))
	hiveSite.PutInt(hiveNoConditionalSize, round(float64(containerSize)/3)*bytesPerMB)
	hiveSite.Put(hiveTezJavaOpts, fmt.Sprintf(hiveTezJavaOptsFormat, round(heapRatio*float64(containerSize)+0.5)))
	hiveSite.PutInt(hiveTezContainerSize, containerSize)
	h.recommendDatabase(ctx, out)
}

// recommendDatabase sets the metastore JDBC driver and url for the selected database. An unknown
// database selection leaves the connection properties alone.
func (h *HiveServiceAdvisor) recommendDatabase(ctx *advisor.Context, out configuration.Document) {
	database, ok := ctx.Value(out, HiveEnv, hiveDatabase)
	if !ok || database == "" {
		return
	}
	driver, err := common.JDBCDriver(database)
	if err != nil {
		log.Log(log.Recommend).Warn("hive metastore database not supported",
			zap.String("database", database),
			zap.Error(err))
		return
	}
	host := ""
	if hosts := ctx.ComponentHosts(hiveMetastore); len(hosts) > 0 {
		host = hosts[0]
	} else if hosts = ctx.ComponentHosts(hiveServer); len(hosts) > 0 {
		host = hosts[0]
	}
	schema := ctx.ValueOrDefault(out, HiveSite, "ambari.hive.db.schema.name", defaultHiveDatabase)
	schema = ctx.ValueOrDefault(out, HiveEnv, hiveDatabaseName, schema)
	url, err := common.JDBCConnectionString(database, host, schema)
	if err != nil {
		return
	}
	alias, _ := common.DatabaseTypeAlias(database)
	hiveSite := ctx.Writer(out, HiveSite)
	hiveSite.Put(hiveConnectionDriver, driver)
	hiveSite.Put(hiveConnectionURL, url)
	ctx.Writer(out, HiveEnv).Put(hiveDatabaseType, alias)
}

func (h *HiveServiceAdvisor) ValidateConfigurations(_ *advisor.Context, configurations, recommended configuration.Document) []dao.ValidationItemDAOInfo {
	return advisor.ValidateSites(configurations, recommended, map[string]advisor.SiteValidator{
		HiveSite: func(properties, defaults configuration.Properties, all configuration.Document) []validation.PropertyItem {
			var problems validation.Problems
			problems.Add(hiveTezContainerSize, validation.LessThanDefault(properties, defaults, hiveTezContainerSize))
			problems.Add(hiveTezJavaOpts, validation.Xmx(properties, defaults, hiveTezJavaOpts))
			problems.Add(hiveNoConditionalSize, validation.LessThanDefault(properties, defaults, hiveNoConditionalSize))
			if maxAllocation, ok := all.Property(advisor.YarnSite, yarnMaxAllocationMB); ok {
				problems.Add(hiveTezContainerSize, aboveMaxAllocation(properties, hiveTezContainerSize, maxAllocation))
			}
			return problems
		},
	})
}

// ColocateService puts a Hive client on every HiveServer2 host.
func (h *HiveServiceAdvisor) ColocateService(_ *advisor.Context, layout *advisor.HostComponents, instance *advisor.ServiceInstance) {
	if !instance.HasComponent(hiveClient) {
		return
	}
	for _, host := range layout.HostsWith(hiveServer) {
		layout.Add(host, dao.HostGroupComponentDAOInfo{
			Name:            hiveClient,
			MpackInstance:   instance.MpackName,
			ServiceInstance: instance.Name,
		})
	}
}
