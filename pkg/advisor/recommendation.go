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
	"strings"

	"go.uber.org/zap"

	"github.com/apache/ambari-sub000/pkg/configuration"
	"github.com/apache/ambari-sub000/pkg/dao"
	"github.com/apache/ambari-sub000/pkg/log"
)

// RecommendConfigurations runs the configuration recommenders of all service instances. With config groups
// in the request only the groups are recommended.
func (ctx *Context) RecommendConfigurations() *dao.RecommendationDAOInfo {
	resp := ctx.emptyRecommendation()
	if len(ctx.Services.ConfigGroups) > 0 {
		resp.Recommendations.ConfigGroups = ctx.recommendConfigGroups()
		resp.Recommendations.Blueprint.MpackInstances = ctx.mpackInstances(nil)
		return resp
	}
	resp.Recommendations.Blueprint.MpackInstances = ctx.mpackInstances(ctx.recommendMpackConfigurations())
	return resp
}

// RecommendConfigurationDependencies recommends only the properties affected by the changed configurations.
// The result holds nothing but the affected and forced properties.
func (ctx *Context) RecommendConfigurationDependencies() *dao.RecommendationDAOInfo {
	requested := ctx.affectedProperties()
	ctx.Policy = configuration.NewScopedOverridePolicy(ctx.Services.ChangedKeys(), requested)
	log.Log(log.Recommend).Debug("recommending configuration dependencies",
		zap.Int("changed", len(ctx.Services.ChangedConfigurations)),
		zap.Int("requested", len(requested)))
	resp := ctx.RecommendConfigurations()
	// recommenders may force more properties, renamed users for example
	for _, key := range ctx.forced {
		requested[key] = true
	}
	keep := func(configType, name string) bool {
		return requested[configuration.PropertyKey{Type: configType, Name: name}]
	}
	for i := range resp.Recommendations.Blueprint.MpackInstances {
		resp.Recommendations.Blueprint.MpackInstances[i].Configurations.Filter(keep)
	}
	for i := range resp.Recommendations.ConfigGroups {
		resp.Recommendations.ConfigGroups[i].Configurations.Filter(keep)
		resp.Recommendations.ConfigGroups[i].DependentConfigurations.Filter(keep)
	}
	return resp
}

func (ctx *Context) emptyRecommendation() *dao.RecommendationDAOInfo {
	return &dao.RecommendationDAOInfo{
		Hosts:    ctx.HostNames,
		Services: ctx.Services.ServiceNames(),
		Recommendations: dao.RecommendationsDAOInfo{
			BlueprintClusterBinding: dao.BlueprintClusterBindingDAOInfo{HostGroups: []dao.HostGroupBindingDAOInfo{}},
		},
	}
}

// recommendMpackConfigurations returns one document per mpack, in mpack order.
func (ctx *Context) recommendMpackConfigurations() []configuration.Document {
	summary := ctx.ClusterSummary()
	docs := make([]configuration.Document, len(ctx.Mpacks))
	for i, mpack := range ctx.Mpacks {
		out := make(configuration.Document)
		for _, si := range mpack.Instances {
			ctx.recommendInstance(si, out, summary)
		}
		docs[i] = out
	}
	return docs
}

// recommendedDefaults returns the recommendations of all mpacks merged into one document.
func (ctx *Context) recommendedDefaults() configuration.Document {
	merged := make(configuration.Document)
	for _, doc := range ctx.recommendMpackConfigurations() {
		merged.Overlay(doc)
	}
	return merged
}

func (ctx *Context) recommendInstance(si *ServiceInstance, out configuration.Document, summary *ClusterSummary) {
	recommender, ok := si.Advisor.(ConfigurationRecommender)
	if !ok {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			log.Log(log.Recommend).Error("configuration recommender failed",
				zap.String("instance", si.Key()),
				zap.Any("panic", r))
		}
	}()
	recommender.RecommendConfigurations(ctx, out, summary)
}

func (ctx *Context) mpackInstances(docs []configuration.Document) []dao.MpackInstanceDAOInfo {
	result := make([]dao.MpackInstanceDAOInfo, 0, len(ctx.Mpacks))
	for i, mpack := range ctx.Mpacks {
		info := dao.MpackInstanceDAOInfo{
			Name:             mpack.Name,
			Version:          mpack.Version,
			ServiceInstances: make([]dao.ServiceInstanceDAOInfo, 0, len(mpack.Instances)),
			Configurations:   make(configuration.Document),
			Hosts:            ctx.HostNames,
		}
		for _, si := range mpack.Instances {
			info.ServiceInstances = append(info.ServiceInstances, dao.ServiceInstanceDAOInfo{Name: si.Name, Type: si.Type})
		}
		if i < len(docs) && docs[i] != nil {
			info.Configurations = docs[i]
		}
		result = append(result, info)
	}
	return result
}

// recommendConfigGroups recommends each group with the summary of the group hosts. Types the group
// overrides are returned as configurations, the other types as dependent configurations.
func (ctx *Context) recommendConfigGroups() []dao.ConfigGroupRecommendationDAOInfo {
	result := make([]dao.ConfigGroupRecommendationDAOInfo, 0, len(ctx.Services.ConfigGroups))
	for _, group := range ctx.Services.ConfigGroups {
		groupCtx := ctx.forConfigGroup(group)
		summary := groupCtx.ClusterSummary()
		out := make(configuration.Document)
		for _, si := range groupCtx.Instances {
			groupCtx.recommendInstance(si, out, summary)
		}
		rec := dao.ConfigGroupRecommendationDAOInfo{
			Configurations:          make(configuration.Document),
			DependentConfigurations: make(configuration.Document),
			Hosts:                   group.Hosts,
		}
		for configType, section := range out {
			if group.Configurations.Has(configType) {
				rec.Configurations[configType] = section
			} else {
				rec.DependentConfigurations[configType] = section
			}
		}
		log.Log(log.Recommend).Debug("config group recommended",
			zap.Strings("hosts", group.Hosts),
			zap.Int("types", len(out)))
		result = append(result, rec)
	}
	return result
}

// affectedProperties returns the changed properties followed through the configuration dependencies of the
// stack metadata, plus the forced properties. A changed property is only included when a property it affects
// depends on it in turn.
func (ctx *Context) affectedProperties() map[configuration.PropertyKey]bool {
	changed := make(map[configuration.PropertyKey]bool)
	for _, key := range ctx.Services.ChangedKeys() {
		changed[key] = true
	}
	var metadata []dao.ConfigurationMetaDAOInfo
	for _, svc := range ctx.Services.Services {
		metadata = append(metadata, svc.Configurations...)
	}
	affected := make(map[configuration.PropertyKey]bool)
	for size := -1; size != len(affected); {
		size = len(affected)
		for _, meta := range metadata {
			key := configuration.PropertyKey{
				Type: strings.TrimSuffix(meta.StackConfigurations.Type, ".xml"),
				Name: meta.StackConfigurations.PropertyName,
			}
			if !affected[key] && !changed[key] {
				continue
			}
			for _, dep := range meta.Dependencies {
				d := dep.StackConfigurationDependency
				affected[configuration.PropertyKey{Type: d.DependencyType, Name: d.DependencyName}] = true
			}
		}
	}
	for _, key := range ctx.forced {
		affected[key] = true
	}
	return affected
}
