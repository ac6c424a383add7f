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
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/apache/ambari-sub000/pkg/common"
	"github.com/apache/ambari-sub000/pkg/common/resources"
	"github.com/apache/ambari-sub000/pkg/configuration"
	"github.com/apache/ambari-sub000/pkg/dao"
	"github.com/apache/ambari-sub000/pkg/log"
	"github.com/apache/ambari-sub000/pkg/metrics"
	"github.com/apache/ambari-sub000/pkg/validation"
)

// ValidateComponentLayout checks the component assignments of the services document.
func (ctx *Context) ValidateComponentLayout() *dao.ValidationDAOInfo {
	var items []dao.ValidationItemDAOInfo
	items = append(items, ctx.validateCardinalities()...)
	items = append(items, ctx.validateHostsUsed()...)
	items = append(items, ctx.validateRequiredComponentsPresent()...)
	for _, si := range ctx.Instances {
		if validator, ok := si.Advisor.(ComponentLayoutValidator); ok {
			items = append(items, validator.ValidateComponentLayout(ctx, si)...)
		}
	}
	return ctx.validationResult(items)
}

// ValidateConfigurations checks the supplied configurations against the recommended values.
func (ctx *Context) ValidateConfigurations() *dao.ValidationDAOInfo {
	recommended := ctx.recommendedDefaults()
	configurations := ctx.Services.Configurations
	var items []dao.ValidationItemDAOInfo
	for _, si := range ctx.Instances {
		if validator, ok := si.Advisor.(ConfigurationValidator); ok {
			items = append(items, validator.ValidateConfigurations(ctx, configurations, recommended)...)
		}
	}
	items = append(items, ctx.validateHostHeapSizes(configurations)...)
	items = append(items, validation.MinMax(configurations, recommended)...)
	return ctx.validationResult(items)
}

func (ctx *Context) validationResult(items []dao.ValidationItemDAOInfo) *dao.ValidationDAOInfo {
	if items == nil {
		items = []dao.ValidationItemDAOInfo{}
	}
	counts := make(map[string]int)
	for _, item := range items {
		counts[item.Level]++
	}
	for level, count := range counts {
		metrics.GetAdvisorMetrics().AddValidationItems(level, count)
	}
	log.Log(log.Validate).Debug("validation finished",
		zap.String("callType", ctx.CallType),
		zap.Int("items", len(items)))
	return &dao.ValidationDAOInfo{Items: items}
}

// SiteValidator is the signature of a validator for one configuration type.
type SiteValidator func(properties, recommended configuration.Properties, configurations configuration.Document) []validation.PropertyItem

// ValidateSites runs each validator when its configuration type is both supplied and recommended.
func ValidateSites(configurations, recommended configuration.Document, validators map[string]SiteValidator) []dao.ValidationItemDAOInfo {
	var items []dao.ValidationItemDAOInfo
	for _, configType := range common.SortedKeys(validators) {
		if !configurations.Has(configType) || !recommended.Has(configType) {
			continue
		}
		problems := validators[configType](configurations.Properties(configType), recommended.Properties(configType), configurations)
		items = append(items, validation.ToConfigurationProblems(problems, configType)...)
	}
	return items
}

func (ctx *Context) knownHostCount(hosts []string) int {
	count := 0
	for _, h := range hosts {
		if common.Contains(ctx.HostNames, h) {
			count++
		}
	}
	return count
}

func (ctx *Context) validateCardinalities() []dao.ValidationItemDAOInfo {
	var items []dao.ValidationItemDAOInfo
	for _, si := range ctx.Instances {
		for _, c := range si.Components() {
			sc := c.StackServiceComponents
			if sc.Cardinality == "" {
				continue
			}
			displayName := sc.DisplayName
			if displayName == "" {
				displayName = sc.ComponentName
			}
			assigned := ctx.knownHostCount(sc.Hostnames)
			if message, failed := validation.CardinalityMessage(displayName, sc.Cardinality, assigned, len(ctx.HostNames)); failed {
				items = append(items, validation.ComponentProblem(validation.Error, message, sc.ComponentName, ""))
			}
		}
	}
	return items
}

// validateHostsUsed reports the active hosts without a valuable component.
func (ctx *Context) validateHostsUsed() []dao.ValidationItemDAOInfo {
	notValuable := ctx.NotValuableComponents()
	used := make(map[string]bool)
	for _, si := range ctx.Instances {
		for _, c := range si.Components() {
			if common.Contains(notValuable, c.StackServiceComponents.ComponentName) {
				continue
			}
			for _, h := range c.StackServiceComponents.Hostnames {
				used[h] = true
			}
		}
	}
	var items []dao.ValidationItemDAOInfo
	for _, h := range ctx.ActiveHosts {
		if !used[h] {
			items = append(items, validation.ComponentProblem(validation.Error, common.HostNotUsed, "", h))
		}
	}
	return items
}

// validateRequiredComponentsPresent checks the unconditional dependencies of the assigned masters and slaves.
// Dependencies on clients are not checked: clients are installed where needed.
func (ctx *Context) validateRequiredComponentsPresent() []dao.ValidationItemDAOInfo {
	var items []dao.ValidationItemDAOInfo
	for _, si := range ctx.Instances {
		for _, c := range si.Components() {
			sc := c.StackServiceComponents
			if (!sc.IsMaster() && !sc.IsSlave()) || len(sc.Hostnames) == 0 {
				continue
			}
			for _, dep := range c.Dependencies {
				d := dep.Dependencies
				if len(d.Conditions) > 0 {
					continue
				}
				required := ctx.Component(d.ComponentName)
				if required == nil || required.StackServiceComponents.IsClient() {
					continue
				}
				requiredName := displayName(required.StackServiceComponents)
				switch {
				case d.IsHostScoped():
					var missing []string
					for _, h := range common.Unique(sc.Hostnames) {
						if !common.Contains(required.StackServiceComponents.Hostnames, h) {
							missing = append(missing, h)
						}
					}
					if len(missing) > 0 {
						sort.Strings(missing)
						items = append(items, validation.ComponentProblem(validation.Error,
							validation.RequiredCoHostedMessage(displayName(sc), requiredName, missing), sc.ComponentName, ""))
					}
				case d.IsClusterScoped():
					if len(required.StackServiceComponents.Hostnames) == 0 {
						items = append(items, validation.ComponentProblem(validation.Error,
							validation.RequiredPresentMessage(displayName(sc), requiredName), sc.ComponentName, ""))
					}
				}
			}
		}
	}
	return items
}

func displayName(sc dao.StackServiceComponentDAOInfo) string {
	if sc.DisplayName != "" {
		return sc.DisplayName
	}
	return sc.ComponentName
}

// heapMegabytes converts a heap size property into MB. A plain number is in MB.
func heapMegabytes(value string) (int64, bool) {
	value = strings.TrimSpace(value)
	if v, err := strconv.ParseInt(value, 10, 64); err == nil {
		return v, true
	}
	bytes, err := resources.ParseHeapSize(value)
	if err != nil {
		return 0, false
	}
	return bytes / (1 << 20), true
}

// validateHostHeapSizes warns for hosts where the heaps of the assigned components add up to more than the
// host memory.
func (ctx *Context) validateHostHeapSizes(configurations configuration.Document) []dao.ValidationItemDAOInfo {
	heapProperties := ctx.HeapSizeProperties()
	perHost := make(map[string]int64)
	for _, si := range ctx.Instances {
		for _, c := range si.Components() {
			props, ok := heapProperties[c.StackServiceComponents.ComponentName]
			if !ok {
				continue
			}
			var heap int64
			for _, p := range props {
				value := configurations.PropertyOrDefault(p.ConfigType, p.Property, p.Default)
				if mb, ok := heapMegabytes(value); ok {
					heap += mb
				}
			}
			for _, h := range common.Unique(c.StackServiceComponents.Hostnames) {
				perHost[h] += heap
			}
		}
	}
	var items []dao.ValidationItemDAOInfo
	for _, name := range ctx.HostNames {
		heap, ok := perHost[name]
		if !ok {
			continue
		}
		host := ctx.Hosts.Host(name)
		memory := int64(host.TotalMem) / 1024
		if memory > 0 && heap > memory {
			message := fmt.Sprintf("Total heap of the components on host %s is %d MB which exceeds the host memory of %d MB", name, heap, memory)
			items = append(items, validation.ComponentProblem(validation.Warn, message, "", name))
		}
	}
	return items
}
