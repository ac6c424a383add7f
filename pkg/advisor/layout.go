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

	"go.uber.org/zap"

	"github.com/apache/ambari-sub000/pkg/common"
	"github.com/apache/ambari-sub000/pkg/common/configs"
	"github.com/apache/ambari-sub000/pkg/dao"
	"github.com/apache/ambari-sub000/pkg/log"
)

// HostComponents is a component layout: the components placed on each active host.
type HostComponents struct {
	hosts      []string
	components map[string][]dao.HostGroupComponentDAOInfo
}

func newHostComponents(hosts []string) *HostComponents {
	hc := &HostComponents{
		hosts:      hosts,
		components: make(map[string][]dao.HostGroupComponentDAOInfo, len(hosts)),
	}
	for _, h := range hosts {
		hc.components[h] = nil
	}
	return hc
}

// Add places the component on the host. Returns false if the host is not part of the layout.
func (hc *HostComponents) Add(host string, ref dao.HostGroupComponentDAOInfo) bool {
	placed, ok := hc.components[host]
	if !ok {
		return false
	}
	for _, p := range placed {
		if p.Name == ref.Name {
			return true
		}
	}
	hc.components[host] = append(placed, ref)
	return true
}

// Remove takes the component off the host.
func (hc *HostComponents) Remove(host, component string) {
	placed := hc.components[host]
	for i, p := range placed {
		if p.Name == component {
			hc.components[host] = append(placed[:i:i], placed[i+1:]...)
			return
		}
	}
}

// Has returns true if the component is placed on the host.
func (hc *HostComponents) Has(host, component string) bool {
	for _, p := range hc.components[host] {
		if p.Name == component {
			return true
		}
	}
	return false
}

// HostsWith returns the hosts the component is placed on, in host order.
func (hc *HostComponents) HostsWith(component string) []string {
	var result []string
	for _, h := range hc.hosts {
		if hc.Has(h, component) {
			result = append(result, h)
		}
	}
	return result
}

// Components returns the names of the components on the host in placement order.
func (hc *HostComponents) Components(host string) []string {
	placed := hc.components[host]
	names := make([]string, 0, len(placed))
	for _, p := range placed {
		names = append(names, p.Name)
	}
	return names
}

// Hosts returns the hosts of the layout in order.
func (hc *HostComponents) Hosts() []string {
	return hc.hosts
}

// blueprint creates one host group per host with components, named in host order.
func (hc *HostComponents) blueprint() (dao.BlueprintDAOInfo, dao.BlueprintClusterBindingDAOInfo) {
	var blueprint dao.BlueprintDAOInfo
	binding := dao.BlueprintClusterBindingDAOInfo{HostGroups: []dao.HostGroupBindingDAOInfo{}}
	index := 0
	for _, h := range hc.hosts {
		placed := hc.components[h]
		if len(placed) == 0 {
			continue
		}
		index++
		name := fmt.Sprintf("host-group-%d", index)
		blueprint.HostGroups = append(blueprint.HostGroups, dao.HostGroupDAOInfo{
			Name:       name,
			Components: append([]dao.HostGroupComponentDAOInfo{}, placed...),
		})
		binding.HostGroups = append(binding.HostGroups, dao.HostGroupBindingDAOInfo{
			Name:  name,
			Hosts: []dao.FqdnDAOInfo{{Fqdn: h}},
		})
	}
	if blueprint.HostGroups == nil {
		blueprint.HostGroups = []dao.HostGroupDAOInfo{}
	}
	return blueprint, binding
}

// RecommendComponentLayout places all components on the active hosts and returns the blueprint.
func (ctx *Context) RecommendComponentLayout() *dao.RecommendationDAOInfo {
	layout := ctx.componentLayout()
	blueprint, binding := layout.blueprint()
	return &dao.RecommendationDAOInfo{
		Hosts:    ctx.HostNames,
		Services: ctx.Services.ServiceNames(),
		Recommendations: dao.RecommendationsDAOInfo{
			Blueprint:               blueprint,
			BlueprintClusterBinding: binding,
		},
	}
}

func (ctx *Context) componentLayout() *HostComponents {
	layout := newHostComponents(ctx.ActiveHosts)
	if len(ctx.ActiveHosts) == 0 {
		log.Log(log.Layout).Info("no active hosts, layout is empty")
		return layout
	}
	sorted := ctx.sortedByDependencies()

	for _, si := range sorted {
		for i := range si.Components() {
			component := &si.Service.Components[i]
			sc := component.StackServiceComponents
			if !sc.IsMaster() {
				continue
			}
			var hosts []string
			if len(sc.Hostnames) > 0 {
				hosts = sc.Hostnames
			} else {
				candidates := ctx.hostsMatchingDependencies(component, ctx.ActiveHosts, layout)
				if placer, ok := si.Advisor.(MasterComponentPlacer); ok {
					hosts = placer.HostsForMasterComponent(ctx, component, candidates)
				} else {
					hosts = ctx.DefaultHostsForMasterComponent(component, candidates)
				}
			}
			ctx.place(layout, si, sc.ComponentName, hosts)
		}
	}

	freeHosts := ctx.freeHosts()
	for _, si := range sorted {
		for i := range si.Components() {
			component := &si.Service.Components[i]
			if component.StackServiceComponents.IsMaster() {
				continue
			}
			candidates := ctx.hostsMatchingDependencies(component, ctx.ActiveHosts, layout)
			free := make([]string, 0, len(freeHosts))
			for _, h := range freeHosts {
				if common.Contains(candidates, h) {
					free = append(free, h)
				}
			}
			var hosts []string
			if placer, ok := si.Advisor.(SlaveComponentPlacer); ok {
				hosts = placer.HostsForSlaveComponent(ctx, component, candidates, free)
			} else {
				hosts = ctx.DefaultHostsForSlaveComponent(component, candidates, free)
			}
			ctx.place(layout, si, component.StackServiceComponents.ComponentName, hosts)
		}
	}

	for _, si := range sorted {
		if colocator, ok := si.Advisor.(ServiceColocator); ok {
			colocator.ColocateService(ctx, layout, si)
		}
	}
	return layout
}

func (ctx *Context) place(layout *HostComponents, si *ServiceInstance, component string, hosts []string) {
	ref := si.componentRef(component)
	for _, h := range hosts {
		if !layout.Add(h, ref) {
			log.Log(log.Layout).Debug("component host not active, skipped",
				zap.String("component", component),
				zap.String("host", h))
		}
	}
	log.Log(log.Layout).Debug("component placed",
		zap.String("instance", si.Key()),
		zap.String("component", component),
		zap.Strings("hosts", hosts))
}

// freeHosts returns the active hosts without a valuable component in the services document.
func (ctx *Context) freeHosts() []string {
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
	free := make([]string, 0, len(ctx.ActiveHosts))
	for _, h := range ctx.ActiveHosts {
		if !used[h] {
			free = append(free, h)
		}
	}
	return free
}

// hostsMatchingDependencies limits the hosts to the ones running all placed host scoped dependencies of the
// component. A dependency that is not placed anywhere is ignored. If no host matches all hosts are returned.
func (ctx *Context) hostsMatchingDependencies(component *dao.ComponentDAOInfo, hosts []string, layout *HostComponents) []string {
	filtered := hosts
	for _, dep := range component.Dependencies {
		d := dep.Dependencies
		if !d.IsHostScoped() {
			continue
		}
		depHosts := common.Unique(append(layout.HostsWith(d.ComponentName), ctx.ComponentHosts(d.ComponentName)...))
		if len(depHosts) == 0 {
			continue
		}
		next := make([]string, 0, len(filtered))
		for _, h := range filtered {
			if common.Contains(depHosts, h) {
				next = append(next, h)
			}
		}
		filtered = next
	}
	if len(filtered) == 0 {
		log.Log(log.Layout).Debug("no host satisfies all dependencies, using all hosts",
			zap.String("component", component.StackServiceComponents.ComponentName))
		return hosts
	}
	return filtered
}

// IsHostSuitableForComponent returns false when the component should not run on the advisor host.
func (ctx *Context) IsHostSuitableForComponent(host, component string) bool {
	return !(common.Contains(ctx.NotPreferableOnServerComponents(), component) && ctx.IsLocalHost(host))
}

// DefaultHostsForMasterComponent selects the master hosts when the service advisor does not.
// A master with multiple instances and a minimum cardinality above one gets the first suitable hosts.
// Other masters get one host picked by the layout scheme of the component, index 0 without a scheme.
func (ctx *Context) DefaultHostsForMasterComponent(component *dao.ComponentDAOInfo, hosts []string) []string {
	sc := component.StackServiceComponents
	if len(sc.Hostnames) > 0 {
		return sc.Hostnames
	}
	if len(hosts) == 0 {
		return nil
	}
	name := sc.ComponentName
	layout := ctx.layoutConfig()
	if len(hosts) > 1 && common.Contains(ctx.MastersWithMultipleInstances(), name) {
		count := layout.MinCardinality(name, len(hosts))
		if count > 1 {
			result := make([]string, 0, count)
			for _, h := range hosts {
				if len(result) >= count {
					break
				}
				if ctx.IsHostSuitableForComponent(h, name) {
					result = append(result, h)
				}
			}
			return result
		}
	}
	return []string{ctx.hostForComponent(name, hosts, layout.Schemes)}
}

func (ctx *Context) hostForComponent(component string, hosts []string, schemes []configs.LayoutScheme) string {
	if len(hosts) == 1 {
		return hosts[0]
	}
	index := 0
	for _, s := range schemes {
		if s.Component == component {
			index = s.HostIndex(len(hosts))
			break
		}
	}
	if index >= 0 && index < len(hosts) {
		for _, h := range hosts[index:] {
			if ctx.IsHostSuitableForComponent(h, component) {
				return h
			}
		}
	}
	return hosts[0]
}

// DefaultHostsForSlaveComponent selects the slave and client hosts when the service advisor does not.
func (ctx *Context) DefaultHostsForSlaveComponent(component *dao.ComponentDAOInfo, hosts, freeHosts []string) []string {
	sc := component.StackServiceComponents
	if len(hosts) == 0 {
		return nil
	}
	if sc.Cardinality == common.CardinalityAll {
		return append([]string{}, hosts...)
	}
	if len(sc.Hostnames) > 0 {
		return sc.Hostnames
	}
	last := hosts[len(hosts)-1]
	if !sc.IsSlave() {
		if len(freeHosts) > 0 {
			return []string{freeHosts[0]}
		}
		return []string{last}
	}

	minHosts, maxHosts, constrained := common.ParseCardinality(sc.Cardinality, len(hosts))
	var result []string
	if common.Contains(ctx.ComponentsUsingCardinalityForLayout(), sc.ComponentName) {
		if constrained && minHosts > 0 {
			result = append(result, freeHosts[:minInt(minHosts, len(freeHosts))]...)
		}
	} else {
		result = append(result, freeHosts...)
		if len(result) == 0 {
			result = append(result, last)
		}
	}
	result = common.Unique(result)
	if constrained {
		if len(result) < minHosts {
			result = append([]string{}, hosts[:minInt(minHosts, len(hosts))]...)
		}
		if len(result) > maxHosts {
			result = append([]string{}, hosts[:minInt(maxHosts, len(hosts))]...)
		}
	}
	return result
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
