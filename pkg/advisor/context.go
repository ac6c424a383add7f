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

	"github.com/apache/ambari-sub000/pkg/common"
	"github.com/apache/ambari-sub000/pkg/common/configs"
	"github.com/apache/ambari-sub000/pkg/configuration"
	"github.com/apache/ambari-sub000/pkg/dao"
	"github.com/apache/ambari-sub000/pkg/log"
	"github.com/apache/ambari-sub000/pkg/stack"
)

// Names of the actions the advisor supports.
const (
	RecommendComponentLayout         = "recommend-component-layout"
	ValidateComponentLayout          = "validate-component-layout"
	RecommendConfigurations          = "recommend-configurations"
	RecommendConfigurationDependency = "recommend-configuration-dependencies"
	ValidateConfigurations           = "validate-configurations"
)

// Operations reported in the user context of the services document.
const (
	OperationClusterCreate = "ClusterCreate"
	OperationAddService    = "AddService"
)

// Context holds everything derived from the input documents for one invocation.
// A new context is built for every call and is never shared between calls.
type Context struct {
	// Services is the services document as supplied.
	Services *dao.ServicesDAOInfo
	// Hosts is the hosts document without the disks that must not be used.
	Hosts *dao.HostsDAOInfo
	// HostNames are all hosts in input order, ActiveHosts the ones not in maintenance.
	HostNames   []string
	ActiveHosts []string
	// Instances are the service instances in input order.
	Instances []*ServiceInstance
	// Mpacks are the mpack instances in the order they were first seen.
	Mpacks    []*MpackInstance
	Policy    *configuration.OverridePolicy
	CallType  string
	LocalHost string
	Config    *configs.AdvisorConfig

	instances map[string]*ServiceInstance
	// forced starts as a copy of the forced configurations of the request, the input is never changed.
	forced []configuration.PropertyKey
}

// NewContext builds the per invocation state: service instances with their advisors, the mount filtered
// hosts and the override policy for unscoped recommendations.
func NewContext(conf *configs.AdvisorConfig, callType string, services *dao.ServicesDAOInfo, hosts *dao.HostsDAOInfo) *Context {
	if conf == nil {
		conf = &configs.AdvisorConfig{}
	}
	if services == nil {
		services = &dao.ServicesDAOInfo{}
	}
	if hosts == nil {
		hosts = &dao.HostsDAOInfo{}
	}
	ctx := &Context{
		Services:  services,
		CallType:  callType,
		Config:    conf,
		LocalHost: conf.System.HostName(),
		Policy:    configuration.NewOverridePolicy(services.ChangedKeys()),
		instances: make(map[string]*ServiceInstance),
		forced:    append([]configuration.PropertyKey(nil), services.ForcedConfigurations...),
	}
	ignoreList, _ := services.Configurations.Property(stack.ClusterEnv, stack.MountsIgnoreListKey)
	ctx.setHosts(stack.FilterHostMounts(hosts, ignoreList, conf.Mounts))

	mpacks := make(map[string]*MpackInstance)
	for i := range services.Services {
		si := newServiceInstance(&services.Services[i])
		if advisor, err := InstantiateServiceAdvisor(services.Services[i].StackServices); err == nil {
			si.Advisor = advisor
		}
		if _, ok := ctx.instances[si.Key()]; ok {
			log.Log(log.Advisor).Warn("duplicate service instance ignored",
				zap.String("instance", si.Key()))
			continue
		}
		ctx.instances[si.Key()] = si
		ctx.Instances = append(ctx.Instances, si)
		mpack, ok := mpacks[si.MpackName]
		if !ok {
			mpack = &MpackInstance{Name: si.MpackName, Version: si.MpackVersion}
			mpacks[si.MpackName] = mpack
			ctx.Mpacks = append(ctx.Mpacks, mpack)
		}
		mpack.Instances = append(mpack.Instances, si)
	}
	log.Log(log.Advisor).Debug("advisor context created",
		zap.String("callType", callType),
		zap.Int("serviceInstances", len(ctx.Instances)),
		zap.Int("mpacks", len(ctx.Mpacks)),
		zap.Int("hosts", len(ctx.HostNames)),
		zap.Int("activeHosts", len(ctx.ActiveHosts)))
	return ctx
}

func (ctx *Context) setHosts(hosts *dao.HostsDAOInfo) {
	ctx.Hosts = hosts
	ctx.HostNames = hosts.HostNames()
	ctx.ActiveHosts = stack.ActiveHosts(hosts)
}

// forConfigGroup returns a copy of the context limited to the hosts of a config group. The services
// document is a deep copy with the group configurations laid over the cluster configurations.
func (ctx *Context) forConfigGroup(group dao.ConfigGroupDAOInfo) *Context {
	services := ctx.Services.Clone()
	if services == nil {
		services = &dao.ServicesDAOInfo{}
	}
	if services.Configurations == nil {
		services.Configurations = make(configuration.Document)
	}
	services.Configurations.Overlay(group.Configurations)
	groupCtx := &Context{
		Services:  services,
		Instances: ctx.Instances,
		Mpacks:    ctx.Mpacks,
		Policy:    ctx.Policy,
		CallType:  ctx.CallType,
		LocalHost: ctx.LocalHost,
		Config:    ctx.Config,
		instances: ctx.instances,
	}
	filtered := &dao.HostsDAOInfo{}
	for _, item := range ctx.Hosts.Items {
		if common.Contains(group.Hosts, item.Hosts.HostName) {
			filtered.Items = append(filtered.Items, item)
		}
	}
	groupCtx.setHosts(filtered)
	return groupCtx
}

// Writer returns a property writer for the type that respects the user values.
func (ctx *Context) Writer(out configuration.Document, configType string) *configuration.Writer {
	return configuration.NewWriter(out, configType, ctx.Services.Configurations, ctx.Policy)
}

// UserConfigurations returns the configurations supplied in the services document.
func (ctx *Context) UserConfigurations() configuration.Document {
	return ctx.Services.Configurations
}

// Value returns the current value of a property: the recommended value if already written, the user value otherwise.
func (ctx *Context) Value(out configuration.Document, configType, name string) (string, bool) {
	if v, ok := out.Property(configType, name); ok {
		return v, true
	}
	return ctx.Services.Configurations.Property(configType, name)
}

// ValueOrDefault is Value with a fallback.
func (ctx *Context) ValueOrDefault(out configuration.Document, configType, name, defaultValue string) string {
	if v, ok := ctx.Value(out, configType, name); ok {
		return v
	}
	return defaultValue
}

// IsChanged returns true if the user changed the property in this request.
func (ctx *Context) IsChanged(configType, name string) bool {
	for _, c := range ctx.Services.ChangedConfigurations {
		if c.Type == configType && c.Name == name {
			return true
		}
	}
	return false
}

// OldValue returns the value a changed property had before the change.
func (ctx *Context) OldValue(configType, name string) (string, bool) {
	for _, c := range ctx.Services.ChangedConfigurations {
		if c.Type == configType && c.Name == name && c.OldValue != nil {
			return *c.OldValue, true
		}
	}
	return "", false
}

// Operation returns the user operation of the request, empty if not known.
func (ctx *Context) Operation() string {
	if ctx.Services.UserContext == nil {
		return ""
	}
	return ctx.Services.UserContext.Operation
}

// IsServiceBeingAdded returns true if the request adds the service to an existing cluster.
func (ctx *Context) IsServiceBeingAdded(serviceName string) bool {
	uc := ctx.Services.UserContext
	if uc == nil || uc.Operation != OperationAddService {
		return false
	}
	for _, name := range strings.Split(uc.OperationDetails, ",") {
		if strings.TrimSpace(name) == serviceName {
			return true
		}
	}
	return false
}

// Instance returns the first service instance with the name or type.
func (ctx *Context) Instance(service string) *ServiceInstance {
	for _, si := range ctx.Instances {
		if si.Name == service {
			return si
		}
	}
	for _, si := range ctx.Instances {
		if si.Type == service {
			return si
		}
	}
	return nil
}

// InstanceByKey returns the instance for a "mpack+service" key.
func (ctx *Context) InstanceByKey(key string) *ServiceInstance {
	return ctx.instances[key]
}

// IsServiceInstalled returns true if a service instance with the name or type is part of the request.
func (ctx *Context) IsServiceInstalled(service string) bool {
	return ctx.Instance(service) != nil
}

// ComponentInstance returns the instance owning the component, looking in the mpack first.
func (ctx *Context) ComponentInstance(component, mpack string) *ServiceInstance {
	var fallback *ServiceInstance
	for _, si := range ctx.Instances {
		if !si.HasComponent(component) {
			continue
		}
		if si.MpackName == mpack {
			return si
		}
		if fallback == nil {
			fallback = si
		}
	}
	return fallback
}

// Component returns the descriptor of a component of any service instance.
func (ctx *Context) Component(name string) *dao.ComponentDAOInfo {
	return ctx.Services.Component(name)
}

// ComponentHosts returns the hosts a component is assigned to in the services document.
func (ctx *Context) ComponentHosts(component string) []string {
	return ctx.Services.ComponentHosts(component)
}

// HostsWithComponent returns the host entries of the hosts running the component.
func (ctx *Context) HostsWithComponent(component string) []*dao.HostDAOInfo {
	return stack.HostsWithNames(ctx.Hosts, ctx.ComponentHosts(component))
}

// IsLocalHost returns true if the host is the host the advisor runs on.
func (ctx *Context) IsLocalHost(host string) bool {
	return ctx.LocalHost != "" && strings.EqualFold(host, ctx.LocalHost)
}

// AmbariServerProperty returns a property of the ambari server.
func (ctx *Context) AmbariServerProperty(name string) (string, bool) {
	v, ok := ctx.Services.AmbariServerProperties[name]
	return v, ok
}

// NotValuableComponents returns the configured list merged with the lists of all service advisors.
func (ctx *Context) NotValuableComponents() []string {
	lists := [][]string{ctx.Config.Layout.NotValuableComponents}
	for _, si := range ctx.Instances {
		if p, ok := si.Advisor.(NotValuableComponentsProvider); ok {
			lists = append(lists, p.NotValuableComponents())
		}
	}
	return sortedUnique(lists...)
}

// NotPreferableOnServerComponents returns the configured list merged with the lists of all service advisors.
func (ctx *Context) NotPreferableOnServerComponents() []string {
	lists := [][]string{ctx.Config.Layout.NotPreferableOnServer}
	for _, si := range ctx.Instances {
		if p, ok := si.Advisor.(NotPreferableOnServerProvider); ok {
			lists = append(lists, p.NotPreferableOnServerComponents())
		}
	}
	return sortedUnique(lists...)
}

// MastersWithMultipleInstances returns the configured list merged with the lists of all service advisors.
func (ctx *Context) MastersWithMultipleInstances() []string {
	lists := [][]string{ctx.Config.Layout.MastersWithMultipleInstances}
	for _, si := range ctx.Instances {
		if p, ok := si.Advisor.(MastersWithMultipleInstancesProvider); ok {
			lists = append(lists, p.MastersWithMultipleInstances())
		}
	}
	return sortedUnique(lists...)
}

// ComponentsUsingCardinalityForLayout returns the configured list merged with the lists of all service advisors.
func (ctx *Context) ComponentsUsingCardinalityForLayout() []string {
	lists := [][]string{ctx.Config.Layout.CardinalityForLayout}
	for _, si := range ctx.Instances {
		if p, ok := si.Advisor.(CardinalityLayoutProvider); ok {
			lists = append(lists, p.ComponentsUsingCardinalityForLayout())
		}
	}
	return sortedUnique(lists...)
}

// layoutConfig returns the layout configuration with the cardinalities and schemes of the service advisors
// added. Configured entries win over advisor entries.
func (ctx *Context) layoutConfig() configs.LayoutConfig {
	layout := ctx.Config.Layout
	cardinalities := make(map[string]string)
	var schemes []configs.LayoutScheme
	for _, si := range ctx.Instances {
		if p, ok := si.Advisor.(ComponentCardinalitiesProvider); ok {
			for k, v := range p.ComponentCardinalities() {
				cardinalities[k] = v
			}
		}
		if p, ok := si.Advisor.(ComponentLayoutSchemesProvider); ok {
			schemes = append(schemes, p.ComponentLayoutSchemes()...)
		}
	}
	for k, v := range layout.Cardinalities {
		cardinalities[k] = v
	}
	layout.Cardinalities = cardinalities
	layout.Schemes = append(append([]configs.LayoutScheme{}, layout.Schemes...), schemes...)
	return layout
}

// HeapSizeProperties returns the heap size properties per component: the built-in table with the
// entries of the service advisors replacing it per component.
func (ctx *Context) HeapSizeProperties() map[string][]HeapSizeProperty {
	result := make(map[string][]HeapSizeProperty, len(defaultHeapSizeProperties))
	for k, v := range defaultHeapSizeProperties {
		result[k] = v
	}
	for _, si := range ctx.Instances {
		if p, ok := si.Advisor.(HeapSizePropertiesProvider); ok {
			for k, v := range p.HeapSizeProperties() {
				result[k] = v
			}
		}
	}
	return result
}

var defaultHeapSizeProperties = map[string][]HeapSizeProperty{
	"NAMENODE":            {{ConfigType: "hadoop-env", Property: "namenode_heapsize", Default: "1024m"}},
	"SECONDARY_NAMENODE":  {{ConfigType: "hadoop-env", Property: "namenode_heapsize", Default: "1024m"}},
	"DATANODE":            {{ConfigType: "hadoop-env", Property: "dtnode_heapsize", Default: "1024m"}},
	"HBASE_REGIONSERVER":  {{ConfigType: "hbase-env", Property: "hbase_regionserver_heapsize", Default: "1024m"}},
	"HBASE_MASTER":        {{ConfigType: "hbase-env", Property: "hbase_master_heapsize", Default: "1024m"}},
	"HIVE_CLIENT":         {{ConfigType: "hive-env", Property: "hive.client.heapsize", Default: "1024m"}},
	"HIVE_METASTORE":      {{ConfigType: "hive-env", Property: "hive.metastore.heapsize", Default: "1024m"}},
	"HIVE_SERVER":         {{ConfigType: "hive-env", Property: "hive.heapsize", Default: "1024m"}},
	"HISTORYSERVER":       {{ConfigType: "mapred-env", Property: "jobhistory_heapsize", Default: "1024m"}},
	"OOZIE_SERVER":        {{ConfigType: "oozie-env", Property: "oozie_heapsize", Default: "1024m"}},
	"RESOURCEMANAGER":     {{ConfigType: "yarn-env", Property: "resourcemanager_heapsize", Default: "1024m"}},
	"NODEMANAGER":         {{ConfigType: "yarn-env", Property: "nodemanager_heapsize", Default: "1024m"}},
	"APP_TIMELINE_SERVER": {{ConfigType: "yarn-env", Property: "apptimelineserver_heapsize", Default: "1024m"}},
	"ZOOKEEPER_SERVER":    {{ConfigType: "zookeeper-env", Property: "zk_server_heapsize", Default: "1024m"}},
}
