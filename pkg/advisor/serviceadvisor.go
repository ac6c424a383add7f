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
	"github.com/apache/ambari-sub000/pkg/common/configs"
	"github.com/apache/ambari-sub000/pkg/configuration"
	"github.com/apache/ambari-sub000/pkg/dao"
)

// ServiceAdvisor is the delegate for one stack service. Every other capability is optional: the engine
// checks each one with a type assertion and falls back to the default behaviour when it is not implemented.
type ServiceAdvisor interface {
	ServiceName() string
}

// Service advisor implements this to choose the hosts of its master components.
type MasterComponentPlacer interface {
	// Return the hosts for a master component, hosts are the candidates already filtered on dependencies.
	HostsForMasterComponent(ctx *Context, component *dao.ComponentDAOInfo, hosts []string) []string
}

// Service advisor implements this to choose the hosts of its slave and client components.
type SlaveComponentPlacer interface {
	// Return the hosts for a slave or client component. freeHosts are the candidates without a valuable component.
	HostsForSlaveComponent(ctx *Context, component *dao.ComponentDAOInfo, hosts, freeHosts []string) []string
}

// Service advisor implements this to move or add components after the default placement.
type ServiceColocator interface {
	ColocateService(ctx *Context, layout *HostComponents, instance *ServiceInstance)
}

// Service advisor implements this to recommend configuration values.
type ConfigurationRecommender interface {
	// Write the recommended values into out. Reads should prefer values already in out over user values.
	RecommendConfigurations(ctx *Context, out configuration.Document, summary *ClusterSummary)
}

// Service advisor implements this to validate the component layout of its service.
type ComponentLayoutValidator interface {
	ValidateComponentLayout(ctx *Context, instance *ServiceInstance) []dao.ValidationItemDAOInfo
}

// Service advisor implements this to validate configuration values against the recommendations.
type ConfigurationValidator interface {
	ValidateConfigurations(ctx *Context, configurations, recommended configuration.Document) []dao.ValidationItemDAOInfo
}

// HeapSizeProperty links a component to the property holding its maximum heap in MB.
type HeapSizeProperty struct {
	ConfigType string
	Property   string
	Default    string
}

// Service advisor implements this to add or override heap size properties of components.
type HeapSizePropertiesProvider interface {
	HeapSizeProperties() map[string][]HeapSizeProperty
}

// Service advisor implements this to list components that do not make a host "used".
type NotValuableComponentsProvider interface {
	NotValuableComponents() []string
}

// Service advisor implements this to list components that should not run on the advisor host.
type NotPreferableOnServerProvider interface {
	NotPreferableOnServerComponents() []string
}

// Service advisor implements this to list masters that can run more than one instance.
type MastersWithMultipleInstancesProvider interface {
	MastersWithMultipleInstances() []string
}

// Service advisor implements this to set the cardinality used when placing multi instance masters.
type ComponentCardinalitiesProvider interface {
	ComponentCardinalities() map[string]string
}

// Service advisor implements this to list slaves placed on exactly the minimum number of free hosts.
type CardinalityLayoutProvider interface {
	ComponentsUsingCardinalityForLayout() []string
}

// Service advisor implements this to add host selection schemes for its masters.
type ComponentLayoutSchemesProvider interface {
	ComponentLayoutSchemes() []configs.LayoutScheme
}

// Service advisor implements this to request hadoop proxy user settings for its users.
type ProxyUsersProvider interface {
	ProxyUsers() []ProxyUser
}
