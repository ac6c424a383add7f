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

package dao

import (
	"encoding/json"

	"github.com/apache/ambari-sub000/pkg/configuration"
)

const (
	CategoryMaster = "MASTER"
	CategorySlave  = "SLAVE"
	CategoryClient = "CLIENT"

	ScopeHost    = "host"
	ScopeCluster = "cluster"
)

// ServicesDAOInfo is the services input document.
type ServicesDAOInfo struct {
	Services               []ServiceDAOInfo              `json:"services"`
	Configurations         configuration.Document        `json:"configurations,omitempty"`
	ChangedConfigurations  []ChangedConfigurationDAOInfo `json:"changed-configurations,omitempty"`
	ForcedConfigurations   []configuration.PropertyKey   `json:"forced-configurations,omitempty"`
	ConfigGroups           []ConfigGroupDAOInfo          `json:"config-groups,omitempty"`
	UserContext            *UserContextDAOInfo           `json:"user-context,omitempty"`
	AmbariServerProperties configuration.Properties      `json:"ambari-server-properties,omitempty"`
	ClusterHostInfo        map[string][]string           `json:"clusterHostInfo,omitempty"`
}

type ServiceDAOInfo struct {
	StackServices  StackServiceDAOInfo        `json:"StackServices"`
	Components     []ComponentDAOInfo         `json:"components,omitempty"`
	Configurations []ConfigurationMetaDAOInfo `json:"configurations,omitempty"`
}

// StackServiceDAOInfo describes one service instance. The stack name and version identify the mpack.
type StackServiceDAOInfo struct {
	ServiceName    string `json:"service_name"`
	ServiceType    string `json:"service_type,omitempty"`
	ServiceVersion string `json:"service_version,omitempty"`
	StackName      string `json:"stack_name,omitempty"`
	StackVersion   string `json:"stack_version,omitempty"`
	AdvisorName    string `json:"advisor_name,omitempty"`
	AdvisorPath    string `json:"advisor_path,omitempty"`
}

type ComponentDAOInfo struct {
	StackServiceComponents StackServiceComponentDAOInfo `json:"StackServiceComponents"`
	Dependencies           []DependencyDAOInfo          `json:"dependencies,omitempty"`
}

type StackServiceComponentDAOInfo struct {
	ComponentName     string   `json:"component_name"`
	ComponentCategory string   `json:"component_category,omitempty"`
	Cardinality       string   `json:"cardinality,omitempty"`
	DisplayName       string   `json:"display_name,omitempty"`
	ServiceName       string   `json:"service_name,omitempty"`
	Hostnames         []string `json:"hostnames,omitempty"`
	AdvertiseVersion  bool     `json:"advertise_version,omitempty"`
}

type DependencyDAOInfo struct {
	Dependencies DependencyDetailDAOInfo `json:"Dependencies"`
}

type DependencyDetailDAOInfo struct {
	ComponentName          string            `json:"component_name"`
	ServiceName            string            `json:"service_name,omitempty"`
	DependentComponentName string            `json:"dependent_component_name,omitempty"`
	DependentServiceName   string            `json:"dependent_service_name,omitempty"`
	Scope                  string            `json:"scope,omitempty"`
	Conditions             []json.RawMessage `json:"conditions,omitempty"`
}

// ConfigurationMetaDAOInfo is the stack metadata of one property, including the properties depending on it.
type ConfigurationMetaDAOInfo struct {
	StackConfigurations StackConfigurationDAOInfo        `json:"StackConfigurations"`
	Dependencies        []ConfigurationDependencyDAOInfo `json:"dependencies,omitempty"`
}

type StackConfigurationDAOInfo struct {
	PropertyName string `json:"property_name"`
	Type         string `json:"type"`
}

type ConfigurationDependencyDAOInfo struct {
	StackConfigurationDependency ConfigurationDependencyDetailDAOInfo `json:"StackConfigurationDependency"`
}

type ConfigurationDependencyDetailDAOInfo struct {
	DependencyName string `json:"dependency_name"`
	DependencyType string `json:"dependency_type"`
}

type ChangedConfigurationDAOInfo struct {
	Type     string  `json:"type"`
	Name     string  `json:"name"`
	OldValue *string `json:"old_value,omitempty"`
}

type ConfigGroupDAOInfo struct {
	Configurations configuration.Document `json:"configurations"`
	Hosts          []string               `json:"hosts"`
}

type UserContextDAOInfo struct {
	Operation        string `json:"operation,omitempty"`
	OperationDetails string `json:"operation_details,omitempty"`
}

// Key returns the type and name of the changed property.
func (c ChangedConfigurationDAOInfo) Key() configuration.PropertyKey {
	return configuration.PropertyKey{Type: c.Type, Name: c.Name}
}

// IsMaster returns true for MASTER components.
func (c *StackServiceComponentDAOInfo) IsMaster() bool {
	return c.ComponentCategory == CategoryMaster
}

// IsSlave returns true for SLAVE components.
func (c *StackServiceComponentDAOInfo) IsSlave() bool {
	return c.ComponentCategory == CategorySlave
}

// IsClient returns true for CLIENT components.
func (c *StackServiceComponentDAOInfo) IsClient() bool {
	return c.ComponentCategory == CategoryClient
}

// IsHostScoped returns true for an unconditional dependency that must be on the same host.
func (d *DependencyDetailDAOInfo) IsHostScoped() bool {
	return d.Scope == ScopeHost && len(d.Conditions) == 0
}

// IsClusterScoped returns true for an unconditional dependency that must be somewhere in the cluster.
func (d *DependencyDetailDAOInfo) IsClusterScoped() bool {
	return d.Scope == ScopeCluster && len(d.Conditions) == 0
}

// Component returns the named component of the service or nil.
func (s *ServiceDAOInfo) Component(name string) *ComponentDAOInfo {
	for i := range s.Components {
		if s.Components[i].StackServiceComponents.ComponentName == name {
			return &s.Components[i]
		}
	}
	return nil
}

// ServiceNames returns the names of all services in input order.
func (s *ServicesDAOInfo) ServiceNames() []string {
	names := make([]string, 0, len(s.Services))
	for _, svc := range s.Services {
		names = append(names, svc.StackServices.ServiceName)
	}
	return names
}

// Service returns the named service or nil.
func (s *ServicesDAOInfo) Service(name string) *ServiceDAOInfo {
	for i := range s.Services {
		if s.Services[i].StackServices.ServiceName == name {
			return &s.Services[i]
		}
	}
	return nil
}

// HasService returns true if the named service is part of the document.
func (s *ServicesDAOInfo) HasService(name string) bool {
	return s.Service(name) != nil
}

// Component returns the named component of any service or nil.
func (s *ServicesDAOInfo) Component(name string) *ComponentDAOInfo {
	for i := range s.Services {
		if c := s.Services[i].Component(name); c != nil {
			return c
		}
	}
	return nil
}

// ComponentHosts returns the hosts a component is assigned to in the document.
func (s *ServicesDAOInfo) ComponentHosts(name string) []string {
	if c := s.Component(name); c != nil {
		return c.StackServiceComponents.Hostnames
	}
	return nil
}

// ChangedKeys returns the keys of all changed configurations.
func (s *ServicesDAOInfo) ChangedKeys() []configuration.PropertyKey {
	keys := make([]configuration.PropertyKey, 0, len(s.ChangedConfigurations))
	for _, c := range s.ChangedConfigurations {
		keys = append(keys, c.Key())
	}
	return keys
}

// Clone returns a deep copy of the document.
func (s *ServicesDAOInfo) Clone() *ServicesDAOInfo {
	data, err := json.Marshal(s)
	if err != nil {
		return nil
	}
	clone := &ServicesDAOInfo{}
	if err = json.Unmarshal(data, clone); err != nil {
		return nil
	}
	return clone
}
