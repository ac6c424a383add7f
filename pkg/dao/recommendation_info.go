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
	"github.com/apache/ambari-sub000/pkg/configuration"
)

// RecommendationDAOInfo is the response of every recommend action.
type RecommendationDAOInfo struct {
	Hosts           []string               `json:"hosts"`
	Services        []string               `json:"services"`
	Recommendations RecommendationsDAOInfo `json:"recommendations"`
}

type RecommendationsDAOInfo struct {
	Blueprint               BlueprintDAOInfo                   `json:"blueprint"`
	BlueprintClusterBinding BlueprintClusterBindingDAOInfo     `json:"blueprint_cluster_binding"`
	ConfigGroups            []ConfigGroupRecommendationDAOInfo `json:"config-groups,omitempty"`
}

type BlueprintDAOInfo struct {
	HostGroups     []HostGroupDAOInfo     `json:"host_groups,omitempty"`
	MpackInstances []MpackInstanceDAOInfo `json:"mpack_instances,omitempty"`
}

type HostGroupDAOInfo struct {
	Name       string                      `json:"name"`
	Components []HostGroupComponentDAOInfo `json:"components"`
}

type HostGroupComponentDAOInfo struct {
	Name            string `json:"name"`
	MpackInstance   string `json:"mpack_instance,omitempty"`
	ServiceInstance string `json:"service_instance,omitempty"`
}

type BlueprintClusterBindingDAOInfo struct {
	HostGroups []HostGroupBindingDAOInfo `json:"host_groups"`
}

type HostGroupBindingDAOInfo struct {
	Name  string        `json:"name"`
	Hosts []FqdnDAOInfo `json:"hosts"`
}

type FqdnDAOInfo struct {
	Fqdn string `json:"fqdn"`
}

type MpackInstanceDAOInfo struct {
	Name             string                   `json:"name"`
	Version          string                   `json:"version,omitempty"`
	ServiceInstances []ServiceInstanceDAOInfo `json:"service_instances"`
	Configurations   configuration.Document   `json:"configurations"`
	Hosts            []string                 `json:"hosts,omitempty"`
}

type ServiceInstanceDAOInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type ConfigGroupRecommendationDAOInfo struct {
	Configurations          configuration.Document `json:"configurations"`
	DependentConfigurations configuration.Document `json:"dependent_configurations"`
	Hosts                   []string               `json:"hosts"`
}

// ValidationDAOInfo is the response of every validate action.
type ValidationDAOInfo struct {
	Items []ValidationItemDAOInfo `json:"items"`
}

type ValidationItemDAOInfo struct {
	Type          string `json:"type"`
	Level         string `json:"level"`
	Message       string `json:"message"`
	ComponentName string `json:"component-name,omitempty"`
	Host          string `json:"host,omitempty"`
	ConfigType    string `json:"config-type,omitempty"`
	ConfigName    string `json:"config-name,omitempty"`
}
