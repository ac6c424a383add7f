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
	"encoding/json"
	"errors"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/apache/ambari-sub000/pkg/common"
	"github.com/apache/ambari-sub000/pkg/dao"
)

const (
	layoutServicesJSON = `{
	"services": [{
		"StackServices": {"service_name": "HDFS", "stack_name": "HDPCORE", "stack_version": "1.0.0"},
		"components": [
			{"StackServiceComponents": {"component_name": "NAMENODE", "component_category": "MASTER", "cardinality": "1"}},
			{"StackServiceComponents": {"component_name": "SECONDARY_NAMENODE", "component_category": "MASTER", "cardinality": "1"}},
			{"StackServiceComponents": {"component_name": "DATANODE", "component_category": "SLAVE", "cardinality": "1+"}}
		]
	}]
}`
	layoutHostsJSON = `{"items": [
	{"Hosts": {"host_name": "c6401", "cpu_count": 4, "total_mem": "8388608"}},
	{"Hosts": {"host_name": "c6402", "cpu_count": 4, "total_mem": 8388608, "maintenance_state": "OFF"}}
]}`
)

func TestNewAdvisor(t *testing.T) {
	a, err := NewAdvisor(nil)
	assert.NilError(t, err)
	assert.Assert(t, a.conf != nil)
	assert.Assert(t, len(a.conf.Layout.Schemes) > 0)

	conf := testConfig(t)
	a, err = NewAdvisor(conf)
	assert.NilError(t, err)
	assert.Equal(t, a.conf, conf)
}

func TestRunUnknownAction(t *testing.T) {
	a, err := NewAdvisor(testConfig(t))
	assert.NilError(t, err)
	_, err = a.Run("recommend-everything", nil, nil)
	assert.Assert(t, errors.Is(err, common.ErrUnknownAction))
	_, err = a.RunJSON("recommend-everything", []byte(`{}`), []byte(`{}`))
	assert.Assert(t, errors.Is(err, common.ErrUnknownAction))
}

func TestRunEmptyDocuments(t *testing.T) {
	a, err := NewAdvisor(testConfig(t))
	assert.NilError(t, err)
	for _, action := range Actions() {
		t.Run(action, func(t *testing.T) {
			result, err := a.Run(action, nil, nil)
			assert.NilError(t, err)
			assert.Assert(t, result != nil)
		})
	}
}

func TestRunJSONInvalidDocuments(t *testing.T) {
	a, err := NewAdvisor(testConfig(t))
	assert.NilError(t, err)
	_, err = a.RunJSON(RecommendComponentLayout, []byte(`{"services": [`), []byte(`{}`))
	assert.Assert(t, errors.Is(err, common.ErrInvalidServicesDocument), "unexpected error: %v", err)
	_, err = a.RunJSON(RecommendComponentLayout, []byte(`{}`), []byte(`not json`))
	assert.Assert(t, errors.Is(err, common.ErrInvalidHostsDocument), "unexpected error: %v", err)
}

func TestRunJSONComponentLayout(t *testing.T) {
	a, err := NewAdvisor(testConfig(t))
	assert.NilError(t, err)
	data, err := a.RunJSON(RecommendComponentLayout, []byte(layoutServicesJSON), []byte(layoutHostsJSON))
	assert.NilError(t, err)

	var resp dao.RecommendationDAOInfo
	assert.NilError(t, json.Unmarshal(data, &resp))
	assert.DeepEqual(t, resp.Hosts, []string{"c6401", "c6402"})
	assert.DeepEqual(t, resp.Services, []string{"HDFS"})
	groups := resp.Recommendations.Blueprint.HostGroups
	assert.Equal(t, len(groups), 2)
	assert.DeepEqual(t, groups[0].Components, []dao.HostGroupComponentDAOInfo{
		{Name: "NAMENODE", MpackInstance: "HDPCORE", ServiceInstance: "HDFS"},
		{Name: "DATANODE", MpackInstance: "HDPCORE", ServiceInstance: "HDFS"},
	})
	assert.DeepEqual(t, groups[1].Components, []dao.HostGroupComponentDAOInfo{
		{Name: "SECONDARY_NAMENODE", MpackInstance: "HDPCORE", ServiceInstance: "HDFS"},
		{Name: "DATANODE", MpackInstance: "HDPCORE", ServiceInstance: "HDFS"},
	})
	assert.Equal(t, resp.Recommendations.BlueprintClusterBinding.HostGroups[1].Hosts[0].Fqdn, "c6402")

	// validating the recommended layout reports nothing
	services := &dao.ServicesDAOInfo{}
	assert.NilError(t, json.Unmarshal([]byte(layoutServicesJSON), services))
	for i := range services.Services[0].Components {
		sc := &services.Services[0].Components[i].StackServiceComponents
		for _, group := range groups {
			for _, c := range group.Components {
				if c.Name == sc.ComponentName {
					for _, binding := range resp.Recommendations.BlueprintClusterBinding.HostGroups {
						if binding.Name == group.Name {
							sc.Hostnames = append(sc.Hostnames, binding.Hosts[0].Fqdn)
						}
					}
				}
			}
		}
	}
	hosts := &dao.HostsDAOInfo{}
	assert.NilError(t, json.Unmarshal([]byte(layoutHostsJSON), hosts))
	result, err := a.Run(ValidateComponentLayout, services, hosts)
	assert.NilError(t, err)
	validation, ok := result.(*dao.ValidationDAOInfo)
	assert.Assert(t, ok)
	assert.Equal(t, len(validation.Items), 0)
}

func TestRunKeepsRequestDocument(t *testing.T) {
	registerRecommenders(t)
	a, err := NewAdvisor(testConfig(t))
	assert.NilError(t, err)
	services := recommendationServices()
	services.ChangedConfigurations = []dao.ChangedConfigurationDAOInfo{{Type: epsilonSite, Name: "a"}}
	for i := 0; i < 2; i++ {
		result, err := a.Run(RecommendConfigurationDependency, services, recommendationHosts())
		assert.NilError(t, err)
		resp, ok := result.(*dao.RecommendationDAOInfo)
		assert.Assert(t, ok, "unexpected result type %T", result)
		forced, _ := resp.Recommendations.Blueprint.MpackInstances[0].Configurations.Property("epsilon-env", "forced")
		assert.Equal(t, forced, "yes")
		assert.Equal(t, len(services.ForcedConfigurations), 0, "run %d changed the services document", i)
	}
}
