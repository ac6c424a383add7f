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
	"strconv"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/apache/ambari-sub000/pkg/configuration"
	"github.com/apache/ambari-sub000/pkg/dao"
)

const epsilonSite = "epsilon-site"

type recommendingAdvisor struct{}

func (r *recommendingAdvisor) ServiceName() string { return "EPSILON" }

func (r *recommendingAdvisor) RecommendConfigurations(ctx *Context, out configuration.Document, summary *ClusterSummary) {
	site := ctx.Writer(out, epsilonSite)
	site.Put("a", "recommended-a")
	site.Put("b", "recommended-b")
	env := ctx.Writer(out, "epsilon-env")
	env.PutInt("hosts", int64(len(ctx.HostNames)))
	env.PutInt("cpu", summary.CPU)
	if ctx.IsChanged(epsilonSite, "a") {
		env.Put("forced", "yes")
		ctx.ForceProperty("epsilon-env", "forced")
	}
}

type panickingAdvisor struct{}

func (p *panickingAdvisor) ServiceName() string { return "ZETA" }

func (p *panickingAdvisor) RecommendConfigurations(_ *Context, _ configuration.Document, _ *ClusterSummary) {
	panic("recommender failure")
}

func recommendationServices() *dao.ServicesDAOInfo {
	services := testServices(
		testService("EPSILON", testComponent("EPSILON_MASTER", dao.CategoryMaster, "1", "h1")),
		testService("ZETA", testComponent("ZETA_CLIENT", dao.CategoryClient, "1+", "h2")))
	services.Services[0].Configurations = []dao.ConfigurationMetaDAOInfo{{
		StackConfigurations: dao.StackConfigurationDAOInfo{PropertyName: "a", Type: epsilonSite + ".xml"},
		Dependencies: []dao.ConfigurationDependencyDAOInfo{{
			StackConfigurationDependency: dao.ConfigurationDependencyDetailDAOInfo{DependencyName: "b", DependencyType: epsilonSite},
		}},
	}}
	return services
}

func recommendationHosts() *dao.HostsDAOInfo {
	return testHosts(testHost("h1", 2, 4*gigabyteKB), testHost("h2", 4, 4*gigabyteKB), testHost("h3", 8, 4*gigabyteKB))
}

func registerRecommenders(t *testing.T) {
	registerTestAdvisor(t, "EPSILONServiceAdvisor", &recommendingAdvisor{})
	registerTestAdvisor(t, "ZETAServiceAdvisor", &panickingAdvisor{})
}

func TestRecommendConfigurations(t *testing.T) {
	registerRecommenders(t)
	ctx := newTestContext(t, RecommendConfigurations, recommendationServices(), recommendationHosts())
	resp := ctx.RecommendConfigurations()
	assert.DeepEqual(t, resp.Hosts, []string{"h1", "h2", "h3"})
	assert.DeepEqual(t, resp.Services, []string{"EPSILON", "ZETA"})
	mpacks := resp.Recommendations.Blueprint.MpackInstances
	assert.Equal(t, len(mpacks), 1)
	assert.Equal(t, mpacks[0].Name, testMpack)
	assert.Equal(t, mpacks[0].Version, testVersion)
	assert.DeepEqual(t, mpacks[0].ServiceInstances, []dao.ServiceInstanceDAOInfo{{Name: "EPSILON", Type: "EPSILON"}, {Name: "ZETA", Type: "ZETA"}})
	assert.DeepEqual(t, mpacks[0].Configurations.Properties(epsilonSite), configuration.Properties{"a": "recommended-a", "b": "recommended-b"})
	assert.DeepEqual(t, mpacks[0].Configurations.Properties("epsilon-env"), configuration.Properties{"hosts": "3", "cpu": "2"})
}

func TestRecommendConfigurationsUserValues(t *testing.T) {
	registerRecommenders(t)
	services := recommendationServices()
	setProperty(services.Configurations, epsilonSite, "a", "user-a")
	setProperty(services.Configurations, epsilonSite, "b", "user-b")
	services.ChangedConfigurations = []dao.ChangedConfigurationDAOInfo{{Type: epsilonSite, Name: "a"}}
	resp := newTestContext(t, RecommendConfigurations, services, recommendationHosts()).RecommendConfigurations()
	props := resp.Recommendations.Blueprint.MpackInstances[0].Configurations.Properties(epsilonSite)
	assert.Equal(t, props["a"], "user-a", "changed property must keep the user value")
	assert.Equal(t, props["b"], "recommended-b", "unchanged property must be recommended")
}

func TestRecommendConfigurationDependencies(t *testing.T) {
	registerRecommenders(t)
	services := recommendationServices()
	setProperty(services.Configurations, epsilonSite, "a", "user-a")
	setProperty(services.Configurations, epsilonSite, "b", "user-b")
	services.ChangedConfigurations = []dao.ChangedConfigurationDAOInfo{{Type: epsilonSite, Name: "a"}}
	ctx := newTestContext(t, RecommendConfigurationDependency, services, recommendationHosts())
	resp := ctx.RecommendConfigurationDependencies()
	configurations := resp.Recommendations.Blueprint.MpackInstances[0].Configurations
	assert.DeepEqual(t, configurations.Properties(epsilonSite), configuration.Properties{"b": "recommended-b"})
	assert.DeepEqual(t, configurations.Properties("epsilon-env"), configuration.Properties{"forced": "yes"})
	assert.Assert(t, ctx.Policy.IsScoped())
}

func TestAffectedProperties(t *testing.T) {
	services := recommendationServices()
	// b affects c, c affects a: the closure walks back to the changed property
	services.Services[0].Configurations = append(services.Services[0].Configurations,
		dao.ConfigurationMetaDAOInfo{
			StackConfigurations: dao.StackConfigurationDAOInfo{PropertyName: "b", Type: epsilonSite + ".xml"},
			Dependencies: []dao.ConfigurationDependencyDAOInfo{{
				StackConfigurationDependency: dao.ConfigurationDependencyDetailDAOInfo{DependencyName: "c", DependencyType: "epsilon-env"},
			}},
		},
		dao.ConfigurationMetaDAOInfo{
			StackConfigurations: dao.StackConfigurationDAOInfo{PropertyName: "c", Type: "epsilon-env.xml"},
			Dependencies: []dao.ConfigurationDependencyDAOInfo{{
				StackConfigurationDependency: dao.ConfigurationDependencyDetailDAOInfo{DependencyName: "a", DependencyType: epsilonSite},
			}},
		})
	services.ChangedConfigurations = []dao.ChangedConfigurationDAOInfo{{Type: epsilonSite, Name: "a"}}
	services.ForcedConfigurations = []configuration.PropertyKey{{Type: "other-site", Name: "x"}}
	affected := newTestContext(t, RecommendConfigurationDependency, services, testHosts()).affectedProperties()
	assert.DeepEqual(t, affected, map[configuration.PropertyKey]bool{
		{Type: epsilonSite, Name: "a"}:   true,
		{Type: epsilonSite, Name: "b"}:   true,
		{Type: "epsilon-env", Name: "c"}: true,
		{Type: "other-site", Name: "x"}:  true,
	})

	services.ChangedConfigurations = nil
	services.ForcedConfigurations = nil
	affected = newTestContext(t, RecommendConfigurationDependency, services, testHosts()).affectedProperties()
	assert.Equal(t, len(affected), 0)
}

func TestRecommendConfigGroups(t *testing.T) {
	registerRecommenders(t)
	services := recommendationServices()
	group := make(configuration.Document)
	setProperty(group, epsilonSite, "a", "group-a")
	services.ConfigGroups = []dao.ConfigGroupDAOInfo{
		{Configurations: group, Hosts: []string{"h3"}},
		{Configurations: make(configuration.Document), Hosts: []string{"h1", "h2"}},
	}
	resp := newTestContext(t, RecommendConfigurations, services, recommendationHosts()).RecommendConfigurations()
	groups := resp.Recommendations.ConfigGroups
	assert.Equal(t, len(groups), 2)

	assert.DeepEqual(t, groups[0].Hosts, []string{"h3"})
	assert.DeepEqual(t, groups[0].Configurations.Properties(epsilonSite), configuration.Properties{"a": "recommended-a", "b": "recommended-b"})
	assert.Equal(t, groups[0].DependentConfigurations.Properties("epsilon-env")["hosts"], "1")
	assert.Equal(t, groups[0].DependentConfigurations.Properties("epsilon-env")["cpu"], strconv.Itoa(8))

	assert.Assert(t, !groups[1].Configurations.Has(epsilonSite))
	assert.Equal(t, groups[1].DependentConfigurations.Properties("epsilon-env")["hosts"], "2")

	mpacks := resp.Recommendations.Blueprint.MpackInstances
	assert.Equal(t, len(mpacks), 1)
	assert.Equal(t, len(mpacks[0].Configurations), 0, "config group requests only recommend the groups")
}
