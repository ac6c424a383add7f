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
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/apache/ambari-sub000/pkg/common"
	"github.com/apache/ambari-sub000/pkg/configuration"
	"github.com/apache/ambari-sub000/pkg/log"
	"github.com/apache/ambari-sub000/pkg/stack"
)

const (
	CoreSite = "core-site"

	wildcard            = "*"
	ambariUserProperty  = "ambari-server.user"
	ambariPrincipalName = "ambari_principal_name"
	securityEnabled     = "security_enabled"
	defaultAmbariUser   = "root"
	specialTokenLength  = 20
)

// ProxyUser is a service user that needs hadoop.proxyuser settings in core-site.
type ProxyUser struct {
	// ConfigType and UserProperty locate the user name.
	ConfigType   string
	UserProperty string
	// Components whose hosts the user may proxy from. Empty means any host.
	Components []string
	// MinHosts skips the user while the components run on fewer hosts.
	MinHosts int
}

var defaultProxyUsers = map[string][]ProxyUser{
	"HDFS": {{ConfigType: "hadoop-env", UserProperty: "hdfs_user"}},
	"HIVE": {
		{ConfigType: "hive-env", UserProperty: "hive_user", Components: []string{"HIVE_SERVER", "HIVE_SERVER_INTERACTIVE"}},
		{ConfigType: "hive-env", UserProperty: "webhcat_user", Components: []string{"WEBHCAT_SERVER"}},
	},
	"YARN":   {{ConfigType: "yarn-env", UserProperty: "yarn_user", Components: []string{"RESOURCEMANAGER"}, MinHosts: 2}},
	"OOZIE":  {{ConfigType: "oozie-env", UserProperty: "oozie_user", Components: []string{"OOZIE_SERVER"}}},
	"FALCON": {{ConfigType: "falcon-env", UserProperty: "falcon_user", Components: []string{"FALCON_SERVER"}}},
	"SPARK":  {{ConfigType: "livy-env", UserProperty: "livy_user", Components: []string{"LIVY_SERVER"}}},
	"SPARK2": {{ConfigType: "livy2-env", UserProperty: "livy2_user", Components: []string{"LIVY2_SERVER"}}},
}

// values like ${hive.server.hosts} or ${clusterHostInfo/hive_server_hosts|each(...)} must survive the set merge
var specialValueRegExp = regexp.MustCompile(`\$\{(?:([\w\-\.]+)[/=])?([\w\-\.]+)(?:\s*\|\s*(.+?))?\}`)

func proxyUserHostsProperty(user string) string {
	return fmt.Sprintf("hadoop.proxyuser.%s.hosts", user)
}

func proxyUserGroupsProperty(user string) string {
	return fmt.Sprintf("hadoop.proxyuser.%s.groups", user)
}

type proxyUserValue struct {
	hosts  string
	groups string
	def    ProxyUser
}

// proxyUsers collects the proxy users of all installed services keyed on the user name.
func (ctx *Context) proxyUsers(out configuration.Document) (map[string]proxyUserValue, []string) {
	users := make(map[string]proxyUserValue)
	var order []string
	for _, si := range ctx.Instances {
		defs := defaultProxyUsers[si.Type]
		if p, ok := si.Advisor.(ProxyUsersProvider); ok {
			defs = p.ProxyUsers()
		}
		for _, def := range defs {
			user, ok := ctx.Value(out, def.ConfigType, def.UserProperty)
			if !ok || user == "" {
				continue
			}
			hosts := wildcard
			if len(def.Components) > 0 {
				var componentHosts []string
				for _, c := range def.Components {
					componentHosts = append(componentHosts, ctx.ComponentHosts(c)...)
				}
				componentHosts = common.Unique(componentHosts)
				if len(componentHosts) == 0 || len(componentHosts) < def.MinHosts {
					continue
				}
				sort.Strings(componentHosts)
				hosts = strings.Join(componentHosts, ",")
			}
			if current, ok := users[user]; ok {
				current.hosts = joinProxyValues(current.hosts, hosts)
				users[user] = current
				continue
			}
			users[user] = proxyUserValue{hosts: hosts, groups: wildcard, def: def}
			order = append(order, user)
		}
	}
	return users, order
}

func joinProxyValues(a, b string) string {
	if a == wildcard || b == wildcard {
		return wildcard
	}
	return a + "," + b
}

// RecommendHadoopProxyUsers writes the hadoop.proxyuser hosts and groups of all service users and the
// ambari server user into core-site. Settings of renamed users are marked for deletion.
func (ctx *Context) RecommendHadoopProxyUsers(out configuration.Document) {
	coreSite := ctx.Writer(out, CoreSite)
	users, order := ctx.proxyUsers(out)
	for _, user := range order {
		value := users[user]
		ctx.PutProxyUserValue(out, coreSite, proxyUserHostsProperty(user), value.hosts)
		ctx.PutProxyUserValue(out, coreSite, proxyUserGroupsProperty(user), value.groups)

		oldUser, ok := ctx.OldValue(value.def.ConfigType, value.def.UserProperty)
		if ok && oldUser != "" && oldUser != user {
			log.Log(log.Recommend).Info("service user renamed, removing old proxy user settings",
				zap.String("oldUser", oldUser),
				zap.String("user", user))
			for _, prop := range []string{proxyUserHostsProperty(oldUser), proxyUserGroupsProperty(oldUser)} {
				coreSite.PutAttribute(prop, "delete", "true")
				ctx.ForceProperty(CoreSite, prop)
			}
			ctx.ForceProperty(CoreSite, proxyUserHostsProperty(user))
			ctx.ForceProperty(CoreSite, proxyUserGroupsProperty(user))
		}
	}
	ctx.recommendAmbariProxyUser(out, coreSite)
}

func (ctx *Context) recommendAmbariProxyUser(out configuration.Document, coreSite *configuration.Writer) {
	user := ctx.AmbariUser()
	if host := ctx.LocalHost; host != "" {
		ctx.PutProxyUserValue(out, coreSite, proxyUserHostsProperty(user), host)
	}
	ctx.PutProxyUserValue(out, coreSite, proxyUserGroupsProperty(user), wildcard)
	if oldUser, ok := ctx.OldAmbariUser(); ok && oldUser != user {
		coreSite.PutAttribute(proxyUserHostsProperty(oldUser), "delete", "true")
		coreSite.PutAttribute(proxyUserGroupsProperty(oldUser), "delete", "true")
	}
}

func (ctx *Context) isSecurityEnabled() bool {
	return common.IsTrue(ctx.Services.Configurations.PropertyOrDefault(stack.ClusterEnv, securityEnabled, "false"))
}

// AmbariUser returns the user the ambari server runs as: the principal name on a secure cluster.
func (ctx *Context) AmbariUser() string {
	user, ok := ctx.AmbariServerProperty(ambariUserProperty)
	if !ok || user == "" {
		user = defaultAmbariUser
	}
	if ctx.isSecurityEnabled() {
		if principal, ok := ctx.Services.Configurations.Property(stack.ClusterEnv, ambariPrincipalName); ok && principal != "" {
			user = principal
		}
	}
	return strings.SplitN(user, "@", 2)[0]
}

// OldAmbariUser returns the ambari user before the principal name was changed.
func (ctx *Context) OldAmbariUser() (string, bool) {
	if !ctx.isSecurityEnabled() {
		return "", false
	}
	old, ok := ctx.OldValue(stack.ClusterEnv, ambariPrincipalName)
	if !ok || old == "" {
		return "", false
	}
	return strings.SplitN(old, "@", 2)[0], true
}

// ForceProperty adds the property to the forced configurations of this invocation.
func (ctx *Context) ForceProperty(configType, name string) {
	key := configuration.PropertyKey{Type: configType, Name: name}
	for _, k := range ctx.forced {
		if k == key {
			return
		}
	}
	ctx.forced = append(ctx.forced, key)
}

// ForcedProperties returns the forced configurations of the request followed by the ones forced by
// recommenders, in the order they were added.
func (ctx *Context) ForcedProperties() []configuration.PropertyKey {
	return append([]configuration.PropertyKey(nil), ctx.forced...)
}

// PutProxyUserValue merges the value into the current proxy user property. A current wildcard is kept,
// an empty merge result becomes a wildcard.
func (ctx *Context) PutProxyUserValue(out configuration.Document, writer *configuration.Writer, property, value string) {
	current, _ := ctx.Value(out, writer.Type(), property)
	writer.Put(property, mergeProxyUserValues(current, value))
}

func mergeProxyUserValues(current, value string) string {
	if strings.TrimSpace(current) == wildcard {
		return wildcard
	}
	tokens := make(map[string]string)
	protected := specialValueRegExp.ReplaceAllStringFunc(current, func(special string) string {
		token := common.GetRandomToken(specialTokenLength)
		tokens[token] = special
		return token
	})
	merged := make(map[string]bool)
	add := func(values string) {
		if values == wildcard {
			return
		}
		for _, v := range strings.Split(values, ",") {
			if v = strings.TrimSpace(v); v != "" {
				merged[v] = true
			}
		}
	}
	add(protected)
	add(value)
	if len(merged) == 0 {
		return wildcard
	}
	result := make([]string, 0, len(merged))
	for v := range merged {
		if special, ok := tokens[v]; ok {
			v = special
		} else {
			for token, special := range tokens {
				v = strings.ReplaceAll(v, token, special)
			}
		}
		result = append(result, v)
	}
	sort.Strings(result)
	return strings.Join(result, ",")
}
