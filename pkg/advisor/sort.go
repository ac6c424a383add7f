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
	"go.uber.org/zap"

	"github.com/apache/ambari-sub000/pkg/log"
)

// sortedByDependencies orders the service instances so that the providers of host scoped dependencies come
// before the instances depending on them. The walk is depth first in input order. An instance already visited
// is not visited again: a dependency cycle is broken at the point the walk first comes back to an instance.
func (ctx *Context) sortedByDependencies() []*ServiceInstance {
	sorted := make([]*ServiceInstance, 0, len(ctx.Instances))
	visited := make(map[string]bool, len(ctx.Instances))
	var visit func(si *ServiceInstance)
	visit = func(si *ServiceInstance) {
		visited[si.Key()] = true
		for _, component := range si.Components() {
			for _, dep := range component.Dependencies {
				d := dep.Dependencies
				if !d.IsHostScoped() {
					continue
				}
				provider := ctx.ComponentInstance(d.ComponentName, si.MpackName)
				if provider == nil || provider == si {
					continue
				}
				if visited[provider.Key()] {
					log.Log(log.Layout).Debug("dependency already visited",
						zap.String("instance", si.Key()),
						zap.String("provider", provider.Key()))
					continue
				}
				visit(provider)
			}
		}
		sorted = append(sorted, si)
	}
	for _, si := range ctx.Instances {
		if !visited[si.Key()] {
			visit(si)
		}
	}
	return sorted
}
