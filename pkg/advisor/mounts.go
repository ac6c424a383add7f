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

	"github.com/apache/ambari-sub000/pkg/configuration"
	"github.com/apache/ambari-sub000/pkg/stack"
)

// MountPolicy decides how many mount points a directory property is spread over.
type MountPolicy int

const (
	// SingleMount uses the first shared mount point.
	SingleMount MountPolicy = iota
	// MultiMount uses every shared mount point, comma separated.
	MultiMount
)

// MountProperty is a directory property recommended over the mount points of the hosts running the component.
type MountProperty struct {
	Name      string
	Component string
	Default   string
	Policy    MountPolicy
}

// UpdateMountProperties recommends the directory properties of the type. A property is only recommended when
// the user did not set it or left the stock default.
func (ctx *Context) UpdateMountProperties(out configuration.Document, configType string, properties []MountProperty) {
	writer := ctx.Writer(out, configType)
	for _, p := range properties {
		if current, ok := ctx.UserConfigurations().Property(configType, p.Name); ok && current != p.Default {
			continue
		}
		variations := stack.MountPathVariations(p.Default, ctx.HostsWithComponent(p.Component))
		if len(variations) == 0 {
			continue
		}
		if p.Policy == SingleMount {
			writer.Put(p.Name, variations[0])
			continue
		}
		writer.Put(p.Name, strings.Join(variations, ","))
	}
}
