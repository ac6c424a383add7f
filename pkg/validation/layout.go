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

package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/apache/ambari-sub000/pkg/common"
)

// CardinalityMessage checks the number of hosts a component is assigned to against its cardinality.
// Returns the message and true when the assignment violates the cardinality. A cardinality that does not
// parse is not checked.
func CardinalityMessage(displayName, cardinality string, assigned, hostsCount int) (string, bool) {
	minHosts, maxHosts, ok := common.ParseCardinality(cardinality, hostsCount)
	if !ok {
		return "", false
	}
	var message string
	switch {
	case cardinality == common.CardinalityAll:
		if assigned != hostsCount {
			message = fmt.Sprintf("%s component should be installed on all hosts in cluster.", displayName)
		}
	case cardinality[len(cardinality)-1] == '+':
		if assigned < minHosts {
			message = fmt.Sprintf("At least %d %s components should be installed in cluster.", minHosts, displayName)
		}
	case minHosts != maxHosts || cardinality != strconv.Itoa(minHosts):
		if assigned < minHosts || assigned > maxHosts {
			message = fmt.Sprintf("Between %d and %d %s components should be installed in cluster.", minHosts, maxHosts, displayName)
		}
	default:
		if assigned != minHosts {
			message = fmt.Sprintf("Exactly %d %s components should be installed in cluster.", minHosts, displayName)
		}
	}
	if message == "" {
		return "", false
	}
	return fmt.Sprintf("You have selected %d %s components. Please consider that %s", assigned, displayName, message), true
}

// RequiredCoHostedMessage is reported when a host scoped dependency is missing on some hosts.
func RequiredCoHostedMessage(component, dependency string, hosts []string) string {
	return fmt.Sprintf("%s requires %s to be co-hosted on following host(s): %s.", component, dependency, strings.Join(hosts, ", "))
}

// RequiredPresentMessage is reported when a cluster scoped dependency is missing from the cluster.
func RequiredPresentMessage(component, dependency string) string {
	return fmt.Sprintf("%s requires %s to be present in the cluster.", component, dependency)
}
