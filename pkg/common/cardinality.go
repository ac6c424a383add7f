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

package common

import (
	"strconv"
	"strings"
)

const CardinalityAll = "ALL"

// ParseCardinality converts a component cardinality into the minimum and maximum number of hosts.
// Supported forms are "N+", "A-B", "ALL" and a plain number "N". Anything else, including an empty
// string, returns ok == false and the caller must treat the component as unconstrained.
func ParseCardinality(cardinality string, hostsCount int) (minHosts, maxHosts int, ok bool) {
	cardinality = strings.TrimSpace(cardinality)
	if cardinality == "" {
		return 0, 0, false
	}
	switch {
	case strings.HasSuffix(cardinality, "+"):
		n, err := strconv.Atoi(cardinality[:len(cardinality)-1])
		if err != nil || n < 0 {
			return 0, 0, false
		}
		return n, hostsCount, true
	case strings.Contains(cardinality, "-"):
		nums := strings.Split(cardinality, "-")
		if len(nums) != 2 {
			return 0, 0, false
		}
		low, err := strconv.Atoi(nums[0])
		if err != nil || low < 0 {
			return 0, 0, false
		}
		high, err := strconv.Atoi(nums[1])
		if err != nil || high < 0 {
			return 0, 0, false
		}
		return low, high, true
	case cardinality == CardinalityAll:
		return hostsCount, hostsCount, true
	default:
		for _, r := range cardinality {
			if r < '0' || r > '9' {
				return 0, 0, false
			}
		}
		n, err := strconv.Atoi(cardinality)
		if err != nil {
			return 0, 0, false
		}
		return n, n, true
	}
}
