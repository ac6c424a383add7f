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

package resources

import (
	"errors"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// This code handles parsing of JVM maximum heap options:
// <option>  ::= "-Xmx" <digits> <suffix>
// <suffix>  ::= "" | b | k | m | g | t | p (case insensitive)
// All multipliers are binary (1024 based). No suffix means bytes.

var xmx = regexp.MustCompile(`-Xmx(\d+)(b|k|m|g|p|t|B|K|M|G|P|T)?`)
var legal = regexp.MustCompile(`^(?P<Number>[0-9]+)(?P<Suffix>[A-Za-z]?)$`)

var multipliers = map[string]int64{
	"":  1,
	"b": 1,
	"k": 1 << 10,
	"m": 1 << 20,
	"g": 1 << 30,
	"t": 1 << 40,
	"p": 1 << 50,
}

// HasXmx returns true if the value contains exactly one -Xmx option.
func HasXmx(value string) bool {
	return len(xmx.FindAllStringSubmatch(value, -1)) == 1
}

// GetXmxSize returns the size part of the single -Xmx option in the value, for example "1024m".
func GetXmxSize(value string) (string, bool) {
	matches := xmx.FindAllStringSubmatch(value, -1)
	if len(matches) != 1 {
		return "", false
	}
	return matches[0][1] + matches[0][2], true
}

// ParseHeapSize converts a heap size like "1024m" or "2G" into bytes.
func ParseHeapSize(value string) (int64, error) {
	value = strings.TrimSpace(value)
	parts := legal.FindStringSubmatch(value)
	if parts == nil || len(parts) != 3 {
		return 0, errors.New("invalid heap size")
	}
	result, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, errors.New("invalid heap size: overflow")
	}
	scale, ok := multipliers[strings.ToLower(parts[2])]
	if !ok {
		return 0, errors.New("invalid heap size suffix")
	}
	bigResult := big.NewInt(result)
	bigResult = bigResult.Mul(bigResult, big.NewInt(scale))
	if !bigResult.IsInt64() {
		return 0, errors.New("invalid heap size: overflow")
	}
	return bigResult.Int64(), nil
}

// XmxBytes returns the maximum heap in bytes from a value containing a single -Xmx option.
func XmxBytes(value string) (int64, error) {
	size, ok := GetXmxSize(value)
	if !ok {
		return 0, errors.New("no single -Xmx option found")
	}
	return ParseHeapSize(size)
}

// FormatXmx formats a heap size in megabytes as a JVM option.
func FormatXmx(megabytes int64) string {
	return "-Xmx" + strconv.FormatInt(megabytes, 10) + "m"
}
