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
	"bufio"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/apache/ambari-sub000/pkg/log"
)

const (
	DefaultMinUID = "1000"
	uidMinTag     = "UID_MIN"
	commentTag    = "#"
)

// GetRandomToken returns an alphanumeric token of the requested length (at most 32 characters).
func GetRandomToken(length int) string {
	token := strings.ReplaceAll(uuid.NewString(), "-", "")
	if length > 0 && length < len(token) {
		return token[:length]
	}
	return token
}

// ToNumber strips every non digit from the value and parses what remains.
// "1024m" returns 1024, "abc" fails. The sign is dropped together with all other non digits.
func ToNumber(value string) (int64, bool) {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	result, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return result, true
}

// ConvertToNumber parses an integer or a floating point value.
func ConvertToNumber(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if i, err := strconv.ParseInt(value, 10, 64); err == nil {
		return float64(i), nil
	}
	return strconv.ParseFloat(value, 64)
}

// ParseInt parses a trimmed integer, returning the default on failure.
func ParseInt(value string, defaultValue int) int {
	result, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return result
}

// IsTrue is a case insensitive check for the literal "true".
func IsTrue(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "true")
}

// SortedKeys returns the keys of a string keyed map in sorted order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Unique removes duplicates keeping the first occurrence of each value.
func Unique(values []string) []string {
	seen := make(map[string]bool, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	return result
}

// Contains returns true if the value is in the list.
func Contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// GetSystemMinUID reads the UID_MIN setting from a login.defs file.
// A missing file, a commented out setting or a non numeric value returns the default of 1000.
func GetSystemMinUID(loginDefs string) string {
	file, err := os.Open(loginDefs)
	if err != nil {
		log.Log(log.Recommend).Debug("login.defs not readable, using default minimum uid",
			zap.String("path", loginDefs),
			zap.Error(err))
		return DefaultMinUID
	}
	defer file.Close()

	uidMin := DefaultMinUID
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		tag := strings.Index(line, uidMinTag)
		if tag == -1 {
			continue
		}
		comment := strings.Index(line, commentTag)
		// tag inside a comment
		if comment != -1 && comment < tag {
			continue
		}
		start := tag + len(uidMinTag)
		if comment == -1 {
			uidMin = strings.TrimSpace(line[start:])
		} else {
			uidMin = strings.TrimSpace(line[start:comment])
		}
		break
	}
	if _, err = strconv.Atoi(uidMin); err != nil {
		return DefaultMinUID
	}
	return uidMin
}
