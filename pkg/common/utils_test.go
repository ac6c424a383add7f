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
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

func TestToNumber(t *testing.T) {
	tests := []struct {
		value string
		want  int64
		ok    bool
	}{
		{"1024", 1024, true},
		{"1024m", 1024, true},
		{"-Xmx2048m", 2048, true},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, test := range tests {
		got, ok := ToNumber(test.value)
		assert.Equal(t, ok, test.ok, "unexpected parse result for %q", test.value)
		assert.Equal(t, got, test.want, "unexpected number for %q", test.value)
	}
}

func TestConvertToNumber(t *testing.T) {
	got, err := ConvertToNumber("42")
	assert.NilError(t, err)
	assert.Equal(t, got, 42.0)
	got, err = ConvertToNumber(" 0.5 ")
	assert.NilError(t, err)
	assert.Equal(t, got, 0.5)
	_, err = ConvertToNumber("x")
	assert.Assert(t, err != nil, "expected error for non numeric value")
}

func TestGetRandomToken(t *testing.T) {
	token := GetRandomToken(20)
	assert.Equal(t, len(token), 20)
	assert.Assert(t, token != GetRandomToken(20), "tokens should differ")
	assert.Equal(t, len(GetRandomToken(0)), 32)
}

func TestUnique(t *testing.T) {
	assert.DeepEqual(t, Unique([]string{"b", "a", "b", "c", "a"}), []string{"b", "a", "c"})
	assert.DeepEqual(t, Unique(nil), []string{})
}

func TestSortedKeys(t *testing.T) {
	assert.DeepEqual(t, SortedKeys(map[string]int{"z": 1, "a": 2, "m": 3}), []string{"a", "m", "z"})
}

func TestGetSystemMinUID(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]struct {
		content string
		want    string
	}{
		"plain":     {"UID_MIN 500\nUID_MAX 60000\n", "500"},
		"tabbed":    {"UID_MIN\t\t\t  2000\n", "2000"},
		"commented": {"#UID_MIN 500\n", DefaultMinUID},
		"trailing":  {"UID_MIN 700 # local policy\n", "700"},
		"missing":   {"UID_MAX 60000\n", DefaultMinUID},
		"invalid":   {"UID_MIN abc\n", DefaultMinUID},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			assert.NilError(t, os.WriteFile(path, []byte(test.content), 0o600))
			assert.Equal(t, GetSystemMinUID(path), test.want)
		})
	}
	assert.Equal(t, GetSystemMinUID(filepath.Join(dir, "nonexistent")), DefaultMinUID)
}
