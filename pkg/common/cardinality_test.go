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
	"errors"
	"testing"

	"gotest.tools/v3/assert"
)

func TestParseCardinality(t *testing.T) {
	tests := []struct {
		cardinality string
		min         int
		max         int
		ok          bool
	}{
		{"1+", 1, 5, true},
		{"0+", 0, 5, true},
		{"1-2", 1, 2, true},
		{"ALL", 5, 5, true},
		{"3", 3, 3, true},
		{"", 0, 0, false},
		{"x+", 0, 0, false},
		{"1-x", 0, 0, false},
		{"some", 0, 0, false},
	}
	for _, test := range tests {
		t.Run(test.cardinality, func(t *testing.T) {
			minHosts, maxHosts, ok := ParseCardinality(test.cardinality, 5)
			assert.Equal(t, ok, test.ok)
			assert.Equal(t, minHosts, test.min)
			assert.Equal(t, maxHosts, test.max)
		})
	}
}

func TestJDBC(t *testing.T) {
	driver, err := JDBCDriver("New MySQL Database")
	assert.NilError(t, err)
	assert.Equal(t, driver, "com.mysql.jdbc.Driver")

	url, err := JDBCConnectionString("Existing PostgreSQL Database", "db.example.com", "hive")
	assert.NilError(t, err)
	assert.Equal(t, url, "jdbc:postgresql://db.example.com:5432/hive")

	url, err = JDBCConnectionString("New Derby Database", "ignored", "ignored")
	assert.NilError(t, err)
	assert.Equal(t, url, "jdbc:derby:${oozie.data.dir}/${oozie.db.schema.name}-db;create=true")

	alias, err := DatabaseTypeAlias("Existing Oracle Database")
	assert.NilError(t, err)
	assert.Equal(t, alias, "oracle")

	_, err = JDBCDriver("Existing DB2 Database")
	assert.Assert(t, errors.Is(err, ErrUnsupportedJDBCDriver))
}
