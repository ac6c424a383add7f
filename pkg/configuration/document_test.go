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

package configuration

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gotest.tools/v3/assert"
)

func TestLenientDecode(t *testing.T) {
	data := `{
		"yarn-site": {
			"properties": {
				"yarn.scheduler.minimum-allocation-mb": 256,
				"yarn.acl.enable": true,
				"yarn.log-aggregation-enable": "false",
				"yarn.nodemanager.linux-container-executor.group": null
			},
			"property_attributes": {
				"yarn.scheduler.maximum-allocation-mb": {"maximum": 2048}
			}
		}
	}`
	var doc Document
	assert.NilError(t, json.Unmarshal([]byte(data), &doc))
	v, ok := doc.Property("yarn-site", "yarn.scheduler.minimum-allocation-mb")
	assert.Assert(t, ok)
	assert.Equal(t, v, "256")
	v, _ = doc.Property("yarn-site", "yarn.acl.enable")
	assert.Equal(t, v, "true")
	v, _ = doc.Property("yarn-site", "yarn.log-aggregation-enable")
	assert.Equal(t, v, "false")
	_, ok = doc.Property("yarn-site", "yarn.nodemanager.linux-container-executor.group")
	assert.Assert(t, !ok, "null values should be dropped")
	v, ok = doc.Attribute("yarn-site", "yarn.scheduler.maximum-allocation-mb", "maximum")
	assert.Assert(t, ok)
	assert.Equal(t, v, "2048")
}

func TestNilDocument(t *testing.T) {
	var doc Document
	assert.Assert(t, doc.Get("core-site") == nil)
	assert.Assert(t, !doc.Has("core-site"))
	_, ok := doc.Property("core-site", "fs.defaultFS")
	assert.Assert(t, !ok)
	assert.Equal(t, doc.PropertyOrDefault("core-site", "fs.defaultFS", "hdfs://localhost"), "hdfs://localhost")
	assert.Assert(t, doc.Clone() == nil)
}

func TestCloneIsDeep(t *testing.T) {
	doc := Document{}
	NewWriter(doc, "hive-site", nil, nil).Put("hive.tez.container.size", "512")
	clone := doc.Clone()
	clone["hive-site"].Properties["hive.tez.container.size"] = "1024"
	v, _ := doc.Property("hive-site", "hive.tez.container.size")
	assert.Equal(t, v, "512")
}

func TestCloneRoundTrip(t *testing.T) {
	doc := Document{}
	w := NewWriter(doc, "hdfs-site", nil, nil)
	w.Put("dfs.datanode.data.dir", "/grid/0/hadoop/hdfs/data")
	w.PutAttribute("dfs.namenode.rpc-address", "delete", "true")
	NewWriter(doc, "core-site", nil, nil)
	if diff := cmp.Diff(doc, doc.Clone()); diff != "" {
		t.Errorf("clone differs (-want +got):\n%s", diff)
	}

	data, err := json.Marshal(doc)
	assert.NilError(t, err)
	var decoded Document
	assert.NilError(t, json.Unmarshal(data, &decoded))
	// an empty section decodes without attributes
	assert.DeepEqual(t, doc, decoded, cmpopts.EquateEmpty())
}

func TestOverlayAndFilter(t *testing.T) {
	doc := Document{}
	w := NewWriter(doc, "yarn-site", nil, nil)
	w.Put("a", "1")
	w.Put("b", "2")
	w.PutAttribute("b", "maximum", "10")
	group := Document{}
	NewWriter(group, "yarn-site", nil, nil).Put("a", "5")
	NewWriter(group, "tez-site", nil, nil).Put("c", "3")
	doc.Overlay(group)
	v, _ := doc.Property("yarn-site", "a")
	assert.Equal(t, v, "5")
	v, _ = doc.Property("tez-site", "c")
	assert.Equal(t, v, "3")

	doc.Filter(func(configType, name string) bool {
		return configType == "yarn-site" && name == "b"
	})
	assert.Equal(t, len(doc), 1)
	assert.DeepEqual(t, doc["yarn-site"].Properties, Properties{"b": "2"})
	v, _ = doc.Attribute("yarn-site", "b", "maximum")
	assert.Equal(t, v, "10")
}

func TestOverridePolicy(t *testing.T) {
	user := Document{}
	NewWriter(user, "yarn-site", nil, nil).Put("changed", "user")
	NewWriter(user, "yarn-site", nil, nil).Put("unchanged", "user")
	changed := []PropertyKey{{Type: "yarn-site", Name: "changed"}}

	// unscoped: changed properties keep the user value, everything else is recomputed
	out := Document{}
	w := NewWriter(out, "yarn-site", user, NewOverridePolicy(changed))
	w.Put("changed", "computed")
	w.Put("unchanged", "computed")
	w.Put("new", "computed")
	assert.DeepEqual(t, out["yarn-site"].Properties, Properties{
		"changed":   "user",
		"unchanged": "computed",
		"new":       "computed",
	})

	// scoped: only requested properties are recomputed
	requested := map[PropertyKey]bool{{Type: "yarn-site", Name: "unchanged"}: true}
	policy := NewScopedOverridePolicy(changed, requested)
	assert.Assert(t, policy.IsScoped())
	out = Document{}
	w = NewWriter(out, "yarn-site", user, policy)
	w.Put("changed", "computed")
	w.Put("unchanged", "computed")
	w.Put("new", "computed")
	assert.DeepEqual(t, out["yarn-site"].Properties, Properties{
		"changed":   "user",
		"unchanged": "computed",
		"new":       "computed",
	})

	// empty requested set behaves as unscoped
	assert.Assert(t, !NewScopedOverridePolicy(changed, nil).IsScoped())
}

// Running the same writes twice gives the same document regardless of the policy.
func TestOverridePolicyIdempotent(t *testing.T) {
	user := Document{}
	NewWriter(user, "hdfs-site", nil, nil).Put("dfs.replication", "2")
	policy := NewOverridePolicy([]PropertyKey{{Type: "hdfs-site", Name: "dfs.replication"}})
	out := Document{}
	for i := 0; i < 2; i++ {
		w := NewWriter(out, "hdfs-site", user, policy)
		w.Put("dfs.replication", "3")
		w.PutInt("dfs.datanode.du.reserved", 1073741824)
	}
	assert.DeepEqual(t, out["hdfs-site"].Properties, Properties{
		"dfs.replication":          "2",
		"dfs.datanode.du.reserved": "1073741824",
	})
}

func TestWriterJSON(t *testing.T) {
	out := Document{}
	w := NewWriter(out, "hbase-env", nil, nil)
	w.PutInt("hbase_master_heapsize", 1024)
	w.PutAttribute("hbase_master_heapsize", "maximum", "4096")
	NewWriter(out, "hbase-site", nil, nil)
	data, err := json.Marshal(out)
	assert.NilError(t, err)
	assert.Equal(t, string(data),
		`{"hbase-env":{"properties":{"hbase_master_heapsize":"1024"},"property_attributes":{"hbase_master_heapsize":{"maximum":"4096"}}},"hbase-site":{"properties":{}}}`)
	v, ok := w.Get("hbase_master_heapsize")
	assert.Assert(t, ok)
	assert.Equal(t, v, "1024")
	assert.Equal(t, w.Type(), "hbase-env")
}
