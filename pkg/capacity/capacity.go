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

package capacity

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/apache/ambari-sub000/pkg/log"
)

const (
	// ConfigType is the configuration type holding the capacity scheduler settings
	ConfigType = "capacity-scheduler"
	// FlattenedProperty is the single property holding all settings as "key=value" lines
	FlattenedProperty = "capacity-scheduler"

	Prefix        = "yarn.scheduler.capacity."
	RootQueue     = "root"
	queuesSuffix  = ".queues"
	capacity      = ".capacity"
	maxCapacity   = ".maximum-capacity"
	state         = ".state"
	pathSeparator = "."
)

// Queue is one node in the capacity scheduler queue tree.
type Queue struct {
	Name            string
	Path            string
	Capacity        string
	MaximumCapacity string
	State           string
	Children        []*Queue
}

// IsLeaf returns true if the queue has no child queues.
func (q *Queue) IsLeaf() bool {
	return len(q.Children) == 0
}

// Scheduler is the parsed capacity scheduler configuration: all flattened properties and the queue tree.
type Scheduler struct {
	Root       *Queue
	Properties map[string]string
}

// ParseString parses the flattened "key=value" line format.
// Lines without a key are skipped, a value can contain "=" characters.
func ParseString(content string) *Scheduler {
	props := make(map[string]string)
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[0]) == "null" {
		return ParseProperties(props)
	}
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		key, value, _ := strings.Cut(line, "=")
		if key == "" {
			continue
		}
		props[key] = value
	}
	return ParseProperties(props)
}

// ParseConfiguration accepts both forms a capacity-scheduler section can take: a single flattened property
// or individual properties.
func ParseConfiguration(props map[string]string) *Scheduler {
	if content, ok := props[FlattenedProperty]; ok {
		return ParseString(content)
	}
	return ParseProperties(props)
}

// ParseProperties builds the queue tree from individual properties.
// The tree is walked from "yarn.scheduler.capacity.root.queues", a queue with a ".queues" property is a parent.
func ParseProperties(props map[string]string) *Scheduler {
	s := &Scheduler{
		Properties: make(map[string]string, len(props)),
	}
	for k, v := range props {
		s.Properties[k] = v
	}
	s.Root = s.buildQueue(RootQueue, RootQueue)
	return s
}

func (s *Scheduler) buildQueue(name, path string) *Queue {
	q := &Queue{
		Name:            name,
		Path:            path,
		Capacity:        s.Properties[Prefix+path+capacity],
		MaximumCapacity: s.Properties[Prefix+path+maxCapacity],
		State:           s.Properties[Prefix+path+state],
	}
	children, ok := s.Properties[Prefix+path+queuesSuffix]
	if !ok {
		return q
	}
	for _, child := range strings.Split(children, ",") {
		child = strings.TrimSpace(child)
		if child == "" {
			log.Log(log.Recommend).Debug("skipping empty queue name",
				zap.String("parent", path))
			continue
		}
		q.Children = append(q.Children, s.buildQueue(child, path+pathSeparator+child))
	}
	return q
}

// HasQueues returns true if the root queue defines children.
func (s *Scheduler) HasQueues() bool {
	return s != nil && s.Root != nil && !s.Root.IsLeaf()
}

// LeafQueues returns all leaf queues in depth first order. A root without children has no leaf queues.
func (s *Scheduler) LeafQueues() []*Queue {
	if !s.HasQueues() {
		return nil
	}
	var leaves []*Queue
	var walk func(q *Queue)
	walk = func(q *Queue) {
		if q.IsLeaf() {
			leaves = append(leaves, q)
			return
		}
		for _, c := range q.Children {
			walk(c)
		}
	}
	walk(s.Root)
	return leaves
}

// LeafQueueNames returns the sorted, unique short names of all leaf queues.
func (s *Scheduler) LeafQueueNames() []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, q := range s.LeafQueues() {
		if !seen[q.Name] {
			seen[q.Name] = true
			names = append(names, q.Name)
		}
	}
	sort.Strings(names)
	return names
}

// IsLeafQueue returns true if a leaf queue with the short name exists.
func (s *Scheduler) IsLeafQueue(name string) bool {
	for _, q := range s.LeafQueues() {
		if q.Name == name {
			return true
		}
	}
	return false
}

// String serializes all properties back into the flattened line format, sorted on key.
func (s *Scheduler) String() string {
	keys := make([]string, 0, len(s.Properties))
	for k := range s.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(s.Properties[k])
	}
	return b.String()
}
