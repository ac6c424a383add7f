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
	"strconv"
)

// PropertyKey identifies a property within a configuration type.
type PropertyKey struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// OverridePolicy decides whether a recommended value may replace the value the user supplied.
//
// Unscoped (full recommendation): a property listed as changed by the user keeps the user value.
// Scoped (dependency recommendation): only properties in the requested set are recomputed, every other
// property keeps the user value.
// A property without a user value is always written.
type OverridePolicy struct {
	changed   map[PropertyKey]bool
	requested map[PropertyKey]bool
	scoped    bool
}

// NewOverridePolicy creates an unscoped policy from the changed configurations.
func NewOverridePolicy(changed []PropertyKey) *OverridePolicy {
	p := &OverridePolicy{changed: make(map[PropertyKey]bool, len(changed))}
	for _, k := range changed {
		p.changed[k] = true
	}
	return p
}

// NewScopedOverridePolicy creates a policy that only allows the requested properties to be recomputed.
// An empty requested set falls back to the unscoped behaviour.
func NewScopedOverridePolicy(changed []PropertyKey, requested map[PropertyKey]bool) *OverridePolicy {
	p := NewOverridePolicy(changed)
	if len(requested) > 0 {
		p.requested = requested
		p.scoped = true
	}
	return p
}

// IsScoped returns true if the policy limits recomputation to a requested set.
func (p *OverridePolicy) IsScoped() bool {
	return p != nil && p.scoped
}

// IsRequested returns true if the property must be recomputed.
func (p *OverridePolicy) IsRequested(configType, name string) bool {
	if p == nil {
		return true
	}
	key := PropertyKey{Type: configType, Name: name}
	if p.scoped {
		return p.requested[key]
	}
	return !p.changed[key]
}

// KeepUserValue returns true if the user value must be kept over the recommendation.
func (p *OverridePolicy) KeepUserValue(configType, name string, hasUserValue bool) bool {
	return hasUserValue && !p.IsRequested(configType, name)
}

// Writer sets recommended values for one configuration type of an output document.
type Writer struct {
	output     Document
	configType string
	user       Document
	policy     *OverridePolicy
}

// NewWriter creates a writer for the type. The user document and policy are optional: without them every
// recommended value is written.
func NewWriter(output Document, configType string, user Document, policy *OverridePolicy) *Writer {
	output.Ensure(configType)
	return &Writer{
		output:     output,
		configType: configType,
		user:       user,
		policy:     policy,
	}
}

// Put writes the recommended value unless the user value must be kept, in which case the user value is written.
func (w *Writer) Put(key, value string) {
	section := w.output.Ensure(w.configType)
	if w.policy != nil {
		userValue, ok := w.user.Property(w.configType, key)
		if w.policy.KeepUserValue(w.configType, key, ok) {
			section.Properties[key] = userValue
			return
		}
	}
	section.Properties[key] = value
}

// PutInt writes an integer value.
func (w *Writer) PutInt(key string, value int64) {
	w.Put(key, strconv.FormatInt(value, 10))
}

// PutAttribute sets an attribute of a property, for example "maximum" or "delete".
func (w *Writer) PutAttribute(key, attribute, value string) {
	section := w.output.Ensure(w.configType)
	if section.PropertyAttributes == nil {
		section.PropertyAttributes = make(Attributes)
	}
	attr := section.PropertyAttributes[key]
	if attr == nil {
		attr = make(map[string]string)
		section.PropertyAttributes[key] = attr
	}
	attr[attribute] = value
}

// Get returns the value written so far for the key.
func (w *Writer) Get(key string) (string, bool) {
	return w.output.Property(w.configType, key)
}

// Type returns the configuration type the writer writes to.
func (w *Writer) Type() string {
	return w.configType
}
