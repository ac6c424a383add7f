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
	"bytes"
	"encoding/json"
	"strconv"
)

// Properties holds the values of one configuration type.
// Input documents are loosely typed: numbers and booleans are accepted and stored in their string form,
// null values are dropped.
type Properties map[string]string

// Attributes holds property attributes like "maximum", "minimum" or "delete", keyed on property name.
type Attributes map[string]map[string]string

// Section is one configuration type.
type Section struct {
	Properties         Properties `json:"properties"`
	PropertyAttributes Attributes `json:"property_attributes,omitempty"`
}

// Document maps configuration types (core-site, yarn-site, ...) to their section.
type Document map[string]*Section

// scalarString converts a JSON scalar to its string form. Objects and arrays keep their raw JSON text.
func scalarString(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return s, true
	case 't', 'f':
		b, err := strconv.ParseBool(string(raw))
		if err != nil {
			return "", false
		}
		return strconv.FormatBool(b), true
	default:
		return string(raw), true
	}
}

func (p *Properties) UnmarshalJSON(data []byte) error {
	raw := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	props := make(Properties, len(raw))
	for k, v := range raw {
		if s, ok := scalarString(v); ok {
			props[k] = s
		}
	}
	*p = props
	return nil
}

func (a *Attributes) UnmarshalJSON(data []byte) error {
	raw := make(map[string]map[string]json.RawMessage)
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	attrs := make(Attributes, len(raw))
	for name, values := range raw {
		attr := make(map[string]string, len(values))
		for k, v := range values {
			if s, ok := scalarString(v); ok {
				attr[k] = s
			}
		}
		attrs[name] = attr
	}
	*a = attrs
	return nil
}

// Clone returns a deep copy of the properties.
func (p Properties) Clone() Properties {
	if p == nil {
		return nil
	}
	clone := make(Properties, len(p))
	for k, v := range p {
		clone[k] = v
	}
	return clone
}

func (a Attributes) Clone() Attributes {
	if a == nil {
		return nil
	}
	clone := make(Attributes, len(a))
	for name, values := range a {
		attr := make(map[string]string, len(values))
		for k, v := range values {
			attr[k] = v
		}
		clone[name] = attr
	}
	return clone
}

func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	return &Section{
		Properties:         s.Properties.Clone(),
		PropertyAttributes: s.PropertyAttributes.Clone(),
	}
}

// Get returns the section for the type or nil. Safe to call on a nil document.
func (d Document) Get(configType string) *Section {
	if d == nil {
		return nil
	}
	return d[configType]
}

// Has returns true if the configuration type is present.
func (d Document) Has(configType string) bool {
	return d.Get(configType) != nil
}

// Properties returns the properties of a type, nil if the type is not present.
func (d Document) Properties(configType string) Properties {
	if s := d.Get(configType); s != nil {
		return s.Properties
	}
	return nil
}

// Property looks up a single property value.
func (d Document) Property(configType, name string) (string, bool) {
	props := d.Properties(configType)
	if props == nil {
		return "", false
	}
	v, ok := props[name]
	return v, ok
}

// PropertyOrDefault looks up a property value and returns the default if not present.
func (d Document) PropertyOrDefault(configType, name, defaultValue string) string {
	if v, ok := d.Property(configType, name); ok {
		return v
	}
	return defaultValue
}

// Attribute looks up a property attribute value.
func (d Document) Attribute(configType, name, attribute string) (string, bool) {
	s := d.Get(configType)
	if s == nil || s.PropertyAttributes == nil {
		return "", false
	}
	v, ok := s.PropertyAttributes[name][attribute]
	return v, ok
}

// Ensure returns the section for the type, creating an empty section if needed.
func (d Document) Ensure(configType string) *Section {
	s := d[configType]
	if s == nil {
		s = &Section{}
		d[configType] = s
	}
	if s.Properties == nil {
		s.Properties = make(Properties)
	}
	return s
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	clone := make(Document, len(d))
	for k, s := range d {
		clone[k] = s.Clone()
	}
	return clone
}

// Overlay copies all properties and attributes from the other document over this one.
func (d Document) Overlay(other Document) {
	for configType, section := range other {
		if section == nil {
			continue
		}
		target := d.Ensure(configType)
		for k, v := range section.Properties {
			target.Properties[k] = v
		}
		for name, values := range section.PropertyAttributes {
			if target.PropertyAttributes == nil {
				target.PropertyAttributes = make(Attributes)
			}
			attr := target.PropertyAttributes[name]
			if attr == nil {
				attr = make(map[string]string, len(values))
				target.PropertyAttributes[name] = attr
			}
			for k, v := range values {
				attr[k] = v
			}
		}
	}
}

// Filter keeps only the listed properties and their attributes. Types that end up empty are removed.
func (d Document) Filter(keep func(configType, name string) bool) {
	for configType, section := range d {
		if section == nil {
			delete(d, configType)
			continue
		}
		for name := range section.Properties {
			if !keep(configType, name) {
				delete(section.Properties, name)
			}
		}
		for name := range section.PropertyAttributes {
			if !keep(configType, name) {
				delete(section.PropertyAttributes, name)
			}
		}
		if len(section.Properties) == 0 && len(section.PropertyAttributes) == 0 {
			delete(d, configType)
		}
	}
}
