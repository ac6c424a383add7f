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
	"github.com/apache/ambari-sub000/pkg/dao"
)

// Level of a validation finding. ERROR items block a deployment, WARN items are advisory.
type Level string

const (
	Warn          Level = "WARN"
	Error         Level = "ERROR"
	NotApplicable Level = "NOT_APPLICABLE"
)

// Types of validation items in the response
const (
	TypeHostComponent = "host-component"
	TypeConfiguration = "configuration"
)

// Item is a single finding without a location.
type Item struct {
	Level   Level
	Message string
}

// PropertyItem links a finding to a property of the configuration type being validated.
type PropertyItem struct {
	ConfigName string
	Item       *Item
}

func WarnItem(message string) *Item {
	return &Item{Level: Warn, Message: message}
}

func ErrorItem(message string) *Item {
	return &Item{Level: Error, Message: message}
}

func NotApplicableItem(message string) *Item {
	return &Item{Level: NotApplicable, Message: message}
}

// Problems collects property findings, dropping the nil results of rules that passed.
type Problems []PropertyItem

// Add records the result of a rule for a property. A nil item is ignored.
func (p *Problems) Add(configName string, item *Item) {
	if item == nil {
		return
	}
	*p = append(*p, PropertyItem{ConfigName: configName, Item: item})
}

// ToConfigurationProblems converts property findings into response items for the configuration type.
func ToConfigurationProblems(items []PropertyItem, configType string) []dao.ValidationItemDAOInfo {
	result := make([]dao.ValidationItemDAOInfo, 0, len(items))
	for _, item := range items {
		if item.Item == nil {
			continue
		}
		result = append(result, dao.ValidationItemDAOInfo{
			Type:       TypeConfiguration,
			Level:      string(item.Item.Level),
			Message:    item.Item.Message,
			ConfigType: configType,
			ConfigName: item.ConfigName,
		})
	}
	return result
}

// ComponentProblem creates a layout finding for a component.
func ComponentProblem(level Level, message, componentName, host string) dao.ValidationItemDAOInfo {
	return dao.ValidationItemDAOInfo{
		Type:          TypeHostComponent,
		Level:         string(level),
		Message:       message,
		ComponentName: componentName,
		Host:          host,
	}
}
