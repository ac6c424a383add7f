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
	"fmt"
	"strconv"

	"github.com/apache/ambari-sub000/pkg/common"
	"github.com/apache/ambari-sub000/pkg/common/resources"
	"github.com/apache/ambari-sub000/pkg/configuration"
	"github.com/apache/ambari-sub000/pkg/dao"
)

// A rule returns nil when the property passes.

// NotEmpty checks that the property is set.
func NotEmpty(properties configuration.Properties, name string) *Item {
	if _, ok := properties[name]; !ok {
		return ErrorItem(common.ValueShouldBeSet)
	}
	return nil
}

// compareWithDefault is the shared preamble of the threshold rules. A property without a recommended default
// is skipped: the same name can exist in two configuration types.
func compareWithDefault(properties, defaults configuration.Properties, name string) (value, defaultValue int64, item *Item, ok bool) {
	recommended, exists := defaults[name]
	if !exists {
		return 0, 0, nil, false
	}
	raw, exists := properties[name]
	if !exists {
		return 0, 0, ErrorItem(common.ValueShouldBeSet), false
	}
	value, valid := common.ToNumber(raw)
	if !valid {
		return 0, 0, ErrorItem(common.ValueShouldBeInteger), false
	}
	defaultValue, valid = common.ToNumber(recommended)
	if !valid {
		return 0, 0, nil, false
	}
	return value, defaultValue, nil, true
}

// LessThanDefault warns when the value is below the recommended default.
func LessThanDefault(properties, defaults configuration.Properties, name string) *Item {
	value, defaultValue, item, ok := compareWithDefault(properties, defaults, name)
	if !ok {
		return item
	}
	if value < defaultValue {
		return WarnItem(fmt.Sprintf("Value is less than the recommended default of %d", defaultValue))
	}
	return nil
}

// GreaterThanDefault warns when the value is above the recommended default.
func GreaterThanDefault(properties, defaults configuration.Properties, name string) *Item {
	value, defaultValue, item, ok := compareWithDefault(properties, defaults, name)
	if !ok {
		return item
	}
	if value > defaultValue {
		return WarnItem(fmt.Sprintf("Value is greater than the recommended default of %d", defaultValue))
	}
	return nil
}

// EqualsProperty warns when two properties, possibly of different configuration types, differ.
func EqualsProperty(properties1 configuration.Properties, name1 string, properties2 configuration.Properties, name2 string, emptyAllowed bool) *Item {
	value1, ok := properties1[name1]
	if !ok {
		return ErrorItem("Value should be set for " + name1)
	}
	value2, ok := properties2[name2]
	if !ok {
		return ErrorItem("Value should be set for " + name2)
	}
	if !emptyAllowed {
		if value1 == "" {
			return ErrorItem("Empty value for " + name1)
		}
		if value2 == "" {
			return ErrorItem("Empty value for " + name2)
		}
	}
	if value1 != value2 {
		return WarnItem(fmt.Sprintf("It is recommended to set equal values for properties %s and %s", name1, name2))
	}
	return nil
}

// EqualsRecommended warns when the value differs from the recommendation.
func EqualsRecommended(properties, defaults configuration.Properties, name string) *Item {
	value, ok := properties[name]
	if !ok {
		return ErrorItem("Value should be set for " + name)
	}
	recommended, ok := defaults[name]
	if !ok {
		return ErrorItem("Value should be recommended for " + name)
	}
	if value != recommended {
		return WarnItem(fmt.Sprintf("It is recommended to set value %s for property %s", recommended, name))
	}
	return nil
}

// Xmx compares the -Xmx option of the value with the one of the recommended default.
// A default without -Xmx is not validated, a value without -Xmx when the default has one is an error.
func Xmx(properties, defaults configuration.Properties, name string) *Item {
	value, ok := properties[name]
	if !ok {
		return ErrorItem(common.ValueShouldBeSet)
	}
	recommended, ok := defaults[name]
	if !ok {
		return ErrorItem(common.DefaultValueNotDefined)
	}
	if !resources.HasXmx(recommended) {
		return nil
	}
	if !resources.HasXmx(value) {
		return ErrorItem(common.InvalidValueFormat)
	}
	valueBytes, err := resources.XmxBytes(value)
	if err != nil {
		return ErrorItem(common.InvalidValueFormat)
	}
	defaultBytes, err := resources.XmxBytes(recommended)
	if err != nil {
		return nil
	}
	if valueBytes < defaultBytes {
		size, _ := resources.GetXmxSize(recommended)
		return WarnItem("Value is less than the recommended default of -Xmx" + size)
	}
	return nil
}

// YarnQueue checks that the queue is a known leaf queue. Without known leaf queues nothing is checked.
func YarnQueue(properties configuration.Properties, name string, leafQueues []string) *Item {
	queue, ok := properties[name]
	if !ok {
		return ErrorItem(common.ValueShouldBeSet)
	}
	if len(leafQueues) == 0 {
		return nil
	}
	if !common.Contains(leafQueues, queue) {
		return ErrorItem(common.QueueDoesNotExist)
	}
	return nil
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// MinMax warns for every property whose value falls outside the "minimum" or "maximum" attribute of the
// recommendation. Values that are not numeric are skipped.
func MinMax(configurations, recommended configuration.Document) []dao.ValidationItemDAOInfo {
	var result []dao.ValidationItemDAOInfo
	for _, configType := range common.SortedKeys(configurations) {
		section := recommended.Get(configType)
		if section == nil || section.PropertyAttributes == nil {
			continue
		}
		props := configurations.Properties(configType)
		var items []PropertyItem
		for _, name := range common.SortedKeys(section.PropertyAttributes) {
			raw, ok := props[name]
			if !ok {
				continue
			}
			if _, ok = section.Properties[name]; !ok {
				continue
			}
			value, err := common.ConvertToNumber(raw)
			if err != nil {
				continue
			}
			attrs := section.PropertyAttributes[name]
			if maxRaw, ok := attrs["maximum"]; ok {
				if maxValue, err := common.ConvertToNumber(maxRaw); err == nil && value > maxValue {
					items = append(items, PropertyItem{ConfigName: name,
						Item: WarnItem(fmt.Sprintf("Value is greater than the recommended maximum of %s ", formatNumber(maxValue)))})
				}
			}
			if minRaw, ok := attrs["minimum"]; ok {
				if minValue, err := common.ConvertToNumber(minRaw); err == nil && value < minValue {
					items = append(items, PropertyItem{ConfigName: name,
						Item: WarnItem(fmt.Sprintf("Value is less than the recommended minimum of %s ", formatNumber(minValue)))})
				}
			}
		}
		result = append(result, ToConfigurationProblems(items, configType)...)
	}
	return result
}
