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

package configs

import (
	"fmt"
	"regexp"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/apache/ambari-sub000/pkg/common"
	"github.com/apache/ambari-sub000/pkg/log"
)

// Stack component names are upper case identifiers.
var ComponentNameRegExp = regexp.MustCompile("^[A-Z][A-Z0-9_]*$")

func checkComponentNames(section string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if !ComponentNameRegExp.MatchString(name) {
			return fmt.Errorf("invalid component name '%s' in %s", name, section)
		}
		if seen[name] {
			return fmt.Errorf("duplicate component name '%s' in %s", name, section)
		}
		seen[name] = true
	}
	return nil
}

// Check the cardinality overrides: names and expressions must be valid
func checkCardinalities(cardinalities map[string]string) error {
	for name, cardinality := range cardinalities {
		if !ComponentNameRegExp.MatchString(name) {
			return fmt.Errorf("invalid component name '%s' in cardinalities", name)
		}
		// a host count of 1 is enough to check the syntax
		if _, _, ok := common.ParseCardinality(cardinality, 1); !ok {
			return fmt.Errorf("invalid cardinality '%s' for component %s", cardinality, name)
		}
	}
	return nil
}

// Check the layout schemes: one per component, thresholds positive and strictly increasing, no negative index
func checkSchemes(schemes []LayoutScheme) error {
	seen := make(map[string]bool, len(schemes))
	for _, scheme := range schemes {
		if !ComponentNameRegExp.MatchString(scheme.Component) {
			return fmt.Errorf("invalid component name '%s' in layout schemes", scheme.Component)
		}
		if seen[scheme.Component] {
			return fmt.Errorf("duplicate layout scheme for component %s", scheme.Component)
		}
		seen[scheme.Component] = true
		if scheme.Else < 0 {
			return fmt.Errorf("negative else index %d in layout scheme for %s", scheme.Else, scheme.Component)
		}
		last := 0
		for _, t := range scheme.Thresholds {
			if t.Hosts <= last {
				return fmt.Errorf("layout scheme thresholds for %s must be positive and increasing: %d after %d",
					scheme.Component, t.Hosts, last)
			}
			if t.Index < 0 {
				return fmt.Errorf("negative index %d in layout scheme for %s", t.Index, scheme.Component)
			}
			last = t.Hosts
		}
	}
	return nil
}

// Check the log levels: the handle must exist and the level must parse
func checkLogLevels(levels map[string]string) error {
	for name, level := range levels {
		if !log.IsHandleName(name) {
			return fmt.Errorf("unknown logger name '%s'", name)
		}
		if _, err := zapcore.ParseLevel(level); err != nil {
			return fmt.Errorf("invalid log level '%s' for logger %s: %v", level, name, err)
		}
	}
	return nil
}

func checkMounts(mounts MountConfig) error {
	for _, mount := range mounts.BannedMountPoints {
		if len(mount) == 0 || mount[0] != '/' {
			return fmt.Errorf("banned mount point must be an absolute path: '%s'", mount)
		}
	}
	for _, fs := range mounts.BannedFilesystems {
		if fs == "" {
			return fmt.Errorf("empty banned file system type")
		}
	}
	return nil
}

// Validate the advisor configuration.
func Validate(conf *AdvisorConfig) error {
	if conf == nil {
		return fmt.Errorf("advisor config is not set")
	}
	log.Log(log.Config).Debug("validating advisor config")
	if err := checkMounts(conf.Mounts); err != nil {
		return err
	}
	layout := conf.Layout
	if err := checkComponentNames("not valuable components", layout.NotValuableComponents); err != nil {
		return err
	}
	if err := checkComponentNames("not preferable on server", layout.NotPreferableOnServer); err != nil {
		return err
	}
	if err := checkComponentNames("masters with multiple instances", layout.MastersWithMultipleInstances); err != nil {
		return err
	}
	if err := checkComponentNames("cardinality for layout", layout.CardinalityForLayout); err != nil {
		return err
	}
	if err := checkCardinalities(layout.Cardinalities); err != nil {
		return err
	}
	if err := checkSchemes(layout.Schemes); err != nil {
		return err
	}
	if err := checkLogLevels(conf.Log.Levels); err != nil {
		return err
	}
	log.Log(log.Config).Debug("advisor config validated",
		zap.Int("schemes", len(layout.Schemes)))
	return nil
}
