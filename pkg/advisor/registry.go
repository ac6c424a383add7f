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

package advisor

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/apache/ambari-sub000/pkg/common"
	"github.com/apache/ambari-sub000/pkg/dao"
	"github.com/apache/ambari-sub000/pkg/log"
	"github.com/apache/ambari-sub000/pkg/metrics"
)

// Factory creates a new service advisor.
type Factory func() (ServiceAdvisor, error)

type registry struct {
	factories map[string]Factory

	sync.RWMutex
}

var advisors = &registry{factories: make(map[string]Factory)}

var missingAdvisorLog = log.RateLimitedLog(log.Loader, time.Minute)

// RegisterServiceAdvisor makes a service advisor available under the name. Registering the same name twice
// replaces the earlier factory.
func RegisterServiceAdvisor(name string, factory Factory) {
	advisors.Lock()
	defer advisors.Unlock()
	if _, ok := advisors.factories[name]; ok {
		log.Log(log.Loader).Info("replacing registered service advisor",
			zap.String("name", name))
	}
	advisors.factories[name] = factory
}

// UnregisterServiceAdvisor removes a registered name.
func UnregisterServiceAdvisor(name string) {
	advisors.Lock()
	defer advisors.Unlock()
	delete(advisors.factories, name)
}

// RegisteredServiceAdvisors returns the sorted registered names.
func RegisteredServiceAdvisors() []string {
	advisors.RLock()
	defer advisors.RUnlock()
	return common.SortedKeys(advisors.factories)
}

func lookupFactory(name string) (Factory, bool) {
	advisors.RLock()
	defer advisors.RUnlock()
	f, ok := advisors.factories[name]
	return f, ok
}

// advisorPatterns caches the compiled name pattern per service type.
var advisorPatterns sync.Map

func advisorPattern(serviceType string) *regexp.Regexp {
	if p, ok := advisorPatterns.Load(serviceType); ok {
		return p.(*regexp.Regexp)
	}
	p, _ := advisorPatterns.LoadOrStore(serviceType,
		regexp.MustCompile("(?i)^"+regexp.QuoteMeta(serviceType)+".*ServiceAdvisor$"))
	return p.(*regexp.Regexp)
}

// findAdvisorName returns the registered name "<service>ServiceAdvisor" when present. Otherwise the first
// registered name, in sorted order, matching "<service>.*ServiceAdvisor" is used. Both compare without
// regard to case. The descriptor's advisor name is used when nothing matches.
func findAdvisorName(info dao.StackServiceDAOInfo, serviceType string) (string, bool) {
	names := RegisteredServiceAdvisors()
	exact := serviceType + "ServiceAdvisor"
	for _, name := range names {
		if strings.EqualFold(name, exact) {
			return name, true
		}
	}
	pattern := advisorPattern(serviceType)
	for _, name := range names {
		if pattern.MatchString(name) {
			return name, true
		}
	}
	if info.AdvisorName != "" {
		if _, ok := lookupFactory(info.AdvisorName); ok {
			return info.AdvisorName, true
		}
	}
	return "", false
}

// InstantiateServiceAdvisor creates the advisor for a service descriptor. A missing advisor, a failing
// factory or a panicking factory all return an error wrapping ErrNoAdvisor: the service is then handled
// with the default behaviour.
func InstantiateServiceAdvisor(info dao.StackServiceDAOInfo) (advisor ServiceAdvisor, err error) {
	serviceType := info.ServiceType
	if serviceType == "" {
		serviceType = info.ServiceName
	}
	name, ok := findAdvisorName(info, serviceType)
	if !ok {
		missingAdvisorLog.Info("no service advisor registered",
			zap.String("service", serviceType))
		return nil, fmt.Errorf("%w: service %s", common.ErrNoAdvisor, serviceType)
	}
	factory, _ := lookupFactory(name)
	defer func() {
		if r := recover(); r != nil {
			log.Log(log.Loader).Error("service advisor creation panicked",
				zap.String("service", serviceType),
				zap.String("advisor", name),
				zap.Any("panic", r))
			metrics.GetAdvisorMetrics().IncLoaderFailures()
			advisor = nil
			err = fmt.Errorf("%w: advisor %s panicked: %v", common.ErrNoAdvisor, name, r)
		}
	}()
	advisor, err = factory()
	if err == nil && advisor == nil {
		err = errors.New("factory returned no advisor")
	}
	if err != nil {
		log.Log(log.Loader).Error("failed to create service advisor",
			zap.String("service", serviceType),
			zap.String("advisor", name),
			zap.Error(err))
		metrics.GetAdvisorMetrics().IncLoaderFailures()
		return nil, fmt.Errorf("%w: advisor %s: %v", common.ErrNoAdvisor, name, err)
	}
	log.Log(log.Loader).Debug("service advisor created",
		zap.String("service", serviceType),
		zap.String("advisor", name))
	return advisor, nil
}

// sortedUnique is used to merge the lists of the configuration and all service advisors.
func sortedUnique(lists ...[]string) []string {
	var all []string
	for _, l := range lists {
		all = append(all, l...)
	}
	all = common.Unique(all)
	sort.Strings(all)
	return all
}
