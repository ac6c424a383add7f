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
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/apache/ambari-sub000/pkg/common"
	"github.com/apache/ambari-sub000/pkg/common/configs"
	"github.com/apache/ambari-sub000/pkg/dao"
	"github.com/apache/ambari-sub000/pkg/log"
	"github.com/apache/ambari-sub000/pkg/metrics"
)

// Advisor answers recommendation and validation requests. It holds no state between calls and can be used
// from multiple goroutines.
type Advisor struct {
	conf *configs.AdvisorConfig
}

// NewAdvisor creates an advisor. A nil configuration uses the default advisor configuration.
func NewAdvisor(conf *configs.AdvisorConfig) (*Advisor, error) {
	if conf == nil {
		var err error
		conf, err = configs.LoadAdvisorConfigFromByteArray([]byte(configs.DefaultAdvisorConfig))
		if err != nil {
			return nil, err
		}
	}
	return &Advisor{conf: conf}, nil
}

// Actions returns the names of all supported actions.
func Actions() []string {
	return []string{
		RecommendComponentLayout,
		ValidateComponentLayout,
		RecommendConfigurations,
		RecommendConfigurationDependency,
		ValidateConfigurations,
	}
}

// Run executes the action for the documents. The result is a *dao.RecommendationDAOInfo for recommend
// actions and a *dao.ValidationDAOInfo for validate actions.
func (a *Advisor) Run(action string, services *dao.ServicesDAOInfo, hosts *dao.HostsDAOInfo) (result interface{}, err error) {
	start := time.Now()
	defer func() {
		metrics.GetAdvisorMetrics().ObserveRequest(action, start, err)
	}()
	if !isAction(action) {
		return nil, fmt.Errorf("%w: %s", common.ErrUnknownAction, action)
	}
	ctx := NewContext(a.conf, action, services, hosts)
	switch action {
	case RecommendComponentLayout:
		result = ctx.RecommendComponentLayout()
	case ValidateComponentLayout:
		result = ctx.ValidateComponentLayout()
	case RecommendConfigurations:
		result = ctx.RecommendConfigurations()
	case RecommendConfigurationDependency:
		result = ctx.RecommendConfigurationDependencies()
	case ValidateConfigurations:
		result = ctx.ValidateConfigurations()
	}
	log.Log(log.Advisor).Info("advisor action finished",
		zap.String("action", action),
		zap.Duration("duration", time.Since(start)))
	return result, nil
}

// RunJSON decodes the documents, runs the action and encodes the result.
func (a *Advisor) RunJSON(action string, servicesJSON, hostsJSON []byte) ([]byte, error) {
	start := time.Now()
	services := &dao.ServicesDAOInfo{}
	if err := json.Unmarshal(servicesJSON, services); err != nil {
		log.Log(log.Advisor).Error("services document could not be decoded", zap.Error(err))
		err = fmt.Errorf("%w: %v", common.ErrInvalidServicesDocument, err)
		metrics.GetAdvisorMetrics().ObserveRequest(action, start, err)
		return nil, err
	}
	hosts := &dao.HostsDAOInfo{}
	if err := json.Unmarshal(hostsJSON, hosts); err != nil {
		log.Log(log.Advisor).Error("hosts document could not be decoded", zap.Error(err))
		err = fmt.Errorf("%w: %v", common.ErrInvalidHostsDocument, err)
		metrics.GetAdvisorMetrics().ObserveRequest(action, start, err)
		return nil, err
	}
	result, err := a.Run(action, services, hosts)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(result, "", "  ")
}

func isAction(action string) bool {
	for _, a := range Actions() {
		if a == action {
			return true
		}
	}
	return false
}
