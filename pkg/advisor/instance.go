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
	"github.com/apache/ambari-sub000/pkg/dao"
)

// ServiceInstance is one occurrence of a stack service within an mpack instance.
// Instances are built once per invocation and not changed afterwards.
type ServiceInstance struct {
	Name         string
	Type         string
	Version      string
	MpackName    string
	MpackVersion string
	Service      *dao.ServiceDAOInfo
	Advisor      ServiceAdvisor
}

// MpackInstance groups the service instances of one mpack.
type MpackInstance struct {
	Name      string
	Version   string
	Instances []*ServiceInstance
}

func newServiceInstance(service *dao.ServiceDAOInfo) *ServiceInstance {
	info := service.StackServices
	serviceType := info.ServiceType
	if serviceType == "" {
		serviceType = info.ServiceName
	}
	return &ServiceInstance{
		Name:         info.ServiceName,
		Type:         serviceType,
		Version:      info.ServiceVersion,
		MpackName:    info.StackName,
		MpackVersion: info.StackVersion,
		Service:      service,
	}
}

// Key identifies the instance: mpack name and service name joined by "+".
func (si *ServiceInstance) Key() string {
	return si.MpackName + "+" + si.Name
}

// Components returns the component descriptors of the instance.
func (si *ServiceInstance) Components() []dao.ComponentDAOInfo {
	if si.Service == nil {
		return nil
	}
	return si.Service.Components
}

// Component returns the named component or nil.
func (si *ServiceInstance) Component(name string) *dao.ComponentDAOInfo {
	if si.Service == nil {
		return nil
	}
	return si.Service.Component(name)
}

// HasComponent returns true if the instance carries the component.
func (si *ServiceInstance) HasComponent(name string) bool {
	return si.Component(name) != nil
}

// reference used in layout output
func (si *ServiceInstance) componentRef(component string) dao.HostGroupComponentDAOInfo {
	return dao.HostGroupComponentDAOInfo{
		Name:            component,
		MpackInstance:   si.MpackName,
		ServiceInstance: si.Name,
	}
}
