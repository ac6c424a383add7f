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

package common

import "errors"

var (
	// ErrUnknownAction returned when the advisor is asked to run an action it does not know
	ErrUnknownAction = errors.New("unknown advisor action")
	// ErrInvalidServicesDocument returned when the services document cannot be decoded
	ErrInvalidServicesDocument = errors.New("invalid services document")
	// ErrInvalidHostsDocument returned when the hosts document cannot be decoded
	ErrInvalidHostsDocument = errors.New("invalid hosts document")
	// ErrUnsupportedJDBCDriver returned for a database type that has no known JDBC driver
	ErrUnsupportedJDBCDriver = errors.New("unsupported JDBC driver")
	// ErrNoAdvisor returned by the loader when no service advisor could be found or created
	ErrNoAdvisor = errors.New("no service advisor")
)

// Constant messages for validation items
const (
	ValueShouldBeSet       = "Value should be set"
	ValueShouldBeInteger   = "Value should be integer"
	InvalidValueFormat     = "Invalid value format"
	HostNotUsed            = "Host is not used"
	QueueDoesNotExist      = "Queue is not exist or not corresponds to existing YARN leaf queue"
	DefaultValueNotDefined = "Config's default value can't be null or undefined"
)
