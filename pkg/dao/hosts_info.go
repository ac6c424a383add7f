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

package dao

import (
	"bytes"
	"encoding/json"
	"strconv"
)

const MaintenanceOff = "OFF"

// HostsDAOInfo is the hosts input document.
type HostsDAOInfo struct {
	Items []HostItemDAOInfo `json:"items"`
}

type HostItemDAOInfo struct {
	Hosts HostDAOInfo `json:"Hosts"`
}

type HostDAOInfo struct {
	HostName         string        `json:"host_name"`
	PublicHostName   string        `json:"public_host_name,omitempty"`
	IP               string        `json:"ip,omitempty"`
	CPUCount         LenientInt    `json:"cpu_count"`
	TotalMem         LenientInt    `json:"total_mem"`
	OSType           string        `json:"os_type,omitempty"`
	RackInfo         string        `json:"rack_info,omitempty"`
	MaintenanceState string        `json:"maintenance_state,omitempty"`
	DiskInfo         []DiskDAOInfo `json:"disk_info,omitempty"`
}

// DiskDAOInfo is one mounted file system of a host. Sizes are in KB.
type DiskDAOInfo struct {
	MountPoint string     `json:"mountpoint"`
	Type       string     `json:"type,omitempty"`
	Device     string     `json:"device,omitempty"`
	Size       LenientInt `json:"size,omitempty"`
	Used       LenientInt `json:"used,omitempty"`
	Available  LenientInt `json:"available,omitempty"`
	Percent    string     `json:"percent,omitempty"`
}

// LenientInt accepts a JSON number or a string holding a number. Anything that does not parse is zero.
type LenientInt int64

func (l *LenientInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		data = []byte(s)
	}
	if v, err := strconv.ParseInt(string(data), 10, 64); err == nil {
		*l = LenientInt(v)
		return nil
	}
	if f, err := strconv.ParseFloat(string(data), 64); err == nil {
		*l = LenientInt(int64(f))
		return nil
	}
	*l = 0
	return nil
}

// HostNames returns the names of all hosts in input order.
func (h *HostsDAOInfo) HostNames() []string {
	names := make([]string, 0, len(h.Items))
	for _, item := range h.Items {
		names = append(names, item.Hosts.HostName)
	}
	return names
}

// Host returns the named host or nil.
func (h *HostsDAOInfo) Host(name string) *HostDAOInfo {
	for i := range h.Items {
		if h.Items[i].Hosts.HostName == name {
			return &h.Items[i].Hosts
		}
	}
	return nil
}

// IsActive returns true if the host is not in maintenance mode.
func (h *HostDAOInfo) IsActive() bool {
	return h.MaintenanceState == "" || h.MaintenanceState == MaintenanceOff
}
