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

package stack

import (
	"strings"

	"go.uber.org/zap"

	"github.com/apache/ambari-sub000/pkg/common/configs"
	"github.com/apache/ambari-sub000/pkg/dao"
	"github.com/apache/ambari-sub000/pkg/log"
)

const (
	ClusterEnv          = "cluster-env"
	MountsIgnoreListKey = "agent_mounts_ignore_list"
)

// ActiveHosts returns the names of all hosts that are not in maintenance mode, in input order.
func ActiveHosts(hosts *dao.HostsDAOInfo) []string {
	if hosts == nil {
		return nil
	}
	active := make([]string, 0, len(hosts.Items))
	for _, item := range hosts.Items {
		if item.Hosts.IsActive() {
			active = append(active, item.Hosts.HostName)
		}
	}
	return active
}

// FilterHostMounts returns a copy of the hosts document without the disks that must not be used:
// banned file system types, banned mount points and the mount points in the cluster-env ignore list.
// The input document is not changed.
func FilterHostMounts(hosts *dao.HostsDAOInfo, ignoreList string, mounts configs.MountConfig) *dao.HostsDAOInfo {
	if hosts == nil {
		return nil
	}
	ignored := make(map[string]bool)
	for _, mount := range mounts.BannedMountPoints {
		ignored[mount] = true
	}
	if trimmed := strings.TrimSpace(ignoreList); trimmed != "" {
		for _, mount := range strings.Split(trimmed, ",") {
			ignored[strings.TrimSpace(mount)] = true
		}
	}
	bannedFS := make(map[string]bool)
	for _, fs := range mounts.BannedFilesystems {
		bannedFS[strings.ToLower(fs)] = true
	}

	filtered := &dao.HostsDAOInfo{Items: make([]dao.HostItemDAOInfo, 0, len(hosts.Items))}
	for _, item := range hosts.Items {
		host := item.Hosts
		disks := make([]dao.DiskDAOInfo, 0, len(host.DiskInfo))
		for _, disk := range host.DiskInfo {
			if ignored[disk.MountPoint] || bannedFS[strings.ToLower(disk.Type)] {
				log.Log(log.Advisor).Debug("ignoring mount point",
					zap.String("host", host.HostName),
					zap.String("mountpoint", disk.MountPoint),
					zap.String("type", disk.Type))
				continue
			}
			disks = append(disks, disk)
		}
		host.DiskInfo = disks
		filtered.Items = append(filtered.Items, dao.HostItemDAOInfo{Hosts: host})
	}
	return filtered
}

// HostsWithNames returns the host entries for the given names, skipping unknown names.
func HostsWithNames(hosts *dao.HostsDAOInfo, names []string) []*dao.HostDAOInfo {
	result := make([]*dao.HostDAOInfo, 0, len(names))
	if hosts == nil {
		return result
	}
	for _, name := range names {
		if h := hosts.Host(name); h != nil {
			result = append(result, h)
		}
	}
	return result
}
