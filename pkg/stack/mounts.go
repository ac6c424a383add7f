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
	"path"
	"sort"
	"strings"

	"github.com/apache/ambari-sub000/pkg/dao"
)

const rootMount = "/"

var undesirableMountPoints = map[string]bool{"/": true, "/home": true}
var undesirableFsTypes = map[string]bool{"devtmpfs": true, "tmpfs": true, "vboxsf": true, "CDFS": true}

// PreferredMountPoints returns the usable mount points of a host ordered on available space, largest first.
// The root mount is always the last entry.
func PreferredMountPoints(host *dao.HostDAOInfo) []string {
	type mount struct {
		name      string
		available int64
	}
	var mounts []mount
	if host != nil {
		seen := make(map[string]bool)
		for _, disk := range host.DiskInfo {
			if undesirableMountPoints[disk.MountPoint] ||
				strings.HasPrefix(disk.MountPoint, "/boot") ||
				strings.HasPrefix(disk.MountPoint, "/mnt") ||
				undesirableFsTypes[disk.Type] ||
				disk.Available == 0 || seen[disk.MountPoint] {
				continue
			}
			seen[disk.MountPoint] = true
			mounts = append(mounts, mount{name: disk.MountPoint, available: int64(disk.Available)})
		}
	}
	sort.SliceStable(mounts, func(i, j int) bool {
		if mounts[i].available == mounts[j].available {
			return mounts[i].name < mounts[j].name
		}
		return mounts[i].available > mounts[j].available
	})
	result := make([]string, 0, len(mounts)+1)
	for _, m := range mounts {
		result = append(result, m.name)
	}
	return append(result, rootMount)
}

func withSlash(p string) string {
	if strings.HasSuffix(p, "/") {
		return p
	}
	return p + "/"
}

// MountPointForDir returns the mount point the directory is on: the matching mount with the most path segments.
// A "file://" prefix is ignored, "/hadoop" does not match "/hadoop1". Returns false if nothing matches.
func MountPointForDir(dir string, mountPoints []string) (string, bool) {
	dir = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(dir, "file://")))
	if dir == "" {
		return "", false
	}
	dir = withSlash(dir)
	best := ""
	found := false
	for _, mp := range mountPoints {
		if !strings.HasPrefix(dir, withSlash(mp)) {
			continue
		}
		if !found || strings.Count(withSlash(best), "/") < strings.Count(withSlash(mp), "/") {
			best = mp
			found = true
		}
	}
	return best, found
}

// SameHostMounts returns the sorted preferred mount points present on every given host.
func SameHostMounts(hosts []*dao.HostDAOInfo) []string {
	if len(hosts) == 0 {
		return nil
	}
	var common map[string]bool
	for _, h := range hosts {
		preferred := PreferredMountPoints(h)
		mounts := make(map[string]bool, len(preferred))
		for _, mp := range preferred {
			if common == nil || common[mp] {
				mounts[mp] = true
			}
		}
		common = mounts
	}
	result := make([]string, 0, len(common))
	for m := range common {
		result = append(result, m)
	}
	sort.Strings(result)
	return result
}

// MountPathVariations returns the directory relocated onto each mount point shared by all hosts.
// The root mount keeps the directory as is and comes last.
func MountPathVariations(dir string, hosts []*dao.HostDAOInfo) []string {
	if dir == "" {
		return nil
	}
	var variations []string
	seen := make(map[string]bool)
	hasRoot := false
	for _, mount := range SameHostMounts(hosts) {
		if mount == rootMount {
			hasRoot = true
			continue
		}
		variation := path.Join(withSlash(mount), strings.TrimLeft(dir, "/"))
		if !seen[variation] {
			seen[variation] = true
			variations = append(variations, variation)
		}
	}
	if hasRoot && !seen[dir] {
		variations = append(variations, dir)
	}
	return variations
}
