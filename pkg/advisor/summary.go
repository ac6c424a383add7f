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
	"math"

	"go.uber.org/zap"

	"github.com/apache/ambari-sub000/pkg/common"
	"github.com/apache/ambari-sub000/pkg/dao"
	"github.com/apache/ambari-sub000/pkg/log"
)

const (
	YarnSite                  = "yarn-site"
	YarnMinAllocationProperty = "yarn.scheduler.minimum-allocation-mb"

	nodeManager = "NODEMANAGER"
	minTotalRAM = 512
	minContains = 3
)

// ClusterSummary is the capacity of the reference host used to size YARN containers. Memory is in MB
// except RAM which is in GB.
type ClusterSummary struct {
	CPU                  int64
	RAM                  int64
	Disk                 int64
	ReservedRAM          int64
	HBaseRAM             int64
	MinContainerSize     int64
	TotalAvailableRAM    int64
	Containers           int64
	RAMPerContainer      int64
	YarnMinContainerSize int64
	MapMemory            int64
	ReduceMemory         int64
	AMMemory             int64
	// ReferenceHost is the host the numbers are based on, nil if there are no hosts.
	ReferenceHost *dao.HostDAOInfo
	// ReferenceNodeManagerHost is set when the reference host was chosen among the NodeManager hosts.
	ReferenceNodeManagerHost *dao.HostDAOInfo
}

// reserved memory in GB for the OS and HBase, per upper bound of the host memory in GB
type reservation struct {
	ramUpTo int64
	os      int64
	hbase   int64
}

var reservations = []reservation{
	{ramUpTo: 4, os: 1, hbase: 1},
	{ramUpTo: 8, os: 2, hbase: 1},
	{ramUpTo: 16, os: 2, hbase: 2},
	{ramUpTo: 24, os: 4, hbase: 4},
	{ramUpTo: 48, os: 6, hbase: 8},
	{ramUpTo: 64, os: 8, hbase: 8},
	{ramUpTo: 72, os: 8, hbase: 8},
	{ramUpTo: 96, os: 12, hbase: 16},
	{ramUpTo: 128, os: 24, hbase: 24},
	{ramUpTo: 256, os: 32, hbase: 32},
}

var largestReservation = reservation{os: 64, hbase: 32}

func reservationFor(ram int64) reservation {
	for _, r := range reservations {
		if ram <= r.ramUpTo {
			return r
		}
	}
	return largestReservation
}

// minimum container size in MB for the host memory in GB
func minContainerSizeFor(ram int64) int64 {
	switch {
	case ram <= 3:
		return 128
	case ram <= 4:
		return 256
	case ram <= 8:
		return 512
	case ram <= 24:
		return 1024
	default:
		return 2048
	}
}

// referenceHost returns the host with the least memory per NodeManager instance. Hosts are checked in
// input order, the first host wins a tie. Without NodeManager hosts the first host is used.
func (ctx *Context) referenceHost() (host *dao.HostDAOInfo, isNodeManager bool) {
	counts := make(map[string]int)
	for _, si := range ctx.Instances {
		c := si.Component(nodeManager)
		if c == nil {
			continue
		}
		for _, h := range c.StackServiceComponents.Hostnames {
			counts[h]++
		}
	}
	best := math.MaxFloat64
	for i := range ctx.Hosts.Items {
		h := &ctx.Hosts.Items[i].Hosts
		count, ok := counts[h.HostName]
		if !ok {
			continue
		}
		perInstance := float64(h.TotalMem) / float64(count)
		if perInstance < best {
			best = perInstance
			host = h
		}
	}
	if host != nil {
		return host, true
	}
	if len(ctx.Hosts.Items) > 0 {
		return &ctx.Hosts.Items[0].Hosts, false
	}
	return nil, false
}

// userMinContainerSize returns the minimum allocation supplied by the user when it must be honored:
// a number, changed in this request or validated, and not part of a cluster creation or YARN install.
func (ctx *Context) userMinContainerSize() (int64, bool) {
	value, ok := ctx.Services.Configurations.Property(YarnSite, YarnMinAllocationProperty)
	if !ok || value == "" {
		return 0, false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	if ctx.CallType == RecommendConfigurations && !ctx.IsChanged(YarnSite, YarnMinAllocationProperty) {
		return 0, false
	}
	if ctx.Operation() == OperationClusterCreate || ctx.IsServiceBeingAdded("YARN") {
		return 0, false
	}
	size := int64(common.ParseInt(value, 0))
	return size, size > 0
}

// ClusterSummary computes the container sizing for the cluster from the reference host.
func (ctx *Context) ClusterSummary() *ClusterSummary {
	summary := &ClusterSummary{}
	host, isNodeManager := ctx.referenceHost()
	if host != nil {
		summary.ReferenceHost = host
		if isNodeManager {
			summary.ReferenceNodeManagerHost = host
		}
		summary.CPU = int64(host.CPUCount)
		summary.Disk = int64(len(host.DiskInfo))
		summary.RAM = int64(host.TotalMem) / (1024 * 1024)
	}

	r := reservationFor(summary.RAM)
	summary.ReservedRAM = r.os
	summary.HBaseRAM = r.hbase
	summary.MinContainerSize = minContainerSizeFor(summary.RAM)

	available := summary.RAM - summary.ReservedRAM
	if ctx.IsServiceInstalled("HBASE") {
		available -= summary.HBaseRAM
	}
	summary.TotalAvailableRAM = available * 1024
	if summary.TotalAvailableRAM < minTotalRAM {
		summary.TotalAvailableRAM = minTotalRAM
	}

	if userMin, ok := ctx.userMinContainerSize(); ok {
		if userMin > summary.TotalAvailableRAM {
			userMin = summary.TotalAvailableRAM
		}
		summary.YarnMinContainerSize = userMin
		summary.MinContainerSize = userMin
	} else {
		summary.YarnMinContainerSize = summary.MinContainerSize
	}

	summary.Containers = containerCount(summary.CPU, summary.Disk, summary.TotalAvailableRAM, summary.MinContainerSize)
	summary.RAMPerContainer = ramPerContainer(summary.TotalAvailableRAM, summary.Containers, summary.YarnMinContainerSize)
	summary.MapMemory = summary.RAMPerContainer
	summary.ReduceMemory = summary.RAMPerContainer
	summary.AMMemory = summary.RAMPerContainer

	log.Log(log.Recommend).Debug("cluster summary computed",
		zap.Int64("cpu", summary.CPU),
		zap.Int64("ramGB", summary.RAM),
		zap.Int64("disks", summary.Disk),
		zap.Int64("totalAvailableRamMB", summary.TotalAvailableRAM),
		zap.Int64("containers", summary.Containers),
		zap.Int64("ramPerContainerMB", summary.RAMPerContainer),
		zap.Int64("minContainerSizeMB", summary.MinContainerSize))
	return summary
}

// containerCount is max(3, min(2*cpu, ceil(1.8*disk), total/min)), lowered when the containers do not fit.
func containerCount(cpu, disk, total, minSize int64) int64 {
	if minSize <= 0 {
		minSize = 1
	}
	diskBound := int64(math.Ceil(1.8 * float64(disk)))
	containers := minInt64(2*cpu, minInt64(diskBound, total/minSize))
	if containers < minContains {
		containers = minContains
	}
	if containers*minSize > total {
		containers = total / minSize
		if containers < 1 {
			containers = 1
		}
	}
	return containers
}

// ramPerContainer divides the memory over the containers and rounds down to a multiple of the minimum size.
func ramPerContainer(total, containers, yarnMin int64) int64 {
	if containers <= 0 {
		containers = 1
	}
	perContainer := total / containers
	if yarnMin > 0 && perContainer > yarnMin {
		perContainer = (perContainer / yarnMin) * yarnMin
	}
	return perContainer
}

func minInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
