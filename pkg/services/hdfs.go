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

package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/apache/ambari-sub000/pkg/advisor"
	"github.com/apache/ambari-sub000/pkg/configuration"
	"github.com/apache/ambari-sub000/pkg/dao"
	"github.com/apache/ambari-sub000/pkg/stack"
	"github.com/apache/ambari-sub000/pkg/validation"
)

const (
	HadoopEnv = "hadoop-env"
	HDFSSite  = "hdfs-site"
	CoreSite  = advisor.CoreSite

	nameNodeHeap            = "namenode_heapsize"
	nameNodeNewSize         = "namenode_opt_newsize"
	nameNodeMaxNewSize      = "namenode_opt_maxnewsize"
	dfsNameServices         = "dfs.nameservices"
	dfsInternalNameServices = "dfs.internal.nameservices"
	dfsHANameNodesPrefix    = "dfs.ha.namenodes."
	dfsNameNodeRPCAddress   = "dfs.namenode.rpc-address"
	dfsNameNodeNameDir      = "dfs.namenode.name.dir"
	dfsCheckpointDir        = "dfs.namenode.checkpoint.dir"
	dfsDataNodeDataDir      = "dfs.datanode.data.dir"
	dfsDataNodeDuReserved   = "dfs.datanode.du.reserved"
	dfsHTTPPolicy           = "dfs.http.policy"
	dfsDataNodeAddress      = "dfs.datanode.address"
	dfsDataNodeHTTPAddress  = "dfs.datanode.http.address"
	dfsDataNodeHTTPSAddress = "dfs.datanode.https.address"
	dfsDataTransferProtect  = "dfs.data.transfer.protection"
	hadoopAuthentication    = "hadoop.security.authentication"
	hadoopAuthorization     = "hadoop.security.authorization"

	httpOnly  = "HTTP_ONLY"
	httpsOnly = "HTTPS_ONLY"

	nameNode          = "NAMENODE"
	secondaryNameNode = "SECONDARY_NAMENODE"
	dataNode          = "DATANODE"

	defaultDataDir     = "/hadoop/hdfs/data"
	minReservedBytes   = 1073741824
	privilegedPortsEnd = 1024
)

var hdfsMountProperties = []advisor.MountProperty{
	{Name: dfsDataNodeDataDir, Component: dataNode, Default: defaultDataDir, Policy: advisor.MultiMount},
	{Name: dfsNameNodeNameDir, Component: nameNode, Default: "/hadoop/hdfs/namenode", Policy: advisor.MultiMount},
	{Name: dfsCheckpointDir, Component: secondaryNameNode, Default: "/hadoop/hdfs/namesecondary", Policy: advisor.SingleMount},
}

var addressRegExp = regexp.MustCompile(`(?:http(?:s)?://)?([\w\d.]*):(\d{1,5})`)

// HDFSServiceAdvisor recommends the NameNode heap, data directories and the proxy users of the cluster.
type HDFSServiceAdvisor struct{}

func (h *HDFSServiceAdvisor) ServiceName() string {
	return "HDFS"
}

func (h *HDFSServiceAdvisor) RecommendConfigurations(ctx *advisor.Context, out configuration.Document, summary *advisor.ClusterSummary) {
	env := ctx.Writer(out, HadoopEnv)
	env.PutInt(nameNodeHeap, max64(summary.TotalAvailableRAM/2, 1024))
	env.PutInt(nameNodeNewSize, max64(summary.TotalAvailableRAM/8, 128))
	env.PutInt(nameNodeMaxNewSize, max64(summary.TotalAvailableRAM/8, 256))

	site := ctx.Writer(out, HDFSSite)
	if isNameNodeHA(ctx.UserConfigurations().Properties(HDFSSite)) {
		site.PutAttribute(dfsNameNodeRPCAddress, "delete", "true")
	}
	ctx.UpdateMountProperties(out, HDFSSite, hdfsMountProperties)
	dataDirs := strings.Split(ctx.ValueOrDefault(out, HDFSSite, dfsDataNodeDataDir, defaultDataDir), ",")
	if reserved := reservedDiskSpace(ctx.Hosts, dataDirs); reserved > 0 {
		site.PutInt(dfsDataNodeDuReserved, reserved)
	}
	ctx.RecommendHadoopProxyUsers(out)
}

// isNameNodeHA returns true when the name service has more than one NameNode.
func isNameNodeHA(hdfsSite configuration.Properties) bool {
	if hdfsSite == nil {
		return false
	}
	nameServices, ok := hdfsSite[dfsInternalNameServices]
	if !ok {
		nameServices, ok = hdfsSite[dfsNameServices]
	}
	if !ok || nameServices == "" {
		return false
	}
	nameNodes, ok := hdfsSite[dfsHANameNodesPrefix+nameServices]
	return ok && len(strings.Split(nameNodes, ",")) > 1
}

// reservedDiskSpace returns an eighth of the smallest data volume in bytes, at least 1GB. For each host the
// largest volume holding a data dir counts. Returns 0 if no host has a data volume.
func reservedDiskSpace(hosts *dao.HostsDAOInfo, dataDirs []string) int64 {
	var reserved int64
	for _, item := range hosts.Items {
		mountPoints := make([]string, 0, len(item.Hosts.DiskInfo))
		for _, disk := range item.Hosts.DiskInfo {
			mountPoints = append(mountPoints, disk.MountPoint)
		}
		var largest int64
		for _, dir := range dataDirs {
			mp, ok := stack.MountPointForDir(dir, mountPoints)
			if !ok {
				continue
			}
			for _, disk := range item.Hosts.DiskInfo {
				if disk.MountPoint == mp && int64(disk.Size) > largest {
					largest = int64(disk.Size)
				}
			}
		}
		if reserved == 0 || (largest > 0 && largest < reserved) {
			reserved = largest
		}
	}
	if reserved == 0 {
		return 0
	}
	return max64(reserved*1024/8, minReservedBytes)
}

func (h *HDFSServiceAdvisor) ValidateComponentLayout(ctx *advisor.Context, _ *advisor.ServiceInstance) []dao.ValidationItemDAOInfo {
	secondary := ctx.ComponentHosts(secondaryNameNode)
	var items []dao.ValidationItemDAOInfo
	for _, host := range ctx.ComponentHosts(nameNode) {
		for _, s := range secondary {
			if s != host {
				continue
			}
			message := "NameNode and Secondary NameNode cannot be hosted on same machine"
			items = append(items,
				validation.ComponentProblem(validation.Warn, message, nameNode, host),
				validation.ComponentProblem(validation.Warn, message, secondaryNameNode, host))
		}
	}
	return items
}

func (h *HDFSServiceAdvisor) ValidateConfigurations(_ *advisor.Context, configurations, recommended configuration.Document) []dao.ValidationItemDAOInfo {
	items := advisor.ValidateSites(configurations, recommended, map[string]advisor.SiteValidator{
		HadoopEnv: func(properties, defaults configuration.Properties, _ configuration.Document) []validation.PropertyItem {
			var problems validation.Problems
			problems.Add(nameNodeHeap, validation.LessThanDefault(properties, defaults, nameNodeHeap))
			problems.Add(nameNodeNewSize, validation.LessThanDefault(properties, defaults, nameNodeNewSize))
			problems.Add(nameNodeMaxNewSize, validation.LessThanDefault(properties, defaults, nameNodeMaxNewSize))
			return problems
		},
	})
	if hdfsSite := configurations.Properties(HDFSSite); hdfsSite != nil {
		items = append(items, validation.ToConfigurationProblems(validateSecurePorts(hdfsSite, configurations.Properties(CoreSite)), HDFSSite)...)
	}
	return items
}

// portOf returns the port of an address like "0.0.0.0:1019" or "https://host:50475".
func portOf(address string) (int, bool) {
	m := addressRegExp.FindStringSubmatch(address)
	if m == nil {
		return 0, false
	}
	port, err := strconv.Atoi(m[2])
	return port, err == nil
}

func isSecurePort(port int) bool {
	return port < privilegedPortsEnd
}

// validateSecurePorts checks the DataNode ports of a kerberized cluster against the http policy.
// With HTTPS_ONLY a DataNode on a non secure port needs a non secure https port and data transfer protection.
// Other policies need secure ports.
func validateSecurePorts(hdfsSite, coreSite configuration.Properties) []validation.PropertyItem {
	if coreSite == nil || coreSite[hadoopAuthentication] != "kerberos" || coreSite[hadoopAuthorization] != "true" {
		return nil
	}
	policy := hdfsSite[dfsHTTPPolicy]
	if policy == "" {
		policy = httpOnly
	}
	address, ok := hdfsSite[dfsDataNodeAddress]
	if !ok {
		return nil
	}
	dataNodePort, ok := portOf(address)
	if !ok {
		return nil
	}
	var problems validation.Problems
	if policy == httpsOnly {
		if isSecurePort(dataNodePort) {
			return nil
		}
		httpsPort, hasHTTPS := portOf(hdfsSite[dfsDataNodeHTTPSAddress])
		if !hasHTTPS || isSecurePort(httpsPort) {
			important := []string{dfsDataNodeAddress, dfsDataNodeHTTPSAddress}
			message := fmt.Sprintf("You set up datanode to use some non-secure ports. If you want to run Datanode under "+
				"non-root user in a secure cluster, you should set all these properties [%s] to use non-secure ports "+
				"(if property %s does not exist, just add it). You may also set up property %s ('authentication' is a "+
				"good default value). Also, set up WebHDFS with SSL as described in manual in order to be able to use HTTPS.",
				strings.Join(important, ", "), dfsDataNodeHTTPSAddress, dfsDataTransferProtect)
			for _, name := range important {
				problems.Add(name, validation.WarnItem(message))
			}
			return problems
		}
		if _, ok = hdfsSite[dfsDataTransferProtect]; !ok {
			problems.Add(dfsDataTransferProtect, validation.WarnItem(fmt.Sprintf(
				"%s property should be set to run Datanode on non-secure ports in a secure cluster", dfsDataTransferProtect)))
		}
		return problems
	}
	var insecure []string
	if !isSecurePort(dataNodePort) {
		insecure = append(insecure, dfsDataNodeAddress)
	}
	if port, ok := portOf(hdfsSite[dfsDataNodeHTTPAddress]); ok && !isSecurePort(port) {
		insecure = append(insecure, dfsDataNodeHTTPAddress)
	}
	for _, name := range insecure {
		problems.Add(name, validation.WarnItem(fmt.Sprintf("You have set up datanode to use some non-secure ports, but "+
			"%s is set to %s. In a secure cluster, Datanode forbids using non-secure ports if %s is not set to %s. "+
			"Please make sure that properties [%s] use secure ports.",
			dfsHTTPPolicy, policy, dfsHTTPPolicy, httpsOnly, strings.Join(insecure, ", "))))
	}
	return problems
}
