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

package main

import (
	"os"

	"github.com/apache/ambari-sub000/pkg/log"
	_ "github.com/apache/ambari-sub000/pkg/services"
)

/*
A utility command to run the stack advisor actions on services and hosts documents,
and to check an advisor configuration file.
*/
func main() {
	if err := newRootCommand().Execute(); err != nil {
		log.Log(log.CLI).Sugar().Error(err)
		os.Exit(1)
	}
}
