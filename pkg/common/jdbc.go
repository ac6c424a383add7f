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

import (
	"fmt"
	"strings"
)

type databaseInfo struct {
	driver     string
	connection string
	alias      string
}

// keyed on the upper case database selection shown in the UI
var databases = map[string]databaseInfo{
	"NEW MYSQL DATABASE":                {driver: "com.mysql.jdbc.Driver", connection: "jdbc:mysql://%s/%s?createDatabaseIfNotExist=true", alias: "mysql"},
	"NEW DERBY DATABASE":                {driver: "org.apache.derby.jdbc.EmbeddedDriver", connection: "jdbc:derby:${oozie.data.dir}/${oozie.db.schema.name}-db;create=true", alias: "derby"},
	"EXISTING MYSQL DATABASE":           {driver: "com.mysql.jdbc.Driver", connection: "jdbc:mysql://%s/%s", alias: "mysql"},
	"EXISTING MYSQL / MARIADB DATABASE": {driver: "com.mysql.jdbc.Driver", connection: "jdbc:mysql://%s/%s", alias: "mysql"},
	"EXISTING POSTGRESQL DATABASE":      {driver: "org.postgresql.Driver", connection: "jdbc:postgresql://%s:5432/%s", alias: "postgres"},
	"EXISTING ORACLE DATABASE":          {driver: "oracle.jdbc.driver.OracleDriver", connection: "jdbc:oracle:thin:@//%s:1521/%s", alias: "oracle"},
	"EXISTING SQL ANYWHERE DATABASE":    {driver: "sap.jdbc4.sqlanywhere.IDriver", connection: "jdbc:sqlanywhere:host=%s;database=%s", alias: "sqla"},
}

func lookupDatabase(databaseType string) (databaseInfo, error) {
	info, ok := databases[strings.ToUpper(strings.TrimSpace(databaseType))]
	if !ok {
		return databaseInfo{}, fmt.Errorf("%w: %s", ErrUnsupportedJDBCDriver, databaseType)
	}
	return info, nil
}

// JDBCDriver returns the driver class for the database selection.
func JDBCDriver(databaseType string) (string, error) {
	info, err := lookupDatabase(databaseType)
	return info.driver, err
}

// JDBCConnectionString returns the connection url for the database selection on the given host and schema.
// The embedded derby url does not use host or schema.
func JDBCConnectionString(databaseType, host, schema string) (string, error) {
	info, err := lookupDatabase(databaseType)
	if err != nil {
		return "", err
	}
	if !strings.Contains(info.connection, "%s") {
		return info.connection, nil
	}
	return fmt.Sprintf(info.connection, host, schema), nil
}

// DatabaseTypeAlias returns the short database type used in the env configuration.
func DatabaseTypeAlias(databaseType string) (string, error) {
	info, err := lookupDatabase(databaseType)
	return info.alias, err
}
