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

package log

import (
	"fmt"
	"reflect"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerHandle identifies a named sub logger of the advisor.
type LoggerHandle struct {
	id   int
	name string
}

func (h *LoggerHandle) String() string {
	return h.name
}

// Defined loggers: when adding new loggers, ids must be sequential, and all must be added to the loggers slice
// in the same order.
var (
	Advisor   = &LoggerHandle{id: 0, name: "advisor"}
	Layout    = &LoggerHandle{id: 1, name: "advisor.layout"}
	Recommend = &LoggerHandle{id: 2, name: "advisor.recommend"}
	Validate  = &LoggerHandle{id: 3, name: "advisor.validate"}
	Loader    = &LoggerHandle{id: 4, name: "advisor.loader"}
	Config    = &LoggerHandle{id: 5, name: "config"}
	Metrics   = &LoggerHandle{id: 6, name: "metrics"}
	CLI       = &LoggerHandle{id: 7, name: "cli"}
)

var loggers = []*LoggerHandle{Advisor, Layout, Recommend, Validate, Loader, Config, Metrics, CLI}

var once sync.Once
var logger *zap.Logger
var config *zap.Config
var aLevel *zap.AtomicLevel

var handleLock sync.RWMutex
var handleLoggers = make([]*zap.Logger, len(loggers))
var handleLevels = make(map[string]zapcore.Level)

// Logger returns the root logger, creating it if no global zap logger has been installed.
func Logger() *zap.Logger {
	once.Do(func() {
		if logger = zap.L(); isNopLogger(logger) {
			// If a global logger is not found the advisor runs standalone (command line or tests).
			// In this case we need to create our own logger.
			config = createConfig()
			var err error
			logger, err = config.Build()
			// this should really not happen so just write to stdout and set a Nop logger
			if err != nil {
				fmt.Printf("Logging disabled, logger init failed with error: %v\n", err)
				logger = zap.NewNop()
			}
		}
	})
	return logger
}

// Log returns the named logger for the handle. Loggers are cached per handle and rebuilt when the
// level for the handle changes.
func Log(handle *LoggerHandle) *zap.Logger {
	if handle == nil || handle.id < 0 || handle.id >= len(loggers) {
		return Logger()
	}
	handleLock.RLock()
	cached := handleLoggers[handle.id]
	handleLock.RUnlock()
	if cached != nil {
		return cached
	}
	handleLock.Lock()
	defer handleLock.Unlock()
	if handleLoggers[handle.id] == nil {
		handleLoggers[handle.id] = createHandleLogger(handle)
	}
	return handleLoggers[handle.id]
}

// must be called with the handleLock held
func createHandleLogger(handle *LoggerHandle) *zap.Logger {
	root := logger
	if root == nil {
		root = Logger()
	}
	named := root.Named(handle.name)
	level, ok := handleLevels[handle.name]
	if !ok {
		return named
	}
	return named.WithOptions(zap.WrapCore(func(inner zapcore.Core) zapcore.Core {
		return filteredCore{level: level, inner: inner}
	}))
}

// SetHandleLevel sets the minimum level a named logger will write. The handle is identified by name to allow
// configuration files to set levels.
func SetHandleLevel(name string, level zapcore.Level) error {
	for _, handle := range loggers {
		if handle.name != name {
			continue
		}
		handleLock.Lock()
		defer handleLock.Unlock()
		handleLevels[name] = level
		handleLoggers[handle.id] = nil
		return nil
	}
	return fmt.Errorf("unknown logger name: %s", name)
}

// IsHandleName returns true if the name belongs to a defined logger handle.
func IsHandleName(name string) bool {
	for _, handle := range loggers {
		if handle.name == name {
			return true
		}
	}
	return false
}

func IsDebugEnabled() bool {
	if logger == nil {
		// when under development mode
		return true
	}
	return logger.Core().Enabled(zapcore.DebugLevel)
}

// Returns true if the logger is a noop.
// Logger is a noop means the logger has not been initialized yet.
// This usually means a global logger is not set in the given context,
// see more at zap.ReplaceGlobals(). If the embedding server presets a global
// logger the advisor simply reuses it.
func isNopLogger(logger *zap.Logger) bool {
	return reflect.DeepEqual(zap.NewNop(), logger)
}

// Visible by tests
func InitAndSetLevel(level zapcore.Level) {
	if config == nil {
		Logger()
	}
	if config != nil {
		config.Level.SetLevel(level)
	}
}

func GetAtomicLevel() *zap.AtomicLevel {
	return aLevel
}

// Create a log config to keep full control over
// LogLevel set to DEBUG, Encodes for console, Writes to stderr,
// Enables development mode (DPanicLevel),
// Print stack traces for messages at WarnLevel and above
func createConfig() *zap.Config {
	atomicLevel := zap.NewAtomicLevelAt(zap.DebugLevel)
	aLevel = &atomicLevel

	return &zap.Config{
		Level:       atomicLevel,
		Development: true,
		Encoding:    "console",
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:    "message",
			LevelKey:      "level",
			TimeKey:       "time",
			NameKey:       "name",
			CallerKey:     "caller",
			StacktraceKey: "stacktrace",
			LineEnding:    zapcore.DefaultLineEnding,
			// note: https://godoc.org/go.uber.org/zap/zapcore#EncoderConfig
			// only EncodeName is optional all others must be set
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		},
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
}
