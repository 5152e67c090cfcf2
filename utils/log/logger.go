// Copyright (c) 2022-2026 Vexel Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	lumberjack "gopkg.in/natefinch/lumberjack.v2"
)

// Config defines Logger configuration.
type Config struct {
	Disable     bool   `yaml:"disable"`
	Level       string `yaml:"level"`
	ServiceName string `yaml:"service_name"`
	Path        string `yaml:"path"`
	Encoding    string `yaml:"encoding"`

	// Rotation is applied when Path is a regular file. It is ignored for
	// stderr / stdout sinks.
	Rotation RotationConfig `yaml:"rotation"`
}

// RotationConfig defines log rotation for file sinks.
type RotationConfig struct {
	Disable    bool `yaml:"disable"`
	MaxSizeMB  int  `yaml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days"`
	Compress   bool `yaml:"compress"`
}

func (c Config) applyDefaults() Config {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.Path == "" {
		c.Path = "stderr"
	}
	if c.Encoding == "" {
		c.Encoding = "console"
	}
	if c.Rotation.MaxSizeMB == 0 {
		c.Rotation.MaxSizeMB = 256
	}
	if c.Rotation.MaxBackups == 0 {
		c.Rotation.MaxBackups = 10
	}
	return c
}

func (c Config) encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		MessageKey:     "message",
		NameKey:        "logger_name",
		LevelKey:       "level",
		TimeKey:        "ts",
		CallerKey:      "caller",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// New creates a logger that is not default.
func New(c Config, fields map[string]interface{}) (*zap.Logger, error) {
	c = c.applyDefaults()
	if c.Disable {
		return zap.NewNop(), nil
	}
	if fields == nil {
		fields = map[string]interface{}{}
	}
	if c.ServiceName != "" {
		fields["service_name"] = c.ServiceName
	}

	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		return nil, err
	}

	if c.Path != "stderr" && c.Path != "stdout" && !c.Rotation.Disable {
		return newRotatingLogger(c, level, fields), nil
	}

	return zap.Config{
		Level: zap.NewAtomicLevelAt(level),
		Sampling: &zap.SamplingConfig{
			Initial:    100,
			Thereafter: 100,
		},
		Encoding:          c.Encoding,
		EncoderConfig:     c.encoderConfig(),
		DisableStacktrace: true,
		OutputPaths:       []string{c.Path},
		InitialFields:     fields,
	}.Build()
}

func newRotatingLogger(c Config, level zapcore.Level, fields map[string]interface{}) *zap.Logger {
	sink := zapcore.AddSync(&lumberjack.Logger{
		Filename:   c.Path,
		MaxSize:    c.Rotation.MaxSizeMB,
		MaxBackups: c.Rotation.MaxBackups,
		MaxAge:     c.Rotation.MaxAgeDays,
		Compress:   c.Rotation.Compress,
	})
	var enc zapcore.Encoder
	if c.Encoding == "json" {
		enc = zapcore.NewJSONEncoder(c.encoderConfig())
	} else {
		enc = zapcore.NewConsoleEncoder(c.encoderConfig())
	}
	core := zapcore.NewCore(enc, sink, level)
	var zfields []zap.Field
	for k, v := range fields {
		zfields = append(zfields, zap.Any(k, v))
	}
	return zap.New(core, zap.AddCaller(), zap.Fields(zfields...))
}
