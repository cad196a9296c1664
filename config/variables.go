/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type in
  a string format, a function for updating the variable in the Config struct
  from a string, and finally, a validation function to check the validity of the
  corresponding field value in the Config.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ausocean/utils/logging"
)

// Config map Keys.
const (
	KeyFrameRate    = "FrameRate"
	KeyInputPath    = "InputPath"
	KeyLineNumber   = "LineNumber"
	KeyLineWidth    = "LineWidth"
	KeyLogging      = "logging"
	KeyLogPath      = "LogPath"
	KeyMode         = "Mode"
	KeyOutputPath   = "OutputPath"
	KeyPID          = "PID"
	KeyPSISendCount = "PSISendCount"
	KeyPSITime      = "PSITime"
	KeySuppress     = "Suppress"
)

// Config map parameter types.
const (
	typeString = "string"
	typeUint   = "uint"
	typeBool   = "bool"
	typeFloat  = "float"
)

// Default variable values.
const (
	defaultMode         = ModeExtract
	defaultVerbosity    = logging.Info
	DefaultLogPath      = "/var/log/vanctool/vanctool.log"
	defaultInputPath    = "-"
	defaultOutputPath   = "-"
	defaultLineWidth    = 1920
	defaultLineNumber   = 9
	defaultFrameRate    = 25
	defaultPSISendCount = 7
	defaultWrapPID      = 256

	maxPID       = 0x1ffe
	maxLineWidth = 16384
	maxLine      = 2047
	maxFrameRate = 120
)

// Variables describes the variables that can be used for vanctool control.
// These structs provide the name and type of variable, a function for updating
// this variable in a Config, and a function for validating the value of the variable.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config)
}{
	{
		Name: KeyFrameRate,
		Type: typeFloat,
		Update: func(c *Config, v string) {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				c.Logger.Warning("invalid FrameRate param", "value", v)
			}
			c.FrameRate = f
		},
		Validate: func(c *Config) {
			if c.FrameRate <= 0 || c.FrameRate > maxFrameRate {
				c.LogInvalidField(KeyFrameRate, defaultFrameRate)
				c.FrameRate = defaultFrameRate
			}
		},
	},
	{
		Name:   KeyInputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.InputPath = v },
		Validate: func(c *Config) {
			if c.InputPath == "" {
				c.LogInvalidField(KeyInputPath, defaultInputPath)
				c.InputPath = defaultInputPath
			}
		},
	},
	{
		Name:   KeyLineNumber,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.LineNumber = parseUint(KeyLineNumber, v, c) },
		Validate: func(c *Config) {
			if c.LineNumber == 0 || c.LineNumber > maxLine {
				c.LogInvalidField(KeyLineNumber, defaultLineNumber)
				c.LineNumber = defaultLineNumber
			}
		},
	},
	{
		Name:   KeyLineWidth,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.LineWidth = parseUint(KeyLineWidth, v, c) },
		Validate: func(c *Config) {
			if c.LineWidth == 0 || c.LineWidth > maxLineWidth {
				c.LogInvalidField(KeyLineWidth, defaultLineWidth)
				c.LineWidth = defaultLineWidth
			}
		},
	},
	{
		Name: KeyLogging,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid Logging param", "value", v)
			}
		},
		Validate: func(c *Config) {
			switch c.LogLevel {
			case logging.Debug, logging.Info, logging.Warning, logging.Error, logging.Fatal:
			default:
				c.LogInvalidField("LogLevel", defaultVerbosity)
				c.LogLevel = defaultVerbosity
			}
		},
	},
	{
		Name:   KeyLogPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.LogPath = v },
		Validate: func(c *Config) {
			if c.LogPath == "" {
				c.LogInvalidField(KeyLogPath, DefaultLogPath)
				c.LogPath = DefaultLogPath
			}
		},
	},
	{
		Name: KeyMode,
		Type: "enum:extract,wrap",
		Update: func(c *Config, v string) {
			c.Mode = parseEnum(
				KeyMode,
				v,
				map[string]uint8{
					"extract": ModeExtract,
					"wrap":    ModeWrap,
				},
				c,
			)
		},
		Validate: func(c *Config) {
			switch c.Mode {
			case ModeExtract, ModeWrap:
			default:
				c.LogInvalidField(KeyMode, defaultMode)
				c.Mode = defaultMode
			}
		},
	},
	{
		Name:   KeyOutputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.OutputPath = v },
		Validate: func(c *Config) {
			if c.OutputPath == "" {
				c.LogInvalidField(KeyOutputPath, defaultOutputPath)
				c.OutputPath = defaultOutputPath
			}
		},
	},
	{
		Name: KeyPID,
		Type: typeUint,
		Update: func(c *Config, v string) {
			pid, err := strconv.ParseUint(v, 0, 16)
			if err != nil {
				c.Logger.Warning("invalid PID param", "value", v)
			}
			c.PID = uint(pid)
		},
		Validate: func(c *Config) {
			if c.PID > maxPID {
				c.LogInvalidField(KeyPID, 0)
				c.PID = 0
			}
		},
	},
	{
		Name:   KeyPSISendCount,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.PSISendCount = parseUint(KeyPSISendCount, v, c) },
		Validate: func(c *Config) {
			if c.PSISendCount == 0 {
				c.LogInvalidField(KeyPSISendCount, defaultPSISendCount)
				c.PSISendCount = defaultPSISendCount
			}
		},
	},
	{
		Name:   KeyPSITime,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.PSITime = parseUint(KeyPSITime, v, c) },
	},
	{
		Name: KeySuppress,
		Type: typeBool,
		Update: func(c *Config, v string) {
			c.Suppress = parseBool(KeySuppress, v, c)
			if l, ok := c.Logger.(*logging.JSONLogger); ok {
				l.SetSuppress(c.Suppress)
			}
		},
	},
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning(fmt.Sprintf("expect bool for param %s", n), "value", v)
	}
	return
}

func parseEnum(n, v string, enums map[string]uint8, c *Config) uint8 {
	_v, ok := enums[strings.ToLower(v)]
	if !ok {
		c.Logger.Warning(fmt.Sprintf("invalid value for %s param", n), "value", v)
	}
	return _v
}
