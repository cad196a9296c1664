/*
NAME
  config.go

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for vanctool.
package config

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ausocean/utils/logging"
)

// Enums to define modes of operation.
const (
	// Indicates no option has been set.
	NothingDefined = iota

	// ModeExtract reads MPEG-TS and logs the ancillary data carried in it.
	ModeExtract

	// ModeWrap reads raw lines of 10-bit words and writes SMPTE 2038 MPEG-TS.
	ModeWrap
)

// Config provides parameters relevant to a vanctool run. Default values for
// these fields are defined in variables.go.
type Config struct {
	// Logger holds an implementation of the Logger interface. This must be
	// set for updates to be logged.
	Logger logging.Logger

	// LogLevel is the logging verbosity level.
	// Valid values are defined by enums from the logger package: logging.Debug,
	// logging.Info, logging.Warning logging.Error, logging.Fatal.
	LogLevel int8

	LogPath  string // Location of the rotated log file.
	Suppress bool   // Holds logger suppression state.

	// Mode defines the operation performed. Valid values are ModeExtract and
	// ModeWrap.
	Mode uint8

	InputPath  string // Input file location; "-" is standard input.
	OutputPath string // Output file location; "-" is standard output.

	// PID is the MPEG-TS PID of the ancillary data stream. When extracting, a
	// PID of 0 selects the first private data stream announced in a PMT.
	PID uint

	// LineWidth is the number of 10-bit words in each raw line read in
	// ModeWrap. Words are stored as little-endian uint16.
	LineWidth uint

	// LineNumber is the video line number assigned to packets found in raw
	// lines.
	LineNumber uint

	// FrameRate is the rate at which raw lines are presented, used to
	// generate presentation timestamps.
	FrameRate float64

	// PSISendCount is the number of MPEG-TS packets, counting the PAT and
	// PMT packets, after which PAT/PMT are inserted again. PSI is only
	// written at the start of a container. It is used when PSITime is zero.
	PSISendCount uint

	// PSITime is the number of seconds between PAT/PMT insertions. Zero
	// selects packet based insertion.
	PSITime uint
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate != nil {
			v.Validate(c)
		}
	}
	if c.Mode == ModeWrap && c.PID == 0 {
		c.LogInvalidField(KeyPID, defaultWrapPID)
		c.PID = defaultWrapPID
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and converting into correct type, and then
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

// LogInvalidField logs that the field name is being given the default def.
func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}

// Load reads YAML from r as a map of variable names to values and applies
// it with Update.
func (c *Config) Load(r io.Reader) error {
	vars, err := ReadVars(r)
	if err != nil {
		return err
	}
	c.Update(vars)
	return nil
}

// ReadVars reads YAML from r as a map of variable names to values. Empty
// input gives an empty map.
func ReadVars(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)
	err := yaml.NewDecoder(r).Decode(&vars)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not decode config: %w", err)
	}
	return vars, nil
}

// ReadFile reads the YAML config file at path with ReadVars.
func ReadFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open config file: %w", err)
	}
	defer f.Close()
	return ReadVars(f)
}
