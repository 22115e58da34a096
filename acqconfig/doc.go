// Package acqconfig loads an acquisition YAML document into a
// proptype.RuntimeProperties tree for cmd/acqctl, in the same
// read-file/yaml.Unmarshal shape the Sensor-Logger config loader uses for
// its own sensors.yaml.
package acqconfig
