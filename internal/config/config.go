package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/forestrie/go-flakeid/flake"
	"github.com/forestrie/go-flakeid/flake128"
	"github.com/forestrie/go-flakeid/machineid"
	"github.com/forestrie/go-flakeid/snowflakeid"
	"gopkg.in/yaml.v3"
)

var ErrNoMachineID = errors.New("no machine id: set machineId, workerCidr and podIp, or useHostId")

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// MachineID, when set, is used as is. Otherwise the id is derived from
	// WorkerCIDR and PodIP, or failing that from the host id if UseHostID is
	// set.
	MachineID  *uint64 `json:"machineId,omitempty" yaml:"machineId,omitempty"`
	WorkerCIDR string  `json:"workerCidr" yaml:"workerCidr"`
	PodIP      string  `json:"podIp" yaml:"podIp"`
	UseHostID  bool    `json:"useHostId" yaml:"useHostId"`

	Bits             Bits   `json:"bits" yaml:"bits"`
	Unsigned         bool   `json:"unsigned" yaml:"unsigned"`
	OffsetMS         int64  `json:"offsetMs" yaml:"offsetMs"`
	WaitOnExhaustion bool   `json:"waitOnExhaustion" yaml:"waitOnExhaustion"`
	MaxSpins         int    `json:"maxSpins" yaml:"maxSpins"`
	LogLevel         string `json:"logLevel" yaml:"logLevel"`
}

// Bits is the 64 bit layout. Timestamp + Machine + Sequence must be 63, or 64
// when Unsigned is set.
type Bits struct {
	Timestamp uint8 `json:"timestamp" yaml:"timestamp"`
	Machine   uint8 `json:"machine" yaml:"machine"`
	Sequence  uint8 `json:"sequence" yaml:"sequence"`
}

// Default returns built-in defaults. There is no default machine id.
func Default() Config {
	return Config{
		Bits: Bits{
			Timestamp: snowflakeid.DefaultTimestampBits,
			Machine:   snowflakeid.DefaultMachineBits,
			Sequence:  snowflakeid.DefaultSequenceBits,
		},
		OffsetMS: flake.DefaultOffsetMS,
		LogLevel: "INFO",
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path is
// empty, returns defaults. Fields absent from the file keep their defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
	}
	return cfg, nil
}

// ResolveMachineID returns the configured machine id, deriving it if it was
// not set explicitly. machineBits is the width of the target machine field.
func (cfg Config) ResolveMachineID(machineBits uint8) (uint64, error) {
	switch {
	case cfg.MachineID != nil:
		return *cfg.MachineID, nil
	case cfg.WorkerCIDR != "" || cfg.PodIP != "":
		return machineid.FromPrivateIPFor(cfg.WorkerCIDR, cfg.PodIP, machineBits)
	case cfg.UseHostID:
		return machineid.FromHostID(machineBits)
	}
	return 0, ErrNoMachineID
}

// Snowflake returns the 64 bit generator config. The clock, observer and log
// are left for the caller.
func (cfg Config) Snowflake() (snowflakeid.Config, error) {
	machineID, err := cfg.ResolveMachineID(cfg.Bits.Machine)
	if err != nil {
		return snowflakeid.Config{}, err
	}
	width := snowflakeid.Signed
	if cfg.Unsigned {
		width = snowflakeid.Unsigned
	}
	return snowflakeid.Config{
		Bits: snowflakeid.BitWidths{
			Timestamp: cfg.Bits.Timestamp,
			Machine:   cfg.Bits.Machine,
			Sequence:  cfg.Bits.Sequence,
		},
		Width:            width,
		OffsetMS:         cfg.OffsetMS,
		MachineID:        machineID,
		WaitOnExhaustion: cfg.WaitOnExhaustion,
		MaxSpins:         cfg.MaxSpins,
	}, nil
}

// Flake128 returns the 128 bit generator config. The 64 bit layout settings
// do not apply.
func (cfg Config) Flake128() (flake128.Config, error) {
	machineID, err := cfg.ResolveMachineID(flake128.MachineBits)
	if err != nil {
		return flake128.Config{}, err
	}
	return flake128.Config{
		MachineID:        machineID,
		OffsetMS:         cfg.OffsetMS,
		WaitOnExhaustion: cfg.WaitOnExhaustion,
		MaxSpins:         cfg.MaxSpins,
	}, nil
}
