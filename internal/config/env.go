package config

import (
	"os"
	"strconv"
)

// FromEnv overlays FLAKEID_* environment variables onto cfg. Values that do
// not parse are ignored.
func FromEnv(cfg *Config) {
	if v := os.Getenv("FLAKEID_MACHINE_ID"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.MachineID = &n
		}
	}
	if v := os.Getenv("FLAKEID_WORKER_CIDR"); v != "" {
		cfg.WorkerCIDR = v
	}
	if v := os.Getenv("FLAKEID_POD_IP"); v != "" {
		cfg.PodIP = v
	}
	if v := os.Getenv("FLAKEID_USE_HOST_ID"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UseHostID = b
		}
	}
	if v := os.Getenv("FLAKEID_TIMESTAMP_BITS"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 8); err == nil {
			cfg.Bits.Timestamp = uint8(n)
		}
	}
	if v := os.Getenv("FLAKEID_MACHINE_BITS"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 8); err == nil {
			cfg.Bits.Machine = uint8(n)
		}
	}
	if v := os.Getenv("FLAKEID_SEQUENCE_BITS"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 8); err == nil {
			cfg.Bits.Sequence = uint8(n)
		}
	}
	if v := os.Getenv("FLAKEID_UNSIGNED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Unsigned = b
		}
	}
	if v := os.Getenv("FLAKEID_OFFSET_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.OffsetMS = n
		}
	}
	if v := os.Getenv("FLAKEID_WAIT_ON_EXHAUSTION"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.WaitOnExhaustion = b
		}
	}
	if v := os.Getenv("FLAKEID_MAX_SPINS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxSpins = n
		}
	}
	if v := os.Getenv("FLAKEID_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}
