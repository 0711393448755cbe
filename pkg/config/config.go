// Package config sources operator-level settings from the environment.
//
// These are data-plane deployment knobs, not per-instance settings: every
// CoreDB in the cluster sees the same values. Per-instance behavior belongs
// on the CoreDB spec.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config carries the environment-backed operator settings. The zero value
// is not useful; build one with FromEnv.
type Config struct {
	// CloudProvider selects the credential shape wired into backup
	// configuration. One of "aws", "gcp", "azure".
	CloudProvider string

	// EnableBackup turns on the barman object store section of the
	// Cluster and the ScheduledBackup resource.
	EnableBackup bool

	// EnableVolumeSnapshot enables snapshot-based backups where the
	// storage class supports it. Only meaningful with EnableBackup.
	EnableVolumeSnapshot bool

	// ReconcileTTL is the steady-state requeue interval. A random jitter
	// of up to two thirds of this value is added per pass so instance
	// reconciles spread out.
	ReconcileTTL time.Duration

	// ReconcileTimestampTTL limits how often the fully-reconciled status
	// timestamp is rewritten, keeping steady-state passes from patching
	// status every time.
	ReconcileTimestampTTL time.Duration

	// DataPlaneBasedomain is the domain Traefik routes are built under.
	// Empty disables TCP route and app-service ingress reconciliation.
	DataPlaneBasedomain string
}

// FromEnv reads the operator configuration, falling back to defaults for
// unset or unparseable values.
func FromEnv() Config {
	return Config{
		CloudProvider:         envOrDefault("CLOUD_PROVIDER", "aws"),
		EnableBackup:          boolEnvOrDefault("ENABLE_BACKUP", true),
		EnableVolumeSnapshot:  boolEnvOrDefault("ENABLE_VOLUME_SNAPSHOT", false),
		ReconcileTTL:          secondsEnvOrDefault("RECONCILE_TTL", 90*time.Second),
		ReconcileTimestampTTL: secondsEnvOrDefault("RECONCILE_TIMESTAMP_TTL", 30*time.Second),
		DataPlaneBasedomain:   os.Getenv("DATA_PLANE_BASEDOMAIN"),
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func boolEnvOrDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return parsed
}

func secondsEnvOrDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	seconds, err := strconv.Atoi(v)
	if err != nil || seconds <= 0 {
		return def
	}
	return time.Duration(seconds) * time.Second
}
