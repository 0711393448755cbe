package config_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/coredb-io/coredb-operator/pkg/config"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"CLOUD_PROVIDER",
		"ENABLE_BACKUP",
		"ENABLE_VOLUME_SNAPSHOT",
		"RECONCILE_TTL",
		"RECONCILE_TIMESTAMP_TTL",
		"DATA_PLANE_BASEDOMAIN",
	} {
		t.Setenv(key, "")
	}

	want := config.Config{
		CloudProvider:         "aws",
		EnableBackup:          true,
		EnableVolumeSnapshot:  false,
		ReconcileTTL:          90 * time.Second,
		ReconcileTimestampTTL: 30 * time.Second,
		DataPlaneBasedomain:   "",
	}
	if diff := cmp.Diff(want, config.FromEnv()); diff != "" {
		t.Errorf("FromEnv() mismatch (-want +got):\n%s", diff)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("CLOUD_PROVIDER", "gcp")
	t.Setenv("ENABLE_BACKUP", "false")
	t.Setenv("ENABLE_VOLUME_SNAPSHOT", "true")
	t.Setenv("RECONCILE_TTL", "30")
	t.Setenv("RECONCILE_TIMESTAMP_TTL", "10")
	t.Setenv("DATA_PLANE_BASEDOMAIN", "data-1.use1.example.com")

	want := config.Config{
		CloudProvider:         "gcp",
		EnableBackup:          false,
		EnableVolumeSnapshot:  true,
		ReconcileTTL:          30 * time.Second,
		ReconcileTimestampTTL: 10 * time.Second,
		DataPlaneBasedomain:   "data-1.use1.example.com",
	}
	if diff := cmp.Diff(want, config.FromEnv()); diff != "" {
		t.Errorf("FromEnv() mismatch (-want +got):\n%s", diff)
	}
}

// Malformed values must not take the operator down with them.
func TestFromEnvUnparseable(t *testing.T) {
	t.Setenv("ENABLE_BACKUP", "yes please")
	t.Setenv("RECONCILE_TTL", "ninety")
	t.Setenv("RECONCILE_TIMESTAMP_TTL", "-5")

	got := config.FromEnv()
	if !got.EnableBackup {
		t.Error("EnableBackup: want default true for unparseable value")
	}
	if got.ReconcileTTL != 90*time.Second {
		t.Errorf("ReconcileTTL: got %v, want default 90s", got.ReconcileTTL)
	}
	if got.ReconcileTimestampTTL != 30*time.Second {
		t.Errorf("ReconcileTimestampTTL: got %v, want default 30s", got.ReconcileTimestampTTL)
	}
}
