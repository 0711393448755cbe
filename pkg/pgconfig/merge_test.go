package pgconfig

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
)

func TestMerge(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		spec coredbv1alpha1.CoreDBSpec
		want []coredbv1alpha1.PgConfig
	}{
		"Empty Spec": {
			spec: coredbv1alpha1.CoreDBSpec{},
			want: []coredbv1alpha1.PgConfig{},
		},
		"Stack Only Sorted By Name": {
			spec: coredbv1alpha1.CoreDBSpec{
				Stack: &coredbv1alpha1.Stack{
					Name: "standard",
					PostgresConfig: []coredbv1alpha1.PgConfig{
						{Name: "shared_buffers", Value: "1GB"},
						{Name: "max_connections", Value: "100"},
					},
				},
			},
			want: []coredbv1alpha1.PgConfig{
				{Name: "max_connections", Value: "100"},
				{Name: "shared_buffers", Value: "1GB"},
			},
		},
		"Runtime Replaces Stack": {
			spec: coredbv1alpha1.CoreDBSpec{
				Stack: &coredbv1alpha1.Stack{
					Name: "standard",
					PostgresConfig: []coredbv1alpha1.PgConfig{
						{Name: "shared_buffers", Value: "1GB"},
					},
				},
				RuntimeConfig: []coredbv1alpha1.PgConfig{
					{Name: "shared_buffers", Value: "2GB"},
				},
			},
			want: []coredbv1alpha1.PgConfig{
				{Name: "shared_buffers", Value: "2GB"},
			},
		},
		"Multi Value Union Across Layers": {
			spec: coredbv1alpha1.CoreDBSpec{
				Stack: &coredbv1alpha1.Stack{
					Name: "mq",
					PostgresConfig: []coredbv1alpha1.PgConfig{
						{Name: "shared_preload_libraries", Value: "pg_cron,pg_partman_bgw"},
					},
				},
				RuntimeConfig: []coredbv1alpha1.PgConfig{
					{Name: "shared_preload_libraries", Value: "pg_stat_statements,citus"},
				},
			},
			want: []coredbv1alpha1.PgConfig{
				{Name: "shared_preload_libraries", Value: "citus,pg_stat_statements,pg_cron,pg_partman_bgw"},
			},
		},
		"Override Replaces Union": {
			spec: coredbv1alpha1.CoreDBSpec{
				Stack: &coredbv1alpha1.Stack{
					Name: "mq",
					PostgresConfig: []coredbv1alpha1.PgConfig{
						{Name: "shared_preload_libraries", Value: "pg_cron"},
					},
				},
				RuntimeConfig: []coredbv1alpha1.PgConfig{
					{Name: "shared_preload_libraries", Value: "pg_stat_statements"},
				},
				OverrideConfigs: []coredbv1alpha1.PgConfig{
					{Name: "shared_preload_libraries", Value: "pg_cron"},
				},
			},
			want: []coredbv1alpha1.PgConfig{
				{Name: "shared_preload_libraries", Value: "pg_cron"},
			},
		},
		"Disallowed Parameters Dropped": {
			spec: coredbv1alpha1.CoreDBSpec{
				RuntimeConfig: []coredbv1alpha1.PgConfig{
					{Name: "archive_command", Value: "/bin/true"},
					{Name: "wal_level", Value: "logical"},
					{Name: "max_connections", Value: "100"},
				},
			},
			want: []coredbv1alpha1.PgConfig{
				{Name: "max_connections", Value: "100"},
			},
		},
		"Single Layer Multi Value Normalized": {
			spec: coredbv1alpha1.CoreDBSpec{
				RuntimeConfig: []coredbv1alpha1.PgConfig{
					{Name: "shared_preload_libraries", Value: "pg_partman_bgw, pg_cron, pg_cron"},
				},
			},
			want: []coredbv1alpha1.PgConfig{
				{Name: "shared_preload_libraries", Value: "pg_cron,pg_partman_bgw"},
			},
		},
		"Comma Value Outside Multi List Untouched": {
			spec: coredbv1alpha1.CoreDBSpec{
				RuntimeConfig: []coredbv1alpha1.PgConfig{
					{Name: "log_line_prefix", Value: "%m, %u"},
				},
			},
			want: []coredbv1alpha1.PgConfig{
				{Name: "log_line_prefix", Value: "%m, %u"},
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := Merge(&tc.spec)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("merged configs mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClusterParameters(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		configs    []coredbv1alpha1.PgConfig
		wantParams map[string]string
		wantLibs   []string
	}{
		"Libraries Split From Parameters": {
			configs: []coredbv1alpha1.PgConfig{
				{Name: "max_connections", Value: "100"},
				{Name: "shared_preload_libraries", Value: "citus,pg_cron"},
			},
			wantParams: map[string]string{"max_connections": "100"},
			wantLibs:   []string{"citus", "pg_cron"},
		},
		"Only Libraries": {
			configs: []coredbv1alpha1.PgConfig{
				{Name: "shared_preload_libraries", Value: "pg_cron"},
			},
			wantLibs: []string{"pg_cron"},
		},
		"No Libraries": {
			configs: []coredbv1alpha1.PgConfig{
				{Name: "shared_buffers", Value: "2GB"},
			},
			wantParams: map[string]string{"shared_buffers": "2GB"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			gotParams, gotLibs := ClusterParameters(tc.configs)
			if diff := cmp.Diff(tc.wantParams, gotParams); diff != "" {
				t.Errorf("parameters mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tc.wantLibs, gotLibs); diff != "" {
				t.Errorf("libraries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
