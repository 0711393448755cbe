package defaults

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
)

const (
	// DefaultImage is the Postgres container image used when the spec
	// does not name one.
	DefaultImage = "quay.io/coredb/standard-cnpg:15-a0a5ab5"

	// DefaultPostgresExporterImage is the Prometheus Postgres exporter
	// sidecar image used when the spec does not name one.
	DefaultPostgresExporterImage = "quay.io/prometheuscommunity/postgres-exporter:v0.12.0"

	// DefaultReplicas is the number of Postgres instances if not specified.
	DefaultReplicas int32 = 1

	// DefaultPort is the port Postgres listens on if not specified.
	DefaultPort int32 = 5432

	// DefaultUID is the user id the Postgres process runs as.
	DefaultUID int64 = 999

	// DefaultStorage is the size of the data volume of each instance.
	DefaultStorage = "8Gi"

	// DefaultSharedirStorage is the size of the volume backing the
	// Postgres share directory.
	DefaultSharedirStorage = "1Gi"

	// DefaultPkglibdirStorage is the size of the volume backing the
	// Postgres pkglibdir directory.
	DefaultPkglibdirStorage = "1Gi"

	// DefaultBackupDestinationPath is the object store path for WAL
	// archives and base backups. The bare scheme is completed by the
	// environment the operator runs in.
	DefaultBackupDestinationPath = "s3://"

	// DefaultBackupEncryption is the server-side encryption forced on
	// uploaded backup files.
	DefaultBackupEncryption = "AES256"

	// DefaultBackupRetention is the number of days backups are retained.
	DefaultBackupRetention = "30"

	// DefaultBackupSchedule takes a base backup daily at midnight.
	DefaultBackupSchedule = "0 0 * * *"

	// DefaultDatabase is the database an extension location targets if
	// not specified.
	DefaultDatabase = "postgres"

	// DefaultPoolMode is the pgbouncer pooling behavior if not specified.
	DefaultPoolMode = coredbv1alpha1.PoolModeTransaction
)

// DefaultResources returns the default compute resources for each
// Postgres instance. It requests 500m CPU and 512Mi memory, with limits
// of 2 CPU and 2Gi memory.
func DefaultResources() corev1.ResourceRequirements {
	return corev1.ResourceRequirements{
		Requests: corev1.ResourceList{
			corev1.ResourceCPU:    resource.MustParse("500m"),
			corev1.ResourceMemory: resource.MustParse("512Mi"),
		},
		Limits: corev1.ResourceList{
			corev1.ResourceCPU:    resource.MustParse("2"),
			corev1.ResourceMemory: resource.MustParse("2Gi"),
		},
	}
}

// DefaultPoolerResources returns the default compute resources for the
// pgbouncer pods. It requests 50m CPU and 64Mi memory, with limits of
// 100m CPU and 128Mi memory.
func DefaultPoolerResources() corev1.ResourceRequirements {
	return corev1.ResourceRequirements{
		Requests: corev1.ResourceList{
			corev1.ResourceCPU:    resource.MustParse("50m"),
			corev1.ResourceMemory: resource.MustParse("64Mi"),
		},
		Limits: corev1.ResourceList{
			corev1.ResourceCPU:    resource.MustParse("100m"),
			corev1.ResourceMemory: resource.MustParse("128Mi"),
		},
	}
}

// DefaultPoolerParameters returns the pgbouncer.ini parameters applied
// when the spec sets none.
func DefaultPoolerParameters() map[string]string {
	return map[string]string{
		"default_pool_size": "50",
		"max_client_conn":   "5000",
	}
}
