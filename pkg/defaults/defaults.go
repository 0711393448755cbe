package defaults

import (
	"reflect"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/utils/ptr"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
)

// PopulateCoreDBDefaults applies static defaults to the CoreDB spec.
// This is safe for the Mutating Webhook because it never reads cluster
// state. It makes invisible defaults visible, so every consumer of the
// spec sees the same fully resolved values.
func PopulateCoreDBDefaults(db *coredbv1alpha1.CoreDB) {
	// 1. Instance shape
	if db.Spec.Replicas == 0 {
		db.Spec.Replicas = DefaultReplicas
	}
	if reflect.DeepEqual(db.Spec.Resources, corev1.ResourceRequirements{}) {
		db.Spec.Resources = DefaultResources()
	}
	if db.Spec.Storage.IsZero() {
		db.Spec.Storage = resource.MustParse(DefaultStorage)
	}
	if db.Spec.SharedirStorage.IsZero() {
		db.Spec.SharedirStorage = resource.MustParse(DefaultSharedirStorage)
	}
	if db.Spec.PkglibdirStorage.IsZero() {
		db.Spec.PkglibdirStorage = resource.MustParse(DefaultPkglibdirStorage)
	}
	if db.Spec.Image == "" {
		db.Spec.Image = DefaultImage
	}
	if db.Spec.Port == 0 {
		db.Spec.Port = DefaultPort
	}
	if db.Spec.UID == 0 {
		db.Spec.UID = DefaultUID
	}

	// 2. Exporter and metrics
	if db.Spec.PostgresExporterEnabled == nil {
		db.Spec.PostgresExporterEnabled = ptr.To(true)
	}
	if db.Spec.PostgresExporterImage == "" {
		db.Spec.PostgresExporterImage = DefaultPostgresExporterImage
	}
	if db.Spec.Metrics != nil {
		defaultMetrics(db.Spec.Metrics, db.Spec.PostgresExporterImage)
	}

	// 3. Backup
	defaultBackup(&db.Spec.Backup)

	// 4. Connection pooler. Only defaulted when the user provided the
	// block, absence keeps the pooler off.
	if db.Spec.ConnectionPooler != nil {
		defaultPooler(db.Spec.ConnectionPooler)
	}

	// 5. Extension locations
	for i := range db.Spec.Extensions {
		locations := db.Spec.Extensions[i].Locations
		for j := range locations {
			if locations[j].Database == "" {
				locations[j].Database = DefaultDatabase
			}
		}
	}
}

// defaultMetrics fills the exporter image and enabled flag. The image
// falls back to the spec-level exporter image, which has already been
// defaulted by the time this runs.
func defaultMetrics(metrics *coredbv1alpha1.PostgresMetrics, exporterImage string) {
	if metrics.Image == "" {
		metrics.Image = exporterImage
	}
	if metrics.Enabled == nil {
		metrics.Enabled = ptr.To(true)
	}
}

// defaultBackup fills the object store destination, retention and
// schedule for WAL archiving and scheduled base backups.
func defaultBackup(backup *coredbv1alpha1.Backup) {
	if backup.DestinationPath == nil {
		backup.DestinationPath = ptr.To(DefaultBackupDestinationPath)
	}
	if backup.Encryption == nil {
		backup.Encryption = ptr.To(DefaultBackupEncryption)
	}
	if backup.RetentionPolicy == nil {
		backup.RetentionPolicy = ptr.To(DefaultBackupRetention)
	}
	if backup.Schedule == nil {
		backup.Schedule = ptr.To(DefaultBackupSchedule)
	}
	if backup.VolumeSnapshot == nil {
		backup.VolumeSnapshot = &coredbv1alpha1.VolumeSnapshot{Enabled: false}
	}
}

// defaultPooler fills the pgbouncer pool mode, parameters and resources.
func defaultPooler(pooler *coredbv1alpha1.ConnectionPooler) {
	if pooler.Pooler.PoolMode == "" {
		pooler.Pooler.PoolMode = DefaultPoolMode
	}
	if pooler.Pooler.Parameters == nil {
		pooler.Pooler.Parameters = DefaultPoolerParameters()
	}
	if reflect.DeepEqual(pooler.Pooler.Resources, corev1.ResourceRequirements{}) {
		pooler.Pooler.Resources = DefaultPoolerResources()
	}
}
