package coredb

import (
	"strconv"

	barmanapi "github.com/cloudnative-pg/barman-cloud/pkg/api"
	cnpgv1 "github.com/cloudnative-pg/cloudnative-pg/api/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/config"
	"github.com/coredb-io/coredb-operator/pkg/instance-handler/names"
	"github.com/coredb-io/coredb-operator/pkg/pgconfig"
)

// defaultMonitoringConfigMap ships with CNPG and holds the stock
// exporter queries every instance gets.
const defaultMonitoringConfigMap = "cnpg-default-monitoring"

// defaultSnapshotClass is used when the spec does not name a
// VolumeSnapshotClass.
const defaultSnapshotClass = "cnpg-snapshot-class"

// postgresUserID is the uid and gid postgres runs as inside the
// instance images.
const postgresUserID = 26

// Annotation keys recognized on the service account template for
// ambient cloud identity.
const (
	annotationEKSRoleARN = "eks.amazonaws.com/role-arn"
	annotationGKEAccount = "iam.gke.io/gcp-service-account"
)

// buildCluster renders the desired CNPG Cluster. The result is a pure
// function of the CoreDB spec and operator config; anything stateful
// (preload library filtering, restart propagation) is layered on by
// the reconcile flow before the apply.
func buildCluster(db *coredbv1alpha1.CoreDB, cfg config.Config, scheme *runtime.Scheme) (*cnpgv1.Cluster, error) {
	params, libraries := pgconfig.ClusterParameters(pgconfig.Merge(&db.Spec))
	backup, saTemplate := backupConfiguration(db, cfg)

	cluster := &cnpgv1.Cluster{
		ObjectMeta: metav1.ObjectMeta{
			Name:        db.Name,
			Namespace:   db.Namespace,
			Annotations: clusterAnnotations(db),
		},
		Spec: cnpgv1.ClusterSpec{
			ImageName:              db.Spec.Image,
			Instances:              int(db.Spec.Replicas),
			Backup:                 backup,
			ServiceAccountTemplate: saTemplate,
			Bootstrap: &cnpgv1.BootstrapConfiguration{
				InitDB: &cnpgv1.BootstrapInitDB{},
			},
			SuperuserSecret: &cnpgv1.LocalObjectReference{
				Name: names.ConnectionSecret(db.Name),
			},
			EnableSuperuserAccess: ptr.To(true),
			LogLevel:              "info",
			Managed:               managedRoles(db.Name),
			MaxSyncReplicas:       0,
			MinSyncReplicas:       0,
			Monitoring:            monitoringConfiguration(db),
			PostgresGID:           postgresUserID,
			PostgresUID:           postgresUserID,
			PostgresConfiguration: cnpgv1.PostgresConfiguration{
				Parameters:          params,
				AdditionalLibraries: libraries,
				SyncReplicaElectionConstraint: cnpgv1.SyncReplicaElectionConstraints{
					Enabled: false,
				},
				EnableAlterSystem: true,
			},
			PrimaryUpdateMethod:   primaryUpdateMethod(int(db.Spec.Replicas)),
			PrimaryUpdateStrategy: cnpgv1.PrimaryUpdateStrategyUnsupervised,
			ReplicationSlots:      replicationSlots(db.Spec.Replicas),
			Resources: corev1.ResourceRequirements{
				Limits:   db.Spec.Resources.Limits,
				Requests: db.Spec.Resources.Requests,
			},
			FailoverDelay:      0,
			MaxStartDelay:      30,
			MaxStopDelay:       30,
			MaxSwitchoverDelay: 60,
			StorageConfiguration: cnpgv1.StorageConfiguration{
				Size:               db.Spec.Storage.String(),
				ResizeInUseVolumes: ptr.To(true),
			},
			NodeMaintenanceWindow: &cnpgv1.NodeMaintenanceWindow{
				InProgress: true,
			},
		},
	}
	if err := controllerutil.SetControllerReference(db, cluster, scheme); err != nil {
		return nil, err
	}
	return cluster, nil
}

// clusterAnnotations propagates instance annotations onto the Cluster.
// The kubectl bookkeeping annotation and the operator's own watch gate
// stay behind; the hibernation annotations are owned by the hibernation
// flow through merge patches and never pass through here.
func clusterAnnotations(db *coredbv1alpha1.CoreDB) map[string]string {
	annotations := make(map[string]string, len(db.Annotations))
	for key, value := range db.Annotations {
		if key == corev1.LastAppliedConfigAnnotation || key == watchAnnotation {
			continue
		}
		annotations[key] = value
	}
	return annotations
}

// primaryUpdateMethod restarts single-instance clusters in place. With
// replicas a switchover promotes a secondary before the old primary
// restarts.
func primaryUpdateMethod(instances int) cnpgv1.PrimaryUpdateMethod {
	if instances == 1 {
		return cnpgv1.PrimaryUpdateMethodRestart
	}
	return cnpgv1.PrimaryUpdateMethodSwitchover
}

func replicationSlots(replicas int32) *cnpgv1.ReplicationSlotsConfiguration {
	return &cnpgv1.ReplicationSlotsConfiguration{
		HighAvailability: &cnpgv1.ReplicationSlotsHAConfiguration{
			Enabled: ptr.To(replicas > 1),
		},
		UpdateInterval: 30,
	}
}

// managedRoles declares the readonly role. Its credentials live in the
// role secret the operator creates once.
func managedRoles(name string) *cnpgv1.ManagedConfiguration {
	return &cnpgv1.ManagedConfiguration{
		Roles: []cnpgv1.RoleConfiguration{
			{
				Name:   "readonly",
				Ensure: cnpgv1.EnsurePresent,
				Login:  true,
				PasswordSecret: &cnpgv1.LocalObjectReference{
					Name: names.ReadOnlyRoleSecret(name),
				},
				InRoles: []string{"pg_read_all_data"},
			},
		},
	}
}

func monitoringConfiguration(db *coredbv1alpha1.CoreDB) *cnpgv1.MonitoringConfiguration {
	queries := []cnpgv1.ConfigMapKeySelector{
		{
			LocalObjectReference: cnpgv1.LocalObjectReference{Name: defaultMonitoringConfigMap},
			Key:                  "queries",
		},
	}
	if db.Spec.Metrics != nil && len(db.Spec.Metrics.Queries) > 0 {
		queries = append(queries, cnpgv1.ConfigMapKeySelector{
			LocalObjectReference: cnpgv1.LocalObjectReference{Name: names.MetricsConfigMap(db.Name)},
			Key:                  metricsQueriesKey,
		})
	}
	return &cnpgv1.MonitoringConfiguration{
		CustomQueriesConfigMap: queries,
		DisableDefaultQueries:  ptr.To(false),
		EnablePodMonitor:       true,
	}
}

// backupConfiguration renders the backup section and, when object
// store access rides on ambient pod identity instead of explicit keys,
// the service account template carrying the identity annotation.
func backupConfiguration(db *coredbv1alpha1.CoreDB, cfg config.Config) (*cnpgv1.BackupConfiguration, *cnpgv1.ServiceAccountTemplate) {
	if !cfg.EnableBackup {
		return nil, nil
	}
	if db.Spec.Backup.DestinationPath == nil || *db.Spec.Backup.DestinationPath == "" {
		return nil, nil
	}

	saTemplate := backupServiceAccountTemplate(db)
	store := barmanObjectStore(db)
	snapshot := volumeSnapshotConfiguration(db, cfg)

	if store == nil {
		if snapshot == nil {
			return nil, saTemplate
		}
		return &cnpgv1.BackupConfiguration{VolumeSnapshot: snapshot}, saTemplate
	}
	return &cnpgv1.BackupConfiguration{
		BarmanObjectStore: store,
		RetentionPolicy:   retentionDays(db.Spec.Backup.RetentionPolicy),
		VolumeSnapshot:    snapshot,
	}, saTemplate
}

// retentionDays normalizes the retention policy to barman's day form.
// Anything unparseable falls back to 30 days.
func retentionDays(policy *string) string {
	if policy == nil {
		return "30d"
	}
	days, err := strconv.Atoi(*policy)
	if err != nil {
		return "30d"
	}
	return strconv.Itoa(days) + "d"
}

// barmanObjectStore requires exactly one cloud credential set; none or
// both disable the object store outright.
func barmanObjectStore(db *coredbv1alpha1.CoreDB) *cnpgv1.BarmanObjectStoreConfiguration {
	s3 := normalizedS3Credentials(db.Spec.Backup.S3Credentials)
	google := normalizedGoogleCredentials(db.Spec.Backup.GoogleCredentials)
	if (s3 == nil) == (google == nil) {
		return nil
	}

	store := &cnpgv1.BarmanObjectStoreConfiguration{
		DestinationPath: *db.Spec.Backup.DestinationPath,
		Wal:             walBackupConfiguration(db),
		Data:            dataBackupConfiguration(db),
	}
	if db.Spec.Backup.EndpointURL != nil {
		store.EndpointURL = *db.Spec.Backup.EndpointURL
	}
	store.AWS = s3
	store.Google = google
	return store
}

// normalizedS3Credentials reduces the credential set to one mode: with
// no explicit keys the pod's IAM role is inherited, otherwise only the
// given key references are carried.
func normalizedS3Credentials(creds *cnpgv1.S3Credentials) *cnpgv1.S3Credentials {
	if creds == nil || s3CredentialsEmpty(creds) {
		return nil
	}
	if creds.AccessKeyIDReference == nil && creds.SecretAccessKeyReference == nil {
		return &cnpgv1.S3Credentials{InheritFromIAMRole: true}
	}
	return &cnpgv1.S3Credentials{
		AccessKeyIDReference:     creds.AccessKeyIDReference,
		SecretAccessKeyReference: creds.SecretAccessKeyReference,
		RegionReference:          creds.RegionReference,
		SessionToken:             creds.SessionToken,
		InheritFromIAMRole:       false,
	}
}

func normalizedGoogleCredentials(creds *cnpgv1.GoogleCredentials) *cnpgv1.GoogleCredentials {
	if creds == nil || googleCredentialsEmpty(creds) {
		return nil
	}
	if creds.ApplicationCredentials != nil {
		return &cnpgv1.GoogleCredentials{
			ApplicationCredentials: creds.ApplicationCredentials,
			GKEEnvironment:         false,
		}
	}
	return &cnpgv1.GoogleCredentials{GKEEnvironment: true}
}

func s3CredentialsEmpty(creds *cnpgv1.S3Credentials) bool {
	return !creds.InheritFromIAMRole &&
		creds.AccessKeyIDReference == nil &&
		creds.SecretAccessKeyReference == nil &&
		creds.RegionReference == nil &&
		creds.SessionToken == nil
}

func googleCredentialsEmpty(creds *cnpgv1.GoogleCredentials) bool {
	return !creds.GKEEnvironment && creds.ApplicationCredentials == nil
}

func dataBackupConfiguration(db *coredbv1alpha1.CoreDB) *cnpgv1.DataBackupConfiguration {
	return &cnpgv1.DataBackupConfiguration{
		Compression:         barmanapi.CompressionTypeSnappy,
		Encryption:          backupEncryption(db),
		ImmediateCheckpoint: true,
	}
}

// walBackupConfiguration is only set alongside encryption; with no
// encryption the CNPG defaults apply.
func walBackupConfiguration(db *coredbv1alpha1.CoreDB) *cnpgv1.WalBackupConfiguration {
	encryption := backupEncryption(db)
	if encryption == "" {
		return nil
	}
	return &cnpgv1.WalBackupConfiguration{
		Compression: barmanapi.CompressionTypeSnappy,
		Encryption:  encryption,
		MaxParallel: 8,
	}
}

// backupEncryption maps the spec value onto the barman encryption
// modes; anything unrecognized disables encryption.
func backupEncryption(db *coredbv1alpha1.CoreDB) barmanapi.EncryptionType {
	if db.Spec.Backup.Encryption == nil {
		return ""
	}
	switch *db.Spec.Backup.Encryption {
	case "AES256", "aws:kms":
		return barmanapi.EncryptionType(*db.Spec.Backup.Encryption)
	}
	return ""
}

func volumeSnapshotConfiguration(db *coredbv1alpha1.CoreDB, cfg config.Config) *cnpgv1.VolumeSnapshotConfiguration {
	if !cfg.EnableVolumeSnapshot {
		return nil
	}
	snapshot := db.Spec.Backup.VolumeSnapshot
	if snapshot == nil || !snapshot.Enabled {
		return nil
	}
	className := defaultSnapshotClass
	if snapshot.SnapshotClass != nil && *snapshot.SnapshotClass != "" {
		className = *snapshot.SnapshotClass
	}
	return &cnpgv1.VolumeSnapshotConfiguration{
		ClassName:              className,
		SnapshotOwnerReference: "cluster",
		Online:                 ptr.To(true),
		OnlineConfiguration: cnpgv1.OnlineConfiguration{
			WaitForArchive:      ptr.To(true),
			ImmediateCheckpoint: ptr.To(true),
		},
	}
}

// backupServiceAccountTemplate decides whether CNPG should stamp a
// cloud identity annotation on the instance service account. Explicit
// key credentials win over ambient identity and suppress the template.
func backupServiceAccountTemplate(db *coredbv1alpha1.CoreDB) *cnpgv1.ServiceAccountTemplate {
	backup := db.Spec.Backup

	if s3 := backup.S3Credentials; s3 != nil && !s3.InheritFromIAMRole &&
		(s3.AccessKeyIDReference != nil || s3.SecretAccessKeyReference != nil ||
			s3.RegionReference != nil || s3.SessionToken != nil) {
		return nil
	}
	if google := backup.GoogleCredentials; google != nil && !google.GKEEnvironment &&
		google.ApplicationCredentials != nil {
		return nil
	}

	var annotations map[string]string
	if db.Spec.ServiceAccountTemplate != nil {
		annotations = db.Spec.ServiceAccountTemplate.Metadata.Annotations
	}
	_, hasEKSRole := annotations[annotationEKSRoleARN]
	_, hasGKEAccount := annotations[annotationGKEAccount]

	noCredentials := backup.EndpointURL == nil && backup.S3Credentials == nil && backup.GoogleCredentials == nil
	inheritIAM := backup.S3Credentials != nil && backup.S3Credentials.InheritFromIAMRole
	inheritGKE := backup.GoogleCredentials != nil && backup.GoogleCredentials.GKEEnvironment

	if !noCredentials && !(inheritIAM && hasEKSRole) && !(inheritGKE && hasGKEAccount) {
		return nil
	}

	if value, ok := annotations[annotationEKSRoleARN]; ok {
		return identityServiceAccountTemplate(annotationEKSRoleARN, value)
	}
	if value, ok := annotations[annotationGKEAccount]; ok {
		return identityServiceAccountTemplate(annotationGKEAccount, value)
	}
	return nil
}

func identityServiceAccountTemplate(key, value string) *cnpgv1.ServiceAccountTemplate {
	return &cnpgv1.ServiceAccountTemplate{
		Metadata: cnpgv1.Metadata{
			Annotations: map[string]string{key: value},
		},
	}
}
