/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	cnpgv1 "github.com/cloudnative-pg/cloudnative-pg/api/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ============================================================================
// CoreDB Spec (User-editable API)
// ============================================================================
//
// Defines the fields users interact with directly to declare their intent.
// Everything the operator creates is a deterministic function of this spec;
// observed state lives exclusively in CoreDBStatus and is only ever written
// through merge patches against the status subresource.

// CoreDBSpec defines the desired state of CoreDB
type CoreDBSpec struct {
	// Replicas is the number of Postgres instances to run.
	// +kubebuilder:default:=1
	// +kubebuilder:validation:Minimum=0
	// +optional
	Replicas int32 `json:"replicas,omitempty"`

	// Resources are the compute resource requirements for each instance.
	// +optional
	Resources corev1.ResourceRequirements `json:"resources,omitempty"`

	// Storage is the size of the data volume of each instance.
	// +kubebuilder:default:="8Gi"
	// +optional
	Storage resource.Quantity `json:"storage,omitempty"`

	// SharedirStorage is the size of the volume backing the Postgres
	// share directory, used by trunk-installed extensions.
	// +kubebuilder:default:="1Gi"
	// +optional
	SharedirStorage resource.Quantity `json:"sharedirStorage,omitempty"`

	// PkglibdirStorage is the size of the volume backing the Postgres
	// pkglibdir directory, used by trunk-installed extensions.
	// +kubebuilder:default:="1Gi"
	// +optional
	PkglibdirStorage resource.Quantity `json:"pkglibdirStorage,omitempty"`

	// Image is the Postgres container image.
	// +optional
	Image string `json:"image,omitempty"`

	// Port is the port Postgres listens on.
	// +kubebuilder:default:=5432
	// +optional
	Port int32 `json:"port,omitempty"`

	// UID is the user id the Postgres process runs as.
	// +kubebuilder:default:=999
	// +optional
	UID int64 `json:"uid,omitempty"`

	// Stop hibernates the instance: compute is scaled away but storage,
	// secrets and resource definitions are kept.
	// +kubebuilder:default:=false
	// +optional
	Stop bool `json:"stop,omitempty"`

	// PostgresExporterEnabled deploys the Prometheus Postgres exporter
	// sidecar and its queries ConfigMap.
	// +kubebuilder:default:=true
	// +optional
	PostgresExporterEnabled *bool `json:"postgresExporterEnabled,omitempty"`

	// PostgresExporterImage is the exporter container image. Superseded
	// by metrics.image when both are set.
	// +optional
	PostgresExporterImage string `json:"postgresExporterImage,omitempty"`

	// Metrics configures the exporter queries.
	// +optional
	Metrics *PostgresMetrics `json:"metrics,omitempty"`

	// Extensions declares which Postgres extensions should be enabled,
	// per database and schema.
	// +optional
	Extensions []Extension `json:"extensions,omitempty"`

	// TrunkInstalls declares which packaged extensions should be installed
	// into the running instance.
	// +optional
	TrunkInstalls []TrunkInstall `json:"trunkInstalls,omitempty"`

	// Stack names a predefined workload profile whose Postgres
	// configuration is layered underneath runtimeConfig.
	// +optional
	Stack *Stack `json:"stack,omitempty"`

	// RuntimeConfig holds user-provided Postgres configuration parameters.
	// +optional
	RuntimeConfig []PgConfig `json:"runtimeConfig,omitempty"`

	// OverrideConfigs take precedence over every other configuration layer.
	// +optional
	OverrideConfigs []PgConfig `json:"overrideConfigs,omitempty"`

	// ServiceAccountTemplate configures the generated service account.
	// +optional
	ServiceAccountTemplate *cnpgv1.ServiceAccountTemplate `json:"serviceAccountTemplate,omitempty"`

	// Backup configures WAL archiving and scheduled base backups.
	// +optional
	Backup Backup `json:"backup,omitempty"`

	// ConnectionPooler configures the optional pgbouncer pooler.
	// +optional
	ConnectionPooler *ConnectionPooler `json:"connectionPooler,omitempty"`

	// AppServices are auxiliary workloads running next to the database,
	// wired to it through the connection secret.
	// +optional
	AppServices []AppService `json:"appServices,omitempty"`

	// ExtraDomainsRw are additional domains routed to the read-write
	// endpoint.
	// +optional
	ExtraDomainsRw []string `json:"extraDomainsRw,omitempty"`

	// IPAllowList restricts which client CIDRs may reach the postgres
	// ingress routes. Empty means allow all.
	// +optional
	IPAllowList []string `json:"ipAllowList,omitempty"`
}

// ============================================================================
// Postgres Configuration Section Specs
// ============================================================================

// PgConfig is a single Postgres configuration parameter.
type PgConfig struct {
	// Name is the parameter name as it appears in postgresql.conf.
	// +kubebuilder:validation:MinLength:=1
	Name string `json:"name"`

	// Value is the parameter value. Multi-value parameters such as
	// shared_preload_libraries take a comma-separated list.
	Value string `json:"value"`
}

// Stack names a workload profile and the Postgres configuration it carries.
type Stack struct {
	// Name of the stack, e.g. "standard", "mq", "olap".
	// +kubebuilder:validation:MinLength:=1
	Name string `json:"name"`

	// PostgresConfig is layered underneath the user's runtimeConfig.
	// +optional
	PostgresConfig []PgConfig `json:"postgresConfig,omitempty"`
}

// ============================================================================
// Backup Config Section Specs
// ============================================================================

// Backup configures WAL archiving and scheduled base backups to an
// object store.
type Backup struct {
	// DestinationPath is the object store path, e.g. "s3://bucket/path".
	// +optional
	DestinationPath *string `json:"destinationPath,omitempty"`

	// Encryption forced on uploaded files.
	// +kubebuilder:validation:Enum="";AES256;"aws:kms"
	// +optional
	Encryption *string `json:"encryption,omitempty"`

	// RetentionPolicy is the number of days backups are retained.
	// +kubebuilder:default:="30"
	// +optional
	RetentionPolicy *string `json:"retentionPolicy,omitempty"`

	// Schedule is a cron expression for base backups.
	// +optional
	Schedule *string `json:"schedule,omitempty"`

	// EndpointURL overrides automatic object store endpoint discovery.
	// +optional
	EndpointURL *string `json:"endpointURL,omitempty"`

	// VolumeSnapshot enables snapshot-based base backups.
	// +optional
	VolumeSnapshot *VolumeSnapshot `json:"volumeSnapshot,omitempty"`

	// S3Credentials for the object store. Defaults to the pod IAM role.
	// +optional
	S3Credentials *cnpgv1.S3Credentials `json:"s3Credentials,omitempty"`

	// GoogleCredentials for Google Cloud Storage destinations.
	// +optional
	GoogleCredentials *cnpgv1.GoogleCredentials `json:"googleCredentials,omitempty"`

	// AzureCredentials for Azure Blob Storage destinations.
	// +optional
	AzureCredentials *cnpgv1.AzureCredentials `json:"azureCredentials,omitempty"`
}

// VolumeSnapshot configures snapshot-based base backups.
type VolumeSnapshot struct {
	// Enabled turns volume snapshot backups on.
	Enabled bool `json:"enabled"`

	// SnapshotClass is the VolumeSnapshotClass to use.
	// +optional
	SnapshotClass *string `json:"snapshotClass,omitempty"`
}

// ============================================================================
// Connection Pooler Config Section Specs
// ============================================================================

// ConnectionPooler configures the optional pgbouncer pooler in front of
// the read-write endpoint.
type ConnectionPooler struct {
	// Enabled deploys the pooler.
	// +kubebuilder:default:=false
	// +optional
	Enabled bool `json:"enabled,omitempty"`

	// Pooler holds the pgbouncer configuration.
	// +optional
	Pooler PgBouncer `json:"pooler,omitempty"`
}

// PgBouncerPoolMode is the pgbouncer pooling behavior.
// +kubebuilder:validation:Enum=session;transaction
type PgBouncerPoolMode string

const (
	PoolModeSession     PgBouncerPoolMode = "session"
	PoolModeTransaction PgBouncerPoolMode = "transaction"
)

// PgBouncer configures the pgbouncer deployment.
type PgBouncer struct {
	// PoolMode selects session or transaction pooling.
	// +kubebuilder:default:=transaction
	// +optional
	PoolMode PgBouncerPoolMode `json:"poolMode,omitempty"`

	// Parameters are passed through to pgbouncer.ini.
	// +optional
	Parameters map[string]string `json:"parameters,omitempty"`

	// Resources are the compute resource requirements of the pooler pods.
	// +optional
	Resources corev1.ResourceRequirements `json:"resources,omitempty"`
}

// ============================================================================
// Metrics Config Section Specs
// ============================================================================

// PostgresMetrics configures the Prometheus Postgres exporter queries.
type PostgresMetrics struct {
	// Image overrides the exporter container image.
	// +optional
	Image string `json:"image,omitempty"`

	// Enabled toggles the exporter without dropping the queries.
	// +kubebuilder:default:=true
	// +optional
	Enabled *bool `json:"enabled,omitempty"`

	// Queries maps a namespace to an exporter query definition.
	// +optional
	Queries map[string]QueryItem `json:"queries,omitempty"`
}

// QueryItem is one exporter query and the metrics it produces.
type QueryItem struct {
	// Query is the SQL statement the exporter runs.
	Query string `json:"query"`

	// Master restricts the query to the primary instance.
	// +optional
	Master bool `json:"master,omitempty"`

	// Metrics maps result columns to metric definitions. Each list entry
	// holds a single column name, matching the exporter's YAML layout.
	// +optional
	Metrics []map[string]MetricDefinition `json:"metrics,omitempty"`
}

// MetricDefinition describes how one result column becomes a metric.
type MetricDefinition struct {
	// Usage is the metric type, e.g. GAUGE, COUNTER, LABEL.
	Usage string `json:"usage"`

	// Description is the metric help text.
	// +optional
	Description string `json:"description,omitempty"`
}

// ============================================================================
// CR Controller Status Specs
// ============================================================================

// Condition constants. NOTE: these may go somewhere else

const (
	ConditionAvailable = "Available"

	ConditionProgressing = "Progressing"
)

// CoreDBStatus defines the observed state of CoreDB
type CoreDBStatus struct {
	// Running reports whether the Postgres instance is up and accepting
	// connections. False while hibernated.
	// +optional
	Running bool `json:"running"`

	// ObservedGeneration is the most recent generation observed by the
	// controller.
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	// Conditions represent the latest available observations of the
	// instance's state.
	// +optional
	Conditions []metav1.Condition `json:"conditions,omitempty"`

	// ExtensionsUpdating is true while the extension pipeline is mutating
	// extension state inside the instance.
	// +optional
	ExtensionsUpdating bool `json:"extensionsUpdating,omitempty"`

	// Extensions mirrors spec.extensions with per-location outcomes.
	// Always sorted by name; each location list sorted by
	// (database, schema) with no duplicate keys.
	// +optional
	Extensions []ExtensionStatus `json:"extensions,omitempty"`

	// TrunkInstalls records the outcome of each attempted trunk install.
	// Always sorted by name with no duplicate names.
	// +optional
	TrunkInstalls []TrunkInstallStatus `json:"trunkInstalls,omitempty"`

	// Storage is the last applied data volume size.
	// +optional
	Storage *resource.Quantity `json:"storage,omitempty"`

	// Resources are the last applied compute resource requirements.
	// +optional
	Resources *corev1.ResourceRequirements `json:"resources,omitempty"`

	// RuntimeConfig is the last applied user configuration.
	// +optional
	RuntimeConfig []PgConfig `json:"runtimeConfig,omitempty"`

	// PgPostmasterStartTime is the postmaster start time of the current
	// primary, cleared while hibernated.
	// +optional
	PgPostmasterStartTime *metav1.Time `json:"pgPostmasterStartTime,omitempty"`

	// FirstRecoverabilityTime is the earliest point in time the instance
	// can be restored to, taken from the backup catalog.
	// +optional
	FirstRecoverabilityTime *metav1.Time `json:"firstRecoverabilityTime,omitempty"`

	// LastFullyReconciledAt is when a pass last ran to completion. Only
	// rewritten after the timestamp TTL expires, so steady-state passes
	// do not patch status every time.
	// +optional
	LastFullyReconciledAt *metav1.Time `json:"lastFullyReconciledAt,omitempty"`
}

// ============================================================================
// Kind Definition and registration
// ============================================================================

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:scope=Namespaced,shortName=cdb
// +kubebuilder:printcolumn:name="Running",type="boolean",JSONPath=".status.running",description="Is the instance accepting connections"
// +kubebuilder:printcolumn:name="ExtensionsUpdating",type="boolean",JSONPath=".status.extensionsUpdating",description="Is the extension pipeline active"
// +kubebuilder:printcolumn:name="Age",type="date",JSONPath=".metadata.creationTimestamp"

// CoreDB is the Schema for the coredbs API
type CoreDB struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   CoreDBSpec   `json:"spec,omitempty"`
	Status CoreDBStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// CoreDBList contains a list of CoreDB
type CoreDBList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []CoreDB `json:"items"`
}

func init() {
	SchemeBuilder.Register(&CoreDB{}, &CoreDBList{})
}
