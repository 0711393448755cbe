package metadata

import "maps"

// Label keys stamped on every resource the operator owns. Cleanup by
// set-difference relies on these, so the keys must never change for
// resources that are already on clusters.
const (
	// LabelApp is the application label key.
	LabelApp = "app"

	// LabelComponent is the component label key.
	LabelComponent = "component"

	// LabelName identifies which CoreDB a resource belongs to.
	LabelName = "coredb.io/name"

	// LabelRole marks the Postgres role a credential Secret is for.
	LabelRole = "role"
)

const (
	// AppCoreDB is the application label value on core owned resources.
	AppCoreDB = "coredb"

	// ComponentAppService is the component label value on resources
	// belonging to auxiliary app services.
	ComponentAppService = "appService"
)

// Labels owned by CloudNativePG. The operator only selects on these,
// it never writes them.
const (
	// LabelCNPGCluster identifies which Cluster a Pod belongs to.
	LabelCNPGCluster = "cnpg.io/cluster"

	// LabelCNPGPodRole marks Pods that run a Postgres instance.
	LabelCNPGPodRole = "cnpg.io/podRole"

	// PodRoleInstance is the pod role value for instance Pods.
	PodRoleInstance = "instance"

	// RolePrimary is the role label value on the current primary Pod.
	RolePrimary = "primary"

	// RoleReplica is the role label value on replica Pods.
	RoleReplica = "replica"
)

// StandardLabels returns the labels stamped on resources owned 1:1 by
// the named CoreDB: Secrets, the RBAC triple, NetworkPolicies.
func StandardLabels(coredbName string) map[string]string {
	return map[string]string{
		LabelApp:  AppCoreDB,
		LabelName: coredbName,
	}
}

// AppServiceLabels returns the labels for one app service resource.
// resourceName is the derived per-service name, coredbName ties the
// resource back to its database for set-difference cleanup.
func AppServiceLabels(coredbName, resourceName string) map[string]string {
	return map[string]string{
		LabelApp:       resourceName,
		LabelComponent: ComponentAppService,
		LabelName:      coredbName,
	}
}

// AppServiceSelector returns the selector matching every app service
// resource of the named CoreDB, regardless of which service it is for.
func AppServiceSelector(coredbName string) map[string]string {
	return map[string]string{
		LabelComponent: ComponentAppService,
		LabelName:      coredbName,
	}
}

// PrimaryPodSelector returns the selector matching the current primary
// instance Pod of a CNPG cluster.
func PrimaryPodSelector(clusterName string) map[string]string {
	return map[string]string{
		LabelCNPGCluster: clusterName,
		LabelCNPGPodRole: PodRoleInstance,
		LabelRole:        RolePrimary,
	}
}

// ReplicaPodSelector returns the selector matching the replica Pods of
// a CNPG cluster.
func ReplicaPodSelector(clusterName string) map[string]string {
	return map[string]string{
		LabelCNPGCluster: clusterName,
		LabelRole:        RoleReplica,
	}
}

// ClusterPodSelector returns the selector matching every Pod of a CNPG
// cluster, primary and replicas alike.
func ClusterPodSelector(clusterName string) map[string]string {
	return map[string]string{
		LabelCNPGCluster: clusterName,
	}
}

// MergeLabels merges custom labels with operator labels.
//
// Note that operator labels take precedence over custom labels to
// prevent users from overriding cleanup-critical keys.
func MergeLabels(operatorLabels, customLabels map[string]string) map[string]string {
	merged := make(map[string]string)

	maps.Copy(merged, customLabels)
	maps.Copy(merged, operatorLabels)

	return merged
}
