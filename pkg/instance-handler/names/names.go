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

// Package names derives the names of every Kubernetes object owned by a
// CoreDB instance.
//
// All names are plain, predictable suffixes of the instance name, never
// hashed: external clients build connection strings from them, CloudNativePG
// derives its Service names from the Cluster name with fixed suffixes, and
// Traefik routes reference Services by those exact names. The CRD caps
// instance names well below the Kubernetes limits, so truncation is rarely
// a concern; the snapshot backup name is the one exception.
package names

import "fmt"

// CloudNativePG appends these suffixes to the Cluster name when it creates
// the read-write, read-only and any-replica Services. They are not chosen by
// this operator, only referenced.

// ReadWriteService returns the name of the CNPG service routing to the
// primary instance.
func ReadWriteService(instance string) string {
	return instance + "-rw"
}

// ReadOnlyService returns the name of the CNPG service routing to replicas
// only.
func ReadOnlyService(instance string) string {
	return instance + "-ro"
}

// ReadService returns the name of the CNPG service routing to any instance,
// primary included.
func ReadService(instance string) string {
	return instance + "-r"
}

// ConnectionSecret returns the name of the secret holding the superuser
// credentials and connection URIs.
func ConnectionSecret(instance string) string {
	return instance + "-connection"
}

// ReadOnlyRoleSecret returns the name of the secret holding the credentials
// of the readonly Postgres role. It collides in spelling with the read-only
// Service name; they are different kinds and never conflict.
func ReadOnlyRoleSecret(instance string) string {
	return instance + "-ro"
}

// ServiceAccount returns the name of the instance service account.
func ServiceAccount(instance string) string {
	return instance + "-sa"
}

// Role returns the name of the instance namespace-scoped role.
func Role(instance string) string {
	return instance + "-role"
}

// RoleBinding returns the name of the binding between the instance role and
// service account.
func RoleBinding(instance string) string {
	return instance + "-role-binding"
}

// MetricsConfigMap returns the name of the ConfigMap carrying the custom
// postgres-exporter queries mounted by CNPG monitoring. The prefix form
// predates the suffix convention and is kept for installed bases.
func MetricsConfigMap(instance string) string {
	return "metrics-" + instance
}

// Pooler returns the name of the CNPG Pooler resource, which is also the
// name of the Service PgBouncer listens behind.
func Pooler(instance string) string {
	return instance + "-pooler"
}

// SnapshotScheduledBackup returns the name of the ScheduledBackup taking
// volume snapshot backups. CNPG appends timestamps to the snapshot
// objects it creates from it, so the instance part is capped at 43
// characters to leave room.
func SnapshotScheduledBackup(instance string) string {
	if len(instance) > 43 {
		instance = instance[:43]
	}
	return instance + "-snap"
}

// ServiceHost returns the in-cluster DNS name of a Service.
func ServiceHost(service, namespace string) string {
	return fmt.Sprintf("%s.%s.svc.cluster.local", service, namespace)
}

// Traefik route names append a numeric index to one of these prefixes.
// Existing routes are never renamed, so the index of a live route is
// meaningless; new routes take the first free index.

// ReadWriteRoutePrefix returns the name prefix of read-write TCP routes.
func ReadWriteRoutePrefix(instance string) string {
	return instance + "-rw-"
}

// ReadOnlyRoutePrefix returns the name prefix of read-only TCP routes.
func ReadOnlyRoutePrefix(instance string) string {
	return instance + "-ro-"
}

// PoolerRoutePrefix returns the name prefix of pooler TCP routes.
func PoolerRoutePrefix(instance string) string {
	return instance + "-pooler-"
}

// IndexedRoute returns the route name for a prefix and index.
func IndexedRoute(prefix string, index int) string {
	return fmt.Sprintf("%s%d", prefix, index)
}

// ExtraReadWriteRoute returns the name of the single TCP route carrying all
// user-supplied extra read-write domains.
func ExtraReadWriteRoute(instance string) string {
	return "extra-" + instance + "-rw"
}

// AppResource returns the name of a resource belonging to an app service:
// its Deployment, Service and IngressRoute all share it.
func AppResource(instance, app string) string {
	return instance + "-" + app
}

// Middleware returns the name of a Traefik Middleware declared by an app
// service.
func Middleware(instance, middleware string) string {
	return instance + "-" + middleware
}
