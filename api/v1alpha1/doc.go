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

// Package v1alpha1 defines the API types for the CoreDB Operator.
//
// This package contains the Go type definitions for all Custom Resources in the
// coredb.io API group. These types are used by kubebuilder to generate:
//   - CustomResourceDefinitions (CRDs)
//   - DeepCopy methods
//   - Client code
//
// # Custom Resources
//
// The API defines a single user-facing resource:
//   - CoreDB: one managed Postgres instance. Users declare replicas, storage,
//     extensions, trunk installs, backups, connection pooling, app services,
//     and the stop flag here. Everything else the operator creates (the CNPG
//     Cluster, connection Secret, RBAC triple, NetworkPolicies, ingress
//     routes, ObjectStore, app-service Deployments) is derived from this
//     spec and owned by it.
//
// # Resource Hierarchy
//
//	CoreDB
//	├── Cluster (CNPG compute resource)
//	├── Secret ({name}-connection, {name}-ro)
//	├── ServiceAccount / Role / RoleBinding
//	├── NetworkPolicies
//	├── IngressRouteTCP / MiddlewareTCP (postgres routing)
//	├── ObjectStore / ScheduledBackup
//	├── Pooler (optional)
//	└── App service Deployments / Services / IngressRoutes / Middlewares
//
// # Versioning
//
// This is the v1alpha1 version, indicating the API is in early development
// and may change in backward-incompatible ways.
package v1alpha1
