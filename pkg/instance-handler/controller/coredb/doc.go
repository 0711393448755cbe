// Package coredb implements the controller for the CoreDB custom
// resource. Each reconcile pass drives the full set of children for
// one instance in a fixed order: RBAC, connection secrets, network
// policies, ingress routes, the CNPG Cluster, backup objects, the
// connection pooler and app services, then evaluates hibernation and
// runs the extension pipeline against the live pods.
//
// Every child is applied with server-side apply under a single field
// manager, so repeated passes converge without diff bookkeeping.
// Failures never fail the pass terminally; they translate into a
// requeue with a delay picked per failure class.
package coredb
