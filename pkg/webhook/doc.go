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

// Package webhook provides the entry point for configuring Kubernetes admission
// webhooks for the CoreDB operator.
//
// The package exposes a [Setup] function that registers all webhook handlers
// with the controller-runtime manager. It wires together:
//
//   - Mutating Webhook: applies static defaults to CoreDB resources before
//     they are persisted, so the stored spec is fully resolved (see
//     pkg/webhook/handlers).
//
//   - Validating Webhook: enforces semantic rules for CoreDB resources that
//     cannot be expressed in CRD schemas, such as rejecting storage shrink
//     on update.
//
// TLS certificates are expected to be mounted on disk (for example by
// cert-manager); this package does not manage certificate lifecycle.
package webhook
