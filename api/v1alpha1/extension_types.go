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

// ============================================================================
// Extension Config Section Specs
// ============================================================================

// Extension declares one Postgres extension and where it should be enabled.
type Extension struct {
	// Name of the extension as known to Postgres.
	// +kubebuilder:validation:MinLength:=1
	Name string `json:"name"`

	// Description of the extension.
	// +optional
	Description string `json:"description,omitempty"`

	// Locations lists the databases and schemas the extension applies to.
	Locations []ExtensionInstallLocation `json:"locations"`
}

// ExtensionInstallLocation is one (database, schema) target for an
// extension. Locations are keyed by (database, schema) within an extension.
type ExtensionInstallLocation struct {
	// Enabled requests CREATE EXTENSION when true, DROP EXTENSION when
	// false.
	Enabled bool `json:"enabled"`

	// Database the extension is managed in.
	// +kubebuilder:default:="postgres"
	// +optional
	Database string `json:"database,omitempty"`

	// Schema the extension is created in. Empty lets Postgres choose.
	// +optional
	Schema string `json:"schema,omitempty"`

	// Version of the extension.
	// +optional
	Version *string `json:"version,omitempty"`
}

// TrunkInstall declares one packaged extension to install into the
// running instance. Keyed by name.
type TrunkInstall struct {
	// Name of the trunk package.
	// +kubebuilder:validation:MinLength:=1
	Name string `json:"name"`

	// Version of the trunk package. Required for installation; an entry
	// without a version is recorded as a terminal error.
	// +optional
	Version *string `json:"version,omitempty"`
}

// ============================================================================
// Extension Status Specs
// ============================================================================

// ExtensionStatus mirrors one spec extension with per-location outcomes.
type ExtensionStatus struct {
	// Name of the extension.
	Name string `json:"name"`

	// Description of the extension.
	// +optional
	Description string `json:"description,omitempty"`

	// Locations holds the observed per-location state, sorted by
	// (database, schema).
	Locations []ExtensionInstallLocationStatus `json:"locations"`
}

// ExtensionInstallLocationStatus is the observed state of one
// (database, schema) target.
type ExtensionInstallLocationStatus struct {
	// Enabled reports whether the extension is currently enabled here.
	// Unset when the state could not be determined.
	// +optional
	Enabled *bool `json:"enabled,omitempty"`

	// Database the extension is managed in.
	// +optional
	Database string `json:"database,omitempty"`

	// Schema the extension is created in.
	// +optional
	Schema string `json:"schema,omitempty"`

	// Version of the extension.
	// +optional
	Version *string `json:"version,omitempty"`

	// Error is true when the last attempt at this location failed
	// terminally.
	// +optional
	Error *bool `json:"error,omitempty"`

	// ErrorMessage carries the failure detail for terminal errors.
	// +optional
	ErrorMessage *string `json:"errorMessage,omitempty"`
}

// TrunkInstallStatus is the recorded outcome of one trunk install attempt.
type TrunkInstallStatus struct {
	// Name of the trunk package.
	Name string `json:"name"`

	// Version that was installed, when known.
	// +optional
	Version *string `json:"version,omitempty"`

	// Error is true when the attempt failed terminally. Terminal entries
	// are never retried until removed from spec and re-added.
	Error bool `json:"error"`

	// ErrorMessage carries the captured tool output for terminal failures.
	// +optional
	ErrorMessage *string `json:"errorMessage,omitempty"`

	// Loading is true while the package is installed but the instance has
	// not yet restarted to pick it up.
	// +optional
	Loading *bool `json:"loading,omitempty"`

	// InstalledToPods lists the pods the package was installed into.
	// +optional
	InstalledToPods []string `json:"installedToPods,omitempty"`
}
