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
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// MiddlewareSpec defines the desired state of a Middleware. Exactly one
// of the tweak fields is set per resource.
type MiddlewareSpec struct {
	// Headers adds or overrides HTTP headers.
	// +optional
	Headers *Headers `json:"headers,omitempty"`

	// StripPrefix removes matching prefixes from the request path
	// before forwarding.
	// +optional
	StripPrefix *StripPrefix `json:"stripPrefix,omitempty"`

	// ReplacePathRegex rewrites the request path using a regular
	// expression.
	// +optional
	ReplacePathRegex *ReplacePathRegex `json:"replacePathRegex,omitempty"`
}

// Headers holds the header manipulation configuration.
type Headers struct {
	// CustomRequestHeaders are header names and values applied to the
	// request before forwarding. An empty value removes the header.
	// +optional
	CustomRequestHeaders map[string]string `json:"customRequestHeaders,omitempty"`

	// CustomResponseHeaders are header names and values applied to the
	// response before returning it to the client.
	// +optional
	CustomResponseHeaders map[string]string `json:"customResponseHeaders,omitempty"`
}

// StripPrefix holds the prefix stripping configuration.
type StripPrefix struct {
	// Prefixes to strip from the request URL.
	// +optional
	Prefixes []string `json:"prefixes,omitempty"`

	// ForceSlash ensures the resulting stripped path is not the empty
	// string by replacing it with / when necessary.
	// +optional
	ForceSlash *bool `json:"forceSlash,omitempty"`
}

// ReplacePathRegex holds the path rewrite configuration.
type ReplacePathRegex struct {
	// Regex matched against the request path.
	// +optional
	Regex string `json:"regex,omitempty"`

	// Replacement for the matched path. Capture groups may be
	// referenced as $1, $2, and so on.
	// +optional
	Replacement string `json:"replacement,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Namespaced

// Middleware is the Traefik CRD for HTTP request tweaks attached to
// IngressRoute rules.
type Middleware struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec MiddlewareSpec `json:"spec"`
}

// +kubebuilder:object:root=true

// MiddlewareList contains a list of Middleware.
type MiddlewareList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []Middleware `json:"items"`
}

func init() {
	SchemeBuilder.Register(&Middleware{}, &MiddlewareList{})
}
