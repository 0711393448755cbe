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
	"k8s.io/apimachinery/pkg/util/intstr"
)

// IngressRouteSpec defines the desired state of an IngressRoute.
type IngressRouteSpec struct {
	// Routes defines the list of HTTP routes.
	Routes []Route `json:"routes"`

	// EntryPoints is the list of entry point names the route binds to.
	// +optional
	EntryPoints []string `json:"entryPoints,omitempty"`

	// TLS enables TLS termination for the route. An empty value uses
	// the Traefik default certificate resolver.
	// +optional
	TLS *TLS `json:"tls,omitempty"`
}

// Route holds one HTTP route configuration.
type Route struct {
	// Match is the Traefik rule matcher, such as
	// Host(`db.example.com`) && PathPrefix(`/metrics`).
	Match string `json:"match"`

	// Kind is the rule kind. Only Rule is supported.
	// +kubebuilder:validation:Enum=Rule
	Kind string `json:"kind"`

	// Priority disambiguates rules of the same length. Higher wins.
	// +optional
	Priority int `json:"priority,omitempty"`

	// Syntax selects the rule syntax version.
	// +optional
	Syntax string `json:"syntax,omitempty"`

	// Services is the list of backends the rule forwards to.
	// +optional
	Services []Service `json:"services,omitempty"`

	// Middlewares references Middleware resources applied to the route.
	// +optional
	Middlewares []MiddlewareRef `json:"middlewares,omitempty"`
}

// Service references a Kubernetes Service backend.
type Service struct {
	// Name of the Kubernetes Service.
	Name string `json:"name"`

	// Kind of the referenced resource.
	// +kubebuilder:validation:Enum=Service;TraefikService
	// +optional
	Kind string `json:"kind,omitempty"`

	// Namespace is the Traefik provider namespace, not a Kubernetes
	// namespace. Left empty for same-namespace Kubernetes Services.
	// +optional
	Namespace string `json:"namespace,omitempty"`

	// Port of the Service to forward to. May name the port.
	// +optional
	Port intstr.IntOrString `json:"port,omitempty"`
}

// MiddlewareRef references a Middleware resource.
type MiddlewareRef struct {
	// Name of the Middleware.
	Name string `json:"name"`

	// Namespace of the Middleware.
	// +optional
	Namespace string `json:"namespace,omitempty"`
}

// TLS holds the TLS configuration for an IngressRoute.
type TLS struct {
	// SecretName is the name of a Secret holding the certificate.
	// +optional
	SecretName string `json:"secretName,omitempty"`

	// CertResolver names the resolver responsible for the certificate.
	// +optional
	CertResolver string `json:"certResolver,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Namespaced

// IngressRoute is the Traefik CRD for HTTP routing.
type IngressRoute struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec IngressRouteSpec `json:"spec"`
}

// +kubebuilder:object:root=true

// IngressRouteList contains a list of IngressRoute.
type IngressRouteList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []IngressRoute `json:"items"`
}

func init() {
	SchemeBuilder.Register(&IngressRoute{}, &IngressRouteList{})
}
