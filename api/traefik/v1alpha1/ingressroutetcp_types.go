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

// IngressRouteTCPSpec defines the desired state of an IngressRouteTCP.
type IngressRouteTCPSpec struct {
	// Routes defines the list of TCP routes.
	Routes []RouteTCP `json:"routes"`

	// EntryPoints is the list of entry point names the route binds to.
	// +optional
	EntryPoints []string `json:"entryPoints,omitempty"`

	// TLS defines the TLS configuration on a layer 4 / TCP route.
	// +optional
	TLS *TLSTCP `json:"tls,omitempty"`
}

// RouteTCP holds one TCP route configuration.
type RouteTCP struct {
	// Match is the Traefik rule matcher. TCP routes only support
	// HostSNI matchers, such as HostSNI(`db.example.com`).
	Match string `json:"match"`

	// Priority disambiguates rules of the same length. Higher wins.
	// +optional
	Priority int `json:"priority,omitempty"`

	// Syntax selects the rule syntax version.
	// +optional
	Syntax string `json:"syntax,omitempty"`

	// Services is the list of backends the rule forwards to.
	// +optional
	Services []ServiceTCP `json:"services,omitempty"`

	// Middlewares references MiddlewareTCP resources applied to the route.
	// +optional
	Middlewares []ObjectReference `json:"middlewares,omitempty"`
}

// ServiceTCP references a Kubernetes Service backend on a TCP route.
type ServiceTCP struct {
	// Name of the Kubernetes Service.
	Name string `json:"name"`

	// Namespace of the Kubernetes Service.
	// +optional
	Namespace string `json:"namespace,omitempty"`

	// Port of the Service to forward to. May name the port.
	Port intstr.IntOrString `json:"port"`
}

// ObjectReference references a MiddlewareTCP resource.
type ObjectReference struct {
	// Name of the referenced resource.
	Name string `json:"name"`

	// Namespace of the referenced resource.
	// +optional
	Namespace string `json:"namespace,omitempty"`
}

// TLSTCP holds the TLS configuration for an IngressRouteTCP.
type TLSTCP struct {
	// SecretName is the name of a Secret holding the certificate.
	// +optional
	SecretName string `json:"secretName,omitempty"`

	// Passthrough forwards the encrypted stream to the backend
	// instead of terminating TLS at the proxy.
	// +optional
	Passthrough bool `json:"passthrough,omitempty"`

	// CertResolver names the resolver responsible for the certificate.
	// +optional
	CertResolver string `json:"certResolver,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Namespaced

// IngressRouteTCP is the Traefik CRD for layer 4 routing.
type IngressRouteTCP struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec IngressRouteTCPSpec `json:"spec"`
}

// +kubebuilder:object:root=true

// IngressRouteTCPList contains a list of IngressRouteTCP.
type IngressRouteTCPList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []IngressRouteTCP `json:"items"`
}

func init() {
	SchemeBuilder.Register(&IngressRouteTCP{}, &IngressRouteTCPList{})
}
