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

// MiddlewareTCPSpec defines the desired state of a MiddlewareTCP.
type MiddlewareTCPSpec struct {
	// IPAllowList limits clients to the given source IP ranges. An empty
	// list admits every client.
	// +optional
	IPAllowList *TCPIPAllowList `json:"ipAllowList,omitempty"`
}

// TCPIPAllowList holds the TCP client allow-list configuration.
type TCPIPAllowList struct {
	// SourceRange is the set of allowed client IPs or CIDR ranges.
	// +optional
	SourceRange []string `json:"sourceRange,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:resource:scope=Namespaced

// MiddlewareTCP is the Traefik CRD for TCP connection tweaks attached to
// IngressRouteTCP rules.
type MiddlewareTCP struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec MiddlewareTCPSpec `json:"spec"`
}

// +kubebuilder:object:root=true

// MiddlewareTCPList contains a list of MiddlewareTCP.
type MiddlewareTCPList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []MiddlewareTCP `json:"items"`
}

func init() {
	SchemeBuilder.Register(&MiddlewareTCP{}, &MiddlewareTCPList{})
}
