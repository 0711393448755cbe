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
	corev1 "k8s.io/api/core/v1"
)

// ============================================================================
// App Service Config Section Specs
// ============================================================================

// AppService is an auxiliary workload running next to the database,
// wired to it through the connection secret. Resources derived from it
// are named {coredbName}-{name} and reconciled by set-difference.
type AppService struct {
	// Name of the app service.
	// +kubebuilder:validation:MinLength:=1
	// +kubebuilder:validation:MaxLength:=50
	// +kubebuilder:validation:Pattern:="^[a-z0-9]([-a-z0-9]*[a-z0-9])?$"
	Name string `json:"name"`

	// Image is the container image.
	// +kubebuilder:validation:MinLength:=1
	Image string `json:"image"`

	// Args for the container.
	// +optional
	Args []string `json:"args,omitempty"`

	// Command for the container.
	// +optional
	Command []string `json:"command,omitempty"`

	// Env is passed to the container verbatim.
	// +optional
	Env map[string]string `json:"env,omitempty"`

	// Routing exposes container ports through a Service and, when an
	// ingress path is given, through the shared ingress route.
	// +optional
	Routing []Routing `json:"routing,omitempty"`

	// Resources are the compute resource requirements of the pods.
	// +optional
	Resources corev1.ResourceRequirements `json:"resources,omitempty"`

	// Probes configures HTTP readiness and liveness probes.
	// +optional
	Probes *AppProbes `json:"probes,omitempty"`

	// Metrics declares a Prometheus scrape endpoint.
	// +optional
	Metrics *AppMetrics `json:"metrics,omitempty"`

	// Middlewares available to this app service's routes, applied as
	// Traefik Middleware objects named {coredbName}-{middlewareName}.
	// +optional
	Middlewares []AppMiddleware `json:"middlewares,omitempty"`
}

// Routing exposes one container port.
type Routing struct {
	// Port to expose.
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Maximum=65535
	Port int32 `json:"port"`

	// IngressPath routes this path prefix to the port. Without a path no
	// ingress route is created.
	// +optional
	IngressPath *string `json:"ingressPath,omitempty"`

	// Middlewares names middlewares from the app service's middleware
	// list to apply to this route.
	// +optional
	Middlewares []string `json:"middlewares,omitempty"`

	// EntryPoints overrides the ingress entry points for this route.
	// +optional
	EntryPoints []string `json:"entryPoints,omitempty"`
}

// AppProbes configures the HTTP probes of an app service container.
type AppProbes struct {
	Readiness AppProbe `json:"readiness"`
	Liveness  AppProbe `json:"liveness"`
}

// AppProbe is one HTTP probe target.
type AppProbe struct {
	// Path the probe requests.
	Path string `json:"path"`

	// Port the probe connects to, by name or number.
	Port string `json:"port"`

	// InitialDelaySeconds before the first probe.
	// +optional
	InitialDelaySeconds int32 `json:"initialDelaySeconds,omitempty"`
}

// AppMetrics declares a Prometheus scrape endpoint on an app service.
type AppMetrics struct {
	Enabled bool   `json:"enabled"`
	Port    string `json:"port"`
	Path    string `json:"path"`
}

// ============================================================================
// App Service Middleware Section Specs
// ============================================================================

// AppMiddleware is a tagged union; exactly one variant is set.
// +kubebuilder:validation:XValidation:rule="[has(self.customRequestHeaders), has(self.stripPrefix), has(self.replacePathRegex)].filter(x, x).size() == 1",message="exactly one middleware variant must be set"
type AppMiddleware struct {
	// CustomRequestHeaders sets or removes request headers.
	// +optional
	CustomRequestHeaders *HeaderMiddleware `json:"customRequestHeaders,omitempty"`

	// StripPrefix removes path prefixes before forwarding.
	// +optional
	StripPrefix *StripPrefixMiddleware `json:"stripPrefix,omitempty"`

	// ReplacePathRegex rewrites the request path.
	// +optional
	ReplacePathRegex *ReplacePathRegexMiddleware `json:"replacePathRegex,omitempty"`
}

// HeaderMiddleware sets or removes request headers. An empty value
// removes the header.
type HeaderMiddleware struct {
	// Name of the middleware, referenced from Routing.Middlewares.
	// +kubebuilder:validation:MinLength:=1
	Name string `json:"name"`

	// Config maps header names to values.
	Config map[string]string `json:"config"`
}

// StripPrefixMiddleware removes path prefixes before forwarding.
type StripPrefixMiddleware struct {
	// Name of the middleware, referenced from Routing.Middlewares.
	// +kubebuilder:validation:MinLength:=1
	Name string `json:"name"`

	// Config lists the prefixes to strip.
	Config []string `json:"config"`
}

// ReplacePathRegexMiddleware rewrites the request path.
type ReplacePathRegexMiddleware struct {
	// Name of the middleware, referenced from Routing.Middlewares.
	// +kubebuilder:validation:MinLength:=1
	Name string `json:"name"`

	// Config holds the regex and its replacement.
	Config ReplacePathRegexConfig `json:"config"`
}

// ReplacePathRegexConfig holds the path rewrite rule.
type ReplacePathRegexConfig struct {
	Regex       string `json:"regex"`
	Replacement string `json:"replacement"`
}
