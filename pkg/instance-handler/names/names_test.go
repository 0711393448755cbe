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

package names_test

import (
	"testing"

	"github.com/coredb-io/coredb-operator/pkg/instance-handler/names"
)

// TestDerivedNames pins the exact suffix of every derived name. External
// clients build connection strings out of these, so a change here is a
// breaking change even when everything still deploys cleanly.
func TestDerivedNames(t *testing.T) {
	t.Parallel()

	table := []struct {
		name string
		got  string
		want string
	}{
		{"read-write service", names.ReadWriteService("sample"), "sample-rw"},
		{"read-only service", names.ReadOnlyService("sample"), "sample-ro"},
		{"read service", names.ReadService("sample"), "sample-r"},
		{"connection secret", names.ConnectionSecret("sample"), "sample-connection"},
		{"readonly role secret", names.ReadOnlyRoleSecret("sample"), "sample-ro"},
		{"service account", names.ServiceAccount("sample"), "sample-sa"},
		{"role", names.Role("sample"), "sample-role"},
		{"role binding", names.RoleBinding("sample"), "sample-role-binding"},
		{"metrics configmap", names.MetricsConfigMap("sample"), "metrics-sample"},
		{"pooler", names.Pooler("sample"), "sample-pooler"},
		{"read-write route prefix", names.ReadWriteRoutePrefix("sample"), "sample-rw-"},
		{"read-only route prefix", names.ReadOnlyRoutePrefix("sample"), "sample-ro-"},
		{"pooler route prefix", names.PoolerRoutePrefix("sample"), "sample-pooler-"},
		{"extra read-write route", names.ExtraReadWriteRoute("sample"), "extra-sample-rw"},
		{"app resource", names.AppResource("sample", "rest"), "sample-rest"},
		{"middleware", names.Middleware("sample", "auth-headers"), "sample-auth-headers"},
	}
	for _, test := range table {
		if test.got != test.want {
			t.Errorf("%s: got %q, want %q", test.name, test.got, test.want)
		}
	}
}

func TestServiceHost(t *testing.T) {
	t.Parallel()

	got := names.ServiceHost("sample-rw", "org-acme")
	want := "sample-rw.org-acme.svc.cluster.local"
	if got != want {
		t.Errorf("ServiceHost: got %q, want %q", got, want)
	}
}

func TestIndexedRoute(t *testing.T) {
	t.Parallel()

	table := []struct {
		prefix string
		index  int
		want   string
	}{
		{names.ReadWriteRoutePrefix("sample"), 0, "sample-rw-0"},
		{names.ReadOnlyRoutePrefix("sample"), 3, "sample-ro-3"},
		{names.PoolerRoutePrefix("sample"), 12, "sample-pooler-12"},
	}
	for _, test := range table {
		if got := names.IndexedRoute(test.prefix, test.index); got != test.want {
			t.Errorf("IndexedRoute(%q, %d): got %q, want %q", test.prefix, test.index, got, test.want)
		}
	}
}

// The readonly role secret and the CNPG read-only service intentionally share
// a spelling. Keep the two helpers agreeing so neither drifts on its own.
func TestReadOnlyNamesAgree(t *testing.T) {
	t.Parallel()

	if names.ReadOnlyRoleSecret("sample") != names.ReadOnlyService("sample") {
		t.Error("readonly role secret and read-only service names diverged")
	}
}
