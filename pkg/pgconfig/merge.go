// Package pgconfig resolves the effective Postgres configuration of an
// instance from its layered sources: stack defaults, runtime config and
// override configs.
package pgconfig

import (
	"sort"
	"strings"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
)

// Merge resolves the effective parameter set. Layers apply in order,
// later layers replacing earlier ones by parameter name: stack config,
// runtime config, then override configs. Multi-value parameters defined
// by both stack and runtime are unioned instead of replaced; overrides
// always replace. Disallowed parameters are dropped and the result is
// sorted by name.
func Merge(spec *coredbv1alpha1.CoreDBSpec) []coredbv1alpha1.PgConfig {
	var stackConfigs []coredbv1alpha1.PgConfig
	if spec.Stack != nil {
		stackConfigs = spec.Stack.PostgresConfig
	}

	merged := make(map[string]string)
	for _, cfg := range stackConfigs {
		merged[cfg.Name] = cfg.Value
	}
	for _, cfg := range spec.RuntimeConfig {
		merged[cfg.Name] = cfg.Value
	}
	for _, name := range MultiValueParameters {
		stackVal, inStack := lookup(stackConfigs, name)
		runtimeVal, inRuntime := lookup(spec.RuntimeConfig, name)
		if inStack && inRuntime {
			merged[name] = stackVal + "," + runtimeVal
		}
	}
	for _, cfg := range spec.OverrideConfigs {
		merged[cfg.Name] = cfg.Value
	}

	for _, name := range DisallowedParameters {
		delete(merged, name)
	}

	// Normalize multi-value parameters wherever they came from, so a
	// single layer's "b, a" and a cross-layer union format identically.
	for _, name := range MultiValueParameters {
		if value, ok := merged[name]; ok {
			merged[name] = normalizeMultiValue(value)
		}
	}

	out := make([]coredbv1alpha1.PgConfig, 0, len(merged))
	for name, value := range merged {
		out = append(out, coredbv1alpha1.PgConfig{Name: name, Value: value})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ClusterParameters splits a merged parameter set into the CNPG
// parameter map and the shared preload library list, which CloudNativePG
// configures through a dedicated field.
func ClusterParameters(configs []coredbv1alpha1.PgConfig) (map[string]string, []string) {
	params := make(map[string]string)
	var libraries []string
	for _, cfg := range configs {
		if cfg.Name == ParamSharedPreloadLibraries {
			libraries = append(libraries, Values(cfg.Value)...)
			continue
		}
		params[cfg.Name] = cfg.Value
	}
	if len(params) == 0 {
		params = nil
	}
	return params, libraries
}

// Values splits a comma-separated parameter value into trimmed,
// non-empty parts.
func Values(value string) []string {
	var parts []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parts = append(parts, part)
	}
	return parts
}

func lookup(configs []coredbv1alpha1.PgConfig, name string) (string, bool) {
	for _, cfg := range configs {
		if cfg.Name == name {
			return cfg.Value, true
		}
	}
	return "", false
}

// normalizeMultiValue dedupes, trims and orders the parts of a
// multi-value parameter. Priority libraries keep their fixed order at
// the front, the rest sorts alphabetically.
func normalizeMultiValue(value string) string {
	seen := make(map[string]struct{})
	var parts []string
	for _, part := range Values(value) {
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		parts = append(parts, part)
	}
	sortLibraries(parts)
	return strings.Join(parts, ",")
}

func sortLibraries(libs []string) {
	sort.SliceStable(libs, func(i, j int) bool {
		pi, pj := priorityIndex(libs[i]), priorityIndex(libs[j])
		switch {
		case pi >= 0 && pj >= 0:
			return pi < pj
		case pi >= 0:
			return true
		case pj >= 0:
			return false
		}
		return libs[i] < libs[j]
	})
}

func priorityIndex(lib string) int {
	for i, p := range libraryPriority {
		if p == lib {
			return i
		}
	}
	return -1
}
