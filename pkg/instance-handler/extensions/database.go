package extensions

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/log"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/podexec"
)

// validInput accepts Postgres extension, database and schema names:
// leading letter, alphanumerics with single interior - or _, trailing
// alphanumeric. Anything else is rejected before it reaches SQL.
var validInput = regexp.MustCompile(`^[a-zA-Z]([a-zA-Z0-9]*[-_]?)*[a-zA-Z0-9]+$`)

func checkInput(input string) bool {
	return validInput.MatchString(input)
}

// requiresLoad lists libraries that only take effect through
// shared_preload_libraries. They do not necessarily appear in
// pg_available_extensions, so installed copies are discovered by
// scanning the lib directory instead.
var requiresLoad = []string{
	"auth_delay",
	"auto_explain",
	"basebackup_to_shell",
	"basic_archive",
	"citus",
	"passwordcheck",
	"pg_anonymize",
	"pgaudit",
	"pg_cron",
	"pg_failover_slots",
	"pg_later",
	"pglogical",
	"pg_net",
	"pg_stat_kcache",
	"pg_stat_statements",
	"pg_tle",
	"plrust",
	"postgresql_anonymizer",
	"sepgsql",
	"supautils",
	"timescaledb",
	"vectorize",
}

func requiresLoadLibrary(name string) bool {
	return contains(requiresLoad, name)
}

// librarySchemaMarker stands in for a schema on status entries of
// load-only libraries, which are not scoped to any schema.
const librarySchemaMarker = "-"

const listDatabasesQuery = `SELECT datname FROM pg_database WHERE datistemplate = false;`

const listSharedPreloadLibrariesQuery = `SHOW shared_preload_libraries;`

// listExtensionsQuery returns one row per extension name: installed
// extensions from pg_extension joined with their schema, unioned with
// every available extension reported disabled, keeping the enabled row
// when both exist.
const listExtensionsQuery = `select
distinct on
(name) *
from
(
select
    name,
    version,
    enabled,
    schema,
    description
from
    (
    select
        t0.extname as name,
        t0.extversion as version,
        true as enabled,
        t1.nspname as schema,
        comment as description
    from
        (
        select
            extnamespace,
            extname,
            extversion
        from
            pg_extension
) t0,
        (
        select
            oid,
            nspname
        from
            pg_namespace
) t1,
        (
        select
            name,
            comment
        from
            pg_catalog.pg_available_extensions
) t2
    where
        t1.oid = t0.extnamespace
        and t2.name = t0.extname
) installed
union
select
    name,
    default_version as version,
    false as enabled,
    'public' as schema,
    comment as description
from
    pg_catalog.pg_available_extensions
order by
    enabled asc
) combined
order by
name asc,
enabled desc
`

// extRow is one parsed row of listExtensionsQuery output.
type extRow struct {
	name        string
	version     string
	enabled     bool
	schema      string
	description string
}

// parseExtensions reads aligned psql output of listExtensionsQuery.
// The first two lines are the header and separator; rows with fewer
// than five columns (the row-count trailer, blank lines) are skipped.
func parseExtensions(out string) []extRow {
	var extensions []extRow
	for _, line := range dataLines(out) {
		fields := strings.Split(line, "|")
		if len(fields) < 5 {
			continue
		}
		extensions = append(extensions, extRow{
			name:        strings.TrimSpace(fields[0]),
			version:     strings.TrimSpace(fields[1]),
			enabled:     strings.TrimSpace(fields[2]) == "t",
			schema:      strings.TrimSpace(fields[3]),
			description: strings.TrimSpace(fields[4]),
		})
	}
	return extensions
}

// parseSQLOutput reads the first column of aligned psql output,
// skipping the header, separator, row-count trailer and blank lines.
func parseSQLOutput(out string) []string {
	var results []string
	for _, line := range dataLines(out) {
		field := strings.TrimSpace(strings.Split(line, "|")[0])
		if field == "" || strings.Contains(field, "rows)") || strings.Contains(field, "row)") {
			continue
		}
		results = append(results, field)
	}
	return results
}

// dataLines strips the header and separator rows of aligned psql
// output.
func dataLines(out string) []string {
	lines := strings.Split(out, "\n")
	if len(lines) <= 2 {
		return nil
	}
	return lines[2:]
}

func (r *Reconciler) psql(ctx context.Context, cdb *coredbv1alpha1.CoreDB, pod, database, sql string) (*podexec.ExecOutput, error) {
	out, err := podexec.Psql(ctx, r.Exec, cdb.Namespace, pod, database, sql)
	if err != nil {
		return nil, requeueAfter(10*time.Second, err)
	}
	return out, nil
}

func (r *Reconciler) listDatabases(ctx context.Context, cdb *coredbv1alpha1.CoreDB, pod string) ([]string, error) {
	out, err := r.psql(ctx, cdb, pod, "postgres", listDatabasesQuery)
	if err != nil {
		return nil, err
	}
	return parseSQLOutput(out.Stdout), nil
}

func (r *Reconciler) listExtensions(ctx context.Context, cdb *coredbv1alpha1.CoreDB, pod, database string) ([]extRow, error) {
	out, err := r.psql(ctx, cdb, pod, database, listExtensionsQuery)
	if err != nil {
		return nil, err
	}
	return parseExtensions(out.Stdout), nil
}

// listSharedPreloadLibraries reads the live shared_preload_libraries
// setting from the running server, one comma-separated row.
func (r *Reconciler) listSharedPreloadLibraries(ctx context.Context, cdb *coredbv1alpha1.CoreDB, pod string) ([]string, error) {
	out, err := r.psql(ctx, cdb, pod, "postgres", listSharedPreloadLibrariesQuery)
	if err != nil {
		return nil, err
	}
	rows := parseSQLOutput(out.Stdout)
	if len(rows) != 1 {
		return nil, nil
	}
	var libraries []string
	for _, lib := range strings.Split(rows[0], ",") {
		libraries = append(libraries, strings.TrimSpace(lib))
	}
	return libraries, nil
}

// listInstalledLibraries scans the server lib directory for shared
// objects. Library files whose basename fails validation are skipped.
func (r *Reconciler) listInstalledLibraries(ctx context.Context, cdb *coredbv1alpha1.CoreDB, pod string) ([]string, error) {
	logger := log.FromContext(ctx)
	cmd := []string{
		"/bin/bash",
		"-c",
		`ls $(pg_config --libdir) | grep -E '.*\.so.?.*' | cut -d'.' -f1 | uniq`,
	}
	out, err := r.Exec.Exec(ctx, cdb.Namespace, pod, cmd)
	if err != nil {
		return nil, requeueAfter(10*time.Second, err)
	}
	if out.Stdout == "" {
		return nil, requeueAfter(300*time.Second, errors.New("no output listing installed libraries"))
	}
	var libraries []string
	for _, line := range strings.Split(strings.TrimSpace(out.Stdout), "\n") {
		if !checkInput(line) {
			logger.Info("Skipping invalid library name", "library", line)
			continue
		}
		libraries = append(libraries, line)
	}
	return libraries, nil
}

// allInstalledExtensions builds the actually-installed view of every
// extension across all databases: the catalog listing per database,
// plus load-only libraries found in the lib directory that the catalog
// cannot see. The result is sorted by extension name.
func (r *Reconciler) allInstalledExtensions(ctx context.Context, cdb *coredbv1alpha1.CoreDB, pod string) ([]coredbv1alpha1.ExtensionStatus, error) {
	databases, err := r.listDatabases(ctx, cdb, pod)
	if err != nil {
		return nil, err
	}

	type extKey struct{ name, description string }
	locations := map[extKey][]coredbv1alpha1.ExtensionInstallLocationStatus{}
	for _, database := range databases {
		extensions, err := r.listExtensions(ctx, cdb, pod, database)
		if err != nil {
			return nil, err
		}
		for _, ext := range extensions {
			key := extKey{name: ext.name, description: ext.description}
			locations[key] = append(locations[key], coredbv1alpha1.ExtensionInstallLocationStatus{
				Database: database,
				Version:  ptr.To(ext.version),
				Enabled:  ptr.To(ext.enabled),
				Schema:   ext.schema,
			})
		}
	}

	var installed []coredbv1alpha1.ExtensionStatus
	for key, locs := range locations {
		installed = append(installed, coredbv1alpha1.ExtensionStatus{
			Name:        key.name,
			Description: key.description,
			Locations:   locs,
		})
	}

	// Load-only libraries never show up in pg_available_extensions.
	// Surface installed ones under the default database with a schema
	// marker, enabled when the running server has them preloaded.
	installedLibraries, err := r.listInstalledLibraries(ctx, cdb, pod)
	if err != nil {
		return nil, err
	}
	preloaded, err := r.listSharedPreloadLibraries(ctx, cdb, pod)
	if err != nil {
		return nil, err
	}
	for _, library := range installedLibraries {
		if !requiresLoadLibrary(library) {
			continue
		}
		if hasExtension(installed, library) {
			continue
		}
		installed = append(installed, coredbv1alpha1.ExtensionStatus{
			Name: library,
			Locations: []coredbv1alpha1.ExtensionInstallLocationStatus{{
				Database: "postgres",
				Version:  installedLibraryVersion(cdb, library),
				Enabled:  ptr.To(contains(preloaded, library)),
				Schema:   librarySchemaMarker,
			}},
		})
	}

	sort.Slice(installed, func(i, j int) bool { return installed[i].Name < installed[j].Name })
	return installed, nil
}

// installedLibraryVersion resolves a library's version from the trunk
// install record of the same name, when one exists. Libraries whose
// package name differs from the library name report no version.
func installedLibraryVersion(cdb *coredbv1alpha1.CoreDB, library string) *string {
	for _, install := range cdb.Status.TrunkInstalls {
		if install.Name == library {
			return install.Version
		}
	}
	return nil
}

func hasExtension(extensions []coredbv1alpha1.ExtensionStatus, name string) bool {
	for _, ext := range extensions {
		if ext.Name == name {
			return true
		}
	}
	return false
}

func contains(items []string, item string) bool {
	for _, it := range items {
		if it == item {
			return true
		}
	}
	return false
}

// generateExtensionEnableCmd builds the CREATE or DROP statement for
// one location, qualifying the schema only when one is set.
func generateExtensionEnableCmd(name string, loc coredbv1alpha1.ExtensionInstallLocation) (string, error) {
	if loc.Schema != "" && !checkInput(loc.Schema) {
		return "", &LocationError{Message: "Schema name is not formatted properly"}
	}
	if !loc.Enabled {
		return fmt.Sprintf("DROP EXTENSION IF EXISTS %q CASCADE;", name), nil
	}
	if loc.Schema != "" {
		return fmt.Sprintf("CREATE EXTENSION IF NOT EXISTS %q SCHEMA %s CASCADE;", name, loc.Schema), nil
	}
	return fmt.Sprintf("CREATE EXTENSION IF NOT EXISTS %q CASCADE;", name), nil
}

// createOrDropExtension applies one location's desired state in its
// database. Terminal failures come back as *LocationError and are
// recorded against the location; any other error means the command
// never ran and the pass should retry.
func (r *Reconciler) createOrDropExtension(ctx context.Context, cdb *coredbv1alpha1.CoreDB, pod, name string, loc coredbv1alpha1.ExtensionInstallLocation) error {
	logger := log.FromContext(ctx)

	current := extensionStatusFor(cdb, name)
	if current == nil {
		return &LocationError{Message: "Extension is not installed"}
	}
	if libraryOnly(current) {
		// Nothing to CREATE or DROP, the library takes effect through
		// shared_preload_libraries alone.
		return nil
	}

	if !checkInput(name) {
		return &LocationError{Message: "Extension name is not formatted properly"}
	}
	if !checkInput(loc.Database) {
		return &LocationError{Message: "Database name is not formatted properly"}
	}

	command, err := generateExtensionEnableCmd(name, loc)
	if err != nil {
		return err
	}

	out, err := r.psql(ctx, cdb, pod, loc.Database, command)
	if err != nil {
		logger.Error(err, "Failed to reconcile extension, could not reach the database",
			"extension", name, "database", loc.Database)
		return err
	}
	if !out.Success {
		logger.Info("Failed to toggle extension",
			"extension", name, "database", loc.Database)
		if out.Stdout != "" {
			return &LocationError{Message: out.Stdout}
		}
		return &LocationError{Message: "Failed to enable extension, and found no output. Please try again. If this issue persists, contact support."}
	}
	logger.Info("Toggled extension",
		"extension", name, "database", loc.Database, "enabled", loc.Enabled)
	return nil
}

// libraryOnly reports whether a status entry was discovered purely as
// a shared library, with no catalog presence to CREATE against.
func libraryOnly(ext *coredbv1alpha1.ExtensionStatus) bool {
	if len(ext.Locations) == 0 {
		return false
	}
	for _, loc := range ext.Locations {
		if loc.Schema != librarySchemaMarker {
			return false
		}
	}
	return true
}
