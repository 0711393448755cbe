package coredb

import (
	"context"
	"fmt"
	"time"

	cnpgv1 "github.com/cloudnative-pg/cloudnative-pg/api/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/instance-handler/names"
	"github.com/coredb-io/coredb-operator/pkg/podexec"
	"github.com/coredb-io/coredb-operator/pkg/util/metadata"
)

// pgbouncerSetupSQL installs the auth plumbing CNPG documents for
// manual PgBouncer setup: the pooler role, per-database CONNECT
// grants, and the SECURITY DEFINER user_search function PgBouncer
// authenticates through.
// https://cloudnative-pg.io/documentation/1.22/connection_pooling/#authentication
const pgbouncerSetupSQL = `
CREATE OR REPLACE FUNCTION setup_pgbouncer() RETURNS VOID LANGUAGE plpgsql AS $$
DECLARE
    db_name TEXT;
    db_list CURSOR FOR SELECT datname FROM pg_database WHERE datistemplate = false;
BEGIN
    IF NOT EXISTS (SELECT 1 FROM pg_roles WHERE rolname = 'cnpg_pooler_pgbouncer') THEN
        EXECUTE 'CREATE ROLE cnpg_pooler_pgbouncer WITH LOGIN;';
    END IF;

    OPEN db_list;
    LOOP
        FETCH db_list INTO db_name;
        EXIT WHEN NOT FOUND;

        IF NOT EXISTS (
            SELECT 1
            FROM pg_database db
            JOIN pg_auth_members am ON db.datdba = am.roleid
            JOIN pg_roles r ON am.member = r.oid
            WHERE db.datname = db_name AND r.rolname = 'cnpg_pooler_pgbouncer'
        ) THEN
            EXECUTE format('GRANT CONNECT ON DATABASE %I TO cnpg_pooler_pgbouncer;', db_name);
        END IF;
    END LOOP;
    CLOSE db_list;

    IF NOT EXISTS (
        SELECT 1
        FROM information_schema.role_usage_grants
        WHERE grantee = 'cnpg_pooler_pgbouncer' AND object_schema = 'public' AND privilege_type = 'USAGE'
    ) THEN
        EXECUTE 'GRANT USAGE ON SCHEMA public TO cnpg_pooler_pgbouncer;';
    END IF;

    IF NOT EXISTS (
        SELECT 1
        FROM pg_proc p
        JOIN pg_namespace n ON p.pronamespace = n.oid
        WHERE n.nspname = 'public' AND p.proname = 'user_search'
    ) THEN
        EXECUTE '
            CREATE OR REPLACE FUNCTION user_search(uname TEXT)
            RETURNS TABLE (usename name, passwd text)
            LANGUAGE sql SECURITY DEFINER AS
            ''SELECT usename, passwd FROM pg_shadow WHERE usename=$1;'';';
    END IF;

    IF NOT EXISTS (
        SELECT 1
        FROM pg_proc p
        JOIN pg_namespace n ON p.pronamespace = n.oid
        JOIN pg_auth_members am ON p.proowner = am.roleid
        JOIN pg_roles r ON am.member = r.oid
        WHERE n.nspname = 'public' AND p.proname = 'user_search' AND r.rolname = 'cnpg_pooler_pgbouncer'
    ) THEN
        EXECUTE 'REVOKE ALL ON FUNCTION user_search(text) FROM public;';
        EXECUTE 'GRANT EXECUTE ON FUNCTION user_search(text) TO cnpg_pooler_pgbouncer;';
    END IF;

END;
$$;`

// reconcilePooler applies the CNPG Pooler when the spec enables it and
// deletes it when disabled. With a ready primary it also installs and
// runs the PgBouncer auth setup in the database.
func (r *CoreDBReconciler) reconcilePooler(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	logger := log.FromContext(ctx)

	if !poolerEnabled(db) {
		pooler := &cnpgv1.Pooler{
			ObjectMeta: metav1.ObjectMeta{Name: names.Pooler(db.Name), Namespace: db.Namespace},
		}
		if err := r.deleteIfFound(ctx, pooler); err != nil {
			return fmt.Errorf("failed to delete pooler: %w", err)
		}
		return nil
	}

	pooler, err := buildPooler(db, r.Scheme)
	if err != nil {
		return fmt.Errorf("failed to build pooler: %w", err)
	}
	if err := r.applyChild(ctx, pooler, cnpgv1.SchemeGroupVersion.WithKind("Pooler")); err != nil {
		return fmt.Errorf("failed to apply pooler: %w", err)
	}

	primary, err := r.primaryPodReadyOrNot(ctx, db)
	if err != nil {
		return err
	}
	if !isPostgresReady(primary) {
		// Auth setup needs a live database; the next pass gets it.
		logger.V(1).Info("Primary is not ready, skipping PgBouncer auth setup")
		return nil
	}
	return r.setupPgbouncerAuth(ctx, db, primary.Name)
}

func poolerEnabled(db *coredbv1alpha1.CoreDB) bool {
	return db.Spec.ConnectionPooler != nil && db.Spec.ConnectionPooler.Enabled
}

func (r *CoreDBReconciler) setupPgbouncerAuth(ctx context.Context, db *coredbv1alpha1.CoreDB, pod string) error {
	out, err := podexec.Psql(ctx, r.Exec, db.Namespace, pod, "postgres", pgbouncerSetupSQL)
	if err != nil {
		return requeueAfter(30*time.Second, fmt.Errorf("failed to install setup_pgbouncer: %w", err))
	}
	if !out.Success {
		return requeueAfter(30*time.Second, fmt.Errorf("failed to install setup_pgbouncer: %s", out.Stderr))
	}

	out, err = podexec.Psql(ctx, r.Exec, db.Namespace, pod, "postgres", "SELECT setup_pgbouncer();")
	if err != nil {
		return requeueAfter(30*time.Second, fmt.Errorf("failed to run setup_pgbouncer: %w", err))
	}
	if !out.Success {
		return requeueAfter(30*time.Second, fmt.Errorf("failed to run setup_pgbouncer: %s", out.Stderr))
	}
	return nil
}

func buildPooler(db *coredbv1alpha1.CoreDB, scheme *runtime.Scheme) (*cnpgv1.Pooler, error) {
	instances := int32(1)
	if db.Spec.Stop {
		instances = 0
	}

	pooler := &cnpgv1.Pooler{
		ObjectMeta: metav1.ObjectMeta{
			Name:      names.Pooler(db.Name),
			Namespace: db.Namespace,
			Labels:    metadata.StandardLabels(db.Name),
		},
		Spec: cnpgv1.PoolerSpec{
			Cluster:   cnpgv1.LocalObjectReference{Name: db.Name},
			Type:      cnpgv1.PoolerTypeRW,
			Instances: ptr.To(instances),
			PgBouncer: &cnpgv1.PgBouncerSpec{
				PoolMode:   cnpgv1.PgBouncerPoolMode(db.Spec.ConnectionPooler.Pooler.PoolMode),
				Parameters: db.Spec.ConnectionPooler.Pooler.Parameters,
			},
			Template: &cnpgv1.PodTemplateSpec{
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:      "pgbouncer",
							Resources: db.Spec.ConnectionPooler.Pooler.Resources,
						},
					},
				},
			},
		},
	}
	if err := controllerutil.SetControllerReference(db, pooler, scheme); err != nil {
		return nil, err
	}
	return pooler, nil
}
