package coredb

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	traefikv1alpha1 "github.com/coredb-io/coredb-operator/api/traefik/v1alpha1"
	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/instance-handler/names"
	"github.com/coredb-io/coredb-operator/pkg/util/metadata"
)

// Entry point the data plane Traefik exposes Postgres on. Traffic is
// TLS passthrough; routing happens on the SNI header, which is why
// every matcher is a HostSNI rule.
const postgresEntryPoint = "postgresql"

// reconcileIngressRoutes keeps the TCP routes into Postgres current:
// one per historical domain for read-write and read-only, a combined
// route for user-supplied extra domains, and a pooler route when the
// pooler is on. The allow-list middleware applies to all of them.
func (r *CoreDBReconciler) reconcileIngressRoutes(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	logger := log.FromContext(ctx)
	if r.Config.DataPlaneBasedomain == "" {
		logger.V(1).Info("No data plane base domain configured, skipping TCP route reconciliation")
		return nil
	}

	middlewares, err := r.reconcileIPAllowListMiddleware(ctx, db)
	if err != nil {
		return err
	}

	// Read-only routes are torn down while stopped; recreating one here
	// would fight the hibernation flow.
	if !db.Spec.Stop {
		err := r.reconcilePostgresRoute(ctx, db, postgresRouteVariant{
			subdomain:   names.ReadOnlyService(db.Name),
			namePrefix:  names.ReadOnlyRoutePrefix(db.Name),
			serviceName: names.ReadOnlyService(db.Name),
			middlewares: middlewares,
		})
		if err != nil {
			return err
		}
	}

	err = r.reconcilePostgresRoute(ctx, db, postgresRouteVariant{
		subdomain:   db.Name,
		namePrefix:  names.ReadWriteRoutePrefix(db.Name),
		serviceName: names.ReadWriteService(db.Name),
		middlewares: middlewares,
		// The oldest read-write routes predate prefixed names and are
		// named after the instance itself.
		legacyName: db.Name,
	})
	if err != nil {
		return err
	}

	if err := r.reconcileExtraReadWriteRoute(ctx, db, middlewares); err != nil {
		return err
	}

	if poolerEnabled(db) {
		err := r.reconcilePostgresRoute(ctx, db, postgresRouteVariant{
			subdomain:   names.Pooler(db.Name),
			namePrefix:  names.PoolerRoutePrefix(db.Name),
			serviceName: names.Pooler(db.Name),
			middlewares: middlewares,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// reconcileIPAllowListMiddleware applies the MiddlewareTCP restricting
// postgres routes to the spec's allow list and returns the reference
// the routes attach. An empty allow list keeps the middleware around
// with no restriction so route specs stay stable.
func (r *CoreDBReconciler) reconcileIPAllowListMiddleware(ctx context.Context, db *coredbv1alpha1.CoreDB) ([]traefikv1alpha1.ObjectReference, error) {
	middleware := &traefikv1alpha1.MiddlewareTCP{
		ObjectMeta: metav1.ObjectMeta{
			Name:      db.Name,
			Namespace: db.Namespace,
			Labels:    metadata.StandardLabels(db.Name),
		},
	}
	if len(db.Spec.IPAllowList) > 0 {
		sourceRange := append([]string(nil), db.Spec.IPAllowList...)
		sort.Strings(sourceRange)
		middleware.Spec.IPAllowList = &traefikv1alpha1.TCPIPAllowList{SourceRange: sourceRange}
	}
	if err := controllerutil.SetControllerReference(db, middleware, r.Scheme); err != nil {
		return nil, fmt.Errorf("failed to set owner on allow-list middleware: %w", err)
	}
	if err := r.applyChild(ctx, middleware, traefikv1alpha1.GroupVersion.WithKind("MiddlewareTCP")); err != nil {
		return nil, err
	}
	return []traefikv1alpha1.ObjectReference{{Name: db.Name}}, nil
}

// postgresRouteVariant describes one family of TCP routes: read-write,
// read-only, or pooler.
type postgresRouteVariant struct {
	subdomain   string
	namePrefix  string
	serviceName string
	middlewares []traefikv1alpha1.ObjectReference
	legacyName  string
}

// reconcilePostgresRoute converges one route family. Matchers on
// existing routes are never rewritten, so a domain change keeps the
// old connection strings working; only the backing service and port
// are forced to the current values. A missing matcher gets a fresh
// route at the first unused indexed name.
func (r *CoreDBReconciler) reconcilePostgresRoute(ctx context.Context, db *coredbv1alpha1.CoreDB, variant postgresRouteVariant) error {
	logger := log.FromContext(ctx)

	var routes traefikv1alpha1.IngressRouteTCPList
	if err := r.List(ctx, &routes, client.InNamespace(db.Namespace)); err != nil {
		return fmt.Errorf("failed to list TCP routes: %w", err)
	}

	port := intstr.FromInt32(db.Spec.Port)
	var presentNames, presentMatchers []string

	for i := range routes.Items {
		route := &routes.Items[i]
		if !strings.HasPrefix(route.Name, variant.namePrefix) &&
			!(variant.legacyName != "" && route.Name == variant.legacyName) {
			continue
		}
		presentNames = append(presentNames, route.Name)

		if len(route.Spec.Routes) == 0 {
			logger.Info("Skipping TCP route with no rules", "route", route.Name)
			continue
		}
		matcher := route.Spec.Routes[0].Match
		presentMatchers = append(presentMatchers, matcher)

		services := route.Spec.Routes[0].Services
		if len(services) > 0 && services[0].Name == variant.serviceName && services[0].Port == port {
			continue
		}
		// Service or port moved, for example after a migration between
		// operator generations. Point the route at the current backend
		// and leave the matcher alone.
		logger.Info("Updating backend of TCP route", "route", route.Name, "service", variant.serviceName)
		updated, err := r.postgresRoute(db, route.Name, matcher, variant)
		if err != nil {
			return err
		}
		if err := r.applyChild(ctx, updated, traefikv1alpha1.GroupVersion.WithKind("IngressRouteTCP")); err != nil {
			return err
		}
	}

	matcher := hostSNIMatcher(fmt.Sprintf("%s.%s", variant.subdomain, r.Config.DataPlaneBasedomain))
	if slices.Contains(presentMatchers, matcher) {
		return nil
	}

	index := 0
	name := names.IndexedRoute(variant.namePrefix, index)
	for slices.Contains(presentNames, name) {
		index++
		name = names.IndexedRoute(variant.namePrefix, index)
	}

	logger.Info("Creating TCP route", "route", name, "matcher", matcher)
	route, err := r.postgresRoute(db, name, matcher, variant)
	if err != nil {
		return err
	}
	return r.applyChild(ctx, route, traefikv1alpha1.GroupVersion.WithKind("IngressRouteTCP"))
}

// reconcileExtraReadWriteRoute maintains one route carrying every
// user-supplied extra domain, and removes it when the list empties.
func (r *CoreDBReconciler) reconcileExtraReadWriteRoute(ctx context.Context, db *coredbv1alpha1.CoreDB, middlewares []traefikv1alpha1.ObjectReference) error {
	name := names.ExtraReadWriteRoute(db.Name)

	domains := append([]string(nil), db.Spec.ExtraDomainsRw...)
	if len(domains) == 0 {
		route := &traefikv1alpha1.IngressRouteTCP{
			ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: db.Namespace},
		}
		return r.deleteIfFound(ctx, route)
	}
	sort.Strings(domains)

	matchers := make([]string, 0, len(domains))
	for _, domain := range domains {
		matchers = append(matchers, hostSNIMatcher(domain))
	}
	route, err := r.postgresRoute(db, name, strings.Join(matchers, " || "), postgresRouteVariant{
		serviceName: names.ReadWriteService(db.Name),
		middlewares: middlewares,
	})
	if err != nil {
		return err
	}
	return r.applyChild(ctx, route, traefikv1alpha1.GroupVersion.WithKind("IngressRouteTCP"))
}

func (r *CoreDBReconciler) postgresRoute(db *coredbv1alpha1.CoreDB, name, matcher string, variant postgresRouteVariant) (*traefikv1alpha1.IngressRouteTCP, error) {
	route := &traefikv1alpha1.IngressRouteTCP{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: db.Namespace,
			Labels:    metadata.StandardLabels(db.Name),
		},
		Spec: traefikv1alpha1.IngressRouteTCPSpec{
			EntryPoints: []string{postgresEntryPoint},
			Routes: []traefikv1alpha1.RouteTCP{{
				Match: matcher,
				Services: []traefikv1alpha1.ServiceTCP{{
					Name: variant.serviceName,
					Port: intstr.FromInt32(db.Spec.Port),
				}},
				Middlewares: variant.middlewares,
			}},
			TLS: &traefikv1alpha1.TLSTCP{Passthrough: true},
		},
	}
	if err := controllerutil.SetControllerReference(db, route, r.Scheme); err != nil {
		return nil, fmt.Errorf("failed to set owner on TCP route %s: %w", name, err)
	}
	return route, nil
}

func hostSNIMatcher(domain string) string {
	return fmt.Sprintf("HostSNI(`%s`)", domain)
}
