package coredb

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/util/intstr"
	"k8s.io/utils/ptr"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	traefikv1alpha1 "github.com/coredb-io/coredb-operator/api/traefik/v1alpha1"
	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/instance-handler/names"
	"github.com/coredb-io/coredb-operator/pkg/util/metadata"
)

// Entry point the shared app-service IngressRoute binds to unless a
// route overrides it.
const appServiceEntryPoint = "websecure"

// Environment wired into every app service container so the workload
// can reach its database without handling credentials itself.
const (
	envReadConnectionURI     = "COREDB_R_URI"
	envReadOnlyConnectionURI = "COREDB_RO_URI"
)

// reconcileAppServices converges the auxiliary workloads riding along
// with the instance: one Deployment per app service, a Service when it
// exposes ports, Traefik middlewares, and a shared IngressRoute for
// every routed path. Stale resources are found by label and reaped. A
// failure on one resource does not stop the others; the pass requeues
// at the end if anything failed.
func (r *CoreDBReconciler) reconcileAppServices(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	var errs []error

	if err := r.reapAppServiceDeployments(ctx, db); err != nil {
		errs = append(errs, err)
	}
	if err := r.reapAppServiceServices(ctx, db); err != nil {
		errs = append(errs, err)
	}

	for i := range db.Spec.AppServices {
		svc := &db.Spec.AppServices[i]
		if err := r.applyAppService(ctx, db, svc); err != nil {
			errs = append(errs, err)
		}
	}

	if err := r.reconcileAppMiddlewares(ctx, db); err != nil {
		errs = append(errs, err)
	}
	if err := r.reconcileAppIngress(ctx, db); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return requeueAfter(requeueOnError, fmt.Errorf("app service reconciliation incomplete: %w", err))
	}
	return nil
}

func (r *CoreDBReconciler) applyAppService(ctx context.Context, db *coredbv1alpha1.CoreDB, svc *coredbv1alpha1.AppService) error {
	deployment, err := r.buildAppServiceDeployment(db, svc)
	if err != nil {
		return err
	}
	if err := r.applyChild(ctx, deployment, appsv1.SchemeGroupVersion.WithKind("Deployment")); err != nil {
		return fmt.Errorf("failed to apply app service deployment %s: %w", deployment.Name, err)
	}

	if len(svc.Routing) == 0 {
		return nil
	}
	service, err := r.buildAppServiceService(db, svc)
	if err != nil {
		return err
	}
	if err := r.applyChild(ctx, service, corev1.SchemeGroupVersion.WithKind("Service")); err != nil {
		return fmt.Errorf("failed to apply app service service %s: %w", service.Name, err)
	}
	return nil
}

// reapAppServiceDeployments deletes deployments labeled as this
// instance's app services that no longer appear in spec.
func (r *CoreDBReconciler) reapAppServiceDeployments(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	logger := log.FromContext(ctx)

	desired := make([]string, 0, len(db.Spec.AppServices))
	for _, svc := range db.Spec.AppServices {
		desired = append(desired, names.AppResource(db.Name, svc.Name))
	}

	var deployments appsv1.DeploymentList
	err := r.List(ctx, &deployments,
		client.InNamespace(db.Namespace),
		client.MatchingLabels(metadata.AppServiceSelector(db.Name)))
	if err != nil {
		return fmt.Errorf("failed to list app service deployments: %w", err)
	}

	for i := range deployments.Items {
		deployment := &deployments.Items[i]
		if slices.Contains(desired, deployment.Name) {
			continue
		}
		logger.Info("Deleting app service deployment", "deployment", deployment.Name)
		if err := client.IgnoreNotFound(r.Delete(ctx, deployment)); err != nil {
			return fmt.Errorf("failed to delete app service deployment %s: %w", deployment.Name, err)
		}
	}
	return nil
}

// reapAppServiceServices deletes services for app services that were
// removed or that no longer expose ports.
func (r *CoreDBReconciler) reapAppServiceServices(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	logger := log.FromContext(ctx)

	var desired []string
	for _, svc := range db.Spec.AppServices {
		if len(svc.Routing) > 0 {
			desired = append(desired, names.AppResource(db.Name, svc.Name))
		}
	}

	var services corev1.ServiceList
	err := r.List(ctx, &services,
		client.InNamespace(db.Namespace),
		client.MatchingLabels(metadata.AppServiceSelector(db.Name)))
	if err != nil {
		return fmt.Errorf("failed to list app service services: %w", err)
	}

	for i := range services.Items {
		service := &services.Items[i]
		if slices.Contains(desired, service.Name) {
			continue
		}
		logger.Info("Deleting app service service", "service", service.Name)
		if err := client.IgnoreNotFound(r.Delete(ctx, service)); err != nil {
			return fmt.Errorf("failed to delete app service service %s: %w", service.Name, err)
		}
	}
	return nil
}

func (r *CoreDBReconciler) buildAppServiceDeployment(db *coredbv1alpha1.CoreDB, svc *coredbv1alpha1.AppService) (*appsv1.Deployment, error) {
	resourceName := names.AppResource(db.Name, svc.Name)
	labels := metadata.AppServiceLabels(db.Name, resourceName)

	var ports []corev1.ContainerPort
	for _, routing := range svc.Routing {
		ports = append(ports, corev1.ContainerPort{
			ContainerPort: routing.Port,
			Protocol:      corev1.ProtocolTCP,
		})
	}

	container := corev1.Container{
		Name:      svc.Name,
		Image:     svc.Image,
		Command:   svc.Command,
		Args:      svc.Args,
		Env:       appServiceEnv(db, svc),
		Ports:     ports,
		Resources: svc.Resources,
		SecurityContext: &corev1.SecurityContext{
			RunAsUser:                ptr.To(int64(65534)),
			AllowPrivilegeEscalation: ptr.To(false),
		},
	}
	if svc.Probes != nil {
		container.ReadinessProbe = httpProbe(svc.Probes.Readiness)
		container.LivenessProbe = httpProbe(svc.Probes.Liveness)
	}

	// Replicas are left unset on purpose: the hibernation flow owns the
	// field through merge patches, and apply must not reclaim it.
	deployment := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      resourceName,
			Namespace: db.Namespace,
			Labels:    labels,
		},
		Spec: appsv1.DeploymentSpec{
			Selector: &metav1.LabelSelector{MatchLabels: labels},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{Labels: labels},
				Spec:       corev1.PodSpec{Containers: []corev1.Container{container}},
			},
		},
	}
	if err := controllerutil.SetControllerReference(db, deployment, r.Scheme); err != nil {
		return nil, fmt.Errorf("failed to set owner on app service deployment %s: %w", resourceName, err)
	}
	return deployment, nil
}

func (r *CoreDBReconciler) buildAppServiceService(db *coredbv1alpha1.CoreDB, svc *coredbv1alpha1.AppService) (*corev1.Service, error) {
	resourceName := names.AppResource(db.Name, svc.Name)
	labels := metadata.AppServiceLabels(db.Name, resourceName)

	ports := make([]corev1.ServicePort, 0, len(svc.Routing))
	for _, routing := range svc.Routing {
		ports = append(ports, corev1.ServicePort{
			Name: fmt.Sprintf("http-%d", routing.Port),
			Port: routing.Port,
		})
	}

	service := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      resourceName,
			Namespace: db.Namespace,
			Labels:    labels,
		},
		Spec: corev1.ServiceSpec{
			Ports:    ports,
			Selector: labels,
		},
	}
	if err := controllerutil.SetControllerReference(db, service, r.Scheme); err != nil {
		return nil, fmt.Errorf("failed to set owner on app service service %s: %w", resourceName, err)
	}
	return service, nil
}

// appServiceEnv assembles the container environment: the connection
// URIs from the instance secret first, then the user's variables in
// stable order. A user variable of the same name wins.
func appServiceEnv(db *coredbv1alpha1.CoreDB, svc *coredbv1alpha1.AppService) []corev1.EnvVar {
	env := []corev1.EnvVar{
		secretEnvVar(envReadConnectionURI, names.ConnectionSecret(db.Name), "r_uri"),
		secretEnvVar(envReadOnlyConnectionURI, names.ConnectionSecret(db.Name), "ro_uri"),
	}
	for _, name := range slices.Sorted(maps.Keys(svc.Env)) {
		env = append(env, corev1.EnvVar{Name: name, Value: svc.Env[name]})
	}
	return env
}

func secretEnvVar(name, secretName, key string) corev1.EnvVar {
	return corev1.EnvVar{
		Name: name,
		ValueFrom: &corev1.EnvVarSource{
			SecretKeyRef: &corev1.SecretKeySelector{
				LocalObjectReference: corev1.LocalObjectReference{Name: secretName},
				Key:                  key,
			},
		},
	}
}

func httpProbe(probe coredbv1alpha1.AppProbe) *corev1.Probe {
	return &corev1.Probe{
		ProbeHandler: corev1.ProbeHandler{
			HTTPGet: &corev1.HTTPGetAction{
				Path: probe.Path,
				Port: intstr.Parse(probe.Port),
			},
		},
		InitialDelaySeconds: probe.InitialDelaySeconds,
	}
}

// reconcileAppMiddlewares converges the Traefik Middleware objects the
// app service routes reference, reaping the ones no service declares
// anymore.
func (r *CoreDBReconciler) reconcileAppMiddlewares(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	logger := log.FromContext(ctx)

	desired, err := r.buildAppMiddlewares(db)
	if err != nil {
		return err
	}
	desiredNames := make([]string, 0, len(desired))
	for _, middleware := range desired {
		desiredNames = append(desiredNames, middleware.Name)
	}

	var actual traefikv1alpha1.MiddlewareList
	err = r.List(ctx, &actual,
		client.InNamespace(db.Namespace),
		client.MatchingLabels(metadata.AppServiceSelector(db.Name)))
	if err != nil {
		return fmt.Errorf("failed to list app service middlewares: %w", err)
	}
	for i := range actual.Items {
		middleware := &actual.Items[i]
		if slices.Contains(desiredNames, middleware.Name) {
			continue
		}
		logger.Info("Deleting app service middleware", "middleware", middleware.Name)
		if err := client.IgnoreNotFound(r.Delete(ctx, middleware)); err != nil {
			return fmt.Errorf("failed to delete middleware %s: %w", middleware.Name, err)
		}
	}

	for _, middleware := range desired {
		if err := r.applyChild(ctx, middleware, traefikv1alpha1.GroupVersion.WithKind("Middleware")); err != nil {
			return fmt.Errorf("failed to apply middleware %s: %w", middleware.Name, err)
		}
	}
	return nil
}

func (r *CoreDBReconciler) buildAppMiddlewares(db *coredbv1alpha1.CoreDB) ([]*traefikv1alpha1.Middleware, error) {
	var middlewares []*traefikv1alpha1.Middleware
	for _, svc := range db.Spec.AppServices {
		for _, appMiddleware := range svc.Middlewares {
			name, spec := middlewareSpec(appMiddleware)
			if name == "" {
				continue
			}
			middleware := &traefikv1alpha1.Middleware{
				ObjectMeta: metav1.ObjectMeta{
					Name:      names.Middleware(db.Name, name),
					Namespace: db.Namespace,
					Labels:    metadata.AppServiceSelector(db.Name),
				},
				Spec: spec,
			}
			if err := controllerutil.SetControllerReference(db, middleware, r.Scheme); err != nil {
				return nil, fmt.Errorf("failed to set owner on middleware %s: %w", middleware.Name, err)
			}
			middlewares = append(middlewares, middleware)
		}
	}
	return middlewares, nil
}

// middlewareSpec maps one spec middleware variant onto the Traefik
// resource shape.
func middlewareSpec(m coredbv1alpha1.AppMiddleware) (string, traefikv1alpha1.MiddlewareSpec) {
	switch {
	case m.CustomRequestHeaders != nil:
		return m.CustomRequestHeaders.Name, traefikv1alpha1.MiddlewareSpec{
			Headers: &traefikv1alpha1.Headers{
				CustomRequestHeaders: m.CustomRequestHeaders.Config,
			},
		}
	case m.StripPrefix != nil:
		return m.StripPrefix.Name, traefikv1alpha1.MiddlewareSpec{
			StripPrefix: &traefikv1alpha1.StripPrefix{
				Prefixes: m.StripPrefix.Config,
			},
		}
	case m.ReplacePathRegex != nil:
		return m.ReplacePathRegex.Name, traefikv1alpha1.MiddlewareSpec{
			ReplacePathRegex: &traefikv1alpha1.ReplacePathRegex{
				Regex:       m.ReplacePathRegex.Config.Regex,
				Replacement: m.ReplacePathRegex.Config.Replacement,
			},
		}
	}
	return "", traefikv1alpha1.MiddlewareSpec{}
}

// reconcileAppIngress maintains the one shared IngressRoute carrying
// every routed app service path under the instance's host, and deletes
// it when nothing routes anymore.
func (r *CoreDBReconciler) reconcileAppIngress(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	routes, entryPoints := appIngressRoutes(db, r.Config.DataPlaneBasedomain)
	if len(routes) == 0 {
		ingress := &traefikv1alpha1.IngressRoute{
			ObjectMeta: metav1.ObjectMeta{Name: db.Name, Namespace: db.Namespace},
		}
		return r.deleteIfFound(ctx, ingress)
	}

	ingress := &traefikv1alpha1.IngressRoute{
		ObjectMeta: metav1.ObjectMeta{
			Name:      db.Name,
			Namespace: db.Namespace,
			Labels:    metadata.AppServiceSelector(db.Name),
		},
		Spec: traefikv1alpha1.IngressRouteSpec{
			EntryPoints: entryPoints,
			Routes:      routes,
			TLS:         &traefikv1alpha1.TLS{},
		},
	}
	if err := controllerutil.SetControllerReference(db, ingress, r.Scheme); err != nil {
		return fmt.Errorf("failed to set owner on app service ingress: %w", err)
	}
	return r.applyChild(ctx, ingress, traefikv1alpha1.GroupVersion.WithKind("IngressRoute"))
}

// appIngressRoutes collects the HTTP rules of every routed app service
// path, plus the union of entry points the rules ask for.
func appIngressRoutes(db *coredbv1alpha1.CoreDB, basedomain string) ([]traefikv1alpha1.Route, []string) {
	hostMatcher := fmt.Sprintf("Host(`%s.%s`)", db.Name, basedomain)

	var routes []traefikv1alpha1.Route
	entryPoints := map[string]bool{}
	for _, svc := range db.Spec.AppServices {
		resourceName := names.AppResource(db.Name, svc.Name)
		for _, routing := range svc.Routing {
			if routing.IngressPath == nil {
				continue
			}

			middlewares := make([]traefikv1alpha1.MiddlewareRef, 0, len(routing.Middlewares))
			for _, middleware := range routing.Middlewares {
				middlewares = append(middlewares, traefikv1alpha1.MiddlewareRef{
					Name:      names.Middleware(db.Name, middleware),
					Namespace: db.Namespace,
				})
			}

			routes = append(routes, traefikv1alpha1.Route{
				Match: fmt.Sprintf("%s && PathPrefix(`%s`)", hostMatcher, *routing.IngressPath),
				Kind:  "Rule",
				Services: []traefikv1alpha1.Service{{
					Name: resourceName,
					Kind: "Service",
					Port: intstr.FromInt32(routing.Port),
				}},
				Middlewares: middlewares,
			})

			if len(routing.EntryPoints) == 0 {
				entryPoints[appServiceEntryPoint] = true
				continue
			}
			for _, entryPoint := range routing.EntryPoints {
				entryPoints[entryPoint] = true
			}
		}
	}

	points := slices.Sorted(maps.Keys(entryPoints))
	return routes, points
}
