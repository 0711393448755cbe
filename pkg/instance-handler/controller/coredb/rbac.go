package coredb

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	rbacv1 "k8s.io/api/rbac/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/instance-handler/names"
	"github.com/coredb-io/coredb-operator/pkg/util/metadata"
)

// reconcileRBAC applies the service account the instance pods run as,
// a namespace-scoped role with an empty rule set, and the binding
// between the two.
func (r *CoreDBReconciler) reconcileRBAC(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	sa, err := buildServiceAccount(db, r.Scheme)
	if err != nil {
		return fmt.Errorf("failed to build service account: %w", err)
	}
	err = r.applyChild(ctx, sa, corev1.SchemeGroupVersion.WithKind("ServiceAccount"))
	if err != nil {
		return fmt.Errorf("failed to apply service account: %w", err)
	}

	role, err := buildRole(db, r.Scheme)
	if err != nil {
		return fmt.Errorf("failed to build role: %w", err)
	}
	err = r.applyChild(ctx, role, rbacv1.SchemeGroupVersion.WithKind("Role"))
	if err != nil {
		return fmt.Errorf("failed to apply role: %w", err)
	}

	binding, err := buildRoleBinding(db, r.Scheme)
	if err != nil {
		return fmt.Errorf("failed to build role binding: %w", err)
	}
	err = r.applyChild(ctx, binding, rbacv1.SchemeGroupVersion.WithKind("RoleBinding"))
	if err != nil {
		return fmt.Errorf("failed to apply role binding: %w", err)
	}

	return nil
}

// buildServiceAccount constructs the instance service account. The
// CNPG Cluster references the same name through its service account
// template, so annotations requested there (workload identity, IAM
// role bindings) are stamped on the account itself as well.
func buildServiceAccount(db *coredbv1alpha1.CoreDB, scheme *runtime.Scheme) (*corev1.ServiceAccount, error) {
	sa := &corev1.ServiceAccount{
		ObjectMeta: metav1.ObjectMeta{
			Name:      names.ServiceAccount(db.Name),
			Namespace: db.Namespace,
			Labels:    metadata.StandardLabels(db.Name),
		},
	}
	if tpl := db.Spec.ServiceAccountTemplate; tpl != nil && len(tpl.Metadata.Annotations) > 0 {
		sa.Annotations = make(map[string]string, len(tpl.Metadata.Annotations))
		for k, v := range tpl.Metadata.Annotations {
			sa.Annotations[k] = v
		}
	}
	if err := controllerutil.SetControllerReference(db, sa, scheme); err != nil {
		return nil, err
	}
	return sa, nil
}

// buildRole constructs the instance role. The rule set is empty; rules
// are granted out of band when an instance needs API access.
func buildRole(db *coredbv1alpha1.CoreDB, scheme *runtime.Scheme) (*rbacv1.Role, error) {
	role := &rbacv1.Role{
		ObjectMeta: metav1.ObjectMeta{
			Name:      names.Role(db.Name),
			Namespace: db.Namespace,
			Labels:    metadata.StandardLabels(db.Name),
		},
		Rules: []rbacv1.PolicyRule{},
	}
	if err := controllerutil.SetControllerReference(db, role, scheme); err != nil {
		return nil, err
	}
	return role, nil
}

func buildRoleBinding(db *coredbv1alpha1.CoreDB, scheme *runtime.Scheme) (*rbacv1.RoleBinding, error) {
	binding := &rbacv1.RoleBinding{
		ObjectMeta: metav1.ObjectMeta{
			Name:      names.RoleBinding(db.Name),
			Namespace: db.Namespace,
			Labels:    metadata.StandardLabels(db.Name),
		},
		RoleRef: rbacv1.RoleRef{
			APIGroup: rbacv1.GroupName,
			Kind:     "Role",
			Name:     names.Role(db.Name),
		},
		Subjects: []rbacv1.Subject{
			{
				Kind:      rbacv1.ServiceAccountKind,
				Name:      names.ServiceAccount(db.Name),
				Namespace: db.Namespace,
			},
		},
	}
	if err := controllerutil.SetControllerReference(db, binding, scheme); err != nil {
		return nil, err
	}
	return binding, nil
}
