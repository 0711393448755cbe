package coredb

import (
	"context"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/client"
)

// fieldManager is the server-side apply field manager for every child
// resource. Changing it orphans fields owned by the old manager, so it
// must stay stable across releases.
const fieldManager = "cntrlr"

// applyChild server-side applies one desired child with force
// ownership. The GVK must be set explicitly because typed objects
// reach the client with an empty TypeMeta.
func (r *CoreDBReconciler) applyChild(ctx context.Context, obj client.Object, gvk schema.GroupVersionKind) error {
	obj.GetObjectKind().SetGroupVersionKind(gvk)
	return r.Patch(
		ctx,
		obj,
		client.Apply,
		client.ForceOwnership,
		client.FieldOwner(fieldManager),
	)
}

func objectMeta(name, namespace string) metav1.ObjectMeta {
	return metav1.ObjectMeta{Name: name, Namespace: namespace}
}

// deleteIfFound deletes a child by name, treating an absent object as
// already deleted.
func (r *CoreDBReconciler) deleteIfFound(ctx context.Context, obj client.Object) error {
	err := r.Get(ctx, client.ObjectKeyFromObject(obj), obj)
	if err != nil {
		return client.IgnoreNotFound(err)
	}
	return client.IgnoreNotFound(r.Delete(ctx, obj))
}
