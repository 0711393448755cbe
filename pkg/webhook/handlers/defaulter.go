package handlers

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/webhook"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/defaults"
	"github.com/coredb-io/coredb-operator/pkg/monitoring"
)

// +kubebuilder:webhook:path=/mutate-coredb-io-v1alpha1-coredb,mutating=true,failurePolicy=fail,sideEffects=None,groups=coredb.io,resources=coredbs,verbs=create;update,versions=v1alpha1,name=mcoredb.kb.io,admissionReviewVersions=v1

// CoreDBDefaulter handles the mutation of CoreDB resources. It makes the
// invisible defaults visible in the stored spec, using the same defaulting
// the reconciler applies defensively at entry.
type CoreDBDefaulter struct{}

var _ webhook.CustomDefaulter = &CoreDBDefaulter{}

// NewCoreDBDefaulter creates a new defaulter handler.
func NewCoreDBDefaulter() *CoreDBDefaulter {
	return &CoreDBDefaulter{}
}

// Default implements webhook.CustomDefaulter.
func (d *CoreDBDefaulter) Default(ctx context.Context, obj runtime.Object) error {
	start := time.Now()

	db, ok := obj.(*coredbv1alpha1.CoreDB)
	if !ok {
		err := fmt.Errorf("expected CoreDB, got %T", obj)
		monitoring.RecordWebhookRequest("mutate", "coredb", err, time.Since(start))
		return err
	}

	defaults.PopulateCoreDBDefaults(db)
	monitoring.RecordWebhookRequest("mutate", "coredb", nil, time.Since(start))
	return nil
}
