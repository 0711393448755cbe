package handlers

import (
	"context"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/webhook"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/monitoring"
)

// +kubebuilder:webhook:path=/validate-coredb-io-v1alpha1-coredb,mutating=false,failurePolicy=fail,sideEffects=None,groups=coredb.io,resources=coredbs,verbs=create;update,versions=v1alpha1,name=vcoredb.kb.io,admissionReviewVersions=v1

// maxInstanceNameLength caps the CoreDB name so that every derived child
// name, including CNPG service suffixes, Traefik route indexes and the
// snapshot ScheduledBackup, stays inside the 63-character DNS label limit.
const maxInstanceNameLength = 43

// CoreDBValidator validates Create and Update events for CoreDB resources.
type CoreDBValidator struct{}

var _ webhook.CustomValidator = &CoreDBValidator{}

// NewCoreDBValidator creates a new validator for CoreDB resources.
func NewCoreDBValidator() *CoreDBValidator {
	return &CoreDBValidator{}
}

func (v *CoreDBValidator) ValidateCreate(
	ctx context.Context,
	obj runtime.Object,
) (admission.Warnings, error) {
	start := time.Now()

	db, ok := obj.(*coredbv1alpha1.CoreDB)
	if !ok {
		err := fmt.Errorf("expected CoreDB, got %T", obj)
		monitoring.RecordWebhookRequest("validate", "coredb", err, time.Since(start))
		return nil, err
	}

	err := v.validateSpec(db)
	monitoring.RecordWebhookRequest("validate", "coredb", err, time.Since(start))
	return nil, err
}

func (v *CoreDBValidator) ValidateUpdate(
	ctx context.Context,
	oldObj, newObj runtime.Object,
) (admission.Warnings, error) {
	start := time.Now()

	db, ok := newObj.(*coredbv1alpha1.CoreDB)
	if !ok {
		err := fmt.Errorf("expected CoreDB, got %T", newObj)
		monitoring.RecordWebhookRequest("validate", "coredb", err, time.Since(start))
		return nil, err
	}
	oldDB, ok := oldObj.(*coredbv1alpha1.CoreDB)
	if !ok {
		err := fmt.Errorf("expected CoreDB, got %T", oldObj)
		monitoring.RecordWebhookRequest("validate", "coredb", err, time.Since(start))
		return nil, err
	}

	err := v.validateSpec(db)
	if err == nil {
		err = v.validateNoStorageShrink(oldDB, db)
	}
	monitoring.RecordWebhookRequest("validate", "coredb", err, time.Since(start))
	return nil, err
}

func (v *CoreDBValidator) ValidateDelete(
	ctx context.Context,
	obj runtime.Object,
) (admission.Warnings, error) {
	return nil, nil
}

// validateSpec enforces the rules shared by Create and Update.
func (v *CoreDBValidator) validateSpec(db *coredbv1alpha1.CoreDB) error {
	if len(db.Name) > maxInstanceNameLength {
		return fmt.Errorf(
			"metadata.name %q is %d characters long, must be at most %d so derived resource names fit the DNS label limit",
			db.Name, len(db.Name), maxInstanceNameLength,
		)
	}

	if db.Spec.Replicas < 0 {
		return fmt.Errorf("spec.replicas must not be negative, got %d", db.Spec.Replicas)
	}

	for i, install := range db.Spec.TrunkInstalls {
		if install.Name == "" {
			return fmt.Errorf("spec.trunkInstalls[%d] has no name", i)
		}
	}

	for i, ext := range db.Spec.Extensions {
		if ext.Name == "" {
			return fmt.Errorf("spec.extensions[%d] has no name", i)
		}
	}

	return nil
}

// validateNoStorageShrink rejects updates that reduce any of the volume
// sizes. Postgres data volumes cannot be shrunk in place; allowing the spec
// change would wedge the CNPG cluster on a PVC resize it can never satisfy.
func (v *CoreDBValidator) validateNoStorageShrink(oldDB, newDB *coredbv1alpha1.CoreDB) error {
	volumes := []struct {
		field    string
		from, to resource.Quantity
	}{
		{"spec.storage", oldDB.Spec.Storage, newDB.Spec.Storage},
		{"spec.sharedirStorage", oldDB.Spec.SharedirStorage, newDB.Spec.SharedirStorage},
		{"spec.pkglibdirStorage", oldDB.Spec.PkglibdirStorage, newDB.Spec.PkglibdirStorage},
	}

	for _, vol := range volumes {
		if vol.from.IsZero() || vol.to.IsZero() {
			// Unset on either side means the default applies; nothing to compare.
			continue
		}
		if vol.to.Cmp(vol.from) < 0 {
			return fmt.Errorf(
				"%s cannot be reduced from %s to %s, volumes do not support shrinking",
				vol.field, vol.from.String(), vol.to.String(),
			)
		}
	}

	return nil
}
