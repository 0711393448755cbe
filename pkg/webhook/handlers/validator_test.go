package handlers

import (
	"context"
	"strings"
	"testing"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
)

func validCoreDB(name string) *coredbv1alpha1.CoreDB {
	return &coredbv1alpha1.CoreDB{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default"},
		Spec: coredbv1alpha1.CoreDBSpec{
			Replicas: 1,
			Storage:  resource.MustParse("10Gi"),
		},
	}
}

func TestCoreDBValidatorCreate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		db        *coredbv1alpha1.CoreDB
		expectErr string
	}{
		"valid instance passes": {
			db: validCoreDB("sample"),
		},
		"name too long is rejected": {
			db:        validCoreDB(strings.Repeat("a", 44)),
			expectErr: "metadata.name",
		},
		"name at the limit passes": {
			db: validCoreDB(strings.Repeat("a", 43)),
		},
		"negative replicas rejected": {
			db: func() *coredbv1alpha1.CoreDB {
				db := validCoreDB("sample")
				db.Spec.Replicas = -1
				return db
			}(),
			expectErr: "spec.replicas",
		},
		"trunk install without name rejected": {
			db: func() *coredbv1alpha1.CoreDB {
				db := validCoreDB("sample")
				db.Spec.TrunkInstalls = []coredbv1alpha1.TrunkInstall{{Name: ""}}
				return db
			}(),
			expectErr: "spec.trunkInstalls[0]",
		},
		"extension without name rejected": {
			db: func() *coredbv1alpha1.CoreDB {
				db := validCoreDB("sample")
				db.Spec.Extensions = []coredbv1alpha1.Extension{{Name: ""}}
				return db
			}(),
			expectErr: "spec.extensions[0]",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			v := NewCoreDBValidator()
			_, err := v.ValidateCreate(context.Background(), tc.db)

			if tc.expectErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tc.expectErr)
				}
				if !strings.Contains(err.Error(), tc.expectErr) {
					t.Errorf("error %q does not contain %q", err.Error(), tc.expectErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCoreDBValidatorUpdate(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		oldStorage string
		newStorage string
		expectErr  string
	}{
		"growth allowed":    {oldStorage: "10Gi", newStorage: "20Gi"},
		"unchanged allowed": {oldStorage: "10Gi", newStorage: "10Gi"},
		"shrink rejected":   {oldStorage: "20Gi", newStorage: "10Gi", expectErr: "cannot be reduced"},
		"equivalent quantity in different unit allowed": {
			oldStorage: "1Gi",
			newStorage: "1024Mi",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			oldDB := validCoreDB("sample")
			oldDB.Spec.Storage = resource.MustParse(tc.oldStorage)
			newDB := validCoreDB("sample")
			newDB.Spec.Storage = resource.MustParse(tc.newStorage)

			v := NewCoreDBValidator()
			_, err := v.ValidateUpdate(context.Background(), oldDB, newDB)

			if tc.expectErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, got nil", tc.expectErr)
				}
				if !strings.Contains(err.Error(), tc.expectErr) {
					t.Errorf("error %q does not contain %q", err.Error(), tc.expectErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestCoreDBValidatorUpdateSharedirShrinkRejected(t *testing.T) {
	t.Parallel()

	oldDB := validCoreDB("sample")
	oldDB.Spec.SharedirStorage = resource.MustParse("2Gi")
	newDB := validCoreDB("sample")
	newDB.Spec.SharedirStorage = resource.MustParse("1Gi")

	v := NewCoreDBValidator()
	_, err := v.ValidateUpdate(context.Background(), oldDB, newDB)
	if err == nil {
		t.Fatal("expected shrink of sharedirStorage to be rejected")
	}
	if !strings.Contains(err.Error(), "spec.sharedirStorage") {
		t.Errorf("error %q does not name spec.sharedirStorage", err.Error())
	}
}

func TestCoreDBValidatorRejectsWrongType(t *testing.T) {
	t.Parallel()

	v := NewCoreDBValidator()
	if _, err := v.ValidateCreate(context.Background(), &corev1.Pod{}); err == nil {
		t.Fatal("expected error for non-CoreDB object on create, got nil")
	}
	if _, err := v.ValidateUpdate(context.Background(), &corev1.Pod{}, validCoreDB("sample")); err == nil {
		t.Fatal("expected error for non-CoreDB old object on update, got nil")
	}
}

func TestCoreDBValidatorDeleteAlwaysAllowed(t *testing.T) {
	t.Parallel()

	v := NewCoreDBValidator()
	if _, err := v.ValidateDelete(context.Background(), validCoreDB("sample")); err != nil {
		t.Fatalf("unexpected error on delete: %v", err)
	}
}
