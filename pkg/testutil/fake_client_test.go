package testutil

import (
	"context"
	"testing"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
)

func TestFakeClientWithFailures_Get(t *testing.T) {
	t.Parallel()

	scheme := runtime.NewScheme()
	_ = coredbv1alpha1.AddToScheme(scheme)

	tests := map[string]struct {
		config  *FailureConfig
		key     client.ObjectKey
		wantErr bool
	}{
		"no failure - get succeeds": {
			config: nil,
			key: client.ObjectKey{
				Name:      "test-db",
				Namespace: "default",
			},
			wantErr: false,
		},
		"fail on specific name": {
			config: &FailureConfig{
				OnGet: FailOnKeyName("test-db", ErrInjected),
			},
			key: client.ObjectKey{
				Name:      "test-db",
				Namespace: "default",
			},
			wantErr: true,
		},
		"no failure on different name": {
			config: &FailureConfig{
				OnGet: FailOnKeyName("other-db", ErrInjected),
			},
			key: client.ObjectKey{
				Name:      "test-db",
				Namespace: "default",
			},
			wantErr: false,
		},
		"always fail": {
			config: &FailureConfig{
				OnGet: func(key client.ObjectKey) error {
					return ErrInjected
				},
			},
			key: client.ObjectKey{
				Name:      "test-db",
				Namespace: "default",
			},
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			db := &coredbv1alpha1.CoreDB{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "test-db",
					Namespace: "default",
				},
			}

			baseClient := fake.NewClientBuilder().
				WithScheme(scheme).
				WithObjects(db).
				Build()

			fakeClient := NewFakeClientWithFailures(baseClient, tc.config)

			result := &coredbv1alpha1.CoreDB{}
			err := fakeClient.Get(context.Background(), tc.key, result)

			if (err != nil) != tc.wantErr {
				t.Errorf("Get() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFakeClientWithFailures_Create(t *testing.T) {
	t.Parallel()

	scheme := runtime.NewScheme()
	_ = coredbv1alpha1.AddToScheme(scheme)

	tests := map[string]struct {
		config  *FailureConfig
		obj     *coredbv1alpha1.CoreDB
		wantErr bool
	}{
		"no failure - create succeeds": {
			config: nil,
			obj: &coredbv1alpha1.CoreDB{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "new-db",
					Namespace: "default",
				},
			},
			wantErr: false,
		},
		"fail on specific object name": {
			config: &FailureConfig{
				OnCreate: FailOnObjectName("new-db", ErrPermissionError),
			},
			obj: &coredbv1alpha1.CoreDB{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "new-db",
					Namespace: "default",
				},
			},
			wantErr: true,
		},
		"no failure on different object name": {
			config: &FailureConfig{
				OnCreate: FailOnObjectName("other-db", ErrPermissionError),
			},
			obj: &coredbv1alpha1.CoreDB{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "new-db",
					Namespace: "default",
				},
			},
			wantErr: false,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			baseClient := fake.NewClientBuilder().
				WithScheme(scheme).
				Build()

			fakeClient := NewFakeClientWithFailures(baseClient, tc.config)

			err := fakeClient.Create(context.Background(), tc.obj)

			if (err != nil) != tc.wantErr {
				t.Errorf("Create() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFakeClientWithFailures_Update(t *testing.T) {
	t.Parallel()

	scheme := runtime.NewScheme()
	_ = coredbv1alpha1.AddToScheme(scheme)

	tests := map[string]struct {
		config  *FailureConfig
		wantErr bool
	}{
		"no failure - update succeeds": {
			config:  nil,
			wantErr: false,
		},
		"fail on update": {
			config: &FailureConfig{
				OnUpdate: FailOnObjectName("test-db", ErrInjected),
			},
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			db := &coredbv1alpha1.CoreDB{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "test-db",
					Namespace: "default",
				},
			}

			baseClient := fake.NewClientBuilder().
				WithScheme(scheme).
				WithObjects(db).
				Build()

			fakeClient := NewFakeClientWithFailures(baseClient, tc.config)

			err := fakeClient.Update(context.Background(), db)

			if (err != nil) != tc.wantErr {
				t.Errorf("Update() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFakeClientWithFailures_Delete(t *testing.T) {
	t.Parallel()

	scheme := runtime.NewScheme()
	_ = coredbv1alpha1.AddToScheme(scheme)

	tests := map[string]struct {
		config  *FailureConfig
		wantErr bool
	}{
		"no failure - delete succeeds": {
			config:  nil,
			wantErr: false,
		},
		"fail on delete": {
			config: &FailureConfig{
				OnDelete: FailOnObjectName("test-db", ErrInjected),
			},
			wantErr: true,
		},
		"fail on namespace": {
			config: &FailureConfig{
				OnDelete: FailOnNamespace("default", ErrPermissionError),
			},
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			db := &coredbv1alpha1.CoreDB{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "test-db",
					Namespace: "default",
				},
			}

			baseClient := fake.NewClientBuilder().
				WithScheme(scheme).
				WithObjects(db.DeepCopy()).
				Build()

			fakeClient := NewFakeClientWithFailures(baseClient, tc.config)

			err := fakeClient.Delete(context.Background(), db)

			if (err != nil) != tc.wantErr {
				t.Errorf("Delete() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFakeClientWithFailures_StatusUpdate(t *testing.T) {
	t.Parallel()

	scheme := runtime.NewScheme()
	_ = coredbv1alpha1.AddToScheme(scheme)

	tests := map[string]struct {
		config  *FailureConfig
		wantErr bool
	}{
		"no failure - status update succeeds": {
			config:  nil,
			wantErr: false,
		},
		"fail on status update": {
			config: &FailureConfig{
				OnStatusUpdate: FailOnObjectName("test-db", ErrInjected),
			},
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			db := &coredbv1alpha1.CoreDB{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "test-db",
					Namespace: "default",
				},
			}

			baseClient := fake.NewClientBuilder().
				WithScheme(scheme).
				WithObjects(db).
				WithStatusSubresource(&coredbv1alpha1.CoreDB{}).
				Build()

			fakeClient := NewFakeClientWithFailures(baseClient, tc.config)

			db.Status.Running = true
			err := fakeClient.Status().Update(context.Background(), db)

			if (err != nil) != tc.wantErr {
				t.Errorf("Status().Update() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFakeClientWithFailures_List(t *testing.T) {
	t.Parallel()

	scheme := runtime.NewScheme()
	_ = coredbv1alpha1.AddToScheme(scheme)

	tests := map[string]struct {
		config  *FailureConfig
		wantErr bool
	}{
		"no failure - list succeeds": {
			config:  nil,
			wantErr: false,
		},
		"fail on list": {
			config: &FailureConfig{
				OnList: func(list client.ObjectList) error {
					return ErrInjected
				},
			},
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			db := &coredbv1alpha1.CoreDB{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "test-db",
					Namespace: "default",
				},
			}

			baseClient := fake.NewClientBuilder().
				WithScheme(scheme).
				WithObjects(db).
				Build()

			fakeClient := NewFakeClientWithFailures(baseClient, tc.config)

			dbList := &coredbv1alpha1.CoreDBList{}
			err := fakeClient.List(context.Background(), dbList)

			if (err != nil) != tc.wantErr {
				t.Errorf("List() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFakeClientWithFailures_Patch(t *testing.T) {
	t.Parallel()

	scheme := runtime.NewScheme()
	_ = coredbv1alpha1.AddToScheme(scheme)

	tests := map[string]struct {
		config  *FailureConfig
		wantErr bool
	}{
		"no failure - patch succeeds": {
			config:  nil,
			wantErr: false,
		},
		"fail on patch": {
			config: &FailureConfig{
				OnPatch: FailOnObjectName("test-db", ErrInjected),
			},
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			db := &coredbv1alpha1.CoreDB{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "test-db",
					Namespace: "default",
				},
			}

			baseClient := fake.NewClientBuilder().
				WithScheme(scheme).
				WithObjects(db.DeepCopy()).
				Build()

			fakeClient := NewFakeClientWithFailures(baseClient, tc.config)

			patch := client.MergeFrom(db.DeepCopy())
			err := fakeClient.Patch(context.Background(), db, patch)

			if (err != nil) != tc.wantErr {
				t.Errorf("Patch() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFakeClientWithFailures_DeleteAllOf(t *testing.T) {
	t.Parallel()

	scheme := runtime.NewScheme()
	_ = coredbv1alpha1.AddToScheme(scheme)

	tests := map[string]struct {
		config  *FailureConfig
		wantErr bool
	}{
		"no failure - deleteAllOf succeeds": {
			config:  nil,
			wantErr: false,
		},
		"fail on deleteAllOf": {
			config: &FailureConfig{
				OnDeleteAllOf: func(obj client.Object) error {
					return ErrInjected
				},
			},
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			db := &coredbv1alpha1.CoreDB{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "test-db",
					Namespace: "default",
				},
			}

			baseClient := fake.NewClientBuilder().
				WithScheme(scheme).
				WithObjects(db).
				Build()

			fakeClient := NewFakeClientWithFailures(baseClient, tc.config)

			err := fakeClient.DeleteAllOf(
				context.Background(),
				&coredbv1alpha1.CoreDB{},
				client.InNamespace("default"),
			)

			if (err != nil) != tc.wantErr {
				t.Errorf("DeleteAllOf() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFakeClientWithFailures_StatusPatch(t *testing.T) {
	t.Parallel()

	scheme := runtime.NewScheme()
	_ = coredbv1alpha1.AddToScheme(scheme)

	tests := map[string]struct {
		config  *FailureConfig
		wantErr bool
	}{
		"no failure - status patch succeeds": {
			config:  nil,
			wantErr: false,
		},
		"fail on status patch": {
			config: &FailureConfig{
				OnStatusPatch: FailOnObjectName("test-db", ErrInjected),
			},
			wantErr: true,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			db := &coredbv1alpha1.CoreDB{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "test-db",
					Namespace: "default",
				},
			}

			baseClient := fake.NewClientBuilder().
				WithScheme(scheme).
				WithObjects(db.DeepCopy()).
				WithStatusSubresource(&coredbv1alpha1.CoreDB{}).
				Build()

			fakeClient := NewFakeClientWithFailures(baseClient, tc.config)

			patch := client.MergeFrom(db.DeepCopy())
			db.Status.Running = true
			err := fakeClient.Status().Patch(context.Background(), db, patch)

			if (err != nil) != tc.wantErr {
				t.Errorf("Status().Patch() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestHelperFunctions_ObjectMatchers(t *testing.T) {
	t.Parallel()

	db := &coredbv1alpha1.CoreDB{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "test-db",
			Namespace: "default",
		},
	}

	tests := map[string]struct {
		setupFn func() func(client.Object) error
		wantErr error
	}{
		"FailOnObjectName - matching name": {
			setupFn: func() func(client.Object) error {
				return FailOnObjectName("test-db", ErrInjected)
			},
			wantErr: ErrInjected,
		},
		"FailOnObjectName - different name": {
			setupFn: func() func(client.Object) error {
				return FailOnObjectName("other-db", ErrInjected)
			},
			wantErr: nil,
		},
		"FailOnNamespace - matching namespace": {
			setupFn: func() func(client.Object) error {
				return FailOnNamespace("default", ErrInjected)
			},
			wantErr: ErrInjected,
		},
		"FailOnNamespace - different namespace": {
			setupFn: func() func(client.Object) error {
				return FailOnNamespace("other-ns", ErrInjected)
			},
			wantErr: nil,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fn := tc.setupFn()
			err := fn(db)

			if err != tc.wantErr {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestHelperFunctions_KeyMatchers(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		setupFn func() func(client.ObjectKey) error
		key     client.ObjectKey
		wantErr error
	}{
		"FailOnKeyName - matching name": {
			setupFn: func() func(client.ObjectKey) error {
				return FailOnKeyName("test-db", ErrInjected)
			},
			key:     client.ObjectKey{Name: "test-db", Namespace: "default"},
			wantErr: ErrInjected,
		},
		"FailOnKeyName - different name": {
			setupFn: func() func(client.ObjectKey) error {
				return FailOnKeyName("other-db", ErrInjected)
			},
			key:     client.ObjectKey{Name: "test-db", Namespace: "default"},
			wantErr: nil,
		},
		"FailOnNamespacedKeyName - matching name and namespace": {
			setupFn: func() func(client.ObjectKey) error {
				return FailOnNamespacedKeyName("test-db", "default", ErrInjected)
			},
			key:     client.ObjectKey{Name: "test-db", Namespace: "default"},
			wantErr: ErrInjected,
		},
		"FailOnNamespacedKeyName - matching name but different namespace": {
			setupFn: func() func(client.ObjectKey) error {
				return FailOnNamespacedKeyName("test-db", "default", ErrInjected)
			},
			key:     client.ObjectKey{Name: "test-db", Namespace: "kube-system"},
			wantErr: nil,
		},
		"FailOnNamespacedKeyName - different name but matching namespace": {
			setupFn: func() func(client.ObjectKey) error {
				return FailOnNamespacedKeyName("test-db", "default", ErrInjected)
			},
			key:     client.ObjectKey{Name: "other-db", Namespace: "default"},
			wantErr: nil,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fn := tc.setupFn()
			err := fn(tc.key)

			if err != tc.wantErr {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestHelperFunctions_CallCounters(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		nCalls  int
		wantErr error
		calls   []error
	}{
		"FailKeyAfterNCalls - 2 successful then fail": {
			nCalls:  2,
			wantErr: ErrInjected,
			calls:   []error{nil, nil, ErrInjected},
		},
		"FailKeyAfterNCalls - 0 always fails": {
			nCalls:  0,
			wantErr: ErrInjected,
			calls:   []error{ErrInjected, ErrInjected},
		},
		"FailKeyAfterNCalls - 1 successful then fail": {
			nCalls:  1,
			wantErr: ErrPermissionError,
			calls:   []error{nil, ErrPermissionError, ErrPermissionError},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fn := FailKeyAfterNCalls(tc.nCalls, tc.wantErr)
			key := client.ObjectKey{Name: "test", Namespace: "default"}

			for i, wantErr := range tc.calls {
				err := fn(key)
				if err != wantErr {
					t.Errorf("Call %d: expected error %v, got %v", i+1, wantErr, err)
				}
			}
		})
	}
}

func TestHelperFunctions_ObjCallCounters(t *testing.T) {
	t.Parallel()

	db := &coredbv1alpha1.CoreDB{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "test-db",
			Namespace: "default",
		},
	}

	tests := map[string]struct {
		nCalls  int
		wantErr error
		calls   []error
	}{
		"FailObjAfterNCalls - 1 successful then fail": {
			nCalls:  1,
			wantErr: ErrPermissionError,
			calls:   []error{nil, ErrPermissionError},
		},
		"FailObjAfterNCalls - 0 always fails": {
			nCalls:  0,
			wantErr: ErrInjected,
			calls:   []error{ErrInjected, ErrInjected},
		},
		"FailObjAfterNCalls - 2 successful then fail": {
			nCalls:  2,
			wantErr: ErrNetworkTimeout,
			calls:   []error{nil, nil, ErrNetworkTimeout},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fn := FailObjAfterNCalls(tc.nCalls, tc.wantErr)

			for i, wantErr := range tc.calls {
				err := fn(db)
				if err != wantErr {
					t.Errorf("Call %d: expected error %v, got %v", i+1, wantErr, err)
				}
			}
		})
	}
}

func TestHelperFunctions_ObjListCallCounters(t *testing.T) {
	t.Parallel()

	dbList := &coredbv1alpha1.CoreDBList{}

	tests := map[string]struct {
		nCalls  int
		wantErr error
		calls   []error
	}{
		"FailObjListAfterNCalls - 1 successful then fail": {
			nCalls:  1,
			wantErr: ErrNetworkTimeout,
			calls:   []error{nil, ErrNetworkTimeout},
		},
		"FailObjListAfterNCalls - 0 always fails": {
			nCalls:  0,
			wantErr: ErrInjected,
			calls:   []error{ErrInjected, ErrInjected},
		},
		"FailObjListAfterNCalls - 2 successful then fail": {
			nCalls:  2,
			wantErr: ErrPermissionError,
			calls:   []error{nil, nil, ErrPermissionError},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fn := FailObjListAfterNCalls(tc.nCalls, tc.wantErr)

			for i, wantErr := range tc.calls {
				err := fn(dbList)
				if err != wantErr {
					t.Errorf("Call %d: expected error %v, got %v", i+1, wantErr, err)
				}
			}
		})
	}
}

func TestHelperFunctions_AlwaysFail(t *testing.T) {
	t.Parallel()

	db := &coredbv1alpha1.CoreDB{
		ObjectMeta: metav1.ObjectMeta{
			Name:      "test-db",
			Namespace: "default",
		},
	}
	key := client.ObjectKey{Name: "test", Namespace: "default"}

	tests := map[string]struct {
		input   any
		wantErr error
	}{
		"AlwaysFail with object": {
			input:   db,
			wantErr: ErrInjected,
		},
		"AlwaysFail with key": {
			input:   key,
			wantErr: ErrNetworkTimeout,
		},
		"AlwaysFail with list": {
			input:   &coredbv1alpha1.CoreDBList{},
			wantErr: ErrPermissionError,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			fn := AlwaysFail(tc.wantErr)
			err := fn(tc.input)

			if err != tc.wantErr {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestHelperFunctions_Panic(t *testing.T) {
	t.Parallel()

	t.Run("FailOnObjectName - panics on nil object", func(t *testing.T) {
		t.Parallel()

		defer func() {
			if r := recover(); r == nil {
				t.Errorf("Expected panic when meta.Accessor fails on nil")
			}
		}()

		fn := FailOnObjectName("test", ErrInjected)
		_ = fn(nil) // Should panic
	})

	t.Run("FailOnNamespace - panics on nil object", func(t *testing.T) {
		t.Parallel()

		defer func() {
			if r := recover(); r == nil {
				t.Errorf("Expected panic when meta.Accessor fails on nil")
			}
		}()

		fn := FailOnNamespace("default", ErrInjected)
		_ = fn(nil) // Should panic
	})
}
