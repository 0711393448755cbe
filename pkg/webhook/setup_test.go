package webhook

import (
	"net/http"
	"testing"

	"github.com/go-logr/logr"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/manager"
	ctrlwebhook "sigs.k8s.io/controller-runtime/pkg/webhook"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
)

// mockManager implements the slice of manager.Manager that Setup touches.
type mockManager struct {
	manager.Manager
	scheme *runtime.Scheme
	server *mockServer
}

func (m *mockManager) GetScheme() *runtime.Scheme { return m.scheme }

func (m *mockManager) GetWebhookServer() ctrlwebhook.Server { return m.server }

func (m *mockManager) GetLogger() logr.Logger { return logr.Discard() }

type mockServer struct {
	ctrlwebhook.Server
	registered []string
}

func (s *mockServer) Register(path string, handler http.Handler) {
	s.registered = append(s.registered, path)
}

func newTestScheme(tb testing.TB) *runtime.Scheme {
	tb.Helper()
	s := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(s); err != nil {
		tb.Fatalf("failed to add client-go scheme: %v", err)
	}
	if err := coredbv1alpha1.AddToScheme(s); err != nil {
		tb.Fatalf("failed to add coredb scheme: %v", err)
	}
	return s
}

func TestSetup(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		opts      Options
		wantPaths []string
	}{
		"enabled registers both handlers": {
			opts:      Options{Enable: true},
			wantPaths: []string{MutatePath, ValidatePath},
		},
		"disabled registers nothing": {
			opts:      Options{Enable: false},
			wantPaths: nil,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			server := &mockServer{}
			mgr := &mockManager{scheme: newTestScheme(t), server: server}

			if err := Setup(mgr, tc.opts); err != nil {
				t.Fatalf("Setup() error: %v", err)
			}

			if len(server.registered) != len(tc.wantPaths) {
				t.Fatalf("registered paths = %v, want %v", server.registered, tc.wantPaths)
			}
			for i, path := range tc.wantPaths {
				if server.registered[i] != path {
					t.Errorf("registered[%d] = %s, want %s", i, server.registered[i], path)
				}
			}
		})
	}
}
