package webhook

import (
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/webhook/admission"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/webhook/handlers"
)

// Paths the admission handlers are served on. These must match the
// MutatingWebhookConfiguration / ValidatingWebhookConfiguration manifests.
const (
	MutatePath   = "/mutate-coredb-io-v1alpha1-coredb"
	ValidatePath = "/validate-coredb-io-v1alpha1-coredb"
)

// Options contains the configuration required to set up the webhook server.
type Options struct {
	// Enable indicates whether to register the admission handlers.
	Enable bool
}

// Setup registers the CoreDB admission handlers with the manager's webhook
// server. Certificates are read from the server's CertDir; they must already
// be present on disk when the manager starts serving.
func Setup(mgr ctrl.Manager, opts Options) error {
	if !opts.Enable {
		return nil
	}

	logger := mgr.GetLogger().WithName("webhook-setup")
	logger.Info("Setting up admission webhooks")

	server := mgr.GetWebhookServer()
	scheme := mgr.GetScheme()

	server.Register(
		MutatePath,
		admission.WithCustomDefaulter(scheme, &coredbv1alpha1.CoreDB{}, handlers.NewCoreDBDefaulter()),
	)
	server.Register(
		ValidatePath,
		admission.WithCustomValidator(scheme, &coredbv1alpha1.CoreDB{}, handlers.NewCoreDBValidator()),
	)

	return nil
}
