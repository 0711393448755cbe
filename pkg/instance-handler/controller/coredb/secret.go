package coredb

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"time"

	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"

	coredbv1alpha1 "github.com/coredb-io/coredb-operator/api/v1alpha1"
	"github.com/coredb-io/coredb-operator/pkg/instance-handler/names"
	"github.com/coredb-io/coredb-operator/pkg/util/metadata"
)

const passwordLength = 16

const passwordChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// reconcileConnectionSecret applies the superuser connection secret.
// The password is generated exactly once for the lifetime of the
// instance: any labeled secret already carrying a password wins, and
// only the derived fields (hosts, URIs, port) are recomputed.
func (r *CoreDBReconciler) reconcileConnectionSecret(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	password, err := r.existingPassword(ctx, db)
	if err != nil {
		return requeueAfter(requeueOnError, fmt.Errorf("failed to look up existing password: %w", err))
	}
	if password == "" {
		password, err = generatePassword(passwordLength)
		if err != nil {
			return fmt.Errorf("failed to generate password: %w", err)
		}
	}

	secret, err := buildConnectionSecret(db, password, r.Scheme)
	if err != nil {
		return fmt.Errorf("failed to build connection secret: %w", err)
	}
	err = r.applyChild(ctx, secret, corev1.SchemeGroupVersion.WithKind("Secret"))
	if err != nil {
		return requeueAfter(10*time.Second, fmt.Errorf("failed to apply connection secret: %w", err))
	}
	return nil
}

// existingPassword returns the password held by any secret labeled for
// this instance, or empty when none carries one.
func (r *CoreDBReconciler) existingPassword(ctx context.Context, db *coredbv1alpha1.CoreDB) (string, error) {
	var secrets corev1.SecretList
	err := r.List(ctx, &secrets,
		client.InNamespace(db.Namespace),
		client.MatchingLabels(metadata.StandardLabels(db.Name)))
	if err != nil {
		return "", err
	}
	for _, secret := range secrets.Items {
		if password, ok := secret.Data["password"]; ok {
			return string(password), nil
		}
	}
	return "", nil
}

func buildConnectionSecret(db *coredbv1alpha1.CoreDB, password string, scheme *runtime.Scheme) (*corev1.Secret, error) {
	port := strconv.Itoa(int(db.Spec.Port))
	host := names.ServiceHost(names.ReadService(db.Name), db.Namespace)

	data := map[string][]byte{
		"user":     []byte("postgres"),
		"username": []byte("postgres"),
		"password": []byte(password),
		"port":     []byte(port),
		"host":     []byte(host),
		"r_uri":    []byte(connectionURI(password, names.ReadService(db.Name), db.Namespace, port)),
		"rw_uri":   []byte(connectionURI(password, names.ReadWriteService(db.Name), db.Namespace, port)),
		"ro_uri":   []byte(connectionURI(password, names.ReadOnlyService(db.Name), db.Namespace, port)),
	}
	if db.Spec.ConnectionPooler != nil && db.Spec.ConnectionPooler.Enabled {
		data["pooler_uri"] = []byte(connectionURI(password, names.Pooler(db.Name), db.Namespace, port))
	}

	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      names.ConnectionSecret(db.Name),
			Namespace: db.Namespace,
			Labels:    metadata.StandardLabels(db.Name),
		},
		Data: data,
	}
	if err := controllerutil.SetControllerReference(db, secret, scheme); err != nil {
		return nil, err
	}
	return secret, nil
}

func connectionURI(password, service, namespace, port string) string {
	return fmt.Sprintf("postgresql://postgres:%s@%s:%s",
		password, names.ServiceHost(service, namespace), port)
}

// reconcileReadOnlyRoleSecret creates the credentials secret for the
// readonly Postgres role. Unlike the connection secret it is created
// once and then left alone entirely.
func (r *CoreDBReconciler) reconcileReadOnlyRoleSecret(ctx context.Context, db *coredbv1alpha1.CoreDB) error {
	const role = "readonly"

	var existing corev1.Secret
	err := r.Get(ctx, types.NamespacedName{
		Name:      names.ReadOnlyRoleSecret(db.Name),
		Namespace: db.Namespace,
	}, &existing)
	if err == nil {
		return nil
	}
	if !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to get role secret: %w", err)
	}

	password, err := generatePassword(passwordLength)
	if err != nil {
		return fmt.Errorf("failed to generate role password: %w", err)
	}

	secret := &corev1.Secret{
		ObjectMeta: metav1.ObjectMeta{
			Name:      names.ReadOnlyRoleSecret(db.Name),
			Namespace: db.Namespace,
			Labels: metadata.MergeLabels(metadata.StandardLabels(db.Name), map[string]string{
				metadata.LabelRole: role,
			}),
		},
		Data: map[string][]byte{
			"username": []byte(role),
			"password": []byte(password),
		},
	}
	if err := controllerutil.SetControllerReference(db, secret, r.Scheme); err != nil {
		return fmt.Errorf("failed to set owner on role secret: %w", err)
	}
	err = r.applyChild(ctx, secret, corev1.SchemeGroupVersion.WithKind("Secret"))
	if err != nil {
		return fmt.Errorf("failed to apply role secret: %w", err)
	}
	return nil
}

func generatePassword(length int) (string, error) {
	charset := big.NewInt(int64(len(passwordChars)))
	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, charset)
		if err != nil {
			return "", err
		}
		buf[i] = passwordChars[n.Int64()]
	}
	return string(buf), nil
}
