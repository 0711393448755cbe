package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	netv1 "k8s.io/api/networking/v1"
	"k8s.io/client-go/tools/cache"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/manager"
)

////----------------------------------------
///  Resource watcher
//------------------------------------------
// This file contains the watcher setup and event cache accessors.

// ErrUnwatchedKinds is returned when trying to wait for resource kinds
// that aren't being watched by the ResourceWatcher.
type ErrUnwatchedKinds struct {
	Kinds []string
}

func (e *ErrUnwatchedKinds) Error() string {
	return fmt.Sprintf("the following kinds are not being watched by this ResourceWatcher: %v", e.Kinds)
}

// ResourceEvent represents a Kubernetes resource event.
type ResourceEvent struct {
	Type      string // "ADDED", "UPDATED", "DELETED"
	Kind      string // "Service", "Secret", "Cluster", etc.
	Name      string
	Namespace string
	Object    client.Object // The actual object (type-assert to specific type)
	Time      time.Time
}

// ResourceWatcher collects events from multiple resource types.
type ResourceWatcher struct {
	mu             sync.RWMutex
	events         []ResourceEvent
	eventCh        chan ResourceEvent
	subscribers    []chan ResourceEvent // Fan-out channels for WaitForMatch
	t              testing.TB
	extraResources []client.Object
	timeout        time.Duration  // Default timeout for WaitForMatch operations
	cmpOpts        []cmp.Option   // Default comparison options for WaitForMatch
	watchedKinds   map[string]any // Tracks which resource kinds are being watched
}

type Option func(rw *ResourceWatcher) error

// WithExtraResource adds a watch for an additional resource type. The object
// should be a pointer reference to the struct such as a custom resource.
//
// If you need to watch multiple resources, you can provide the list of
// resources.
func WithExtraResource(objs ...client.Object) Option {
	return func(rw *ResourceWatcher) error {
		rw.extraResources = append(rw.extraResources, objs...)
		return nil
	}
}

// WithTimeout sets the default timeout for WaitForMatch operations.
// If not set, defaults to 5 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(rw *ResourceWatcher) error {
		rw.timeout = timeout
		return nil
	}
}

// WithCmpOpts sets the default comparison options for WaitForMatch operations.
// These options are passed to go-cmp's Diff function.
func WithCmpOpts(opts ...cmp.Option) Option {
	return func(rw *ResourceWatcher) error {
		rw.cmpOpts = opts
		return nil
	}
}

// NewResourceWatcher creates a new ResourceWatcher and automatically watches
// the built-in kinds this operator manages directly: Service, Deployment,
// Secret, ConfigMap, and NetworkPolicy. Watch custom resources (for example
// the CNPG Cluster) by passing WithExtraResource.
func NewResourceWatcher(t testing.TB, ctx context.Context, mgr manager.Manager, opts ...Option) *ResourceWatcher {
	t.Helper()

	watcher := &ResourceWatcher{
		events:       []ResourceEvent{},
		eventCh:      make(chan ResourceEvent, 1000),
		t:            t,
		timeout:      5 * time.Second,
		cmpOpts:      nil,
		watchedKinds: make(map[string]any),
	}
	for _, o := range opts {
		if err := o(watcher); err != nil {
			t.Fatalf("Failed to set up watcher: %v", err)
		}
	}

	// Start background collector
	go watcher.collectEvents(ctx)

	// Automatically watch standard resources
	watcher.watchResource(ctx, mgr, &corev1.Service{})
	watcher.watchResource(ctx, mgr, &appsv1.Deployment{})
	watcher.watchResource(ctx, mgr, &corev1.Secret{})
	watcher.watchResource(ctx, mgr, &corev1.ConfigMap{})
	watcher.watchResource(ctx, mgr, &netv1.NetworkPolicy{})

	// Watch extra resources provided
	for _, res := range watcher.extraResources {
		watcher.watchResource(ctx, mgr, res)
	}

	return watcher
}

// EventCh returns the channel for receiving events directly.
// Useful for custom event processing logic.
func (rw *ResourceWatcher) EventCh() <-chan ResourceEvent {
	rw.t.Helper()
	return rw.eventCh
}

// SetTimeout updates the default timeout for WaitForMatch operations.
// This can be called at any time to change the timeout for subsequent calls.
func (rw *ResourceWatcher) SetTimeout(timeout time.Duration) {
	rw.t.Helper()
	rw.timeout = timeout
}

// ResetTimeout resets the timeout to the default value (5 seconds).
func (rw *ResourceWatcher) ResetTimeout() {
	rw.t.Helper()
	rw.timeout = 5 * time.Second
}

// SetCmpOpts updates the default comparison options for WaitForMatch operations.
// This can be called at any time to change the options for subsequent calls.
func (rw *ResourceWatcher) SetCmpOpts(opts ...cmp.Option) {
	rw.t.Helper()
	rw.cmpOpts = opts
}

// ResetCmpOpts resets the comparison options to nil (no special options).
func (rw *ResourceWatcher) ResetCmpOpts() {
	rw.t.Helper()
	rw.cmpOpts = nil
}

// Events returns a snapshot of all collected events at the current time.
func (rw *ResourceWatcher) Events() []ResourceEvent {
	rw.t.Helper()

	rw.mu.RLock()
	defer rw.mu.RUnlock()
	return append([]ResourceEvent{}, rw.events...)
}

// ForKind returns events for a specific resource kind.
func (rw *ResourceWatcher) ForKind(kind string) []ResourceEvent {
	rw.t.Helper()

	rw.mu.RLock()
	defer rw.mu.RUnlock()

	var filtered []ResourceEvent
	for _, evt := range rw.events {
		if evt.Kind == kind {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

// ForName returns events for a specific resource name (across all kinds).
func (rw *ResourceWatcher) ForName(name string) []ResourceEvent {
	rw.t.Helper()

	rw.mu.RLock()
	defer rw.mu.RUnlock()

	var filtered []ResourceEvent
	for _, evt := range rw.events {
		if evt.Name == name {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

// Count returns the total number of events collected.
func (rw *ResourceWatcher) Count() int {
	rw.t.Helper()

	rw.mu.RLock()
	defer rw.mu.RUnlock()
	return len(rw.events)
}

// subscribe registers a new fan-out channel for event delivery.
func (rw *ResourceWatcher) subscribe() chan ResourceEvent {
	rw.t.Helper()

	subCh := make(chan ResourceEvent, 100)
	rw.mu.Lock()
	rw.subscribers = append(rw.subscribers, subCh)
	rw.mu.Unlock()
	return subCh
}

// unsubscribe removes the channel from the fan-out list and closes it.
// Channels already removed by the watcher shutdown are left alone, as
// they were closed there.
func (rw *ResourceWatcher) unsubscribe(subCh chan ResourceEvent) {
	rw.t.Helper()

	rw.mu.Lock()
	defer rw.mu.Unlock()
	for i, ch := range rw.subscribers {
		if ch == subCh {
			rw.subscribers = append(rw.subscribers[:i], rw.subscribers[i+1:]...)
			close(subCh)
			return
		}
	}
}

// eventHandlerRegistrar abstracts the AddEventHandler method for testing.
type eventHandlerRegistrar interface {
	AddEventHandler(
		handler cache.ResourceEventHandler,
	) (cache.ResourceEventHandlerRegistration, error)
}

// addEventHandlerToInformer registers the event handlers to the informer.
// Extracted for testing purposes.
func (rw *ResourceWatcher) addEventHandlerToInformer(
	informer eventHandlerRegistrar,
	kind string,
) {
	_, err := informer.AddEventHandler(cache.ResourceEventHandlerFuncs{
		AddFunc: func(obj any) {
			cObj := obj.(client.Object)
			rw.sendEvent("ADDED", kind, cObj)
		},
		UpdateFunc: func(oldObj, newObj any) {
			cObj := newObj.(client.Object)
			rw.sendEvent("UPDATED", kind, cObj)
		},
		DeleteFunc: func(obj any) {
			cObj := obj.(client.Object)
			rw.sendEvent("DELETED", kind, cObj)
		},
	})
	if err != nil {
		rw.t.Fatalf("Failed to add event handler to informer: %v", err)
	}
}

// watchResource sets up an informer for a resource type.
func (rw *ResourceWatcher) watchResource(
	ctx context.Context,
	mgr manager.Manager,
	obj client.Object,
) {
	rw.t.Helper()

	kind := extractKind(obj)

	// Check if already watching this kind
	if _, watched := rw.watchedKinds[kind]; watched {
		return
	}

	informer, err := mgr.GetCache().GetInformer(ctx, obj)
	if err != nil {
		rw.t.Fatalf("Failed to get informer: %v", err)
		return
	}

	rw.addEventHandlerToInformer(informer, kind)

	// Track this kind as watched
	rw.watchedKinds[kind] = nil
}

// extractKind extracts a clean kind name from a client.Object.
func extractKind(obj client.Object) string {
	kind := fmt.Sprintf("%T", obj)
	// Remove pointer prefix
	if len(kind) > 0 && kind[0] == '*' {
		kind = kind[1:]
	}
	// Extract just the type name after the last dot
	for i := len(kind) - 1; i >= 0; i-- {
		if kind[i] == '.' {
			return kind[i+1:]
		}
	}
	return kind
}
