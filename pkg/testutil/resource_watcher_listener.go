package testutil

import (
	"context"
	"strings"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/client"
)

////----------------------------------------
///  Event listener
//------------------------------------------
// This file contains event listening logic.

// collectEvents drains the event channel into the cache slice and fans
// every event out to the registered subscribers.
//
// Runs in the background as a goroutine for the lifetime of the watcher
// context; cancellation closes all subscriber channels.
func (rw *ResourceWatcher) collectEvents(ctx context.Context) {
	rw.t.Helper()

	for {
		select {
		case evt := <-rw.eventCh:
			rw.mu.Lock()
			rw.events = append(rw.events, evt)

			for _, subCh := range rw.subscribers {
				select {
				case subCh <- evt:
				default:
					// A stalled subscriber must not block the collector.
					rw.t.Logf("Warning: subscriber channel full, dropping event")
				}
			}
			rw.mu.Unlock()
		case <-ctx.Done():
			// Signal waiting matchers to stop.
			rw.mu.Lock()
			for _, subCh := range rw.subscribers {
				close(subCh)
			}
			rw.subscribers = nil
			rw.mu.Unlock()
			return
		}
	}
}

// sendEvent hands an event to the collector, dropping it when the channel
// cannot receive. Informer callbacks must never block.
func (rw *ResourceWatcher) sendEvent(eventType, kind string, obj client.Object) {
	rw.t.Helper()

	event := ResourceEvent{
		Type:      eventType,
		Kind:      kind,
		Name:      obj.GetName(),
		Namespace: obj.GetNamespace(),
		Object:    obj.DeepCopyObject().(client.Object),
		Time:      time.Now(),
	}

	select {
	case rw.eventCh <- event:
		rw.t.Logf(
			"(%s) \"%s\" %s/%s",
			strings.ToLower(eventType),
			kind,
			obj.GetNamespace(),
			obj.GetName(),
		)
	default:
		rw.t.Logf("Warning: event channel full, dropping event")
	}
}
