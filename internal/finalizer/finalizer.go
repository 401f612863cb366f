// Package finalizer drives the finalizer protocol of an Application.
//
// For every invocation Run classifies the object and calls the handler with
// exactly one Event: Apply while the object is live, or Cleanup once the
// deletion marker is set and the finalizer is still present. The finalizer is
// added before the first Apply and removed only after Cleanup succeeds, so
// the object cannot disappear before its Deployment is gone.
package finalizer

import (
	"context"
	"fmt"

	appv1 "appcontroller/pkg/apis/application/v1"

	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
)

// State is the finalizer lifecycle state of an object.
type State int

const (
	// StateNoFinalizer is a live object this controller has not claimed yet.
	StateNoFinalizer State = iota
	// StatePresent is a live object carrying the finalizer.
	StatePresent
	// StateDeleting is an object marked for deletion that still carries the finalizer.
	StateDeleting
	// StateRemoved is an object marked for deletion without the finalizer.
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StateNoFinalizer:
		return "NoFinalizer"
	case StatePresent:
		return "FinalizerPresent"
	case StateDeleting:
		return "Deleting"
	case StateRemoved:
		return "Removed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Event tells the handler which path to run.
type Event int

const (
	Apply Event = iota
	Cleanup
)

func (e Event) String() string {
	if e == Cleanup {
		return "Cleanup"
	}
	return "Apply"
}

// Patcher adds and removes finalizers. Both calls must be no-ops when there
// is nothing to change, and return the object as stored after the patch.
type Patcher interface {
	AddFinalizer(ctx context.Context, app *appv1.Application, finalizer string) (*appv1.Application, error)
	RemoveFinalizer(ctx context.Context, app *appv1.Application, finalizer string) (*appv1.Application, error)
}

// HandlerFunc reconciles app for event.
type HandlerFunc[T any] func(ctx context.Context, event Event, app *appv1.Application) (T, error)

// Stage classifies app with respect to finalizer.
func Stage(app *appv1.Application, finalizer string) State {
	present := controllerutil.ContainsFinalizer(app, finalizer)
	switch {
	case app.IsBeingDeleted() && present:
		return StateDeleting
	case app.IsBeingDeleted():
		return StateRemoved
	case present:
		return StatePresent
	default:
		return StateNoFinalizer
	}
}

// Run advances the finalizer protocol for app and invokes fn at most once.
// When the object is deleting and no longer carries the finalizer, fn is not
// called and Run returns called=false with the zero T.
func Run[T any](ctx context.Context, p Patcher, finalizer string, app *appv1.Application, fn HandlerFunc[T]) (result T, called bool, err error) {
	switch Stage(app, finalizer) {
	case StateRemoved:
		return result, false, nil

	case StateDeleting:
		result, err = fn(ctx, Cleanup, app)
		if err != nil {
			return result, true, &HandlerError{Event: Cleanup, Err: err}
		}
		if _, err := p.RemoveFinalizer(ctx, app, finalizer); err != nil {
			return result, true, &ProtocolError{Op: OpRemove, Finalizer: finalizer, Err: err}
		}
		return result, true, nil

	case StateNoFinalizer:
		patched, err := p.AddFinalizer(ctx, app, finalizer)
		if err != nil {
			return result, false, &ProtocolError{Op: OpAdd, Finalizer: finalizer, Err: err}
		}
		app = patched
	}

	result, err = fn(ctx, Apply, app)
	if err != nil {
		return result, true, &HandlerError{Event: Apply, Err: err}
	}
	return result, true, nil
}
