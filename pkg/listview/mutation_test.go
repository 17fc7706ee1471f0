package listview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCoordinatorSubmitSuccess(t *testing.T) {
	notifier := &recordingNotifier{}
	c := NewCoordinator(notifier, nil)

	refreshed := false
	fields := c.Submit(context.Background(), "Unit created", func(ctx context.Context) error {
		return nil
	}, func() { refreshed = true })

	if fields != nil {
		t.Fatalf("no field errors expected on success, got %v", fields)
	}
	if !refreshed {
		t.Fatalf("onSuccess callback should run")
	}
	if len(notifier.successes) != 1 || notifier.successes[0] != "Unit created" {
		t.Fatalf("success message not shown: %v", notifier.successes)
	}
}

func TestCoordinatorSubmitValidationErrors(t *testing.T) {
	notifier := &recordingNotifier{}
	c := NewCoordinator(notifier, nil)

	apiErr := &APIError{
		Message: "Validation failed",
		Details: []FieldError{
			{PropertyName: "userName", ErrorMessage: "Username is required"},
			{PropertyName: "email", ErrorMessage: "Invalid email format"},
		},
	}

	refreshed := false
	fields := c.Submit(context.Background(), "User created", func(ctx context.Context) error {
		return fmt.Errorf("create user: %w", apiErr)
	}, func() { refreshed = true })

	if refreshed {
		t.Fatalf("onSuccess must not run on failure")
	}
	if len(fields) != 2 {
		t.Fatalf("expected 2 field errors, got %d", len(fields))
	}
	if fields["userName"] != "Username is required" {
		t.Fatalf("field error not mapped by property name: %v", fields)
	}
	if fields["email"] != "Invalid email format" {
		t.Fatalf("field error not mapped by property name: %v", fields)
	}

	if len(notifier.errors) != 1 {
		t.Fatalf("expected one aggregate notification, got %v", notifier.errors)
	}
	msg := notifier.errors[0]
	if !strings.HasPrefix(msg, "Validation failed") {
		t.Fatalf("aggregate message should start with the server message: %q", msg)
	}
	if !strings.Contains(msg, "- Username is required") || !strings.Contains(msg, "- Invalid email format") {
		t.Fatalf("aggregate message should list every violation: %q", msg)
	}
}

func TestCoordinatorSubmitServerMessage(t *testing.T) {
	notifier := &recordingNotifier{}
	c := NewCoordinator(notifier, nil)

	fields := c.Submit(context.Background(), "Role deleted", func(ctx context.Context) error {
		return &APIError{Message: "Role is assigned to 3 user(s) and cannot be deleted"}
	}, nil)

	if fields != nil {
		t.Fatalf("non-validation failures carry no field errors, got %v", fields)
	}
	if len(notifier.errors) != 1 || notifier.errors[0] != "Role is assigned to 3 user(s) and cannot be deleted" {
		t.Fatalf("server message should be surfaced verbatim: %v", notifier.errors)
	}
}

func TestCoordinatorSubmitTransportError(t *testing.T) {
	notifier := &recordingNotifier{}
	c := NewCoordinator(notifier, nil)

	c.Submit(context.Background(), "Saved", func(ctx context.Context) error {
		return errors.New("dial tcp: connection refused")
	}, nil)

	if len(notifier.errors) != 1 || notifier.errors[0] != "Operation failed" {
		t.Fatalf("transport errors should show the generic message: %v", notifier.errors)
	}
}

func TestCoordinatorDestructiveDeclined(t *testing.T) {
	notifier := &recordingNotifier{}
	c := NewCoordinator(notifier, confirmerFunc(func(ctx context.Context, msg string) (bool, error) {
		return false, nil
	}))

	called := false
	c.SubmitDestructive(context.Background(), "Delete this unit?", "Unit deleted", func(ctx context.Context) error {
		called = true
		return nil
	}, nil)

	if called {
		t.Fatalf("declined confirmation must not execute the call")
	}
	if len(notifier.successes) != 0 && len(notifier.errors) != 0 {
		t.Fatalf("declined confirmation should stay silent")
	}
}

func TestCoordinatorDestructiveConfirmed(t *testing.T) {
	notifier := &recordingNotifier{}
	var prompt string
	c := NewCoordinator(notifier, confirmerFunc(func(ctx context.Context, msg string) (bool, error) {
		prompt = msg
		return true, nil
	}))

	called := false
	c.SubmitDestructive(context.Background(), "Delete this unit?", "Unit deleted", func(ctx context.Context) error {
		called = true
		return nil
	}, nil)

	if !called {
		t.Fatalf("confirmed action should execute the call")
	}
	if prompt != "Delete this unit?" {
		t.Fatalf("confirmation prompt not passed through, got %q", prompt)
	}
	if len(notifier.successes) != 1 || notifier.successes[0] != "Unit deleted" {
		t.Fatalf("success message not shown: %v", notifier.successes)
	}
}

type confirmerFunc func(ctx context.Context, msg string) (bool, error)

func (f confirmerFunc) Confirm(ctx context.Context, msg string) (bool, error) {
	return f(ctx, msg)
}
