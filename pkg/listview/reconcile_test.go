package listview

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestDiff(t *testing.T) {
	toAdd, toRemove := Diff([]int{1, 2, 3}, []int{2, 3, 4})
	if !reflect.DeepEqual(toAdd, []int{4}) {
		t.Fatalf("unexpected toAdd: %v", toAdd)
	}
	if !reflect.DeepEqual(toRemove, []int{1}) {
		t.Fatalf("unexpected toRemove: %v", toRemove)
	}
}

func TestDiffNoChanges(t *testing.T) {
	toAdd, toRemove := Diff([]int{1, 2}, []int{2, 1})
	if len(toAdd) != 0 || len(toRemove) != 0 {
		t.Fatalf("identical sets should yield empty delta: add=%v remove=%v", toAdd, toRemove)
	}
}

func TestDiffSorted(t *testing.T) {
	toAdd, toRemove := Diff([]int{9, 5, 7}, []int{3, 1, 2})
	if !reflect.DeepEqual(toAdd, []int{1, 2, 3}) {
		t.Fatalf("toAdd should be sorted: %v", toAdd)
	}
	if !reflect.DeepEqual(toRemove, []int{5, 7, 9}) {
		t.Fatalf("toRemove should be sorted: %v", toRemove)
	}
}

func TestReconcileUnassignsThenAssigns(t *testing.T) {
	var order []string
	var assigned, unassigned []int

	r := NewReconciler(
		func(ctx context.Context, userID int, roleIDs []int) error {
			order = append(order, "assign")
			assigned = roleIDs
			return nil
		},
		func(ctx context.Context, userID int, roleIDs []int) error {
			order = append(order, "unassign")
			unassigned = roleIDs
			return nil
		},
		KeepEmpty, nil,
	)

	if err := r.Reconcile(context.Background(), 7, []int{1, 2}, []int{2, 3}); err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}

	if !reflect.DeepEqual(order, []string{"unassign", "assign"}) {
		t.Fatalf("unassign must run before assign: %v", order)
	}
	if !reflect.DeepEqual(unassigned, []int{1}) || !reflect.DeepEqual(assigned, []int{3}) {
		t.Fatalf("unexpected delta: unassigned=%v assigned=%v", unassigned, assigned)
	}
}

func TestReconcileSkipsEmptyHalves(t *testing.T) {
	var calls []string
	r := NewReconciler(
		func(ctx context.Context, userID int, roleIDs []int) error {
			calls = append(calls, "assign")
			return nil
		},
		func(ctx context.Context, userID int, roleIDs []int) error {
			calls = append(calls, "unassign")
			return nil
		},
		KeepEmpty, nil,
	)

	if err := r.Reconcile(context.Background(), 7, []int{1, 2}, []int{1, 2}); err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if len(calls) != 0 {
		t.Fatalf("no-op reconcile should make no network calls: %v", calls)
	}
}

func TestReconcileUnassignFailureStopsAssign(t *testing.T) {
	assignCalled := false
	r := NewReconciler(
		func(ctx context.Context, userID int, roleIDs []int) error {
			assignCalled = true
			return nil
		},
		func(ctx context.Context, userID int, roleIDs []int) error {
			return errors.New("server unavailable")
		},
		KeepEmpty, nil,
	)

	err := r.Reconcile(context.Background(), 7, []int{1, 2}, []int{3})
	if err == nil {
		t.Fatalf("expected error when unassign fails")
	}
	if assignCalled {
		t.Fatalf("assign must not run after unassign failed")
	}
}

func TestReconcileAssignFailureReported(t *testing.T) {
	r := NewReconciler(
		func(ctx context.Context, userID int, roleIDs []int) error {
			return errors.New("server unavailable")
		},
		func(ctx context.Context, userID int, roleIDs []int) error {
			return nil
		},
		KeepEmpty, nil,
	)

	if err := r.Reconcile(context.Background(), 7, []int{1}, []int{2}); err == nil {
		t.Fatalf("expected error when assign fails")
	}
}

func TestFallbackRolePolicy(t *testing.T) {
	policy := FallbackRole(3)

	if got := policy(nil); !reflect.DeepEqual(got, []int{3}) {
		t.Fatalf("empty target should fall back to the default role: %v", got)
	}
	if got := policy([]int{5}); !reflect.DeepEqual(got, []int{5}) {
		t.Fatalf("non-empty target should pass through: %v", got)
	}
}

func TestReconcileFallbackAppliedBeforeDiff(t *testing.T) {
	var assigned []int
	unassignCalled := false
	r := NewReconciler(
		func(ctx context.Context, userID int, roleIDs []int) error {
			assigned = roleIDs
			return nil
		},
		func(ctx context.Context, userID int, roleIDs []int) error {
			unassignCalled = true
			return nil
		},
		FallbackRole(3), nil,
	)

	// Clearing every role with the fallback policy lands the user on the
	// default role instead of an empty set
	if err := r.Reconcile(context.Background(), 7, []int{3}, nil); err != nil {
		t.Fatalf("reconcile failed: %v", err)
	}
	if unassignCalled || assigned != nil {
		t.Fatalf("current set already matches the fallback, no calls expected")
	}
}
