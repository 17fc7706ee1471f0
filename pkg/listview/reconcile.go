package listview

import (
	"context"
	"fmt"
	"sort"

	"github.com/moon90/rms-admin/pkg/logger"
)

// BatchCall - один пакетный вызов назначения либо отзыва ролей
type BatchCall func(ctx context.Context, userID int, roleIDs []int) error

// EmptyTargetPolicy решает, что делать с пустым целевым набором ролей.
// В исходной системе пустой набор молча подменялся ролью "User"; здесь
// эта политика вынесена в явный параметр
type EmptyTargetPolicy func(target []int) []int

// KeepEmpty оставляет пустой целевой набор как есть
func KeepEmpty(target []int) []int {
	return target
}

// FallbackRole подставляет роль по умолчанию вместо пустого целевого
// набора, чтобы пользователь не остался совсем без ролей
func FallbackRole(roleID int) EmptyTargetPolicy {
	return func(target []int) []int {
		if len(target) == 0 {
			return []int{roleID}
		}
		return target
	}
}

// Diff вычисляет минимальную дельту между текущим и целевым наборами:
// toAdd - идентификаторы, которых нет в текущем, toRemove - которых нет в
// целевом. Наборы не пересекаются по построению; результат отсортирован
func Diff(current, target []int) (toAdd, toRemove []int) {
	currentSet := make(map[int]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}
	targetSet := make(map[int]struct{}, len(target))
	for _, id := range target {
		targetSet[id] = struct{}{}
	}

	for id := range targetSet {
		if _, ok := currentSet[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for id := range currentSet {
		if _, ok := targetSet[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}

	sort.Ints(toAdd)
	sort.Ints(toRemove)
	return toAdd, toRemove
}

// Reconciler переводит набор ролей пользователя из текущего состояния в
// целевое минимальным числом пакетных вызовов: один отзыв и одно
// назначение
type Reconciler struct {
	assign   BatchCall
	unassign BatchCall
	policy   EmptyTargetPolicy
	logger   logger.Logger
}

// NewReconciler создает реконсилер с привязанными пакетными вызовами
func NewReconciler(assign, unassign BatchCall, policy EmptyTargetPolicy, log logger.Logger) *Reconciler {
	if policy == nil {
		policy = KeepEmpty
	}
	return &Reconciler{
		assign:   assign,
		unassign: unassign,
		policy:   policy,
		logger:   log,
	}
}

// Reconcile вычисляет дельту и выполняет сначала отзыв, затем назначение.
// Если отзыв не удался, назначение не выполняется. Исход каждой половины
// логируется отдельно, даже когда вызывающему уходит одна общая ошибка
func (r *Reconciler) Reconcile(ctx context.Context, userID int, current, target []int) error {
	target = r.policy(target)
	toAdd, toRemove := Diff(current, target)

	if len(toRemove) > 0 {
		if err := r.unassign(ctx, userID, toRemove); err != nil {
			r.log("Role unassign failed", err, userID, toRemove)
			return fmt.Errorf("role reconciliation failed: %w", err)
		}
		r.logInfo("Roles unassigned", userID, toRemove)
	}

	if len(toAdd) > 0 {
		if err := r.assign(ctx, userID, toAdd); err != nil {
			// Отзыв уже зафиксирован; вызывающий видит общую ошибку
			r.log("Role assign failed after unassign committed", err, userID, toAdd)
			return fmt.Errorf("role reconciliation failed: %w", err)
		}
		r.logInfo("Roles assigned", userID, toAdd)
	}

	return nil
}

func (r *Reconciler) log(msg string, err error, userID int, roleIDs []int) {
	if r.logger == nil {
		return
	}
	r.logger.Error(msg, err, map[string]interface{}{
		"user_id":  userID,
		"role_ids": roleIDs,
	})
}

func (r *Reconciler) logInfo(msg string, userID int, roleIDs []int) {
	if r.logger == nil {
		return
	}
	r.logger.Info(msg, map[string]interface{}{
		"user_id":  userID,
		"role_ids": roleIDs,
	})
}
