package listview

import "context"

// Notifier - интерфейс всплывающих уведомлений; реализация на стороне UI
type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// Confirmer - интерфейс блокирующего подтверждения разрушительных действий
type Confirmer interface {
	Confirm(ctx context.Context, msg string) (bool, error)
}

// PermissionChecker проверяет, доступна ли пользователю операция по коду
// разрешения; заполняется из ответа логина и не является границей
// безопасности - сервер проверяет разрешения повторно
type PermissionChecker interface {
	HasPermission(code string) bool
}

// PermissionSet - реализация PermissionChecker на основе набора кодов
type PermissionSet map[string]struct{}

// NewPermissionSet создает набор разрешений из списка кодов
func NewPermissionSet(codes []string) PermissionSet {
	set := make(PermissionSet, len(codes))
	for _, code := range codes {
		set[code] = struct{}{}
	}
	return set
}

// HasPermission проверяет наличие кода в наборе
func (s PermissionSet) HasPermission(code string) bool {
	_, ok := s[code]
	return ok
}
