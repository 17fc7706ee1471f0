package listview

import (
	"context"
	"errors"
	"strings"
)

// FieldError - одна ошибка валидации в том виде, в каком ее возвращает бэкенд
type FieldError struct {
	PropertyName string `json:"propertyName"`
	ErrorMessage string `json:"errorMessage"`
}

// FieldErrors привязывает сообщения об ошибках к полям формы; ключи
// сохраняются ровно в том регистре, в каком их вернул бэкенд
type FieldErrors map[string]string

// APIError - неуспешный ответ бэкенда: сообщение и, для ошибок валидации,
// список ошибок по полям
type APIError struct {
	Message string
	Details []FieldError
}

// Error реализует интерфейс error
func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "request failed"
}

// FieldErrors собирает ошибки по полям в карту поле-сообщение
func (e *APIError) FieldErrors() FieldErrors {
	if len(e.Details) == 0 {
		return nil
	}
	fields := make(FieldErrors, len(e.Details))
	for _, d := range e.Details {
		fields[d.PropertyName] = d.ErrorMessage
	}
	return fields
}

// Call - одна операция изменения, привязанная к конкретному ресурсу
type Call func(ctx context.Context) error

// Coordinator выполняет операции изменения и переводит их исход в
// пригодный для форм вид: уведомление об успехе и обратный вызов, либо
// карту ошибок по полям. На один вызов Submit приходится ровно один
// сетевой вызов - без повторов и объединения запросов
type Coordinator struct {
	notifier  Notifier
	confirmer Confirmer
}

// NewCoordinator создает координатор с привязанными коллабораторами
func NewCoordinator(notifier Notifier, confirmer Confirmer) *Coordinator {
	return &Coordinator{
		notifier:  notifier,
		confirmer: confirmer,
	}
}

// Submit выполняет операцию. При успехе показывает successMsg и вызывает
// onSuccess (обычно - обновить список и закрыть форму). При ошибке
// валидации возвращает карту ошибок по полям и показывает сводное
// уведомление со всеми сообщениями; форма остается открытой. Прочие
// ошибки дают одно уведомление с текстом сервера либо общим текстом
func (c *Coordinator) Submit(ctx context.Context, successMsg string, call Call, onSuccess func()) FieldErrors {
	err := call(ctx)
	if err == nil {
		if c.notifier != nil {
			c.notifier.Success(successMsg)
		}
		if onSuccess != nil {
			onSuccess()
		}
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && len(apiErr.Details) > 0 {
		if c.notifier != nil {
			c.notifier.Error(aggregateMessage(apiErr))
		}
		return apiErr.FieldErrors()
	}

	if c.notifier != nil {
		c.notifier.Error(failureMessage(err))
	}
	return nil
}

// SubmitDestructive сначала запрашивает подтверждение; отказ не выполняет
// никакого вызова
func (c *Coordinator) SubmitDestructive(ctx context.Context, confirmMsg, successMsg string, call Call, onSuccess func()) FieldErrors {
	if c.confirmer != nil {
		ok, err := c.confirmer.Confirm(ctx, confirmMsg)
		if err != nil || !ok {
			return nil
		}
	}
	return c.Submit(ctx, successMsg, call, onSuccess)
}

// aggregateMessage собирает сводный текст: заголовок и строка "- сообщение"
// на каждую ошибку валидации
func aggregateMessage(apiErr *APIError) string {
	var b strings.Builder
	if apiErr.Message != "" {
		b.WriteString(apiErr.Message)
	} else {
		b.WriteString("Validation failed")
	}
	for _, d := range apiErr.Details {
		b.WriteString("\n- ")
		b.WriteString(d.ErrorMessage)
	}
	return b.String()
}

// failureMessage возвращает сообщение сервера либо общий текст
func failureMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return "Operation failed"
}
