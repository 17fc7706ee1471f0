package postgres

import (
	"database/sql"
	"fmt"
	"strings"

	apperrors "github.com/moon90/rms-admin/pkg/errors"
)

// checkAffected превращает нулевое число затронутых строк в ErrNotFound
func checkAffected(result sql.Result, entity string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%s not found: %w", entity, apperrors.ErrNotFound)
	}

	return nil
}

// buildOrderClause строит ORDER BY по белому списку колонок; имена колонок
// приходят в терминах API и отображаются на имена колонок БД. Недопустимая
// колонка дает сортировку по умолчанию
func buildOrderClause(orderBy, orderDir *string, allowed map[string]string, defaultOrder string) string {
	if orderBy != nil {
		if column, ok := allowed[*orderBy]; ok {
			direction := "ASC"
			if orderDir != nil && strings.EqualFold(*orderDir, "desc") {
				direction = "DESC"
			}
			return fmt.Sprintf("ORDER BY %s %s", column, direction)
		}
	}

	return "ORDER BY " + defaultOrder
}
