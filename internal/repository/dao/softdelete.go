package dao

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	// ErrMissingWhereClause guards against a soft delete or restore applied
	// to a whole table.
	ErrMissingWhereClause = errors.New("soft delete requires a where condition")
)

// softDeleteRows marks the rows matching the condition as deleted, recording
// who did it. Rows are never physically removed. Returns the number of rows
// touched; zero means nothing matched (callers treat that as not found).
func softDeleteRows(ctx context.Context, db *gorm.DB, model any, deletedBy *uint, query string, args ...any) (int64, error) {
	if strings.TrimSpace(query) == "" {
		return 0, ErrMissingWhereClause
	}

	updates := map[string]any{"deleted_at": time.Now()}
	if deletedBy != nil {
		updates["deleted_by"] = *deletedBy
	}

	result := db.WithContext(ctx).
		Model(model).
		Where(query, args...).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}

// restoreRows clears the deletion marker on matching rows, bringing them back
// exactly as they were before the soft delete.
func restoreRows(ctx context.Context, db *gorm.DB, model any, query string, args ...any) (int64, error) {
	if strings.TrimSpace(query) == "" {
		return 0, ErrMissingWhereClause
	}

	result := db.WithContext(ctx).
		Unscoped().
		Model(model).
		Where(query, args...).
		Where("deleted_at IS NOT NULL").
		Updates(map[string]any{"deleted_at": nil, "deleted_by": nil})
	if result.Error != nil {
		return 0, result.Error
	}

	return result.RowsAffected, nil
}
