package pg

import (
	"database/sql"
	"time"

	"pubhub/internal/domain"
)

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}

func notFound(what string) *domain.DomainError {
	return &domain.DomainError{
		Code:       domain.ErrorCodeNotFound,
		Message:    what + " not found",
		HTTPStatus: 404,
	}
}
