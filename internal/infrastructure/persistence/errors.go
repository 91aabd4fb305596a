package persistence

import (
	"errors"

	"github.com/pos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps GORM errors onto domain errors.
// notFound is returned for a missing row; nil keeps shared.ErrNotFound.
func translateError(err error, notFound *shared.DomainError) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if notFound != nil {
			return notFound
		}
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewConflictError("A record with the same unique key already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewDomainError(shared.CodeInvalidInput, "Referenced record does not exist")
	default:
		return err
	}
}
