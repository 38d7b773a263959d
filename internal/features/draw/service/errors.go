package service

import (
	"errors"

	apperrors "prize-draw-engine/internal/common/errors"
	"prize-draw-engine/internal/features/draw/repository"
)

// drawError переводит ошибки репозитория в AppError для операций над одним розыгрышем
func drawError(err error, operation string, productID, campaignID int64) error {
	if errors.Is(err, repository.ErrDrawNotFound) {
		return apperrors.NewInvalidDrawError(productID, campaignID)
	}
	return apperrors.NewDatabaseError(operation, err)
}
