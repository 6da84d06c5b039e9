package unitofwork

import (
	"context"

	"smart-fridge-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ItemRepository() contract.ItemRepository
	NotificationRepository() contract.NotificationRepository
}
