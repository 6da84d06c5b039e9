package contract

import (
	"context"

	"smart-fridge-be/internal/entity"
	"smart-fridge-be/internal/repository/specification"
)

type UserRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	// GetOrCreate returns the user matching username case-insensitively, creating it
	// with the given casing when absent. created reports which branch was taken.
	GetOrCreate(ctx context.Context, username string) (user *entity.User, created bool, err error)
}
