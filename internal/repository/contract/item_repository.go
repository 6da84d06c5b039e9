package contract

import (
	"context"
	"time"

	"smart-fridge-be/internal/entity"
	"smart-fridge-be/internal/repository/specification"
)

type ItemRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Item, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Item, error)
	// Create inserts the item unless the user already has one with the same key;
	// inserted is false in that case and item is left untouched.
	Create(ctx context.Context, item *entity.Item) (inserted bool, err error)
	// AddQuantity applies quantity = quantity + delta only if the result stays >= 0.
	// A nil expiry leaves the stored date alone.
	AddQuantity(ctx context.Context, id uint, delta int, expiry *time.Time) (applied bool, err error)
	Delete(ctx context.Context, userID, itemID uint) (deleted bool, err error)
}
