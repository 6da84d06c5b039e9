package implementation

import (
	"context"
	"errors"
	"time"

	"smart-fridge-be/internal/entity"
	"smart-fridge-be/internal/mapper"
	"smart-fridge-be/internal/model"
	"smart-fridge-be/internal/repository/contract"
	"smart-fridge-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ItemRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ItemMapper
}

func NewItemRepository(db *gorm.DB) contract.ItemRepository {
	return &ItemRepositoryImpl{
		db:     db,
		mapper: mapper.NewItemMapper(),
	}
}

func (r *ItemRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ItemRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Item, error) {
	var modelItem model.Item
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelItem).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelItem), nil
}

func (r *ItemRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Item, error) {
	var modelItems []*model.Item
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&modelItems).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(modelItems), nil
}

func (r *ItemRepositoryImpl) Create(ctx context.Context, item *entity.Item) (bool, error) {
	modelItem := r.mapper.ToModel(item)
	if modelItem.DateAdded.IsZero() {
		modelItem.DateAdded = time.Now()
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(modelItem)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	*item = *r.mapper.ToEntity(modelItem)
	return true, nil
}

func (r *ItemRepositoryImpl) AddQuantity(ctx context.Context, id uint, delta int, expiry *time.Time) (bool, error) {
	updates := map[string]interface{}{
		"quantity": gorm.Expr("quantity + ?", delta),
	}
	if expiry != nil {
		updates["expiry_date"] = *expiry
	}

	result := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ItemRepositoryImpl) Delete(ctx context.Context, userID, itemID uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", itemID, userID).
		Delete(&model.Item{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
