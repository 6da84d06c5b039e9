package mapper

import (
	"smart-fridge-be/internal/entity"
	"smart-fridge-be/internal/model"
)

type ItemMapper struct{}

func NewItemMapper() *ItemMapper {
	return &ItemMapper{}
}

func (m *ItemMapper) ToEntity(i *model.Item) *entity.Item {
	if i == nil {
		return nil
	}
	return &entity.Item{
		ID:         i.ID,
		UserID:     i.UserID,
		Name:       i.Name,
		Quantity:   i.Quantity,
		DateAdded:  i.DateAdded,
		ExpiryDate: i.ExpiryDate,
	}
}

func (m *ItemMapper) ToEntities(items []*model.Item) []*entity.Item {
	result := make([]*entity.Item, 0, len(items))
	for _, i := range items {
		result = append(result, m.ToEntity(i))
	}
	return result
}

func (m *ItemMapper) ToModel(i *entity.Item) *model.Item {
	if i == nil {
		return nil
	}
	return &model.Item{
		ID:         i.ID,
		UserID:     i.UserID,
		Name:       i.Name,
		NameKey:    entity.ItemKey(i.Name),
		Quantity:   i.Quantity,
		DateAdded:  i.DateAdded,
		ExpiryDate: i.ExpiryDate,
	}
}
