package dto

import (
	"time"

	"smart-fridge-be/internal/entity"
)

const DateLayout = "2006-01-02"

type AddItemRequest struct {
	Name       string `json:"name" validate:"required,max=255"`
	Quantity   *int   `json:"quantity"`
	ExpiryDate string `json:"expiry_date" validate:"omitempty,datetime=2006-01-02"`
}

type ItemResponse struct {
	ID         uint      `json:"id"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	DateAdded  time.Time `json:"date_added"`
	ExpiryDate *string   `json:"expiry_date"`
}

type ExpiringItemResponse struct {
	ItemResponse
	EffectiveExpiry string `json:"effective_expiry"`
	DaysLeft        int    `json:"days_left"`
	Estimated       bool   `json:"estimated"`
}

type RemoveItemResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NewItemResponse(item *entity.Item) *ItemResponse {
	if item == nil {
		return nil
	}
	res := &ItemResponse{
		ID:        item.ID,
		Name:      item.Name,
		Quantity:  item.Quantity,
		DateAdded: item.DateAdded,
	}
	if item.ExpiryDate != nil {
		formatted := item.ExpiryDate.Format(DateLayout)
		res.ExpiryDate = &formatted
	}
	return res
}

func NewItemResponses(items []*entity.Item) []*ItemResponse {
	res := make([]*ItemResponse, 0, len(items))
	for _, item := range items {
		res = append(res, NewItemResponse(item))
	}
	return res
}
