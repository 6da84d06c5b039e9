package mapper

import (
	"smart-fridge-be/internal/entity"
	"smart-fridge-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		ID:          u.ID,
		Username:    u.Username,
		UsernameKey: entity.UsernameKey(u.Username),
		CreatedAt:   u.CreatedAt,
	}
}
