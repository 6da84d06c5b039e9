package implementation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smart-fridge-be/internal/entity"
	"smart-fridge-be/internal/mapper"
	"smart-fridge-be/internal/model"
	"smart-fridge-be/internal/repository/contract"
	"smart-fridge-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UserMapper
}

func NewUserRepository(db *gorm.DB) contract.UserRepository {
	return &UserRepositoryImpl{
		db:     db,
		mapper: mapper.NewUserMapper(),
	}
}

func (r *UserRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UserRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	var modelUser model.User
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&modelUser).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&modelUser), nil
}

func (r *UserRepositoryImpl) GetOrCreate(ctx context.Context, username string) (*entity.User, bool, error) {
	username = strings.TrimSpace(username)

	existing, err := r.FindOne(ctx, specification.ByUsername{Username: username})
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	modelUser := r.mapper.ToModel(&entity.User{Username: username})
	// A concurrent creator may win the unique key; DO NOTHING keeps an open
	// postgres transaction usable so we can read their row instead.
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(modelUser)
	if result.Error != nil {
		return nil, false, result.Error
	}
	if result.RowsAffected == 1 {
		return r.mapper.ToEntity(modelUser), true, nil
	}

	existing, err = r.FindOne(ctx, specification.ByUsername{Username: username})
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		return nil, false, fmt.Errorf("user %q vanished after insert conflict", username)
	}
	return existing, false, nil
}
