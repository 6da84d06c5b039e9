package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"smart-fridge-be/internal/entity"
	"smart-fridge-be/internal/pkg/apperror"
	"smart-fridge-be/internal/pkg/logger"
	"smart-fridge-be/internal/repository/specification"
	"smart-fridge-be/internal/repository/unitofwork"
)

type DetectedItem struct {
	Name     string
	Quantity int
}

type MergeOutcome struct {
	User        *entity.User
	UserCreated bool
	Items       []*entity.Item // in detection order
	Created     []string       // names inserted by this merge
}

type ExpiringItem struct {
	Item            *entity.Item
	EffectiveExpiry time.Time
	Estimated       bool // no stored expiry date, derived from shelf life
}

type IInventoryService interface {
	Upsert(ctx context.Context, username, name string, quantityDelta int, expiry *time.Time) (*entity.Item, error)
	Merge(ctx context.Context, username string, detected []DetectedItem) (*MergeOutcome, error)
	Remove(ctx context.Context, username string, itemID uint) error
	ListItems(ctx context.Context, username string) ([]*entity.Item, error)
	ExpiringSoon(ctx context.Context, username string, within time.Duration) ([]*ExpiringItem, error)
}

type inventoryService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
	now        func() time.Time
}

func NewInventoryService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IInventoryService {
	return &inventoryService{
		uowFactory: uowFactory,
		logger:     log,
		now:        time.Now,
	}
}

// CoalesceNames counts duplicate names by key, keeping the first casing and
// the order of first appearance.
func CoalesceNames(names []string) []DetectedItem {
	index := make(map[string]int, len(names))
	var result []DetectedItem
	for _, name := range names {
		name = strings.TrimSpace(name)
		key := entity.ItemKey(name)
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			result[i].Quantity++
			continue
		}
		index[key] = len(result)
		result = append(result, DetectedItem{Name: name, Quantity: 1})
	}
	return result
}

func (s *inventoryService) Upsert(ctx context.Context, username, name string, quantityDelta int, expiry *time.Time) (*entity.Item, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ErrMissingUsername
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.InvalidPayload("item name is required")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Storage("begin upsert", err)
	}
	defer uow.Rollback()

	user, _, err := uow.UserRepository().GetOrCreate(ctx, username)
	if err != nil {
		return nil, apperror.Storage("get or create user", err)
	}

	item, _, err := s.upsert(ctx, uow, user.ID, name, quantityDelta, expiry)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Storage("commit upsert", err)
	}
	return item, nil
}

func (s *inventoryService) Merge(ctx context.Context, username string, detected []DetectedItem) (*MergeOutcome, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ErrMissingUsername
	}

	// Coalesce again in case the caller passed unmerged duplicates.
	merged := make([]DetectedItem, 0, len(detected))
	index := make(map[string]int, len(detected))
	for _, d := range detected {
		name := strings.TrimSpace(d.Name)
		key := entity.ItemKey(name)
		if key == "" {
			continue
		}
		if i, ok := index[key]; ok {
			merged[i].Quantity += d.Quantity
			continue
		}
		index[key] = len(merged)
		merged = append(merged, DetectedItem{Name: name, Quantity: d.Quantity})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, apperror.Storage("begin merge", err)
	}
	defer uow.Rollback()

	user, userCreated, err := uow.UserRepository().GetOrCreate(ctx, username)
	if err != nil {
		return nil, apperror.Storage("get or create user", err)
	}

	outcome := &MergeOutcome{User: user, UserCreated: userCreated, Items: make([]*entity.Item, 0, len(merged))}
	for _, d := range merged {
		item, created, err := s.upsert(ctx, uow, user.ID, d.Name, d.Quantity, nil)
		if err != nil {
			return nil, err
		}
		outcome.Items = append(outcome.Items, item)
		if created {
			outcome.Created = append(outcome.Created, item.Name)
		}
	}

	if err := uow.Commit(); err != nil {
		return nil, apperror.Storage("commit merge", err)
	}

	s.logger.Info("InventoryService", "Merged detected items", map[string]interface{}{
		"username":     user.Username,
		"user_created": userCreated,
		"items":        len(outcome.Items),
		"created":      outcome.Created,
	})
	return outcome, nil
}

// upsert runs inside an open unit of work. A lost insert race is retried once
// as an update.
func (s *inventoryService) upsert(ctx context.Context, uow unitofwork.UnitOfWork, userID uint, name string, delta int, expiry *time.Time) (*entity.Item, bool, error) {
	repo := uow.ItemRepository()

	for attempt := 0; attempt < 2; attempt++ {
		existing, err := repo.FindOne(ctx, specification.UserOwnedBy{UserID: userID}, specification.ByItemName{Name: name})
		if err != nil {
			return nil, false, apperror.Storage("find item", err)
		}

		if existing != nil {
			if existing.Quantity+delta < 0 {
				return nil, false, fmt.Errorf("%w: %s has %d, cannot apply %d", apperror.ErrInvalidQuantity, existing.Name, existing.Quantity, delta)
			}
			applied, err := repo.AddQuantity(ctx, existing.ID, delta, expiry)
			if err != nil {
				return nil, false, apperror.Storage("update item quantity", err)
			}
			if !applied {
				return nil, false, fmt.Errorf("%w: %s changed concurrently", apperror.ErrInvalidQuantity, existing.Name)
			}
			updated, err := repo.FindOne(ctx, specification.ByID{ID: existing.ID})
			if err != nil {
				return nil, false, apperror.Storage("reload item", err)
			}
			return updated, false, nil
		}

		item := &entity.Item{
			UserID:     userID,
			Name:       name,
			Quantity:   max(delta, 1),
			DateAdded:  s.now(),
			ExpiryDate: expiry,
		}
		inserted, err := repo.Create(ctx, item)
		if err != nil {
			return nil, false, apperror.Storage("create item", err)
		}
		if inserted {
			return item, true, nil
		}
	}

	return nil, false, apperror.Storage("upsert item", fmt.Errorf("%q kept conflicting", name))
}

func (s *inventoryService) findUser(ctx context.Context, uow unitofwork.UnitOfWork, username string) (*entity.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ErrMissingUsername
	}
	user, err := uow.UserRepository().FindOne(ctx, specification.ByUsername{Username: username})
	if err != nil {
		return nil, apperror.Storage("find user", err)
	}
	if user == nil {
		return nil, apperror.NotFound("user %s not found", username)
	}
	return user, nil
}

func (s *inventoryService) Remove(ctx context.Context, username string, itemID uint) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := s.findUser(ctx, uow, username)
	if err != nil {
		return err
	}

	deleted, err := uow.ItemRepository().Delete(ctx, user.ID, itemID)
	if err != nil {
		return apperror.Storage("delete item", err)
	}
	if !deleted {
		return apperror.NotFound("item %d not found for %s", itemID, user.Username)
	}
	return nil
}

func (s *inventoryService) ListItems(ctx context.Context, username string) ([]*entity.Item, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := s.findUser(ctx, uow, username)
	if err != nil {
		return nil, err
	}

	items, err := uow.ItemRepository().FindAll(ctx, specification.UserOwnedBy{UserID: user.ID}, specification.InventoryOrder{})
	if err != nil {
		return nil, apperror.Storage("list items", err)
	}
	return items, nil
}

func (s *inventoryService) ExpiringSoon(ctx context.Context, username string, within time.Duration) ([]*ExpiringItem, error) {
	items, err := s.ListItems(ctx, username)
	if err != nil {
		return nil, err
	}

	deadline := s.now().Add(within)
	var result []*ExpiringItem
	for _, item := range items {
		if item.Quantity == 0 {
			continue
		}
		expiring := &ExpiringItem{Item: item}
		if item.ExpiryDate != nil {
			expiring.EffectiveExpiry = *item.ExpiryDate
		} else {
			expiring.EffectiveExpiry = item.DateAdded.Add(ShelfLife(item.Name))
			expiring.Estimated = true
		}
		if !expiring.EffectiveExpiry.After(deadline) {
			result = append(result, expiring)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].EffectiveExpiry.Before(result[j].EffectiveExpiry)
	})
	return result, nil
}
