package service

import (
	"context"
	"testing"

	"brewbean/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuService_GetAll(t *testing.T) {
	repo := new(MockMenuRepository)
	service := NewMenuService(repo, zerolog.Nop())
	ctx := context.Background()

	items := []model.MenuItem{*latte()}
	repo.On("GetAll", ctx, model.CategoryCoffee).Return(items, nil)

	result, err := service.GetAll(ctx, model.CategoryCoffee)

	require.NoError(t, err)
	assert.Equal(t, items, result)
}

func TestMenuService_GetAll_EveryCategory(t *testing.T) {
	for _, category := range []string{
		model.CategoryCoffee,
		model.CategoryTea,
		model.CategoryPastry,
		model.CategoryMerchandise,
	} {
		t.Run(category, func(t *testing.T) {
			repo := new(MockMenuRepository)
			service := NewMenuService(repo, zerolog.Nop())
			ctx := context.Background()

			repo.On("GetAll", ctx, category).Return([]model.MenuItem{}, nil)

			_, err := service.GetAll(ctx, category)

			require.NoError(t, err)
			repo.AssertExpectations(t)
		})
	}
}

func TestMenuService_GetAll_UnknownCategory(t *testing.T) {
	repo := new(MockMenuRepository)
	service := NewMenuService(repo, zerolog.Nop())

	_, err := service.GetAll(context.Background(), "sushi")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestMenuService_GetByID(t *testing.T) {
	repo := new(MockMenuRepository)
	service := NewMenuService(repo, zerolog.Nop())
	ctx := context.Background()

	repo.On("GetByID", ctx, "1").Return(latte(), nil)

	item, err := service.GetByID(ctx, "1")

	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Signature Latte", item.Name)
}

func TestMenuService_GetByID_Miss(t *testing.T) {
	repo := new(MockMenuRepository)
	service := NewMenuService(repo, zerolog.Nop())
	ctx := context.Background()

	repo.On("GetByID", ctx, "missing").Return(nil, nil)

	item, err := service.GetByID(ctx, "missing")

	require.NoError(t, err)
	assert.Nil(t, item)
}
