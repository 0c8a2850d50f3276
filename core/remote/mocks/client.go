package mocks

import (
	"context"

	"category-manager/core/remote"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of remote.Client
type Client struct {
	mock.Mock
}

func (m *Client) FetchAll(ctx context.Context) ([]remote.Category, error) {
	args := m.Called(ctx)
	if cats, ok := args.Get(0).([]remote.Category); ok {
		return cats, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) Create(ctx context.Context, name string, parentID int64) (int64, error) {
	args := m.Called(ctx, name, parentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Client) SetParent(ctx context.Context, id, parentID int64) error {
	args := m.Called(ctx, id, parentID)
	return args.Error(0)
}

func (m *Client) Rename(ctx context.Context, id int64, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *Client) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *Client) ListProductsByCategory(ctx context.Context, id int64) ([]remote.ProductRef, error) {
	args := m.Called(ctx, id)
	if refs, ok := args.Get(0).([]remote.ProductRef); ok {
		return refs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) SetProductCategories(ctx context.Context, productID int64, categoryIDs []int64) error {
	args := m.Called(ctx, productID, categoryIDs)
	return args.Error(0)
}
