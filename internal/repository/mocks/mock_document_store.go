package mocks

import (
	"context"

	"babytracker/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) Insert(ctx context.Context, collection string, doc model.Document) (model.ObjectID, error) {
	args := m.Called(ctx, collection, doc)
	return args.Get(0).(model.ObjectID), args.Error(1)
}

func (m *MockDocumentStore) Find(ctx context.Context, collection string, filter model.Filter) ([]model.Document, error) {
	args := m.Called(ctx, collection, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentStore) ListCollectionNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockDocumentStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDocumentStore) Name() string {
	args := m.Called()
	return args.String(0)
}
