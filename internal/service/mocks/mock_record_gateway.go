package mocks

import (
	"context"

	"babytracker/internal/model"
	"babytracker/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockRecordGateway struct {
	mock.Mock
}

func (m *MockRecordGateway) Create(ctx context.Context, collection string, rec model.Record) (string, error) {
	args := m.Called(ctx, collection, rec)
	return args.String(0), args.Error(1)
}

func (m *MockRecordGateway) List(ctx context.Context, collection string, filter model.Filter) ([]model.Document, error) {
	args := m.Called(ctx, collection, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockRecordGateway) Diagnose(ctx context.Context) service.Diagnostics {
	args := m.Called(ctx)
	return args.Get(0).(service.Diagnostics)
}
