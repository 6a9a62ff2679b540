package commands_test

import (
	"context"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockParcelRepo struct{ mock.Mock }

func (m *MockParcelRepo) Add(ctx context.Context, p *parcel.Parcel) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockParcelRepo) Update(
	ctx context.Context,
	p *parcel.Parcel,
	expectedIndex int,
	expectedStatus parcel.Status,
) error {
	args := m.Called(ctx, p, expectedIndex, expectedStatus)
	return args.Error(0)
}

func (m *MockParcelRepo) Get(ctx context.Context, trackingCode string) (*parcel.Parcel, error) {
	args := m.Called(ctx, trackingCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parcel.Parcel), args.Error(1)
}

func (m *MockParcelRepo) ListActive(ctx context.Context) ([]*parcel.Parcel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*parcel.Parcel), args.Error(1)
}

type MockEventRepo struct{ mock.Mock }

func (m *MockEventRepo) Append(ctx context.Context, e *parcel.TrackingEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepo) ListByTrackingCode(ctx context.Context, code string) ([]*parcel.TrackingEvent, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*parcel.TrackingEvent), args.Error(1)
}

type MockUnitOfWork struct{ mock.Mock }

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) ParcelRepository() ports.ParcelRepository {
	args := m.Called()
	return args.Get(0).(ports.ParcelRepository)
}

func (m *MockUnitOfWork) TrackingEventRepository() ports.TrackingEventRepository {
	args := m.Called()
	return args.Get(0).(ports.TrackingEventRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.ParcelUoW {
	args := m.Called()
	return args.Get(0).(commands.ParcelUoW)
}

type MockReverseGeocoder struct{ mock.Mock }

func (m *MockReverseGeocoder) ReverseGeocode(ctx context.Context, loc kernel.Location) (string, error) {
	args := m.Called(ctx, loc)
	return args.String(0), args.Error(1)
}

type MockGeocoder struct{ mock.Mock }

func (m *MockGeocoder) Geocode(ctx context.Context, address string) (kernel.Location, error) {
	args := m.Called(ctx, address)
	return args.Get(0).(kernel.Location), args.Error(1)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, e *parcel.TrackingEvent) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

type MockRouteBuilder struct{ mock.Mock }

func (m *MockRouteBuilder) Build(ctx context.Context, origin, destination kernel.Location) (services.BuiltRoute, error) {
	args := m.Called(ctx, origin, destination)
	return args.Get(0).(services.BuiltRoute), args.Error(1)
}

func eventOfType(t parcel.EventType) any {
	return mock.MatchedBy(func(e *parcel.TrackingEvent) bool {
		return e != nil && e.Type() == t
	})
}
