package commands_test

import (
	"errors"
	"testing"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/core/domain/model/kernel"
	"parceltrack/internal/core/domain/model/parcel"
	"parceltrack/internal/core/domain/model/route"
	"parceltrack/internal/core/domain/services"
	"parceltrack/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreateCommand(t *testing.T) commands.CreateParcelCommand {
	t.Helper()
	cmd, err := commands.NewCreateParcelCommand("PT-0001", "Ada Lovelace", "Berlin", "Paris", 3, createdAt)
	require.NoError(t, err)
	return cmd
}

func TestCreateParcelCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t)

	berlin, _ := kernel.NewLocation(52.52, 13.405)
	paris, _ := kernel.NewLocation(48.8566, 2.3522)
	r, err := route.Interpolate(berlin, paris, 100)
	require.NoError(t, err)

	uow := new(MockUnitOfWork)
	factory := new(MockUoWFactory)
	parcelRepo := new(MockParcelRepo)
	eventRepo := new(MockEventRepo)
	geocoder := new(MockGeocoder)
	builder := new(MockRouteBuilder)
	publisher := new(MockPublisher)

	var stored *parcel.Parcel
	mock.InOrder(
		geocoder.On("Geocode", ctx, "Berlin").Return(berlin, nil).Once(),
		geocoder.On("Geocode", ctx, "Paris").Return(paris, nil).Once(),
		builder.On("Build", ctx, berlin, paris).
			Return(services.BuiltRoute{Route: r, Strategy: services.ExternalStrategyName}, nil).Once(),
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ParcelRepository").Return(parcelRepo).Once(),
		parcelRepo.On("Add", ctx, mock.Anything).
			Run(func(args mock.Arguments) { stored = args.Get(1).(*parcel.Parcel) }).
			Return(nil).Once(),
		uow.On("TrackingEventRepository").Return(eventRepo).Once(),
		eventRepo.On("Append", ctx, eventOfType(parcel.EventCreated)).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		publisher.On("Publish", ctx, eventOfType(parcel.EventCreated)).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewCreateParcelCommandHandler(factory, geocoder, builder, publisher, discardLogger())
	err = handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "PT-0001", stored.TrackingCode())
	assert.Equal(t, parcel.Pending, stored.Status())
	assert.Same(t, r, stored.Route())

	pos, ok := stored.CurrentPosition()
	require.True(t, ok)
	assert.Equal(t, berlin, pos)

	factory.AssertExpectations(t)
	uow.AssertExpectations(t)
	parcelRepo.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
	geocoder.AssertExpectations(t)
	builder.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCreateParcelCommandHandler_Handle_GeocodingFailureStoresParcelWithoutRoute(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t)

	berlin, _ := kernel.NewLocation(52.52, 13.405)

	uow := new(MockUnitOfWork)
	factory := new(MockUoWFactory)
	parcelRepo := new(MockParcelRepo)
	eventRepo := new(MockEventRepo)
	geocoder := new(MockGeocoder)
	builder := new(MockRouteBuilder)

	geocoder.On("Geocode", ctx, "Berlin").Return(berlin, nil).Once()
	geocoder.On("Geocode", ctx, "Paris").Return(kernel.Location{}, ports.ErrAddressNotFound).Once()
	factory.On("Create").Return(uow).Once()
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ParcelRepository").Return(parcelRepo).Once()
	parcelRepo.On("Add", ctx, mock.MatchedBy(func(p *parcel.Parcel) bool { return !p.HasRoute() })).Return(nil).Once()
	uow.On("TrackingEventRepository").Return(eventRepo).Once()
	eventRepo.On("Append", ctx, mock.MatchedBy(func(e *parcel.TrackingEvent) bool {
		_, hasLocation := e.Location()
		return e.Type() == parcel.EventCreated && !hasLocation
	})).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	handler := commands.NewCreateParcelCommandHandler(factory, geocoder, builder, nil, discardLogger())
	err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	builder.AssertNotCalled(t, "Build", mock.Anything, mock.Anything, mock.Anything)
	parcelRepo.AssertExpectations(t)
	eventRepo.AssertExpectations(t)
}

func TestCreateParcelCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t)

	uow := new(MockUnitOfWork)
	factory := new(MockUoWFactory)
	parcelRepo := new(MockParcelRepo)
	geocoder := new(MockGeocoder)
	publisher := new(MockPublisher)

	geocoder.On("Geocode", ctx, mock.Anything).Return(kernel.Location{}, ports.ErrProviderUnavailable).Twice()
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("ParcelRepository").Return(parcelRepo).Once(),
		parcelRepo.On("Add", ctx, mock.Anything).Return(errors.New("duplicate key")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	handler := commands.NewCreateParcelCommandHandler(factory, geocoder, new(MockRouteBuilder), publisher, discardLogger())
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key")
	uow.AssertExpectations(t)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCreateParcelCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateCommand(t)

	uow := new(MockUnitOfWork)
	factory := new(MockUoWFactory)
	geocoder := new(MockGeocoder)

	geocoder.On("Geocode", ctx, mock.Anything).Return(kernel.Location{}, ports.ErrAddressNotFound).Twice()
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	handler := commands.NewCreateParcelCommandHandler(factory, geocoder, new(MockRouteBuilder), nil, discardLogger())
	err := handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "begin error")
	uow.AssertExpectations(t)
}

func TestCreateParcelCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockUoWFactory)

	handler := commands.NewCreateParcelCommandHandler(factory, new(MockGeocoder), new(MockRouteBuilder), nil, discardLogger())
	err := handler.Handle(t.Context(), commands.CreateParcelCommand{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be created via NewCreateParcelCommand constructor")
	factory.AssertNotCalled(t, "Create")
}
