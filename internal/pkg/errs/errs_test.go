package errs_test

import (
	"errors"
	"testing"

	"parceltrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("trackingCode", "PT-7F3A")

		assert.Equal(t, "trackingCode", err.ParamName)
		assert.Equal(t, "PT-7F3A", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: PT-7F3A", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewObjectNotFoundErrorWithCause("trackingCode", "PT-7F3A", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: trackingCode, ID is: PT-7F3A (cause: connection reset)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("non string identifiers are formatted verbatim", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("eventId", 42)
		assert.Equal(t, "object not found: %!s(int=42)", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("status")

		assert.Equal(t, "status", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: status", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("index went backwards")
		err := errs.NewValueIsInvalidErrorWithCause("progress index", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: progress index (cause: index went backwards)", err.Error())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("lat", 95.5, -90.0, 90.0)

		assert.Equal(t, "lat", err.ParamName)
		assert.InDelta(t, 95.5, err.Value, 0)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: 95.5 is lat, min value is -90, max value is 90", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("NewValueIsOutOfRangeErrorWithCause", func(t *testing.T) {
		cause := errors.New("route too short")
		err := errs.NewValueIsOutOfRangeErrorWithCause("index", 7, 0, 4, cause)

		assert.Equal(t,
			"value is invalid: 7 is index, min value is 0, max value is 4 (cause: route too short)",
			err.Error())
	})

	t.Run("values are rendered on one line", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("label", "Main St\nSpringfield", 0, 10)
		assert.Contains(t, err.Error(), "Main St Springfield")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("receiverName")

		assert.Equal(t, "value is required: receiverName", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("NewValueIsRequiredErrorWithCause", func(t *testing.T) {
		cause := errors.New("blank after trimming")
		err := errs.NewValueIsRequiredErrorWithCause("receiverName", cause)

		assert.Equal(t, "value is required: receiverName (cause: blank after trimming)", err.Error())
	})
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	require.ErrorIs(t, errs.NewObjectNotFoundError("trackingCode", "x"), errs.ErrObjectNotFound)
	require.ErrorIs(t, errs.NewValueIsInvalidError("status"), errs.ErrValueIsInvalid)
	require.ErrorIs(t, errs.NewValueIsOutOfRangeError("lng", 200, -180, 180), errs.ErrValueIsOutOfRange)
	require.ErrorIs(t, errs.NewValueIsRequiredError("route"), errs.ErrValueIsRequired)

	var target *errs.ValueIsOutOfRangeError
	joined := errors.Join(errs.NewValueIsRequiredError("route"), errs.NewValueIsOutOfRangeError("lng", 200, -180, 180))
	require.ErrorAs(t, joined, &target)
	assert.Equal(t, "lng", target.ParamName)
}
