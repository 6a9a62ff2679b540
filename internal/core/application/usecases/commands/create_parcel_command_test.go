package commands_test

import (
	"testing"
	"time"

	"parceltrack/internal/core/application/usecases/commands"
	"parceltrack/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCreateParcelCommand(t *testing.T) {
	t.Run("should normalize addresses", func(t *testing.T) {
		cmd, err := commands.NewCreateParcelCommand(
			" PT-0001 ", "Ada Lovelace", "  Alexanderplatz 1,\n  Berlin ", "Rue de Rivoli\t1, Paris", 3, createdAt,
		)
		require.NoError(t, err)
		require.NoError(t, cmd.Validate())

		assert.Equal(t, "PT-0001", cmd.TrackingCode())
		assert.Equal(t, "Ada Lovelace", cmd.ReceiverName())
		assert.Equal(t, "Alexanderplatz 1, Berlin", cmd.OriginAddress())
		assert.Equal(t, "Rue de Rivoli 1, Paris", cmd.DestinationAddress())
		assert.Equal(t, 3, cmd.DaysToDeliver())
		assert.Equal(t, createdAt, cmd.CreatedAt())
	})

	t.Run("should report every invalid field", func(t *testing.T) {
		_, err := commands.NewCreateParcelCommand("", " ", "", "  ", 0, time.Time{})
		require.Error(t, err)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		for _, field := range []string{"trackingCode", "receiverName", "originAddress", "destinationAddress", "daysToDeliver", "createdAt"} {
			assert.Contains(t, err.Error(), field)
		}
	})
}

func TestCreateParcelCommand_Validate_WhenNotConstructed_ShouldReturnError(t *testing.T) {
	var cmd commands.CreateParcelCommand

	err := cmd.Validate()

	require.Error(t, err)
	assert.Equal(t, commands.ErrCreateParcelCommandIsNotConstructed, err)
}
