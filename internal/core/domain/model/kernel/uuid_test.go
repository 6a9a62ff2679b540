package kernel_test

import (
	"testing"

	"parceltrack/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	id1 := kernel.NewUUID()
	id2 := kernel.NewUUID()

	require.NoError(t, id1.Validate())
	assert.False(t, id1.IsEqual(id2))
	assert.Len(t, id1.String(), 36)
}

func TestParseUUID(t *testing.T) {
	t.Run("valid formats", func(t *testing.T) {
		for _, s := range []string{
			"6ba7b810-9dad-11d1-80b4-00c04fd430c8",
			"{6ba7b810-9dad-11d1-80b4-00c04fd430c8}",
			"urn:uuid:6ba7b810-9dad-11d1-80b4-00c04fd430c8",
		} {
			id, err := kernel.ParseUUID(s)
			require.NoError(t, err, s)
			assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", id.String())
		}
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := kernel.ParseUUID("not-a-uuid")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid UUID format")
	})

	t.Run("nil uuid is rejected", func(t *testing.T) {
		_, err := kernel.ParseUUID(uuid.Nil.String())
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUIDFromBytes(t *testing.T) {
	original := kernel.NewUUID()
	raw := original.Bytes()

	restored, err := kernel.UUIDFromBytes(raw[:])
	require.NoError(t, err)
	assert.True(t, original.IsEqual(restored))

	_, err = kernel.UUIDFromBytes([]byte{1, 2, 3})
	require.Error(t, err)

	zero := uuid.Nil
	_, err = kernel.UUIDFromBytes(zero[:])
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestUUID_Short(t *testing.T) {
	id, err := kernel.ParseUUID("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	require.NoError(t, err)

	assert.Equal(t, "6BA7B810", id.Short())
}

func TestUUID_ZeroValue(t *testing.T) {
	var id kernel.UUID
	require.ErrorIs(t, id.Validate(), kernel.ErrUUIDIsNotConstructed)
}
