package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewParticipant(t *testing.T) {
	t.Run("should keep the name as sent and assign a fresh id", func(t *testing.T) {
		req := require.New(t)

		a, err := NewParticipant("c1", "  Alice ", "r1", true, 0)
		req.NoError(err)
		b, err := NewParticipant("c2", "Bob", "r1", false, 0)
		req.NoError(err)

		req.Equal("  Alice ", a.DisplayName)
		req.Equal(ConnID("c1"), a.ConnID)
		req.Equal(RoomID("r1"), a.RoomID)
		req.True(a.AudioOnly)
		req.NotEmpty(a.ID)
		req.NotEqual(a.ID, b.ID)
	})

	t.Run("should reject empty names", func(t *testing.T) {
		_, err := NewParticipant("c1", " \t", "r1", false, 0)
		require.ErrorIs(t, err, ErrDisplayNameEmpty)
	})

	t.Run("should apply the configured length bound", func(t *testing.T) {
		req := require.New(t)

		_, err := NewParticipant("c1", strings.Repeat("x", 11), "r1", false, 10)
		req.ErrorIs(err, ErrDisplayNameTooLong)

		_, err = NewParticipant("c1", strings.Repeat("x", DefaultMaxDisplayNameLen+1), "r1", false, 0)
		req.ErrorIs(err, ErrDisplayNameTooLong)

		_, err = NewParticipant("c1", strings.Repeat("x", 10), "r1", false, 10)
		req.NoError(err)
	})
}
