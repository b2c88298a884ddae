package session

import (
	"context"
	"testing"
	"time"

	"galli2globe/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRepository(t *testing.T) {
	s, err := miniredis.Run()
	require.NoError(t, err)
	defer s.Close()

	client := redis.NewClient(&redis.Options{
		Addr: s.Addr(),
	})
	defer client.Close()

	repo := NewRedisRepository(client, time.Hour)
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		sess := &models.Session{
			Token:     "tok-1",
			Email:     "asha@example.com",
			CreatedAt: time.Now().UTC().Truncate(time.Second),
		}

		err := repo.Set(ctx, sess)
		require.NoError(t, err)

		got, err := repo.Get(ctx, "tok-1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, sess.Email, got.Email)
		assert.Equal(t, sess.Token, got.Token)
	})

	t.Run("GetNonExistent", func(t *testing.T) {
		got, err := repo.Get(ctx, "nope")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("Delete", func(t *testing.T) {
		sess := &models.Session{Token: "tok-2", Email: "x@example.com"}
		repo.Set(ctx, sess)

		err := repo.Delete(ctx, "tok-2")
		require.NoError(t, err)

		got, _ := repo.Get(ctx, "tok-2")
		assert.Nil(t, got)
	})

	t.Run("Expiry", func(t *testing.T) {
		sess := &models.Session{Token: "tok-3", Email: "y@example.com"}
		require.NoError(t, repo.Set(ctx, sess))

		s.FastForward(time.Hour + time.Minute)

		got, err := repo.Get(ctx, "tok-3")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("NilClient", func(t *testing.T) {
		repo := NewRedisRepository(nil, time.Hour)
		_, err := repo.Get(ctx, "tok")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "redis client is nil")
	})

	t.Run("Ping", func(t *testing.T) {
		err := Ping(ctx, client)
		assert.NoError(t, err)
	})

	t.Run("Close", func(t *testing.T) {
		err := Close(client)
		assert.NoError(t, err)
	})
}
