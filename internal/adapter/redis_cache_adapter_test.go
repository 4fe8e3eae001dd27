package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"trivia-gen/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

const (
	questionsKey   = "triviagen:questions:generated:3f2a:5"
	questionsValue = "1. What is the capital of France?\n   a) Paris"
)

func TestRedisCacheAdapter_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	t.Run("Hit", func(t *testing.T) {
		mock.ExpectGet(questionsKey).SetVal(questionsValue)
		val, err := adapter.Get(ctx, questionsKey)
		assert.NoError(t, err)
		assert.Equal(t, questionsValue, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("HitEmptyValue", func(t *testing.T) {
		mock.ExpectGet(questionsKey).SetVal("")
		val, err := adapter.Get(ctx, questionsKey)
		assert.NoError(t, err)
		assert.Equal(t, "", val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Miss", func(t *testing.T) {
		mock.ExpectGet(questionsKey).SetErr(redis.Nil)
		val, err := adapter.Get(ctx, questionsKey)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("connection reset")
		mock.ExpectGet(questionsKey).SetErr(redisErr)
		_, err := adapter.Get(ctx, questionsKey)
		assert.ErrorIs(t, err, redisErr)
		assert.NotErrorIs(t, err, domain.ErrCacheMiss)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()
	ttl := 24 * time.Hour

	mock.ExpectSet(questionsKey, questionsValue, ttl).SetVal("OK")
	assert.NoError(t, adapter.Set(ctx, questionsKey, questionsValue, ttl))

	redisErr := errors.New("OOM command not allowed")
	mock.ExpectSet(questionsKey, questionsValue, ttl).SetErr(redisErr)
	assert.ErrorIs(t, adapter.Set(ctx, questionsKey, questionsValue, ttl), redisErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_DeleteAndPing(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	mock.ExpectDel(questionsKey).SetVal(0)
	assert.NoError(t, adapter.Delete(ctx, questionsKey), "deleting a missing key is not an error")

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, adapter.Ping(ctx))

	pingErr := errors.New("dial tcp: connection refused")
	mock.ExpectPing().SetErr(pingErr)
	assert.ErrorIs(t, adapter.Ping(ctx), pingErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}
