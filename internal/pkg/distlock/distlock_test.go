package distlock

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisLock_AcquireRelease(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()

	a := NewRedisLock(client, "sync:P1", time.Minute)
	b := NewRedisLock(client, "sync:P1", time.Minute)

	ok, err := a.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("lock:sync:P1"))

	ok, err = b.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "second holder must not acquire")

	assert.ErrorIs(t, b.Release(ctx), ErrNotHeld)
	assert.True(t, mr.Exists("lock:sync:P1"), "foreign release must not delete the key")

	require.NoError(t, a.Release(ctx))
	assert.False(t, mr.Exists("lock:sync:P1"))

	ok, err = b.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisLock_ExpiresAfterTTL(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()

	a := NewRedisLock(client, "k", 2*time.Second)
	ok, err := a.Acquire(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(3 * time.Second)

	b := NewRedisLock(client, "k", time.Second)
	ok, err = b.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.ErrorIs(t, a.Release(ctx), ErrNotHeld)
}

func TestRedisLock_Extend(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()

	a := NewRedisLock(client, "k", 2*time.Second)
	_, err := a.Acquire(ctx)
	require.NoError(t, err)

	require.NoError(t, a.Extend(ctx, time.Minute))
	assert.Equal(t, time.Minute, mr.TTL(a.Key()))

	other := NewRedisLock(client, "k", time.Second)
	assert.ErrorIs(t, other.Extend(ctx, time.Minute), ErrNotHeld)
}

func TestRedisLock_AcquireErrorWhenRedisDown(t *testing.T) {
	mr, client := newRedis(t)
	mr.Close()

	_, err := NewRedisLock(client, "k", time.Second).Acquire(context.Background())
	assert.Error(t, err)
}

func TestPGAdvisoryLock(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	lock := NewPGAdvisoryLock(db, "sync:P1")
	id := advisoryKey("sync:P1")

	mock.ExpectQuery(`SELECT pg_try_advisory_lock\(\$1\)`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"pg_try_advisory_lock"}).AddRow(true))
	mock.ExpectExec(`SELECT pg_advisory_unlock\(\$1\)`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	ok, err := lock.Acquire(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = lock.Acquire(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "re-acquire on the same instance must not succeed")

	require.NoError(t, lock.Release(ctx))
	assert.ErrorIs(t, lock.Release(ctx), ErrNotHeld)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPGAdvisoryLock_HeldElsewhere(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT pg_try_advisory_lock`).
		WillReturnRows(sqlmock.NewRows([]string{"pg_try_advisory_lock"}).AddRow(false))

	ok, err := NewPGAdvisoryLock(db, "k").Acquire(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLocalLock(t *testing.T) {
	ctx := context.Background()
	l := NewLocalLock()

	ok, _ := l.Acquire(ctx)
	assert.True(t, ok)
	ok, _ = l.Acquire(ctx)
	assert.False(t, ok)

	require.NoError(t, l.Release(ctx))
	assert.ErrorIs(t, l.Release(ctx), ErrNotHeld)

	ok, _ = l.Acquire(ctx)
	assert.True(t, ok)
}

func TestNewLock_PicksBackend(t *testing.T) {
	_, client := newRedis(t)
	assert.IsType(t, &RedisLock{}, NewLock(client, nil, "k", time.Second))

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	assert.IsType(t, &PGAdvisoryLock{}, NewLock(nil, db, "k", time.Second))

	var noDB *sql.DB
	assert.IsType(t, &LocalLock{}, NewLock(nil, noDB, "k", time.Second))
}
