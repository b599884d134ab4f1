package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/codeotter0201/fullstack-lms-challenge/utils/cache"
	"github.com/google/uuid"
)

// ErrLockTimeout is returned when a key stays held past the caller's patience.
var ErrLockTimeout = errors.New("timed out waiting for lock")

// KeyLocker serializes work on a single key. Unrelated keys never contend.
type KeyLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// LocalLocker is an in-process KeyLocker
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	ch   chan struct{}
	refs int
}

func NewLocalLocker() *LocalLocker {
	return &LocalLocker{locks: make(map[string]*keyLock)}
}

func (l *LocalLocker) Lock(ctx context.Context, key string) (func(), error) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{ch: make(chan struct{}, 1)}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	select {
	case kl.ch <- struct{}{}:
	case <-ctx.Done():
		l.release(key, kl)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-kl.ch
			l.release(key, kl)
		})
	}, nil
}

func (l *LocalLocker) release(key string, kl *keyLock) {
	l.mu.Lock()
	kl.refs--
	if kl.refs == 0 {
		delete(l.locks, key)
	}
	l.mu.Unlock()
}

// RedisLocker is a KeyLocker shared by every server instance using the same Redis
type RedisLocker struct {
	cache *cache.RedisCache
	ttl   time.Duration
	wait  time.Duration
	retry time.Duration
}

// NewRedisLocker holds keys for at most ttl and gives up acquiring after wait.
func NewRedisLocker(c *cache.RedisCache, ttl, wait time.Duration) *RedisLocker {
	return &RedisLocker{cache: c, ttl: ttl, wait: wait, retry: 25 * time.Millisecond}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := "lms:lock:" + key
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.cache.SetNX(ctx, redisKey, token, l.ttl)
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-time.After(l.retry):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// Detached from ctx so a cancelled request still releases its key
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_, _ = l.cache.DeleteIfValue(releaseCtx, redisKey, token)
		})
	}, nil
}

func submitLockKey(userID, lessonID uint) string {
	return fmt.Sprintf("submit:%d:%d", userID, lessonID)
}

func purchaseLockKey(userID, courseID uint) string {
	return fmt.Sprintf("purchase:%d:%d", userID, courseID)
}
