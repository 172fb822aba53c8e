package jsonbin

import (
	"context"
	"sync"
	"time"
)

type Token struct{}

// A bucket of "tokens" where each token allows one request to be sent.
// The bucket refills itself at the configured rate until it is full.
//
// A nil bucket means no limit, every acquire succeeds immediately.
type RequestBucket struct {
	tokens chan Token
	ticker *time.Ticker
	done   chan struct{}
	stop   sync.Once
}

// Creates a bucket allowing reqPerMin requests per minute, pre-filled with one second's worth
// of tokens (at least one). Returns nil if reqPerMin is not positive.
func NewRequestBucket(reqPerMin int) *RequestBucket {
	if reqPerMin <= 0 {
		return nil
	}

	capacity := max(1, reqPerMin/60) // Eg: 180req/m becomes 3req/s
	bucket := &RequestBucket{
		tokens: make(chan Token, capacity),
		ticker: time.NewTicker(time.Minute / time.Duration(reqPerMin)),
		done:   make(chan struct{}),
	}

	// Pre-fill
	for range capacity {
		bucket.tokens <- Token{}
	}

	go func() {
		for {
			select {
			case <-bucket.done:
				return
			case <-bucket.ticker.C:
				select {
				case bucket.tokens <- Token{}:
				default: // full, skip adding token.
				}
			}
		}
	}()

	return bucket
}

// Blocks until a token is available or ctx is done.
func (b *RequestBucket) Acquire(ctx context.Context) error {
	if b == nil {
		return nil
	}

	select {
	case <-b.tokens:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Attempts to acquire a token without blocking.
func (b *RequestBucket) TryAcquire() bool {
	if b == nil {
		return true
	}

	select {
	case <-b.tokens:
		return true
	default:
		return false
	}
}

// Stops refilling the bucket. Tokens already in it can still be acquired.
func (b *RequestBucket) Stop() {
	if b == nil {
		return
	}

	b.stop.Do(func() {
		b.ticker.Stop()
		close(b.done)
	})
}
