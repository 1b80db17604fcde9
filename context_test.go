package lockbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	// try logger with default
	newLogger := zap.NewExample()
	ctx := WithLogger(bg, newLogger)
	assert.Equal(t, DefaultLogger, GetLogger(bg))
	assert.Equal(t, newLogger, GetLogger(ctx))

	// test height
	_, ok := GetHeight(ctx)
	assert.False(t, ok)
	ctx = WithHeight(ctx, 7)
	val, ok := GetHeight(ctx)
	assert.True(t, ok)
	assert.EqualValues(t, 7, val)

	// block time is stored in UTC
	now := time.Now()
	ctx = WithBlockTime(ctx, now)
	bt, ok := BlockTime(ctx)
	assert.True(t, ok)
	assert.Equal(t, now.UTC(), bt)
}

func TestIsExpired(t *testing.T) {
	now := time.Now()
	ctx := WithBlockTime(context.Background(), now)

	future := AsUnixTime(now.Add(5 * time.Minute))
	if IsExpired(ctx, future) {
		t.Error("future is expired")
	}

	past := AsUnixTime(now.Add(-5 * time.Minute))
	if !IsExpired(ctx, past) {
		t.Error("past is not expired")
	}

	// the boundary belongs to expiration
	if !IsExpired(ctx, AsUnixTime(now)) {
		t.Error("exact now is not expired")
	}
}

func TestIsExpiredRequiresBlockTime(t *testing.T) {
	hasPanic := make(chan bool)

	go func() {
		defer func() {
			p := recover()
			hasPanic <- p != nil
		}()

		// calling IsExpired with a context without a block time
		// attached is expected to panic
		IsExpired(context.Background(), AsUnixTime(time.Now()))
	}()

	if !<-hasPanic {
		t.Fatal("no panic")
	}
}
