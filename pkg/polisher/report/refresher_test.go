package report

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/leandrojofre/prosepolisher/pkg/polisher/leaderboard"
)

type recordingPublisher struct {
	calls [][]leaderboard.SlopItem
	fail  int // fail the first n publishes
	hook  func()
}

func (p *recordingPublisher) Publish(items []leaderboard.SlopItem) error {
	p.calls = append(p.calls, items)
	if p.hook != nil {
		p.hook()
	}
	if p.fail > 0 {
		p.fail--
		return errors.New("consumer unavailable")
	}
	return nil
}

func staticSource(items ...leaderboard.SlopItem) Source {
	return func() []leaderboard.SlopItem { return items }
}

var sample = leaderboard.SlopItem{Type: leaderboard.TypePhrase, Phrase: "crooked smile", Score: 4}

func TestRefreshThrottled(t *testing.T) {
	pub := &recordingPublisher{}
	r := NewRefresher(staticSource(sample), pub, time.Hour, nil)

	assert.True(t, r.Refresh())
	assert.False(t, r.Refresh(), "second refresh inside the interval is throttled")
	assert.True(t, r.Force(), "forced refresh ignores the throttle")
	assert.Len(t, pub.calls, 2)

	r.SetInterval(0)
	assert.True(t, r.Refresh())
	assert.True(t, r.Refresh())
}

func TestRefreshUnthrottled(t *testing.T) {
	pub := &recordingPublisher{}
	r := NewRefresher(staticSource(sample), pub, 0, nil)
	for i := 0; i < 5; i++ {
		require.True(t, r.Refresh())
	}
	assert.Len(t, pub.calls, 5)
}

func TestRefreshReentrantDropped(t *testing.T) {
	pub := &recordingPublisher{}
	r := NewRefresher(staticSource(sample), pub, 0, nil)

	var nested []bool
	pub.hook = func() {
		assert.True(t, r.Running())
		nested = append(nested, r.Refresh(), r.Force())
	}

	assert.True(t, r.Refresh())
	assert.Equal(t, []bool{false, false}, nested)
	assert.Len(t, pub.calls, 1)
	assert.False(t, r.Running())
}

func TestRefreshPublishErrorFallsBackToEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	pub := &recordingPublisher{fail: 1}
	r := NewRefresher(staticSource(sample), pub, 0, zap.New(core))

	assert.True(t, r.Refresh())
	require.Len(t, pub.calls, 2)
	assert.Equal(t, []leaderboard.SlopItem{sample}, pub.calls[0])
	assert.Empty(t, pub.calls[1])
	assert.NotNil(t, pub.calls[1], "the fallback is an empty list, not null")
	assert.Equal(t, 1, logs.FilterMessage("publish slop list failed, publishing empty list").Len())
}

func TestRefreshSourcePanicPublishesEmpty(t *testing.T) {
	pub := &recordingPublisher{}
	r := NewRefresher(func() []leaderboard.SlopItem { panic("boom") }, pub, 0, nil)

	assert.True(t, r.Refresh())
	require.Len(t, pub.calls, 1)
	assert.Empty(t, pub.calls[0])
	assert.False(t, r.Running(), "guard released after a panic")
}

func TestRefreshPublisherPanicPublishesEmpty(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	var calls [][]leaderboard.SlopItem
	pub := PublisherFunc(func(items []leaderboard.SlopItem) error {
		calls = append(calls, items)
		if len(calls) == 1 {
			panic("consumer exploded")
		}
		return nil
	})
	r := NewRefresher(staticSource(sample), pub, 0, zap.New(core))

	assert.NotPanics(t, func() { assert.True(t, r.Refresh()) })
	require.Len(t, calls, 2)
	assert.Equal(t, []leaderboard.SlopItem{sample}, calls[0])
	assert.Empty(t, calls[1])
	assert.False(t, r.Running())
	assert.Equal(t, 1, logs.FilterMessage("publish slop list failed, publishing empty list").Len())

	// a publisher that keeps panicking is logged, not raised
	always := PublisherFunc(func(items []leaderboard.SlopItem) error { panic("still down") })
	r = NewRefresher(staticSource(sample), always, 0, zap.New(core))
	assert.NotPanics(t, func() { r.Force() })
	assert.Equal(t, 1, logs.FilterMessage("publish empty slop list failed").Len())
}
