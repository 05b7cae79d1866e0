package web

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/y-hirakaw/accident-charts/internal/dataset"
)

type countingSource struct {
	pie       []dataset.PieRecord
	accidents []dataset.AccidentRecord
	err       error
	pieCalls  int
	accCalls  int
}

func (s *countingSource) LoadPie(ctx context.Context) ([]dataset.PieRecord, error) {
	s.pieCalls++
	return s.pie, s.err
}

func (s *countingSource) LoadAccidents(ctx context.Context) ([]dataset.AccidentRecord, error) {
	s.accCalls++
	return s.accidents, s.err
}

func newSource() *countingSource {
	return &countingSource{
		pie: []dataset.PieRecord{{Key: "A", Value: 1}, {Key: "B", Value: 3}},
		accidents: []dataset.AccidentRecord{
			{Day: 1, Time: "朝", Count: 5},
			{Day: 1, Time: "昼", Count: 3},
			{Day: 2, Time: "朝", Count: 2},
		},
	}
}

func TestServerCachesSeries(t *testing.T) {
	src := newSource()
	s := NewServer(&Config{CacheTTL: time.Minute}, src, src)

	for i := 0; i < 3; i++ {
		pie, err := s.PieSeries(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 4.0, pie.Total)

		stack, err := s.StackedSeries(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 8, stack.Max())
	}
	assert.Equal(t, 1, src.pieCalls)
	assert.Equal(t, 1, src.accCalls)

	s.Invalidate("test")
	_, err := s.PieSeries(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, src.pieCalls)
}

func TestServerWithoutCache(t *testing.T) {
	src := newSource()
	s := NewServer(&Config{}, src, src)

	_, _ = s.PieSeries(context.Background())
	_, _ = s.PieSeries(context.Background())
	assert.Equal(t, 2, src.pieCalls)
}

func TestServerDoesNotCacheErrors(t *testing.T) {
	src := newSource()
	src.err = errors.New("boom")
	s := NewServer(&Config{CacheTTL: time.Minute}, src, src)

	_, err := s.PieSeries(context.Background())
	require.Error(t, err)

	src.err = nil
	pie, err := s.PieSeries(context.Background())
	require.NoError(t, err)
	assert.Len(t, pie.Slices, 2)
	assert.Equal(t, 2, src.pieCalls)
}

func TestServerDefaults(t *testing.T) {
	s := NewServer(&Config{}, newSource(), newSource())
	assert.NotNil(t, s.Config().Profile)
	assert.Equal(t, 450, s.Config().Profile.Pie.Width)
	assert.NotEmpty(t, s.Config().Lang)
}

func TestServerHealth(t *testing.T) {
	src := newSource()
	s := NewServer(&Config{}, src, src)
	health := s.Health(context.Background())
	assert.True(t, health.Healthy)
	assert.Equal(t, "ok", health.Datasets["pie"])

	src.err = errors.New("unreachable")
	health = s.Health(context.Background())
	assert.False(t, health.Healthy)
	assert.Contains(t, health.Datasets["pie"], "unreachable")
	assert.Contains(t, health.Datasets["accidents"], "unreachable")
}

type storeSource struct {
	*countingSource
	pingErr error
}

func (s *storeSource) TestConnection(ctx context.Context) error {
	return s.pingErr
}

func TestServerHealth_ChecksStoreConnection(t *testing.T) {
	src := &storeSource{countingSource: newSource()}
	s := NewServer(&Config{}, src, src)

	health := s.Health(context.Background())
	assert.True(t, health.Healthy)
	assert.Equal(t, "ok", health.Datasets["store"])

	src.pingErr = errors.New("database is locked")
	health = s.Health(context.Background())
	assert.False(t, health.Healthy)
	assert.Contains(t, health.Datasets["store"], "database is locked")
	assert.Equal(t, "ok", health.Datasets["pie"])
}

func TestServerHealth_FileSourceHasNoStoreEntry(t *testing.T) {
	src := newSource()
	health := NewServer(&Config{}, src, src).Health(context.Background())
	_, ok := health.Datasets["store"]
	assert.False(t, ok)
}

func TestServerSubscribeAndInvalidate(t *testing.T) {
	s := NewServer(&Config{}, newSource(), newSource())

	ch := s.Subscribe("client-1")
	assert.Equal(t, 1, s.SubscriberCount())

	s.Invalidate("file changed")
	select {
	case ev := <-ch:
		assert.Equal(t, EventDataUpdated, ev.Type)
		assert.Equal(t, map[string]string{"reason": "file changed"}, ev.Data)
	case <-time.After(time.Second):
		t.Fatal("イベントが届かない")
	}

	s.Unsubscribe("client-1")
	assert.Equal(t, 0, s.SubscriberCount())
	_, ok := <-ch
	assert.False(t, ok, "購読解除後はチャネルが閉じているべき")

	// 未登録のIDは無視される
	s.Unsubscribe("unknown")
}

func TestServerBroadcastDropsWhenFull(t *testing.T) {
	s := NewServer(&Config{}, newSource(), newSource())
	ch := s.Subscribe("slow")

	for i := 0; i < 20; i++ {
		s.Broadcast(&UpdateEvent{Type: EventDataUpdated, Timestamp: time.Now()})
	}
	assert.Len(t, ch, cap(ch))

	s.Close()
	assert.Equal(t, 0, s.SubscriberCount())
}
