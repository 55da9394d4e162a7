package realtime_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keypanel/key_panel_app/internal/adapters/realtime"
)

func TestSubscribe_FiresImmediatelyWithCurrentValue(t *testing.T) {
	hub := realtime.NewHub()
	_ = hub.SetScalar(context.Background(), "acc-1", 700)

	var got []json.RawMessage
	cancel := hub.Subscribe("acc-1", func(raw json.RawMessage) {
		got = append(got, raw)
	})
	defer cancel()

	require.Equal(t, []json.RawMessage{json.RawMessage("700")}, got)
}

func TestSubscribe_NeverWrittenCellFiresNil(t *testing.T) {
	hub := realtime.NewHub()

	fired := false
	cancel := hub.Subscribe("acc-1", func(raw json.RawMessage) {
		fired = true
		require.Nil(t, raw)
	})
	defer cancel()

	require.True(t, fired)
}

func TestPublish_NotifiesAllSubscribersOfTheCell(t *testing.T) {
	hub := realtime.NewHub()

	var a, b []string
	cancelA := hub.Subscribe("acc-1", func(raw json.RawMessage) { a = append(a, string(raw)) })
	defer cancelA()
	cancelB := hub.Subscribe("acc-1", func(raw json.RawMessage) { b = append(b, string(raw)) })
	defer cancelB()
	cancelOther := hub.Subscribe("acc-2", func(raw json.RawMessage) {
		if raw != nil {
			t.Errorf("unexpected notification for acc-2: %s", raw)
		}
	})
	defer cancelOther()

	_ = hub.SetScalar(context.Background(), "acc-1", 100)
	hub.SetRaw("acc-1", json.RawMessage(`{"amount":5}`))

	require.Equal(t, []string{"", "100", `{"amount":5}`}, a)
	require.Equal(t, []string{"", "100", `{"amount":5}`}, b)
}

func TestCancel_StopsDelivery(t *testing.T) {
	hub := realtime.NewHub()

	count := 0
	cancel := hub.Subscribe("acc-1", func(raw json.RawMessage) { count++ })
	_ = hub.SetScalar(context.Background(), "acc-1", 1)
	cancel()
	_ = hub.SetScalar(context.Background(), "acc-1", 2)

	require.Equal(t, 2, count) // initial fire + first write only
}

func TestCallback_MayWriteBackIntoTheHub(t *testing.T) {
	hub := realtime.NewHub()

	// A subscriber that rewrites non-numeric cells, like the reconciler does.
	var seen []string
	cancel := hub.Subscribe("acc-1", func(raw json.RawMessage) {
		seen = append(seen, string(raw))
		if string(raw) == "corrupt" {
			_ = hub.SetScalar(context.Background(), "acc-1", 42)
		}
	})
	defer cancel()

	hub.SetRaw("acc-1", json.RawMessage("corrupt"))

	require.Equal(t, []string{"", "corrupt", "42"}, seen)
	require.Equal(t, json.RawMessage("42"), hub.Get("acc-1"))
}

func TestHub_ConcurrentWritersDoNotRace(t *testing.T) {
	hub := realtime.NewHub()

	cancel := hub.Subscribe("acc-1", func(raw json.RawMessage) {})
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int64) {
			defer wg.Done()
			for j := int64(0); j < 100; j++ {
				_ = hub.SetScalar(context.Background(), "acc-1", n*100+j)
			}
		}(int64(i))
	}
	wg.Wait()

	_, err := json.Marshal(hub.Get("acc-1"))
	require.NoError(t, err)
}
