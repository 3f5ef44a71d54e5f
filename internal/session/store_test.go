package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStore_GetOrCreate(t *testing.T) {
	store, _ := newTestStore(&fakeSignals{}, &fakeNews{}, &fakeThirdParty{})

	sess, created := store.GetOrCreate("")
	assert.True(t, created)
	assert.NotEmpty(t, sess.ID)

	again, created := store.GetOrCreate(sess.ID)
	assert.False(t, created)
	assert.Same(t, sess, again)

	other, created := store.GetOrCreate("unknown-id")
	assert.True(t, created)
	assert.NotEqual(t, "unknown-id", other.ID)

	assert.Equal(t, 2, store.Count())
}

func TestStore_NewSessionDefaults(t *testing.T) {
	store, _ := newTestStore(&fakeSignals{}, &fakeNews{}, &fakeThirdParty{})
	state := store.Create().Snapshot()

	assert.Equal(t, []string{"BTC", "ETH", "EURUSD"}, state.Tags)
	assert.Equal(t, DataSourceAI, state.DataSource)
	assert.Equal(t, 3, state.SignalCount)
	assert.False(t, state.Loading)
	assert.Empty(t, state.Signals)
}

func TestStore_Prune(t *testing.T) {
	store, _ := newTestStore(&fakeSignals{}, &fakeNews{}, &fakeThirdParty{})
	stale := store.Create()
	fresh := store.Create()

	stale.mu.Lock()
	stale.lastSeen = time.Now().Add(-2 * time.Hour)
	stale.mu.Unlock()

	assert.Equal(t, 1, store.Prune(time.Hour))

	_, ok := store.Get(stale.ID)
	assert.False(t, ok)
	_, ok = store.Get(fresh.ID)
	assert.True(t, ok)
}
