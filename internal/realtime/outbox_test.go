package realtime

import (
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxDrainPreservesOrder(t *testing.T) {
	t.Parallel()

	box := newOutbox(8, clockwork.NewFakeClock())
	box.enqueue(Envelope{Type: EmitLeaveRoom, RoomID: "a"})
	box.enqueue(Envelope{Type: EmitLeaveRoom, RoomID: "b"})
	box.enqueue(Envelope{Type: EmitLeaveRoom, RoomID: "c"})

	entries := box.drain()
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].Env.RoomID)
	assert.Equal(t, "b", entries[1].Env.RoomID)
	assert.Equal(t, "c", entries[2].Env.RoomID)

	assert.Empty(t, box.drain())
}

func TestOutboxJoinDeduped(t *testing.T) {
	t.Parallel()

	box := newOutbox(8, clockwork.NewFakeClock())
	box.enqueueJoin(Envelope{Type: EmitJoinRoom, RoomID: "room-1"})
	box.enqueueJoin(Envelope{Type: EmitJoinRoom, RoomID: "room-2"})

	entries := box.drain()
	require.Len(t, entries, 1, "at most one membership emission pending")
	assert.Equal(t, "room-2", entries[0].Env.RoomID)
}

func TestOutboxRemoveJoin(t *testing.T) {
	t.Parallel()

	box := newOutbox(8, clockwork.NewFakeClock())
	box.enqueueJoin(Envelope{Type: EmitJoinRoom, RoomID: "room-1"})
	box.removeJoin("room-1")

	assert.Equal(t, 0, box.len())
}

func TestOutboxDropsOldestWhenFull(t *testing.T) {
	t.Parallel()

	box := newOutbox(2, clockwork.NewFakeClock())
	box.enqueue(Envelope{Type: EmitLeaveRoom, RoomID: "a"})
	box.enqueue(Envelope{Type: EmitLeaveRoom, RoomID: "b"})
	box.enqueue(Envelope{Type: EmitLeaveRoom, RoomID: "c"})

	entries := box.drain()
	require.Len(t, entries, 2)
	assert.Equal(t, "b", entries[0].Env.RoomID)
	assert.Equal(t, "c", entries[1].Env.RoomID)
}
