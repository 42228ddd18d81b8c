package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePayloadByEventType(t *testing.T) {
	t.Parallel()

	sentAt := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	testCases := []struct {
		name string
		env  Envelope
		want interface{}
	}{
		{
			name: "new message",
			env: Envelope{
				Type: EventNewMessage,
				Data: []byte(`{"message_id":"m1","chat_id":"c1","sender_id":"u2","text":"hey","sent_at":"2026-03-14T09:26:53Z"}`),
			},
			want: MessagePayload{MessageID: "m1", ChatID: "c1", SenderID: "u2", Text: "hey", SentAt: sentAt},
		},
		{
			name: "chat updated",
			env: Envelope{
				Type: EventChatUpdated,
				Data: []byte(`{"chat_id":"c1","last_message":"hey","unread_count":3}`),
			},
			want: ChatUpdatePayload{ChatID: "c1", LastMessage: "hey", UnreadCount: 3},
		},
		{
			name: "typing",
			env: Envelope{
				Type: EventTyping,
				Data: []byte(`{"chat_id":"c1","user_id":"u2","is_typing":true}`),
			},
			want: TypingPayload{ChatID: "c1", UserID: "u2", IsTyping: true},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ParsePayload(tc.env)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParsePayloadUnknownType(t *testing.T) {
	t.Parallel()

	_, err := ParsePayload(Envelope{Type: EventType("mystery")})
	assert.Error(t, err)
}
