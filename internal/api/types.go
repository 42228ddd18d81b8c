package api

import (
	"time"

	"github.com/ember-app/ember-go/internal/balance"
)

// User is the backend's user payload: profile fields plus the balance slice
// consumed by balance.Store.SyncFromUser.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Bio       string    `json:"bio,omitempty"`
	Photos    []string  `json:"photos,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	balance.UserBalances
}

// AuthResponse is returned by login, register and refresh.
type AuthResponse struct {
	User         *User  `json:"user,omitempty"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Chat is one entry in the chat list.
type Chat struct {
	ID            string    `json:"id"`
	MatchName     string    `json:"matchName"`
	MatchPhoto    string    `json:"matchPhoto,omitempty"`
	LastMessage   string    `json:"lastMessage,omitempty"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	UnreadCount   int       `json:"unreadCount"`
}

// Message is a single chat message.
type Message struct {
	ID       string    `json:"id"`
	ChatID   string    `json:"chatId"`
	SenderID string    `json:"senderId"`
	Text     string    `json:"text"`
	IsLetter bool      `json:"isLetter"`
	SentAt   time.Time `json:"sentAt"`
	ReadAt   time.Time `json:"readAt,omitzero"`
}
