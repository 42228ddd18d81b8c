package api

import (
	"context"
	"fmt"
	"net/http"
)

type ChatsResponse struct {
	Chats []Chat `json:"chats"`
}

type MessagesResponse struct {
	Messages []Message `json:"messages"`
}

type SendMessageRequest struct {
	Text string `json:"text"`
}

// Chats fetches the chat list.
func (c *Client) Chats(ctx context.Context) ([]Chat, error) {
	var resp ChatsResponse
	if err := c.do(ctx, http.MethodGet, ChatsEndpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch chats: %w", err)
	}
	return resp.Chats, nil
}

// Messages fetches the message history for a chat.
func (c *Client) Messages(ctx context.Context, chatID string) ([]Message, error) {
	var resp MessagesResponse
	endpoint := fmt.Sprintf(MessagesEndpoint, chatID)
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}
	return resp.Messages, nil
}

// SendMessage posts a message to a chat and returns the stored message.
func (c *Client) SendMessage(ctx context.Context, chatID, text string) (*Message, error) {
	var msg Message
	endpoint := fmt.Sprintf(MessagesEndpoint, chatID)
	if err := c.do(ctx, http.MethodPost, endpoint, SendMessageRequest{Text: text}, &msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	return &msg, nil
}

// MarkRead marks all messages in a chat as read.
func (c *Client) MarkRead(ctx context.Context, chatID string) error {
	endpoint := fmt.Sprintf(ReadEndpoint, chatID)
	if err := c.do(ctx, http.MethodPost, endpoint, nil, nil); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}
