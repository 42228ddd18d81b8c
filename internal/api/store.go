package api

import (
	"context"
	"fmt"
	"net/http"
)

type PurchaseGemsRequest struct {
	PackID string `json:"packId"`
}

type SendLetterRequest struct {
	RecipientID string `json:"recipientId"`
	Text        string `json:"text"`
}

type ClaimReferralRequest struct {
	Code string `json:"code"`
}

// PurchaseGems buys a gem pack. The response carries the server-confirmed
// user payload for the caller to sync.
func (c *Client) PurchaseGems(ctx context.Context, packID string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, PurchaseGemsEndpoint, PurchaseGemsRequest{PackID: packID}, &user); err != nil {
		return nil, fmt.Errorf("purchase gems: %w", err)
	}
	return &user, nil
}

// ActivateBooster consumes one booster and starts a boost.
func (c *Client) ActivateBooster(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, ActivateBoosterEndpoint, nil, &user); err != nil {
		return nil, fmt.Errorf("activate booster: %w", err)
	}
	return &user, nil
}

// SendLetter consumes one letter to message a profile the user has not
// matched with.
func (c *Client) SendLetter(ctx context.Context, recipientID, text string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, SendLetterEndpoint, SendLetterRequest{RecipientID: recipientID, Text: text}, &user); err != nil {
		return nil, fmt.Errorf("send letter: %w", err)
	}
	return &user, nil
}

// ClaimReferral redeems a referral code for its gem reward.
func (c *Client) ClaimReferral(ctx context.Context, code string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodPost, ClaimReferralEndpoint, ClaimReferralRequest{Code: code}, &user); err != nil {
		return nil, fmt.Errorf("claim referral: %w", err)
	}
	return &user, nil
}
