// AngelaMos | 2026
// dto.go

package client

import (
	"time"
)

type CreateClientRequest struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Pin      string `json:"pin"      validate:"required,numeric,len=4"`
}

type ResetPinRequest struct {
	NewPin string `json:"newPin" validate:"required,numeric,len=4"`
}

type ClientResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	IsBlocked bool      `json:"isBlocked"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreatedClientResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func ToClientResponse(c *Client) ClientResponse {
	return ClientResponse{
		ID:        c.ID,
		Username:  c.Username,
		IsBlocked: c.IsBlocked,
		CreatedAt: c.CreatedAt,
	}
}

func ToClientResponseList(clients []Client) []ClientResponse {
	responses := make([]ClientResponse, 0, len(clients))
	for i := range clients {
		responses = append(responses, ToClientResponse(&clients[i]))
	}
	return responses
}
