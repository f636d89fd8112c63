// Package economy is the HTTP client for the game-server economy API.
//
// Every business call is a single POST with a JSON body against
// <base>/<action>, bounded by a fixed timeout and never retried. Network
// failures are reported as *ConnError so callers can switch to degraded mode;
// non-200 answers are application errors carried in Response.Err.
package economy

import (
	"encoding/json"
	"fmt"
)

type Action string

const (
	ActionBalance  Action = "balance"
	ActionTransfer Action = "transfer"
	ActionLink     Action = "link"
	ActionTop      Action = "top"
)

func (a Action) Valid() bool {
	switch a {
	case ActionBalance, ActionTransfer, ActionLink, ActionTop:
		return true
	}
	return false
}

func (a Action) String() string { return string(a) }

// Wire payloads, see the economy plugin's REST handlers.

type BalanceRequest struct {
	DiscordID string `json:"discord_id"`
}

type BalanceResponse struct {
	Balance float64 `json:"balance"`
}

type TransferRequest struct {
	SenderDiscordID string  `json:"sender_discord_id"`
	ReceiverName    string  `json:"receiver_name"`
	Amount          float64 `json:"amount"`
	Description     string  `json:"description"`
}

type TransferResponse struct {
	NewBalance float64 `json:"new_balance"`
}

type LinkRequest struct {
	DiscordID       string `json:"discord_id"`
	DiscordUsername string `json:"discord_username"`
}

// LinkResponse keeps the code as raw JSON: the plugin has shipped it both as a
// string and as a number.
type LinkResponse struct {
	VerificationCode json.RawMessage `json:"verification_code"`
}

// Code returns the verification code as text, or "" when absent.
func (r LinkResponse) Code() string {
	raw := r.VerificationCode
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

type TopRequest struct {
	Limit int `json:"limit"`
}

type Player struct {
	Name    string  `json:"name"`
	Balance float64 `json:"balance"`
}

type TopResponse struct {
	Players []Player `json:"players"`
}

// Response is one answered API call. Status 200 carries Body; anything else
// carries the remote error message in Err.
type Response struct {
	Action Action
	Status int
	Body   json.RawMessage
	Err    string
}

func (r *Response) OK() bool { return r != nil && r.Err == "" && r.Status == 200 }

// Decode unmarshals a successful body into v.
func (r *Response) Decode(v any) error {
	if len(r.Body) == 0 {
		return fmt.Errorf("%s: empty response body", r.Action)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%s: decode response: %w", r.Action, err)
	}
	return nil
}
