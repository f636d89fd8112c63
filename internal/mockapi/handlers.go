package mockapi

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/keshon/coinbridge/internal/economy"
)

type verifyRequest struct {
	Code   string `json:"code"`
	Player string `json:"player"`
}

type Handler struct {
	econ   *Economy
	apiKey string
	log    zerolog.Logger
}

func NewHandler(econ *Economy, apiKey string, logger zerolog.Logger) *Handler {
	return &Handler{econ: econ, apiKey: apiKey, log: logger}
}

// Router mounts the economy endpoints under /api:
//
//	POST /api/balance   {discord_id}
//	POST /api/transfer  {sender_discord_id, receiver_name, amount, description}
//	POST /api/link      {discord_id, discord_username}
//	POST /api/top       {limit}
//	POST /api/verify    {code, player}   in-game /setdiscord
//	GET  /api/balance   always 400, lets clients probe reachability
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.logRequests, h.requireKey)

	api.HandleFunc("/balance", h.Balance).Methods(http.MethodPost)
	api.HandleFunc("/balance", h.Probe).Methods(http.MethodGet)
	api.HandleFunc("/transfer", h.Transfer).Methods(http.MethodPost)
	api.HandleFunc("/link", h.Link).Methods(http.MethodPost)
	api.HandleFunc("/top", h.Top).Methods(http.MethodPost)
	api.HandleFunc("/verify", h.Verify).Methods(http.MethodPost)
	return r
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	var req economy.BalanceRequest
	if !decode(w, r, &req) {
		return
	}
	balance, err := h.econ.Balance(req.DiscordID)
	if err != nil {
		respondWithError(w, statusFor(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, economy.BalanceResponse{Balance: balance})
}

func (h *Handler) Probe(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, http.StatusBadRequest, "use POST")
}

func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req economy.TransferRequest
	if !decode(w, r, &req) {
		return
	}
	balance, err := h.econ.Transfer(req.SenderDiscordID, req.ReceiverName, req.Amount)
	if err != nil {
		respondWithError(w, statusFor(err), err.Error())
		return
	}
	h.log.Info().
		Str("sender", req.SenderDiscordID).
		Str("receiver", req.ReceiverName).
		Float64("amount", req.Amount).
		Str("description", req.Description).
		Msg("transfer")
	respondWithJSON(w, http.StatusOK, economy.TransferResponse{NewBalance: balance})
}

func (h *Handler) Link(w http.ResponseWriter, r *http.Request) {
	var req economy.LinkRequest
	if !decode(w, r, &req) {
		return
	}
	code, err := h.econ.IssueCode(req.DiscordID)
	if err != nil {
		respondWithError(w, statusFor(err), err.Error())
		return
	}
	h.log.Info().Str("discord_id", req.DiscordID).Str("username", req.DiscordUsername).Msg("verification code issued")
	respondWithJSON(w, http.StatusOK, map[string]string{"verification_code": code})
}

func (h *Handler) Top(w http.ResponseWriter, r *http.Request) {
	var req economy.TopRequest
	if !decode(w, r, &req) {
		return
	}
	respondWithJSON(w, http.StatusOK, economy.TopResponse{Players: h.econ.Top(req.Limit)})
}

func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.econ.Verify(req.Code, req.Player); err != nil {
		respondWithError(w, statusFor(err), err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "linked"})
}

func (h *Handler) requireKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get("X-API-Key")
		if h.apiKey != "" && subtle.ConstantTimeCompare([]byte(got), []byte(h.apiKey)) != 1 {
			respondWithError(w, http.StatusUnauthorized, "invalid api key")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", r.Header.Get("X-Request-ID")).
			Msg("request")
		next.ServeHTTP(w, r)
	})
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(v); err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotLinked), errors.Is(err, ErrUnknownPlayer):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidCode):
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}
