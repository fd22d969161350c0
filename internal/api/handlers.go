package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ignite/fuel-alert/internal/mailer"
	"github.com/ignite/fuel-alert/internal/pkg/logger"
	"github.com/ignite/fuel-alert/internal/subscription"
)

// Handlers holds the dependencies for the HTTP endpoints.
type Handlers struct {
	flow      *subscription.Flow
	templates *mailer.Templates
}

// HealthCheck reports liveness.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Subscribe handles a signup form submission (email, city).
func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Malformed form data", http.StatusBadRequest)
		return
	}

	email := r.Form.Get("email")
	city := r.Form.Get("city")
	if email == "" || city == "" {
		http.Error(w, "Missing parameters", http.StatusBadRequest)
		return
	}

	res, err := h.flow.Signup(r.Context(), email, city)
	h.renderResult(w, res, err)
}

// Confirm handles a confirmation capability link.
func (h *Handlers) Confirm(w http.ResponseWriter, r *http.Request) {
	h.tokenAction(w, r, h.flow.Confirm)
}

// Unsubscribe handles an unsubscribe capability link.
func (h *Handlers) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	h.tokenAction(w, r, h.flow.Unsubscribe)
}

// Action handles the generic form used by older links:
// /action?action=confirm|unsubscribe&email=…&city=…&token=…
func (h *Handlers) Action(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Query().Get("action") {
	case "confirm":
		h.tokenAction(w, r, h.flow.Confirm)
	case "unsubscribe":
		h.tokenAction(w, r, h.flow.Unsubscribe)
	default:
		http.Error(w, "Invalid action", http.StatusBadRequest)
	}
}

func (h *Handlers) tokenAction(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, email, city, token string) (subscription.Result, error)) {
	q := r.URL.Query()
	email := q.Get("email")
	city := q.Get("city")
	token := q.Get("token")
	if email == "" || city == "" || token == "" {
		http.Error(w, "Missing parameters", http.StatusBadRequest)
		return
	}

	res, err := op(r.Context(), email, city, token)
	h.renderResult(w, res, err)
}

func (h *Handlers) renderResult(w http.ResponseWriter, res subscription.Result, err error) {
	if err != nil {
		logger.Error("subscription operation failed", "error", err)
		http.Error(w, "Something went wrong. Please try again later.", http.StatusInternalServerError)
		return
	}

	page, rerr := h.templates.ResultPage(res.Message)
	if rerr != nil {
		logger.Error("rendering result page failed", "error", rerr)
		http.Error(w, res.Message, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(page))
}
