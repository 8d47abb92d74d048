package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/AnshRaj112/bellaciao-guestbook/internal/models"
	"github.com/AnshRaj112/bellaciao-guestbook/internal/services"
)

const requestTimeout = 5 * time.Second

// EntryService is the part of services.EntryService the handlers use.
type EntryService interface {
	Submit(ctx context.Context, in services.SubmitInput) (*models.GuestEntry, error)
	List(ctx context.Context, q models.EntryQuery) (*models.EntryPage, error)
	Location() *time.Location
	Now() time.Time
}

// Authenticator issues and clears the admin session cookie.
type Authenticator interface {
	Login(password string) (*http.Cookie, error)
	ClearedCookie() *http.Cookie
}

// EntrySubscriber hands out live feed subscriptions.
type EntrySubscriber interface {
	Subscribe() (<-chan models.EntryEvent, func())
}

// Handler serves the guest form and admin dashboard endpoints.
type Handler struct {
	entries      EntryService
	auth         Authenticator
	feed         EntrySubscriber
	exportPrefix string
	upgrader     websocket.Upgrader
}

// New builds the handlers. allowedOrigins are the browser origins that may
// open the live entry stream; they should match the CORS list.
func New(entries EntryService, auth Authenticator, feed EntrySubscriber, exportPrefix string, allowedOrigins []string) *Handler {
	return &Handler{
		entries:      entries,
		auth:         auth,
		feed:         feed,
		exportPrefix: exportPrefix,
		upgrader:     newStreamUpgrader(allowedOrigins),
	}
}

// Health answers load balancer probes.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}
