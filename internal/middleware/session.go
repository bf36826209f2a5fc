package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	// SessionName is the cookie name carrying the session.
	SessionName = "wanderkart_session"

	sessionUserKey = "user_id"
	sessionMaxAge  = 7 * 24 * time.Hour
)

type ctxKey int

const (
	userIDKey ctxKey = iota
	userSlotKey
)

// userSlot lets RequireUser report the resolved user back to NewSlogLogger,
// which holds the request from before the user is known.
type userSlot struct {
	id  uuid.UUID
	set bool
}

func withUserSlot(r *http.Request) (*http.Request, *userSlot) {
	slot := &userSlot{}
	return r.WithContext(context.WithValue(r.Context(), userSlotKey, slot)), slot
}

// Sessions issues and reads the signed session cookie.
type Sessions struct {
	store sessions.Store
}

// NewSessions returns cookie-backed sessions signed with secret. Set secure
// when the API is served over HTTPS.
func NewSessions(secret []byte, secure bool) *Sessions {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(sessionMaxAge / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store}
}

// Login binds the session to userID and writes the cookie.
func (s *Sessions) Login(w http.ResponseWriter, r *http.Request, userID uuid.UUID) error {
	// Get returns a fresh session alongside a decode error for a stale
	// cookie, so the error is irrelevant when overwriting.
	session, _ := s.store.Get(r, SessionName)
	session.Values[sessionUserKey] = userID.String()
	return session.Save(r, w)
}

// Logout expires the cookie.
func (s *Sessions) Logout(w http.ResponseWriter, r *http.Request) error {
	session, _ := s.store.Get(r, SessionName)
	delete(session.Values, sessionUserKey)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// UserID returns the user bound to the request's session cookie, if any.
func (s *Sessions) UserID(r *http.Request) (uuid.UUID, bool) {
	session, err := s.store.Get(r, SessionName)
	if err != nil {
		return uuid.Nil, false
	}
	raw, ok := session.Values[sessionUserKey].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// RequireUser rejects requests without a valid session with 401 and the
// standard error envelope. Downstream handlers read the user with
// UserIDFromContext.
func (s *Sessions) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := s.UserID(r)
		if !ok {
			writeFailure(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if slot, ok := r.Context().Value(userSlotKey).(*userSlot); ok {
			slot.id, slot.set = id, true
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), id)))
	})
}

// WithUserID returns a copy of ctx carrying id as the authenticated user.
func WithUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext returns the authenticated user set by RequireUser.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(userIDKey).(uuid.UUID)
	return id, ok
}
