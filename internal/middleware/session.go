package middleware

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"finitefield.org/flor-web/internal/observability"
)

const sessionCookieName = "FLOR_WEB_SESSION"

// CookieConfig carries the signing key and cookie flags shared by the session and cart cookies.
type CookieConfig struct {
	SigningKey []byte
	Secure     bool
	MaxAge     time.Duration
}

// NewCookieConfig fills in an ephemeral key when none is configured. Cookies signed with it do
// not survive a restart.
func NewCookieConfig(key string, secure bool, logger *zap.Logger) CookieConfig {
	cfg := CookieConfig{SigningKey: []byte(key), Secure: secure, MaxAge: 30 * 24 * time.Hour}
	if key == "" {
		cfg.SigningKey = make([]byte, 32)
		if _, err := rand.Read(cfg.SigningKey); err != nil {
			cfg.SigningKey = []byte("insecure-dev-key-please-set-FLOR_WEB_CART_SIGNING_KEY")
		}
		if logger != nil {
			logger.Warn("session: using ephemeral signing key; set FLOR_WEB_CART_SIGNING_KEY for production")
		}
	}
	return cfg
}

func (c CookieConfig) signer() signer { return signer{key: c.SigningKey} }

type SessionData struct {
	ID        string    `json:"id"`
	Locale    string    `json:"locale,omitempty"`
	CSRFToken string    `json:"csrf,omitempty"`
	// Flash holds notifications for the next full page render after a plain form post.
	Flash     []Flash   `json:"flash,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// internal dirty flag; not serialized
	dirty bool
}

// Session loads or initializes a session and stores it in request context.
func Session(cfg CookieConfig) func(http.Handler) http.Handler {
	sg := cfg.signer()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sd, fromCookie := readSessionCookie(r, sg)
			if sd.ID == "" {
				sd.ID = randID()
				sd.CreatedAt = time.Now().UTC()
				sd.UpdatedAt = sd.CreatedAt
				sd.CSRFToken = newCSRFToken()
				sd.dirty = true
			}
			ctx := context.WithValue(r.Context(), ctxKeySession, sd)
			rw := NewResponseRecorder(w)
			// ensure cookie is set just before first write if needed
			rw.SetBeforeWrite(func(w http.ResponseWriter) {
				if sd.dirty || !fromCookie {
					writeSessionCookie(w, cfg, sg, sd)
				}
			})
			next.ServeHTTP(rw, r.WithContext(ctx))
			// If nothing was written yet (e.g., HEAD), persist cookie now
			if !rw.Wrote() && (sd.dirty || !fromCookie) {
				writeSessionCookie(w, cfg, sg, sd)
			}
		})
	}
}

// Flash is a message queued by one request for the next page, stamped with when it was raised.
type Flash struct {
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// GetSession returns session data from context
func GetSession(r *http.Request) *SessionData {
	if v := r.Context().Value(ctxKeySession); v != nil {
		if sd, ok := v.(*SessionData); ok {
			return sd
		}
	}
	return &SessionData{}
}

// MarkDirty flags the session for writing at end of request
func (s *SessionData) MarkDirty() { s.dirty = true; s.UpdatedAt = time.Now().UTC() }

// AddFlash queues a message for the next page render.
func (s *SessionData) AddFlash(msg string) {
	s.Flash = append(s.Flash, Flash{Message: msg, At: time.Now().UTC()})
	s.MarkDirty()
}

// TakeFlash returns and clears the queued messages.
func (s *SessionData) TakeFlash() []Flash {
	if len(s.Flash) == 0 {
		return nil
	}
	out := s.Flash
	s.Flash = nil
	s.MarkDirty()
	return out
}

func readSessionCookie(r *http.Request, sg signer) (*SessionData, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return &SessionData{}, false
	}
	payload, err := sg.verify(c.Value)
	if err != nil {
		observability.FromContext(r.Context()).Debug("session: discarding unsigned cookie")
		return &SessionData{}, false
	}
	var sd SessionData
	if err := json.Unmarshal(payload, &sd); err != nil {
		return &SessionData{}, false
	}
	return &sd, true
}

func writeSessionCookie(w http.ResponseWriter, cfg CookieConfig, sg signer, sd *SessionData) {
	b, _ := json.Marshal(sd)
	setCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sg.sign(b),
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(cfg.MaxAge),
	})
}

func randID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
