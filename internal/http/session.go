package http

import (
	"crypto/rand"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionName   = "unlinked_session"
	sessionKeyVal = "key"
	sessionMaxAge = 365 * 24 * 60 * 60
)

// NewSessionStore returns a signed cookie store. An empty secret gets a random
// key, so sessions last only until restart.
func NewSessionStore(secret string) *sessions.CookieStore {
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			log.Fatalf("Failed to generate session key: %v", err)
		}
	}

	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// sessionKey returns the anonymous visitor key, minting and saving one on
// first use. Reactions are keyed by it.
func (e *Env) sessionKey(c *gin.Context) string {
	// A tampered or stale cookie still yields a fresh session.
	sess, _ := e.Sessions.Get(c.Request, sessionName)
	if key, ok := sess.Values[sessionKeyVal].(string); ok && key != "" {
		return key
	}

	key := uuid.NewString()
	sess.Values[sessionKeyVal] = key
	if err := sess.Save(c.Request, c.Writer); err != nil {
		log.Printf("Error saving session: %v", err)
	}
	return key
}
