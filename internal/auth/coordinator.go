package auth

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DefaultTTL is how long a session token stays valid.
const DefaultTTL = 12 * time.Hour

// Session is one authenticated client session.
type Session struct {
	Token     string    `json:"token"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Coordinator issues and validates bearer tokens. It tracks whether the
// last session ended by explicit logout or by expiry: callers use the
// distinction to decide whether to re-prompt for credentials silently.
type Coordinator struct {
	ttl time.Duration

	mu           sync.Mutex
	sessions     map[string]*Session
	manualLogout bool
}

func NewCoordinator(ttl time.Duration) *Coordinator {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Coordinator{
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Login creates a session and clears the manual-logout flag.
func (c *Coordinator) Login(user string) *Session {
	now := time.Now()
	session := &Session{
		Token:     uuid.NewString(),
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(c.ttl),
	}

	c.mu.Lock()
	c.sessions[session.Token] = session
	c.manualLogout = false
	c.mu.Unlock()
	return session
}

// Logout removes a session and records that the user left on purpose.
func (c *Coordinator) Logout(token string) {
	c.mu.Lock()
	if _, ok := c.sessions[token]; ok {
		delete(c.sessions, token)
		c.manualLogout = true
	}
	c.mu.Unlock()
}

// Validate resolves a token. Expired sessions are dropped without
// touching the manual-logout flag, so expiry stays distinguishable from
// an explicit logout.
func (c *Coordinator) Validate(token string) (*Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	session, ok := c.sessions[token]
	if !ok {
		return nil, false
	}
	if time.Now().After(session.ExpiresAt) {
		delete(c.sessions, token)
		return nil, false
	}
	return session, true
}

// ManualLogout reports whether the most recent session end was an
// explicit logout.
func (c *Coordinator) ManualLogout() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.manualLogout
}

// Count reports the number of live sessions.
func (c *Coordinator) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

// Middleware rejects requests without a valid bearer token.
func (c *Coordinator) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		session, ok := c.Validate(token)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":        "invalid or expired session",
				"manualLogout": c.ManualLogout(),
			})
			return
		}
		ctx.Set("auth.user", session.User)
		ctx.Next()
	}
}
