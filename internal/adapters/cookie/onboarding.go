// Package cookie holds the client-side state stores: registration
// progress lives in a signed and encrypted cookie, never a server table.
package cookie

import (
	"net/http"
	"time"

	"github.com/gorilla/securecookie"

	"studylog/internal/domain/onboarding"
)

// OnboardingCookieName is the cookie carrying registration progress.
const OnboardingCookieName = "studylog_onboarding"

// OnboardingMaxAge keeps an unfinished registration resumable for a week.
const OnboardingMaxAge = 7 * 24 * time.Hour

// OnboardingStore reads and writes a visitor's registration state.
// Read never fails: a missing, expired or tampered cookie yields the
// default step-1 state.
type OnboardingStore interface {
	Read(r *http.Request) onboarding.State
	Write(w http.ResponseWriter, s onboarding.State)
	Clear(w http.ResponseWriter)
}

// SecureStore is the production OnboardingStore backed by a
// securecookie codec. SameSite is Lax so the state survives the
// top-level navigation from the verification mail link.
type SecureStore struct {
	codec  *securecookie.SecureCookie
	secure bool
}

// NewSecureStore creates a SecureStore from the server's cookie keys.
// PRE: hashKey is 32 or 64 bytes; blockKey is 16, 24 or 32 bytes
// POST: Returns a ready-to-use store
func NewSecureStore(hashKey, blockKey []byte, secure bool) *SecureStore {
	codec := securecookie.New(hashKey, blockKey)
	codec.MaxAge(int(OnboardingMaxAge.Seconds()))
	return &SecureStore{codec: codec, secure: secure}
}

// Read decodes the registration state from the request.
// POST: Returned state has Step >= 1; decode failures yield the default state
func (s *SecureStore) Read(r *http.Request) onboarding.State {
	var state onboarding.State
	c, err := r.Cookie(OnboardingCookieName)
	if err == nil {
		// A tampered or expired cookie leaves the zero state.
		_ = s.codec.Decode(OnboardingCookieName, c.Value, &state)
	}
	state.Normalize()
	return state
}

// Write encodes the state into a fresh cookie on the response.
// POST: Persisted state has Step >= 1
func (s *SecureStore) Write(w http.ResponseWriter, state onboarding.State) {
	state.Normalize()
	encoded, err := s.codec.Encode(OnboardingCookieName, state)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     OnboardingCookieName,
		Value:    encoded,
		Path:     "/",
		MaxAge:   int(OnboardingMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the registration cookie.
func (s *SecureStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     OnboardingCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// MemoryStore is an in-memory OnboardingStore for tests. It holds one
// state per instance, standing in for one browser session.
type MemoryStore struct {
	State   onboarding.State
	Present bool
	Cleared bool
}

// Read returns the held state, or the default step-1 state when empty.
func (m *MemoryStore) Read(_ *http.Request) onboarding.State {
	if !m.Present {
		return onboarding.State{Step: onboarding.StepEmail}
	}
	state := m.State
	state.Normalize()
	return state
}

// Write replaces the held state.
func (m *MemoryStore) Write(_ http.ResponseWriter, s onboarding.State) {
	s.Normalize()
	m.State = s
	m.Present = true
	m.Cleared = false
}

// Clear drops the held state.
func (m *MemoryStore) Clear(_ http.ResponseWriter) {
	m.State = onboarding.State{}
	m.Present = false
	m.Cleared = true
}
