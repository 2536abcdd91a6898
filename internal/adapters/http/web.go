package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"studylog/internal/adapters/cookie"
	"studylog/internal/adapters/email"
	"studylog/internal/adapters/http/middleware"
	"studylog/internal/adapters/http/perf"
	accountStore "studylog/internal/adapters/storage/account"
	categoryStore "studylog/internal/adapters/storage/category"
	courseStore "studylog/internal/adapters/storage/course"
	emailLogStore "studylog/internal/adapters/storage/emaillog"
	progressStore "studylog/internal/adapters/storage/progress"
	quizStore "studylog/internal/adapters/storage/quiz"
	reportStore "studylog/internal/adapters/storage/report"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore  accountStore.Store
	CategoryStore categoryStore.Store
	CourseStore   courseStore.Store
	EmailLogStore emailLogStore.Store
	ProgressStore progressStore.Store
	QuizStore     quizStore.Store
	ReportStore   reportStore.Store
}

// loadCSRFKey reads the CSRF secret from STUDYLOG_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("STUDYLOG_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("STUDYLOG_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("STUDYLOG_ENV") == "production" {
		log.Fatal("STUDYLOG_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set STUDYLOG_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// Global onboarding cookie codec (set by NewMux; tests swap in a MemoryStore)
var onboardingCookies cookie.OnboardingStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// Email configuration
var emailFromAddress string
var emailReplyTo string

// baseURL prefixes links in outbound mail, e.g. "https://studylog.example".
var baseURL = "http://localhost:8080"

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender, from, replyTo string) {
	emailSender = sender
	emailFromAddress = from
	emailReplyTo = replyTo
}

// SetBaseURL sets the public origin used in verification links.
func SetBaseURL(origin string) {
	if origin != "" {
		baseURL = origin
	}
}

// NewMux wires HTTP handlers for the app.
func NewMux(staticDir string, s *Stores, cookies cookie.OnboardingStore, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	onboardingCookies = cookies
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("STUDYLOG_ENV") == "production"

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.Dir(staticDir)))
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: Timing -> Auth -> CSRF -> SecurityHeaders -> RateLimit -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
