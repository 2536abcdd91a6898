package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"studylog/internal/adapters/cookie"
	emailPkg "studylog/internal/adapters/email"
	web "studylog/internal/adapters/http"
	"studylog/internal/adapters/http/perf"
	"studylog/internal/adapters/storage"
	accountStore "studylog/internal/adapters/storage/account"
	categoryStore "studylog/internal/adapters/storage/category"
	courseStore "studylog/internal/adapters/storage/course"
	emailLogStore "studylog/internal/adapters/storage/emaillog"
	progressStore "studylog/internal/adapters/storage/progress"
	quizStore "studylog/internal/adapters/storage/quiz"
	reportStore "studylog/internal/adapters/storage/report"
	"studylog/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Local .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("STUDYLOG_DB", "studylog.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.MigrateDB(db, dbPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:  acctStore,
		CategoryStore: categoryStore.NewSQLiteStore(timedDB),
		CourseStore:   courseStore.NewSQLiteStore(timedDB),
		EmailLogStore: emailLogStore.NewSQLiteStore(timedDB),
		ProgressStore: progressStore.NewSQLiteStore(timedDB),
		QuizStore:     quizStore.NewSQLiteStore(timedDB),
		ReportStore:   reportStore.NewSQLiteStore(timedDB),
	}

	// Seed default admin account if no accounts exist
	adminEmail := envOrDefault("STUDYLOG_ADMIN_EMAIL", "admin@studylog.local")
	adminPassword := envOrDefault("STUDYLOG_ADMIN_PASSWORD", "studylog admin pass")
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("STUDYLOG_RESEND_KEY")
	emailFrom := envOrDefault("STUDYLOG_RESEND_FROM", "StudyLog <noreply@studylog.example>")
	emailReply := envOrDefault("STUDYLOG_REPLY_TO", "support@studylog.example")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom), emailFrom, emailReply)
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender(), emailFrom, emailReply)
		if os.Getenv("STUDYLOG_ENV") == "production" {
			log.Println("WARNING: STUDYLOG_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set STUDYLOG_RESEND_KEY for real delivery)")
		}
	}
	web.SetBaseURL(os.Getenv("STUDYLOG_BASE_URL"))

	// Onboarding cookie codec
	cookies := cookie.NewSecureStore(
		loadCookieKey("STUDYLOG_COOKIE_HASH_KEY", 32),
		loadCookieKey("STUDYLOG_COOKIE_BLOCK_KEY", 16),
		os.Getenv("STUDYLOG_ENV") == "production",
	)

	// Create HTTP handler with middleware (pass collector for timing + dashboard)
	mux := web.NewMux("static", stores, cookies, collector)

	addr := envOrDefault("STUDYLOG_ADDR", ":8080")
	log.Printf("StudyLog %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("STUDYLOG_ENV", "development"), storage.LatestSchemaVersion())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadCookieKey reads a hex-encoded securecookie key from the environment.
// Missing keys are fatal in production and generated per startup otherwise.
func loadCookieKey(envVar string, size int) []byte {
	if keyHex := os.Getenv(envVar); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != size {
			log.Fatalf("%s must be %d hex characters (%d bytes)", envVar, size*2, size)
		}
		return key
	}
	if os.Getenv("STUDYLOG_ENV") == "production" {
		log.Fatalf("%s is required in production", envVar)
	}
	log.Printf("WARNING: using random %s (onboarding cookies won't survive restart)", envVar)
	return randomKey(size)
}

func randomKey(size int) []byte {
	key := make([]byte, size)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate cookie key: %v", err)
	}
	return key
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
