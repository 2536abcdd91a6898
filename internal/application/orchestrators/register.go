package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	emailAdapter "studylog/internal/adapters/email"
	"studylog/internal/domain/account"
	emailDomain "studylog/internal/domain/email"
	"studylog/internal/domain/onboarding"
)

// AccountStoreForRegister defines the store interface needed by the registration orchestrators.
type AccountStoreForRegister interface {
	GetByEmail(ctx context.Context, email string) (account.Account, error)
	Save(ctx context.Context, a account.Account) error
	SaveVerificationToken(ctx context.Context, t account.VerificationToken) error
	GetVerificationToken(ctx context.Context, token string) (account.VerificationToken, error)
}

// EmailLogStoreForRegister defines the email log interface needed by the registration orchestrators.
type EmailLogStoreForRegister interface {
	Save(ctx context.Context, e emailDomain.LogEntry) error
}

// verificationTokenTTL bounds how long a mailed link stays valid.
const verificationTokenTTL = 24 * time.Hour

var (
	ErrResendThrottled = errors.New("a verification email was sent recently, please wait before retrying")
	ErrNotVerified     = errors.New("email address has not been verified")
)

// --- Start Registration (email step) ---

// StartRegistrationInput carries input for submitting the email step.
type StartRegistrationInput struct {
	Email string
	State onboarding.State // current cookie state; Resend reuses it for throttling
}

// StartRegistrationDeps holds dependencies for StartRegistration.
type StartRegistrationDeps struct {
	AccountStore AccountStoreForRegister
	EmailLog     EmailLogStoreForRegister
	EmailSender  emailAdapter.Sender
	GenerateID   func() string
	Now          func() time.Time
	// BaseURL prefixes the verification link, e.g. "https://studylog.example".
	BaseURL string
}

// ExecuteStartRegistration records the registrant's email, mails a
// verification link and advances the cookie state to the sent step.
// Re-submitting from the sent step acts as a resend, throttled to one
// mail per minute.
// PRE: input.Email is a plausible address
// POST: A verification token exists for the email; returned state has
// Step >= StepSent and a fresh EmailSentAt
func ExecuteStartRegistration(ctx context.Context, input StartRegistrationInput, deps StartRegistrationDeps) (onboarding.State, error) {
	state := input.State
	state.Normalize()
	now := deps.Now()

	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return state, account.ErrEmptyEmail
	}
	if !strings.Contains(email, "@") {
		return state, account.ErrInvalidEmail
	}

	// A registered address cannot restart the flow.
	if _, err := deps.AccountStore.GetByEmail(ctx, email); err == nil {
		return state, ErrEmailAlreadyExists
	}

	// Resend throttle applies once a mail has gone out for this session.
	if state.Step >= onboarding.StepSent && !state.CanResend(now) {
		return state, ErrResendThrottled
	}

	token := account.VerificationToken{
		ID:        deps.GenerateID(),
		Email:     email,
		Token:     deps.GenerateID(),
		ExpiresAt: now.Add(verificationTokenTTL),
		CreatedAt: now,
	}
	if err := deps.AccountStore.SaveVerificationToken(ctx, token); err != nil {
		return state, err
	}

	link := deps.BaseURL + onboarding.PathVerify + "?token=" + token.Token
	result, err := deps.EmailSender.Send(ctx, emailAdapter.SendRequest{
		To:      []string{email},
		Subject: "StudyLogの登録を完了してください",
		HTML: fmt.Sprintf(
			`<p>以下のリンクをクリックしてメールアドレスを確認してください。</p><p><a href="%s">メールアドレスを確認する</a></p><p>このリンクは24時間有効です。</p>`,
			link),
	})
	if err != nil {
		return state, err
	}

	logEntry := emailDomain.LogEntry{
		ID:        deps.GenerateID(),
		ToAddress: email,
		Subject:   "StudyLogの登録を完了してください",
		Kind:      emailDomain.KindVerification,
		MessageID: result.MessageID,
		SentAt:    now,
	}
	if err := deps.EmailLog.Save(ctx, logEntry); err != nil {
		// The mail is already out; a failed log write is not fatal.
		slog.Warn("email_log_save_failed", "to", email, "error", err)
	}

	state.Email = email
	state.EmailSentAt = &now
	state.Advance(onboarding.StepSent)

	slog.Info("onboarding_event", "event", "verification_sent", "email", email, "message_id", result.MessageID)
	return state, nil
}

// --- Verify Email (link click) ---

// VerifyEmailInput carries input for the verification link handler.
type VerifyEmailInput struct {
	Token string
	State onboarding.State
}

// VerifyEmailDeps holds dependencies for VerifyEmail.
type VerifyEmailDeps struct {
	AccountStore AccountStoreForRegister
	Now          func() time.Time
}

// ExecuteVerifyEmail validates a mailed token and advances the cookie
// state to the verified step. The token is single-use.
// PRE: input.Token is non-empty
// POST: Token is marked used; returned state has Step >= StepVerified and
// carries the verified email
func ExecuteVerifyEmail(ctx context.Context, input VerifyEmailInput, deps VerifyEmailDeps) (onboarding.State, error) {
	state := input.State
	state.Normalize()

	if input.Token == "" {
		return state, account.ErrTokenInvalid
	}

	token, err := deps.AccountStore.GetVerificationToken(ctx, input.Token)
	if err != nil {
		slog.Info("onboarding_event", "event", "verify_failed", "reason", "not_found")
		return state, account.ErrTokenInvalid
	}
	if token.Used {
		slog.Info("onboarding_event", "event", "verify_failed", "reason", "used", "email", token.Email)
		return state, account.ErrTokenInvalid
	}
	now := deps.Now()
	if token.IsExpired(now) {
		slog.Info("onboarding_event", "event", "verify_failed", "reason", "expired", "email", token.Email)
		return state, account.ErrTokenExpired
	}

	token.Invalidate()
	if err := deps.AccountStore.SaveVerificationToken(ctx, token); err != nil {
		return state, err
	}

	// The link may be opened in a browser without the original cookie;
	// the token's email is authoritative.
	state.Email = token.Email
	state.VerifiedAt = &now
	state.Advance(onboarding.StepVerified)

	slog.Info("onboarding_event", "event", "email_verified", "email", token.Email)
	return state, nil
}

// --- Complete Registration (password/profile step) ---

// CompleteRegistrationInput carries input for the password/profile step.
type CompleteRegistrationInput struct {
	State       onboarding.State
	Password    string
	DisplayName string
}

// CompleteRegistrationResult carries the created account for session creation.
type CompleteRegistrationResult struct {
	AccountID string
	Email     string
	Role      string
	State     onboarding.State
}

// CompleteRegistrationDeps holds dependencies for CompleteRegistration.
type CompleteRegistrationDeps struct {
	AccountStore AccountStoreForCreate
}

// ExecuteCompleteRegistration creates the member account from a verified
// registration and advances the cookie state to done. The durable
// completion flag stays false until the done page's one-time write.
// PRE: input.State.Step >= StepVerified with a verified email
// POST: Account exists with OnboardingStep == StepDone; returned state has
// Step == StepDone
func ExecuteCompleteRegistration(ctx context.Context, input CompleteRegistrationInput, deps CompleteRegistrationDeps) (CompleteRegistrationResult, error) {
	state := input.State
	state.Normalize()

	if state.Step < onboarding.StepVerified || state.Email == "" {
		return CompleteRegistrationResult{}, ErrNotVerified
	}

	id, err := ExecuteCreateAccount(ctx, CreateAccountInput{
		Email:          state.Email,
		Password:       input.Password,
		DisplayName:    input.DisplayName,
		Role:           account.RoleMember,
		OnboardingStep: onboarding.StepDone,
	}, CreateAccountDeps{AccountStore: deps.AccountStore})
	if err != nil {
		return CompleteRegistrationResult{}, err
	}

	state.Advance(onboarding.StepDone)

	slog.Info("onboarding_event", "event", "registration_completed", "email", state.Email, "account_id", id)
	return CompleteRegistrationResult{
		AccountID: id,
		Email:     state.Email,
		Role:      account.RoleMember,
		State:     state,
	}, nil
}

// --- Finish Onboarding (done page) ---

// FinishOnboardingDeps holds dependencies for FinishOnboarding.
type FinishOnboardingDeps struct {
	AccountStore AccountStoreForChangePassword
}

// ExecuteFinishOnboarding performs the done page's one-time durable
// completion write. Repeat visits are no-ops.
// PRE: accountID names an existing account
// POST: Account has OnboardingCompleted == true
func ExecuteFinishOnboarding(ctx context.Context, accountID string, deps FinishOnboardingDeps) error {
	acct, err := deps.AccountStore.GetByID(ctx, accountID)
	if err != nil {
		return err
	}
	if acct.OnboardingCompleted {
		return nil
	}

	acct.CompleteOnboarding()
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return err
	}

	slog.Info("onboarding_event", "event", "onboarding_completed", "account_id", accountID)
	return nil
}
