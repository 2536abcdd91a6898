package onboarding

import "time"

// Registration steps, strictly forward. The cookie carries the visitor's
// current step until an authenticated account exists, after which the
// account's durable onboarding fields are authoritative.
const (
	StepEmail    = 1 // enter email address
	StepSent     = 2 // verification mail sent, awaiting click
	StepVerified = 3 // email verified
	StepPassword = 4 // choose password and display name
	StepDone     = 5 // registration finished
)

// ResendInterval is the minimum wait between verification mails.
const ResendInterval = 60 * time.Second

// Registration page paths, one per step. StepSent and StepVerified share
// the verify page: it shows "check your inbox" until the link is clicked.
const (
	PathEmail    = "/register"
	PathVerify   = "/register/verify"
	PathPassword = "/register/password"
	PathDone     = "/register/done"
)

// State is the registration progress carried in the signed cookie.
// A missing or unreadable cookie reads as the zero State, which
// normalizes to step 1.
type State struct {
	Step        int        `json:"step"`
	Email       string     `json:"email,omitempty"`
	EmailSentAt *time.Time `json:"email_sent_at,omitempty"`
	VerifiedAt  *time.Time `json:"verified_at,omitempty"`
}

// Normalize floors the step at StepEmail so a fresh or corrupt state
// always lands on the first page.
// POST: Step >= StepEmail
func (s *State) Normalize() {
	if s.Step < StepEmail {
		s.Step = StepEmail
	}
}

// Advance moves the state forward to the given step. Backward moves are
// ignored: transitions are triggered only by completing a step, never by
// navigation.
// POST: Step == max(Step, step)
func (s *State) Advance(step int) {
	if step > s.Step {
		s.Step = step
	}
	s.Normalize()
}

// CanResend reports whether enough time has passed since the last
// verification mail. A state with no recorded send can always send.
// INVARIANT: State fields are not mutated
func (s *State) CanResend(now time.Time) bool {
	if s.EmailSentAt == nil {
		return true
	}
	return now.Sub(*s.EmailSentAt) >= ResendInterval
}

// PathForStep returns the registration page that serves a step.
func PathForStep(step int) string {
	switch {
	case step <= StepEmail:
		return PathEmail
	case step == StepSent, step == StepVerified:
		return PathVerify
	case step == StepPassword:
		return PathPassword
	default:
		return PathDone
	}
}

// requiredStep maps each page to the minimum step that may view it.
func requiredStep(page string) int {
	switch page {
	case PathVerify:
		return StepSent
	case PathPassword:
		return StepPassword
	case PathDone:
		return StepDone
	default:
		return StepEmail
	}
}

// RedirectFor decides whether a visitor at the given step may view a
// registration page. It returns the path to redirect to, or "" when the
// page may render.
//
// Below the page's required step the visitor is sent back to the page
// matching their progress; at or beyond a completed earlier page they are
// sent forward. The done page renders for any step >= StepDone.
// INVARIANT: the returned path is never the page itself
func RedirectFor(currentStep int, page string) string {
	if currentStep < StepEmail {
		currentStep = StepEmail
	}

	required := requiredStep(page)
	if currentStep < required {
		return PathForStep(currentStep)
	}

	// Completed steps redirect forward, except the done page which stays
	// reachable once finished.
	if page != PathDone {
		forward := PathForStep(currentStep)
		if forward != page {
			return forward
		}
	}
	return ""
}
