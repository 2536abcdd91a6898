package account_test

import (
	"testing"
	"time"

	"studylog/internal/domain/account"
)

// TestAccount_Validate tests validation of Account.
func TestAccount_Validate(t *testing.T) {
	tests := []struct {
		name    string
		account account.Account
		wantErr bool
	}{
		{
			name: "valid admin account",
			account: account.Account{
				ID:    "1",
				Email: "admin@studylog.example",
				Role:  account.RoleAdmin,
			},
			wantErr: false,
		},
		{
			name: "valid staff account",
			account: account.Account{
				ID:    "2",
				Email: "staff@studylog.example",
				Role:  account.RoleStaff,
			},
			wantErr: false,
		},
		{
			name: "valid member account",
			account: account.Account{
				ID:          "3",
				Email:       "member@studylog.example",
				DisplayName: "Member One",
				Role:        account.RoleMember,
			},
			wantErr: false,
		},
		{
			name: "empty email",
			account: account.Account{
				ID:   "4",
				Role: account.RoleMember,
			},
			wantErr: true,
		},
		{
			name: "invalid email no at sign",
			account: account.Account{
				ID:    "5",
				Email: "not-an-email",
				Role:  account.RoleMember,
			},
			wantErr: true,
		},
		{
			name: "invalid role",
			account: account.Account{
				ID:    "6",
				Email: "user@studylog.example",
				Role:  "superuser",
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.account.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestAccount_SetPassword tests hashing and length validation.
func TestAccount_SetPassword(t *testing.T) {
	a := account.Account{Email: "user@studylog.example", Role: account.RoleMember}

	if err := a.SetPassword("short"); err != account.ErrPasswordTooShort {
		t.Errorf("SetPassword(short) error = %v, want ErrPasswordTooShort", err)
	}
	if err := a.SetPassword(""); err != account.ErrEmptyPassword {
		t.Errorf("SetPassword(empty) error = %v, want ErrEmptyPassword", err)
	}

	if err := a.SetPassword("a long enough password"); err != nil {
		t.Fatalf("SetPassword() error = %v", err)
	}
	if a.PasswordHash == "" || a.PasswordHash == "a long enough password" {
		t.Error("password was not hashed")
	}

	if err := a.CheckPassword("a long enough password"); err != nil {
		t.Errorf("CheckPassword(correct) error = %v", err)
	}
	if err := a.CheckPassword("wrong password entirely"); err != account.ErrWrongPassword {
		t.Errorf("CheckPassword(wrong) error = %v, want ErrWrongPassword", err)
	}
}

// TestAccount_Lockout tests the failed-login lockout policy.
func TestAccount_Lockout(t *testing.T) {
	a := account.Account{}

	for i := 0; i < 4; i++ {
		a.RecordFailedLogin()
	}
	if a.IsLocked() {
		t.Error("account locked after 4 failures, want unlocked")
	}

	a.RecordFailedLogin()
	if !a.IsLocked() {
		t.Error("account not locked after 5 failures")
	}

	a.ResetFailedLogins()
	if a.IsLocked() || a.FailedLogins != 0 {
		t.Error("ResetFailedLogins did not clear lockout")
	}
}

// TestAccount_CompleteOnboarding tests the durable completion write.
func TestAccount_CompleteOnboarding(t *testing.T) {
	a := account.Account{OnboardingStep: 4}
	a.CompleteOnboarding()
	if a.OnboardingStep != account.OnboardingStepMax || !a.OnboardingCompleted {
		t.Errorf("CompleteOnboarding() = step %d completed %v", a.OnboardingStep, a.OnboardingCompleted)
	}
}

// TestVerificationToken_IsExpired tests token expiry.
func TestVerificationToken_IsExpired(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tok := account.VerificationToken{ExpiresAt: now.Add(24 * time.Hour)}

	if tok.IsExpired(now) {
		t.Error("token expired before its deadline")
	}
	if !tok.IsExpired(now.Add(25 * time.Hour)) {
		t.Error("token not expired after its deadline")
	}
}

// TestRoleRank tests role ordering.
func TestRoleRank(t *testing.T) {
	if !(account.RoleRank(account.RoleMember) < account.RoleRank(account.RoleStaff)) {
		t.Error("member should rank below staff")
	}
	if !(account.RoleRank(account.RoleStaff) < account.RoleRank(account.RoleAdmin)) {
		t.Error("staff should rank below admin")
	}
	if account.RoleRank("unknown") != 0 {
		t.Error("unknown role should rank lowest")
	}
}
