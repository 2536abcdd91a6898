package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"studylog/internal/domain/account"
)

// UpdateAccountInput carries input for the admin account update orchestrator.
type UpdateAccountInput struct {
	AccountID     string
	ActorID       string // the admin making the change
	Role          string // empty to leave unchanged
	LoginDisabled *bool  // nil to leave unchanged
}

// UpdateAccountDeps holds dependencies for UpdateAccount.
type UpdateAccountDeps struct {
	AccountStore AccountStoreForChangePassword
}

var ErrSelfDisable = errors.New("you cannot disable or demote your own account")

// ExecuteUpdateAccount applies an admin's role or disable change.
// PRE: Caller's admin role has been checked by the handler
// POST: Account updated; admins cannot lock themselves out
func ExecuteUpdateAccount(ctx context.Context, input UpdateAccountInput, deps UpdateAccountDeps) (account.Account, error) {
	acct, err := deps.AccountStore.GetByID(ctx, input.AccountID)
	if err != nil {
		return account.Account{}, errors.New("account not found")
	}

	if input.Role != "" && input.Role != acct.Role {
		if input.AccountID == input.ActorID {
			return account.Account{}, ErrSelfDisable
		}
		acct.Role = input.Role
	}
	if input.LoginDisabled != nil && *input.LoginDisabled != acct.LoginDisabled {
		if input.AccountID == input.ActorID {
			return account.Account{}, ErrSelfDisable
		}
		acct.LoginDisabled = *input.LoginDisabled
	}

	if err := acct.Validate(); err != nil {
		return account.Account{}, err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return account.Account{}, err
	}

	slog.Info("auth_event", "event", "account_updated", "account_id", input.AccountID,
		"actor_id", input.ActorID, "role", acct.Role, "login_disabled", acct.LoginDisabled)
	return acct, nil
}
