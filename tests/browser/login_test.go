package browser_test

import (
	"context"
	"testing"

	"github.com/playwright-community/playwright-go"

	"studylog/internal/application/orchestrators"
	accountDomain "studylog/internal/domain/account"
)

// TestLogin_RoleLanding checks the post-login landing page per role:
// admins go to account management, completed members to the dashboard.
func TestLogin_RoleLanding(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	ctx := context.Background()

	// Admin
	adminPage := app.newPage(t)
	app.loginAdmin(t, adminPage)

	// Completed member (accounts created outside registration skip the flow)
	_, err := orchestrators.ExecuteCreateAccount(ctx, orchestrators.CreateAccountInput{
		Email:       "member@test.com",
		Password:    "MemberPass123!",
		DisplayName: "会員",
		Role:        accountDomain.RoleMember,
	}, orchestrators.CreateAccountDeps{AccountStore: app.Stores.AccountStore})
	if err != nil {
		t.Fatalf("failed to create member: %v", err)
	}

	page := app.newPage(t)
	if _, err := page.Goto(app.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=Email]").Fill("member@test.com"); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=Password]").Fill("MemberPass123!"); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}
	if err := page.WaitForURL(app.BaseURL+"/dashboard", playwright.PageWaitForURLOptions{
		Timeout: playwright.Float(10000),
	}); err != nil {
		t.Error("completed member did not land on dashboard")
	}
}

// TestLogin_BadPassword checks that a wrong password re-renders the login
// form with an error instead of creating a session.
func TestLogin_BadPassword(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping browser test in short mode")
	}

	app := newTestApp(t)
	page := app.newPage(t)

	if _, err := page.Goto(app.BaseURL + "/login"); err != nil {
		t.Fatalf("failed to navigate to login: %v", err)
	}
	if err := page.Locator("input[name=Email]").Fill(testAdminEmail); err != nil {
		t.Fatalf("failed to fill email: %v", err)
	}
	if err := page.Locator("input[name=Password]").Fill("wrong password entirely"); err != nil {
		t.Fatalf("failed to fill password: %v", err)
	}
	if err := page.Locator("button[type=submit]").Click(); err != nil {
		t.Fatalf("failed to click login: %v", err)
	}

	err := page.Locator(".error").WaitFor(playwright.LocatorWaitForOptions{
		Timeout: playwright.Float(5000),
	})
	if err != nil {
		t.Error("login error message not shown")
	}
}
