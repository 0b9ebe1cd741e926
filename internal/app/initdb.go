package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"shopizen/internal/accounts"
	"shopizen/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// checkAdmin makes sure a console administrator exists so a fresh install
// is reachable.
func (a *Application) checkAdmin() {
	ctx := context.Background()
	_, err := a.registry.GetByEmail(ctx, "admin@shopizen.io")
	if err == nil {
		return
	}
	if !errors.Is(err, accounts.ErrNotFound) {
		zap.S().Errorf("admin lookup failed: %v", err)
		return
	}
	admin := &domain.Account{
		ID:        "admin",
		Name:      "Administrator",
		Email:     "admin@shopizen.io",
		Password:  "Shopizen@1",
		Role:      domain.RoleAdmin,
		Status:    domain.AccountActive,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := a.registry.Create(ctx, admin); err != nil {
		zap.S().Errorf("admin seed failed: %v", err)
		return
	}
	zap.S().Info("seeded default admin account")
}

// seedAccounts loads demo accounts from the users.json fixture. Existing
// registrations are never overwritten.
func (a *Application) seedAccounts() {
	path := filepath.Join(a.appConfig.Shop.FixtureDir, "users.json")
	data, err := os.ReadFile(path)
	if err != nil {
		zap.S().Debugf("account fixture missing: %v", err)
		return
	}
	var accts []domain.Account
	if err := json.Unmarshal(data, &accts); err != nil {
		zap.S().Warnf("account fixture unreadable: %v", err)
		return
	}

	ctx := context.Background()
	seeded := 0
	for i := range accts {
		acct := accts[i]
		if acct.Status == "" {
			acct.Status = domain.AccountActive
		}
		if acct.Role == "" {
			acct.Role = domain.RoleUser
		}
		if _, err := a.registry.GetByEmail(ctx, acct.Email); err == nil {
			continue
		}
		if err := a.registry.Create(ctx, &acct); err != nil {
			zap.S().Warnf("account seed failed for %s: %v", acct.Email, err)
			continue
		}
		seeded++
	}
	if seeded > 0 {
		zap.S().Infof("seeded %d fixture accounts", seeded)
	}
}
