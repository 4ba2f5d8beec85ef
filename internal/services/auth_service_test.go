// internal/services/auth_service_test.go
package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/vms-backend/internal/i18n"
	"github.com/javajoker/vms-backend/internal/models"
	"github.com/javajoker/vms-backend/internal/testutil"
	"github.com/javajoker/vms-backend/internal/utils"
)

func TestLogin(t *testing.T) {
	cfg := testutil.TestConfig(t)
	db := testutil.SetupTestDB(t, cfg)
	svc := NewAuthService(db, cfg)
	ctx := context.Background()

	resp, err := svc.Login(ctx, &LoginRequest{Username: " Admin ", Password: testutil.AdminPassword})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Username)
	assert.Equal(t, "Admin", resp.Name)

	claims, err := utils.ValidateJWT(resp.Token.Access)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, claims.AccountID)

	var admin models.Account
	require.NoError(t, db.First(&admin, resp.ID).Error)
	assert.NotNil(t, admin.LastLoginAt)

	for _, req := range []*LoginRequest{
		{Username: "admin", Password: "admin"},
		{Username: "ghost", Password: testutil.AdminPassword},
	} {
		_, err := svc.Login(ctx, req)
		assert.Equal(t, KindInvalidCredentials, KindOf(err))
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	cfg := testutil.TestConfig(t)
	db := testutil.SetupTestDB(t, cfg)
	svc := NewAuthService(db, cfg)

	account := &models.Account{Username: "gudang", Name: "Gudang"}
	require.NoError(t, account.SetPassword("rahasia"))
	require.NoError(t, db.Create(account).Error)

	_, err := svc.Login(context.Background(), &LoginRequest{Username: "gudang", Password: "rahasia"})
	assert.Equal(t, KindInvalidCredentials, KindOf(err))
}

func TestRefreshToken(t *testing.T) {
	cfg := testutil.TestConfig(t)
	db := testutil.SetupTestDB(t, cfg)
	svc := NewAuthService(db, cfg)
	ctx := context.Background()

	login, err := svc.Login(ctx, &LoginRequest{Username: "admin", Password: testutil.AdminPassword})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(ctx, &RefreshRequest{Refresh: login.Token.Refresh})
	require.NoError(t, err)
	_, err = utils.ValidateJWT(refreshed.Token.Access)
	assert.NoError(t, err)

	_, err = svc.RefreshToken(ctx, &RefreshRequest{Refresh: login.Token.Access})
	assert.Equal(t, KindUnauthenticated, KindOf(err))
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, i18n.KeyAuthInvalidRefresh, appErr.MessageKey)

	var missing *AppError
	_, err = svc.RefreshToken(ctx, &RefreshRequest{Refresh: refreshFor(t, 9999)})
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, KindUnauthenticated, missing.Kind)

	require.NoError(t, db.Model(&models.Account{}).Where("id = ?", login.ID).Update("is_active", false).Error)
	_, err = svc.RefreshToken(ctx, &RefreshRequest{Refresh: login.Token.Refresh})
	assert.Equal(t, KindUnauthenticated, KindOf(err))
}

func refreshFor(t *testing.T, accountID uint) string {
	t.Helper()
	token, err := utils.GenerateRefreshToken(accountID, "ghost", 1)
	require.NoError(t, err)
	return token
}
