package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vardanhq/vardan-api/internal/auth"
	"github.com/vardanhq/vardan-api/internal/common"
	"github.com/vardanhq/vardan-api/internal/store/storetest"
)

func newService(t *testing.T, fake *storetest.Fake) *auth.Service {
	t.Helper()
	svc, err := auth.NewService(auth.Config{
		Queries:         fake,
		Secret:          "test-secret",
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "vardan-api",
		Audience:        "vardan-clients",
	})
	require.NoError(t, err)
	return svc
}

func TestRegisterAndLogin(t *testing.T) {
	fake := storetest.New()
	svc := newService(t, fake)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Asha", "asha@example.com", "correct-horse", "", "")
	require.NoError(t, err)
	require.Equal(t, "customer", user.Role)
	require.True(t, user.IsActive)

	result, err := svc.Login(ctx, "Asha@Example.com", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	require.NotEmpty(t, result.RefreshToken)

	id, err := svc.ParseAccessToken(result.AccessToken)
	require.NoError(t, err)
	require.Equal(t, user.ID, id.UserID)
	require.Equal(t, "asha@example.com", id.Email)
	require.Equal(t, "customer", id.Role)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	fake := storetest.New()
	svc := newService(t, fake)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Asha", "asha@example.com", "correct-horse", "", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "Other", "asha@example.com", "another-pass", "", "")
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "EMAIL_ALREADY_USED", appErr.Code)
	require.Equal(t, 409, appErr.HTTPStatus)
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	fake := storetest.New()
	svc := newService(t, fake)

	_, err := svc.Register(context.Background(), "Eve", "eve@example.com", "password123", "", "admin")
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	fake := storetest.New()
	svc := newService(t, fake)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Asha", "asha@example.com", "correct-horse", "", "")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "asha@example.com", "wrong-horse")
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "INVALID_CREDENTIALS", appErr.Code)
	require.Equal(t, 401, appErr.HTTPStatus)
}

func TestLoginInactiveUser(t *testing.T) {
	fake := storetest.New()
	svc := newService(t, fake)
	ctx := context.Background()

	user, err := svc.Register(ctx, "Asha", "asha@example.com", "correct-horse", "", "")
	require.NoError(t, err)

	for k, u := range fake.Users {
		u.IsActive = false
		fake.Users[k] = u
	}

	_, err = svc.Login(ctx, user.Email, "correct-horse")
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "INVALID_CREDENTIALS", appErr.Code)
}

func TestRefreshRotatesToken(t *testing.T) {
	fake := storetest.New()
	svc := newService(t, fake)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Asha", "asha@example.com", "correct-horse", "", "")
	require.NoError(t, err)
	login, err := svc.Login(ctx, "asha@example.com", "correct-horse")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, login.RefreshToken)
	require.NoError(t, err)
	require.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// the pre-rotation token is no longer usable
	_, err = svc.Refresh(ctx, login.RefreshToken)
	require.Error(t, err)

	_, err = svc.Refresh(ctx, refreshed.RefreshToken)
	require.NoError(t, err)
}

func TestLogoutRevokesSession(t *testing.T) {
	fake := storetest.New()
	svc := newService(t, fake)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Asha", "asha@example.com", "correct-horse", "", "")
	require.NoError(t, err)
	login, err := svc.Login(ctx, "asha@example.com", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, login.RefreshToken))
	require.Empty(t, fake.Sessions)

	_, err = svc.Refresh(ctx, login.RefreshToken)
	require.Error(t, err)
}

func TestParseAccessTokenExpired(t *testing.T) {
	fake := storetest.New()
	svc := newService(t, fake)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Asha", "asha@example.com", "correct-horse", "", "")
	require.NoError(t, err)
	login, err := svc.Login(ctx, "asha@example.com", "correct-horse")
	require.NoError(t, err)

	svc.WithNow(func() time.Time { return time.Now().Add(2 * time.Hour) })
	_, err = svc.ParseAccessToken(login.AccessToken)
	require.Error(t, err)
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	fake := storetest.New()
	svc := newService(t, fake)
	ctx := context.Background()

	_, err := svc.Register(ctx, "Asha", "asha@example.com", "correct-horse", "", "")
	require.NoError(t, err)
	login, err := svc.Login(ctx, "asha@example.com", "correct-horse")
	require.NoError(t, err)

	other, err := auth.NewService(auth.Config{Queries: fake, Secret: "different-secret"})
	require.NoError(t, err)
	_, err = other.ParseAccessToken(login.AccessToken)
	require.Error(t, err)
}
