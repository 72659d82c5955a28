package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/megatonytrader/express-entregas-zap/configs"
	"github.com/megatonytrader/express-entregas-zap/internal/security"
	"github.com/megatonytrader/express-entregas-zap/internal/usecase"
)

type fakeAccountRepo struct {
	account usecase.AdminAccount
	updated string
}

func (f *fakeAccountRepo) GetByEmail(_ context.Context, email string) (*usecase.AdminAccount, error) {
	if email != f.account.Email {
		return nil, usecase.ErrNotFound
	}
	acc := f.account
	return &acc, nil
}

func (f *fakeAccountRepo) GetByID(_ context.Context, userID string) (*usecase.AdminAccount, error) {
	if userID != f.account.UserID {
		return nil, usecase.ErrNotFound
	}
	acc := f.account
	return &acc, nil
}

func (f *fakeAccountRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	if userID != f.account.UserID {
		return usecase.ErrNotFound
	}
	f.updated = passwordHash
	return nil
}

func accountRouter(t *testing.T, userID string) (*gin.Engine, *fakeAccountRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := security.HashPassword("senha-atual")
	require.NoError(t, err)
	repo := &fakeAccountRepo{account: usecase.AdminAccount{
		UserID:       "u1",
		Email:        "admin@loja.com",
		PasswordHash: hash,
		Role:         "admin",
	}}
	h := NewAuthHandler(configs.Config{}, repo)

	r := gin.New()
	r.PUT("/v1/admin/account/password", func(c *gin.Context) {
		if userID != "" {
			c.Set("user_id", userID)
		}
	}, h.ChangePassword)
	return r, repo
}

func TestChangePassword_RotatesHash(t *testing.T) {
	r, repo := accountRouter(t, "u1")

	w := doJSON(t, r, http.MethodPut, "/v1/admin/account/password",
		`{"current_password":"senha-atual","new_password":"senha-nova"}`, "")

	require.Equal(t, http.StatusNoContent, w.Code)
	require.NotEmpty(t, repo.updated)
	assert.True(t, security.CheckPassword(repo.updated, "senha-nova"))
}

func TestChangePassword_WrongCurrentPassword(t *testing.T) {
	r, repo := accountRouter(t, "u1")

	w := doJSON(t, r, http.MethodPut, "/v1/admin/account/password",
		`{"current_password":"errada","new_password":"senha-nova"}`, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, repo.updated)
}

func TestChangePassword_RequiresSession(t *testing.T) {
	r, repo := accountRouter(t, "")

	w := doJSON(t, r, http.MethodPut, "/v1/admin/account/password",
		`{"current_password":"senha-atual","new_password":"senha-nova"}`, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, repo.updated)
}

func TestChangePassword_RejectsShortPassword(t *testing.T) {
	r, repo := accountRouter(t, "u1")

	w := doJSON(t, r, http.MethodPut, "/v1/admin/account/password",
		`{"current_password":"senha-atual","new_password":"abc"}`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.updated)
}
