package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/prostore/cashdesk/internal/domain"
)

type stubUserReader struct {
	user *domain.User
	err  error
}

func (s *stubUserReader) GetByEmail(context.Context, string) (*domain.User, error) {
	return s.user, s.err
}

func seedUser(t *testing.T, password string, status domain.UserStatus) *domain.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{
		ID:             uuid.New(),
		Email:          "cashier@store.test",
		Name:           "Cashier",
		PasswordHash:   string(hash),
		TradingPointID: uuid.New(),
		Status:         status,
		CreatedAt:      time.Now().UTC(),
	}
}

func TestAuthHandler_Login(t *testing.T) {
	user := seedUser(t, "correct-horse", domain.UserStatusActive)
	h := NewAuthHandler(&stubUserReader{user: user}, "secret", time.Hour)

	r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login",
		strings.NewReader(`{"email":"cashier@store.test","password":"correct-horse"}`))
	rec := httptest.NewRecorder()
	h.Login(rec, r)

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, data["token"])
}

func TestAuthHandler_LoginRejections(t *testing.T) {
	tests := []struct {
		name     string
		stub     *stubUserReader
		body     string
		wantCode string
	}{
		{
			name:     "wrong password",
			stub:     &stubUserReader{user: seedUser(t, "right", domain.UserStatusActive)},
			body:     `{"email":"cashier@store.test","password":"wrong"}`,
			wantCode: "INVALID_CREDENTIALS",
		},
		{
			name:     "unknown email",
			stub:     &stubUserReader{err: domain.ErrNotFound},
			body:     `{"email":"ghost@store.test","password":"anything"}`,
			wantCode: "INVALID_CREDENTIALS",
		},
		{
			name:     "suspended user",
			stub:     &stubUserReader{user: seedUser(t, "pw", domain.UserStatusSuspended)},
			body:     `{"email":"cashier@store.test","password":"pw"}`,
			wantCode: "INVALID_CREDENTIALS",
		},
		{
			name:     "missing fields",
			stub:     &stubUserReader{},
			body:     `{}`,
			wantCode: "VALIDATION_FAILED",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewAuthHandler(tc.stub, "secret", time.Hour)

			r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.Login(rec, r)

			resp := decodeResponse(t, rec)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}
