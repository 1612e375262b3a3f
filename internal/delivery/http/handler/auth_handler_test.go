package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/delivery/http/middleware"
	"clinic-scheduler/internal/domain/entity"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/validator"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthUsecase struct {
	loginErr error

	loggedOutUser  uuid.UUID
	loggedOutToken string
	logoutReq      *dto.LogoutRequest
	createdUser    *dto.CreateUserRequest
}

func (f *fakeAuthUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &dto.TokenResponse{AccessToken: "access", RefreshToken: "refresh", ExpiresIn: 900}, nil
}

func (f *fakeAuthUsecase) Logout(ctx context.Context, userID uuid.UUID, accessTokenID string, req *dto.LogoutRequest) error {
	f.loggedOutUser, f.loggedOutToken, f.logoutReq = userID, accessTokenID, req
	return nil
}

func (f *fakeAuthUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return nil, usecase.ErrTokenRevoked
}

func (f *fakeAuthUsecase) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	return &dto.UserResponse{ID: userID, Email: "desk@clinic.test", Role: "receptionist"}, nil
}

func (f *fakeAuthUsecase) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	f.createdUser = req
	if req.Role == "doctor" && req.DoctorID == nil {
		return nil, usecase.ErrDoctorLinkRequired
	}
	return &dto.UserResponse{ID: uuid.New(), Email: req.Email, Role: req.Role}, nil
}

func (f *fakeAuthUsecase) GetAllUsers(ctx context.Context) (*dto.UserListResponse, error) {
	return &dto.UserListResponse{}, nil
}

func authenticated(req *http.Request, userID uuid.UUID, tokenID string) *http.Request {
	return req.WithContext(middleware.WithStaff(req.Context(), middleware.Staff{
		UserID:   userID,
		RoleID:   entity.RoleIDReceptionist,
		RoleName: entity.RoleReceptionist,
		TokenID:  tokenID,
	}))
}

func TestAuthHandler_Login(t *testing.T) {
	tests := []struct {
		name     string
		loginErr error
		body     string
		status   int
	}{
		{"success", nil, `{"email":"desk@clinic.test","password":"secret123"}`, http.StatusOK},
		{"missing password", nil, `{"email":"desk@clinic.test"}`, http.StatusBadRequest},
		{"wrong password", usecase.ErrInvalidCredentials, `{"email":"desk@clinic.test","password":"nope"}`, http.StatusUnauthorized},
		{"inactive", usecase.ErrUserInactive, `{"email":"desk@clinic.test","password":"secret123"}`, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewAuthHandler(&fakeAuthUsecase{loginErr: tt.loginErr}, validator.NewValidator())
			rec := httptest.NewRecorder()
			h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestAuthHandler_RefreshRevoked(t *testing.T) {
	h := NewAuthHandler(&fakeAuthUsecase{}, validator.NewValidator())
	rec := httptest.NewRecorder()
	h.RefreshToken(rec, httptest.NewRequest(http.MethodPost, "/auth/refresh-token", strings.NewReader(`{"refresh_token":"used"}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	uc := &fakeAuthUsecase{}
	h := NewAuthHandler(uc, validator.NewValidator())
	userID := uuid.New()

	t.Run("without body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := authenticated(httptest.NewRequest(http.MethodPost, "/auth/logout", nil), userID, "token-1")
		h.Logout(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, uc.loggedOutUser)
		assert.Equal(t, "token-1", uc.loggedOutToken)
		assert.Empty(t, uc.logoutReq.RefreshToken)
	})

	t.Run("with refresh token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := authenticated(httptest.NewRequest(http.MethodPost, "/auth/logout", strings.NewReader(`{"refresh_token":"r"}`)), userID, "token-2")
		h.Logout(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "r", uc.logoutReq.RefreshToken)
	})

	t.Run("no identity", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.Logout(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	h := NewAuthHandler(&fakeAuthUsecase{}, validator.NewValidator())
	userID := uuid.New()

	rec := httptest.NewRecorder()
	h.GetCurrentUser(rec, authenticated(httptest.NewRequest(http.MethodGet, "/auth/me", nil), userID, "t"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), userID.String())
}

func TestAuthHandler_CreateUser(t *testing.T) {
	uc := &fakeAuthUsecase{}
	h := NewAuthHandler(uc, validator.NewValidator())

	rec := httptest.NewRecorder()
	h.CreateUser(rec, httptest.NewRequest(http.MethodPost, "/admin/users",
		strings.NewReader(`{"email":"nurse@clinic.test","password":"longenough","full_name":"Dewi","role":"nurse"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.createdUser)

	rec = httptest.NewRecorder()
	h.CreateUser(rec, httptest.NewRequest(http.MethodPost, "/admin/users",
		strings.NewReader(`{"email":"dr@clinic.test","password":"longenough","full_name":"Dr. Dewi","role":"doctor"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "doctor_id")

	rec = httptest.NewRecorder()
	h.CreateUser(rec, httptest.NewRequest(http.MethodPost, "/admin/users",
		strings.NewReader(`{"email":"desk@clinic.test","password":"longenough","full_name":"Dewi","role":"receptionist"}`)))
	assert.Equal(t, http.StatusCreated, rec.Code)
}
