package middlewares

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/akazachkov/blog-platform/internal/jwt"
	"github.com/akazachkov/blog-platform/internal/models"
)

func TestAuthMiddleware(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	userID := uuid.New()
	user := &models.UserDB{
		UserID:   userID,
		Username: "alice",
		Email:    "alice@example.com",
	}

	tests := []struct {
		name        string
		setupMocks  func(tokener *MockTokener, users *MockUserGetter)
		wantStatus  int
		wantError   string
		wantHandled bool
	}{
		{
			name: "no token",
			setupMocks: func(tokener *MockTokener, users *MockUserGetter) {
				tokener.EXPECT().
					GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("", errors.New("no authorization header"))
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Access denied. No token provided.",
		},
		{
			name: "invalid token",
			setupMocks: func(tokener *MockTokener, users *MockUserGetter) {
				tokener.EXPECT().
					GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("bad-token", nil)
				tokener.EXPECT().
					GetClaims(gomock.Any(), "bad-token").
					Return(nil, jwt.ErrInvalidToken)
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Token is not valid",
		},
		{
			name: "user lookup error",
			setupMocks: func(tokener *MockTokener, users *MockUserGetter) {
				tokener.EXPECT().
					GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("good-token", nil)
				tokener.EXPECT().
					GetClaims(gomock.Any(), "good-token").
					Return(&jwt.Claims{UserID: userID, Email: user.Email}, nil)
				users.EXPECT().
					GetByID(gomock.Any(), userID).
					Return(nil, errors.New("db down"))
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Token is not valid",
		},
		{
			name: "user deleted after token issuance",
			setupMocks: func(tokener *MockTokener, users *MockUserGetter) {
				tokener.EXPECT().
					GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("good-token", nil)
				tokener.EXPECT().
					GetClaims(gomock.Any(), "good-token").
					Return(&jwt.Claims{UserID: userID, Email: user.Email}, nil)
				users.EXPECT().
					GetByID(gomock.Any(), userID).
					Return(nil, nil)
			},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Token is not valid",
		},
		{
			name: "success",
			setupMocks: func(tokener *MockTokener, users *MockUserGetter) {
				tokener.EXPECT().
					GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("good-token", nil)
				tokener.EXPECT().
					GetClaims(gomock.Any(), "good-token").
					Return(&jwt.Claims{UserID: userID, Email: user.Email}, nil)
				users.EXPECT().
					GetByID(gomock.Any(), userID).
					Return(user, nil)
			},
			wantStatus:  http.StatusOK,
			wantHandled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokener := NewMockTokener(ctrl)
			users := NewMockUserGetter(ctrl)
			tt.setupMocks(tokener, users)

			var gotUser *models.UserDB
			handled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handled = true
				gotUser = GetUserFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
			rec := httptest.NewRecorder()

			AuthMiddleware(tokener, users)(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantHandled, handled)

			if tt.wantError != "" {
				var body authErrorResponse
				err := json.Unmarshal(rec.Body.Bytes(), &body)
				assert.NoError(t, err)
				assert.Equal(t, tt.wantError, body.Error)
			}

			if tt.wantHandled {
				assert.Equal(t, user, gotUser)
			}
		})
	}
}

func TestGetUserFromContext_Empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, GetUserFromContext(req.Context()))
}
