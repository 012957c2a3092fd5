package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	authDomain "github.com/carebridgehq/chartgate/internal/auth/domain"
)

// mockTokenUseCase is a mock implementation of TokenUseCase for testing.
type mockTokenUseCase struct {
	mock.Mock
}

func (m *mockTokenUseCase) Issue(
	ctx context.Context,
	issueTokenInput *authDomain.IssueTokenInput,
) (*authDomain.IssueTokenOutput, error) {
	args := m.Called(ctx, issueTokenInput)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.IssueTokenOutput), args.Error(1)
}

func (m *mockTokenUseCase) Authenticate(ctx context.Context, tokenHash string) (*authDomain.Actor, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authDomain.Actor), args.Error(1)
}

// mockTokenService is a mock implementation of TokenService for testing.
type mockTokenService struct {
	mock.Mock
}

func (m *mockTokenService) GenerateToken() (plainToken string, tokenHash string, err error) {
	args := m.Called()
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockTokenService) HashToken(plainToken string) string {
	args := m.Called(plainToken)
	return args.String(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func setupAuthRouter(tokenUseCase *mockTokenUseCase, tokenService *mockTokenService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AuthenticationMiddleware(tokenUseCase, tokenService, testLogger()))
	router.GET("/protected", func(c *gin.Context) {
		actor, ok := GetActor(c.Request.Context())
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no actor in context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"actor_id": actor.ID.String()})
	})
	return router
}

func TestAuthenticationMiddleware(t *testing.T) {
	t.Run("Success_ValidBearerToken", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		mockService := &mockTokenService{}

		actor := &authDomain.Actor{
			ID:       uuid.Must(uuid.NewV7()),
			Name:     "dr-rivera",
			IsActive: true,
		}

		mockService.On("HashToken", "valid-token").
			Return("hashed-token").
			Once()
		mockUseCase.On("Authenticate", mock.Anything, "hashed-token").
			Return(actor, nil).
			Once()

		router := setupAuthRouter(mockUseCase, mockService)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), actor.ID.String())
		mockService.AssertExpectations(t)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Success_CaseInsensitiveBearerPrefix", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		mockService := &mockTokenService{}

		actor := &authDomain.Actor{ID: uuid.Must(uuid.NewV7()), IsActive: true}

		mockService.On("HashToken", "valid-token").Return("hashed-token").Once()
		mockUseCase.On("Authenticate", mock.Anything, "hashed-token").Return(actor, nil).Once()

		router := setupAuthRouter(mockUseCase, mockService)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "BEARER valid-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Error_MissingAuthorizationHeader", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		mockService := &mockTokenService{}
		router := setupAuthRouter(mockUseCase, mockService)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		mockUseCase.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("Error_MalformedAuthorizationHeader", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		mockService := &mockTokenService{}
		router := setupAuthRouter(mockUseCase, mockService)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		mockUseCase.AssertNotCalled(t, "Authenticate", mock.Anything, mock.Anything)
	})

	t.Run("Error_EmptyBearerToken", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		mockService := &mockTokenService{}
		router := setupAuthRouter(mockUseCase, mockService)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer ")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Error_InvalidToken", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		mockService := &mockTokenService{}

		mockService.On("HashToken", "bad-token").Return("bad-hash").Once()
		mockUseCase.On("Authenticate", mock.Anything, "bad-hash").
			Return(nil, authDomain.ErrInvalidCredentials).
			Once()

		router := setupAuthRouter(mockUseCase, mockService)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer bad-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Error_InactiveActorGetsForbidden", func(t *testing.T) {
		mockUseCase := &mockTokenUseCase{}
		mockService := &mockTokenService{}

		mockService.On("HashToken", "valid-token").Return("hashed-token").Once()
		mockUseCase.On("Authenticate", mock.Anything, "hashed-token").
			Return(nil, authDomain.ErrActorInactive).
			Once()

		router := setupAuthRouter(mockUseCase, mockService)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer valid-token")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
