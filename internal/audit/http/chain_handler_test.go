package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/carebridgehq/chartgate/internal/audit/domain"
	"github.com/carebridgehq/chartgate/internal/audit/http/dto"
	auditUsecase "github.com/carebridgehq/chartgate/internal/audit/usecase"
	authDomain "github.com/carebridgehq/chartgate/internal/auth/domain"
	authHTTP "github.com/carebridgehq/chartgate/internal/auth/http"
)

// mockAuditUseCase is a mock implementation of AuditUseCase for testing.
type mockAuditUseCase struct {
	mock.Mock
}

func (m *mockAuditUseCase) Append(
	ctx context.Context,
	input *auditUsecase.AppendInput,
) (*auditDomain.AuditEntry, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.AuditEntry), args.Error(1)
}

func (m *mockAuditUseCase) Verify(ctx context.Context) (*auditDomain.VerificationReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.VerificationReport), args.Error(1)
}

func (m *mockAuditUseCase) VerifyAndRecord(
	ctx context.Context,
	actorID uuid.UUID,
) (*auditDomain.VerificationReport, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auditDomain.VerificationReport), args.Error(1)
}

func (m *mockAuditUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*auditDomain.AuditEntry, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*auditDomain.AuditEntry), args.Get(1).(int64), args.Error(2)
}

func setupChainRouter(useCase *mockAuditUseCase, actor *authDomain.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if actor != nil {
		router.Use(func(c *gin.Context) {
			c.Request = c.Request.WithContext(authHTTP.WithActor(c.Request.Context(), actor))
			c.Next()
		})
	}
	handler := NewChainHandler(useCase, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router.GET("/v1/audit/verify", handler.VerifyHandler)
	router.GET("/v1/audit/entries", handler.ListHandler)
	return router
}

func TestChainHandler_VerifyHandler(t *testing.T) {
	actor := &authDomain.Actor{ID: uuid.Must(uuid.NewV7()), IsActive: true}

	t.Run("Success_IntactChain", func(t *testing.T) {
		mockUseCase := &mockAuditUseCase{}
		mockUseCase.On("VerifyAndRecord", mock.Anything, actor.ID).
			Return(&auditDomain.VerificationReport{
				TotalEntries:    12,
				VerifiedEntries: 12,
				Intact:          true,
			}, nil).
			Once()

		router := setupChainRouter(mockUseCase, actor)
		req := httptest.NewRequest(http.MethodGet, "/v1/audit/verify", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp dto.VerificationReportResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Intact)
		assert.EqualValues(t, 12, resp.TotalEntries)
		assert.EqualValues(t, 12, resp.VerifiedEntries)
		assert.Nil(t, resp.BrokenAtID)
	})

	t.Run("Success_BrokenChainIsStill200", func(t *testing.T) {
		mockUseCase := &mockAuditUseCase{}
		brokenID := uuid.Must(uuid.NewV7())
		mockUseCase.On("VerifyAndRecord", mock.Anything, actor.ID).
			Return(&auditDomain.VerificationReport{
				TotalEntries:    12,
				VerifiedEntries: 7,
				Intact:          false,
				BrokenAtID:      &brokenID,
			}, nil).
			Once()

		router := setupChainRouter(mockUseCase, actor)
		req := httptest.NewRequest(http.MethodGet, "/v1/audit/verify", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp dto.VerificationReportResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.Intact)
		assert.EqualValues(t, 7, resp.VerifiedEntries)
		require.NotNil(t, resp.BrokenAtID)
		assert.Equal(t, brokenID.String(), *resp.BrokenAtID)
	})

	t.Run("Error_NoActorReturns401", func(t *testing.T) {
		mockUseCase := &mockAuditUseCase{}
		router := setupChainRouter(mockUseCase, nil)

		req := httptest.NewRequest(http.MethodGet, "/v1/audit/verify", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		mockUseCase.AssertNotCalled(t, "VerifyAndRecord", mock.Anything, mock.Anything)
	})
}

func TestChainHandler_ListHandler(t *testing.T) {
	actor := &authDomain.Actor{ID: uuid.Must(uuid.NewV7()), IsActive: true}

	t.Run("Success_ListEntries", func(t *testing.T) {
		mockUseCase := &mockAuditUseCase{}
		entries := []*auditDomain.AuditEntry{
			{
				ID:          uuid.Must(uuid.NewV7()),
				ActorID:     actor.ID,
				Action:      auditDomain.ActionDisclosureExport,
				Hash:        "aa",
				PrevHash:    auditDomain.GenesisHash,
				HashVersion: auditDomain.HashVersion,
				CreatedAt:   time.Now().UTC(),
			},
		}
		mockUseCase.On("List", mock.Anything, 0, 50).
			Return(entries, int64(1), nil).
			Once()

		router := setupChainRouter(mockUseCase, actor)
		req := httptest.NewRequest(http.MethodGet, "/v1/audit/entries", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp dto.ListAuditEntriesResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.EqualValues(t, 1, resp.Total)
		require.Len(t, resp.Data, 1)
		assert.Equal(t, string(auditDomain.ActionDisclosureExport), resp.Data[0].Action)
	})

	t.Run("Error_InvalidPagination", func(t *testing.T) {
		mockUseCase := &mockAuditUseCase{}
		router := setupChainRouter(mockUseCase, actor)

		req := httptest.NewRequest(http.MethodGet, "/v1/audit/entries?limit=-1", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockUseCase.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})
}
