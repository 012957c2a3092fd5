package http

import (
	"bytes"
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

	authDomain "github.com/carebridgehq/chartgate/internal/auth/domain"
	authHTTP "github.com/carebridgehq/chartgate/internal/auth/http"
	consentDomain "github.com/carebridgehq/chartgate/internal/consent/domain"
	"github.com/carebridgehq/chartgate/internal/consent/http/dto"
	consentUsecase "github.com/carebridgehq/chartgate/internal/consent/usecase"
)

// mockConsentUseCase is a mock implementation of ConsentUseCase for testing.
type mockConsentUseCase struct {
	mock.Mock
}

func (m *mockConsentUseCase) Create(
	ctx context.Context,
	input *consentUsecase.CreateConsentInput,
) (*consentDomain.Consent, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consentDomain.Consent), args.Error(1)
}

func (m *mockConsentUseCase) Revoke(ctx context.Context, id, actorID uuid.UUID, origin string) error {
	args := m.Called(ctx, id, actorID, origin)
	return args.Error(0)
}

func (m *mockConsentUseCase) Get(ctx context.Context, id uuid.UUID) (*consentDomain.Consent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*consentDomain.Consent), args.Error(1)
}

func (m *mockConsentUseCase) ListByPatient(
	ctx context.Context,
	patientID uuid.UUID,
	offset, limit int,
) ([]*consentDomain.Consent, error) {
	args := m.Called(ctx, patientID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*consentDomain.Consent), args.Error(1)
}

func setupConsentRouter(useCase *mockConsentUseCase, actor *authDomain.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	if actor != nil {
		router.Use(func(c *gin.Context) {
			c.Request = c.Request.WithContext(authHTTP.WithActor(c.Request.Context(), actor))
			c.Next()
		})
	}
	handler := NewConsentHandler(useCase, slog.New(slog.NewTextHandler(io.Discard, nil)))
	router.POST("/v1/consents", handler.CreateHandler)
	router.POST("/v1/consents/:id/revoke", handler.RevokeHandler)
	router.GET("/v1/consents/:id", handler.GetHandler)
	router.GET("/v1/consents", handler.ListByPatientHandler)
	return router
}

func TestConsentHandler_CreateHandler(t *testing.T) {
	actor := &authDomain.Actor{ID: uuid.Must(uuid.NewV7()), IsActive: true}

	t.Run("Success_CreateConsent", func(t *testing.T) {
		mockUseCase := &mockConsentUseCase{}
		patientID := uuid.Must(uuid.NewV7())
		noteID := uuid.Must(uuid.NewV7())
		consentID := uuid.Must(uuid.NewV7())

		var input *consentUsecase.CreateConsentInput
		validUntil := time.Now().UTC().Add(24 * time.Hour)
		mockUseCase.On("Create", mock.Anything, mock.MatchedBy(func(in *consentUsecase.CreateConsentInput) bool {
			input = in
			return in.PatientID == patientID
		})).
			Return(&consentDomain.Consent{
				ID:         consentID,
				PatientID:  patientID,
				Recipient:  "community-clinic",
				Scope:      consentDomain.Scope{Kind: consentDomain.ScopeByIDs, NoteIDs: []uuid.UUID{noteID}},
				ValidFrom:  time.Now().UTC(),
				ValidUntil: &validUntil,
				CreatedAt:  time.Now().UTC(),
			}, nil).
			Once()

		router := setupConsentRouter(mockUseCase, actor)

		body, err := json.Marshal(map[string]any{
			"patient_id":  patientID.String(),
			"recipient":   "community-clinic",
			"scope":       map[string]any{"note_ids": []string{noteID.String()}},
			"valid_from":  time.Now().UTC().Format(time.RFC3339),
			"valid_until": time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339),
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/v1/consents", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var resp dto.ConsentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, consentID.String(), resp.ID)
		assert.Equal(t, string(consentDomain.ScopeByIDs), resp.ScopeKind)

		require.NotNil(t, input)
		assert.Equal(t, consentDomain.ScopeByIDs, input.Scope.Kind)
		assert.Equal(t, []uuid.UUID{noteID}, input.Scope.NoteIDs)
		assert.Equal(t, actor.ID, input.ActorID)
	})

	t.Run("Success_OmittedValidUntilIsOpenEnded", func(t *testing.T) {
		mockUseCase := &mockConsentUseCase{}
		patientID := uuid.Must(uuid.NewV7())
		noteID := uuid.Must(uuid.NewV7())

		var input *consentUsecase.CreateConsentInput
		mockUseCase.On("Create", mock.Anything, mock.MatchedBy(func(in *consentUsecase.CreateConsentInput) bool {
			input = in
			return in.PatientID == patientID
		})).
			Return(&consentDomain.Consent{
				ID:        uuid.Must(uuid.NewV7()),
				PatientID: patientID,
				Recipient: "community-clinic",
				Scope:     consentDomain.Scope{Kind: consentDomain.ScopeByIDs, NoteIDs: []uuid.UUID{noteID}},
				ValidFrom: time.Now().UTC(),
				CreatedAt: time.Now().UTC(),
			}, nil).
			Once()

		router := setupConsentRouter(mockUseCase, actor)

		body, err := json.Marshal(map[string]any{
			"patient_id": patientID.String(),
			"recipient":  "community-clinic",
			"scope":      map[string]any{"note_ids": []string{noteID.String()}},
			"valid_from": time.Now().UTC().Format(time.RFC3339),
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/v1/consents", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		require.NotNil(t, input)
		assert.Nil(t, input.ValidUntil)

		// Omitted valid_until stays omitted in the response body too.
		assert.NotContains(t, rec.Body.String(), "valid_until")
	})

	t.Run("Error_InvalidScopeReturns400", func(t *testing.T) {
		mockUseCase := &mockConsentUseCase{}
		mockUseCase.On("Create", mock.Anything, mock.MatchedBy(func(in *consentUsecase.CreateConsentInput) bool {
			return in.Scope.Kind == consentDomain.ScopeInvalid
		})).
			Return(nil, consentDomain.ErrInvalidScope).
			Once()

		router := setupConsentRouter(mockUseCase, actor)

		body, _ := json.Marshal(map[string]any{
			"patient_id":  uuid.Must(uuid.NewV7()).String(),
			"recipient":   "community-clinic",
			"scope":       map[string]any{},
			"valid_from":  time.Now().UTC().Format(time.RFC3339),
			"valid_until": time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339),
		})
		req := httptest.NewRequest(http.MethodPost, "/v1/consents", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Error_NoActorReturns401", func(t *testing.T) {
		mockUseCase := &mockConsentUseCase{}
		router := setupConsentRouter(mockUseCase, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/consents", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		mockUseCase.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestConsentHandler_RevokeHandler(t *testing.T) {
	actor := &authDomain.Actor{ID: uuid.Must(uuid.NewV7()), IsActive: true}

	t.Run("Success_Revoke", func(t *testing.T) {
		mockUseCase := &mockConsentUseCase{}
		consentID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Revoke", mock.Anything, consentID, actor.ID, mock.Anything).
			Return(nil).
			Once()

		router := setupConsentRouter(mockUseCase, actor)
		req := httptest.NewRequest(http.MethodPost, "/v1/consents/"+consentID.String()+"/revoke", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("Error_AlreadyRevokedReturns409", func(t *testing.T) {
		mockUseCase := &mockConsentUseCase{}
		consentID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Revoke", mock.Anything, consentID, actor.ID, mock.Anything).
			Return(consentDomain.ErrConsentAlreadyRevoked).
			Once()

		router := setupConsentRouter(mockUseCase, actor)
		req := httptest.NewRequest(http.MethodPost, "/v1/consents/"+consentID.String()+"/revoke", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Error_UnknownConsentReturns404", func(t *testing.T) {
		mockUseCase := &mockConsentUseCase{}
		consentID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Revoke", mock.Anything, consentID, actor.ID, mock.Anything).
			Return(consentDomain.ErrConsentNotFound).
			Once()

		router := setupConsentRouter(mockUseCase, actor)
		req := httptest.NewRequest(http.MethodPost, "/v1/consents/"+consentID.String()+"/revoke", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestConsentHandler_GetAndList(t *testing.T) {
	actor := &authDomain.Actor{ID: uuid.Must(uuid.NewV7()), IsActive: true}

	t.Run("Success_Get", func(t *testing.T) {
		mockUseCase := &mockConsentUseCase{}
		consentID := uuid.Must(uuid.NewV7())

		mockUseCase.On("Get", mock.Anything, consentID).
			Return(&consentDomain.Consent{
				ID:        consentID,
				PatientID: uuid.Must(uuid.NewV7()),
				Scope:     consentDomain.Scope{Kind: consentDomain.ScopeByIDs},
			}, nil).
			Once()

		router := setupConsentRouter(mockUseCase, actor)
		req := httptest.NewRequest(http.MethodGet, "/v1/consents/"+consentID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Success_ListByPatient", func(t *testing.T) {
		mockUseCase := &mockConsentUseCase{}
		patientID := uuid.Must(uuid.NewV7())

		mockUseCase.On("ListByPatient", mock.Anything, patientID, 0, 50).
			Return([]*consentDomain.Consent{
				{ID: uuid.Must(uuid.NewV7()), PatientID: patientID},
				{ID: uuid.Must(uuid.NewV7()), PatientID: patientID},
			}, nil).
			Once()

		router := setupConsentRouter(mockUseCase, actor)
		req := httptest.NewRequest(http.MethodGet, "/v1/consents?patient_id="+patientID.String(), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var resp dto.ListConsentsResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp.Data, 2)
	})

	t.Run("Error_MissingPatientIDReturns400", func(t *testing.T) {
		mockUseCase := &mockConsentUseCase{}
		router := setupConsentRouter(mockUseCase, actor)

		req := httptest.NewRequest(http.MethodGet, "/v1/consents", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		mockUseCase.AssertNotCalled(t, "ListByPatient", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
