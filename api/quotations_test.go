package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/travelquote/internal/domain"
	"github.com/Domenick1991/travelquote/internal/kafka"
	"github.com/Domenick1991/travelquote/internal/service/quotation"
)

// MockQuotationUseCase is a mock implementation of quotation.QuotationUseCase
type MockQuotationUseCase struct {
	mock.Mock
}

func (m *MockQuotationUseCase) Generate(ctx context.Context, input quotation.GenerateInput) (*domain.StoredQuotation, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredQuotation), args.Error(1)
}

func (m *MockQuotationUseCase) Get(ctx context.Context, id string) (*domain.StoredQuotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.StoredQuotation), args.Error(1)
}

func (m *MockQuotationUseCase) ListRecent(ctx context.Context, limit int) ([]domain.QuotationSummary, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.QuotationSummary), args.Error(1)
}

func (m *MockQuotationUseCase) SubmitJob(ctx context.Context, input quotation.GenerateInput) (*domain.GenerationJob, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationJob), args.Error(1)
}

func (m *MockQuotationUseCase) GetJob(ctx context.Context, id string) (*domain.GenerationJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationJob), args.Error(1)
}

func (m *MockQuotationUseCase) ProcessJob(ctx context.Context, req kafka.GenerationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func newRouter(svc quotation.QuotationUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	v1 := r.Group("/api/v1")
	NewQuotationHandler(svc).Register(v1.Group("/quotations"))
	NewJobHandler(svc).Register(v1.Group("/quotation-jobs"))
	return r
}

func TestQuotationHandler_create(t *testing.T) {
	mockService := &MockQuotationUseCase{}
	handler := NewQuotationHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	body, _ := json.Marshal(map[string]interface{}{
		"notes":       "Rome, 2 nights",
		"attachments": []map[string]string{{"name": "ticket.png", "data": "data:image/png;base64,iVBORw=="}},
	})
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/quotations", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	q := &domain.Quotation{TripTitle: "Rome", Hotels: []domain.Hotel{{Name: "Uno"}}}
	stored := &domain.StoredQuotation{ID: "q-1", Quotation: q, CreatedAt: time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)}
	mockService.On("Generate", mock.Anything, mock.MatchedBy(func(in quotation.GenerateInput) bool {
		return in.Notes == "Rome, 2 nights" && len(in.Attachments) == 1 && in.Attachments[0].MIMEType == "image/png"
	})).Return(stored, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "q-1", resp["id"])
	assert.Equal(t, "HOTEL_ONLY", resp["kind"])
	assert.Equal(t, "2025-05-01T12:00:00Z", resp["createdAt"])
	mockService.AssertExpectations(t)
}

func TestQuotationHandler_create_Errors(t *testing.T) {
	testCases := []struct {
		name         string
		body         string
		serviceErr   error
		expectedCode int
		expectedMsg  string
	}{
		{name: "malformed json", body: `{"notes":`, expectedCode: http.StatusBadRequest, expectedMsg: domain.ErrInvalidRequest.Error()},
		{name: "unsupported attachment", body: `{"attachments":[{"name":"a.txt","mimeType":"text/plain","data":"aGk="}]}`, expectedCode: http.StatusBadRequest, expectedMsg: domain.ErrInvalidAttachment.Error()},
		{name: "empty input", body: `{"notes":""}`, serviceErr: domain.ErrEmptyInput, expectedCode: http.StatusBadRequest, expectedMsg: domain.ErrEmptyInput.Error()},
		{name: "quota", body: `{"notes":"Rome"}`, serviceErr: domain.ErrQuotaExceeded, expectedCode: http.StatusTooManyRequests, expectedMsg: domain.ErrQuotaExceeded.Error()},
		{name: "invalid output", body: `{"notes":"Rome"}`, serviceErr: domain.ErrInvalidOutput, expectedCode: http.StatusBadGateway, expectedMsg: domain.ErrInvalidOutput.Error()},
		{name: "exhausted", body: `{"notes":"Rome"}`, serviceErr: domain.ErrGenerationFailed, expectedCode: http.StatusServiceUnavailable, expectedMsg: domain.ErrGenerationFailed.Error()},
		{name: "other backend error", body: `{"notes":"Rome"}`, serviceErr: errors.New("gemini: status 401: API key not valid"), expectedCode: http.StatusBadGateway, expectedMsg: "failed to generate quotation"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockQuotationUseCase{}
			if tc.serviceErr != nil {
				mockService.On("Generate", mock.Anything, mock.Anything).Return(nil, tc.serviceErr)
			}

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			newRouter(mockService).ServeHTTP(w, req)

			assert.Equal(t, tc.expectedCode, w.Code)
			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.expectedMsg, resp["error"])
		})
	}
}

func TestQuotationHandler_create_Multipart(t *testing.T) {
	mockService := &MockQuotationUseCase{}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("notes", "Lisbon"))
	fw, err := mw.CreateFormFile("attachments", "itinerary.pdf")
	require.NoError(t, err)
	_, err = fw.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	q := &domain.Quotation{TripTitle: "Lisbon"}
	mockService.On("Generate", mock.Anything, mock.MatchedBy(func(in quotation.GenerateInput) bool {
		return in.Notes == "Lisbon" && len(in.Attachments) == 1 &&
			in.Attachments[0].Name == "itinerary.pdf" && in.Attachments[0].MIMEType == "application/pdf"
	})).Return(&domain.StoredQuotation{ID: "q-2", Quotation: q}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotations", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	newRouter(mockService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockService.AssertExpectations(t)
}

func TestQuotationHandler_get(t *testing.T) {
	mockService := &MockQuotationUseCase{}
	q := &domain.Quotation{TripTitle: "Rome"}
	mockService.On("Get", mock.Anything, "q-1").Return(&domain.StoredQuotation{ID: "q-1", Quotation: q}, nil)
	mockService.On("Get", mock.Anything, "missing").Return(nil, domain.ErrQuotationNotFound)

	router := newRouter(mockService)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quotations/q-1", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tripTitle":"Rome"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quotations/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestQuotationHandler_list(t *testing.T) {
	mockService := &MockQuotationUseCase{}
	mockService.On("ListRecent", mock.Anything, 5).Return([]domain.QuotationSummary{{ID: "q-1", TripTitle: "Rome", Kind: domain.KindHotelOnly}}, nil)

	router := newRouter(mockService)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quotations?limit=5", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"HOTEL_ONLY"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quotations?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
