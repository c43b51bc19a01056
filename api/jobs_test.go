package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Domenick1991/travelquote/internal/domain"
	"github.com/Domenick1991/travelquote/internal/service/quotation"
)

func TestJobHandler_submit(t *testing.T) {
	mockService := &MockQuotationUseCase{}
	job := &domain.GenerationJob{ID: "j-1", Status: domain.JobStatusPending, NotifyEmail: "a@b.c"}
	mockService.On("SubmitJob", mock.Anything, quotation.GenerateInput{Notes: "Rome", NotifyEmail: "a@b.c"}).Return(job, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotation-jobs", bytes.NewBufferString(`{"notes":"Rome","notifyEmail":"a@b.c"}`))
	req.Header.Set("Content-Type", "application/json")
	newRouter(mockService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, "/api/v1/quotation-jobs/j-1", w.Header().Get("Location"))
	var resp domain.GenerationJob
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, domain.JobStatusPending, resp.Status)
}

func TestJobHandler_submit_InvalidEmail(t *testing.T) {
	mockService := &MockQuotationUseCase{}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotation-jobs", bytes.NewBufferString(`{"notes":"Rome","notifyEmail":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	newRouter(mockService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "SubmitJob", mock.Anything, mock.Anything)
}

func TestJobHandler_submit_NotConfigured(t *testing.T) {
	mockService := &MockQuotationUseCase{}
	mockService.On("SubmitJob", mock.Anything, mock.Anything).Return(nil, domain.ErrAsyncUnavailable)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/quotation-jobs", bytes.NewBufferString(`{"notes":"Rome"}`))
	req.Header.Set("Content-Type", "application/json")
	newRouter(mockService).ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestJobHandler_get(t *testing.T) {
	mockService := &MockQuotationUseCase{}
	handler := NewJobHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/quotation-jobs/j-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "j-1"}}

	mockService.On("GetJob", mock.Anything, "j-1").Return(&domain.GenerationJob{ID: "j-1", Status: domain.JobStatusSucceeded, QuotationID: "q-1"}, nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"quotationId":"q-1"`)
}

func TestJobHandler_get_NotFound(t *testing.T) {
	mockService := &MockQuotationUseCase{}
	mockService.On("GetJob", mock.Anything, "nope").Return(nil, domain.ErrJobNotFound)

	w := httptest.NewRecorder()
	newRouter(mockService).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/quotation-jobs/nope", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testCases := []struct {
		name         string
		checks       map[string]Pinger
		expectedCode int
	}{
		{name: "no dependencies", checks: nil, expectedCode: http.StatusOK},
		{name: "all healthy", checks: map[string]Pinger{"redis": PingFunc(func(context.Context) error { return nil })}, expectedCode: http.StatusOK},
		{name: "one down", checks: map[string]Pinger{
			"redis":    PingFunc(func(context.Context) error { return nil }),
			"postgres": PingFunc(func(context.Context) error { return errors.New("connection refused") }),
		}, expectedCode: http.StatusServiceUnavailable},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := gin.New()
			NewHealthHandler(tc.checks).Register(r)

			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			assert.Equal(t, tc.expectedCode, w.Code)
		})
	}
}
