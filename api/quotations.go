package api

import (
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/travelquote/internal/domain"
	"github.com/Domenick1991/travelquote/internal/service/quotation"
)

type QuotationHandler struct {
	service quotation.QuotationUseCase
}

type attachmentRequest struct {
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
	Data     string `json:"data" binding:"required"`
}

type generateRequest struct {
	Notes       string              `json:"notes"`
	Attachments []attachmentRequest `json:"attachments" binding:"omitempty,dive"`
	NotifyEmail string              `json:"notifyEmail" binding:"omitempty,email"`
}

type quotationResponse struct {
	ID        string            `json:"id,omitempty"`
	CreatedAt string            `json:"createdAt"`
	Kind      domain.Kind       `json:"kind"`
	Quotation *domain.Quotation `json:"quotation"`
}

func NewQuotationHandler(service quotation.QuotationUseCase) *QuotationHandler {
	return &QuotationHandler{service: service}
}

func (h *QuotationHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.create)
	router.GET("", h.list)
	router.GET("/:id", h.get)
}

func (h *QuotationHandler) create(c *gin.Context) {
	input, err := bindGenerateInput(c)
	if err != nil {
		writeError(c, err)
		return
	}

	stored, err := h.service.Generate(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toQuotationResponse(stored))
}

func (h *QuotationHandler) get(c *gin.Context) {
	stored, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toQuotationResponse(stored))
}

func (h *QuotationHandler) list(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = n
	}
	summaries, err := h.service.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func toQuotationResponse(stored *domain.StoredQuotation) quotationResponse {
	return quotationResponse{
		ID:        stored.ID,
		CreatedAt: stored.CreatedAt.Format(time.RFC3339),
		Kind:      stored.Quotation.Kind(),
		Quotation: stored.Quotation,
	}
}

// bindGenerateInput accepts either a JSON body with base64 attachments or a
// multipart form with a "notes" field and "attachments" files.
func bindGenerateInput(c *gin.Context) (quotation.GenerateInput, error) {
	if c.ContentType() == "multipart/form-data" {
		return bindMultipart(c)
	}

	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return quotation.GenerateInput{}, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	input := quotation.GenerateInput{Notes: req.Notes, NotifyEmail: req.NotifyEmail}
	for i, a := range req.Attachments {
		name := a.Name
		if name == "" {
			name = fmt.Sprintf("attachment-%d", i+1)
		}
		att, err := domain.DecodeAttachment(name, a.MimeType, a.Data)
		if err != nil {
			return quotation.GenerateInput{}, err
		}
		input.Attachments = append(input.Attachments, att)
	}
	return input, nil
}

func bindMultipart(c *gin.Context) (quotation.GenerateInput, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return quotation.GenerateInput{}, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
	}

	input := quotation.GenerateInput{
		Notes:       c.PostForm("notes"),
		NotifyEmail: c.PostForm("notifyEmail"),
	}
	for _, fh := range form.File["attachments"] {
		f, err := fh.Open()
		if err != nil {
			return quotation.GenerateInput{}, fmt.Errorf("%w: %s: %v", domain.ErrInvalidAttachment, fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return quotation.GenerateInput{}, fmt.Errorf("%w: %s: %v", domain.ErrInvalidAttachment, fh.Filename, err)
		}

		mimeType := fh.Header.Get("Content-Type")
		if mimeType == "" || mimeType == "application/octet-stream" {
			mimeType = http.DetectContentType(data)
		}
		att, err := domain.DecodeAttachment(fh.Filename, mimeType, base64.StdEncoding.EncodeToString(data))
		if err != nil {
			return quotation.GenerateInput{}, err
		}
		input.Attachments = append(input.Attachments, att)
	}
	return input, nil
}
