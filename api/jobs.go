package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Domenick1991/travelquote/internal/service/quotation"
)

type JobHandler struct {
	service quotation.QuotationUseCase
}

func NewJobHandler(service quotation.QuotationUseCase) *JobHandler {
	return &JobHandler{service: service}
}

func (h *JobHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.submit)
	router.GET("/:id", h.get)
}

func (h *JobHandler) submit(c *gin.Context) {
	input, err := bindGenerateInput(c)
	if err != nil {
		writeError(c, err)
		return
	}

	job, err := h.service.SubmitJob(c.Request.Context(), input)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Location", "/api/v1/quotation-jobs/"+job.ID)
	c.JSON(http.StatusAccepted, job)
}

func (h *JobHandler) get(c *gin.Context) {
	job, err := h.service.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}
