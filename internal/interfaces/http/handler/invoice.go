package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/invoicegen/backend/internal/application/invoicing"
	"github.com/invoicegen/backend/internal/domain/shared"
	"github.com/invoicegen/backend/internal/interfaces/http/dto"
	"github.com/invoicegen/backend/internal/interfaces/http/middleware"
)

// InvoiceHandler handles single-invoice rendering
type InvoiceHandler struct {
	BaseHandler
	render      *invoicing.RenderService
	logoMaxSize int64
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(render *invoicing.RenderService, logoMaxSize int64) *InvoiceHandler {
	return &InvoiceHandler{
		render:      render,
		logoMaxSize: logoMaxSize,
	}
}

// Render renders one invoice and streams the PDF back
func (h *InvoiceHandler) Render(c *gin.Context) {
	var req dto.RenderInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			middleware.HandleValidationError(c, err)
			return
		}
		h.BadRequest(c, "Invalid request body")
		return
	}

	if h.logoMaxSize > 0 && int64(len(req.Logo)) > h.logoMaxSize {
		h.HandleError(c, shared.NewDomainError(shared.CodeAssetError,
			fmt.Sprintf("Logo exceeds maximum size of %d bytes", h.logoMaxSize)))
		return
	}

	record, err := req.ToRecord()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	doc, err := h.render.Render(c.Request.Context(), record, req.Logo)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Data(http.StatusOK, "application/pdf", doc.Data)
}
