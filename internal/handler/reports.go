package handler

import (
	"fmt"
	"net/http"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportsHandler struct{ svc service.ReportService }

func NewReportsHandler(svc service.ReportService) *ReportsHandler {
	return &ReportsHandler{svc: svc}
}

// Summary handles GET /api/reports.
func (h *ReportsHandler) Summary(c *gin.Context) {
	resp, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Receipt streams the PDF receipt of a committed sale.
func (h *ReportsHandler) Receipt(c *gin.Context) {
	number := c.Param("number")
	pdf, err := h.svc.Receipt(c.Request.Context(), number)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", number+".pdf"))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
