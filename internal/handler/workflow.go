package handler

import (
	"net/http"

	"github.com/Azmii1122/Rumah-Rasa-Project/internal/dto"
	"github.com/Azmii1122/Rumah-Rasa-Project/internal/service"

	"github.com/gin-gonic/gin"
)

// WorkflowHandler exposes the three stock-mutating workflows.
type WorkflowHandler struct{ coord service.Coordinator }

func NewWorkflowHandler(coord service.Coordinator) *WorkflowHandler {
	return &WorkflowHandler{coord: coord}
}

// Produce handles POST /api/production.
func (h *WorkflowHandler) Produce(c *gin.Context) {
	var req dto.ProduceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.coord.Produce(c.Request.Context(), req); err != nil {
		writeWorkflowError(c, "production", err)
		return
	}
	c.JSON(http.StatusOK, dto.SuccessResponse{Success: true})
}

// ReceivePurchase handles POST /api/purchases.
func (h *WorkflowHandler) ReceivePurchase(c *gin.Context) {
	var req dto.PurchaseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.coord.ReceivePurchase(c.Request.Context(), req)
	if err != nil {
		writeWorkflowError(c, "procurement", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Sell handles POST /api/transaction. Prices and the total are recomputed from
// the catalog; what the client declared is only compared against them.
func (h *WorkflowHandler) Sell(c *gin.Context) {
	var req dto.SaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.coord.Sell(c.Request.Context(), req)
	if err != nil {
		writeWorkflowError(c, "sale", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
