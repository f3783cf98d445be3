package handler

import (
	"github.com/bakehouse/backend/internal/application/report"
	"github.com/gin-gonic/gin"
)

// ReportHandler serves the read-side views: balances, ledger,
// statements and the consistency check.
type ReportHandler struct {
	service *report.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(service *report.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/balances/:warehouse", h.Balances)
		reports.GET("/ledger", h.Ledger)
		reports.GET("/statements/:customer", h.Statement)
		reports.GET("/consistency/:warehouse", h.ConsistencyCheck)
	}
}

// Balances returns the materialized stock of one warehouse
func (h *ReportHandler) Balances(c *gin.Context) {
	req, ok := listFilter(c)
	if !ok {
		return
	}
	balances, err := h.service.Balances(c.Request.Context(), c.Param("warehouse"), req.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(balances), balances)
}

// Ledger returns movement history for one item and warehouse
func (h *ReportHandler) Ledger(c *gin.Context) {
	var q report.LedgerQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respondBadRequest(c, err)
		return
	}
	req, ok := listFilter(c)
	if !ok {
		return
	}

	entries, err := h.service.Ledger(c.Request.Context(), q, req.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(entries), entries)
}

// Statement returns one customer's money view
func (h *ReportHandler) Statement(c *gin.Context) {
	req, ok := listFilter(c)
	if !ok {
		return
	}
	statement, err := h.service.Statement(c.Request.Context(), c.Param("customer"), req.Filter())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "OK", statement)
}

// ConsistencyCheck compares materialized balances against ledger sums
func (h *ReportHandler) ConsistencyCheck(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	mismatches, err := h.service.ConsistencyCheck(c.Request.Context(), actor, c.Param("warehouse"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, "OK", len(mismatches), mismatches)
}
