package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/epcorn/pestops-contracts/internal/http/middleware"
	"github.com/epcorn/pestops-contracts/internal/model"
	"github.com/epcorn/pestops-contracts/internal/repository"
	"github.com/epcorn/pestops-contracts/internal/service"
)

type createQuotationRequest struct {
	Quotation documentPayload `json:"quotation" binding:"required"`
}

func (h *Handler) createQuotation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req createQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	quotation := model.Quotation{
		DocType:       parseDocType(req.Quotation.DocType),
		BillToAddress: req.Quotation.BillToAddress,
		ShipToAddress: req.Quotation.ShipToAddress,
		EmailTo:       req.Quotation.EmailTo,
		Note:          req.Quotation.Note,
		WorkOrderNo:   req.Quotation.WorkOrderNo,
		GSTNo:         req.Quotation.GSTNo,
		PaymentTerms:  req.Quotation.PaymentTerms,
	}
	date, err := parseOptionalDate(req.Quotation.QuotationDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid quotationDate"})
		return
	}
	if date != nil {
		quotation.QuotationDate = *date
	}
	quotation.WorkOrderDate, err = parseOptionalDate(req.Quotation.WorkOrderDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid workOrderDate"})
		return
	}
	if req.Quotation.SalesPersonID != "" {
		salesPersonID, err := uuid.Parse(req.Quotation.SalesPersonID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid salesPersonId"})
			return
		}
		quotation.SalesPersonID = salesPersonID
	}

	result, err := h.quotations.Create(c.Request.Context(), service.CreateQuotationInput{
		Quotation:  quotation,
		QuoteInfos: req.Quotation.QuoteInfo,
		AuthorID:   principal.UserID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quotation Created!", "result": result})
}

func (h *Handler) listQuotations(c *gin.Context) {
	filter := repository.QuotationFilter{
		ProjectName: c.Query("projectName"),
		ClientName:  c.Query("clientName"),
		QuotationNo: c.Query("quotationNo"),
		Order:       c.Query("order"),
	}
	if raw := c.Query("createdBy"); raw != "" {
		createdBy, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid createdBy"})
			return
		}
		filter.CreatedBy = &createdBy
	}
	if raw := c.Query("approved"); raw != "" {
		approved := strings.EqualFold(raw, "true")
		filter.Approved = &approved
	}
	var err error
	filter.FromDate, err = parseOptionalDate(c.Query("fromDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid fromDate"})
		return
	}
	filter.ToDate, err = parseOptionalDate(c.Query("toDate"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid toDate"})
		return
	}
	filter.StartIndex, _ = strconv.Atoi(c.Query("startIndex"))
	filter.Limit, _ = strconv.Atoi(c.Query("limit"))

	result, err := h.quotations.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":         "Quotations Retrieved",
		"result":          result.Quotations,
		"totalQuotations": result.Counts.Total,
		"todayQuotations": result.Counts.Today,
		"approvedCount":   result.Counts.ApprovedCount,
		"approvePending":  result.Counts.ApprovePending,
	})
}

func (h *Handler) getQuotation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	result, err := h.quotations.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "", "result": result})
}

type updateQuotationRequest struct {
	Message   string          `json:"message"`
	Modified  []string        `json:"modified"`
	Quotation documentPayload `json:"quotation" binding:"required"`
}

func (h *Handler) updateQuotation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}

	var req updateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	fields, err := req.Quotation.toUpdate(req.Quotation.QuotationDate)
	if err != nil {
		h.handleError(c, err)
		return
	}

	result, err := h.quotations.Update(c.Request.Context(), service.UpdateQuotationInput{
		ID:             id,
		BaseVersion:    req.Quotation.Version,
		Fields:         fields,
		QuoteInfos:     req.Quotation.QuoteInfo,
		AuthorID:       principal.UserID,
		Message:        req.Message,
		ModifiedFields: req.Modified,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quotation Updated", "result": result})
}

func (h *Handler) approveQuotation(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	result, err := h.quotations.Approve(c.Request.Context(), id, principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Quotation Approved.", "result": result})
}

func (h *Handler) quotationArchive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	result, err := h.quotations.Archive(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "",
		"result":  gin.H{"quotation": result.Quotation, "revisions": result.Revisions},
	})
}

func (h *Handler) contractify(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	contract, err := h.quotations.Contractify(c.Request.Context(), id, principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contract Created!", "result": contract})
}

func (h *Handler) printQuotation(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	result, err := h.quotations.IncPrintCount(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Printed.", "result": result})
}

type similarProjectsRequest struct {
	ProjectName string `json:"projectName"`
}

func (h *Handler) similarProjects(c *gin.Context) {
	var req similarProjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	projects, err := h.quotations.SimilarProjects(c.Request.Context(), req.ProjectName)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "", "result": projects})
}
