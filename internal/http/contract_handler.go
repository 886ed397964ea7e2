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

// documentPayload is the wire shape shared by contract and quotation bodies.
type documentPayload struct {
	Version       int64                  `json:"version"`
	DocType       string                 `json:"docType"`
	ContractDate  string                 `json:"contractDate"`
	QuotationDate string                 `json:"quotationDate"`
	SalesPersonID string                 `json:"salesPersonId"`
	BillToAddress model.Address          `json:"billToAddress"`
	ShipToAddress model.Address          `json:"shipToAddress"`
	EmailTo       []string               `json:"emailTo"`
	Note          string                 `json:"note"`
	WorkOrderNo   string                 `json:"workOrderNo"`
	WorkOrderDate string                 `json:"workOrderDate"`
	GSTNo         string                 `json:"gstNo"`
	PaymentTerms  string                 `json:"paymentTerms"`
	QuoteInfo     []model.QuoteInfoInput `json:"quoteInfo"`
}

func (p documentPayload) toUpdate(dateField string) (model.ContractUpdate, error) {
	update := model.ContractUpdate{
		BillToAddress: p.BillToAddress,
		ShipToAddress: p.ShipToAddress,
		EmailTo:       p.EmailTo,
		Note:          p.Note,
		WorkOrderNo:   p.WorkOrderNo,
		GSTNo:         p.GSTNo,
		PaymentTerms:  p.PaymentTerms,
	}

	date, err := parseDate(dateField)
	if err != nil {
		return update, err
	}
	update.ContractDate = date

	if p.SalesPersonID != "" {
		salesPersonID, err := uuid.Parse(p.SalesPersonID)
		if err != nil {
			return update, service.ErrInvalidInput
		}
		update.SalesPersonID = salesPersonID
	}

	update.WorkOrderDate, err = parseOptionalDate(p.WorkOrderDate)
	if err != nil {
		return update, err
	}
	return update, nil
}

type createContractRequest struct {
	Contract documentPayload `json:"contract" binding:"required"`
}

func (h *Handler) createContract(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req createContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	contract := model.Contract{
		DocType:       parseDocType(req.Contract.DocType),
		BillToAddress: req.Contract.BillToAddress,
		ShipToAddress: req.Contract.ShipToAddress,
		EmailTo:       req.Contract.EmailTo,
		Note:          req.Contract.Note,
		WorkOrderNo:   req.Contract.WorkOrderNo,
		GSTNo:         req.Contract.GSTNo,
		PaymentTerms:  req.Contract.PaymentTerms,
	}
	date, err := parseOptionalDate(req.Contract.ContractDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid contractDate"})
		return
	}
	if date != nil {
		contract.ContractDate = *date
	}
	contract.WorkOrderDate, err = parseOptionalDate(req.Contract.WorkOrderDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid workOrderDate"})
		return
	}
	if req.Contract.SalesPersonID != "" {
		salesPersonID, err := uuid.Parse(req.Contract.SalesPersonID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid salesPersonId"})
			return
		}
		contract.SalesPersonID = salesPersonID
	}

	result, err := h.contracts.Create(c.Request.Context(), service.CreateContractInput{
		Contract:   contract,
		QuoteInfos: req.Contract.QuoteInfo,
		AuthorID:   principal.UserID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contract Created!", "result": result})
}

func (h *Handler) listContracts(c *gin.Context) {
	filter := repository.ContractFilter{
		ProjectName: c.Query("projectName"),
		ClientName:  c.Query("clientName"),
		ContractNo:  c.Query("contractNo"),
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

	result, err := h.contracts.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":        "Contracts Retrieved",
		"result":         result.Contracts,
		"totalContracts": result.Counts.Total,
		"todayContracts": result.Counts.Today,
		"approvedCount":  result.Counts.ApprovedCount,
		"approvePending": result.Counts.ApprovePending,
	})
}

func (h *Handler) getContract(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	result, err := h.contracts.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "", "result": result})
}

type updateContractRequest struct {
	Message  string          `json:"message"`
	Modified []string        `json:"modified"`
	Contract documentPayload `json:"contract" binding:"required"`
}

func (h *Handler) updateContract(c *gin.Context) {
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

	var req updateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	fields, err := req.Contract.toUpdate(req.Contract.ContractDate)
	if err != nil {
		h.handleError(c, err)
		return
	}

	result, err := h.contracts.Update(c.Request.Context(), service.UpdateContractInput{
		ID:             id,
		BaseVersion:    req.Contract.Version,
		Fields:         fields,
		QuoteInfos:     req.Contract.QuoteInfo,
		AuthorID:       principal.UserID,
		Message:        req.Message,
		ModifiedFields: req.Modified,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contract Updated", "result": result})
}

func (h *Handler) approveContract(c *gin.Context) {
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
	result, err := h.contracts.Approve(c.Request.Context(), id, principal.UserID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contract Approved.", "result": result})
}

func (h *Handler) contractArchive(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	result, err := h.contracts.Archive(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "",
		"result":  gin.H{"contract": result.Contract, "revisions": result.Revisions},
	})
}

func (h *Handler) contractDocData(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	result, err := h.contracts.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Nothing to say for now.", "result": result})
}

func (h *Handler) printContract(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	result, err := h.contracts.IncPrintCount(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Printed.", "result": result})
}

func (h *Handler) contractPDF(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	contract, err := h.contracts.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	content, err := h.pdf.Generate(*contract)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\"contract.pdf\"")
	c.Data(http.StatusOK, "application/pdf", content)
}

func (h *Handler) deleteContract(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	if err := h.contracts.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Contract Deleted!"})
}

type createWorkLogRequest struct {
	WorkAreaType    string `json:"workAreaType"`
	Chemical        string `json:"chemical"`
	ChemicalUsed    string `json:"chemicalUsed"`
	AreaTreated     string `json:"areaTreated"`
	AreaTreatedUnit string `json:"areaTreatedUnit"`
	Remark          string `json:"remark"`
}

func (h *Handler) createWorkLog(c *gin.Context) {
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

	var req createWorkLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	log, err := h.contracts.AddWorkLog(c.Request.Context(), id, model.WorkLog{
		WorkAreaType:    req.WorkAreaType,
		Chemical:        req.Chemical,
		ChemicalUsed:    req.ChemicalUsed,
		AreaTreated:     req.AreaTreated,
		AreaTreatedUnit: req.AreaTreatedUnit,
		Remark:          req.Remark,
		EntryByID:       principal.UserID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Worklog Created", "result": log})
}

func (h *Handler) listWorkLogs(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	logs, err := h.contracts.WorkLogs(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "", "result": logs})
}

type createDCRequest struct {
	Chemical    string `json:"chemical"`
	BatchNo     string `json:"batchNo"`
	ChemicalQty string `json:"chemicalqty"`
	Packaging   string `json:"packaging"`
}

func (h *Handler) createDC(c *gin.Context) {
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

	var req createDCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	dc, err := h.contracts.AddDC(c.Request.Context(), id, model.DC{
		Chemical:    req.Chemical,
		BatchNumber: req.BatchNo,
		ChemicalQty: req.ChemicalQty,
		Packaging:   req.Packaging,
		EntryByID:   principal.UserID,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "DC Created", "result": dc})
}

func (h *Handler) listDCs(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return
	}
	dcs, err := h.contracts.DCs(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "", "result": dcs})
}

func (h *Handler) sendReport(c *gin.Context) {
	if err := h.reports.SendContractsReport(c.Request.Context()); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Report sent."})
}
