package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *Handler) listChemicals(c *gin.Context) {
	chemicals, err := h.chemicals.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "", "result": chemicals})
}

type createChemicalRequest struct {
	Chemical string `json:"chemical" binding:"required"`
}

func (h *Handler) createChemical(c *gin.Context) {
	var req createChemicalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	chemical, err := h.chemicals.Create(c.Request.Context(), req.Chemical)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Chemical Created", "result": chemical})
}

type batchNoRequest struct {
	BatchNo string `json:"batchNo" binding:"required"`
}

func (h *Handler) addBatchNo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("chemicalId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid chemicalId"})
		return
	}
	var req batchNoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	chemical, err := h.chemicals.AddBatchNo(c.Request.Context(), id, req.BatchNo)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Batch number added", "result": chemical})
}

func (h *Handler) removeBatchNo(c *gin.Context) {
	id, err := uuid.Parse(c.Param("chemicalId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid chemicalId"})
		return
	}
	var req batchNoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	chemical, err := h.chemicals.RemoveBatchNo(c.Request.Context(), id, req.BatchNo)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Batch number removed", "result": chemical})
}

func (h *Handler) deleteChemical(c *gin.Context) {
	id, err := uuid.Parse(c.Param("chemicalId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid chemicalId"})
		return
	}
	if err := h.chemicals.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Chemical Deleted"})
}
