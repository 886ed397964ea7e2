package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/epcorn/pestops-contracts/internal/config"
	"github.com/epcorn/pestops-contracts/internal/model"
	"github.com/epcorn/pestops-contracts/internal/pdf"
	"github.com/epcorn/pestops-contracts/internal/service"
)

type Handler struct {
	contracts  *service.ContractService
	quotations *service.QuotationService
	chemicals  *service.ChemicalService
	users      *service.UserService
	reports    *service.ReportService
	pdf        *pdf.Generator
	cfg        *config.Config
	log        zerolog.Logger
}

func NewHandler(
	contracts *service.ContractService,
	quotations *service.QuotationService,
	chemicals *service.ChemicalService,
	users *service.UserService,
	reports *service.ReportService,
	pdfGenerator *pdf.Generator,
	cfg *config.Config,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		contracts:  contracts,
		quotations: quotations,
		chemicals:  chemicals,
		users:      users,
		reports:    reports,
		pdf:        pdfGenerator,
		cfg:        cfg,
		log:        log,
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrNotApproved):
		c.JSON(http.StatusForbidden, gin.H{"message": "Document not approved yet!"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrAlreadyApproved):
		c.JSON(http.StatusConflict, gin.H{"message": "Contract Already approved"})
	case errors.Is(err, service.ErrAlreadyContractified):
		c.JSON(http.StatusConflict, gin.H{"message": "Already Contract, please refresh"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": "Document was modified by someone else, please refresh"})
	default:
		h.log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, service.ErrInvalidInput
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006-01-02T15:04:05",
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, service.ErrInvalidInput
}

func parseOptionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	parsed, err := parseDate(raw)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func parseDocType(raw string) model.DocType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "supply":
		return model.DocTypeSupply
	case "supply/apply":
		return model.DocTypeSupplyApply
	default:
		return model.DocTypeStandard
	}
}
