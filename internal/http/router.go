package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/epcorn/pestops-contracts/internal/http/middleware"
)

// NewRouter wires every route. Login, logout and registration are public,
// everything else sits behind the access-token middleware.
func NewRouter(h *Handler, parser middleware.TokenParser) *gin.Engine {
	if h.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authRequired := middleware.Auth(parser, h.cfg.Auth.CookieName)

	api := router.Group("/api/v1")

	user := api.Group("/user")
	{
		user.POST("/register", h.register)
		user.POST("/login", h.login)
		user.GET("/logout", h.logout)
		user.GET("", authRequired, h.listUsers)
		user.GET("/initials", authRequired, h.listInitials)
		user.DELETE("/:id", authRequired, h.deleteUser)
	}

	contract := api.Group("/contract", authRequired)
	{
		contract.POST("/create", h.createContract)
		contract.GET("", h.listContracts)
		contract.GET("/report", h.sendReport)

		contract.GET("/chemicals", h.listChemicals)
		contract.POST("/chemical", h.createChemical)
		contract.POST("/chemical/:chemicalId/batch", h.addBatchNo)
		contract.DELETE("/chemical/:chemicalId/batch", h.removeBatchNo)
		contract.DELETE("/chemical/:chemicalId", h.deleteChemical)

		contract.GET("/approve/:id", h.approveContract)
		contract.GET("/archive/:id", h.contractArchive)
		contract.GET("/docx/:id", h.contractDocData)
		contract.GET("/print/:id", h.printContract)
		contract.GET("/pdf/:id", h.contractPDF)

		contract.GET("/:id", h.getContract)
		contract.POST("/:id", h.updateContract)
		contract.DELETE("/:id", h.deleteContract)

		contract.POST("/:id/worklog", h.createWorkLog)
		contract.GET("/:id/worklog", h.listWorkLogs)
		contract.POST("/:id/dc", h.createDC)
		contract.GET("/:id/dc", h.listDCs)
	}

	quotation := api.Group("/quotation", authRequired)
	{
		quotation.POST("/create", h.createQuotation)
		quotation.GET("/getQuotes", h.listQuotations)
		quotation.POST("/similarProjects", h.similarProjects)

		quotation.GET("/approve/:id", h.approveQuotation)
		quotation.GET("/archive/:id", h.quotationArchive)
		quotation.POST("/contractify/:id", h.contractify)
		quotation.GET("/print/:id", h.printQuotation)

		quotation.GET("/:id", h.getQuotation)
		quotation.POST("/:id", h.updateQuotation)
	}

	return router
}
