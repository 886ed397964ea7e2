package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/epcorn/pestops-contracts/internal/auth"
	"github.com/epcorn/pestops-contracts/internal/config"
	"github.com/epcorn/pestops-contracts/internal/db"
	"github.com/epcorn/pestops-contracts/internal/excel"
	httphandler "github.com/epcorn/pestops-contracts/internal/http"
	"github.com/epcorn/pestops-contracts/internal/logger"
	"github.com/epcorn/pestops-contracts/internal/mailer"
	"github.com/epcorn/pestops-contracts/internal/pdf"
	"github.com/epcorn/pestops-contracts/internal/repository"
	"github.com/epcorn/pestops-contracts/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}
	defer func() {
		if err := db.Close(database); err != nil {
			log.Error().Err(err).Msg("failed to close database")
		}
	}()

	contractRepo := repository.NewContractRepository(database)
	quotationRepo := repository.NewQuotationRepository(database)
	quoteInfoRepo := repository.NewQuoteInfoRepository(database)
	revisionRepo := repository.NewRevisionRepository(database)
	sequenceRepo := repository.NewSequenceRepository(database)
	fieldworkRepo := repository.NewFieldworkRepository(database)
	chemicalRepo := repository.NewChemicalRepository(database)
	userRepo := repository.NewUserRepository(database)

	tokens := auth.NewManager(cfg.Auth.AccessSecret, cfg.Auth.AccessTTL)

	contractService := service.NewContractService(contractRepo, quoteInfoRepo, revisionRepo, sequenceRepo, fieldworkRepo, cfg)
	quotationService := service.NewQuotationService(quotationRepo, contractRepo, quoteInfoRepo, revisionRepo, sequenceRepo, cfg)
	chemicalService := service.NewChemicalService(chemicalRepo)
	userService := service.NewUserService(userRepo, tokens)
	reportService := service.NewReportService(contractRepo, quotationRepo, excel.NewGenerator(), mailer.NewSMTPSender(cfg.SMTP), cfg)

	handler := httphandler.NewHandler(
		contractService,
		quotationService,
		chemicalService,
		userService,
		reportService,
		pdf.NewGenerator(),
		cfg,
		log,
	)
	router := httphandler.NewRouter(handler, tokens)

	var scheduler *cron.Cron
	if cfg.Report.Schedule != "" {
		scheduler = cron.New()
		_, err := scheduler.AddFunc(cfg.Report.Schedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			if err := reportService.SendContractsReport(ctx); err != nil {
				log.Error().Err(err).Msg("scheduled report failed")
			}
		})
		if err != nil {
			log.Fatal().Err(err).Str("schedule", cfg.Report.Schedule).Msg("invalid report schedule")
		}
		scheduler.Start()
		log.Info().Str("schedule", cfg.Report.Schedule).Msg("report scheduler started")
	}

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("starting contracts service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	if scheduler != nil {
		scheduler.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
