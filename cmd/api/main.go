package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpadp "agriloan-backend/internal/adapter/http"
	"agriloan-backend/internal/adapter/middleware"
	"agriloan-backend/internal/adapter/repository/mysql"
	"agriloan-backend/internal/config"
	fieldlogDomain "agriloan-backend/internal/domain/fieldlog"
	loanDomain "agriloan-backend/internal/domain/loan"
	marketDomain "agriloan-backend/internal/domain/marketplace"
	negotiationDomain "agriloan-backend/internal/domain/negotiation"
	userDomain "agriloan-backend/internal/domain/user"
	"agriloan-backend/internal/infrastructure/advice"
	"agriloan-backend/internal/infrastructure/cache"
	"agriloan-backend/internal/infrastructure/db"
	"agriloan-backend/internal/jobs"
	fieldlogUC "agriloan-backend/internal/usecase/fieldlog"
	loanUC "agriloan-backend/internal/usecase/loan"
	marketplaceUC "agriloan-backend/internal/usecase/marketplace"
	negotiationUC "agriloan-backend/internal/usecase/negotiation"
	userUC "agriloan-backend/internal/usecase/user"
	"agriloan-backend/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.AppName, cfg.Env)
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.WithError(err).Fatal("mysql connect failed")
	}
	if err := gdb.AutoMigrate(
		&userDomain.User{},
		&loanDomain.Loan{},
		&loanDomain.Repayment{},
		&marketDomain.Listing{},
		&negotiationDomain.Negotiation{},
		&negotiationDomain.Message{},
		&fieldlogDomain.FieldLog{},
	); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.WithError(err).Fatal("redis connect failed")
	}

	// repositories + unit of work
	users := mysql.NewUserRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	listings := mysql.NewListingRepository(gdb)
	negotiations := mysql.NewNegotiationRepository(gdb)
	fieldlogs := mysql.NewFieldLogRepository(gdb)
	unit := mysql.NewGormUoW(gdb)

	adviser := advice.NewClient(cfg.AdviceBaseURL, log)

	// usecases
	loanSvc := loanUC.NewUsecase(loans, users, unit, log)
	negotiationSvc := negotiationUC.NewUsecase(negotiations, listings, users, unit, log)
	marketplaceSvc := marketplaceUC.NewUsecase(listings, users, unit, log)
	fieldlogSvc := fieldlogUC.NewUsecase(fieldlogs, users, adviser, log)
	userSvc := userUC.NewUsecase(users, log)

	// handlers
	h := httpadp.NewHandler()
	loanH := httpadp.NewLoanHandler(loanSvc)
	negotiationH := httpadp.NewNegotiationHandler(negotiationSvc)
	marketplaceH := httpadp.NewMarketplaceHandler(marketplaceSvc)
	fieldlogH := httpadp.NewFieldLogHandler(fieldlogSvc)
	userH := httpadp.NewUserHandler(userSvc)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Use(middleware.IdempotencyMiddleware(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	// routes
	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/users", userH.Register)
	e.GET("/users/:user_id", userH.Get)

	e.POST("/loans", loanH.SubmitApplication)
	e.GET("/loans/:loan_id", loanH.GetLoan)
	e.GET("/farmers/:farmer_id/loans", loanH.ListFarmerLoans)
	e.POST("/loans/:loan_id/admin-decision", loanH.RecordAdminDecision)
	e.POST("/loans/:loan_id/officer-decision", loanH.RecordOfficerDecision)
	e.POST("/loans/:loan_id/disburse", loanH.MarkDisbursed)
	e.POST("/loans/:loan_id/repayments", loanH.RecordRepayment)

	e.POST("/listings", marketplaceH.CreateListing)
	e.GET("/listings", marketplaceH.ListAvailable)
	e.GET("/listings/:listing_id", marketplaceH.GetListing)
	e.GET("/farmers/:farmer_id/listings", marketplaceH.ListFarmerListings)
	e.POST("/listings/:listing_id/cancel", marketplaceH.CancelListing)

	e.POST("/negotiations", negotiationH.Start)
	e.GET("/negotiations/:negotiation_id", negotiationH.Get)
	e.POST("/negotiations/:negotiation_id/offers", negotiationH.MakeOffer)
	e.POST("/negotiations/:negotiation_id/accept", negotiationH.Accept)
	e.POST("/negotiations/:negotiation_id/decline", negotiationH.Decline)
	e.POST("/negotiations/:negotiation_id/order", negotiationH.PlaceOrder)
	e.POST("/negotiations/:negotiation_id/cancel", negotiationH.Cancel)
	e.POST("/negotiations/:negotiation_id/messages", negotiationH.PostMessage)
	e.GET("/buyers/:buyer_id/negotiations", negotiationH.ListForBuyer)
	e.GET("/farmers/:farmer_id/negotiations", negotiationH.ListForFarmer)

	e.POST("/field-logs", fieldlogH.AddLog)
	e.GET("/farmers/:farmer_id/field-logs", fieldlogH.ListFarmerLogs)
	e.GET("/field-logs/:log_id/advice", fieldlogH.GetAdvice)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.SweepIntervalSecs > 0 {
		sweeper := jobs.NewOverdueSweeper(loans, unit, time.Duration(cfg.SweepIntervalSecs)*time.Second, log)
		go sweeper.Run(ctx)
	}

	go func() {
		addr := ":" + cfg.AppPort
		log.WithField("addr", addr).Info("listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown failed")
	}
}
