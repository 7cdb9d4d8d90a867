// @title           Hotel Screening API
// @version         1.0
// @description     Backend for early-stage hotel investment screening: Year-1 USALI build-up, multi-year projection, debt schedule and valuation.

// @BasePath  /

// @securityDefinitions.apikey SessionAuth
// @in header
// @name Authorization
package main

import (
	"backend/handlers"
	"backend/storage"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
)

var cronRunning int32

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"http://localhost:9000",
		"http://localhost:8080",
		"http://localhost:3000",
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding",
		"Accept", "Origin", "X-Requested-With", "Authorization", "User-Agent",
		"Cache-Control", "Referer",
		"Access-Control-Request-Method", "Access-Control-Request-Headers",
	}
	corsConfig.AllowMethods = []string{
		"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH",
	}
	corsConfig.ExposeHeaders = []string{
		"Content-Length", "Authorization", "Content-Type", "Content-Disposition",
	}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

func main() {
	db := storage.InitDB()
	gdb := storage.InitGormDB()

	// Daily maintenance: drop sessions that expired more than a day ago.
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))),
	)
	_, err := c.AddFunc("30 3 * * *", func() {
		if !atomic.CompareAndSwapInt32(&cronRunning, 0, 1) {
			log.Println("Previous cron still running. Skipping this run.")
			return
		}
		defer atomic.StoreInt32(&cronRunning, 0)

		log.Println("Starting daily session cleanup")
		if err := storage.CleanupExpiredSessions(db); err != nil {
			log.Printf("Session cleanup failed: %v", err)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule daily maintenance cron job: %v", err)
	}
	c.Start()

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(CORSConfig()))

	// ==================== 1. AUTH & LOGIN ====================
	r.POST("/api/login", handlers.LoginHandler(db))
	r.POST("/api/refresh-token", handlers.RefreshTokenHandler(db))
	r.POST("/api/validate-session", handlers.ValidateSession(db))
	r.POST("/api/logout", handlers.LogoutHandler(db))

	// ==================== 1b. USERS ====================
	r.POST("/api/users", handlers.CreateUser(db))
	r.GET("/api/users", handlers.GetUsers(db))
	r.PUT("/api/users/:id/suspend", handlers.SuspendUser(db))

	// ==================== 2. PROJECTS ====================
	r.POST("/api/projects", handlers.CreateProject(db))
	r.GET("/api/projects", handlers.GetProjects(db))
	r.GET("/api/projects/:id", handlers.GetProjectByID(db))
	r.PUT("/api/projects/:id", handlers.UpdateProject(db))
	r.DELETE("/api/projects/:id", handlers.DeleteProject(db))

	// ==================== 3. COMMERCIAL INPUT ====================
	r.PUT("/api/projects/:id/commercial", handlers.SaveMonthlyCommercial(db))
	r.GET("/api/projects/:id/commercial", handlers.GetMonthlyCommercial(db))
	r.POST("/api/projects/:id/commercial/accept", handlers.AcceptCommercial(db))
	r.POST("/api/projects/:id/commercial/import", handlers.ImportCommercialExcel(db))

	// ==================== 4. BENCHMARK RATIOS ====================
	r.POST("/api/ratios", handlers.CreateRatioRow(db))
	r.GET("/api/ratios", handlers.GetRatioRows(db))
	r.PUT("/api/ratios/:id", handlers.UpdateRatioRow(db))
	r.DELETE("/api/ratios/:id", handlers.DeleteRatioRow(db))
	r.GET("/api/projects/:id/ratios", handlers.ResolveRatioRow(db))

	// ==================== 5. PROJECT SETTINGS ====================
	r.PUT("/api/projects/:id/financing", handlers.SaveFinancingTerms(db))
	r.GET("/api/projects/:id/financing", handlers.GetFinancingTerms(db))
	r.PUT("/api/projects/:id/valuation-settings", handlers.SaveValuationSettings(db))
	r.GET("/api/projects/:id/valuation-settings", handlers.GetValuationSettings(db))
	r.PUT("/api/projects/:id/contract", handlers.SaveOperatorContract(db))
	r.GET("/api/projects/:id/contract", handlers.GetOperatorContract(db))
	r.PUT("/api/projects/:id/non-operating", handlers.SaveNonOperating(db))
	r.GET("/api/projects/:id/non-operating", handlers.GetNonOperating(db))

	// ==================== 6. USALI & PROJECTION ====================
	r.POST("/api/projects/:id/usali/calculate", handlers.CalculateUsali(db, gdb))
	r.GET("/api/projects/:id/usali", handlers.GetUsali(db, gdb))
	r.POST("/api/projects/:id/projection/run", handlers.RunProjection(db, gdb))
	r.GET("/api/projects/:id/projection", handlers.GetProjectionAssumptionsHandler(db, gdb))
	r.GET("/api/projects/:id/annuals", handlers.GetAnnualSeriesHandler(db, gdb))
	r.PUT("/api/projects/:id/annuals/:year", handlers.OverrideAnnualYear(db, gdb))

	// ==================== 7. DEBT & VALUATION ====================
	r.POST("/api/projects/:id/debt/build", handlers.BuildDebtScheduleHandler(db, gdb))
	r.GET("/api/projects/:id/debt", handlers.GetDebtScheduleHandler(db, gdb))
	r.POST("/api/projects/:id/valuation/run", handlers.RunValuationHandler(db, gdb))
	r.GET("/api/projects/:id/valuation", handlers.GetValuationHandler(db, gdb))

	// ==================== 8. EXPORT ====================
	r.GET("/api/projects/:id/export", handlers.ExportScreeningWorkbook(db, gdb))

	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}
	portInt, err := strconv.Atoi(port)
	if err != nil {
		log.Fatalf("Invalid PORT environment variable: %s. Must be a number.", port)
	}
	if portInt < 0 || portInt > 65535 {
		log.Fatalf("Invalid PORT: %d. Must be between 0 and 65535.", portInt)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c.Stop()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}
