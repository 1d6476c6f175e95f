// @title           Matbixx API
// @version         1.0
// @description     Matbixx Backend API - All endpoints used in the application.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
package main

import (
	_ "backend/docs"
	"backend/handlers"
	"backend/models"
	"backend/storage"
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"https://matbixx.com",
		"https://www.matbixx.com",
		"http://localhost:9000",
		"http://localhost:8080",
		"http://localhost:3000",
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding", "X-XSRF-TOKEN",
		"Accept", "Origin", "X-Requested-With", "Authorization", "User-Agent",
		"Cache-Control", "Referer",
		"Access-Control-Request-Method", "Access-Control-Request-Headers",
		"Accept-Language", "Accept-Charset", "DNT", "Connection",
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

// RequireSession resolves the Authorization token to an active session and
// stores the user on the context.
func RequireSession(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if sessionID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session ID required"})
			c.Abort()
			return
		}

		user, err := storage.GetUserBySessionID(db, sessionID)
		if err != nil || user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
			c.Abort()
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// OptionalSession resolves the Authorization token to a user when one is
// sent and lets anonymous requests through. Handlers that branch on the
// caller's role check the context themselves.
func OptionalSession(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer "))
		if sessionID != "" {
			if user, err := storage.GetUserBySessionID(db, sessionID); err == nil && user != nil {
				c.Set("user", user)
			}
		}
		c.Next()
	}
}

// RequireRole restricts a route to the named roles. Admins always pass.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userValue, ok := c.Get("user")
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session required"})
			c.Abort()
			return
		}

		roleName := userValue.(*models.User).RoleName
		if strings.EqualFold(roleName, "admin") {
			c.Next()
			return
		}
		for _, role := range roles {
			if strings.EqualFold(roleName, role) {
				c.Next()
				return
			}
		}

		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied for this role"})
		c.Abort()
	}
}

func HelloWorld(c *gin.Context) {
	c.JSON(200, gin.H{"message": "Hello, World!"})
}

var cronRunning int32

func safeGo(
	ctx context.Context,
	wg *sync.WaitGroup,
	name string,
	fn func(context.Context) error,
	cronLogger *log.Logger,
) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in %s: %v\n%s", name, r, debug.Stack())
				if cronLogger != nil {
					cronLogger.Printf("PANIC in %s: %v\n%s", name, r, debug.Stack())
				}
			}
		}()

		if err := fn(ctx); err != nil {
			log.Printf("%s failed: %v", name, err)
			if cronLogger != nil {
				cronLogger.Printf("%s failed: %v", name, err)
			}
		} else {
			log.Printf("%s completed successfully", name)
			if cronLogger != nil {
				cronLogger.Printf("%s completed successfully", name)
			}
		}
	}()
}

// purgeStaleDesigns removes design files that have sat unused for 30 days,
// both from disk and from the design_file table.
func purgeStaleDesigns(cronLogger *log.Logger) error {
	gdb := storage.GetGormDB()
	if gdb == nil {
		return nil
	}

	cutoff := time.Now().Add(-30 * 24 * time.Hour)
	stale, err := storage.StaleDesignFiles(gdb, cutoff)
	if err != nil {
		return err
	}

	purged := 0
	for _, design := range stale {
		if design.StoredPath != "" {
			if err := os.Remove(design.StoredPath); err != nil && !os.IsNotExist(err) {
				if cronLogger != nil {
					cronLogger.Printf("failed to remove %s: %v", design.StoredPath, err)
				}
				continue
			}
		}
		if err := storage.PurgeDesignFile(gdb, design.ID); err != nil {
			if cronLogger != nil {
				cronLogger.Printf("failed to purge design %s: %v", design.ID, err)
			}
			continue
		}
		purged++
	}

	log.Printf("Purged %d stale design files", purged)
	return nil
}

func main() {
	db := storage.InitDB()
	gdb := storage.InitGormDB()

	// Setup cron job to run maintenance daily
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))),
	)

	// Open a file for cron error logging
	cronLogFile, err := os.OpenFile("cron_errors.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Printf("Failed to open cron error log file: %v", err)
	}
	cronLogger := log.New(cronLogFile, "CRON_ERROR: ", log.LstdFlags)

	_, err = c.AddFunc("30 3 * * *", func() {
		if !atomic.CompareAndSwapInt32(&cronRunning, 0, 1) {
			log.Println("Previous cron still running. Skipping this run.")
			if cronLogger != nil {
				cronLogger.Println("Previous cron still running. Skipping this run.")
			}
			return
		}
		defer atomic.StoreInt32(&cronRunning, 0)

		log.Println("Starting daily maintenance cron job")

		ctx, cancel := context.WithTimeout(context.Background(), 25*time.Minute)
		defer cancel()

		var wg sync.WaitGroup

		safeGo(ctx, &wg, "CleanupExpiredSessions", func(ctx context.Context) error {
			return storage.CleanupExpiredSessions(storage.GetDB())
		}, cronLogger)

		safeGo(ctx, &wg, "PurgeStaleDesigns", func(ctx context.Context) error {
			return purgeStaleDesigns(cronLogger)
		}, cronLogger)

		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			log.Println("All cron jobs finished")
		case <-ctx.Done():
			log.Println("Cron timeout reached, jobs cancelled")
			if cronLogger != nil {
				cronLogger.Println("Cron timeout reached, jobs cancelled")
			}
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule daily maintenance cron job: %v", err)
	}

	c.Start()

	r := gin.Default()
	r.MaxMultipartMemory = 8 << 20

	r.Use(cors.New(CORSConfig()))

	r.GET("/", HelloWorld)

	// ==================== 1. AUTH & LOGIN ====================
	r.POST("/api/login", handlers.LoginHandler(db))
	r.POST("/api/refresh-token", handlers.RefreshTokenHandler(db))
	r.GET("/api/session", handlers.GetSessionHandler(db))
	r.POST("/api/logout-device", handlers.LogoutDeviceHandler(db))

	// ==================== 2. USERS ====================
	// Anyone may self-register as a customer; an admin token on the same
	// route unlocks the privileged roles.
	r.POST("/api/users", OptionalSession(db), handlers.CreateUserHandler(db))
	r.GET("/api/me", RequireSession(db), handlers.GetCurrentUserHandler)

	// ==================== 3. CATALOG ====================
	r.GET("/api/categories", handlers.GetCategoriesHandler(db))
	r.GET("/api/categories/:id/products", handlers.GetCategoryProductsHandler(db))

	// ==================== 4. QUOTES ====================
	r.POST("/api/quotes", RequireSession(db), RequireRole("customer"), handlers.CreateQuoteHandler(db))
	r.GET("/api/quotes", RequireSession(db), handlers.ListQuotesHandler(db))
	r.GET("/api/quotes/export", RequireSession(db), handlers.ExportQuotesHandler(db))
	r.GET("/api/quotes/:id", RequireSession(db), handlers.GetQuoteHandler(db))
	r.PUT("/api/quotes/:id/status", RequireSession(db), handlers.UpdateQuoteStatusHandler(db))
	r.GET("/api/quotes/:id/qr", RequireSession(db), handlers.GenerateQuoteQRCode(db))

	// ==================== 5. AUTOMATION / PLOTTER ====================
	plotter := r.Group("/api/automation/plotter", RequireSession(db), RequireRole("printer"))
	plotter.POST("/upload-designs", handlers.UploadDesigns(gdb))
	plotter.GET("/designs", handlers.ListDesigns(gdb))
	plotter.DELETE("/designs/clear", handlers.ClearDesigns(gdb))
	plotter.POST("/auto-arrange", handlers.AutoArrangeHandler(gdb))
	plotter.POST("/generate-pdf", handlers.GenerateLayoutPDF)

	// ==================== 6. FILES ====================
	r.GET("/api/get-file", handlers.ServeFile)

	// ==================== 7. SWAGGER ====================
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	// Get port from environment variable or use default
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

	// Graceful shutdown
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
