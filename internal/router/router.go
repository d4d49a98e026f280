package router

import (
	"database/sql"

	"tap2serve_backend/internal/handlers"
	"tap2serve_backend/internal/middleware"
	"tap2serve_backend/internal/models"
	"tap2serve_backend/internal/notifier"
	"tap2serve_backend/internal/repositories"
	"tap2serve_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
func Setup(engine *gin.Engine, db *sql.DB, hub *notifier.Hub, stockPolicy string) {
	// Initialize Repositories
	authRepo := repositories.NewAuthRepository(db)
	menuRepo := repositories.NewMenuRepository(db)
	stockRepo := repositories.NewStockRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	waiterRepo := repositories.NewWaiterCallRepository(db)
	reservationRepo := repositories.NewReservationRepository(db)
	feedbackRepo := repositories.NewFeedbackRepository(db)
	branchRepo := repositories.NewBranchRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	reportRepo := repositories.NewReportRepository(db)

	// Initialize Services
	authService := services.NewAuthService(authRepo, db)
	menuService := services.NewMenuService(menuRepo, db)
	inventoryService := services.NewInventoryService(stockRepo, menuRepo, auditRepo, db)
	orderService := services.NewOrderService(orderRepo, menuRepo, stockRepo, auditRepo, hub, db, stockPolicy)
	waiterService := services.NewWaiterService(waiterRepo, hub, db)
	reservationService := services.NewReservationService(reservationRepo, db)
	feedbackService := services.NewFeedbackService(feedbackRepo, db)
	branchService := services.NewBranchService(branchRepo, db)
	reportService := services.NewReportService(reportRepo, auditRepo)
	paymentService := services.NewPaymentService(orderRepo, auditRepo, hub, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	menuHandler := handlers.NewMenuHandler(menuService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService)
	orderHandler := handlers.NewOrderHandler(orderService)
	waiterHandler := handlers.NewWaiterHandler(waiterService)
	reservationHandler := handlers.NewReservationHandler(reservationService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)
	branchHandler := handlers.NewBranchHandler(branchService)
	reportHandler := handlers.NewReportHandler(reportService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	eventHandler := handlers.NewEventHandler(hub)
	adminHandler := handlers.NewAdminHandler(reportService, menuService, authService)

	apiV1 := engine.Group("/api/v1")

	// Public routes: guest QR-code surfaces and the payment provider callback.
	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)
	SetupPublicGuestRoutes(apiV1.Group("/public"), menuHandler, waiterHandler, reservationHandler, feedbackHandler, orderHandler)
	apiV1.POST("/payments/webhook", paymentHandler.Webhook)

	// Authenticated tenant routes: staff tablets and owner dashboards.
	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)

		tenant := authenticated.Group("")
		tenant.Use(middleware.TenantMiddleware())
		{
			SetupOrderRoutes(tenant, orderHandler)
			SetupMenuRoutes(tenant, menuHandler)
			SetupInventoryRoutes(tenant, inventoryHandler)
			SetupWaiterRoutes(tenant, waiterHandler)
			SetupReservationRoutes(tenant, reservationHandler)
			SetupFeedbackRoutes(tenant, feedbackHandler)
			SetupBranchRoutes(tenant, branchHandler)
			SetupReportRoutes(tenant, reportHandler)

			tenant.GET("/events/stream", eventHandler.Stream)
		}

		admin := authenticated.Group("/admin")
		admin.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
		SetupAdminRoutes(admin, adminHandler)
	}
}
