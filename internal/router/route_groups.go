package router

import (
	"tap2serve_backend/internal/handlers"
	"tap2serve_backend/internal/middleware"
	"tap2serve_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// Roles allowed to manage kitchen-facing resources.
var staffRoles = []string{models.RoleOwner, models.RoleManager, models.RoleChef, models.RoleWaiter, models.RoleCashier}

// Roles allowed to manage the restaurant's configuration.
var managerRoles = []string{models.RoleOwner, models.RoleManager}

func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", authHandler.Register)
	group.POST("/login", authHandler.Login)
	group.POST("/refresh-token", authHandler.RefreshToken)
}

func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.Me)
}

// SetupPublicGuestRoutes wires the unauthenticated surfaces guests reach via
// table QR codes. Each route carries the restaurant id in the path.
func SetupPublicGuestRoutes(
	group *gin.RouterGroup,
	menuHandler *handlers.MenuHandler,
	waiterHandler *handlers.WaiterHandler,
	reservationHandler *handlers.ReservationHandler,
	feedbackHandler *handlers.FeedbackHandler,
	orderHandler *handlers.OrderHandler,
) {
	restaurant := group.Group("/restaurants/:restaurantId")
	restaurant.GET("/menu", menuHandler.GetPublicMenu)
	restaurant.POST("/orders", orderHandler.CreateGuestOrder)
	restaurant.POST("/waiter-calls", waiterHandler.CreateCall)
	restaurant.POST("/reservations", reservationHandler.CreateReservation)
	restaurant.POST("/feedback", feedbackHandler.CreateFeedback)
}

func SetupOrderRoutes(group *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orders := group.Group("/orders")
	orders.POST("", orderHandler.CreateOrder)
	orders.GET("", orderHandler.GetOrders)
	orders.GET("/:id", orderHandler.GetOrderByID)
	orders.PATCH("/:id/status", orderHandler.UpdateOrderStatus)
	orders.POST("/:id/invoice", middleware.RoleAuthMiddleware(models.RoleOwner, models.RoleManager, models.RoleCashier), orderHandler.GenerateInvoice)
}

func SetupMenuRoutes(group *gin.RouterGroup, menuHandler *handlers.MenuHandler) {
	menu := group.Group("/menu")
	menu.GET("", menuHandler.GetItems)
	menu.GET("/:id", menuHandler.GetItemByID)
	menu.POST("", middleware.RoleAuthMiddleware(managerRoles...), menuHandler.CreateItem)
	menu.PUT("/:id", middleware.RoleAuthMiddleware(managerRoles...), menuHandler.UpdateItem)
	menu.DELETE("/:id", middleware.RoleAuthMiddleware(managerRoles...), menuHandler.DeleteItem)
}

func SetupInventoryRoutes(group *gin.RouterGroup, inventoryHandler *handlers.InventoryHandler) {
	inventory := group.Group("/inventory")
	inventory.GET("", inventoryHandler.GetStock)
	inventory.PUT("/:menuItemId", middleware.RoleAuthMiddleware(managerRoles...), inventoryHandler.SetStock)
}

func SetupWaiterRoutes(group *gin.RouterGroup, waiterHandler *handlers.WaiterHandler) {
	calls := group.Group("/waiter-calls")
	calls.GET("", middleware.RoleAuthMiddleware(staffRoles...), waiterHandler.GetPendingCalls)
	calls.PATCH("/:id/resolve", middleware.RoleAuthMiddleware(staffRoles...), waiterHandler.ResolveCall)
}

func SetupReservationRoutes(group *gin.RouterGroup, reservationHandler *handlers.ReservationHandler) {
	reservations := group.Group("/reservations")
	reservations.GET("", reservationHandler.GetReservations)
	reservations.GET("/:id", reservationHandler.GetReservationByID)
	reservations.PUT("/:id", middleware.RoleAuthMiddleware(staffRoles...), reservationHandler.UpdateReservation)
	reservations.PATCH("/:id/status", middleware.RoleAuthMiddleware(staffRoles...), reservationHandler.UpdateReservationStatus)
	reservations.DELETE("/:id", middleware.RoleAuthMiddleware(managerRoles...), reservationHandler.DeleteReservation)
}

func SetupFeedbackRoutes(group *gin.RouterGroup, feedbackHandler *handlers.FeedbackHandler) {
	feedback := group.Group("/feedback")
	feedback.GET("", feedbackHandler.GetFeedback)
	feedback.PATCH("/:id/visibility", middleware.RoleAuthMiddleware(managerRoles...), feedbackHandler.SetVisibility)
}

func SetupBranchRoutes(group *gin.RouterGroup, branchHandler *handlers.BranchHandler) {
	branches := group.Group("/branches")
	branches.GET("", branchHandler.GetBranches)
	branches.GET("/:id", branchHandler.GetBranchByID)
	branches.POST("", middleware.RoleAuthMiddleware(models.RoleOwner), branchHandler.CreateBranch)
	branches.PUT("/:id", middleware.RoleAuthMiddleware(models.RoleOwner), branchHandler.UpdateBranch)
	branches.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleOwner), branchHandler.DeleteBranch)
}

func SetupReportRoutes(group *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reports := group.Group("/reports")
	reports.Use(middleware.RoleAuthMiddleware(managerRoles...))
	reports.GET("/dashboard", reportHandler.GetDashboardStats)
	reports.GET("/detailed", reportHandler.GetDetailedReport)
}

func SetupAdminRoutes(group *gin.RouterGroup, adminHandler *handlers.AdminHandler) {
	group.GET("/stats", adminHandler.GetStats)
	group.PATCH("/menu/:id/approve", adminHandler.ApproveMenuItem)
	group.PATCH("/users/:id/status", adminHandler.SetUserStatus)
	group.GET("/audit-logs", adminHandler.GetAuditLogs)
}
