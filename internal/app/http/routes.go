package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	authapi "tour-backoffice/internal/api/auth"
	dashboardapi "tour-backoffice/internal/api/dashboard"
	membersapi "tour-backoffice/internal/api/members"
	packagesapi "tour-backoffice/internal/api/packages"
	tourmembersapi "tour-backoffice/internal/api/tourmembers"
	usersapi "tour-backoffice/internal/api/users"
	"tour-backoffice/internal/app/http/middleware"
	"tour-backoffice/internal/domain/access"
)

type Deps struct {
	DB        *gorm.DB
	JWTSecret []byte
	JWTTTL    time.Duration
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	enrollments := tourmembersapi.NewService(deps.DB)

	auth := authapi.NewHandler(authapi.NewService(deps.DB, deps.JWTSecret, deps.JWTTTL))
	tourMembers := tourmembersapi.NewHandler(enrollments)
	dashboard := dashboardapi.NewHandler(dashboardapi.NewService(deps.DB, enrollments))
	packages := packagesapi.NewHandler(packagesapi.NewService(deps.DB))
	members := membersapi.NewHandler(membersapi.NewService(deps.DB))
	users := usersapi.NewHandler(usersapi.NewService(deps.DB))

	api := r.Group("/api/v1")
	api.Use(middleware.SanitizeAndCleanInputMiddleware())

	// Public
	api.POST("/auth/login", auth.Login)

	// Authenticated
	authed := api.Group("/")
	authed.Use(middleware.AuthMiddleware(deps.JWTSecret))

	everyone := middleware.RequireRoles(access.Everyone...)
	staff := middleware.RequireRoles(access.Staff...)
	adminOnly := middleware.RequireRoles(access.AdminOnly...)

	authed.GET("/auth/me", everyone, auth.Me)
	authed.POST("/auth/change-password", everyone, auth.ChangePassword)
	authed.POST("/auth/register", adminOnly, auth.Register)

	authed.GET("/users", adminOnly, users.List)
	authed.GET("/users/:id", adminOnly, users.Get)

	// Stats routes are registered before /:id so the literal segment wins.
	tm := authed.Group("/tour-members")
	tm.GET("/stats", staff, tourMembers.Stats)
	tm.GET("/stats/:tourId", staff, tourMembers.StatsByTour)
	tm.GET("", everyone, tourMembers.List)
	tm.GET("/:id", everyone, tourMembers.Get)
	tm.POST("", staff, tourMembers.Create)
	tm.PUT("/:id", staff, tourMembers.Update)
	tm.DELETE("/:id", staff, tourMembers.Delete)
	tm.POST("/:id/payments", staff, tourMembers.AddPayment)
	tm.PUT("/:id/payments/:paymentId", staff, tourMembers.UpdatePayment)
	tm.DELETE("/:id/payments/:paymentId", staff, tourMembers.DeletePayment)

	dash := authed.Group("/dashboard")
	dash.Use(staff)
	dash.GET("/overview", dashboard.Overview)
	dash.GET("/summary", dashboard.Summary)
	dash.GET("/recent-bookings", dashboard.RecentBookings)
	dash.GET("/revenue-trends", dashboard.RevenueTrends)
	dash.GET("/popular-packages", dashboard.PopularPackages)
	dash.GET("/realtime", dashboard.Realtime)

	pk := authed.Group("/tour-packages")
	pk.GET("/stats", adminOnly, packages.Stats)
	pk.POST("/bulk-delete", adminOnly, packages.BulkDelete)
	pk.GET("", staff, packages.List)
	pk.GET("/:id", everyone, packages.Get)
	pk.POST("", adminOnly, packages.Create)
	pk.PUT("/:id", adminOnly, packages.Update)
	pk.DELETE("/:id", adminOnly, packages.Delete)

	mb := authed.Group("/members")
	mb.GET("/user/:userId", everyone, members.ByUser)
	mb.GET("", staff, members.List)
	mb.GET("/:id", everyone, members.Get)
	mb.POST("", staff, members.Create)
	mb.PUT("/:id", staff, members.Update)
	mb.DELETE("/:id", adminOnly, members.Delete)
}
