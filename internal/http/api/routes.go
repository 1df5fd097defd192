// Package api wires the dashboard JSON API: session middleware, per-page
// access gating and route registration.
package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/retrievaltrack/retrievaltrack/internal/access"
	"github.com/retrievaltrack/retrievaltrack/internal/config"
	"github.com/retrievaltrack/retrievaltrack/internal/devices"
	"github.com/retrievaltrack/retrievaltrack/internal/http/api/handlers"
	"github.com/retrievaltrack/retrievaltrack/internal/journal"
	"gorm.io/gorm"
)

// RegisterRoutes registers every API route on the engine.
func RegisterRoutes(r *gin.Engine, conn *gorm.DB, svc *devices.Service, j *journal.Journal, jwtCfg config.JWTConfig) {
	if r == nil || conn == nil {
		return
	}

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	authHandler := handlers.NewAuthHandler(conn, j, jwtCfg)
	deviceHandler := handlers.NewDeviceHandler(conn, svc)
	userHandler := handlers.NewUserHandler(conn, j)
	slaHandler := handlers.NewSLAHandler(svc)
	notificationHandler := handlers.NewNotificationHandler(j)
	smsHandler := handlers.NewSMSHandler(j)
	auditHandler := handlers.NewAuditHandler(j)
	dashboardHandler := handlers.NewDashboardHandler(svc, j)

	root := r.Group("/api")
	root.POST("/login", authHandler.Login)

	authed := root.Group("")
	authed.Use(sessionMiddleware(jwtCfg))

	authed.GET("/me", authHandler.Me)
	authed.GET("/refdata", dashboardHandler.RefData)

	authed.GET("/dashboard/summary", requirePage(access.PageDashboard), dashboardHandler.Summary)
	authed.GET("/dashboard/monthly", requirePage(access.PageAnalytics), dashboardHandler.Monthly)

	authed.GET("/devices", requirePage(access.PageTimeline), deviceHandler.List)
	authed.GET("/devices/:id", requirePage(access.PageTimeline), deviceHandler.Get)
	authed.POST("/devices", requirePage(access.PageIssue), deviceHandler.Issue)
	authed.POST("/devices/:id/confirm", requirePage(access.PageFieldConfirm), deviceHandler.Confirm)
	authed.POST("/devices/:id/retrieve", requirePage(access.PageRetrieval), deviceHandler.Retrieve)
	authed.POST("/devices/reevaluate", requirePage(access.PageSLA), deviceHandler.ReEvaluate)
	authed.POST("/devices/alert-sweep", requirePage(access.PageSLA), deviceHandler.AlertSweep)
	authed.GET("/issuances", requirePage(access.PageReports), deviceHandler.Issuances)

	authed.POST("/users", requirePage(access.PageRoles), authHandler.Register)
	authed.GET("/users", requirePage(access.PageRoles), userHandler.List)
	authed.PUT("/users/:id", requirePage(access.PageRoles), userHandler.Update)
	authed.DELETE("/users/:id", requirePage(access.PageRoles), userHandler.Delete)
	authed.GET("/audit", requirePage(access.PageRoles), auditHandler.List)

	authed.GET("/sla", requirePage(access.PageSLA), slaHandler.Get)
	authed.PUT("/sla", requirePage(access.PageSLA), slaHandler.Update)

	authed.GET("/notifications", requirePage(access.PageNotifications), notificationHandler.List)
	authed.GET("/notifications/unread-count", requirePage(access.PageNotifications), notificationHandler.UnreadCount)
	authed.POST("/notifications/:id/read", requirePage(access.PageNotifications), notificationHandler.MarkRead)
	authed.POST("/notifications/read-all", requirePage(access.PageNotifications), notificationHandler.MarkAllRead)

	authed.GET("/sms", requirePage(access.PageSMS), smsHandler.List)
	authed.POST("/sms", requirePage(access.PageSMS), smsHandler.Send)
}
