package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"IAmFine/config"
	"IAmFine/internal/handler"
	"IAmFine/internal/middleware"
)

func Register(h *server.Hertz) {
	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	if config.Cfg.OTelEnabled {
		h.Use(middleware.OpenTelemetryMiddleware())
	}

	h.GET("/healthz", handler.Healthz)
	h.GET("/readyz", handler.Readyz)

	v1 := h.Group("/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/token/refresh", handler.RefreshToken)
	}

	checkIns := v1.Group("/check-ins")
	checkIns.Use(middleware.AuthMiddleware())
	{
		checkIns.POST("", handler.CompleteCheckin)
		checkIns.GET("/status", handler.GetCheckinStatus)
		checkIns.GET("/history", handler.GetCheckinHistory)
	}

	contacts := v1.Group("/contacts")
	contacts.Use(middleware.AuthMiddleware())
	{
		contacts.GET("", handler.ListContacts)
		contacts.POST("", handler.CreateContact)
		contacts.DELETE("/:contact_id", handler.DeleteContact)
	}

	notifications := v1.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware())
	{
		notifications.GET("", handler.GetNotificationHistory)
		notifications.GET("/stats", handler.GetNotificationStats)
	}

	admin := v1.Group("/admin")
	admin.Use(middleware.AuthMiddleware())
	{
		admin.POST("/sweep", handler.TriggerSweep)
	}
}
