package handler

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the dashboard API under /api/v1.
func RegisterRoutes(r gin.IRouter, reminders *ReminderHandler, notifications *NotificationHandler) {
	v1 := r.Group("/api/v1")
	{
		v1.GET("/reminders", reminders.HandleList)
		v1.POST("/reminders", reminders.HandleCreate)
		v1.POST("/reminders/refresh", reminders.HandleRefresh)
		v1.PATCH("/reminders/:id/toggle", reminders.HandleToggle)
		v1.DELETE("/reminders/:id", reminders.HandleDelete)

		v1.GET("/notifications/settings", notifications.HandleGetSettings)
		v1.PUT("/notifications/settings", notifications.HandlePutSettings)
		v1.POST("/notifications/permission/request", notifications.HandleRequestPermission)
		v1.GET("/notifications/stream", notifications.HandleStream)
	}
}
