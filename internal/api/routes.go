package api

import "github.com/gin-gonic/gin"

// RegisterRoutes 挂载控制 API 路由
func RegisterRoutes(r *gin.Engine, h *Handler) {
	v1 := r.Group("/api/v1")
	{
		v1.POST("/send", h.Send)
		v1.POST("/wheel", h.Wheel)
		v1.POST("/head", h.Head)
		v1.POST("/arm", h.Arm)
		v1.POST("/led", h.LED)
		v1.POST("/heartbeat", h.Heartbeat)
		v1.POST("/battery", h.Battery)
		v1.GET("/status", h.Status)
	}
}
