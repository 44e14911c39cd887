package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	// Parts nested under their resource.
	resGroup := g.Group("/resources/:id/parts")
	resGroup.Use(authMiddleware)
	{
		resGroup.GET("", h.ListByResource)
	}
	resAdmin := resGroup.Group("")
	resAdmin.Use(adminMiddleware)
	{
		resAdmin.POST("", h.Create)
	}

	// Direct part access.
	group := g.Group("/parts")
	group.Use(authMiddleware)
	{
		group.GET("/:id", h.Get)
	}
	admin := group.Group("")
	admin.Use(adminMiddleware)
	{
		admin.PATCH("/:id", h.Update)
		admin.DELETE("/:id", h.Delete)
	}
}
