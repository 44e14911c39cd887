package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers photo routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	// Photos nested under their resource.
	resGroup := g.Group("/resources/:id/photos")
	resGroup.Use(authMiddleware)
	{
		resGroup.GET("", h.ListByResource)
	}
	resAdmin := resGroup.Group("")
	resAdmin.Use(adminMiddleware)
	{
		resAdmin.POST("", h.Upload)
	}

	// Direct photo access.
	group := g.Group("/photos")
	group.Use(authMiddleware)
	{
		group.GET("/:id", h.ServePhoto)
		group.GET("/:id/thumbnail", h.ServeThumbnail)
	}
	admin := group.Group("")
	admin.Use(adminMiddleware)
	{
		admin.DELETE("/:id", h.Delete)
	}
}
