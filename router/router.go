package router

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/paradise-cafe/controllers"
	"github.com/yeremiapane/paradise-cafe/ingest"
	"github.com/yeremiapane/paradise-cafe/middlewares"
	"github.com/yeremiapane/paradise-cafe/realtime"
	"github.com/yeremiapane/paradise-cafe/services"
)

// Deps is everything the HTTP surface is built from.
type Deps struct {
	Site          *services.Site
	Hub           *realtime.Hub
	Recommender   *services.Recommender
	Generator     *services.Generator
	Encoder       *ingest.Encoder
	AllowedOrigin string
	RateLimit     int
}

func SetupRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares(d.AllowedOrigin))
	r.Use(middlewares.LoggerMiddleware())
	r.Use(middlewares.NewRateLimiter(d.RateLimit, 0).RateLimit())

	storefrontCtrl := controllers.NewStorefrontController(d.Site)
	sommelierCtrl := controllers.NewSommelierController(d.Site, d.Recommender)
	adminCtrl := controllers.NewAdminController(d.Site, d.Encoder)
	aiCtrl := controllers.NewAIController(d.Generator)
	wsCtrl := controllers.NewWSController(d.Hub, d.AllowedOrigin)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	r.GET("/ws", wsCtrl.Handle)

	api := r.Group("/api")
	{
		api.GET("/storefront", storefrontCtrl.GetStorefront)
		api.GET("/collections/:name", storefrontCtrl.GetCollection)
		api.POST("/sommelier", middlewares.NewStrictRateLimiter(), sommelierCtrl.Recommend)
	}

	// ----------------------------------------------------------------
	//                      ADMIN ROUTES
	// ----------------------------------------------------------------
	admin := api.Group("/admin")
	{
		admin.POST("/menu-items", adminCtrl.CreateMenuItem)
		admin.PATCH("/menu-items/:id", adminCtrl.UpdateMenuItem)
		admin.DELETE("/menu-items/:id", adminCtrl.DeleteMenuItem)

		admin.POST("/banners", adminCtrl.UploadBanners)
		admin.PATCH("/banners/:id", adminCtrl.UpdateBanner)
		admin.DELETE("/banners/:id", adminCtrl.DeleteBanner)

		admin.POST("/offers", adminCtrl.CreateOffer)
		admin.DELETE("/offers/:id", adminCtrl.DeleteOffer)

		admin.POST("/menu-pages", adminCtrl.UploadMenuPages)
		admin.DELETE("/menu-pages/:id", adminCtrl.DeleteMenuPage)

		admin.GET("/settings", adminCtrl.GetSettings)
		admin.PUT("/settings", adminCtrl.UpdateSettings)

		admin.GET("/sync-status", adminCtrl.GetSyncStatus)

		generate := admin.Group("/ai")
		generate.Use(middlewares.NewStrictRateLimiter())
		{
			generate.POST("/item-details", aiCtrl.GenerateItemDetails)
			generate.POST("/item-image", aiCtrl.GenerateItemImage)
		}
	}

	return r
}
