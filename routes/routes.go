package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"travel-pricing-backend/controllers"
	"travel-pricing-backend/middleware"
)

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func SetupRouter(
	prc *controllers.PricingRuleController,
	rrc *controllers.RoomRatesController,
	trc *controllers.TransportRatesController,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	origins := parseCorsOrigins()
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		rules := api.Group("/pricing-rules")
		{
			rules.GET("", prc.List)
			rules.POST("", prc.Create)
			rules.POST("/bulk", prc.BulkCreate)

			// ต้องอยู่ก่อน /:id
			rules.GET("/applicable", prc.Applicable)
			rules.POST("/calculate", prc.Calculate)
			rules.GET("/export", prc.Export)
			rules.POST("/import", prc.Import)

			rules.GET("/:id", prc.Get)
			rules.PUT("/:id", prc.Update)
			rules.DELETE("/:id", prc.Delete)
			rules.PATCH("/:id/toggle", prc.Toggle)
		}

		roomRates := api.Group("/room-rates")
		{
			roomRates.GET("", rrc.List)
			roomRates.POST("", rrc.Store)
			roomRates.DELETE("/clear", rrc.Clear)
			roomRates.POST("/apply", rrc.Apply)
			roomRates.POST("/bulk-apply", rrc.BulkApply)
			roomRates.POST("/group-apply", rrc.GroupApply)
		}

		transportRates := api.Group("/transport-rates")
		{
			transportRates.GET("", trc.List)
			transportRates.POST("", trc.Store)
			transportRates.DELETE("/clear", trc.Clear)
			transportRates.POST("/apply", trc.Apply)
			transportRates.POST("/service-apply", trc.ServiceApply)
		}

		hotels := api.Group("/hotels")
		{
			hotels.GET("", controllers.GetHotels)
			hotels.POST("", controllers.CreateHotel)
			hotels.GET("/:id/rooms", controllers.GetHotelRooms)
		}

		rooms := api.Group("/rooms")
		{
			rooms.POST("", controllers.CreateRoom)
			rooms.PATCH("/:id", controllers.UpdateRoom)
			rooms.PUT("/:id", controllers.UpdateRoom)
			rooms.DELETE("/:id", controllers.DeleteRoom)
		}

		transport := api.Group("/transport-services")
		{
			transport.GET("", controllers.GetTransportServices)
			transport.POST("", controllers.CreateTransportService)
		}
		api.POST("/transport-routes", controllers.CreateTransportRoute)
	}

	return r
}
