package main

import (
	"time"

	"artstore/utils"
	"artstore/web/controllers"
	"artstore/web/db"
	"artstore/web/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func init() {
	utils.LoadEnv()
	db.Connect()
	db.Sync()
}

func main() {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	}))

	limiter := middleware.NewRateLimiter(60, 15) // 60 req/min/IP
	limiter.StartCleanup(10*time.Minute, 30*time.Minute)
	limited := limiter.Middleware()

	r.POST("/signup", limited, controllers.Signup)
	r.POST("/login", limited, controllers.Login)
	r.GET("/user", limited, middleware.RequireAuth, controllers.Me)

	// public storefront
	r.GET("/listings", limited, controllers.ListListings)
	r.GET("/listings/:id", limited, controllers.GetListing)
	r.GET("/blog", limited, controllers.ListPosts)
	r.GET("/blog/:slug", limited, controllers.GetPost)
	r.GET("/team", limited, controllers.ListTeam)
	r.GET("/settings/exchange-rate", limited, controllers.GetExchangeRate)

	// checkout and payment
	r.POST("/checkout", limited, middleware.RequireAuth, controllers.Checkout)
	r.GET("/payment/status/:order_id", limited, middleware.RequireAuth, controllers.PaymentStatus)
	r.GET("/orders", limited, middleware.RequireAuth, controllers.MyOrders)

	// the gateway calls this directly, no auth and no throttling
	r.POST("/api/pesapal/ipn", controllers.PesapalIPN)
	r.GET("/api/pesapal/ipn", controllers.PesapalIPNHealth)

	// admin
	r.PUT("/settings/exchange-rate", middleware.AdminAuth, controllers.UpdateExchangeRate)
	r.GET("/admin/orders", middleware.AdminAuth, controllers.ListOrders)
	r.GET("/admin/orders/:id", middleware.AdminAuth, controllers.GetOrder)
	r.PUT("/admin/orders/:id/status", middleware.AdminAuth, controllers.UpdateOrderStatus)
	r.POST("/admin/listings", middleware.AdminAuth, controllers.CreateListing)
	r.PUT("/admin/listings/:id", middleware.AdminAuth, controllers.UpdateListing)
	r.DELETE("/admin/listings/:id", middleware.AdminAuth, controllers.DeleteListing)
	r.POST("/admin/blog", middleware.AdminAuth, controllers.CreatePost)
	r.PUT("/admin/blog/:id", middleware.AdminAuth, controllers.UpdatePost)
	r.DELETE("/admin/blog/:id", middleware.AdminAuth, controllers.DeletePost)
	r.POST("/admin/team", middleware.AdminAuth, controllers.CreateTeamMember)
	r.PUT("/admin/team/:id", middleware.AdminAuth, controllers.UpdateTeamMember)
	r.DELETE("/admin/team/:id", middleware.AdminAuth, controllers.DeleteTeamMember)

	r.Run()
}
