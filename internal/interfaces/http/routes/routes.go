// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/oxaDeveloper/e-commerce-task/internal/config"
	"github.com/oxaDeveloper/e-commerce-task/internal/interfaces/http/handlers"
	"github.com/oxaDeveloper/e-commerce-task/internal/interfaces/http/middleware"
	"github.com/oxaDeveloper/e-commerce-task/internal/pkg/pdf"
	"github.com/oxaDeveloper/e-commerce-task/internal/session"
)

// SetupRoutes wires every API route group onto rg.
func SetupRoutes(rg *gin.RouterGroup, sess *session.Session, cfg *config.Config) {
	SetupSessionRoutes(rg, sess, cfg)
	SetupProductRoutes(rg, sess)
	SetupOrderRoutes(rg, sess, cfg)
	SetupCartRoutes(rg, sess)
}

// SetupSessionRoutes sets up authentication and session routes
func SetupSessionRoutes(rg *gin.RouterGroup, sess *session.Session, cfg *config.Config) {
	sessionHandler := handlers.NewSessionHandler(sess)

	group := rg.Group("/session")
	{
		group.POST("/login", sessionHandler.Login)
		group.POST("/register", sessionHandler.Register)
		group.POST("/logout", sessionHandler.Logout)
		group.GET("", sessionHandler.Get)
		group.PUT("/developer-mode", sessionHandler.SetDeveloperMode)

		if cfg.IsDevelopment() {
			group.POST("/dev-admin", sessionHandler.BecomeDevAdmin)
		}
	}
}

// SetupProductRoutes sets up catalog routes
func SetupProductRoutes(rg *gin.RouterGroup, sess *session.Session) {
	productHandler := handlers.NewProductHandler(sess)

	products := rg.Group("/products")
	{
		products.GET("", productHandler.GetProducts)
		products.GET("/current", productHandler.GetCurrentProduct)
		products.GET("/:id", productHandler.GetProduct)

		// Catalog edits require the resolved admin role
		admin := products.Group("")
		admin.Use(middleware.AdminRequired(sess))
		{
			admin.POST("", productHandler.CreateProduct)
			admin.PUT("/:id", productHandler.UpdateProduct)
			admin.DELETE("/:id", productHandler.DeleteProduct)
		}
	}
}

// SetupOrderRoutes sets up order and checkout routes
func SetupOrderRoutes(rg *gin.RouterGroup, sess *session.Session, cfg *config.Config) {
	orderHandler := handlers.NewOrderHandler(sess, pdf.NewService(cfg))

	orders := rg.Group("/orders")
	orders.Use(middleware.AuthRequired(sess))
	{
		orders.GET("/mine", orderHandler.GetMyOrders)
		orders.GET("/:id/receipt", orderHandler.GetReceipt)

		admin := orders.Group("")
		admin.Use(middleware.AdminRequired(sess))
		{
			admin.GET("", orderHandler.GetOrders)
			admin.PUT("/:id/status", orderHandler.UpdateStatus)
		}
	}

	checkout := rg.Group("/checkout")
	checkout.Use(middleware.AuthRequired(sess))
	{
		checkout.POST("", orderHandler.Checkout)
	}
}

// SetupCartRoutes sets up local cart routes
func SetupCartRoutes(rg *gin.RouterGroup, sess *session.Session) {
	cartHandler := handlers.NewCartHandler(sess)

	cart := rg.Group("/cart")
	{
		cart.GET("", cartHandler.GetCart)
		cart.DELETE("", cartHandler.Clear)
		cart.POST("/items", cartHandler.AddItem)
		cart.PUT("/items/:productId", cartHandler.UpdateItem)
		cart.DELETE("/items/:productId", cartHandler.RemoveItem)
	}
}
