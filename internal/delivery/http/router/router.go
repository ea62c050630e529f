// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"bazaar/config"
	"bazaar/internal/delivery/http/middleware"
	"bazaar/internal/delivery/http/router/handler"
	"bazaar/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	UserHandler     *handler.UserHandler
	ContactHandler  *handler.ContactHandler
	CatalogHandler  *handler.CatalogHandler
	SupplierHandler *handler.SupplierHandler
	OrderHandler    *handler.OrderHandler
	TestHandler     *handler.TestHandler
	AuthMiddleware  *middleware.AuthMiddleware
	Config          *config.Config
}

// router holds all the handlers that need to be registered.
type router struct {
	userHandler     *handler.UserHandler
	contactHandler  *handler.ContactHandler
	catalogHandler  *handler.CatalogHandler
	supplierHandler *handler.SupplierHandler
	orderHandler    *handler.OrderHandler
	testHandler     *handler.TestHandler
	authMiddleware  *middleware.AuthMiddleware
	config          *config.Config
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		userHandler:     params.UserHandler,
		contactHandler:  params.ContactHandler,
		catalogHandler:  params.CatalogHandler,
		supplierHandler: params.SupplierHandler,
		orderHandler:    params.OrderHandler,
		testHandler:     params.TestHandler,
		authMiddleware:  params.AuthMiddleware,
		config:          params.Config,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Account and session routes (no authentication)
	e.POST("/register/", r.userHandler.Register)
	e.POST("/login/", r.userHandler.Login)
	e.POST("/token_refresh/", r.userHandler.RefreshToken)
	e.POST("/logout/", r.userHandler.Logout)

	// Storefront browsing requires a logged-in account
	catalogGroup := e.Group("")
	catalogGroup.Use(r.authMiddleware.Authenticate)
	{
		catalogGroup.GET("/shop/", r.catalogHandler.ListShops)
		catalogGroup.GET("/category/", r.catalogHandler.ListCategories)
		catalogGroup.GET("/product/", r.catalogHandler.ListProducts)
	}

	// Delivery contacts
	contactGroup := e.Group("/get_contact")
	contactGroup.Use(r.authMiddleware.Authenticate)
	{
		contactGroup.POST("/", r.contactHandler.CreateContact)
		contactGroup.GET("/", r.contactHandler.ListContacts)
		contactGroup.DELETE("/:contact_id/", r.contactHandler.DeleteContact)
	}

	// Basket and order lifecycle
	orderGroup := e.Group("")
	orderGroup.Use(r.authMiddleware.Authenticate)
	{
		orderGroup.POST("/orders/", r.orderHandler.AddItems)
		orderGroup.GET("/orders/", r.orderHandler.ListOrders)
		orderGroup.GET("/orders/:order_id/", r.orderHandler.GetOrder)
		orderGroup.PATCH("/basket/", r.orderHandler.SubmitBasket)
		orderGroup.POST("/order_confirmation/", r.orderHandler.ConfirmOrder)
	}

	// Catalog feed ingestion requires the shop role
	supplierGroup := e.Group("/update")
	supplierGroup.Use(r.authMiddleware.Authenticate)
	supplierGroup.Use(r.authMiddleware.RequireRole(entity.RoleShop))
	{
		supplierGroup.POST("/:file_name/", r.supplierHandler.UpdateCatalog)
	}
}

func (r *router) RegisterTestRoutes(e *echo.Echo) {
	// Test routes - only enabled when configured
	if r.config.TestRoutes != nil && r.config.TestRoutes.Enabled {
		// Test routes that require authentication
		testGroup := e.Group("/test")
		testGroup.GET("/public", r.testHandler.TestPublicEndpoint)

		testGroup.Use(r.authMiddleware.Authenticate) // Apply JWT authentication middleware
		{
			testGroup.GET("/auth", r.testHandler.TestAuthMiddleware)
		}
	}
}
