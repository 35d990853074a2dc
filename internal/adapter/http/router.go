package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/webdroid21/component-pulse-sub000/internal/adapter/http/middleware"
	"github.com/webdroid21/component-pulse-sub000/internal/logging"
)

type Handlers struct {
	Catalog  *CatalogHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Orders   *OrderHandler
	Admin    *AdminHandler
	Token    *TokenHandler
	Webhook  *WebhookHandler
}

func NewRouter(h Handlers, authz *middleware.Authz) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/token", h.Token.IssueToken)
	r.POST("/v1/webhooks/payment", h.Webhook.HandlePayment)

	v1 := r.Group("/v1")
	{
		// public catalog
		v1.GET("/store", h.Catalog.GetStoreInfo)
		v1.GET("/products", h.Catalog.ListProducts)
		v1.GET("/products/:id", h.Catalog.GetProduct)
		v1.GET("/categories", h.Catalog.ListCategories)

		// session cart
		v1.GET("/cart", h.Cart.GetCart)
		v1.POST("/cart/items", h.Cart.AddItem)
		v1.PATCH("/cart/items/:productId", h.Cart.ChangeQuantity)
		v1.DELETE("/cart/items/:productId", h.Cart.RemoveItem)
		v1.DELETE("/cart", h.Cart.ClearCart)
		v1.POST("/cart/coupon", h.Cart.ApplyCoupon)

		// checkout flow
		v1.GET("/checkout", h.Checkout.GetState)
		v1.PUT("/checkout/shipping", h.Checkout.SubmitShipping)
		v1.PUT("/checkout/delivery", h.Checkout.SelectDelivery)
		v1.PUT("/checkout/payment", h.Checkout.SelectPayment)
		v1.POST("/checkout/back", h.Checkout.Back)
		v1.POST("/checkout/submit", h.Checkout.Submit)

		// own orders, scoped by session id
		v1.GET("/orders", h.Orders.ListMyOrders)
		v1.GET("/orders/:id", h.Orders.GetMyOrder)
		v1.GET("/orders/:id/status", h.Orders.GetOrderStatus)
	}

	admin := r.Group("/v1/admin")
	{
		admin.GET("/products", authz.Require("catalog.read"), h.Admin.ListProducts)
		admin.POST("/products", authz.Require("catalog.write"), h.Admin.CreateProduct)
		admin.PUT("/products/:id", authz.Require("catalog.write"), h.Admin.UpdateProduct)
		admin.DELETE("/products/:id", authz.Require("catalog.write"), h.Admin.DeleteProduct)
		admin.PATCH("/products/:id/published", authz.Require("catalog.write"), h.Admin.SetProductPublished)

		admin.POST("/categories", authz.Require("catalog.write"), h.Admin.CreateCategory)
		admin.DELETE("/categories/:id", authz.Require("catalog.write"), h.Admin.DeleteCategory)

		admin.GET("/customers", authz.Require("customers.read"), h.Admin.ListCustomers)
		admin.GET("/customers/:id", authz.Require("customers.read"), h.Admin.GetCustomer)

		admin.GET("/settings", authz.Require("settings.read"), h.Admin.GetSettings)
		admin.PUT("/settings", authz.Require("settings.write"), h.Admin.UpdateSettings)

		admin.GET("/coupons", authz.Require("coupons.write"), h.Admin.ListCoupons)
		admin.POST("/coupons", authz.Require("coupons.write"), h.Admin.CreateCoupon)
		admin.PATCH("/coupons/:code/active", authz.Require("coupons.write"), h.Admin.SetCouponActive)

		admin.GET("/orders/:id", authz.Require("orders.read"), h.Admin.GetOrder)
		admin.PATCH("/orders/:id/status", authz.Require("orders.write"), h.Admin.UpdateOrderStatus)
	}

	return r
}
