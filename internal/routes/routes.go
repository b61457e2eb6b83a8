package routes

import (
	"net/http"

	"bistro_back_end/internal/handlers"
	"bistro_back_end/internal/handlers/cart"
	"bistro_back_end/internal/handlers/menu"
	"bistro_back_end/internal/handlers/payment"
	"bistro_back_end/internal/handlers/user"
	"bistro_back_end/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, pay *payment.Handler) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "boss is sitting"})
	})

	// Auth
	r.POST("/jwt", handlers.IssueToken)

	// Users
	r.GET("/users", middleware.AuthRequired(), middleware.RequireAdmin, user.GetUsers)
	r.GET("/users/admin/:email", middleware.AuthRequired(), user.CheckAdmin)
	r.POST("/users", user.CreateUser)
	r.PATCH("/users/admin/:id", middleware.AuthRequired(), middleware.RequireAdmin, user.PromoteToAdmin)
	r.DELETE("/users/:id", middleware.AuthRequired(), middleware.RequireAdmin, user.DeleteUser)

	// Menu & avis
	r.GET("/menu", menu.GetMenu)
	r.GET("/menu/:id", menu.GetMenuItem)
	r.POST("/menu", middleware.AuthRequired(), middleware.RequireAdmin, menu.CreateMenuItem)
	r.PATCH("/menu/:id", middleware.AuthRequired(), middleware.RequireAdmin, menu.UpdateMenuItem)
	r.DELETE("/menu/:id", middleware.AuthRequired(), middleware.RequireAdmin, menu.DeleteMenuItem)
	r.POST("/menu/image", middleware.AuthRequired(), middleware.RequireAdmin, menu.UploadImage)
	r.GET("/reviews", menu.GetReviews)

	// Panier
	r.GET("/carts", middleware.AuthRequired(), cart.GetCart)
	r.POST("/carts", middleware.AuthRequired(), cart.AddToCart)
	r.DELETE("/carts/:id", middleware.AuthRequired(), cart.DeleteCartItem)

	// Paiement carte (Stripe)
	r.POST("/create-payment-intent", middleware.AuthRequired(), pay.CreatePaymentIntent)
	r.POST("/payments", middleware.AuthRequired(), pay.CreatePayment)
	r.GET("/payments/:email", middleware.AuthRequired(), pay.GetPaymentHistory)

	// Paiement par redirection (SSLCommerz)
	r.POST("/create-payment", middleware.AuthRequired(), pay.CreateRedirectPayment)

	// Callbacks gateway — pas de token : c'est le gateway qui appelle,
	// la confiance repose sur le transaction id généré côté serveur
	r.POST("/success-payment", pay.PaymentSuccess)
	r.POST("/fail", pay.PaymentFail)
	r.POST("/cancel", pay.PaymentCancel)

	// Stats admin
	r.GET("/admin-stats", middleware.AuthRequired(), middleware.RequireAdmin, pay.GetAdminStats)
	r.GET("/order-stats", middleware.AuthRequired(), middleware.RequireAdmin, pay.GetOrderStats)
}
