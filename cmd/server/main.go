package main

import (
	"log"
	"os"

	"bistro_back_end/internal/config"
	"bistro_back_end/internal/database"
	"bistro_back_end/internal/gateway"
	"bistro_back_end/internal/handlers/payment"
	"bistro_back_end/internal/repository"
	"bistro_back_end/internal/routes"
	"bistro_back_end/internal/services"
	"bistro_back_end/internal/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
)

func main() {
	config.Load()

	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")
	if stripe.Key == "" {
		log.Fatal("❌ Impossible d'initialiser Stripe : clé manquante")
	}
	log.Println("✅ Stripe initialisé")

	database.ConnectDatabases()
	services.ConnectMinio()

	// Services construits une fois au démarrage, injectés dans les handlers
	sslczConfig := config.LoadSSLCommerz()
	paymentService := services.NewPaymentService(
		repository.NewMongoPaymentStore(),
		gateway.StripeGateway{},
		gateway.NewSSLCommerzClient(sslczConfig),
		utils.NewSMTPMailer(),
		sslczConfig.Currency,
	)
	paymentHandler := payment.NewHandler(paymentService, sslczConfig)

	r := gin.Default()
	r.Use(cors.Default())
	routes.RegisterRoutes(r, paymentHandler)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5000"
	}
	log.Println("🚀 Serveur Bistro Boss lancé sur le port", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("❌ Serveur arrêté:", err)
	}
}
