package payment

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bistro_back_end/internal/config"
	"bistro_back_end/internal/middleware"
	"bistro_back_end/internal/models"
	"bistro_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Handler expose le sous-système de paiement sur HTTP. Construit une fois au
// démarrage avec le service injecté.
type Handler struct {
	svc *services.PaymentService
	cfg config.SSLCommerzConfig
}

func NewHandler(svc *services.PaymentService, cfg config.SSLCommerzConfig) *Handler {
	return &Handler{svc: svc, cfg: cfg}
}

// CreatePaymentIntent crée un intent carte et retourne le client secret.
// POST /create-payment-intent (auth)
func (h *Handler) CreatePaymentIntent(c *gin.Context) {
	var input struct {
		Price float64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	clientSecret, err := h.svc.CreateIntent(ctx, input.Price)
	if err != nil {
		if errors.Is(err, services.ErrInvalidPrice) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Prix invalide"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Initiation du paiement échouée"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"clientSecret": clientSecret})
}

// CreatePayment enregistre un paiement carte confirmé et purge le panier
// couvert. POST /payments (auth)
func (h *Handler) CreatePayment(c *gin.Context) {
	var payment models.Payment
	if err := c.ShouldBindJSON(&payment); err != nil || payment.TransactionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données de paiement invalides"})
		return
	}

	// L'identité du payeur vient du token : un payload ne peut pas viser le
	// panier d'un autre client. L'id et la date sont toujours attribués côté
	// serveur, jamais repris du payload.
	payment.Email = c.GetString("email")
	payment.ID = primitive.NilObjectID
	payment.Date = time.Time{}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	deleted, err := h.svc.Reconcile(ctx, &payment)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement paiement"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"paymentResult": gin.H{"insertedId": payment.ID},
		"deleteResult":  gin.H{"deletedCount": deleted},
	})
}

// GetPaymentHistory retourne l'historique d'un client. Accessible au client
// lui-même, ou à un admin. GET /payments/:email (auth)
func (h *Handler) GetPaymentHistory(c *gin.Context) {
	email := c.Param("email")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if email != c.GetString("email") && !middleware.IsAdmin(ctx, c.GetString("email")) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès interdit"})
		return
	}

	payments, err := h.svc.History(ctx, email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération historique"})
		return
	}

	c.JSON(http.StatusOK, payments)
}
