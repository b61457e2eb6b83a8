package payment

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bistro_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// CreateRedirectPayment initie le flux par page de paiement hébergée et
// retourne l'URL du gateway. POST /create-payment (auth)
func (h *Handler) CreateRedirectPayment(c *gin.Context) {
	var input struct {
		Amount float64 `json:"amount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	paymentURL, err := h.svc.InitiateRedirect(ctx, c.GetString("email"), input.Amount)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidPrice):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Montant invalide"})
		case errors.Is(err, services.ErrGatewayFailure):
			c.JSON(http.StatusBadGateway, gin.H{"error": "Initiation du paiement échouée"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur enregistrement paiement"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"paymentUrl": paymentURL})
}

// PaymentSuccess est le callback succès du gateway. Pas de token ici : c'est
// le gateway qui appelle, et la confiance repose sur le transaction id généré
// côté serveur. POST /success-payment (non authentifié par conception)
func (h *Handler) PaymentSuccess(c *gin.Context) {
	status := c.PostForm("status")
	transactionID := c.PostForm("tran_id")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := h.svc.ResolveSuccess(ctx, status, transactionID)
	switch {
	case errors.Is(err, services.ErrInvalidCallback):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Callback de paiement invalide"})
		return
	case errors.Is(err, services.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Paiement introuvable"})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur traitement callback"})
		return
	}

	c.Redirect(http.StatusFound, h.cfg.ClientSuccessURL)
}

// PaymentFail marque le paiement comme échoué puis renvoie le navigateur vers
// la page d'échec. POST /fail (non authentifié par conception)
func (h *Handler) PaymentFail(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	h.svc.ResolveFail(ctx, c.PostForm("tran_id"))
	c.Redirect(http.StatusFound, h.cfg.ClientFailURL)
}

// PaymentCancel marque le paiement comme annulé puis renvoie le navigateur
// vers la page d'annulation. POST /cancel (non authentifié par conception)
func (h *Handler) PaymentCancel(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	h.svc.ResolveCancel(ctx, c.PostForm("tran_id"))
	c.Redirect(http.StatusFound, h.cfg.ClientCancelURL)
}
