package payment

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetAdminStats retourne les compteurs globaux et le chiffre d'affaires.
// GET /admin-stats (admin)
func (h *Handler) GetAdminStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	stats, err := h.svc.Stats(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur calcul statistiques"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetOrderStats retourne le volume de commandes et le chiffre d'affaires par
// catégorie de plat. GET /order-stats (admin)
func (h *Handler) GetOrderStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	stats, err := h.svc.OrderStats(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur calcul statistiques"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
