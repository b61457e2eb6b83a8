package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"bistro_back_end/internal/gateway"
	"bistro_back_end/internal/models"
	"bistro_back_end/internal/utils"

	"github.com/google/uuid"
)

// Erreurs du sous-système de paiement. Les erreurs brutes du gateway ou du
// stockage sont loggées ici et ne remontent jamais telles quelles au client.
var (
	ErrInvalidPrice    = errors.New("prix invalide")
	ErrGatewayFailure  = errors.New("initiation du paiement échouée")
	ErrInvalidCallback = errors.New("callback de paiement invalide")
	ErrPaymentNotFound = errors.New("paiement introuvable")
)

// PaymentStore est le contrat de persistance consommé par le service.
type PaymentStore interface {
	InsertPayment(ctx context.Context, p *models.Payment) error
	UpdatePaymentStatus(ctx context.Context, transactionID, from, to string) (int64, error)
	FindPaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error)
	FindPaymentsByEmail(ctx context.Context, email string) ([]models.Payment, error)
	DeleteOwnedCartItems(ctx context.Context, email string, cartIDs []string) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CountMenuItems(ctx context.Context) (int64, error)
	CountPayments(ctx context.Context) (int64, error)
	TotalRevenue(ctx context.Context) (float64, error)
	CategoryBreakdown(ctx context.Context) ([]models.CategoryStat, error)
}

// IntentCreator est le gateway carte synchrone.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (string, error)
}

// RedirectGateway est le gateway asynchrone à page de paiement hébergée.
type RedirectGateway interface {
	Initiate(ctx context.Context, req gateway.InitiateRequest) (string, error)
}

type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// PaymentService porte toute la logique de paiement et de réconciliation.
// Construit une fois au démarrage, injecté dans les handlers.
type PaymentService struct {
	store    PaymentStore
	intents  IntentCreator
	redirect RedirectGateway
	mailer   Mailer
	currency string // devise du flux redirection
}

func NewPaymentService(store PaymentStore, intents IntentCreator, redirect RedirectGateway, mailer Mailer, currency string) *PaymentService {
	return &PaymentService{
		store:    store,
		intents:  intents,
		redirect: redirect,
		mailer:   mailer,
		currency: currency,
	}
}

// CreateIntent demande au gateway carte un intent pour le prix donné et
// retourne le client secret. Aucun état local n'est créé : en cas d'échec le
// client peut simplement réessayer.
func (s *PaymentService) CreateIntent(ctx context.Context, price float64) (string, error) {
	if price <= 0 {
		return "", ErrInvalidPrice
	}

	amount := gateway.MinorUnits(price)
	secret, err := s.intents.CreateIntent(ctx, amount, "usd")
	if err != nil {
		log.Println("❌ Erreur gateway carte:", err)
		return "", ErrGatewayFailure
	}
	return secret, nil
}

// InitiateRedirect démarre le flux par redirection : transaction id frais,
// appel gateway, puis enregistrement pending. Si le gateway échoue, rien n'est
// persisté. Si la persistance échoue après un gateway OK, la transaction
// orpheline est loggée (le gateway n'offre pas d'annulation à ce stade).
func (s *PaymentService) InitiateRedirect(ctx context.Context, email string, amount float64) (string, error) {
	if amount <= 0 {
		return "", ErrInvalidPrice
	}

	transactionID := uuid.NewString()

	paymentURL, err := s.redirect.Initiate(ctx, gateway.InitiateRequest{
		TransactionID: transactionID,
		Amount:        amount,
		CustomerEmail: email,
	})
	if err != nil {
		log.Println("❌ Erreur gateway redirection:", err)
		return "", ErrGatewayFailure
	}

	payment := &models.Payment{
		Email:         email,
		Price:         amount,
		Currency:      s.currency,
		TransactionID: transactionID,
		Status:        models.PaymentPending,
		Date:          time.Now(),
	}
	if err := s.store.InsertPayment(ctx, payment); err != nil {
		log.Printf("❌ Persistance paiement échouée — transaction orpheline côté gateway: %s (%v)", transactionID, err)
		return "", fmt.Errorf("enregistrement du paiement: %w", err)
	}

	log.Printf("💳 Paiement redirection initié : %s (%.2f %s) pour %s", transactionID, amount, s.currency, email)
	return paymentURL, nil
}

// ResolveSuccess traite le callback succès du gateway. La confiance repose sur
// le transaction id indevinable généré côté serveur, pas sur un credential — le
// gateway ne peut pas en présenter un. Idempotent : un callback dupliqué pour
// un paiement déjà en succès est un no-op.
func (s *PaymentService) ResolveSuccess(ctx context.Context, status, transactionID string) error {
	if status != gateway.StatusValid || transactionID == "" {
		return ErrInvalidCallback
	}

	modified, err := s.store.UpdatePaymentStatus(ctx, transactionID, models.PaymentPending, models.PaymentSuccess)
	if err != nil {
		return err
	}
	if modified > 0 {
		log.Printf("✅ Paiement confirmé : %s", transactionID)
		return nil
	}

	// Rien n'a bougé : soit le paiement n'existe pas, soit il est déjà terminal.
	payment, err := s.store.FindPaymentByTransactionID(ctx, transactionID)
	if err != nil {
		return ErrPaymentNotFound
	}
	if payment.Status == models.PaymentSuccess {
		log.Printf("🔁 Callback dupliqué ignoré : %s", transactionID)
		return nil
	}
	return ErrInvalidCallback
}

// ResolveFail et ResolveCancel font passer un paiement pending dans l'état
// terminal correspondant. Un transaction id absent ou inconnu n'est pas une
// erreur : le navigateur du payeur doit de toute façon être redirigé.
func (s *PaymentService) ResolveFail(ctx context.Context, transactionID string) {
	s.resolveTerminal(ctx, transactionID, models.PaymentFail)
}

func (s *PaymentService) ResolveCancel(ctx context.Context, transactionID string) {
	s.resolveTerminal(ctx, transactionID, models.PaymentCancelled)
}

func (s *PaymentService) resolveTerminal(ctx context.Context, transactionID, to string) {
	if transactionID == "" {
		return
	}
	modified, err := s.store.UpdatePaymentStatus(ctx, transactionID, models.PaymentPending, to)
	if err != nil {
		log.Printf("❌ Transition %s impossible pour %s: %v", to, transactionID, err)
		return
	}
	if modified > 0 {
		log.Printf("ℹ️ Paiement %s passé en %s", transactionID, to)
	}
}

// Reconcile enregistre un paiement carte confirmé puis purge les lignes de
// panier couvertes. Seules les lignes appartenant au payeur sont supprimées ;
// re-supprimer des lignes déjà absentes est un no-op. Un échec de purge après
// l'insertion est loggé comme incohérence de réconciliation mais ne fait pas
// échouer l'opération : le paiement, lui, a bien eu lieu.
func (s *PaymentService) Reconcile(ctx context.Context, payment *models.Payment) (int64, error) {
	// Statut et horodatage sont imposés ici quel que soit le payload reçu.
	payment.Status = models.PaymentSuccess
	payment.Date = time.Now()

	if err := s.store.InsertPayment(ctx, payment); err != nil {
		return 0, fmt.Errorf("enregistrement du paiement: %w", err)
	}

	deleted, err := s.store.DeleteOwnedCartItems(ctx, payment.Email, payment.CartIDs)
	if err != nil {
		log.Printf("⚠️ Incohérence de réconciliation — paiement %s enregistré mais panier non purgé: %v",
			payment.TransactionID, err)
	}

	// E-mail de confirmation en tâche détachée : son échec ne concerne pas la requête
	go s.sendConfirmation(payment.Email, payment.TransactionID)

	return deleted, nil
}

func (s *PaymentService) sendConfirmation(email, transactionID string) {
	html := utils.GeneratePaymentConfirmationHTML(transactionID)
	if err := s.mailer.Send(email, "Bistro Boss — Confirmation de commande", html); err != nil {
		log.Println("❌ Erreur envoi e-mail confirmation:", err)
		return
	}
	log.Println("📧 E-mail de confirmation envoyé à", email)
}

// History retourne l'historique de paiement d'un client.
func (s *PaymentService) History(ctx context.Context, email string) ([]models.Payment, error) {
	return s.store.FindPaymentsByEmail(ctx, email)
}

// AdminStats regroupe les compteurs globaux et le chiffre d'affaires.
type AdminStats struct {
	Users     int64   `json:"users"`
	MenuItems int64   `json:"menuItems"`
	Orders    int64   `json:"orders"`
	Revenue   float64 `json:"revenue"`
}

func (s *PaymentService) Stats(ctx context.Context) (*AdminStats, error) {
	users, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, err
	}
	menuItems, err := s.store.CountMenuItems(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.store.CountPayments(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.store.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}

	return &AdminStats{
		Users:     users,
		MenuItems: menuItems,
		Orders:    orders,
		Revenue:   revenue,
	}, nil
}

func (s *PaymentService) OrderStats(ctx context.Context) ([]models.CategoryStat, error) {
	return s.store.CategoryBreakdown(ctx)
}
