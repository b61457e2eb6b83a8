package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"bistro_back_end/internal/gateway"
	"bistro_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockStore struct {
	mock.Mock
}

func (m *MockStore) InsertPayment(ctx context.Context, p *models.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockStore) UpdatePaymentStatus(ctx context.Context, transactionID, from, to string) (int64, error) {
	args := m.Called(ctx, transactionID, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) FindPaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *MockStore) FindPaymentsByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *MockStore) DeleteOwnedCartItems(ctx context.Context, email string, cartIDs []string) (int64, error) {
	args := m.Called(ctx, email, cartIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) CountUsers(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) CountMenuItems(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) CountPayments(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStore) TotalRevenue(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockStore) CategoryBreakdown(ctx context.Context) ([]models.CategoryStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CategoryStat), args.Error(1)
}

type MockIntents struct {
	mock.Mock
}

func (m *MockIntents) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	args := m.Called(ctx, amount, currency)
	return args.String(0), args.Error(1)
}

type MockRedirect struct {
	mock.Mock
}

func (m *MockRedirect) Initiate(ctx context.Context, req gateway.InitiateRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

type MockMailer struct {
	mock.Mock
	sent chan struct{}
}

func (m *MockMailer) Send(to, subject, htmlBody string) error {
	args := m.Called(to, subject, htmlBody)
	if m.sent != nil {
		m.sent <- struct{}{}
	}
	return args.Error(0)
}

func newService(store *MockStore, intents *MockIntents, redirect *MockRedirect, mailer *MockMailer) *PaymentService {
	return NewPaymentService(store, intents, redirect, mailer, "EUR")
}

// --- Intent carte ---

func TestCreateIntent(t *testing.T) {
	t.Run("le montant est tronqué en centimes", func(t *testing.T) {
		intents := new(MockIntents)
		svc := newService(new(MockStore), intents, new(MockRedirect), new(MockMailer))

		// 10.00 → 1000 et 10.005 → 1000 : troncature, pas d'arrondi
		intents.On("CreateIntent", mock.Anything, int64(1000), "usd").Return("secret_abc", nil).Twice()

		secret, err := svc.CreateIntent(context.Background(), 10.00)
		assert.NoError(t, err)
		assert.Equal(t, "secret_abc", secret)

		_, err = svc.CreateIntent(context.Background(), 10.005)
		assert.NoError(t, err)

		intents.AssertExpectations(t)
	})

	t.Run("prix invalide refusé sans appel gateway", func(t *testing.T) {
		intents := new(MockIntents)
		svc := newService(new(MockStore), intents, new(MockRedirect), new(MockMailer))

		_, err := svc.CreateIntent(context.Background(), 0)
		assert.ErrorIs(t, err, ErrInvalidPrice)

		_, err = svc.CreateIntent(context.Background(), -3)
		assert.ErrorIs(t, err, ErrInvalidPrice)

		intents.AssertNotCalled(t, "CreateIntent")
	})

	t.Run("erreur gateway traduite, jamais brute", func(t *testing.T) {
		intents := new(MockIntents)
		svc := newService(new(MockStore), intents, new(MockRedirect), new(MockMailer))

		intents.On("CreateIntent", mock.Anything, int64(500), "usd").
			Return("", errors.New("stripe: card_declined internals")).Once()

		_, err := svc.CreateIntent(context.Background(), 5)
		assert.ErrorIs(t, err, ErrGatewayFailure)
		assert.NotContains(t, err.Error(), "stripe")
	})
}

// --- Initiation redirection ---

func TestInitiateRedirect(t *testing.T) {
	t.Run("crée un enregistrement pending avec un transaction id frais", func(t *testing.T) {
		store := new(MockStore)
		redirect := new(MockRedirect)
		svc := newService(store, new(MockIntents), redirect, new(MockMailer))

		var sentToGateway string
		redirect.On("Initiate", mock.Anything, mock.MatchedBy(func(req gateway.InitiateRequest) bool {
			sentToGateway = req.TransactionID
			return req.Amount == 42.5 && req.CustomerEmail == "client@test.com" && req.TransactionID != ""
		})).Return("https://gateway/page", nil).Once()

		var saved *models.Payment
		store.On("InsertPayment", mock.Anything, mock.AnythingOfType("*models.Payment")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(*models.Payment)
			}).Return(nil).Once()

		url, err := svc.InitiateRedirect(context.Background(), "client@test.com", 42.5)

		assert.NoError(t, err)
		assert.Equal(t, "https://gateway/page", url)
		assert.Equal(t, models.PaymentPending, saved.Status)
		assert.Equal(t, "client@test.com", saved.Email)
		assert.Equal(t, 42.5, saved.Price)
		assert.Equal(t, sentToGateway, saved.TransactionID)
		assert.False(t, saved.Date.IsZero())
	})

	t.Run("deux initiations produisent deux transaction ids distincts", func(t *testing.T) {
		store := new(MockStore)
		redirect := new(MockRedirect)
		svc := newService(store, new(MockIntents), redirect, new(MockMailer))

		seen := map[string]bool{}
		redirect.On("Initiate", mock.Anything, mock.Anything).Return("https://gateway/page", nil).Twice()
		store.On("InsertPayment", mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) {
				seen[args.Get(1).(*models.Payment).TransactionID] = true
			}).Return(nil).Twice()

		_, err := svc.InitiateRedirect(context.Background(), "a@test.com", 10)
		assert.NoError(t, err)
		_, err = svc.InitiateRedirect(context.Background(), "a@test.com", 10)
		assert.NoError(t, err)

		assert.Len(t, seen, 2)
	})

	t.Run("échec gateway : rien n'est persisté", func(t *testing.T) {
		store := new(MockStore)
		redirect := new(MockRedirect)
		svc := newService(store, new(MockIntents), redirect, new(MockMailer))

		redirect.On("Initiate", mock.Anything, mock.Anything).
			Return("", errors.New("timeout gateway")).Once()

		_, err := svc.InitiateRedirect(context.Background(), "a@test.com", 10)
		assert.ErrorIs(t, err, ErrGatewayFailure)
		store.AssertNotCalled(t, "InsertPayment")
	})
}

// --- Résolution du callback ---

func TestResolveSuccess(t *testing.T) {
	t.Run("pending passe en success", func(t *testing.T) {
		store := new(MockStore)
		svc := newService(store, new(MockIntents), new(MockRedirect), new(MockMailer))

		store.On("UpdatePaymentStatus", mock.Anything, "tx-1", models.PaymentPending, models.PaymentSuccess).
			Return(int64(1), nil).Once()

		err := svc.ResolveSuccess(context.Background(), gateway.StatusValid, "tx-1")
		assert.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("callback dupliqué : no-op, pas une erreur", func(t *testing.T) {
		store := new(MockStore)
		svc := newService(store, new(MockIntents), new(MockRedirect), new(MockMailer))

		store.On("UpdatePaymentStatus", mock.Anything, "tx-1", models.PaymentPending, models.PaymentSuccess).
			Return(int64(0), nil).Once()
		store.On("FindPaymentByTransactionID", mock.Anything, "tx-1").
			Return(&models.Payment{TransactionID: "tx-1", Status: models.PaymentSuccess}, nil).Once()

		err := svc.ResolveSuccess(context.Background(), gateway.StatusValid, "tx-1")
		assert.NoError(t, err)
	})

	t.Run("statut non VALID rejeté sans mutation", func(t *testing.T) {
		store := new(MockStore)
		svc := newService(store, new(MockIntents), new(MockRedirect), new(MockMailer))

		err := svc.ResolveSuccess(context.Background(), "FAILED", "tx-1")
		assert.ErrorIs(t, err, ErrInvalidCallback)
		store.AssertNotCalled(t, "UpdatePaymentStatus")
	})

	t.Run("transaction id inconnu", func(t *testing.T) {
		store := new(MockStore)
		svc := newService(store, new(MockIntents), new(MockRedirect), new(MockMailer))

		store.On("UpdatePaymentStatus", mock.Anything, "tx-nope", models.PaymentPending, models.PaymentSuccess).
			Return(int64(0), nil).Once()
		store.On("FindPaymentByTransactionID", mock.Anything, "tx-nope").
			Return(nil, errors.New("mongo: no documents in result")).Once()

		err := svc.ResolveSuccess(context.Background(), gateway.StatusValid, "tx-nope")
		assert.ErrorIs(t, err, ErrPaymentNotFound)
	})

	t.Run("pas de sortie d'un état terminal cancelled", func(t *testing.T) {
		store := new(MockStore)
		svc := newService(store, new(MockIntents), new(MockRedirect), new(MockMailer))

		store.On("UpdatePaymentStatus", mock.Anything, "tx-1", models.PaymentPending, models.PaymentSuccess).
			Return(int64(0), nil).Once()
		store.On("FindPaymentByTransactionID", mock.Anything, "tx-1").
			Return(&models.Payment{TransactionID: "tx-1", Status: models.PaymentCancelled}, nil).Once()

		err := svc.ResolveSuccess(context.Background(), gateway.StatusValid, "tx-1")
		assert.ErrorIs(t, err, ErrInvalidCallback)
	})
}

func TestResolveFailAndCancel(t *testing.T) {
	t.Run("fail et cancel sont des transitions terminales", func(t *testing.T) {
		store := new(MockStore)
		svc := newService(store, new(MockIntents), new(MockRedirect), new(MockMailer))

		store.On("UpdatePaymentStatus", mock.Anything, "tx-f", models.PaymentPending, models.PaymentFail).
			Return(int64(1), nil).Once()
		store.On("UpdatePaymentStatus", mock.Anything, "tx-c", models.PaymentPending, models.PaymentCancelled).
			Return(int64(1), nil).Once()

		svc.ResolveFail(context.Background(), "tx-f")
		svc.ResolveCancel(context.Background(), "tx-c")
		store.AssertExpectations(t)
	})

	t.Run("transaction id vide ignoré", func(t *testing.T) {
		store := new(MockStore)
		svc := newService(store, new(MockIntents), new(MockRedirect), new(MockMailer))

		svc.ResolveFail(context.Background(), "")
		store.AssertNotCalled(t, "UpdatePaymentStatus")
	})
}

// --- Réconciliation panier ---

func TestReconcile(t *testing.T) {
	t.Run("insère le paiement et purge le panier du payeur", func(t *testing.T) {
		store := new(MockStore)
		mailer := &MockMailer{sent: make(chan struct{}, 1)}
		svc := newService(store, new(MockIntents), new(MockRedirect), mailer)

		payment := &models.Payment{
			Email:         "client@test.com",
			Price:         25.5,
			TransactionID: "pi_123",
			CartIDs:       []string{"65a1", "65a2"},
		}

		store.On("InsertPayment", mock.Anything, payment).Return(nil).Once()
		// La suppression est bornée à l'email du payeur
		store.On("DeleteOwnedCartItems", mock.Anything, "client@test.com", []string{"65a1", "65a2"}).
			Return(int64(2), nil).Once()
		mailer.On("Send", "client@test.com", mock.Anything, mock.MatchedBy(func(html string) bool {
			return strings.Contains(html, "pi_123")
		})).Return(nil).Once()

		deleted, err := svc.Reconcile(context.Background(), payment)

		assert.NoError(t, err)
		assert.Equal(t, int64(2), deleted)
		assert.Equal(t, models.PaymentSuccess, payment.Status)

		select {
		case <-mailer.sent:
		case <-time.After(2 * time.Second):
			t.Fatal("e-mail de confirmation jamais envoyé")
		}
		mailer.AssertExpectations(t)
	})

	t.Run("panier déjà vide : no-op, pas une erreur", func(t *testing.T) {
		store := new(MockStore)
		mailer := &MockMailer{sent: make(chan struct{}, 1)}
		svc := newService(store, new(MockIntents), new(MockRedirect), mailer)

		payment := &models.Payment{Email: "client@test.com", TransactionID: "pi_456"}

		store.On("InsertPayment", mock.Anything, payment).Return(nil).Once()
		store.On("DeleteOwnedCartItems", mock.Anything, "client@test.com", []string(nil)).
			Return(int64(0), nil).Once()
		mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		deleted, err := svc.Reconcile(context.Background(), payment)
		assert.NoError(t, err)
		assert.Equal(t, int64(0), deleted)
		<-mailer.sent
	})

	t.Run("échec de purge loggé, pas remonté : le paiement a eu lieu", func(t *testing.T) {
		store := new(MockStore)
		mailer := &MockMailer{sent: make(chan struct{}, 1)}
		svc := newService(store, new(MockIntents), new(MockRedirect), mailer)

		payment := &models.Payment{Email: "client@test.com", TransactionID: "pi_789", CartIDs: []string{"65b1"}}

		store.On("InsertPayment", mock.Anything, payment).Return(nil).Once()
		store.On("DeleteOwnedCartItems", mock.Anything, "client@test.com", []string{"65b1"}).
			Return(int64(0), errors.New("mongo indisponible")).Once()
		mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		_, err := svc.Reconcile(context.Background(), payment)
		assert.NoError(t, err)
		<-mailer.sent
	})

	t.Run("échec d'e-mail avalé, jamais remonté", func(t *testing.T) {
		store := new(MockStore)
		mailer := &MockMailer{sent: make(chan struct{}, 1)}
		svc := newService(store, new(MockIntents), new(MockRedirect), mailer)

		payment := &models.Payment{Email: "client@test.com", TransactionID: "pi_999"}

		store.On("InsertPayment", mock.Anything, payment).Return(nil).Once()
		store.On("DeleteOwnedCartItems", mock.Anything, "client@test.com", []string(nil)).
			Return(int64(0), nil).Once()
		mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("SMTP injoignable")).Once()

		_, err := svc.Reconcile(context.Background(), payment)
		assert.NoError(t, err)
		<-mailer.sent
	})

	t.Run("échec d'insertion remonté", func(t *testing.T) {
		store := new(MockStore)
		svc := newService(store, new(MockIntents), new(MockRedirect), new(MockMailer))

		payment := &models.Payment{Email: "client@test.com", TransactionID: "pi_000"}
		store.On("InsertPayment", mock.Anything, payment).Return(errors.New("mongo down")).Once()

		_, err := svc.Reconcile(context.Background(), payment)
		assert.Error(t, err)
		store.AssertNotCalled(t, "DeleteOwnedCartItems")
	})
}

// --- Stats ---

func TestStats(t *testing.T) {
	t.Run("agrège compteurs et chiffre d'affaires", func(t *testing.T) {
		store := new(MockStore)
		svc := newService(store, new(MockIntents), new(MockRedirect), new(MockMailer))

		store.On("CountUsers", mock.Anything).Return(int64(12), nil).Once()
		store.On("CountMenuItems", mock.Anything).Return(int64(40), nil).Once()
		store.On("CountPayments", mock.Anything).Return(int64(3), nil).Once()
		// Le chiffre d'affaires somme tous les enregistrements, y compris les
		// non-success (comportement produit assumé) : 12.5 + 7.25 + 0 = 19.75
		store.On("TotalRevenue", mock.Anything).Return(19.75, nil).Once()

		stats, err := svc.Stats(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, int64(12), stats.Users)
		assert.Equal(t, int64(40), stats.MenuItems)
		assert.Equal(t, int64(3), stats.Orders)
		assert.Equal(t, 19.75, stats.Revenue)
	})

	t.Run("répartition par catégorie", func(t *testing.T) {
		store := new(MockStore)
		svc := newService(store, new(MockIntents), new(MockRedirect), new(MockMailer))

		store.On("CategoryBreakdown", mock.Anything).Return([]models.CategoryStat{
			{Category: "Salad", Quantity: 2, Revenue: 17},
		}, nil).Once()

		stats, err := svc.OrderStats(context.Background())
		assert.NoError(t, err)
		assert.Equal(t, "Salad", stats[0].Category)
		assert.Equal(t, int64(2), stats[0].Quantity)
		assert.Equal(t, float64(17), stats[0].Revenue)
	})
}
