package gateway

import (
	"context"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
)

// MinorUnits convertit un prix en unités majeures (10.00 €) vers le montant
// entier en centimes attendu par le gateway carte (1000). La troncature est la
// convention du gateway : 10.005 donne 1000, pas 1001.
func MinorUnits(price float64) int64 {
	return int64(price * 100)
}

// StripeGateway crée des PaymentIntents carte via l'API synchrone Stripe.
type StripeGateway struct{}

func (StripeGateway) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Params:             stripe.Params{Context: ctx},
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", err
	}
	return intent.ClientSecret, nil
}
