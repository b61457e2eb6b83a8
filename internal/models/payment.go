package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Statuts possibles d'un paiement. Une fois dans un état terminal
// (success, fail, cancelled), un paiement n'en sort plus.
const (
	PaymentPending   = "pending"
	PaymentSuccess   = "success"
	PaymentFail      = "fail"
	PaymentCancelled = "cancelled"
)

// Payment est l'enregistrement d'un paiement. TransactionID est généré par le
// serveur, une seule fois, à la création — jamais fourni par le client. C'est
// lui qui relie un paiement initié à son callback de résultat.
type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email         string             `bson:"email" json:"email"`
	Price         float64            `bson:"price" json:"price"`
	Currency      string             `bson:"currency,omitempty" json:"currency,omitempty"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	CartIDs       []string           `bson:"cartIds,omitempty" json:"cartIds,omitempty"`
	MenuItemIDs   []string           `bson:"menuItemIds,omitempty" json:"menuItemIds,omitempty"`
	Status        string             `bson:"status" json:"status"`
	Date          time.Time          `bson:"date" json:"date"`
}

// CategoryStat est une ligne du rapport commandes-par-catégorie.
type CategoryStat struct {
	Category string  `bson:"category" json:"category"`
	Quantity int64   `bson:"quantity" json:"quantity"`
	Revenue  float64 `bson:"revenue" json:"revenue"`
}
