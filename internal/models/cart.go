package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// CartItem est une ligne de panier : un instantané de l'article au moment de
// l'ajout, possédé exclusivement par l'email du client.
type CartItem struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email      string             `bson:"email" json:"email"`
	MenuItemID string             `bson:"menuItemId" json:"menuItemId"`
	Name       string             `bson:"name" json:"name"`
	Image      string             `bson:"image,omitempty" json:"image,omitempty"`
	Price      float64            `bson:"price" json:"price"`
}
