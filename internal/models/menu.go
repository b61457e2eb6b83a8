package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type MenuItem struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	Category string             `bson:"category" json:"category"`
	Price    float64            `bson:"price" json:"price"`
	Image    string             `bson:"image,omitempty" json:"image,omitempty"`
	Recipe   string             `bson:"recipe,omitempty" json:"recipe,omitempty"`
}

type Review struct {
	ID      primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name    string             `bson:"name" json:"name"`
	Details string             `bson:"details" json:"details"`
	Rating  float64            `bson:"rating" json:"rating"`
}
