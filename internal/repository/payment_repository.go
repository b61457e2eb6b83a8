package repository

import (
	"context"

	"bistro_back_end/internal/database"
	"bistro_back_end/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPaymentStore est l'accès MongoDB du sous-système de paiement :
// paiements, lignes de panier à réconcilier, et les agrégations stats.
type MongoPaymentStore struct {
	payments *mongo.Collection
	carts    *mongo.Collection
	users    *mongo.Collection
	menu     *mongo.Collection
}

func NewMongoPaymentStore() *MongoPaymentStore {
	return &MongoPaymentStore{
		payments: database.Payments,
		carts:    database.Carts,
		users:    database.Users,
		menu:     database.Menu,
	}
}

func (s *MongoPaymentStore) InsertPayment(ctx context.Context, p *models.Payment) error {
	res, err := s.payments.InsertOne(ctx, p)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

// UpdatePaymentStatus passe un paiement de l'état `from` à l'état `to`,
// identifié par son transaction id. Le filtre conditionnel sur `from` rend la
// transition idempotente : un paiement déjà dans un état terminal ne matche
// plus, et deux callbacks concurrents ne produisent qu'une seule transition.
func (s *MongoPaymentStore) UpdatePaymentStatus(ctx context.Context, transactionID, from, to string) (int64, error) {
	res, err := s.payments.UpdateOne(ctx,
		bson.M{"transactionId": transactionID, "status": from},
		bson.M{"$set": bson.M{"status": to}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *MongoPaymentStore) FindPaymentByTransactionID(ctx context.Context, transactionID string) (*models.Payment, error) {
	var p models.Payment
	err := s.payments.FindOne(ctx, bson.M{"transactionId": transactionID}).Decode(&p)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *MongoPaymentStore) FindPaymentsByEmail(ctx context.Context, email string) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cursor, err := s.payments.Find(ctx, bson.M{"email": email}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	payments := []models.Payment{}
	if err := cursor.All(ctx, &payments); err != nil {
		return nil, err
	}
	return payments, nil
}

// DeleteOwnedCartItems supprime les lignes de panier listées, mais uniquement
// celles qui appartiennent à l'email du payeur : un id étranger glissé dans la
// requête n'est jamais supprimé. Les ids déjà absents sont simplement ignorés.
func (s *MongoPaymentStore) DeleteOwnedCartItems(ctx context.Context, email string, cartIDs []string) (int64, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(cartIDs))
	for _, id := range cartIDs {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue // id malformé, rien à supprimer
		}
		objectIDs = append(objectIDs, oid)
	}
	if len(objectIDs) == 0 {
		return 0, nil
	}

	res, err := s.carts.DeleteMany(ctx, bson.M{
		"_id":   bson.M{"$in": objectIDs},
		"email": email,
	})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (s *MongoPaymentStore) CountUsers(ctx context.Context) (int64, error) {
	return s.users.EstimatedDocumentCount(ctx)
}

func (s *MongoPaymentStore) CountMenuItems(ctx context.Context) (int64, error) {
	return s.menu.EstimatedDocumentCount(ctx)
}

func (s *MongoPaymentStore) CountPayments(ctx context.Context) (int64, error) {
	return s.payments.EstimatedDocumentCount(ctx)
}

// TotalRevenue somme le champ price de tous les paiements, quel que soit leur
// statut (comportement produit assumé, voir DESIGN.md).
func (s *MongoPaymentStore) TotalRevenue(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{
			"_id":          nil,
			"totalRevenue": bson.M{"$sum": "$price"},
		}}},
	}

	cursor, err := s.payments.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		TotalRevenue float64 `bson:"totalRevenue"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].TotalRevenue, nil
}

// CategoryBreakdown déplie les menuItemIds de chaque paiement, les joint au
// catalogue menu, puis groupe par catégorie (quantité + chiffre d'affaires).
// Jointure interne : un article disparu du catalogue sort du rapport.
func (s *MongoPaymentStore) CategoryBreakdown(ctx context.Context) ([]models.CategoryStat, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$unwind", Value: "$menuItemIds"}},
		{{Key: "$addFields", Value: bson.M{
			"menuItemObjectId": bson.M{"$toObjectId": "$menuItemIds"},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         "menu",
			"localField":   "menuItemObjectId",
			"foreignField": "_id",
			"as":           "menuItems",
		}}},
		{{Key: "$unwind", Value: "$menuItems"}},
		{{Key: "$group", Value: bson.M{
			"_id":      "$menuItems.category",
			"quantity": bson.M{"$sum": 1},
			"revenue":  bson.M{"$sum": "$menuItems.price"},
		}}},
		{{Key: "$project", Value: bson.M{
			"_id":      0,
			"category": "$_id",
			"quantity": "$quantity",
			"revenue":  "$revenue",
		}}},
	}

	cursor, err := s.payments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	stats := []models.CategoryStat{}
	if err := cursor.All(ctx, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}
