package database

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// --- Variables Globales ---
var (
	MongoClient *mongo.Client
	BistroDB    *mongo.Database
	Redis       *redis.Client

	Users    *mongo.Collection
	Menu     *mongo.Collection
	Reviews  *mongo.Collection
	Carts    *mongo.Collection
	Payments *mongo.Collection
)

// --- Initialisation ---
func ConnectDatabases() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// 1. Initialiser MongoDB
	connectMongo(ctx)

	// 2. Initialiser Redis
	connectRedis(ctx)

	log.Println("✅ Toutes les bases de données sont connectées")
}

// =============================================
// MONGODB
// =============================================
func connectMongo(ctx context.Context) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Fatal("❌ Erreur connexion MongoDB:", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatal("❌ MongoDB injoignable:", err)
	}

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "bistroDB"
	}

	MongoClient = client
	BistroDB = client.Database(dbName)

	Users = BistroDB.Collection("users")
	Menu = BistroDB.Collection("menu")
	Reviews = BistroDB.Collection("reviews")
	Carts = BistroDB.Collection("carts")
	Payments = BistroDB.Collection("payments")

	log.Println("✅ Connecté à MongoDB :", BistroDB.Name())
}

// CloseMongo ferme la connexion MongoDB
func CloseMongo() {
	if MongoClient == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := MongoClient.Disconnect(ctx); err != nil {
		log.Printf("❌ Erreur fermeture MongoDB: %v", err)
		return
	}
	log.Println("🔌 Connexion MongoDB fermée")
}

// =============================================
// REDIS
// =============================================
func connectRedis(ctx context.Context) {
	Redis = redis.NewClient(&redis.Options{
		Addr:     os.Getenv("REDIS_HOST"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	if err := Redis.Ping(ctx).Err(); err != nil {
		log.Println("⚠️ Redis indisponible — cache menu désactivé:", err)
		Redis = nil
		return
	}
	log.Println("✅ Connecté à Redis")
}
