package catalog

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/fdg312/diet-planner/internal/config"
	"github.com/fdg312/diet-planner/internal/planner"
)

// foodDocument is the shape of a document in the legacy foods collection.
type foodDocument struct {
	ID       primitive.ObjectID `bson:"_id"`
	Food     string             `bson:"food"`
	Calories int                `bson:"calories"`
	Protein  float64            `bson:"protein"`
	Carbs    float64            `bson:"carbs"`
	Fat      float64            `bson:"fat"`
	MealType []string           `bson:"mealType"`
	Type     string             `bson:"type"`
}

func (d foodDocument) toFoodItem() planner.FoodItem {
	return planner.FoodItem{
		ID:        d.ID.Hex(),
		Name:      d.Food,
		Calories:  d.Calories,
		ProteinG:  d.Protein,
		CarbsG:    d.Carbs,
		FatG:      d.Fat,
		MealTypes: toSlots(d.MealType),
		DietType:  planner.DietType(d.Type),
	}
}

// MongoReader reads foods from a MongoDB collection. Read-only.
type MongoReader struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoReader connects and pings the deployment.
func NewMongoReader(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) (*MongoReader, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	logger.Info("mongo catalog connected",
		zap.String("database", cfg.MongoDatabase),
		zap.String("collection", cfg.MongoCollection),
	)
	return &MongoReader{
		client:     client,
		collection: client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection),
	}, nil
}

func (r *MongoReader) FetchByDietTags(ctx context.Context, tags []string) ([]planner.FoodItem, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"type": bson.M{"$in": tags}})
	if err != nil {
		return nil, fmt.Errorf("find foods: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []foodDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode foods: %w", err)
	}

	items := make([]planner.FoodItem, 0, len(docs))
	for _, d := range docs {
		items = append(items, d.toFoodItem())
	}
	return items, nil
}

func (r *MongoReader) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
