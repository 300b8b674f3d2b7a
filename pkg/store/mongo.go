package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/kgraph/pkg/graph"
)

// Default MongoDB names.
const (
	DefaultDatabase   = "kgraph"
	DefaultCollection = "graphs"
)

// MongoStore keeps one document per graph in a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and verifies the server responds.
// Empty database or collection names select the defaults.
func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewMongoStoreFromClient(client, database, collection), nil
}

// NewMongoStoreFromClient uses an existing client. Close disconnects it.
func NewMongoStoreFromClient(client *mongo.Client, database, collection string) *MongoStore {
	if database == "" {
		database = DefaultDatabase
	}
	if collection == "" {
		collection = DefaultCollection
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(collection),
	}
}

func (s *MongoStore) Create(ctx context.Context, name string, g graph.Graph) (Record, error) {
	rec, err := newRecord(name, g)
	if err != nil {
		return Record{}, err
	}
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return Record{}, fmt.Errorf("insert graph: %w", err)
	}
	return rec, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (Record, error) {
	var rec Record
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, fmt.Errorf("find graph %s: %w", id, err)
	}
	return rec, nil
}

// List projects node and edge counts server-side so graph bodies are not
// transferred.
func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$project", Value: bson.D{
			{Key: "name", Value: 1},
			{Key: "created_at", Value: 1},
			{Key: "nodes", Value: bson.M{"$size": bson.M{"$ifNull": bson.A{"$graph.nodes", bson.A{}}}}},
			{Key: "edges", Value: bson.M{"$size": bson.M{"$ifNull": bson.A{"$graph.edges", bson.A{}}}}},
		}}},
	}

	cur, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("list graphs: %w", err)
	}

	var rows []struct {
		ID        string    `bson:"_id"`
		Name      string    `bson:"name"`
		Nodes     int       `bson:"nodes"`
		Edges     int       `bson:"edges"`
		CreatedAt time.Time `bson:"created_at"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode graphs: %w", err)
	}

	out := make([]Summary, len(rows))
	for i, r := range rows {
		out[i] = Summary{
			ID:        r.ID,
			Name:      r.Name,
			Nodes:     r.Nodes,
			Edges:     r.Edges,
			CreatedAt: r.CreatedAt.UTC(),
		}
	}
	return out, nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete graph %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
