// Package mongostore implements memory.LongTermMemory against MongoDB.
// Grounded on the teacher's features/memory/mongo client: same
// collection-interface seam for testability (InsertOne/Find/Indexes as a
// narrow interface over *mongo.Collection), same ensureIndexes-at-New
// pattern, same context-with-timeout wrapper. Ported to the declared
// go.mongodb.org/mongo-driver/v2 package paths.
package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/njfio/fluent-agent-core/agent/agenterrors"
	"github.com/njfio/fluent-agent-core/agent/memory"
)

const (
	defaultCollection = "agent_memory"
	defaultTimeout = 5 * time.Second
)

// Options configures Store.
type Options struct {
	Client *mongodriver.Client
	Database string
	Collection string
	Timeout time.Duration
}

// Store implements memory.LongTermMemory against a MongoDB collection.
type Store struct {
	coll collection
	timeout time.Duration
}

// New builds a Store backed by opts.Client, ensuring the importance index
// and the content/tags text index used by Query exist.
func New(opts Options) (*Store, error) {
	if opts.Client == nil {
		return nil, agenterrors.New(agenterrors.KindConfiguration, "mongo client is required")
	}
	if opts.Database == "" {
		return nil, agenterrors.New(agenterrors.KindConfiguration, "database name is required")
	}
	collName := opts.Collection
	if collName == "" {
		collName = defaultCollection
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	mcoll := opts.Client.Database(opts.Database).Collection(collName)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	wrapper := mongoCollection{coll: mcoll}
	if err := ensureIndexes(ctx, wrapper); err != nil {
		return nil, agenterrors.NewWithCause(agenterrors.KindStorage, "create memory indexes failed", err)
	}
	return newStoreWithCollection(wrapper, timeout), nil
}

func newStoreWithCollection(coll collection, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Store{coll: coll, timeout: timeout}
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Store implements memory.LongTermMemory.
func (s *Store) Store(ctx context.Context, item memory.MemoryItem) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	doc := toDocument(item)
	_, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return agenterrors.NewWithCause(agenterrors.KindStorage, "store memory item failed", err)
	}
	return nil
}

// Query implements memory.LongTermMemory.
func (s *Store) Query(ctx context.Context, query string, importanceThreshold float64, limit int) ([]memory.MemoryItem, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	filter := bson.M{"importance": bson.M{"$gte": importanceThreshold}}
	if query != "" {
		filter["$text"] = bson.M{"$search": query}
	}
	opts := options.Find().SetSort(bson.D{{Key: "importance", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, agenterrors.NewWithCause(agenterrors.KindStorage, "query memory items failed", err)
	}
	var docs []itemDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, agenterrors.NewWithCause(agenterrors.KindStorage, "decode memory items failed", err)
	}
	out := make([]memory.MemoryItem, len(docs))
	for i, d := range docs {
		out[i] = fromDocument(d)
	}
	return out, nil
}

type itemDocument struct {
	ID string `bson:"_id,omitempty"`
	Type string `bson:"type"`
	Content string `bson:"content"`
	Importance float64 `bson:"importance"`
	CreatedAt time.Time `bson:"created_at"`
	Tags []string `bson:"tags,omitempty"`
	AccessCount int `bson:"access_count"`
	DecayRate float64 `bson:"decay_rate"`
}

func toDocument(item memory.MemoryItem) itemDocument {
	return itemDocument{
		ID: item.ID,
		Type: string(item.Type),
		Content: item.Content,
		Importance: item.Importance,
		CreatedAt: item.CreatedAt,
		Tags: item.Tags,
		AccessCount: item.AccessCount,
		DecayRate: item.DecayRate,
	}
}

func fromDocument(d itemDocument) memory.MemoryItem {
	return memory.MemoryItem{
		ID: d.ID,
		Type: memory.MemoryItemType(d.Type),
		Content: d.Content,
		Importance: d.Importance,
		CreatedAt: d.CreatedAt,
		Tags: d.Tags,
		AccessCount: d.AccessCount,
		DecayRate: d.DecayRate,
	}
}

func ensureIndexes(ctx context.Context, coll collection) error {
	index := mongodriver.IndexModel{
		Keys: bson.D{{Key: "importance", Value: -1}},
	}
	if _, err := coll.Indexes().CreateOne(ctx, index); err != nil {
		return err
	}
	// Query's $text filter needs a text index over the matched fields.
	textIndex := mongodriver.IndexModel{
		Keys: bson.D{{Key: "content", Value: "text"}, {Key: "tags", Value: "text"}},
	}
	_, err := coll.Indexes().CreateOne(ctx, textIndex)
	return err
}

// collection narrows *mongo.Collection to what Store needs, the same
// testability seam the teacher's mongo client uses.
type collection interface {
	InsertOne(ctx context.Context, document any) (*mongodriver.InsertOneResult, error)
	Find(ctx context.Context, filter any, opts...options.Lister[options.FindOptions]) (cursor, error)
	Indexes() indexView
}

type cursor interface {
	All(ctx context.Context, results any) error
}

type indexView interface {
	CreateOne(ctx context.Context, model mongodriver.IndexModel, opts...options.Lister[options.CreateIndexesOptions]) (string, error)
}

type mongoCollection struct {
	coll *mongodriver.Collection
}

func (c mongoCollection) InsertOne(ctx context.Context, document any) (*mongodriver.InsertOneResult, error) {
	return c.coll.InsertOne(ctx, document)
}

func (c mongoCollection) Find(ctx context.Context, filter any, opts...options.Lister[options.FindOptions]) (cursor, error) {
	return c.coll.Find(ctx, filter, opts...)
}

func (c mongoCollection) Indexes() indexView {
	return mongoIndexView{view: c.coll.Indexes()}
}

type mongoIndexView struct {
	view mongodriver.IndexView
}

func (v mongoIndexView) CreateOne(ctx context.Context, model mongodriver.IndexModel, opts...options.Lister[options.CreateIndexesOptions]) (string, error) {
	return v.view.CreateOne(ctx, model, opts...)
}
