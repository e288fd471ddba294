package mongostore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/njfio/fluent-agent-core/agent/memory"
)

func TestNewRequiresClient(t *testing.T) {
	t.Parallel()

	_, err := New(Options{})
	require.Error(t, err)

	_, err = New(Options{Client: &mongodriver.Client{}})
	require.Error(t, err)
}

func TestStore_StoreAndQuery(t *testing.T) {
	t.Parallel()

	fc := newFakeCollection()
	store := newStoreWithCollection(fc, 0)

	require.NoError(t, store.Store(context.Background(), memory.MemoryItem{Content: "a", Importance: 0.9}))
	require.NoError(t, store.Store(context.Background(), memory.MemoryItem{Content: "b", Importance: 0.2}))

	items, err := store.Query(context.Background(), "", 0.5, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "a", items[0].Content)
	require.True(t, fc.indexCreated)
}

// fakeCollection is a lightweight in-memory collection mimicking the subset
// of MongoDB behavior exercised by Store, mirroring the teacher's
// features/memory/mongo fakeCollection test double.
type fakeCollection struct {
	mu sync.Mutex
	indexCreated bool
	docs []itemDocument
}

func newFakeCollection() *fakeCollection {
	return &fakeCollection{}
}

func (c *fakeCollection) InsertOne(_ context.Context, document any) (*mongodriver.InsertOneResult, error) {
	doc, ok := document.(itemDocument)
	if !ok {
		return nil, errors.New("unsupported document type")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = append(c.docs, doc)
	return &mongodriver.InsertOneResult{}, nil
}

func (c *fakeCollection) Find(_ context.Context, filter any, _...options.Lister[options.FindOptions]) (cursor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	threshold := 0.0
	if f, ok := filter.(bson.M); ok {
		if gte, ok := f["importance"].(bson.M); ok {
			if v, ok := gte["$gte"].(float64); ok {
				threshold = v
			}
		}
	}
	var matched []itemDocument
	for _, d := range c.docs {
		if d.Importance >= threshold {
			matched = append(matched, d)
		}
	}
	return &fakeCursor{docs: matched}, nil
}

func (c *fakeCollection) Indexes() indexView {
	return fakeIndexView{parent: c}
}

type fakeIndexView struct {
	parent *fakeCollection
}

func (v fakeIndexView) CreateOne(_ context.Context, model mongodriver.IndexModel, _...options.Lister[options.CreateIndexesOptions]) (string, error) {
	if len(model.Keys.(bson.D)) == 0 {
		return "", errors.New("missing keys")
	}
	v.parent.mu.Lock()
	v.parent.indexCreated = true
	v.parent.mu.Unlock()
	return "idx_importance", nil
}

type fakeCursor struct {
	docs []itemDocument
}

func (c *fakeCursor) All(_ context.Context, results any) error {
	dest, ok := results.(*[]itemDocument)
	if !ok {
		return errors.New("unsupported decode target")
	}
	*dest = c.docs
	return nil
}
