// Package mongostore implements state.Manager against MongoDB, for
// deployments that already run the Mongo-backed agent/memory LongTermMemory
// and want run snapshots in the same database rather than on local disk.
// Grounded on agent/memory/mongostore's collection-interface seam (a narrow
// interface over *mongo.Collection for testability) and context-with-timeout
// wrapper, widened here to ReplaceOne/FindOne/DeleteOne since snapshots are
// saved by upsert on run id rather than appended.
package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/njfio/fluent-agent-core/agent/agenterrors"
	"github.com/njfio/fluent-agent-core/agent/state"
)

const (
	defaultCollection = "agent_run_state"
	defaultTimeout = 5 * time.Second
)

// Options configures Store.
type Options struct {
	Client *mongodriver.Client
	Database string
	Collection string
	Timeout time.Duration
}

// Store implements state.Manager against a MongoDB collection, keyed by run
// id.
type Store struct {
	coll collection
	timeout time.Duration
}

// New builds a Store backed by opts.Client.
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
	return newStoreWithCollection(mongoCollection{coll: mcoll}, timeout), nil
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

// Save implements state.Manager by upserting snap keyed by runID.
func (s *Store) Save(runID string, snap state.Snapshot) error {
	ctx, cancel := s.withTimeout(context.Background())
	defer cancel()

	snap.RunID = runID
	_, err := s.coll.ReplaceOne(ctx, bson.M{"run_id": runID}, snap, options.Replace().SetUpsert(true))
	if err != nil {
		return agenterrors.NewWithCause(agenterrors.KindStorage, "save run snapshot failed", err)
	}
	return nil
}

// Load implements state.Manager.
func (s *Store) Load(runID string) (state.Snapshot, error) {
	ctx, cancel := s.withTimeout(context.Background())
	defer cancel()

	var snap state.Snapshot
	err := s.coll.FindOne(ctx, bson.M{"run_id": runID}, &snap)
	if err != nil {
		if err == mongodriver.ErrNoDocuments {
			return state.Snapshot{}, agenterrors.NewWithCause(agenterrors.KindFile, "no snapshot for run "+runID, err)
		}
		return state.Snapshot{}, agenterrors.NewWithCause(agenterrors.KindStorage, "load run snapshot failed", err)
	}
	return snap, nil
}

// Delete implements state.Manager. Deleting a missing snapshot is not an
// error.
func (s *Store) Delete(runID string) error {
	ctx, cancel := s.withTimeout(context.Background())
	defer cancel()

	_, err := s.coll.DeleteOne(ctx, bson.M{"run_id": runID})
	if err != nil {
		return agenterrors.NewWithCause(agenterrors.KindStorage, "delete run snapshot failed", err)
	}
	return nil
}

// collection narrows *mongo.Collection to what Store needs.
type collection interface {
	ReplaceOne(ctx context.Context, filter, replacement any, opts...options.Lister[options.ReplaceOptions]) (*mongodriver.UpdateResult, error)
	FindOne(ctx context.Context, filter any, dest any) error
	DeleteOne(ctx context.Context, filter any) (*mongodriver.DeleteResult, error)
}

type mongoCollection struct {
	coll *mongodriver.Collection
}

func (c mongoCollection) ReplaceOne(ctx context.Context, filter, replacement any, opts...options.Lister[options.ReplaceOptions]) (*mongodriver.UpdateResult, error) {
	return c.coll.ReplaceOne(ctx, filter, replacement, opts...)
}

func (c mongoCollection) FindOne(ctx context.Context, filter any, dest any) error {
	return c.coll.FindOne(ctx, filter).Decode(dest)
}

func (c mongoCollection) DeleteOne(ctx context.Context, filter any) (*mongodriver.DeleteResult, error) {
	return c.coll.DeleteOne(ctx, filter)
}
