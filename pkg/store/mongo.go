package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linealens/linealens/pkg/project"
)

const (
	mongoProjectsCollection = "projects"
	mongoIndexCollection    = "index"
	mongoIndexDocID         = "index"
)

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	URI      string
	Database string
}

// MongoBackend stores each project as a document keyed by the project id
// and the metadata index as a single document, using the bson tags on the
// project types.
type MongoBackend struct {
	client   *mongo.Client
	projects *mongo.Collection
	index    *mongo.Collection
}

// mongoProjectDoc wraps a SavedProject with the project id as document key.
type mongoProjectDoc struct {
	ID      string               `bson:"_id"`
	Project project.SavedProject `bson:"project"`
}

// mongoIndexDoc holds the whole metadata index in one document, mirroring
// the single-array shape of the other backends.
type mongoIndexDoc struct {
	ID      string             `bson:"_id"`
	Entries []project.Metadata `bson:"entries"`
}

// NewMongoBackend connects to MongoDB and verifies the connection.
// Database defaults to "linealens".
func NewMongoBackend(ctx context.Context, cfg MongoConfig) (*MongoBackend, error) {
	if cfg.Database == "" {
		cfg.Database = "linealens"
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	db := client.Database(cfg.Database)
	return &MongoBackend{
		client:   client,
		projects: db.Collection(mongoProjectsCollection),
		index:    db.Collection(mongoIndexCollection),
	}, nil
}

func (b *MongoBackend) ReadProject(ctx context.Context, id string) (*project.SavedProject, error) {
	var doc mongoProjectDoc
	err := b.projects.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find project: %w", err)
	}
	return &doc.Project, nil
}

func (b *MongoBackend) WriteProject(ctx context.Context, p *project.SavedProject) error {
	doc := mongoProjectDoc{ID: p.Metadata.ID, Project: *p}
	opts := options.Replace().SetUpsert(true)
	if _, err := b.projects.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		return fmt.Errorf("upsert project: %w", err)
	}
	return nil
}

func (b *MongoBackend) DeleteProject(ctx context.Context, id string) error {
	if _, err := b.projects.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

func (b *MongoBackend) ReadIndex(ctx context.Context) ([]project.Metadata, error) {
	var doc mongoIndexDoc
	err := b.index.FindOne(ctx, bson.M{"_id": mongoIndexDocID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find index: %w", err)
	}
	return doc.Entries, nil
}

func (b *MongoBackend) WriteIndex(ctx context.Context, entries []project.Metadata) error {
	if entries == nil {
		entries = []project.Metadata{}
	}
	doc := mongoIndexDoc{ID: mongoIndexDocID, Entries: entries}
	opts := options.Replace().SetUpsert(true)
	if _, err := b.index.ReplaceOne(ctx, bson.M{"_id": mongoIndexDocID}, doc, opts); err != nil {
		return fmt.Errorf("upsert index: %w", err)
	}
	return nil
}

func (b *MongoBackend) Reset(ctx context.Context) error {
	if err := b.projects.Drop(ctx); err != nil {
		return fmt.Errorf("drop projects: %w", err)
	}
	if err := b.index.Drop(ctx); err != nil {
		return fmt.Errorf("drop index: %w", err)
	}
	return nil
}

func (b *MongoBackend) Close() error {
	return b.client.Disconnect(context.Background())
}

var _ Backend = (*MongoBackend)(nil)
