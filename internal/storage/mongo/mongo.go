// Package mongo provides the MongoDB-backed implementation of the
// storage.Store interface. This is the hosted document store the mobile app
// writes against; the engine shares its collections.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hearthshare/ledger/internal/models"
	"github.com/hearthshare/ledger/internal/storage"
)

// Ensure MongoStore implements storage.Store
var _ storage.Store = (*MongoStore)(nil)

// MongoStore implements storage.Store using MongoDB.
type MongoStore struct {
	client *mongo.Client

	groups        *mongo.Collection
	members       *mongo.Collection
	expenses      *mongo.Collection
	categories    *mongo.Collection
	settledDebts  *mongo.Collection
	archives      *mongo.Collection
	archivedCats  *mongo.Collection
	archivedExps  *mongo.Collection
}

// New connects to MongoDB and binds the ledger collections.
func New(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to connect to MongoDB: %v", storage.ErrUnavailable, err)
	}

	if err = client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("%w: failed to ping MongoDB: %v", storage.ErrUnavailable, err)
	}

	db := client.Database(dbName)
	return &MongoStore{
		client:       client,
		groups:       db.Collection("groups"),
		members:      db.Collection("members"),
		expenses:     db.Collection("expenses"),
		categories:   db.Collection("categories"),
		settledDebts: db.Collection("settled_debts"),
		archives:     db.Collection("archive_snapshots"),
		archivedCats: db.Collection("archived_categories"),
		archivedExps: db.Collection("archived_expenses"),
	}, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// CreateGroup persists a new group.
func (s *MongoStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	if _, err := s.groups.InsertOne(ctx, group); err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID.
func (s *MongoStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	var group models.Group
	err := s.groups.FindOne(ctx, bson.M{"_id": groupID}).Decode(&group)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	return &group, nil
}

// ListGroups retrieves all groups.
func (s *MongoStore) ListGroups(ctx context.Context) ([]*models.Group, error) {
	cursor, err := s.groups.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer cursor.Close(ctx)

	var groups []*models.Group
	for cursor.Next(ctx) {
		var group models.Group
		if err := cursor.Decode(&group); err != nil {
			return nil, fmt.Errorf("failed to decode group: %w", err)
		}
		groups = append(groups, &group)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}
	return groups, nil
}

// DeleteGroup removes a group and all of its child records. MongoDB has no
// foreign keys, so the cascade is explicit, one collection at a time.
func (s *MongoStore) DeleteGroup(ctx context.Context, groupID string) error {
	res, err := s.groups.DeleteOne(ctx, bson.M{"_id": groupID})
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}

	byGroup := bson.M{"groupId": groupID}
	for _, coll := range []*mongo.Collection{
		s.members, s.expenses, s.categories, s.settledDebts,
		s.archives, s.archivedCats, s.archivedExps,
	} {
		if _, err := coll.DeleteMany(ctx, byGroup); err != nil {
			return fmt.Errorf("failed to cascade delete %s: %w", coll.Name(), err)
		}
	}
	return nil
}

// AddMember adds a member to a group's member list.
func (s *MongoStore) AddMember(ctx context.Context, member *models.Member) error {
	if _, err := s.members.InsertOne(ctx, member); err != nil {
		return fmt.Errorf("failed to insert member: %w", err)
	}
	return nil
}

// RemoveMember removes a member from a group's member list.
func (s *MongoStore) RemoveMember(ctx context.Context, groupID, uid string) error {
	res, err := s.members.DeleteOne(ctx, bson.M{"groupId": groupID, "uid": uid})
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("member %s in group %s: %w", uid, groupID, storage.ErrNotFound)
	}
	return nil
}

// ListMembers retrieves a group's members in insertion order.
func (s *MongoStore) ListMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	cursor, err := s.members.Find(ctx, bson.M{"groupId": groupID},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer cursor.Close(ctx)

	var members []models.Member
	for cursor.Next(ctx) {
		var m models.Member
		if err := cursor.Decode(&m); err != nil {
			return nil, fmt.Errorf("failed to decode member: %w", err)
		}
		members = append(members, m)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}
