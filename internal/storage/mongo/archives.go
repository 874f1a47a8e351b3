package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hearthshare/ledger/internal/models"
	"github.com/hearthshare/ledger/internal/storage"
)

// Archive writes use ReplaceOne with upsert so re-running a cycle replaces
// the copies under the same keys instead of duplicating them.

// PutArchiveSnapshot creates or overwrites an archive root record.
func (s *MongoStore) PutArchiveSnapshot(ctx context.Context, snap *models.ArchiveSnapshot) error {
	filter := bson.M{"groupId": snap.GroupID, "archiveId": snap.ArchiveID}
	_, err := s.archives.ReplaceOne(ctx, filter, snap, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to put archive snapshot: %w", err)
	}
	return nil
}

// PutArchivedCategory creates or overwrites an archived category copy.
func (s *MongoStore) PutArchivedCategory(ctx context.Context, cat *models.ArchivedCategory) error {
	filter := bson.M{"groupId": cat.GroupID, "archiveId": cat.ArchiveID, "categoryId": cat.CategoryID}
	_, err := s.archivedCats.ReplaceOne(ctx, filter, cat, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to put archived category: %w", err)
	}
	return nil
}

// PutArchivedExpense creates or overwrites an archived expense copy.
func (s *MongoStore) PutArchivedExpense(ctx context.Context, exp *models.ArchivedExpense) error {
	filter := bson.M{"groupId": exp.GroupID, "archiveId": exp.ArchiveID, "expenseId": exp.ExpenseID}
	_, err := s.archivedExps.ReplaceOne(ctx, filter, exp, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to put archived expense: %w", err)
	}
	return nil
}

// GetArchiveSnapshot retrieves an archive root record.
func (s *MongoStore) GetArchiveSnapshot(ctx context.Context, groupID, archiveID string) (*models.ArchiveSnapshot, error) {
	var snap models.ArchiveSnapshot
	err := s.archives.FindOne(ctx, bson.M{"groupId": groupID, "archiveId": archiveID}).Decode(&snap)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("archive %s for group %s: %w", archiveID, groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get archive snapshot: %w", err)
	}
	return &snap, nil
}

// ListArchivedCategories retrieves the archived category copies under a snapshot.
func (s *MongoStore) ListArchivedCategories(ctx context.Context, groupID, archiveID string) ([]models.ArchivedCategory, error) {
	cursor, err := s.archivedCats.Find(ctx, bson.M{"groupId": groupID, "archiveId": archiveID})
	if err != nil {
		return nil, fmt.Errorf("failed to list archived categories: %w", err)
	}
	defer cursor.Close(ctx)

	var cats []models.ArchivedCategory
	for cursor.Next(ctx) {
		var c models.ArchivedCategory
		if err := cursor.Decode(&c); err != nil {
			return nil, fmt.Errorf("failed to decode archived category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate archived categories: %w", err)
	}
	return cats, nil
}

// ListArchivedExpenses retrieves the archived expense copies under a snapshot.
func (s *MongoStore) ListArchivedExpenses(ctx context.Context, groupID, archiveID string) ([]models.ArchivedExpense, error) {
	cursor, err := s.archivedExps.Find(ctx, bson.M{"groupId": groupID, "archiveId": archiveID})
	if err != nil {
		return nil, fmt.Errorf("failed to list archived expenses: %w", err)
	}
	defer cursor.Close(ctx)

	var exps []models.ArchivedExpense
	for cursor.Next(ctx) {
		var e models.ArchivedExpense
		if err := cursor.Decode(&e); err != nil {
			return nil, fmt.Errorf("failed to decode archived expense: %w", err)
		}
		exps = append(exps, e)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate archived expenses: %w", err)
	}
	return exps, nil
}
