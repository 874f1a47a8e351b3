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

// CreateExpense persists a new expense.
func (s *MongoStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if _, err := s.expenses.InsertOne(ctx, expense); err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID.
func (s *MongoStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	err := s.expenses.FindOne(ctx, bson.M{"_id": expenseID}).Decode(&expense)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return &expense, nil
}

// DeleteExpense removes an expense by ID.
func (s *MongoStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.expenses.DeleteOne(ctx, bson.M{"_id": expenseID})
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

// ListExpenses retrieves all of a group's live expenses.
func (s *MongoStore) ListExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	return s.findExpenses(ctx, bson.M{"groupId": groupID})
}

// ListExpensesByCategory retrieves a group's live expenses filtered by category.
func (s *MongoStore) ListExpensesByCategory(ctx context.Context, groupID, categoryID string) ([]models.Expense, error) {
	return s.findExpenses(ctx, bson.M{"groupId": groupID, "categoryId": categoryID})
}

func (s *MongoStore) findExpenses(ctx context.Context, filter bson.M) ([]models.Expense, error) {
	cursor, err := s.expenses.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer cursor.Close(ctx)

	var expenses []models.Expense
	for cursor.Next(ctx) {
		var e models.Expense
		if err := cursor.Decode(&e); err != nil {
			return nil, fmt.Errorf("failed to decode expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// CreateCategory persists a new category.
func (s *MongoStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if category.ID == "" {
		category.ID = uuid.New().String()
	}
	if category.CreatedAt == 0 {
		category.CreatedAt = time.Now().Unix()
	}
	if category.Lifecycle == "" {
		category.Lifecycle = models.LifecycleRegular
	}
	if _, err := s.categories.InsertOne(ctx, category); err != nil {
		return fmt.Errorf("failed to insert category: %w", err)
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (s *MongoStore) GetCategory(ctx context.Context, categoryID string) (*models.Category, error) {
	var category models.Category
	err := s.categories.FindOne(ctx, bson.M{"_id": categoryID}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("category %s: %w", categoryID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// ListCategories retrieves all of a group's live categories.
func (s *MongoStore) ListCategories(ctx context.Context, groupID string) ([]models.Category, error) {
	cursor, err := s.categories.Find(ctx, bson.M{"groupId": groupID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	for cursor.Next(ctx) {
		var c models.Category
		if err := cursor.Decode(&c); err != nil {
			return nil, fmt.Errorf("failed to decode category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// UpdateCategoryBudget sets a category's budget, leaving it otherwise intact.
func (s *MongoStore) UpdateCategoryBudget(ctx context.Context, categoryID string, budget float64) error {
	res, err := s.categories.UpdateOne(ctx, bson.M{"_id": categoryID},
		bson.M{"$set": bson.M{"budget": budget}})
	if err != nil {
		return fmt.Errorf("failed to update category budget: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("category %s: %w", categoryID, storage.ErrNotFound)
	}
	return nil
}

// DeleteCategory removes a category by ID.
func (s *MongoStore) DeleteCategory(ctx context.Context, categoryID string) error {
	res, err := s.categories.DeleteOne(ctx, bson.M{"_id": categoryID})
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("category %s: %w", categoryID, storage.ErrNotFound)
	}
	return nil
}

// AppendSettledDebt appends an entry to the settled-debt ledger.
func (s *MongoStore) AppendSettledDebt(ctx context.Context, debt *models.SettledDebt) error {
	if debt.ID == "" {
		debt.ID = uuid.New().String()
	}
	if debt.SettledAt == 0 {
		debt.SettledAt = time.Now().Unix()
	}
	if _, err := s.settledDebts.InsertOne(ctx, debt); err != nil {
		return fmt.Errorf("failed to insert settled debt: %w", err)
	}
	return nil
}

// ListSettledDebts retrieves a group's settled-debt ledger.
func (s *MongoStore) ListSettledDebts(ctx context.Context, groupID string) ([]models.SettledDebt, error) {
	cursor, err := s.settledDebts.Find(ctx, bson.M{"groupId": groupID},
		options.Find().SetSort(bson.D{{Key: "settledAt", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list settled debts: %w", err)
	}
	defer cursor.Close(ctx)

	var debts []models.SettledDebt
	for cursor.Next(ctx) {
		var d models.SettledDebt
		if err := cursor.Decode(&d); err != nil {
			return nil, fmt.Errorf("failed to decode settled debt: %w", err)
		}
		debts = append(debts, d)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settled debts: %w", err)
	}
	return debts, nil
}
