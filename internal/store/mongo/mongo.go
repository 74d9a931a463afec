// Package mongo implements the document store backend. Filtering, ordering,
// pagination and both aggregations are pushed down to the server so the
// collection is never pulled into process memory.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

const (
	transactionsCollection = "transactions"
	usersCollection        = "users"
)

type Store struct {
	client       *mongo.Client
	transactions *mongo.Collection
	users        *mongo.Collection
}

// transactionDoc is the persisted shape of a transaction.
type transactionDoc struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Type        string             `bson:"type"`
	Amount      float64            `bson:"amount"`
	Category    string             `bson:"category"`
	Date        time.Time          `bson:"date"`
	OwnerID     string             `bson:"ownerId,omitempty"`
	Description string             `bson:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

// Connect establishes and pings a MongoDB connection.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", store.ErrUnavailable, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: ping: %v", store.ErrUnavailable, err)
	}
	db := client.Database(dbName)
	return &Store{
		client:       client,
		transactions: db.Collection(transactionsCollection),
		users:        db.Collection(usersCollection),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func toDoc(t core.Transaction) transactionDoc {
	return transactionDoc{
		Title:       t.Title,
		Type:        string(t.Type),
		Amount:      t.Amount,
		Category:    string(t.Category),
		Date:        t.Date.Time,
		OwnerID:     t.OwnerID,
		Description: t.Description,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func fromDoc(d transactionDoc) core.Transaction {
	return core.Transaction{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Type:        core.Type(d.Type),
		Amount:      d.Amount,
		Category:    core.Category(d.Category),
		Date:        core.Date{Time: d.Date.UTC()},
		OwnerID:     d.OwnerID,
		Description: d.Description,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

// Insert implements store.TransactionStore.
func (s *Store) Insert(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	doc := toDoc(t)
	doc.ID = primitive.NewObjectID()
	if _, err := s.transactions.InsertOne(ctx, doc); err != nil {
		return core.Transaction{}, fmt.Errorf("%w: insert transaction: %v", store.ErrUnavailable, err)
	}
	return fromDoc(doc), nil
}

// FindByID implements store.TransactionStore. A malformed id is an unknown
// id, not an error.
func (s *Store) FindByID(ctx context.Context, id string) (core.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return core.Transaction{}, store.ErrNotFound
	}
	var doc transactionDoc
	err = s.transactions.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: find transaction: %v", store.ErrUnavailable, err)
	}
	return fromDoc(doc), nil
}

// FindAll implements store.TransactionStore using server-side sort, skip
// and limit plus a count over the full filtered set.
func (s *Store) FindAll(ctx context.Context, f core.Filter, p core.Page) ([]core.Transaction, core.PageInfo, error) {
	query := filterQuery(f)

	total, err := s.transactions.CountDocuments(ctx, query)
	if err != nil {
		return nil, core.PageInfo{}, fmt.Errorf("%w: count transactions: %v", store.ErrUnavailable, err)
	}

	opts := options.Find().
		SetSort(listSort()).
		SetSkip(int64(p.Offset())).
		SetLimit(int64(p.Limit))
	cursor, err := s.transactions.Find(ctx, query, opts)
	if err != nil {
		return nil, core.PageInfo{}, fmt.Errorf("%w: find transactions: %v", store.ErrUnavailable, err)
	}
	defer cursor.Close(ctx)

	var docs []transactionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, core.PageInfo{}, fmt.Errorf("%w: decode transactions: %v", store.ErrUnavailable, err)
	}

	items := make([]core.Transaction, 0, len(docs))
	for _, d := range docs {
		items = append(items, fromDoc(d))
	}
	return items, core.NewPageInfo(p, int(total)), nil
}

// Update implements store.TransactionStore as a full-field replace.
func (s *Store) Update(ctx context.Context, id string, t core.Transaction) (core.Transaction, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return core.Transaction{}, store.ErrNotFound
	}

	update := bson.M{"$set": bson.M{
		"title":       t.Title,
		"type":        string(t.Type),
		"amount":      t.Amount,
		"category":    string(t.Category),
		"date":        t.Date.Time,
		"ownerId":     t.OwnerID,
		"description": t.Description,
		"updatedAt":   time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc transactionDoc
	err = s.transactions.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("%w: update transaction: %v", store.ErrUnavailable, err)
	}
	return fromDoc(doc), nil
}

// Delete implements store.TransactionStore.
func (s *Store) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return store.ErrNotFound
	}
	res, err := s.transactions.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("%w: delete transaction: %v", store.ErrUnavailable, err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

// Purge implements store.Purger, wiping both collections.
func (s *Store) Purge(ctx context.Context) error {
	if _, err := s.transactions.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("%w: clear transactions: %v", store.ErrUnavailable, err)
	}
	if _, err := s.users.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("%w: clear users: %v", store.ErrUnavailable, err)
	}
	return nil
}

// Summary implements store.TransactionStore via an aggregation pipeline.
// An empty collection produces no result document and yields the zero
// Summary.
func (s *Store) Summary(ctx context.Context, ownerID string) (core.Summary, error) {
	cursor, err := s.transactions.Aggregate(ctx, summaryPipeline(ownerID))
	if err != nil {
		return core.Summary{}, fmt.Errorf("%w: aggregate summary: %v", store.ErrUnavailable, err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		TotalIncome      float64 `bson:"totalIncome"`
		TotalExpenses    float64 `bson:"totalExpenses"`
		CurrentBalance   float64 `bson:"currentBalance"`
		TransactionCount int     `bson:"transactionCount"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return core.Summary{}, fmt.Errorf("%w: decode summary: %v", store.ErrUnavailable, err)
	}
	if len(results) == 0 {
		return core.Summary{}, nil
	}
	r := results[0]
	return core.Summary{
		TotalIncome:      r.TotalIncome,
		TotalExpenses:    r.TotalExpenses,
		CurrentBalance:   r.CurrentBalance,
		TransactionCount: r.TransactionCount,
	}, nil
}

// Breakdown implements store.TransactionStore via an aggregation pipeline.
func (s *Store) Breakdown(ctx context.Context, ownerID string) ([]core.BreakdownEntry, error) {
	cursor, err := s.transactions.Aggregate(ctx, breakdownPipeline(ownerID))
	if err != nil {
		return nil, fmt.Errorf("%w: aggregate breakdown: %v", store.ErrUnavailable, err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Category   string  `bson:"category"`
		Amount     float64 `bson:"amount"`
		Count      int     `bson:"count"`
		Percentage float64 `bson:"percentage"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("%w: decode breakdown: %v", store.ErrUnavailable, err)
	}

	entries := make([]core.BreakdownEntry, 0, len(results))
	for _, r := range results {
		entries = append(entries, core.BreakdownEntry{
			Category:   core.Category(r.Category),
			Amount:     r.Amount,
			Count:      r.Count,
			Percentage: r.Percentage,
		})
	}
	return entries, nil
}
