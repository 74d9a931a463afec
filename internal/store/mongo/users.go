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

type userDoc struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Name          string             `bson:"name"`
	Email         string             `bson:"email"`
	PasswordHash  string             `bson:"password"`
	Currency      string             `bson:"currency"`
	MonthlyBudget float64            `bson:"monthlyBudget"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
}

func fromUserDoc(d userDoc) core.User {
	return core.User{
		ID:            d.ID.Hex(),
		Name:          d.Name,
		Email:         d.Email,
		PasswordHash:  d.PasswordHash,
		Currency:      d.Currency,
		MonthlyBudget: d.MonthlyBudget,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

// InsertUser implements store.UserStore.
func (s *Store) InsertUser(ctx context.Context, u core.User) (core.User, error) {
	count, err := s.users.CountDocuments(ctx, bson.M{"email": u.Email})
	if err != nil {
		return core.User{}, fmt.Errorf("%w: check email: %v", store.ErrUnavailable, err)
	}
	if count > 0 {
		return core.User{}, store.ErrDuplicateEmail
	}

	now := time.Now().UTC()
	if u.Currency == "" {
		u.Currency = core.DefaultCurrency
	}
	doc := userDoc{
		ID:            primitive.NewObjectID(),
		Name:          u.Name,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		Currency:      u.Currency,
		MonthlyBudget: u.MonthlyBudget,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		return core.User{}, fmt.Errorf("%w: insert user: %v", store.ErrUnavailable, err)
	}
	return fromUserDoc(doc), nil
}

// FindUserByID implements store.UserStore.
func (s *Store) FindUserByID(ctx context.Context, id string) (core.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return core.User{}, store.ErrNotFound
	}
	var doc userDoc
	err = s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.User{}, store.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("%w: find user: %v", store.ErrUnavailable, err)
	}
	return fromUserDoc(doc), nil
}

// FindUserByEmail implements store.UserStore.
func (s *Store) FindUserByEmail(ctx context.Context, email string) (core.User, error) {
	var doc userDoc
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.User{}, store.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("%w: find user by email: %v", store.ErrUnavailable, err)
	}
	return fromUserDoc(doc), nil
}

// UpdateUserProfile implements store.UserStore.
func (s *Store) UpdateUserProfile(ctx context.Context, id string, u core.User) (core.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return core.User{}, store.ErrNotFound
	}
	update := bson.M{"$set": bson.M{
		"name":          u.Name,
		"currency":      u.Currency,
		"monthlyBudget": u.MonthlyBudget,
		"updatedAt":     time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDoc
	err = s.users.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return core.User{}, store.ErrNotFound
	}
	if err != nil {
		return core.User{}, fmt.Errorf("%w: update user: %v", store.ErrUnavailable, err)
	}
	return fromUserDoc(doc), nil
}
