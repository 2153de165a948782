package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/arjun/quiz-api/internal/models"
	"github.com/arjun/quiz-api/internal/quiz"
)

// MongoStore handles quiz document CRUD in MongoDB.
type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("quizzes")}
}

func (s *MongoStore) Insert(ctx context.Context, q *models.Quiz) (*models.Quiz, error) {
	now := time.Now()
	q.CreatedAt = now
	q.UpdatedAt = now

	res, err := s.col.InsertOne(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("mongo insert: %w", err)
	}

	stored := *q
	stored.ID = res.InsertedID.(primitive.ObjectID)
	return &stored, nil
}

// FindActive returns the first quiz whose window contains now.
// Ordering among simultaneous matches is whatever the collection
// yields first and is not guaranteed stable.
func (s *MongoStore) FindActive(ctx context.Context, now time.Time) (*models.Quiz, error) {
	filter := bson.M{
		"start_date": bson.M{"$lte": now},
		"end_date":   bson.M{"$gte": now},
	}

	var q models.Quiz
	if err := s.col.FindOne(ctx, filter).Decode(&q); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, quiz.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (s *MongoStore) GetByID(ctx context.Context, id string) (*models.Quiz, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		// An unparseable id can never name a stored quiz.
		return nil, quiz.ErrNotFound
	}

	var q models.Quiz
	if err := s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&q); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, quiz.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

func (s *MongoStore) ListAll(ctx context.Context) ([]models.Quiz, error) {
	cur, err := s.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var quizzes []models.Quiz
	if err := cur.All(ctx, &quizzes); err != nil {
		return nil, err
	}
	return quizzes, nil
}
