package store

import (
	"context"
	"errors"
	"time"

	"github.com/exercise-tracker/apiserver/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection     = "users"
	exercisesCollection = "exercises"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d userDocument) toUser() types.User {
	return types.User{
		ID:        d.ID.Hex(),
		Username:  d.Username,
		CreatedAt: d.CreatedAt,
	}
}

type exerciseDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      string             `bson:"userId"`
	Username    string             `bson:"username"`
	Description string             `bson:"description"`
	Duration    *int               `bson:"duration"`
	Date        string             `bson:"date"`
	CreatedAt   time.Time          `bson:"createdAt,omitempty"`
}

func durationField(d types.Duration) *int {
	if !d.Valid {
		return nil
	}
	minutes := d.Minutes
	return &minutes
}

func durationFromField(v *int) types.Duration {
	if v == nil {
		return types.Duration{}
	}
	return types.Minutes(*v)
}

// MongoUserRepository handles persistence for users in MongoDB.
type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(usersCollection)}
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id string) (types.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return types.User{}, ErrNotFound
	}

	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return doc.toUser(), nil
}

// List returns every user ordered by _id, which follows insertion order.
func (r *MongoUserRepository) List(ctx context.Context) ([]types.User, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	users := make([]types.User, 0, len(docs))
	for _, doc := range docs {
		users = append(users, doc.toUser())
	}
	return users, nil
}

func (r *MongoUserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	doc := userDocument{
		Username:  user.Username,
		CreatedAt: time.Now().UTC(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return types.User{}, err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return types.User{}, errors.New("unexpected inserted id type")
	}
	doc.ID = oid
	return doc.toUser(), nil
}

// MongoExerciseRepository handles persistence for exercises in MongoDB.
type MongoExerciseRepository struct {
	coll *mongo.Collection
}

func NewMongoExerciseRepository(db *mongo.Database) *MongoExerciseRepository {
	return &MongoExerciseRepository{coll: db.Collection(exercisesCollection)}
}

func (r *MongoExerciseRepository) Create(ctx context.Context, exercise types.Exercise) (types.Exercise, error) {
	exercise.CreatedAt = time.Now().UTC()
	doc := exerciseDocument{
		UserID:      exercise.UserID,
		Username:    exercise.Username,
		Description: exercise.Description,
		Duration:    durationField(exercise.Duration),
		Date:        exercise.Date,
		CreatedAt:   exercise.CreatedAt,
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return types.Exercise{}, err
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return types.Exercise{}, errors.New("unexpected inserted id type")
	}
	exercise.ID = oid.Hex()
	return exercise, nil
}

// ListLog projects description, duration and date of a user's exercises
// dated within [filter.From, filter.To], in insertion order.
func (r *MongoExerciseRepository) ListLog(ctx context.Context, filter types.LogFilter) ([]types.LogEntry, error) {
	query := bson.M{
		"userId": filter.UserID,
		"date":   bson.M{"$gte": filter.From, "$lte": filter.To},
	}
	opts := options.Find().
		SetProjection(bson.M{"description": 1, "duration": 1, "date": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}

	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	var docs []exerciseDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	entries := make([]types.LogEntry, 0, len(docs))
	for _, doc := range docs {
		entries = append(entries, types.LogEntry{
			Description: doc.Description,
			Duration:    durationFromField(doc.Duration),
			Date:        doc.Date,
		})
	}
	return entries, nil
}
