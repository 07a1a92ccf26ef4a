package store

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/whisper-backend/internal/models"
)

// UsersCollection is the MongoDB collection holding user records.
const UsersCollection = "users"

// MongoStore implements UserStore on a MongoDB collection.
type MongoStore struct {
	col *mongo.Collection
}

// NewMongoStore creates a MongoStore over db's users collection.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection(UsersCollection)}
}

// EnsureIndexes creates the unique indexes on username and email. These
// indexes, not the pre-check in Create, are the real uniqueness guard.
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("username_1"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_1"),
		},
	})
	return err
}

func (s *MongoStore) Create(ctx context.Context, username, email, passwordHash string) (*models.User, error) {
	// Advisory pre-check so the common case gets a precise error without
	// relying on index error parsing. Two concurrent creates can both pass
	// this; the unique index rejects the loser below.
	var existing models.User
	err := s.col.FindOne(ctx, bson.M{"$or": []bson.M{
		{"email": email},
		{"username": username},
	}}).Decode(&existing)
	if err == nil {
		if existing.Email == email {
			return nil, ErrDuplicateEmail
		}
		return nil, ErrDuplicateUsername
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		ID:        primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
		Username:  username,
		Email:     email,
		Password:  passwordHash,
		LastSeen:  now,
	}
	if _, err := s.col.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateFromIndexError(err)
		}
		return nil, err
	}
	return user, nil
}

// duplicateFromIndexError maps a unique-index violation back to the field
// that caused it, using the index name embedded in the server message.
func duplicateFromIndexError(err error) error {
	if strings.Contains(err.Error(), "email") {
		return ErrDuplicateEmail
	}
	return ErrDuplicateUsername
}

func (s *MongoStore) FindByEmail(ctx context.Context, email string, includeHash bool) (*models.User, error) {
	opts := options.FindOne()
	if !includeHash {
		opts.SetProjection(bson.M{"password": 0})
	}
	var user models.User
	err := s.col.FindOne(ctx, bson.M{"email": email}, opts).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var user models.User
	err = s.col.FindOne(ctx, bson.M{"_id": oid},
		options.FindOne().SetProjection(bson.M{"password": 0})).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, upd UserUpdate) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Username != nil && *upd.Username != "" {
		set["username"] = *upd.Username
	}
	if upd.Email != nil && *upd.Email != "" {
		set["email"] = *upd.Email
	}
	if upd.ProfilePic != nil && *upd.ProfilePic != "" {
		set["profile_pic"] = *upd.ProfilePic
	}
	if upd.Password != nil && *upd.Password != "" {
		set["password"] = *upd.Password
	}
	// Bio and phone clear on empty string.
	if upd.Bio != nil {
		set["bio"] = *upd.Bio
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}

	var user models.User
	err = s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().
			SetReturnDocument(options.After).
			SetProjection(bson.M{"password": 0}),
	).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateFromIndexError(err)
		}
		return nil, err
	}
	return &user, nil
}

func (s *MongoStore) List(ctx context.Context, excludeID string) ([]models.User, error) {
	filter := bson.M{}
	if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}
	cur, err := s.col.Find(ctx, filter, options.Find().
		SetProjection(bson.M{"password": 0}).
		SetSort(bson.D{{Key: "username", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoStore) Search(ctx context.Context, q, excludeID string) ([]models.User, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
	filter := bson.M{"$or": []bson.M{
		{"username": pattern},
		{"email": pattern},
	}}
	if oid, err := primitive.ObjectIDFromHex(excludeID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}
	cur, err := s.col.Find(ctx, filter, options.Find().
		SetProjection(bson.M{"password": 0}).
		SetLimit(SearchLimit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *MongoStore) SetOffline(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}
	_, err = s.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{
		"is_online": false,
		"last_seen": time.Now().UTC(),
	}})
	return err
}
