package main

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserUpdate carries the fields of a partial profile update. A nil field is
// left untouched; Password must already be hashed.
type UserUpdate struct {
	Username *string
	Email    *string
	Password *string
}

type UserStore interface {
	Insert(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, id primitive.ObjectID, upd UserUpdate) (*User, error)
	All(ctx context.Context) ([]User, error)
}

type TaskStore interface {
	Insert(ctx context.Context, task *Task) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Task, error)
	// FindByOwner lists a user's tasks, optionally filtered by completion.
	FindByOwner(ctx context.Context, owner primitive.ObjectID, completed *bool) ([]Task, error)
	Update(ctx context.Context, task *Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoUserStore struct {
	coll *mongo.Collection
}

func NewMongoUserStore(coll *mongo.Collection) *mongoUserStore {
	return &mongoUserStore{coll: coll}
}

// EnsureIndexes creates the unique indexes backing the username and email
// uniqueness invariants.
func (s *mongoUserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

func (s *mongoUserStore) Insert(ctx context.Context, user *User) error {
	now := time.Now()
	user.ID = primitive.NewObjectID()
	user.CreatedAt = now
	user.UpdatedAt = now
	_, err := s.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateUser
	}
	return err
}

func (s *mongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *mongoUserStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	return s.findOne(ctx, bson.M{"username": username})
}

func (s *mongoUserStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	return s.findOne(ctx, bson.M{"email": email})
}

func (s *mongoUserStore) findOne(ctx context.Context, filter bson.M) (*User, error) {
	var user User
	err := s.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *mongoUserStore) Update(ctx context.Context, id primitive.ObjectID, upd UserUpdate) (*User, error) {
	set := bson.M{"updatedAt": time.Now()}
	if upd.Username != nil {
		set["username"] = *upd.Username
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Password != nil {
		set["password"] = *upd.Password
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user User
	err := s.coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrUserNotFound
	}
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateUser
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *mongoUserStore) All(ctx context.Context) ([]User, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var users []User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

type mongoTaskStore struct {
	coll *mongo.Collection
}

func NewMongoTaskStore(coll *mongo.Collection) *mongoTaskStore {
	return &mongoTaskStore{coll: coll}
}

func (s *mongoTaskStore) Insert(ctx context.Context, task *Task) error {
	now := time.Now()
	task.ID = primitive.NewObjectID()
	task.CreatedAt = now
	task.UpdatedAt = now
	_, err := s.coll.InsertOne(ctx, task)
	return err
}

func (s *mongoTaskStore) FindByID(ctx context.Context, id primitive.ObjectID) (*Task, error) {
	var task Task
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrTaskNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *mongoTaskStore) FindByOwner(ctx context.Context, owner primitive.ObjectID, completed *bool) ([]Task, error) {
	filter := bson.M{"user": owner}
	if completed != nil {
		filter["completed"] = *completed
	}
	cursor, err := s.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var tasks []Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *mongoTaskStore) Update(ctx context.Context, task *Task) error {
	task.UpdatedAt = time.Now()
	set := bson.M{
		"title":       task.Title,
		"description": task.Description,
		"dueDate":     task.DueDate,
		"completed":   task.Completed,
		"updatedAt":   task.UpdatedAt,
	}
	res, err := s.coll.UpdateByID(ctx, task.ID, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func (s *mongoTaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrTaskNotFound
	}
	return nil
}
