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

	"github.com/99minutos/todo-system/internal/core/domain"
)

const collectionTodos = "todos"

type TodoRepository struct {
	col *mongo.Collection
}

func NewTodoRepository(db *mongo.Database) *TodoRepository {
	return &TodoRepository{col: db.Collection(collectionTodos)}
}

type mongoTodo struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Text        string             `bson:"text"`
	Completed   bool               `bson:"completed"`
	CompletedAt *int64             `bson:"completedAt"`
	Creator     primitive.ObjectID `bson:"_creator"`
}

func (d *mongoTodo) toDomain() *domain.Todo {
	return &domain.Todo{
		ID:          d.ID.Hex(),
		Text:        d.Text,
		Completed:   d.Completed,
		CompletedAt: d.CompletedAt,
		CreatorID:   d.Creator.Hex(),
	}
}

// Create inserts a new todo document.
func (r *TodoRepository) Create(ctx context.Context, t *domain.Todo) (*domain.Todo, error) {
	creator, err := primitive.ObjectIDFromHex(t.CreatorID)
	if err != nil {
		return nil, fmt.Errorf("insert todo: invalid creator %q", t.CreatorID)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoTodo{
		Text:        t.Text,
		Completed:   t.Completed,
		CompletedAt: t.CompletedAt,
		Creator:     creator,
	}
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert todo: unexpected id type %T", res.InsertedID)
	}
	doc.ID = oid
	return doc.toDomain(), nil
}

// ListByCreator returns every todo of creatorID sorted by _id, which follows
// insertion order.
func (r *TodoRepository) ListByCreator(ctx context.Context, creatorID string) ([]*domain.Todo, error) {
	creator, err := primitive.ObjectIDFromHex(creatorID)
	if err != nil {
		return []*domain.Todo{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"_creator": creator}, opts)
	if err != nil {
		return nil, fmt.Errorf("find todos: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []mongoTodo
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode todos: %w", err)
	}

	todos := make([]*domain.Todo, 0, len(docs))
	for i := range docs {
		todos = append(todos, docs[i].toDomain())
	}
	return todos, nil
}

func (r *TodoRepository) FindOne(ctx context.Context, id, creatorID string) (*domain.Todo, error) {
	filter, err := ownedFilter(id, creatorID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return decodeTodo(r.col.FindOne(ctx, filter))
}

func (r *TodoRepository) DeleteOne(ctx context.Context, id, creatorID string) (*domain.Todo, error) {
	filter, err := ownedFilter(id, creatorID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return decodeTodo(r.col.FindOneAndDelete(ctx, filter))
}

// UpdateOne overwrites completed and completedAt and, when present, text.
// _creator is never part of the update.
func (r *TodoRepository) UpdateOne(ctx context.Context, id, creatorID string, changes domain.TodoChanges) (*domain.Todo, error) {
	filter, err := ownedFilter(id, creatorID)
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"completed":   changes.Completed,
		"completedAt": changes.CompletedAt,
	}
	if changes.Text != nil {
		set["text"] = *changes.Text
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	return decodeTodo(r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts))
}

// EnsureIndexes creates the per-creator lookup index.
func (r *TodoRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "_creator", Value: 1}, {Key: "_id", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// ownedFilter builds the {_id, _creator} filter. Malformed ids cannot match
// any document and are reported as not found.
func ownedFilter(id, creatorID string) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrTodoNotFound
	}
	creator, err := primitive.ObjectIDFromHex(creatorID)
	if err != nil {
		return nil, domain.ErrTodoNotFound
	}
	return bson.M{"_id": oid, "_creator": creator}, nil
}

func decodeTodo(res *mongo.SingleResult) (*domain.Todo, error) {
	var doc mongoTodo
	if err := res.Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}
	return doc.toDomain(), nil
}
