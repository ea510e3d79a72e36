package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/rosterhq/roster-api/internal/core/domain"
)

const studentCollection = "students"

// MongoStudentRepository persists roster records.
type MongoStudentRepository struct {
	coll *mongo.Collection
}

func NewStudentRepository(db *mongo.Database) *MongoStudentRepository {
	return &MongoStudentRepository{coll: db.Collection(studentCollection)}
}

type mongoStudent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Age       int                `bson:"age"`
	Sex       string             `bson:"sex"`
	Email     string             `bson:"email"`
	Phone     string             `bson:"phone"`
	Address   string             `bson:"address"`
	Major     string             `bson:"major"`
	CreatedAt int64              `bson:"created_at"`
	UpdatedAt int64              `bson:"updated_at"`
}

func ensureStudentIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *MongoStudentRepository) Create(ctx context.Context, s *domain.Student) (*domain.Student, error) {
	doc := fromDomainStudent(s)
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateStudent
		}
		return nil, fmt.Errorf("insert student: %w", err)
	}

	id, _ := res.InsertedID.(primitive.ObjectID)
	out := *s
	out.ID = id.Hex()
	return &out, nil
}

func (r *MongoStudentRepository) FindByID(ctx context.Context, id string) (*domain.Student, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrStudentNotFound
	}

	var ms mongoStudent
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&ms); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrStudentNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return ms.toDomain(), nil
}

func (r *MongoStudentRepository) List(ctx context.Context) ([]*domain.Student, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer cur.Close(ctx)

	var out []*domain.Student
	for cur.Next(ctx) {
		var ms mongoStudent
		if err := cur.Decode(&ms); err != nil {
			return nil, fmt.Errorf("decode student: %w", err)
		}
		out = append(out, ms.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return out, nil
}

func (r *MongoStudentRepository) Update(ctx context.Context, s *domain.Student) (*domain.Student, error) {
	oid, err := primitive.ObjectIDFromHex(s.ID)
	if err != nil {
		return nil, domain.ErrStudentNotFound
	}

	doc := fromDomainStudent(s)
	res := r.coll.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": doc})
	if err := res.Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrStudentNotFound
		}
		return nil, fmt.Errorf("update student: %w", err)
	}
	return s, nil
}

func (r *MongoStudentRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrStudentNotFound
	}

	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}

func fromDomainStudent(s *domain.Student) mongoStudent {
	return mongoStudent{
		Name:      s.Name,
		Age:       s.Age,
		Sex:       s.Sex,
		Email:     s.Email,
		Phone:     s.Phone,
		Address:   s.Address,
		Major:     s.Major,
		CreatedAt: s.CreatedAt.Unix(),
		UpdatedAt: s.UpdatedAt.Unix(),
	}
}

func (ms *mongoStudent) toDomain() *domain.Student {
	return &domain.Student{
		ID:        ms.ID.Hex(),
		Name:      ms.Name,
		Age:       ms.Age,
		Sex:       ms.Sex,
		Email:     ms.Email,
		Phone:     ms.Phone,
		Address:   ms.Address,
		Major:     ms.Major,
		CreatedAt: unixToTime(ms.CreatedAt),
		UpdatedAt: unixToTime(ms.UpdatedAt),
	}
}
