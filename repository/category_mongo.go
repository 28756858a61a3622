package repository

import (
	"context"
	"fmt"

	"budgeting/config"
	"budgeting/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoCategoryRepository 类别存放在 MongoDB 集合中的实现，文档结构为 {name}
type MongoCategoryRepository struct {
	coll *mongo.Collection
}

// NewMongoCategoryRepository 使用已有集合创建类别存储
func NewMongoCategoryRepository(coll *mongo.Collection) *MongoCategoryRepository {
	return &MongoCategoryRepository{coll: coll}
}

// OpenMongo 连接 MongoDB 并检查连通性
func OpenMongo(ctx context.Context, cfg *config.MongoConfig) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("连接 MongoDB 失败: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("MongoDB 不可用: %w", err)
	}
	return client, nil
}

// EnsureIndexes 为 name 建唯一索引，保证类别名称唯一
func (r *MongoCategoryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("创建类别索引失败: %w", err)
	}
	return nil
}

func (r *MongoCategoryRepository) Create(ctx context.Context, name string) (*models.Category, error) {
	category := models.Category{Name: name}
	if _, err := r.coll.InsertOne(ctx, category); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.ErrAlreadyExists
		}
		return nil, err
	}
	return &category, nil
}

func (r *MongoCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetProjection(bson.D{{Key: "_id", Value: 0}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	categories := make([]models.Category, 0)
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *MongoCategoryRepository) Delete(ctx context.Context, name string) error {
	result, err := r.coll.DeleteOne(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
