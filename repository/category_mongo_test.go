package repository

import (
	"context"
	"testing"

	"budgeting/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoCategoryRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create", func(mt *mtest.T) {
		repo := NewMongoCategoryRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		category, err := repo.Create(context.Background(), "food")
		require.NoError(mt, err)
		assert.Equal(mt, "food", category.Name)
	})

	mt.Run("create duplicate", func(mt *mtest.T) {
		repo := NewMongoCategoryRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		_, err := repo.Create(context.Background(), "food")
		assert.ErrorIs(mt, err, models.ErrAlreadyExists)
	})

	mt.Run("list", func(mt *mtest.T) {
		repo := NewMongoCategoryRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "name", Value: "food"}},
			bson.D{{Key: "name", Value: "rent"}},
		))

		list, err := repo.List(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, []models.Category{{Name: "food"}, {Name: "rent"}}, list)
	})

	mt.Run("list empty", func(mt *mtest.T) {
		repo := NewMongoCategoryRepository(mt.Coll)
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		list, err := repo.List(context.Background())
		require.NoError(mt, err)
		assert.NotNil(mt, list)
		assert.Empty(mt, list)
	})

	mt.Run("delete", func(mt *mtest.T) {
		repo := NewMongoCategoryRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		assert.NoError(mt, repo.Delete(context.Background(), "food"))
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := NewMongoCategoryRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		assert.ErrorIs(mt, repo.Delete(context.Background(), "travel"), models.ErrNotFound)
	})

	mt.Run("ensure indexes", func(mt *mtest.T) {
		repo := NewMongoCategoryRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		assert.NoError(mt, repo.EnsureIndexes(context.Background()))
	})
}
