package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"brainstorm/internal/model"
)

func TestResultRepo(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("save assigns an id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewResultRepo(mt.Client, "brainstorm_test")

		res := &model.GameResult{RoomCode: "ABCDEF", PlayerCount: 2, FinishedAt: time.Now()}
		require.NoError(mt, repo.Save(context.Background(), res))
		assert.NotEmpty(mt, res.ID)
	})

	mt.Run("save surfaces write errors", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		repo := NewResultRepo(mt.Client, "brainstorm_test")

		err := repo.Save(context.Background(), &model.GameResult{ID: "dup"})
		assert.Error(mt, err)
	})

	mt.Run("list recent decodes documents", func(mt *mtest.T) {
		ns := "brainstorm_test.results"
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "r2"}, {Key: "roomCode", Value: "BBBBBB"}, {Key: "playerCount", Value: 3}},
			bson.D{{Key: "_id", Value: "r1"}, {Key: "roomCode", Value: "AAAAAA"}, {Key: "playerCount", Value: 2}},
		)
		end := mtest.CreateCursorResponse(0, ns, mtest.NextBatch)
		mt.AddMockResponses(first, end)
		repo := NewResultRepo(mt.Client, "brainstorm_test")

		results, err := repo.ListRecent(context.Background(), 10)
		require.NoError(mt, err)
		require.Len(mt, results, 2)
		assert.Equal(mt, "r2", results[0].ID)
		assert.Equal(mt, "BBBBBB", results[0].RoomCode)
		assert.Equal(mt, 2, results[1].PlayerCount)
	})
}
