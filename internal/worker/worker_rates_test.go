package worker_test

import (
	"context"
	"errors"
	"testing"

	"go-rota/internal/worker"
	mock_worker "go-rota/internal/worker/mock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestRateReader_HourlyRates(t *testing.T) {
	ctx := context.Background()
	paid := uuid.New()
	unpaid := uuid.New()
	missing := uuid.New()

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mock_worker.NewMockRepository(ctrl)
		reader := worker.NewRateReader(mockRepo)

		mockRepo.EXPECT().
			FindByIDs(gomock.Any(), []uuid.UUID{paid, unpaid, missing}).
			Return([]worker.Worker{
				{ID: paid, HourlyRate: decimal.NewFromInt(10)},
				{ID: unpaid, HourlyRate: decimal.Zero},
			}, nil)

		rates, err := reader.HourlyRates(ctx, []uuid.UUID{paid, unpaid, missing})

		assert.NoError(t, err)
		assert.Len(t, rates, 2)
		assert.True(t, rates[paid].Equal(decimal.NewFromInt(10)))
		_, ok := rates[missing]
		assert.False(t, ok)
	})

	t.Run("repository error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := mock_worker.NewMockRepository(ctrl)
		reader := worker.NewRateReader(mockRepo)

		mockRepo.EXPECT().
			FindByIDs(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("db error"))

		rates, err := reader.HourlyRates(ctx, []uuid.UUID{paid})

		assert.Error(t, err)
		assert.Nil(t, rates)
	})

	t.Run("no ids skips the repository", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		reader := worker.NewRateReader(mock_worker.NewMockRepository(ctrl))

		rates, err := reader.HourlyRates(ctx, nil)

		assert.NoError(t, err)
		assert.Empty(t, rates)
	})
}
