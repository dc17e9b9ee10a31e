package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-order-pipeline/internal/model"
	"service-order-pipeline/internal/pipeline"
	mock_pipeline "service-order-pipeline/internal/pipeline/mocks"
)

func statuses(checks []model.IntegrityCheck) map[string]string {
	out := make(map[string]string, len(checks))
	for _, c := range checks {
		out[c.Check] = c.Status
	}
	return out
}

func TestIntegrityChecker_Check(t *testing.T) {
	tests := []struct {
		name   string
		counts model.OrderCounts
		want   map[string]string
		wantOK bool
	}{
		{
			name:   "clean store",
			counts: model.OrderCounts{Total: 10, InRange: 10},
			want: map[string]string{
				model.CheckTotalRecords:   model.IntegrityOK,
				model.CheckValidDateRange: model.IntegrityOK,
				model.CheckFinancial:      model.IntegrityOK,
			},
			wantOK: true,
		},
		{
			name:   "empty store",
			counts: model.OrderCounts{},
			want: map[string]string{
				model.CheckTotalRecords:   model.IntegrityOK,
				model.CheckValidDateRange: model.IntegrityOK,
				model.CheckFinancial:      model.IntegrityOK,
			},
			wantOK: true,
		},
		{
			name:   "orders outside the year range",
			counts: model.OrderCounts{Total: 10, InRange: 7, BeforeMin: 2, AfterMax: 1},
			want: map[string]string{
				model.CheckTotalRecords:   model.IntegrityOK,
				model.CheckValidDateRange: model.IntegrityError,
				model.CheckFinancial:      model.IntegrityOK,
			},
		},
		{
			name:   "unverified totals",
			counts: model.OrderCounts{Total: 10, InRange: 10, Unverified: 3},
			want: map[string]string{
				model.CheckTotalRecords:   model.IntegrityOK,
				model.CheckValidDateRange: model.IntegrityOK,
				model.CheckFinancial:      model.IntegrityError,
			},
		},
		{
			name:   "unaccounted dates",
			counts: model.OrderCounts{Total: 10, InRange: 8, BeforeMin: 1},
			want: map[string]string{
				model.CheckTotalRecords:   model.IntegrityError,
				model.CheckValidDateRange: model.IntegrityError,
				model.CheckFinancial:      model.IntegrityOK,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			st := mock_pipeline.NewMockIntegrityStore(ctrl)

			st.EXPECT().OrderCounts(gomock.Any(), 2019, 2025).Return(tt.counts, nil)
			var saved []model.IntegrityCheck
			st.EXPECT().SaveIntegrityChecks(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, checks []model.IntegrityCheck) error {
					saved = checks
					return nil
				})

			report, err := pipeline.NewIntegrityChecker(st, pipeline.ValidationRules{}, nil).Check(context.Background())
			require.NoError(t, err)

			assert.Equal(t, tt.wantOK, report.OK)
			assert.Equal(t, tt.counts, report.Counts)
			assert.Equal(t, 2019, report.MinYear)
			assert.Equal(t, 2025, report.MaxYear)
			assert.Equal(t, tt.want, statuses(report.Checks))
			assert.Equal(t, report.Checks, saved)
		})
	}
}

func TestIntegrityChecker_CustomYears(t *testing.T) {
	ctrl := gomock.NewController(t)
	st := mock_pipeline.NewMockIntegrityStore(ctrl)
	st.EXPECT().OrderCounts(gomock.Any(), 2020, 2022).Return(model.OrderCounts{Total: 1, InRange: 1}, nil)
	st.EXPECT().SaveIntegrityChecks(gomock.Any(), gomock.Any()).Return(nil)

	report, err := pipeline.NewIntegrityChecker(st, pipeline.ValidationRules{MinYear: 2020, MaxYear: 2022}, nil).
		Check(context.Background())
	require.NoError(t, err)
	assert.True(t, report.OK)
}

func TestIntegrityChecker_StoreErrors(t *testing.T) {
	t.Run("count failure is returned", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		st := mock_pipeline.NewMockIntegrityStore(ctrl)
		st.EXPECT().OrderCounts(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.OrderCounts{}, errors.New("db down"))

		_, err := pipeline.NewIntegrityChecker(st, pipeline.ValidationRules{}, nil).Check(context.Background())
		assert.ErrorContains(t, err, "db down")
	})

	t.Run("log failure still reports", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		st := mock_pipeline.NewMockIntegrityStore(ctrl)
		st.EXPECT().OrderCounts(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.OrderCounts{Total: 2, InRange: 2}, nil)
		st.EXPECT().SaveIntegrityChecks(gomock.Any(), gomock.Any()).Return(errors.New("read-only"))

		report, err := pipeline.NewIntegrityChecker(st, pipeline.ValidationRules{}, nil).Check(context.Background())
		require.NoError(t, err)
		assert.True(t, report.OK)
		assert.Len(t, report.Checks, 3)
	})
}
