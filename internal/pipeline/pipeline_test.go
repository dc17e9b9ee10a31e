package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-order-pipeline/internal/classifier"
	"service-order-pipeline/internal/lock"
	"service-order-pipeline/internal/metrics"
	"service-order-pipeline/internal/model"
	"service-order-pipeline/internal/pipeline"
	mock_pipeline "service-order-pipeline/internal/pipeline/mocks"
	"service-order-pipeline/internal/store"
)

// mixedWorkbook holds 9 data rows: 4 valid, 2 missing a field, and one each
// of bad status, bad date and out-of-range year.
func mixedWorkbook(t *testing.T) []byte {
	return buildWorkbook(t, pipeline.DefaultSheet,
		standardHeader,
		orderRow("OS-1", "15/03/2021", "G", "JOAO", "vazamento no retentor", 200, 50, 150),
		orderRow("OS-2", 44270, "GO", "MARIA", "", 100, 10, 60),
		orderRow("", "15/03/2021", "G", "", "", 0, 0, 0),
		orderRow("OS-4", "15/03/2021", "x", "", "", 0, 0, 0),
		orderRow("OS-5", "32/01/2021", "G", "", "", 0, 0, 0),
		orderRow("OS-6", "10/10/2018", "G", "", "", 0, 0, 0),
		orderRow("OS-7", "2022-01-10", "gu", "JOAO", "turbina com ruido", 0, 0, 0),
		nil,
		orderRow("OS-1", "16/03/2021", "G", "PEDRO", "", 0, 0, 0),
	)
}

func fastConfig() pipeline.Config {
	return pipeline.Config{
		Reconcile: pipeline.ReconcileOptions{Retry: fastRetry},
	}
}

func TestIngest_Summary(t *testing.T) {
	in, err := pipeline.New(fastConfig(), pipeline.Deps{})
	require.NoError(t, err)

	res, err := in.Ingest(context.Background(), mixedWorkbook(t))
	require.NoError(t, err)

	s := res.Summary
	assert.Equal(t, 9, s.TotalRows)
	assert.Equal(t, 4, s.ValidRows)
	assert.Equal(t, 2, s.RejectedByMissingFields)
	assert.Equal(t, 1, s.RejectedByInvalidStatus)
	assert.Equal(t, 1, s.RejectedByInvalidDate)
	assert.Equal(t, 1, s.RejectedByYearRange)
	assert.True(t, s.MathematicallyCorrect)
	assert.Equal(t, map[string]int{"G": 2, "GO": 1, "GU": 1}, s.StatusDistribution)
	assert.Equal(t, map[int]int{2021: 3, 2022: 1}, s.YearDistribution)
	assert.Equal(t, 1, s.StatusSeen["X"])

	require.Len(t, res.Records, 4)
	assert.Equal(t, []string{"OS-1", "OS-2", "OS-7", "OS-1"}, keysOf(res.Records))
	assert.Equal(t, day(2021, time.March, 15), res.Records[1].OrderDate)
	assert.Equal(t, "50", res.Records[1].PartsTotal.String())

	rows := make([]int, len(s.Samples))
	for i, r := range s.Samples {
		rows[i] = r.Row
	}
	assert.Equal(t, []int{4, 5, 6, 7, 9}, rows)
}

func TestIngest_FatalErrors(t *testing.T) {
	in, err := pipeline.New(fastConfig(), pipeline.Deps{})
	require.NoError(t, err)

	noStatus := buildWorkbook(t, pipeline.DefaultSheet,
		[]interface{}{"NOrdem_OSv", "Data_OSv"},
		[]interface{}{"OS-1", "15/03/2021"},
	)
	_, err = in.Ingest(context.Background(), noStatus)
	var mce *pipeline.MissingColumnsError
	require.ErrorAs(t, err, &mce)
	assert.Equal(t, []string{"Status_OSv"}, mce.Missing)

	_, err = in.Ingest(context.Background(), nil)
	assert.ErrorIs(t, err, pipeline.ErrEmptyFile)
}

func TestIngest_NonFiniteMoneyDoesNotAbort(t *testing.T) {
	in, err := pipeline.New(fastConfig(), pipeline.Deps{})
	require.NoError(t, err)

	for _, raw := range []string{"NaN", "Inf", "-infinity"} {
		t.Run(raw, func(t *testing.T) {
			row := orderRow("OS-1", "15/03/2021", "G", "", "", 0, 0, 0)
			row[8] = raw
			data := buildWorkbook(t, pipeline.DefaultSheet, standardHeader, row)

			var res *model.IngestionResult
			require.NotPanics(t, func() {
				res, err = in.Ingest(context.Background(), data)
			})
			require.NoError(t, err)
			require.Len(t, res.Records, 1)
			assert.True(t, res.Records[0].PartsTotal.IsZero())
			assert.True(t, res.Records[0].OriginalPartsValue.IsZero())
		})
	}
}

func TestIngest_CustomSheet(t *testing.T) {
	cfg := fastConfig()
	cfg.Sheet = "Export"
	in, err := pipeline.New(cfg, pipeline.Deps{})
	require.NoError(t, err)

	res, err := in.Ingest(context.Background(), buildWorkbook(t, "Export",
		standardHeader, orderRow("OS-1", "15/03/2021", "G", "", "", 0, 0, 0)))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Summary.ValidRows)
}

func TestNew_RejectsUnknownDateFormat(t *testing.T) {
	_, err := pipeline.New(pipeline.Config{DateFormats: []string{"YY"}}, pipeline.Deps{})
	assert.Error(t, err)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	orders := mock_pipeline.NewMockOrderStore(ctrl)
	sessions := mock_pipeline.NewMockSessionSink(ctrl)

	in, err := pipeline.New(fastConfig(), pipeline.Deps{Orders: orders, Sessions: sessions})
	require.NoError(t, err)

	report, err := in.Run(context.Background(), pipeline.Upload{FileName: "os.xlsx", Data: mixedWorkbook(t), DryRun: true})
	require.NoError(t, err)
	in.Wait()

	assert.True(t, report.DryRun)
	assert.NotEmpty(t, report.UploadID)
	assert.Equal(t, 4, report.Summary.ValidRows)
	assert.Zero(t, report.Reconciliation.Inserted)
	assert.Equal(t, 1, report.Attempts)
}

func TestRun_FullUpload(t *testing.T) {
	ctrl := gomock.NewController(t)
	orders := mock_pipeline.NewMockOrderStore(ctrl)
	sessions := mock_pipeline.NewMockSessionSink(ctrl)
	mechanics := mock_pipeline.NewMockMechanicStore(ctrl)
	defects := mock_pipeline.NewMockDefectClassifier(ctrl)

	orders.EXPECT().ExistingOrderNumbers(gomock.Any(), []string{"OS-1", "OS-2", "OS-7"}).
		Return(map[string]bool{"OS-7": true}, nil)
	orders.EXPECT().InsertOrders(gomock.Any(), gomock.Any()).DoAndReturn(insertAll)

	var saved model.UploadSession
	sessions.EXPECT().SaveSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s model.UploadSession) error {
			saved = s
			return nil
		})

	mechanics.EXPECT().ExistingMechanics(gomock.Any(), []string{"JOAO", "MARIA", "PEDRO"}).Return([]string{"JOAO"}, nil)
	mechanics.EXPECT().InsertMechanics(gomock.Any(), []string{"MARIA", "PEDRO"}, model.MechanicAutoDetected).Return(int64(2), nil)

	// only OS-1 is both newly inserted and carries defect text
	defects.EXPECT().ClassifyAndPersist(gomock.Any(), "OS-1", "vazamento no retentor").
		Return(model.DefectClassification{OrderNumber: "OS-1", Category: "Vazamentos"}, nil)

	reg := metrics.NewRegistry()
	in, err := pipeline.New(fastConfig(), pipeline.Deps{
		Orders:     orders,
		Sessions:   sessions,
		Mechanics:  mechanics,
		Classifier: defects,
		Metrics:    reg,
	})
	require.NoError(t, err)

	report, err := in.Run(context.Background(), pipeline.Upload{FileName: "os.xlsx", Data: mixedWorkbook(t)})
	require.NoError(t, err)
	in.Wait()

	rec := report.Reconciliation
	assert.Equal(t, 2, rec.Inserted)
	assert.Equal(t, 2, rec.Skipped)
	assert.Equal(t, 1, rec.DuplicatesInBatch)
	assert.Equal(t, []string{"OS-1", "OS-2"}, rec.InsertedKeys)
	assert.Equal(t, []string{"OS-7"}, rec.SkippedKeys)
	assert.Equal(t, report.Summary.ValidRows, rec.Inserted+rec.Skipped+rec.Errors)

	assert.Equal(t, report.UploadID, saved.ID)
	assert.Equal(t, model.SessionSucceeded, saved.Status)
	assert.Equal(t, "os.xlsx", saved.FileName)
	require.NotNil(t, saved.Reconciliation)
	assert.Equal(t, 2, saved.Reconciliation.Inserted)
	assert.False(t, saved.FinishedAt.Before(saved.StartedAt))
}

func TestRun_FatalErrorRecordsFailedSession(t *testing.T) {
	ctrl := gomock.NewController(t)
	orders := mock_pipeline.NewMockOrderStore(ctrl)
	sessions := mock_pipeline.NewMockSessionSink(ctrl)

	sessions.EXPECT().SaveSession(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s model.UploadSession) error {
			assert.Equal(t, model.SessionFailed, s.Status)
			assert.Contains(t, s.Error, "Tabela")
			return nil
		})

	in, err := pipeline.New(fastConfig(), pipeline.Deps{Orders: orders, Sessions: sessions})
	require.NoError(t, err)

	_, err = in.Run(context.Background(), pipeline.Upload{
		FileName: "wrong.xlsx",
		Data:     buildWorkbook(t, "Plan1", standardHeader),
	})
	require.Error(t, err)
	assert.True(t, pipeline.IsFatal(err))
}

func TestRun_WholeRunRetry(t *testing.T) {
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name         string
		ctx          context.Context
		timeout      time.Duration
		data         []byte
		wantErr      error
		wantFatal    bool
		wantAttempts int
	}{
		{
			name:         "timeout retries until attempts run out",
			ctx:          context.Background(),
			timeout:      time.Nanosecond,
			data:         mixedWorkbook(t),
			wantErr:      context.DeadlineExceeded,
			wantAttempts: 3,
		},
		{
			name:         "fatal workbook error is not retried",
			ctx:          context.Background(),
			timeout:      time.Nanosecond,
			data:         buildWorkbook(t, "Plan1", standardHeader),
			wantFatal:    true,
			wantAttempts: 1,
		},
		{
			name:         "caller cancellation is not retried",
			ctx:          cancelled,
			timeout:      time.Minute,
			data:         mixedWorkbook(t),
			wantErr:      context.Canceled,
			wantAttempts: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			orders := mock_pipeline.NewMockOrderStore(ctrl)
			sessions := mock_pipeline.NewMockSessionSink(ctrl)

			var saved model.UploadSession
			sessions.EXPECT().SaveSession(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, s model.UploadSession) error {
					saved = s
					return nil
				})

			cfg := fastConfig()
			cfg.RunTimeout = tt.timeout
			cfg.RunAttempts = 3
			cfg.RunRetryPause = time.Millisecond
			in, err := pipeline.New(cfg, pipeline.Deps{Orders: orders, Sessions: sessions})
			require.NoError(t, err)

			report, err := in.Run(tt.ctx, pipeline.Upload{FileName: "os.xlsx", Data: tt.data})
			require.Error(t, err)
			assert.Nil(t, report)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantFatal, pipeline.IsFatal(err))
			assert.Equal(t, model.SessionFailed, saved.Status)
			assert.Equal(t, tt.wantAttempts, saved.Attempts)
		})
	}
}

func TestRun_SessionFailureDoesNotFailUpload(t *testing.T) {
	ctrl := gomock.NewController(t)
	orders := mock_pipeline.NewMockOrderStore(ctrl)
	sessions := mock_pipeline.NewMockSessionSink(ctrl)

	orders.EXPECT().ExistingOrderNumbers(gomock.Any(), gomock.Any()).Return(map[string]bool{}, nil)
	orders.EXPECT().InsertOrders(gomock.Any(), gomock.Any()).DoAndReturn(insertAll)
	sessions.EXPECT().SaveSession(gomock.Any(), gomock.Any()).Return(errors.New("audit table locked"))

	in, err := pipeline.New(fastConfig(), pipeline.Deps{Orders: orders, Sessions: sessions})
	require.NoError(t, err)

	report, err := in.Run(context.Background(), pipeline.Upload{
		FileName: "os.xlsx",
		Data:     buildWorkbook(t, pipeline.DefaultSheet, standardHeader, orderRow("OS-1", "15/03/2021", "G", "", "", 0, 0, 0)),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Reconciliation.Inserted)
}

func TestRun_ReuploadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, err := store.Open(store.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(ctx))
	_, err = db.SeedCategories(ctx, classifier.DefaultCategories)
	require.NoError(t, err)

	in, err := pipeline.New(fastConfig(), pipeline.Deps{
		Orders:     db,
		Sessions:   db,
		Mechanics:  db,
		Classifier: classifier.NewService(classifier.NewCatalog(db), db, 0, 1, nil),
		Locker:     lock.NewMemory(),
	})
	require.NoError(t, err)

	data := mixedWorkbook(t)
	first, err := in.Run(ctx, pipeline.Upload{FileName: "os.xlsx", Data: data})
	require.NoError(t, err)
	in.Wait()

	assert.Equal(t, 3, first.Reconciliation.Inserted)
	assert.Equal(t, 1, first.Reconciliation.Skipped)

	second, err := in.Run(ctx, pipeline.Upload{FileName: "os.xlsx", Data: data})
	require.NoError(t, err)
	in.Wait()

	assert.Zero(t, second.Reconciliation.Inserted)
	assert.Equal(t, 4, second.Reconciliation.Skipped)
	assert.ElementsMatch(t, []string{"OS-1", "OS-2", "OS-7"}, second.Reconciliation.SkippedKeys)

	n, err := db.CountOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	stored, err := db.GetOrder(ctx, "OS-1")
	require.NoError(t, err)
	assert.True(t, day(2021, time.March, 15).Equal(stored.OrderDate))
	assert.Equal(t, "100", stored.PartsTotal.String())

	sessions, err := db.ListSessions(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, sessions, 2)

	mechs, err := db.ListMechanics(ctx)
	require.NoError(t, err)
	assert.Len(t, mechs, 3)

	c, err := db.GetClassification(ctx, "OS-7")
	require.NoError(t, err)
	assert.Equal(t, "Turbo", c.Category)
}
