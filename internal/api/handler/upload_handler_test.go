package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"service-order-pipeline/internal/api"
	"service-order-pipeline/internal/api/handler"
	"service-order-pipeline/internal/model"
	"service-order-pipeline/internal/pipeline"
	"service-order-pipeline/internal/store"
	"service-order-pipeline/pkg/router"
	"service-order-pipeline/pkg/utils"
)

type fakeUploader struct {
	got    pipeline.Upload
	report *model.UploadReport
	err    error
}

func (f *fakeUploader) Run(_ context.Context, up pipeline.Upload) (*model.UploadReport, error) {
	f.got = up
	if f.err != nil {
		return nil, f.err
	}
	r := *f.report
	r.FileName = up.FileName
	r.DryRun = up.DryRun
	return &r, nil
}

type fakeSessions struct {
	sessions []model.UploadSession
	limit    int
	err      error
}

func (f *fakeSessions) ListSessions(_ context.Context, limit int) ([]model.UploadSession, error) {
	f.limit = limit
	return f.sessions, f.err
}

func (f *fakeSessions) GetSession(_ context.Context, id string) (*model.UploadSession, error) {
	for _, s := range f.sessions {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, store.ErrNotFound
}

func multipartBody(t *testing.T, field, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		fw, err := mw.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func newServer(u handler.Uploader, s handler.SessionReader, maxBytes int64, outputs *utils.OutputManager) *router.Router {
	r := router.New(nil)
	api.RegisterRoutes(r, handler.NewUploadHandler(u, s, maxBytes, outputs, nil), nil)
	return r
}

func post(t *testing.T, srv http.Handler, url, field, name string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, field, name, content)
	req := httptest.NewRequest(http.MethodPost, url, body)
	req.Header.Set("Content-Type", ct)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestCreateUpload(t *testing.T) {
	u := &fakeUploader{report: &model.UploadReport{
		UploadID:       "u-1",
		Summary:        model.IngestionSummary{TotalRows: 2, ValidRows: 2, MathematicallyCorrect: true},
		Reconciliation: model.ReconciliationResult{Inserted: 2, InsertedKeys: []string{"OS-1", "OS-2"}, SkippedKeys: []string{}},
	}}
	srv := newServer(u, &fakeSessions{}, 1<<20, nil)

	rec := post(t, srv, "/api/v1/uploads", "file", "../exports/Ordens.XLSX", []byte("xlsx-bytes"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var report model.UploadReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "u-1", report.UploadID)
	assert.Equal(t, 2, report.Reconciliation.Inserted)
	assert.Equal(t, "Ordens.XLSX", u.got.FileName)
	assert.Equal(t, []byte("xlsx-bytes"), u.got.Data)
	assert.False(t, u.got.DryRun)
}

func TestCreateUpload_DryRun(t *testing.T) {
	u := &fakeUploader{report: &model.UploadReport{UploadID: "u-1"}}
	srv := newServer(u, &fakeSessions{}, 1<<20, nil)

	rec := post(t, srv, "/api/v1/uploads?dry_run=true", "file", "os.xlsx", []byte("x"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, u.got.DryRun)
}

func TestCreateUpload_Errors(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		file     string
		content  []byte
		maxBytes int64
		runErr   error
		want     int
		wantMsg  string
	}{
		{name: "no file field", want: http.StatusBadRequest, wantMsg: "required"},
		{name: "wrong field name", field: "upload", file: "os.xlsx", content: []byte("x"), want: http.StatusBadRequest},
		{name: "not xlsx", field: "file", file: "os.csv", content: []byte("a,b"), want: http.StatusBadRequest, wantMsg: ".xlsx"},
		{name: "too large", field: "file", file: "os.xlsx", content: bytes.Repeat([]byte("x"), 4096), maxBytes: 512, want: http.StatusRequestEntityTooLarge},
		{
			name: "missing sheet", field: "file", file: "os.xlsx", content: []byte("x"),
			runErr: &pipeline.MissingSheetError{Want: "Tabela", Found: []string{"Plan1"}},
			want:   http.StatusUnprocessableEntity, wantMsg: "Plan1",
		},
		{
			name: "missing columns", field: "file", file: "os.xlsx", content: []byte("x"),
			runErr: &pipeline.MissingColumnsError{Missing: []string{"Status_OSv"}},
			want:   http.StatusUnprocessableEntity, wantMsg: "Status_OSv",
		},
		{
			name: "unexpected failure", field: "file", file: "os.xlsx", content: []byte("x"),
			runErr: errors.New("connection refused"),
			want:   http.StatusInternalServerError, wantMsg: "upload failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			maxBytes := tt.maxBytes
			if maxBytes == 0 {
				maxBytes = 1 << 20
			}
			u := &fakeUploader{report: &model.UploadReport{}, err: tt.runErr}
			srv := newServer(u, &fakeSessions{}, maxBytes, nil)

			rec := post(t, srv, "/api/v1/uploads", tt.field, tt.file, tt.content)
			assert.Equal(t, tt.want, rec.Code)
			if tt.wantMsg != "" {
				assert.Contains(t, errorBody(t, rec), tt.wantMsg)
			}
		})
	}
}

func TestCreateUpload_SavesReportFiles(t *testing.T) {
	dir := t.TempDir()
	u := &fakeUploader{report: &model.UploadReport{UploadID: "u-42"}}
	srv := newServer(u, &fakeSessions{}, 1<<20, utils.NewOutputManager(dir))

	rec := post(t, srv, "/api/v1/uploads", "file", "os.xlsx", []byte("x"))
	require.Equal(t, http.StatusOK, rec.Code)

	for _, name := range []string{"report.json", "rejected.csv"} {
		_, err := os.Stat(filepath.Join(dir, "u-42", name))
		assert.NoError(t, err, name)
	}
}

func TestListAndGetUploads(t *testing.T) {
	sessions := &fakeSessions{sessions: []model.UploadSession{
		{ID: "s-2", FileName: "b.xlsx", Status: model.SessionSucceeded},
		{ID: "s-1", FileName: "a.xlsx", Status: model.SessionFailed, Error: "boom"},
	}}
	srv := newServer(&fakeUploader{}, sessions, 1<<20, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/uploads?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var list []model.UploadSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 2)
	assert.Equal(t, 5, sessions.limit)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/uploads/s-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got model.UploadSession
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "boom", got.Error)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/uploads/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/uploads/s-1", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestListUploads_StoreError(t *testing.T) {
	srv := newServer(&fakeUploader{}, &fakeSessions{err: errors.New("db down")}, 1<<20, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/uploads", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHealth(t *testing.T) {
	srv := newServer(&fakeUploader{}, &fakeSessions{}, 1<<20, nil)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
