package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/LorenzoPeve/rag-reddit/internal/indexer"
	"github.com/LorenzoPeve/rag-reddit/internal/service"
	"github.com/LorenzoPeve/rag-reddit/internal/service/mocks"
)

func TestIndexHandler_ServeHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockIndexService(ctrl)

	var done func(indexer.RunStats, error)
	svc.EXPECT().Start(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, fn func(indexer.RunStats, error)) error {
			done = fn
			return nil
		})

	w := httptest.NewRecorder()
	NewIndexHandler(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/index", nil))

	require.Equal(t, http.StatusAccepted, w.Code)
	var resp IndexResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "accepted", resp.Status)

	require.NotNil(t, done)
	done(indexer.RunStats{Inserted: 1}, nil)
	done(indexer.RunStats{}, errors.New("reddit unavailable"))
}

func TestIndexHandler_AlreadyRunning(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockIndexService(ctrl)
	svc.EXPECT().Start(gomock.Any(), gomock.Any()).Return(service.ErrIndexRunning)

	w := httptest.NewRecorder()
	NewIndexHandler(svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/index", nil))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestIndexHandler_ConcurrentTriggers(t *testing.T) {
	ctrl := gomock.NewController(t)
	ingester := mocks.NewMockIngester(ctrl)

	release := make(chan struct{})
	finished := make(chan struct{})
	ingester.EXPECT().Run(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, indexer.RunOptions) (indexer.RunStats, error) {
			<-release
			return indexer.RunStats{}, nil
		})
	ingester.EXPECT().Backfill(gomock.Any()).
		DoAndReturn(func(context.Context) (indexer.RunStats, error) {
			defer close(finished)
			return indexer.RunStats{}, nil
		})

	handler := NewIndexHandler(service.NewIndexService(ingester, service.IndexConfig{Windows: []string{"month"}}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/api/index", nil))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/api/index", nil))

	assert.Equal(t, http.StatusAccepted, first.Code)
	assert.Equal(t, http.StatusConflict, second.Code)

	close(release)
	<-finished
}

func TestIndexHandler_MethodNotAllowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := mocks.NewMockIndexService(ctrl)

	w := httptest.NewRecorder()
	NewIndexHandler(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/index", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestIndexStatsHandler_ServeHTTP(t *testing.T) {
	t.Run("returns coverage", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockIndexService(ctrl)
		svc.EXPECT().Stats(gomock.Any()).Return(&indexer.CoverageStats{
			Posts:           12,
			Chunks:          40,
			ChunkTokenStats: indexer.ChunkTokenStats{Min: 3, Max: 512, Mean: 301.5, P95: 512},
			IndexVersion:    "00ff",
		}, nil)

		w := httptest.NewRecorder()
		NewIndexStatsHandler(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/index/stats", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var got indexer.CoverageStats
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, 12, got.Posts)
		assert.Equal(t, 512, got.ChunkTokenStats.P95)
	})

	t.Run("stats failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		svc := mocks.NewMockIndexService(ctrl)
		svc.EXPECT().Stats(gomock.Any()).Return(nil, errors.New("database is locked"))

		w := httptest.NewRecorder()
		NewIndexStatsHandler(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/index/stats", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
