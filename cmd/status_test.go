package cmd

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stockhop/cli/internal/config"
	"github.com/stockhop/cli/internal/storage"
	"github.com/stockhop/cli/internal/tabs"
	"github.com/stockhop/cli/pkg/stockcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_AllOK(t *testing.T) {
	setupStdoutCapture(t)
	svc, opener := newTestService(t)
	svc.Submit(context.Background(), "2330")

	s := StatusCmd{
		cfg:        &config.Config{Storage: storage.KindMemory, Opener: tabs.KindDryRun},
		svc:        svc,
		classifier: testClassifier(t),
		opener:     opener,
	}
	resp := s.Check(context.Background())
	assert.Equal(t, statusOK, resp.Status)
	require.Len(t, resp.Components, 3)
	assert.Equal(t, "memory, 1 entry", resp.Components[0].Detail)
	assert.Equal(t, "2 TPEx codes", resp.Components[2].Detail)

	require.NoError(t, s.Show(context.Background(), StatusInput{}))
	assert.Contains(t, outBuf.String(), "stockhop status: OK")
}

func TestStatus_DegradedWhenStorageAndCDPFail(t *testing.T) {
	setupStdoutCapture(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s := StatusCmd{
		cfg: &config.Config{Storage: storage.KindFile, DataDir: "/data", Opener: tabs.KindCDP, CDPURL: srv.URL},
		svc: &FakeLookupService{
			HistoryFunc: func(context.Context) ([]stockcode.Code, error) {
				return []stockcode.Code{}, storage.ErrUnavailable
			},
		},
		classifier: testClassifier(t),
		opener:     tabs.NewCDPOpener(srv.URL),
	}

	out := captureJSON(t, func() {
		require.NoError(t, s.Show(context.Background(), StatusInput{Output: "json"}))
	})
	assert.Contains(t, out, `"status": "degraded"`)
	assert.Contains(t, out, "HTTP 404")

	assert.Error(t, s.Show(context.Background(), StatusInput{Output: "yaml"}))
}
