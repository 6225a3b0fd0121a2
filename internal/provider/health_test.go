package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmagro/blockscan/internal/config"
	"github.com/dmagro/blockscan/internal/rpc"
)

func headServer(t *testing.T, status int, head uint64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"result":"0x%x"}`, head))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(urls map[string]string, order ...string) *config.Config {
	cfg := &config.Config{Defaults: config.Defaults{Timeout: 2 * time.Second}}
	for _, name := range order {
		cfg.Providers = append(cfg.Providers, config.Provider{Name: name, URL: urls[name]})
	}
	return cfg
}

func TestExecuteAll_KeepsProviderOrder(t *testing.T) {
	providers := []config.Provider{{Name: "a"}, {Name: "b"}, {Name: "c"}}

	results := ExecuteAll(context.Background(), providers, func(_ context.Context, p config.Provider) (string, error) {
		if p.Name == "b" {
			return "", errors.New("boom")
		}
		return "ok-" + p.Name, nil
	})

	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].ProviderName)
	assert.Equal(t, "ok-a", results[0].Value)
	assert.EqualError(t, results[1].Err, "boom")
	assert.Equal(t, 2, results[2].Index)
	assert.Equal(t, "ok-c", results[2].Value)
}

func TestCheck_RanksProviders(t *testing.T) {
	fresh := headServer(t, http.StatusOK, 1000)
	lagging := headServer(t, http.StatusOK, 990)
	broken := headServer(t, http.StatusBadGateway, 0)

	cfg := testConfig(map[string]string{
		"fresh":   fresh.URL,
		"lagging": lagging.URL,
		"broken":  broken.URL,
	}, "broken", "lagging", "fresh")

	ranked, err := Check(context.Background(), rpc.NewClientPool(), cfg, CheckOptions{Samples: 2, Interval: time.Millisecond})
	require.NoError(t, err)
	require.Len(t, ranked, 3)

	assert.Equal(t, "fresh", ranked[0].Name)
	assert.Equal(t, StatusUp, ranked[0].Status)
	assert.Equal(t, uint64(1000), ranked[0].BlockHeight)
	assert.Equal(t, 100.0, ranked[0].SuccessRate)
	assert.Equal(t, 2, ranked[0].Samples)

	byName := map[string]Health{}
	for _, h := range ranked {
		byName[h.Name] = h
	}
	assert.Equal(t, uint64(10), byName["lagging"].BlockDelta)
	assert.True(t, byName["lagging"].Excluded)
	assert.Contains(t, byName["lagging"].ExcludeReason, "10 blocks behind")

	assert.Equal(t, StatusDown, byName["broken"].Status)
	assert.True(t, byName["broken"].Excluded)
	assert.Error(t, byName["broken"].LastErr)

	best, err := ranked.Best()
	require.NoError(t, err)
	assert.Equal(t, "fresh", best.Name)
}

func TestRankedBest_AllExcluded(t *testing.T) {
	r := Ranked{{Name: "x", Excluded: true}}
	best, err := r.Best()
	assert.Error(t, err)
	assert.Equal(t, "x", best.Name)

	_, err = Ranked{}.Best()
	assert.Error(t, err)
}

func TestClientConfig_FallsBackToDefaults(t *testing.T) {
	cfg := &config.Config{Defaults: config.Defaults{
		Timeout:        7 * time.Second,
		MaxRetries:     2,
		BackoffInitial: time.Second,
		BackoffMax:     4 * time.Second,
	}}

	got := ClientConfig(cfg, config.Provider{Name: "p", URL: "http://x"})
	assert.Equal(t, rpc.ClientConfig{
		Name:           "p",
		URL:            "http://x",
		Timeout:        7 * time.Second,
		MaxRetries:     2,
		BackoffInitial: time.Second,
		BackoffMax:     4 * time.Second,
	}, got)

	pool := rpc.NewClientPool()
	assert.Same(t, Client(pool, cfg, config.Provider{Name: "p"}), Client(pool, cfg, config.Provider{Name: "p"}))
}
