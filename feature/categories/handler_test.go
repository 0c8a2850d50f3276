package categories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"category-manager/core/database"
	"category-manager/core/journal"
	"category-manager/core/reconcile"
	"category-manager/core/remote"
	"category-manager/core/remote/mocks"
	"category-manager/core/taxonomy"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubRunner struct {
	mu      sync.Mutex
	rules   taxonomy.RuleSet
	opts    reconcile.Options
	started chan struct{}
	block   chan struct{}
	err     error
}

func (s *stubRunner) Run(ctx context.Context, rules taxonomy.RuleSet, opts reconcile.Options) (*reconcile.Report, error) {
	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules, s.opts = rules, opts
	if s.err != nil {
		return nil, s.err
	}
	return &reconcile.Report{RunID: opts.RunID, DryRun: opts.DryRun, Rules: rules, Summary: reconcile.Summary{Changed: 2}}, nil
}

func defaultRules() taxonomy.RuleSet {
	return taxonomy.NewRuleSet(taxonomy.Rule{Old: "Mööbel > Toolid", New: "Mööbel > Istumine > Toolid"})
}

func setupTestApp(t *testing.T, history RunHistory) (*fiber.App, *mocks.Client, *stubRunner) {
	client := new(mocks.Client)
	client.On("FetchAll", mock.Anything).Return([]remote.Category{
		{ID: 1, Name: "Mööbel"},
		{ID: 3, Name: "Toolid", Parent: 1, Count: 4},
		{ID: 2, Name: "Toolid", Parent: 1},
		{ID: 4, Name: "Aed"},
	}, nil)
	runner := &stubRunner{}
	cache := remote.NewSnapshotCache(client, time.Minute)

	app := fiber.New()
	svc := NewService(cache, runner, history, defaultRules(), zap.NewNop())
	NewHandler(svc).RegisterRoutes(app)
	return app, client, runner
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	var out bytes.Buffer
	_, _ = out.ReadFrom(resp.Body)
	return resp.StatusCode, out.Bytes()
}

func TestHandlePaths(t *testing.T) {
	app, client, _ := setupTestApp(t, nil)

	status, body := doJSON(t, app, "GET", "/taxonomy/paths", nil)
	require.Equal(t, 200, status)

	var paths []PathEntry
	require.NoError(t, json.Unmarshal(body, &paths))
	require.Len(t, paths, 4)
	assert.Equal(t, "Aed", paths[0].Path)
	assert.Equal(t, "Mööbel", paths[1].Path)
	assert.Equal(t, PathEntry{ID: 2, Path: "Mööbel > Toolid", Parent: 1}, paths[2])
	assert.Equal(t, 4, paths[3].Count)

	// second call is served from the snapshot cache
	status, _ = doJSON(t, app, "GET", "/taxonomy/paths", nil)
	assert.Equal(t, 200, status)
	client.AssertNumberOfCalls(t, "FetchAll", 1)
}

func TestHandleDuplicates(t *testing.T) {
	app, _, _ := setupTestApp(t, nil)

	status, body := doJSON(t, app, "GET", "/taxonomy/duplicates", nil)
	require.Equal(t, 200, status)

	var groups []DuplicateGroup
	require.NoError(t, json.Unmarshal(body, &groups))
	assert.Equal(t, []DuplicateGroup{{Path: "Mööbel > Toolid", IDs: []int64{2, 3}}}, groups)
}

func TestHandlePaths_RemoteDisabled(t *testing.T) {
	app := fiber.New()
	NewHandler(NewService(nil, &stubRunner{}, nil, defaultRules(), nil)).RegisterRoutes(app)

	status, _ := doJSON(t, app, "GET", "/taxonomy/paths", nil)
	assert.Equal(t, 503, status)
}

func TestHandleRewrite(t *testing.T) {
	app, _, _ := setupTestApp(t, nil)

	t.Run("ConfiguredRules", func(t *testing.T) {
		status, body := doJSON(t, app, "POST", "/taxonomy/rewrite", RewriteRequest{
			Paths: []string{"Mööbel>Toolid>Baaritoolid", "Mööbel > Toolidekomplektid"},
		})
		require.Equal(t, 200, status)

		var out []RewriteResult
		require.NoError(t, json.Unmarshal(body, &out))
		assert.Equal(t, []RewriteResult{
			{Input: "Mööbel > Toolid > Baaritoolid", Output: "Mööbel > Istumine > Toolid > Baaritoolid", Changed: true},
			{Input: "Mööbel > Toolidekomplektid", Output: "Mööbel > Toolidekomplektid"},
		}, out)
	})

	t.Run("RequestRules", func(t *testing.T) {
		status, body := doJSON(t, app, "POST", "/taxonomy/rewrite", RewriteRequest{
			Paths: []string{"Aed > Grillid"},
			Rules: []string{"Aed=>Õu"},
		})
		require.Equal(t, 200, status)

		var out []RewriteResult
		require.NoError(t, json.Unmarshal(body, &out))
		require.Len(t, out, 1)
		assert.Equal(t, "Õu > Grillid", out[0].Output)
	})

	t.Run("InvalidRule", func(t *testing.T) {
		status, _ := doJSON(t, app, "POST", "/taxonomy/rewrite", RewriteRequest{Paths: []string{"A"}, Rules: []string{"no arrow"}})
		assert.Equal(t, 400, status)
	})
}

func TestHandleReconcile(t *testing.T) {
	t.Run("DefaultsToDryRun", func(t *testing.T) {
		app, _, runner := setupTestApp(t, nil)

		status, body := doJSON(t, app, "POST", "/reconcile", nil)
		require.Equal(t, 200, status)

		var report reconcile.Report
		require.NoError(t, json.Unmarshal(body, &report))
		assert.True(t, report.DryRun)
		assert.Equal(t, 2, report.Summary.Changed)
		assert.Equal(t, defaultRules(), runner.rules)
	})

	t.Run("ApplyWithSkips", func(t *testing.T) {
		app, client, runner := setupTestApp(t, nil)
		dry := false

		doJSON(t, app, "GET", "/taxonomy/paths", nil)
		status, _ := doJSON(t, app, "POST", "/reconcile", ReconcileRequest{
			Rules:  []string{"A=>B"},
			DryRun: &dry,
			Skip:   []string{"woo", "product-list"},
		})
		require.Equal(t, 200, status)
		assert.False(t, runner.opts.DryRun)
		assert.True(t, runner.opts.Skipped(reconcile.PhaseRemote))
		assert.True(t, runner.opts.Skipped(reconcile.PhaseProductList))
		assert.Equal(t, "A=>B", runner.rules[0].String())

		// applied run drops the cached snapshot
		doJSON(t, app, "GET", "/taxonomy/paths", nil)
		client.AssertNumberOfCalls(t, "FetchAll", 2)
	})

	t.Run("UnknownPhase", func(t *testing.T) {
		app, _, _ := setupTestApp(t, nil)
		status, _ := doJSON(t, app, "POST", "/reconcile", ReconcileRequest{Skip: []string{"images"}})
		assert.Equal(t, 400, status)
	})

	t.Run("RunnerError", func(t *testing.T) {
		app, _, runner := setupTestApp(t, nil)
		runner.err = errors.New("canceled")
		status, _ := doJSON(t, app, "POST", "/reconcile", nil)
		assert.Equal(t, 500, status)
	})
}

func TestService_ReconcileInProgress(t *testing.T) {
	runner := &stubRunner{started: make(chan struct{}), block: make(chan struct{})}
	svc := NewService(nil, runner, nil, defaultRules(), nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Reconcile(context.Background(), ReconcileRequest{}, "first")
		done <- err
	}()

	<-runner.started
	_, err := svc.Reconcile(context.Background(), ReconcileRequest{}, "second")
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(runner.block)
	assert.NoError(t, <-done)
}

func TestHandleReconcile_SharedWriterLock(t *testing.T) {
	lock := new(reconcile.WriterLock)
	runner := &stubRunner{}
	app := fiber.New()
	NewHandler(NewService(nil, runner, nil, defaultRules(), nil, WithWriterLock(lock))).RegisterRoutes(app)

	release, err := lock.TryAcquire()
	require.NoError(t, err)
	status, _ := doJSON(t, app, "POST", "/reconcile", nil)
	assert.Equal(t, 409, status)
	assert.Empty(t, runner.rules, "runner must not start while the lock is held")

	release()
	status, _ = doJSON(t, app, "POST", "/reconcile", nil)
	assert.Equal(t, 200, status)
}

func TestHandleRuns(t *testing.T) {
	t.Run("JournalDisabled", func(t *testing.T) {
		app, _, _ := setupTestApp(t, nil)
		status, _ := doJSON(t, app, "GET", "/reconcile/runs", nil)
		assert.Equal(t, 404, status)
	})

	t.Run("FromJournal", func(t *testing.T) {
		db, err := database.Connect(database.Config{Driver: "sqlite", Path: ":memory:"})
		require.NoError(t, err)
		j := journal.New(db)
		require.NoError(t, j.Migrate(context.Background()))

		ctx := context.Background()
		require.NoError(t, j.RunStarted(ctx, "r1", defaultRules(), reconcile.Options{DryRun: true}))
		require.NoError(t, j.RecordMutation(ctx, reconcile.Mutation{RunID: "r1", Kind: reconcile.MutationCreate, Name: "Istumine", CategoryID: -1, DryRun: true}))
		require.NoError(t, j.RunFinished(ctx, &reconcile.Report{RunID: "r1", DryRun: true, Summary: reconcile.Summary{Changed: 1}}))

		app, _, _ := setupTestApp(t, j)

		status, body := doJSON(t, app, "GET", "/reconcile/runs?limit=5", nil)
		require.Equal(t, 200, status)
		var runs []journal.RunRecord
		require.NoError(t, json.Unmarshal(body, &runs))
		require.Len(t, runs, 1)
		assert.Equal(t, journal.StatusFinished, runs[0].Status)

		status, body = doJSON(t, app, "GET", "/reconcile/runs/r1", nil)
		require.Equal(t, 200, status)
		var detail RunDetail
		require.NoError(t, json.Unmarshal(body, &detail))
		require.NotNil(t, detail.Report)
		assert.Equal(t, 1, detail.Report.Summary.Changed)
		require.Len(t, detail.Mutations, 1)
		assert.Equal(t, "Istumine", detail.Mutations[0].Name)

		status, _ = doJSON(t, app, "GET", "/reconcile/runs/missing", nil)
		assert.Equal(t, 404, status)
	})
}

func TestLoader(t *testing.T) {
	feature := NewFeature(NewService(nil, &stubRunner{}, nil, nil, nil))
	assert.Equal(t, "categories", feature.Name())
	assert.True(t, feature.IsEnabled())
	assert.NoError(t, feature.Load(fiber.New()))
}
