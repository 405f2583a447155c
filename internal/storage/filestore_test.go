package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T, opts Options) *Store {
	t.Helper()
	if opts.DataDir == "" {
		opts.DataDir = t.TempDir()
	}
	s, err := New(opts, zap.NewNop().Sugar())
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s
}

func TestNew_InitializesDataFiles(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, Options{DataDir: dir})

	for _, name := range []string{"users.json", "stats.json"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.True(t, json.Valid(data), name)
	}
	assert.DirExists(t, filepath.Join(dir, "backups"))
	assert.FileExists(t, filepath.Join(dir, "audit.log"))
	assert.True(t, s.Healthy())

	stats := s.Counters()
	assert.NotEmpty(t, stats.StartTime)
}

func TestStore_SaveAndGetUser(t *testing.T) {
	s := newTestStore(t, Options{DataDir: t.TempDir()})

	rec := NewUserRecord()
	rec.Language = LangRU
	rec.AddProduct(validProduct("Headphones"), DefaultMaxProducts)
	require.True(t, s.SaveUser(42, rec))

	got := s.GetUser(42)
	assert.Equal(t, LangRU, got.Language)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "Headphones", got.Products[0].Name)
	assert.NotEmpty(t, got.LastUpdated)
}

func TestStore_GetUser_UnknownAndInvalidIDs(t *testing.T) {
	s := newTestStore(t, Options{DataDir: t.TempDir()})

	got := s.GetUser(999)
	require.NotNil(t, got)
	assert.Equal(t, LangEN, got.Language)
	assert.Empty(t, got.Products)

	for _, id := range []int64{0, -7} {
		got := s.GetUser(id)
		require.NotNil(t, got, "id %d", id)
		assert.Empty(t, got.Products, "id %d", id)
	}
	assert.False(t, s.SaveUser(0, NewUserRecord()))
}

func TestStore_SaveUser_SanitizesBeforePersisting(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, Options{DataDir: dir})

	rec := NewUserRecord()
	rec.Language = "klingon"
	rec.Products = []ProductRecord{
		{Name: "<script>Speaker</script>", URL: "https://example.com/speaker"},
		{Name: "dropped", URL: "http://127.0.0.1/p"},
	}
	require.True(t, s.SaveUser(7, rec))

	got := s.GetUser(7)
	assert.Equal(t, LangEN, got.Language)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "scriptSpeaker/script", got.Products[0].Name)

	raw, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "<script>", "raw markup must never reach disk")
	assert.NotContains(t, string(raw), "127.0.0.1")
}

func TestStore_SaveGetRoundTripIsStable(t *testing.T) {
	s := newTestStore(t, Options{DataDir: t.TempDir()})

	rec := NewUserRecord()
	rec.Language = LangRO
	rec.Products = []ProductRecord{{
		Name:        "  Fancy <b>Lamp</b>  ",
		Price:       "€29,99",
		URL:         "https://example.com/lamp",
		Description: "javascript:bright()",
	}}
	rec.AppendPost(NewPostRecord("Fancy Lamp", "success"), DefaultHistoryCap)
	require.True(t, s.SaveUser(11, rec))

	first := s.GetUser(11)
	require.True(t, s.SaveUser(11, first))
	second := s.GetUser(11)

	assert.Equal(t, first.Language, second.Language)
	assert.Equal(t, first.Products, second.Products)
	assert.Equal(t, first.PostHistory, second.PostHistory)
}

func TestStore_ClearUserKeepsEntry(t *testing.T) {
	s := newTestStore(t, Options{DataDir: t.TempDir()})

	rec := NewUserRecord()
	rec.AddProduct(validProduct("x"), DefaultMaxProducts)
	require.True(t, s.SaveUser(5, rec))
	require.Equal(t, 1, s.UserCount())

	require.True(t, s.ClearUser(5))
	assert.Equal(t, 1, s.UserCount(), "cleared users stay counted")
	assert.Empty(t, s.GetUser(5).Products)
}

func TestStore_UserCount(t *testing.T) {
	s := newTestStore(t, Options{DataDir: t.TempDir()})
	assert.Equal(t, 0, s.UserCount())

	require.True(t, s.SaveUser(1, NewUserRecord()))
	require.True(t, s.SaveUser(2, NewUserRecord()))
	require.True(t, s.SaveUser(1, NewUserRecord()))
	assert.Equal(t, 2, s.UserCount())
}

func TestStore_ProductCapScenario(t *testing.T) {
	s := newTestStore(t, Options{DataDir: t.TempDir(), MaxProducts: 5})

	rec := NewUserRecord()
	for i := 0; i < 6; i++ {
		rec.Products = append(rec.Products, validProduct(fmt.Sprintf("P%d", i)))
	}
	require.True(t, s.SaveUser(100, rec))

	got := s.GetUser(100)
	require.Len(t, got.Products, 5)
	assert.Equal(t, "P0", got.Products[0].Name)
	assert.Equal(t, "P4", got.Products[4].Name)

	require.True(t, s.UpdateCounter(CounterTotalUsers, 1))
	require.True(t, s.UpdateCounter(CounterTotalUsers, 1))
	assert.Equal(t, int64(2), s.Counters().TotalUsers)
}

func TestStore_UpdateCounter(t *testing.T) {
	s := newTestStore(t, Options{DataDir: t.TempDir()})

	for i := 0; i < 25; i++ {
		require.True(t, s.UpdateCounter(CounterTotalMessages, 1))
	}
	assert.Equal(t, int64(25), s.Counters().TotalMessages)

	assert.False(t, s.UpdateCounter("bogus_counter", 1))
	assert.Equal(t, int64(25), s.Counters().TotalMessages, "rejected update must not touch state")

	require.True(t, s.UpdateCounter(CounterTotalErrors, -5))
	assert.Equal(t, int64(0), s.Counters().TotalErrors, "decrement below zero clamps")

	require.True(t, s.UpdateCounter(CounterTotalPromosGenerated, 5000))
	assert.Equal(t, int64(5000), s.Counters().TotalPromosGenerated, "large deltas are flagged, not rejected")
}

func TestStore_UpdateCounterConcurrent(t *testing.T) {
	s := newTestStore(t, Options{DataDir: t.TempDir()})

	var wg sync.WaitGroup
	for g := 0; g < 10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 5; i++ {
				s.UpdateCounter(CounterTotalMessages, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), s.Counters().TotalMessages, "no increment may be lost")
}

func TestStore_RecoversFromBackupAfterCorruption(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, Options{DataDir: dir})

	rec := NewUserRecord()
	rec.AddProduct(validProduct("Survivor"), DefaultMaxProducts)
	require.True(t, s.SaveUser(8, rec))
	// Second save snapshots the file that already holds the record.
	require.True(t, s.SaveUser(8, s.GetUser(8)))

	// Age the pre-record snapshot so mtime ordering cannot tie on coarse
	// filesystem clocks.
	baks, err := filepath.Glob(filepath.Join(dir, "backups", "users.json.*.bak"))
	require.NoError(t, err)
	for _, bak := range baks {
		data, err := os.ReadFile(bak)
		require.NoError(t, err)
		if !strings.Contains(string(data), "Survivor") {
			require.NoError(t, os.Chtimes(bak, time.Now().Add(-time.Hour), time.Now().Add(-time.Hour)))
		}
	}

	usersPath := filepath.Join(dir, "users.json")
	require.NoError(t, os.WriteFile(usersPath, []byte(`{"8": {"langu`), 0o660))

	got := s.GetUser(8)
	require.Len(t, got.Products, 1)
	assert.Equal(t, "Survivor", got.Products[0].Name)
	assert.True(t, s.Healthy(), "restore must heal the file on disk")
}

func TestStore_CorruptionWithoutBackupFailsOpen(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, Options{DataDir: dir})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte("not json at all"), 0o660))

	got := s.GetUser(3)
	require.NotNil(t, got)
	assert.Empty(t, got.Products)
	assert.Equal(t, LangEN, got.Language)

	// A subsequent save re-establishes a valid document.
	require.True(t, s.SaveUser(3, NewUserRecord()))
	assert.True(t, s.checker.Check(filepath.Join(dir, "users.json")))
}

func TestStore_WriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, Options{DataDir: dir})
	require.True(t, s.SaveUser(1, NewUserRecord()))

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestStore_DataFilePermissions(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, Options{DataDir: dir})
	require.True(t, s.SaveUser(1, NewUserRecord()))

	info, err := os.Stat(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o660), info.Mode().Perm())
}

func TestStore_OversizedWriteRejectedKeepsOriginal(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, Options{DataDir: dir, MaxFileSize: 2048})
	require.True(t, s.SaveUser(1, NewUserRecord()))
	before, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)

	huge := NewUserRecord()
	huge.Products = []ProductRecord{{
		Name: "big",
		URL:  "https://example.com/" + strings.Repeat("a", 1900),
	}}
	assert.False(t, s.SaveUser(1, huge))

	after, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	assert.Equal(t, before, after, "rejected write must not alter the file")
}

func TestStore_MetadataEnvelope(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, Options{DataDir: dir})
	require.True(t, s.SaveUser(1, NewUserRecord()))

	raw, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Contains(t, doc, "_metadata")

	var meta Metadata
	require.NoError(t, json.Unmarshal(doc["_metadata"], &meta))
	assert.Equal(t, schemaVersion, meta.Version)
	assert.NotEmpty(t, meta.LastModified)
	assert.Len(t, meta.SecurityHash, 64)
}
