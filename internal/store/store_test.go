package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

// kvContract runs the behavior every KV backend must share.
func kvContract(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, err := kv.Get(ctx, "team")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, "team", "Arsenal"))
	v, err := kv.Get(ctx, "team")
	require.NoError(t, err)
	assert.Equal(t, "Arsenal", v)

	require.NoError(t, kv.Set(ctx, "team", "Chelsea"))
	v, err = kv.Get(ctx, "team")
	require.NoError(t, err)
	assert.Equal(t, "Chelsea", v)

	require.NoError(t, kv.Set(ctx, "score", "3"))
	require.NoError(t, kv.Delete(ctx, "team", "score", "never-set"))
	_, err = kv.Get(ctx, "score")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Delete(ctx))
}

func TestMemoryKV(t *testing.T) {
	kvContract(t, NewMemory())
}

func TestSQLiteKV(t *testing.T) {
	kvContract(t, openTestStore(t).KV())
}

func TestSQLiteKV_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.KV().Set(ctx, "playerName", "Ada"))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	v, err := s.KV().Get(ctx, "playerName")
	require.NoError(t, err)
	assert.Equal(t, "Ada", v)
}

func TestRedisKV(t *testing.T) {
	addr := os.Getenv("PITCHQUIZ_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PITCHQUIZ_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	r, err := OpenRedis(ctx, RedisOptions{Addr: addr, Prefix: "pitchquiz-test:" + t.Name() + ":"})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.Delete(ctx, "team", "score")
		r.Close()
	})
	kvContract(t, r)
}

func TestTypedHelpers(t *testing.T) {
	ctx := context.Background()
	kv := NewMemory()

	n, err := GetInt(ctx, kv, "score", 7)
	require.NoError(t, err)
	assert.Equal(t, 7, n)

	require.NoError(t, SetInt(ctx, kv, "score", 12))
	n, err = GetInt(ctx, kv, "score", 0)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	require.NoError(t, kv.Set(ctx, "streak", "not-a-number"))
	n, err = GetInt(ctx, kv, "streak", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	b, err := GetBool(ctx, kv, "inGame")
	require.NoError(t, err)
	assert.False(t, b)
	require.NoError(t, SetBool(ctx, kv, "inGame", true))
	b, err = GetBool(ctx, kv, "inGame")
	require.NoError(t, err)
	assert.True(t, b)

	s, err := GetString(ctx, kv, "league", "Premier League")
	require.NoError(t, err)
	assert.Equal(t, "Premier League", s)

	var badges []string
	require.NoError(t, GetJSON(ctx, kv, "badgeHistory", &badges))
	assert.Nil(t, badges)
	require.NoError(t, SetJSON(ctx, kv, "badgeHistory", []string{"a", "b"}))
	assert.Equal(t, `["a","b"]`, kv.Snapshot()["badgeHistory"])
	require.NoError(t, GetJSON(ctx, kv, "badgeHistory", &badges))
	assert.Equal(t, []string{"a", "b"}, badges)

	require.NoError(t, kv.Set(ctx, "funFacts", "{broken"))
	var facts []string
	assert.Error(t, GetJSON(ctx, kv, "funFacts", &facts))
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	none, err := repo.GetLLMEvent(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, none)

	events := []LLMRequestEventData{
		{SessionID: "s1", Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "question-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 300, Success: true, RequestBody: "[user]\nhi", ResponseBody: "Question: x"},
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "question-gen", InputTokens: 120, OutputTokens: 70, LatencyMs: 500, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "preview", LatencyMs: 100, Success: false, ErrorMessage: "boom"},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "preview", all[0].Purpose, "newest first")
	assert.WithinDuration(t, time.Now(), all[0].Timestamp, time.Minute)

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1, Purpose: "question-gen"})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, 120, limited[0].InputTokens)

	bySession, err := repo.QueryLLMEvents(ctx, QueryOpts{SessionID: "s1"})
	require.NoError(t, err)
	require.Len(t, bySession, 1)
	assert.Equal(t, 100, bySession[0].InputTokens)

	first, err := repo.GetLLMEvent(ctx, all[2].ID)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "Question: x", first.ResponseBody)
	assert.True(t, first.Success)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, PurposeUsage{Purpose: "question-gen", Calls: 2, InputTokens: 220, OutputTokens: 120, AvgLatencyMs: 400}, byPurpose[0])

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 2)
	assert.Equal(t, "gemini-2.0-flash", byModel[0].Model)
	assert.Equal(t, 1, byModel[1].Calls)
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Run("env override", func(t *testing.T) {
		p := filepath.Join(dir, "custom", "db.sqlite")
		t.Setenv("PITCHQUIZ_DB", p)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, p, got)
		assert.DirExists(t, filepath.Dir(p))
	})

	t.Run("xdg data home", func(t *testing.T) {
		t.Setenv("PITCHQUIZ_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "pitchquiz", "pitchquiz.db"), got)
	})
}
