package repository

import (
	"context"
	"sort"
	"testing"

	"github.com/redis/go-redis/v9"
)

// sorted set в памяти: только команды, которые использует таблица лидеров
type fakeZSet struct {
	redis.Cmdable
	sets   map[string]map[string]float64
	lastLT bool
}

func newFakeZSet() *fakeZSet {
	return &fakeZSet{sets: make(map[string]map[string]float64)}
}

func (f *fakeZSet) ZAddArgs(ctx context.Context, key string, args redis.ZAddArgs) *redis.IntCmd {
	f.lastLT = args.LT
	set, ok := f.sets[key]
	if !ok {
		set = make(map[string]float64)
		f.sets[key] = set
	}
	var added int64
	for _, z := range args.Members {
		member := z.Member.(string)
		old, exists := set[member]
		switch {
		case !exists:
			set[member] = z.Score
			added++
		case args.LT && z.Score < old, !args.LT:
			set[member] = z.Score
		}
	}
	cmd := redis.NewIntCmd(ctx)
	cmd.SetVal(added)
	return cmd
}

func (f *fakeZSet) sorted(key string) []redis.Z {
	var out []redis.Z
	for m, sc := range f.sets[key] {
		out = append(out, redis.Z{Member: m, Score: sc})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Score < out[j].Score })
	return out
}

func (f *fakeZSet) ZRangeWithScores(ctx context.Context, key string, start, stop int64) *redis.ZSliceCmd {
	all := f.sorted(key)
	if stop+1 < int64(len(all)) {
		all = all[:stop+1]
	}
	cmd := redis.NewZSliceCmd(ctx)
	cmd.SetVal(all)
	return cmd
}

func (f *fakeZSet) ZRank(ctx context.Context, key, member string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	for i, z := range f.sorted(key) {
		if z.Member == member {
			cmd.SetVal(int64(i))
			return cmd
		}
	}
	cmd.SetErr(redis.Nil)
	return cmd
}

func TestLeaderboard_KeepsBestTime(t *testing.T) {
	rdb := newFakeZSet()
	repo := NewLeaderboardRepository(rdb)
	ctx := context.Background()

	for _, d := range []int64{9000, 4000, 12000} {
		if err := repo.Submit(ctx, "1-1", "p1", d); err != nil {
			t.Fatalf("Submit: %v", err)
		}
	}
	if !rdb.lastLT {
		t.Fatal("submit must only lower an existing time")
	}
	if err := repo.Submit(ctx, "1-1", "p2", 5000); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	// другой уровень не смешивается
	if err := repo.Submit(ctx, "1-2", "p3", 1000); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	top, err := repo.Top(ctx, "1-1", 10)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 2 {
		t.Fatalf("top = %+v", top)
	}
	if top[0].PlayerID != "p1" || top[0].DurationMs != 4000 || top[0].Rank != 1 {
		t.Fatalf("first = %+v", top[0])
	}
	if top[1].PlayerID != "p2" || top[1].Rank != 2 {
		t.Fatalf("second = %+v", top[1])
	}

	if rank, err := repo.Rank(ctx, "1-1", "p2"); err != nil || rank != 2 {
		t.Fatalf("rank p2 = %d, %v", rank, err)
	}
}

func TestLeaderboard_RankWithoutEntry(t *testing.T) {
	repo := NewLeaderboardRepository(newFakeZSet())

	rank, err := repo.Rank(context.Background(), "1-1", "nobody")
	if err != nil {
		t.Fatalf("Rank: %v", err)
	}
	if rank != 0 {
		t.Fatalf("rank = %d, want 0", rank)
	}
}

func TestLeaderboard_TopZeroLimit(t *testing.T) {
	repo := NewLeaderboardRepository(newFakeZSet())

	top, err := repo.Top(context.Background(), "1-1", 0)
	if err != nil || len(top) != 0 {
		t.Fatalf("top = %+v, %v", top, err)
	}
}
