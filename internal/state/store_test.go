package state

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/dairylabs/milkmob/internal/mob"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "milkmob.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if err := s.InitCatalog(context.Background(), mob.Catalog{
		{ID: "dance_milk_mob"},
		{ID: "chef_milk_mob"},
	}); err != nil {
		t.Fatalf("init catalog: %v", err)
	}
	return s
}

func assignment(videoID, categoryID string) mob.Assignment {
	return mob.Assignment{
		VideoID:    videoID,
		CategoryID: categoryID,
		MatchScore: 4,
		AssignedAt: time.Now().UTC(),
	}
}

func TestInitCatalogSeedsZeroRows(t *testing.T) {
	s := testStore(t)
	stats, err := s.ReadAllStats(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 stats rows, got %d", len(stats))
	}
	for id, st := range stats {
		if st.MemberCount != 0 {
			t.Errorf("%s: expected zero count, got %d", id, st.MemberCount)
		}
	}
}

func TestAssignAndIncrement(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	a := assignment("vid-1", "dance_milk_mob")
	a.SecondaryID = "chef_milk_mob"
	if err := s.AssignAndIncrement(ctx, a, []string{"dance", "pour"}); err != nil {
		t.Fatal(err)
	}

	stats, err := s.ReadStats(ctx, "dance_milk_mob")
	if err != nil {
		t.Fatal(err)
	}
	if stats.MemberCount != 1 {
		t.Errorf("expected member count 1, got %d", stats.MemberCount)
	}
	if stats.KeywordHits["dance"] != 1 || stats.KeywordHits["pour"] != 1 {
		t.Errorf("expected keyword hits recorded, got %v", stats.KeywordHits)
	}
	if stats.LastUpdated.IsZero() {
		t.Error("last_updated must be set after an increment")
	}

	got, err := s.Assignment(ctx, "vid-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.CategoryID != "dance_milk_mob" || got.MatchScore != 4 {
		t.Errorf("unexpected assignment: %+v", got)
	}
	if got.SecondaryID != "chef_milk_mob" {
		t.Errorf("runner-up must survive the round trip, got %q", got.SecondaryID)
	}
}

func TestDuplicateVideoRejected(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.AssignAndIncrement(ctx, assignment("vid-1", "dance_milk_mob"), nil); err != nil {
		t.Fatal(err)
	}
	err := s.AssignAndIncrement(ctx, assignment("vid-1", "chef_milk_mob"), nil)
	if !errors.Is(err, ErrDuplicateSubmission) {
		t.Fatalf("expected ErrDuplicateSubmission, got %v", err)
	}

	// The failed attempt must not have incremented anything.
	stats, err := s.ReadAllStats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats["chef_milk_mob"].MemberCount != 0 {
		t.Errorf("duplicate must not increment chef count, got %d", stats["chef_milk_mob"].MemberCount)
	}
	if stats["dance_milk_mob"].MemberCount != 1 {
		t.Errorf("original count disturbed: %d", stats["dance_milk_mob"].MemberCount)
	}
}

func TestConcurrentIncrementsLoseNoUpdates(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	// Enough goroutines to spread across many pooled connections, so
	// every connection needs its busy_timeout, not just the first.
	const n = 50
	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a := assignment(fmt.Sprintf("vid-%d", i), "dance_milk_mob")
			errCh <- s.AssignAndIncrement(ctx, a, []string{"dance"})
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("concurrent assign failed: %v", err)
		}
	}

	stats, err := s.ReadStats(ctx, "dance_milk_mob")
	if err != nil {
		t.Fatal(err)
	}
	if stats.MemberCount != n {
		t.Errorf("expected %d members, got %d (lost updates)", n, stats.MemberCount)
	}
	if stats.KeywordHits["dance"] != n {
		t.Errorf("expected %d keyword hits, got %d", n, stats.KeywordHits["dance"])
	}

	var rowCount int
	if err := s.DB().QueryRow(`SELECT COUNT(*) FROM mob_assignments`).Scan(&rowCount); err != nil {
		t.Fatal(err)
	}
	if rowCount != n {
		t.Errorf("expected %d assignment rows, got %d", n, rowCount)
	}

	drifts, err := s.CheckDrift(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(drifts) != 0 {
		t.Errorf("expected no drift, got %v", drifts)
	}
}

func TestRecomputeStatsRepairsDrift(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.AssignAndIncrement(ctx, assignment("vid-1", "dance_milk_mob"), nil); err != nil {
		t.Fatal(err)
	}
	if err := s.AssignAndIncrement(ctx, assignment("vid-2", "dance_milk_mob"), nil); err != nil {
		t.Fatal(err)
	}

	// Corrupt the cache behind the store's back.
	if _, err := s.DB().Exec(`UPDATE category_stats SET member_count = 99 WHERE category_id = 'dance_milk_mob'`); err != nil {
		t.Fatal(err)
	}

	drifts, err := s.CheckDrift(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(drifts) != 1 || drifts[0].CachedCount != 99 || drifts[0].LoggedCount != 2 {
		t.Fatalf("expected single drift 99 vs 2, got %v", drifts)
	}

	if err := s.RecomputeStats(ctx); err != nil {
		t.Fatal(err)
	}
	stats, err := s.ReadStats(ctx, "dance_milk_mob")
	if err != nil {
		t.Fatal(err)
	}
	if stats.MemberCount != 2 {
		t.Errorf("expected rebuilt count 2, got %d", stats.MemberCount)
	}
}

func TestReadStatsUnknownCategory(t *testing.T) {
	s := testStore(t)
	_, err := s.ReadStats(context.Background(), "no_such_mob")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTagCounters(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	if err := s.IncrementTags(ctx, []string{"#gotmilk", "#milkmob"}); err != nil {
		t.Fatal(err)
	}
	if err := s.IncrementTags(ctx, []string{"#gotmilk"}); err != nil {
		t.Fatal(err)
	}

	tags, err := s.PopularTags(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %d", len(tags))
	}
	if tags[0].Tag != "#gotmilk" || tags[0].Count != 2 {
		t.Errorf("expected #gotmilk first with count 2, got %+v", tags[0])
	}
}

func TestAuditTrail(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	entries := []AuditEntry{
		{VideoID: "vid-1", Decision: "rejected", Reason: "milk not visible"},
		{VideoID: "vid-2", Decision: "classified", VerdictJSON: `{"passed":true}`},
	}
	for _, e := range entries {
		if err := s.AppendAudit(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.RecentAudit(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 audit rows, got %d", len(got))
	}
	// Newest first.
	if got[0].VideoID != "vid-2" {
		t.Errorf("expected vid-2 first, got %s", got[0].VideoID)
	}
	if got[0].AuditID == "" {
		t.Error("audit id must be generated")
	}
	if got[1].Reason != "milk not visible" {
		t.Errorf("reason not preserved: %+v", got[1])
	}
}
