package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRecord(t *testing.T) {
	c := NewCollector()

	c.Record(OpTurn, 100*time.Millisecond, false)
	c.Record(OpTurn, 300*time.Millisecond, true)

	snaps := c.Snapshot()
	if len(snaps) != 1 {
		t.Fatalf("got %d snapshots, want 1", len(snaps))
	}

	s := snaps[0]
	if s.Op != OpTurn {
		t.Errorf("Op = %s", s.Op)
	}
	if s.Count != 2 || s.Failures != 1 {
		t.Errorf("Count=%d Failures=%d, want 2/1", s.Count, s.Failures)
	}
	if s.MinTimeMs != 100 || s.MaxTimeMs != 300 {
		t.Errorf("Min=%d Max=%d, want 100/300", s.MinTimeMs, s.MaxTimeMs)
	}
	if s.AvgTimeMs != 200 {
		t.Errorf("Avg=%f, want 200", s.AvgTimeMs)
	}
}

func TestSnapshotOrder(t *testing.T) {
	c := NewCollector()
	c.Record(OpCRM, time.Millisecond, false)
	c.Record(OpTurn, time.Millisecond, false)
	c.Record(OpGenerate, time.Millisecond, false)

	snaps := c.Snapshot()
	if len(snaps) != 3 {
		t.Fatalf("got %d snapshots, want 3", len(snaps))
	}
	want := []string{OpTurn, OpGenerate, OpCRM}
	for i, op := range want {
		if snaps[i].Op != op {
			t.Errorf("snaps[%d].Op = %s, want %s", i, snaps[i].Op, op)
		}
	}
}

func TestSnapshotSkipsEmptyOps(t *testing.T) {
	c := NewCollector()
	if len(c.Snapshot()) != 0 {
		t.Error("fresh collector should have no snapshots")
	}
}

func TestTime(t *testing.T) {
	c := NewCollector()

	if err := c.Time(OpRetrieval, func() error { return nil }); err != nil {
		t.Errorf("Time() error = %v", err)
	}

	wantErr := errors.New("boom")
	if err := c.Time(OpRetrieval, func() error { return wantErr }); !errors.Is(err, wantErr) {
		t.Errorf("Time() error = %v, want %v", err, wantErr)
	}

	snaps := c.Snapshot()
	if len(snaps) != 1 || snaps[0].Count != 2 || snaps[0].Failures != 1 {
		t.Errorf("snapshot = %+v", snaps)
	}
}

func TestConcurrentRecord(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				c.Record(OpEmbedding, time.Millisecond, false)
			}
		}()
	}
	wg.Wait()

	snaps := c.Snapshot()
	if len(snaps) != 1 || snaps[0].Count != 1000 {
		t.Errorf("snapshot = %+v, want count 1000", snaps)
	}
}

func TestUptime(t *testing.T) {
	c := NewCollector()
	if c.Uptime() < 0 {
		t.Error("Uptime() negative")
	}
}
