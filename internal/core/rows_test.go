package core

import (
	"context"
	"sync"
	"testing"
)

func TestMemoryRowStore_MissingKeyIsEmpty(t *testing.T) {
	store := NewMemoryRowStore()

	rows, err := store.Load(context.Background(), "ghost.table")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("rows = %v, want empty", rows)
	}
}

func TestMemoryRowStore_ReplaceCopiesInput(t *testing.T) {
	store := NewMemoryRowStore()
	ctx := context.Background()

	in := []Row{{"id": 1}}
	if err := store.Replace(ctx, "s.t", in); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	in[0] = Row{"id": 99}

	rows, _ := store.Load(ctx, "s.t")
	if rows[0]["id"] != 1 {
		t.Error("stored rows must not alias the caller's slice")
	}
}

// Writers keep swapping in self-describing sequences (every row carries
// the writer's token and the sequence length) while readers load and
// query. Any torn snapshot shows up as a mixed token or a length
// mismatch, and the race detector flags unsynchronized access.
func TestMemoryRowStore_ConcurrentReplaceAndLoad(t *testing.T) {
	store := NewMemoryRowStore()
	engine := NewQueryEngine(store)
	ctx := context.Background()

	write := func(token int) error {
		n := 10 + token%7
		rows := make([]Row, n)
		for i := range rows {
			rows[i] = Row{"token": token, "n": n, "pos": i}
		}
		return store.Replace(ctx, "s.t", rows)
	}
	if err := write(0); err != nil {
		t.Fatalf("Replace: %v", err)
	}

	checkUniform := func(rows []Row) {
		if len(rows) == 0 {
			t.Error("loaded an empty snapshot")
			return
		}
		token := rows[0]["token"]
		n := rows[0]["n"].(int)
		if len(rows) != n {
			t.Errorf("snapshot has %d rows, header says %d", len(rows), n)
			return
		}
		for i, r := range rows {
			if r["token"] != token || r["pos"] != i {
				t.Errorf("row %d = %v, torn snapshot for token %v", i, r, token)
				return
			}
		}
	}

	const writers = 4
	const iterations = 50

	done := make(chan struct{})
	var readers sync.WaitGroup
	for g := 0; g < 3; g++ {
		readers.Add(1)
		go func() {
			defer readers.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				rows, err := store.Load(ctx, "s.t")
				if err != nil {
					t.Errorf("Load: %v", err)
					return
				}
				checkUniform(rows)

				res, err := engine.Query(ctx, "s", "t", 1, "")
				if err != nil {
					t.Errorf("Query: %v", err)
					return
				}
				checkUniform(res.Rows)
			}
		}()
	}

	var writersWG sync.WaitGroup
	for w := 0; w < writers; w++ {
		writersWG.Add(1)
		go func(w int) {
			defer writersWG.Done()
			for i := 0; i < iterations; i++ {
				if err := write(w*iterations + i + 1); err != nil {
					t.Errorf("Replace: %v", err)
					return
				}
			}
		}(w)
	}
	writersWG.Wait()
	close(done)
	readers.Wait()

	rows, _ := store.Load(ctx, "s.t")
	checkUniform(rows)
}
