package chromem_test

import (
	"context"
	"testing"

	"github.com/Zhang-Xiaojing7/SmartMem-Purple-Agent/memory"
	"github.com/Zhang-Xiaojing7/SmartMem-Purple-Agent/memory/archive/chromem"
	"github.com/Zhang-Xiaojing7/SmartMem-Purple-Agent/memory/embedder/mock"
)

func newArchive(t *testing.T) *chromem.Archive {
	t.Helper()
	arch, err := chromem.New(mock.New(64))
	if err != nil {
		t.Fatalf("creating archive: %v", err)
	}
	return arch
}

func TestStoreAndRecall(t *testing.T) {
	arch := newArchive(t)
	ctx := context.Background()

	a := memory.NewUserItem("the thermostat is set to 24 degrees")
	a.TokenCount = 9
	b := memory.NewUserItem("play jazz in the living room")
	b.TokenCount = 7
	for _, it := range []*memory.MemoryItem{a, b} {
		if err := arch.Store(ctx, it); err != nil {
			t.Fatalf("store: %v", err)
		}
	}

	// The mock embedder maps identical text to identical vectors, so an
	// exact query must rank its own document first.
	got, err := arch.Recall(ctx, "the thermostat is set to 24 degrees", 2)
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if len(got) == 0 {
		t.Fatal("recall returned nothing")
	}
	if got[0].ID != a.ID {
		t.Errorf("expected the matching turn first, got %s", got[0].ID)
	}
	if got[0].Role != memory.RoleUser || got[0].TokenCount != 9 {
		t.Errorf("metadata not reconstructed: %+v", got[0])
	}
	if got[0].Timestamp.IsZero() {
		t.Error("timestamp lost in round trip")
	}
}

func TestRecallEmptyArchive(t *testing.T) {
	arch := newArchive(t)

	got, err := arch.Recall(context.Background(), "anything", 3)
	if err != nil {
		t.Fatalf("recall on empty archive: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no results, got %d", len(got))
	}
}

func TestStoreSkipsEmptyTurns(t *testing.T) {
	arch := newArchive(t)
	ctx := context.Background()

	if err := arch.Store(ctx, memory.NewAssistantItem("")); err != nil {
		t.Fatalf("storing an empty turn should be a no-op, got %v", err)
	}

	got, err := arch.Recall(ctx, "anything", 1)
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("empty turn should not be archived, found %d documents", len(got))
	}
}

func TestRecallLimitLargerThanCollection(t *testing.T) {
	arch := newArchive(t)
	ctx := context.Background()

	it := memory.NewUserItem("only one archived turn")
	if err := arch.Store(ctx, it); err != nil {
		t.Fatalf("store: %v", err)
	}

	// limit exceeds the collection size; the archive shrinks it internally.
	got, err := arch.Recall(ctx, "archived turn", 10)
	if err != nil {
		t.Fatalf("recall: %v", err)
	}
	if len(got) != 1 || got[0].ID != it.ID {
		t.Errorf("expected the single document back, got %+v", got)
	}
}
