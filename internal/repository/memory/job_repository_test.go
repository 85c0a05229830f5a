package memory

import (
	"fmt"
	"sync"
	"testing"

	"paper-digest-be/internal/entity"
)

func TestInsertAndGetReturnsCopies(t *testing.T) {
	repo := NewJobRepository()

	job := entity.NewPaperJob("2401.00001", "", "", "")
	repo.Insert(job)

	// Mutating the caller's struct must not leak into the registry.
	job.RawText = "mutated outside"

	stored, ok := repo.Get(job.Id)
	if !ok {
		t.Fatal("job not found")
	}
	if stored.RawText != "" {
		t.Errorf("external mutation leaked into registry: %q", stored.RawText)
	}

	// Same for mutations of a returned snapshot.
	stored.TechnicalSummary = "mutated snapshot"
	again, _ := repo.Get(job.Id)
	if again.TechnicalSummary != "" {
		t.Errorf("snapshot mutation leaked into registry: %q", again.TechnicalSummary)
	}
}

func TestUpdateAppliesAtomically(t *testing.T) {
	repo := NewJobRepository()
	job := entity.NewPaperJob("2401.00001", "", "", "")
	repo.Insert(job)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			repo.Update(job.Id, func(j *entity.PaperJob) {
				j.TokensUsed++
			})
		}()
	}
	wg.Wait()

	stored, _ := repo.Get(job.Id)
	if stored.TokensUsed != 50 {
		t.Errorf("tokens = %d, want 50 (lost updates)", stored.TokensUsed)
	}
}

func TestUpdateUnknownId(t *testing.T) {
	repo := NewJobRepository()
	if _, ok := repo.Update(entity.NewPaperJob("", "", "", "").Id, func(*entity.PaperJob) {}); ok {
		t.Fatal("update of unknown id reported success")
	}
}

func TestListInsertionOrderAndPagination(t *testing.T) {
	repo := NewJobRepository()

	var ids []string
	for i := 0; i < 5; i++ {
		job := entity.NewPaperJob(fmt.Sprintf("2401.%05d", i), "", "", "")
		repo.Insert(job)
		ids = append(ids, job.Id.String())
	}

	all := repo.List(nil, 10, 0)
	if len(all) != 5 {
		t.Fatalf("list = %d jobs, want 5", len(all))
	}
	for i, j := range all {
		if j.Id.String() != ids[i] {
			t.Errorf("position %d: got %s, want %s", i, j.Id, ids[i])
		}
	}

	page := repo.List(nil, 2, 3)
	if len(page) != 2 || page[0].Id.String() != ids[3] {
		t.Errorf("offset page wrong: %d jobs, first %v", len(page), page)
	}

	empty := repo.List(nil, 10, 99)
	if len(empty) != 0 {
		t.Errorf("offset past end should be empty, got %d", len(empty))
	}
}

func TestListFiltersByStatus(t *testing.T) {
	repo := NewJobRepository()

	for i := 0; i < 3; i++ {
		repo.Insert(entity.NewPaperJob(fmt.Sprintf("2401.%05d", i), "", "", ""))
	}
	done := entity.NewPaperJob("2402.00000", "", "", "")
	repo.Insert(done)
	repo.Update(done.Id, func(j *entity.PaperJob) {
		j.Status = entity.StatusCompleted
	})

	completed := entity.StatusCompleted
	got := repo.List(&completed, 10, 0)
	if len(got) != 1 || got[0].Id != done.Id {
		t.Errorf("filtered list = %v", got)
	}

	queued := entity.StatusQueued
	if n := len(repo.List(&queued, 10, 0)); n != 3 {
		t.Errorf("queued jobs = %d, want 3", n)
	}
}

func TestListClampsLimit(t *testing.T) {
	repo := NewJobRepository()
	for i := 0; i < MaxListLimit+20; i++ {
		repo.Insert(entity.NewPaperJob(fmt.Sprintf("24%02d.%05d", i/1000, i%1000), "", "", ""))
	}

	if n := len(repo.List(nil, 1000, 0)); n != MaxListLimit {
		t.Errorf("oversized limit returned %d, want %d", n, MaxListLimit)
	}
	if n := len(repo.List(nil, 0, 0)); n != 0 {
		t.Errorf("zero limit returned %d, want empty page", n)
	}
}
