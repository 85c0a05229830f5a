package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"paper-digest-be/internal/dto"
	"paper-digest-be/internal/entity"
	"paper-digest-be/internal/pkg/logger"
	"paper-digest-be/internal/repository/memory"
)

type testLogger struct{}

func (testLogger) Debug(string, string, map[string]interface{}) {}
func (testLogger) Info(string, string, map[string]interface{})  {}
func (testLogger) Warn(string, string, map[string]interface{})  {}
func (testLogger) Error(string, string, map[string]interface{}) {}
func (testLogger) Sync() error                                  { return nil }
func (testLogger) GetLogs(string, int, int) ([]logger.LogEntry, error) {
	return nil, nil
}

type capturePublisher struct {
	payloads [][]byte
	err      error
}

func (p *capturePublisher) Publish(_ context.Context, payload []byte) error {
	if p.err != nil {
		return p.err
	}
	p.payloads = append(p.payloads, payload)
	return nil
}

func newTestPaperService() (IPaperService, *memory.JobRepository, *capturePublisher) {
	repo := memory.NewJobRepository()
	pub := &capturePublisher{}
	svc := NewPaperService(repo, pub, nil, testLogger{})
	return svc, repo, pub
}

func TestSubmitJobRequiresSource(t *testing.T) {
	svc, _, _ := newTestPaperService()

	_, err := svc.SubmitJob(context.Background(), &dto.ProcessPaperRequest{UserQuery: "explain"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSubmitJobQueuesAndPublishes(t *testing.T) {
	svc, repo, pub := newTestPaperService()

	resp, err := svc.SubmitJob(context.Background(), &dto.ProcessPaperRequest{ArxivId: "2401.12345"})
	if err != nil {
		t.Fatalf("SubmitJob: %v", err)
	}

	if resp.Status != string(entity.StatusQueued) {
		t.Errorf("status = %s", resp.Status)
	}

	if len(pub.payloads) != 1 {
		t.Fatalf("published %d messages, want 1", len(pub.payloads))
	}
	var msg dto.ProcessJobMessage
	if err := json.Unmarshal(pub.payloads[0], &msg); err != nil {
		t.Fatalf("unmarshal queue message: %v", err)
	}
	if msg.JobId.String() != resp.JobId {
		t.Errorf("queued id %s != response id %s", msg.JobId, resp.JobId)
	}

	stored, ok := repo.Get(msg.JobId)
	if !ok {
		t.Fatal("job not registered")
	}
	if stored.ArxivId != "2401.12345" || stored.Status != entity.StatusQueued {
		t.Errorf("stored job = %+v", stored)
	}
}

func TestGetJobStatusErrors(t *testing.T) {
	svc, _, _ := newTestPaperService()

	if _, err := svc.GetJobStatus(context.Background(), "not-a-uuid"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("malformed id: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.GetJobStatus(context.Background(), "00000000-0000-0000-0000-000000000001"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("unknown id: expected ErrJobNotFound, got %v", err)
	}
}

func TestGetJobResultOnlyWhenCompleted(t *testing.T) {
	svc, repo, _ := newTestPaperService()

	resp, err := svc.SubmitJob(context.Background(), &dto.ProcessPaperRequest{ArxivId: "2401.12345"})
	if err != nil {
		t.Fatalf("SubmitJob: %v", err)
	}

	if _, err := svc.GetJobResult(context.Background(), resp.JobId); !errors.Is(err, ErrJobNotCompleted) {
		t.Fatalf("queued job: expected ErrJobNotCompleted, got %v", err)
	}

	status, _ := svc.GetJobStatus(context.Background(), resp.JobId)
	if status.Result != nil {
		t.Error("status payload of queued job must not carry results")
	}

	id, _ := parseJobId(resp.JobId)
	repo.Update(id, func(j *entity.PaperJob) {
		j.Status = entity.StatusCompleted
		j.Digest = "the digest"
		j.NoveltyScore = 0.8
	})

	result, err := svc.GetJobResult(context.Background(), resp.JobId)
	if err != nil {
		t.Fatalf("GetJobResult: %v", err)
	}
	if result.Digest != "the digest" || result.NoveltyScore != 0.8 {
		t.Errorf("result = %+v", result)
	}
}

func TestCancelJob(t *testing.T) {
	svc, repo, _ := newTestPaperService()

	resp, _ := svc.SubmitJob(context.Background(), &dto.ProcessPaperRequest{ArxivId: "2401.12345"})

	cancel, err := svc.CancelJob(context.Background(), resp.JobId)
	if err != nil {
		t.Fatalf("CancelJob: %v", err)
	}
	if cancel.Status != string(entity.StatusFailed) || cancel.Message != CancelledMessage {
		t.Errorf("cancel response = %+v", cancel)
	}

	id, _ := parseJobId(resp.JobId)
	stored, _ := repo.Get(id)
	if stored.Status != entity.StatusFailed || stored.ErrorMessage == nil || *stored.ErrorMessage != CancelledMessage {
		t.Errorf("stored job after cancel = %+v", stored)
	}

	// Terminal jobs reject a second cancellation.
	if _, err := svc.CancelJob(context.Background(), resp.JobId); !errors.Is(err, ErrNotCancellable) {
		t.Errorf("second cancel: expected ErrNotCancellable, got %v", err)
	}

	if _, err := svc.CancelJob(context.Background(), "00000000-0000-0000-0000-000000000001"); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("unknown id: expected ErrJobNotFound, got %v", err)
	}
}

func TestCancelCompletedJobRejected(t *testing.T) {
	svc, repo, _ := newTestPaperService()

	resp, _ := svc.SubmitJob(context.Background(), &dto.ProcessPaperRequest{ArxivId: "2401.12345"})
	id, _ := parseJobId(resp.JobId)
	repo.Update(id, func(j *entity.PaperJob) {
		j.Status = entity.StatusCompleted
	})

	if _, err := svc.CancelJob(context.Background(), resp.JobId); !errors.Is(err, ErrNotCancellable) {
		t.Fatalf("expected ErrNotCancellable, got %v", err)
	}
}

func TestListJobs(t *testing.T) {
	svc, repo, _ := newTestPaperService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.SubmitJob(ctx, &dto.ProcessPaperRequest{ArxivId: "2401.12345"}); err != nil {
			t.Fatalf("SubmitJob: %v", err)
		}
	}
	first := repo.List(nil, 1, 0)[0]
	repo.Update(first.Id, func(j *entity.PaperJob) {
		j.Status = entity.StatusCompleted
	})

	all, err := svc.ListJobs(ctx, "", 0, 0)
	if err != nil {
		t.Fatalf("ListJobs: %v", err)
	}
	if len(all.Jobs) != 3 || all.Total != 3 {
		t.Errorf("list = %d jobs, total %d", len(all.Jobs), all.Total)
	}
	if all.Limit != defaultListLimit {
		t.Errorf("default limit = %d", all.Limit)
	}

	completed, err := svc.ListJobs(ctx, string(entity.StatusCompleted), 10, 0)
	if err != nil {
		t.Fatalf("filtered ListJobs: %v", err)
	}
	if len(completed.Jobs) != 1 || completed.Jobs[0].JobId != first.Id.String() {
		t.Errorf("filtered jobs = %+v", completed.Jobs)
	}

	if _, err := svc.ListJobs(ctx, "bogus_status", 10, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("invalid status: expected ErrInvalidInput, got %v", err)
	}
}

func TestExportJobFormats(t *testing.T) {
	svc, repo, _ := newTestPaperService()
	ctx := context.Background()

	resp, _ := svc.SubmitJob(ctx, &dto.ProcessPaperRequest{ArxivId: "2401.12345"})
	id, _ := parseJobId(resp.JobId)

	if _, err := svc.ExportJob(ctx, resp.JobId, "json"); !errors.Is(err, ErrJobNotCompleted) {
		t.Fatalf("incomplete job: expected ErrJobNotCompleted, got %v", err)
	}

	repo.Update(id, func(j *entity.PaperJob) {
		j.Status = entity.StatusCompleted
		j.Metadata = &entity.PaperMetadata{Title: "Sample Paper"}
		j.Digest = "digest body"
		j.PostThread = []string{"1/m first"}
		j.LongPost = "long body"
		j.TechnicalSummary = "tech"
		j.ContextualAnalysis = "context"
		j.NoveltyAnalysis = "novelty"
	})

	jsonExport, err := svc.ExportJob(ctx, resp.JobId, "json")
	if err != nil {
		t.Fatalf("json export: %v", err)
	}
	if jsonExport.ContentType != "application/json" || !strings.HasSuffix(jsonExport.Filename, ".json") {
		t.Errorf("json export = %s %s", jsonExport.ContentType, jsonExport.Filename)
	}
	var decoded dto.JobStatusResponse
	if err := json.Unmarshal(jsonExport.Body, &decoded); err != nil {
		t.Fatalf("json export body: %v", err)
	}
	if decoded.Result == nil || decoded.Result.Digest != "digest body" {
		t.Errorf("json export missing result: %+v", decoded.Result)
	}

	md, err := svc.ExportJob(ctx, resp.JobId, "markdown")
	if err != nil {
		t.Fatalf("markdown export: %v", err)
	}
	body := string(md.Body)
	for _, want := range []string{"# Sample Paper", "digest body", "1/m first", "long body"} {
		if !strings.Contains(body, want) {
			t.Errorf("markdown missing %q", want)
		}
	}

	txt, err := svc.ExportJob(ctx, resp.JobId, "txt")
	if err != nil {
		t.Fatalf("txt export: %v", err)
	}
	if !strings.Contains(string(txt.Body), "Sample Paper") {
		t.Errorf("txt export missing title")
	}

	if _, err := svc.ExportJob(ctx, resp.JobId, "xml"); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("unsupported format: expected ErrInvalidInput, got %v", err)
	}
}
