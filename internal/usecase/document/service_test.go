package document_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsumm/internal/common/pagination"
	"docsumm/internal/domain/entity"
	"docsumm/internal/infra/extractor"
	"docsumm/internal/infra/summarizer"
	"docsumm/internal/repository"
	docUC "docsumm/internal/usecase/document"
)

/* ───────── stubs ───────── */

// in-memory DocumentRepository; stores copies so the service never shares memory with it
type stubRepo struct {
	mu      sync.Mutex
	data    map[int64]entity.Document
	nextID  int64
	err     error
	updates []entity.SummaryStatus
}

func newStub() *stubRepo {
	return &stubRepo{data: map[int64]entity.Document{}, nextID: 1}
}

func (s *stubRepo) Create(_ context.Context, d *entity.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	d.ID = s.nextID
	s.nextID++
	d.CreatedAt = time.Now().Add(time.Duration(d.ID) * time.Millisecond)
	d.UpdatedAt = d.CreatedAt
	s.data[d.ID] = *d
	return nil
}

func (s *stubRepo) Get(_ context.Context, id int64) (*entity.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	d, ok := s.data[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (s *stubRepo) matching(f repository.DocumentFilter) []entity.Document {
	var out []entity.Document
	for _, d := range s.data {
		if d.OwnerID != f.OwnerID {
			continue
		}
		if f.FileType != "" && d.FileType != f.FileType {
			continue
		}
		if f.Status != "" && d.SummaryStatus != f.Status {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(d.Filename), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (s *stubRepo) ListByOwner(_ context.Context, f repository.DocumentFilter) ([]*entity.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	all := s.matching(f)
	start := min(f.Offset, len(all))
	end := len(all)
	if f.Limit > 0 {
		end = min(start+f.Limit, len(all))
	}
	out := make([]*entity.Document, 0, end-start)
	for _, d := range all[start:end] {
		d.ExtractedText = ""
		out = append(out, &d)
	}
	return out, nil
}

func (s *stubRepo) CountByOwner(_ context.Context, f repository.DocumentFilter) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	return int64(len(s.matching(f))), nil
}

func (s *stubRepo) StatsByOwner(_ context.Context, ownerID string) (*repository.DocumentStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	st := &repository.DocumentStats{}
	for _, d := range s.data {
		if d.OwnerID != ownerID {
			continue
		}
		st.Total++
		if d.SummaryStatus == entity.SummaryStatusCompleted {
			st.Completed++
		}
		st.TotalWords += int64(d.WordCount)
	}
	return st, nil
}

func (s *stubRepo) ListByStatus(_ context.Context, statuses []entity.SummaryStatus, limit int) ([]*entity.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []*entity.Document
	for id := int64(1); id < s.nextID && len(out) < limit; id++ {
		d, ok := s.data[id]
		if !ok {
			continue
		}
		for _, st := range statuses {
			if d.SummaryStatus == st {
				out = append(out, &d)
				break
			}
		}
	}
	return out, nil
}

func (s *stubRepo) UpdateSummary(_ context.Context, d *entity.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	stored, ok := s.data[d.ID]
	if !ok {
		return entity.ErrNotFound
	}
	stored.Summary = d.Summary
	stored.SummaryMethod = d.SummaryMethod
	stored.SummaryModel = d.SummaryModel
	stored.CompressionRatio = d.CompressionRatio
	stored.ReadingTime = d.ReadingTime
	stored.WordCount = d.WordCount
	stored.Keywords = d.Keywords
	stored.SummaryStatus = entity.SummaryStatusCompleted
	stored.SummaryError = ""
	s.data[d.ID] = stored
	s.updates = append(s.updates, entity.SummaryStatusCompleted)
	return nil
}

func (s *stubRepo) UpdateStatus(_ context.Context, id int64, status entity.SummaryStatus, summaryErr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	stored, ok := s.data[id]
	if !ok {
		return entity.ErrNotFound
	}
	stored.SummaryStatus = status
	stored.SummaryError = summaryErr
	s.data[id] = stored
	s.updates = append(s.updates, status)
	return nil
}

func (s *stubRepo) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if _, ok := s.data[id]; !ok {
		return entity.ErrNotFound
	}
	delete(s.data, id)
	return nil
}

func (s *stubRepo) stored(t *testing.T, id int64) entity.Document {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data[id]
	require.True(t, ok, "document %d not stored", id)
	return d
}

func (s *stubRepo) seed(owner, filename, fileType, text string, status entity.SummaryStatus) int64 {
	d := &entity.Document{
		OwnerID:       owner,
		Filename:      filename,
		FileType:      fileType,
		ExtractedText: text,
		SummaryStatus: status,
	}
	_ = s.Create(context.Background(), d)
	return d.ID
}

type summarizeFunc func(ctx context.Context, text string, opts entity.SummaryOptions) (*entity.Summary, error)

func (f summarizeFunc) Summarize(ctx context.Context, text string, opts entity.SummaryOptions) (*entity.Summary, error) {
	return f(ctx, text, opts)
}

func fixedSummary(text string, opts entity.SummaryOptions) *entity.Summary {
	return &entity.Summary{Text: "short summary.", Method: "extractive", Model: "stub", CompressionRatio: 0.25}
}

const articleText = "Distributed caches keep hot data close to the application servers. " +
	"Cache invalidation remains the hardest operational problem for most teams. " +
	"A write-through cache updates the backing store and the cache together. " +
	"Read-heavy workloads benefit the most from an aggressive caching strategy. " +
	"Monitoring hit ratios tells operators whether the cache is sized correctly."

func newService(repo *stubRepo, sum docUC.Summarizer) *docUC.Service {
	return &docUC.Service{
		Repo:            repo,
		Extractor:       extractor.New(0),
		Summarizer:      sum,
		Options:         entity.SummaryOptions{MaxLength: 400, MaxSentences: 2},
		InlineSummarize: true,
	}
}

/* ───────── Upload ───────── */

func TestService_Upload_InlineWithLocalSummarizer(t *testing.T) {
	repo := newStub()
	svc := newService(repo, summarizer.NewLocal())

	doc, err := svc.Upload(context.Background(), docUC.UploadInput{
		OwnerID:     "alice",
		Filename:    "caching.txt",
		ContentType: "text/plain",
		Body:        strings.NewReader(articleText),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), doc.ID)
	assert.Equal(t, "txt", doc.FileType)
	assert.Equal(t, int64(len(articleText)), doc.FileSize)
	assert.Equal(t, entity.SummaryStatusCompleted, doc.SummaryStatus)
	assert.Equal(t, "extractive", doc.SummaryMethod)
	assert.Equal(t, summarizer.LocalModel, doc.SummaryModel)
	assert.NotEmpty(t, doc.Summary)
	assert.Less(t, len(doc.Summary), len(articleText))
	assert.Equal(t, 1, doc.ReadingTime)
	assert.Contains(t, doc.Keywords, "cache")

	stored := repo.stored(t, doc.ID)
	assert.Equal(t, doc.Summary, stored.Summary)
	assert.Equal(t, entity.SummaryStatusCompleted, stored.SummaryStatus)
	assert.Equal(t, []entity.SummaryStatus{entity.SummaryStatusProcessing, entity.SummaryStatusCompleted}, repo.updates)
}

func TestService_Upload_LeavesPendingWithoutInline(t *testing.T) {
	repo := newStub()
	called := false
	svc := newService(repo, summarizeFunc(func(ctx context.Context, text string, opts entity.SummaryOptions) (*entity.Summary, error) {
		called = true
		return fixedSummary(text, opts), nil
	}))
	svc.InlineSummarize = false

	doc, err := svc.Upload(context.Background(), docUC.UploadInput{
		OwnerID: "alice", Filename: "notes.md", Body: strings.NewReader("# Title\n\nSome notes."),
	})
	require.NoError(t, err)

	assert.False(t, called)
	assert.Equal(t, entity.SummaryStatusPending, doc.SummaryStatus)
	assert.Equal(t, "md", doc.FileType)
	assert.Equal(t, entity.SummaryStatusPending, repo.stored(t, doc.ID).SummaryStatus)
}

func TestService_Upload_SummarizerFailureKeepsDocument(t *testing.T) {
	repo := newStub()
	svc := newService(repo, summarizeFunc(func(context.Context, string, entity.SummaryOptions) (*entity.Summary, error) {
		return nil, errors.New("model unavailable")
	}))

	doc, err := svc.Upload(context.Background(), docUC.UploadInput{
		OwnerID: "alice", Filename: "a.txt", Body: strings.NewReader(articleText),
	})
	require.NoError(t, err)

	assert.Equal(t, entity.SummaryStatusFailed, doc.SummaryStatus)
	assert.Equal(t, "model unavailable", doc.SummaryError)
	stored := repo.stored(t, doc.ID)
	assert.Equal(t, entity.SummaryStatusFailed, stored.SummaryStatus)
	assert.Equal(t, "model unavailable", stored.SummaryError)
}

func TestService_Upload_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      docUC.UploadInput
		repoErr error
		check   func(t *testing.T, err error)
	}{
		{
			name: "missing owner",
			in:   docUC.UploadInput{Filename: "a.txt", Body: strings.NewReader("x")},
			check: func(t *testing.T, err error) {
				var vErr *entity.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "owner", vErr.Field)
			},
		},
		{
			name: "missing body",
			in:   docUC.UploadInput{OwnerID: "alice", Filename: "a.txt"},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, entity.ErrValidationFailed)
			},
		},
		{
			name: "unsupported format",
			in:   docUC.UploadInput{OwnerID: "alice", Filename: "image.png", ContentType: "image/png", Body: strings.NewReader("x")},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, extractor.ErrUnsupportedFormat)
			},
		},
		{
			name: "empty file",
			in:   docUC.UploadInput{OwnerID: "alice", Filename: "a.txt", Body: strings.NewReader(" \n\n ")},
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, extractor.ErrNoText)
			},
		},
		{
			name: "path in filename",
			in:   docUC.UploadInput{OwnerID: "alice", Filename: "../a.txt", Body: strings.NewReader("hello")},
			check: func(t *testing.T, err error) {
				var vErr *entity.ValidationError
				require.ErrorAs(t, err, &vErr)
				assert.Equal(t, "filename", vErr.Field)
			},
		},
		{
			name:    "repository failure",
			in:      docUC.UploadInput{OwnerID: "alice", Filename: "a.txt", Body: strings.NewReader("hello")},
			repoErr: errors.New("db down"),
			check: func(t *testing.T, err error) {
				assert.ErrorContains(t, err, "create document: db down")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newStub()
			repo.err = tt.repoErr
			svc := newService(repo, summarizer.NewLocal())

			doc, err := svc.Upload(context.Background(), tt.in)
			require.Error(t, err)
			assert.Nil(t, doc)
			tt.check(t, err)
		})
	}
}

/* ───────── Queries ───────── */

func TestService_Get_Ownership(t *testing.T) {
	repo := newStub()
	id := repo.seed("alice", "a.txt", "txt", articleText, entity.SummaryStatusPending)
	svc := newService(repo, summarizer.NewLocal())

	doc, err := svc.Get(context.Background(), "alice", id)
	require.NoError(t, err)
	assert.Equal(t, "a.txt", doc.Filename)

	_, err = svc.Get(context.Background(), "bob", id)
	assert.ErrorIs(t, err, docUC.ErrDocumentNotFound)

	_, err = svc.Get(context.Background(), "alice", 99)
	assert.ErrorIs(t, err, docUC.ErrDocumentNotFound)

	_, err = svc.Get(context.Background(), "alice", 0)
	assert.ErrorIs(t, err, docUC.ErrInvalidDocumentID)

	repo.err = errors.New("db down")
	_, err = svc.Get(context.Background(), "alice", id)
	assert.ErrorContains(t, err, "get document: db down")
}

func TestService_GetSummary(t *testing.T) {
	repo := newStub()
	svc := newService(repo, summarizer.NewLocal())
	doc, err := svc.Upload(context.Background(), docUC.UploadInput{
		OwnerID: "alice", Filename: "a.txt", Body: strings.NewReader(articleText),
	})
	require.NoError(t, err)

	view, err := svc.GetSummary(context.Background(), "alice", doc.ID)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, view.ID)
	assert.Equal(t, "a.txt", view.Filename)
	assert.Equal(t, doc.Summary, view.Summary)
	assert.Equal(t, doc.Keywords, view.Keywords)
	assert.Equal(t, entity.SummaryStatusCompleted, view.Status)
	assert.Equal(t, summarizer.LocalModel, view.Model)

	_, err = svc.GetSummary(context.Background(), "bob", doc.ID)
	assert.ErrorIs(t, err, docUC.ErrDocumentNotFound)
}

func TestService_List(t *testing.T) {
	repo := newStub()
	for i := 0; i < 12; i++ {
		repo.seed("alice", "report.txt", "txt", "text", entity.SummaryStatusPending)
	}
	repo.seed("alice", "Budget.pdf", "pdf", "text", entity.SummaryStatusCompleted)
	repo.seed("bob", "report.txt", "txt", "text", entity.SummaryStatusPending)
	svc := newService(repo, summarizer.NewLocal())

	t.Run("default paging", func(t *testing.T) {
		res, err := svc.List(context.Background(), docUC.ListInput{OwnerID: "alice"}, pagination.Params{})
		require.NoError(t, err)
		assert.Len(t, res.Data, 10)
		assert.Equal(t, pagination.Metadata{Total: 13, Page: 1, Limit: 10, TotalPages: 2}, res.Pagination)
		assert.Equal(t, int64(13), res.Data[0].ID, "newest first")
		assert.Empty(t, res.Data[0].ExtractedText)
	})

	t.Run("second page", func(t *testing.T) {
		res, err := svc.List(context.Background(), docUC.ListInput{OwnerID: "alice"}, pagination.Params{Page: 2, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, res.Data, 3)
	})

	t.Run("filters", func(t *testing.T) {
		res, err := svc.List(context.Background(),
			docUC.ListInput{OwnerID: "alice", Search: "budget", FileType: "PDF", Status: "Completed"},
			pagination.Params{Page: 1, Limit: 5})
		require.NoError(t, err)
		require.Len(t, res.Data, 1)
		assert.Equal(t, "Budget.pdf", res.Data[0].Filename)
		assert.Equal(t, int64(1), res.Pagination.Total)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := svc.List(context.Background(), docUC.ListInput{OwnerID: "alice", Status: "done"}, pagination.Params{})
		var vErr *entity.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "status", vErr.Field)
	})
}

func TestService_Delete(t *testing.T) {
	repo := newStub()
	id := repo.seed("alice", "a.txt", "txt", articleText, entity.SummaryStatusPending)
	svc := newService(repo, summarizer.NewLocal())

	err := svc.Delete(context.Background(), "bob", id)
	assert.ErrorIs(t, err, docUC.ErrDocumentNotFound)
	repo.stored(t, id)

	require.NoError(t, svc.Delete(context.Background(), "alice", id))
	_, err = svc.Get(context.Background(), "alice", id)
	assert.ErrorIs(t, err, docUC.ErrDocumentNotFound)
}

func TestService_Stats(t *testing.T) {
	repo := newStub()
	svc := newService(repo, summarizer.NewLocal())
	_, err := svc.Upload(context.Background(), docUC.UploadInput{
		OwnerID: "alice", Filename: "a.txt", Body: strings.NewReader(articleText),
	})
	require.NoError(t, err)
	repo.seed("alice", "b.txt", "txt", "text", entity.SummaryStatusPending)

	st, err := svc.Stats(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), st.Total)
	assert.Equal(t, int64(1), st.Completed)
}

/* ───────── Regenerate ───────── */

func TestService_Regenerate(t *testing.T) {
	repo := newStub()
	fail := true
	var gotOpts entity.SummaryOptions
	svc := newService(repo, summarizeFunc(func(_ context.Context, text string, opts entity.SummaryOptions) (*entity.Summary, error) {
		gotOpts = opts
		if fail {
			return nil, errors.New("quota exceeded")
		}
		return fixedSummary(text, opts), nil
	}))

	doc, err := svc.Upload(context.Background(), docUC.UploadInput{
		OwnerID: "alice", Filename: "a.txt", Body: strings.NewReader(articleText),
	})
	require.NoError(t, err)
	require.Equal(t, entity.SummaryStatusFailed, doc.SummaryStatus)

	// Still failing: the failed document comes back with the error.
	again, err := svc.Regenerate(context.Background(), "alice", doc.ID, entity.SummaryOptions{})
	assert.ErrorIs(t, err, docUC.ErrSummarizationFailed)
	require.NotNil(t, again)
	assert.Equal(t, entity.SummaryStatusFailed, again.SummaryStatus)

	fail = false
	repo.updates = nil
	regen, err := svc.Regenerate(context.Background(), "alice", doc.ID, entity.SummaryOptions{MaxSentences: 4})
	require.NoError(t, err)

	assert.Equal(t, entity.SummaryOptions{MaxLength: 400, MaxSentences: 4}, gotOpts)
	assert.Equal(t, entity.SummaryStatusCompleted, regen.SummaryStatus)
	assert.Empty(t, regen.SummaryError)
	assert.Equal(t, "short summary.", repo.stored(t, doc.ID).Summary)
	assert.Equal(t, []entity.SummaryStatus{
		entity.SummaryStatusPending,
		entity.SummaryStatusProcessing,
		entity.SummaryStatusCompleted,
	}, repo.updates)

	_, err = svc.Regenerate(context.Background(), "bob", doc.ID, entity.SummaryOptions{})
	assert.ErrorIs(t, err, docUC.ErrDocumentNotFound)
}

/* ───────── SummarizePending ───────── */

func TestService_SummarizePending(t *testing.T) {
	repo := newStub()
	okID := repo.seed("alice", "a.txt", "txt", articleText, entity.SummaryStatusPending)
	badID := repo.seed("alice", "b.txt", "txt", "this one fails", entity.SummaryStatusPending)
	retryID := repo.seed("bob", "c.txt", "txt", articleText, entity.SummaryStatusFailed)
	doneID := repo.seed("bob", "d.txt", "txt", articleText, entity.SummaryStatusCompleted)

	var calls atomic.Int32
	svc := newService(repo, summarizeFunc(func(_ context.Context, text string, opts entity.SummaryOptions) (*entity.Summary, error) {
		calls.Add(1)
		if strings.Contains(text, "fails") {
			return nil, errors.New("boom")
		}
		return fixedSummary(text, opts), nil
	}))

	stats, err := svc.SummarizePending(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Picked)
	assert.Equal(t, int64(2), stats.Completed)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int32(3), calls.Load())

	assert.Equal(t, entity.SummaryStatusCompleted, repo.stored(t, okID).SummaryStatus)
	assert.Equal(t, entity.SummaryStatusFailed, repo.stored(t, badID).SummaryStatus)
	assert.Equal(t, "boom", repo.stored(t, badID).SummaryError)
	assert.Equal(t, entity.SummaryStatusCompleted, repo.stored(t, retryID).SummaryStatus)
	assert.Equal(t, entity.SummaryStatusCompleted, repo.stored(t, doneID).SummaryStatus)
}

func TestService_SummarizePending_BoundedParallelism(t *testing.T) {
	repo := newStub()
	for i := 0; i < 8; i++ {
		repo.seed("alice", "a.txt", "txt", articleText, entity.SummaryStatusPending)
	}

	var inFlight, peak atomic.Int32
	svc := newService(repo, summarizeFunc(func(_ context.Context, text string, opts entity.SummaryOptions) (*entity.Summary, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return fixedSummary(text, opts), nil
	}))
	svc.Parallelism = 2

	stats, err := svc.SummarizePending(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(8), stats.Completed)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestService_SummarizePending_Limit(t *testing.T) {
	repo := newStub()
	for i := 0; i < 5; i++ {
		repo.seed("alice", "a.txt", "txt", articleText, entity.SummaryStatusPending)
	}
	svc := newService(repo, summarizer.NewLocal())

	stats, err := svc.SummarizePending(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Picked)
	assert.Equal(t, entity.SummaryStatusPending, repo.stored(t, 3).SummaryStatus)
}

func TestService_SummarizePending_PerDocumentTimeout(t *testing.T) {
	repo := newStub()
	id := repo.seed("alice", "a.txt", "txt", articleText, entity.SummaryStatusPending)

	svc := newService(repo, summarizeFunc(func(ctx context.Context, _ string, _ entity.SummaryOptions) (*entity.Summary, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))
	svc.Timeout = 10 * time.Millisecond

	stats, err := svc.SummarizePending(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Failed)

	stored := repo.stored(t, id)
	assert.Equal(t, entity.SummaryStatusFailed, stored.SummaryStatus)
	assert.Contains(t, stored.SummaryError, "deadline exceeded")
}

func TestService_SummarizePending_CancelledContext(t *testing.T) {
	repo := newStub()
	repo.seed("alice", "a.txt", "txt", articleText, entity.SummaryStatusPending)
	svc := newService(repo, summarizer.NewLocal())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := svc.SummarizePending(ctx, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, stats)
	assert.Equal(t, int64(0), stats.Completed)
}

func TestService_SummarizePending_ListError(t *testing.T) {
	repo := newStub()
	repo.err = errors.New("db down")
	svc := newService(repo, summarizer.NewLocal())

	_, err := svc.SummarizePending(context.Background(), 10)
	assert.ErrorContains(t, err, "list pending documents: db down")
}
