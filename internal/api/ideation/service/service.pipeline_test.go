// Package ideationsvc - Test IdeationPipeline.Run: các nhánh terminal state và chống chạy trùng.
package ideationsvc

import (
	"context"
	"errors"
	"sync"
	"testing"

	ideationmodels "content_pilot/internal/api/ideation/models"
	"content_pilot/internal/common"
	"content_pilot/internal/generation"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ===== FAKES =====

type fakeClaimer struct {
	mu sync.Mutex

	doc        ideationmodels.ContentDocument
	claimErr   error
	successErr error

	successCount int // số ý tưởng truyền vào FinishSuccess
	successCalls int
	failureCalls int
	lastReason   string
}

func (f *fakeClaimer) ClaimProcessing(ctx context.Context, ownerID, docID primitive.ObjectID) (ideationmodels.ContentDocument, error) {
	if f.claimErr != nil {
		return ideationmodels.ContentDocument{}, f.claimErr
	}
	return f.doc, nil
}

func (f *fakeClaimer) FinishSuccess(ctx context.Context, docID primitive.ObjectID, ideasCount int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.successCalls++
	f.successCount = ideasCount
	return f.successErr
}

func (f *fakeClaimer) FinishFailure(ctx context.Context, docID primitive.ObjectID, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failureCalls++
	f.lastReason = reason
	return nil
}

type fakePersister struct {
	mu        sync.Mutex
	insertErr error
	calls     int
	lastDraft []generation.IdeaDraft
}

func (f *fakePersister) BulkInsertPending(ctx context.Context, ownerID, docID primitive.ObjectID, drafts []generation.IdeaDraft) ([]ideationmodels.ContentIdea, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.lastDraft = drafts
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	ideas := make([]ideationmodels.ContentIdea, 0, len(drafts))
	for _, d := range drafts {
		ideas = append(ideas, ideationmodels.ContentIdea{
			DocumentID:  docID,
			OwnerID:     ownerID,
			Title:       d.Title,
			Description: d.Description,
			Angle:       d.Angle,
			Status:      ideationmodels.IdeaStatusPending,
		})
	}
	return ideas, nil
}

type fakeContextProvider struct {
	summary string
}

func (f *fakeContextProvider) SummaryForOwner(ctx context.Context, ownerID primitive.ObjectID) string {
	return f.summary
}

type fakeGenerator struct {
	mu       sync.Mutex
	drafts   []generation.IdeaDraft
	genErr   error
	calls    int
	lastReq  generation.Request
	entered  chan struct{} // nếu khác nil, đóng khi generator được gọi
	proceed  chan struct{} // nếu khác nil, block cho tới khi được đóng

	enteredOnce sync.Once // đảm bảo entered chỉ bị đóng một lần
}

func (f *fakeGenerator) GenerateIdeas(ctx context.Context, req generation.Request) ([]generation.IdeaDraft, error) {
	f.mu.Lock()
	f.calls++
	f.lastReq = req
	f.mu.Unlock()

	if f.entered != nil {
		f.enteredOnce.Do(func() { close(f.entered) })
	}
	if f.proceed != nil {
		<-f.proceed
	}
	if f.genErr != nil {
		return nil, f.genErr
	}
	return f.drafts, nil
}

func newTestPipeline(claimer *fakeClaimer, persister *fakePersister, contexts *fakeContextProvider, gen *fakeGenerator) *IdeationPipeline {
	return NewIdeationPipeline(claimer, persister, contexts, gen)
}

func testDoc(content string) ideationmodels.ContentDocument {
	return ideationmodels.ContentDocument{
		ID:      primitive.NewObjectID(),
		Title:   "Tài liệu test",
		Content: content,
		Type:    ideationmodels.DocumentTypeTranscript,
	}
}

// ===== TESTS =====

func TestPipelineRun_Success(t *testing.T) {
	claimer := &fakeClaimer{doc: testDoc("<p>Nội dung</p> đủ dài để sinh ý tưởng")}
	persister := &fakePersister{}
	contexts := &fakeContextProvider{summary: "Industry: SaaS"}
	gen := &fakeGenerator{drafts: []generation.IdeaDraft{
		{Title: "Ý tưởng 1", Description: "Mô tả 1", Angle: "how-to"},
		{Title: "Ý tưởng 2", Description: "Mô tả 2"},
	}}
	p := newTestPipeline(claimer, persister, contexts, gen)

	result, err := p.Run(context.Background(), primitive.NewObjectID(), claimer.doc.ID)
	if err != nil {
		t.Fatalf("Run trả về lỗi: %v", err)
	}
	if result.IdeasCount != 2 {
		t.Errorf("IdeasCount = %d, muốn 2", result.IdeasCount)
	}
	if !result.HasIdeas {
		t.Error("HasIdeas phải là true khi có ý tưởng")
	}
	if claimer.successCalls != 1 || claimer.successCount != 2 {
		t.Errorf("FinishSuccess được gọi %d lần với count %d, muốn 1 lần với count 2", claimer.successCalls, claimer.successCount)
	}
	if claimer.failureCalls != 0 {
		t.Errorf("FinishFailure không được gọi khi thành công, đã gọi %d lần", claimer.failureCalls)
	}
	// Generator phải nhận content đã sanitize và business context
	if gen.lastReq.Content != "Nội dung đủ dài để sinh ý tưởng" {
		t.Errorf("Generator nhận content chưa sanitize: %q", gen.lastReq.Content)
	}
	if gen.lastReq.BusinessContext != "Industry: SaaS" {
		t.Errorf("Generator không nhận business context: %q", gen.lastReq.BusinessContext)
	}
	if gen.lastReq.DocumentType != ideationmodels.DocumentTypeTranscript {
		t.Errorf("Generator không nhận document type: %q", gen.lastReq.DocumentType)
	}
}

func TestPipelineRun_ZeroIdeasIsSuccess(t *testing.T) {
	claimer := &fakeClaimer{doc: testDoc("nội dung hợp lệ")}
	persister := &fakePersister{}
	gen := &fakeGenerator{drafts: []generation.IdeaDraft{}}
	p := newTestPipeline(claimer, persister, &fakeContextProvider{}, gen)

	result, err := p.Run(context.Background(), primitive.NewObjectID(), claimer.doc.ID)
	if err != nil {
		t.Fatalf("Danh sách ý tưởng rỗng phải là thành công, nhận lỗi: %v", err)
	}
	if result.HasIdeas {
		t.Error("HasIdeas phải là false khi không có ý tưởng")
	}
	if result.IdeasCount != 0 {
		t.Errorf("IdeasCount = %d, muốn 0", result.IdeasCount)
	}
	if result.Message == "Đã sinh ý tưởng thành công" {
		t.Error("Message của lần chạy 0 ý tưởng phải phân biệt được với lần chạy có ý tưởng")
	}
	if claimer.successCalls != 1 || claimer.successCount != 0 {
		t.Errorf("FinishSuccess phải được gọi với count 0, successCalls=%d count=%d", claimer.successCalls, claimer.successCount)
	}
}

func TestPipelineRun_EmptyContentFailsWithoutGeneratorCall(t *testing.T) {
	// Content chỉ có markup → sanitize xong rỗng → failed, không gọi generator
	claimer := &fakeClaimer{doc: testDoc("<div><br/></div>")}
	persister := &fakePersister{}
	gen := &fakeGenerator{drafts: []generation.IdeaDraft{{Title: "không được dùng"}}}
	p := newTestPipeline(claimer, persister, &fakeContextProvider{}, gen)

	_, err := p.Run(context.Background(), primitive.NewObjectID(), claimer.doc.ID)
	if !errors.Is(err, common.ErrEmptyContent) {
		t.Fatalf("muốn common.ErrEmptyContent, nhận: %v", err)
	}
	if gen.calls != 0 {
		t.Errorf("Generator không được gọi khi content rỗng, đã gọi %d lần", gen.calls)
	}
	if persister.calls != 0 {
		t.Errorf("Persister không được gọi khi content rỗng, đã gọi %d lần", persister.calls)
	}
	if claimer.failureCalls != 1 {
		t.Errorf("FinishFailure phải được gọi đúng 1 lần, đã gọi %d lần", claimer.failureCalls)
	}
	if claimer.successCalls != 0 {
		t.Error("FinishSuccess không được gọi khi content rỗng")
	}
}

func TestPipelineRun_GenerationFailureMarksFailed(t *testing.T) {
	claimer := &fakeClaimer{doc: testDoc("nội dung hợp lệ")}
	persister := &fakePersister{}
	genErr := errors.New("dịch vụ sinh ý tưởng không phản hồi")
	gen := &fakeGenerator{genErr: genErr}
	p := newTestPipeline(claimer, persister, &fakeContextProvider{}, gen)

	_, err := p.Run(context.Background(), primitive.NewObjectID(), claimer.doc.ID)
	if !errors.Is(err, genErr) {
		t.Fatalf("lỗi generation phải được trả về nguyên vẹn, nhận: %v", err)
	}
	if persister.calls != 0 {
		t.Error("Persister không được gọi khi generation thất bại")
	}
	if claimer.failureCalls != 1 {
		t.Errorf("FinishFailure phải được gọi đúng 1 lần, đã gọi %d lần", claimer.failureCalls)
	}
	if claimer.lastReason == "" {
		t.Error("Lý do thất bại phải được ghi lại")
	}
}

func TestPipelineRun_PersistenceFailureMarksFailed(t *testing.T) {
	claimer := &fakeClaimer{doc: testDoc("nội dung hợp lệ")}
	insertErr := errors.New("lỗi ghi dữ liệu")
	persister := &fakePersister{insertErr: insertErr}
	gen := &fakeGenerator{drafts: []generation.IdeaDraft{{Title: "Ý tưởng", Description: "Mô tả"}}}
	p := newTestPipeline(claimer, persister, &fakeContextProvider{}, gen)

	_, err := p.Run(context.Background(), primitive.NewObjectID(), claimer.doc.ID)
	if !errors.Is(err, insertErr) {
		t.Fatalf("lỗi persistence phải được trả về, nhận: %v", err)
	}
	if claimer.failureCalls != 1 {
		t.Errorf("FinishFailure phải được gọi đúng 1 lần, đã gọi %d lần", claimer.failureCalls)
	}
	if claimer.successCalls != 0 {
		t.Error("FinishSuccess không được gọi khi persistence thất bại")
	}
}

func TestPipelineRun_CompletionWriteFailureFallsBackToFailed(t *testing.T) {
	// Ghi trạng thái completed thất bại → vẫn phải thử đưa document ra khỏi
	// processing bằng FinishFailure thay vì bỏ mặc cho release worker
	claimer := &fakeClaimer{
		doc:        testDoc("nội dung hợp lệ"),
		successErr: errors.New("lỗi ghi trạng thái"),
	}
	persister := &fakePersister{}
	gen := &fakeGenerator{drafts: []generation.IdeaDraft{{Title: "Ý tưởng", Description: "Mô tả"}}}
	p := newTestPipeline(claimer, persister, &fakeContextProvider{}, gen)

	_, err := p.Run(context.Background(), primitive.NewObjectID(), claimer.doc.ID)
	if !errors.Is(err, claimer.successErr) {
		t.Fatalf("lỗi ghi trạng thái completed phải được trả về, nhận: %v", err)
	}
	if persister.calls != 1 {
		t.Errorf("Persister phải được gọi trước khi ghi trạng thái, calls=%d", persister.calls)
	}
	if claimer.failureCalls != 1 {
		t.Errorf("FinishFailure phải được gọi 1 lần làm fallback, đã gọi %d lần", claimer.failureCalls)
	}
	if claimer.lastReason == "" {
		t.Error("Lý do thất bại phải được ghi lại")
	}
}

func TestPipelineRun_ClaimErrorPropagates(t *testing.T) {
	claimer := &fakeClaimer{claimErr: common.ErrAlreadyProcessing}
	gen := &fakeGenerator{}
	p := newTestPipeline(claimer, &fakePersister{}, &fakeContextProvider{}, gen)

	_, err := p.Run(context.Background(), primitive.NewObjectID(), primitive.NewObjectID())
	if !errors.Is(err, common.ErrAlreadyProcessing) {
		t.Fatalf("muốn common.ErrAlreadyProcessing, nhận: %v", err)
	}
	if gen.calls != 0 {
		t.Error("Generator không được gọi khi claim thất bại")
	}
	// Claim thất bại nghĩa là chưa vào processing, không được đánh failed
	if claimer.failureCalls != 0 {
		t.Error("FinishFailure không được gọi khi claim thất bại")
	}
}

func TestPipelineRun_InFlightGuardRejectsDuplicate(t *testing.T) {
	claimer := &fakeClaimer{doc: testDoc("nội dung hợp lệ")}
	gen := &fakeGenerator{
		drafts:  []generation.IdeaDraft{{Title: "Ý tưởng"}},
		entered: make(chan struct{}),
		proceed: make(chan struct{}),
	}
	p := newTestPipeline(claimer, &fakePersister{}, &fakeContextProvider{}, gen)

	ownerID := primitive.NewObjectID()
	docID := claimer.doc.ID

	done := make(chan error, 1)
	go func() {
		_, err := p.Run(context.Background(), ownerID, docID)
		done <- err
	}()

	// Chờ request thứ nhất vào tới generator rồi bắn request trùng
	<-gen.entered
	_, err := p.Run(context.Background(), ownerID, docID)
	if !errors.Is(err, common.ErrAlreadyProcessing) {
		t.Fatalf("request trùng phải nhận common.ErrAlreadyProcessing, nhận: %v", err)
	}

	close(gen.proceed)
	if err := <-done; err != nil {
		t.Fatalf("request thứ nhất phải thành công, nhận lỗi: %v", err)
	}

	// Sau khi request thứ nhất xong, key được giải phóng, chạy lại được
	result, err := p.Run(context.Background(), ownerID, docID)
	if err != nil {
		t.Fatalf("chạy lại sau khi hoàn tất phải thành công, nhận lỗi: %v", err)
	}
	if result.IdeasCount != 1 {
		t.Errorf("IdeasCount = %d, muốn 1", result.IdeasCount)
	}
}

func TestPipelineRun_EmptyBusinessContextStillRuns(t *testing.T) {
	// Provider trả về rỗng (không có business context) → pipeline vẫn chạy bình thường
	claimer := &fakeClaimer{doc: testDoc("nội dung hợp lệ")}
	gen := &fakeGenerator{drafts: []generation.IdeaDraft{{Title: "Ý tưởng"}}}
	p := newTestPipeline(claimer, &fakePersister{}, &fakeContextProvider{summary: ""}, gen)

	result, err := p.Run(context.Background(), primitive.NewObjectID(), claimer.doc.ID)
	if err != nil {
		t.Fatalf("Run trả về lỗi: %v", err)
	}
	if result.IdeasCount != 1 {
		t.Errorf("IdeasCount = %d, muốn 1", result.IdeasCount)
	}
	if gen.lastReq.BusinessContext != "" {
		t.Errorf("BusinessContext phải rỗng, nhận %q", gen.lastReq.BusinessContext)
	}
}
