package ideationsvc

import (
	"context"
	"sync"

	ideationmodels "content_pilot/internal/api/ideation/models"
	"content_pilot/internal/common"
	"content_pilot/internal/generation"
	"content_pilot/internal/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DocumentClaimer quản lý vòng đời trạng thái ideation của document
type DocumentClaimer interface {
	ClaimProcessing(ctx context.Context, ownerID, docID primitive.ObjectID) (ideationmodels.ContentDocument, error)
	FinishSuccess(ctx context.Context, docID primitive.ObjectID, ideasCount int) error
	FinishFailure(ctx context.Context, docID primitive.ObjectID, reason string) error
}

// IdeaPersister lưu các ý tưởng được sinh ra
type IdeaPersister interface {
	BulkInsertPending(ctx context.Context, ownerID, docID primitive.ObjectID, drafts []generation.IdeaDraft) ([]ideationmodels.ContentIdea, error)
}

// ContextProvider cung cấp ngữ cảnh doanh nghiệp (best-effort)
type ContextProvider interface {
	SummaryForOwner(ctx context.Context, ownerID primitive.ObjectID) string
}

// IdeaGenerator sinh ý tưởng từ nội dung document
type IdeaGenerator interface {
	GenerateIdeas(ctx context.Context, req generation.Request) ([]generation.IdeaDraft, error)
}

// PipelineResult là kết quả một lần chạy pipeline thành công
type PipelineResult struct {
	DocumentID primitive.ObjectID `json:"documentId"`
	IdeasCount int                `json:"ideasCount"`
	HasIdeas   bool               `json:"hasIdeas"`
	Message    string             `json:"message"`
}

// IdeationPipeline điều phối toàn bộ luồng sinh ý tưởng cho một document:
// claim → sanitize → lấy ngữ cảnh → gọi generator → lưu ý tưởng → cập nhật trạng thái.
//
// Chống chạy trùng hai lớp: guard in-process theo cặp (owner, document) chặn
// request trùng trong cùng tiến trình, conditional update trong ClaimProcessing
// chặn trùng giữa nhiều tiến trình. Mỗi lần claim thành công kết thúc ở đúng
// một trạng thái terminal (completed hoặc failed).
type IdeationPipeline struct {
	documents DocumentClaimer
	ideas     IdeaPersister
	contexts  ContextProvider
	generator IdeaGenerator

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewIdeationPipeline tạo pipeline với các dependency được cung cấp
func NewIdeationPipeline(documents DocumentClaimer, ideas IdeaPersister, contexts ContextProvider, generator IdeaGenerator) *IdeationPipeline {
	return &IdeationPipeline{
		documents: documents,
		ideas:     ideas,
		contexts:  contexts,
		generator: generator,
		inFlight:  make(map[string]struct{}),
	}
}

// Run chạy pipeline sinh ý tưởng cho một document của owner.
// Trả về common.ErrAlreadyProcessing nếu document đang được xử lý,
// common.ErrNotFound nếu document không tồn tại hoặc không thuộc owner.
func (p *IdeationPipeline) Run(ctx context.Context, ownerID, docID primitive.ObjectID) (*PipelineResult, error) {
	log := logger.GetAppLogger()

	key := ownerID.Hex() + ":" + docID.Hex()
	if !p.tryAcquire(key) {
		return nil, common.ErrAlreadyProcessing
	}
	defer p.release(key)

	doc, err := p.documents.ClaimProcessing(ctx, ownerID, docID)
	if err != nil {
		return nil, err
	}

	// Từ đây document đã ở trạng thái processing, mọi nhánh lỗi phải kết thúc ở failed
	sanitized := SanitizeContent(doc.Content)
	if sanitized == "" {
		p.finishFailure(ctx, docID, "document content is empty after sanitization")
		return nil, common.ErrEmptyContent
	}

	contextSummary := p.contexts.SummaryForOwner(ctx, ownerID)

	drafts, err := p.generator.GenerateIdeas(ctx, generation.Request{
		DocumentTitle:   doc.Title,
		DocumentType:    doc.Type,
		Content:         sanitized,
		BusinessContext: contextSummary,
	})
	if err != nil {
		log.WithError(err).WithFields(map[string]interface{}{
			"documentId": docID.Hex(),
			"ownerId":    ownerID.Hex(),
		}).Error("💡 [IDEATION] Idea generation failed")
		p.finishFailure(ctx, docID, "idea generation failed: "+err.Error())
		return nil, err
	}

	inserted, err := p.ideas.BulkInsertPending(ctx, ownerID, docID, drafts)
	if err != nil {
		log.WithError(err).WithFields(map[string]interface{}{
			"documentId": docID.Hex(),
			"ownerId":    ownerID.Hex(),
			"ideasCount": len(drafts),
		}).Error("💡 [IDEATION] Failed to persist generated ideas")
		p.finishFailure(ctx, docID, "failed to persist generated ideas")
		return nil, err
	}

	if err := p.documents.FinishSuccess(ctx, docID, len(inserted)); err != nil {
		log.WithError(err).WithFields(map[string]interface{}{
			"documentId": docID.Hex(),
			"ideasCount": len(inserted),
		}).Error("💡 [IDEATION] Failed to mark document as completed")
		// Vẫn phải đưa document ra khỏi processing, không chờ release worker
		p.finishFailure(ctx, docID, "failed to mark document as completed")
		return nil, err
	}

	result := &PipelineResult{
		DocumentID: docID,
		IdeasCount: len(inserted),
		HasIdeas:   len(inserted) > 0,
		Message:    "Đã sinh ý tưởng thành công",
	}
	// Danh sách rỗng vẫn là lần chạy thành công, nhưng client cần phân biệt được
	if len(inserted) == 0 {
		result.Message = "Pipeline hoàn tất nhưng không sinh được ý tưởng nào từ tài liệu này"
	}

	log.WithFields(map[string]interface{}{
		"documentId": docID.Hex(),
		"ownerId":    ownerID.Hex(),
		"ideasCount": result.IdeasCount,
	}).Info("💡 [IDEATION] Pipeline completed")

	return result, nil
}

// finishFailure cập nhật trạng thái failed, lỗi cập nhật chỉ log chứ không che lỗi gốc
func (p *IdeationPipeline) finishFailure(ctx context.Context, docID primitive.ObjectID, reason string) {
	if err := p.documents.FinishFailure(ctx, docID, reason); err != nil {
		logger.GetAppLogger().WithError(err).WithFields(map[string]interface{}{
			"documentId": docID.Hex(),
			"reason":     reason,
		}).Error("💡 [IDEATION] Failed to mark document as failed")
	}
}

func (p *IdeationPipeline) tryAcquire(key string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, held := p.inFlight[key]; held {
		return false
	}
	p.inFlight[key] = struct{}{}
	return true
}

func (p *IdeationPipeline) release(key string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.inFlight, key)
}
