// Package ideationsvc - Test RetentionService: áp giới hạn rejected ideas, xóa cũ nhất trước, idempotent.
package ideationsvc

import (
	"context"
	"errors"
	"sort"
	"testing"

	ideationmodels "content_pilot/internal/api/ideation/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeRejectedStore giữ các ý tưởng rejected trong memory, mô phỏng
// count / list-oldest-first / delete của ContentIdeaService.
type fakeRejectedStore struct {
	ideas    map[primitive.ObjectID][]ideationmodels.ContentIdea // theo owner
	countErr error
	listErr  error
	delErr   error

	deleteCalls int
}

func newFakeRejectedStore() *fakeRejectedStore {
	return &fakeRejectedStore{ideas: map[primitive.ObjectID][]ideationmodels.ContentIdea{}}
}

func (f *fakeRejectedStore) addRejected(ownerID primitive.ObjectID, createdAt int64) ideationmodels.ContentIdea {
	idea := ideationmodels.ContentIdea{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		Status:    ideationmodels.IdeaStatusRejected,
		CreatedAt: createdAt,
	}
	f.ideas[ownerID] = append(f.ideas[ownerID], idea)
	return idea
}

func (f *fakeRejectedStore) CountRejectedByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.ideas[ownerID])), nil
}

func (f *fakeRejectedStore) ListRejectedOldestFirst(ctx context.Context, ownerID primitive.ObjectID, limit int64) ([]ideationmodels.ContentIdea, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	list := append([]ideationmodels.ContentIdea{}, f.ideas[ownerID]...)
	sort.Slice(list, func(i, j int) bool {
		if list[i].CreatedAt != list[j].CreatedAt {
			return list[i].CreatedAt < list[j].CreatedAt
		}
		return list[i].ID.Hex() < list[j].ID.Hex()
	})
	if int64(len(list)) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (f *fakeRejectedStore) DeleteByIds(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	f.deleteCalls++
	if f.delErr != nil {
		return 0, f.delErr
	}
	toDelete := map[primitive.ObjectID]bool{}
	for _, id := range ids {
		toDelete[id] = true
	}
	var deleted int64
	for ownerID, list := range f.ideas {
		kept := list[:0]
		for _, idea := range list {
			if toDelete[idea.ID] {
				deleted++
				continue
			}
			kept = append(kept, idea)
		}
		f.ideas[ownerID] = kept
	}
	return deleted, nil
}

func (f *fakeRejectedStore) ListOwnersWithRejected(ctx context.Context) ([]primitive.ObjectID, error) {
	owners := []primitive.ObjectID{}
	for ownerID, list := range f.ideas {
		if len(list) > 0 {
			owners = append(owners, ownerID)
		}
	}
	return owners, nil
}

func TestEnforceRejectedCap_DeletesOldestExcess(t *testing.T) {
	store := newFakeRejectedStore()
	ownerID := primitive.NewObjectID()

	// 101 ý tưởng rejected với createdAt tăng dần T1 < T2 < ... < T101
	oldest := store.addRejected(ownerID, 1)
	for i := int64(2); i <= 101; i++ {
		store.addRejected(ownerID, i)
	}

	retention := NewRetentionService(store, 100)
	deleted, err := retention.EnforceRejectedCap(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("EnforceRejectedCap trả về lỗi: %v", err)
	}
	if deleted != 1 {
		t.Errorf("101 ý tưởng với cap 100 phải xóa đúng 1, đã xóa %d", deleted)
	}
	if len(store.ideas[ownerID]) != 100 {
		t.Errorf("phải còn lại đúng 100 ý tưởng, còn %d", len(store.ideas[ownerID]))
	}
	// Ý tưởng bị xóa phải là ý tưởng cũ nhất (T1)
	for _, idea := range store.ideas[ownerID] {
		if idea.ID == oldest.ID {
			t.Error("ý tưởng cũ nhất (T1) phải bị xóa nhưng vẫn còn")
		}
	}
}

func TestEnforceRejectedCap_RerunIsNoop(t *testing.T) {
	store := newFakeRejectedStore()
	ownerID := primitive.NewObjectID()
	for i := int64(1); i <= 101; i++ {
		store.addRejected(ownerID, i)
	}

	retention := NewRetentionService(store, 100)
	if _, err := retention.EnforceRejectedCap(context.Background(), ownerID); err != nil {
		t.Fatalf("lần chạy đầu trả về lỗi: %v", err)
	}

	// Chạy lại ngay: đã trong giới hạn, không được xóa gì và không gọi delete
	deleteCallsBefore := store.deleteCalls
	deleted, err := retention.EnforceRejectedCap(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("lần chạy lại trả về lỗi: %v", err)
	}
	if deleted != 0 {
		t.Errorf("chạy lại phải là no-op, đã xóa %d", deleted)
	}
	if store.deleteCalls != deleteCallsBefore {
		t.Error("chạy lại trong giới hạn không được gọi DeleteByIds")
	}
}

func TestEnforceRejectedCap_UnderCapIsNoop(t *testing.T) {
	store := newFakeRejectedStore()
	ownerID := primitive.NewObjectID()
	for i := int64(1); i <= 50; i++ {
		store.addRejected(ownerID, i)
	}

	retention := NewRetentionService(store, 100)
	deleted, err := retention.EnforceRejectedCap(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("EnforceRejectedCap trả về lỗi: %v", err)
	}
	if deleted != 0 {
		t.Errorf("dưới giới hạn phải là no-op, đã xóa %d", deleted)
	}
	if store.deleteCalls != 0 {
		t.Error("dưới giới hạn không được gọi DeleteByIds")
	}
}

func TestEnforceRejectedCap_DeletesManyExcess(t *testing.T) {
	store := newFakeRejectedStore()
	ownerID := primitive.NewObjectID()
	for i := int64(1); i <= 110; i++ {
		store.addRejected(ownerID, i)
	}

	retention := NewRetentionService(store, 100)
	deleted, err := retention.EnforceRejectedCap(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("EnforceRejectedCap trả về lỗi: %v", err)
	}
	if deleted != 10 {
		t.Errorf("110 ý tưởng với cap 100 phải xóa đúng 10, đã xóa %d", deleted)
	}
	// Các ý tưởng còn lại phải là 100 ý tưởng mới nhất (createdAt 11..110)
	for _, idea := range store.ideas[ownerID] {
		if idea.CreatedAt <= 10 {
			t.Errorf("ý tưởng cũ (createdAt=%d) phải bị xóa trước", idea.CreatedAt)
		}
	}
}

func TestEnforceRejectedCap_CountErrorPropagates(t *testing.T) {
	store := newFakeRejectedStore()
	store.countErr = errors.New("lỗi truy vấn")

	retention := NewRetentionService(store, 100)
	_, err := retention.EnforceRejectedCap(context.Background(), primitive.NewObjectID())
	if !errors.Is(err, store.countErr) {
		t.Fatalf("lỗi đếm phải được trả về, nhận: %v", err)
	}
	if store.deleteCalls != 0 {
		t.Error("không được xóa khi đếm thất bại")
	}
}

func TestEnforceAll_ContinuesPastFailingOwner(t *testing.T) {
	store := newFakeRejectedStore()
	owner1 := primitive.NewObjectID()
	owner2 := primitive.NewObjectID()
	for i := int64(1); i <= 101; i++ {
		store.addRejected(owner1, i)
	}
	for i := int64(1); i <= 105; i++ {
		store.addRejected(owner2, i)
	}

	retention := NewRetentionService(store, 100)
	total, err := retention.EnforceAll(context.Background())
	if err != nil {
		t.Fatalf("EnforceAll trả về lỗi: %v", err)
	}
	if total != 6 {
		t.Errorf("tổng số xóa phải là 6 (1 + 5), nhận %d", total)
	}
	if len(store.ideas[owner1]) != 100 || len(store.ideas[owner2]) != 100 {
		t.Errorf("mỗi owner phải còn đúng 100, owner1=%d owner2=%d", len(store.ideas[owner1]), len(store.ideas[owner2]))
	}
}

func TestNewRetentionService_DefaultCap(t *testing.T) {
	store := newFakeRejectedStore()
	retention := NewRetentionService(store, 0)
	if retention.cap != 100 {
		t.Errorf("cap không hợp lệ phải fallback về 100, nhận %d", retention.cap)
	}
}
