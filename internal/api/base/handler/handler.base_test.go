// Package basehdl - Test xử lý filter và sort options của BaseHandler.
package basehdl

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type testModel struct {
	Name string `bson:"name"`
}

func newTestHandler() *BaseHandler[testModel, testModel, testModel] {
	return NewBaseHandler[testModel, testModel, testModel](nil, nil, nil)
}

func TestNormalizeFilter_ObjectIDConversion(t *testing.T) {
	h := newTestHandler()
	oid := primitive.NewObjectID()

	filter := map[string]interface{}{
		"documentId": oid.Hex(),
		"name":       oid.Hex(), // không phải trường Id, giữ nguyên string
	}
	normalized := h.normalizeFilter(filter)

	if got, ok := normalized["documentId"].(primitive.ObjectID); !ok || got != oid {
		t.Errorf("documentId phải được chuyển thành ObjectID, nhận %T %v", normalized["documentId"], normalized["documentId"])
	}
	if _, ok := normalized["name"].(string); !ok {
		t.Errorf("trường không phải Id phải giữ nguyên string, nhận %T", normalized["name"])
	}
}

func TestNormalizeFilter_ExtendedJSONOid(t *testing.T) {
	h := newTestHandler()
	oid := primitive.NewObjectID()

	filter := map[string]interface{}{
		"status": map[string]interface{}{"$oid": oid.Hex()},
	}
	normalized := h.normalizeFilter(filter)

	if got, ok := normalized["status"].(primitive.ObjectID); !ok || got != oid {
		t.Errorf("{$oid: ...} phải được chuyển thành ObjectID, nhận %T", normalized["status"])
	}
}

func TestNormalizeFilter_InOperatorOnIDField(t *testing.T) {
	h := newTestHandler()
	oid1 := primitive.NewObjectID()
	oid2 := primitive.NewObjectID()

	filter := map[string]interface{}{
		"ownerId": map[string]interface{}{
			"$in": []interface{}{oid1.Hex(), oid2.Hex()},
		},
	}
	normalized := h.normalizeFilter(filter)

	inMap, ok := normalized["ownerId"].(map[string]interface{})
	if !ok {
		t.Fatalf("ownerId phải là map, nhận %T", normalized["ownerId"])
	}
	arr, ok := inMap["$in"].([]interface{})
	if !ok || len(arr) != 2 {
		t.Fatalf("$in phải là mảng 2 phần tử, nhận %v", inMap["$in"])
	}
	for i, item := range arr {
		if _, ok := item.(primitive.ObjectID); !ok {
			t.Errorf("phần tử %d của $in phải là ObjectID, nhận %T", i, item)
		}
	}
}

func TestValidateFilter_DeniedField(t *testing.T) {
	h := newTestHandler()

	err := h.validateFilter(map[string]interface{}{"password": "x"})
	if err == nil {
		t.Error("filter trên trường password phải bị từ chối")
	}
}

func TestValidateFilter_DisallowedOperator(t *testing.T) {
	h := newTestHandler()

	err := h.validateFilter(map[string]interface{}{
		"name": map[string]interface{}{"$where": "this.a == 1"},
	})
	if err == nil {
		t.Error("toán tử $where phải bị từ chối")
	}

	err = h.validateFilter(map[string]interface{}{
		"name": map[string]interface{}{"$in": []interface{}{"a", "b"}},
	})
	if err != nil {
		t.Errorf("toán tử $in phải được phép, nhận lỗi: %v", err)
	}
}

func TestValidateFilter_TooManyFields(t *testing.T) {
	h := newTestHandler()

	filter := map[string]interface{}{}
	for _, f := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k"} {
		filter[f] = 1
	}
	if err := h.validateFilter(filter); err == nil {
		t.Error("filter quá 10 trường phải bị từ chối")
	}
}

func TestParseSortWithOrder_PreservesKeyOrder(t *testing.T) {
	optionsJSON := `{"sort":{"createdAt":1,"_id":1,"name":-1}}`
	rawOptions := map[string]interface{}{
		"sort": map[string]interface{}{"createdAt": float64(1), "_id": float64(1), "name": float64(-1)},
	}

	sortBson := parseSortWithOrder(rawOptions, optionsJSON)
	if len(sortBson) != 3 {
		t.Fatalf("sort phải có 3 phần tử, nhận %d", len(sortBson))
	}
	// Thứ tự key trong JSON phải được giữ nguyên (map của Go không đảm bảo thứ tự)
	wantKeys := []string{"createdAt", "_id", "name"}
	wantVals := []int{1, 1, -1}
	for i, e := range sortBson {
		if e.Key != wantKeys[i] {
			t.Errorf("phần tử %d có key %q, muốn %q", i, e.Key, wantKeys[i])
		}
		if e.Value != wantVals[i] {
			t.Errorf("phần tử %d có value %v, muốn %d", i, e.Value, wantVals[i])
		}
	}
}

func TestParseSortWithOrder_NoSortReturnsEmpty(t *testing.T) {
	sortBson := parseSortWithOrder(map[string]interface{}{}, `{}`)
	if len(sortBson) != 0 {
		t.Errorf("không có sort phải trả về bson.D rỗng, nhận %v", sortBson)
	}
}
