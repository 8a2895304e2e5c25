// Package global giữ các biến dùng chung của ứng dụng: config, session MongoDB,
// validator và registry các collections.
package global

import (
	"content_pilot/config"
	"content_pilot/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// CollectionNames chứa tên các collection trong MongoDB
type CollectionNames struct {
	ContentDocuments string // Tên collection cho tài liệu nguồn
	ContentIdeas     string // Tên collection cho ý tưởng nội dung
	BusinessContexts string // Tên collection cho bối cảnh kinh doanh của owner
}

// Các biến toàn cục
var Validate *validator.Validate           // Biến để xác thực dữ liệu
var MongoDB_Session *mongo.Client          // Phiên kết nối tới MongoDB
var ServerConfig *config.Configuration     // Cấu hình của server
var ColNames = CollectionNames{
	ContentDocuments: "content_documents",
	ContentIdeas:     "content_ideas",
	BusinessContexts: "business_contexts",
}

// Các Registry
var RegistryCollections = registry.NewRegistry[*mongo.Collection]() // Registry chứa các collections
