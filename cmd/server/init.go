package main

import (
	"context"

	"content_pilot/config"
	ideationmodels "content_pilot/internal/api/ideation/models"
	"content_pilot/internal/database"
	"content_pilot/internal/global"

	"github.com/sirupsen/logrus"
)

// Hàm khởi tạo các biến toàn cục
func InitGlobal() {
	initValidator()        // Khởi tạo validator
	initConfig()           // Khởi tạo cấu hình server
	initDatabase_MongoDB() // Khởi tạo kết nối database
}

// Hàm khởi tạo validator (dùng global.InitValidator để đăng ký custom validators: no_xss, exists)
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

// Hàm khởi tạo cấu hình server
func initConfig() {
	global.ServerConfig = config.NewConfig()
	if global.ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// Hàm khởi tạo kết nối database
func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	// Khởi tạo các db và collections nếu chưa có
	if err := database.EnsureDatabaseAndCollections(global.MongoDB_Session); err != nil {
		logrus.Fatalf("Failed to ensure database and collections: %v", err)
	}
	logrus.Info("Ensured database and collections")

	// Khởi tạo các index cho các collection
	dbName := global.ServerConfig.MongoDB_DBName
	db := global.MongoDB_Session.Database(dbName)
	if err := database.CreateIndexes(context.TODO(), db.Collection(global.ColNames.ContentDocuments), ideationmodels.ContentDocument{}); err != nil {
		logrus.Errorf("Failed to create indexes for %s: %v", global.ColNames.ContentDocuments, err)
	}
	if err := database.CreateIndexes(context.TODO(), db.Collection(global.ColNames.ContentIdeas), ideationmodels.ContentIdea{}); err != nil {
		logrus.Errorf("Failed to create indexes for %s: %v", global.ColNames.ContentIdeas, err)
	}
	if err := database.CreateIndexes(context.TODO(), db.Collection(global.ColNames.BusinessContexts), ideationmodels.BusinessContext{}); err != nil {
		logrus.Errorf("Failed to create indexes for %s: %v", global.ColNames.BusinessContexts, err)
	}
}
