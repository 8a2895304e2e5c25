package main

import (
	"content_pilot/internal/generation"
	ideationsvc "content_pilot/internal/api/ideation/service"
	"content_pilot/internal/global"
	"content_pilot/internal/logger"
)

// InitIdeationServices khởi tạo pipeline sinh ý tưởng và retention service,
// đăng ký retention hook vào event bus. Gọi sau khi registry collections sẵn sàng.
func InitIdeationServices() (*ideationsvc.IdeationPipeline, *ideationsvc.RetentionService) {
	log := logger.GetAppLogger()

	documentService, err := ideationsvc.NewContentDocumentService()
	if err != nil {
		log.Fatalf("Failed to create content document service: %v", err)
	}
	ideaService, err := ideationsvc.NewContentIdeaService()
	if err != nil {
		log.Fatalf("Failed to create content idea service: %v", err)
	}
	contextService, err := ideationsvc.NewBusinessContextService()
	if err != nil {
		log.Fatalf("Failed to create business context service: %v", err)
	}

	generationClient := generation.NewClient(global.ServerConfig)

	pipeline := ideationsvc.NewIdeationPipeline(documentService, ideaService, contextService, generationClient)

	retention := ideationsvc.NewRetentionService(ideaService, int64(global.ServerConfig.RejectedIdeaCap))

	// Retention hook: áp giới hạn rejected ideas ngay khi một ý tưởng bị reject
	ideationsvc.RegisterRetentionHook(retention)

	log.Info("💡 [IDEATION] Ideation services initialized")
	return pipeline, retention
}
