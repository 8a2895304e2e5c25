// Package router đăng ký các route thuộc domain Ideation: Documents, Ideas, Business Context.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	ideationhdl "content_pilot/internal/api/ideation/handler"
	ideationsvc "content_pilot/internal/api/ideation/service"
	"content_pilot/internal/api/middleware"
	apirouter "content_pilot/internal/api/router"
)

// Register đăng ký tất cả route ideation lên v1.
func Register(pipeline *ideationsvc.IdeationPipeline) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		ownerMiddleware := middleware.OwnerContext()

		documentHandler, err := ideationhdl.NewContentDocumentHandler(pipeline)
		if err != nil {
			return fmt.Errorf("create content document handler: %w", err)
		}
		r.RegisterCRUDRoutes(v1, "/documents", documentHandler, apirouter.ReadWriteConfig)
		apirouter.RegisterRouteWithMiddleware(v1, "/documents", "POST", "/:id/generate-ideas", []fiber.Handler{ownerMiddleware}, documentHandler.GenerateIdeas)
		apirouter.RegisterRouteWithMiddleware(v1, "/documents", "GET", "/:id/ideation-status", []fiber.Handler{ownerMiddleware}, documentHandler.GetIdeationStatus)

		ideaHandler, err := ideationhdl.NewContentIdeaHandler()
		if err != nil {
			return fmt.Errorf("create content idea handler: %w", err)
		}
		r.RegisterCRUDRoutes(v1, "/ideas", ideaHandler, apirouter.ReadWriteConfig)
		apirouter.RegisterRouteWithMiddleware(v1, "/ideas", "POST", "/:id/reject", []fiber.Handler{ownerMiddleware}, ideaHandler.Reject)

		contextHandler, err := ideationhdl.NewBusinessContextHandler()
		if err != nil {
			return fmt.Errorf("create business context handler: %w", err)
		}
		apirouter.RegisterRouteWithMiddleware(v1, "/business-context", "GET", "/", []fiber.Handler{ownerMiddleware}, contextHandler.Get)
		apirouter.RegisterRouteWithMiddleware(v1, "/business-context", "PUT", "/", []fiber.Handler{ownerMiddleware}, contextHandler.Upsert)

		return nil
	}
}
