package audit

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	enabled bool
}

// NewFeature creates the audit feature. It is disabled without a remote.
func NewFeature(translations TranslationSource, catalog CatalogSource, remote RemoteTree, logger *zap.Logger, opts ...Option) *Feature {
	svc := NewService(translations, catalog, remote, logger, opts...)
	return &Feature{service: svc, handler: NewHandler(svc), enabled: remote != nil}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "audit"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service exposes the audit service to the CLI.
func (f *Feature) Service() *Service {
	return f.service
}
