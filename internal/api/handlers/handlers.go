package handlers

import (
	"mamoritalk-ai/internal/config"
	"mamoritalk-ai/internal/domain/services"
	"mamoritalk-ai/internal/infrastructure/cache"
	"mamoritalk-ai/internal/infrastructure/database"
	"mamoritalk-ai/internal/infrastructure/database/repository"
	"mamoritalk-ai/internal/streaming"
	"mamoritalk-ai/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health       *HealthHandler
	Conversation *ConversationHandler
	DarkJob      *DarkJobHandler
	Metadata     *MetadataHandler
	Summary      *SummaryHandler
	Advice       *AdviceHandler
	Patterns     *PatternsHandler
	Alerts       *AlertsHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Config       config.Config
	ScamAnalyzer *services.ScamAnalyzer
	DarkJob      *services.DarkJobChecker
	Metadata     *services.MetadataAnalyzer
	Summarizer   *services.Summarizer
	Advice       *services.AdviceGenerator
	Cache        *cache.RedisCache
	Database     *database.PostgresDB
	Statistics   *repository.StatisticsRepository
	EventBus     *streaming.EventBus
	Hub          *streaming.WebSocketHub
	Logger       *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(deps.Config, deps.Cache, deps.Database, deps.Logger),
		Conversation: NewConversationHandler(deps.ScamAnalyzer, deps.Cache, deps.Statistics, deps.EventBus, deps.Hub, deps.Config.Analysis, deps.Logger),
		DarkJob:      NewDarkJobHandler(deps.DarkJob, deps.Cache, deps.EventBus, deps.Hub, deps.Config.Analysis, deps.Logger),
		Metadata:     NewMetadataHandler(deps.Metadata, deps.Cache, deps.Statistics, deps.EventBus, deps.Hub, deps.Config.Analysis, deps.Logger),
		Summary:      NewSummaryHandler(deps.Summarizer, deps.Logger),
		Advice:       NewAdviceHandler(deps.Advice, deps.Statistics, deps.Cache, deps.Logger),
		Patterns:     NewPatternsHandler(deps.Logger),
		Alerts:       NewAlertsHandler(deps.Hub, deps.EventBus, deps.Logger),
	}
}
