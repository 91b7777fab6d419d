package planner

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"example.com/ai-travel-planner/internal/ai"
	"example.com/ai-travel-planner/internal/images"
	"example.com/ai-travel-planner/internal/models"
	"example.com/ai-travel-planner/internal/repository"
)

type Generator interface {
	GenerateItinerary(ctx context.Context, input ai.ItineraryInput) (ai.ItineraryResponse, string, []byte, error)
}

type RequestLogger interface {
	LogRequest(ctx context.Context, log repository.AIRequestLog) error
}

type Request struct {
	From  string
	To    string
	Days  int
	Owner string
}

// Service собирает маршрут: изображения, затем ответ модели.
type Service struct {
	generator Generator
	images    images.Searcher
	requests  RequestLogger
	logger    *slog.Logger
	provider  string
	model     string
}

// NewService создает сервис планирования поездок.
func NewService(generator Generator, searcher images.Searcher, requests RequestLogger, logger *slog.Logger, provider, model string) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		generator: generator,
		images:    searcher,
		requests:  requests,
		logger:    logger,
		provider:  provider,
		model:     model,
	}
}

// Generate запрашивает изображения и маршрут. Ошибки поиска изображений не
// прерывают генерацию; ошибка модели возвращается как ai.ErrGeneration.
func (s *Service) Generate(ctx context.Context, req Request) (models.PlanResult, error) {
	pictures := s.fetchImages(ctx, req.To)

	response, prompt, raw, err := s.generator.GenerateItinerary(ctx, ai.ItineraryInput{
		From: req.From,
		To:   req.To,
		Days: req.Days,
	})
	s.logRequest(ctx, req, prompt, raw, err)
	if err != nil {
		s.logger.Error("itinerary generation failed",
			slog.String("from", req.From),
			slog.String("to", req.To),
			slog.String("error", err.Error()),
		)
		if !errors.Is(err, ai.ErrGeneration) {
			return models.PlanResult{}, errors.Join(ai.ErrGeneration, err)
		}
		return models.PlanResult{}, err
	}

	s.logger.Info("itinerary generated", slog.String("to", req.To), slog.Int("images", len(pictures)))

	return models.PlanResult{
		Plan:         response.ItineraryText,
		LocationInfo: response.LocationInfo,
		Images:       pictures,
	}, nil
}

func (s *Service) fetchImages(ctx context.Context, query string) []string {
	if s.images == nil || strings.TrimSpace(query) == "" {
		return []string{}
	}

	urls, err := s.images.Search(ctx, query)
	if err != nil {
		if errors.Is(err, images.ErrNotConfigured) {
			s.logger.Debug("image search skipped", slog.String("to", query))
		} else {
			s.logger.Warn("image fetch failed", slog.String("to", query), slog.String("error", err.Error()))
		}
		return []string{}
	}

	return models.NormalizeImages(urls)
}

func (s *Service) logRequest(ctx context.Context, req Request, prompt string, raw []byte, genErr error) {
	if s.requests == nil {
		return
	}

	entry := repository.AIRequestLog{
		Owner:       req.Owner,
		Destination: req.To,
		Origin:      req.From,
		Days:        req.Days,
		Provider:    s.provider,
		Model:       s.model,
		Prompt:      prompt,
		RawResponse: raw,
		Success:     genErr == nil,
	}
	if genErr != nil {
		message := genErr.Error()
		entry.ErrorMessage = &message
	}

	if err := s.requests.LogRequest(ctx, entry); err != nil {
		s.logger.Warn("ai request log failed", slog.String("error", err.Error()))
	}
}
