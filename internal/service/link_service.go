package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SergeiKhy/url-shortener/internal/models"
	"github.com/SergeiKhy/url-shortener/internal/repository"
	"go.uber.org/zap"
)

// Ошибки сервиса ссылок
var (
	ErrEmptyDestination = errors.New("destination is empty")
	ErrInvalidSlug      = errors.New("invalid custom slug")
	ErrSlugConflict     = errors.New("slug already taken")
)

const (
	cacheTTL = 24 * time.Hour
	// Лимит повторных генераций при коллизии сгенерированного слага.
	// Пользовательский слаг не перегенерируется — конфликт отдаётся наружу.
	maxSlugRetries = 5
)

// LinkService — жизненный цикл коротких ссылок: выпуск слага,
// привязка владельца, резолв с подсчётом кликов
type LinkService interface {
	CreateLink(ctx context.Context, ownerID int64, input *models.CreateLinkInput) (*models.Link, error)
	Resolve(ctx context.Context, slug string) (string, error)
	GetLink(ctx context.Context, slug string) (*models.Link, error)
	ListForOwner(ctx context.Context, ownerID int64) ([]models.Link, error)
}

type linkService struct {
	linkRepo  repository.LinkRepository
	cacheRepo repository.CacheRepository
	slugGen   SlugGenerator
	cacheSync CacheSyncProcessor
	logger    *zap.Logger
}

func NewLinkService(
	linkRepo repository.LinkRepository,
	cacheRepo repository.CacheRepository,
	slugGen SlugGenerator,
	cacheSync CacheSyncProcessor,
	logger *zap.Logger,
) LinkService {
	return &linkService{
		linkRepo:  linkRepo,
		cacheRepo: cacheRepo,
		slugGen:   slugGen,
		cacheSync: cacheSync,
		logger:    logger,
	}
}

// CreateLink создаёт короткую ссылку для владельца.
// Уникальность слага обеспечивает индекс в БД, не блокировки в приложении.
func (s *linkService) CreateLink(ctx context.Context, ownerID int64, input *models.CreateLinkInput) (*models.Link, error) {
	if input.Destination == "" {
		return nil, ErrEmptyDestination
	}

	// Пользовательский слаг: одна попытка, конфликт отдаётся вызывающему
	if input.CustomSlug != nil && *input.CustomSlug != "" {
		if !ValidCustomSlug(*input.CustomSlug) {
			return nil, ErrInvalidSlug
		}
		return s.create(ctx, ownerID, *input.CustomSlug, input.Destination)
	}

	// Сгенерированный слаг: ограниченное число повторов при коллизии
	var lastErr error
	for attempt := 0; attempt < maxSlugRetries; attempt++ {
		slug, err := s.slugGen.Generate()
		if err != nil {
			return nil, err
		}

		link, err := s.create(ctx, ownerID, slug, input.Destination)
		if err == nil {
			return link, nil
		}
		if !errors.Is(err, ErrSlugConflict) {
			return nil, err
		}

		s.logger.Warn("Коллизия сгенерированного слага, повтор",
			zap.String("slug", slug),
			zap.Int("attempt", attempt+1),
		)
		lastErr = err
	}

	return nil, fmt.Errorf("slug generation exhausted after %d attempts: %w", maxSlugRetries, lastErr)
}

func (s *linkService) create(ctx context.Context, ownerID int64, slug, destination string) (*models.Link, error) {
	link := &models.Link{
		Slug:        slug,
		Destination: destination,
		OwnerID:     ownerID,
		Clicks:      0,
		CreatedAt:   time.Now(),
	}

	if err := s.linkRepo.Create(ctx, link); err != nil {
		if errors.Is(err, repository.ErrSlugExists) {
			return nil, ErrSlugConflict
		}
		return nil, err
	}

	// Прогрев кэша best-effort, ошибка не прерывает создание
	if err := s.cacheRepo.Set(ctx, link.Slug, link, cacheTTL); err != nil {
		s.logger.Debug("Не удалось закэшировать ссылку", zap.Error(err))
	}

	return link, nil
}

// Resolve возвращает адрес назначения и атомарно увеличивает счётчик кликов.
// Кэш здесь не участвует: чтение и инкремент должны наблюдаться вместе.
func (s *linkService) Resolve(ctx context.Context, slug string) (string, error) {
	link, err := s.linkRepo.ResolveAndCount(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return "", repository.ErrLinkNotFound
		}
		return "", fmt.Errorf("failed to resolve slug: %w", err)
	}

	// Обновление кэшированной копии — асинхронно, мимо горячего пути
	if s.cacheSync != nil {
		s.cacheSync.Enqueue(ctx, slug)
	}

	return link.Destination, nil
}

// GetLink отдаёт ссылку для информационных эндпоинтов (сначала кэш, затем БД)
func (s *linkService) GetLink(ctx context.Context, slug string) (*models.Link, error) {
	link, err := s.cacheRepo.Get(ctx, slug)
	if err == nil {
		return link, nil
	}

	link, err = s.linkRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.cacheRepo.Set(ctx, slug, link, cacheTTL); err != nil {
		s.logger.Debug("Не удалось закэшировать ссылку", zap.Error(err))
	}

	return link, nil
}

func (s *linkService) ListForOwner(ctx context.Context, ownerID int64) ([]models.Link, error) {
	return s.linkRepo.FindByOwner(ctx, ownerID)
}
