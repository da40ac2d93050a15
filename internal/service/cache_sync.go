package service

import (
	"context"
	"sync"
	"time"

	"github.com/SergeiKhy/url-shortener/internal/repository"
	"go.uber.org/zap"
)

// Константы worker pool
const (
	defaultWorkerCount   = 3
	defaultChannelBuffer = 1000
)

// CacheSyncProcessor асинхронно освежает кэшированные копии ссылок
// после резолвов, чтобы информационные эндпоинты видели актуальный
// счётчик кликов, не нагружая Postgres
type CacheSyncProcessor interface {
	Start()
	Stop()
	Enqueue(ctx context.Context, slug string)
}

// cacheSyncProcessor — реализация на worker pool с буферизованным каналом
type cacheSyncProcessor struct {
	linkRepo    repository.LinkRepository
	cacheRepo   repository.CacheRepository
	logger      *zap.Logger
	slugChannel chan string
	workerCount int
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewCacheSyncProcessor(
	linkRepo repository.LinkRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
) CacheSyncProcessor {
	return &cacheSyncProcessor{
		linkRepo:    linkRepo,
		cacheRepo:   cacheRepo,
		logger:      logger,
		slugChannel: make(chan string, defaultChannelBuffer),
		workerCount: defaultWorkerCount,
	}
}

// Start запускает воркеров
func (p *cacheSyncProcessor) Start() {
	p.ctx, p.cancel = context.WithCancel(context.Background())

	p.logger.Info("Запуск воркеров синхронизации кэша", zap.Int("count", p.workerCount))

	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// Stop корректно останавливает worker pool
func (p *cacheSyncProcessor) Stop() {
	p.logger.Info("Остановка синхронизации кэша...")
	p.cancel()
	p.wg.Wait()
	p.logger.Info("Синхронизация кэша остановлена")
}

func (p *cacheSyncProcessor) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("Воркер синхронизации кэша запущен", zap.Int("id", id))

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug("Воркер синхронизации кэша остановлен", zap.Int("id", id))
			return

		case slug, ok := <-p.slugChannel:
			if !ok {
				return
			}
			p.refresh(slug)
		}
	}
}

// refresh перечитывает ссылку из БД и обновляет её копию в кэше
func (p *cacheSyncProcessor) refresh(slug string) {
	ctx, cancel := context.WithTimeout(p.ctx, 5*time.Second)
	defer cancel()

	link, err := p.linkRepo.GetBySlug(ctx, slug)
	if err != nil {
		p.logger.Warn("Не удалось перечитать ссылку для кэша",
			zap.String("slug", slug),
			zap.Error(err),
		)
		return
	}

	if err := p.cacheRepo.Set(ctx, slug, link, cacheTTL); err != nil {
		p.logger.Warn("Не удалось обновить кэш ссылки",
			zap.String("slug", slug),
			zap.Error(err),
		)
	}
}

// Enqueue отправляет слаг в очередь обновления (неблокирующая операция).
// При заполненном буфере событие теряется — кэш догонит на следующем резолве.
func (p *cacheSyncProcessor) Enqueue(ctx context.Context, slug string) {
	select {
	case <-ctx.Done():
	case p.slugChannel <- slug:
	default:
		p.logger.Warn("Буфер синхронизации кэша заполнен, событие потеряно",
			zap.String("slug", slug),
		)
	}
}
