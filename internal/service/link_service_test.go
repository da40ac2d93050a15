package service_test

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/SergeiKhy/url-shortener/internal/models"
	"github.com/SergeiKhy/url-shortener/internal/repository"
	"github.com/SergeiKhy/url-shortener/internal/service"
	"github.com/SergeiKhy/url-shortener/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubSlugGenerator выдаёт заранее заданную последовательность слагов
type stubSlugGenerator struct {
	mu    sync.Mutex
	slugs []string
}

func (s *stubSlugGenerator) Generate() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slug := s.slugs[0]
	if len(s.slugs) > 1 {
		s.slugs = s.slugs[1:]
	}
	return slug, nil
}

// setupTestService создаёт тестовое окружение с моковыми репозиториями
func setupTestService() (service.LinkService, *mocks.MockLinkRepository, *mocks.MockCacheRepository) {
	linkRepo := mocks.NewMockLinkRepository()
	cacheRepo := mocks.NewMockCacheRepository()
	logger := zap.NewNop()
	linkService := service.NewLinkService(linkRepo, cacheRepo, service.NewSlugGenerator(), nil, logger)
	return linkService, linkRepo, cacheRepo
}

func strPtr(s string) *string {
	return &s
}

// TestLinkService_CreateLink_Success проверяет успешное создание ссылки
func TestLinkService_CreateLink_Success(t *testing.T) {
	linkService, _, _ := setupTestService()

	input := &models.CreateLinkInput{
		Destination: "https://example.com/test",
	}

	ctx := context.Background()
	link, err := linkService.CreateLink(ctx, 1, input)

	require.NoError(t, err)
	assert.Len(t, link.Slug, 7)
	assert.Equal(t, input.Destination, link.Destination)
	assert.Equal(t, int64(1), link.OwnerID)
	assert.Equal(t, int64(0), link.Clicks)
}

// TestLinkService_CreateLink_WithCustomSlug проверяет создание с пользовательским слагом
func TestLinkService_CreateLink_WithCustomSlug(t *testing.T) {
	linkService, _, _ := setupTestService()

	input := &models.CreateLinkInput{
		Destination: "https://example.com/test",
		CustomSlug:  strPtr("my-slug"),
	}

	ctx := context.Background()
	link, err := linkService.CreateLink(ctx, 1, input)

	require.NoError(t, err)
	assert.Equal(t, "my-slug", link.Slug)
}

// TestLinkService_CreateLink_EmptyDestination проверяет отклонение пустого адреса
func TestLinkService_CreateLink_EmptyDestination(t *testing.T) {
	linkService, _, _ := setupTestService()

	input := &models.CreateLinkInput{
		Destination: "",
	}

	ctx := context.Background()
	link, err := linkService.CreateLink(ctx, 1, input)

	assert.ErrorIs(t, err, service.ErrEmptyDestination)
	assert.Nil(t, link)
}

// TestLinkService_CreateLink_InvalidCustomSlug проверяет валидацию формы слага
func TestLinkService_CreateLink_InvalidCustomSlug(t *testing.T) {
	linkService, _, _ := setupTestService()

	invalidSlugs := []string{"bad slug", "bad/slug", "bad@slug", "слаг"}

	for _, slug := range invalidSlugs {
		input := &models.CreateLinkInput{
			Destination: "https://example.com/test",
			CustomSlug:  strPtr(slug),
		}

		ctx := context.Background()
		link, err := linkService.CreateLink(ctx, 1, input)

		assert.ErrorIs(t, err, service.ErrInvalidSlug, "slug %q", slug)
		assert.Nil(t, link)
	}
}

// TestLinkService_CreateLink_CustomSlugConflict проверяет, что конфликт
// пользовательского слага отдаётся наружу без повторных попыток
func TestLinkService_CreateLink_CustomSlugConflict(t *testing.T) {
	linkService, _, _ := setupTestService()
	ctx := context.Background()

	first := &models.CreateLinkInput{
		Destination: "https://example.com/first",
		CustomSlug:  strPtr("abc123"),
	}
	_, err := linkService.CreateLink(ctx, 1, first)
	require.NoError(t, err)

	// Тот же слаг от другого владельца
	second := &models.CreateLinkInput{
		Destination: "https://example.com/second",
		CustomSlug:  strPtr("abc123"),
	}
	link, err := linkService.CreateLink(ctx, 2, second)

	assert.ErrorIs(t, err, service.ErrSlugConflict)
	assert.Nil(t, link)
}

// TestLinkService_CreateLink_RetryOnGeneratedCollision проверяет повторную
// генерацию при коллизии сгенерированного слага
func TestLinkService_CreateLink_RetryOnGeneratedCollision(t *testing.T) {
	linkRepo := mocks.NewMockLinkRepository()
	cacheRepo := mocks.NewMockCacheRepository()
	gen := &stubSlugGenerator{slugs: []string{"taken12", "free123"}}
	linkService := service.NewLinkService(linkRepo, cacheRepo, gen, nil, zap.NewNop())

	ctx := context.Background()

	// Занимаем слаг, который генератор выдаст первым
	_, err := linkService.CreateLink(ctx, 1, &models.CreateLinkInput{
		Destination: "https://example.com/existing",
		CustomSlug:  strPtr("taken12"),
	})
	require.NoError(t, err)

	link, err := linkService.CreateLink(ctx, 1, &models.CreateLinkInput{
		Destination: "https://example.com/new",
	})

	require.NoError(t, err)
	assert.Equal(t, "free123", link.Slug)
}

// TestLinkService_CreateLink_RetriesExhausted проверяет ограниченность повторов
func TestLinkService_CreateLink_RetriesExhausted(t *testing.T) {
	linkRepo := mocks.NewMockLinkRepository()
	cacheRepo := mocks.NewMockCacheRepository()
	gen := &stubSlugGenerator{slugs: []string{"taken12"}} // всегда один и тот же
	linkService := service.NewLinkService(linkRepo, cacheRepo, gen, nil, zap.NewNop())

	ctx := context.Background()

	_, err := linkService.CreateLink(ctx, 1, &models.CreateLinkInput{
		Destination: "https://example.com/existing",
		CustomSlug:  strPtr("taken12"),
	})
	require.NoError(t, err)

	link, err := linkService.CreateLink(ctx, 1, &models.CreateLinkInput{
		Destination: "https://example.com/new",
	})

	assert.ErrorIs(t, err, service.ErrSlugConflict)
	assert.Nil(t, link)
}

// TestLinkService_CreateLink_ConcurrentSameSlug: из двух конкурентных созданий
// с одним слагом ровно одно успешно
func TestLinkService_ConcurrentCreate_SameSlug(t *testing.T) {
	linkService, _, _ := setupTestService()
	ctx := context.Background()

	const workers = 2
	errs := make(chan error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(owner int64) {
			defer wg.Done()
			_, err := linkService.CreateLink(ctx, owner, &models.CreateLinkInput{
				Destination: "https://example.com/race",
				CustomSlug:  strPtr("race123"),
			})
			errs <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(errs)

	var successes, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		default:
			assert.ErrorIs(t, err, service.ErrSlugConflict)
			conflicts++
		}
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)
}

// TestLinkService_Resolve_IncrementsClicks проверяет подсчёт кликов при резолве
func TestLinkService_Resolve_IncrementsClicks(t *testing.T) {
	linkService, linkRepo, _ := setupTestService()
	ctx := context.Background()

	link, err := linkService.CreateLink(ctx, 1, &models.CreateLinkInput{
		Destination: "https://example.com/target",
		CustomSlug:  strPtr("clicky1"),
	})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		destination, err := linkService.Resolve(ctx, link.Slug)
		require.NoError(t, err)
		assert.Equal(t, "https://example.com/target", destination)
	}

	stored, err := linkRepo.GetBySlug(ctx, link.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stored.Clicks)
}

// TestLinkService_Resolve_Concurrent: N конкурентных резолвов дают ровно N кликов
func TestLinkService_Resolve_Concurrent(t *testing.T) {
	linkService, linkRepo, _ := setupTestService()
	ctx := context.Background()

	link, err := linkService.CreateLink(ctx, 1, &models.CreateLinkInput{
		Destination: "https://example.com/target",
		CustomSlug:  strPtr("hotslug"),
	})
	require.NoError(t, err)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			destination, err := linkService.Resolve(ctx, link.Slug)
			assert.NoError(t, err)
			assert.Equal(t, "https://example.com/target", destination)
		}()
	}
	wg.Wait()

	stored, err := linkRepo.GetBySlug(ctx, link.Slug)
	require.NoError(t, err)
	assert.Equal(t, int64(n), stored.Clicks)
}

// TestLinkService_Resolve_NotFound проверяет, что неизвестный слаг
// не оставляет следов
func TestLinkService_Resolve_NotFound(t *testing.T) {
	linkService, linkRepo, _ := setupTestService()
	ctx := context.Background()

	destination, err := linkService.Resolve(ctx, "nonexistent")

	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
	assert.Empty(t, destination)

	_, err = linkRepo.GetBySlug(ctx, "nonexistent")
	assert.ErrorIs(t, err, repository.ErrLinkNotFound)
}

// TestLinkService_ListForOwner проверяет выборку ссылок владельца
func TestLinkService_ListForOwner(t *testing.T) {
	linkService, _, _ := setupTestService()
	ctx := context.Background()

	for _, slug := range []string{"alice01", "alice02"} {
		_, err := linkService.CreateLink(ctx, 1, &models.CreateLinkInput{
			Destination: "https://example.com/" + slug,
			CustomSlug:  strPtr(slug),
		})
		require.NoError(t, err)
	}
	_, err := linkService.CreateLink(ctx, 2, &models.CreateLinkInput{
		Destination: "https://example.com/bob",
		CustomSlug:  strPtr("bob0001"),
	})
	require.NoError(t, err)

	links, err := linkService.ListForOwner(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, links, 2)
	for _, link := range links {
		assert.Equal(t, int64(1), link.OwnerID)
	}
}

// TestLinkService_GetLink_FromCache проверяет, что созданная ссылка попадает в кэш
func TestLinkService_GetLink_FromCache(t *testing.T) {
	linkService, _, cacheRepo := setupTestService()
	ctx := context.Background()

	created, err := linkService.CreateLink(ctx, 1, &models.CreateLinkInput{
		Destination: "https://example.com/cached",
	})
	require.NoError(t, err)

	cached, err := cacheRepo.Get(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.Slug, cached.Slug)

	retrieved, err := linkService.GetLink(ctx, created.Slug)
	require.NoError(t, err)
	assert.Equal(t, created.Destination, retrieved.Destination)
}
