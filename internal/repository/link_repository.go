package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeiKhy/url-shortener/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrLinkNotFound = errors.New("link not found")
	ErrSlugExists   = errors.New("slug already exists")
)

type LinkRepository interface {
	Create(ctx context.Context, link *models.Link) error
	GetBySlug(ctx context.Context, slug string) (*models.Link, error)
	ResolveAndCount(ctx context.Context, slug string) (*models.Link, error)
	FindByOwner(ctx context.Context, ownerID int64) ([]models.Link, error)
}

type linkRepository struct {
	db *PostgresDB
}

func NewLinkRepository(db *PostgresDB) LinkRepository {
	return &linkRepository{db: db}
}

func (r *linkRepository) Create(ctx context.Context, link *models.Link) error {
	query := `
		INSERT INTO links (slug, destination, owner_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.Pool.QueryRow(
		ctx,
		query,
		link.Slug,
		link.Destination,
		link.OwnerID,
		link.CreatedAt,
	).Scan(&link.ID, &link.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrSlugExists
		}
		return fmt.Errorf("failed to create link: %w", err)
	}

	return nil
}

func (r *linkRepository) GetBySlug(ctx context.Context, slug string) (*models.Link, error) {
	query := `
		SELECT id, slug, destination, owner_id, clicks, created_at
		FROM links
		WHERE slug = $1
	`

	link := &models.Link{}
	err := r.db.Pool.QueryRow(ctx, query, slug).Scan(
		&link.ID,
		&link.Slug,
		&link.Destination,
		&link.OwnerID,
		&link.Clicks,
		&link.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	return link, nil
}

// ResolveAndCount атомарно увеличивает счётчик кликов и возвращает ссылку.
// Чтение и инкремент происходят одним UPDATE, гонок read-modify-write нет.
func (r *linkRepository) ResolveAndCount(ctx context.Context, slug string) (*models.Link, error) {
	query := `
		UPDATE links
		SET clicks = clicks + 1
		WHERE slug = $1
		RETURNING id, slug, destination, owner_id, clicks, created_at
	`

	link := &models.Link{}
	err := r.db.Pool.QueryRow(ctx, query, slug).Scan(
		&link.ID,
		&link.Slug,
		&link.Destination,
		&link.OwnerID,
		&link.Clicks,
		&link.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("failed to resolve link: %w", err)
	}

	return link, nil
}

func (r *linkRepository) FindByOwner(ctx context.Context, ownerID int64) ([]models.Link, error) {
	query := `
		SELECT id, slug, destination, owner_id, clicks, created_at
		FROM links
		WHERE owner_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []models.Link
	for rows.Next() {
		var link models.Link
		if err := rows.Scan(
			&link.ID,
			&link.Slug,
			&link.Destination,
			&link.OwnerID,
			&link.Clicks,
			&link.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		links = append(links, link)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating links: %w", err)
	}

	return links, nil
}

// Проверка на нарушение уникального индекса (код 23505)
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
