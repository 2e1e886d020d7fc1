package pg

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pubhub/internal/domain"
	"pubhub/internal/domain/publication"
)

type PublicationRepository struct {
	db *sql.DB
}

func NewPublicationRepository(db *sql.DB) *PublicationRepository {
	return &PublicationRepository{db: db}
}

const publicationColumns = `publication_id, author_id, name, synopsis, status, views,
       published_at, created_at, updated_at, deleted_at`

type scanner interface {
	Scan(dest ...any) error
}

func (r *PublicationRepository) Save(ctx context.Context, p *publication.Publication) error {
	if _, err := exec(ctx, r.db,
		`INSERT INTO publications (`+publicationColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (publication_id) DO UPDATE
		   SET name = EXCLUDED.name,
		       synopsis = EXCLUDED.synopsis,
		       status = EXCLUDED.status,
		       views = EXCLUDED.views,
		       published_at = EXCLUDED.published_at,
		       updated_at = EXCLUDED.updated_at,
		       deleted_at = EXCLUDED.deleted_at`,
		p.ID(), p.AuthorID, p.Name, p.Synopsis, string(p.Status), p.Views,
		nullTime(p.PublishedAt), p.CreatedAt(), nullTime(p.UpdatedAt()), nullTime(p.DeletedAt()),
	); err != nil {
		return err
	}

	if _, err := exec(ctx, r.db, `DELETE FROM publication_likes WHERE publication_id = $1`, p.ID()); err != nil {
		return err
	}
	for i, readerID := range p.Likes {
		if _, err := exec(ctx, r.db,
			`INSERT INTO publication_likes (publication_id, reader_id, position) VALUES ($1, $2, $3)`,
			p.ID(), readerID, i,
		); err != nil {
			return err
		}
	}

	// Reviews are append only.
	for _, rv := range p.Reviews {
		if _, err := exec(ctx, r.db,
			`INSERT INTO publication_reviews (publication_id, reader_id, stars, comment, created_at)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (publication_id, reader_id) DO NOTHING`,
			p.ID(), rv.ReaderID, rv.Stars, rv.Comment, rv.CreatedAt,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *PublicationRepository) GetByID(ctx context.Context, id string) (*publication.Publication, error) {
	p, err := scanPublication(queryRow(ctx, r.db,
		`SELECT `+publicationColumns+` FROM publications WHERE publication_id = $1`,
		id,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound("publication")
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadChildren(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PublicationRepository) ListByAuthor(ctx context.Context, authorID string, publishedOnly bool) ([]*publication.Publication, error) {
	rows, err := query(ctx, r.db,
		`SELECT `+publicationColumns+`
		   FROM publications
		  WHERE author_id = $1
		    AND deleted_at IS NULL
		    AND (NOT $2::boolean OR status = 'published')
		  ORDER BY created_at`,
		authorID, publishedOnly,
	)
	if err != nil {
		return nil, err
	}

	var res []*publication.Publication
	for rows.Next() {
		p, err := scanPublication(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		res = append(res, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for _, p := range res {
		if err := r.loadChildren(ctx, p); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func scanPublication(row scanner) (*publication.Publication, error) {
	var (
		p                                 publication.Publication
		id, status                        string
		createdAt                         time.Time
		publishedAt, updatedAt, deletedAt sql.NullTime
	)
	if err := row.Scan(
		&id, &p.AuthorID, &p.Name, &p.Synopsis, &status, &p.Views,
		&publishedAt, &createdAt, &updatedAt, &deletedAt,
	); err != nil {
		return nil, err
	}
	p.Status = publication.Status(status)
	p.PublishedAt = timePtr(publishedAt)
	p.AggregateRoot = domain.RestoreAggregateRoot(id, createdAt.UTC(), timePtr(updatedAt), timePtr(deletedAt))
	return &p, nil
}

func (r *PublicationRepository) loadChildren(ctx context.Context, p *publication.Publication) error {
	likes, err := query(ctx, r.db,
		`SELECT reader_id FROM publication_likes WHERE publication_id = $1 ORDER BY position`,
		p.ID(),
	)
	if err != nil {
		return err
	}
	defer likes.Close()
	for likes.Next() {
		var readerID string
		if err := likes.Scan(&readerID); err != nil {
			return err
		}
		p.Likes = append(p.Likes, readerID)
	}
	if err := likes.Err(); err != nil {
		return err
	}

	reviews, err := query(ctx, r.db,
		`SELECT reader_id, stars, comment, created_at
		   FROM publication_reviews
		  WHERE publication_id = $1
		  ORDER BY created_at`,
		p.ID(),
	)
	if err != nil {
		return err
	}
	defer reviews.Close()
	for reviews.Next() {
		var rv publication.Review
		if err := reviews.Scan(&rv.ReaderID, &rv.Stars, &rv.Comment, &rv.CreatedAt); err != nil {
			return err
		}
		rv.CreatedAt = rv.CreatedAt.UTC()
		p.Reviews = append(p.Reviews, rv)
	}
	return reviews.Err()
}
