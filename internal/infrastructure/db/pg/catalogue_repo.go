package pg

import (
	"context"
	"database/sql"
	"errors"

	"pubhub/internal/domain/catalogue"
)

type CatalogueRepository struct {
	db *sql.DB
}

func NewCatalogueRepository(db *sql.DB) *CatalogueRepository {
	return &CatalogueRepository{db: db}
}

func (r *CatalogueRepository) SaveAuthor(ctx context.Context, a catalogue.Author) error {
	_, err := exec(ctx, r.db,
		`INSERT INTO catalogue_authors (author_id, username, display_name, followers, publications, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (author_id) DO UPDATE
		   SET username = EXCLUDED.username,
		       display_name = EXCLUDED.display_name,
		       followers = EXCLUDED.followers,
		       publications = EXCLUDED.publications,
		       updated_at = EXCLUDED.updated_at`,
		a.ID, a.Username, a.DisplayName, a.Followers, a.Publications, a.UpdatedAt,
	)
	return err
}

func (r *CatalogueRepository) DeleteAuthor(ctx context.Context, id string) error {
	_, err := exec(ctx, r.db, `DELETE FROM catalogue_authors WHERE author_id = $1`, id)
	return err
}

func (r *CatalogueRepository) GetAuthor(ctx context.Context, id string) (catalogue.Author, error) {
	var a catalogue.Author
	err := queryRow(ctx, r.db,
		`SELECT author_id, username, display_name, followers, publications, updated_at
		   FROM catalogue_authors
		  WHERE author_id = $1`,
		id,
	).Scan(&a.ID, &a.Username, &a.DisplayName, &a.Followers, &a.Publications, &a.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return catalogue.Author{}, notFound("author")
	}
	return a, err
}

func (r *CatalogueRepository) SaveEntry(ctx context.Context, e catalogue.Entry) error {
	_, err := exec(ctx, r.db,
		`INSERT INTO catalogue_entries
		        (publication_id, author_id, name, synopsis, likes, views, reviews, rating, published_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (publication_id) DO UPDATE
		   SET name = EXCLUDED.name,
		       synopsis = EXCLUDED.synopsis,
		       likes = EXCLUDED.likes,
		       views = EXCLUDED.views,
		       reviews = EXCLUDED.reviews,
		       rating = EXCLUDED.rating,
		       published_at = EXCLUDED.published_at`,
		e.PublicationID, e.AuthorID, e.Name, e.Synopsis, e.Likes, e.Views, e.Reviews, e.Rating, e.PublishedAt,
	)
	return err
}

func (r *CatalogueRepository) DeleteEntry(ctx context.Context, publicationID string) error {
	_, err := exec(ctx, r.db, `DELETE FROM catalogue_entries WHERE publication_id = $1`, publicationID)
	return err
}

const entryColumns = `publication_id, author_id, name, synopsis, likes, views, reviews, rating, published_at`

func (r *CatalogueRepository) GetEntry(ctx context.Context, publicationID string) (catalogue.Entry, error) {
	e, err := scanEntry(queryRow(ctx, r.db,
		`SELECT `+entryColumns+` FROM catalogue_entries WHERE publication_id = $1`,
		publicationID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return catalogue.Entry{}, notFound("entry")
	}
	return e, err
}

func (r *CatalogueRepository) ListEntries(ctx context.Context, authorID string) ([]catalogue.Entry, error) {
	rows, err := query(ctx, r.db,
		`SELECT `+entryColumns+`
		   FROM catalogue_entries
		  WHERE ($1::text = '' OR author_id = $1)
		  ORDER BY published_at DESC`,
		authorID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []catalogue.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	return res, rows.Err()
}

func scanEntry(row scanner) (catalogue.Entry, error) {
	var e catalogue.Entry
	err := row.Scan(&e.PublicationID, &e.AuthorID, &e.Name, &e.Synopsis,
		&e.Likes, &e.Views, &e.Reviews, &e.Rating, &e.PublishedAt)
	e.PublishedAt = e.PublishedAt.UTC()
	return e, err
}
