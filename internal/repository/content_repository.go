package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/FranBistrovic/QuantumHotel/internal/model"
)

// ContentRepo serves the editorial surface of the site: articles and
// FAQ entries.  Both are small tables managed by staff and read by the
// public pages.
type ContentRepo struct {
	db *sql.DB
}

// NewContentRepo returns a ContentRepo bound to the given database.
func NewContentRepo(db *sql.DB) *ContentRepo { return &ContentRepo{db: db} }

// CreateArticle inserts an article and reads back its timestamps.
func (r *ContentRepo) CreateArticle(ctx context.Context, a *model.Article) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO articles (title, body, author_id) VALUES (?, ?, ?)`,
		a.Title, a.Body, a.AuthorID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT created_at, updated_at FROM articles WHERE id = ?`, a.ID).
		Scan(&a.CreatedAt, &a.UpdatedAt)
}

// GetArticle returns one article or ErrArticleNotFound.
func (r *ContentRepo) GetArticle(ctx context.Context, id uint64) (*model.Article, error) {
	var a model.Article
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, body, author_id, created_at, updated_at FROM articles WHERE id = ?`, id).
		Scan(&a.ID, &a.Title, &a.Body, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &a, nil
}

// ListArticles returns all articles, newest first.
func (r *ContentRepo) ListArticles(ctx context.Context) ([]model.Article, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, body, author_id, created_at, updated_at FROM articles ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Article, 0)
	for rows.Next() {
		var a model.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Body, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// UpdateArticle rewrites title and body.
func (r *ContentRepo) UpdateArticle(ctx context.Context, a *model.Article) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE articles SET title = ?, body = ? WHERE id = ?`, a.Title, a.Body, a.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetArticle(ctx, a.ID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteArticle removes an article.
func (r *ContentRepo) DeleteArticle(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrArticleNotFound
	}
	return nil
}

// CreateFaq inserts a FAQ entry.
func (r *ContentRepo) CreateFaq(ctx context.Context, f *model.Faq) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO faq_entries (question, answer, position) VALUES (?, ?, ?)`,
		f.Question, f.Answer, f.Position)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// ListFaq returns all FAQ entries in display order.
func (r *ContentRepo) ListFaq(ctx context.Context) ([]model.Faq, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, question, answer, position FROM faq_entries ORDER BY position, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Faq, 0)
	for rows.Next() {
		var f model.Faq
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &f.Position); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// UpdateFaq rewrites a FAQ entry.
func (r *ContentRepo) UpdateFaq(ctx context.Context, f *model.Faq) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE faq_entries SET question = ?, answer = ?, position = ? WHERE id = ?`,
		f.Question, f.Answer, f.Position, f.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM faq_entries WHERE id = ?)`, f.ID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return ErrFaqNotFound
		}
	}
	return nil
}

// DeleteFaq removes a FAQ entry.
func (r *ContentRepo) DeleteFaq(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM faq_entries WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFaqNotFound
	}
	return nil
}
