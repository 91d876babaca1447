package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/RuumaLilja/tech-collector-mcp/app/article"
)

var _ ArticleRepository = (*SQLiteRepository)(nil)

// SQLiteRepository implements the storage port on the SQLite record
// store. Column names are resolved once at construction through the
// field mapping rules, so the repository works unchanged against schema
// generations with legacy column spellings.
type SQLiteRepository struct {
	db     *DB
	fields FieldMap
}

func NewArticleRepository(db *DB) (*SQLiteRepository, error) {
	columns, err := db.TableColumns("articles")
	if err != nil {
		return nil, err
	}

	fields, err := ResolveFieldMap(columns, defaultFieldRules)
	if err != nil {
		return nil, fmt.Errorf("articles table schema mismatch: %w", err)
	}

	return &SQLiteRepository{db: db, fields: fields}, nil
}

func (r *SQLiteRepository) FindByIdentity(ctx context.Context, url, fingerprint string) (*article.Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM articles WHERE %s = ? OR %s = ? LIMIT 1`,
		r.selectColumns(), r.fields.Col(FieldFingerprint), r.fields.Col(FieldURL))

	row := r.db.QueryRowContext(ctx, query, fingerprint, url)

	a, err := r.scanArticle(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find article: %w", err)
	}

	return a, nil
}

func (r *SQLiteRepository) Upsert(ctx context.Context, a article.Article) (UpsertResult, error) {
	existing, err := r.FindByIdentity(ctx, a.URL, a.Fingerprint)
	if err != nil {
		return UpsertResult{}, err
	}

	tags, err := json.Marshal(a.Tags)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("failed to encode tags: %w", err)
	}

	if existing != nil {
		query := fmt.Sprintf(`
			UPDATE articles SET %s = ?, %s = ?, %s = ?, %s = ?, %s = ?, updated_at = ?
			WHERE %s = ?`,
			r.fields.Col(FieldTitle), r.fields.Col(FieldTags), r.fields.Col(FieldSource),
			r.fields.Col(FieldAuthor), r.fields.Col(FieldCollectedAt),
			r.fields.Col(FieldFingerprint))

		_, err = r.db.ExecContext(ctx, query,
			a.Title, string(tags), a.Source, a.Author, formatTime(&a.CollectedAt),
			formatTime(now()), existing.Fingerprint)
		if err != nil {
			return UpsertResult{}, fmt.Errorf("failed to update article: %w", err)
		}

		return UpsertResult{Updated: true}, nil
	}

	query := fmt.Sprintf(`
		INSERT INTO articles (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.fields.Col(FieldFingerprint), r.fields.Col(FieldURL), r.fields.Col(FieldTitle),
		r.fields.Col(FieldTags), r.fields.Col(FieldSource), r.fields.Col(FieldAuthor),
		r.fields.Col(FieldStatus), r.fields.Col(FieldPublishedAt), r.fields.Col(FieldCollectedAt))

	status := a.Status
	if status == "" {
		status = article.StatusUnread
	}

	_, err = r.db.ExecContext(ctx, query,
		a.Fingerprint, a.URL, a.Title, string(tags), a.Source, a.Author,
		status, formatTime(a.PublishedAt), formatTime(&a.CollectedAt))
	if err != nil {
		return UpsertResult{}, fmt.Errorf("failed to insert article: %w", err)
	}

	return UpsertResult{Created: true}, nil
}

func (r *SQLiteRepository) ListHistory(ctx context.Context, status string, limit int) ([]article.Article, error) {
	query := fmt.Sprintf(`SELECT %s FROM articles`, r.selectColumns())
	args := []interface{}{}

	if status != "" {
		query += fmt.Sprintf(" WHERE %s = ?", r.fields.Col(FieldStatus))
		args = append(args, status)
	}

	query += fmt.Sprintf(" ORDER BY %s DESC LIMIT ?", r.fields.Col(FieldCollectedAt))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}
	defer rows.Close()

	var articles []article.Article
	for rows.Next() {
		a, err := r.scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, *a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating article rows: %w", err)
	}

	return articles, nil
}

func (r *SQLiteRepository) TopTags(ctx context.Context, limit int) ([]TagCount, error) {
	query := fmt.Sprintf(`
		SELECT je.value, COUNT(*) AS cnt
		FROM articles, json_each(articles.%s) AS je
		GROUP BY je.value
		ORDER BY cnt DESC, je.value ASC
		LIMIT ?`, r.fields.Col(FieldTags))

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank tags: %w", err)
	}
	defer rows.Close()

	var tags []TagCount
	for rows.Next() {
		var tc TagCount
		if err := rows.Scan(&tc.Tag, &tc.Count); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		tags = append(tags, tc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tag rows: %w", err)
	}

	return tags, nil
}

func (r *SQLiteRepository) MarkRead(ctx context.Context, fingerprint string, readAt time.Time) error {
	query := fmt.Sprintf(`UPDATE articles SET %s = ?, %s = ?, updated_at = ? WHERE %s = ?`,
		r.fields.Col(FieldStatus), r.fields.Col(FieldReadAt), r.fields.Col(FieldFingerprint))

	res, err := r.db.ExecContext(ctx, query,
		article.StatusRead, formatTime(&readAt), formatTime(now()), fingerprint)
	if err != nil {
		return fmt.Errorf("failed to mark article read: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check mark read result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("article not found: %s", fingerprint)
	}

	return nil
}

func (r *SQLiteRepository) GetArticleCount(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM articles").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

func (r *SQLiteRepository) selectColumns() string {
	return fmt.Sprintf("%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s",
		r.fields.Col(FieldFingerprint), r.fields.Col(FieldURL), r.fields.Col(FieldTitle),
		r.fields.Col(FieldTags), r.fields.Col(FieldSource), r.fields.Col(FieldAuthor),
		r.fields.Col(FieldStatus), r.fields.Col(FieldRating), r.fields.Col(FieldPublishedAt),
		r.fields.Col(FieldCollectedAt), r.fields.Col(FieldReadAt))
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func (r *SQLiteRepository) scanArticle(row scannable) (*article.Article, error) {
	var (
		a           article.Article
		tags        string
		rating      sql.NullFloat64
		publishedAt sql.NullString
		collectedAt sql.NullString
		readAt      sql.NullString
	)

	err := row.Scan(&a.Fingerprint, &a.URL, &a.Title, &tags, &a.Source, &a.Author,
		&a.Status, &rating, &publishedAt, &collectedAt, &readAt)
	if err != nil {
		return nil, err
	}
	a.Rating = rating.Float64

	if err := json.Unmarshal([]byte(tags), &a.Tags); err != nil {
		a.Tags = []string{}
	}

	a.PublishedAt = parseStoredTime(publishedAt)
	a.ReadAt = parseStoredTime(readAt)
	if t := parseStoredTime(collectedAt); t != nil {
		a.CollectedAt = *t
	}

	return &a, nil
}

func formatTime(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseStoredTime(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil
	}
	return &t
}

func now() *time.Time {
	t := time.Now()
	return &t
}
