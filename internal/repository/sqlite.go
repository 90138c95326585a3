package repository

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/mattn/go-sqlite3"

	"github.com/abrezinsky/plateplay/internal/kv"
	"github.com/abrezinsky/plateplay/internal/locale"
	"github.com/abrezinsky/plateplay/internal/models"
	"github.com/abrezinsky/plateplay/internal/promo"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Repository provides data access methods
type Repository struct {
	db *sql.DB
}

// New opens the SQLite database at dbPath and applies pending migrations
func New(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}

	// SQLite works best with a single connection; it also keeps :memory:
	// databases alive for the life of the pool.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Repository{db: db}, nil
}

// The migrator is not closed: closing it would close db.
func runMigrations(db *sql.DB) error {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	drv, err := migratesqlite.WithInstance(db, &migratesqlite.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", drv)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// DB returns the underlying database connection (for transactions)
func (r *Repository) DB() *sql.DB {
	return r.db
}

// Close closes the database connection
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks if the database connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if !stderrors.As(err, &se) {
		return false
	}
	return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// nullableText stores an absent localized field as NULL
func nullableText(t locale.Text) (sql.NullString, error) {
	if t == nil {
		return sql.NullString{}, nil
	}
	s, err := toJSON(t)
	return sql.NullString{String: s, Valid: true}, err
}

func scanText(ns sql.NullString) (locale.Text, error) {
	if !ns.Valid {
		return nil, nil
	}
	var t locale.Text
	if err := json.Unmarshal([]byte(ns.String), &t); err != nil {
		return nil, err
	}
	return t, nil
}

// ==================== Board Methods ====================

// ListBoards returns summaries of an owner's boards, most recently updated first
func (r *Repository) ListBoards(ctx context.Context, ownerID string) ([]models.BoardSummary, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT b.id, b.title, b.currency, b.updated_at,
			(SELECT COUNT(*) FROM sections s WHERE s.board_id = b.id),
			(SELECT COUNT(*) FROM items i WHERE i.board_id = b.id),
			(SELECT COUNT(*) FROM board_views v WHERE v.board_id = b.id)
		FROM boards b
		WHERE b.owner_id = ?
		ORDER BY b.updated_at DESC, b.id
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boards := []models.BoardSummary{}
	for rows.Next() {
		var s models.BoardSummary
		var title string
		if err := rows.Scan(&s.ID, &title, &s.Currency, &s.UpdatedAt, &s.Sections, &s.Items, &s.Views); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(title), &s.Title); err != nil {
			return nil, fmt.Errorf("board %s title: %w", s.ID, err)
		}
		boards = append(boards, s)
	}
	return boards, rows.Err()
}

// ListBoardIDs returns the IDs of every board, optionally limited to one owner
func (r *Repository) ListBoardIDs(ctx context.Context, ownerID string) ([]string, error) {
	query := `SELECT id FROM boards ORDER BY id`
	args := []any{}
	if ownerID != "" {
		query = `SELECT id FROM boards WHERE owner_id = ? ORDER BY id`
		args = append(args, ownerID)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetBoard loads a complete board with sections and items in position order
func (r *Repository) GetBoard(ctx context.Context, id string) (*models.Board, error) {
	var b models.Board
	var title, theme, promotions string
	var description sql.NullString
	var defaultLang string
	err := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, title, description, currency, default_lang, timezone, theme, promotions, created_at, updated_at
		FROM boards WHERE id = ?
	`, id).Scan(&b.ID, &b.OwnerID, &title, &description, &b.Currency, &defaultLang, &b.Timezone, &theme, &promotions, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	b.DefaultLang = locale.Lang(defaultLang)

	if err := json.Unmarshal([]byte(title), &b.Title); err != nil {
		return nil, fmt.Errorf("board %s title: %w", id, err)
	}
	if b.Description, err = scanText(description); err != nil {
		return nil, fmt.Errorf("board %s description: %w", id, err)
	}
	if err := json.Unmarshal([]byte(theme), &b.Theme); err != nil {
		return nil, fmt.Errorf("board %s theme: %w", id, err)
	}
	b.Promotions = []promo.Promotion{}
	if err := json.Unmarshal([]byte(promotions), &b.Promotions); err != nil {
		return nil, fmt.Errorf("board %s promotions: %w", id, err)
	}

	if b.Sections, err = r.loadSections(ctx, id); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) loadSections(ctx context.Context, boardID string) ([]models.Section, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM sections WHERE board_id = ? ORDER BY position`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections := []models.Section{}
	index := make(map[string]int)
	for rows.Next() {
		var s models.Section
		var name string
		if err := rows.Scan(&s.ID, &name); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(name), &s.Name); err != nil {
			return nil, fmt.Errorf("section %s name: %w", s.ID, err)
		}
		s.Items = []models.Item{}
		index[s.ID] = len(sections)
		sections = append(sections, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := r.db.QueryContext(ctx, `
		SELECT id, section_id, name, description, price, image, tags, category, status
		FROM items WHERE board_id = ? ORDER BY position
	`, boardID)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it models.Item
		var sectionID, name, tags, status string
		var description sql.NullString
		if err := itemRows.Scan(&it.ID, &sectionID, &name, &description, &it.Price, &it.Image, &tags, &it.Category, &status); err != nil {
			return nil, err
		}
		it.Status = models.ItemStatus(status)
		if err := json.Unmarshal([]byte(name), &it.Name); err != nil {
			return nil, fmt.Errorf("item %s name: %w", it.ID, err)
		}
		if it.Description, err = scanText(description); err != nil {
			return nil, fmt.Errorf("item %s description: %w", it.ID, err)
		}
		if err := json.Unmarshal([]byte(tags), &it.Tags); err != nil {
			return nil, fmt.Errorf("item %s tags: %w", it.ID, err)
		}
		si, ok := index[sectionID]
		if !ok {
			continue
		}
		sections[si].Items = append(sections[si].Items, it)
	}
	return sections, itemRows.Err()
}

// SaveBoard inserts or replaces a board. Sections and items are rewritten in
// slice order so their positions always match the board.
func (r *Repository) SaveBoard(ctx context.Context, b *models.Board) error {
	title, err := toJSON(b.Title)
	if err != nil {
		return err
	}
	description, err := nullableText(b.Description)
	if err != nil {
		return err
	}
	theme, err := toJSON(b.Theme)
	if err != nil {
		return err
	}
	promos := b.Promotions
	if promos == nil {
		promos = []promo.Promotion{}
	}
	promotions, err := toJSON(promos)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO boards (id, owner_id, title, description, currency, default_lang, timezone, theme, promotions, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			currency = excluded.currency,
			default_lang = excluded.default_lang,
			timezone = excluded.timezone,
			theme = excluded.theme,
			promotions = excluded.promotions,
			updated_at = excluded.updated_at
	`, b.ID, b.OwnerID, title, description, b.Currency, string(b.DefaultLang), b.Timezone, theme, promotions, b.CreatedAt.UTC(), b.UpdatedAt.UTC())
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE board_id = ?`, b.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE board_id = ?`, b.ID); err != nil {
		return err
	}

	for si, s := range b.Sections {
		name, err := toJSON(s.Name)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO sections (id, board_id, name, position) VALUES (?, ?, ?, ?)`, s.ID, b.ID, name, si); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("section %s: %w", s.ID, ErrConflict)
			}
			return err
		}
		for ii, it := range s.Items {
			if err := insertItem(ctx, tx, b.ID, s.ID, ii, it); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

func insertItem(ctx context.Context, tx *sql.Tx, boardID, sectionID string, pos int, it models.Item) error {
	name, err := toJSON(it.Name)
	if err != nil {
		return err
	}
	description, err := nullableText(it.Description)
	if err != nil {
		return err
	}
	tagList := it.Tags
	if tagList == nil {
		tagList = []string{}
	}
	tags, err := toJSON(tagList)
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO items (id, board_id, section_id, name, description, price, image, tags, category, status, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, it.ID, boardID, sectionID, name, description, it.Price, it.Image, tags, it.Category, string(it.Status), pos)
	if isUniqueViolation(err) {
		return fmt.Errorf("item %s: %w", it.ID, ErrConflict)
	}
	return err
}

// DeleteBoard removes a board and everything attached to it
func (r *Repository) DeleteBoard(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM boards WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetItemBoardID returns the board an item belongs to
func (r *Repository) GetItemBoardID(ctx context.Context, itemID string) (string, error) {
	var boardID string
	err := r.db.QueryRowContext(ctx, `SELECT board_id FROM items WHERE id = ?`, itemID).Scan(&boardID)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	return boardID, err
}

// ==================== Analytics Methods ====================

// RecordBoardView stores one public page view
func (r *Repository) RecordBoardView(ctx context.Context, boardID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO board_views (board_id, viewed_at, hour) VALUES (?, ?, ?)`, boardID, at.UTC(), at.Hour())
	return err
}

// RecordItemView increments an item's view counter
func (r *Repository) RecordItemView(ctx context.Context, boardID, itemID string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO item_views (board_id, item_id, views) VALUES (?, ?, 1)
		ON CONFLICT(board_id, item_id) DO UPDATE SET views = views + 1
	`, boardID, itemID)
	return err
}

// GetViewStats returns total views, the per-hour histogram and the most recent views
func (r *Repository) GetViewStats(ctx context.Context, boardID string, recent int) (int, [24]int, []models.ViewRecord, error) {
	var hourly [24]int
	total := 0

	rows, err := r.db.QueryContext(ctx, `SELECT hour, COUNT(*) FROM board_views WHERE board_id = ? GROUP BY hour`, boardID)
	if err != nil {
		return 0, hourly, nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var hour, count int
		if err := rows.Scan(&hour, &count); err != nil {
			return 0, hourly, nil, err
		}
		if hour >= 0 && hour < 24 {
			hourly[hour] = count
		}
		total += count
	}
	if err := rows.Err(); err != nil {
		return 0, hourly, nil, err
	}

	recentRows, err := r.db.QueryContext(ctx, `
		SELECT viewed_at, hour FROM board_views WHERE board_id = ?
		ORDER BY viewed_at DESC, id DESC LIMIT ?
	`, boardID, recent)
	if err != nil {
		return 0, hourly, nil, err
	}
	defer recentRows.Close()

	views := []models.ViewRecord{}
	for recentRows.Next() {
		var v models.ViewRecord
		if err := recentRows.Scan(&v.ViewedAt, &v.Hour); err != nil {
			return 0, hourly, nil, err
		}
		views = append(views, v)
	}
	return total, hourly, views, recentRows.Err()
}

// GetItemViews returns per-item view counters for a board
func (r *Repository) GetItemViews(ctx context.Context, boardID string) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT item_id, views FROM item_views WHERE board_id = ?`, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	views := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, err
		}
		views[id] = n
	}
	return views, rows.Err()
}

// ==================== Review Methods ====================

// CreateReview stores a review. A second review for the same item and
// session returns ErrConflict.
func (r *Repository) CreateReview(ctx context.Context, boardID string, rev *models.Review) error {
	// an expired review of the same item by the same session is replaced
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (id, board_id, item_id, rating, text, session_token, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (item_id, session_token) DO UPDATE SET
			id = excluded.id, board_id = excluded.board_id, rating = excluded.rating, text = excluded.text,
			created_at = excluded.created_at, expires_at = excluded.expires_at
		WHERE reviews.expires_at <= excluded.created_at
	`, rev.ID, boardID, rev.ItemID, rev.Rating, rev.Text, rev.SessionToken, rev.CreatedAt.UTC(), rev.ExpiresAt.UTC())
	if isUniqueViolation(err) {
		return ErrConflict
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// ListReviews returns an item's reviews that have not expired at now, newest first
func (r *Repository) ListReviews(ctx context.Context, itemID string, now time.Time) ([]models.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, item_id, rating, text, created_at, expires_at
		FROM reviews WHERE item_id = ? AND expires_at > ?
		ORDER BY created_at DESC, id
	`, itemID, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reviews := []models.Review{}
	for rows.Next() {
		var rev models.Review
		if err := rows.Scan(&rev.ID, &rev.ItemID, &rev.Rating, &rev.Text, &rev.CreatedAt, &rev.ExpiresAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, rev)
	}
	return reviews, rows.Err()
}

// ReviewedItems reports which of itemIDs the session has a review for that
// has not expired at now
func (r *Repository) ReviewedItems(ctx context.Context, itemIDs []string, token string, now time.Time) (map[string]bool, error) {
	result := make(map[string]bool, len(itemIDs))
	for _, id := range itemIDs {
		result[id] = false
	}
	if len(itemIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT item_id FROM reviews WHERE session_token = ? AND expires_at > ?`, token, now.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		if _, ok := result[id]; ok {
			result[id] = true
		}
	}
	return result, rows.Err()
}

// DeleteExpiredReviews removes reviews whose expiry is at or before now
func (r *Repository) DeleteExpiredReviews(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ==================== Plate Methods ====================

// GetPlate returns the page document stored at path
func (r *Repository) GetPlate(ctx context.Context, path string) (*models.Plate, error) {
	var p models.Plate
	var data string
	err := r.db.QueryRowContext(ctx, `
		SELECT path, owner_id, title, data, created_at, updated_at FROM plates WHERE path = ?
	`, path).Scan(&p.Path, &p.OwnerID, &p.Title, &data, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Data = json.RawMessage(data)
	return &p, nil
}

// ListPlates returns an owner's plate paths and titles, without data
func (r *Repository) ListPlates(ctx context.Context, ownerID string) ([]models.Plate, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT path, owner_id, title, created_at, updated_at FROM plates WHERE owner_id = ? ORDER BY path
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plates := []models.Plate{}
	for rows.Next() {
		var p models.Plate
		if err := rows.Scan(&p.Path, &p.OwnerID, &p.Title, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		plates = append(plates, p)
	}
	return plates, rows.Err()
}

// SavePlate inserts or updates a plate. An existing plate owned by someone
// else returns ErrConflict.
func (r *Repository) SavePlate(ctx context.Context, p *models.Plate) error {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO plates (path, owner_id, title, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			title = excluded.title,
			data = excluded.data,
			updated_at = excluded.updated_at
		WHERE plates.owner_id = excluded.owner_id
	`, p.Path, p.OwnerID, p.Title, string(p.Data), p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// ==================== Settings Methods ====================

// Get retrieves a stored value
func (r *Repository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: %w", ErrNotFound, kv.ErrNotFound)
	}
	return value, err
}

// Set stores a value, replacing any previous one
func (r *Repository) Set(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`, key, value)
	return err
}

// ==================== Database Management Methods ====================

// validTables defines which tables can be safely cleared
var validTables = map[string]bool{
	"board_views": true, "item_views": true, "reviews": true,
}

// ClearTable clears all data from a table.
// Only whitelisted tables can be cleared.
func (r *Repository) ClearTable(ctx context.Context, table string) error {
	if !validTables[table] {
		return ErrInvalidTable
	}

	_, err := r.db.ExecContext(ctx, "DELETE FROM "+table)
	return err
}
