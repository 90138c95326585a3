package services

import (
	"context"
	stderrors "errors"
	"fmt"
	"sort"
	"time"

	"github.com/abrezinsky/plateplay/internal/editor"
	"github.com/abrezinsky/plateplay/internal/errors"
	"github.com/abrezinsky/plateplay/internal/idgen"
	"github.com/abrezinsky/plateplay/internal/locale"
	"github.com/abrezinsky/plateplay/internal/logger"
	"github.com/abrezinsky/plateplay/internal/menu"
	"github.com/abrezinsky/plateplay/internal/models"
	"github.com/abrezinsky/plateplay/internal/repository"
	"github.com/abrezinsky/plateplay/internal/templates"
)

// RecentViewLimit is how many recent views Stats returns
const RecentViewLimit = 10

// BoardServiceRepository defines the repository methods needed by BoardService
type BoardServiceRepository interface {
	repository.BoardRepository
	repository.AnalyticsRepository
	repository.ReviewRepository
}

// BoardService handles menu board business logic
type BoardService struct {
	log         logger.Logger
	repo        BoardServiceRepository
	settings    SettingsServicer
	broadcaster Broadcaster
	now         func() time.Time
}

// NewBoardService creates a new BoardService. settings may be nil, in which
// case new boards get the built-in currency and language defaults.
func NewBoardService(log logger.Logger, repo BoardServiceRepository, settings SettingsServicer) *BoardService {
	return &BoardService{
		log:      log,
		repo:     repo,
		settings: settings,
		now:      time.Now,
	}
}

// SetBroadcaster sets the broadcaster for sending board snapshots to viewers
func (s *BoardService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// SetClock replaces the time source (for testing)
func (s *BoardService) SetClock(now func() time.Time) {
	s.now = now
}

// ImportResult summarises an Import call
type ImportResult struct {
	Created int             `json:"created"`
	Updated int             `json:"updated"`
	Failed  []ImportFailure `json:"failed,omitempty"`
}

// ImportFailure records a board that was rejected during import
type ImportFailure struct {
	Index int    `json:"index"`
	ID    string `json:"id,omitempty"`
	Error string `json:"error"`
}

// List returns summaries of the owner's boards
func (s *BoardService) List(ctx context.Context, owner string) ([]models.BoardSummary, error) {
	return s.repo.ListBoards(ctx, owner)
}

// Get returns a board owned by owner. Boards of other owners are reported
// as not found.
func (s *BoardService) Get(ctx context.Context, owner, id string) (*models.Board, error) {
	b, err := s.repo.GetBoard(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundf("board %s not found", id)
		}
		return nil, errors.Internalf(err, "loading board %s", id)
	}
	if b.OwnerID != owner {
		return nil, errors.NotFoundf("board %s not found", id)
	}
	return b, nil
}

// Create stores a new board for owner. Any ID on the submitted board is
// replaced.
func (s *BoardService) Create(ctx context.Context, owner string, b *models.Board) (*models.Board, error) {
	if b == nil {
		b = &models.Board{}
	}
	b.ID = ""
	if err := s.applyDefaults(ctx, b); err != nil {
		return nil, err
	}
	return s.insert(ctx, owner, b)
}

// CreateFromTemplate stores a new board built from the named template
func (s *BoardService) CreateFromTemplate(ctx context.Context, owner, name string) (*models.Board, error) {
	b, err := templates.Load(name)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrNotFound, fmt.Sprintf("template %q not found", name))
	}
	return s.insert(ctx, owner, b)
}

// Templates lists the templates offered for new boards
func (s *BoardService) Templates() ([]templates.Info, error) {
	return templates.List()
}

func (s *BoardService) applyDefaults(ctx context.Context, b *models.Board) error {
	if s.settings == nil {
		return nil
	}
	if b.Currency == "" {
		currency, err := s.settings.DefaultCurrency(ctx)
		if err != nil {
			return err
		}
		b.Currency = currency
	}
	if b.DefaultLang == "" {
		lang, err := s.settings.DefaultLang(ctx)
		if err != nil {
			return err
		}
		b.DefaultLang = lang
	}
	return nil
}

func (s *BoardService) insert(ctx context.Context, owner string, b *models.Board) (*models.Board, error) {
	menu.Migrate(b)
	if err := menu.Validate(b); err != nil {
		return nil, errors.Validation(err.Error())
	}
	now := s.now().UTC()
	b.OwnerID = owner
	b.CreatedAt = now
	b.UpdatedAt = now

	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info("Board created", "board_id", b.ID, "owner", owner)
	s.broadcast(b)
	return b, nil
}

// Update replaces the content of an existing board. Ownership and creation
// time are kept from the stored copy.
func (s *BoardService) Update(ctx context.Context, owner string, b *models.Board) (*models.Board, error) {
	if b == nil {
		return nil, errors.Validation("board is required")
	}
	existing, err := s.Get(ctx, owner, b.ID)
	if err != nil {
		return nil, err
	}
	menu.Migrate(b)
	if err := menu.Validate(b); err != nil {
		return nil, errors.Validation(err.Error())
	}
	b.OwnerID = existing.OwnerID
	b.CreatedAt = existing.CreatedAt
	b.UpdatedAt = s.now().UTC()

	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	s.log.Info("Board updated", "board_id", b.ID)
	s.broadcast(b)
	return b, nil
}

// Delete removes a board and everything attached to it
func (s *BoardService) Delete(ctx context.Context, owner, id string) error {
	if _, err := s.Get(ctx, owner, id); err != nil {
		return err
	}
	if err := s.repo.DeleteBoard(ctx, id); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return errors.NotFoundf("board %s not found", id)
		}
		return err
	}
	s.log.Info("Board deleted", "board_id", id)
	return nil
}

// SetItemStatus changes one item's availability
func (s *BoardService) SetItemStatus(ctx context.Context, owner, boardID, itemID string, status models.ItemStatus) (*models.Board, error) {
	if !status.Valid() {
		return nil, errors.Validationf("unknown status %q", status)
	}
	b, err := s.Get(ctx, owner, boardID)
	if err != nil {
		return nil, err
	}
	item, _ := b.FindItem(itemID)
	if item == nil {
		return nil, errors.NotFoundf("item %s not found", itemID)
	}
	if item.Status == status {
		return b, nil
	}
	item.Status = status
	return s.touch(ctx, b)
}

// Classify fills in the category of every uncategorized item of a section,
// guessed from its name and description. Items that already have a category
// are left alone.
func (s *BoardService) Classify(ctx context.Context, owner, boardID, sectionID string) (*models.Board, error) {
	b, err := s.Get(ctx, owner, boardID)
	if err != nil {
		return nil, err
	}
	si := b.SectionIndex(sectionID)
	if si < 0 {
		return nil, errors.NotFoundf("section %s not found", sectionID)
	}
	sec := &b.Sections[si]
	changed := 0
	for i := range sec.Items {
		it := &sec.Items[i]
		if it.Category != "" {
			continue
		}
		it.Category = menu.ClassifyItem(*it)
		changed++
	}
	if changed == 0 {
		return b, nil
	}
	s.log.Debug("Section classified", "board_id", b.ID, "section_id", sectionID, "items", changed)
	return s.touch(ctx, b)
}

// Reorder applies a drag-end move. Dropping a section on a section moves the
// section; dropping an item on an item of the same section moves the item.
// Anything else leaves the board unchanged.
func (s *BoardService) Reorder(ctx context.Context, owner, id, activeID, overID string) (*models.Board, error) {
	b, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if !editor.Reorder(b, activeID, overID) {
		return b, nil
	}
	return s.touch(ctx, b)
}

func (s *BoardService) touch(ctx context.Context, b *models.Board) (*models.Board, error) {
	b.UpdatedAt = s.now().UTC()
	if err := s.save(ctx, b); err != nil {
		return nil, err
	}
	s.log.Debug("Board changed", "board_id", b.ID)
	s.broadcast(b)
	return b, nil
}

func (s *BoardService) save(ctx context.Context, b *models.Board) error {
	if err := s.repo.SaveBoard(ctx, b); err != nil {
		if stderrors.Is(err, repository.ErrConflict) {
			return errors.Wrap(err, errors.ErrConflict, "a section or item ID is already used by another board")
		}
		return err
	}
	return nil
}

// GetPublic returns a board for public viewing with hidden items removed and
// records the view against the hour of day in the board's timezone.
func (s *BoardService) GetPublic(ctx context.Context, id string) (*models.Board, error) {
	b, err := s.repo.GetBoard(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundf("board %s not found", id)
		}
		return nil, errors.Internalf(err, "loading board %s", id)
	}

	at := s.now().In(b.Location(time.Local))
	if err := s.repo.RecordBoardView(ctx, id, at); err != nil {
		s.log.Warn("Failed to record board view", "board_id", id, "error", err)
	}
	return publicBoard(b), nil
}

// Snapshot returns the public form of a board without counting a view
func (s *BoardService) Snapshot(ctx context.Context, id string) (*models.Board, error) {
	b, err := s.repo.GetBoard(ctx, id)
	if err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NotFoundf("board %s not found", id)
		}
		return nil, errors.Internalf(err, "loading board %s", id)
	}
	return publicBoard(b), nil
}

// publicBoard copies b without hidden items or owner
func publicBoard(b *models.Board) *models.Board {
	pub := *b
	pub.OwnerID = ""
	pub.Sections = make([]models.Section, len(b.Sections))
	for si, sec := range b.Sections {
		items := make([]models.Item, 0, len(sec.Items))
		for _, it := range sec.Items {
			if it.Status != models.StatusHidden {
				items = append(items, it)
			}
		}
		sec.Items = items
		pub.Sections[si] = sec
	}
	return &pub
}

// Render resolves a board for lang at the current time and attaches each
// item's live review rating.
func (s *BoardService) Render(ctx context.Context, b *models.Board, lang locale.Lang, opts menu.Options) *menu.View {
	now := s.now()
	v := menu.Render(b, lang, now, opts)
	if v == nil {
		return nil
	}
	for si := range v.Sections {
		for ii := range v.Sections[si].Items {
			it := &v.Sections[si].Items[ii]
			reviews, err := s.repo.ListReviews(ctx, it.ID, now)
			if err != nil {
				s.log.Warn("Failed to load reviews", "item_id", it.ID, "error", err)
				continue
			}
			stats := summarizeReviews(reviews)
			it.Rating = stats.AverageRating
			it.ReviewCount = stats.TotalReviews
		}
	}
	return v
}

// Stats summarises a board's content and traffic
func (s *BoardService) Stats(ctx context.Context, owner, id string) (*models.BoardStats, error) {
	b, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	total, hourly, recent, err := s.repo.GetViewStats(ctx, id, RecentViewLimit)
	if err != nil {
		return nil, errors.Internal(err, "loading view stats")
	}
	itemViews, err := s.repo.GetItemViews(ctx, id)
	if err != nil {
		return nil, errors.Internal(err, "loading item views")
	}

	stats := &models.BoardStats{
		TotalViews:    total,
		TotalSections: len(b.Sections),
		HourlyViews:   hourly,
		RecentViews:   recent,
		ItemViews:     itemViews,
	}
	if stats.RecentViews == nil {
		stats.RecentViews = []models.ViewRecord{}
	}

	categories := make(map[string]bool)
	for _, sec := range b.Sections {
		for _, it := range sec.Items {
			stats.TotalItems++
			switch it.Status {
			case models.StatusSoldOut:
				stats.SoldOutItems++
			case models.StatusAvailable:
				stats.AvailableItems++
			}
			if it.Category != "" {
				categories[it.Category] = true
			}
		}
	}
	stats.CategoriesCount = len(categories)
	return stats, nil
}

// Coverage reports translation completeness of a stored board
func (s *BoardService) Coverage(ctx context.Context, owner, id string) (locale.BoardCoverage, error) {
	b, err := s.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	return locale.ComputeCoverage(b), nil
}

// Export returns all of the owner's boards, sorted by ID
func (s *BoardService) Export(ctx context.Context, owner string) ([]models.Board, error) {
	ids, err := s.repo.ListBoardIDs(ctx, owner)
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)

	boards := make([]models.Board, 0, len(ids))
	for _, id := range ids {
		b, err := s.repo.GetBoard(ctx, id)
		if err != nil {
			return nil, errors.Internalf(err, "loading board %s", id)
		}
		boards = append(boards, *b)
	}
	return boards, nil
}

// Import stores each board for owner. Boards that fail validation are
// reported in the result; storage errors abort the import.
func (s *BoardService) Import(ctx context.Context, owner string, boards []models.Board) (*ImportResult, error) {
	return s.ImportWithProgress(ctx, owner, boards, nil)
}

// ImportWithProgress is Import with a callback run after each board is handled
func (s *BoardService) ImportWithProgress(ctx context.Context, owner string, boards []models.Board, progress func()) (*ImportResult, error) {
	result := &ImportResult{}
	for i := range boards {
		b := boards[i]
		created, err := s.ImportBoard(ctx, owner, &b)
		if progress != nil {
			progress()
		}
		if err != nil {
			var appErr *errors.Error
			if stderrors.As(err, &appErr) && appErr.Kind == errors.ErrValidation {
				result.Failed = append(result.Failed, ImportFailure{Index: i, ID: boards[i].ID, Error: appErr.Message})
				continue
			}
			return result, err
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	s.log.Info("Boards imported", "owner", owner, "created", result.Created, "updated", result.Updated, "failed", len(result.Failed))
	return result, nil
}

// ImportBoard migrates and stores one board for owner, reporting whether a
// new board was created. A board whose ID belongs to another owner, or whose
// section or item IDs collide with another board, is stored under fresh IDs.
func (s *BoardService) ImportBoard(ctx context.Context, owner string, b *models.Board) (bool, error) {
	if b == nil {
		return false, errors.Validation("board is required")
	}
	menu.Migrate(b)
	if err := menu.Validate(b); err != nil {
		return false, errors.Validation(err.Error())
	}

	created := false
	existing, err := s.repo.GetBoard(ctx, b.ID)
	switch {
	case stderrors.Is(err, repository.ErrNotFound):
		created = true
	case err != nil:
		return false, err
	case existing.OwnerID != owner:
		reassignIDs(b)
		created = true
	}

	now := s.now().UTC()
	b.OwnerID = owner
	if b.CreatedAt.IsZero() || created {
		b.CreatedAt = now
	}
	b.UpdatedAt = now

	err = s.repo.SaveBoard(ctx, b)
	if stderrors.Is(err, repository.ErrConflict) {
		reassignIDs(b)
		created = true
		err = s.repo.SaveBoard(ctx, b)
	}
	if err != nil {
		return false, err
	}
	s.broadcast(b)
	return created, nil
}

// reassignIDs gives the board and everything in it new IDs
func reassignIDs(b *models.Board) {
	b.ID = idgen.Must(idgen.BoardPrefix)
	for si := range b.Sections {
		b.Sections[si].ID = idgen.Must(idgen.SectionPrefix)
		for ii := range b.Sections[si].Items {
			b.Sections[si].Items[ii].ID = idgen.Must(idgen.ItemPrefix)
		}
	}
	for pi := range b.Promotions {
		b.Promotions[pi].ID = idgen.Must(idgen.PromotionPrefix)
	}
}

// broadcast sends a public snapshot of b to connected viewers
func (s *BoardService) broadcast(b *models.Board) {
	if s.broadcaster != nil {
		s.broadcaster.BroadcastBoard(publicBoard(b))
	}
}
