package services_test

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/abrezinsky/plateplay/internal/errors"
	"github.com/abrezinsky/plateplay/internal/locale"
	"github.com/abrezinsky/plateplay/internal/logger"
	"github.com/abrezinsky/plateplay/internal/menu"
	"github.com/abrezinsky/plateplay/internal/models"
	"github.com/abrezinsky/plateplay/internal/repository"
	"github.com/abrezinsky/plateplay/internal/repository/mock"
	"github.com/abrezinsky/plateplay/internal/services"
	"github.com/abrezinsky/plateplay/internal/testutil"
)

func newBoardService(t *testing.T) (*services.BoardService, *repository.Repository, *recordingBroadcaster) {
	t.Helper()
	repo := testutil.NewTestRepository(t)
	log := logger.New()
	svc := services.NewBoardService(log, repo, services.NewSettingsService(log, repo))
	svc.SetClock(testutil.FixedClock(testutil.Monday))
	bc := &recordingBroadcaster{}
	svc.SetBroadcaster(bc)
	return svc, repo, bc
}

func TestBoardService_Create(t *testing.T) {
	svc, _, bc := newBoardService(t)
	ctx := context.Background()

	b, err := svc.Create(ctx, "alice", &models.Board{ID: "ignored", Title: locale.NewText("브런치")})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if b.ID == "" || b.ID == "ignored" {
		t.Errorf("expected a generated ID, got %q", b.ID)
	}
	if b.OwnerID != "alice" {
		t.Errorf("expected owner alice, got %q", b.OwnerID)
	}
	if b.Currency != "KRW" || b.DefaultLang != locale.Default {
		t.Errorf("expected settings defaults, got %q/%q", b.Currency, b.DefaultLang)
	}
	if !b.CreatedAt.Equal(testutil.Monday) || !b.UpdatedAt.Equal(testutil.Monday) {
		t.Errorf("expected timestamps from clock, got %v/%v", b.CreatedAt, b.UpdatedAt)
	}
	if bc.count() != 1 {
		t.Errorf("expected 1 broadcast, got %d", bc.count())
	}

	got, err := svc.Get(ctx, "alice", b.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if locale.GetText(got.Title, locale.Default) != "브런치" {
		t.Errorf("unexpected stored title %v", got.Title)
	}
}

func TestBoardService_Create_NilBoardGetsDefaults(t *testing.T) {
	svc, _, _ := newBoardService(t)

	b, err := svc.Create(context.Background(), "alice", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if locale.GetText(b.Title, locale.Default) != menu.DefaultTitle {
		t.Errorf("expected default title, got %v", b.Title)
	}
}

func TestBoardService_Create_Invalid(t *testing.T) {
	svc, _, bc := newBoardService(t)

	_, err := svc.Create(context.Background(), "alice", &models.Board{Title: locale.NewText("  ")})
	if !hasKind(err, errors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if bc.count() != 0 {
		t.Error("failed create should not broadcast")
	}
}

func TestBoardService_Get_OtherOwner(t *testing.T) {
	svc, repo, _ := newBoardService(t)
	testutil.SeedBoard(t, repo, "b1", "alice")

	if _, err := svc.Get(context.Background(), "bob", "b1"); !hasKind(err, errors.ErrNotFound) {
		t.Errorf("expected not found for another owner's board, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "alice", "missing"); !hasKind(err, errors.ErrNotFound) {
		t.Errorf("expected not found for missing board, got %v", err)
	}
}

func TestBoardService_CreateFromTemplate(t *testing.T) {
	svc, _, _ := newBoardService(t)
	ctx := context.Background()

	b, err := svc.CreateFromTemplate(ctx, "alice", "cafe")
	if err != nil {
		t.Fatalf("CreateFromTemplate failed: %v", err)
	}
	if b.Theme.Template != "cafe" {
		t.Errorf("expected cafe theme, got %q", b.Theme.Template)
	}

	list, err := svc.List(ctx, "alice")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != b.ID {
		t.Errorf("expected the new board in the list, got %+v", list)
	}

	if _, err := svc.CreateFromTemplate(ctx, "alice", "../etc"); !hasKind(err, errors.ErrNotFound) {
		t.Errorf("expected not found for unknown template, got %v", err)
	}
}

func TestBoardService_Templates(t *testing.T) {
	svc, _, _ := newBoardService(t)

	list, err := svc.Templates()
	if err != nil {
		t.Fatalf("Templates failed: %v", err)
	}
	names := make(map[string]bool)
	for _, info := range list {
		names[info.Name] = true
	}
	for _, want := range []string{"blank", "cafe", "restaurant", "pub"} {
		if !names[want] {
			t.Errorf("expected template %q in %v", want, list)
		}
	}
}

func TestBoardService_Update(t *testing.T) {
	svc, repo, bc := newBoardService(t)
	ctx := context.Background()
	testutil.SeedBoard(t, repo, "b1", "alice")

	later := testutil.Monday.Add(time.Hour)
	svc.SetClock(testutil.FixedClock(later))

	edit := testutil.Board("b1", "someone-else")
	edit.Title = locale.NewText("저녁 메뉴")
	edit.CreatedAt = time.Time{}
	edit.Sections[0].Items[0].Price = 31000

	b, err := svc.Update(ctx, "alice", edit)
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if b.OwnerID != "alice" {
		t.Errorf("owner must not change, got %q", b.OwnerID)
	}
	if !b.CreatedAt.Equal(testutil.Monday) || !b.UpdatedAt.Equal(later) {
		t.Errorf("unexpected timestamps %v/%v", b.CreatedAt, b.UpdatedAt)
	}

	stored, _ := svc.Get(ctx, "alice", "b1")
	if stored.Sections[0].Items[0].Price != 31000 {
		t.Errorf("expected price update to persist, got %d", stored.Sections[0].Items[0].Price)
	}

	snap := bc.last()
	if snap == nil {
		t.Fatal("expected a broadcast")
	}
	if snap.OwnerID != "" {
		t.Error("broadcast snapshot should not carry the owner")
	}
	for _, s := range snap.Sections {
		for _, it := range s.Items {
			if it.Status == models.StatusHidden {
				t.Errorf("broadcast snapshot leaked hidden item %s", it.ID)
			}
		}
	}
}

func TestBoardService_Update_Errors(t *testing.T) {
	svc, repo, _ := newBoardService(t)
	ctx := context.Background()
	testutil.SeedBoard(t, repo, "b1", "alice")

	if _, err := svc.Update(ctx, "alice", nil); !hasKind(err, errors.ErrValidation) {
		t.Errorf("expected validation error for nil board, got %v", err)
	}
	if _, err := svc.Update(ctx, "bob", testutil.Board("b1", "bob")); !hasKind(err, errors.ErrNotFound) {
		t.Errorf("expected not found for another owner, got %v", err)
	}

	bad := testutil.Board("b1", "alice")
	bad.Promotions[0].Percent = 150
	if _, err := svc.Update(ctx, "alice", bad); !hasKind(err, errors.ErrValidation) {
		t.Errorf("expected validation error for bad promotion, got %v", err)
	}
}

func TestBoardService_Update_MigratesBeforeValidating(t *testing.T) {
	svc, repo, _ := newBoardService(t)
	ctx := context.Background()
	testutil.SeedBoard(t, repo, "b1", "alice")

	edit := testutil.Board("b1", "alice")
	edit.Title = nil
	edit.Currency = " usd "

	b, err := svc.Update(ctx, "alice", edit)
	if err != nil {
		t.Fatalf("expected a missing title to be filled like on create, got %v", err)
	}
	if locale.GetText(b.Title, locale.Default) != menu.DefaultTitle {
		t.Errorf("expected default title, got %v", b.Title)
	}
	if b.Currency != "USD" {
		t.Errorf("expected normalized currency, got %q", b.Currency)
	}

	blank := testutil.Board("b1", "alice")
	blank.Title = locale.NewText("   ")
	if _, err := svc.Update(ctx, "alice", blank); !hasKind(err, errors.ErrValidation) {
		t.Errorf("expected validation error for a blank title, got %v", err)
	}
}

func TestBoardService_Classify(t *testing.T) {
	svc, repo, bc := newBoardService(t)
	ctx := context.Background()
	testutil.SeedBoard(t, repo, "b1", "alice")

	b, err := svc.Classify(ctx, "alice", "b1", "b1-s1")
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	want := map[string]string{"b1-i1": menu.CategorySteak, "b1-i2": menu.CategoryPasta, "b1-i3": menu.CategoryOther}
	for id, cat := range want {
		item, _ := b.FindItem(id)
		if item == nil || item.Category != cat {
			t.Errorf("item %s: expected category %q, got %+v", id, cat, item)
		}
	}
	if bc.count() != 1 {
		t.Errorf("expected 1 broadcast, got %d", bc.count())
	}

	stored, _ := svc.Get(ctx, "alice", "b1")
	if item, _ := stored.FindItem("b1-i2"); item.Category != menu.CategoryPasta {
		t.Errorf("expected category to persist, got %q", item.Category)
	}

	if _, err := svc.Classify(ctx, "alice", "b1", "b1-s1"); err != nil {
		t.Fatalf("second Classify failed: %v", err)
	}
	if bc.count() != 1 {
		t.Errorf("nothing left to classify, expected no new broadcast, got %d", bc.count())
	}
}

func TestBoardService_Classify_Errors(t *testing.T) {
	svc, repo, _ := newBoardService(t)
	ctx := context.Background()
	testutil.SeedBoard(t, repo, "b1", "alice")

	if _, err := svc.Classify(ctx, "alice", "b1", "missing"); !hasKind(err, errors.ErrNotFound) {
		t.Errorf("expected not found for unknown section, got %v", err)
	}
	if _, err := svc.Classify(ctx, "bob", "b1", "b1-s1"); !hasKind(err, errors.ErrNotFound) {
		t.Errorf("expected not found for another owner, got %v", err)
	}
}

func TestBoardService_Update_IDCollision(t *testing.T) {
	svc, repo, _ := newBoardService(t)
	ctx := context.Background()
	testutil.SeedBoard(t, repo, "b1", "alice")
	testutil.SeedBoard(t, repo, "b2", "alice")

	edit := testutil.Board("b2", "alice")
	edit.Sections[0].Items[0].ID = "b1-i1"

	if _, err := svc.Update(ctx, "alice", edit); !hasKind(err, errors.ErrConflict) {
		t.Errorf("expected conflict for item ID of another board, got %v", err)
	}
}

func TestBoardService_Delete(t *testing.T) {
	svc, repo, _ := newBoardService(t)
	ctx := context.Background()
	testutil.SeedBoard(t, repo, "b1", "alice")

	if err := svc.Delete(ctx, "bob", "b1"); !hasKind(err, errors.ErrNotFound) {
		t.Errorf("expected not found for another owner, got %v", err)
	}
	if err := svc.Delete(ctx, "alice", "b1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := svc.Get(ctx, "alice", "b1"); !hasKind(err, errors.ErrNotFound) {
		t.Errorf("expected deleted board to be gone, got %v", err)
	}
}

func TestBoardService_SetItemStatus(t *testing.T) {
	svc, repo, bc := newBoardService(t)
	ctx := context.Background()
	testutil.SeedBoard(t, repo, "b1", "alice")

	b, err := svc.SetItemStatus(ctx, "alice", "b1", "b1-i1", models.StatusSoldOut)
	if err != nil {
		t.Fatalf("SetItemStatus failed: %v", err)
	}
	item, _ := b.FindItem("b1-i1")
	if item.Status != models.StatusSoldOut {
		t.Errorf("expected soldout, got %q", item.Status)
	}
	if bc.count() != 1 {
		t.Errorf("expected 1 broadcast, got %d", bc.count())
	}

	// No change, no broadcast
	if _, err := svc.SetItemStatus(ctx, "alice", "b1", "b1-i1", models.StatusSoldOut); err != nil {
		t.Fatalf("SetItemStatus failed: %v", err)
	}
	if bc.count() != 1 {
		t.Errorf("expected unchanged status not to broadcast, got %d", bc.count())
	}

	if _, err := svc.SetItemStatus(ctx, "alice", "b1", "nope", models.StatusSoldOut); !hasKind(err, errors.ErrNotFound) {
		t.Errorf("expected not found for unknown item, got %v", err)
	}
	if _, err := svc.SetItemStatus(ctx, "alice", "b1", "b1-i1", "archived"); !hasKind(err, errors.ErrValidation) {
		t.Errorf("expected validation error for unknown status, got %v", err)
	}
}

func TestBoardService_Reorder(t *testing.T) {
	svc, repo, bc := newBoardService(t)
	ctx := context.Background()
	testutil.SeedBoard(t, repo, "b1", "alice")

	b, err := svc.Reorder(ctx, "alice", "b1", "b1-s2", "b1-s1")
	if err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}
	if b.Sections[0].ID != "b1-s2" {
		t.Errorf("expected b1-s2 first, got %s", b.Sections[0].ID)
	}

	stored, _ := svc.Get(ctx, "alice", "b1")
	if stored.Sections[0].ID != "b1-s2" || stored.Sections[1].ID != "b1-s1" {
		t.Errorf("expected order to persist, got %s, %s", stored.Sections[0].ID, stored.Sections[1].ID)
	}
	if bc.count() != 1 {
		t.Errorf("expected 1 broadcast, got %d", bc.count())
	}

	// Cross-section item drop is ignored
	if _, err := svc.Reorder(ctx, "alice", "b1", "b1-i1", "b1-i4"); err != nil {
		t.Fatalf("Reorder failed: %v", err)
	}
	if bc.count() != 1 {
		t.Errorf("expected ignored move not to broadcast, got %d", bc.count())
	}
}

func TestBoardService_GetPublic(t *testing.T) {
	svc, repo, _ := newBoardService(t)
	ctx := context.Background()
	b := testutil.Board("b1", "alice")
	b.Timezone = "UTC"
	if err := repo.SaveBoard(ctx, b); err != nil {
		t.Fatalf("SaveBoard failed: %v", err)
	}

	pub, err := svc.GetPublic(ctx, "b1")
	if err != nil {
		t.Fatalf("GetPublic failed: %v", err)
	}
	if pub.OwnerID != "" {
		t.Error("public board should not expose the owner")
	}
	if item, _ := pub.FindItem("b1-i3"); item != nil {
		t.Error("hidden item should be filtered out")
	}
	if pub.ItemCount() != 3 {
		t.Errorf("expected 3 visible items, got %d", pub.ItemCount())
	}

	stats, err := svc.Stats(ctx, "alice", "b1")
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalViews != 1 || stats.HourlyViews[16] != 1 {
		t.Errorf("expected one view at 16h, got total %d, hourly %v", stats.TotalViews, stats.HourlyViews)
	}

	if _, err := svc.GetPublic(ctx, "missing"); !hasKind(err, errors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestBoardService_GetPublic_ViewErrorIgnored(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	mockRepo := mock.NewRepository(repo)
	svc := services.NewBoardService(logger.New(), mockRepo, nil)
	testutil.SeedBoard(t, repo, "b1", "alice")

	mockRepo.RecordBoardViewError = stderrors.New("database error")
	if _, err := svc.GetPublic(context.Background(), "b1"); err != nil {
		t.Errorf("view recording failure should not fail the request, got %v", err)
	}
}

func TestBoardService_Stats(t *testing.T) {
	svc, repo, _ := newBoardService(t)
	ctx := context.Background()
	testutil.SeedBoard(t, repo, "b1", "alice")
	if err := repo.RecordItemView(ctx, "b1", "b1-i1"); err != nil {
		t.Fatalf("RecordItemView failed: %v", err)
	}

	stats, err := svc.Stats(ctx, "alice", "b1")
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.TotalSections != 2 || stats.TotalItems != 4 {
		t.Errorf("expected 2 sections and 4 items, got %d and %d", stats.TotalSections, stats.TotalItems)
	}
	if stats.SoldOutItems != 1 || stats.AvailableItems != 2 {
		t.Errorf("expected 1 sold out and 2 available, got %d and %d", stats.SoldOutItems, stats.AvailableItems)
	}
	if stats.CategoriesCount != 2 {
		t.Errorf("expected 2 categories, got %d", stats.CategoriesCount)
	}
	if stats.TotalViews != 0 || len(stats.RecentViews) != 0 {
		t.Errorf("expected no views, got %d", stats.TotalViews)
	}
	if stats.ItemViews["b1-i1"] != 1 {
		t.Errorf("expected 1 item view, got %v", stats.ItemViews)
	}
}

func TestBoardService_Stats_RepositoryErrors(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	mockRepo := mock.NewRepository(repo)
	svc := services.NewBoardService(logger.New(), mockRepo, nil)
	testutil.SeedBoard(t, repo, "b1", "alice")
	ctx := context.Background()

	mockRepo.GetViewStatsError = stderrors.New("database error")
	if _, err := svc.Stats(ctx, "alice", "b1"); !hasKind(err, errors.ErrInternal) {
		t.Errorf("expected internal error for view stats, got %v", err)
	}
	mockRepo.GetViewStatsError = nil

	mockRepo.GetItemViewsError = stderrors.New("database error")
	if _, err := svc.Stats(ctx, "alice", "b1"); !hasKind(err, errors.ErrInternal) {
		t.Errorf("expected internal error for item views, got %v", err)
	}
}

func TestBoardService_Get_StorageErrorIsInternal(t *testing.T) {
	repo := testutil.NewTestRepository(t)
	mockRepo := mock.NewRepository(repo)
	svc := services.NewBoardService(logger.New(), mockRepo, nil)
	testutil.SeedBoard(t, repo, "b1", "alice")
	ctx := context.Background()

	cause := stderrors.New("database is locked")
	mockRepo.GetBoardError = cause

	_, err := svc.Get(ctx, "alice", "b1")
	if !hasKind(err, errors.ErrInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
	if !stderrors.Is(err, cause) {
		t.Error("expected the storage cause to be preserved")
	}
	if _, err := svc.Export(ctx, "alice"); !hasKind(err, errors.ErrInternal) {
		t.Errorf("expected internal error from Export, got %v", err)
	}
}

func TestBoardService_Coverage(t *testing.T) {
	svc, repo, _ := newBoardService(t)
	testutil.SeedBoard(t, repo, "b1", "alice")

	cov, err := svc.Coverage(context.Background(), "alice", "b1")
	if err != nil {
		t.Fatalf("Coverage failed: %v", err)
	}
	if cov[locale.EN].Filled != 3 || cov[locale.EN].Total != 7 {
		t.Errorf("unexpected en coverage %+v", cov[locale.EN])
	}
	if cov[locale.JA].Filled != 0 {
		t.Errorf("expected no ja translations, got %+v", cov[locale.JA])
	}
}

func TestBoardService_Render(t *testing.T) {
	svc, repo, _ := newBoardService(t)
	ctx := context.Background()
	b := testutil.SeedBoard(t, repo, "b1", "alice")

	reviews := services.NewReviewService(logger.New(), repo)
	reviews.SetClock(testutil.FixedClock(testutil.Monday))
	for i, rating := range []int{5, 4} {
		token := []string{"anon_a", "anon_b"}[i]
		if _, err := reviews.Create(ctx, "b1-i1", rating, "", token); err != nil {
			t.Fatalf("Create review failed: %v", err)
		}
	}

	v := svc.Render(ctx, b, locale.EN, menu.Options{})
	if v == nil {
		t.Fatal("expected a view")
	}
	if v.Promotion == nil {
		t.Fatal("expected happy hour to be active on Monday 16:30")
	}
	steak := v.Sections[0].Items[0]
	if steak.Name != "Steak" {
		t.Errorf("expected English name, got %q", steak.Name)
	}
	if steak.FinalPrice != 24650 {
		t.Errorf("expected discounted price 24650, got %d", steak.FinalPrice)
	}
	if steak.Rating != 4.5 || steak.ReviewCount != 2 {
		t.Errorf("expected rating 4.5 from 2 reviews, got %v from %d", steak.Rating, steak.ReviewCount)
	}

	if svc.Render(ctx, nil, locale.EN, menu.Options{}) != nil {
		t.Error("expected nil view for nil board")
	}
}

func TestBoardService_ExportImport(t *testing.T) {
	svc, repo, _ := newBoardService(t)
	ctx := context.Background()
	testutil.SeedBoard(t, repo, "b2", "alice")
	testutil.SeedBoard(t, repo, "b1", "alice")
	testutil.SeedBoard(t, repo, "b3", "bob")

	exported, err := svc.Export(ctx, "alice")
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if len(exported) != 2 || exported[0].ID != "b1" || exported[1].ID != "b2" {
		t.Fatalf("expected alice's boards sorted by ID, got %d", len(exported))
	}

	// The same boards imported by another owner are copied under new IDs
	result, err := svc.Import(ctx, "carol", exported)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Created != 2 || result.Updated != 0 {
		t.Errorf("expected 2 created, got %+v", result)
	}
	carols, _ := svc.List(ctx, "carol")
	if len(carols) != 2 {
		t.Fatalf("expected carol to own 2 boards, got %d", len(carols))
	}
	for _, s := range carols {
		if s.ID == "b1" || s.ID == "b2" {
			t.Errorf("expected a fresh ID, got %s", s.ID)
		}
	}
	if _, err := svc.Get(ctx, "alice", "b1"); err != nil {
		t.Errorf("original board should be untouched: %v", err)
	}

	// Re-importing her own export updates in place
	again, _ := svc.Export(ctx, "alice")
	result, err = svc.Import(ctx, "alice", again)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Created != 0 || result.Updated != 2 {
		t.Errorf("expected 2 updated, got %+v", result)
	}
}

func TestBoardService_Import_InvalidBoardReported(t *testing.T) {
	svc, _, _ := newBoardService(t)

	boards := []models.Board{
		{ID: "ok", Title: locale.NewText("Good")},
		{ID: "bad", Title: locale.NewText(" ")},
	}
	result, err := svc.Import(context.Background(), "alice", boards)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Created != 1 {
		t.Errorf("expected 1 created, got %d", result.Created)
	}
	if len(result.Failed) != 1 || result.Failed[0].Index != 1 || result.Failed[0].ID != "bad" {
		t.Errorf("expected the blank-title board to fail, got %+v", result.Failed)
	}
}

func TestBoardService_Import_StorageErrorAborts(t *testing.T) {
	mockRepo := mock.NewRepository(testutil.NewTestRepository(t))
	svc := services.NewBoardService(logger.New(), mockRepo, nil)
	mockRepo.SaveBoardError = stderrors.New("disk full")

	_, err := svc.Import(context.Background(), "alice", []models.Board{{Title: locale.NewText("x")}})
	if err == nil {
		t.Fatal("expected storage error to abort the import")
	}
}

func TestBoardService_SeedSample(t *testing.T) {
	svc, _, _ := newBoardService(t)
	ctx := context.Background()

	ids, err := svc.SeedSample(ctx, "alice", 2)
	if err != nil {
		t.Fatalf("SeedSample failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 boards, got %d", len(ids))
	}
	for _, id := range ids {
		b, err := svc.Get(ctx, "alice", id)
		if err != nil {
			t.Fatalf("Get seeded board failed: %v", err)
		}
		if len(b.Sections) < 2 {
			t.Errorf("expected sample sections plus a generated one, got %d", len(b.Sections))
		}
		if len(b.Promotions) == 0 {
			t.Error("expected the sample promotion to be kept")
		}
	}

	for _, n := range []int{0, services.MaxSeedBoards + 1} {
		if _, err := svc.SeedSample(ctx, "alice", n); err != services.ErrInvalidSeedCount {
			t.Errorf("SeedSample(%d) = %v, want ErrInvalidSeedCount", n, err)
		}
	}
}

func TestBoardService_CreateSaveError(t *testing.T) {
	mockRepo := mock.NewRepository(testutil.NewTestRepository(t))
	svc := services.NewBoardService(logger.New(), mockRepo, nil)
	bc := &recordingBroadcaster{}
	svc.SetBroadcaster(bc)

	mockRepo.SaveBoardError = stderrors.New("database error")
	if _, err := svc.Create(context.Background(), "alice", nil); err == nil {
		t.Error("expected save error")
	}
	if bc.count() != 0 {
		t.Error("failed save should not broadcast")
	}
}

func TestBoardService_Snapshot(t *testing.T) {
	svc, repo, _ := newBoardService(t)
	ctx := context.Background()
	testutil.SeedBoard(t, repo, "b1", "alice")

	snap, err := svc.Snapshot(ctx, "b1")
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if snap.ItemCount() != 3 {
		t.Errorf("expected hidden item to be dropped, got %d items", snap.ItemCount())
	}

	stats, _ := svc.Stats(ctx, "alice", "b1")
	if stats.TotalViews != 0 {
		t.Errorf("Snapshot should not count a view, got %d", stats.TotalViews)
	}
	if _, err := svc.Snapshot(ctx, "missing"); !hasKind(err, errors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestBoardService_ImportWithProgress(t *testing.T) {
	svc, _, _ := newBoardService(t)

	boards := []models.Board{
		{Title: locale.NewText("One")},
		{Title: locale.NewText(" ")},
		{Title: locale.NewText("Three")},
	}
	calls := 0
	result, err := svc.ImportWithProgress(context.Background(), "alice", boards, func() { calls++ })
	if err != nil {
		t.Fatalf("ImportWithProgress failed: %v", err)
	}
	if calls != len(boards) {
		t.Errorf("expected progress for every board, got %d calls", calls)
	}
	if result.Created != 2 || len(result.Failed) != 1 {
		t.Errorf("expected 2 created and 1 failed, got %+v", result)
	}
}
