package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/models"
)

// fixedSource always picks the same catalog index.
type fixedSource int

func (s fixedSource) Intn(n int) int {
	return int(s) % n
}

func seedPrizes(t *testing.T, db *gorm.DB) []models.Prize {
	t.Helper()
	prizes := []models.Prize{
		{Name: "Cash 5", Type: models.PrizeTypeMoney, Amount: 5},
		{Name: "Bonus 10", Type: models.PrizeTypeBonus, Amount: 10},
		{Name: "Headphones", Type: models.PrizeTypePhysical},
		{Name: "Better luck next time", Type: models.PrizeTypeNothing},
	}
	for i := range prizes {
		if errCreate := db.Create(&prizes[i]).Error; errCreate != nil {
			t.Fatalf("create prize: %v", errCreate)
		}
	}
	return prizes
}

func newDrawHandler(db *gorm.DB, src fixedSource) *LuckyDrawHandler {
	handler := NewLuckyDrawHandler(db, testRecorder(db))
	handler.rng = src
	return handler
}

func grantChances(t *testing.T, db *gorm.DB, userID string, n int) {
	t.Helper()
	if errUpdate := db.Model(&models.User{}).Where("id = ?", userID).Update("lucky_draw_chances", n).Error; errUpdate != nil {
		t.Fatalf("grant chances: %v", errUpdate)
	}
}

func TestPlayCreditsMoneyPrize(t *testing.T) {
	db := setupHandlerDB(t)
	user := createTestUser(t, db, "ID:800001", "+15554001")
	seedPrizes(t, db)
	grantChances(t, db, user.ID, 2)
	handler := newDrawHandler(db, fixedSource(0))

	router := authRouter(user.ID, 0)
	router.POST("/play", handler.Play)

	req := httptest.NewRequest(http.MethodPost, "/play", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Prize struct {
			Name   string  `json:"name"`
			Type   string  `json:"type"`
			Amount float64 `json:"amount"`
		} `json:"prize"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &resp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if resp.Prize.Name != "Cash 5" || resp.Prize.Amount != 5 {
		t.Fatalf("unexpected prize: %+v", resp.Prize)
	}

	got := reloadUser(t, db, user.ID)
	if got.LuckyDrawChances != 1 {
		t.Fatalf("expected 1 chance left, got %d", got.LuckyDrawChances)
	}
	if got.Balance != testRules.SignupBonus+5 {
		t.Fatalf("expected balance %.2f, got %.2f", testRules.SignupBonus+5, got.Balance)
	}

	rows := userTransactions(t, db, user.ID)
	if len(rows) != 1 || rows[0].Type != models.TxTypeLuckyDraw || rows[0].Amount != 5 {
		t.Fatalf("unexpected ledger rows: %+v", rows)
	}
}

func TestPlayPhysicalPrizeOnlyConsumesChance(t *testing.T) {
	db := setupHandlerDB(t)
	user := createTestUser(t, db, "ID:800002", "+15554002")
	seedPrizes(t, db)
	grantChances(t, db, user.ID, 1)
	handler := newDrawHandler(db, fixedSource(2))

	router := authRouter(user.ID, 0)
	router.POST("/play", handler.Play)

	req := httptest.NewRequest(http.MethodPost, "/play", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	got := reloadUser(t, db, user.ID)
	if got.LuckyDrawChances != 0 {
		t.Fatalf("expected 0 chances, got %d", got.LuckyDrawChances)
	}
	if got.Balance != testRules.SignupBonus {
		t.Fatalf("expected untouched balance, got %.2f", got.Balance)
	}
	if rows := userTransactions(t, db, user.ID); len(rows) != 0 {
		t.Fatalf("expected no ledger rows for physical prize, got %d", len(rows))
	}
}

func TestPlayWithoutChances(t *testing.T) {
	db := setupHandlerDB(t)
	user := createTestUser(t, db, "ID:800003", "+15554003")
	seedPrizes(t, db)
	handler := newDrawHandler(db, fixedSource(0))

	router := authRouter(user.ID, 0)
	router.POST("/play", handler.Play)

	req := httptest.NewRequest(http.MethodPost, "/play", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	got := reloadUser(t, db, user.ID)
	if got.Balance != testRules.SignupBonus {
		t.Fatalf("expected untouched balance, got %.2f", got.Balance)
	}
}

func TestPlayEmptyCatalog(t *testing.T) {
	db := setupHandlerDB(t)
	user := createTestUser(t, db, "ID:800004", "+15554004")
	grantChances(t, db, user.ID, 1)
	handler := newDrawHandler(db, fixedSource(0))

	router := authRouter(user.ID, 0)
	router.POST("/play", handler.Play)

	req := httptest.NewRequest(http.MethodPost, "/play", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}

	// The chance is kept when the draw cannot resolve.
	got := reloadUser(t, db, user.ID)
	if got.LuckyDrawChances != 1 {
		t.Fatalf("expected chance kept, got %d", got.LuckyDrawChances)
	}
}

func TestCheckInGrantsChanceOncePerDay(t *testing.T) {
	db := setupHandlerDB(t)
	user := createTestUser(t, db, "ID:800005", "+15554005")
	handler := newDrawHandler(db, fixedSource(0))

	router := authRouter(user.ID, 0)
	router.POST("/check-in", handler.CheckIn)

	req := httptest.NewRequest(http.MethodPost, "/check-in", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	got := reloadUser(t, db, user.ID)
	if got.LuckyDrawChances != 1 {
		t.Fatalf("expected 1 chance after check-in, got %d", got.LuckyDrawChances)
	}

	req = httptest.NewRequest(http.MethodPost, "/check-in", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409 on second check-in, got %d", w.Code)
	}

	got = reloadUser(t, db, user.ID)
	if got.LuckyDrawChances != 1 {
		t.Fatalf("expected chances unchanged after duplicate, got %d", got.LuckyDrawChances)
	}
}
