package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/models"
	"github.com/wealthora/backend/internal/returns"
)

func createTestPlan(t *testing.T, db *gorm.DB) models.InvestmentPlan {
	t.Helper()
	plan := models.InvestmentPlan{
		Name:          "Gold-1",
		MinInvestment: 10,
		DailyReturn:   2,
		Duration:      30,
		Category:      "gold",
	}
	if errCreate := db.Create(&plan).Error; errCreate != nil {
		t.Fatalf("create plan: %v", errCreate)
	}
	return plan
}

func TestInvestDebitsBalanceAndAggregates(t *testing.T) {
	db := setupHandlerDB(t)
	user := createTestUser(t, db, "ID:600001", "+15552001")
	plan := createTestPlan(t, db)
	handler := NewInvestHandler(db)

	router := authRouter(user.ID, 0)
	router.POST("/invest", handler.Invest)

	body := `{"plan_id":` + jsonUint(plan.ID) + `,"quantity":2}`
	req := httptest.NewRequest(http.MethodPost, "/invest", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	got := reloadUser(t, db, user.ID)
	if got.Balance != testRules.SignupBonus-20 {
		t.Fatalf("expected balance %.2f, got %.2f", testRules.SignupBonus-20, got.Balance)
	}

	var investment models.Investment
	if errFind := db.Where("user_id = ? AND plan_id = ?", user.ID, plan.ID).First(&investment).Error; errFind != nil {
		t.Fatalf("load investment: %v", errFind)
	}
	if investment.Quantity != 2 || investment.InvestedAmount != 20 || investment.DailyEarnings != 4 {
		t.Fatalf("unexpected investment aggregate: %+v", investment)
	}
	if investment.Duration != plan.Duration {
		t.Fatalf("expected duration %d, got %d", plan.Duration, investment.Duration)
	}

	// A second purchase sums into the same row.
	req = httptest.NewRequest(http.MethodPost, "/invest", strings.NewReader(`{"plan_id":`+jsonUint(plan.ID)+`,"quantity":1}`))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var count int64
	if errCount := db.Model(&models.Investment{}).Where("user_id = ?", user.ID).Count(&count).Error; errCount != nil {
		t.Fatalf("count investments: %v", errCount)
	}
	if count != 1 {
		t.Fatalf("expected one aggregate row, got %d", count)
	}
	if errFind := db.Where("user_id = ? AND plan_id = ?", user.ID, plan.ID).First(&investment).Error; errFind != nil {
		t.Fatalf("reload investment: %v", errFind)
	}
	if investment.Quantity != 3 || investment.InvestedAmount != 30 || investment.DailyEarnings != 6 {
		t.Fatalf("unexpected aggregate after repeat purchase: %+v", investment)
	}

	rows := userTransactions(t, db, user.ID)
	if len(rows) != 2 {
		t.Fatalf("expected 2 ledger rows, got %d", len(rows))
	}
	if rows[0].Type != models.TxTypeInvestment || rows[0].Amount != -20 {
		t.Fatalf("unexpected first ledger row: %+v", rows[0])
	}
	if !strings.Contains(rows[0].Description, "Gold-1") {
		t.Fatalf("expected plan name in description, got %q", rows[0].Description)
	}
}

func TestInvestInsufficientBalanceLeavesStateUntouched(t *testing.T) {
	db := setupHandlerDB(t)
	user := createTestUser(t, db, "ID:600002", "+15552002")
	plan := createTestPlan(t, db)
	handler := NewInvestHandler(db)

	router := authRouter(user.ID, 0)
	router.POST("/invest", handler.Invest)

	// 30 balance cannot cover 10 * 4.
	req := httptest.NewRequest(http.MethodPost, "/invest", strings.NewReader(`{"plan_id":`+jsonUint(plan.ID)+`,"quantity":4}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	got := reloadUser(t, db, user.ID)
	if got.Balance != testRules.SignupBonus {
		t.Fatalf("expected untouched balance, got %.2f", got.Balance)
	}
	var count int64
	db.Model(&models.Investment{}).Where("user_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected no investment rows, got %d", count)
	}
	if rows := userTransactions(t, db, user.ID); len(rows) != 0 {
		t.Fatalf("expected no ledger rows, got %d", len(rows))
	}
}

func TestInvestUnknownPlan(t *testing.T) {
	db := setupHandlerDB(t)
	user := createTestUser(t, db, "ID:600003", "+15552003")
	handler := NewInvestHandler(db)

	router := authRouter(user.ID, 0)
	router.POST("/invest", handler.Invest)

	req := httptest.NewRequest(http.MethodPost, "/invest", strings.NewReader(`{"plan_id":999,"quantity":1}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestInvestAfterMaturityReopensPayoutWindow(t *testing.T) {
	db := setupHandlerDB(t)
	user := createTestUser(t, db, "ID:600005", "+15552005")
	plan := createTestPlan(t, db)
	handler := NewInvestHandler(db)

	// Fully paid-out aggregate from earlier purchases.
	matured := models.Investment{
		UserID:         user.ID,
		PlanID:         plan.ID,
		Quantity:       3,
		InvestedAmount: 30,
		DailyEarnings:  6,
		DaysPaid:       plan.Duration,
		Duration:       plan.Duration,
	}
	if errCreate := db.Create(&matured).Error; errCreate != nil {
		t.Fatalf("create investment: %v", errCreate)
	}

	router := authRouter(user.ID, 0)
	router.POST("/invest", handler.Invest)

	req := httptest.NewRequest(http.MethodPost, "/invest", strings.NewReader(`{"plan_id":`+jsonUint(plan.ID)+`,"quantity":1}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var investment models.Investment
	if errFind := db.Where("user_id = ? AND plan_id = ?", user.ID, plan.ID).First(&investment).Error; errFind != nil {
		t.Fatalf("reload investment: %v", errFind)
	}
	if investment.Duration != plan.Duration*2 {
		t.Fatalf("expected payout window extended to %d, got %d", plan.Duration*2, investment.Duration)
	}
	if investment.DaysPaid >= investment.Duration {
		t.Fatalf("expected reopened window, got days_paid %d duration %d", investment.DaysPaid, investment.Duration)
	}

	// The new unit earns on the next accrual run.
	balanceBefore := reloadUser(t, db, user.ID).Balance
	scheduler := returns.NewScheduler(db)
	if errAccrue := scheduler.Accrue(context.Background()); errAccrue != nil {
		t.Fatalf("accrue: %v", errAccrue)
	}
	got := reloadUser(t, db, user.ID)
	if got.Balance != balanceBefore+8 {
		t.Fatalf("expected balance %.2f after accrual, got %.2f", balanceBefore+8, got.Balance)
	}
	if errFind := db.Where("user_id = ? AND plan_id = ?", user.ID, plan.ID).First(&investment).Error; errFind != nil {
		t.Fatalf("reload investment: %v", errFind)
	}
	if investment.DaysPaid != plan.Duration+1 {
		t.Fatalf("expected days_paid %d, got %d", plan.Duration+1, investment.DaysPaid)
	}
}

func TestOrdersIncludePlanNames(t *testing.T) {
	db := setupHandlerDB(t)
	user := createTestUser(t, db, "ID:600004", "+15552004")
	plan := createTestPlan(t, db)
	handler := NewInvestHandler(db)

	investment := models.Investment{
		UserID:         user.ID,
		PlanID:         plan.ID,
		Quantity:       1,
		InvestedAmount: 10,
		DailyEarnings:  2,
		Duration:       plan.Duration,
	}
	if errCreate := db.Create(&investment).Error; errCreate != nil {
		t.Fatalf("create investment: %v", errCreate)
	}

	router := authRouter(user.ID, 0)
	router.GET("/orders", handler.Orders)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Orders []struct {
			PlanName string `json:"plan_name"`
			Quantity int    `json:"quantity"`
		} `json:"orders"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &resp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if len(resp.Orders) != 1 || resp.Orders[0].PlanName != "Gold-1" {
		t.Fatalf("unexpected orders payload: %+v", resp.Orders)
	}
}

// jsonUint renders an ID for inline JSON bodies.
func jsonUint(v uint64) string {
	return strconv.FormatUint(v, 10)
}
