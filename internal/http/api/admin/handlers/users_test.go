package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wealthora/backend/internal/models"
)

func TestAdjustBalanceWritesLedgerEntry(t *testing.T) {
	db := setupAdminDB(t)
	admin := createTestAdmin(t, db, "root")
	user := createEndUser(t, db, "ID:110001", "+15557001", 100)
	handler := NewUserHandler(db, testRecorder(db))

	router := adminRouter(admin)
	router.POST("/users/:id/balance", handler.AdjustBalance)

	body := `{"amount":-40,"description":"Chargeback"}`
	req := httptest.NewRequest(http.MethodPost, "/users/"+user.ID+"/balance", strings.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var got models.User
	if errFind := db.First(&got, "id = ?", user.ID).Error; errFind != nil {
		t.Fatalf("reload user: %v", errFind)
	}
	if got.Balance != 60 {
		t.Fatalf("expected balance 60, got %.2f", got.Balance)
	}

	var rows []models.Transaction
	if errFind := db.Where("user_id = ?", user.ID).Find(&rows).Error; errFind != nil {
		t.Fatalf("list transactions: %v", errFind)
	}
	if len(rows) != 1 || rows[0].Type != models.TxTypeAdjustment || rows[0].Amount != -40 {
		t.Fatalf("unexpected ledger rows: %+v", rows)
	}
	if rows[0].Description != "Chargeback" {
		t.Fatalf("expected description kept, got %q", rows[0].Description)
	}
}

func TestAdjustBalanceRejectsOverdraw(t *testing.T) {
	db := setupAdminDB(t)
	admin := createTestAdmin(t, db, "root")
	user := createEndUser(t, db, "ID:110002", "+15557002", 20)
	handler := NewUserHandler(db, testRecorder(db))

	router := adminRouter(admin)
	router.POST("/users/:id/balance", handler.AdjustBalance)

	req := httptest.NewRequest(http.MethodPost, "/users/"+user.ID+"/balance", strings.NewReader(`{"amount":-50}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}

	var got models.User
	if errFind := db.First(&got, "id = ?", user.ID).Error; errFind != nil {
		t.Fatalf("reload user: %v", errFind)
	}
	if got.Balance != 20 {
		t.Fatalf("expected untouched balance, got %.2f", got.Balance)
	}
}

func TestBlockAndActivate(t *testing.T) {
	db := setupAdminDB(t)
	admin := createTestAdmin(t, db, "root")
	user := createEndUser(t, db, "ID:110003", "+15557003", 30)
	handler := NewUserHandler(db, testRecorder(db))

	router := adminRouter(admin)
	router.POST("/users/:id/block", handler.Block)
	router.POST("/users/:id/activate", handler.Activate)

	req := httptest.NewRequest(http.MethodPost, "/users/"+user.ID+"/block", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	var got models.User
	db.First(&got, "id = ?", user.ID)
	if got.IsActive {
		t.Fatal("expected user blocked")
	}

	req = httptest.NewRequest(http.MethodPost, "/users/"+user.ID+"/activate", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	db.First(&got, "id = ?", user.ID)
	if !got.IsActive {
		t.Fatal("expected user reactivated")
	}

	// Audit entries carry the acting admin.
	var entries []models.ActivityLogEntry
	if errFind := db.Where("actor = ?", admin.Username).Find(&entries).Error; errFind != nil {
		t.Fatalf("list activity: %v", errFind)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(entries))
	}
}

func TestUserListSearch(t *testing.T) {
	db := setupAdminDB(t)
	admin := createTestAdmin(t, db, "root")
	createEndUser(t, db, "ID:110004", "+15557004", 30)
	other := createEndUser(t, db, "ID:110005", "+15557005", 30)
	if errUpdate := db.Model(&models.User{}).Where("id = ?", other.ID).Update("name", "Findable Person").Error; errUpdate != nil {
		t.Fatalf("name user: %v", errUpdate)
	}
	handler := NewUserHandler(db, testRecorder(db))

	router := adminRouter(admin)
	router.GET("/users", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/users?q=findable", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Users []struct {
			ID string `json:"id"`
		} `json:"users"`
		Total int64 `json:"total"`
	}
	if errDecode := json.Unmarshal(w.Body.Bytes(), &resp); errDecode != nil {
		t.Fatalf("decode response: %v", errDecode)
	}
	if resp.Total != 1 || len(resp.Users) != 1 || resp.Users[0].ID != other.ID {
		t.Fatalf("unexpected search result: %+v", resp)
	}
}

func TestGrantChances(t *testing.T) {
	db := setupAdminDB(t)
	admin := createTestAdmin(t, db, "root")
	user := createEndUser(t, db, "ID:110006", "+15557006", 30)
	handler := NewUserHandler(db, testRecorder(db))

	router := adminRouter(admin)
	router.POST("/users/:id/lucky-draw-chances", handler.GrantChances)

	req := httptest.NewRequest(http.MethodPost, "/users/"+user.ID+"/lucky-draw-chances", strings.NewReader(`{"count":3}`))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var got models.User
	db.First(&got, "id = ?", user.ID)
	if got.LuckyDrawChances != 3 {
		t.Fatalf("expected 3 chances, got %d", got.LuckyDrawChances)
	}
}

func TestDeleteUserRemovesDependents(t *testing.T) {
	db := setupAdminDB(t)
	admin := createTestAdmin(t, db, "root")
	user := createEndUser(t, db, "ID:110007", "+15557007", 30)
	db.Create(&models.Transaction{UserID: user.ID, RefID: "r", Type: models.TxTypeBonus, Amount: 30})
	db.Create(&models.Investment{UserID: user.ID, PlanID: 1, Quantity: 1, InvestedAmount: 10, Duration: 30})
	handler := NewUserHandler(db, testRecorder(db))

	router := adminRouter(admin)
	router.DELETE("/users/:id", handler.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/users/"+user.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var users, txs, invs int64
	db.Model(&models.User{}).Where("id = ?", user.ID).Count(&users)
	db.Model(&models.Transaction{}).Where("user_id = ?", user.ID).Count(&txs)
	db.Model(&models.Investment{}).Where("user_id = ?", user.ID).Count(&invs)
	if users != 0 || txs != 0 || invs != 0 {
		t.Fatalf("expected all rows gone, got users=%d txs=%d invs=%d", users, txs, invs)
	}
}
