package handlers

import (
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/activity"
	"github.com/wealthora/backend/internal/ledger"
	"github.com/wealthora/backend/internal/luckydraw"
	"github.com/wealthora/backend/internal/models"
	"github.com/wealthora/backend/internal/util"
)

// LuckyDrawHandler handles wheel plays and daily check-ins.
type LuckyDrawHandler struct {
	db       *gorm.DB
	rng      luckydraw.Source
	recorder *activity.Recorder
}

// NewLuckyDrawHandler constructs a LuckyDrawHandler with the default random
// source.
func NewLuckyDrawHandler(db *gorm.DB, recorder *activity.Recorder) *LuckyDrawHandler {
	return &LuckyDrawHandler{
		db:       db,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		recorder: recorder,
	}
}

// errNoChances aborts a play transaction without side effects.
var errNoChances = errors.New("no chances left")

// Prizes returns the wheel catalog.
func (h *LuckyDrawHandler) Prizes(c *gin.Context) {
	var prizes []models.Prize
	if errFind := h.db.WithContext(c.Request.Context()).Order("id ASC").Find(&prizes).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"prizes": prizes})
}

// Play consumes one chance and resolves a prize. Money and bonus prizes
// credit the balance and log a transaction; physical and nothing prizes only
// consume the chance.
func (h *LuckyDrawHandler) Play(c *gin.Context) {
	userID := getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var won models.Prize
	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if errUser := tx.First(&user, "id = ?", userID).Error; errUser != nil {
			return errUser
		}
		if user.LuckyDrawChances <= 0 {
			return errNoChances
		}

		var prizes []models.Prize
		if errPrizes := tx.Order("id ASC").Find(&prizes).Error; errPrizes != nil {
			return errPrizes
		}
		prize, errDraw := luckydraw.Draw(prizes, h.rng)
		if errDraw != nil {
			return errDraw
		}
		won = prize

		updates := map[string]any{
			"lucky_draw_chances": gorm.Expr("lucky_draw_chances - 1"),
		}
		if luckydraw.CreditsBalance(prize) {
			updates["balance"] = gorm.Expr("balance + ?", prize.Amount)
		}
		if errUpdate := tx.Model(&user).Updates(updates).Error; errUpdate != nil {
			return errUpdate
		}

		if luckydraw.CreditsBalance(prize) {
			description := fmt.Sprintf("Lucky draw prize: %s", prize.Name)
			return ledger.Append(tx, userID, models.TxTypeLuckyDraw, prize.Amount, description)
		}
		return nil
	})
	if errTx != nil {
		switch {
		case errors.Is(errTx, errNoChances):
			c.JSON(http.StatusBadRequest, gin.H{"error": "no lucky draw chances left"})
		case errors.Is(errTx, luckydraw.ErrEmptyCatalog):
			c.JSON(http.StatusConflict, gin.H{"error": "no prizes configured"})
		default:
			log.WithError(errTx).WithField("user", userID).Error("lucky draw failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "lucky draw failed"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"prize": gin.H{
			"id":     won.ID,
			"name":   won.Name,
			"type":   won.Type,
			"amount": won.Amount,
		},
	})
}

// CheckIn records today's check-in and grants one wheel chance. A second
// check-in on the same day fails without state change.
func (h *LuckyDrawHandler) CheckIn(c *gin.Context) {
	userID := getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	day := util.DayKey(time.Now())
	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var count int64
		if errCount := tx.Model(&models.DailyCheckIn{}).
			Where("user_id = ? AND day = ?", userID, day).
			Count(&count).Error; errCount != nil {
			return errCount
		}
		if count > 0 {
			return errAlreadyCheckedIn
		}
		if errCreate := tx.Create(&models.DailyCheckIn{UserID: userID, Day: day}).Error; errCreate != nil {
			return errCreate
		}
		return tx.Model(&models.User{}).Where("id = ?", userID).
			Update("lucky_draw_chances", gorm.Expr("lucky_draw_chances + 1")).Error
	})
	if errTx != nil {
		if errors.Is(errTx, errAlreadyCheckedIn) {
			c.JSON(http.StatusConflict, gin.H{"error": "already checked in today"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "check-in failed"})
		return
	}

	h.recorder.Record(c.Request.Context(), models.ActorUser, userID, "user.check_in", day)
	c.JSON(http.StatusOK, gin.H{"ok": true, "day": day})
}

// errAlreadyCheckedIn aborts a duplicate same-day check-in.
var errAlreadyCheckedIn = errors.New("already checked in")
