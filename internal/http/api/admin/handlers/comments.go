package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wealthora/backend/internal/models"
)

// CommentHandler handles testimonial management endpoints.
type CommentHandler struct {
	db *gorm.DB
}

// NewCommentHandler constructs a CommentHandler.
func NewCommentHandler(db *gorm.DB) *CommentHandler {
	return &CommentHandler{db: db}
}

// commentRequest defines the request body for creating or updating a comment.
type commentRequest struct {
	Author string `json:"author"`
	Body   string `json:"body"`
	Rating int    `json:"rating"`
}

// validate checks required fields and clamps the rating.
func (r *commentRequest) validate() error {
	r.Author = strings.TrimSpace(r.Author)
	r.Body = strings.TrimSpace(r.Body)
	if r.Author == "" || r.Body == "" {
		return errors.New("author and body are required")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return errors.New("rating must be between 1 and 5")
	}
	return nil
}

// List returns all comments, newest first.
func (h *CommentHandler) List(c *gin.Context) {
	var comments []models.Comment
	if errFind := h.db.WithContext(c.Request.Context()).Order("created_at DESC").Find(&comments).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list comments failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// Create adds a comment.
func (h *CommentHandler) Create(c *gin.Context) {
	var body commentRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if errValidate := body.validate(); errValidate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidate.Error()})
		return
	}

	comment := models.Comment{Author: body.Author, Body: body.Body, Rating: body.Rating}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&comment).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create comment failed"})
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// Update edits a comment in place.
func (h *CommentHandler) Update(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var body commentRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if errValidate := body.validate(); errValidate != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errValidate.Error()})
		return
	}

	var comment models.Comment
	if errFind := h.db.WithContext(c.Request.Context()).First(&comment, id).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}
	comment.Author = body.Author
	comment.Body = body.Body
	comment.Rating = body.Rating
	if errSave := h.db.WithContext(c.Request.Context()).Save(&comment).Error; errSave != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update comment failed"})
		return
	}
	c.JSON(http.StatusOK, comment)
}

// Delete removes a comment.
func (h *CommentHandler) Delete(c *gin.Context) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	result := h.db.WithContext(c.Request.Context()).Delete(&models.Comment{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete comment failed"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "comment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
