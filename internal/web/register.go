package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/member-portal/internal/storage"
)

// VisitorStore は一般ユーザー登録の保存先です。
type VisitorStore interface {
	Add(ctx context.Context, r *storage.Registration) error
}

type registerRequest struct {
	Name  string `json:"name" form:"name" binding:"required"`
	Email string `json:"email" form:"email" binding:"required"`
}

// RegisterHandler は POST /normal/register のハンドラーを返します。
func RegisterHandler(visitors VisitorStore, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "Invalid input data",
			})
			return
		}

		ctx := c.Request.Context()
		reg := &storage.Registration{Name: req.Name, Email: req.Email}
		if err := visitors.Add(ctx, reg); err != nil {
			if errors.Is(err, storage.ErrInvalidRegistration) {
				c.JSON(http.StatusBadRequest, gin.H{
					"code":    "INVALID_INPUT",
					"message": "Invalid input data",
				})
				return
			}
			logger.ErrorContext(ctx, "visitor registration failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "internal server error",
			})
			return
		}

		logger.InfoContext(ctx, "visitor registered", "id", reg.ID)
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome, " + reg.Name + "!",
		})
	}
}
