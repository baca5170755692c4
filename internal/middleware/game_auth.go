package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tsukinami/ctf-platform-api/internal/constants"
	"github.com/tsukinami/ctf-platform-api/internal/database"
	apierrors "github.com/tsukinami/ctf-platform-api/internal/errors"
	"github.com/tsukinami/ctf-platform-api/internal/models"
)

// RequireGameAdmin checks that the current user administers the game in the
// URL. The loaded game is stored in the context for the handler.
func RequireGameAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		gameIDStr := c.Param("id")
		gameID, err := strconv.ParseUint(gameIDStr, 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid game ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		var game models.Game
		if err := database.GetDB().First(&game, gameID).Error; err != nil {
			apierrors.NotFound(c, "Game not found")
			c.Abort()
			return
		}

		if game.AdminID != userID {
			apierrors.Forbidden(c, "Only the game admin can perform this action")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyGame, game)
		c.Next()
	}
}

// GetGame retrieves the game loaded by RequireGameAdmin from context
func GetGame(c *gin.Context) (models.Game, bool) {
	gameInterface, exists := c.Get(constants.ContextKeyGame)
	if !exists {
		return models.Game{}, false
	}

	game, ok := gameInterface.(models.Game)
	return game, ok
}
