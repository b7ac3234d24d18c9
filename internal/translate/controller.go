package translate

import (
	"context"
	"errors"
	"net/http"

	"academy-api/internal/util"

	"github.com/gin-gonic/gin"
)

type SuggesterAPI interface {
	Suggest(ctx context.Context, in SuggestInput) (map[string]Suggestion, error)
}

type TranslateController struct {
	Suggester SuggesterAPI
}

func (tc *TranslateController) Suggest(c *gin.Context) {
	var in SuggestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	out, err := tc.Suggester.Suggest(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
			return
		}
		if _, ok := util.AsFieldError(err); ok {
			c.JSON(util.ErrorResponse(err))
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}
