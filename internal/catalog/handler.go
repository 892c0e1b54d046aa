package catalog

import (
	"net/http"

	"github.com/fastbite/party-service/internal/models"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) ListDishes(c *gin.Context) {
	dishes, err := h.repo.ListDishes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "fetch_failed",
			Message: "Failed to fetch menu",
		})
		return
	}

	c.JSON(http.StatusOK, dishes)
}
