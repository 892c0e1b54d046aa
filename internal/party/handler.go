package party

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fastbite/party-service/internal/models"
	"github.com/fastbite/party-service/internal/notify"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	service   *Service
	cart      *CartService
	notifier  *notify.RedisNotifier
	publicURL string
}

func NewHandler(service *Service, cart *CartService, notifier *notify.RedisNotifier, publicURL string) *Handler {
	return &Handler{service: service, cart: cart, notifier: notifier, publicURL: publicURL}
}

func getAccountID(c *gin.Context) uuid.UUID {
	return uuid.MustParse(c.GetString("account_id"))
}

func (h *Handler) CreateParty(c *gin.Context) {
	ctx := c.Request.Context()
	accountID := getAccountID(c)

	var req struct {
		TableID int `json:"tableId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "tableId is required",
		})
		return
	}

	party, err := h.service.CreateParty(ctx, accountID, req.TableID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "create_failed",
			Message: "Failed to create party",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"partyId":   party.PartyID,
		"partyCode": party.PartyCode,
		"tableId":   party.TableID,
		"memberIds": party.MemberIDs,
		"partyLink": fmt.Sprintf("%s/join?code=%s", h.publicURL, party.PartyCode),
	})
}

func (h *Handler) JoinParty(c *gin.Context) {
	ctx := c.Request.Context()
	accountID := getAccountID(c)

	var req struct {
		PartyCode string `json:"partyCode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "partyCode is required",
		})
		return
	}

	party, err := h.service.JoinParty(ctx, req.PartyCode, accountID)
	if errors.Is(err, ErrPartyNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "invalid_code",
			Message: "Invalid party code",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "join_failed",
			Message: "Failed to join party, check the code and retry",
		})
		return
	}

	c.JSON(http.StatusOK, party)
}

// GetParty returns the party together with its cart view, so one fetch
// is enough to reconcile after a missed broadcast.
func (h *Handler) GetParty(c *gin.Context) {
	ctx := c.Request.Context()

	partyID, err := uuid.Parse(c.Query("partyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid party ID",
		})
		return
	}

	party, err := h.service.GetParty(ctx, partyID)
	if errors.Is(err, ErrPartyNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Party not found",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "fetch_failed",
			Message: "Failed to fetch party",
		})
		return
	}

	view, err := h.cart.GetCart(ctx, partyID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "fetch_failed",
			Message: "Failed to fetch party cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"partyId":    party.PartyID,
		"partyCode":  party.PartyCode,
		"tableId":    party.TableID,
		"memberIds":  party.MemberIDs,
		"orderItems": view.OrderItems,
		"items":      view.Items,
	})
}

func (h *Handler) LeaveParty(c *gin.Context) {
	ctx := c.Request.Context()
	accountID := getAccountID(c)

	var req struct {
		PartyID uuid.UUID `json:"partyId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "partyId is required",
		})
		return
	}

	ok, err := h.service.LeaveParty(ctx, req.PartyID, accountID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "leave_failed",
			Message: "Failed to leave party",
		})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "party_not_found",
			Message: "Party not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Left party"})
}

func (h *Handler) AddToPartyCart(c *gin.Context) {
	ctx := c.Request.Context()

	var req struct {
		PartyID   uuid.UUID `json:"partyId" binding:"required"`
		ProductID int64     `json:"productId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "partyId and productId are required",
		})
		return
	}

	err := h.cart.AddItem(ctx, req.PartyID, req.ProductID)
	if errors.Is(err, ErrPartyNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Party not found",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "add_failed",
			Message: "Failed to add item to party cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item added"})
}

func (h *Handler) RemoveFromPartyCart(c *gin.Context) {
	ctx := c.Request.Context()

	var req struct {
		PartyID   uuid.UUID `json:"partyId" binding:"required"`
		ProductID int64     `json:"productId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "partyId and productId are required",
		})
		return
	}

	err := h.cart.RemoveItem(ctx, req.PartyID, req.ProductID)
	if errors.Is(err, ErrPartyNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Party not found",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "remove_failed",
			Message: "Failed to remove item from party cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item removed"})
}

func (h *Handler) ClearPartyCart(c *gin.Context) {
	ctx := c.Request.Context()

	var req struct {
		PartyID uuid.UUID `json:"partyId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "partyId is required",
		})
		return
	}

	err := h.cart.Clear(ctx, req.PartyID)
	if errors.Is(err, ErrPartyNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Party not found",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "clear_failed",
			Message: "Failed to clear party cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// NotifyCartUpdated lets a client ping the rest of its group to
// re-fetch, mirroring the hub method the web clients invoke directly.
func (h *Handler) NotifyCartUpdated(c *gin.Context) {
	ctx := c.Request.Context()

	var req struct {
		PartyID uuid.UUID `json:"partyId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_request",
			Message: "partyId is required",
		})
		return
	}

	if err := h.notifier.PartyCartUpdated(ctx, req.PartyID); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:   "notify_failed",
			Message: "Failed to notify party group",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Group notified"})
}

// PartyEvents streams the party's group broadcasts over SSE. Opening
// the stream joins the group; closing the connection leaves it.
func (h *Handler) PartyEvents(c *gin.Context) {
	ctx := c.Request.Context()

	partyID, err := uuid.Parse(c.Query("partyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "invalid_id",
			Message: "Invalid party ID",
		})
		return
	}

	if _, err := h.service.GetParty(ctx, partyID); err != nil {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "not_found",
			Message: "Party not found",
		})
		return
	}

	events, leave := h.notifier.Subscribe(ctx, partyID)
	defer leave()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(ev.Type, ev.PartyID)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
