package router

import (
	"net/http"

	potassium "github.com/bananalabs-oss/potassium/middleware"
	"github.com/fastbite/party-service/internal/catalog"
	"github.com/fastbite/party-service/internal/party"
	"github.com/gin-gonic/gin"
)

func Setup(partyHandler *party.Handler, menuHandler *catalog.Handler, jwtSecret string) *gin.Engine {
	r := gin.Default()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "party"})
	})

	// Menu browsing is public; identity is only needed for party ops.
	r.GET("/api/v1/menu", menuHandler.ListDishes)

	api := r.Group("/api/v1/party")
	api.Use(potassium.JWTAuth(potassium.JWTConfig{
		Secret: []byte(jwtSecret),
	}))
	{
		api.POST("/createParty", partyHandler.CreateParty)
		api.POST("/joinParty", partyHandler.JoinParty)
		api.GET("/getParty", partyHandler.GetParty)
		api.POST("/leave", partyHandler.LeaveParty)
		api.POST("/addToPartyCart", partyHandler.AddToPartyCart)
		api.POST("/removeFromPartyCart", partyHandler.RemoveFromPartyCart)
		api.POST("/clearPartyCart", partyHandler.ClearPartyCart)
		api.POST("/notifyCartUpdated", partyHandler.NotifyCartUpdated)
		api.GET("/events", partyHandler.PartyEvents)
	}

	return r
}
