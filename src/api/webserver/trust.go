package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/savia-platform/savia-ledger/src/shared/ledger"
)

type Trust struct {
	eng *ledger.Engine
}

func NewTrust(eng *ledger.Engine) Trust {
	return Trust{eng: eng}
}

// Create opens the caller's own trust record; the address comes from the
// token, not the body.
func (h Trust) Create(c *gin.Context) {
	addr := c.GetString("addr")
	if err := h.eng.CreateTrustScore(c.Request.Context(), ledger.Address(addr)); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"entity": addr})
}

func (h Trust) Get(c *gin.Context) {
	addr := c.Param("address")
	score, err := h.eng.GetTrustScore(c.Request.Context(), ledger.Address(addr))
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	if score == nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "trust score not found"})
		return
	}
	c.JSON(http.StatusOK, score)
}
