package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/savia-platform/savia-ledger/src/shared/ledger"
)

type Platform struct {
	eng *ledger.Engine
}

func NewPlatform(eng *ledger.Engine) Platform {
	return Platform{eng: eng}
}

func (h Platform) Initialize(c *gin.Context) {
	var req struct {
		Admin          string `json:"admin" binding:"required"`
		PlatformFeeBps uint64 `json:"platformFeeBps"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if err := h.eng.Initialize(c.Request.Context(), ledger.Address(req.Admin), req.PlatformFeeBps); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"admin": req.Admin, "platformFeeBps": req.PlatformFeeBps})
}

func (h Platform) Stats(c *gin.Context) {
	stats, err := h.eng.GetStats(c.Request.Context())
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
