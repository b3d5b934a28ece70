package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/savia-platform/savia-ledger/src/shared/ledger"
)

type Campaigns struct {
	eng       *ledger.Engine
	sanitizer *bluemonday.Policy
}

func NewCampaigns(eng *ledger.Engine) Campaigns {
	return Campaigns{eng: eng, sanitizer: bluemonday.StrictPolicy()}
}

func (h Campaigns) Create(c *gin.Context) {
	var req struct {
		Beneficiary  string `json:"beneficiary" binding:"required"`
		Title        string `json:"title" binding:"required"`
		Description  string `json:"description" binding:"required"`
		GoalAmount   uint64 `json:"goalAmount" binding:"required"`
		DurationDays uint64 `json:"durationDays" binding:"required"`
		Category     string `json:"category"`
		Location     string `json:"location"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	id, err := h.eng.CreateCampaign(c.Request.Context(), ledger.CreateCampaignParams{
		Beneficiary:  ledger.Address(req.Beneficiary),
		Title:        h.sanitizer.Sanitize(req.Title),
		Description:  h.sanitizer.Sanitize(req.Description),
		GoalAmount:   req.GoalAmount,
		DurationDays: req.DurationDays,
		Category:     h.sanitizer.Sanitize(req.Category),
		Location:     h.sanitizer.Sanitize(req.Location),
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

func (h Campaigns) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	campaign, err := h.eng.GetCampaign(c.Request.Context(), id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	if campaign == nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "campaign not found"})
		return
	}
	c.JSON(http.StatusOK, campaign)
}

func (h Campaigns) Donations(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ids, err := h.eng.GetDonationsByCampaign(c.Request.Context(), id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	out := make([]string, 0, len(ids))
	for _, d := range ids {
		out = append(out, d.String())
	}
	c.JSON(http.StatusOK, gin.H{"donations": out})
}

func (h Campaigns) Verify(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		TrustScore uint32 `json:"trustScore" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if err := h.eng.VerifyCampaign(c.Request.Context(), id, req.TrustScore); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id.String(), "verified": true})
}

func (h Campaigns) Close(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.eng.CloseCampaign(c.Request.Context(), id); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id.String(), "active": false})
}

func (h Campaigns) ByBeneficiary(c *gin.Context) {
	addr := c.Param("address")
	ids, err := h.eng.GetCampaignsByBeneficiary(c.Request.Context(), ledger.Address(addr))
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	c.JSON(http.StatusOK, gin.H{"campaigns": out})
}
