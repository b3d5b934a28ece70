package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/savia-platform/savia-ledger/src/shared/ledger"
)

type Donations struct {
	eng *ledger.Engine
}

func NewDonations(eng *ledger.Engine) Donations {
	return Donations{eng: eng}
}

func (h Donations) Create(c *gin.Context) {
	var req struct {
		CampaignID string `json:"campaignId" binding:"required"`
		Donor      string `json:"donor" binding:"required"`
		Amount     uint64 `json:"amount" binding:"required"`
		Anonymous  bool   `json:"anonymous"`
		MintNft    bool   `json:"mintNft"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	campaignID, err := ledger.ParseID(req.CampaignID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad campaignId"})
		return
	}

	id, err := h.eng.Donate(c.Request.Context(), ledger.DonateParams{
		CampaignID: campaignID,
		Donor:      ledger.Address(req.Donor),
		Amount:     req.Amount,
		Anonymous:  req.Anonymous,
		MintNFT:    req.MintNft,
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

func (h Donations) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	donation, err := h.eng.GetDonation(c.Request.Context(), id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	if donation == nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "donation not found"})
		return
	}
	// Anonymous donations stay anonymous to everyone but the donor.
	if donation.Anonymous && c.GetString("addr") != string(donation.Donor) {
		donation.Donor = ""
	}
	c.JSON(http.StatusOK, donation)
}
