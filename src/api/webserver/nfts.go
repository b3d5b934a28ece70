package webserver

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/savia-platform/savia-ledger/src/shared/badgeart"
	"github.com/savia-platform/savia-ledger/src/shared/ledger"
)

type NFTs struct {
	eng *ledger.Engine
}

func NewNFTs(eng *ledger.Engine) NFTs {
	return NFTs{eng: eng}
}

// fetch loads the badge for the :id parameter. It writes the error response
// itself and returns nil when the request cannot proceed.
func (h NFTs) fetch(c *gin.Context) *ledger.NFTBadge {
	id, ok := pathID(c)
	if !ok {
		return nil
	}
	badge, err := h.eng.GetNFT(c.Request.Context(), id)
	if err != nil {
		respondLedgerError(c, err)
		return nil
	}
	if badge == nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "nft not found"})
		return nil
	}
	return badge
}

func (h NFTs) Get(c *gin.Context) {
	badge := h.fetch(c)
	if badge == nil {
		return
	}
	c.JSON(http.StatusOK, badge)
}

// Metadata serves the JSON document the badge's metadata URI points at.
func (h NFTs) Metadata(c *gin.Context) {
	badge := h.fetch(c)
	if badge == nil {
		return
	}
	campaign := ""
	if badge.CampaignID != nil {
		campaign = badge.CampaignID.String()
	}
	c.JSON(http.StatusOK, gin.H{
		"name":        badge.BadgeType,
		"description": "Savia donation badge. Minted for a verified on-ledger donation.",
		"image":       fmt.Sprintf("/v1/nfts/%s/badge.png", badge.ID),
		"attributes": []gin.H{
			{"trait_type": "Badge Type", "value": badge.BadgeType},
			{"trait_type": "Campaign", "value": campaign},
			{"trait_type": "Minted At", "value": badge.MintedAt},
		},
	})
}

func (h NFTs) Badge(c *gin.Context) {
	badge := h.fetch(c)
	if badge == nil {
		return
	}
	campaign := ""
	if badge.CampaignID != nil {
		campaign = badge.CampaignID.String()
	}
	img, err := badgeart.Render(badgeart.Badge{
		Type:       badge.BadgeType,
		Owner:      string(badge.Owner),
		CampaignID: campaign,
		MintedAt:   badge.MintedAt,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	// Badges never change once minted.
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Data(http.StatusOK, "image/png", img)
}
