package webserver

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"

	"github.com/savia-platform/savia-ledger/src/shared/ledger"
)

type Disbursements struct {
	eng       *ledger.Engine
	sanitizer *bluemonday.Policy
}

func NewDisbursements(eng *ledger.Engine) Disbursements {
	return Disbursements{eng: eng, sanitizer: bluemonday.StrictPolicy()}
}

func (h Disbursements) Create(c *gin.Context) {
	var req struct {
		CampaignID string `json:"campaignId" binding:"required"`
		Recipient  string `json:"recipient" binding:"required"`
		Amount     uint64 `json:"amount" binding:"required"`
		Milestone  string `json:"milestone" binding:"required"`
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

	id, err := h.eng.CreateDisbursement(c.Request.Context(), ledger.CreateDisbursementParams{
		CampaignID: campaignID,
		Recipient:  ledger.Address(req.Recipient),
		Amount:     req.Amount,
		Milestone:  h.sanitizer.Sanitize(req.Milestone),
	})
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.String()})
}

func (h Disbursements) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	d, err := h.eng.GetDisbursement(c.Request.Context(), id)
	if err != nil {
		respondLedgerError(c, err)
		return
	}
	if d == nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "disbursement not found"})
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h Disbursements) Approve(c *gin.Context) {
	h.resolve(c, h.eng.ApproveDisbursement, ledger.DisbursementApproved)
}

func (h Disbursements) Reject(c *gin.Context) {
	h.resolve(c, h.eng.RejectDisbursement, ledger.DisbursementRejected)
}

func (h Disbursements) Execute(c *gin.Context) {
	h.resolve(c, h.eng.ExecuteDisbursement, ledger.DisbursementExecuted)
}

func (h Disbursements) resolve(c *gin.Context, op func(ctx context.Context, id ledger.ID) error, status ledger.DisbursementStatus) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := op(c.Request.Context(), id); err != nil {
		respondLedgerError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id.String(), "status": string(status)})
}
