package webserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/savia-platform/savia-ledger/src/shared/ledger"
)

// respondLedgerError translates the engine's error taxonomy into HTTP
// statuses. Anything outside the taxonomy is a backend failure.
func respondLedgerError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ledger.ErrInvalidFee),
		errors.Is(err, ledger.ErrInvalidGoal),
		errors.Is(err, ledger.ErrInvalidDuration),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, ledger.ErrCampaignNotFound),
		errors.Is(err, ledger.ErrDisbursementNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ledger.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, ledger.ErrAlreadyInitialized),
		errors.Is(err, ledger.ErrScoreExists),
		errors.Is(err, ledger.ErrCampaignEnded),
		errors.Is(err, ledger.ErrCampaignInactive),
		errors.Is(err, ledger.ErrNotApproved):
		status = http.StatusConflict
	case errors.Is(err, ledger.ErrInsufficientFunds):
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"err": err.Error()})
}

// pathID parses the :id route parameter, answering 400 itself on bad input.
func pathID(c *gin.Context) (ledger.ID, bool) {
	id, err := ledger.ParseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": "bad id"})
		return ledger.ID{}, false
	}
	return id, true
}
