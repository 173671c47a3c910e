package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/dmitrijs2005/hypesale/internal/common"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type statusResponse struct {
	*models.Status
	OwnerChecksum        string `json:"owner_checksum"`
	SaleContractChecksum string `json:"sale_contract_checksum"`
	TokenPriceUSD        string `json:"token_price_usd"`
}

type vestingResponse struct {
	*models.VestingInfo
	ProgressPercent string `json:"progress_percent"`
	CliffEndAt      string `json:"cliff_end_at,omitempty"`
	VestingEndAt    string `json:"vesting_end_at,omitempty"`
}

type referralsResponse struct {
	*models.ReferralStatsView
	EarnedUSD  string `json:"earned_usd"`
	PendingUSD string `json:"pending_usd"`
	ClaimedUSD string `json:"claimed_usd"`
}

type rewardsResponse struct {
	*models.PendingRewards
	USD string `json:"usd"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) status(c *gin.Context) {
	st, err := s.views.Status(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	resp := statusResponse{
		Status:               st,
		OwnerChecksum:        st.Owner.Checksum(),
		SaleContractChecksum: st.SaleContract.Checksum(),
		TokenPriceUSD:        tokenPrice(st.Params.PriceMultiplier),
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) vesting(c *gin.Context) {
	addr, ok := s.addressParam(c)
	if !ok {
		return
	}
	info, err := s.views.VestingInfo(c.Request.Context(), addr)
	if err != nil {
		s.writeError(c, err)
		return
	}
	resp := vestingResponse{
		VestingInfo:     info,
		ProgressPercent: percent(info.ProgressBps),
		CliffEndAt:      timestamp(info.CliffEnd),
		VestingEndAt:    timestamp(info.VestingEnd),
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) referrals(c *gin.Context) {
	addr, ok := s.addressParam(c)
	if !ok {
		return
	}
	view, err := s.views.ReferralStats(c.Request.Context(), addr)
	if err != nil {
		s.writeError(c, err)
		return
	}
	resp := referralsResponse{
		ReferralStatsView: view,
		EarnedUSD:         usd(view.TotalEarnedUSD),
		PendingUSD:        usd(view.PendingRewardsUSD),
		ClaimedUSD:        usd(view.TotalClaimedUSD),
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) referees(c *gin.Context) {
	addr, ok := s.addressParam(c)
	if !ok {
		return
	}
	refs, err := s.views.Referees(c.Request.Context(), addr)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if refs == nil {
		refs = []models.Referral{}
	}
	c.JSON(http.StatusOK, gin.H{"referrer": addr, "referees": refs})
}

func (s *Server) rewards(c *gin.Context) {
	addr, ok := s.addressParam(c)
	if !ok {
		return
	}
	p, err := s.views.PendingRewards(c.Request.Context(), addr)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rewardsResponse{PendingRewards: p, USD: usd(p.USDValue)})
}

func (s *Server) addressParam(c *gin.Context) (addrx.Address, bool) {
	addr, err := addrx.Parse(c.Param("address"))
	if err != nil {
		s.writeError(c, err)
		return "", false
	}
	return addr, true
}

func (s *Server) writeError(c *gin.Context, err error) {
	code := httpStatus(err)
	if code == http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "http handler", "path", c.FullPath(), "error", err)
		c.JSON(code, gin.H{"error": "internal error", "kind": common.KindName(err)})
		return
	}
	c.JSON(code, gin.H{"error": err.Error(), "kind": common.KindName(err)})
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrAuthorization):
		return http.StatusForbidden
	case errors.Is(err, common.ErrState), errors.Is(err, common.ErrLiquidity):
		return http.StatusConflict
	case errors.Is(err, common.ErrNoOp), errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// percent renders basis points as a percentage with two decimals.
func percent(bps int64) string {
	return decimal.New(bps, -2).StringFixed(2)
}

func usd(v int64) string {
	return decimal.NewFromInt(v).StringFixed(2)
}

// tokenPrice is the USD price of one token at the given tokens-per-USD rate.
func tokenPrice(tokensPerUSD int64) string {
	if tokensPerUSD <= 0 {
		return "0"
	}
	return decimal.NewFromInt(1).DivRound(decimal.NewFromInt(tokensPerUSD), 8).String()
}

func timestamp(unix int64) string {
	if unix == 0 {
		return ""
	}
	return time.Unix(unix, 0).UTC().Format(time.RFC3339)
}
