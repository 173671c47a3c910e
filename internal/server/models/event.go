package models

import (
	"encoding/json"

	"github.com/dmitrijs2005/hypesale/internal/addrx"
	"github.com/google/uuid"
)

type EventKind string

const (
	EventReferralRegistered   EventKind = "referral_registered"
	EventScheduleCreated      EventKind = "schedule_created"
	EventPurchaseRecorded     EventKind = "purchase_recorded"
	EventTokensClaimed        EventKind = "tokens_claimed"
	EventRewardsClaimed       EventKind = "rewards_claimed"
	EventBlacklistUpdated     EventKind = "blacklist_updated"
	EventAccountDeactivated   EventKind = "account_deactivated"
	EventSaleContractUpdated  EventKind = "sale_contract_updated"
	EventPaused               EventKind = "paused"
	EventUnpaused             EventKind = "unpaused"
	EventOwnershipTransferred EventKind = "ownership_transferred"
)

// Event is an append-only fact emitted by a committed engine call.
// Seq is assigned by the store and is strictly increasing.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	Seq       int64           `json:"seq"`
	Kind      EventKind       `json:"kind"`
	Account   addrx.Address   `json:"account"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt int64           `json:"created_at"`
}
