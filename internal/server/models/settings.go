package models

import "github.com/dmitrijs2005/hypesale/internal/addrx"

// Settings is the engine-wide state controlled by the owner.
type Settings struct {
	Owner        addrx.Address `json:"owner"`
	SaleContract addrx.Address `json:"sale_contract"`
	Paused       bool          `json:"paused"`
	Params       Params        `json:"params"`
}
