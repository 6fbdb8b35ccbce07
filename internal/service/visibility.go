package service

import (
	"time"

	"innercloset/gatekeeper/internal/model"
)

type ContentState string

const (
	ContentVisible ContentState = "visible"
	ContentLocked  ContentState = "locked"
	ContentInert   ContentState = "inert"
)

type Visibility struct {
	State       ContentState `json:"state"`
	Purchasable bool         `json:"purchasable"`
}

// ResolveVisibility decides how a product renders for one requester. It
// depends only on its arguments.
//
// accessGranted must already be scoped to p.CuratorID and only affects the
// inner tier. Drop products are inert outside [StartsAt, EndsAt) whatever the
// requester holds.
func ResolveVisibility(p *model.Product, now time.Time, accessGranted bool) Visibility {
	sellable := p.IsActive && p.Stock > 0

	switch p.Visibility {
	case model.VisibilityGeneral:
		return Visibility{State: ContentVisible, Purchasable: sellable}
	case model.VisibilityInner:
		if !accessGranted {
			return Visibility{State: ContentLocked}
		}
		return Visibility{State: ContentVisible, Purchasable: sellable}
	case model.VisibilityDrop:
		if p.Drop == nil || !p.Drop.Open(now) {
			return Visibility{State: ContentInert}
		}
		return Visibility{State: ContentVisible, Purchasable: sellable}
	}
	// Unknown tiers stay hidden.
	return Visibility{State: ContentLocked}
}
