package pricing

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hiloazul/tailor-api/internal/model"
)

// SourceBasePrice marks a resolution that fell through to the service's
// catalog base price.
const SourceBasePrice = "BASE_PRICE"

// ErrAmbiguousOverride is returned in strict mode when two active,
// in-window price lists share the top priority and both override the
// requested service.
var ErrAmbiguousOverride = errors.New("ambiguous price override: equal-priority price lists overlap")

// Resolution is the outcome of an effective-price lookup.
type Resolution struct {
	Price       decimal.Decimal `json:"price"`
	Source      string          `json:"source"`
	PriceListID *uuid.UUID      `json:"price_list_id,omitempty"`
}

// Engine computes effective prices, item and order totals, and balances.
// It is pure: every method is a function over its arguments, holds no
// state between calls and is safe for concurrent use.
type Engine struct {
	strictTies bool
}

type Option func(*Engine)

// WithStrictTieBreak makes ResolveEffectivePrice fail with
// ErrAmbiguousOverride instead of applying the newest-list-wins policy
// when two candidate lists share the top priority.
func WithStrictTieBreak() Option {
	return func(e *Engine) { e.strictTies = true }
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResolveEffectivePrice returns the price a new order item should
// snapshot for svc at the given instant. Price lists are considered when
// active, validFrom <= at and (validTo absent or at <= validTo); both
// window bounds are inclusive. The highest-priority candidate wins.
// Equal priorities are broken by creation time, newest list first; with
// strict ties enabled an equal-priority overlap is an error instead.
//
// Absence of any override is not an error: the base price applies.
func (e *Engine) ResolveEffectivePrice(svc *model.Service, lists []model.PriceList, at time.Time) (Resolution, error) {
	var winner *model.PriceList
	var winnerItem *model.PriceListItem
	ambiguous := false

	for i := range lists {
		list := &lists[i]
		if !list.Active || list.ValidFrom.After(at) {
			continue
		}
		if list.ValidTo != nil && at.After(*list.ValidTo) {
			continue
		}

		item := overrideFor(list, svc.ID)
		if item == nil {
			continue
		}

		switch {
		case winner == nil, list.Priority > winner.Priority:
			winner, winnerItem, ambiguous = list, item, false
		case list.Priority == winner.Priority:
			ambiguous = true
			if list.CreatedAt.After(winner.CreatedAt) {
				winner, winnerItem = list, item
			}
		}
	}

	if winner == nil {
		return Resolution{Price: round(svc.BasePrice), Source: SourceBasePrice}, nil
	}
	if ambiguous && e.strictTies {
		return Resolution{}, ErrAmbiguousOverride
	}

	id := winner.ID
	return Resolution{Price: round(winnerItem.Price), Source: winner.Name, PriceListID: &id}, nil
}

// ItemTotal is the line total for one order item: unit price plus the
// signed adjustment, rounded to two decimals, times quantity. Negative
// totals are allowed; the zero floor applies only to bulk adjustments.
func (e *Engine) ItemTotal(item model.OrderItem) decimal.Decimal {
	qty := item.Quantity
	if qty < 1 {
		qty = 1
	}
	unit := round(item.UnitPrice.Add(item.AdjustmentAmount))
	return unit.Mul(decimal.NewFromInt(int64(qty)))
}

// OrderTotal sums the item totals. An empty ticket totals zero, and the
// result does not depend on item order because rounding happens per item.
func (e *Engine) OrderTotal(items []model.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(e.ItemTotal(item))
	}
	return total
}

// Balance is the amount still owed: max(0, total - paid). Overpayment is
// not tracked as credit here; it floors at zero.
func (e *Engine) Balance(total, paid decimal.Decimal) decimal.Decimal {
	balance := total.Sub(paid)
	if balance.IsNegative() {
		return decimal.Zero
	}
	return balance
}

// ServicePrice pairs a service with its current effective price for a
// bulk adjustment pass.
type ServicePrice struct {
	ServiceID uuid.UUID
	Price     decimal.Decimal
}

// BulkAdjust shifts every price by delta relative to its current value,
// flooring at zero. The clamp loses information: +x then -x restores the
// input only while no price came within x of zero, so previews flag each
// clamped row for operator review.
func (e *Engine) BulkAdjust(prices []ServicePrice, delta decimal.Decimal) []model.BulkAdjustPreviewItem {
	out := make([]model.BulkAdjustPreviewItem, 0, len(prices))
	for _, sp := range prices {
		adjusted := round(sp.Price.Add(delta))
		clamped := adjusted.IsNegative()
		if clamped {
			adjusted = decimal.Zero
		}
		out = append(out, model.BulkAdjustPreviewItem{
			ServiceID: sp.ServiceID,
			OldPrice:  round(sp.Price),
			NewPrice:  adjusted,
			Clamped:   clamped,
		})
	}
	return out
}

func overrideFor(list *model.PriceList, serviceID uuid.UUID) *model.PriceListItem {
	for i := range list.Items {
		if list.Items[i].ServiceID == serviceID {
			return &list.Items[i]
		}
	}
	return nil
}

// round applies the two-decimal monetary rounding (half up) used at
// every item boundary so drift never compounds across a long ticket.
func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
