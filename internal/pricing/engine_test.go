package pricing

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hiloazul/tailor-api/internal/model"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func makeList(name string, priority int, from time.Time, to *time.Time, active bool, createdAt time.Time, serviceID uuid.UUID, price string) model.PriceList {
	return model.PriceList{
		Base:      model.Base{ID: uuid.New(), CreatedAt: createdAt},
		Name:      name,
		Priority:  priority,
		ValidFrom: from,
		ValidTo:   to,
		Active:    active,
		Items: []model.PriceListItem{
			{ID: uuid.New(), ServiceID: serviceID, Price: dec(price)},
		},
	}
}

func TestResolveEffectivePrice_BasePriceFallback(t *testing.T) {
	engine := NewEngine()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc := &model.Service{Base: model.Base{ID: uuid.New()}, Name: "Dry cleaning", BasePrice: dec("12.50")}

	past := now.Add(-48 * time.Hour)
	expired := now.Add(-24 * time.Hour)

	tests := []struct {
		name  string
		lists []model.PriceList
	}{
		{"no lists", nil},
		{"inactive list", []model.PriceList{
			makeList("Summer", 5, past, nil, false, past, svc.ID, "9.00"),
		}},
		{"expired window", []model.PriceList{
			makeList("Spring", 5, past, &expired, true, past, svc.ID, "9.00"),
		}},
		{"not yet started", []model.PriceList{
			makeList("Autumn", 5, now.Add(time.Hour), nil, true, past, svc.ID, "9.00"),
		}},
		{"list without this service", []model.PriceList{
			makeList("Summer", 5, past, nil, true, past, uuid.New(), "9.00"),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := engine.ResolveEffectivePrice(svc, tt.lists, now)
			require.NoError(t, err)
			assert.True(t, dec("12.50").Equal(res.Price), "got %s", res.Price)
			assert.Equal(t, SourceBasePrice, res.Source)
			assert.Nil(t, res.PriceListID)
		})
	}
}

func TestResolveEffectivePrice_HighestPriorityWins(t *testing.T) {
	engine := NewEngine()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-72 * time.Hour)
	svc := &model.Service{Base: model.Base{ID: uuid.New()}, Name: "Ironing", BasePrice: dec("100.00")}

	low := makeList("Loyalty", 1, past, nil, true, past, svc.ID, "90.00")
	high := makeList("Summer sale", 5, past, nil, true, past.Add(time.Hour), svc.ID, "80.00")

	// Outcome must not depend on the order lists arrive in.
	for name, lists := range map[string][]model.PriceList{
		"low first":  {low, high},
		"high first": {high, low},
	} {
		t.Run(name, func(t *testing.T) {
			res, err := engine.ResolveEffectivePrice(svc, lists, now)
			require.NoError(t, err)
			assert.True(t, dec("80.00").Equal(res.Price), "got %s", res.Price)
			assert.Equal(t, "Summer sale", res.Source)
			require.NotNil(t, res.PriceListID)
			assert.Equal(t, high.ID, *res.PriceListID)
		})
	}
}

func TestResolveEffectivePrice_ValidToIsInclusive(t *testing.T) {
	engine := NewEngine()
	boundary := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
	start := boundary.Add(-30 * 24 * time.Hour)
	svc := &model.Service{Base: model.Base{ID: uuid.New()}, Name: "Hemming", BasePrice: dec("20.00")}
	list := makeList("June", 3, start, &boundary, true, start, svc.ID, "15.00")

	res, err := engine.ResolveEffectivePrice(svc, []model.PriceList{list}, boundary)
	require.NoError(t, err)
	assert.True(t, dec("15.00").Equal(res.Price), "at boundary got %s", res.Price)

	res, err = engine.ResolveEffectivePrice(svc, []model.PriceList{list}, boundary.Add(time.Nanosecond))
	require.NoError(t, err)
	assert.Equal(t, SourceBasePrice, res.Source, "one instant past the boundary must fall back")
	assert.True(t, dec("20.00").Equal(res.Price))
}

func TestResolveEffectivePrice_TieBreak(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-72 * time.Hour)
	svc := &model.Service{Base: model.Base{ID: uuid.New()}, Name: "Zipper", BasePrice: dec("30.00")}

	older := makeList("Older", 5, past, nil, true, past, svc.ID, "25.00")
	newer := makeList("Newer", 5, past, nil, true, past.Add(2*time.Hour), svc.ID, "22.00")

	t.Run("newest list wins by default", func(t *testing.T) {
		res, err := NewEngine().ResolveEffectivePrice(svc, []model.PriceList{older, newer}, now)
		require.NoError(t, err)
		assert.Equal(t, "Newer", res.Source)
		assert.True(t, dec("22.00").Equal(res.Price))
	})

	t.Run("strict mode reports the overlap", func(t *testing.T) {
		_, err := NewEngine(WithStrictTieBreak()).ResolveEffectivePrice(svc, []model.PriceList{older, newer}, now)
		assert.ErrorIs(t, err, ErrAmbiguousOverride)
	})

	t.Run("strict mode still resolves a clear winner", func(t *testing.T) {
		higher := makeList("Flash", 9, past, nil, true, past, svc.ID, "18.00")
		res, err := NewEngine(WithStrictTieBreak()).ResolveEffectivePrice(svc, []model.PriceList{older, newer, higher}, now)
		require.NoError(t, err)
		assert.Equal(t, "Flash", res.Source)
	})
}

func TestItemTotal(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name       string
		unit       string
		adjustment string
		quantity   int
		want       string
	}{
		{"no adjustment", "10.00", "0", 1, "10.00"},
		{"surcharge", "10.00", "2.50", 1, "12.50"},
		{"discount", "100.00", "-5.00", 1, "95.00"},
		{"discount below zero is allowed", "5.00", "-8.00", 1, "-3.00"},
		{"rounds half up", "10.005", "0", 1, "10.01"},
		{"quantity multiplies after rounding", "3.335", "0", 3, "10.02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := model.OrderItem{
				UnitPrice:        dec(tt.unit),
				AdjustmentAmount: dec(tt.adjustment),
				Quantity:         tt.quantity,
			}
			got := engine.ItemTotal(item)
			assert.True(t, dec(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestOrderTotal(t *testing.T) {
	engine := NewEngine()

	t.Run("empty ticket totals zero", func(t *testing.T) {
		assert.True(t, engine.OrderTotal(nil).IsZero())
		assert.True(t, engine.OrderTotal([]model.OrderItem{}).IsZero())
	})

	t.Run("order of items does not matter", func(t *testing.T) {
		items := []model.OrderItem{
			{UnitPrice: dec("100.00"), Quantity: 1},
			{UnitPrice: dec("60.00"), AdjustmentAmount: dec("-5.00"), Quantity: 1},
			{UnitPrice: dec("12.335"), Quantity: 1},
		}
		forward := engine.OrderTotal(items)

		reversed := []model.OrderItem{items[2], items[1], items[0]}
		assert.True(t, forward.Equal(engine.OrderTotal(reversed)))
		assert.True(t, dec("167.34").Equal(forward), "got %s", forward)
	})
}

func TestBalance(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name  string
		total string
		paid  string
		want  string
	}{
		{"nothing paid", "155.00", "0", "155.00"},
		{"partial payment", "155.00", "100.00", "55.00"},
		{"settled", "155.00", "155.00", "0"},
		{"overpaid floors at zero", "155.00", "200.00", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Balance(dec(tt.total), dec(tt.paid))
			assert.True(t, dec(tt.want).Equal(got), "got %s", got)
		})
	}
}

func TestBulkAdjust(t *testing.T) {
	engine := NewEngine()
	idA, idB := uuid.New(), uuid.New()

	t.Run("shifts every price and floors at zero", func(t *testing.T) {
		prices := []ServicePrice{
			{ServiceID: idA, Price: dec("20.00")},
			{ServiceID: idB, Price: dec("5.00")},
		}
		preview := engine.BulkAdjust(prices, dec("-10.00"))
		require.Len(t, preview, 2)

		assert.True(t, dec("10.00").Equal(preview[0].NewPrice))
		assert.False(t, preview[0].Clamped)

		assert.True(t, preview[1].NewPrice.IsZero())
		assert.True(t, preview[1].Clamped, "a price pushed below zero must be flagged")
	})

	t.Run("up then down restores prices away from the floor", func(t *testing.T) {
		prices := []ServicePrice{{ServiceID: idA, Price: dec("20.00")}}
		up := engine.BulkAdjust(prices, dec("10.00"))
		down := engine.BulkAdjust([]ServicePrice{{ServiceID: idA, Price: up[0].NewPrice}}, dec("-10.00"))
		assert.True(t, dec("20.00").Equal(down[0].NewPrice))
	})

	t.Run("clamp loses the distance below the floor", func(t *testing.T) {
		// 5 - 10 clamps to 0; adding 10 back lands on 10, not 5.
		prices := []ServicePrice{{ServiceID: idA, Price: dec("5.00")}}
		down := engine.BulkAdjust(prices, dec("-10.00"))
		require.True(t, down[0].Clamped)
		up := engine.BulkAdjust([]ServicePrice{{ServiceID: idA, Price: down[0].NewPrice}}, dec("10.00"))
		assert.True(t, dec("10.00").Equal(up[0].NewPrice))
	})
}

func TestEndToEndTicket(t *testing.T) {
	engine := NewEngine()
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-72 * time.Hour)

	suit := &model.Service{Base: model.Base{ID: uuid.New()}, Name: "Suit cleaning", BasePrice: dec("100.00")}
	listA := makeList("Loyalty", 1, past, nil, true, past, suit.ID, "90.00")
	listB := makeList("Summer sale", 5, past, nil, true, past, suit.ID, "80.00")

	res, err := engine.ResolveEffectivePrice(suit, []model.PriceList{listA, listB}, now)
	require.NoError(t, err)
	require.True(t, dec("80.00").Equal(res.Price))

	items := []model.OrderItem{
		{UnitPrice: res.Price, Quantity: 1},
		{UnitPrice: res.Price, AdjustmentAmount: dec("-5.00"), Quantity: 1},
	}
	total := engine.OrderTotal(items)
	assert.True(t, dec("155.00").Equal(total), "got %s", total)

	assert.True(t, engine.Balance(total, dec("155.00")).IsZero())
	assert.True(t, dec("55.00").Equal(engine.Balance(total, dec("100.00"))))
}
