package order

import (
	"testing"
	"time"

	"tailorder-be/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
}

func validForm() Form {
	return Form{
		CustomerName: utils.StrPtr("Kim Minji"),
		Items: []FormItem{
			{ProductName: "Team Hoodie", Quantity: 2, Size: "L", Color: "Black", Price: 10000},
		},
	}
}

func TestAutoShippingFee(t *testing.T) {
	t.Run("Below threshold", func(t *testing.T) {
		assert.Equal(t, int64(3500), AutoShippingFee(99999))
	})

	t.Run("At threshold is free", func(t *testing.T) {
		assert.Equal(t, int64(0), AutoShippingFee(100000))
	})

	t.Run("Empty order is free, not flat fee", func(t *testing.T) {
		assert.Equal(t, int64(0), AutoShippingFee(0))
	})

	t.Run("Just above zero pays flat fee", func(t *testing.T) {
		assert.Equal(t, int64(3500), AutoShippingFee(1))
	})
}

func TestShippingFeeFor(t *testing.T) {
	t.Run("Manual mode keeps operator value", func(t *testing.T) {
		assert.Equal(t, int64(9000), ShippingFeeFor(50000, ShippingManual, 9000))
		assert.Equal(t, int64(0), ShippingFeeFor(50000, ShippingManual, 0))
	})

	t.Run("Auto mode recomputes", func(t *testing.T) {
		assert.Equal(t, int64(3500), ShippingFeeFor(50000, ShippingAuto, 9000))
		assert.Equal(t, int64(0), ShippingFeeFor(150000, ShippingAuto, 9000))
	})
}

func TestIDHelpers(t *testing.T) {
	now := fixedNow()

	t.Run("Prefix is year-month", func(t *testing.T) {
		assert.Equal(t, "2608", IDPrefix(now))
	})

	t.Run("Format pads to three digits", func(t *testing.T) {
		assert.Equal(t, "2608-001", FormatID("2608", 1))
		assert.Equal(t, "2608-042", FormatID("2608", 42))
		assert.Equal(t, "2608-1000", FormatID("2608", 1000))
	})

	t.Run("Sequence scans only matching prefix", func(t *testing.T) {
		ids := []string{"2608-001", "2608-007", "2607-020", "junk", "2608-x"}
		assert.Equal(t, 8, NextSequence(ids, "2608"))
	})

	t.Run("First order of the month", func(t *testing.T) {
		assert.Equal(t, 1, NextSequence(nil, "2608"))
		assert.Equal(t, 1, NextSequence([]string{"2607-099"}, "2608"))
	})
}

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder(fixedNow)

	t.Run("Success with auto shipping", func(t *testing.T) {
		form := validForm()
		form.Items = []FormItem{
			{ProductName: "Team Hoodie", Quantity: 2, Size: "L", Color: "Black",
				Price: 10000, SmallPrintQty: 3},
		}

		o, err := b.Build(form)
		require.NoError(t, err)

		// unit 10000 + 3*1500 = 14500, line total 29000
		assert.Equal(t, int64(29000), o.ItemsTotal())
		assert.Equal(t, int64(3500), o.ShippingFee)
		assert.Equal(t, int64(32500), o.TotalPrice)
		assert.Equal(t, 2, o.TotalQuantity())
		assert.Equal(t, StatusPending, o.Status)
		assert.Equal(t, "2026-08-15", o.OrderDate)
		assert.Empty(t, o.ID, "id is assigned by the store")
	})

	t.Run("Manual shipping fee preserved", func(t *testing.T) {
		form := validForm()
		mode := ShippingManual
		form.ShippingMode = &mode
		form.ShippingFee = utils.Int64Ptr(5000)

		o, err := b.Build(form)
		require.NoError(t, err)
		assert.Equal(t, int64(5000), o.ShippingFee)
	})

	t.Run("Validation collects every violation", func(t *testing.T) {
		form := Form{
			CustomerName: utils.StrPtr("   "),
			Items: []FormItem{
				{ProductName: "Shirt", Quantity: 0, Size: "M", Color: "Red", Price: 5000},
			},
		}

		_, err := b.Build(form)
		require.Error(t, err)

		verrs, ok := AsValidation(err)
		require.True(t, ok)

		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field)
		}
		assert.Contains(t, fields, "customer_name")
		assert.Contains(t, fields, "items[0].quantity")
	})

	t.Run("No items rejected", func(t *testing.T) {
		form := Form{CustomerName: utils.StrPtr("Kim")}

		_, err := b.Build(form)
		verrs, ok := AsValidation(err)
		require.True(t, ok)
		assert.Contains(t, verrs.Error(), "at least one item")
	})

	t.Run("Quoted add-on without price rejected", func(t *testing.T) {
		form := validForm()
		form.Items[0].XLPrintQty = 2

		_, err := b.Build(form)
		verrs, ok := AsValidation(err)
		require.True(t, ok)
		assert.Contains(t, verrs.Error(), "extra-large print price")
	})

	t.Run("Phone format enforced when present", func(t *testing.T) {
		form := validForm()
		form.Phone = utils.StrPtr("abc")

		_, err := b.Build(form)
		verrs, ok := AsValidation(err)
		require.True(t, ok)
		assert.Contains(t, verrs.Error(), "phone")
	})

	t.Run("Valid phone accepted", func(t *testing.T) {
		form := validForm()
		form.Phone = utils.StrPtr("010-1234-5678")

		_, err := b.Build(form)
		assert.NoError(t, err)
	})

	t.Run("Aggregate cap enforced", func(t *testing.T) {
		form := validForm()
		form.Items = []FormItem{
			{ProductName: "Bulk", Quantity: 9999, Size: "L", Color: "Black", Price: 10_000_000},
		}

		_, err := b.Build(form)
		verrs, ok := AsValidation(err)
		require.True(t, ok)
		assert.Contains(t, verrs.Error(), "999,999,999")
	})
}

func TestBuilder_Merge(t *testing.T) {
	b := NewBuilder(fixedNow)

	existing := &Order{
		ID:           "2608-003",
		CustomerName: "Kim Minji",
		Status:       StatusProcessing,
		ShippingMode: ShippingAuto,
		OrderDate:    "2026-08-01",
		Items: []*OrderItem{
			{ProductName: "Team Hoodie", Quantity: 2, Size: "L", Color: "Black", Price: 10000},
		},
	}
	existing.Recalculate()

	t.Run("Partial form keeps unsubmitted fields", func(t *testing.T) {
		form := Form{Phone: utils.StrPtr("010-9999-0000")}

		o, err := b.Merge(existing, form)
		require.NoError(t, err)

		assert.Equal(t, "Kim Minji", o.CustomerName)
		assert.Equal(t, "010-9999-0000", o.Phone)
		assert.Equal(t, "2608-003", o.ID)
		assert.Len(t, o.Items, 1, "omitted items fall back to previous lines")
	})

	t.Run("Submitted items replace previous lines", func(t *testing.T) {
		form := Form{
			Items: []FormItem{
				{ProductName: "Cap", Quantity: 5, Size: "F", Color: "Navy", Price: 8000},
				{ProductName: "Socks", Quantity: 10, Size: "F", Color: "White", Price: 2000},
			},
		}

		o, err := b.Merge(existing, form)
		require.NoError(t, err)

		require.Len(t, o.Items, 2)
		assert.Equal(t, "Cap", o.Items[0].ProductName)
		assert.Equal(t, int64(5*8000+10*2000), o.ItemsTotal())
	})

	t.Run("Totals recomputed on every merge", func(t *testing.T) {
		form := Form{
			Items: []FormItem{
				{ProductName: "Jersey", Quantity: 20, Size: "XL", Color: "Green", Price: 30000},
			},
		}

		o, err := b.Merge(existing, form)
		require.NoError(t, err)

		assert.Equal(t, int64(600000), o.ItemsTotal())
		assert.Equal(t, int64(0), o.ShippingFee, "above free-shipping threshold")
		assert.Equal(t, int64(600000), o.TotalPrice)
	})

	t.Run("Merge does not mutate the existing order", func(t *testing.T) {
		before := existing.TotalPrice
		form := Form{
			Items: []FormItem{
				{ProductName: "Cap", Quantity: 1, Size: "F", Color: "Navy", Price: 8000},
			},
		}

		_, err := b.Merge(existing, form)
		require.NoError(t, err)
		assert.Equal(t, before, existing.TotalPrice)
	})
}

func TestEndToEndPricingExample(t *testing.T) {
	// One hoodie line: base 10000, qty 2, three small prints.
	b := NewBuilder(fixedNow)
	form := Form{
		CustomerName: utils.StrPtr("Lee"),
		Items: []FormItem{
			{ProductName: "Hoodie", Quantity: 2, Size: "L", Color: "Black",
				Price: 10000, SmallPrintQty: 3},
		},
	}

	o, err := b.Build(form)
	require.NoError(t, err)

	assert.Equal(t, int64(14500), o.Items[0].UnitPrice())
	assert.Equal(t, int64(29000), o.Items[0].Total())
	assert.Equal(t, int64(29000), o.ItemsTotal())
	assert.Equal(t, int64(3500), o.ShippingFee)
	assert.Equal(t, int64(32500), o.TotalPrice)
	assert.Equal(t, 2, o.TotalQuantity())
}
