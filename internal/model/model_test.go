package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProduct_NullPriceJSON(t *testing.T) {
	var items []Product
	err := json.Unmarshal([]byte(`[
		{"id":"a","title":"HEX","price":750},
		{"id":"b","title":"Мамка-таймер","price":null}
	]`), &items)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.True(t, items[0].ForSale())
	assert.True(t, items[0].PriceOrZero().Equal(decimal.NewFromInt(750)))
	assert.False(t, items[1].ForSale())
	assert.True(t, items[1].PriceOrZero().IsZero())

	out, err := json.Marshal(items[1])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"price":null`)
}

func TestOrderPayload_TotalIsNumber(t *testing.T) {
	out, err := json.Marshal(OrderPayload{
		Payment: PaymentCard,
		Items:   []string{"a"},
		Total:   decimal.NewFromInt(750),
	})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"total":750`)
	assert.Contains(t, string(out), `"payment":"card"`)
}

func TestParseOrderField(t *testing.T) {
	f, err := ParseOrderField("email")
	require.NoError(t, err)
	assert.Equal(t, FieldEmail, f)

	_, err = ParseOrderField("items")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestOrderDraft_GetSet(t *testing.T) {
	var d OrderDraft
	for _, f := range OrderFields {
		require.NoError(t, d.Set(f, "v-"+string(f)))
		assert.Equal(t, "v-"+string(f), d.Get(f))
	}
	assert.ErrorIs(t, d.Set("total", "1"), ErrUnknownField)
	assert.Equal(t, "", d.Get("total"))
}

func TestValidationErrors_Join(t *testing.T) {
	e := ValidationErrors{
		FieldPayment: "Необходимо выбрать способ оплаты",
		FieldAddress: "Необходимо указать адрес",
		FieldPhone:   "Необходимо указать телефон",
	}

	assert.Equal(t, "Необходимо выбрать способ оплаты и Необходимо указать адрес",
		e.Join(" и ", FieldPayment, FieldAddress))
	assert.Equal(t, "Необходимо указать телефон", e.Join(" и ", FieldEmail, FieldPhone))
	assert.True(t, e.Has(FieldEmail, FieldPhone))
	assert.False(t, e.Has(FieldEmail))

	c := e.Clone()
	delete(c, FieldPayment)
	assert.Contains(t, e, FieldPayment)
}

func TestFindProduct(t *testing.T) {
	items := []Product{{ID: "a"}, {ID: "b"}}

	p, ok := FindProduct(items, "b")
	assert.True(t, ok)
	assert.Equal(t, "b", p.ID)

	_, ok = FindProduct(items, "z")
	assert.False(t, ok)
	assert.Equal(t, []string{"a", "b"}, IDs(items))
}

func TestPayment_Valid(t *testing.T) {
	assert.True(t, PaymentCard.Valid())
	assert.True(t, PaymentCash.Valid())
	assert.False(t, PaymentNone.Valid())
	assert.False(t, Payment("crypto").Valid())
}
