package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-storefront/server/internal/shop/model"
)

func ids(ps []model.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	c := Default()

	assert.Len(t, c.Filter(CategoryAll), len(MockProducts))
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(c.Filter(CategoryPurchased)))
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(c.Filter(CategoryRecommended)))
	assert.Equal(t, []string{"8"}, ids(c.Filter("K金")))
	assert.Empty(t, c.Filter("不存在"))
}

func TestLookup(t *testing.T) {
	c := Default()
	p, ok := c.Lookup("5")
	require.True(t, ok)
	assert.Equal(t, "农夫山泉矿泉水", p.Name)

	_, ok = c.Lookup("99")
	assert.False(t, ok)
}

func TestSearch(t *testing.T) {
	c := Default()

	assert.Equal(t, []string{"1", "2"}, ids(c.Search("可乐", "", 0)))
	assert.Equal(t, []string{"3", "4"}, ids(c.Search("薯片", "零食", 0)))
	assert.Equal(t, []string{"10"}, ids(c.Search("s925", "", 0)))
	assert.Len(t, c.Search("饮料", "", 2), 2)
	assert.Nil(t, c.Search("  ", "", 0))
}

func TestNewIgnoresDuplicateIDs(t *testing.T) {
	c := New([]model.Product{{ID: "a", Name: "first"}, {ID: "a", Name: "second"}})
	require.Len(t, c.All(), 1)
	p, _ := c.Lookup("a")
	assert.Equal(t, "first", p.Name)
}

func TestStock(t *testing.T) {
	c := Default()
	sprite, _ := c.Lookup("12")
	redBull, _ := c.Lookup("13")
	cola, _ := c.Lookup("1")

	assert.Equal(t, StockOut, Stock(sprite))
	assert.Equal(t, StockLow, Stock(redBull))
	assert.Equal(t, StockNormal, Stock(cola))
}
