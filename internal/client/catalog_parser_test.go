package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const storefrontPage = `
<html><body>
<div class="t-store__tab" data-tab-title="Белый хлеб">
  <div class="js-product">
    <div class="js-product-name">Городской батон</div>
    <div class="js-store-prod-descr">Мука, вода, соль</div>
    <div class="js-product-price">450 ₽</div>
    <img class="js-product-img" data-original="//static.example.com/baton.jpg">
    <input name="Вес" value="350">
    <input name="Вес" value="500" data-price="600">
  </div>
  <div class="js-product">
    <div class="js-product-name">Багет</div>
    <div class="js-product-price">300</div>
    <img class="js-product-img" src="https://static.example.com/baget.png">
  </div>
  <div class="js-product">
    <div class="js-product-name">СЕРТИФИКАТ на 3000</div>
    <div class="js-product-price">3000</div>
  </div>
  <div class="js-product">
    <div class="js-product-name">Кекс лимонный</div>
    <div class="js-product-price">500</div>
  </div>
</div>
<div class="t-store__tab" data-tab-title="Серый хлеб">
  <div class="js-product">
    <div class="js-product-name">Бородинский</div>
    <div class="js-product-price">1 200 ₽</div>
  </div>
</div>
</body></html>`

func TestParseCatalog(t *testing.T) {
	parser := newCatalogParser([]string{"Белый хлеб", "Серый хлеб"})

	catalog, err := parser.ParseCatalog(storefrontPage)

	require.NoError(t, err)
	require.Len(t, catalog.Categories, 2)

	white := catalog.Categories[0]
	assert.Equal(t, "Белый хлеб", white.Name)
	require.Len(t, white.Products, 2, "certificate and cake cards must be skipped")

	baton := white.Products[0]
	assert.Equal(t, 1, baton.ID)
	assert.Equal(t, "Городской батон", baton.Name)
	assert.Equal(t, "Мука, вода, соль", baton.Composition)
	assert.Equal(t, []string{"350г", "500г"}, baton.Weights)
	assert.Equal(t, 45000, baton.Prices["350г"], "base price applies when the variant has none")
	assert.Equal(t, 60000, baton.Prices["500г"], "data-price overrides the base price")
	assert.Equal(t, "https://static.example.com/baton.jpg", baton.ImageURL)

	baget := white.Products[1]
	assert.Equal(t, 2, baget.ID)
	assert.Equal(t, []string{"350г"}, baget.Weights, "cards without weight inputs get the default weight")
	assert.Equal(t, 30000, baget.Prices["350г"])
	assert.Equal(t, "https://static.example.com/baget.png", baget.ImageURL)
	assert.Equal(t, "Состав не указан", baget.Composition)

	grey := catalog.Categories[1]
	require.Len(t, grey.Products, 1)
	assert.Equal(t, 3, grey.Products[0].ID, "ids are sequential across categories")
	assert.Equal(t, 120000, grey.Products[0].Prices["350г"], "thousands separator is stripped")
}

func TestParseCatalogFlatPageFallsBackToFirstCategory(t *testing.T) {
	page := `
<html><body>
  <div class="js-product">
    <div class="js-product-name">Городской батон</div>
    <div class="js-product-price">450</div>
  </div>
</body></html>`
	parser := newCatalogParser([]string{"Белый хлеб", "Серый хлеб"})

	catalog, err := parser.ParseCatalog(page)

	require.NoError(t, err)
	require.Len(t, catalog.Categories, 1)
	assert.Equal(t, "Белый хлеб", catalog.Categories[0].Name)
	assert.Len(t, catalog.Categories[0].Products, 1)
}

func TestParseCatalogNoProducts(t *testing.T) {
	parser := newCatalogParser([]string{"Белый хлеб"})

	_, err := parser.ParseCatalog("<html><body></body></html>")

	assert.Error(t, err)
}

func TestParsePrice(t *testing.T) {
	parser := newCatalogParser(nil)

	tests := []struct {
		text     string
		expected int
		ok       bool
	}{
		{"450 ₽", 45000, true},
		{"1 200 руб.", 120000, true},
		{"300", 30000, true},
		{"цена не указана", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		value, ok := parser.parsePrice(tt.text)
		assert.Equal(t, tt.ok, ok, tt.text)
		assert.Equal(t, tt.expected, value, tt.text)
	}
}

func TestSkipName(t *testing.T) {
	parser := newCatalogParser(nil)

	assert.True(t, parser.skipName("Подарочный СЕРТИФИКАТ"))
	assert.True(t, parser.skipName("Курс по выпечке"))
	assert.True(t, parser.skipName("Кекс творожный"))
	assert.False(t, parser.skipName("Городской батон"))
}
