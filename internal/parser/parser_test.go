package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailPageHTML = `<html>
<head>
<script type="application/ld+json">
{
	"@type": "Product",
	"name": "Наушники беспроводные TWS X99",
	"brand": {"@type": "Brand", "name": "SoundMax"},
	"description": "Активное шумоподавление, до 30 часов работы",
	"offers": {"seller": {"name": "АудиоМир"}}
}
</script>
</head>
<body>
<div data-widget="breadCrumbs">
	<a>Главная</a><a>Электроника</a><a>Наушники</a>
</div>
<div data-widget="webProductHeading"><h1>Наушники TWS X99 (заголовок страницы)</h1></div>
<div data-widget="webPrice">
	<span>2 490 ₽</span>
	<span style="text-decoration: line-through">3 990 ₽</span>
</div>
<a href="/product/x99/#section-reviews">4,7 • 1 203 отзыва</a>
<div data-widget="webGallery">
	<img src="https://cdn1.ozone.ru/s3/a/wc50/1.jpg">
	<img srcset="https://cdn1.ozone.ru/s3/a/wc50/2.jpg 1x, https://cdn1.ozone.ru/s3/a/big/2.jpg 2x">
	<img data-src="https://cdn1.ozone.ru/s3/a/wc75/3.jpg">
</div>
</body>
</html>`

func TestPageProduct(t *testing.T) {
	page, err := NewPage(detailPageHTML,
		"Магазин\nАудиоМир\n",
		"https://www.ozon.ru/product/naushniki-tws-x99-612345678/")
	require.NoError(t, err)

	p := page.Product()

	assert.Equal(t, "612345678", p.ID)
	assert.Equal(t, "Наушники беспроводные TWS X99", p.Name, "structured name wins over h1")
	assert.Equal(t, "SoundMax", p.Brand)
	assert.Equal(t, "Активное шумоподавление, до 30 часов работы", p.Description)
	assert.Equal(t, "2490", p.Price)
	assert.Equal(t, "4.7", p.Rating)
	assert.Equal(t, "1203", p.Feedbacks)
	assert.Equal(t, "АудиоМир", p.Seller)
	assert.Equal(t, "Электроника", p.Category)
	assert.Equal(t, "Наушники", p.Subcategory)
	assert.Equal(t, []string{
		"https://cdn1.ozone.ru/s3/a/wc1000/1.jpg",
		"https://cdn1.ozone.ru/s3/a/wc1000/2.jpg",
		"https://cdn1.ozone.ru/s3/a/wc1000/3.jpg",
	}, p.Images)
}

func TestPageProductStructuredDataWins(t *testing.T) {
	html := `<html><head>
	<script type="application/ld+json">
	{"@type": "Product", "name": "Колонка портативная",
	 "aggregateRating": {"ratingValue": "4,9", "reviewCount": 500},
	 "image": ["https://cdn/structured.jpg"]}
	</script>
	</head><body>
	<a href="/product/x/#section-reviews">3,1 • 42 отзыва</a>
	<div data-widget="webGallery">
		<img src="https://cdn/gallery.jpg">
	</div>
	</body></html>`

	page, err := NewPage(html, "", "https://www.ozon.ru/product/kolonka-777/")
	require.NoError(t, err)

	p := page.Product()

	assert.Equal(t, "4.9", p.Rating, "structured rating outranks the reviews anchor")
	assert.Equal(t, "500", p.Feedbacks, "structured review count outranks the reviews anchor")
	assert.Equal(t, []string{
		"https://cdn/structured.jpg",
		"https://cdn/gallery.jpg",
	}, p.Images, "structured images come first, gallery appended")
}

func TestPageProductSelectorFallbacks(t *testing.T) {
	html := `<html><body>
	<h1>Чайник электрический</h1>
	<a href="/brands/bosch/">Bosch</a>
	<div data-widget="webPrice"><span>3 190 ₽</span></div>
	<meta itemprop="ratingValue" content="4,2">
	<meta itemprop="reviewCount" content="87">
	<div data-widget="webDescription">Мощность 2200 Вт</div>
	</body></html>`

	page, err := NewPage(html, "", "https://www.ozon.ru/product/chaynik-555111/")
	require.NoError(t, err)

	p := page.Product()

	assert.Equal(t, "Чайник электрический", p.Name)
	assert.Equal(t, "Bosch", p.Brand)
	assert.Equal(t, "3190", p.Price)
	assert.Equal(t, "4.2", p.Rating)
	assert.Equal(t, "87", p.Feedbacks)
	assert.Equal(t, "Мощность 2200 Вт", p.Description)
}

func TestPageProductSparsePage(t *testing.T) {
	page, err := NewPage("<html><body></body></html>", "",
		"https://www.ozon.ru/product/bez-artikula/")
	require.NoError(t, err)

	p := page.Product()

	assert.Equal(t, "", p.ID, "missing article must not fail the record")
	assert.Equal(t, "Без названия", p.Name)
	assert.Empty(t, p.Price)
	assert.Empty(t, p.Images)
	assert.Zero(t, p.DiscountPercent)
}

func TestPageProductDiscount(t *testing.T) {
	html := `<div data-widget="webPrice">
		<span>750 ₽</span>
		<span style="text-decoration: line-through">1 000 ₽</span>
	</div>`

	page, err := NewPage(html, "", "https://www.ozon.ru/product/tovar-1/")
	require.NoError(t, err)

	p := page.Product()
	assert.Equal(t, "750", p.Price)
	assert.Equal(t, "1000", p.OldPrice)
	assert.Equal(t, 25, p.DiscountPercent)
}

func TestPageProductEqualOldPriceCleared(t *testing.T) {
	html := `<div data-widget="webPrice">
		<span>990 ₽</span>
		<del>990 ₽</del>
	</div>`

	page, err := NewPage(html, "", "https://www.ozon.ru/product/tovar-2/")
	require.NoError(t, err)

	p := page.Product()
	assert.Equal(t, "990", p.Price)
	assert.Empty(t, p.OldPrice)
	assert.Zero(t, p.DiscountPercent)
}
