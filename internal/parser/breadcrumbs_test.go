package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterBreadcrumbs(t *testing.T) {
	items := []string{
		"Главная",
		"Электроника",
		"Смартфоны и гаджеты",
		"Телефон X 12345678",
		"WB",
		"Х",
	}

	got := FilterBreadcrumbs(items, "")
	assert.Equal(t, []string{"Электроника", "Смартфоны и гаджеты"}, got)
}

func TestFilterBreadcrumbsDropsBrand(t *testing.T) {
	got := FilterBreadcrumbs([]string{"Обувь", "Adidas", "Кроссовки"}, "adidas")
	assert.Equal(t, []string{"Обувь", "Кроссовки"}, got)
}

func TestPickCategory(t *testing.T) {
	tests := []struct {
		name     string
		filtered []string
		want     string
	}{
		{
			name:     "interior crumb from long trail",
			filtered: []string{"Электроника", "Смартфоны", "Аксессуары", "Чехол для телефона из кожи под замшу"},
			want:     "Аксессуары",
		},
		{
			name:     "two crumbs pick deepest",
			filtered: []string{"Электроника", "Смартфоны и гаджеты"},
			want:     "Смартфоны и гаджеты",
		},
		{
			name:     "single crumb",
			filtered: []string{"Электроника"},
			want:     "Электроника",
		},
		{
			name:     "nothing survives",
			filtered: nil,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PickCategory(tt.filtered))
		})
	}
}

func TestSplitBreadcrumbs(t *testing.T) {
	category, subcategory := SplitBreadcrumbs([]string{
		"Главная", "Электроника", "Смартфоны", "Samsung",
	})
	assert.Equal(t, "Электроника", category)
	assert.Equal(t, "Смартфоны > Samsung", subcategory)

	category, subcategory = SplitBreadcrumbs([]string{"Главная", "Книги"})
	assert.Equal(t, "Книги", category)
	assert.Equal(t, "", subcategory)

	category, subcategory = SplitBreadcrumbs(nil)
	assert.Equal(t, "", category)
	assert.Equal(t, "", subcategory)
}

func TestCleanCategory(t *testing.T) {
	tests := []struct {
		name  string
		input string
		brand string
		want  string
	}{
		{"plain category", "Смартфоны", "", "Смартфоны"},
		{"advertising text", "Скидка на всё", "", ""},
		{"all caps artifact", "SALE", "", ""},
		{"pure digits", "12345", "", ""},
		{"long digit run inside", "Раздел 202401", "", ""},
		{"no letters", "***", "", ""},
		{"brand repetition", "Nike", "nike", ""},
		{"empty", "   ", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanCategory(tt.input, tt.brand))
		})
	}
}

func TestCleanCategoryTruncates(t *testing.T) {
	long := "Очень длинное название категории которое никогда не закончится и продолжается"
	got := CleanCategory(long, "")
	assert.Len(t, []rune(got), 50)
}

func TestCategoryFromURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "slug after catalog",
			url:  "https://www.wildberries.ru/catalog/zhenshchinam/odezhda",
			want: "Zhenshchinam",
		},
		{
			name: "numeric segment skipped",
			url:  "https://www.wildberries.ru/catalog/12345678/detail.aspx",
			want: "",
		},
		{
			name: "no catalog segment",
			url:  "https://www.ozon.ru/product/telefon-123/",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryFromURL(tt.url))
		})
	}
}

func TestResolveCategory(t *testing.T) {
	t.Run("breadcrumbs win", func(t *testing.T) {
		html := `<div data-widget="breadCrumbs">
			<a>Главная</a><a>Электроника</a><a>Наушники</a><a>Наушники беспроводные TWS X99</a>
		</div>`
		got := ResolveCategory(docFromHTML(t, html), "https://www.ozon.ru/product/x-1/", "")
		assert.Equal(t, "Наушники", got)
	})

	t.Run("meta fallback", func(t *testing.T) {
		html := `<head><meta name="category" content="Посуда"></head>`
		got := ResolveCategory(docFromHTML(t, html), "https://www.ozon.ru/product/x-1/", "")
		assert.Equal(t, "Посуда", got)
	})

	t.Run("structured data fallback", func(t *testing.T) {
		html := `<script type="application/ld+json">
		{"@type": "Product", "name": "x", "category": "Инструменты"}
		</script>`
		got := ResolveCategory(docFromHTML(t, html), "https://www.ozon.ru/product/x-1/", "")
		assert.Equal(t, "Инструменты", got)
	})

	t.Run("url fallback", func(t *testing.T) {
		got := ResolveCategory(docFromHTML(t, "<body></body>"),
			"https://www.wildberries.ru/catalog/obuv/krossovki", "")
		assert.Equal(t, "Obuv", got)
	})

	t.Run("sentinel when nothing resolves", func(t *testing.T) {
		got := ResolveCategory(docFromHTML(t, "<body></body>"),
			"https://www.ozon.ru/product/x-1/", "")
		assert.Equal(t, CategoryUndetermined, got)
	})
}
