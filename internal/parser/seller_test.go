package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSellerStats(t *testing.T) {
	tests := []struct {
		name string
		body string
		want SellerStats
	}{
		{
			name: "slash rating",
			body: "ООО Ромашка\n4,8 / 5\n1 259 отзывов\n12 455 заказов",
			want: SellerStats{Rating: "4.8", Feedback: "1259", Orders: "12455"},
		},
		{
			name: "iz rating form",
			body: "Рейтинг 4,6 из 5 на основе 302 отзывов",
			want: SellerStats{Rating: "4.6", Feedback: "302"},
		},
		{
			name: "abbreviated thousands orders",
			body: "4,9 / 5\n87 отзывов\n19,1К заказов",
			want: SellerStats{Rating: "4.9", Feedback: "87", Orders: "19100"},
		},
		{
			name: "latin K abbreviation",
			body: "5,0 / 5\n2K заказов",
			want: SellerStats{Rating: "5.0", Orders: "2000"},
		},
		{
			name: "nbsp digit grouping",
			body: "4,7 / 5\n12 455 отзывов\n310 208 заказов",
			want: SellerStats{Rating: "4.7", Feedback: "12455", Orders: "310208"},
		},
		{
			name: "nothing present",
			body: "Добро пожаловать в магазин",
			want: SellerStats{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseSellerStats(tt.body))
		})
	}
}

func TestSellerNameFromText(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "name right after label",
			body: "Описание\nМагазин\nТехноСила\nПерейти в магазин",
			want: "ТехноСила",
		},
		{
			name: "skips boilerplate and digits",
			body: "Магазин\nПерейти в магазин\nПодписаться\n12345\nООО Вектор",
			want: "ООО Вектор",
		},
		{
			name: "official brand line skipped",
			body: "Магазин\nПодтверждённый бренд\nStreet Beat",
			want: "Street Beat",
		},
		{
			name: "label as substring of a longer line",
			body: "Официальный Магазин продавца\nСеллерПлюс\nПерейти",
			want: "СеллерПлюс",
		},
		{
			name: "candidate with digits skipped",
			body: "Магазин\nТехноСила 2024\nООО Вектор",
			want: "ООО Вектор",
		},
		{
			name: "no label present",
			body: "ТехноСила\nПерейти в магазин",
			want: "",
		},
		{
			name: "nothing usable after label",
			body: "Магазин\n42\nПерейти",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SellerNameFromText(tt.body))
		})
	}
}
