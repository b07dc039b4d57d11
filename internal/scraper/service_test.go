package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/maltedev/marketplace-scraper/internal/entity"
	"github.com/maltedev/marketplace-scraper/internal/models"
	"github.com/maltedev/marketplace-scraper/internal/parser"
)

func TestBuildSummary(t *testing.T) {
	s := &Service{}
	result := &models.CrawlResult{
		RunID: "run-1",
		Products: []*models.Product{
			{Price: "2490", Rating: "4.7", Feedbacks: "12"},
			{Price: "990"},
		},
	}
	target := &entity.Descriptor{
		Type:        entity.TypeSeller,
		ID:          "1133212",
		DisplayName: "ТехноСила",
	}
	info := &SellerInfo{
		Name:  "ТехноСила",
		Stats: parser.SellerStats{Rating: "4.8", Feedback: "1259", Orders: "19100"},
	}

	summary := s.buildSummary(result, target, info)

	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, "seller", summary.EntityType)
	assert.Equal(t, "1133212", summary.EntityID)
	assert.Equal(t, "ТехноСила", summary.EntityName)
	assert.Equal(t, 2, summary.Total)
	assert.Equal(t, 2, summary.WithPrice)
	assert.Equal(t, 1, summary.WithRating)
	assert.Equal(t, "4.8", summary.SellerRating)
	assert.Equal(t, "19100", summary.SellerOrders)
}

func TestBuildSummaryWithoutSeller(t *testing.T) {
	s := &Service{}
	result := &models.CrawlResult{RunID: "run-2"}
	target := &entity.Descriptor{Type: entity.TypeSearch, ID: "наушники", DisplayName: "наушники"}

	summary := s.buildSummary(result, target, nil)

	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, "search", summary.EntityType)
	assert.Empty(t, summary.SellerRating)
}
