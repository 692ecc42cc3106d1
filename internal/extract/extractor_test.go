package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/deedscan/internal/model"
)

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("sale and yearly values", func(t *testing.T) {
		t.Parallel()

		doc := model.NewDocument("12a.csv", [][]string{
			valueRow("2019", "1,000"),
			valueRow("2020", "1,100"),
			{"Document Type", "Recorded", "Amount", "Party 1", "Party 2"},
			{"DEED", "2016-01-01", "-", "Sponsor", "Nobody"},
			{"DEED", "2016-06-01", "1,250,000", "Sponsor", "Acme LLC"},
		})

		result := NewExtractor(nil, nil).Extract(doc)
		require.NotNil(t, result.SalePrice)
		assert.Equal(t, "12a.csv", result.Document)
		assert.InDelta(t, 1250000.0, *result.SalePrice, 1e-9)
		assert.Equal(t, "Acme LLC", result.PartyName)
		assert.Equal(t, map[int]float64{2019: 1000, 2020: 1100}, result.YearlyValues)
		assert.False(t, result.Vacant())
	})

	t.Run("vacant document keeps yearly values", func(t *testing.T) {
		t.Parallel()

		doc := model.NewDocument("vacant.csv", [][]string{valueRow("2021", "500")})

		result := NewExtractor(NewScanner(), NewHarvester()).Extract(doc)
		assert.Nil(t, result.SalePrice)
		assert.True(t, result.Vacant())
		assert.Empty(t, result.PartyName)
		assert.Equal(t, map[int]float64{2021: 500}, result.YearlyValues)
	})
}
