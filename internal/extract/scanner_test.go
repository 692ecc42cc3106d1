package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/deedscan/internal/model"
)

func deedDoc(rows ...[]string) model.Document {
	header := [][]string{
		{"Unit 12A", "", ""},
		{"Document Type", "Recorded", "Amount", "Party 1", "Party 2"},
	}
	return model.NewDocument("unit.csv", append(header, rows...))
}

func TestScanner_Scan(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		doc       model.Document
		wantName  string
		wantPrice float64
		wantOK    bool
	}{
		{
			name: "no section marker yields no sale",
			doc: model.NewDocument("unit.csv", [][]string{
				{"DEED", "2019-01-01", "1,000,000", "Seller", "Buyer"},
			}),
			wantOK: false,
		},
		{
			name: "placeholder then later sale uses the later row",
			doc: deedDoc(
				[]string{"DEED", "2015-03-01", "-", "Sponsor", "Early Buyer"},
				[]string{"MTGE", "2015-03-01", "900,000", "Bank", "Early Buyer"},
				[]string{"DEED", "2016-05-02", "1,250,000", "Sponsor", "Acme LLC"},
			),
			wantName:  "Acme LLC",
			wantPrice: 1250000,
			wantOK:    true,
		},
		{
			name: "without placeholder the first numeric deed wins",
			doc: deedDoc(
				[]string{"DEED", "2014-01-01", "$2,500,000", "Sponsor", "Jane Doe"},
				[]string{"DEED", "2018-01-01", "3,000,000", "Jane Doe", "John Roe"},
			),
			wantName:  "Jane Doe",
			wantPrice: 2500000,
			wantOK:    true,
		},
		{
			name: "placeholder with no later sale recovers from the top",
			doc: deedDoc(
				[]string{"DEED", "2012-01-01", "750,000", "Sponsor", "First Owner"},
				[]string{"DEED", "2019-01-01", "-", "First Owner", "Heir"},
			),
			wantName:  "First Owner",
			wantPrice: 750000,
			wantOK:    true,
		},
		{
			name: "multiple placeholders only the first triggers",
			doc: deedDoc(
				[]string{"DEED", "2012-01-01", "100", "A", "Before"},
				[]string{"DEED", "2013-01-01", "-", "A", "B"},
				[]string{"DEED", "2014-01-01", "-", "B", "C"},
				[]string{"DEED", "2015-01-01", "5,000", "C", "After"},
			),
			wantName:  "After",
			wantPrice: 5000,
			wantOK:    true,
		},
		{
			name: "malformed rows are skipped",
			doc: deedDoc(
				[]string{"DEED"},
				[]string{"DEED", "2013-01-01", "n/a", "A", "B"},
				[]string{"DEED", "2014-01-01", "", "A", "B"},
				[]string{"DEED", "2015-01-01", "42,000"},
			),
			wantName:  "",
			wantPrice: 42000,
			wantOK:    true,
		},
		{
			name: "only placeholders is vacant",
			doc: deedDoc(
				[]string{"DEED", "2013-01-01", "-", "A", "B"},
				[]string{"DEED", "2014-01-01", "-", "B", "C"},
			),
			wantOK: false,
		},
		{
			name: "deed rows before the marker are ignored",
			doc: model.NewDocument("unit.csv", [][]string{
				{"DEED", "2010-01-01", "999", "X", "Ignored"},
				{"Document Type", "Recorded", "Amount"},
				{"AGMT", "2011-01-01", "1", "X", "Y"},
			}),
			wantOK: false,
		},
		{
			name: "first cell is trimmed",
			doc: deedDoc(
				[]string{"  DEED ", "2013-01-01", " 1,000 ", "A", " Trimmed Name "},
			),
			wantName:  "Trimmed Name",
			wantPrice: 1000,
			wantOK:    true,
		},
	}

	scanner := NewScanner()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			name, price, ok := scanner.Scan(tt.doc)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, name)
			assert.InDelta(t, tt.wantPrice, price, 1e-9)
		})
	}
}

func TestScanner_Records(t *testing.T) {
	t.Parallel()

	doc := deedDoc(
		[]string{"DEED", "2015-03-01", "$1,000", "A", "B"},
		[]string{"MTGE", "2015-03-01", "900", "Bank", "B"},
		[]string{"DEED", "2016-05-02"},
	)

	records := NewScanner().Records(doc)
	require.Len(t, records, 2)
	assert.Equal(t, model.DeedRecord{Row: 2, DocType: "DEED", AmountRaw: "1000", PartyName: "B"}, records[0])
	assert.Equal(t, model.DeedRecord{Row: 4, DocType: "DEED"}, records[1])
}

func TestScanner_CustomMarkers(t *testing.T) {
	t.Parallel()

	doc := model.NewDocument("unit.csv", [][]string{
		{"Doc Kind"},
		{"DEED", "", "10", "", "Ignored Type"},
		{"DEED, COVENANT", "", "20", "", "Covenant Buyer"},
	})

	scanner := NewScanner(WithSectionMarker("Doc Kind"), WithDocType("DEED, COVENANT"))
	name, price, ok := scanner.Scan(doc)
	require.True(t, ok)
	assert.Equal(t, "Covenant Buyer", name)
	assert.InDelta(t, 20.0, price, 1e-9)
}
