// Package document discovers and loads the tabular property records of a
// building.
//
// A building is a directory holding one document per property unit.
// Comma-separated files (.csv) are read with encoding/csv in quote-aware,
// variable-width mode; spreadsheets (.xlsx, .xlsm) are read with excelize,
// all sheets concatenated in workbook order so that deed and valuation
// tables kept on separate sheets are both visible to the extractors.
package document
