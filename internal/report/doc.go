// Package report renders building reports.
//
// Writers implement the Writer interface:
//   - SimpleWriter: plain text for terminals and .txt files
//   - JSONWriter: structured JSON with derived statistics
//   - MarkdownWriter: GitHub Flavored Markdown with mermaid charts for the
//     yearly values, the sale-price distribution and the deed-holder
//     categories
//
// Derived figures are computed once by NewStatistics so every format shows
// the same numbers.
package report
