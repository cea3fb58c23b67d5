// Package finsight implements the computation layer of a personal finance
// analyzer: routing-rule matching and split allocation, recurring-expense
// scheduling and monthly forecasting, credit-card utilization analysis,
// spent-but-not-listed reconciliation, and portfolio-level net worth,
// cash flow, and insight generation.
//
// Every operation is a pure function of its inputs. The package performs no
// I/O, retains no references to caller data, and is safe for concurrent use.
// Monetary values are decimal.Decimal throughout; percentages are expressed
// on the 0-100 scale. Callers are expected to validate inputs upstream (see
// ValidationError); degenerate-but-valid states such as a zero credit limit
// or an empty time series produce zeroed results, never errors.
package finsight
