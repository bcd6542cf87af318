// Package prices holds the in-memory price table of bulk-priced items and the
// arithmetic run over it: tier completion, change detection, resampling and
// alignment statistics. Every operation takes the table explicitly.
package prices
