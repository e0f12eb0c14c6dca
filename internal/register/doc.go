// Package register implements the partitioned workbook store.
//
// Orders are recorded in one workbook file per calendar year
// ({root}/{year}/{year}_orders_register.xlsx) with one sheet per calendar
// month, named by month number. Each workbook carries an immutable "default"
// sheet that is never populated with data; it exists only as a cloning
// source when a month sheet is first needed, so new sheets inherit the
// template's formatting and formulas.
//
// Partitions are append-only: a partition file is never deleted, a month
// sheet is never removed, and row numbers are never reused. Every mutation
// is a whole-file read-modify-rewrite, which is why callers must serialize
// writes (see package pipeline). The row location of every order is recorded
// in the durable index (package index) only after the row itself has been
// written to disk.
package register
