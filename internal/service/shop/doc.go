// Package shop implements shop lifecycle aggregation.
//
// The service layer owns the read-merge-write cycle for ingestion batches
// and the enrich/filter/sort pipeline for display and export. It depends on
// the repository interface defined in this package and should never import
// from api/.
//
// Repository implementations live in repository/postgres/.
package shop
