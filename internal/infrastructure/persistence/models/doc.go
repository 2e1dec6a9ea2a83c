// Package models contains the GORM persistence models for documents and
// counterparties. Domain entities carry no ORM tags; each model converts
// to and from its entity with ToDomain and FromDomain.
//
// Money and quantity columns are stored as decimal(18,4). Derived amounts
// (line totals, document totals) are stored for reporting but are always
// recomputed from the inputs when a document is loaded.
package models
