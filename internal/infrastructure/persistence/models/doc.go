// Package models contains the GORM persistence models. They mirror the
// domain entities field by field and carry the mapping in both directions,
// so the domain layer never sees a gorm tag.
//
// Table and column names are kept in Portuguese to stay compatible with
// the schema the data was first collected under.
package models
