// Package badger implements the storage interfaces using BadgerDB.
//
// Documents are stored under uid-based keys with a content hash alongside
// each record, so re-imports of unchanged mail are skipped. A folder index
// supports listing uids per mailbox folder without scanning full documents.
package badger
