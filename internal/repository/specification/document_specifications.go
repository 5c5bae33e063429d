package specification

import "gorm.io/gorm"

// ByScope filters rows belonging to a single scope.
type ByScope struct {
	Scope string
}

func (s ByScope) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("scope = ?", s.Scope)
}

// ByScopeIn restricts rows to an allowed scope set. This is the access
// constraint for retrieval: it is applied inside the query, never after.
type ByScopeIn struct {
	Scopes []string
}

func (s ByScopeIn) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("scope IN ?", s.Scopes)
}

// ByRecordKey matches a structured record by its normalized key.
type ByRecordKey struct {
	RecordKey string
}

func (s ByRecordKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("record_key = ?", s.RecordKey)
}
