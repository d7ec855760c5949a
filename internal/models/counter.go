package models

// SequenceCounter backs named auto-increment sequences, such as the
// user_id sequence that mints account IDs.
type SequenceCounter struct {
	Name  string `gorm:"primaryKey"`
	Value int64  `gorm:"not null"`
}

func (SequenceCounter) TableName() string {
	return "sequence_counters"
}
