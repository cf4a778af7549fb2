package models

// Counter is a named monotonic sequence. Increments go through a single
// upsert-returning statement so concurrent readers never observe the
// same value twice.
type Counter struct {
	Name string `gorm:"column:name;primaryKey"`
	Seq  int64  `gorm:"column:seq;not null;default:0"`
}

// CounterOrder is the counter row backing order number issuance.
const CounterOrder = "order"
