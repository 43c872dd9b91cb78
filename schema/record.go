package schema

// Value is one normalized attribute value: a discrete token for nominal
// attributes or a numeric scalar for ordinal/numeric attributes. Missing
// values carry an explicit flag instead of being dropped.
type Value struct {
	Token   string
	Num     float64
	Missing bool
}

// Record is one account in canonical form. Values are ordered exactly like
// the schema's attributes. The key identifies the record and never enters
// distance computation. Immutable once produced.
type Record struct {
	Key    string
	Values []Value
}
