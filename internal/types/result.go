package types

// QueryResult contains the rendered SQL, the collected constants in
// placeholder order, and the names of the parameters required at bind time.
type QueryResult struct {
	SQL            string
	Constants      []any
	RequiredParams []string
}
