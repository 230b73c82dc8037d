package export

// Dataset is a column-ordered table handed to the exporters. Rows are keyed
// by header name so partially filled rows render as blanks.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}
