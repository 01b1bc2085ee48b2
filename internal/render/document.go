// Package render converts the loosely-typed output of a game script into a
// Document the transport layer can display.
package render

// Field is one labelled section of a document: a header line and a body.
type Field struct {
	Header string
	Body   string
}

// Document is the structured display output of a render script. Every field
// is optional; nil means the script did not set it. An empty Document is
// valid, just not very useful.
type Document struct {
	Title     *string
	Color     *int64
	URL       *string
	Thumbnail *string
	Field     *Field
	Footer    *string
}

// Empty reports whether the script set no recognized field at all.
func (d Document) Empty() bool {
	return d.Title == nil && d.Color == nil && d.URL == nil &&
		d.Thumbnail == nil && d.Field == nil && d.Footer == nil
}
