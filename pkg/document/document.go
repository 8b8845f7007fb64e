package document

// Field is a labelled value, e.g. "Receipt No:" / "R-1".
type Field struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Header is the block printed above the item table.
type Header struct {
	LogoURL      string  `json:"logo_url,omitempty"`
	BusinessName string  `json:"business_name"`
	Heading      string  `json:"heading,omitempty"`
	Title        string  `json:"title"`
	Details      []Field `json:"details"` // left column: receipt number, date, ...
	Party        []Field `json:"party"`   // right column: customer info
}

// Table is the item table with its totals rows.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Totals  []Field    `json:"totals"`
}

// Footer is the block printed below the item table.
type Footer struct {
	PaymentTitle string  `json:"payment_title"`
	Payment      []Field `json:"payment"`
	Notes        string  `json:"notes,omitempty"`
	ThankYou     string  `json:"thank_you"`
	Lines        []Field `json:"lines"`
}

// Document is a renderable receipt. It is a plain value with no references
// to external resources other than the logo URL it prints.
type Document struct {
	Title  string `json:"title"`
	Header Header `json:"header"`
	Table  Table  `json:"table"`
	Footer Footer `json:"footer"`
}

// New creates an empty document with the given page title.
func New(title string) *Document {
	return &Document{Title: title}
}

// Detail appends a field to the left header column.
func (d *Document) Detail(label, value string) *Document {
	d.Header.Details = append(d.Header.Details, Field{Label: label, Value: value})
	return d
}

// Party appends a field to the right header column.
func (d *Document) Party(label, value string) *Document {
	d.Header.Party = append(d.Header.Party, Field{Label: label, Value: value})
	return d
}

// Columns sets the item table header.
func (d *Document) Columns(names ...string) *Document {
	d.Table.Columns = names
	return d
}

// Row appends one item row. Cells are stored in the order given.
func (d *Document) Row(cells ...string) *Document {
	d.Table.Rows = append(d.Table.Rows, cells)
	return d
}

// Total appends a totals row under the item table.
func (d *Document) Total(label, value string) *Document {
	d.Table.Totals = append(d.Table.Totals, Field{Label: label, Value: value})
	return d
}

// Payment appends a field to the footer payment details.
func (d *Document) Payment(label, value string) *Document {
	d.Footer.Payment = append(d.Footer.Payment, Field{Label: label, Value: value})
	return d
}

// FooterLine appends a contact/legal line to the footer.
func (d *Document) FooterLine(label, value string) *Document {
	d.Footer.Lines = append(d.Footer.Lines, Field{Label: label, Value: value})
	return d
}
