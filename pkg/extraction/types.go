package extraction

// MIMETypePDF is the only document type the extractor accepts.
const MIMETypePDF = "application/pdf"

// Field names used both on the wire and as confidence keys.
type Field string

const (
	FieldName    Field = "name"
	FieldPhone   Field = "phone"
	FieldAddress Field = "address"
	FieldRole    Field = "role"
)

// Fields lists every extracted field in display order.
var Fields = []Field{FieldName, FieldPhone, FieldAddress, FieldRole}

// Label returns the human heading for a field.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldPhone:
		return "Phone"
	case FieldAddress:
		return "Address"
	case FieldRole:
		return "Role"
	}
	return string(f)
}

// Document is a file chosen by the user for extraction.
type Document struct {
	Filename string
	MIMEType string
	Content  []byte
}

// IsPDF reports whether the declared MIME type is exactly application/pdf.
func (d Document) IsPDF() bool {
	return d.MIMEType == MIMETypePDF
}

// Size returns the content length in bytes.
func (d Document) Size() int {
	return len(d.Content)
}

// Confidence maps each field to a score in [0,1].
type Confidence map[Field]float64

// RawResult is the "data" object returned by the extraction service.
// A nil field means the service sent null or omitted it.
type RawResult struct {
	Name       *string            `json:"name"`
	Address    *string            `json:"address"`
	Phone      *string            `json:"phone"`
	Role       *string            `json:"role"`
	Confidence map[string]float64 `json:"confidence"`
}

// Result is a normalized extraction. Nil fields were never extracted.
type Result struct {
	Name       *string
	Phone      *string
	Address    *string
	Role       *string
	Confidence Confidence
}

// Value returns the normalized value for a field.
func (r Result) Value(f Field) *string {
	switch f {
	case FieldName:
		return r.Name
	case FieldPhone:
		return r.Phone
	case FieldAddress:
		return r.Address
	case FieldRole:
		return r.Role
	}
	return nil
}
