package types

import "strconv"

// NoDataText is shown in place of an absent field.
const NoDataText = "---"

// AbsentAddress is the storage-level sentinel for a missing address.
const AbsentAddress = -1

// Lok is one catalog entry of the model-train collection. Its identity is
// the id assigned by the Store on insert; the id is carried alongside the
// value, never inside it. Optional fields are nil when absent.
//
// A Lok is treated as immutable once built: updates construct a new value
// and replace the old one.
type Lok struct {
	Name           string  `json:"name"`
	Address        *int    `json:"address,omitempty"`
	ShortName      *string `json:"short_name,omitempty"`
	Producer       *string `json:"producer,omitempty"`
	Administration *string `json:"administration,omitempty"`
	DecoderPresent bool    `json:"decoder_present"`
	ImagePath      *string `json:"image_path,omitempty"`
}

// LokRow is the storage-boundary shape of a Lok: absence is encoded as a
// negative address or an empty string.
type LokRow struct {
	Name           string
	Address        int
	ShortName      string
	Producer       string
	Administration string
	DecoderPresent bool
	ImagePath      string
}

// LokFromRow normalizes a storage row into a Lok. Negative addresses and
// empty strings become absent.
func LokFromRow(row LokRow) Lok {
	return Lok{
		Name:           row.Name,
		Address:        addressFromRaw(row.Address),
		ShortName:      stringFromRaw(row.ShortName),
		Producer:       stringFromRaw(row.Producer),
		Administration: stringFromRaw(row.Administration),
		DecoderPresent: row.DecoderPresent,
		ImagePath:      stringFromRaw(row.ImagePath),
	}
}

// Row converts the Lok to its storage-boundary shape.
func (l Lok) Row() LokRow {
	return LokRow{
		Name:           l.Name,
		Address:        addressToRaw(l.Address),
		ShortName:      stringToRaw(l.ShortName),
		Producer:       stringToRaw(l.Producer),
		Administration: stringToRaw(l.Administration),
		DecoderPresent: l.DecoderPresent,
		ImagePath:      stringToRaw(l.ImagePath),
	}
}

// Clone returns a copy of l that shares no pointers with it.
func (l Lok) Clone() Lok {
	return Lok{
		Name:           l.Name,
		Address:        clonePtr(l.Address),
		ShortName:      clonePtr(l.ShortName),
		Producer:       clonePtr(l.Producer),
		Administration: clonePtr(l.Administration),
		DecoderPresent: l.DecoderPresent,
		ImagePath:      clonePtr(l.ImagePath),
	}
}

// Preview derives the list projection of the Lok under the given id. The
// preview shares no pointers with l.
func (l Lok) Preview(id int64) PreviewLok {
	name := l.Name
	return NewPreviewLok(id, clonePtr(l.Address), &name, clonePtr(l.ShortName))
}

// AddressPretty returns the address or NoDataText.
func (l Lok) AddressPretty() string {
	if l.Address == nil || *l.Address < 0 {
		return NoDataText
	}
	return strconv.Itoa(*l.Address)
}

// ShortNamePretty returns the short display name or NoDataText.
func (l Lok) ShortNamePretty() string { return pretty(l.ShortName) }

// ProducerPretty returns the producer or NoDataText.
func (l Lok) ProducerPretty() string { return pretty(l.Producer) }

// AdministrationPretty returns the administration or NoDataText.
func (l Lok) AdministrationPretty() string { return pretty(l.Administration) }

// ImagePathOrEmpty returns the image path, or "" when none is set.
func (l Lok) ImagePathOrEmpty() string {
	if l.ImagePath == nil {
		return ""
	}
	return *l.ImagePath
}

// Ptr returns a pointer to v. Handy for building optional fields.
func Ptr[T any](v T) *T {
	return &v
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func pretty(s *string) string {
	if s == nil {
		return NoDataText
	}
	return *s
}

func addressFromRaw(raw int) *int {
	if raw < 0 {
		return nil
	}
	return &raw
}

func addressToRaw(addr *int) int {
	if addr == nil || *addr < 0 {
		return AbsentAddress
	}
	return *addr
}

func stringFromRaw(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}

func stringToRaw(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
