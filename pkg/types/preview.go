package types

import (
	"strconv"
	"strings"
)

// PreviewLok is the lightweight projection of a Lok used to render list rows
// and to serve searches without loading the full record.
type PreviewLok struct {
	ID        int64   `json:"id"`
	Address   *int    `json:"address,omitempty"`
	Name      *string `json:"name,omitempty"`
	ShortName *string `json:"short_name,omitempty"`

	searchText string
}

// PreviewRow is the storage-boundary shape of a preview projection.
type PreviewRow struct {
	ID        int64
	Address   int
	Name      string
	ShortName string
}

// NewPreviewLok builds a preview and precomputes its lower-cased search text
// ("<address> <name> <short name>", absent fields contribute "").
func NewPreviewLok(id int64, address *int, name, shortName *string) PreviewLok {
	addressText := ""
	if address != nil && *address >= 0 {
		addressText = strconv.Itoa(*address)
	}
	search := strings.Join([]string{addressText, stringToRaw(name), stringToRaw(shortName)}, " ")

	return PreviewLok{
		ID:         id,
		Address:    address,
		Name:       name,
		ShortName:  shortName,
		searchText: strings.ToLower(search),
	}
}

// PreviewFromRow normalizes a storage row into a PreviewLok.
func PreviewFromRow(row PreviewRow) PreviewLok {
	return NewPreviewLok(row.ID, addressFromRaw(row.Address), stringFromRaw(row.Name), stringFromRaw(row.ShortName))
}

// Clone returns a copy of p that shares no pointers with it.
func (p PreviewLok) Clone() PreviewLok {
	c := p
	c.Address = clonePtr(p.Address)
	c.Name = clonePtr(p.Name)
	c.ShortName = clonePtr(p.ShortName)
	return c
}

// SearchText returns the precomputed lower-cased search string.
func (p PreviewLok) SearchText() string {
	return p.searchText
}

// Matches reports whether query is a substring of the search text. The
// query is matched verbatim; callers fold case beforehand.
func (p PreviewLok) Matches(query string) bool {
	return strings.Contains(p.searchText, query)
}

// AddressPretty returns the address or NoDataText.
func (p PreviewLok) AddressPretty() string {
	if p.Address == nil || *p.Address < 0 {
		return NoDataText
	}
	return strconv.Itoa(*p.Address)
}

// NamePretty returns the name or NoDataText.
func (p PreviewLok) NamePretty() string { return pretty(p.Name) }

// ShortNamePretty returns the short display name or NoDataText.
func (p PreviewLok) ShortNamePretty() string { return pretty(p.ShortName) }
