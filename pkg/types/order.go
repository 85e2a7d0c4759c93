package types

import "cmp"

// compareAddressOrName is the single canonical catalog order. When either
// side has an address the two are compared by address, with an absent
// address sorting before any present one (equal addresses are equal, the
// name is not consulted). Only when neither side has an address does the
// name decide, again with absent before present.
func compareAddressOrName(aAddr, bAddr *int, aName, bName *string) int {
	if aAddr != nil || bAddr != nil {
		return compareOptional(aAddr, bAddr)
	}
	return compareOptional(aName, bName)
}

func compareOptional[T cmp.Ordered](a, b *T) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return cmp.Compare(*a, *b)
	}
}

// CompareLoks orders two Loks by the canonical catalog order.
func CompareLoks(a, b Lok) int {
	return compareAddressOrName(a.Address, b.Address, &a.Name, &b.Name)
}

// ComparePreviews orders two previews by the canonical catalog order.
func ComparePreviews(a, b PreviewLok) int {
	return compareAddressOrName(a.Address, b.Address, a.Name, b.Name)
}

// Equivalent reports whether two Loks occupy the same position in the
// catalog order.
func (l Lok) Equivalent(other Lok) bool {
	return CompareLoks(l, other) == 0
}

// Equivalent reports whether two previews occupy the same position in the
// catalog order.
func (p PreviewLok) Equivalent(other PreviewLok) bool {
	return ComparePreviews(p, other) == 0
}

// Equal reports whether two Loks agree on address and name, the only fields
// that take part in catalog equality.
func (l Lok) Equal(other Lok) bool {
	return compareOptional(l.Address, other.Address) == 0 && l.Name == other.Name
}

// Equal reports whether two previews agree on address and name.
func (p PreviewLok) Equal(other PreviewLok) bool {
	return compareOptional(p.Address, other.Address) == 0 && compareOptional(p.Name, other.Name) == 0
}
