package types

import (
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"
)

// MaxShortNameLength is the longest short display name a decoder handset
// can show.
const MaxShortNameLength = 5

// Input validation errors.
var (
	ErrInvalidName      = errors.New("name must not be empty")
	ErrInvalidAddress   = errors.New("address must be a number greater than 0")
	ErrShortNameTooLong = errors.New("short name must not be longer than 5 characters")
)

// LokInput carries the raw, user-entered strings for a Lok before parsing.
type LokInput struct {
	Name           string
	Address        string
	ShortName      string
	Producer       string
	Administration string
	DecoderPresent bool
	ImagePath      string
}

// Validate checks the raw input. A name of only white space counts as
// empty. The address and short name are only checked when a decoder is
// present, since they are dropped otherwise.
func (in LokInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrInvalidName
	}
	if !in.DecoderPresent {
		return nil
	}
	if in.Address != "" {
		addr, err := strconv.Atoi(strings.TrimSpace(in.Address))
		if err != nil || addr <= 0 {
			return ErrInvalidAddress
		}
	}
	if utf8.RuneCountInString(in.ShortName) > MaxShortNameLength {
		return ErrShortNameTooLong
	}
	return nil
}

// Lok builds a Lok from the raw input. It does not validate; call Validate
// first. Without a decoder the address and short name are absent. The
// short name is upper-cased and an unparsable address becomes absent.
func (in LokInput) Lok() Lok {
	row := LokRow{
		Name:           in.Name,
		Address:        AbsentAddress,
		Producer:       in.Producer,
		Administration: in.Administration,
		DecoderPresent: in.DecoderPresent,
		ImagePath:      in.ImagePath,
	}
	if in.DecoderPresent {
		if addr, err := strconv.Atoi(strings.TrimSpace(in.Address)); err == nil {
			row.Address = addr
		}
		row.ShortName = strings.ToUpper(in.ShortName)
	}
	return LokFromRow(row)
}

// ParseLok validates the input and builds the Lok.
func ParseLok(in LokInput) (Lok, error) {
	if err := in.Validate(); err != nil {
		return Lok{}, err
	}
	return in.Lok(), nil
}

// Input returns the raw form of l, the inverse of LokInput.Lok for values
// that passed validation.
func (l Lok) Input() LokInput {
	in := LokInput{
		Name:           l.Name,
		ShortName:      stringToRaw(l.ShortName),
		Producer:       stringToRaw(l.Producer),
		Administration: stringToRaw(l.Administration),
		DecoderPresent: l.DecoderPresent,
		ImagePath:      stringToRaw(l.ImagePath),
	}
	if l.Address != nil {
		in.Address = strconv.Itoa(*l.Address)
	}
	return in
}
