package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLokInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   LokInput
		wantErr error
	}{
		{"empty name", LokInput{Name: ""}, ErrInvalidName},
		{"blank name", LokInput{Name: "  \t"}, ErrInvalidName},
		{"minimal", LokInput{Name: "V 100"}, nil},
		{"address ignored without decoder", LokInput{Name: "V 100", Address: "abc"}, nil},
		{"non numeric address", LokInput{Name: "V 100", DecoderPresent: true, Address: "abc"}, ErrInvalidAddress},
		{"zero address", LokInput{Name: "V 100", DecoderPresent: true, Address: "0"}, ErrInvalidAddress},
		{"negative address", LokInput{Name: "V 100", DecoderPresent: true, Address: "-3"}, ErrInvalidAddress},
		{"empty address with decoder", LokInput{Name: "V 100", DecoderPresent: true}, nil},
		{"short name too long", LokInput{Name: "V 100", DecoderPresent: true, ShortName: "V100XX"}, ErrShortNameTooLong},
		{"five rune short name", LokInput{Name: "V 100", DecoderPresent: true, ShortName: "ÖBBÄÜ"}, nil},
		{"long short name ignored without decoder", LokInput{Name: "V 100", ShortName: "V100XX"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLokInputLok(t *testing.T) {
	t.Run("decoder keeps address and upper-cases short name", func(t *testing.T) {
		lok, err := ParseLok(LokInput{
			Name:           "TEST",
			Address:        "14141",
			ShortName:      "14te",
			Producer:       "Roco",
			Administration: "ÖBB",
			DecoderPresent: true,
		})
		require.NoError(t, err)

		require.NotNil(t, lok.Address)
		assert.Equal(t, 14141, *lok.Address)
		assert.Equal(t, "14TE", lok.ShortNamePretty())
		assert.Equal(t, "Roco", lok.ProducerPretty())
		assert.Equal(t, "ÖBB", lok.AdministrationPretty())
		assert.Nil(t, lok.ImagePath)
	})

	t.Run("no decoder drops address and short name", func(t *testing.T) {
		lok, err := ParseLok(LokInput{Name: "Köf", Address: "12", ShortName: "KOF"})
		require.NoError(t, err)

		assert.Nil(t, lok.Address)
		assert.Nil(t, lok.ShortName)
		assert.False(t, lok.DecoderPresent)
	})

	t.Run("empty strings become absent", func(t *testing.T) {
		lok, err := ParseLok(LokInput{Name: "Köf", DecoderPresent: true})
		require.NoError(t, err)

		assert.Nil(t, lok.Address)
		assert.Nil(t, lok.ShortName)
		assert.Nil(t, lok.Producer)
		assert.Nil(t, lok.Administration)
	})

	t.Run("invalid input is rejected", func(t *testing.T) {
		_, err := ParseLok(LokInput{})
		assert.ErrorIs(t, err, ErrInvalidName)
	})
}

func TestTargetPath(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		scheme  string
		want    string
		wantErr bool
	}{
		{"scheme stripped", "sqlite://data/lokbuch.db", "sqlite", "data/lokbuch.db", false},
		{"absolute path", "sqlite:///var/lokbuch.db", "sqlite", "/var/lokbuch.db", false},
		{"bare path", "lokbuch.db", "sqlite", "lokbuch.db", false},
		{"wrong scheme", "bolt://x.bolt", "sqlite", "", true},
		{"empty path", "sqlite://", "sqlite", "", true},
		{"empty target", "", "sqlite", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TargetPath(tt.target, tt.scheme)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTarget)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLokInput_RoundTrip(t *testing.T) {
	in := LokInput{
		Name:           "Taurus",
		Address:        "1116",
		ShortName:      "TAU",
		Producer:       "Roco",
		Administration: "ÖBB",
		DecoderPresent: true,
		ImagePath:      "/data/images/taurus.png",
	}
	lok, err := ParseLok(in)
	require.NoError(t, err)
	assert.Equal(t, in, lok.Input())

	bare := Lok{Name: "Köf"}.Input()
	assert.Equal(t, LokInput{Name: "Köf"}, bare)
}
