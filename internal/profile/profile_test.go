package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		p    Profile
		want error
	}{
		{"ok", Profile{Nama: "Budi", Alamat: "Margorejo", NomorWa: "081234567890"}, nil},
		{"ok with detail", Profile{Nama: "Budi", Alamat: "Margorejo", DetailRumah: "pagar hijau", NomorWa: "081234567890"}, nil},
		{"missing nama", Profile{Alamat: "Margorejo", NomorWa: "081234567890"}, ErrMissingFields},
		{"missing alamat", Profile{Nama: "Budi", NomorWa: "081234567890"}, ErrMissingFields},
		{"missing phone", Profile{Nama: "Budi", Alamat: "Margorejo"}, ErrMissingFields},
		{"blank after trim", Profile{Nama: "   ", Alamat: "Margorejo", NomorWa: "081234567890"}, ErrMissingFields},
		{"phone too short", Profile{Nama: "Budi", Alamat: "Margorejo", NomorWa: "081234567"}, ErrInvalidPhone},
		{"phone too long", Profile{Nama: "Budi", Alamat: "Margorejo", NomorWa: "0812345678901234"}, ErrInvalidPhone},
		{"phone non numeric", Profile{Nama: "Budi", Alamat: "Margorejo", NomorWa: "0812-345-678"}, ErrInvalidPhone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.p.Validate()
			if tc.want == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestComplete(t *testing.T) {
	assert.False(t, Profile{}.Complete())
	assert.False(t, Profile{Nama: "  "}.Complete())
	assert.True(t, Profile{Nama: "Budi"}.Complete())
}
