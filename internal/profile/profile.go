package profile

import (
	"errors"
	"regexp"
	"strings"
)

// Profile is the delivery form the customer fills once and reuses at
// checkout. JSON tags match the userData record the mobile app wrote.
type Profile struct {
	Nama        string `json:"nama"`
	Alamat      string `json:"alamat"`
	DetailRumah string `json:"detailRumah"`
	NomorWa     string `json:"nomorWa"`
}

var (
	ErrMissingFields = errors.New("nama, alamat, dan nomor wa wajib diisi")
	ErrInvalidPhone  = errors.New("nomor wa harus 10-15 digit angka")
)

// Nomor WA: 10-15 digit, angka saja.
var phoneRe = regexp.MustCompile(`^[0-9]{10,15}$`)

func (p Profile) Validate() error {
	if strings.TrimSpace(p.Nama) == "" || strings.TrimSpace(p.Alamat) == "" || strings.TrimSpace(p.NomorWa) == "" {
		return ErrMissingFields
	}
	if !phoneRe.MatchString(p.NomorWa) {
		return ErrInvalidPhone
	}
	return nil
}

// Complete gates the cart page: a stored profile counts only when the
// name is non-blank.
func (p Profile) Complete() bool {
	return strings.TrimSpace(p.Nama) != ""
}
