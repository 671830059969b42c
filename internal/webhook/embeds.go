package webhook

import (
	"fmt"
	"strings"
	"time"

	"github.com/warungpati/storefront/internal/profile"
	"github.com/warungpati/storefront/internal/store"
)

// ColorGreen is the accent the admin channel expects on both embeds.
const ColorGreen = 0x22c55e

// FormatRupiah renders whole rupiah with dot grouping: 27500 -> "Rp 27.500".
func FormatRupiah(n int) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	if neg {
		return "Rp -" + b.String()
	}
	return "Rp " + b.String()
}

// OrderEmbed lays out a checkout the way the admin channel has always
// seen it: numbered order lines with line totals, then the recipient
// block from the saved profile ("-" for blanks).
func OrderEmbed(items []store.CartItem, total int, p profile.Profile) Embed {
	lines := make([]string, 0, len(items))
	for i, it := range items {
		lines = append(lines, fmt.Sprintf("%d. %s x %d\n%s", i+1, it.Name, it.Qty, FormatRupiah(it.Price*it.Qty)))
	}
	details := strings.Join(lines, "\n") + fmt.Sprintf("\n\n💰 **Total: %s**", FormatRupiah(total))

	recipient := strings.Join([]string{
		"👤 **Nama**: " + orDash(p.Nama),
		"📱 **No WA**: " + orDash(p.NomorWa),
		"📍 **Alamat**: " + orDash(p.Alamat),
		"🏠 **Detail**: " + orDash(p.DetailRumah),
	}, "\n")

	return Embed{
		Title: "🛒 Pesanan Baru",
		Color: ColorGreen,
		Fields: []Field{
			{Name: "🧾 Rincian Pesanan", Value: details, Inline: true},
			{Name: "📦 Data Penerima", Value: recipient, Inline: true},
		},
		Footer:    &Footer{Text: "Pesanan dikirim dari aplikasi warung"},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ContactEmbed carries a message from the contact form.
func ContactEmbed(nama, pesan string) Embed {
	return Embed{
		Title: "📩 Pesan / Saran Baru",
		Color: ColorGreen,
		Fields: []Field{
			{Name: "👤 Nama Pengirim", Value: nama, Inline: false},
			{Name: "💬 Pesan", Value: pesan, Inline: false},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
