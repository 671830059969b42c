package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warungpati/storefront/internal/cart"
	"github.com/warungpati/storefront/internal/catalog"
	"github.com/warungpati/storefront/internal/logx"
	"github.com/warungpati/storefront/internal/notify"
	"github.com/warungpati/storefront/internal/profile"
	"github.com/warungpati/storefront/internal/store"
	"github.com/warungpati/storefront/internal/webhook"
)

// SessionHeader carries the device-generated session id the app used
// to scope its localStorage.
const SessionHeader = "X-Session-ID"

type StorefrontHandler struct {
	Catalog           *catalog.Loader
	Cart              *cart.Reconciler
	Store             *store.Store
	Toasts            *notify.Center
	Webhook           *webhook.Client
	ContactWebhookURL string
}

func (h *StorefrontHandler) Register(r *chi.Mux) {
	r.Get("/", h.getCatalog)

	r.Get("/cart", h.getCart)
	r.Post("/cart/items", h.addItem)
	r.Put("/cart/items/{id}", h.updateItem)
	r.Post("/cart/items/{id}/delete", h.requestDelete)
	r.Post("/cart/items/{id}/confirm", h.confirmDelete)
	r.Post("/cart/items/{id}/cancel", h.cancelDelete)
	r.Post("/cart/checkout", h.checkout)

	r.Get("/profil", h.getProfil)
	r.Put("/profil", h.putProfil)
	r.Delete("/profil", h.deleteProfil)

	r.Post("/contact", h.postContact)
	r.Get("/notifications", h.getNotifications)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *StorefrontHandler) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	sid := r.Header.Get(SessionHeader)
	if sid == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing session id"})
		return "", false
	}
	return sid, true
}

func (h *StorefrontHandler) getCatalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	products := h.Catalog.Load(ctx)
	category := r.URL.Query().Get("category")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	pg := catalog.Paginate(products, category, page)
	writeJSON(w, http.StatusOK, map[string]any{
		"products":    pg.Items,
		"categories":  catalog.Categories(products),
		"category":    pg.Category,
		"page":        pg.Page,
		"total_pages": pg.TotalPages,
	})
}

type cartView struct {
	Items        []store.CartItem `json:"items"`
	Total        int              `json:"total"`
	ConfirmingID string           `json:"confirming_id,omitempty"`
}

func (h *StorefrontHandler) viewCart(ctx context.Context, sid string) cartView {
	items := h.Store.ReadCart(ctx, sid)
	if items == nil {
		items = []store.CartItem{}
	}
	v := cartView{Items: items, Total: cart.Total(items)}
	if id, ok := h.Cart.PendingDelete(sid); ok {
		v.ConfirmingID = id
	}
	return v
}

// The SPA redirected /cart to /profil when no valid profile was
// stored; the API keeps the behavior as a 409 carrying the redirect
// target plus the same toast.
func (h *StorefrontHandler) getCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	p, ok := h.Store.ReadProfile(r.Context(), sid)
	if !ok || !p.Complete() {
		h.Toasts.Push(sid, "Isi data diri dahulu", notify.Options{Variant: notify.VariantError, Duration: 1800 * time.Millisecond})
		writeJSON(w, http.StatusConflict, map[string]string{"error": "profil belum lengkap", "redirect": "/profil"})
		return
	}
	writeJSON(w, http.StatusOK, h.viewCart(r.Context(), sid))
}

func (h *StorefrontHandler) addItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		ProductID string `json:"product_id"`
		Qty       int    `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ProductID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var found *catalog.Product
	for _, p := range h.Catalog.Load(ctx) {
		if p.ID == req.ProductID {
			found = &p
			break
		}
	}
	if found == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "produk tidak ditemukan"})
		return
	}

	switch err := h.Cart.Add(ctx, sid, *found, req.Qty); {
	case errors.Is(err, cart.ErrOutOfStock):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "stok habis"})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusOK, h.viewCart(ctx, sid))
	}
}

func (h *StorefrontHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Qty int `json:"qty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	switch err := h.Cart.UpdateQuantity(r.Context(), sid, chi.URLParam(r, "id"), req.Qty); {
	case errors.Is(err, cart.ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "item tidak ada di keranjang"})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusOK, h.viewCart(r.Context(), sid))
	}
}

func (h *StorefrontHandler) requestDelete(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	h.Cart.RequestDelete(sid, id)
	writeJSON(w, http.StatusOK, map[string]string{"confirming_id": id})
}

func (h *StorefrontHandler) confirmDelete(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	switch err := h.Cart.ConfirmDelete(r.Context(), sid, chi.URLParam(r, "id")); {
	case errors.Is(err, cart.ErrNoPendingConfirm):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "tidak ada konfirmasi hapus"})
	case err != nil:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusOK, h.viewCart(r.Context(), sid))
	}
}

func (h *StorefrontHandler) cancelDelete(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	h.Cart.CancelDelete(sid, chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, h.viewCart(r.Context(), sid))
}

func (h *StorefrontHandler) checkout(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orderID, err := h.Cart.Checkout(ctx, sid)
	switch {
	case errors.Is(err, cart.ErrEmptyCart):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "keranjang kosong"})
	case errors.Is(err, cart.ErrProfileRequired):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "profil belum lengkap", "redirect": "/profil"})
	case err != nil:
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "gagal mengirim pesanan"})
	default:
		writeJSON(w, http.StatusOK, map[string]string{"order_id": orderID})
	}
}

func (h *StorefrontHandler) getProfil(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	p, _ := h.Store.ReadProfile(r.Context(), sid)
	writeJSON(w, http.StatusOK, p)
}

func (h *StorefrontHandler) putProfil(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	var p profile.Profile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if err := p.Validate(); err != nil {
		text := "Nama, Alamat, dan Nomor WA wajib diisi."
		if errors.Is(err, profile.ErrInvalidPhone) {
			text = "Nomor WA harus 10–15 digit angka."
		}
		h.Toasts.Push(sid, text, notify.Options{Variant: notify.VariantError, Duration: 1800 * time.Millisecond})
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := h.Store.WriteProfile(r.Context(), sid, p); err != nil {
		logx.Error().Err(err).Str("session", sid).Msg("write profile")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	h.Toasts.Push(sid, "Data berhasil disimpan.", notify.Options{Variant: notify.VariantSuccess, Duration: 1800 * time.Millisecond})
	writeJSON(w, http.StatusOK, p)
}

func (h *StorefrontHandler) deleteProfil(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := h.Store.DeleteProfile(r.Context(), sid); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	h.Toasts.Push(sid, "Data berhasil dihapus.", notify.Options{Variant: notify.VariantSuccess, Duration: 1800 * time.Millisecond})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *StorefrontHandler) postContact(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Nama  string `json:"nama"`
		Pesan string `json:"pesan"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Nama) == "" || strings.TrimSpace(req.Pesan) == "" {
		h.Toasts.Push(sid, "Semua field harus diisi.", notify.Options{Variant: notify.VariantError, Duration: 1800 * time.Millisecond})
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "semua field harus diisi"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	embed := webhook.ContactEmbed(req.Nama, req.Pesan)
	if err := h.Webhook.Submit(ctx, h.ContactWebhookURL, []webhook.Embed{embed}); err != nil {
		logx.Error().Err(err).Msg("contact webhook")
		h.Toasts.Push(sid, "Gagal mengirim pesan. Coba lagi.", notify.Options{Variant: notify.VariantError, Duration: 1800 * time.Millisecond})
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "gagal mengirim pesan"})
		return
	}
	h.Toasts.Push(sid, "Pesan berhasil dikirim. Terima kasih!", notify.Options{Variant: notify.VariantSuccess, Duration: 1800 * time.Millisecond})
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}

func (h *StorefrontHandler) getNotifications(w http.ResponseWriter, r *http.Request) {
	sid, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": h.Toasts.Active(sid)})
}
