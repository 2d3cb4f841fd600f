package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"casamento/internal/models"
	"casamento/internal/pix"
	"casamento/internal/security"
)

// pixDeadlineCookie holds the unix time the current PIX window closes
const pixDeadlineCookie = "casamento_pix_deadline"

// Checkout shows the cart summary and the payment method choice
func (s *Site) Checkout(w http.ResponseWriter, r *http.Request) {
	c, err := s.pricedCart(w, r)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, ErrGiftCatalogLoadFailed, "Error repricing cart", err)
		return
	}
	if c.IsEmpty() {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	total := c.TotalPrice()
	data := CheckoutViewData{
		PageData:        s.page(r, "Finalizar Presente", "cart"),
		Items:           c.Items(),
		Total:           total,
		PIXTotal:        total.Discount(s.cfg.PIXDiscountPercent),
		DiscountPercent: s.cfg.PIXDiscountPercent,
	}
	s.tmpl.Render(w, http.StatusOK, "checkout", data)
}

// PIXPayment shows the discounted BR Code and the payment window
func (s *Site) PIXPayment(w http.ResponseWriter, r *http.Request) {
	c, err := s.pricedCart(w, r)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, ErrGiftCatalogLoadFailed, "Error repricing cart", err)
		return
	}
	if c.IsEmpty() {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	total := c.TotalPrice()
	data := PIXViewData{
		PageData:        s.page(r, "Pagamento via PIX", "cart"),
		Total:           total,
		Discounted:      total.Discount(s.cfg.PIXDiscountPercent),
		DiscountPercent: s.cfg.PIXDiscountPercent,
	}

	payload, err := s.pixPayment(r, data.Discounted).Payload()
	if err != nil {
		s.log.Warn().Err(err).Msg("PIX payment unavailable")
		data.Unavailable = true
		s.tmpl.Render(w, http.StatusOK, "pix", data)
		return
	}
	data.Payload = payload

	now := s.now()
	deadline, ok := pixDeadline(r, now)
	if !ok {
		deadline = now.Add(s.cfg.PIXPaymentWindow)
		http.SetCookie(w, security.CreateSessionCookie(r, pixDeadlineCookie, strconv.FormatInt(deadline.Unix(), 10), deadline))
	}
	data.ExpiresAt = deadline
	data.SecondsLeft = int(deadline.Sub(now).Round(time.Second) / time.Second)

	s.tmpl.Render(w, http.StatusOK, "pix", data)
}

// PIXQRCode serves the QR code PNG for the current cart
func (s *Site) PIXQRCode(w http.ResponseWriter, r *http.Request) {
	c, err := s.pricedCart(w, r)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, ErrGiftCatalogLoadFailed, "Error repricing cart", err)
		return
	}
	if c.IsEmpty() {
		http.NotFound(w, r)
		return
	}

	png, err := s.pixPayment(r, c.TotalPrice().Discount(s.cfg.PIXDiscountPercent)).QRCode(pixQRSize)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, ErrInternalServerError, "Error generating PIX QR code", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(png)
}

// PIXPaid is the guest's "Já Paguei" confirmation. The payment itself is not verified.
func (s *Site) PIXPaid(w http.ResponseWriter, r *http.Request) {
	c := s.carts.Load(r)
	c.Clear()
	if err := s.carts.Save(w, r, c); err != nil {
		s.log.Error().Err(err).Msg("Error clearing cart")
	}
	http.SetCookie(w, security.CreateDeleteCookie(r, pixDeadlineCookie))

	s.log.Info().Str("session_id", GetSessionID(r.Context())).Msg("PIX payment confirmed by guest")
	http.Redirect(w, r, "/success", http.StatusSeeOther)
}

// OtherPayment registers the cart as a purchase and initialises the redirect wallet
// with the returned preference id
func (s *Site) OtherPayment(w http.ResponseWriter, r *http.Request) {
	c, err := s.pricedCart(w, r)
	if err != nil {
		respondWithError(w, http.StatusBadGateway, ErrGiftCatalogLoadFailed, "Error repricing cart", err)
		return
	}
	if c.IsEmpty() {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	data := OtherPaymentViewData{
		PageData:  s.page(r, "Outras Opções de Pagamento", "cart"),
		Total:     c.TotalPrice(),
		PublicKey: s.cfg.MercadoPagoPublicKey,
	}

	id, err := s.catalog.CreatePurchase(r.Context(), models.PurchaseItemsFromCart(c.Items()))
	if err != nil {
		s.log.Error().Err(err).Msg("Error creating purchase")
		data.Error = "Não foi possível iniciar o pagamento. Tente novamente mais tarde."
	} else {
		data.PreferenceID = id
	}

	s.tmpl.Render(w, http.StatusOK, "other", data)
}

func (s *Site) pixPayment(r *http.Request, amount models.Money) pix.Payment {
	return pix.Payment{
		Key:          s.cfg.PIXKey,
		MerchantName: s.cfg.PIXMerchantName,
		MerchantCity: s.cfg.PIXMerchantCity,
		Amount:       amount,
		TxID:         pixTxID(GetSessionID(r.Context())),
	}
}

// pixTxID derives a transaction id from the session so the payload is stable per visitor
func pixTxID(sessionID string) string {
	id := strings.ReplaceAll(sessionID, "-", "")
	if len(id) > 25 {
		id = id[:25]
	}
	return id
}

// pixDeadline reads a still-open payment window from the request
func pixDeadline(r *http.Request, now time.Time) (time.Time, bool) {
	cookie, err := r.Cookie(pixDeadlineCookie)
	if err != nil {
		return time.Time{}, false
	}
	unix, err := strconv.ParseInt(cookie.Value, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	deadline := time.Unix(unix, 0)
	if !deadline.After(now) {
		return time.Time{}, false
	}
	return deadline, true
}
