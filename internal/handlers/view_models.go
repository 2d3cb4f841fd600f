package handlers

import (
	"fmt"
	"html/template"
	"time"

	"casamento/internal/countdown"
	"casamento/internal/models"
	"casamento/internal/rsvp"
)

// PageData is embedded by every page view
type PageData struct {
	Title     string
	Active    string
	CSRFToken string
	CartCount int
}

type CountdownUnitView struct {
	Key      string
	Label    string
	Text     string
	OldText  string
	Flipping bool
}

type CountdownView struct {
	Finished bool
	Message  string
	Units    []CountdownUnitView
}

// newCountdownView renders a record; flips may be nil
func newCountdownView(tr countdown.TimeRemaining, flips *countdown.FlipTracker, at time.Time) CountdownView {
	if tr.Expired() {
		return CountdownView{Finished: true, Message: countdown.FinishedMessage}
	}

	v := CountdownView{}
	for _, uv := range tr.Units() {
		u := CountdownUnitView{
			Key:   uv.Unit.Key(),
			Label: uv.Label(),
			Text:  uv.Text(),
		}
		if flips != nil {
			if fl, ok := flips.Flipping(uv.Unit, at); ok {
				u.Flipping = true
				u.OldText = fl.OldText()
				u.Text = fl.NewText()
			}
		}
		v.Units = append(v.Units, u)
	}
	return v
}

type HomeViewData struct {
	PageData
	WeddingDate time.Time
	Countdown   CountdownView
}

type PicturesViewData struct {
	PageData
	Pictures []string
}

type ContentViewData struct {
	PageData
	Body template.HTML
}

type GiftCard struct {
	models.Gift
	InCart   bool
	Quantity int
}

type GiftsViewData struct {
	PageData
	Filter  CatalogFilter
	Gifts   []GiftCard
	Total   models.Money
	Error   string
	Sorts   []SortOption
	Results int
}

type SortOption struct {
	Value    string
	Label    string
	Selected bool
}

type CartViewData struct {
	PageData
	Items      []models.CartItem
	Total      models.Money
	TotalItems int
}

type CheckoutViewData struct {
	PageData
	Items           []models.CartItem
	Total           models.Money
	PIXTotal        models.Money
	DiscountPercent int
}

type PIXViewData struct {
	PageData
	Total           models.Money
	Discounted      models.Money
	DiscountPercent int
	Payload         string
	ExpiresAt       time.Time
	SecondsLeft     int
	Unavailable     bool
}

// WindowText formats the remaining payment window as MM:SS
func (d PIXViewData) WindowText() string {
	s := d.SecondsLeft
	if s < 0 {
		s = 0
	}
	return fmt.Sprintf("%02d:%02d", s/60, s%60)
}

type OtherPaymentViewData struct {
	PageData
	Total        models.Money
	PreferenceID string
	PublicKey    string
	Error        string
}

type RSVPViewData struct {
	PageData
	rsvp.View
	TokenLength int
	Notice      string
}

type RedirectViewData struct {
	PageData
	Message string
	Delay   int
}
