package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"finitefield.org/flor-web/internal/cart"
	"finitefield.org/flor-web/internal/catalogue"
	"finitefield.org/flor-web/internal/handlers"
	mw "finitefield.org/flor-web/internal/middleware"
	"finitefield.org/flor-web/internal/notify"
	"finitefield.org/flor-web/internal/observability"
)

var (
	errUnknownAction  = errors.New("unknown cart action")
	errUnknownProduct = errors.New("unknown product")
	errSoldOut        = errors.New("product is sold out")
)

// openCart binds the cart store to the request's cookie. A tampered or corrupt cookie yields an
// empty cart.
func (a *app) openCart(w http.ResponseWriter, r *http.Request, notifier cart.Notifier) *cart.Store {
	svc, ok := a.carts[mw.Lang(r)]
	if !ok {
		svc = a.carts[a.bundle.Fallback()]
	}
	st, err := svc.Open(r.Context(), mw.CartSlot(w, r, a.slot), notifier)
	if err != nil {
		observability.FromContext(r.Context()).Warn("cart cookie discarded", zap.Error(err))
	}
	return st
}

// cartHandler renders the full cart page.
func (a *app) cartHandler(w http.ResponseWriter, r *http.Request) {
	st := a.openCart(w, r, nil)
	data := a.pageData(r, "cart", "cart.title", "cart.description")
	if r.URL.Query().Get("alert") == "empty" {
		data.Alert = a.bundle.T(data.Lang, "cart.empty_alert")
	}
	a.renderPage(w, r, data, a.mountCart(data.Lang, data.CSRFToken, st.Snapshot()))
}

// cartDrawerFrag returns the drawer and the out-of-band header icons.
func (a *app) cartDrawerFrag(w http.ResponseWriter, r *http.Request) {
	a.renderCartFragment(w, r, a.openCart(w, r, nil))
}

func (a *app) renderCartFragment(w http.ResponseWriter, r *http.Request, st *cart.Store) {
	data := handlers.PageData{Lang: mw.Lang(r), CSRFToken: mw.CSRFToken(r)}
	a.renderFragment(w, r, "cart_fragment", data, a.mountCart(data.Lang, data.CSRFToken, st.Snapshot()))
}

// cartActionsHandler applies one cart mutation posted by a product card or a cart line.
func (a *app) cartActionsHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "invalid form")
		return
	}
	queue := notify.NewQueue()
	st := a.openCart(w, r, queue)

	if err := a.applyCartAction(r.Context(), st, r.PostForm); err != nil {
		code := http.StatusUnprocessableEntity
		switch {
		case errors.Is(err, cart.ErrInvalidIndex),
			errors.Is(err, cart.ErrInvalidQuantity),
			errors.Is(err, cart.ErrInvalidItem),
			errors.Is(err, cart.ErrInvalidPrice),
			errors.Is(err, errUnknownAction),
			errors.Is(err, errUnknownProduct),
			errors.Is(err, errSoldOut),
			errors.Is(err, mw.ErrSlotOverflow):
		default:
			code = http.StatusInternalServerError
		}
		observability.FromContext(r.Context()).Info("cart action rejected",
			zap.String("action", r.PostForm.Get("action")), zap.Error(err))
		mw.WriteError(w, r, code, err.Error())
		return
	}

	if !mw.IsHTMX(r.Context()) {
		if items := queue.Items(); len(items) > 0 {
			sess := mw.GetSession(r)
			for _, n := range items {
				sess.AddFlash(n.Message)
			}
		}
		http.Redirect(w, r, backTo(r, "/cart"), http.StatusSeeOther)
		return
	}
	if trigger, ok := queue.Trigger(); ok {
		w.Header().Set("HX-Trigger", trigger)
	}
	a.renderCartFragment(w, r, st)
}

// applyCartAction dispatches the form's action field onto the store.
func (a *app) applyCartAction(ctx context.Context, st *cart.Store, form url.Values) error {
	action := strings.TrimSpace(form.Get("action"))
	switch action {
	case "add":
		return a.addToCart(ctx, st, form)
	case "clear":
		return st.Clear(ctx)
	}

	index, err := strconv.Atoi(strings.TrimSpace(form.Get("index")))
	if err != nil {
		return &cart.InvalidIndexError{Index: -1, Len: st.Len()}
	}
	switch action {
	case "increment":
		return st.Step(ctx, index, 1)
	case "decrement":
		return st.Step(ctx, index, -1)
	case "remove":
		return st.Remove(ctx, index)
	case "set":
		qty, err := strconv.Atoi(strings.TrimSpace(form.Get("quantity")))
		if err != nil {
			return fmt.Errorf("%w: %q", cart.ErrInvalidQuantity, form.Get("quantity"))
		}
		return st.SetQuantity(ctx, index, qty)
	}
	return fmt.Errorf("%w: %q", errUnknownAction, action)
}

// addToCart resolves the posted product id against the catalogue, so names and prices never come
// from the client.
func (a *app) addToCart(ctx context.Context, st *cart.Store, form url.Values) error {
	id := strings.TrimSpace(form.Get("id"))
	p, ok := catalogue.Lookup(a.products, id)
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownProduct, id)
	}
	if p.Stock == catalogue.StockOut {
		return fmt.Errorf("%w: %s", errSoldOut, p.ID)
	}
	qty := 1
	if raw := strings.TrimSpace(form.Get("quantity")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%w: %q", cart.ErrInvalidQuantity, raw)
		}
		qty = n
	}
	add := cart.Addition{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.PriceText,
		Image:    p.Image,
		Quantity: qty,
	}
	if form.Get("safety_box") != "" && p.HasSafetyBox() {
		add.SafetyBox = true
		add.SafetyBoxPrice = p.SafetyBoxPrice
	}
	_, err := st.Add(ctx, add)
	return err
}

// cartCheckoutHandler moves a non-empty cart on to checkout and alerts on an empty one.
func (a *app) cartCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	st := a.openCart(w, r, nil)
	if !st.Empty() {
		mw.Redirect(w, r, "/checkout")
		return
	}
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, "/cart?alert=empty", http.StatusSeeOther)
		return
	}
	msg := a.bundle.T(mw.Lang(r), "cart.empty_alert")
	trigger, err := json.Marshal(map[string]any{"cart:alert": map[string]string{"message": msg}})
	if err != nil {
		mw.WriteError(w, r, http.StatusInternalServerError, "encode trigger")
		return
	}
	w.Header().Set("HX-Trigger", string(trigger))
	w.Header().Set("HX-Reswap", "none")
	w.WriteHeader(http.StatusOK)
}

// checkoutHandler renders the order review. There is nothing to review without items.
func (a *app) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	st := a.openCart(w, r, nil)
	if st.Empty() {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	sum := st.Snapshot()
	data := a.pageData(r, "checkout", "checkout.title", "checkout.description")
	data.Checkout = sum
	a.renderPage(w, r, data, a.mountCart(data.Lang, data.CSRFToken, sum))
}

// backTo returns the same-origin Referer path, or fallback.
func backTo(r *http.Request, fallback string) string {
	ref, err := url.Parse(r.Referer())
	if err != nil || !isLocalPath(ref.Path) || (ref.Host != "" && ref.Host != r.Host) {
		return fallback
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

// isLocalPath rejects paths a browser would resolve against another host, such as "//x" or "/\x".
func isLocalPath(p string) bool {
	if p == "" || p[0] != '/' {
		return false
	}
	return len(p) == 1 || (p[1] != '/' && p[1] != '\\')
}
