package main

import (
	"context"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"finitefield.org/flor-web/internal/catalogue"
	"finitefield.org/flor-web/internal/handlers"
	mw "finitefield.org/flor-web/internal/middleware"
	"finitefield.org/flor-web/internal/observability"
	"finitefield.org/flor-web/internal/page"
)

// resolvePanel reads the committed state and open menus from the query and runs the click, if
// any. commit is true when the click selected an option.
func resolvePanel(r *http.Request) (st catalogue.State, ms catalogue.MenuState, commit bool, err error) {
	q := r.URL.Query()
	st = catalogue.StateFromQuery(q)
	ms = catalogue.ParseMenuState(q.Get("open"))
	click, err := catalogue.ParseClick(q.Get("click"))
	if err != nil {
		return st, ms, false, err
	}
	commit, err = ms.Click(click, &st)
	return st, ms, commit, err
}

// mountPanel binds the panel to the rendered grid and applies st to its cards.
func (a *app) mountPanel(ctx context.Context, lang string, st catalogue.State) mountFunc {
	return func(doc *page.Document) error {
		p, err := catalogue.NewPanel(doc,
			catalogue.WithPanelLanguage(a.bundle.Tag(lang)),
			catalogue.WithApplyHook(func(visible int) { a.metrics.RecordApply(ctx, visible) }),
			catalogue.WithCountText(func(visible int) string {
				return strconv.Itoa(visible) + " " + a.bundle.T(lang, "catalogue.count")
			}),
		)
		if err != nil {
			return err
		}
		p.SetState(st)
		p.Apply()
		return nil
	}
}

// catalogueHandler renders the storefront: the panel applied from the query and the cart drawer.
// A bad click on a full page load is ignored like any other unknown query value.
func (a *app) catalogueHandler(w http.ResponseWriter, r *http.Request) {
	st, ms, _, err := resolvePanel(r)
	if err != nil {
		observability.FromContext(r.Context()).Debug("panel click ignored", zap.Error(err))
	}
	data := a.pageData(r, "catalogue", "catalogue.title", "catalogue.description")
	data.Catalogue = a.catalogueView(data.Lang, data.CSRFToken, st, ms)
	data.SEO.AddJSONLD(itemList(catalogue.Apply(a.products, st, catalogue.WithLanguage(a.bundle.Tag(data.Lang)))))

	cartStore := a.openCart(w, r, nil)
	a.renderPage(w, r, data,
		a.mountPanel(r.Context(), data.Lang, st),
		a.mountCart(data.Lang, data.CSRFToken, cartStore.Snapshot()),
	)
}

// cataloguePanelFrag re-renders the panel after a dropdown click. A committed option pushes the
// canonical URL so reloads and shares land on the same view.
func (a *app) cataloguePanelFrag(w http.ResponseWriter, r *http.Request) {
	st, ms, commit, err := resolvePanel(r)
	if err != nil {
		observability.FromContext(r.Context()).Info("panel click rejected", zap.Error(err))
		mw.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	lang := mw.Lang(r)
	data := handlers.PageData{Lang: lang, CSRFToken: mw.CSRFToken(r)}
	data.Catalogue = a.catalogueView(lang, data.CSRFToken, st, ms)
	if commit {
		w.Header().Set("HX-Push-Url", canonicalURL(st))
	}
	a.renderFragment(w, r, "catalogue_panel", data, a.mountPanel(r.Context(), lang, st))
}
