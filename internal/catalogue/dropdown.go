package catalogue

import (
	"fmt"
	"sort"
	"strings"
)

// Menu names one dropdown of the panel.
type Menu string

const (
	MenuAvailability Menu = "availability"
	MenuPrice        Menu = "price"
	MenuSort         Menu = "sort"
)

// Menus lists the dropdowns in display order.
var Menus = []Menu{MenuAvailability, MenuPrice, MenuSort}

func parseMenu(s string) (Menu, error) {
	for _, m := range Menus {
		if string(m) == s {
			return m, nil
		}
	}
	return "", &ValueError{Dimension: "menu", Value: s}
}

// ClickKind classifies a click on the panel.
type ClickKind int

const (
	ClickNone ClickKind = iota
	ClickTrigger
	ClickOption
	ClickOutside
)

// Click is one user click, as carried by the click query parameter:
// "trigger:<menu>", "option:<menu>:<value>" or "outside".
type Click struct {
	Kind  ClickKind
	Menu  Menu
	Value string
}

func (c Click) String() string {
	switch c.Kind {
	case ClickTrigger:
		return "trigger:" + string(c.Menu)
	case ClickOption:
		return "option:" + string(c.Menu) + ":" + c.Value
	case ClickOutside:
		return "outside"
	default:
		return ""
	}
}

// ParseClick parses a click value. The empty string is ClickNone.
func ParseClick(s string) (Click, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Click{}, nil
	}
	if s == "outside" {
		return Click{Kind: ClickOutside}, nil
	}
	kind, rest, _ := strings.Cut(s, ":")
	switch kind {
	case "trigger":
		m, err := parseMenu(rest)
		if err != nil {
			return Click{}, err
		}
		return Click{Kind: ClickTrigger, Menu: m}, nil
	case "option":
		name, value, ok := strings.Cut(rest, ":")
		if !ok || value == "" {
			return Click{}, fmt.Errorf("catalogue: malformed click %q: %w", s, ErrUnknownValue)
		}
		m, err := parseMenu(name)
		if err != nil {
			return Click{}, err
		}
		return Click{Kind: ClickOption, Menu: m, Value: value}, nil
	}
	return Click{}, fmt.Errorf("catalogue: malformed click %q: %w", s, ErrUnknownValue)
}

// MenuState tracks which dropdowns are open.
type MenuState struct {
	open map[Menu]bool
}

// ParseMenuState decodes the comma separated open parameter. Unknown names are ignored.
func ParseMenuState(s string) MenuState {
	ms := MenuState{}
	for _, part := range strings.Split(s, ",") {
		if m, err := parseMenu(strings.TrimSpace(part)); err == nil {
			ms.set(m, true)
		}
	}
	return ms
}

func (ms *MenuState) set(m Menu, open bool) {
	if ms.open == nil {
		ms.open = make(map[Menu]bool)
	}
	if open {
		ms.open[m] = true
	} else {
		delete(ms.open, m)
	}
}

// Open reports whether m is open.
func (ms MenuState) Open(m Menu) bool { return ms.open[m] }

// Encode returns the open menus for the open parameter.
func (ms MenuState) Encode() string {
	names := make([]string, 0, len(ms.open))
	for m := range ms.open {
		names = append(names, string(m))
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

// Click runs one click through the dropdowns. A trigger toggles its own menu and leaves the
// others alone. An option commits the value into st and closes its menu; commit is then true
// and the caller applies the panel. Clicks handled by a menu do not reach the outside closer.
// Outside closes everything.
func (ms *MenuState) Click(c Click, st *State) (commit bool, err error) {
	switch c.Kind {
	case ClickTrigger:
		ms.set(c.Menu, !ms.Open(c.Menu))
	case ClickOption:
		switch c.Menu {
		case MenuPrice:
			err = st.SetFilter(DimensionPriceRange, c.Value)
		case MenuAvailability:
			err = st.SetFilter(DimensionAvailability, c.Value)
		case MenuSort:
			err = st.SetSort(c.Value)
		}
		if err != nil {
			return false, err
		}
		ms.set(c.Menu, false)
		return true, nil
	case ClickOutside:
		ms.open = nil
	}
	return false, nil
}

// Selected returns the committed value shown on a menu's trigger.
func (s State) Selected(m Menu) string {
	switch m {
	case MenuPrice:
		return s.PriceRange
	case MenuAvailability:
		return s.Availability
	case MenuSort:
		return string(s.Sort)
	}
	return ""
}

// Options returns the values offered by a menu.
func Options(m Menu) []string {
	switch m {
	case MenuPrice:
		return append([]string(nil), PriceRangeKeys...)
	case MenuAvailability:
		return append([]string(nil), AvailabilityKeys...)
	case MenuSort:
		out := make([]string, len(SortKeys))
		for i, k := range SortKeys {
			out[i] = string(k)
		}
		return out
	}
	return nil
}
