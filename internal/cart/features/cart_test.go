package features

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"

	"finitefield.org/flor-web/internal/cart"
)

type cartTestContext struct {
	svc     *cart.Service
	slot    *cart.MemorySlot
	store   *cart.Store
	err     error
	loadErr error
}

func (c *cartTestContext) reset() {
	c.svc = cart.NewService()
	c.slot = cart.NewMemorySlot(nil)
	c.store = nil
	c.err = nil
	c.loadErr = nil
}

func (c *cartTestContext) anEmptyCart() error {
	st, err := c.svc.Open(context.Background(), c.slot, nil)
	c.store = st
	return err
}

func (c *cartTestContext) theStorageSlotContains(raw string) error {
	c.slot = cart.NewMemorySlot([]byte(raw))
	return nil
}

func (c *cartTestContext) add(qty int, id, price string, surcharge int) error {
	a := cart.Addition{ID: id, Name: id, Price: price, Quantity: qty}
	if surcharge > 0 {
		a.SafetyBox = true
		a.SafetyBoxPrice = decimal.NewFromInt(int64(surcharge))
	}
	_, c.err = c.store.Add(context.Background(), a)
	return c.err
}

func (c *cartTestContext) iAddWithout(qty int, id, price string) error {
	return c.add(qty, id, price, 0)
}

func (c *cartTestContext) iAddWith(qty int, id, price string, surcharge int) error {
	return c.add(qty, id, price, surcharge)
}

func (c *cartTestContext) iSetTheQuantityOfLineTo(line, qty int) error {
	c.err = c.store.SetQuantity(context.Background(), line-1, qty)
	return nil
}

func (c *cartTestContext) iRemoveLine(line int) error {
	c.err = c.store.Remove(context.Background(), line-1)
	return nil
}

func (c *cartTestContext) iReloadThePage() error {
	raw, err := c.slot.Read(context.Background())
	if err != nil {
		return err
	}
	c.store, c.loadErr = c.svc.Open(context.Background(), cart.NewMemorySlot(raw), nil)
	return nil
}

func (c *cartTestContext) theCartHasLineItems(n int) error {
	if c.store.Len() != n {
		return fmt.Errorf("expected %d line items, got %d", n, c.store.Len())
	}
	return nil
}

func (c *cartTestContext) lineHasQuantity(line, qty int) error {
	items := c.store.Items()
	if line < 1 || line > len(items) {
		return fmt.Errorf("no line %d", line)
	}
	if items[line-1].Quantity != qty {
		return fmt.Errorf("expected quantity %d, got %d", qty, items[line-1].Quantity)
	}
	return nil
}

func (c *cartTestContext) lineIs(line int, id string) error {
	items := c.store.Items()
	if line < 1 || line > len(items) {
		return fmt.Errorf("no line %d", line)
	}
	if items[line-1].ID != id {
		return fmt.Errorf("expected line %d to be %q, got %q", line, id, items[line-1].ID)
	}
	return nil
}

func (c *cartTestContext) theOperationFailsWithAnInvalidIndex() error {
	if !errors.Is(c.err, cart.ErrInvalidIndex) {
		return fmt.Errorf("expected invalid index error, got %v", c.err)
	}
	return nil
}

func (c *cartTestContext) theTotalIs(want string) error {
	if got := c.store.Snapshot().Total; got != want {
		return fmt.Errorf("expected total %s, got %s", want, got)
	}
	return nil
}

func (c *cartTestContext) theBadgeShows(n int) error {
	if got := c.store.Count(); got != n {
		return fmt.Errorf("expected badge %d, got %d", n, got)
	}
	return nil
}

func (c *cartTestContext) loadingReportsCorruptStorage() error {
	if !errors.Is(c.loadErr, cart.ErrStorageCorrupt) {
		return fmt.Errorf("expected corrupt storage error, got %v", c.loadErr)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &cartTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty cart$`, tc.anEmptyCart)
	ctx.Step(`^the storage slot contains "([^"]*)"$`, tc.theStorageSlotContains)

	// When steps
	ctx.Step(`^I add (\d+) of "([^"]*)" priced "([^"]*)" without a safety box$`, tc.iAddWithout)
	ctx.Step(`^I add (\d+) of "([^"]*)" priced "([^"]*)" with a ₱(\d+) safety box$`, tc.iAddWith)
	ctx.Step(`^I set the quantity of line (\d+) to (-?\d+)$`, tc.iSetTheQuantityOfLineTo)
	ctx.Step(`^I remove line (\d+)$`, tc.iRemoveLine)
	ctx.Step(`^I reload the page$`, tc.iReloadThePage)

	// Then steps
	ctx.Step(`^the cart has (\d+) line items$`, tc.theCartHasLineItems)
	ctx.Step(`^line (\d+) has quantity (\d+)$`, tc.lineHasQuantity)
	ctx.Step(`^line (\d+) is "([^"]*)"$`, tc.lineIs)
	ctx.Step(`^the operation fails with an invalid index$`, tc.theOperationFailsWithAnInvalidIndex)
	ctx.Step(`^the total is "([^"]*)"$`, tc.theTotalIs)
	ctx.Step(`^the badge shows (\d+)$`, tc.theBadgeShows)
	ctx.Step(`^loading reports corrupt storage$`, tc.loadingReportsCorruptStorage)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"cart.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
