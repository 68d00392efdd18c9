package page

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMountReportsMissingSelector(t *testing.T) {
	t.Parallel()

	doc, err := Parse(strings.NewReader(`<html><body><div class="cart-items-list"></div></body></html>`))
	require.NoError(t, err)

	sel, err := doc.Mount(".cart-items-list")
	require.NoError(t, err)
	require.Equal(t, 1, sel.Length())

	_, err = doc.Mount(".estimated-total-price")
	require.ErrorIs(t, err, ErrMissingMount)
	var mm *MissingMountError
	require.True(t, errors.As(err, &mm))
	require.Equal(t, ".estimated-total-price", mm.Selector)
}

func TestRenderBodyWritesOnlyFragment(t *testing.T) {
	t.Parallel()

	doc, err := ParseBytes([]byte(`<section id="a"><p>one</p></section><span>two</span>`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, doc.RenderBody(&buf))
	require.Equal(t, `<section id="a"><p>one</p></section><span>two</span>`, buf.String())

	buf.Reset()
	require.NoError(t, doc.Render(&buf))
	require.True(t, strings.HasPrefix(buf.String(), "<html><head></head><body>"))
}
