package parity_test

import (
	"testing"

	"github.com/fwojciec/parity"
	"github.com/stretchr/testify/assert"
)

func TestInventory(t *testing.T) {
	t.Parallel()

	t.Run("keeps first-stored order", func(t *testing.T) {
		t.Parallel()

		inv := parity.NewInventory("https://x.com")
		inv.Put(&parity.Page{Route: "/", Status: parity.StatusOK})
		inv.Put(&parity.Page{Route: "/b", Status: parity.StatusOK})
		inv.Put(&parity.Page{Route: "/a", Status: parity.StatusError})

		assert.Equal(t, []string{"/", "/b", "/a"}, inv.Routes())
		assert.Equal(t, 3, inv.Len())
		assert.Equal(t, 2, inv.OKCount())
		assert.Equal(t, 1, inv.FailureCount())
	})

	t.Run("overwrites existing route in place", func(t *testing.T) {
		t.Parallel()

		inv := parity.NewInventory("https://x.com")
		inv.Put(&parity.Page{Route: "/a", Title: "old"})
		inv.Put(&parity.Page{Route: "/b"})
		inv.Put(&parity.Page{Route: "/a", Title: "new"})

		assert.Equal(t, []string{"/a", "/b"}, inv.Routes())
		assert.Equal(t, "new", inv.Get("/a").Title)
	})

	t.Run("nil inventory is empty", func(t *testing.T) {
		t.Parallel()

		var inv *parity.Inventory
		assert.Nil(t, inv.Get("/"))
		assert.Zero(t, inv.Len())
		assert.Empty(t, inv.Pages())
		assert.Zero(t, inv.OKCount())
	})
}

func TestRenderedDocument_BaseURL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "https://x.com/a", (&parity.RenderedDocument{URL: "https://x.com/a"}).BaseURL())
	assert.Equal(t, "https://x.com/b", (&parity.RenderedDocument{URL: "https://x.com/a", FinalURL: "https://x.com/b"}).BaseURL())
}
