package probe

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/realbeans/storeprobe/internal/dom"
)

func mustSnapshot(t *testing.T, html string) *dom.Snapshot {
	t.Helper()
	snap, err := dom.ParseString(html)
	require.NoError(t, err)
	return snap
}

func TestDefaultScenarios_Order(t *testing.T) {
	var names []string
	for _, sc := range DefaultScenarios() {
		names = append(names, sc.Name)
		assert.NotEmpty(t, sc.Description, sc.Name)
		assert.NotNil(t, sc.Detect, sc.Name)
		assert.NotNil(t, sc.Verify, sc.Name)
	}
	assert.Equal(t, []string{"home", "collection", "product", "cart", "search"}, names)
}

func TestScenario_Detect(t *testing.T) {
	tests := []struct {
		name     string
		scenario Scenario
		html     string
		expected Decision
	}{
		{
			name:     "home always interacts",
			scenario: HomeScenario(),
			html:     `<body></body>`,
			expected: Decision{Target: "body"},
		},
		{
			name:     "collection link behind a menu toggle",
			scenario: CollectionScenario(),
			html:     `<details><summary>Menu</summary><a href="/collections/all">All</a></details>`,
			expected: Decision{Prelude: MenuToggleSelector, Target: CollectionLinkSelector},
		},
		{
			name:     "collection link behind an aria toggle",
			scenario: CollectionScenario(),
			html:     `<button aria-expanded="false" aria-controls="menu">Menu</button><a href="/collections/all">All</a>`,
			expected: Decision{Prelude: MenuToggleSelector, Target: CollectionLinkSelector},
		},
		{
			name:     "collection link without a menu",
			scenario: CollectionScenario(),
			html:     `<a href="/collections/tea">Tea</a>`,
			expected: Decision{Target: CollectionLinkSelector},
		},
		{
			name:     "no collection links",
			scenario: CollectionScenario(),
			html:     `<details><summary>Menu</summary><a href="/">Home</a></details>`,
			expected: SkipDecision("No collection links found, skipping this test"),
		},
		{
			name:     "product link",
			scenario: ProductScenario(),
			html:     `<a href="/products/decaf">Decaf</a>`,
			expected: Decision{Target: ProductLinkSelector},
		},
		{
			name:     "no product links",
			scenario: ProductScenario(),
			html:     `<p>No products found</p>`,
			expected: SkipDecision("No product links found, skipping this test"),
		},
		{
			name:     "cart link",
			scenario: CartScenario(),
			html:     `<a href="/cart">Cart</a>`,
			expected: Decision{Note: "Cart functionality found", Target: `a[href*="/cart"]`},
		},
		{
			name:     "cart drawer toggle",
			scenario: CartScenario(),
			html:     `<button data-cart-toggle>Bag</button>`,
			expected: Decision{Note: "Cart functionality found", Target: `[data-cart-toggle]`},
		},
		{
			name:     "cart class only",
			scenario: CartScenario(),
			html:     `<div class="mini-cart"></div>`,
			expected: Decision{Note: "Cart functionality found", Target: `[class*="cart"]`},
		},
		{
			name:     "no cart",
			scenario: CartScenario(),
			html:     `<a href="/bag">Bag</a>`,
			expected: SkipDecision("No cart functionality found, skipping this test"),
		},
		{
			name:     "search modal button",
			scenario: SearchScenario(),
			html:     `<button aria-controls="search-modal">Search</button>`,
			expected: Decision{Note: "Search functionality found", Target: `button[aria-controls*="search"]`},
		},
		{
			name:     "search form",
			scenario: SearchScenario(),
			html:     `<form action="/search"><input name="q"></form>`,
			expected: Decision{Note: "Search functionality found", Target: `form[action*="/search"]`},
		},
		{
			name:     "no search",
			scenario: SearchScenario(),
			html:     `<form action="/contact"></form>`,
			expected: SkipDecision("No search functionality found, skipping this test"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.scenario.Detect(mustSnapshot(t, tt.html))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCollectionScenario_Verify(t *testing.T) {
	t.Run("clicks the menu before the link", func(t *testing.T) {
		// GIVEN
		page := &MockPage{URLValue: "https://shop.example.com/"}
		page.ClickFunc = func(selector string, force bool) error {
			assert.True(t, force, "clicks are forced")
			if selector == CollectionLinkSelector {
				page.URLValue = "https://shop.example.com/collections/coffee"
			}
			return nil
		}
		d := Decision{Prelude: MenuToggleSelector, Target: CollectionLinkSelector}

		// WHEN
		err := CollectionScenario().Verify(page, d, Env{BaseURL: "https://shop.example.com"})

		// THEN
		require.NoError(t, err)
		assert.Equal(t, []string{MenuToggleSelector, CollectionLinkSelector}, page.Clicked)
	})

	t.Run("address must change to a collection", func(t *testing.T) {
		// GIVEN
		page := &MockPage{URLValue: "https://shop.example.com/"}
		d := Decision{Target: CollectionLinkSelector}

		// WHEN
		err := CollectionScenario().Verify(page, d, Env{BaseURL: "https://shop.example.com"})

		// THEN
		assert.ErrorIs(t, err, ErrURLMismatch)
		assert.ErrorIs(t, err, ErrAssertion)
	})

	t.Run("click failure fails the scenario", func(t *testing.T) {
		// GIVEN
		page := &MockPage{URLValue: "https://shop.example.com/"}
		page.ClickFunc = func(string, bool) error { return errors.New("element detached") }
		d := Decision{Target: CollectionLinkSelector}

		// WHEN
		err := CollectionScenario().Verify(page, d, Env{})

		// THEN
		assert.ErrorContains(t, err, "element detached")
	})
}

func TestProductScenario_Verify(t *testing.T) {
	tests := []struct {
		name      string
		landing   string
		html      string
		expectErr error
	}{
		{
			name:    "product page with title",
			landing: "https://shop.example.com/products/decaf",
			html:    `<h1>Decaf</h1>`,
		},
		{
			name:      "product page without title",
			landing:   "https://shop.example.com/products/decaf",
			html:      `<p>Decaf</p>`,
			expectErr: ErrElementMissing,
		},
		{
			name:      "link led elsewhere",
			landing:   "https://shop.example.com/collections/all",
			html:      `<h1>All</h1>`,
			expectErr: ErrURLMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN
			page := &MockPage{URLValue: "https://shop.example.com/collections/all"}
			page.ClickFunc = func(string, bool) error {
				page.URLValue = tt.landing
				page.HTML = tt.html
				return nil
			}

			// WHEN
			err := ProductScenario().Verify(page, Decision{Target: ProductLinkSelector}, Env{})

			// THEN
			if tt.expectErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.expectErr)
		})
	}
}

func TestHomeScenario_Verify(t *testing.T) {
	env := Env{BaseURL: "https://shop.example.com"}

	t.Run("visible body on the storefront host", func(t *testing.T) {
		page := &MockPage{URLValue: "https://shop.example.com/", HTML: "<body>hi</body>"}
		assert.NoError(t, HomeScenario().Verify(page, Decision{Target: "body"}, env))
	})

	t.Run("redirected off host", func(t *testing.T) {
		page := &MockPage{URLValue: "https://login.example.net/", HTML: "<body>hi</body>"}
		assert.ErrorIs(t, HomeScenario().Verify(page, Decision{Target: "body"}, env), ErrURLMismatch)
	})

	t.Run("hidden body", func(t *testing.T) {
		page := &MockPage{URLValue: "https://shop.example.com/"}
		page.IsVisibleFunc = func(string) (bool, error) { return false, nil }
		assert.ErrorIs(t, HomeScenario().Verify(page, Decision{Target: "body"}, env), ErrElementHidden)
	})
}

func TestSelectScenarios(t *testing.T) {
	all := DefaultScenarios()

	t.Run("no names selects everything", func(t *testing.T) {
		got, err := SelectScenarios(all, nil)
		require.NoError(t, err)
		assert.Len(t, got, len(all))
	})

	t.Run("keeps declaration order", func(t *testing.T) {
		got, err := SelectScenarios(all, []string{"search", " cart ", "home"})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "home", got[0].Name)
		assert.Equal(t, "cart", got[1].Name)
		assert.Equal(t, "search", got[2].Name)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := SelectScenarios(all, []string{"home", "checkout"})
		assert.ErrorIs(t, err, ErrUnknownScenario)
		assert.ErrorContains(t, err, "checkout")
	})

	t.Run("every unknown name is reported in argument order", func(t *testing.T) {
		for i := 0; i < 20; i++ {
			_, err := SelectScenarios(all, []string{"wishlist", "home", "checkout", "account"})
			require.ErrorIs(t, err, ErrUnknownScenario)
			assert.EqualError(t, err, ErrUnknownScenario.Error()+": wishlist, checkout, account")
		}
	})
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "shop.example.com:8443", hostOf("https://shop.example.com:8443/path"))
	assert.Equal(t, "not a url", hostOf("not a url"))
}
