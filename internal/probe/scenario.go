package probe

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/realbeans/storeprobe/internal/dom"
)

// Decision is the result of capability detection for one scenario
type Decision struct {
	// Skip is set when the affordance is absent
	Skip bool
	// Note is the diagnostic recorded with the outcome
	Note string
	// Prelude, when set, is clicked before Target (e.g. to open a menu)
	Prelude string
	// Target is the selector whose first match is exercised
	Target string
}

// SkipDecision records an absent affordance
func SkipDecision(note string) Decision {
	return Decision{Skip: true, Note: note}
}

// Env is what a scenario may know about the run
type Env struct {
	BaseURL string
}

// Scenario is one independent storefront check
type Scenario struct {
	Name        string
	Description string
	// Path overrides the starting address, relative to the base URL
	Path string
	// Detect decides from the page snapshot alone whether to skip or interact
	Detect func(snap *dom.Snapshot) Decision
	// Verify exercises the affordance and asserts the observable change
	Verify func(page Page, d Decision, env Env) error
}

// Selectors probed by the built-in scenarios
const (
	MenuToggleSelector     = `button[aria-expanded="false"][aria-controls], details summary`
	CollectionLinkSelector = `a[href*="/collections/"]`
	ProductLinkSelector    = `a[href*="/products/"]`
	ProductTitleSelector   = `h1, h2`
)

// CartSelectors are checked in order; any match means the cart is present
var CartSelectors = []string{
	`a[href*="/cart"]`,
	`button[aria-controls*="cart"]`,
	`[data-cart-toggle]`,
	`[class*="cart"]`,
}

// SearchSelectors are checked in order; any match means search is present
var SearchSelectors = []string{
	`button[aria-controls*="search"]`,
	`[data-modal-open="search"]`,
	`a[href*="/search"]`,
	`form[action*="/search"]`,
}

// DefaultScenarios returns the built-in suite in declaration order
func DefaultScenarios() []Scenario {
	return []Scenario{
		HomeScenario(),
		CollectionScenario(),
		ProductScenario(),
		CartScenario(),
		SearchScenario(),
	}
}

// HomeScenario checks that the homepage loads past the gate
func HomeScenario() Scenario {
	return Scenario{
		Name:        "home",
		Description: "Should successfully load the homepage",
		Detect: func(*dom.Snapshot) Decision {
			return Decision{Target: "body"}
		},
		Verify: func(page Page, d Decision, env Env) error {
			host := hostOf(env.BaseURL)
			if err := expectURLContains(page, host); err != nil {
				return err
			}
			return expectVisible(page, d.Target)
		},
	}
}

// CollectionScenario opens the menu if needed and follows the first collection link
func CollectionScenario() Scenario {
	return Scenario{
		Name:        "collection",
		Description: "Should be able to navigate to a collection page if available",
		Detect: func(snap *dom.Snapshot) Decision {
			if !snap.Has(CollectionLinkSelector) {
				return SkipDecision("No collection links found, skipping this test")
			}
			d := Decision{Target: CollectionLinkSelector}
			if snap.Has(MenuToggleSelector) {
				d.Prelude = MenuToggleSelector
			}
			return d
		},
		Verify: func(page Page, d Decision, _ Env) error {
			if err := clickThrough(page, d); err != nil {
				return err
			}
			return expectURLContains(page, "/collections/")
		},
	}
}

// ProductScenario follows the first product link from the catalog
func ProductScenario() Scenario {
	return Scenario{
		Name:        "product",
		Description: "Should be able to navigate to a product page if available",
		Path:        "/collections/all",
		Detect: func(snap *dom.Snapshot) Decision {
			if !snap.Has(ProductLinkSelector) {
				return SkipDecision("No product links found, skipping this test")
			}
			return Decision{Target: ProductLinkSelector}
		},
		Verify: func(page Page, d Decision, _ Env) error {
			if err := clickThrough(page, d); err != nil {
				return err
			}
			if err := expectURLContains(page, "/products/"); err != nil {
				return err
			}
			return expectExists(page, ProductTitleSelector)
		},
	}
}

// CartScenario checks that some cart affordance is rendered
func CartScenario() Scenario {
	return presenceScenario("cart", "Should have cart functionality", "Cart functionality found",
		"No cart functionality found, skipping this test", CartSelectors)
}

// SearchScenario checks that some search affordance is rendered
func SearchScenario() Scenario {
	return presenceScenario("search", "Should have a search feature", "Search functionality found",
		"No search functionality found, skipping this test", SearchSelectors)
}

// presenceScenario passes when any selector matches and does not interact further
func presenceScenario(name, description, found, missing string, selectors []string) Scenario {
	return Scenario{
		Name:        name,
		Description: description,
		Detect: func(snap *dom.Snapshot) Decision {
			sel, ok := snap.FirstMatching(selectors...)
			if !ok {
				return SkipDecision(missing)
			}
			return Decision{Note: found, Target: sel}
		},
		Verify: func(Page, Decision, Env) error {
			return nil
		},
	}
}

// clickThrough clicks the optional prelude then the target, both forced
func clickThrough(page Page, d Decision) error {
	if d.Prelude != "" {
		if err := page.Click(d.Prelude, true); err != nil {
			return fmt.Errorf("failed to click %s: %w", d.Prelude, err)
		}
	}
	if err := page.Click(d.Target, true); err != nil {
		return fmt.Errorf("failed to click %s: %w", d.Target, err)
	}
	return nil
}

// SelectScenarios filters all by name, keeping declaration order
func SelectScenarios(all []Scenario, names []string) ([]Scenario, error) {
	if len(names) == 0 {
		return all, nil
	}

	known := make(map[string]bool, len(all))
	for _, sc := range all {
		known[sc.Name] = true
	}

	wanted := make(map[string]bool, len(names))
	var unknown []string
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if !known[n] {
			unknown = append(unknown, n)
			continue
		}
		wanted[n] = true
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, strings.Join(unknown, ", "))
	}

	var selected []Scenario
	for _, sc := range all {
		if wanted[sc.Name] {
			selected = append(selected, sc)
		}
	}
	return selected, nil
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return u.Host
}
