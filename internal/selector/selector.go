// Package selector holds the static table of coins the dashboard can analyse.
package selector

import (
	"fmt"

	"CoinCast/internal/model"
)

// coins is initialised once and never mutated. Order is the display order.
var coins = [...]model.Coin{
	{Name: "Bitcoin", ID: "bitcoin"},
	{Name: "Ethereum", ID: "ethereum"},
	{Name: "XRP", ID: "ripple"},
	{Name: "Kaspa", ID: "kaspa"},
	{Name: "Binance Coin", ID: "binancecoin"},
	{Name: "Cardano", ID: "cardano"},
}

// Coins returns a copy of the coin table in display order.
func Coins() []model.Coin {
	out := make([]model.Coin, len(coins))
	copy(out, coins[:])
	return out
}

// Names returns the display names in order.
func Names() []string {
	names := make([]string, len(coins))
	for i, c := range coins {
		names[i] = c.Name
	}
	return names
}

// Default returns the first coin of the table.
func Default() model.Coin {
	return coins[0]
}

// Lookup maps a display name to its coin entry.
func Lookup(name string) (model.Coin, error) {
	for _, c := range coins {
		if c.Name == name {
			return c, nil
		}
	}
	return model.Coin{}, fmt.Errorf("%w: %q", model.ErrUnknownCoin, name)
}
