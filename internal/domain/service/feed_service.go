package service

import "context"

// FeedFile is one decoded supplier catalog feed.
type FeedFile struct {
	Shop       string         `mapstructure:"shop"`
	Categories []FeedCategory `mapstructure:"categories"`
	Goods      []FeedGood     `mapstructure:"goods"`
}

// FeedCategory is one category declaration inside a feed.
type FeedCategory struct {
	ID   int    `mapstructure:"id"`
	Name string `mapstructure:"name"`
}

// FeedGood is one sellable entry inside a feed.
type FeedGood struct {
	ID         int               `mapstructure:"id"`
	Category   int               `mapstructure:"category"`
	Name       string            `mapstructure:"name"`
	Model      string            `mapstructure:"model"`
	Quantity   int               `mapstructure:"quantity"`
	Price      int               `mapstructure:"price"`
	PriceRRC   int               `mapstructure:"price_rrc"`
	Parameters map[string]string `mapstructure:"parameters"`
}

// FeedService fetches and decodes supplier feed files.
// Fetch fails before returning when the file is missing or any required field
// is absent, so callers never see a partially usable feed.
type FeedService interface {
	Fetch(ctx context.Context, fileName string) (*FeedFile, error)
}
