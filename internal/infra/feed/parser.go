package feed

import (
	"fmt"

	domainerrors "bazaar/internal/domain/errors"
	"bazaar/internal/domain/service"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
)

// Parse decodes raw feed bytes into a FeedFile and validates that every
// required field is present. Validation runs before any caller touches the
// database, so a malformed feed can never partially apply.
func Parse(raw []byte) (*service.FeedFile, error) {
	parsed, err := yaml.Parser().Unmarshal(raw)
	if err != nil {
		return nil, domainerrors.ErrMalformedFeed.WrapMessage(err.Error())
	}

	feedFile := new(service.FeedFile)
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           feedFile,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, domainerrors.ErrMalformedFeed.WrapMessage(err.Error())
	}
	if err := decoder.Decode(parsed); err != nil {
		return nil, domainerrors.ErrMalformedFeed.WrapMessage(err.Error())
	}

	if err := validate(feedFile); err != nil {
		return nil, err
	}

	return feedFile, nil
}

// validate checks the decoded feed for missing required fields.
func validate(f *service.FeedFile) error {
	if f.Shop == "" {
		return domainerrors.ErrMalformedFeed.WrapMessage("missing shop name")
	}
	if len(f.Goods) == 0 {
		return domainerrors.ErrMalformedFeed.WrapMessage("feed carries no goods")
	}

	categoryIDs := make(map[int]struct{}, len(f.Categories))
	for i, category := range f.Categories {
		if category.ID == 0 || category.Name == "" {
			return domainerrors.ErrMalformedFeed.WrapMessage(fmt.Sprintf("category %d missing id or name", i))
		}
		categoryIDs[category.ID] = struct{}{}
	}

	for i, good := range f.Goods {
		switch {
		case good.ID == 0:
			return domainerrors.ErrMalformedFeed.WrapMessage(fmt.Sprintf("good %d missing id", i))
		case good.Name == "":
			return domainerrors.ErrMalformedFeed.WrapMessage(fmt.Sprintf("good %d missing name", i))
		case good.Category == 0:
			return domainerrors.ErrMalformedFeed.WrapMessage(fmt.Sprintf("good %d missing category", i))
		case good.Price <= 0:
			return domainerrors.ErrMalformedFeed.WrapMessage(fmt.Sprintf("good %d missing price", i))
		case good.Quantity < 0:
			return domainerrors.ErrMalformedFeed.WrapMessage(fmt.Sprintf("good %d has negative quantity", i))
		}

		if _, ok := categoryIDs[good.Category]; !ok {
			return domainerrors.ErrMalformedFeed.WrapMessage(fmt.Sprintf("good %d references undeclared category %d", i, good.Category))
		}
	}

	return nil
}
