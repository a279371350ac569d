package readers

import (
	"context"
	"net/url"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/common"
	"github.com/ternarybob/noesis/internal/httpclient"
	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
)

// URLReader fetches a single page and parses it with the HTML loader.
// With render_javascript enabled the page is rendered in headless Chrome
// before parsing, so script-driven pages yield their real content.
type URLReader struct {
	fetcher  *httpclient.Fetcher
	renderer *Renderer
	logger   arbor.ILogger
}

// NewURLReader creates the url reader. renderer may be nil when JavaScript
// rendering is disabled.
func NewURLReader(fetcher *httpclient.Fetcher, renderer *Renderer, logger arbor.ILogger) *URLReader {
	if logger == nil {
		logger = common.GetLogger()
	}
	return &URLReader{fetcher: fetcher, renderer: renderer, logger: logger}
}

func (r *URLReader) Type() models.ItemType { return models.ItemTypeURL }

// Read fetches the item's URL. An unparseable URL yields an empty result; a
// failed fetch (network error, non-2xx) is an error.
func (r *URLReader) Read(ctx context.Context, rc *interfaces.ReadContext) ([]*models.Node, error) {
	rawURL := rc.Item.Data.URL
	if rawURL == "" {
		return nil, nil
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		r.logger.Debug().Str("url", rawURL).Msg("Invalid URL, skipping")
		return nil, nil
	}

	var body []byte
	var err error
	if r.renderer != nil {
		body, err = r.renderer.Render(ctx, rawURL)
	} else {
		body, err = r.fetcher.Get(ctx, rawURL)
	}
	if err != nil {
		return nil, err
	}

	docs, err := ParseHTML(body)
	if err != nil {
		return nil, err
	}
	for _, doc := range docs {
		doc.Metadata[models.MetaSource] = rawURL
	}

	return buildNodes(docs, splitterFor(rc), rc.Item, rawURL), nil
}
