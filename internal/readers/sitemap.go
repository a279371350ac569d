package readers

import (
	"context"
	"encoding/xml"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/noesis/internal/httpclient"
	"github.com/ternarybob/noesis/internal/interfaces"
	"github.com/ternarybob/noesis/internal/models"
	"gopkg.in/yaml.v3"
)

// SitemapReader ingests every page listed in an XML sitemap. Plain YAML
// url-list manifests are accepted as well, so hand-maintained site lists can
// feed a base without an XML generator.
type SitemapReader struct {
	fetcher     *httpclient.Fetcher
	timeout     time.Duration
	concurrency int
	logger      arbor.ILogger
}

// NewSitemapReader creates the sitemap reader.
func NewSitemapReader(fetcher *httpclient.Fetcher, timeout time.Duration, concurrency int, logger arbor.ILogger) *SitemapReader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if concurrency <= 0 {
		concurrency = 5
	}
	return &SitemapReader{
		fetcher:     fetcher,
		timeout:     timeout,
		concurrency: concurrency,
		logger:      logger,
	}
}

func (r *SitemapReader) Type() models.ItemType { return models.ItemTypeSitemap }

type sitemapURLSet struct {
	URLs []struct {
		Loc string `xml:"loc"`
	} `xml:"url"`
}

type yamlManifest struct {
	URLs []string `yaml:"urls"`
}

// Read fetches the sitemap, then fetches and parses each listed page.
// Individual page failures are logged and skipped; only the sitemap fetch
// itself is fatal.
func (r *SitemapReader) Read(ctx context.Context, rc *interfaces.ReadContext) ([]*models.Node, error) {
	rawURL := rc.Item.Data.URL
	if rawURL == "" {
		return nil, nil
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		r.logger.Debug().Str("url", rawURL).Msg("Invalid sitemap URL, skipping")
		return nil, nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	body, err := r.fetcher.Get(fetchCtx, rawURL)
	if err != nil {
		return nil, err
	}

	pageURLs := r.parseSiteList(body)
	if len(pageURLs) == 0 {
		return nil, nil
	}

	r.logger.Debug().
		Str("sitemap", rawURL).
		Int("pages", len(pageURLs)).
		Msg("Sitemap parsed")

	type pageResult struct {
		order int
		docs  []*Document
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []pageResult
	)
	sem := make(chan struct{}, r.concurrency)

	for i, pageURL := range pageURLs {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(order int, pageURL string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			pageBody, err := r.fetcher.Get(ctx, pageURL)
			if err != nil {
				r.logger.Warn().Err(err).Str("url", pageURL).Msg("Failed to fetch sitemap page, skipping")
				return
			}
			docs, err := ParseHTML(pageBody)
			if err != nil {
				r.logger.Warn().Err(err).Str("url", pageURL).Msg("Failed to parse sitemap page, skipping")
				return
			}
			for _, doc := range docs {
				doc.Metadata[models.MetaSource] = pageURL
			}

			mu.Lock()
			results = append(results, pageResult{order: order, docs: docs})
			mu.Unlock()
		}(i, pageURL)
	}
	wg.Wait()

	if ctx.Err() != nil {
		return nil, models.NewAbortError("cancelled while reading sitemap")
	}

	// Restore sitemap order; goroutines complete in arbitrary order.
	ordered := make([][]*Document, len(pageURLs))
	for _, res := range results {
		ordered[res.order] = res.docs
	}

	var nodes []*models.Node
	splitter := splitterFor(rc)
	for _, docs := range ordered {
		if docs == nil {
			continue
		}
		nodes = append(nodes, buildNodes(docs, splitter, rc.Item, rawURL)...)
	}
	return nodes, nil
}

// parseSiteList extracts page URLs from an XML urlset, falling back to a
// YAML url list.
func (r *SitemapReader) parseSiteList(body []byte) []string {
	var urlSet sitemapURLSet
	if err := xml.Unmarshal(body, &urlSet); err == nil && len(urlSet.URLs) > 0 {
		urls := make([]string, 0, len(urlSet.URLs))
		for _, u := range urlSet.URLs {
			if loc := strings.TrimSpace(u.Loc); loc != "" {
				urls = append(urls, loc)
			}
		}
		return urls
	}

	var manifest yamlManifest
	if err := yaml.Unmarshal(body, &manifest); err == nil && len(manifest.URLs) > 0 {
		return manifest.URLs
	}
	var plainList []string
	if err := yaml.Unmarshal(body, &plainList); err == nil {
		return plainList
	}
	return nil
}
