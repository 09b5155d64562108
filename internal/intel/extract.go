package intel

import (
	"fmt"
	"strings"

	"corp-intel/backend/internal/config"
)

// Taxonomy labels used for signal tagging. Adverse-media signals carry the
// sub-category name instead.
const (
	TaxonomyCrisis       = "crisis"
	TaxonomyGeopolitical = "geopolitical"
	TaxonomySupplyChain  = "supply-chain"
	TaxonomyAdverseMedia = "adverse-media"
)

// Signal links a keyword match to its taxonomy and the news item it came from.
type Signal struct {
	Taxonomy string `json:"taxonomy"`
	Category string `json:"category,omitempty"`
	Keyword  string `json:"keyword"`
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
}

// KeyItem is a news record that matched at least one keyword, annotated with
// its flag labels ("GEO:"/"SUPPLY:"/"ADVERSE:" prefixed for non-crisis hits).
type KeyItem struct {
	Title  string   `json:"title"`
	Source string   `json:"source"`
	Date   string   `json:"date"`
	URL    string   `json:"url"`
	Flags  []string `json:"flags"`
}

// Extraction is the tagged signal set consumed by the scorer, red-flag
// synthesizer and narrative generator.
type Extraction struct {
	TotalItems     int            `json:"total_items"`
	CrisisCount    int            `json:"crisis_count"`
	GeoCount       int            `json:"geo_count"`
	SupplyCount    int            `json:"supply_count"`
	AdverseCounts  map[string]int `json:"adverse_counts,omitempty"`
	Signals        []Signal       `json:"signals,omitempty"`
	KeyItems       []KeyItem      `json:"key_items,omitempty"`
	CrisisSignals  []string       `json:"crisis_signals,omitempty"`
	GeoRisks       []string       `json:"geopolitical_risks,omitempty"`
	SupplyRisks    []string       `json:"supply_chain_risks,omitempty"`
	SentimentScore int            `json:"sentiment_score"`

	// crisisTerms is the set of matched crisis keywords, lowercased, for
	// downstream rule checks.
	crisisTerms map[string]struct{}
}

// HasCrisisTerm reports whether any of the supplied crisis keywords matched.
func (e Extraction) HasCrisisTerm(terms ...string) bool {
	for _, term := range terms {
		if _, ok := e.crisisTerms[strings.ToLower(term)]; ok {
			return true
		}
	}
	return false
}

// CrisisTerms returns the matched crisis keywords (lowercased, unordered).
func (e Extraction) CrisisTerms() []string {
	out := make([]string, 0, len(e.crisisTerms))
	for term := range e.crisisTerms {
		out = append(out, term)
	}
	return out
}

// Extractor scans provider results for taxonomy keyword matches.
type Extractor struct {
	cfg *config.Config
}

// NewExtractor constructs an extractor bound to the supplied configuration.
func NewExtractor(cfg *config.Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// Extract scans the most recent news items (bounded by the configured
// window) for keyword matches and derives the sentiment score. Keyword
// comparison is case-insensitive substring containment; a keyword counts at
// most once per item, and one item may match several taxonomies.
func (x *Extractor) Extract(bundle ProviderBundle) Extraction {
	ext := Extraction{
		TotalItems:     len(bundle.News),
		AdverseCounts:  make(map[string]int),
		SentimentScore: 50,
		crisisTerms:    make(map[string]struct{}),
	}

	items := bundle.News
	if len(items) > x.cfg.NewsWindow {
		items = items[:x.cfg.NewsWindow]
	}

	for _, item := range items {
		text := strings.ToLower(item.Title + " " + item.Description)

		key := KeyItem{
			Title:  item.Title,
			Source: item.Source,
			URL:    item.URL,
		}
		if key.Title == "" {
			key.Title = "Unknown"
		}
		if key.Source == "" {
			key.Source = "Unknown"
		}
		if !item.PublishedAt.IsZero() {
			key.Date = item.PublishedAt.Format("2006-01-02")
		}

		for _, keyword := range x.cfg.Taxonomies.Crisis {
			if strings.Contains(text, strings.ToLower(keyword)) {
				key.Flags = append(key.Flags, keyword)
				ext.CrisisCount++
				ext.crisisTerms[strings.ToLower(keyword)] = struct{}{}
				ext.Signals = append(ext.Signals, Signal{
					Taxonomy: TaxonomyCrisis,
					Keyword:  keyword,
					Title:    key.Title,
					URL:      item.URL,
				})
			}
		}

		for _, keyword := range x.cfg.Taxonomies.Geopolitical {
			if strings.Contains(text, strings.ToLower(keyword)) {
				key.Flags = append(key.Flags, "GEO: "+keyword)
				ext.GeoCount++
				ext.Signals = append(ext.Signals, Signal{
					Taxonomy: TaxonomyGeopolitical,
					Keyword:  keyword,
					Title:    key.Title,
					URL:      item.URL,
				})
			}
		}

		for _, keyword := range x.cfg.Taxonomies.SupplyChain {
			if strings.Contains(text, strings.ToLower(keyword)) {
				key.Flags = append(key.Flags, "SUPPLY: "+keyword)
				ext.SupplyCount++
				ext.Signals = append(ext.Signals, Signal{
					Taxonomy: TaxonomySupplyChain,
					Keyword:  keyword,
					Title:    key.Title,
					URL:      item.URL,
				})
			}
		}

		for category, keywords := range x.cfg.Taxonomies.AdverseMedia {
			for _, keyword := range keywords {
				if strings.Contains(text, strings.ToLower(keyword)) {
					key.Flags = append(key.Flags, "ADVERSE:"+category+": "+keyword)
					ext.AdverseCounts[category]++
					ext.Signals = append(ext.Signals, Signal{
						Taxonomy: TaxonomyAdverseMedia,
						Category: category,
						Keyword:  keyword,
						Title:    key.Title,
						URL:      item.URL,
					})
				}
			}
		}

		if len(key.Flags) > 0 {
			ext.KeyItems = append(ext.KeyItems, key)
		}
	}

	for _, tier := range x.cfg.SentimentTiers {
		if ext.CrisisCount > tier.MinCount {
			ext.SentimentScore = tier.Score
			ext.CrisisSignals = append(ext.CrisisSignals, fmt.Sprintf(tier.Label, ext.CrisisCount))
			break
		}
	}

	if ext.GeoCount > x.cfg.Thresholds.GeoSignificant {
		ext.GeoRisks = append(ext.GeoRisks, fmt.Sprintf("Significant geopolitical exposure (%d mentions)", ext.GeoCount))
	}
	if ext.SupplyCount > x.cfg.Thresholds.SupplySignificant {
		ext.SupplyRisks = append(ext.SupplyRisks, fmt.Sprintf("Supply chain concerns identified (%d mentions)", ext.SupplyCount))
	}

	return ext
}

// HasGeoTerm reports whether any geopolitical signal matched the supplied
// keyword (used for the China-specific escalation).
func (e Extraction) HasGeoTerm(term string) bool {
	term = strings.ToLower(term)
	for _, sig := range e.Signals {
		if sig.Taxonomy == TaxonomyGeopolitical && strings.ToLower(sig.Keyword) == term {
			return true
		}
	}
	return false
}
