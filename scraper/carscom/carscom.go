package carscom

import (
	"context"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"carscout/config"
	"carscout/models"
	"carscout/utils"
)

const source = "cars.com"

var titleRegexp = regexp.MustCompile(`(?i)\b((?:19|20)\d{2})\s+Porsche\s+(Cayman|Boxster)\s*(.*)`)

// Scraper drives cars.com detail pages through a headless browser and emits
// raw records for the pipeline.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
	pool   *utils.WorkerPool
	seen   *utils.URLSet
	retry  *utils.RetryConfig

	mu      sync.Mutex
	records []models.RawRecord
}

// New creates a ready-to-use cars.com Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:    cfg,
		logger: logger,
		pool:   utils.NewWorkerPool(cfg.Scraper.MaxConcurrency, cfg.Scraper.RateLimitMs),
		seen:   utils.NewURLSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.Scraper.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		records: make([]models.RawRecord, 0),
	}
}

// detailPage is the shape returned by the in-page extraction script.
type detailPage struct {
	Title         string   `json:"title"`
	Price         string   `json:"price"`
	Mileage       string   `json:"mileage"`
	VIN           string   `json:"vin"`
	ExteriorColor string   `json:"exteriorColor"`
	InteriorColor string   `json:"interiorColor"`
	Transmission  string   `json:"transmission"`
	Location      string   `json:"location"`
	Options       []string `json:"options"`
}

// Scrape visits each listing URL and returns the extracted raw records.
func (s *Scraper) Scrape(urls []string) ([]models.RawRecord, error) {
	if len(urls) == 0 {
		return nil, nil
	}
	s.logger.Info("[cars.com] Starting scrape — %d listing URLs", len(urls))

	chromeBin := findChromeBinary(s.cfg.Scraper.ChromeBin)
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	defer cancelAlloc()

	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelSilent()

	if limit := s.cfg.Scraper.CapListings; limit > 0 && len(urls) > limit {
		urls = urls[:limit]
	}

	for _, u := range urls {
		if !s.seen.Add(u) {
			continue
		}
		url := u
		s.pool.Submit(func() {
			rec, err := s.scrapeDetail(silentCtx, url)
			if err != nil {
				s.logger.Error("[cars.com] %s failed: %v", url, err)
				return
			}
			s.mu.Lock()
			s.records = append(s.records, rec)
			s.mu.Unlock()
		})
	}
	s.pool.Wait()

	s.logger.Info("[cars.com] Scrape complete — %d records from %d URLs", len(s.records), s.seen.Size())
	return s.records, nil
}

// scrapeDetail loads one detail page and extracts the basics section.
func (s *Scraper) scrapeDetail(allocCtx context.Context, url string) (models.RawRecord, error) {
	var page detailPage

	err := s.retry.Do("scrape "+url, func() error {
		ctx, cancel := chromedp.NewContext(allocCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 60*time.Second)
		defer cancelTimeout()

		return chromedp.Run(ctx,
			chromedp.Navigate(url),
			chromedp.Sleep(2*time.Second),
			chromedp.Evaluate(extractScript, &page),
		)
	})
	if err != nil {
		return nil, err
	}

	rec := models.RawRecord{
		"source":           source,
		"listing_url":      url,
		"transmission_raw": page.Transmission,
		"vin":              page.VIN,
		"exterior_color":   page.ExteriorColor,
		"interior_color":   page.InteriorColor,
		"location":         page.Location,
		"raw_options":      page.Options,
	}
	if n := utils.ParseInt(page.Price); n != nil {
		rec["price_usd"] = *n
	}
	if n := utils.ParseInt(page.Mileage); n != nil {
		rec["mileage"] = *n
	}

	year, model, trim := parseTitle(page.Title)
	if year != nil {
		rec["year"] = *year
	}
	rec["model"] = model
	rec["trim"] = trim

	return rec, nil
}

// parseTitle splits "2010 Porsche Cayman S" into year, model, and trim.
func parseTitle(title string) (*int, string, string) {
	m := titleRegexp.FindStringSubmatch(strings.TrimSpace(title))
	if m == nil {
		return nil, "", ""
	}
	year := utils.ParseInt(m[1])
	return year, m[2], strings.TrimSpace(m[3])
}

// extractScript reads the title, price, and the "Basics" dt/dd pairs plus the
// features list from a cars.com vehicle detail page.
const extractScript = `
(function() {
	function ddFor(label) {
		var dts = document.querySelectorAll('dt');
		for (var i = 0; i < dts.length; i++) {
			if ((dts[i].textContent || '').trim().toLowerCase().indexOf(label) !== -1) {
				var dd = dts[i].nextElementSibling;
				if (dd && dd.tagName === 'DD') {
					var t = (dd.textContent || '').trim();
					if (t && t !== '-' && t.toLowerCase() !== 'n/a') return t;
				}
			}
		}
		return '';
	}
	var titleEl = document.querySelector('h1.listing-title, h1');
	var priceEl = document.querySelector('.primary-price, [data-qa="primary-price"]');
	var locEl = document.querySelector('.dealer-address, [data-qa="seller-address"]');
	var options = [];
	var featureEls = document.querySelectorAll('.all-features-text-container li, .features-list li');
	for (var j = 0; j < featureEls.length; j++) {
		var f = (featureEls[j].textContent || '').trim();
		if (f) options.push(f);
	}
	return {
		title: titleEl ? titleEl.textContent.trim() : '',
		price: priceEl ? priceEl.textContent.trim() : '',
		mileage: ddFor('mileage'),
		vin: ddFor('vin'),
		exteriorColor: ddFor('exterior color'),
		interiorColor: ddFor('interior color'),
		transmission: ddFor('transmission'),
		location: locEl ? locEl.textContent.trim() : '',
		options: options
	};
})()
`

// findChromeBinary returns the configured browser binary or the first one
// found on PATH.
func findChromeBinary(configured string) string {
	if configured != "" {
		return configured
	}
	for _, name := range []string{"google-chrome", "chromium", "chromium-browser", "chrome"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}
