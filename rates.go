// Copyright 2024 Mike Carlton
// Released under terms of the MIT License:
//   http://www.opensource.org/licenses/mit-license.php

package unitcalc

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"unitcalc/enumerable"
)

// OpenExchangeRates API schema
type ExchangeRates struct {
	Disclaimer string             `json:"disclaimer"`
	License    string             `json:"license"`
	Timestamp  int64              `json:"timestamp"`
	Base       string             `json:"base"`
	Rates      map[string]float64 `json:"rates"`
}

// in-memory cache, keyed by date ("" is latest)
var rates = map[string]*ExchangeRates{}

var ratesDB *sql.DB

// Supported currency codes; unit names use the uppercase code.
var supportedCurrencies = map[string]string{
	"usd": "USD",
	"$":   "USD",
	"eur": "EUR",
	"€":   "EUR",
	"gbp": "GBP",
	"£":   "GBP",
	"yen": "JPY",
	"jpy": "JPY",
	"¥":   "JPY",
	"btc": "BTC",
}

// CurrencyCode normalizes a currency symbol to its standard code.
func CurrencyCode(symbol string) (string, bool) {
	code, exists := supportedCurrencies[strings.ToLower(symbol)]
	return code, exists
}

func getAPIKey(source string) (string, error) {
	if apiKey := os.Getenv(source); apiKey != "" {
		return apiKey, nil
	}

	// On macOS, try Keychain if env var not found
	if runtime.GOOS == "darwin" {
		cmd := exec.Command("security", "find-generic-password", "-s", source, "-a", "api_key", "-w")
		output, err := cmd.Output()
		if err == nil {
			apiKey := strings.TrimSpace(string(output))
			if apiKey != "" {
				return apiKey, nil
			}
		}
	}

	return "", fmt.Errorf(`Please set api_key in security (macos) or the environment, e.g.
  export %s=$api_key
or
  security add-generic-password -s %s -a api_key -U -w $api_key`, source, source)
}

// returns the appropriate API URL for current or historical rates
func ratesURL(date string) string {
	baseURL := "https://openexchangerates.org/api"
	if date != "" {
		return fmt.Sprintf("%s/historical/%s.json", baseURL, date)
	}
	return fmt.Sprintf("%s/latest.json", baseURL)
}

// performs HTTP GET request with optional token authorization
func httpGetRates(url, token string) (*ExchangeRates, error) {
	client := &http.Client{Timeout: 30 * time.Second}

	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}

	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Token %s", token))
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP failure '%d' from '%s'", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var exchangeRates ExchangeRates
	if err := json.Unmarshal(body, &exchangeRates); err != nil {
		return nil, err
	}

	return &exchangeRates, nil
}

// openRatesDB opens (or creates) the rates cache at the given path.
func openRatesDB(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("failed to open rates database: %v", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS rates (
		date TEXT NOT NULL,
		base TEXT NOT NULL,
		currency TEXT NOT NULL,
		rate REAL NOT NULL,
		timestamp INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(date, currency)
	);

	CREATE INDEX IF NOT EXISTS idx_rates_date ON rates(date);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return fmt.Errorf("failed to create rates schema: %v", err)
	}

	ratesDB = db
	return nil
}

// initRatesDB opens the cache at its default location under the home
// directory.
func initRatesDB() error {
	if ratesDB != nil {
		return nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %v", err)
	}

	dataDir := filepath.Join(homeDir, "data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %v", err)
	}

	return openRatesDB(filepath.Join(dataDir, "exchange-rates.sqlite3"))
}

// closeRatesDB closes the cache connection.
func closeRatesDB() {
	if ratesDB != nil {
		ratesDB.Close()
		ratesDB = nil
	}
}

// saveRates writes a rate table into the cache, replacing any rows already
// stored for the date.
func saveRates(date string, exchangeRates *ExchangeRates) error {
	if ratesDB == nil {
		if err := initRatesDB(); err != nil {
			return err
		}
	}

	query := `
	INSERT OR REPLACE INTO rates (date, base, currency, rate, timestamp)
	VALUES (?, ?, ?, ?, ?)
	`

	for currency, rate := range exchangeRates.Rates {
		_, err := ratesDB.Exec(query, date, exchangeRates.Base, currency, rate, exchangeRates.Timestamp)
		if err != nil {
			return err
		}
	}

	return nil
}

// loadRates reads a cached rate table; nil when the date has no rows.
func loadRates(date string) (*ExchangeRates, error) {
	if ratesDB == nil {
		if err := initRatesDB(); err != nil {
			return nil, err
		}
	}

	query := `
	SELECT base, currency, rate, timestamp
	FROM rates
	WHERE date = ?
	`

	rows, err := ratesDB.Query(query, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exchangeRates := &ExchangeRates{Rates: map[string]float64{}}
	for rows.Next() {
		var currency string
		var rate float64
		if err := rows.Scan(&exchangeRates.Base, &currency, &rate, &exchangeRates.Timestamp); err != nil {
			return nil, err
		}
		exchangeRates.Rates[currency] = rate
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(exchangeRates.Rates) == 0 {
		return nil, nil
	}
	return exchangeRates, nil
}

// ratesExpired reports whether a cached table is stale. Latest rates expire
// after an hour; historical rates never expire.
func ratesExpired(exchangeRates *ExchangeRates, date string) bool {
	if exchangeRates == nil {
		return true
	}

	if date == "" {
		cacheTime := time.Unix(exchangeRates.Timestamp, 0)
		return time.Since(cacheTime) > time.Hour
	}

	return false
}

// GetRates returns the exchange-rate table for the date ("" for latest),
// from memory, the SQLite cache, or the API, in that order.
func GetRates(date string) (*ExchangeRates, error) {
	if cached := rates[date]; cached != nil && !ratesExpired(cached, date) {
		return cached, nil
	}

	if cached, err := loadRates(date); err == nil && cached != nil {
		if !ratesExpired(cached, date) {
			rates[date] = cached
			return cached, nil
		}
	}

	apiKey, err := getAPIKey("openexchangerates")
	if err != nil {
		return nil, err
	}

	fetched, err := httpGetRates(ratesURL(date), apiKey)
	if err != nil {
		return nil, err
	}

	if err := saveRates(date, fetched); err != nil {
		// Log error but don't fail the conversion
		fmt.Fprintf(os.Stderr, "Warning: failed to cache rates: %v\n", err)
	}

	rates[date] = fetched
	return fetched, nil
}

// RegisterCurrencyUnits registers the Currency class (once) and one unit per
// supported currency present in the table. The base currency gets ratio 1;
// for the others one unit is worth 1/rate base units, matching the
// convert-via-base rule. Rates are purely multiplicative, so currency
// conversion becomes ordinary unit conversion.
func RegisterCurrencyUnits(env *Environment, exchangeRates *ExchangeRates) error {
	if exchangeRates == nil || exchangeRates.Base == "" {
		return fmt.Errorf("no exchange rates to register")
	}

	classID, ok := env.FindUnitClass("Currency")
	if !ok {
		classID = env.RegisterUnitClass("Currency")
	}
	class := SingleClass(classID, 1)

	available := enumerable.Filter(sortedValues(supportedCurrencies), func(code string) bool {
		_, exists := exchangeRates.Rates[code]
		return exists || code == exchangeRates.Base
	})

	for _, code := range available {
		if _, registered := env.FindUnit(code); registered {
			continue
		}
		if code == exchangeRates.Base {
			env.RegisterUnit(code, class, 1)
			continue
		}
		rate := exchangeRates.Rates[code]
		if rate <= 0 {
			return fmt.Errorf("unusable exchange rate %v for %s", rate, code)
		}
		env.RegisterUnit(code, class, 1/rate)
	}

	return nil
}

// sortedValues returns the distinct map values in sorted order.
func sortedValues(m map[string]string) []string {
	seen := map[string]bool{}
	var values []string
	for _, value := range m {
		if !seen[value] {
			seen[value] = true
			values = append(values, value)
		}
	}
	sort.Strings(values)
	return values
}
