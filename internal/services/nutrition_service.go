package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Lookup sources reported on results so callers (and tests) can tell which
// path produced the numbers.
const (
	SourceAPI      = "api"
	SourceFallback = "fallback"
)

var ErrNoNutritionMatch = errors.New("no nutrition match")

type Macros struct {
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbs_g"`
	FatG     float64 `json:"fat_g"`
}

type NutritionResult struct {
	Name   string `json:"name"`
	Macros
	Source string `json:"source"`
}

// NutritionClient is the outbound lookup boundary; swapped for a fake in tests.
type NutritionClient interface {
	Lookup(food string) (Macros, error)
}

// fallbackKey is the named miss entry of the static table.
const fallbackKey = "default"

// Static per-serving defaults keyed by normalized food name, used when the
// external lookup fails or matches nothing.
var fallbackNutrition = map[string]Macros{
	"apple":          {Calories: 95, ProteinG: 0.5, CarbsG: 25, FatG: 0.3},
	"banana":         {Calories: 105, ProteinG: 1.3, CarbsG: 27, FatG: 0.4},
	"chicken breast": {Calories: 165, ProteinG: 31, CarbsG: 0, FatG: 3.6},
	"egg":            {Calories: 78, ProteinG: 6.3, CarbsG: 0.6, FatG: 5.3},
	"oatmeal":        {Calories: 158, ProteinG: 6, CarbsG: 27, FatG: 3.2},
	"pasta":          {Calories: 221, ProteinG: 8.1, CarbsG: 43, FatG: 1.3},
	"rice":           {Calories: 206, ProteinG: 4.3, CarbsG: 45, FatG: 0.4},
	"salad":          {Calories: 120, ProteinG: 3, CarbsG: 10, FatG: 8},
	"sandwich":       {Calories: 350, ProteinG: 15, CarbsG: 40, FatG: 14},
	"yogurt":         {Calories: 150, ProteinG: 9, CarbsG: 17, FatG: 4},
	fallbackKey:      {Calories: 250, ProteinG: 10, CarbsG: 30, FatG: 9},
}

// NutritionService resolves macro-nutrients for a food name: external API
// first, static fallback table on any failure, memoized per process. Cached
// entries are immutable, so concurrent lookups at worst duplicate one
// external call.
type NutritionService struct {
	client NutritionClient
	mu     sync.RWMutex
	cache  map[string]NutritionResult
}

func NewNutritionService(client NutritionClient) *NutritionService {
	return &NutritionService{
		client: client,
		cache:  make(map[string]NutritionResult),
	}
}

func (s *NutritionService) Lookup(food string) NutritionResult {
	name := normalizeFoodName(food)

	s.mu.RLock()
	if cached, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return cached
	}
	s.mu.RUnlock()

	result := s.resolve(name)

	s.mu.Lock()
	s.cache[name] = result
	s.mu.Unlock()

	return result
}

func (s *NutritionService) resolve(name string) NutritionResult {
	if s.client != nil {
		macros, err := s.client.Lookup(name)
		if err == nil {
			return NutritionResult{Name: name, Macros: macros, Source: SourceAPI}
		}
	}

	macros, ok := fallbackNutrition[name]
	if !ok {
		macros = fallbackNutrition[fallbackKey]
	}
	return NutritionResult{Name: name, Macros: macros, Source: SourceFallback}
}

func normalizeFoodName(food string) string {
	return strings.ToLower(strings.TrimSpace(food))
}

// HTTPNutritionClient queries a CalorieNinjas-style nutrition endpoint.
type HTTPNutritionClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewHTTPNutritionClient(baseURL, apiKey string) *HTTPNutritionClient {
	return &HTTPNutritionClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
	}
}

type nutritionAPIItem struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	ProteinG float64 `json:"protein_g"`
	CarbsG   float64 `json:"carbohydrates_total_g"`
	FatG     float64 `json:"fat_total_g"`
}

type nutritionAPIResponse struct {
	Items []nutritionAPIItem `json:"items"`
}

func (c *HTTPNutritionClient) Lookup(food string) (Macros, error) {
	req, err := http.NewRequest(http.MethodGet, c.baseURL+"?query="+url.QueryEscape(food), nil)
	if err != nil {
		return Macros{}, err
	}
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Macros{}, fmt.Errorf("nutrition lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Macros{}, fmt.Errorf("nutrition API returned status %d", resp.StatusCode)
	}

	var parsed nutritionAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Macros{}, fmt.Errorf("failed to decode nutrition response: %w", err)
	}
	if len(parsed.Items) == 0 {
		return Macros{}, ErrNoNutritionMatch
	}

	var total Macros
	for _, item := range parsed.Items {
		total.Calories += item.Calories
		total.ProteinG += item.ProteinG
		total.CarbsG += item.CarbsG
		total.FatG += item.FatG
	}
	return total, nil
}
