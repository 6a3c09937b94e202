package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNutritionClient struct {
	macros map[string]Macros
	err    error
	calls  int
}

func (c *fakeNutritionClient) Lookup(food string) (Macros, error) {
	c.calls++
	if c.err != nil {
		return Macros{}, c.err
	}
	m, ok := c.macros[food]
	if !ok {
		return Macros{}, ErrNoNutritionMatch
	}
	return m, nil
}

func TestLookupUsesAPIWhenAvailable(t *testing.T) {
	client := &fakeNutritionClient{macros: map[string]Macros{
		"grilled salmon": {Calories: 280, ProteinG: 39, CarbsG: 0, FatG: 12.5},
	}}
	svc := NewNutritionService(client)

	result := svc.Lookup("Grilled Salmon")
	assert.Equal(t, SourceAPI, result.Source)
	assert.Equal(t, "grilled salmon", result.Name)
	assert.Equal(t, 280.0, result.Calories)
	assert.Equal(t, 39.0, result.ProteinG)
}

func TestLookupFallsBackOnClientError(t *testing.T) {
	client := &fakeNutritionClient{err: errors.New("upstream down")}
	svc := NewNutritionService(client)

	result := svc.Lookup("banana")
	assert.Equal(t, SourceFallback, result.Source)
	assert.Equal(t, 105.0, result.Calories)
}

func TestLookupFallsBackToDefaultForUnknownFood(t *testing.T) {
	client := &fakeNutritionClient{err: errors.New("upstream down")}
	svc := NewNutritionService(client)

	result := svc.Lookup("mystery casserole")
	assert.Equal(t, SourceFallback, result.Source)
	assert.Equal(t, 250.0, result.Calories)
	assert.Equal(t, 10.0, result.ProteinG)
	assert.Equal(t, 30.0, result.CarbsG)
	assert.Equal(t, 9.0, result.FatG)
}

func TestLookupWorksWithoutClient(t *testing.T) {
	svc := NewNutritionService(nil)

	result := svc.Lookup("rice")
	assert.Equal(t, SourceFallback, result.Source)
	assert.Equal(t, 206.0, result.Calories)
}

func TestLookupMemoizesPerNormalizedName(t *testing.T) {
	client := &fakeNutritionClient{macros: map[string]Macros{
		"oatmeal": {Calories: 158, ProteinG: 6, CarbsG: 27, FatG: 3.2},
	}}
	svc := NewNutritionService(client)

	first := svc.Lookup("oatmeal")
	second := svc.Lookup("  Oatmeal ")
	third := svc.Lookup("OATMEAL")

	require.Equal(t, first, second)
	require.Equal(t, first, third)
	assert.Equal(t, 1, client.calls, "normalized repeats must hit the cache")
}

func TestLookupCachesFallbackResults(t *testing.T) {
	client := &fakeNutritionClient{err: errors.New("upstream down")}
	svc := NewNutritionService(client)

	svc.Lookup("banana")
	svc.Lookup("banana")
	assert.Equal(t, 1, client.calls,
		"a fallback answer is cached too; the client is not retried per request")
}
