package e2e_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accelari/trademarkiq2-sub002/pkg/client"
	"github.com/accelari/trademarkiq2-sub002/pkg/types/trademark"
)

func TestDetectionRunAgainstLiveProvider(t *testing.T) {
	env := requireEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	// A well-known registered pharma mark should always surface an exact
	// conflict in its home market.
	result, err := env.sdkClient.Check(ctx, client.CheckRequest{
		Name:        "Aspirin",
		NiceClasses: []int{5},
		Countries:   []string{"DE"},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "Aspirin", result.CandidateName)
	require.NotEmpty(t, result.Variants)
	assert.Equal(t, trademark.VariantExact, result.Variants[0].Kind)

	require.NotEmpty(t, result.Conflicts, "an established mark must collide in its home market")
	top := result.Conflicts[0]
	assert.Equal(t, trademark.RiskHigh, top.RiskLevel)
	assert.NotEmpty(t, top.RegistryID)
	assert.Positive(t, result.SearchesRun)
}

func TestDetectionInventedNameIsClean(t *testing.T) {
	env := requireEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	result, err := env.sdkClient.Check(ctx, client.CheckRequest{
		Name:        "Xqzvbltrn",
		NiceClasses: []int{42},
		Countries:   []string{"DE"},
	})
	require.NoError(t, err)
	assert.NotEqual(t, trademark.RiskHigh, result.HighestRisk)
}

func TestVariantPreview(t *testing.T) {
	env := requireEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	variants, err := env.sdkClient.Variants(ctx, client.VariantsRequest{
		Name: "Katwik",
		Max:  8,
	})
	require.NoError(t, err)
	require.NotEmpty(t, variants)
	assert.Equal(t, trademark.VariantExact, variants[0].Kind)
	assert.LessOrEqual(t, len(variants), 8)
}

func TestOfficesLookup(t *testing.T) {
	env := requireEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	offices, err := env.sdkClient.Offices(ctx, "BE")
	require.NoError(t, err)
	assert.Equal(t, "BE", offices.Country)
	assert.False(t, offices.DirectRegister)

	var codes []string
	for _, o := range offices.Offices {
		codes = append(codes, o.Code)
	}
	assert.Contains(t, codes, "BX")
	assert.Contains(t, codes, "WO")
	assert.Contains(t, codes, "EU")
}

func TestValidationErrorSurfacesAPIError(t *testing.T) {
	env := requireEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err := env.sdkClient.Check(ctx, client.CheckRequest{
		Name:        "Altana",
		NiceClasses: []int{99},
	})
	require.Error(t, err)

	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsBadRequest())
	assert.NotEmpty(t, apiErr.Code)
}
