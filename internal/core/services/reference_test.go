package services_test

import (
	"testing"

	"github.com/seatsync/ticketd/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReference_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		reference, err := services.NewReference()
		require.NoError(t, err)
		assert.Regexp(t, `^TKT-[A-Z0-9]{8}$`, reference)
	}
}

func TestNewReference_PairwiseDistinct(t *testing.T) {
	const n = 10000

	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		reference, err := services.NewReference()
		require.NoError(t, err)
		if _, dup := seen[reference]; dup {
			t.Fatalf("duplicate reference after %d generations: %s", i, reference)
		}
		seen[reference] = struct{}{}
	}
}
