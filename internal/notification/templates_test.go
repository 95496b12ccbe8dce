package notification

import (
	"testing"

	catalogdomain "github.com/dakshina-arts/boxoffice/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTemplateHolderDefaults(t *testing.T) {
	h, err := NewTemplateHolder(zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, int64(1), h.Resolve("event", AccessPhysical))
	assert.Equal(t, int64(2), h.Resolve("event", AccessOnline))
	assert.Equal(t, int64(3), h.Resolve("event", AccessZoom))
	assert.Equal(t, int64(4), h.Resolve("workshop", AccessPhysical))
	assert.Equal(t, int64(5), h.Resolve("workshop", AccessOnline))
	assert.Equal(t, int64(6), h.Resolve("workshop", AccessZoom))
}

func TestResolveUnknownItemTypeFallsBackToEvent(t *testing.T) {
	h, err := NewTemplateHolder(zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, int64(2), h.Resolve("something-else", AccessOnline))
}

func TestAccessClassForTier(t *testing.T) {
	assert.Equal(t, AccessPhysical, AccessClassForTier(catalogdomain.TicketTier{}))
	assert.Equal(t, AccessOnline, AccessClassForTier(catalogdomain.TicketTier{IsOnlineAccess: true}))
	assert.Equal(t, AccessZoom, AccessClassForTier(catalogdomain.TicketTier{IsZoomAccess: true}))

	// zoom takes precedence when both flags are set
	assert.Equal(t, AccessZoom, AccessClassForTier(catalogdomain.TicketTier{IsOnlineAccess: true, IsZoomAccess: true}))
}
