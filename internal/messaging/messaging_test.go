package messaging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/entity"
	"github.com/egannguyen/go-kafka-ecommerce/storefront/internal/messaging"
)

func TestEventType(t *testing.T) {
	assert.Equal(t, "PlaceOrder", messaging.EventType(entity.PlaceOrder{}))
	assert.Equal(t, "CartUpdated", messaging.EventType(entity.CartUpdated{}))
	assert.Equal(t, "FavoriteToggled", messaging.EventType(&entity.FavoriteToggled{}))
	assert.Empty(t, messaging.EventType(map[string]string{}))
}
