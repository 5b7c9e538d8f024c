package events

import (
	"github.com/ivanmalyshevv/weblarek/internal/event"
	"github.com/ivanmalyshevv/weblarek/internal/event/topic"
)

// Basket event topics.
const (
	// TopicBasketChanged is published after any basket mutation.
	TopicBasketChanged topic.Topic = "basket.changed"

	// TopicBasketOpen is published by the header basket button.
	TopicBasketOpen topic.Topic = "basket.open"

	// TopicBasketDelete is published by a basket card's delete button.
	TopicBasketDelete topic.Topic = "basket.delete"
)

var (
	BasketChangedKey = event.NewKey[Signal](TopicBasketChanged)
	BasketOpenKey    = event.NewKey[Signal](TopicBasketOpen)
	BasketDeleteKey  = event.NewKey[ItemRef](TopicBasketDelete)
)
