package events

import (
	"github.com/ivanmalyshevv/weblarek/internal/event"
	"github.com/ivanmalyshevv/weblarek/internal/event/topic"
	"github.com/ivanmalyshevv/weblarek/internal/model"
)

// Catalog event topics.
const (
	// TopicCatalogChanged is published when the catalog is replaced.
	TopicCatalogChanged topic.Topic = "catalog.changed"

	// TopicCatalogSelect is published when a catalog card is clicked.
	TopicCatalogSelect topic.Topic = "catalog.select"

	// TopicCatalogRefresh requests a reload of the catalog from the API.
	TopicCatalogRefresh topic.Topic = "catalog.refresh"

	// TopicPreviewChanged is published when the previewed product changes.
	TopicPreviewChanged topic.Topic = "preview.changed"

	// TopicPreviewToggle is published by the preview card's buy button.
	TopicPreviewToggle topic.Topic = "preview.toggle"
)

// CatalogChanged carries the new catalog.
type CatalogChanged struct {
	Items []model.Product
}

// PreviewChanged carries the full record of the previewed product.
type PreviewChanged struct {
	Product model.Product
}

// ItemRef identifies a product by id.
type ItemRef struct {
	ID string
}

var (
	CatalogChangedKey = event.NewKey[CatalogChanged](TopicCatalogChanged)
	CatalogSelectKey  = event.NewKey[ItemRef](TopicCatalogSelect)
	CatalogRefreshKey = event.NewKey[Signal](TopicCatalogRefresh)
	PreviewChangedKey = event.NewKey[PreviewChanged](TopicPreviewChanged)
	PreviewToggleKey  = event.NewKey[ItemRef](TopicPreviewToggle)
)
