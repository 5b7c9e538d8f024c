package events

import (
	"github.com/ivanmalyshevv/weblarek/internal/event"
	"github.com/ivanmalyshevv/weblarek/internal/event/topic"
)

// Modal event topics. They are published on state transitions only.
const (
	TopicModalOpen  topic.Topic = "modal.open"
	TopicModalClose topic.Topic = "modal.close"
)

var (
	ModalOpenKey  = event.NewKey[Signal](TopicModalOpen)
	ModalCloseKey = event.NewKey[Signal](TopicModalClose)
)

// All lists every storefront topic.
var All = []topic.Topic{
	TopicCatalogChanged, TopicCatalogSelect, TopicCatalogRefresh,
	TopicPreviewChanged, TopicPreviewToggle,
	TopicBasketChanged, TopicBasketOpen, TopicBasketDelete,
	TopicOrderChanged, TopicFormErrorsChanged, TopicFormInputChange,
	TopicPaymentChange, TopicOrderOpen, TopicOrderSubmit, TopicContactsSubmit,
	TopicOrderFailed, TopicOrderFinished,
	TopicModalOpen, TopicModalClose,
}
