package worker

import (
	"github.com/wiitel/telecom-ticketing/internal/events"
	"github.com/wiitel/telecom-ticketing/internal/service"
)

// StartNotificationWorker subscribes the notifier's fan-out handlers.
func StartNotificationWorker(notifier *service.Notifier, dispatcher events.Dispatcher) {
	if notifier == nil || dispatcher == nil {
		return
	}
	notifier.Register(dispatcher)
}
