package domain

// NotificationJob is the unit of work handed to the notification worker
// after a booking commits. Delivery is at least once; the worker must
// tolerate duplicates.
type NotificationJob struct {
	RecipientEmail string `json:"recipient_email"`
	EventName      string `json:"event_name"`
	Reference      string `json:"reference"`
}
