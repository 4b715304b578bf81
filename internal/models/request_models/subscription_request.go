package request_models

type VerifySubscriptionRequest struct {
	PurchaseToken string `json:"purchase_token" binding:"required"`
	ProductID     string `json:"subscription_product_id" binding:"required"`
	PackageName   string `json:"package_name" binding:"required"`
}

type ResyncSubscriptionRequest struct {
	PurchaseToken string `json:"purchase_token" binding:"required"`
}

// Google Play Real-Time Developer Notifications arrive wrapped in a
// Pub/Sub push envelope; the actual notification is base64 in Message.Data.
// Reference: https://developer.android.com/google/play/billing/rtdn-reference
type PubSubEnvelope struct {
	Message      PubSubMessage `json:"message"`
	Subscription string        `json:"subscription"`
}

type PubSubMessage struct {
	Data        string `json:"data"` // base64 encoded DeveloperNotification
	MessageID   string `json:"messageId"`
	PublishTime string `json:"publishTime"`
}

type DeveloperNotification struct {
	Version                  string                    `json:"version"`
	PackageName              string                    `json:"packageName"`
	EventTimeMillis          string                    `json:"eventTimeMillis"`
	SubscriptionNotification *SubscriptionNotification `json:"subscriptionNotification,omitempty"`
	TestNotification         *TestNotification         `json:"testNotification,omitempty"`
}

type SubscriptionNotification struct {
	Version          string `json:"version"`
	NotificationType int    `json:"notificationType"`
	PurchaseToken    string `json:"purchaseToken"`
	SubscriptionID   string `json:"subscriptionId"`
}

type TestNotification struct {
	Version string `json:"version"`
}
