package rabbitmq

// Exchange имя exchange для почтовых уведомлений.
const Exchange = "notifications"

// Маршруты и очереди почтовых уведомлений.
const (
	VerificationRoutingKey = "email.verification"
	ReferralRoutingKey     = "email.referral"

	VerificationQueue = "emails.verification"
	ReferralQueue     = "emails.referral"
)

// QueueConfig описывает очередь и ее ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди почтовых уведомлений CashPlane.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: VerificationQueue, RoutingKey: VerificationRoutingKey},
		{QueueName: ReferralQueue, RoutingKey: ReferralRoutingKey},
	}
}
