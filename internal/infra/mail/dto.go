package mail

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
}

type LeadNotificationData struct {
	Headline string
	Email    string
	Business string
	Source   string
}
