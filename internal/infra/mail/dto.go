package mail

type WelcomeEmailData struct {
	Name         string
	LoginURL     string
	Email        string
	TempPassword string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
