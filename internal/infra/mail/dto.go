package mail

type PurchaseEmailData struct {
	Name        string
	ProductName string
}

type ReminderEmailData struct {
	Name         string
	ProductName  string
	CheckoutLink string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
}
