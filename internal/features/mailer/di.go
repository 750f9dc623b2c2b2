package mailer

import "accessly-backend/internal/config"

var mailService *MailService

func GetMailService() *MailService {
	if mailService == nil {
		env := config.GetEnv()
		mailService = NewMailService(&env)
	}

	return mailService
}
