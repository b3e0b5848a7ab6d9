package service

import "fmt"

func welcomeEmailTemplate(name, dashboardURL, appName string) (string, string) {
	subject := fmt.Sprintf("Welcome to %s!", appName)
	body := fmt.Sprintf(`Hi %s,

Your account is ready. Log your first meal here:
%s

Best,
The %s Team`, name, dashboardURL, appName)

	return subject, body
}

func emailChangedTemplate(name, newEmail, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s email address was changed", appName)
	body := fmt.Sprintf(`Hi %s,

The email address of your %s account was changed to %s.

If you didn't make this change, contact us right away.

Best,
The %s Team`, name, appName, newEmail, appName)

	return subject, body
}

func passwordChangedTemplate(name, loginURL, appName string) (string, string) {
	subject := fmt.Sprintf("Your %s password was changed", appName)
	body := fmt.Sprintf(`Hi %s,

Your password was just changed. Sign in again with your new password:
%s

If you didn't make this change, contact us right away.

Best,
The %s Team`, name, loginURL, appName)

	return subject, body
}
