package templates

import (
	"time"
)

func newData(appName, name, email string) EmailData {
	if name == "" {
		name = email
	}
	return EmailData{
		Name:    name,
		Email:   email,
		AppName: appName,
		Time:    time.Now().UTC().Format("02 January 2006, 15:04"),
	}
}

// NewWelcomeData builds the payload for the registration email.
func NewWelcomeData(appName, name, email string) map[string]any {
	return ToMap(newData(appName, name, email))
}

// NewProfileUpdatedData builds the payload listing changed profile fields.
func NewProfileUpdatedData(appName, name, email string, changes map[string]string) map[string]any {
	d := newData(appName, name, email)
	d.Changes = changes
	return ToMap(d)
}
