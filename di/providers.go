package di

import (
	"scheduler/infras/calendar"
	"scheduler/infras/calendar/caldav"
	"scheduler/infras/calendar/google"
)

// calendarProviders routes each owner connection to the provider it was made with.
func calendarProviders(googleProvider *google.Provider, caldavProvider *caldav.Provider) calendar.Provider {
	return calendar.Registry{
		calendar.ProviderGoogle: googleProvider,
		calendar.ProviderCalDAV: caldavProvider,
	}
}
