// Package timezone holds the application clock location, configured through APP_TIMEZONE
// and loaded when the package is imported.
//
//	now := timezone.Now()
//	loc, err := timezone.Load("Europe/Berlin", cfg.Scheduling.DefaultTimezone)
//
// Only IANA zone names are accepted.
package timezone
