// Package scheduling holds the availability and booking rules: slot generation
// from weekly windows, conflict filtering against bookings and busy periods,
// the booking-time overlap check and the approval state machine.
//
// Everything here is a pure function of its inputs. Persistence, calendars and
// notifications live in the domain services, which act on the Effects returned
// by the state machine.
package scheduling
