// Package timezone anchors stay dates and activity slots to the hostel's local day.
//
// The location comes from APP_TIMEZONE and is loaded on first use. Check-in and
// check-out dates are calendar days, so comparisons go through StartOfDay in
// this location rather than the server clock.
package timezone
