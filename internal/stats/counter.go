// Package stats records increment-only daily hit counters for the pages and
// outcomes of the service.
package stats

// Counter names one hit counter.
type Counter string

const (
	Home      Counter = "home"
	Blank     Counter = "blank"
	Invalid   Counter = "invalid"
	Name      Counter = "name"
	Email     Counter = "email"
	Location  Counter = "location"
	TSInvalid Counter = "tsinvalid"
	TSOld     Counter = "tsold"
	Sig       Counter = "sig"
	Banned    Counter = "banned"
	Shorten   Counter = "shorten"
	Error     Counter = "error"
	Expand    Counter = "expand"
	View      Counter = "view"
	NotFound  Counter = "notfound"
)

// All lists every counter in display order.
var All = []Counter{
	Home, Blank, Invalid, Name, Email, Location, TSInvalid, TSOld, Sig,
	Banned, Shorten, Error, Expand, View, NotFound,
}
