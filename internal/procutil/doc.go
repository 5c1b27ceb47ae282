// Package procutil runs short-lived helper processes without flashing a
// console window and with bounded run time.
package procutil
