// Package smm wraps the engagement boost panel. Orders are placed with a
// form-encoded "add" action and checked with a "status" action against a
// single API endpoint.
package smm
