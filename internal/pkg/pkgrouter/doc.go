// Package pkgrouter wraps httprouter with the application's handler signature,
// middleware chain (panic recovery, correlation IDs, request logging), and
// response codecs. Handlers return a payload that is JSON encoded, or a
// *Binary for raw responses such as generated PDF reports; errors are mapped
// to {"error": message} bodies via pkgerror.
package pkgrouter
