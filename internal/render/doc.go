// Package render turns the latest check cycle into the HTML status page and
// the console summary. Both are pure functions of their inputs.
package render
