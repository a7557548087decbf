// Package whm is a client for the WHM JSON API of a hosting control panel.
// It fetches the domain list of every account and normalises each record's
// status and type. Certificates of the panel are not verified.
package whm
