// Package model defines stable boundary types for API layers.
//
// The CLI prints these as JSON; the field names are part of its output
// contract. Nothing here affects verification or snapshot encoding.
package model
