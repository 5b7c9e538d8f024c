// Package model defines the storefront's data types: catalog products, the
// order draft and the wire shapes exchanged with the remote API.
//
// Prices are decimal.NullDecimal. A null price marks a product that is not
// for sale, which is distinct from a zero price.
package model
