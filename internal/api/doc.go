// Package api is the client of the storefront's remote API.
//
//	GET  /product       the catalog
//	GET  /product/{id}  one product
//	POST /order         place an order
//
// Image paths returned by the API are made absolute against the CDN base
// URL. Catalog listings also rewrite the .svg extension to .png; single
// products keep the path as returned.
package api
