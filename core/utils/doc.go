// Package utils provides loose type conversions for decoded JSON.
// The CRM and the site both return numbers as strings in some fields and as
// numbers in others; these helpers normalize either form.
package utils
