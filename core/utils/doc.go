// Package utils provides common helpers for the category-manager application:
// loose type conversion for JSON values of unknown shape and a gjson/sjson
// backed JSON object used to edit files we only partly model without
// reordering or dropping their fields.
package utils
