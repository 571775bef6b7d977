package dto

import "expense-log-be/pkg/listing"

// ListView is the generic table template context.
type ListView struct {
	*listing.Response
	Namespace string   `json:"namespace"`
	Entity    string   `json:"entity"`
	ListURL   string   `json:"list_url"`
	Target    string   `json:"target"`
	Controls  []string `json:"table_controls"`
	PageLimit int      `json:"page_limit"`
}
